// Package storage defines the durable key-value slot the journal persists into.
package storage

import "errors"

// ErrNoValue is returned by Get when the key was never written.
var ErrNoValue = errors.New("storage: no value")

// Provider is the interface for durable key-value operations.
// Keys are fixed string constants owned by the journal store; values are
// whole serialized collections or scalars.
type Provider interface {
	// Get returns the stored value for key, or ErrNoValue if absent.
	Get(key string) ([]byte, error)
	// Set atomically replaces the value for key.
	Set(key string, value []byte) error
	// Remove deletes the value for key. Removing an absent key is not an error.
	Remove(key string) error
}
