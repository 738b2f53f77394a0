package storage

import (
	"fmt"

	"github.com/jinsol/rememberme/internal/apperr"
)

// Unavailable is a Provider for execution contexts with no durable storage
// (one-shot CLI invocations pointed at nothing, tests). Reads report no value
// so the journal degrades to its defaults; writes fail fast rather than
// silently dropping data.
type Unavailable struct{}

// Get always reports an absent value.
func (Unavailable) Get(string) ([]byte, error) { return nil, ErrNoValue }

// Set always fails with apperr.ErrUnavailable.
func (Unavailable) Set(key string, _ []byte) error {
	return fmt.Errorf("storage: set %s: %w", key, apperr.ErrUnavailable)
}

// Remove always fails with apperr.ErrUnavailable.
func (Unavailable) Remove(key string) error {
	return fmt.Errorf("storage: remove %s: %w", key, apperr.ErrUnavailable)
}
