package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/jinsol/rememberme/internal/apperr"
)

// DefaultQuotaBytes caps a single stored value. Memories embed media as data
// URLs, so the cap is what keeps a runaway payload from filling the disk.
const DefaultQuotaBytes = 8 << 20 // 8 MB

var keyRe = regexp.MustCompile(`^[a-z0-9_]+$`)

// FS implements Provider backed by one file per key under a root directory.
type FS struct {
	root  string // absolute path to the journal data directory
	quota int    // max value size in bytes, 0 means DefaultQuotaBytes
}

// FSOption configures an FS provider.
type FSOption func(*FS)

// WithQuota overrides the per-value size cap.
func WithQuota(bytes int) FSOption {
	return func(f *FS) {
		f.quota = bytes
	}
}

// NewFS creates an FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string, opts ...FSOption) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	f := &FS{root: abs, quota: DefaultQuotaBytes}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// path maps a key to its backing file. Keys are fixed lowercase constants; a
// key with path separators or other filename-hostile characters is rejected
// so a bad caller can never escape the data directory.
func (f *FS) path(key string) (string, error) {
	if !keyRe.MatchString(key) {
		return "", fmt.Errorf("storage: invalid key: %q", key)
	}
	return filepath.Join(f.root, key+".json"), nil
}

// Get reads the full value for key.
func (f *FS) Get(key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoValue
		}
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return data, nil
}

// Set atomically writes value: tmp file → fsync → rename.
// Values over the quota are rejected with apperr.ErrQuotaExceeded before
// anything touches disk, so a failed write never partially applies.
func (f *FS) Set(key string, value []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if len(value) > f.quota {
		return fmt.Errorf("storage: value for %s is %d bytes (max %d): %w",
			key, len(value), f.quota, apperr.ErrQuotaExceeded)
	}

	tmp, err := os.CreateTemp(f.root, ".rememberme-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(value); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Remove deletes the value for key.
func (f *FS) Remove(key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove %s: %w", key, err)
	}
	return nil
}

// Root returns the absolute data directory (the watcher needs it).
func (f *FS) Root() string {
	return f.root
}
