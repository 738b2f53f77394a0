package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jinsol/rememberme/internal/apperr"
)

func tempFS(t *testing.T, opts ...FSOption) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir, opts...)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestSetAndGet(t *testing.T) {
	s := tempFS(t)
	content := []byte(`[{"id":"1"}]`)
	if err := s.Set("rememberme_memories", content); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get("rememberme_memories")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	s := tempFS(t)
	if _, err := s.Get("rememberme_memories"); !errors.Is(err, ErrNoValue) {
		t.Errorf("err = %v, want ErrNoValue", err)
	}
}

func TestRemove(t *testing.T) {
	s := tempFS(t)
	_ = s.Set("rememberme_ai_api_key", []byte("sk-test"))
	if err := s.Remove("rememberme_ai_api_key"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.Get("rememberme_ai_api_key"); !errors.Is(err, ErrNoValue) {
		t.Errorf("err after remove = %v, want ErrNoValue", err)
	}
}

func TestRemoveMissingKeyIsNoop(t *testing.T) {
	s := tempFS(t)
	if err := s.Remove("rememberme_family"); err != nil {
		t.Errorf("Remove on missing key should succeed: %v", err)
	}
}

func TestInvalidKeysRejected(t *testing.T) {
	s := tempFS(t)

	cases := []string{
		"../../etc/passwd",
		"../outside",
		"/etc/shadow",
		"Upper_Case",
		"with space",
		"",
	}
	for _, k := range cases {
		if _, err := s.Get(k); err == nil {
			t.Errorf("expected error for key %q", k)
		}
		if err := s.Set(k, []byte("x")); err == nil {
			t.Errorf("expected error for set of %q", k)
		}
	}
}

func TestQuotaExceeded(t *testing.T) {
	s := tempFS(t, WithQuota(16))
	err := s.Set("rememberme_memories", make([]byte, 17))
	if !errors.Is(err, apperr.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
	// An oversized write must not leave a partial value behind.
	if _, err := s.Get("rememberme_memories"); !errors.Is(err, ErrNoValue) {
		t.Errorf("value should be absent after rejected write, got err = %v", err)
	}
}

func TestQuotaPreservesOldValue(t *testing.T) {
	s := tempFS(t, WithQuota(16))
	old := []byte("small")
	_ = s.Set("rememberme_view_mode", old)
	if err := s.Set("rememberme_view_mode", make([]byte, 32)); err == nil {
		t.Fatal("expected quota error")
	}
	got, err := s.Get("rememberme_view_mode")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(old) {
		t.Errorf("old value clobbered: got %q", got)
	}
}

func TestAtomicWriteNoCorruption(t *testing.T) {
	// Verify that overwriting replaces the whole value and leaves no
	// temp files (the rename is atomic on POSIX).
	s := tempFS(t)
	_ = s.Set("rememberme_current_user", []byte(`"1"`))

	if err := s.Set("rememberme_current_user", []byte(`"2"`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ := s.Get("rememberme_current_user")
	if string(got) != `"2"` {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, ".rememberme-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestUnavailableProvider(t *testing.T) {
	var p Provider = Unavailable{}
	if _, err := p.Get("rememberme_memories"); !errors.Is(err, ErrNoValue) {
		t.Errorf("Get err = %v, want ErrNoValue", err)
	}
	if err := p.Set("rememberme_memories", []byte("[]")); !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("Set err = %v, want ErrUnavailable", err)
	}
	if err := p.Remove("rememberme_memories"); !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("Remove err = %v, want ErrUnavailable", err)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS("/tmp/rememberme-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "rememberme-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
