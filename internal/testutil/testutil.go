// Package testutil provides shared test helpers for setting up journals and databases.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/jinsol/rememberme/internal/index"
	"github.com/jinsol/rememberme/internal/journal"
	"github.com/jinsol/rememberme/internal/storage"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "rememberme-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestJournal creates a temporary data directory with a journal store on top.
func TestJournal(t *testing.T) (string, *journal.Store) {
	t.Helper()
	dataDir := t.TempDir()
	provider, err := storage.NewFS(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	return dataDir, journal.NewStore(provider, DiscardLogger())
}
