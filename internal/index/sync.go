package index

import (
	"encoding/json"
	"log/slog"

	"github.com/jinsol/rememberme/internal/checksum"
	"github.com/jinsol/rememberme/internal/journal"
	"github.com/jinsol/rememberme/internal/models"
)

// Change describes one index mutation produced by a sync pass.
// Kind is one of "created", "updated", "deleted".
type Change struct {
	Kind string
	ID   string
}

// Sync brings the index up to date with the journal:
//   - new or changed memories are upserted
//   - memories gone from the journal are deleted from the index
//
// The returned changes let the caller fan out notifications.
func Sync(db *DB, store *journal.Store, logger *slog.Logger) ([]Change, error) {
	memories := store.Memories()

	checksums, err := db.AllChecksums()
	if err != nil {
		return nil, err
	}

	var changes []Change
	seen := make(map[string]struct{}, len(memories))
	for _, m := range memories {
		seen[m.ID] = struct{}{}

		cs := RecordChecksum(m)
		prev, indexed := checksums[m.ID]
		if indexed && prev == cs {
			continue
		}

		if err := IndexMemory(db, m); err != nil {
			logger.Warn("sync: index failed", slog.String("id", m.ID), slog.String("error", err.Error()))
			continue
		}
		kind := "updated"
		if !indexed {
			kind = "created"
		}
		changes = append(changes, Change{Kind: kind, ID: m.ID})
		logger.Debug("sync: indexed", slog.String("id", m.ID), slog.String("kind", kind))
	}

	// Remove stale entries.
	for id := range checksums {
		if _, ok := seen[id]; ok {
			continue
		}
		if err := db.DeleteMemory(id); err != nil {
			logger.Warn("sync: delete failed", slog.String("id", id), slog.String("error", err.Error()))
			continue
		}
		changes = append(changes, Change{Kind: "deleted", ID: id})
		logger.Debug("sync: removed stale", slog.String("id", id))
	}

	return changes, nil
}

// IndexMemory upserts a single memory into the index.
func IndexMemory(db *DB, m models.Memory) error {
	return db.UpsertMemory(MemoryRow{
		ID:           m.ID,
		Title:        m.Title,
		Date:         m.Date,
		Type:         string(m.Type),
		AuthorID:     m.AuthorID,
		AuthorName:   m.AuthorName,
		Tags:         m.Tags,
		LikeCount:    len(m.Likes),
		CommentCount: len(m.Comments),
		Checksum:     RecordChecksum(m),
		CreatedAt:    m.CreatedAt,
	}, m.Content)
}

// RecordChecksum fingerprints a memory's serialized form. It doubles as the
// precondition token for conditional updates at the API layer.
func RecordChecksum(m models.Memory) string {
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return checksum.Sum(data)
}
