// Package journal implements the durable record store for the family journal:
// the memory collection, the family roster, and the handful of scalar
// settings, each held whole under a fixed storage key as JSON.
//
// Every operation is a synchronous read-transform-write over one full
// collection. There is no lock or versioning: two overlapping writers (a
// second process sharing the data directory, two near-simultaneous calls)
// can race read-modify-write style, and the second write wins. That matches
// the storage contract this journal was built around; callers that need
// stale-write rejection use the checksum precondition at the API layer.
package journal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jinsol/rememberme/internal/apperr"
	"github.com/jinsol/rememberme/internal/media"
	"github.com/jinsol/rememberme/internal/models"
	"github.com/jinsol/rememberme/internal/storage"
)

// Storage keys. Values are whole serialized collections or scalars.
const (
	KeyMemories    = "rememberme_memories"
	KeyFamily      = "rememberme_family"
	KeyCurrentUser = "rememberme_current_user"
	KeyAPIKey      = "rememberme_ai_api_key"
	KeyViewMode    = "rememberme_view_mode"
)

// SeedUserID is the current-user default before anyone has been selected:
// the first seed roster member.
const SeedUserID = "1"

// SeedFamily returns the bootstrap roster used when the family key was never
// written. A fresh slice is returned on every call so callers can't alias
// the seed. An explicitly emptied roster is stored as [] and stays empty.
func SeedFamily() []models.FamilyMember {
	return []models.FamilyMember{
		{ID: "1", Name: "할머니", Relationship: "본인"},
		{ID: "2", Name: "아들", Relationship: "자녀"},
		{ID: "3", Name: "딸", Relationship: "자녀"},
	}
}

// Store is the journal record store.
type Store struct {
	p   storage.Provider
	log *slog.Logger
}

// NewStore creates a Store over the given provider.
func NewStore(p storage.Provider, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{p: p, log: logger}
}

// readCollection deserializes the collection under key into out.
// Absent keys and unreadable or corrupt values all degrade to the caller's
// default: an empty or seed collection is always a valid journal state, so
// reads never fail. Corruption is logged rather than masked silently.
func (s *Store) readCollection(key string, out any) bool {
	data, err := s.p.Get(key)
	if err != nil {
		if err != storage.ErrNoValue {
			s.log.Warn("journal: read failed, using defaults",
				slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.log.Warn("journal: corrupt collection, using defaults",
			slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

// writeCollection serializes v and commits it under key in a single Set.
// Serialization is checked before storage is touched, so a failed write
// never leaves a partially applied value behind.
func (s *Store) writeCollection(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("journal: serialize %s: %w", key, err)
	}
	if err := s.p.Set(key, data); err != nil {
		return fmt.Errorf("journal: write %s: %w", key, err)
	}
	return nil
}

func mintID() string {
	return uuid.NewString()
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Memories returns the full memory collection, oldest first.
// The collection is deserialized from storage on every call.
func (s *Store) Memories() []models.Memory {
	var memories []models.Memory
	s.readCollection(KeyMemories, &memories)
	if memories == nil {
		memories = []models.Memory{}
	}
	return memories
}

// MemoryByID returns the memory with the given id, or nil when absent.
func (s *Store) MemoryByID(id string) *models.Memory {
	for _, m := range s.Memories() {
		if m.ID == id {
			return &m
		}
	}
	return nil
}

// SaveMemory mints and persists a new memory from the draft. The store owns
// id, createdAt and the initially empty likes and comments; an empty or blank
// media payload is canonicalized to absent before anything is written.
func (s *Store) SaveMemory(d models.MemoryDraft) (*models.Memory, error) {
	memories := s.Memories()

	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	m := models.Memory{
		ID:         mintID(),
		Title:      d.Title,
		Content:    d.Content,
		Date:       d.Date,
		Tags:       tags,
		Type:       d.Type,
		MediaURL:   media.Normalize(d.MediaURL),
		AuthorID:   d.AuthorID,
		AuthorName: d.AuthorName,
		CreatedAt:  nowStamp(),
		Likes:      []string{},
		Comments:   []models.Comment{},
	}

	memories = append(memories, m)
	if err := s.writeCollection(KeyMemories, memories); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMemory merges a sparse patch onto the stored memory and persists the
// whole collection. A missing id returns apperr.ErrNotFound without writing.
func (s *Store) UpdateMemory(id string, patch models.MemoryPatch) (*models.Memory, error) {
	memories := s.Memories()
	idx := -1
	for i := range memories {
		if memories[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("journal: memory %s: %w", id, apperr.ErrNotFound)
	}

	patch.Apply(&memories[idx])
	if err := s.writeCollection(KeyMemories, memories); err != nil {
		return nil, err
	}
	updated := memories[idx]
	return &updated, nil
}

// DeleteMemory removes the memory with the given id. The returned bool
// reports whether the collection actually shrank.
func (s *Store) DeleteMemory(id string) (bool, error) {
	memories := s.Memories()
	filtered := memories[:0:0]
	for _, m := range memories {
		if m.ID != id {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) == len(memories) {
		return false, nil
	}
	if err := s.writeCollection(KeyMemories, filtered); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleLike flips userID's membership in the memory's likes set and
// persists through UpdateMemory. Two sequential calls with the same
// arguments restore the original set.
func (s *Store) ToggleLike(memoryID, userID string) (*models.Memory, error) {
	m := s.MemoryByID(memoryID)
	if m == nil {
		return nil, fmt.Errorf("journal: memory %s: %w", memoryID, apperr.ErrNotFound)
	}

	likes := make([]string, 0, len(m.Likes)+1)
	found := false
	for _, id := range m.Likes {
		if id == userID {
			found = true
			continue
		}
		likes = append(likes, id)
	}
	if !found {
		likes = append(likes, userID)
	}
	return s.UpdateMemory(memoryID, models.MemoryPatch{Likes: &likes})
}

// AddComment mints a comment from the draft and appends it to the memory's
// comment sequence, preserving prior order.
func (s *Store) AddComment(memoryID string, d models.CommentDraft) (*models.Memory, error) {
	m := s.MemoryByID(memoryID)
	if m == nil {
		return nil, fmt.Errorf("journal: memory %s: %w", memoryID, apperr.ErrNotFound)
	}

	comments := append(append([]models.Comment{}, m.Comments...), models.Comment{
		ID:         mintID(),
		AuthorID:   d.AuthorID,
		AuthorName: d.AuthorName,
		Content:    d.Content,
		CreatedAt:  nowStamp(),
	})
	return s.UpdateMemory(memoryID, models.MemoryPatch{Comments: &comments})
}
