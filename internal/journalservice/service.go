// Package journalservice coordinates the record store, the search index and
// the captioning client behind one API for the HTTP and MCP surfaces.
package journalservice

import (
	"context"
	"fmt"

	"github.com/jinsol/rememberme/internal/ai"
	"github.com/jinsol/rememberme/internal/apperr"
	"github.com/jinsol/rememberme/internal/index"
	"github.com/jinsol/rememberme/internal/journal"
	"github.com/jinsol/rememberme/internal/models"
)

// MemoryDetail is the full representation of a memory plus its checksum,
// which doubles as the precondition token for conditional updates.
type MemoryDetail struct {
	models.Memory
	Checksum string `json:"checksum"`
}

// MemorySummary is a lightweight item in a list response.
type MemorySummary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	Type         string   `json:"type"`
	AuthorName   string   `json:"authorName"`
	Tags         []string `json:"tags"`
	LikeCount    int      `json:"likeCount"`
	CommentCount int      `json:"commentCount"`
	CreatedAt    string   `json:"createdAt"`
}

// Service coordinates store, index and captioning operations.
type Service struct {
	store  *journal.Store
	db     *index.DB
	aiOpts []ai.Option
}

// NewService creates a new journal service. aiOpts configure the captioning
// client built for each caption call (model, endpoint, token bound).
func NewService(store *journal.Store, db *index.DB, aiOpts ...ai.Option) *Service {
	return &Service{store: store, db: db, aiOpts: aiOpts}
}

// Store exposes the underlying record store.
func (s *Service) Store() *journal.Store {
	return s.store
}

// GetMemory returns one memory with its checksum.
func (s *Service) GetMemory(_ context.Context, id string) (*MemoryDetail, error) {
	m := s.store.MemoryByID(id)
	if m == nil {
		return nil, fmt.Errorf("memory %s: %w", id, apperr.ErrNotFound)
	}
	return detail(*m), nil
}

// ListMemories returns paginated memory summaries from the index, filtered
// by tag or media type and sorted by date, created_at or title.
func (s *Service) ListMemories(_ context.Context, limit, offset int, tag, mediaType, sort string) ([]MemorySummary, int, error) {
	rows, total, err := s.db.ListMemories(limit, offset, tag, mediaType, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]MemorySummary, len(rows))
	for i, r := range rows {
		items[i] = MemorySummary{
			ID:           r.ID,
			Title:        r.Title,
			Date:         r.Date,
			Type:         r.Type,
			AuthorName:   r.AuthorName,
			Tags:         r.Tags,
			LikeCount:    r.LikeCount,
			CommentCount: r.CommentCount,
			CreatedAt:    r.CreatedAt,
		}
	}
	return items, total, nil
}

// CreateMemory persists a new memory and indexes it.
func (s *Service) CreateMemory(_ context.Context, draft models.MemoryDraft) (*MemoryDetail, error) {
	m, err := s.store.SaveMemory(draft)
	if err != nil {
		return nil, err
	}
	if err := index.IndexMemory(s.db, *m); err != nil {
		return nil, err
	}
	return detail(*m), nil
}

// UpdateMemory applies a patch with optional optimistic concurrency: when
// ifMatch is non-empty and does not equal the stored record's checksum the
// update is rejected with apperr.ErrConflict. The store itself stays
// last-write-wins; this precondition is the opt-in protection for callers
// that care about the read-modify-write race.
func (s *Service) UpdateMemory(_ context.Context, id string, patch models.MemoryPatch, ifMatch string) (*MemoryDetail, error) {
	if ifMatch != "" {
		current := s.store.MemoryByID(id)
		if current == nil {
			return nil, fmt.Errorf("memory %s: %w", id, apperr.ErrNotFound)
		}
		if index.RecordChecksum(*current) != ifMatch {
			return nil, fmt.Errorf("memory %s: %w", id, apperr.ErrConflict)
		}
	}

	m, err := s.store.UpdateMemory(id, patch)
	if err != nil {
		return nil, err
	}
	if err := index.IndexMemory(s.db, *m); err != nil {
		return nil, err
	}
	return detail(*m), nil
}

// DeleteMemory removes a memory from the store and the index. The returned
// bool reports whether anything was removed.
func (s *Service) DeleteMemory(_ context.Context, id string) (bool, error) {
	removed, err := s.store.DeleteMemory(id)
	if err != nil {
		return false, err
	}
	if removed {
		if err := s.db.DeleteMemory(id); err != nil {
			return true, err
		}
	}
	return removed, nil
}

// ToggleLike flips a member's like on a memory.
func (s *Service) ToggleLike(_ context.Context, memoryID, userID string) (*MemoryDetail, error) {
	m, err := s.store.ToggleLike(memoryID, userID)
	if err != nil {
		return nil, err
	}
	if err := index.IndexMemory(s.db, *m); err != nil {
		return nil, err
	}
	return detail(*m), nil
}

// AddComment appends a comment to a memory.
func (s *Service) AddComment(_ context.Context, memoryID string, draft models.CommentDraft) (*MemoryDetail, error) {
	m, err := s.store.AddComment(memoryID, draft)
	if err != nil {
		return nil, err
	}
	if err := index.IndexMemory(s.db, *m); err != nil {
		return nil, err
	}
	return detail(*m), nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// FamilyMembers returns the roster (seeded on first use).
func (s *Service) FamilyMembers(_ context.Context) []models.FamilyMember {
	return s.store.FamilyMembers()
}

// CreateFamilyMember persists a new roster entry.
func (s *Service) CreateFamilyMember(_ context.Context, draft models.FamilyMemberDraft) (*models.FamilyMember, error) {
	return s.store.SaveFamilyMember(draft)
}

// UpdateFamilyMember applies a roster patch.
func (s *Service) UpdateFamilyMember(_ context.Context, id string, patch models.FamilyMemberPatch) (*models.FamilyMember, error) {
	return s.store.UpdateFamilyMember(id, patch)
}

// DeleteFamilyMember removes a roster entry. The current-user pointer is
// never touched, even when it referenced the removed member.
func (s *Service) DeleteFamilyMember(_ context.Context, id string) (bool, error) {
	return s.store.DeleteFamilyMember(id)
}

// CaptionImage drafts journal prose from an inlined image. The stored
// credential gates availability: no key means ai.ErrNoAPIKey before any
// network I/O.
func (s *Service) CaptionImage(ctx context.Context, image, title string) (string, error) {
	client, err := s.captioner()
	if err != nil {
		return "", err
	}
	return client.CaptionImage(ctx, image, title)
}

// CaptionText polishes user text into journal prose.
func (s *Service) CaptionText(ctx context.Context, text, title string) (string, error) {
	client, err := s.captioner()
	if err != nil {
		return "", err
	}
	return client.PolishText(ctx, text, title)
}

func (s *Service) captioner() (*ai.Client, error) {
	return ai.New(s.store.APIKey(), s.aiOpts...)
}

func detail(m models.Memory) *MemoryDetail {
	return &MemoryDetail{Memory: m, Checksum: index.RecordChecksum(m)}
}
