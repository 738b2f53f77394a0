package journal

import (
	"fmt"
	"strings"

	"github.com/jinsol/rememberme/internal/apperr"
	"github.com/jinsol/rememberme/internal/media"
	"github.com/jinsol/rememberme/internal/models"
	"github.com/jinsol/rememberme/internal/storage"
)

// FamilyMembers returns the roster. A never-written family key yields the
// seed roster; an explicitly emptied roster stays empty.
func (s *Store) FamilyMembers() []models.FamilyMember {
	var members []models.FamilyMember
	if !s.readCollection(KeyFamily, &members) {
		return SeedFamily()
	}
	if members == nil {
		members = []models.FamilyMember{}
	}
	return members
}

// FamilyMemberByID returns the roster entry with the given id, or nil.
func (s *Store) FamilyMemberByID(id string) *models.FamilyMember {
	for _, f := range s.FamilyMembers() {
		if f.ID == id {
			return &f
		}
	}
	return nil
}

// SaveFamilyMember mints and persists a new roster entry. A blank avatar is
// canonicalized to absent. The first write after a fresh install persists the
// seed roster together with the new member.
func (s *Store) SaveFamilyMember(d models.FamilyMemberDraft) (*models.FamilyMember, error) {
	members := s.FamilyMembers()

	f := models.FamilyMember{
		ID:           mintID(),
		Name:         d.Name,
		Relationship: d.Relationship,
		Avatar:       media.Normalize(d.Avatar),
	}

	members = append(members, f)
	if err := s.writeCollection(KeyFamily, members); err != nil {
		return nil, err
	}
	return &f, nil
}

// UpdateFamilyMember merges a sparse patch onto the stored entry. When the
// patch carries an avatar, blank values are canonicalized to absent. A
// missing id returns apperr.ErrNotFound without writing.
func (s *Store) UpdateFamilyMember(id string, patch models.FamilyMemberPatch) (*models.FamilyMember, error) {
	members := s.FamilyMembers()
	idx := -1
	for i := range members {
		if members[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("journal: family member %s: %w", id, apperr.ErrNotFound)
	}

	if patch.Avatar != nil {
		normalized := media.Normalize(*patch.Avatar)
		patch.Avatar = &normalized
	}
	patch.Apply(&members[idx])

	if err := s.writeCollection(KeyFamily, members); err != nil {
		return nil, err
	}
	updated := members[idx]
	return &updated, nil
}

// DeleteFamilyMember removes the entry with the given id. The current-user
// pointer is left alone even when it referenced the removed member.
func (s *Store) DeleteFamilyMember(id string) (bool, error) {
	members := s.FamilyMembers()
	filtered := members[:0:0]
	for _, f := range members {
		if f.ID != id {
			filtered = append(filtered, f)
		}
	}
	if len(filtered) == len(members) {
		return false, nil
	}
	if err := s.writeCollection(KeyFamily, filtered); err != nil {
		return false, err
	}
	return true, nil
}

// CurrentUserID returns the acting member's id, defaulting to the first seed
// member. The pointer is never validated against the roster: it may name a
// member that has since been deleted.
func (s *Store) CurrentUserID() string {
	data, err := s.p.Get(KeyCurrentUser)
	if err != nil || len(data) == 0 {
		return SeedUserID
	}
	return string(data)
}

// SetCurrentUserID unconditionally overwrites the current-user pointer.
func (s *Store) SetCurrentUserID(userID string) error {
	if err := s.p.Set(KeyCurrentUser, []byte(userID)); err != nil {
		return fmt.Errorf("journal: write %s: %w", KeyCurrentUser, err)
	}
	return nil
}

// APIKey returns the stored captioning credential, or "" when unset.
func (s *Store) APIKey() string {
	data, err := s.p.Get(KeyAPIKey)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetAPIKey stores the captioning credential.
func (s *Store) SetAPIKey(key string) error {
	if err := s.p.Set(KeyAPIKey, []byte(key)); err != nil {
		return fmt.Errorf("journal: write %s: %w", KeyAPIKey, err)
	}
	return nil
}

// HasAPIKey reports whether a non-empty captioning credential is stored.
func (s *Store) HasAPIKey() bool {
	return s.APIKey() != ""
}

// ViewMode returns the persisted UI view preference, or "" when unset.
// The value's meaning is owned by the UI; the store only keeps it.
func (s *Store) ViewMode() string {
	data, err := s.p.Get(KeyViewMode)
	if err != nil {
		return ""
	}
	return string(data)
}

// SetViewMode persists the UI view preference.
func (s *Store) SetViewMode(mode string) error {
	if err := s.p.Set(KeyViewMode, []byte(mode)); err != nil {
		return fmt.Errorf("journal: write %s: %w", KeyViewMode, err)
	}
	return nil
}

// Provider exposes the underlying storage provider (the watcher and tests
// need it).
func (s *Store) Provider() storage.Provider {
	return s.p
}
