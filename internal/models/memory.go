// Package models defines the domain types for the family journal.
package models

// MediaType classifies how a memory's payload is interpreted.
type MediaType string

// Supported memory media types.
const (
	MediaText  MediaType = "text"
	MediaImage MediaType = "image"
	MediaAudio MediaType = "audio"
	MediaVideo MediaType = "video"
)

// MediaTypes lists every valid media type as plain strings, the shape
// validation rules want.
func MediaTypes() []interface{} {
	return []interface{}{string(MediaText), string(MediaImage), string(MediaAudio), string(MediaVideo)}
}

// Memory is a single journaled entry.
//
// ID and CreatedAt are minted by the store and never change afterwards.
// Likes is semantically a set of family-member ids kept in insertion order.
// Comments is append-only in normal operation.
type Memory struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Date       string    `json:"date"`
	Tags       []string  `json:"tags"`
	Type       MediaType `json:"type"`
	MediaURL   *string   `json:"mediaUrl,omitempty"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  string    `json:"createdAt"`
	Likes      []string  `json:"likes"`
	Comments   []Comment `json:"comments"`
}

// Liked reports whether the given member id is in the likes set.
func (m *Memory) Liked(memberID string) bool {
	for _, id := range m.Likes {
		if id == memberID {
			return true
		}
	}
	return false
}

// Comment is a reply attached to a memory. ID and CreatedAt are store-minted.
type Comment struct {
	ID         string `json:"id"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
}

// FamilyMember is one roster entry.
type FamilyMember struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Relationship string  `json:"relationship"`
	Avatar       *string `json:"avatar,omitempty"`
}

// MemoryDraft carries the caller-supplied fields for a new memory.
// The store is responsible for id, createdAt, likes and comments.
type MemoryDraft struct {
	Title      string
	Content    string
	Date       string
	Tags       []string
	Type       MediaType
	MediaURL   *string
	AuthorID   string
	AuthorName string
}

// FamilyMemberDraft carries the caller-supplied fields for a new roster entry.
type FamilyMemberDraft struct {
	Name         string
	Relationship string
	Avatar       *string
}

// MemoryPatch is a sparse set of field changes for a memory.
//
// A nil field means "leave unchanged"; a present field overrides the stored
// value wholesale. Slices replace the existing slice, they are never merged.
// Immutable fields (id, createdAt) deliberately have no patch slot.
type MemoryPatch struct {
	Title      *string
	Content    *string
	Date       *string
	Tags       *[]string
	Type       *MediaType
	MediaURL   **string
	AuthorID   *string
	AuthorName *string
	Likes      *[]string
	Comments   *[]Comment
}

// FamilyMemberPatch is a sparse set of field changes for a roster entry.
// Avatar is doubly indirect so a patch can distinguish "leave alone" (nil)
// from "clear" (pointer to nil).
type FamilyMemberPatch struct {
	Name         *string
	Relationship *string
	Avatar       **string
}

// CommentDraft carries the caller-supplied fields for a new comment.
type CommentDraft struct {
	AuthorID   string
	AuthorName string
	Content    string
}
