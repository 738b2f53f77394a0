package api

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jinsol/rememberme/internal/journalservice"
	"github.com/jinsol/rememberme/internal/models"
)

// MemoryDetail is the full memory response type (aliased from the service layer).
type MemoryDetail = journalservice.MemoryDetail

// MemorySummary is a lightweight item in a list response (aliased from the service layer).
type MemorySummary = journalservice.MemorySummary

// CreateMemoryRequest is the request body for creating a memory.
// The store mints id, createdAt, likes and comments; callers never supply them.
type CreateMemoryRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Date       string   `json:"date"`
	Tags       []string `json:"tags"`
	Type       string   `json:"type"`
	MediaURL   *string  `json:"mediaUrl"`
	AuthorID   string   `json:"authorId"`
	AuthorName string   `json:"authorName"`
}

// Validate validates the creation request.
func (r CreateMemoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Type, validation.Required, validation.In(models.MediaTypes()...)),
		validation.Field(&r.AuthorID, validation.Required),
		validation.Field(&r.AuthorName, validation.Required),
	)
}

// Draft converts the request into a store draft.
func (r CreateMemoryRequest) Draft() models.MemoryDraft {
	return models.MemoryDraft{
		Title:      r.Title,
		Content:    r.Content,
		Date:       r.Date,
		Tags:       r.Tags,
		Type:       models.MediaType(r.Type),
		MediaURL:   r.MediaURL,
		AuthorID:   r.AuthorID,
		AuthorName: r.AuthorName,
	}
}

// UpdateMemoryRequest is a sparse patch body. Absent fields are left alone;
// mediaUrl distinguishes absent (untouched) from null (cleared) from a string
// (replaced). Likes and comments are not patchable here: they have their own
// endpoints.
type UpdateMemoryRequest struct {
	Title    *string         `json:"title"`
	Content  *string         `json:"content"`
	Date     *string         `json:"date"`
	Tags     *[]string       `json:"tags"`
	Type     *string         `json:"type"`
	MediaURL json.RawMessage `json:"mediaUrl"`
}

// Validate validates the patch request.
func (r UpdateMemoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.In(models.MediaTypes()...)),
	)
}

// Patch converts the request into a store patch.
func (r UpdateMemoryRequest) Patch() (models.MemoryPatch, error) {
	p := models.MemoryPatch{
		Title:   r.Title,
		Content: r.Content,
		Date:    r.Date,
		Tags:    r.Tags,
	}
	if r.Type != nil {
		t := models.MediaType(*r.Type)
		p.Type = &t
	}
	if len(r.MediaURL) > 0 {
		var v *string
		if err := json.Unmarshal(r.MediaURL, &v); err != nil {
			return p, fmt.Errorf("mediaUrl must be a string or null")
		}
		p.MediaURL = &v
	}
	return p, nil
}

// ToggleLikeRequest names the member whose like is flipped.
type ToggleLikeRequest struct {
	UserID string `json:"userId"`
}

// Validate validates the like request.
func (r ToggleLikeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
	)
}

// AddCommentRequest is the request body for appending a comment.
type AddCommentRequest struct {
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	Content    string `json:"content"`
}

// Validate validates the comment request.
func (r AddCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AuthorID, validation.Required),
		validation.Field(&r.AuthorName, validation.Required),
		validation.Field(&r.Content, validation.Required),
	)
}

// CreateFamilyMemberRequest is the request body for a new roster entry.
type CreateFamilyMemberRequest struct {
	Name         string  `json:"name"`
	Relationship string  `json:"relationship"`
	Avatar       *string `json:"avatar"`
}

// Validate validates the roster creation request.
func (r CreateFamilyMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Relationship, validation.Required),
	)
}

// UpdateFamilyMemberRequest is a sparse roster patch. Avatar follows the same
// absent/null/string tri-state as mediaUrl.
type UpdateFamilyMemberRequest struct {
	Name         *string         `json:"name"`
	Relationship *string         `json:"relationship"`
	Avatar       json.RawMessage `json:"avatar"`
}

// Validate validates the roster patch request (no field constraints; present
// fields may hold any value, including empty strings the store normalizes).
func (r UpdateFamilyMemberRequest) Validate() error {
	return nil
}

// Draft converts the request into a roster draft.
func (r CreateFamilyMemberRequest) Draft() models.FamilyMemberDraft {
	return models.FamilyMemberDraft{
		Name:         r.Name,
		Relationship: r.Relationship,
		Avatar:       r.Avatar,
	}
}

// Patch converts the request into a store patch.
func (r UpdateFamilyMemberRequest) Patch() (models.FamilyMemberPatch, error) {
	p := models.FamilyMemberPatch{
		Name:         r.Name,
		Relationship: r.Relationship,
	}
	if len(r.Avatar) > 0 {
		var v *string
		if err := json.Unmarshal(r.Avatar, &v); err != nil {
			return p, fmt.Errorf("avatar must be a string or null")
		}
		p.Avatar = &v
	}
	return p, nil
}

// CurrentUserRequest sets the acting member.
type CurrentUserRequest struct {
	UserID string `json:"userId"`
}

// Validate validates the current-user request.
func (r CurrentUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
	)
}

// ViewModeRequest persists the UI view preference.
type ViewModeRequest struct {
	Mode string `json:"mode"`
}

// Validate validates the view-mode request.
func (r ViewModeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Mode, validation.Required, validation.In("list", "thumbnail", "grid")),
	)
}

// APIKeyRequest stores the captioning credential.
type APIKeyRequest struct {
	APIKey string `json:"apiKey"`
}

// Validate validates the api-key request.
func (r APIKeyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.APIKey, validation.Required),
	)
}

// CaptionRequest asks the captioning integration for journal prose from
// either user text or an inlined image, never both.
type CaptionRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Image string `json:"image"`
}

// Validate validates the caption request.
func (r CaptionRequest) Validate() error {
	if (r.Text == "") == (r.Image == "") {
		return fmt.Errorf("exactly one of text or image is required")
	}
	return nil
}

// MemoryListResponse wraps paginated memory listings.
type MemoryListResponse struct {
	Memories []MemorySummary `json:"memories"`
	Total    int             `json:"total"`
}

// CaptionResponse carries generated prose.
type CaptionResponse struct {
	Content string `json:"content"`
}

// MediaUploadResponse is returned after converting an uploaded file into an
// embedded payload.
type MediaUploadResponse struct {
	DataURL string `json:"dataUrl"`
	MIME    string `json:"mime"`
	Size    int    `json:"size"`
}

// Draft converts the request into a comment draft.
func (r AddCommentRequest) Draft() models.CommentDraft {
	return models.CommentDraft{
		AuthorID:   r.AuthorID,
		AuthorName: r.AuthorName,
		Content:    r.Content,
	}
}
