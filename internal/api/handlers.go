package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jinsol/rememberme/internal/ai"
	"github.com/jinsol/rememberme/internal/apperr"
	"github.com/jinsol/rememberme/internal/journalservice"
)

const maxBodyBytes = 10 << 20 // data URLs ride inside JSON bodies

// Handler holds API route handlers.
type Handler struct {
	svc *journalservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *journalservice.Service) *Handler {
	return &Handler{svc: svc}
}

// decode reads and validates a JSON request body.
func decode(w http.ResponseWriter, r *http.Request, dst interface{ Validate() error }) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	if err := dst.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return false
	}
	return true
}

// writeServiceError maps service errors onto status codes and user-facing
// messages. Store write failures are never swallowed: whatever is not a
// known kind surfaces as a 500 with the error logged.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody("checksum mismatch"))
	case errors.Is(err, apperr.ErrQuotaExceeded):
		writeJSON(w, http.StatusRequestEntityTooLarge,
			errorBody("not enough storage space; reduce the media size or choose a different file"))
	case errors.Is(err, apperr.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("storage is unavailable"))
	case errors.Is(err, apperr.ErrBadPayload):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, ai.ErrNoAPIKey):
		writeJSON(w, http.StatusBadRequest, errorBody("AI API key is not configured"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListMemories handles GET /api/memories.
//
//	@Summary		List memories with optional pagination and filtering
//	@Tags			memories
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			tag		query		string	false	"Filter by tag"
//	@Param			type	query		string	false	"Filter by media type"	Enums(text, image, audio, video)
//	@Param			sort	query		string	false	"Sort field"	Enums(date, created_at, title)
//	@Success		200		{object}	MemoryListResponse
//	@Security		BearerAuth
//	@Router			/memories [get]
func (h *Handler) ListMemories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.ListMemories(r.Context(), limit, offset, q.Get("tag"), q.Get("type"), q.Get("sort"))
	if err != nil {
		slog.Error("list memories failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if items == nil {
		items = []MemorySummary{}
	}
	writeJSON(w, http.StatusOK, MemoryListResponse{Memories: items, Total: total})
}

// GetMemory handles GET /api/memories/{id}.
//
//	@Summary		Get a single memory by id
//	@Tags			memories
//	@Produce		json
//	@Param			id	path		string	true	"Memory id"
//	@Success		200	{object}	MemoryDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/memories/{id} [get]
func (h *Handler) GetMemory(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.GetMemory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get memory", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// CreateMemory handles POST /api/memories.
//
//	@Summary		Create a new memory
//	@Tags			memories
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateMemoryRequest	true	"Memory to create"
//	@Success		201		{object}	MemoryDetail
//	@Failure		400		{object}	errResponse
//	@Failure		413		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/memories [post]
func (h *Handler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	var req CreateMemoryRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.svc.CreateMemory(r.Context(), req.Draft())
	if err != nil {
		writeServiceError(w, "create memory", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// UpdateMemory handles PUT /api/memories/{id}.
//
// The optional If-Match header carries the record checksum from a prior read;
// a mismatch answers 409 instead of silently overwriting a concurrent change.
//
//	@Summary		Patch a memory
//	@Tags			memories
//	@Accept			json
//	@Produce		json
//	@Param			id			path	string				true	"Memory id"
//	@Param			If-Match	header	string				false	"Record checksum for optimistic concurrency"
//	@Param			body		body	UpdateMemoryRequest	true	"Fields to change"
//	@Success		200		{object}	MemoryDetail
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/memories/{id} [put]
func (h *Handler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	var req UpdateMemoryRequest
	if !decode(w, r, &req) {
		return
	}
	patch, err := req.Patch()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	// Strip surrounding quotes if present (standard ETag format).
	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	m, err := h.svc.UpdateMemory(r.Context(), chi.URLParam(r, "id"), patch, ifMatch)
	if err != nil {
		writeServiceError(w, "update memory", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// DeleteMemory handles DELETE /api/memories/{id}.
//
//	@Summary		Delete a memory
//	@Tags			memories
//	@Param			id	path	string	true	"Memory id"
//	@Success		204	"Memory deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/memories/{id} [delete]
func (h *Handler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	removed, err := h.svc.DeleteMemory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "delete memory", err)
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike handles POST /api/memories/{id}/likes.
//
//	@Summary		Toggle a member's like on a memory
//	@Tags			memories
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Memory id"
//	@Param			body	body		ToggleLikeRequest	true	"Member whose like flips"
//	@Success		200		{object}	MemoryDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/memories/{id}/likes [post]
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	var req ToggleLikeRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.svc.ToggleLike(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		writeServiceError(w, "toggle like", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// AddComment handles POST /api/memories/{id}/comments.
//
//	@Summary		Append a comment to a memory
//	@Tags			memories
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Memory id"
//	@Param			body	body		AddCommentRequest	true	"Comment to append"
//	@Success		200		{object}	MemoryDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/memories/{id}/comments [post]
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req AddCommentRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.svc.AddComment(r.Context(), chi.URLParam(r, "id"), req.Draft())
	if err != nil {
		writeServiceError(w, "add comment", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across memories
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// Caption handles POST /api/caption.
//
//	@Summary		Draft memory prose from text or an inlined image
//	@Tags			caption
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CaptionRequest	true	"Text or image to caption"
//	@Success		200		{object}	CaptionResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/caption [post]
func (h *Handler) Caption(w http.ResponseWriter, r *http.Request) {
	var req CaptionRequest
	if !decode(w, r, &req) {
		return
	}

	var (
		content string
		err     error
	)
	if req.Image != "" {
		content, err = h.svc.CaptionImage(r.Context(), req.Image, req.Title)
	} else {
		content, err = h.svc.CaptionText(r.Context(), req.Text, req.Title)
	}
	if err != nil {
		if errors.Is(err, ai.ErrNoAPIKey) {
			writeJSON(w, http.StatusBadRequest, errorBody("AI API key is not configured"))
			return
		}
		// Captioning failures surface verbatim for the UI to display;
		// they are never retried here.
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, CaptionResponse{Content: content})
}
