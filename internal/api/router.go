package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jinsol/rememberme/internal/journalservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *journalservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Memories CRUD plus likes and comments.
	r.Get("/memories", h.ListMemories)
	r.Post("/memories", h.CreateMemory)
	r.Get("/memories/{id}", h.GetMemory)
	r.Put("/memories/{id}", h.UpdateMemory)
	r.Delete("/memories/{id}", h.DeleteMemory)
	r.Post("/memories/{id}/likes", h.ToggleLike)
	r.Post("/memories/{id}/comments", h.AddComment)

	// Family roster.
	r.Get("/family", h.ListFamily)
	r.Post("/family", h.CreateFamilyMember)
	r.Put("/family/{id}", h.UpdateFamilyMember)
	r.Delete("/family/{id}", h.DeleteFamilyMember)

	// Scalar settings.
	r.Get("/settings/current-user", h.GetCurrentUser)
	r.Put("/settings/current-user", h.SetCurrentUser)
	r.Get("/settings/view-mode", h.GetViewMode)
	r.Put("/settings/view-mode", h.SetViewMode)
	r.Get("/settings/api-key", h.GetAPIKeyStatus)
	r.Put("/settings/api-key", h.SetAPIKey)

	// Search.
	r.Get("/search", h.Search)

	// Captioning integration.
	r.Post("/caption", h.Caption)

	// Media intake (auth-protected).
	r.Post("/media", h.UploadMedia)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
