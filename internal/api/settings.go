package api

import (
	"net/http"
)

// GetCurrentUser handles GET /api/settings/current-user.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"userId": h.svc.Store().CurrentUserID(),
	})
}

// SetCurrentUser handles PUT /api/settings/current-user.
// The id is stored as-is, never validated against the roster.
func (h *Handler) SetCurrentUser(w http.ResponseWriter, r *http.Request) {
	var req CurrentUserRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Store().SetCurrentUserID(req.UserID); err != nil {
		writeServiceError(w, "set current user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"userId": req.UserID})
}

// GetViewMode handles GET /api/settings/view-mode.
func (h *Handler) GetViewMode(w http.ResponseWriter, r *http.Request) {
	mode := h.svc.Store().ViewMode()
	if mode == "" {
		mode = "list"
	}
	writeJSON(w, http.StatusOK, map[string]string{"mode": mode})
}

// SetViewMode handles PUT /api/settings/view-mode.
func (h *Handler) SetViewMode(w http.ResponseWriter, r *http.Request) {
	var req ViewModeRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Store().SetViewMode(req.Mode); err != nil {
		writeServiceError(w, "set view mode", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mode": req.Mode})
}

// GetAPIKeyStatus handles GET /api/settings/api-key.
// Only presence is reported; the credential itself never leaves the store.
func (h *Handler) GetAPIKeyStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"configured": h.svc.Store().HasAPIKey(),
	})
}

// SetAPIKey handles PUT /api/settings/api-key.
func (h *Handler) SetAPIKey(w http.ResponseWriter, r *http.Request) {
	var req APIKeyRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Store().SetAPIKey(req.APIKey); err != nil {
		writeServiceError(w, "set api key", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"configured": true})
}
