package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListFamily handles GET /api/family.
//
//	@Summary		List the family roster (seeded on first use)
//	@Tags			family
//	@Produce		json
//	@Success		200	{array}	models.FamilyMember
//	@Security		BearerAuth
//	@Router			/family [get]
func (h *Handler) ListFamily(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.FamilyMembers(r.Context()))
}

// CreateFamilyMember handles POST /api/family.
//
//	@Summary		Add a roster entry
//	@Tags			family
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateFamilyMemberRequest	true	"Member to add"
//	@Success		201		{object}	models.FamilyMember
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/family [post]
func (h *Handler) CreateFamilyMember(w http.ResponseWriter, r *http.Request) {
	var req CreateFamilyMemberRequest
	if !decode(w, r, &req) {
		return
	}
	f, err := h.svc.CreateFamilyMember(r.Context(), req.Draft())
	if err != nil {
		writeServiceError(w, "create family member", err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// UpdateFamilyMember handles PUT /api/family/{id}.
//
//	@Summary		Patch a roster entry
//	@Tags			family
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Member id"
//	@Param			body	body		UpdateFamilyMemberRequest	true	"Fields to change"
//	@Success		200		{object}	models.FamilyMember
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/family/{id} [put]
func (h *Handler) UpdateFamilyMember(w http.ResponseWriter, r *http.Request) {
	var req UpdateFamilyMemberRequest
	if !decode(w, r, &req) {
		return
	}
	patch, err := req.Patch()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	f, err := h.svc.UpdateFamilyMember(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeServiceError(w, "update family member", err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// DeleteFamilyMember handles DELETE /api/family/{id}.
//
// Removing the member the current-user pointer names is allowed; the pointer
// is deliberately left dangling (the UI owns any guardrails).
//
//	@Summary		Remove a roster entry
//	@Tags			family
//	@Param			id	path	string	true	"Member id"
//	@Success		204	"Member removed"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/family/{id} [delete]
func (h *Handler) DeleteFamilyMember(w http.ResponseWriter, r *http.Request) {
	removed, err := h.svc.DeleteFamilyMember(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "delete family member", err)
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
