package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/store"
)

// ProfileHandler serves the internal profile endpoints consumed by the
// registration coordinator. The routes sit behind the internal-secret
// middleware; they are never exposed to end users.
type ProfileHandler struct {
	profiles store.ProfileStore
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles store.ProfileStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Create handles POST /profiles.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := ValidateRequest(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	profile, err := domain.NewProfile(req.Name, req.Surname, req.Birthdate, req.Email)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid profile data: "+err.Error())
		return
	}

	if err := h.profiles.Create(r.Context(), profile); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, profile)
}

// Get handles GET /profiles/{id}.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid profile ID")
		return
	}

	profile, err := h.profiles.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, profile)
}

// Delete handles DELETE /profiles/{id}, the compensation path of the
// registration saga.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid profile ID")
		return
	}

	if err := h.profiles.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusNoContent, nil)
}
