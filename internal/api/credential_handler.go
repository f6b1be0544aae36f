package api

import (
	"log/slog"
	"net/http"

	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/service/auth"
	"github.com/nordvik/sagapay/internal/store"
)

// CredentialHandler serves the internal credential endpoint consumed by the
// registration coordinator. Behind the internal-secret middleware.
type CredentialHandler struct {
	credentials store.CredentialStore
	hasher      auth.PasswordHasher
}

// NewCredentialHandler creates a new CredentialHandler.
func NewCredentialHandler(credentials store.CredentialStore, hasher auth.PasswordHasher) *CredentialHandler {
	return &CredentialHandler{credentials: credentials, hasher: hasher}
}

// Create handles POST /credentials.
func (h *CredentialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCredentialRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := ValidateRequest(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	credential, err := domain.NewCredential(req.Handle, req.Secret)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid credential data: "+err.Error())
		return
	}

	hash, err := h.hasher.Hash(req.Secret)
	if err != nil {
		slog.Error("failed to hash secret", "error", err)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to create credential")
		return
	}
	credential.Secret = ""
	credential.SecretHash = hash

	if err := h.credentials.Create(r.Context(), credential); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, credential)
}
