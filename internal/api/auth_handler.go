package api

import (
	"log/slog"
	"net/http"

	"github.com/nordvik/sagapay/internal/service/auth"
	"github.com/nordvik/sagapay/internal/service/registration"
	"github.com/nordvik/sagapay/internal/store"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	coordinator *registration.Coordinator
	credentials store.CredentialStore
	jwtService  auth.JWTService
	hasher      auth.PasswordHasher
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	coordinator *registration.Coordinator,
	credentials store.CredentialStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
) *AuthHandler {
	return &AuthHandler{
		coordinator: coordinator,
		credentials: credentials,
		jwtService:  jwtService,
		hasher:      hasher,
	}
}

// Register handles the /auth/register endpoint. It runs the registration
// saga and, when the saga commits, issues an access token for the fresh
// credential.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := ValidateRequest(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cards := make([]registration.Card, 0, len(req.Cards))
	for _, card := range req.Cards {
		cards = append(cards, registration.Card{
			Number:      card.Number,
			ExpiryMonth: card.ExpiryMonth,
			ExpiryYear:  card.ExpiryYear,
		})
	}

	profile, err := h.coordinator.Register(r.Context(), registration.Request{
		Name:      req.Name,
		Surname:   req.Surname,
		Birthdate: req.Birthdate,
		Email:     req.Email,
		Password:  req.Password,
		Cards:     cards,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := RegisterResponse{ProfileID: profile.ID, Email: profile.Email}

	// Token issuance is best-effort: the registration already committed, so
	// a lookup failure here still returns 201 and the user can log in.
	credential, err := h.credentials.GetByHandle(r.Context(), req.Email)
	if err != nil {
		slog.Warn("registered but credential lookup failed, skipping token", "error", err, "handle", req.Email)
		RespondWithJSON(w, r, http.StatusCreated, resp)
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), credential.ID, credential.Handle, credential.Roles)
	if err != nil {
		slog.Error("failed to generate token after registration", "error", err, "handle", req.Email)
		RespondWithJSON(w, r, http.StatusCreated, resp)
		return
	}

	resp.AccessToken = token
	RespondWithJSON(w, r, http.StatusCreated, resp)
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := ValidateRequest(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	credential, err := h.credentials.GetByHandle(r.Context(), req.Handle)
	if err != nil {
		// Unknown handle and wrong password are indistinguishable on purpose.
		HandleAPIError(w, r, auth.ErrInvalidCredentials)
		return
	}

	if err := h.hasher.Compare(credential.SecretHash, req.Password); err != nil {
		HandleAPIError(w, r, auth.ErrInvalidCredentials)
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), credential.ID, credential.Handle, credential.Roles)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "handle", req.Handle)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:      credential.ID,
		AccessToken: token,
	})
}
