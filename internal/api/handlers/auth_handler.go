package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spiceroute/spiceroute-be/internal/auth"
	"github.com/spiceroute/spiceroute-be/internal/services"
)

// AuthHandler handles login and identity requests.
type AuthHandler struct {
	accounts services.AccountServiceProvider
	secret   string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts services.AccountServiceProvider, secret string) *AuthHandler {
	return &AuthHandler{accounts: accounts, secret: secret}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an account and issues a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	decodeBody(r, &payload)

	if payload.Email == "" || payload.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if h.secret == "" {
		respondError(w, http.StatusServiceUnavailable, "authentication is not configured")
		return
	}

	account, err := h.accounts.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Error().Err(err).Msg("Authentication lookup failed")
		respondServiceError(w, err, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(account, h.secret)
	if err != nil {
		log.Error().Err(err).Str("account_id", account.ID).Msg("Failed to generate token")
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  account.Public(),
	})
}

// Me echoes the identity the guard resolved for this request.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account := auth.CallerFrom(r.Context())
	if account == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": account.Public()})
}
