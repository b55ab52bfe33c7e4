package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/spiceroute/spiceroute-be/internal/auth"
	"github.com/spiceroute/spiceroute-be/internal/models"
	"github.com/spiceroute/spiceroute-be/internal/services"
)

// Matches the frontend's form validation.
const minPasswordLength = 6

// AdminHandler handles the admin console endpoints: editor account
// management and the audit trail. Every route here sits behind the
// admin-only guard.
type AdminHandler struct {
	accounts services.AccountServiceProvider
	events   services.EventServiceProvider
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(accounts services.AccountServiceProvider, events services.EventServiceProvider) *AdminHandler {
	return &AdminHandler{accounts: accounts, events: events}
}

// CreateEditorPayload defines the structure for editor creation requests.
type CreateEditorPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ListEditors returns all editor accounts.
func (h *AdminHandler) ListEditors(w http.ResponseWriter, r *http.Request) {
	editors, err := h.accounts.ListEditors(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list editors")
		respondError(w, http.StatusInternalServerError, "failed to retrieve editors")
		return
	}

	out := make([]models.AuthUser, 0, len(editors))
	for _, editor := range editors {
		out = append(out, editor.Public())
	}
	respondJSON(w, http.StatusOK, map[string]any{"editors": out})
}

// CreateEditor creates a new editor account. The role is fixed to editor.
func (h *AdminHandler) CreateEditor(w http.ResponseWriter, r *http.Request) {
	var payload CreateEditorPayload
	decodeBody(r, &payload)

	email := models.NormalizeEmail(payload.Email)
	if email == "" || !strings.Contains(email, "@") {
		respondError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(payload.Password) < minPasswordLength {
		respondError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	editor, err := h.accounts.CreateEditor(r.Context(), email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			respondError(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to create editor")
		respondServiceError(w, err, "editor not found")
		return
	}

	h.recordEvent(r, "editor.create", editor.Email, "added editor "+editor.Email)
	respondJSON(w, http.StatusCreated, map[string]any{"editor": editor.Public()})
}

// DeleteEditor removes an editor account. Deleting your own account is
// rejected even though only editor rows are deletable; the check keeps the
// failure mode explicit rather than a confusing 404.
func (h *AdminHandler) DeleteEditor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	caller := auth.CallerFrom(r.Context())
	if caller != nil && caller.ID == id {
		respondError(w, http.StatusBadRequest, "you cannot delete your own account")
		return
	}

	if err := h.accounts.DeleteEditor(r.Context(), id); err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			log.Error().Err(err).Str("account_id", id).Msg("Failed to delete editor")
		}
		respondServiceError(w, err, "editor not found")
		return
	}

	h.recordEvent(r, "editor.delete", id, "removed editor account")
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// ListEvents returns the most recent audit events.
func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.GetRecentEvents(r.Context(), 50)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list audit events")
		respondError(w, http.StatusInternalServerError, "failed to retrieve events")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *AdminHandler) recordEvent(r *http.Request, eventType, subject, message string) {
	actor := ""
	if caller := auth.CallerFrom(r.Context()); caller != nil {
		actor = caller.Email
	}
	h.events.Record(r.Context(), eventType, actor, subject, message)
}
