package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/spiceroute/spiceroute-be/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeBody decodes a JSON request body into dst. A malformed or empty body
// is treated as an empty object, not a parse error; field validation happens
// afterwards in the handler. The decode is all-or-nothing so a truncated
// body cannot leave dst half-populated.
func decodeBody(r *http.Request, dst any) {
	if r.Body == nil {
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(data) {
		return
	}
	_ = json.Unmarshal(data, dst)
}

// respondServiceError maps the services sentinels onto HTTP statuses and
// keeps everything else a generic 500.
func respondServiceError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, services.ErrConflict):
		respondError(w, http.StatusConflict, "already exists")
	case errors.Is(err, services.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "database not configured")
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
