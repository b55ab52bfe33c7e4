package handlers

import "net/http"

// HealthHandler reports service liveness and whether a database is
// provisioned, so a degraded deploy is diagnosable from the outside.
type HealthHandler struct {
	databaseConfigured bool
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(databaseConfigured bool) *HealthHandler {
	return &HealthHandler{databaseConfigured: databaseConfigured}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"database": h.databaseConfigured,
	})
}
