package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness and echoes CORS settings.
type HealthHandler struct {
	db             pinger
	allowedOrigins []string
	now            func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db pinger, allowedOrigins []string) *HealthHandler {
	return &HealthHandler{db: db, allowedOrigins: allowedOrigins, now: time.Now}
}

// Health pings the database.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CORSTest echoes the request origin next to the configured allow list.
func (h *HealthHandler) CORSTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "CORS is working!",
		"allowedOrigins": h.allowedOrigins,
		"requestOrigin":  r.Header.Get("Origin"),
		"timestamp":      h.now().UTC().Format(time.RFC3339),
	})
}
