package handlers

import (
	"net/http"

	"github.com/isdelr/fintrack-be/internal/auth"
	"github.com/isdelr/fintrack-be/internal/services"
	"github.com/rs/zerolog/log"
)

// SeedHandler fills accounts with sample expenses.
type SeedHandler struct {
	service services.SeedServiceProvider
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(service services.SeedServiceProvider) *SeedHandler {
	return &SeedHandler{service: service}
}

// SeedMine replaces the caller's expenses with sample data.
func (h *SeedHandler) SeedMine(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	n, err := h.service.SeedExpenses(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to seed expenses")
		writeError(w, http.StatusInternalServerError, "Error seeding data")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Sample data seeded successfully",
		"count":   n,
	})
}

// SeedAll seeds every user.
func (h *SeedHandler) SeedAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.SeedAllUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to seed all users")
		writeError(w, http.StatusInternalServerError, "Error seeding data")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Sample data seeded for all users",
		"users":   n,
	})
}
