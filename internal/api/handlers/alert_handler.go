package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/isdelr/fintrack-be/internal/auth"
	"github.com/isdelr/fintrack-be/internal/mail"
	"github.com/isdelr/fintrack-be/internal/models"
	"github.com/isdelr/fintrack-be/internal/monitoring"
	"github.com/isdelr/fintrack-be/internal/services"
	"github.com/rs/zerolog/log"
)

// manualPassTimeout bounds a pass started over HTTP once it is detached from
// the request.
const manualPassTimeout = 30 * time.Minute

// PassRunner runs a full evaluation pass.
type PassRunner interface {
	RunPass(ctx context.Context) (models.PassSummary, error)
}

// TestMailer sends the test email.
type TestMailer interface {
	Test(ctx context.Context, email string) (string, error)
}

// AlertHandler exposes the manual balance check and the mail test.
type AlertHandler struct {
	checker PassRunner
	events  services.EventServiceProvider
	mailer  TestMailer
}

// NewAlertHandler creates a new AlertHandler. A nil checker or mailer makes
// the matching endpoint answer 503.
func NewAlertHandler(checker PassRunner, events services.EventServiceProvider, mailer TestMailer) *AlertHandler {
	return &AlertHandler{checker: checker, events: events, mailer: mailer}
}

// CheckBalance runs an evaluation pass immediately and returns its summary.
// The pass runs to completion even if the client goes away.
func (h *AlertHandler) CheckBalance(w http.ResponseWriter, r *http.Request) {
	if h.checker == nil {
		writeError(w, http.StatusServiceUnavailable, "Balance checks are not configured")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), manualPassTimeout)
	defer cancel()

	summary, err := h.checker.RunPass(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Manual balance check failed")
		if errors.Is(err, monitoring.ErrConfigurationMissing) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Balance check failed")
		return
	}

	if h.events != nil {
		var actor *string
		if id, err := auth.UserIDFromContext(r.Context()); err == nil {
			actor = &id
		}
		msg := fmt.Sprintf("Manual balance check: %d evaluated, %d sent, %d failed", summary.Evaluated, summary.Sent, summary.Failed)
		if err := h.events.CreateEvent(ctx, "alert.pass.manual", "info", msg, actor); err != nil {
			log.Error().Err(err).Msg("Failed to record event")
		}
	}
	writeJSON(w, http.StatusOK, summary)
}

// SendTestMail sends the test email to the caller.
func (h *AlertHandler) SendTestMail(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	if h.mailer == nil {
		writeError(w, http.StatusServiceUnavailable, "Email service is not configured")
		return
	}

	messageID, err := h.mailer.Test(r.Context(), claims.Email)
	if err != nil {
		log.Error().Err(err).Str("email", claims.Email).Msg("Test email failed")
		if errors.Is(err, mail.ErrNoTransport) {
			writeError(w, http.StatusServiceUnavailable, "Email service is not configured")
			return
		}
		writeError(w, http.StatusBadGateway, "Test email failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "messageId": messageID})
}
