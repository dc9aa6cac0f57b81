package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/fintrack-be/internal/mail"
	"github.com/isdelr/fintrack-be/internal/models"
	"github.com/isdelr/fintrack-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// Event types recorded by the dispatcher.
const (
	EventAlertSent   = "alert.send.success"
	EventAlertFailed = "alert.send.fail"
)

type notificationStore interface {
	ClaimNotification(ctx context.Context, userID string, at, dayStart time.Time) (bool, error)
	ReleaseNotification(ctx context.Context, userID string, claimedAt time.Time, previous *time.Time) error
}

type eventRecorder interface {
	CreateEvent(ctx context.Context, eventType, level, message string, userID *string) error
}

// Notifier pushes a live message to a user's open connections.
type Notifier interface {
	Notify(userID string, message []byte) bool
}

// DispatcherOptions holds the presentation settings of alert emails.
type DispatcherOptions struct {
	Threshold   models.Money
	Location    *time.Location
	AppName     string
	FrontendURL string
}

// Dispatcher sends at most one low-balance email per user per calendar day.
type Dispatcher struct {
	store    notificationStore
	sender   mail.Sender
	events   eventRecorder
	notifier Notifier
	opts     DispatcherOptions
	now      func() time.Time
}

// NewDispatcher creates a Dispatcher. sender may be nil, in which case every
// dispatch fails with ErrConfigurationMissing. notifier may be nil.
func NewDispatcher(store notificationStore, sender mail.Sender, events eventRecorder, notifier Notifier, opts DispatcherOptions) *Dispatcher {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Dispatcher{
		store:    store,
		sender:   sender,
		events:   events,
		notifier: notifier,
		opts:     opts,
		now:      time.Now,
	}
}

// Ready reports ErrConfigurationMissing when no transport is configured.
func (d *Dispatcher) Ready() error {
	if d.sender == nil {
		return fmt.Errorf("%w: no mail transport", ErrConfigurationMissing)
	}
	return nil
}

// Dispatch claims today's notification slot for user and sends the alert.
// A user already notified today yields DispatchSkipped. When sending fails the
// claim is released so a later pass can retry.
func (d *Dispatcher) Dispatch(ctx context.Context, user models.User, eval models.BalanceEvaluation) (models.DispatchResult, error) {
	failed := models.DispatchResult{Status: models.DispatchFailed}
	if err := d.Ready(); err != nil {
		return failed, err
	}

	subject, body, err := mail.LowBalance(mail.LowBalanceData{
		AppName:      d.opts.AppName,
		Name:         user.Name,
		Salary:       eval.Salary,
		TotalSpent:   eval.TotalSpent,
		Remaining:    eval.Remaining,
		Percentage:   eval.PercentageRemaining,
		Threshold:    d.opts.Threshold,
		DashboardURL: mail.DashboardURL(d.opts.FrontendURL),
	})
	if err != nil {
		return failed, fmt.Errorf("%w: %w", ErrSendFailure, err)
	}

	now := d.now()
	claimed, err := d.store.ClaimNotification(ctx, user.ID, now, DayStart(now, d.opts.Location))
	if err != nil {
		return failed, fmt.Errorf("%w: %w", ErrQueryFailure, err)
	}
	if !claimed {
		log.Debug().Str("user_id", user.ID).Msg("Alert already sent today, skipping")
		return models.DispatchResult{Status: models.DispatchSkipped}, nil
	}

	messageID, err := d.sender.Send(ctx, user.Email, subject, body)
	if err != nil {
		// The request context may already be done; the release must still land.
		releaseCtx := context.WithoutCancel(ctx)
		if relErr := d.store.ReleaseNotification(releaseCtx, user.ID, now, user.LastNotificationSent); relErr != nil {
			log.Error().Err(relErr).Str("user_id", user.ID).Msg("Failed to release notification claim")
		}
		d.record(releaseCtx, EventAlertFailed, "error",
			fmt.Sprintf("Low balance alert to %s failed: %v", user.Email, err), user.ID)
		return failed, fmt.Errorf("%w: %w", ErrSendFailure, err)
	}

	log.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Str("remaining", eval.Remaining.String()).
		Str("message_id", messageID).
		Msg("Low balance alert sent")
	d.record(ctx, EventAlertSent, "info",
		fmt.Sprintf("Low balance alert sent to %s, remaining %s", user.Email, mail.FormatMoney(eval.Remaining)), user.ID)
	if d.notifier != nil {
		d.notifier.Notify(user.ID, websocket.NewAlertMessage(eval, messageID))
	}

	return models.DispatchResult{Status: models.DispatchSent, MessageID: messageID, SentAt: &now}, nil
}

func (d *Dispatcher) record(ctx context.Context, eventType, level, message, userID string) {
	if d.events == nil {
		return
	}
	if err := d.events.CreateEvent(ctx, eventType, level, message, &userID); err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("Failed to record event")
	}
}
