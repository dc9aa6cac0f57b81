package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/isdelr/fintrack-be/internal/mail"
	"github.com/isdelr/fintrack-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

type dispatcherDeps struct {
	store    *notificationStoreMock
	sender   *senderMock
	events   *eventRecorderMock
	notifier *notifierMock
}

func newTestDispatcher(deps dispatcherDeps) *Dispatcher {
	if deps.events == nil {
		deps.events = &eventRecorderMock{CreateEventFunc: func(context.Context, string, string, string, *string) error { return nil }}
	}
	var sender mail.Sender
	if deps.sender != nil {
		sender = deps.sender
	}
	var push Notifier
	if deps.notifier != nil {
		push = deps.notifier
	}
	disp := NewDispatcher(deps.store, sender, deps.events, push, DispatcherOptions{
		Threshold:   d("10000"),
		FrontendURL: "https://app.example.com",
	})
	disp.now = func() time.Time { return testNow }
	return disp
}

func lowBalanceUser() (models.User, models.BalanceEvaluation) {
	user := models.User{ID: "u1", Name: "Asha", Email: "asha@example.com", Salary: d("50000")}
	return user, Evaluate(user.Salary, d("42000"))
}

func TestDispatcher_Sent(t *testing.T) {
	store := &notificationStoreMock{
		ClaimNotificationFunc: func(context.Context, string, time.Time, time.Time) (bool, error) { return true, nil },
	}
	sender := &senderMock{
		SendFunc: func(context.Context, string, string, string) (string, error) { return "<m1@example.com>", nil },
	}
	events := &eventRecorderMock{CreateEventFunc: func(context.Context, string, string, string, *string) error { return nil }}
	notify := &notifierMock{NotifyFunc: func(string, []byte) bool { return true }}

	user, eval := lowBalanceUser()
	res, err := newTestDispatcher(dispatcherDeps{store, sender, events, notify}).Dispatch(context.Background(), user, eval)
	require.NoError(t, err)

	assert.Equal(t, models.DispatchSent, res.Status)
	assert.Equal(t, "<m1@example.com>", res.MessageID)
	require.NotNil(t, res.SentAt)
	assert.Equal(t, testNow, *res.SentAt)

	claims := store.ClaimNotificationCalls()
	require.Len(t, claims, 1)
	assert.Equal(t, "u1", claims[0].UserID)
	assert.Equal(t, testNow, claims[0].At)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), claims[0].DayStart)

	sends := sender.SendCalls()
	require.Len(t, sends, 1)
	assert.Equal(t, "asha@example.com", sends[0].To)
	assert.Contains(t, sends[0].Subject, "16.0%")
	assert.Contains(t, sends[0].HTMLBody, "8,000")
	assert.Contains(t, sends[0].HTMLBody, "42,000")
	assert.Contains(t, sends[0].HTMLBody, "https://app.example.com/dashboard")

	recorded := events.CreateEventCalls()
	require.Len(t, recorded, 1)
	assert.Equal(t, EventAlertSent, recorded[0].EventType)
	require.NotNil(t, recorded[0].UserID)
	assert.Equal(t, "u1", *recorded[0].UserID)

	pushed := notify.NotifyCalls()
	require.Len(t, pushed, 1)
	assert.Equal(t, "u1", pushed[0].UserID)
	assert.Contains(t, string(pushed[0].Message), "low_balance_alert")
}

func TestDispatcher_SkippedWhenAlreadyClaimed(t *testing.T) {
	store := &notificationStoreMock{
		ClaimNotificationFunc: func(context.Context, string, time.Time, time.Time) (bool, error) { return false, nil },
	}
	sender := &senderMock{}

	user, eval := lowBalanceUser()
	res, err := newTestDispatcher(dispatcherDeps{store: store, sender: sender}).Dispatch(context.Background(), user, eval)
	require.NoError(t, err)
	assert.Equal(t, models.DispatchSkipped, res.Status)
	assert.Empty(t, sender.SendCalls())
}

func TestDispatcher_SendFailureReleasesClaim(t *testing.T) {
	previous := testNow.AddDate(0, 0, -3)
	store := &notificationStoreMock{
		ClaimNotificationFunc:   func(context.Context, string, time.Time, time.Time) (bool, error) { return true, nil },
		ReleaseNotificationFunc: func(context.Context, string, time.Time, *time.Time) error { return nil },
	}
	sender := &senderMock{
		SendFunc: func(context.Context, string, string, string) (string, error) { return "", errors.New("535 auth failed") },
	}
	events := &eventRecorderMock{CreateEventFunc: func(context.Context, string, string, string, *string) error { return nil }}
	notify := &notifierMock{}

	user, eval := lowBalanceUser()
	user.LastNotificationSent = &previous
	res, err := newTestDispatcher(dispatcherDeps{store, sender, events, notify}).Dispatch(context.Background(), user, eval)

	require.ErrorIs(t, err, ErrSendFailure)
	assert.Contains(t, err.Error(), "535 auth failed")
	assert.Equal(t, models.DispatchFailed, res.Status)

	releases := store.ReleaseNotificationCalls()
	require.Len(t, releases, 1)
	assert.Equal(t, "u1", releases[0].UserID)
	assert.Equal(t, testNow, releases[0].ClaimedAt)
	assert.Equal(t, &previous, releases[0].Previous)

	recorded := events.CreateEventCalls()
	require.Len(t, recorded, 1)
	assert.Equal(t, EventAlertFailed, recorded[0].EventType)
	assert.Equal(t, "error", recorded[0].Level)
	assert.Empty(t, notify.NotifyCalls())
}

func TestDispatcher_ClaimError(t *testing.T) {
	store := &notificationStoreMock{
		ClaimNotificationFunc: func(context.Context, string, time.Time, time.Time) (bool, error) {
			return false, errors.New("database is locked")
		},
	}
	user, eval := lowBalanceUser()
	res, err := newTestDispatcher(dispatcherDeps{store: store, sender: &senderMock{}}).Dispatch(context.Background(), user, eval)
	assert.ErrorIs(t, err, ErrQueryFailure)
	assert.Equal(t, models.DispatchFailed, res.Status)
}

func TestDispatcher_NoTransport(t *testing.T) {
	store := &notificationStoreMock{}
	disp := newTestDispatcher(dispatcherDeps{store: store})

	assert.ErrorIs(t, disp.Ready(), ErrConfigurationMissing)
	user, eval := lowBalanceUser()
	_, err := disp.Dispatch(context.Background(), user, eval)
	assert.ErrorIs(t, err, ErrConfigurationMissing)
	assert.Empty(t, store.ClaimNotificationCalls())
}
