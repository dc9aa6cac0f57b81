package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/isdelr/fintrack-be/internal/mail"
	"github.com/isdelr/fintrack-be/internal/models"
)

var (
	_ notificationStore = &notificationStoreMock{}
	_ mail.Sender       = &senderMock{}
	_ eventRecorder     = &eventRecorderMock{}
	_ Notifier          = &notifierMock{}
	_ userStore         = &userStoreMock{}
	_ spendStore        = &spendStoreMock{}
	_ alertDispatcher   = &alertDispatcherMock{}
)

type notificationStoreMock struct {
	ClaimNotificationFunc   func(ctx context.Context, userID string, at, dayStart time.Time) (bool, error)
	ReleaseNotificationFunc func(ctx context.Context, userID string, claimedAt time.Time, previous *time.Time) error

	calls struct {
		ClaimNotification []struct {
			UserID   string
			At       time.Time
			DayStart time.Time
		}
		ReleaseNotification []struct {
			UserID    string
			ClaimedAt time.Time
			Previous  *time.Time
		}
	}
	lockClaimNotification   sync.RWMutex
	lockReleaseNotification sync.RWMutex
}

func (mock *notificationStoreMock) ClaimNotification(ctx context.Context, userID string, at, dayStart time.Time) (bool, error) {
	if mock.ClaimNotificationFunc == nil {
		panic("notificationStoreMock.ClaimNotificationFunc: method is nil but notificationStore.ClaimNotification was just called")
	}
	callInfo := struct {
		UserID   string
		At       time.Time
		DayStart time.Time
	}{UserID: userID, At: at, DayStart: dayStart}
	mock.lockClaimNotification.Lock()
	mock.calls.ClaimNotification = append(mock.calls.ClaimNotification, callInfo)
	mock.lockClaimNotification.Unlock()
	return mock.ClaimNotificationFunc(ctx, userID, at, dayStart)
}

func (mock *notificationStoreMock) ClaimNotificationCalls() []struct {
	UserID   string
	At       time.Time
	DayStart time.Time
} {
	mock.lockClaimNotification.RLock()
	calls := mock.calls.ClaimNotification
	mock.lockClaimNotification.RUnlock()
	return calls
}

func (mock *notificationStoreMock) ReleaseNotification(ctx context.Context, userID string, claimedAt time.Time, previous *time.Time) error {
	if mock.ReleaseNotificationFunc == nil {
		panic("notificationStoreMock.ReleaseNotificationFunc: method is nil but notificationStore.ReleaseNotification was just called")
	}
	callInfo := struct {
		UserID    string
		ClaimedAt time.Time
		Previous  *time.Time
	}{UserID: userID, ClaimedAt: claimedAt, Previous: previous}
	mock.lockReleaseNotification.Lock()
	mock.calls.ReleaseNotification = append(mock.calls.ReleaseNotification, callInfo)
	mock.lockReleaseNotification.Unlock()
	return mock.ReleaseNotificationFunc(ctx, userID, claimedAt, previous)
}

func (mock *notificationStoreMock) ReleaseNotificationCalls() []struct {
	UserID    string
	ClaimedAt time.Time
	Previous  *time.Time
} {
	mock.lockReleaseNotification.RLock()
	calls := mock.calls.ReleaseNotification
	mock.lockReleaseNotification.RUnlock()
	return calls
}

type senderMock struct {
	SendFunc func(ctx context.Context, to, subject, htmlBody string) (string, error)

	calls struct {
		Send []struct {
			To       string
			Subject  string
			HTMLBody string
		}
	}
	lockSend sync.RWMutex
}

func (mock *senderMock) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	if mock.SendFunc == nil {
		panic("senderMock.SendFunc: method is nil but Sender.Send was just called")
	}
	callInfo := struct {
		To       string
		Subject  string
		HTMLBody string
	}{To: to, Subject: subject, HTMLBody: htmlBody}
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, callInfo)
	mock.lockSend.Unlock()
	return mock.SendFunc(ctx, to, subject, htmlBody)
}

func (mock *senderMock) SendCalls() []struct {
	To       string
	Subject  string
	HTMLBody string
} {
	mock.lockSend.RLock()
	calls := mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}

type eventRecorderMock struct {
	CreateEventFunc func(ctx context.Context, eventType, level, message string, userID *string) error

	calls struct {
		CreateEvent []struct {
			EventType string
			Level     string
			Message   string
			UserID    *string
		}
	}
	lockCreateEvent sync.RWMutex
}

func (mock *eventRecorderMock) CreateEvent(ctx context.Context, eventType, level, message string, userID *string) error {
	if mock.CreateEventFunc == nil {
		panic("eventRecorderMock.CreateEventFunc: method is nil but eventRecorder.CreateEvent was just called")
	}
	callInfo := struct {
		EventType string
		Level     string
		Message   string
		UserID    *string
	}{EventType: eventType, Level: level, Message: message, UserID: userID}
	mock.lockCreateEvent.Lock()
	mock.calls.CreateEvent = append(mock.calls.CreateEvent, callInfo)
	mock.lockCreateEvent.Unlock()
	return mock.CreateEventFunc(ctx, eventType, level, message, userID)
}

func (mock *eventRecorderMock) CreateEventCalls() []struct {
	EventType string
	Level     string
	Message   string
	UserID    *string
} {
	mock.lockCreateEvent.RLock()
	calls := mock.calls.CreateEvent
	mock.lockCreateEvent.RUnlock()
	return calls
}

type notifierMock struct {
	NotifyFunc func(userID string, message []byte) bool

	calls struct {
		Notify []struct {
			UserID  string
			Message []byte
		}
	}
	lockNotify sync.RWMutex
}

func (mock *notifierMock) Notify(userID string, message []byte) bool {
	if mock.NotifyFunc == nil {
		panic("notifierMock.NotifyFunc: method is nil but Notifier.Notify was just called")
	}
	callInfo := struct {
		UserID  string
		Message []byte
	}{UserID: userID, Message: message}
	mock.lockNotify.Lock()
	mock.calls.Notify = append(mock.calls.Notify, callInfo)
	mock.lockNotify.Unlock()
	return mock.NotifyFunc(userID, message)
}

func (mock *notifierMock) NotifyCalls() []struct {
	UserID  string
	Message []byte
} {
	mock.lockNotify.RLock()
	calls := mock.calls.Notify
	mock.lockNotify.RUnlock()
	return calls
}

type userStoreMock struct {
	ListUsersFunc   func(ctx context.Context) ([]models.User, error)
	GetUserByIDFunc func(ctx context.Context, id string) (models.User, error)

	calls struct {
		ListUsers   []struct{}
		GetUserByID []struct {
			ID string
		}
	}
	lockListUsers   sync.RWMutex
	lockGetUserByID sync.RWMutex
}

func (mock *userStoreMock) ListUsers(ctx context.Context) ([]models.User, error) {
	if mock.ListUsersFunc == nil {
		panic("userStoreMock.ListUsersFunc: method is nil but userStore.ListUsers was just called")
	}
	mock.lockListUsers.Lock()
	mock.calls.ListUsers = append(mock.calls.ListUsers, struct{}{})
	mock.lockListUsers.Unlock()
	return mock.ListUsersFunc(ctx)
}

func (mock *userStoreMock) ListUsersCalls() []struct{} {
	mock.lockListUsers.RLock()
	calls := mock.calls.ListUsers
	mock.lockListUsers.RUnlock()
	return calls
}

func (mock *userStoreMock) GetUserByID(ctx context.Context, id string) (models.User, error) {
	if mock.GetUserByIDFunc == nil {
		panic("userStoreMock.GetUserByIDFunc: method is nil but userStore.GetUserByID was just called")
	}
	callInfo := struct{ ID string }{ID: id}
	mock.lockGetUserByID.Lock()
	mock.calls.GetUserByID = append(mock.calls.GetUserByID, callInfo)
	mock.lockGetUserByID.Unlock()
	return mock.GetUserByIDFunc(ctx, id)
}

func (mock *userStoreMock) GetUserByIDCalls() []struct{ ID string } {
	mock.lockGetUserByID.RLock()
	calls := mock.calls.GetUserByID
	mock.lockGetUserByID.RUnlock()
	return calls
}

type spendStoreMock struct {
	MonthlyTotalFunc func(ctx context.Context, userID string, ref time.Time) (models.MonthlyAggregate, error)

	calls struct {
		MonthlyTotal []struct {
			UserID string
			Ref    time.Time
		}
	}
	lockMonthlyTotal sync.RWMutex
}

func (mock *spendStoreMock) MonthlyTotal(ctx context.Context, userID string, ref time.Time) (models.MonthlyAggregate, error) {
	if mock.MonthlyTotalFunc == nil {
		panic("spendStoreMock.MonthlyTotalFunc: method is nil but spendStore.MonthlyTotal was just called")
	}
	callInfo := struct {
		UserID string
		Ref    time.Time
	}{UserID: userID, Ref: ref}
	mock.lockMonthlyTotal.Lock()
	mock.calls.MonthlyTotal = append(mock.calls.MonthlyTotal, callInfo)
	mock.lockMonthlyTotal.Unlock()
	return mock.MonthlyTotalFunc(ctx, userID, ref)
}

func (mock *spendStoreMock) MonthlyTotalCalls() []struct {
	UserID string
	Ref    time.Time
} {
	mock.lockMonthlyTotal.RLock()
	calls := mock.calls.MonthlyTotal
	mock.lockMonthlyTotal.RUnlock()
	return calls
}

type alertDispatcherMock struct {
	ReadyFunc    func() error
	DispatchFunc func(ctx context.Context, user models.User, eval models.BalanceEvaluation) (models.DispatchResult, error)

	calls struct {
		Dispatch []struct {
			User models.User
			Eval models.BalanceEvaluation
		}
	}
	lockDispatch sync.RWMutex
}

func (mock *alertDispatcherMock) Ready() error {
	if mock.ReadyFunc == nil {
		return nil
	}
	return mock.ReadyFunc()
}

func (mock *alertDispatcherMock) Dispatch(ctx context.Context, user models.User, eval models.BalanceEvaluation) (models.DispatchResult, error) {
	if mock.DispatchFunc == nil {
		panic("alertDispatcherMock.DispatchFunc: method is nil but alertDispatcher.Dispatch was just called")
	}
	callInfo := struct {
		User models.User
		Eval models.BalanceEvaluation
	}{User: user, Eval: eval}
	mock.lockDispatch.Lock()
	mock.calls.Dispatch = append(mock.calls.Dispatch, callInfo)
	mock.lockDispatch.Unlock()
	return mock.DispatchFunc(ctx, user, eval)
}

func (mock *alertDispatcherMock) DispatchCalls() []struct {
	User models.User
	Eval models.BalanceEvaluation
} {
	mock.lockDispatch.RLock()
	calls := mock.calls.Dispatch
	mock.lockDispatch.RUnlock()
	return calls
}
