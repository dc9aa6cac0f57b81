package monitoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/isdelr/fintrack-be/internal/models"
	"github.com/rs/zerolog/log"
)

type userStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

type spendStore interface {
	MonthlyTotal(ctx context.Context, userID string, ref time.Time) (models.MonthlyAggregate, error)
}

type alertDispatcher interface {
	Ready() error
	Dispatch(ctx context.Context, user models.User, eval models.BalanceEvaluation) (models.DispatchResult, error)
}

// BalanceChecker runs evaluation passes over users.
type BalanceChecker struct {
	users      userStore
	expenses   spendStore
	dispatcher alertDispatcher
	threshold  models.Money
	loc        *time.Location
	now        func() time.Time

	// One pass at a time per process; the claim in the store covers other processes.
	mu sync.Mutex
}

// NewBalanceChecker creates a BalanceChecker.
func NewBalanceChecker(users userStore, expenses spendStore, dispatcher alertDispatcher, threshold models.Money, loc *time.Location) *BalanceChecker {
	if loc == nil {
		loc = time.UTC
	}
	return &BalanceChecker{
		users:      users,
		expenses:   expenses,
		dispatcher: dispatcher,
		threshold:  threshold,
		loc:        loc,
		now:        time.Now,
	}
}

func (c *BalanceChecker) ready() error {
	if !c.threshold.IsPositive() {
		return fmt.Errorf("%w: threshold must be positive", ErrConfigurationMissing)
	}
	if c.dispatcher == nil {
		return fmt.Errorf("%w: no dispatcher", ErrConfigurationMissing)
	}
	return c.dispatcher.Ready()
}

// RunPass evaluates every user once. A failure for one user is logged and
// counted but does not stop the pass.
func (c *BalanceChecker) RunPass(ctx context.Context) (summary models.PassSummary, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	summary.StartedAt = c.now()
	defer func() { summary.Duration = time.Since(start) }()

	if err := c.ready(); err != nil {
		return summary, err
	}

	users, err := c.users.ListUsers(ctx)
	if err != nil {
		return summary, fmt.Errorf("%w: list users: %w", ErrQueryFailure, err)
	}

	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := c.check(ctx, user, summary.StartedAt, &summary); err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Str("email", user.Email).Msg("Balance check failed")
		}
	}

	log.Info().
		Int("evaluated", summary.Evaluated).
		Int("due", summary.Due).
		Int("sent", summary.Sent).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("Balance check pass complete")
	return summary, nil
}

// CheckUser runs the same pipeline for a single user.
func (c *BalanceChecker) CheckUser(ctx context.Context, userID string) (summary models.PassSummary, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	summary.StartedAt = c.now()
	defer func() { summary.Duration = time.Since(start) }()

	if err := c.ready(); err != nil {
		return summary, err
	}

	user, err := c.users.GetUserByID(ctx, userID)
	if err != nil {
		return summary, fmt.Errorf("%w: %w", ErrQueryFailure, err)
	}
	err = c.check(ctx, user, summary.StartedAt, &summary)
	return summary, err
}

func (c *BalanceChecker) check(ctx context.Context, user models.User, now time.Time, summary *models.PassSummary) error {
	agg, err := c.expenses.MonthlyTotal(ctx, user.ID, now)
	if err != nil {
		summary.Failed++
		return fmt.Errorf("%w: %w", ErrQueryFailure, err)
	}

	eval := Evaluate(user.Salary, agg.Total)
	summary.Evaluated++
	if !IsDue(eval.Remaining, c.threshold, user.LastNotificationSent, now, c.loc) {
		return nil
	}
	summary.Due++

	result, err := c.dispatcher.Dispatch(ctx, user, eval)
	switch result.Status {
	case models.DispatchSent:
		summary.Sent++
	case models.DispatchSkipped:
		summary.Skipped++
	default:
		summary.Failed++
	}
	return err
}
