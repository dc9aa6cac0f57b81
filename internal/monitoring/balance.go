// Package monitoring evaluates monthly balances and sends low-balance alerts.
package monitoring

import (
	"time"

	"github.com/isdelr/fintrack-be/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Evaluate derives what is left of salary after totalSpent. Remaining may be
// negative. The percentage is 0 when salary is 0.
func Evaluate(salary, totalSpent models.Money) models.BalanceEvaluation {
	remaining := salary.Sub(totalSpent)
	eval := models.BalanceEvaluation{
		Salary:     salary,
		TotalSpent: totalSpent,
		Remaining:  remaining,
	}
	if salary.IsPositive() {
		eval.PercentageRemaining = remaining.Mul(hundred).Div(salary).InexactFloat64()
	}
	return eval
}

// IsDue reports whether a user with the given remaining balance should be
// alerted now: remaining is under threshold and no alert went out earlier on
// now's calendar day in loc.
func IsDue(remaining, threshold models.Money, lastSentAt *time.Time, now time.Time, loc *time.Location) bool {
	if !remaining.LessThan(threshold) {
		return false
	}
	if lastSentAt == nil {
		return true
	}
	return !sameDay(*lastSentAt, now, loc)
}

// DayStart returns midnight of t's calendar day in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	return DayStart(a, loc).Equal(DayStart(b, loc))
}
