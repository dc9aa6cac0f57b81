package models

import "time"

// BalanceEvaluation is the derived state of a user's month: what is left of
// the salary and what share of it that is.
type BalanceEvaluation struct {
	Salary              Money   `json:"salary"`
	TotalSpent          Money   `json:"totalSpent"`
	Remaining           Money   `json:"remaining"`
	PercentageRemaining float64 `json:"percentageRemaining"`
}

// DispatchStatus is the outcome of one alert dispatch.
type DispatchStatus string

const (
	DispatchSent    DispatchStatus = "sent"
	DispatchFailed  DispatchStatus = "failed"
	DispatchSkipped DispatchStatus = "skipped" // already notified today
)

// DispatchResult reports what happened to one alert.
type DispatchResult struct {
	Status    DispatchStatus `json:"status"`
	MessageID string         `json:"messageId,omitempty"`
	SentAt    *time.Time     `json:"sentAt,omitempty"`
}

// PassSummary counts the outcomes of one evaluation pass.
type PassSummary struct {
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	Evaluated int           `json:"evaluated"`
	Due       int           `json:"due"`
	Sent      int           `json:"sent"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
}
