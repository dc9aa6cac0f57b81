package models

import "time"

// Suggested expense categories. Category is free-form; these are the ones
// the dashboard and the seeder know about.
const (
	CategoryFood          = "Food"
	CategoryTransport     = "Transport"
	CategoryEntertainment = "Entertainment"
	CategoryShopping      = "Shopping"
	CategoryBills         = "Bills"
	CategoryHealthcare    = "Healthcare"
	CategoryOther         = "Other"
)

// Categories lists the known categories in display order.
var Categories = []string{
	CategoryFood,
	CategoryTransport,
	CategoryEntertainment,
	CategoryShopping,
	CategoryBills,
	CategoryHealthcare,
	CategoryOther,
}

// Expense is a single spend record owned by one user. Expenses are immutable.
type Expense struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"user"`
	Category    string    `json:"category"`
	Amount      Money     `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CategoryTotal is the spend and entry count of one category within a window.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    Money  `json:"total"`
	Count    int    `json:"count"`
}

// MonthlyAggregate is the derived spend of a user over one calendar month,
// [Start, End). It is computed on demand and never stored.
type MonthlyAggregate struct {
	UserID     string                   `json:"userId"`
	Start      time.Time                `json:"start"`
	End        time.Time                `json:"end"`
	Total      Money                    `json:"total"`
	ByCategory map[string]CategoryTotal `json:"byCategory"`
}

// MonthWindow returns the half-open window [first of ref's month, first of
// next month) evaluated in loc.
func MonthWindow(ref time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := ref.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
