package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/isdelr/fintrack-be/internal/auth"
	"github.com/isdelr/fintrack-be/internal/models"
	"github.com/isdelr/fintrack-be/internal/monitoring"
	"github.com/isdelr/fintrack-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserChecker runs the balance check for one user.
type UserChecker interface {
	CheckUser(ctx context.Context, userID string) (models.PassSummary, error)
}

// ExpenseHandler handles HTTP requests for the caller's expenses.
type ExpenseHandler struct {
	expenses services.ExpenseServiceProvider
	users    services.UserServiceProvider
	checker  UserChecker
	queue    TaskQueue
	now      func() time.Time
}

// NewExpenseHandler creates a new ExpenseHandler. checker and queue may be nil,
// which disables the balance check after a new expense.
func NewExpenseHandler(expenses services.ExpenseServiceProvider, users services.UserServiceProvider, checker UserChecker, queue TaskQueue) *ExpenseHandler {
	return &ExpenseHandler{
		expenses: expenses,
		users:    users,
		checker:  checker,
		queue:    queue,
		now:      time.Now,
	}
}

// CategoryStat is one row of the monthly breakdown.
type CategoryStat struct {
	Category string       `json:"_id"`
	Total    models.Money `json:"total"`
	Count    int          `json:"count"`
}

// ExpenseStats summarizes the caller's current month.
type ExpenseStats struct {
	MonthlyExpenses   []CategoryStat `json:"monthlyExpenses"`
	TotalExpenses     models.Money   `json:"totalExpenses"`
	RemainingBalance  models.Money   `json:"remainingBalance"`
	BalancePercentage float64        `json:"balancePercentage"`
	Salary            models.Money   `json:"salary"`
}

// GetAll lists the caller's expenses, newest first.
func (h *ExpenseHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	expenses, err := h.expenses.ListExpenses(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list expenses")
		writeError(w, http.StatusInternalServerError, "Error fetching expenses")
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

// Create records a new expense and schedules a balance check for the caller.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var payload services.ExpenseInput
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	expense, err := h.expenses.CreateExpense(r.Context(), userID, payload)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to add expense")
		writeServiceError(w, err, "Error adding expense")
		return
	}

	if h.checker != nil && h.queue != nil {
		h.queue.Enqueue("balance-check:"+userID, func(ctx context.Context) error {
			_, err := h.checker.CheckUser(ctx, userID)
			return err
		})
	}

	writeJSON(w, http.StatusCreated, expense)
}

// Stats returns the caller's category breakdown and balance for the current month.
func (h *ExpenseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load user for stats")
		writeServiceError(w, err, "Error fetching expense statistics")
		return
	}

	agg, err := h.expenses.MonthlyTotal(r.Context(), userID, h.now())
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to aggregate expenses")
		writeError(w, http.StatusInternalServerError, "Error fetching expense statistics")
		return
	}

	eval := monitoring.Evaluate(user.Salary, agg.Total)
	stats := ExpenseStats{
		MonthlyExpenses:   make([]CategoryStat, 0, len(agg.ByCategory)),
		TotalExpenses:     agg.Total,
		RemainingBalance:  eval.Remaining,
		BalancePercentage: eval.PercentageRemaining,
		Salary:            user.Salary,
	}
	for _, c := range agg.ByCategory {
		stats.MonthlyExpenses = append(stats.MonthlyExpenses, CategoryStat{Category: c.Category, Total: c.Total, Count: c.Count})
	}
	sort.Slice(stats.MonthlyExpenses, func(i, j int) bool {
		return stats.MonthlyExpenses[i].Total.GreaterThan(stats.MonthlyExpenses[j].Total)
	})

	writeJSON(w, http.StatusOK, map[string]ExpenseStats{"data": stats})
}
