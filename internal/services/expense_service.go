package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/isdelr/fintrack-be/internal/models"
)

// ExpenseServiceProvider defines the interface for expense services.
type ExpenseServiceProvider interface {
	CreateExpense(ctx context.Context, userID string, input ExpenseInput) (models.Expense, error)
	ListExpenses(ctx context.Context, userID string) ([]models.Expense, error)
	MonthlyTotal(ctx context.Context, userID string, ref time.Time) (models.MonthlyAggregate, error)
	ReplaceExpenses(ctx context.Context, userID string, expenses []models.Expense) error
}

// ExpenseInput carries the fields of a new expense.
type ExpenseInput struct {
	Category    string       `json:"category"`
	Amount      models.Money `json:"amount"`
	Description string       `json:"description"`
}

// Validate normalizes and checks the input.
func (in *ExpenseInput) Validate() error {
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)

	if in.Category == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}
	if _, err := models.ToMinor(in.Amount); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// ExpenseService provides business logic for expenses.
type ExpenseService struct {
	db  *sql.DB
	loc *time.Location
	now func() time.Time
}

// NewExpenseService creates a new ExpenseService. loc defines calendar months.
func NewExpenseService(db *sql.DB, loc *time.Location) *ExpenseService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExpenseService{db: db, loc: loc, now: time.Now}
}

// CreateExpense records a new expense for userID.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID string, input ExpenseInput) (models.Expense, error) {
	if err := input.Validate(); err != nil {
		return models.Expense{}, err
	}

	expense := models.Expense{
		ID:          uuid.New().String(),
		UserID:      userID,
		Category:    input.Category,
		Amount:      input.Amount,
		Description: input.Description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.insert(ctx, s.db, expense); err != nil {
		return models.Expense{}, err
	}
	return expense, nil
}

// ListExpenses returns all of a user's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID string) ([]models.Expense, error) {
	query, args, err := sq.Select("id", "user_id", "category", "amount_minor", "description", "created_at").
		From("expenses").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		var amountMinor int64
		if err := rows.Scan(&e.ID, &e.UserID, &e.Category, &amountMinor, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Amount = models.FromMinor(amountMinor)
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// MonthlyTotal sums a user's spend for the calendar month containing ref,
// grouped by category. An empty month yields a zero total and an empty map.
func (s *ExpenseService) MonthlyTotal(ctx context.Context, userID string, ref time.Time) (models.MonthlyAggregate, error) {
	start, end := models.MonthWindow(ref, s.loc)

	query, args, err := sq.Select("category", "COALESCE(SUM(amount_minor), 0)", "COUNT(*)").
		From("expenses").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"created_at": start.UTC()}).
		Where(sq.Lt{"created_at": end.UTC()}).
		GroupBy("category").
		ToSql()
	if err != nil {
		return models.MonthlyAggregate{}, fmt.Errorf("build aggregate query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return models.MonthlyAggregate{}, fmt.Errorf("aggregate expenses: %w", err)
	}
	defer rows.Close()

	agg := models.MonthlyAggregate{
		UserID:     userID,
		Start:      start,
		End:        end,
		ByCategory: map[string]models.CategoryTotal{},
	}
	var totalMinor int64
	for rows.Next() {
		var category string
		var sumMinor int64
		var count int
		if err := rows.Scan(&category, &sumMinor, &count); err != nil {
			return models.MonthlyAggregate{}, fmt.Errorf("scan aggregate: %w", err)
		}
		agg.ByCategory[category] = models.CategoryTotal{
			Category: category,
			Total:    models.FromMinor(sumMinor),
			Count:    count,
		}
		totalMinor += sumMinor
	}
	if err := rows.Err(); err != nil {
		return models.MonthlyAggregate{}, fmt.Errorf("aggregate expenses: %w", err)
	}

	agg.Total = models.FromMinor(totalMinor)
	return agg, nil
}

// ReplaceExpenses deletes a user's expenses and inserts the given ones in a
// single transaction.
func (s *ExpenseService) ReplaceExpenses(ctx context.Context, userID string, expenses []models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete expenses: %w", err)
	}
	for _, e := range expenses {
		e.UserID = userID
		if err := s.insert(ctx, tx, e); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *ExpenseService) insert(ctx context.Context, db execer, e models.Expense) error {
	amountMinor, err := models.ToMinor(e.Amount)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	query, args, err := sq.Insert("expenses").
		Columns("id", "user_id", "category", "amount_minor", "description", "created_at").
		Values(e.ID, e.UserID, e.Category, amountMinor, e.Description, e.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}
