package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/fintrack-be/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SeedServiceProvider defines the interface for sample-data seeding.
type SeedServiceProvider interface {
	SeedExpenses(ctx context.Context, userID string) (int, error)
	SeedAllUsers(ctx context.Context) (int, error)
}

type categoryProfile struct {
	min, max     int64
	descriptions []string
}

var seedProfiles = map[string]categoryProfile{
	models.CategoryFood:          {200, 800, []string{"Groceries", "Restaurant meal", "Food delivery", "Snacks", "Coffee"}},
	models.CategoryTransport:     {100, 600, []string{"Fuel", "Public transport", "Cab ride", "Parking", "Vehicle maintenance"}},
	models.CategoryEntertainment: {300, 1200, []string{"Movie tickets", "Streaming subscription", "Concert", "Gaming", "Books"}},
	models.CategoryShopping:      {500, 2500, []string{"Clothing", "Electronics", "Home items", "Accessories", "Gifts"}},
	models.CategoryBills:         {800, 3000, []string{"Electricity bill", "Internet bill", "Phone bill", "Water bill", "Gas bill"}},
	models.CategoryHealthcare:    {500, 2000, []string{"Doctor visit", "Medicines", "Health checkup", "Dental care", "Insurance"}},
	models.CategoryOther:         {200, 1000, []string{"Miscellaneous", "Personal care", "Education", "Charity", "Repairs"}},
}

// SeedService fills accounts with random sample expenses.
type SeedService struct {
	users    UserServiceProvider
	expenses ExpenseServiceProvider
	now      func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeedService creates a new SeedService.
func NewSeedService(users UserServiceProvider, expenses ExpenseServiceProvider) *SeedService {
	return &SeedService{
		users:    users,
		expenses: expenses,
		now:      time.Now,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
}

// SeedExpenses replaces a user's expenses with 30-45 random ones spread
// over the last 30 days and returns how many were written.
func (s *SeedService) SeedExpenses(ctx context.Context, userID string) (int, error) {
	expenses := s.generate()
	if err := s.expenses.ReplaceExpenses(ctx, userID, expenses); err != nil {
		return 0, fmt.Errorf("seed expenses for %s: %w", userID, err)
	}

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	log.Info().Str("user_id", userID).Int("count", len(expenses)).Str("total", total.String()).Msg("Seeded sample expenses")
	return len(expenses), nil
}

// SeedAllUsers seeds every user and returns how many were seeded.
func (s *SeedService) SeedAllUsers(ctx context.Context) (int, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return 0, err
	}
	for _, u := range users {
		if _, err := s.SeedExpenses(ctx, u.ID); err != nil {
			return 0, err
		}
	}
	return len(users), nil
}

func (s *SeedService) generate() []models.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 30 + s.rng.IntN(16)
	expenses := make([]models.Expense, 0, n)
	for range n {
		category := models.Categories[s.rng.IntN(len(models.Categories))]
		profile := seedProfiles[category]
		amount := profile.min + s.rng.Int64N(profile.max-profile.min)
		daysAgo := s.rng.IntN(30)

		expenses = append(expenses, models.Expense{
			ID:          uuid.New().String(),
			Category:    category,
			Amount:      decimal.NewFromInt(amount),
			Description: profile.descriptions[s.rng.IntN(len(profile.descriptions))],
			CreatedAt:   now.Add(-time.Duration(daysAgo) * 24 * time.Hour).UTC(),
		})
	}
	return expenses
}
