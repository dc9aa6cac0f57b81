package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/fintrack-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, input RegisterInput) (models.User, error)
	UpdateProfile(ctx context.Context, id, name string, salary models.Money) (models.User, error)
	SetRole(ctx context.Context, id, role string) error
	AuthenticateUser(ctx context.Context, email, password string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Salary   models.Money `json:"salary"`
	Role     string       `json:"-"`
}

// Validate normalizes and checks the input.
func (in *RegisterInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)

	var problems []string
	if in.Name == "" {
		problems = append(problems, "name is required")
	}
	if in.Email == "" {
		problems = append(problems, "email is required")
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		problems = append(problems, "email is invalid")
	}
	if in.Password == "" {
		problems = append(problems, "password is required")
	}
	if in.Salary.IsNegative() {
		problems = append(problems, "salary must not be negative")
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	} else if in.Role != models.RoleUser && in.Role != models.RoleAdmin {
		problems = append(problems, "role is invalid")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, ", "))
	}
	return nil
}

// UserService provides business logic for user management.
type UserService struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db, now: time.Now}
}

const userColumns = "id, name, email, password_hash, salary_minor, role, last_notification_sent, created_at"

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	user.PasswordHash = ""
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", normalizeEmail(email))
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// CreateUser creates a new user, hashing their password.
func (s *UserService) CreateUser(ctx context.Context, input RegisterInput) (models.User, error) {
	if err := input.Validate(); err != nil {
		return models.User{}, err
	}
	salaryMinor, err := models.ToMinor(input.Salary)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: salary: %v", ErrValidation, err)
	}

	if _, err := s.GetUserByEmail(ctx, input.Email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Email:     input.Email,
		Salary:    models.FromMinor(salaryMinor),
		Role:      input.Role,
		CreatedAt: s.now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, salary_minor, role, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, string(hashedPassword), salaryMinor, user.Role, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// UpdateProfile updates a user's display name and salary.
func (s *UserService) UpdateProfile(ctx context.Context, id, name string, salary models.Money) (models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if salary.IsNegative() {
		return models.User{}, fmt.Errorf("%w: salary must not be negative", ErrValidation)
	}
	salaryMinor, err := models.ToMinor(salary)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: salary: %v", ErrValidation, err)
	}

	res, err := s.db.ExecContext(ctx, "UPDATE users SET name = ?, salary_minor = ? WHERE id = ?", name, salaryMinor, id)
	if err != nil {
		return models.User{}, fmt.Errorf("update user %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.User{}, fmt.Errorf("update user %s: %w", id, ErrNotFound)
	}
	return s.GetUserByID(ctx, id)
}

// SetRole changes a user's role.
func (s *UserService) SetRole(ctx context.Context, id, role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	res, err := s.db.ExecContext(ctx, "UPDATE users SET role = ? WHERE id = ?", role, id)
	if err != nil {
		return fmt.Errorf("set role for %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set role for %s: %w", id, ErrNotFound)
	}
	return nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// ListUsers returns every user, oldest first.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user.PasswordHash = ""
		users = append(users, user)
	}
	return users, rows.Err()
}

// ClaimNotification records at as the user's last notification time, but only
// if no notification was recorded at or after dayStart. It reports whether the
// claim was taken. The conditional update makes concurrent passes race-free.
func (s *UserService) ClaimNotification(ctx context.Context, userID string, at, dayStart time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET last_notification_sent = ?
		WHERE id = ? AND (last_notification_sent IS NULL OR last_notification_sent < ?)`,
		at.UTC(), userID, dayStart.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("claim notification for %s: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim notification for %s: %w", userID, err)
	}
	return n == 1, nil
}

// ReleaseNotification restores previous as the last notification time, provided
// the stored value is still the claim taken at claimedAt.
func (s *UserService) ReleaseNotification(ctx context.Context, userID string, claimedAt time.Time, previous *time.Time) error {
	var prev any
	if previous != nil {
		prev = previous.UTC()
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET last_notification_sent = ? WHERE id = ? AND last_notification_sent = ?",
		prev, userID, claimedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("release notification for %s: %w", userID, err)
	}
	return nil
}

// scanUser is a helper to scan a user from a row or rows object.
func scanUser(scanner interface{ Scan(...interface{}) error }) (models.User, error) {
	var user models.User
	var salaryMinor int64
	var lastNotified sql.NullTime

	err := scanner.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&salaryMinor, &user.Role, &lastNotified, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}

	user.Salary = models.FromMinor(salaryMinor)
	if lastNotified.Valid {
		t := lastNotified.Time
		user.LastNotificationSent = &t
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
