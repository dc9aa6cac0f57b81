package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/isdelr/fintrack-be/internal/models"
	"github.com/isdelr/fintrack-be/internal/services"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	flagAdminName   string
	flagAdminEmail  string
	flagAdminSalary string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account, or promote an existing user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		return createAdmin(cmd.Context(), a.users, flagAdminName, flagAdminEmail, flagAdminSalary, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&flagAdminName, "name", "Admin", "Display name")
	createAdminCmd.Flags().StringVar(&flagAdminEmail, "email", "", "Email address (required)")
	createAdminCmd.Flags().StringVar(&flagAdminSalary, "salary", "0", "Monthly salary")
	_ = createAdminCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(createAdminCmd)
}

type adminStore interface {
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, input services.RegisterInput) (models.User, error)
	SetRole(ctx context.Context, id, role string) error
}

func createAdmin(ctx context.Context, users adminStore, name, email, salary string, stdin io.Reader, stdout io.Writer) error {
	existing, err := users.GetUserByEmail(ctx, email)
	if err == nil {
		if err := users.SetRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("failed to promote user: %w", err)
		}
		fmt.Fprintf(stdout, "User %s promoted to admin\n", existing.Email)
		return nil
	}
	if !errors.Is(err, services.ErrNotFound) {
		return err
	}

	amount, err := decimal.NewFromString(salary)
	if err != nil {
		return fmt.Errorf("invalid salary %q: %w", salary, err)
	}

	fmt.Fprint(stdout, "Enter password: ")
	password, err := readPassword(stdin)
	fmt.Fprintln(stdout)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	user, err := users.CreateUser(ctx, services.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
		Salary:   amount,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "Admin %s created with ID %s\n", user.Email, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
