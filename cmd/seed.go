package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagSeedEmail string
	flagSeedAll   bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace expenses with random sample data",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if (flagSeedEmail == "") == !flagSeedAll {
			return errors.New("pass exactly one of --email or --all")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		if flagSeedAll {
			n, err := a.seed.SeedAllUsers(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users\n", n)
			return nil
		}

		user, err := a.users.GetUserByEmail(cmd.Context(), flagSeedEmail)
		if err != nil {
			return fmt.Errorf("find user %s: %w", flagSeedEmail, err)
		}
		n, err := a.seed.SeedExpenses(cmd.Context(), user.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d expenses for %s\n", n, user.Email)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&flagSeedEmail, "email", "", "Seed the user with this email")
	seedCmd.Flags().BoolVar(&flagSeedAll, "all", false, "Seed every user")
	rootCmd.AddCommand(seedCmd)
}
