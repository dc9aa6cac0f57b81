package cmd

import (
	"encoding/json"

	"github.com/isdelr/fintrack-be/internal/models"
	"github.com/spf13/cobra"
)

var flagCheckUser string

var checkCmd = &cobra.Command{
	Use:   "check-balance",
	Short: "Run one low-balance evaluation pass and print the summary",
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

		var summary models.PassSummary
		if flagCheckUser != "" {
			summary, err = a.checker.CheckUser(cmd.Context(), flagCheckUser)
		} else {
			summary, err = a.checker.RunPass(cmd.Context())
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	checkCmd.Flags().StringVar(&flagCheckUser, "user", "", "Check a single user ID instead of everyone")
	rootCmd.AddCommand(checkCmd)
}
