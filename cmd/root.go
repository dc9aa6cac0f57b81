package cmd

import (
	"os"

	"github.com/isdelr/fintrack-be/internal/config"
	"github.com/isdelr/fintrack-be/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "fintrack",
	Short: "Personal finance tracker backend",
	Long:  "Expense tracking API with daily low-balance email alerts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagConfig != "" {
			return os.Setenv("CONFIG_PATH", flagConfig)
		}
		return nil
	},
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to YAML config file (overrides CONFIG_PATH)")
}

// loadConfig reads the configuration and sets up logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}
