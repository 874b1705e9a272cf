// Command budgetwiser runs the budget tracker API server and its admin tools.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/budgetwiser/internal/config"
	"github.com/mmynk/budgetwiser/internal/storage/sqlite"
	"github.com/mmynk/budgetwiser/pkg/logging"
)

var (
	flagConfig string

	// cfg is loaded before any subcommand runs.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:           "budgetwiser",
	Short:         "Personal finance tracker with a dynamic daily budget",
	Long:          "Track income and expenses, spread a budget over a period with a daily limit that rebalances, and save towards goals.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
		logging.SetupWith(logging.ParseLevel(cfg.Log.Level), logging.ParseFormat(cfg.Log.Format))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", os.Getenv("BUDGETWISER_CONFIG"), "Path to a TOML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openStore opens the configured database, creating and migrating it as needed.
func openStore() (*sqlite.SQLiteStore, error) {
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	slog.Info("Storage initialized", "database", cfg.Database.Path)
	return store, nil
}
