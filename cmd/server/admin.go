package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/budgetwiser/internal/auth"
	"github.com/mmynk/budgetwiser/internal/calculator"
	"github.com/mmynk/budgetwiser/internal/clock"
	"github.com/mmynk/budgetwiser/internal/models"
	"github.com/mmynk/budgetwiser/internal/service"
	"github.com/mmynk/budgetwiser/internal/storage"
)

var (
	flagEmail string
	flagOut   string
	flagFile  string
	flagToday string
	flagDay   string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "Database ready:", cfg.Database.Path)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a user's backup as JSON",
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace a user's data with a JSON backup",
	RunE:  runImport,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a user's budget summary",
	RunE:  runStatus,
}

func init() {
	exportCmd.Flags().StringVar(&flagEmail, "email", "", "Account email")
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output file (default: stdout)")
	_ = exportCmd.MarkFlagRequired("email")

	importCmd.Flags().StringVar(&flagEmail, "email", "", "Account email")
	importCmd.Flags().StringVarP(&flagFile, "file", "f", "", "Backup file to import")
	_ = importCmd.MarkFlagRequired("email")
	_ = importCmd.MarkFlagRequired("file")

	statusCmd.Flags().StringVar(&flagEmail, "email", "", "Account email")
	statusCmd.Flags().StringVar(&flagToday, "today", "", "Override today (YYYY-MM-DD)")
	statusCmd.Flags().StringVar(&flagDay, "day", "", "Day to report spending for (default: today)")
	_ = statusCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(migrateCmd, exportCmd, importCmd, statusCmd)
}

func lookupUser(cmd *cobra.Command, store storage.UserStore) (*models.User, error) {
	user, err := store.GetUserByEmail(cmd.Context(), auth.NormalizeEmail(flagEmail))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("no account with email %q", flagEmail)
	}
	return user, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := lookupUser(cmd, store)
	if err != nil {
		return err
	}

	backup, err := store.ExportBackup(cmd.Context(), user.ID)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if flagOut != "" {
		f, err := os.Create(flagOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagOut, err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(backup); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}

	if flagOut != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d transactions and %d goals to %s\n",
			len(backup.Transactions), len(backup.SavingsGoals), flagOut)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(flagFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", flagFile, err)
	}

	var backup models.Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("parsing %s: %w", flagFile, err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := lookupUser(cmd, store)
	if err != nil {
		return err
	}

	if err := service.ValidateBackup(&backup, user.ID); err != nil {
		return err
	}
	if err := store.ImportBackup(cmd.Context(), user.ID, &backup); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions and %d goals for %s\n",
		len(backup.Transactions), len(backup.SavingsGoals), user.Email)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	today := clock.Today(clock.System{}, loc)
	if flagToday != "" {
		if today, err = models.ParseDate(flagToday); err != nil {
			return err
		}
	}
	day := today
	if flagDay != "" {
		if day, err = models.ParseDate(flagDay); err != nil {
			return err
		}
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := lookupUser(cmd, store)
	if err != nil {
		return err
	}

	state, err := store.GetBudget(cmd.Context(), user.ID)
	if err != nil {
		return err
	}
	txns, err := store.ListTransactions(cmd.Context(), user.ID, storage.TransactionFilter{Type: models.TransactionExpense})
	if err != nil {
		return err
	}

	printSnapshot(cmd.OutOrStdout(), calculator.Snapshot(state, txns, today, day))
	return nil
}

func printSnapshot(out io.Writer, snap calculator.BudgetSnapshot) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Budget\t%s\n", snap.Status)
	fmt.Fprintf(w, "Today\t%s\n", snap.Today)
	fmt.Fprintf(w, "Day\t%s\n", snap.Day)
	fmt.Fprintf(w, "Spent on day\t%s\n", snap.DailyExpenses.StringFixed(2))
	if snap.Status != models.BudgetActive {
		return
	}
	fmt.Fprintf(w, "Total budget\t%s\n", snap.TotalBudget.StringFixed(2))
	fmt.Fprintf(w, "Spent in period\t%s\n", snap.PeriodExpenses.StringFixed(2))
	fmt.Fprintf(w, "Remaining total\t%s\n", snap.AdjustedRemainingTotalBudget.StringFixed(2))
	fmt.Fprintf(w, "Daily limit\t%s\n", snap.DynamicDailyLimit.StringFixed(2))
	fmt.Fprintf(w, "Left today\t%s\n", snap.RemainingDailyBudget.StringFixed(2))
	fmt.Fprintf(w, "Days remaining\t%d\n", snap.DaysRemaining)
}
