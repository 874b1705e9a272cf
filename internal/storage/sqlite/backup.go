package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/budgetwiser/internal/models"
	"github.com/mmynk/budgetwiser/internal/storage"
)

// afterExportTransactions runs between the reads of an export. Tests use it
// to write concurrently.
var afterExportTransactions = func() {}

// ExportBackup collects all of the user's data into one document. The reads
// share one database transaction so the document is a consistent snapshot.
func (s *SQLiteStore) ExportBackup(ctx context.Context, userID string) (*models.Backup, error) {
	backup := &models.Backup{
		Version: models.BackupVersion,
		UserID:  userID,
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		txns, err := listTransactions(ctx, tx, userID, storage.TransactionFilter{})
		if err != nil {
			return err
		}
		afterExportTransactions()

		budget, err := getBudget(ctx, tx, userID)
		if err != nil {
			return err
		}

		goals, err := listSavingsGoals(ctx, tx, userID)
		if err != nil {
			return err
		}

		backup.Transactions = txns
		backup.BudgetLimit = models.BackupBudgetFrom(budget)
		backup.SavingsGoals = goals
		return nil
	})
	if err != nil {
		return nil, err
	}

	backup.Timestamp = time.Now().UTC().Format(time.RFC3339)
	return backup, nil
}

// ImportBackup replaces the user's data with the backup's contents.
// Record IDs are kept; ownership is forced to userID.
func (s *SQLiteStore) ImportBackup(ctx context.Context, userID string, backup *models.Backup) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"transactions", "budget_limits", "savings_goals"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = ?`, userID); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		for i := range backup.Transactions {
			txn := backup.Transactions[i]
			txn.UserID = userID
			if err := insertTransaction(ctx, tx, &txn); err != nil {
				return err
			}
		}

		if state := backup.BudgetLimit.State(); state.Status() != models.BudgetUnset {
			if _, err := saveBudget(ctx, tx, userID, state); err != nil {
				return err
			}
		}

		for i := range backup.SavingsGoals {
			goal := backup.SavingsGoals[i]
			goal.UserID = userID
			if err := insertSavingsGoal(ctx, tx, &goal); err != nil {
				return err
			}
		}
		return nil
	})
}
