package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/budgetwiser/internal/models"
	"github.com/mmynk/budgetwiser/internal/storage"
)

const transactionColumns = `id, user_id, type, amount, category, description, date, created_at`

// CreateTransaction persists a new transaction to the database.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	return insertTransaction(ctx, s.db, txn)
}

func insertTransaction(ctx context.Context, q querier, txn *models.Transaction) error {
	// Generate ID if not set
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.CreatedAt == 0 {
		txn.CreatedAt = models.Now()
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.UserID, string(txn.Type), txn.Amount, txn.Category, txn.Description, txn.Date, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves one of the user's transactions by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	return getTransaction(ctx, s.db, userID, id)
}

func getTransaction(ctx context.Context, q querier, userID, id string) (*models.Transaction, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("transaction", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions retrieves the user's transactions, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]models.Transaction, error) {
	return listTransactions(ctx, s.db, userID, filter)
}

func listTransactions(ctx context.Context, q querier, userID string, filter storage.TransactionFilter) ([]models.Transaction, error) {
	conditions := []string{"user_id = ?"}
	args := []any{userID}
	if !filter.From.IsZero() {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.To)
	}
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, string(filter.Type))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY date DESC, created_at DESC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]models.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

// UpdateTransaction overwrites an existing transaction's editable fields.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET type = ?, amount = ?, category = ?, description = ?, date = ?
		 WHERE id = ? AND user_id = ?`,
		string(txn.Type), txn.Amount, txn.Category, txn.Description, txn.Date, txn.ID, txn.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("transaction", txn.ID)
	}
	return nil
}

// DeleteTransaction removes a transaction, rolling back the savings goal it
// contributed to, if any.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, userID, id string) (*models.Transaction, *models.SavingsGoal, error) {
	var (
		deleted  *models.Transaction
		reverted *models.SavingsGoal
	)

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		txn, err := getTransaction(ctx, tx, userID, id)
		if err != nil {
			return err
		}

		if name, ok := txn.SavingsGoalName(); ok {
			goal, err := getSavingsGoalByName(ctx, tx, userID, name)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			if goal != nil {
				goal.Withdraw(txn.Amount)
				if err := writeGoalProgress(ctx, tx, goal); err != nil {
					return err
				}
				reverted = goal
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		deleted = txn
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return deleted, reverted, nil
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var txnType string
	if err := row.Scan(&txn.ID, &txn.UserID, &txnType, &txn.Amount, &txn.Category,
		&txn.Description, &txn.Date, &txn.CreatedAt); err != nil {
		return nil, err
	}
	txn.Type = models.TransactionType(txnType)
	return txn, nil
}
