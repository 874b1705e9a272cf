package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwiser/internal/models"
	"github.com/mmynk/budgetwiser/internal/storage"
)

const goalColumns = `id, user_id, name, target_amount, current_amount, deadline, is_completed, created_at, updated_at`

// CreateSavingsGoal persists a new savings goal together with its initial
// deposit, if any.
func (s *SQLiteStore) CreateSavingsGoal(ctx context.Context, goal *models.SavingsGoal, deposit *models.Transaction) error {
	if deposit == nil {
		return insertSavingsGoal(ctx, s.db, goal)
	}

	created := *goal
	created.Contribute(deposit.Amount)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := insertSavingsGoal(ctx, tx, &created); err != nil {
			return err
		}
		return insertTransaction(ctx, tx, deposit)
	})
	if err != nil {
		return err
	}
	*goal = created
	return nil
}

func insertSavingsGoal(ctx context.Context, q querier, goal *models.SavingsGoal) error {
	now := models.Now()
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	if goal.CreatedAt == 0 {
		goal.CreatedAt = now
	}
	if goal.UpdatedAt == 0 {
		goal.UpdatedAt = now
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO savings_goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.UserID, goal.Name, goal.TargetAmount, goal.CurrentAmount, goal.Deadline,
		boolToInt(goal.IsCompleted), goal.CreatedAt, goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert savings goal: %w", err)
	}
	return nil
}

// GetSavingsGoal retrieves one of the user's goals by ID.
func (s *SQLiteStore) GetSavingsGoal(ctx context.Context, userID, id string) (*models.SavingsGoal, error) {
	return getSavingsGoal(ctx, s.db, userID, id)
}

func getSavingsGoal(ctx context.Context, q querier, userID, id string) (*models.SavingsGoal, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM savings_goals WHERE id = ? AND user_id = ?`, id, userID)
	goal, err := scanSavingsGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("savings goal", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get savings goal: %w", err)
	}
	return goal, nil
}

// getSavingsGoalByName finds the oldest of the user's goals called name.
func getSavingsGoalByName(ctx context.Context, q querier, userID, name string) (*models.SavingsGoal, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM savings_goals WHERE user_id = ? AND name = ? ORDER BY created_at ASC LIMIT 1`,
		userID, name)
	goal, err := scanSavingsGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("savings goal", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get savings goal by name: %w", err)
	}
	return goal, nil
}

// ListSavingsGoals returns the user's goals, oldest first.
func (s *SQLiteStore) ListSavingsGoals(ctx context.Context, userID string) ([]models.SavingsGoal, error) {
	return listSavingsGoals(ctx, s.db, userID)
}

func listSavingsGoals(ctx context.Context, q querier, userID string) ([]models.SavingsGoal, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM savings_goals WHERE user_id = ? ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings goals: %w", err)
	}
	defer rows.Close()

	goals := make([]models.SavingsGoal, 0)
	for rows.Next() {
		goal, err := scanSavingsGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}
		goals = append(goals, *goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate savings goals: %w", err)
	}
	return goals, nil
}

// UpdateSavingsGoal applies a partial update. When the amounts change and
// the update does not set IsCompleted, completion is recomputed.
func (s *SQLiteStore) UpdateSavingsGoal(ctx context.Context, userID, id string, update storage.GoalUpdate) (*models.SavingsGoal, error) {
	var updated *models.SavingsGoal
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		goal, err := getSavingsGoal(ctx, tx, userID, id)
		if err != nil {
			return err
		}

		if update.Name != nil {
			goal.Name = *update.Name
		}
		if update.TargetAmount != nil {
			goal.TargetAmount = *update.TargetAmount
		}
		if update.CurrentAmount != nil {
			goal.CurrentAmount = *update.CurrentAmount
		}
		if update.Deadline != nil {
			goal.Deadline = *update.Deadline
		}
		switch {
		case update.IsCompleted != nil:
			goal.IsCompleted = *update.IsCompleted
		case update.TargetAmount != nil || update.CurrentAmount != nil:
			goal.IsCompleted = goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount)
		}
		goal.UpdatedAt = models.Now()

		_, err = tx.ExecContext(ctx, `
			UPDATE savings_goals
			SET name = ?, target_amount = ?, current_amount = ?, deadline = ?, is_completed = ?, updated_at = ?
			WHERE id = ? AND user_id = ?
		`, goal.Name, goal.TargetAmount, goal.CurrentAmount, goal.Deadline, boolToInt(goal.IsCompleted),
			goal.UpdatedAt, goal.ID, userID)
		if err != nil {
			return fmt.Errorf("failed to update savings goal: %w", err)
		}
		updated = goal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteSavingsGoal removes a goal. Transactions that contributed to it are kept.
func (s *SQLiteStore) DeleteSavingsGoal(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete savings goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("savings goal", id)
	}
	return nil
}

// Contribute adds amount to the goal and, when txn is given, records it in
// the same database transaction.
func (s *SQLiteStore) Contribute(ctx context.Context, userID, goalID string, amount decimal.Decimal, txn *models.Transaction) (*models.SavingsGoal, error) {
	var updated *models.SavingsGoal
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		goal, err := getSavingsGoal(ctx, tx, userID, goalID)
		if err != nil {
			return err
		}

		goal.Contribute(amount)
		if err := writeGoalProgress(ctx, tx, goal); err != nil {
			return err
		}

		if txn != nil {
			if err := insertTransaction(ctx, tx, txn); err != nil {
				return err
			}
		}
		updated = goal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// writeGoalProgress stores the goal's current amount and completion flag.
func writeGoalProgress(ctx context.Context, q querier, goal *models.SavingsGoal) error {
	goal.UpdatedAt = models.Now()
	_, err := q.ExecContext(ctx,
		`UPDATE savings_goals SET current_amount = ?, is_completed = ?, updated_at = ? WHERE id = ?`,
		goal.CurrentAmount, boolToInt(goal.IsCompleted), goal.UpdatedAt, goal.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update savings goal progress: %w", err)
	}
	return nil
}

func scanSavingsGoal(row rowScanner) (*models.SavingsGoal, error) {
	goal := &models.SavingsGoal{}
	var completed int
	if err := row.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount, &goal.CurrentAmount,
		&goal.Deadline, &completed, &goal.CreatedAt, &goal.UpdatedAt); err != nil {
		return nil, err
	}
	goal.IsCompleted = completed != 0
	return goal, nil
}
