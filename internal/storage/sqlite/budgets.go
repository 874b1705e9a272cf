package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/budgetwiser/internal/models"
)

// GetBudget loads the user's budget record and its active flag.
func (s *SQLiteStore) GetBudget(ctx context.Context, userID string) (models.BudgetState, error) {
	return getBudget(ctx, s.db, userID)
}

func getBudget(ctx context.Context, q querier, userID string) (models.BudgetState, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, user_id, total_budget, daily_limit, start_date, end_date, is_active, created_at, updated_at
		FROM budget_limits
		WHERE user_id = ?
	`, userID)

	var (
		limit    models.BudgetLimit
		isActive int
	)
	err := row.Scan(&limit.ID, &limit.UserID, &limit.TotalBudget, &limit.DailyLimit,
		&limit.StartDate, &limit.EndDate, &isActive, &limit.CreatedAt, &limit.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UnsetBudget(), nil
	}
	if err != nil {
		return models.UnsetBudget(), fmt.Errorf("failed to get budget: %w", err)
	}

	if isActive != 0 {
		return models.ActiveBudget(limit), nil
	}
	return models.InactiveBudget(limit), nil
}

// SaveBudget upserts the user's single budget record.
func (s *SQLiteStore) SaveBudget(ctx context.Context, userID string, state models.BudgetState) (models.BudgetState, error) {
	return saveBudget(ctx, s.db, userID, state)
}

func saveBudget(ctx context.Context, q querier, userID string, state models.BudgetState) (models.BudgetState, error) {
	limit, ok := state.Limit()
	if !ok {
		return state, fmt.Errorf("cannot save an unset budget for user %s", userID)
	}

	now := models.Now()
	if limit.ID == "" {
		limit.ID = uuid.New().String()
	}
	if limit.CreatedAt == 0 {
		limit.CreatedAt = now
	}
	limit.UserID = userID
	limit.UpdatedAt = now

	_, err := q.ExecContext(ctx, `
		INSERT INTO budget_limits (id, user_id, total_budget, daily_limit, start_date, end_date, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			total_budget = excluded.total_budget,
			daily_limit = excluded.daily_limit,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at
	`, limit.ID, limit.UserID, limit.TotalBudget, limit.DailyLimit, limit.StartDate, limit.EndDate,
		boolToInt(state.IsActive()), limit.CreatedAt, limit.UpdatedAt)
	if err != nil {
		return state, fmt.Errorf("failed to save budget: %w", err)
	}

	// Re-read so the caller sees the ID that survived the upsert.
	return getBudget(ctx, q, userID)
}
