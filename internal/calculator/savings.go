package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwiser/internal/models"
)

var hundred = decimal.NewFromInt(100)

// GoalProgress returns how far along a goal is, as a percentage in [0, 100].
func GoalProgress(goal models.SavingsGoal) decimal.Decimal {
	if !goal.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	pct := goal.CurrentAmount.Div(goal.TargetAmount).Mul(hundred)
	return decimal.Min(decimal.Max(pct, decimal.Zero), hundred)
}

// RemainingToSave is how much is still missing to reach the target.
func RemainingToSave(goal models.SavingsGoal) decimal.Decimal {
	return decimal.Max(goal.TargetAmount.Sub(goal.CurrentAmount), decimal.Zero)
}

// RequiredDailySaving is how much must be put aside each day, today
// included, to hit the target by the deadline. Goals without a deadline or
// already completed need nothing; a deadline today or in the past needs
// everything that remains.
func RequiredDailySaving(goal models.SavingsGoal, today models.Date) decimal.Decimal {
	if goal.IsCompleted || goal.Deadline.IsZero() {
		return decimal.Zero
	}
	remaining := RemainingToSave(goal)
	days := models.DaysInclusive(today, goal.Deadline)
	if days <= 1 {
		return remaining
	}
	return remaining.Div(decimal.NewFromInt(int64(days)))
}
