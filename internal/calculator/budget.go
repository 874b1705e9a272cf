package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwiser/internal/models"
)

// DailyExpenses sums the expenses dated on day.
func DailyExpenses(txns []models.Transaction, day models.Date) decimal.Decimal {
	total := decimal.Zero
	for i := range txns {
		if txns[i].IsExpense() && txns[i].Date.Equal(day) {
			total = total.Add(txns[i].Amount)
		}
	}
	return total
}

// PeriodExpenses sums the expenses dated in [start, end].
// Only the given bounds filter; the budget's own period is not applied.
func PeriodExpenses(txns []models.Transaction, start, end models.Date) decimal.Decimal {
	total := decimal.Zero
	for i := range txns {
		if txns[i].IsExpense() && txns[i].Date.Between(start, end) {
			total = total.Add(txns[i].Amount)
		}
	}
	return total
}

// AdjustedRemainingTotalBudget is the total budget minus everything spent
// from the start date up to, but not including, today. It goes negative
// when the user has overspent.
func AdjustedRemainingTotalBudget(budget models.BudgetState, txns []models.Transaction, today models.Date) decimal.Decimal {
	if !budget.IsActive() {
		return decimal.Zero
	}
	limit, _ := budget.Limit()

	pastExpenses := decimal.Zero
	if today.After(limit.StartDate) {
		end := today.AddDays(-1)
		if end.Before(limit.StartDate) {
			end = limit.StartDate
		}
		pastExpenses = PeriodExpenses(txns, limit.StartDate, end)
	}
	return limit.TotalBudget.Sub(pastExpenses)
}

// DaysRemaining counts the days from day through end, both included.
func DaysRemaining(day, end models.Date) int {
	return models.DaysInclusive(day, end)
}

// DynamicDailyLimit is how much may be spent on day: the adjusted remaining
// budget spread evenly over the days left in the period. It is never
// negative. Days outside the period, or without an active budget, get 0.
func DynamicDailyLimit(budget models.BudgetState, txns []models.Transaction, today, day models.Date) decimal.Decimal {
	if !inActivePeriod(budget, day) {
		return decimal.Zero
	}
	limit, _ := budget.Limit()

	remaining := AdjustedRemainingTotalBudget(budget, txns, today)
	days := DaysRemaining(day, limit.EndDate)
	if days <= 0 {
		return decimal.Max(remaining, decimal.Zero)
	}

	// No rounding here: callers subtract from this and rounding would
	// compound across days.
	dynamic := remaining.Div(decimal.NewFromInt(int64(days)))
	return decimal.Max(dynamic, decimal.Zero)
}

// RemainingDailyBudget is the dynamic limit for day minus what was spent on
// day. Negative means overspent.
//
// A zero limit caused by a missing budget or an out-of-period day returns 0,
// which callers cannot tell apart from a real zero allowance with nothing
// spent.
func RemainingDailyBudget(budget models.BudgetState, txns []models.Transaction, today, day models.Date) decimal.Decimal {
	dynamic := DynamicDailyLimit(budget, txns, today, day)
	if dynamic.IsZero() && !inActivePeriod(budget, day) {
		return decimal.Zero
	}
	return dynamic.Sub(DailyExpenses(txns, day))
}

func inActivePeriod(budget models.BudgetState, day models.Date) bool {
	if !budget.IsActive() {
		return false
	}
	limit, _ := budget.Limit()
	return day.Between(limit.StartDate, limit.EndDate)
}

// BudgetSnapshot is every allocator figure for one (today, day) pair.
type BudgetSnapshot struct {
	Status models.BudgetStatus
	Today  models.Date
	Day    models.Date

	TotalBudget                  decimal.Decimal
	DailyExpenses                decimal.Decimal
	PeriodExpenses               decimal.Decimal // whole budget period
	AdjustedRemainingTotalBudget decimal.Decimal
	DynamicDailyLimit            decimal.Decimal
	RemainingDailyBudget         decimal.Decimal
	DaysRemaining                int
}

// Snapshot computes a BudgetSnapshot. Budget figures stay zero unless the
// budget is active; DailyExpenses is always filled in.
func Snapshot(budget models.BudgetState, txns []models.Transaction, today, day models.Date) BudgetSnapshot {
	snap := BudgetSnapshot{
		Status:                       budget.Status(),
		Today:                        today,
		Day:                          day,
		DailyExpenses:                DailyExpenses(txns, day),
		AdjustedRemainingTotalBudget: AdjustedRemainingTotalBudget(budget, txns, today),
		DynamicDailyLimit:            DynamicDailyLimit(budget, txns, today, day),
		RemainingDailyBudget:         RemainingDailyBudget(budget, txns, today, day),
	}
	if budget.IsActive() {
		limit, _ := budget.Limit()
		snap.TotalBudget = limit.TotalBudget
		snap.PeriodExpenses = PeriodExpenses(txns, limit.StartDate, limit.EndDate)
		snap.DaysRemaining = DaysRemaining(day, limit.EndDate)
	}
	return snap
}
