package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwiser/internal/models"
)

// CategoryTotal is the expense total for one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// PeriodSummary aggregates transactions over a date range.
type PeriodSummary struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Net           decimal.Decimal // income - expenses
	Count         int
	ByCategory    []CategoryTotal // expenses only, largest first
}

// Summarize totals the transactions dated in [start, end].
// A zero start or end leaves that side unbounded.
func Summarize(txns []models.Transaction, start, end models.Date) PeriodSummary {
	summary := PeriodSummary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	byCategory := make(map[string]decimal.Decimal)

	for _, txn := range txns {
		if !start.IsZero() && txn.Date.Before(start) {
			continue
		}
		if !end.IsZero() && txn.Date.After(end) {
			continue
		}
		summary.Count++

		switch txn.Type {
		case models.TransactionIncome:
			summary.TotalIncome = summary.TotalIncome.Add(txn.Amount)
		case models.TransactionExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(txn.Amount)
			byCategory[txn.Category] = byCategory[txn.Category].Add(txn.Amount)
		}
	}

	summary.Net = summary.TotalIncome.Sub(summary.TotalExpenses)

	summary.ByCategory = make([]CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		summary.ByCategory = append(summary.ByCategory, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		a, b := summary.ByCategory[i], summary.ByCategory[j]
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.Category < b.Category
	})

	return summary
}
