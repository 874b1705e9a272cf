package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetwiser/internal/models"
)

var (
	day0 = models.MustParseDate("2024-02-29")
	day1 = models.MustParseDate("2024-03-01")
	day2 = models.MustParseDate("2024-03-02")
	day3 = models.MustParseDate("2024-03-03")
	day4 = models.MustParseDate("2024-03-04")
)

func threeDayBudget() models.BudgetState {
	return models.ActiveBudget(models.NewBudgetLimit("user-1", decimal.NewFromInt(300000), day1, day3))
}

func expense(day models.Date, amount int64) models.Transaction {
	return models.Transaction{
		Type:     models.TransactionExpense,
		Amount:   decimal.NewFromInt(amount),
		Category: "Food",
		Date:     day,
	}
}

func income(day models.Date, amount int64) models.Transaction {
	return models.Transaction{
		Type:     models.TransactionIncome,
		Amount:   decimal.NewFromInt(amount),
		Category: "Salary",
		Date:     day,
	}
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestDynamicDailyLimit(t *testing.T) {
	tests := []struct {
		name  string
		txns  []models.Transaction
		today models.Date
		day   models.Date
		want  string
	}{
		{
			name:  "fresh budget splits evenly",
			today: day1,
			day:   day1,
			want:  "100000",
		},
		{
			name:  "overspending shrinks later days",
			txns:  []models.Transaction{expense(day1, 150000)},
			today: day2,
			day:   day2,
			want:  "75000",
		},
		{
			name:  "unspent budget rolls forward",
			today: day2,
			day:   day2,
			want:  "150000",
		},
		{
			name:  "spending today does not change today's limit",
			txns:  []models.Transaction{expense(day2, 90000)},
			today: day2,
			day:   day2,
			want:  "150000",
		},
		{
			name:  "last day gets everything left",
			txns:  []models.Transaction{expense(day1, 100000), expense(day2, 50000)},
			today: day3,
			day:   day3,
			want:  "150000",
		},
		{
			name:  "last day after overspending is zero",
			txns:  []models.Transaction{expense(day1, 250000), expense(day2, 150000)},
			today: day3,
			day:   day3,
			want:  "0",
		},
		{
			name:  "overspent mid-period clamps to zero",
			txns:  []models.Transaction{expense(day1, 400000)},
			today: day2,
			day:   day2,
			want:  "0",
		},
		{
			name:  "income never counts",
			txns:  []models.Transaction{income(day1, 1000000)},
			today: day2,
			day:   day2,
			want:  "150000",
		},
		{
			name:  "future day uses today's remaining budget",
			txns:  []models.Transaction{expense(day1, 60000)},
			today: day2,
			day:   day3,
			want:  "240000",
		},
		{
			name:  "day before start",
			today: day1,
			day:   day0,
			want:  "0",
		},
		{
			name:  "day after end",
			today: day1,
			day:   day4,
			want:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DynamicDailyLimit(threeDayBudget(), tt.txns, tt.today, tt.day)
			assertAmount(t, tt.want, got)
		})
	}
}

func TestDynamicDailyLimit_InactiveBudget(t *testing.T) {
	limit := models.NewBudgetLimit("user-1", decimal.NewFromInt(300000), day1, day3)

	for _, state := range []models.BudgetState{models.UnsetBudget(), models.InactiveBudget(limit)} {
		t.Run(state.Status().String(), func(t *testing.T) {
			for _, day := range []models.Date{day0, day1, day2, day3, day4} {
				assertAmount(t, "0", DynamicDailyLimit(state, nil, day1, day))
				assertAmount(t, "0", RemainingDailyBudget(state, []models.Transaction{expense(day, 10)}, day1, day))
			}
			assertAmount(t, "0", AdjustedRemainingTotalBudget(state, nil, day2))
		})
	}
}

func TestAdjustedRemainingTotalBudget(t *testing.T) {
	tests := []struct {
		name  string
		txns  []models.Transaction
		today models.Date
		want  string
	}{
		{
			name:  "before the period starts",
			txns:  []models.Transaction{expense(day0, 5000)},
			today: day0,
			want:  "300000",
		},
		{
			name:  "first day ignores today's spending",
			txns:  []models.Transaction{expense(day1, 5000)},
			today: day1,
			want:  "300000",
		},
		{
			name:  "second day subtracts the first",
			txns:  []models.Transaction{expense(day1, 150000), expense(day2, 1)},
			today: day2,
			want:  "150000",
		},
		{
			name:  "can go negative",
			txns:  []models.Transaction{expense(day1, 200000), expense(day2, 200000)},
			today: day3,
			want:  "-100000",
		},
		{
			name:  "spending before the start is ignored",
			txns:  []models.Transaction{expense(day0, 70000)},
			today: day3,
			want:  "300000",
		},
		{
			name:  "spending after the end still counts once it is in the past",
			txns:  []models.Transaction{expense(day4, 10000)},
			today: day4.AddDays(2),
			want:  "290000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustedRemainingTotalBudget(threeDayBudget(), tt.txns, tt.today)
			assertAmount(t, tt.want, got)
		})
	}
}

func TestAdjustedRemainingTotalBudget_IsRepeatable(t *testing.T) {
	txns := []models.Transaction{expense(day1, 12345), income(day1, 99), expense(day2, 1)}
	budget := threeDayBudget()

	first := AdjustedRemainingTotalBudget(budget, txns, day3)
	second := AdjustedRemainingTotalBudget(budget, txns, day3)
	assert.True(t, first.Equal(second))
	assertAmount(t, "287654", first)
}

func TestRemainingDailyBudget(t *testing.T) {
	budget := threeDayBudget()

	t.Run("underspent", func(t *testing.T) {
		txns := []models.Transaction{expense(day1, 40000)}
		assertAmount(t, "60000", RemainingDailyBudget(budget, txns, day1, day1))
	})

	t.Run("overspent goes negative", func(t *testing.T) {
		txns := []models.Transaction{expense(day1, 120000)}
		assertAmount(t, "-20000", RemainingDailyBudget(budget, txns, day1, day1))
	})

	t.Run("zero limit in period still subtracts spending", func(t *testing.T) {
		txns := []models.Transaction{expense(day1, 400000), expense(day2, 500)}
		assertAmount(t, "-500", RemainingDailyBudget(budget, txns, day2, day2))
	})

	t.Run("outside the period is zero even with spending", func(t *testing.T) {
		txns := []models.Transaction{expense(day4, 500)}
		assertAmount(t, "0", RemainingDailyBudget(budget, txns, day4, day4))
	})

	t.Run("equals limit minus daily expenses", func(t *testing.T) {
		txns := []models.Transaction{expense(day1, 10000), expense(day2, 30000), expense(day2, 5000), expense(day3, 1)}
		for _, day := range []models.Date{day1, day2, day3} {
			limit := DynamicDailyLimit(budget, txns, day2, day)
			spent := DailyExpenses(txns, day)
			got := RemainingDailyBudget(budget, txns, day2, day)
			assert.True(t, limit.Sub(spent).Equal(got), "day %s: %s - %s != %s", day, limit, spent, got)
		}
	})
}

func TestDynamicDailyLimit_NoRounding(t *testing.T) {
	budget := models.ActiveBudget(models.NewBudgetLimit("user-1", decimal.NewFromInt(100), day1, day3))

	limit := DynamicDailyLimit(budget, nil, day1, day1)
	require.False(t, limit.Equal(limit.Round(2)), "limit %s was rounded", limit)

	diff := limit.Mul(decimal.NewFromInt(3)).Sub(decimal.NewFromInt(100)).Abs()
	assert.True(t, diff.LessThan(decimal.New(1, -10)), "limit %s drifted", limit)
	assert.True(t, limit.Equal(RemainingDailyBudget(budget, nil, day1, day1)))
}

func TestDegenerateBudget(t *testing.T) {
	budget := models.ActiveBudget(models.NewBudgetLimit("user-1", decimal.NewFromInt(1000), day3, day1))
	txns := []models.Transaction{expense(day3, 10), expense(day4, 20)}

	for _, day := range []models.Date{day0, day1, day2, day3, day4} {
		assertAmount(t, "0", DynamicDailyLimit(budget, txns, day4, day))
		assertAmount(t, "0", RemainingDailyBudget(budget, txns, day4, day))
	}
	assertAmount(t, "990", AdjustedRemainingTotalBudget(budget, txns, day4))
	assert.Equal(t, 0, DaysRemaining(day3, day1))
}

func TestDailyAndPeriodExpenses(t *testing.T) {
	txns := []models.Transaction{
		expense(day0, 1),
		expense(day1, 10),
		income(day1, 1000),
		expense(day1, 20),
		expense(day2, 300),
		expense(day4, 5000),
	}

	assertAmount(t, "30", DailyExpenses(txns, day1))
	assertAmount(t, "0", DailyExpenses(txns, day3))
	assertAmount(t, "330", PeriodExpenses(txns, day1, day3))
	assertAmount(t, "5331", PeriodExpenses(txns, day0, day4))
	assertAmount(t, "0", PeriodExpenses(txns, day3, day1))

	reversed := make([]models.Transaction, len(txns))
	for i := range txns {
		reversed[len(txns)-1-i] = txns[i]
	}
	assert.True(t, PeriodExpenses(txns, day0, day4).Equal(PeriodExpenses(reversed, day0, day4)))
}

func TestDaysRemaining(t *testing.T) {
	tests := []struct {
		day, end models.Date
		want     int
	}{
		{day1, day1, 1},
		{day1, day3, 3},
		{day0, day1, 2},
		{models.MustParseDate("2024-02-28"), day1, 3},
		{models.MustParseDate("2023-12-31"), models.MustParseDate("2024-12-31"), 367},
		{day3, day1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.day.String()+"_"+tt.end.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, DaysRemaining(tt.day, tt.end))
		})
	}
}

func TestSnapshot(t *testing.T) {
	txns := []models.Transaction{expense(day1, 150000), expense(day2, 20000)}

	snap := Snapshot(threeDayBudget(), txns, day2, day2)
	assert.Equal(t, models.BudgetActive, snap.Status)
	assertAmount(t, "300000", snap.TotalBudget)
	assertAmount(t, "20000", snap.DailyExpenses)
	assertAmount(t, "170000", snap.PeriodExpenses)
	assertAmount(t, "150000", snap.AdjustedRemainingTotalBudget)
	assertAmount(t, "75000", snap.DynamicDailyLimit)
	assertAmount(t, "55000", snap.RemainingDailyBudget)
	assert.Equal(t, 2, snap.DaysRemaining)

	unset := Snapshot(models.UnsetBudget(), txns, day2, day2)
	assert.Equal(t, models.BudgetUnset, unset.Status)
	assertAmount(t, "20000", unset.DailyExpenses)
	assertAmount(t, "0", unset.DynamicDailyLimit)
	assert.Equal(t, 0, unset.DaysRemaining)
}
