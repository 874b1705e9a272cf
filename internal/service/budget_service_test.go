package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetwiser/internal/auth"
	"github.com/mmynk/budgetwiser/internal/cache"
	"github.com/mmynk/budgetwiser/internal/clock"
	"github.com/mmynk/budgetwiser/internal/middleware"
	"github.com/mmynk/budgetwiser/internal/models"
	"github.com/mmynk/budgetwiser/internal/storage"
	"github.com/mmynk/budgetwiser/internal/storage/sqlite"
	"github.com/mmynk/budgetwiser/pkg/api"
)

func setThreeDayBudget(t *testing.T, env *testEnv, token string) {
	t.Helper()
	resp, err := env.budget.SetBudget(context.Background(), withToken(token, &api.SetBudgetRequest{
		TotalBudget: dec("300000"),
		StartDate:   day1,
		EndDate:     day3,
	}))
	require.NoError(t, err, "SetBudget failed")
	require.Equal(t, "active", resp.Msg.Status)
}

func TestSetBudgetValidation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token, _ := env.register(t, "alice@example.com")

	tests := []struct {
		name string
		req  *api.SetBudgetRequest
	}{
		{"zero total", &api.SetBudgetRequest{TotalBudget: dec("0"), StartDate: day1, EndDate: day3}},
		{"negative total", &api.SetBudgetRequest{TotalBudget: dec("-5"), StartDate: day1, EndDate: day3}},
		{"missing start", &api.SetBudgetRequest{TotalBudget: dec("100"), EndDate: day3}},
		{"end before start", &api.SetBudgetRequest{TotalBudget: dec("100"), StartDate: day3, EndDate: day1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.budget.SetBudget(ctx, withToken(token, tt.req))
			assertCode(t, connect.CodeInvalidArgument, err)
		})
	}
}

func TestBudgetLifecycle(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token, _ := env.register(t, "alice@example.com")

	got, err := env.budget.GetBudget(ctx, withToken(token, &api.GetBudgetRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "unset", got.Msg.Status)
	assert.Nil(t, got.Msg.Budget)

	_, err = env.budget.ResetBudget(ctx, withToken(token, &api.ResetBudgetRequest{}))
	assertCode(t, connect.CodeFailedPrecondition, err)

	setThreeDayBudget(t, env, token)

	got, err = env.budget.GetBudget(ctx, withToken(token, &api.GetBudgetRequest{}))
	require.NoError(t, err)
	require.NotNil(t, got.Msg.Budget)
	assertAmount(t, "100000", got.Msg.Budget.DailyLimit)
	firstID := got.Msg.Budget.ID

	reset, err := env.budget.ResetBudget(ctx, withToken(token, &api.ResetBudgetRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "inactive", reset.Msg.Status)

	_, err = env.budget.ResetBudget(ctx, withToken(token, &api.ResetBudgetRequest{}))
	assertCode(t, connect.CodeFailedPrecondition, err)

	summary, err := env.budget.GetBudgetSummary(ctx, withToken(token, &api.GetBudgetSummaryRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "inactive", summary.Msg.Status)
	assert.True(t, summary.Msg.DynamicDailyLimit.IsZero())
	assert.True(t, summary.Msg.RemainingDailyBudget.IsZero())

	setThreeDayBudget(t, env, token)
	got, err = env.budget.GetBudget(ctx, withToken(token, &api.GetBudgetRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "active", got.Msg.Status)
	assert.Equal(t, firstID, got.Msg.Budget.ID, "reactivation reuses the record")
}

func TestBudgetSummaryRebalances(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token, _ := env.register(t, "alice@example.com")
	setThreeDayBudget(t, env, token)

	summary := func(today, day models.Date) *api.BudgetSummaryResponse {
		t.Helper()
		resp, err := env.budget.GetBudgetSummary(ctx, withToken(token, &api.GetBudgetSummaryRequest{Today: today, Day: day}))
		require.NoError(t, err)
		return resp.Msg
	}

	first := summary(day1, day1)
	assertAmount(t, "100000", first.DynamicDailyLimit)
	assert.Equal(t, 3, first.DaysRemaining)

	env.addTxn(t, token, models.TransactionExpense, "150000", day1)
	env.addTxn(t, token, models.TransactionIncome, "999999", day1)

	// The server's calendar says today is day2.
	resp, err := env.budget.GetBudgetSummary(ctx, withToken(token, &api.GetBudgetSummaryRequest{}))
	require.NoError(t, err)
	s := resp.Msg
	assert.Equal(t, day2, s.Today)
	assert.Equal(t, day2, s.Day)
	assertAmount(t, "150000", s.AdjustedRemainingTotalBudget)
	assertAmount(t, "75000", s.DynamicDailyLimit)
	assertAmount(t, "75000", s.RemainingDailyBudget)
	assertAmount(t, "150000", s.PeriodExpenses)
	assert.Equal(t, 2, s.DaysRemaining)

	// A write must invalidate the cached summary for day2.
	env.addTxn(t, token, models.TransactionExpense, "100000", day2)
	s = summary(day2, day2)
	assertAmount(t, "75000", s.DynamicDailyLimit, "today's spending does not move today's limit")
	assertAmount(t, "-25000", s.RemainingDailyBudget)

	last := summary(day3, day3)
	assertAmount(t, "50000", last.DynamicDailyLimit)

	outside := summary(day4, day4)
	assert.True(t, outside.DynamicDailyLimit.IsZero())
	assert.True(t, outside.RemainingDailyBudget.IsZero())
}

func TestGetPeriodExpenses(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token, _ := env.register(t, "alice@example.com")

	_, err := env.budget.GetPeriodExpenses(ctx, withToken(token, &api.GetPeriodExpensesRequest{}))
	assertCode(t, connect.CodeInvalidArgument, err)

	setThreeDayBudget(t, env, token)
	env.addTxn(t, token, models.TransactionExpense, "10", day1)
	env.addTxn(t, token, models.TransactionExpense, "20", day3)
	env.addTxn(t, token, models.TransactionExpense, "40", day4)
	env.addTxn(t, token, models.TransactionIncome, "80", day2)

	resp, err := env.budget.GetPeriodExpenses(ctx, withToken(token, &api.GetPeriodExpensesRequest{}))
	require.NoError(t, err)
	assert.Equal(t, day1, resp.Msg.Start)
	assert.Equal(t, day3, resp.Msg.End)
	assertAmount(t, "30", resp.Msg.Total)

	resp, err = env.budget.GetPeriodExpenses(ctx, withToken(token, &api.GetPeriodExpensesRequest{Start: day3, End: day4}))
	require.NoError(t, err)
	assertAmount(t, "60", resp.Msg.Total)

	_, err = env.budget.GetPeriodExpenses(ctx, withToken(token, &api.GetPeriodExpensesRequest{Start: day3}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

// writeDuringList runs write once, right after the first transaction read,
// so it lands between a summary's store read and its cache fill.
type writeDuringList struct {
	*sqlite.SQLiteStore
	write func(ctx context.Context)
	once  sync.Once
}

func (s *writeDuringList) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]models.Transaction, error) {
	txns, err := s.SQLiteStore.ListTransactions(ctx, userID, filter)
	s.once.Do(func() { s.write(ctx) })
	return txns, err
}

func TestBudgetSummaryNotCachedAcrossConcurrentWrite(t *testing.T) {
	env := setupTestServer(t)
	token, userID := env.register(t, "alice@example.com")
	setThreeDayBudget(t, env, token)

	summaries := cache.NewMemory(time.Minute)
	txns := NewTransactionService(env.store, summaries)
	store := &writeDuringList{
		SQLiteStore: env.store,
		write: func(ctx context.Context) {
			_, err := txns.CreateTransaction(ctx, connect.NewRequest(&api.CreateTransactionRequest{
				TransactionInput: api.TransactionInput{
					Type:     string(models.TransactionExpense),
					Amount:   dec("150000"),
					Category: "Food",
					Date:     day2,
				},
			}))
			require.NoError(t, err)
		},
	}
	budget := NewBudgetService(store, summaries, clock.NewCalendar(clock.FixedDay(day2), time.UTC))

	ctx := middleware.WithClaims(context.Background(), &auth.Claims{UserID: userID, Email: "alice@example.com"})

	first, err := budget.GetBudgetSummary(ctx, connect.NewRequest(&api.GetBudgetSummaryRequest{}))
	require.NoError(t, err)
	assertAmount(t, "0", first.Msg.DailyExpenses, "computed before the write")
	assertAmount(t, "150000", first.Msg.RemainingDailyBudget)

	second, err := budget.GetBudgetSummary(ctx, connect.NewRequest(&api.GetBudgetSummaryRequest{}))
	require.NoError(t, err)
	assertAmount(t, "150000", second.Msg.DailyExpenses, "the expense must be visible")
	assertAmount(t, "0", second.Msg.RemainingDailyBudget)
}
