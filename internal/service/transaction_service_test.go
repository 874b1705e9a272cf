package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetwiser/internal/models"
	"github.com/mmynk/budgetwiser/pkg/api"
)

func TestCreateTransactionValidation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token, _ := env.register(t, "alice@example.com")

	valid := api.TransactionInput{Type: "expense", Amount: dec("10"), Category: "Food", Date: day1}

	tests := []struct {
		name   string
		mutate func(in *api.TransactionInput)
	}{
		{"unknown type", func(in *api.TransactionInput) { in.Type = "transfer" }},
		{"negative amount", func(in *api.TransactionInput) { in.Amount = dec("-1") }},
		{"missing category", func(in *api.TransactionInput) { in.Category = " " }},
		{"missing date", func(in *api.TransactionInput) { in.Date = models.Date{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := env.txns.CreateTransaction(ctx, withToken(token, &api.CreateTransactionRequest{TransactionInput: in}))
			assertCode(t, connect.CodeInvalidArgument, err)
		})
	}

	t.Run("zero amount is allowed", func(t *testing.T) {
		in := valid
		in.Amount = dec("0")
		_, err := env.txns.CreateTransaction(ctx, withToken(token, &api.CreateTransactionRequest{TransactionInput: in}))
		require.NoError(t, err)
	})
}

func TestTransactionLifecycle(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, _ := env.register(t, "alice@example.com")
	bob, _ := env.register(t, "bob@example.com")

	lunch := env.addTxn(t, alice, models.TransactionExpense, "12.50", day1)
	env.addTxn(t, alice, models.TransactionIncome, "1000", day2)
	env.addTxn(t, alice, models.TransactionExpense, "40", day3)

	assert.NotEmpty(t, lunch.ID)
	assertAmount(t, "12.50", lunch.Amount)

	t.Run("list newest first", func(t *testing.T) {
		resp, err := env.txns.ListTransactions(ctx, withToken(alice, &api.ListTransactionsRequest{}))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Transactions, 3)
		assert.Equal(t, day3, resp.Msg.Transactions[0].Date)
	})

	t.Run("list by type and range", func(t *testing.T) {
		resp, err := env.txns.ListTransactions(ctx, withToken(alice, &api.ListTransactionsRequest{
			From: day1, To: day2, Type: "expense",
		}))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Transactions, 1)
		assert.Equal(t, lunch.ID, resp.Msg.Transactions[0].ID)
	})

	t.Run("other users see nothing", func(t *testing.T) {
		resp, err := env.txns.ListTransactions(ctx, withToken(bob, &api.ListTransactionsRequest{}))
		require.NoError(t, err)
		assert.Empty(t, resp.Msg.Transactions)

		_, err = env.txns.GetTransaction(ctx, withToken(bob, &api.GetTransactionRequest{ID: lunch.ID}))
		assertCode(t, connect.CodeNotFound, err)
	})

	t.Run("update", func(t *testing.T) {
		resp, err := env.txns.UpdateTransaction(ctx, withToken(alice, &api.UpdateTransactionRequest{
			ID: lunch.ID,
			TransactionInput: api.TransactionInput{
				Type: "expense", Amount: dec("15"), Category: "Dining", Description: "ramen", Date: day1,
			},
		}))
		require.NoError(t, err)
		assert.Equal(t, "Dining", resp.Msg.Transaction.Category)

		got, err := env.txns.GetTransaction(ctx, withToken(alice, &api.GetTransactionRequest{ID: lunch.ID}))
		require.NoError(t, err)
		assertAmount(t, "15", got.Msg.Transaction.Amount)
		assert.Equal(t, "ramen", got.Msg.Transaction.Description)
	})

	t.Run("summarize", func(t *testing.T) {
		resp, err := env.txns.SummarizeTransactions(ctx, withToken(alice, &api.SummarizeTransactionsRequest{}))
		require.NoError(t, err)
		assertAmount(t, "1000", resp.Msg.TotalIncome)
		assertAmount(t, "55", resp.Msg.TotalExpenses)
		assertAmount(t, "945", resp.Msg.Net)
		assert.Equal(t, 3, resp.Msg.Count)
		require.Len(t, resp.Msg.ByCategory, 2)
		assert.Equal(t, "Food", resp.Msg.ByCategory[0].Category)

		_, err = env.txns.SummarizeTransactions(ctx, withToken(alice, &api.SummarizeTransactionsRequest{From: day3, To: day1}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("delete", func(t *testing.T) {
		resp, err := env.txns.DeleteTransaction(ctx, withToken(alice, &api.DeleteTransactionRequest{ID: lunch.ID}))
		require.NoError(t, err)
		assert.Nil(t, resp.Msg.RevertedGoal)

		_, err = env.txns.GetTransaction(ctx, withToken(alice, &api.GetTransactionRequest{ID: lunch.ID}))
		assertCode(t, connect.CodeNotFound, err)
	})
}
