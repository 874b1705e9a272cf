package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwiser/internal/cache"
	"github.com/mmynk/budgetwiser/internal/calculator"
	"github.com/mmynk/budgetwiser/internal/models"
	"github.com/mmynk/budgetwiser/internal/storage"
	"github.com/mmynk/budgetwiser/pkg/api"
	"github.com/mmynk/budgetwiser/pkg/api/apiconnect"
)

var _ apiconnect.TransactionServiceHandler = (*TransactionService)(nil)

// TransactionService implements the Connect TransactionService.
type TransactionService struct {
	store     storage.Store
	summaries cache.SummaryCache
}

// NewTransactionService creates a TransactionService. Writes invalidate the
// user's cached budget summaries.
func NewTransactionService(store storage.Store, summaries cache.SummaryCache) *TransactionService {
	if summaries == nil {
		summaries = cache.Nop{}
	}
	return &TransactionService{store: store, summaries: summaries}
}

// validateInput checks a transaction body and returns its type.
func validateInput(in api.TransactionInput) (models.TransactionType, error) {
	txnType := models.TransactionType(strings.ToLower(strings.TrimSpace(in.Type)))
	if !txnType.Valid() {
		return "", invalidArgument("type must be %q or %q, got %q", models.TransactionIncome, models.TransactionExpense, in.Type)
	}
	if in.Amount.IsNegative() {
		return "", invalidArgument("amount cannot be negative")
	}
	if strings.TrimSpace(in.Category) == "" {
		return "", invalidArgument("category is required")
	}
	if in.Date.IsZero() {
		return "", invalidArgument("date is required")
	}
	return txnType, nil
}

// ListTransactions returns the caller's transactions, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListTransactions request received", "user_id", userID, "from", req.Msg.From, "to", req.Msg.To)

	filter := storage.TransactionFilter{From: req.Msg.From, To: req.Msg.To}
	if req.Msg.Type != "" {
		filter.Type = models.TransactionType(strings.ToLower(req.Msg.Type))
		if !filter.Type.Valid() {
			return nil, invalidArgument("unknown transaction type %q", req.Msg.Type)
		}
	}

	txns, err := s.store.ListTransactions(ctx, userID, filter)
	if err != nil {
		slog.Error("ListTransactions failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("ListTransactions successful", "count", len(txns))
	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: txns}), nil
}

// GetTransaction retrieves one transaction by ID.
func (s *TransactionService) GetTransaction(ctx context.Context, req *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.TransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetTransaction request received", "transaction_id", req.Msg.ID)

	txn, err := s.store.GetTransaction(ctx, userID, req.Msg.ID)
	if err != nil {
		slog.Error("GetTransaction failed", "transaction_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.TransactionResponse{Transaction: txn}), nil
}

// CreateTransaction records a new income or expense.
func (s *TransactionService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.TransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateTransaction request received",
		"user_id", userID,
		"type", req.Msg.Type,
		"amount", req.Msg.Amount,
		"date", req.Msg.Date,
	)

	txnType, err := validateInput(req.Msg.TransactionInput)
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		UserID:      userID,
		Type:        txnType,
		Amount:      req.Msg.Amount,
		Category:    strings.TrimSpace(req.Msg.Category),
		Description: strings.TrimSpace(req.Msg.Description),
		Date:        req.Msg.Date,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		slog.Error("CreateTransaction failed", "error", err)
		return nil, toConnectError(err)
	}
	s.summaries.Invalidate(ctx, userID)

	slog.Info("Transaction created", "transaction_id", txn.ID)
	return connect.NewResponse(&api.TransactionResponse{Transaction: txn}), nil
}

// UpdateTransaction replaces the editable fields of a transaction.
func (s *TransactionService) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.TransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateTransaction request received", "transaction_id", req.Msg.ID)

	txnType, err := validateInput(req.Msg.TransactionInput)
	if err != nil {
		return nil, err
	}

	txn, err := s.store.GetTransaction(ctx, userID, req.Msg.ID)
	if err != nil {
		slog.Error("UpdateTransaction lookup failed", "transaction_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	txn.Type = txnType
	txn.Amount = req.Msg.Amount
	txn.Category = strings.TrimSpace(req.Msg.Category)
	txn.Description = strings.TrimSpace(req.Msg.Description)
	txn.Date = req.Msg.Date

	if err := s.store.UpdateTransaction(ctx, txn); err != nil {
		slog.Error("UpdateTransaction failed", "transaction_id", txn.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.summaries.Invalidate(ctx, userID)

	slog.Info("Transaction updated", "transaction_id", txn.ID)
	return connect.NewResponse(&api.TransactionResponse{Transaction: txn}), nil
}

// DeleteTransaction removes a transaction. Deleting a savings contribution
// takes the amount back out of its goal.
func (s *TransactionService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteTransaction request received", "transaction_id", req.Msg.ID)

	_, goal, err := s.store.DeleteTransaction(ctx, userID, req.Msg.ID)
	if err != nil {
		slog.Error("DeleteTransaction failed", "transaction_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.summaries.Invalidate(ctx, userID)

	if goal != nil {
		slog.Info("Savings goal reverted", "goal_id", goal.ID, "current_amount", goal.CurrentAmount)
	}
	return connect.NewResponse(&api.DeleteTransactionResponse{RevertedGoal: goal}), nil
}

// SummarizeTransactions totals income and expenses over a date range.
func (s *TransactionService) SummarizeTransactions(ctx context.Context, req *connect.Request[api.SummarizeTransactionsRequest]) (*connect.Response[api.SummarizeTransactionsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SummarizeTransactions request received", "user_id", userID, "from", req.Msg.From, "to", req.Msg.To)

	if !req.Msg.From.IsZero() && !req.Msg.To.IsZero() && req.Msg.To.Before(req.Msg.From) {
		return nil, invalidArgument("to %s is before from %s", req.Msg.To, req.Msg.From)
	}

	txns, err := s.store.ListTransactions(ctx, userID, storage.TransactionFilter{From: req.Msg.From, To: req.Msg.To})
	if err != nil {
		slog.Error("SummarizeTransactions failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	summary := calculator.Summarize(txns, req.Msg.From, req.Msg.To)
	byCategory := make([]api.CategoryTotal, len(summary.ByCategory))
	for i, c := range summary.ByCategory {
		byCategory[i] = api.CategoryTotal{Category: c.Category, Total: c.Total}
	}

	return connect.NewResponse(&api.SummarizeTransactionsResponse{
		TotalIncome:   summary.TotalIncome,
		TotalExpenses: summary.TotalExpenses,
		Net:           summary.Net,
		Count:         summary.Count,
		ByCategory:    byCategory,
	}), nil
}
