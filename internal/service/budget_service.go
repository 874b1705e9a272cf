package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwiser/internal/cache"
	"github.com/mmynk/budgetwiser/internal/calculator"
	"github.com/mmynk/budgetwiser/internal/clock"
	"github.com/mmynk/budgetwiser/internal/models"
	"github.com/mmynk/budgetwiser/internal/storage"
	"github.com/mmynk/budgetwiser/pkg/api"
	"github.com/mmynk/budgetwiser/pkg/api/apiconnect"
)

var _ apiconnect.BudgetServiceHandler = (*BudgetService)(nil)

// BudgetService implements the Connect BudgetService.
type BudgetService struct {
	store     storage.Store
	summaries cache.SummaryCache
	calendar  clock.Calendar
}

// NewBudgetService creates a BudgetService. calendar decides which day
// "today" is when a request leaves it out.
func NewBudgetService(store storage.Store, summaries cache.SummaryCache, calendar clock.Calendar) *BudgetService {
	if summaries == nil {
		summaries = cache.Nop{}
	}
	return &BudgetService{store: store, summaries: summaries, calendar: calendar}
}

func toBudgetResponse(state models.BudgetState) *api.BudgetResponse {
	resp := &api.BudgetResponse{Status: state.Status().String()}
	if limit, ok := state.Limit(); ok {
		resp.Budget = &limit
	}
	return resp
}

// GetBudget returns the caller's budget and whether it is active.
func (s *BudgetService) GetBudget(ctx context.Context, req *connect.Request[api.GetBudgetRequest]) (*connect.Response[api.BudgetResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetBudget request received", "user_id", userID)

	state, err := s.store.GetBudget(ctx, userID)
	if err != nil {
		slog.Error("GetBudget failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(toBudgetResponse(state)), nil
}

// SetBudget creates the caller's budget or replaces the existing one, and
// makes it active.
func (s *BudgetService) SetBudget(ctx context.Context, req *connect.Request[api.SetBudgetRequest]) (*connect.Response[api.BudgetResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SetBudget request received",
		"user_id", userID,
		"total_budget", req.Msg.TotalBudget,
		"start_date", req.Msg.StartDate,
		"end_date", req.Msg.EndDate,
	)

	if !req.Msg.TotalBudget.IsPositive() {
		return nil, invalidArgument("total budget must be positive")
	}
	if req.Msg.StartDate.IsZero() || req.Msg.EndDate.IsZero() {
		return nil, invalidArgument("start and end dates are required")
	}
	if req.Msg.EndDate.Before(req.Msg.StartDate) {
		return nil, invalidArgument("end date %s is before start date %s", req.Msg.EndDate, req.Msg.StartDate)
	}

	current, err := s.store.GetBudget(ctx, userID)
	if err != nil {
		slog.Error("SetBudget lookup failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	limit := models.NewBudgetLimit(userID, req.Msg.TotalBudget, req.Msg.StartDate, req.Msg.EndDate)
	saved, err := s.store.SaveBudget(ctx, userID, current.Activate(limit))
	if err != nil {
		slog.Error("SetBudget failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	s.summaries.Invalidate(ctx, userID)

	slog.Info("Budget set", "user_id", userID, "previous_status", current.Status().String())
	return connect.NewResponse(toBudgetResponse(saved)), nil
}

// ResetBudget deactivates the caller's budget. The record is kept.
func (s *BudgetService) ResetBudget(ctx context.Context, req *connect.Request[api.ResetBudgetRequest]) (*connect.Response[api.BudgetResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ResetBudget request received", "user_id", userID)

	current, err := s.store.GetBudget(ctx, userID)
	if err != nil {
		slog.Error("ResetBudget lookup failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	reset, err := current.Reset()
	if err != nil {
		return nil, toConnectError(err)
	}

	saved, err := s.store.SaveBudget(ctx, userID, reset)
	if err != nil {
		slog.Error("ResetBudget failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	s.summaries.Invalidate(ctx, userID)

	return connect.NewResponse(toBudgetResponse(saved)), nil
}

// GetBudgetSummary runs the allocator for (today, day).
func (s *BudgetService) GetBudgetSummary(ctx context.Context, req *connect.Request[api.GetBudgetSummaryRequest]) (*connect.Response[api.BudgetSummaryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	today := req.Msg.Today
	if today.IsZero() {
		today = s.calendar.Today()
	}
	day := req.Msg.Day
	if day.IsZero() {
		day = today
	}
	slog.Info("GetBudgetSummary request received", "user_id", userID, "today", today, "day", day)

	key := fmt.Sprintf("summary:%s:%s", today, day)
	if cached, ok := s.summaries.Get(ctx, userID, key); ok {
		var resp api.BudgetSummaryResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			slog.Debug("Budget summary served from cache", "user_id", userID, "key", key)
			return connect.NewResponse(&resp), nil
		}
	}

	gen := s.summaries.Generation(ctx, userID)
	resp, err := s.computeSummary(ctx, userID, today, day)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		s.summaries.Set(ctx, userID, key, gen, data)
	}
	return connect.NewResponse(resp), nil
}

func (s *BudgetService) computeSummary(ctx context.Context, userID string, today, day models.Date) (*api.BudgetSummaryResponse, error) {
	state, err := s.store.GetBudget(ctx, userID)
	if err != nil {
		slog.Error("GetBudgetSummary budget lookup failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	txns, err := s.store.ListTransactions(ctx, userID, storage.TransactionFilter{Type: models.TransactionExpense})
	if err != nil {
		slog.Error("GetBudgetSummary transaction lookup failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	snap := calculator.Snapshot(state, txns, today, day)
	return &api.BudgetSummaryResponse{
		Status:                       snap.Status.String(),
		Today:                        snap.Today,
		Day:                          snap.Day,
		TotalBudget:                  snap.TotalBudget,
		DailyExpenses:                snap.DailyExpenses,
		PeriodExpenses:               snap.PeriodExpenses,
		AdjustedRemainingTotalBudget: snap.AdjustedRemainingTotalBudget,
		DynamicDailyLimit:            snap.DynamicDailyLimit,
		RemainingDailyBudget:         snap.RemainingDailyBudget,
		DaysRemaining:                snap.DaysRemaining,
	}, nil
}

// GetPeriodExpenses totals expenses over [start, end], defaulting to the
// budget's own period.
func (s *BudgetService) GetPeriodExpenses(ctx context.Context, req *connect.Request[api.GetPeriodExpensesRequest]) (*connect.Response[api.PeriodExpensesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetPeriodExpenses request received", "user_id", userID, "start", req.Msg.Start, "end", req.Msg.End)

	start, end := req.Msg.Start, req.Msg.End
	if start.IsZero() != end.IsZero() {
		return nil, invalidArgument("start and end must be given together")
	}
	if start.IsZero() {
		state, err := s.store.GetBudget(ctx, userID)
		if err != nil {
			return nil, toConnectError(err)
		}
		limit, ok := state.Limit()
		if !ok {
			return nil, invalidArgument("no budget to take the period from; pass start and end")
		}
		start, end = limit.StartDate, limit.EndDate
	}

	txns, err := s.store.ListTransactions(ctx, userID, storage.TransactionFilter{
		From: start,
		To:   end,
		Type: models.TransactionExpense,
	})
	if err != nil {
		slog.Error("GetPeriodExpenses failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.PeriodExpensesResponse{
		Start: start,
		End:   end,
		Total: calculator.PeriodExpenses(txns, start, end),
	}), nil
}
