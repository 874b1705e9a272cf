package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwiser/internal/cache"
	"github.com/mmynk/budgetwiser/internal/calculator"
	"github.com/mmynk/budgetwiser/internal/clock"
	"github.com/mmynk/budgetwiser/internal/models"
	"github.com/mmynk/budgetwiser/internal/storage"
	"github.com/mmynk/budgetwiser/pkg/api"
	"github.com/mmynk/budgetwiser/pkg/api/apiconnect"
)

var _ apiconnect.SavingsServiceHandler = (*SavingsService)(nil)

// SavingsService implements the Connect SavingsService.
type SavingsService struct {
	store     storage.Store
	summaries cache.SummaryCache
	calendar  clock.Calendar
}

// NewSavingsService creates a SavingsService.
func NewSavingsService(store storage.Store, summaries cache.SummaryCache, calendar clock.Calendar) *SavingsService {
	if summaries == nil {
		summaries = cache.Nop{}
	}
	return &SavingsService{store: store, summaries: summaries, calendar: calendar}
}

func toGoal(goal models.SavingsGoal, today models.Date) *api.Goal {
	return &api.Goal{
		SavingsGoal:         goal,
		ProgressPercent:     calculator.GoalProgress(goal),
		RemainingToSave:     calculator.RemainingToSave(goal),
		RequiredDailySaving: calculator.RequiredDailySaving(goal, today),
	}
}

// savingsTransaction is the expense that moves money into a goal.
func savingsTransaction(userID string, amount decimal.Decimal, description string, date models.Date) *models.Transaction {
	return &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionExpense,
		Amount:      amount,
		Category:    models.SavingsCategory,
		Description: description,
		Date:        date,
	}
}

// ListGoals returns the caller's goals, oldest first.
func (s *SavingsService) ListGoals(ctx context.Context, req *connect.Request[api.ListGoalsRequest]) (*connect.Response[api.ListGoalsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListGoals request received", "user_id", userID)

	goals, err := s.store.ListSavingsGoals(ctx, userID)
	if err != nil {
		slog.Error("ListGoals failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	today := s.calendar.Today()
	views := make([]api.Goal, len(goals))
	for i, goal := range goals {
		views[i] = *toGoal(goal, today)
	}

	slog.Info("ListGoals successful", "count", len(goals))
	return connect.NewResponse(&api.ListGoalsResponse{Goals: views}), nil
}

// CreateGoal adds a savings goal. A positive initial amount is recorded as
// an "Initial deposit for" expense dated today.
func (s *SavingsService) CreateGoal(ctx context.Context, req *connect.Request[api.CreateGoalRequest]) (*connect.Response[api.GoalResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGoal request received",
		"user_id", userID,
		"name", req.Msg.Name,
		"target_amount", req.Msg.TargetAmount,
		"initial_amount", req.Msg.InitialAmount,
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("goal name is required")
	}
	if !req.Msg.TargetAmount.IsPositive() {
		return nil, invalidArgument("target amount must be positive")
	}
	if req.Msg.InitialAmount.IsNegative() {
		return nil, invalidArgument("initial amount cannot be negative")
	}

	goal := &models.SavingsGoal{
		UserID:        userID,
		Name:          name,
		TargetAmount:  req.Msg.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      req.Msg.Deadline,
	}

	today := s.calendar.Today()
	resp := &api.GoalResponse{}
	if req.Msg.InitialAmount.IsPositive() {
		resp.Transaction = savingsTransaction(userID, req.Msg.InitialAmount, models.InitialDepositDescription(name), today)
	}

	if err := s.store.CreateSavingsGoal(ctx, goal, resp.Transaction); err != nil {
		slog.Error("CreateGoal failed", "error", err)
		return nil, toConnectError(err)
	}
	if resp.Transaction != nil {
		s.summaries.Invalidate(ctx, userID)
	}
	resp.Goal = toGoal(*goal, today)

	slog.Info("Savings goal created", "goal_id", goal.ID)
	return connect.NewResponse(resp), nil
}

// UpdateGoal changes the fields that are set in the request.
func (s *SavingsService) UpdateGoal(ctx context.Context, req *connect.Request[api.UpdateGoalRequest]) (*connect.Response[api.GoalResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateGoal request received", "goal_id", req.Msg.ID)

	update := storage.GoalUpdate{
		TargetAmount:  req.Msg.TargetAmount,
		CurrentAmount: req.Msg.CurrentAmount,
		Deadline:      req.Msg.Deadline,
		IsCompleted:   req.Msg.IsCompleted,
	}
	if req.Msg.Name != nil {
		name := strings.TrimSpace(*req.Msg.Name)
		if name == "" {
			return nil, invalidArgument("goal name cannot be empty")
		}
		update.Name = &name
	}
	if update.TargetAmount != nil && !update.TargetAmount.IsPositive() {
		return nil, invalidArgument("target amount must be positive")
	}
	if update.CurrentAmount != nil && update.CurrentAmount.IsNegative() {
		return nil, invalidArgument("current amount cannot be negative")
	}

	goal, err := s.store.UpdateSavingsGoal(ctx, userID, req.Msg.ID, update)
	if err != nil {
		slog.Error("UpdateGoal failed", "goal_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GoalResponse{Goal: toGoal(*goal, s.calendar.Today())}), nil
}

// DeleteGoal removes a goal. Its contribution transactions stay in the ledger.
func (s *SavingsService) DeleteGoal(ctx context.Context, req *connect.Request[api.DeleteGoalRequest]) (*connect.Response[api.DeleteGoalResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteGoal request received", "goal_id", req.Msg.ID)

	if err := s.store.DeleteSavingsGoal(ctx, userID, req.Msg.ID); err != nil {
		slog.Error("DeleteGoal failed", "goal_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteGoalResponse{}), nil
}

// Contribute adds money to a goal and, unless told otherwise, records the
// matching "Saved for" expense.
func (s *SavingsService) Contribute(ctx context.Context, req *connect.Request[api.ContributeRequest]) (*connect.Response[api.GoalResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("Contribute request received", "goal_id", req.Msg.ID, "amount", req.Msg.Amount)

	if !req.Msg.Amount.IsPositive() {
		return nil, invalidArgument("amount must be positive")
	}

	goal, err := s.store.GetSavingsGoal(ctx, userID, req.Msg.ID)
	if err != nil {
		slog.Error("Contribute lookup failed", "goal_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	today := s.calendar.Today()
	date := req.Msg.Date
	if date.IsZero() {
		date = today
	}

	var txn *models.Transaction
	if !req.Msg.SkipTransaction {
		txn = savingsTransaction(userID, req.Msg.Amount, models.ContributionDescription(goal.Name), date)
	}

	updated, err := s.store.Contribute(ctx, userID, goal.ID, req.Msg.Amount, txn)
	if err != nil {
		slog.Error("Contribute failed", "goal_id", goal.ID, "error", err)
		return nil, toConnectError(err)
	}
	if txn != nil {
		s.summaries.Invalidate(ctx, userID)
	}

	slog.Info("Contribution recorded", "goal_id", updated.ID, "current_amount", updated.CurrentAmount, "completed", updated.IsCompleted)
	return connect.NewResponse(&api.GoalResponse{Goal: toGoal(*updated, today), Transaction: txn}), nil
}
