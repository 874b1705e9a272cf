package api

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwiser/internal/models"
)

// ---- Auth ----

// UserProfile is the public view of an account.
type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
	CreatedAt int64  `json:"createdAt"`
}

type RegisterRequest struct {
	Email          string `json:"email"`
	FullName       string `json:"fullName"`
	Password       string `json:"password"`
	SecurityAnswer string `json:"securityAnswer"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a bearer token for the Authorization header.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"`
	User      *UserProfile `json:"user"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetProfileRequest struct{}

// UpdateProfileRequest changes only the fields that are set.
type UpdateProfileRequest struct {
	FullName  *string `json:"fullName,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

type ProfileResponse struct {
	User *UserProfile `json:"user"`
}

type ResetPasswordRequest struct {
	Email          string `json:"email"`
	SecurityAnswer string `json:"securityAnswer"`
	NewPassword    string `json:"newPassword"`
}

type ResetPasswordResponse struct{}

// ---- Transactions ----

// ListTransactionsRequest filters by date range and type; empty fields match all.
type ListTransactionsRequest struct {
	From models.Date `json:"from"`
	To   models.Date `json:"to"`
	Type string      `json:"type,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

type GetTransactionRequest struct {
	ID string `json:"id"`
}

type TransactionInput struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        models.Date     `json:"date"`
}

type CreateTransactionRequest struct {
	TransactionInput
}

type UpdateTransactionRequest struct {
	ID string `json:"id"`
	TransactionInput
}

type TransactionResponse struct {
	Transaction *models.Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	ID string `json:"id"`
}

// DeleteTransactionResponse reports the savings goal that was rolled back,
// if the deleted transaction was a contribution.
type DeleteTransactionResponse struct {
	RevertedGoal *models.SavingsGoal `json:"revertedGoal,omitempty"`
}

type SummarizeTransactionsRequest struct {
	From models.Date `json:"from"`
	To   models.Date `json:"to"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type SummarizeTransactionsResponse struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Net           decimal.Decimal `json:"net"`
	Count         int             `json:"count"`
	ByCategory    []CategoryTotal `json:"byCategory"`
}

// ---- Budget ----

type GetBudgetRequest struct{}

type SetBudgetRequest struct {
	TotalBudget decimal.Decimal `json:"totalBudget"`
	StartDate   models.Date     `json:"startDate"`
	EndDate     models.Date     `json:"endDate"`
}

type ResetBudgetRequest struct{}

// BudgetResponse has Status "unset", "active" or "inactive". Budget is nil
// only when unset.
type BudgetResponse struct {
	Status string              `json:"status"`
	Budget *models.BudgetLimit `json:"budget"`
}

// GetBudgetSummaryRequest defaults Today to the server's current day and
// Day to Today.
type GetBudgetSummaryRequest struct {
	Today models.Date `json:"today"`
	Day   models.Date `json:"day"`
}

type BudgetSummaryResponse struct {
	Status                       string          `json:"status"`
	Today                        models.Date     `json:"today"`
	Day                          models.Date     `json:"day"`
	TotalBudget                  decimal.Decimal `json:"totalBudget"`
	DailyExpenses                decimal.Decimal `json:"dailyExpenses"`
	PeriodExpenses               decimal.Decimal `json:"periodExpenses"`
	AdjustedRemainingTotalBudget decimal.Decimal `json:"adjustedRemainingTotalBudget"`
	DynamicDailyLimit            decimal.Decimal `json:"dynamicDailyLimit"`
	RemainingDailyBudget         decimal.Decimal `json:"remainingDailyBudget"`
	DaysRemaining                int             `json:"daysRemaining"`
}

// GetPeriodExpensesRequest defaults to the budget's own period.
type GetPeriodExpensesRequest struct {
	Start models.Date `json:"start"`
	End   models.Date `json:"end"`
}

type PeriodExpensesResponse struct {
	Start models.Date     `json:"start"`
	End   models.Date     `json:"end"`
	Total decimal.Decimal `json:"total"`
}

// ---- Savings ----

// Goal is a savings goal with its derived progress figures.
type Goal struct {
	models.SavingsGoal
	ProgressPercent     decimal.Decimal `json:"progressPercent"`
	RemainingToSave     decimal.Decimal `json:"remainingToSave"`
	RequiredDailySaving decimal.Decimal `json:"requiredDailySaving"`
}

type ListGoalsRequest struct{}

type ListGoalsResponse struct {
	Goals []Goal `json:"goals"`
}

// CreateGoalRequest with a positive InitialAmount also records an
// "Initial deposit for" expense dated today.
type CreateGoalRequest struct {
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	InitialAmount decimal.Decimal `json:"initialAmount"`
	Deadline      models.Date     `json:"deadline"`
}

// UpdateGoalRequest changes only the fields that are set.
type UpdateGoalRequest struct {
	ID            string           `json:"id"`
	Name          *string          `json:"name,omitempty"`
	TargetAmount  *decimal.Decimal `json:"targetAmount,omitempty"`
	CurrentAmount *decimal.Decimal `json:"currentAmount,omitempty"`
	Deadline      *models.Date     `json:"deadline,omitempty"`
	IsCompleted   *bool            `json:"isCompleted,omitempty"`
}

type DeleteGoalRequest struct {
	ID string `json:"id"`
}

type DeleteGoalResponse struct{}

// ContributeRequest adds Amount to a goal. Unless SkipTransaction is set a
// "Saved for" expense is recorded on Date, which defaults to today.
type ContributeRequest struct {
	ID              string          `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Date            models.Date     `json:"date"`
	SkipTransaction bool            `json:"skipTransaction,omitempty"`
}

type GoalResponse struct {
	Goal        *Goal               `json:"goal"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

// ---- Backup ----

type ExportBackupRequest struct{}

type ExportBackupResponse struct {
	Filename string         `json:"filename"`
	Backup   *models.Backup `json:"backup"`
}

type ImportBackupRequest struct {
	Backup *models.Backup `json:"backup"`
}

type ImportBackupResponse struct {
	Transactions   int  `json:"transactions"`
	SavingsGoals   int  `json:"savingsGoals"`
	BudgetRestored bool `json:"budgetRestored"`
}
