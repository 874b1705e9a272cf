package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrBudgetNotActive is returned when resetting a budget that is not active.
var ErrBudgetNotActive = errors.New("no active budget to reset")

// BudgetLimit is a total amount to spread over an inclusive date range.
// A user has at most one.
type BudgetLimit struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	TotalBudget decimal.Decimal `json:"totalBudget"`

	// DailyLimit is TotalBudget spread evenly over the period, computed when
	// the budget is created. It is informational; the dynamic daily limit is
	// what callers should show.
	DailyLimit decimal.Decimal `json:"dailyLimit"`

	StartDate Date `json:"startDate"`
	EndDate   Date `json:"endDate"`

	CreatedAt UnixTime `json:"createdAt"`
	UpdatedAt UnixTime `json:"updatedAt"`
}

// NewBudgetLimit builds a budget for userID and fills in DailyLimit.
func NewBudgetLimit(userID string, total decimal.Decimal, start, end Date) BudgetLimit {
	daily := decimal.Zero
	if days := DaysInclusive(start, end); days > 0 {
		daily = total.Div(decimal.NewFromInt(int64(days)))
	}
	return BudgetLimit{
		UserID:      userID,
		TotalBudget: total,
		DailyLimit:  daily,
		StartDate:   start,
		EndDate:     end,
	}
}

// BudgetStatus is the lifecycle position of a user's budget.
type BudgetStatus int

const (
	// BudgetUnset means the user never created a budget.
	BudgetUnset BudgetStatus = iota
	// BudgetActive means the budget drives the daily limit.
	BudgetActive
	// BudgetInactive means the budget was reset. The record is kept.
	BudgetInactive
)

func (s BudgetStatus) String() string {
	switch s {
	case BudgetActive:
		return "active"
	case BudgetInactive:
		return "inactive"
	default:
		return "unset"
	}
}

// BudgetState is a user's budget together with its lifecycle status.
//
//	Unset    --Activate--> Active
//	Active   --Activate--> Active   (replaced)
//	Active   --Reset-----> Inactive
//	Inactive --Activate--> Active
//
// A budget past its end date stays Active until reset or replaced.
type BudgetState struct {
	status BudgetStatus
	limit  BudgetLimit
}

// UnsetBudget is the state of a user with no budget record.
func UnsetBudget() BudgetState {
	return BudgetState{status: BudgetUnset}
}

// ActiveBudget wraps a budget that currently applies.
func ActiveBudget(limit BudgetLimit) BudgetState {
	return BudgetState{status: BudgetActive, limit: limit}
}

// InactiveBudget wraps a budget that has been reset.
func InactiveBudget(limit BudgetLimit) BudgetState {
	return BudgetState{status: BudgetInactive, limit: limit}
}

func (s BudgetState) Status() BudgetStatus { return s.status }

func (s BudgetState) IsActive() bool { return s.status == BudgetActive }

// Limit returns the budget record. ok is false only for Unset.
func (s BudgetState) Limit() (limit BudgetLimit, ok bool) {
	if s.status == BudgetUnset {
		return BudgetLimit{}, false
	}
	return s.limit, true
}

// Activate replaces whatever budget exists with limit. The record keeps the
// existing ID so persistence can upsert by user.
func (s BudgetState) Activate(limit BudgetLimit) BudgetState {
	if s.status != BudgetUnset && limit.ID == "" {
		limit.ID = s.limit.ID
		limit.CreatedAt = s.limit.CreatedAt
	}
	return ActiveBudget(limit)
}

// Reset deactivates an active budget.
func (s BudgetState) Reset() (BudgetState, error) {
	if s.status != BudgetActive {
		return s, ErrBudgetNotActive
	}
	return InactiveBudget(s.limit), nil
}
