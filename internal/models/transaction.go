package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// SavingsCategory is the category used for transactions that move money
// into a savings goal.
const SavingsCategory = "Savings"

const (
	savedForPrefix       = "Saved for "
	initialDepositPrefix = "Initial deposit for "
)

// Transaction is a single income or expense entry.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// UserID owns the transaction.
	UserID string `json:"userId"`

	Type TransactionType `json:"type"`

	// Amount is never negative; the direction comes from Type.
	Amount decimal.Decimal `json:"amount"`

	Category    string `json:"category"`
	Description string `json:"description"`

	// Date is the calendar day the money moved.
	Date Date `json:"date"`

	// CreatedAt is when the transaction was recorded.
	CreatedAt UnixTime `json:"createdAt"`
}

// IsExpense reports whether the transaction counts against a budget.
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionExpense
}

// SavingsGoalName returns the goal a savings contribution was made to, if
// the transaction is one.
func (t *Transaction) SavingsGoalName() (string, bool) {
	if t.Category != SavingsCategory || t.Description == "" {
		return "", false
	}
	for _, prefix := range []string{savedForPrefix, initialDepositPrefix} {
		if name, ok := strings.CutPrefix(t.Description, prefix); ok && name != "" {
			return name, true
		}
	}
	return "", false
}

// ContributionDescription is the description recorded for a deposit into goalName.
func ContributionDescription(goalName string) string {
	return fmt.Sprintf("%s%s", savedForPrefix, goalName)
}

// InitialDepositDescription is the description recorded for the opening
// balance of goalName.
func InitialDepositDescription(goalName string) string {
	return fmt.Sprintf("%s%s", initialDepositPrefix, goalName)
}
