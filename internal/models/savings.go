package models

import "github.com/shopspring/decimal"

// SavingsGoal tracks progress towards a target amount.
type SavingsGoal struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	Name string `json:"name"`

	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`

	// Deadline is optional; the zero Date means none.
	Deadline Date `json:"deadline"`

	IsCompleted bool `json:"isCompleted"`

	CreatedAt UnixTime `json:"createdAt"`
	UpdatedAt UnixTime `json:"updatedAt"`
}

// Contribute adds amount to the goal and marks it completed once the target
// is reached.
func (g *SavingsGoal) Contribute(amount decimal.Decimal) {
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	g.IsCompleted = g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// Withdraw takes amount back out of the goal, never going below zero.
func (g *SavingsGoal) Withdraw(amount decimal.Decimal) {
	g.CurrentAmount = decimal.Max(decimal.Zero, g.CurrentAmount.Sub(amount))
	g.IsCompleted = g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}
