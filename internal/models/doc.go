// Package models defines the core domain models for budgetwiser.
//
// # Models
//
//   - User: registered account; every other record belongs to one user
//   - Transaction: a dated income or expense
//   - BudgetLimit / BudgetState: the single per-user budget and its lifecycle
//   - SavingsGoal: progress towards a target amount
//   - Backup: export/import document for all of a user's data
//
// # Design Principles
//
//  1. Money is decimal.Decimal everywhere, never float64
//  2. Calendar days are Date values; time-of-day never leaks into budget math
//  3. Relationships use ID strings, not pointers
//  4. Models carry JSON tags because the backup file format is built from them
package models
