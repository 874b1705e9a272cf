// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwiser/internal/models"
)

// ErrNotFound is wrapped by every lookup that finds no matching record.
var ErrNotFound = errors.New("not found")

// TransactionFilter narrows ListTransactions. Zero fields do not filter.
type TransactionFilter struct {
	From models.Date
	To   models.Date
	Type models.TransactionType
}

// GoalUpdate lists the savings goal fields to change. Nil fields are kept.
type GoalUpdate struct {
	Name          *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	Deadline      *models.Date
	IsCompleted   *bool
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil, nil when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil, nil when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateProfile saves FullName and AvatarURL.
	UpdateProfile(ctx context.Context, user *models.User) error

	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// TransactionStore persists a user's income and expenses.
// Every method is scoped to one user; records of other users are invisible.
type TransactionStore interface {
	// CreateTransaction persists a new transaction.
	// The ID and CreatedAt fields are populated by the store.
	CreateTransaction(ctx context.Context, txn *models.Transaction) error

	GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error)

	// ListTransactions returns matching transactions, newest date first.
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error)

	UpdateTransaction(ctx context.Context, txn *models.Transaction) error

	// DeleteTransaction removes a transaction and returns it. When it was a
	// savings contribution, the goal it names is rolled back in the same
	// database transaction and returned as well.
	DeleteTransaction(ctx context.Context, userID, id string) (*models.Transaction, *models.SavingsGoal, error)
}

// BudgetStore persists the single budget each user may have.
type BudgetStore interface {
	// GetBudget returns models.UnsetBudget() when the user has no record.
	GetBudget(ctx context.Context, userID string) (models.BudgetState, error)

	// SaveBudget upserts the user's budget record. Saving an Unset state is
	// an error.
	SaveBudget(ctx context.Context, userID string, state models.BudgetState) (models.BudgetState, error)
}

// SavingsStore persists savings goals.
type SavingsStore interface {
	// CreateSavingsGoal persists a new goal. When deposit is non-nil its
	// amount is credited to the goal and the transaction is inserted in the
	// same database transaction.
	CreateSavingsGoal(ctx context.Context, goal *models.SavingsGoal, deposit *models.Transaction) error
	GetSavingsGoal(ctx context.Context, userID, id string) (*models.SavingsGoal, error)

	// ListSavingsGoals returns goals oldest first.
	ListSavingsGoals(ctx context.Context, userID string) ([]models.SavingsGoal, error)

	UpdateSavingsGoal(ctx context.Context, userID, id string, update GoalUpdate) (*models.SavingsGoal, error)
	DeleteSavingsGoal(ctx context.Context, userID, id string) error

	// Contribute adds amount to a goal. When txn is non-nil it is inserted
	// in the same database transaction.
	Contribute(ctx context.Context, userID, goalID string, amount decimal.Decimal, txn *models.Transaction) (*models.SavingsGoal, error)
}

// BackupStore moves all of a user's data in and out at once.
type BackupStore interface {
	ExportBackup(ctx context.Context, userID string) (*models.Backup, error)

	// ImportBackup replaces every transaction, budget and goal of userID
	// with the backup's contents.
	ImportBackup(ctx context.Context, userID string, backup *models.Backup) error
}

// Store is everything the services need from persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	TransactionStore
	BudgetStore
	SavingsStore
	BackupStore

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
