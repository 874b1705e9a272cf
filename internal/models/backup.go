package models

// BackupVersion is written into every exported backup.
const BackupVersion = 1.0

// Backup is the export/import document holding all of one user's data.
type Backup struct {
	Version   float64 `json:"version"`
	Timestamp string  `json:"timestamp"`
	UserID    string  `json:"user_id"`

	Transactions []Transaction `json:"transactions"`
	BudgetLimit  *BackupBudget `json:"budgetLimit"`
	SavingsGoals []SavingsGoal `json:"savingsGoals"`
}

// BackupBudget is a budget record with its active flag flattened in.
type BackupBudget struct {
	BudgetLimit
	IsActive bool `json:"isActive"`
}

// BackupBudgetFrom returns nil for an unset budget.
func BackupBudgetFrom(state BudgetState) *BackupBudget {
	limit, ok := state.Limit()
	if !ok {
		return nil
	}
	return &BackupBudget{BudgetLimit: limit, IsActive: state.IsActive()}
}

// State turns a backed-up budget back into a BudgetState.
func (b *BackupBudget) State() BudgetState {
	if b == nil {
		return UnsetBudget()
	}
	if b.IsActive {
		return ActiveBudget(b.BudgetLimit)
	}
	return InactiveBudget(b.BudgetLimit)
}
