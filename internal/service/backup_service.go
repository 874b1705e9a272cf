package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwiser/internal/cache"
	"github.com/mmynk/budgetwiser/internal/models"
	"github.com/mmynk/budgetwiser/internal/storage"
	"github.com/mmynk/budgetwiser/pkg/api"
	"github.com/mmynk/budgetwiser/pkg/api/apiconnect"
)

var _ apiconnect.BackupServiceHandler = (*BackupService)(nil)

// BackupService implements the Connect BackupService.
type BackupService struct {
	store     storage.Store
	summaries cache.SummaryCache
}

// NewBackupService creates a BackupService.
func NewBackupService(store storage.Store, summaries cache.SummaryCache) *BackupService {
	if summaries == nil {
		summaries = cache.Nop{}
	}
	return &BackupService{store: store, summaries: summaries}
}

// BackupFilename is the suggested download name for a user's backup.
func BackupFilename(userID string) string {
	return fmt.Sprintf("financial_tracker_backup_%s.json", userID)
}

// ValidateBackup checks a backup document before it replaces anything.
func ValidateBackup(backup *models.Backup, userID string) error {
	if backup == nil {
		return fmt.Errorf("backup is required")
	}
	if backup.UserID == "" {
		return fmt.Errorf("backup has no user_id")
	}
	if backup.UserID != userID {
		return fmt.Errorf("backup belongs to user %s", backup.UserID)
	}
	for i, txn := range backup.Transactions {
		if !txn.Type.Valid() {
			return fmt.Errorf("transaction %d: unknown type %q", i, txn.Type)
		}
		if txn.Date.IsZero() {
			return fmt.Errorf("transaction %d: missing date", i)
		}
		if txn.Amount.IsNegative() {
			return fmt.Errorf("transaction %d: negative amount", i)
		}
	}
	if b := backup.BudgetLimit; b != nil && (b.StartDate.IsZero() || b.EndDate.IsZero()) {
		return fmt.Errorf("budget limit is missing its dates")
	}
	for i, goal := range backup.SavingsGoals {
		if goal.Name == "" {
			return fmt.Errorf("savings goal %d: missing name", i)
		}
	}
	return nil
}

// ExportBackup returns all of the caller's data as one document.
func (s *BackupService) ExportBackup(ctx context.Context, req *connect.Request[api.ExportBackupRequest]) (*connect.Response[api.ExportBackupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ExportBackup request received", "user_id", userID)

	backup, err := s.store.ExportBackup(ctx, userID)
	if err != nil {
		slog.Error("ExportBackup failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Backup exported",
		"user_id", userID,
		"transactions", len(backup.Transactions),
		"savings_goals", len(backup.SavingsGoals),
	)
	return connect.NewResponse(&api.ExportBackupResponse{
		Filename: BackupFilename(userID),
		Backup:   backup,
	}), nil
}

// ImportBackup replaces all of the caller's data with the backup's.
func (s *BackupService) ImportBackup(ctx context.Context, req *connect.Request[api.ImportBackupRequest]) (*connect.Response[api.ImportBackupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ImportBackup request received", "user_id", userID)

	backup := req.Msg.Backup
	if err := ValidateBackup(backup, userID); err != nil {
		slog.Warn("ImportBackup rejected", "user_id", userID, "error", err)
		if backup != nil && backup.UserID != "" && backup.UserID != userID {
			return nil, connect.NewError(connect.CodePermissionDenied, err)
		}
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.ImportBackup(ctx, userID, backup); err != nil {
		slog.Error("ImportBackup failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	s.summaries.Invalidate(ctx, userID)

	slog.Info("Backup imported", "user_id", userID, "transactions", len(backup.Transactions))
	return connect.NewResponse(&api.ImportBackupResponse{
		Transactions:   len(backup.Transactions),
		SavingsGoals:   len(backup.SavingsGoals),
		BudgetRestored: backup.BudgetLimit != nil,
	}), nil
}
