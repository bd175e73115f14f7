package services

import (
	"context"

	"github.com/ruralpay/cardledger/internal/database"
	"github.com/ruralpay/cardledger/internal/logger"
	"github.com/ruralpay/cardledger/internal/models"
	"github.com/ruralpay/cardledger/internal/repository"
)

// AuditService appends and reads the activity log.
type AuditService struct {
	store *database.Store
	logs  repository.ActivityRepository
}

func NewAuditService(store *database.Store, logs repository.ActivityRepository) *AuditService {
	return &AuditService{store: store, logs: logs}
}

// Record appends an entry through q, normally the caller's *sql.Tx, so the
// entry commits or rolls back together with the change it describes.
func (s *AuditService) Record(ctx context.Context, q repository.DBTX, userID int64, action string) error {
	entry := &models.ActivityLog{UserID: userID, Action: truncateAction(action)}
	return s.logs.Create(ctx, q, entry)
}

// LogAction appends an entry on its own.
func (s *AuditService) LogAction(ctx context.Context, userID int64, action string) error {
	ctx, cancel := s.store.Context(ctx)
	defer cancel()

	if err := s.Record(ctx, s.store.DB, userID, action); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to log activity")
		return s.store.Wrap("log_action", err)
	}
	return nil
}

// ListAll returns every entry, oldest first.
func (s *AuditService) ListAll(ctx context.Context) ([]*models.ActivityLog, error) {
	ctx, cancel := s.store.Context(ctx)
	defer cancel()

	logs, err := s.logs.ListAll(ctx, s.store.DB)
	if err != nil {
		return nil, s.store.Wrap("list_activity_logs", err)
	}
	return logs, nil
}

func truncateAction(action string) string {
	runes := []rune(action)
	if len(runes) <= models.MaxActionLength {
		return action
	}
	return string(runes[:models.MaxActionLength])
}
