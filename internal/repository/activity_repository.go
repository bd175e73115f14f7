package repository

import (
	"context"
	"fmt"

	"github.com/ruralpay/cardledger/internal/models"
)

type ActivityRepository interface {
	Create(ctx context.Context, q DBTX, entry *models.ActivityLog) error
	ListAll(ctx context.Context, q DBTX) ([]*models.ActivityLog, error)
}

type PostgresActivityRepository struct{}

func NewActivityRepository() *PostgresActivityRepository {
	return &PostgresActivityRepository{}
}

// Create appends an audit entry, inside a transaction when q is a *sql.Tx.
func (r *PostgresActivityRepository) Create(ctx context.Context, q DBTX, entry *models.ActivityLog) error {
	query := `INSERT INTO activity_logs (user_id, action)
		VALUES ($1, $2)
		RETURNING log_id, action_time`

	err := q.QueryRowContext(ctx, query, entry.UserID, entry.Action).
		Scan(&entry.LogID, &entry.ActionTime)
	if err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}
	return nil
}

func (r *PostgresActivityRepository) ListAll(ctx context.Context, q DBTX) ([]*models.ActivityLog, error) {
	query := `SELECT log_id, user_id, action, action_time
		FROM activity_logs
		ORDER BY action_time, log_id`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	logs := []*models.ActivityLog{}
	for rows.Next() {
		entry := &models.ActivityLog{}
		if err := rows.Scan(&entry.LogID, &entry.UserID, &entry.Action, &entry.ActionTime); err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		logs = append(logs, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over activity logs: %w", err)
	}
	return logs, nil
}
