package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ruralpay/cardledger/internal/errors"
	"github.com/ruralpay/cardledger/internal/models"
)

type RequestRepository interface {
	Create(ctx context.Context, q DBTX, request *models.CardRequest) error
	GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.CardRequest, error)
	ListPending(ctx context.Context, q DBTX) ([]*models.CardRequest, error)
	ListByUser(ctx context.Context, q DBTX, userID int64) ([]*models.CardRequest, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status models.RequestStatus) error
}

type PostgresRequestRepository struct{}

func NewRequestRepository() *PostgresRequestRepository {
	return &PostgresRequestRepository{}
}

const requestColumns = `request_id, user_id, card_id, request_type, new_card_type, status, request_date`

func (r *PostgresRequestRepository) Create(ctx context.Context, q DBTX, request *models.CardRequest) error {
	query := `INSERT INTO card_requests (user_id, card_id, request_type, new_card_type, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING request_id, request_date`

	err := q.QueryRowContext(ctx, query,
		request.UserID,
		request.CardID,
		request.RequestType,
		nullCardType(request.NewCardType),
		request.Status,
	).Scan(&request.RequestID, &request.RequestDate)
	if err != nil {
		return fmt.Errorf("failed to create card request: %w", err)
	}
	return nil
}

// GetByIDForUpdate locks the request row so concurrent resolutions serialise.
func (r *PostgresRequestRepository) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.CardRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM card_requests WHERE request_id = $1 FOR UPDATE`

	request, err := scanRequest(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get card request by ID: %w", err)
	}
	return request, nil
}

func (r *PostgresRequestRepository) ListPending(ctx context.Context, q DBTX) ([]*models.CardRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM card_requests
		WHERE status = $1
		ORDER BY request_date, request_id`
	return r.list(ctx, q, query, models.StatusPending)
}

func (r *PostgresRequestRepository) ListByUser(ctx context.Context, q DBTX, userID int64) ([]*models.CardRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM card_requests
		WHERE user_id = $1
		ORDER BY request_date, request_id`
	return r.list(ctx, q, query, userID)
}

// UpdateStatus only moves a Pending request; a terminal one reports ErrRequestAlreadyResolved.
func (r *PostgresRequestRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status models.RequestStatus) error {
	query := `UPDATE card_requests SET status = $1 WHERE request_id = $2 AND status = $3`

	result, err := tx.ExecContext(ctx, query, status, id, models.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to update card request status: %w", err)
	}
	return expectOneRow(result, errors.ErrRequestAlreadyResolved, "updating card request status")
}

func (r *PostgresRequestRepository) list(ctx context.Context, q DBTX, query string, args ...any) ([]*models.CardRequest, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list card requests: %w", err)
	}
	defer rows.Close()

	requests := []*models.CardRequest{}
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card request: %w", err)
		}
		requests = append(requests, request)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over card requests: %w", err)
	}
	return requests, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*models.CardRequest, error) {
	request := &models.CardRequest{}
	var newType sql.NullString

	err := row.Scan(&request.RequestID, &request.UserID, &request.CardID,
		&request.RequestType, &newType, &request.Status, &request.RequestDate)
	if err != nil {
		return nil, err
	}

	if newType.Valid {
		t := models.CardType(newType.String)
		request.NewCardType = &t
	}
	return request, nil
}

func nullCardType(t *models.CardType) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*t), Valid: true}
}
