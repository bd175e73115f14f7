package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ruralpay/cardledger/internal/errors"
	"github.com/ruralpay/cardledger/internal/models"
)

type CardRepository interface {
	Create(ctx context.Context, q DBTX, card *models.Card) error
	GetByID(ctx context.Context, q DBTX, id int64) (*models.Card, error)
	GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.Card, error)
	ListByUser(ctx context.Context, q DBTX, userID int64) ([]*models.Card, error)
	ListAll(ctx context.Context, q DBTX) ([]*models.Card, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id int64, balance decimal.Decimal) error
	UpdateType(ctx context.Context, tx *sql.Tx, id int64, cardType models.CardType) error
	Delete(ctx context.Context, tx *sql.Tx, id int64) error
}

type PostgresCardRepository struct{}

func NewCardRepository() *PostgresCardRepository {
	return &PostgresCardRepository{}
}

const cardColumns = `card_id, user_id, card_type, balance, expiry_date, created_at`

func (r *PostgresCardRepository) Create(ctx context.Context, q DBTX, card *models.Card) error {
	query := `INSERT INTO cards (user_id, card_type, balance, expiry_date)
		VALUES ($1, $2, $3, $4)
		RETURNING card_id, created_at`

	err := q.QueryRowContext(ctx, query, card.UserID, card.CardType, card.Balance, card.ExpiryDate).
		Scan(&card.CardID, &card.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *PostgresCardRepository) GetByID(ctx context.Context, q DBTX, id int64) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE card_id = $1`
	return r.get(ctx, q, query, id)
}

// GetByIDForUpdate locks the card row until the surrounding transaction ends.
func (r *PostgresCardRepository) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE card_id = $1 FOR UPDATE`
	return r.get(ctx, tx, query, id)
}

func (r *PostgresCardRepository) get(ctx context.Context, q DBTX, query string, id int64) (*models.Card, error) {
	card := &models.Card{}
	err := q.QueryRowContext(ctx, query, id).
		Scan(&card.CardID, &card.UserID, &card.CardType, &card.Balance, &card.ExpiryDate, &card.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card by ID: %w", err)
	}
	return card, nil
}

func (r *PostgresCardRepository) ListByUser(ctx context.Context, q DBTX, userID int64) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE user_id = $1 ORDER BY card_id`
	return r.list(ctx, q, query, userID)
}

func (r *PostgresCardRepository) ListAll(ctx context.Context, q DBTX) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards ORDER BY card_id`
	return r.list(ctx, q, query)
}

func (r *PostgresCardRepository) list(ctx context.Context, q DBTX, query string, args ...any) ([]*models.Card, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	cards := []*models.Card{}
	for rows.Next() {
		card := &models.Card{}
		if err := rows.Scan(&card.CardID, &card.UserID, &card.CardType, &card.Balance, &card.ExpiryDate, &card.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over cards: %w", err)
	}
	return cards, nil
}

func (r *PostgresCardRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id int64, balance decimal.Decimal) error {
	query := `UPDATE cards SET balance = $1 WHERE card_id = $2`

	result, err := tx.ExecContext(ctx, query, balance, id)
	if err != nil {
		return fmt.Errorf("failed to update card balance: %w", err)
	}
	return expectOneRow(result, errors.ErrCardNotFound, "updating card balance")
}

func (r *PostgresCardRepository) UpdateType(ctx context.Context, tx *sql.Tx, id int64, cardType models.CardType) error {
	query := `UPDATE cards SET card_type = $1 WHERE card_id = $2`

	result, err := tx.ExecContext(ctx, query, cardType, id)
	if err != nil {
		return fmt.Errorf("failed to update card type: %w", err)
	}
	return expectOneRow(result, errors.ErrCardNotFound, "updating card type")
}

// Delete removes the card; transactions and card requests go with it by cascade.
func (r *PostgresCardRepository) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `DELETE FROM cards WHERE card_id = $1`

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return expectOneRow(result, errors.ErrCardNotFound, "deleting card")
}

func expectOneRow(result sql.Result, notFound error, action string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after %s: %w", action, err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
