package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ruralpay/cardledger/internal/models"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *sql.Tx, transaction *models.Transaction) error
	ListByCard(ctx context.Context, q DBTX, cardID int64) ([]*models.Transaction, error)
	ListAll(ctx context.Context, q DBTX) ([]*models.Transaction, error)
}

type PostgresTransactionRepository struct{}

func NewTransactionRepository() *PostgresTransactionRepository {
	return &PostgresTransactionRepository{}
}

func (r *PostgresTransactionRepository) Create(ctx context.Context, tx *sql.Tx, transaction *models.Transaction) error {
	query := `INSERT INTO transactions (card_id, amount, transaction_type)
		VALUES ($1, $2, $3)
		RETURNING transaction_id, transaction_date`

	err := tx.QueryRowContext(ctx, query,
		transaction.CardID,
		transaction.Amount,
		transaction.TransactionType,
	).Scan(&transaction.TransactionID, &transaction.TransactionDate)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *PostgresTransactionRepository) ListByCard(ctx context.Context, q DBTX, cardID int64) ([]*models.Transaction, error) {
	query := `SELECT transaction_id, card_id, amount, transaction_type, transaction_date
		FROM transactions
		WHERE card_id = $1
		ORDER BY transaction_date, transaction_id`
	return r.list(ctx, q, query, cardID)
}

func (r *PostgresTransactionRepository) ListAll(ctx context.Context, q DBTX) ([]*models.Transaction, error) {
	query := `SELECT transaction_id, card_id, amount, transaction_type, transaction_date
		FROM transactions
		ORDER BY transaction_date, transaction_id`
	return r.list(ctx, q, query)
}

func (r *PostgresTransactionRepository) list(ctx context.Context, q DBTX, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []*models.Transaction{}
	for rows.Next() {
		t := &models.Transaction{}
		if err := rows.Scan(&t.TransactionID, &t.CardID, &t.Amount, &t.TransactionType, &t.TransactionDate); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}
	return transactions, nil
}
