package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id SERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(10) NOT NULL CHECK (role IN ('admin', 'user'))
	)`,
	`CREATE TABLE IF NOT EXISTS cards (
		card_id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		card_type VARCHAR(10) NOT NULL CHECK (card_type IN ('Premium', 'Gold', 'Silver')),
		balance NUMERIC(10, 2) NOT NULL DEFAULT 0.00 CHECK (balance >= 0),
		expiry_date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		transaction_id SERIAL PRIMARY KEY,
		card_id INT NOT NULL REFERENCES cards(card_id) ON DELETE CASCADE,
		amount NUMERIC(10, 2) NOT NULL CHECK (amount > 0),
		transaction_type VARCHAR(10) NOT NULL CHECK (transaction_type IN ('Credit', 'Debit')),
		transaction_date TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS activity_logs (
		log_id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		action VARCHAR(255) NOT NULL,
		action_time TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS card_requests (
		request_id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		card_id INT NOT NULL REFERENCES cards(card_id) ON DELETE CASCADE,
		request_type VARCHAR(10) NOT NULL CHECK (request_type IN ('Delete', 'Upgrade')),
		new_card_type VARCHAR(10) CHECK (new_card_type IN ('Premium', 'Gold', 'Silver')),
		request_date TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		status VARCHAR(10) NOT NULL DEFAULT 'Pending' CHECK (status IN ('Pending', 'Accepted', 'Denied')),
		CHECK ((request_type = 'Upgrade') = (new_card_type IS NOT NULL))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cards_user_id ON cards(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_card_id ON transactions(card_id)`,
	`CREATE INDEX IF NOT EXISTS idx_card_requests_status ON card_requests(status, request_date)`,
}

// Migrate creates the ledger tables inside a single transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}
