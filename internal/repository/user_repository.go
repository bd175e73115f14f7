package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ruralpay/cardledger/internal/errors"
	"github.com/ruralpay/cardledger/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, q DBTX, user *models.User) error
	GetByUsername(ctx context.Context, q DBTX, username string) (*models.User, error)
	GetByID(ctx context.Context, q DBTX, id int64) (*models.User, error)
	Exists(ctx context.Context, q DBTX, username string) (bool, error)
}

type PostgresUserRepository struct{}

func NewUserRepository() *PostgresUserRepository {
	return &PostgresUserRepository{}
}

func (r *PostgresUserRepository) Create(ctx context.Context, q DBTX, user *models.User) error {
	query := `INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING user_id`

	err := q.QueryRowContext(ctx, query, user.Username, user.PasswordHash, user.Role).Scan(&user.UserID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return errors.ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, q DBTX, username string) (*models.User, error) {
	query := `SELECT user_id, username, password_hash, role FROM users WHERE username = $1`

	user := &models.User{}
	err := q.QueryRowContext(ctx, query, username).
		Scan(&user.UserID, &user.Username, &user.PasswordHash, &user.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, q DBTX, id int64) (*models.User, error) {
	query := `SELECT user_id, username, password_hash, role FROM users WHERE user_id = $1`

	user := &models.User{}
	err := q.QueryRowContext(ctx, query, id).
		Scan(&user.UserID, &user.Username, &user.PasswordHash, &user.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) Exists(ctx context.Context, q DBTX, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := q.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check if user exists: %w", err)
	}
	return exists, nil
}
