package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/ruralpay/cardledger/internal/errors"
	"github.com/ruralpay/cardledger/internal/logger"
)

// Store owns the pooled handle and the per-operation timeout.
type Store struct {
	DB      *sql.DB
	Timeout time.Duration
}

func NewStore(db *sql.DB, timeout time.Duration) *Store {
	return &Store{DB: db, Timeout: timeout}
}

// Context bounds ctx by the store timeout.
func (s *Store) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}

// WithTx runs fn inside one transaction bounded by the store timeout; fn must
// issue its statements with the ctx it is given. Any error from fn rolls
// everything back. Domain errors are returned unchanged, everything else
// becomes a StorageError.
func (s *Store) WithTx(ctx context.Context, op string, fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, cancel := s.Context(ctx)
	defer cancel()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		logger.Error().Str("operation", op).Err(err).Msg("failed to begin transaction")
		return errors.NewStorageError(op, err)
	}

	// Ensure rollback on error
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return s.Wrap(op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error().Str("operation", op).Err(err).Msg("failed to commit transaction")
		return errors.NewStorageError(op, err)
	}
	tx = nil

	return nil
}

// Wrap passes domain errors through and converts anything else into a StorageError.
func (s *Store) Wrap(op string, err error) error {
	if err == nil || errors.IsDomain(err) || errors.IsStorageUnavailable(err) {
		return err
	}
	return errors.NewStorageError(op, err)
}
