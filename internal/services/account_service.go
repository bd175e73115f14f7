package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ruralpay/cardledger/internal/database"
	"github.com/ruralpay/cardledger/internal/errors"
	"github.com/ruralpay/cardledger/internal/logger"
	"github.com/ruralpay/cardledger/internal/models"
	"github.com/ruralpay/cardledger/internal/repository"
)

// maxBalance is the largest value a NUMERIC(10,2) column holds.
var maxBalance = decimal.RequireFromString("99999999.99")

// ParseAmount parses a user-entered amount. It must be positive with at most two decimal places.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, errors.NewValidationError("amount", "must be a decimal number")
	}
	if err := validateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.NewValidationError("amount", "must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return errors.NewValidationError("amount", "must have at most two decimal places")
	}
	if amount.GreaterThan(maxBalance) {
		return errors.NewValidationError("amount", "exceeds the maximum of "+maxBalance.StringFixed(2))
	}
	return nil
}

type AccountService struct {
	store        *database.Store
	users        repository.UserRepository
	cards        repository.CardRepository
	transactions repository.TransactionRepository
	audit        *AuditService
	now          func() time.Time
}

func NewAccountService(
	store *database.Store,
	users repository.UserRepository,
	cards repository.CardRepository,
	transactions repository.TransactionRepository,
	audit *AuditService,
) *AccountService {
	return &AccountService{
		store:        store,
		users:        users,
		cards:        cards,
		transactions: transactions,
		audit:        audit,
		now:          time.Now,
	}
}

// CreateCard issues a zero-balance card valid for three years.
func (s *AccountService) CreateCard(ctx context.Context, userID int64, cardType models.CardType) (*models.Card, error) {
	if !cardType.Valid() {
		return nil, errors.NewValidationError("card_type", "must be one of Premium, Gold, Silver")
	}

	card := &models.Card{
		UserID:     userID,
		CardType:   cardType,
		Balance:    decimal.Zero,
		ExpiryDate: models.ExpiryFrom(s.now()),
	}

	err := s.store.WithTx(ctx, "create_card", func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.users.GetByID(ctx, tx, userID); err != nil {
			return err
		}
		if err := s.cards.Create(ctx, tx, card); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, userID, fmt.Sprintf("Created a %s card.", cardType))
	})
	if err != nil {
		logger.Warn().Err(err).Int64("user_id", userID).Str("card_type", string(cardType)).Msg("card creation failed")
		return nil, err
	}

	logger.Info().Int64("user_id", userID).Int64("card_id", card.CardID).Str("card_type", string(cardType)).Msg("card created")
	return card, nil
}

// DeleteCard removes a card directly. Its transactions and requests go with it.
func (s *AccountService) DeleteCard(ctx context.Context, actorID, cardID int64) error {
	err := s.store.WithTx(ctx, "delete_card", func(ctx context.Context, tx *sql.Tx) error {
		if err := s.cards.Delete(ctx, tx, cardID); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, actorID, fmt.Sprintf("Deleted card %d.", cardID))
	})
	if err != nil {
		logger.Warn().Err(err).Int64("user_id", actorID).Int64("card_id", cardID).Msg("card deletion failed")
		return err
	}

	logger.Info().Int64("user_id", actorID).Int64("card_id", cardID).Msg("card deleted")
	return nil
}

// UpgradeCard changes a card's tier directly.
func (s *AccountService) UpgradeCard(ctx context.Context, actorID, cardID int64, newType models.CardType) (*models.Card, error) {
	if !newType.Valid() {
		return nil, errors.NewValidationError("new_card_type", "must be one of Premium, Gold, Silver")
	}

	var card *models.Card
	err := s.store.WithTx(ctx, "upgrade_card", func(ctx context.Context, tx *sql.Tx) error {
		var err error
		card, err = s.cards.GetByIDForUpdate(ctx, tx, cardID)
		if err != nil {
			return err
		}
		if err := card.CanUpgradeTo(newType); err != nil {
			return err
		}
		if err := s.cards.UpdateType(ctx, tx, cardID, newType); err != nil {
			return err
		}
		card.CardType = newType
		return s.audit.Record(ctx, tx, actorID, fmt.Sprintf("Upgraded card %d to %s.", cardID, newType))
	})
	if err != nil {
		logger.Warn().Err(err).Int64("user_id", actorID).Int64("card_id", cardID).Msg("card upgrade failed")
		return nil, err
	}

	logger.Info().Int64("user_id", actorID).Int64("card_id", cardID).Str("card_type", string(newType)).Msg("card upgraded")
	return card, nil
}

// PostTransaction applies a credit or debit and records it. The balance
// update, the transaction row and the audit entry commit together; an
// overdrawing debit changes nothing.
func (s *AccountService) PostTransaction(ctx context.Context, userID, cardID int64, amount decimal.Decimal, txType models.TransactionType) (*models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if txType != models.TransactionCredit && txType != models.TransactionDebit {
		return nil, errors.NewValidationError("transaction_type", "must be Credit or Debit")
	}

	transaction := &models.Transaction{
		CardID:          cardID,
		Amount:          amount,
		TransactionType: txType,
	}

	err := s.store.WithTx(ctx, "post_transaction", func(ctx context.Context, tx *sql.Tx) error {
		card, err := s.cards.GetByIDForUpdate(ctx, tx, cardID)
		if err != nil {
			return err
		}

		balance, err := txType.Apply(card.Balance, amount)
		if err != nil {
			return err
		}
		if balance.GreaterThan(maxBalance) {
			return errors.NewValidationError("amount", "would take the balance above "+maxBalance.StringFixed(2))
		}

		if err := s.cards.UpdateBalance(ctx, tx, cardID, balance); err != nil {
			return err
		}
		if err := s.transactions.Create(ctx, tx, transaction); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, userID,
			fmt.Sprintf("%s of amount %s on card %d.", txType, amount.StringFixed(2), cardID))
	})
	if err != nil {
		logger.Warn().Err(err).
			Int64("user_id", userID).
			Int64("card_id", cardID).
			Str("amount", amount.StringFixed(2)).
			Str("type", string(txType)).
			Msg("transaction rejected")
		return nil, err
	}

	logger.Info().
		Int64("user_id", userID).
		Int64("card_id", cardID).
		Int64("transaction_id", transaction.TransactionID).
		Str("amount", amount.StringFixed(2)).
		Str("type", string(txType)).
		Msg("transaction posted")
	return transaction, nil
}

func (s *AccountService) GetCard(ctx context.Context, cardID int64) (*models.Card, error) {
	ctx, cancel := s.store.Context(ctx)
	defer cancel()

	card, err := s.cards.GetByID(ctx, s.store.DB, cardID)
	if err != nil {
		return nil, s.store.Wrap("get_card", err)
	}
	return card, nil
}

func (s *AccountService) ListCards(ctx context.Context, userID int64) ([]*models.Card, error) {
	ctx, cancel := s.store.Context(ctx)
	defer cancel()

	cards, err := s.cards.ListByUser(ctx, s.store.DB, userID)
	if err != nil {
		return nil, s.store.Wrap("list_cards", err)
	}
	return cards, nil
}

func (s *AccountService) ListAllCards(ctx context.Context) ([]*models.Card, error) {
	ctx, cancel := s.store.Context(ctx)
	defer cancel()

	cards, err := s.cards.ListAll(ctx, s.store.DB)
	if err != nil {
		return nil, s.store.Wrap("list_all_cards", err)
	}
	return cards, nil
}

func (s *AccountService) ListTransactions(ctx context.Context, cardID int64) ([]*models.Transaction, error) {
	ctx, cancel := s.store.Context(ctx)
	defer cancel()

	history, err := s.transactions.ListByCard(ctx, s.store.DB, cardID)
	if err != nil {
		return nil, s.store.Wrap("list_transactions", err)
	}
	return history, nil
}

func (s *AccountService) ListAllTransactions(ctx context.Context) ([]*models.Transaction, error) {
	ctx, cancel := s.store.Context(ctx)
	defer cancel()

	history, err := s.transactions.ListAll(ctx, s.store.DB)
	if err != nil {
		return nil, s.store.Wrap("list_all_transactions", err)
	}
	return history, nil
}
