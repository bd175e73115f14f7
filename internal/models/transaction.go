package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ruralpay/cardledger/internal/errors"
)

type TransactionType string

const (
	TransactionCredit TransactionType = "Credit"
	TransactionDebit  TransactionType = "Debit"
)

func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "credit":
		return TransactionCredit, nil
	case "debit":
		return TransactionDebit, nil
	}
	return "", errors.NewValidationError("transaction_type", "must be Credit or Debit")
}

// Transaction is an immutable balance movement on a card
type Transaction struct {
	TransactionID   int64           `json:"transaction_id" db:"transaction_id"`
	CardID          int64           `json:"card_id" db:"card_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	TransactionType TransactionType `json:"transaction_type" db:"transaction_type"`
	TransactionDate time.Time       `json:"transaction_date" db:"transaction_date"`
}

// Apply returns the balance after applying a movement of amount with type t.
// A debit larger than balance yields ErrInsufficientFunds and leaves balance untouched.
func (t TransactionType) Apply(balance, amount decimal.Decimal) (decimal.Decimal, error) {
	switch t {
	case TransactionCredit:
		return balance.Add(amount), nil
	case TransactionDebit:
		if amount.GreaterThan(balance) {
			return balance, errors.ErrInsufficientFunds
		}
		return balance.Sub(amount), nil
	}
	return balance, errors.NewValidationError("transaction_type", "must be Credit or Debit")
}
