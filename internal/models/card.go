package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ruralpay/cardledger/internal/errors"
)

// CardType is the product tier of a card
type CardType string

const (
	CardTypePremium CardType = "Premium"
	CardTypeGold    CardType = "Gold"
	CardTypeSilver  CardType = "Silver"
)

// CardTypes lists every tier in display order.
var CardTypes = []CardType{CardTypePremium, CardTypeGold, CardTypeSilver}

// CardValidityYears is how long a card stays valid after issue.
const CardValidityYears = 3

// ParseCardType accepts any letter case and returns the canonical value.
func ParseCardType(s string) (CardType, error) {
	for _, t := range CardTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", errors.NewValidationError("card_type", "must be one of Premium, Gold, Silver")
}

func (t CardType) Valid() bool {
	for _, known := range CardTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Card represents a payment card
type Card struct {
	CardID     int64           `json:"card_id" db:"card_id"`
	UserID     int64           `json:"user_id" db:"user_id"`
	CardType   CardType        `json:"card_type" db:"card_type"`
	Balance    decimal.Decimal `json:"balance" db:"balance"`
	ExpiryDate time.Time       `json:"expiry_date" db:"expiry_date"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// ExpiryFrom returns the expiry date of a card issued at issuedAt,
// truncated to the calendar day.
func ExpiryFrom(issuedAt time.Time) time.Time {
	y, m, d := issuedAt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, issuedAt.Location()).AddDate(CardValidityYears, 0, 0)
}

// CanUpgradeTo rejects a change to the tier the card already has.
func (c *Card) CanUpgradeTo(t CardType) error {
	if !t.Valid() {
		return errors.NewValidationError("new_card_type", "must be one of Premium, Gold, Silver")
	}
	if c.CardType == t {
		return errors.NewValidationError("new_card_type", "card is already "+string(t))
	}
	return nil
}

// FormatBalance renders the balance with two decimal places.
func (c *Card) FormatBalance() string {
	return c.Balance.StringFixed(2)
}
