package models

import (
	"strings"
	"time"

	"github.com/ruralpay/cardledger/internal/errors"
)

type RequestType string

const (
	RequestDelete  RequestType = "Delete"
	RequestUpgrade RequestType = "Upgrade"
)

func ParseRequestType(s string) (RequestType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "delete":
		return RequestDelete, nil
	case "upgrade":
		return RequestUpgrade, nil
	}
	return "", errors.NewValidationError("request_type", "must be Delete or Upgrade")
}

// RequestStatus moves from Pending to exactly one terminal value
type RequestStatus string

const (
	StatusPending  RequestStatus = "Pending"
	StatusAccepted RequestStatus = "Accepted"
	StatusDenied   RequestStatus = "Denied"
)

func (s RequestStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusDenied
}

// Decision is an administrator's verdict on a pending request.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionDeny   Decision = "deny"
)

func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accept":
		return DecisionAccept, nil
	case "deny":
		return DecisionDeny, nil
	}
	return "", errors.ErrInvalidDecision
}

// Status is the terminal status a decision leads to.
func (d Decision) Status() RequestStatus {
	if d == DecisionAccept {
		return StatusAccepted
	}
	return StatusDenied
}

// CardRequest is a user's proposal to delete or upgrade a card
type CardRequest struct {
	RequestID   int64         `json:"request_id" db:"request_id"`
	UserID      int64         `json:"user_id" db:"user_id"`
	CardID      int64         `json:"card_id" db:"card_id"`
	RequestType RequestType   `json:"request_type" db:"request_type"`
	NewCardType *CardType     `json:"new_card_type,omitempty" db:"new_card_type"`
	Status      RequestStatus `json:"status" db:"status"`
	RequestDate time.Time     `json:"request_date" db:"request_date"`
}

func (r *CardRequest) IsTerminal() bool {
	return r.Status.IsTerminal()
}

// Validate checks the request shape: an upgrade carries a target tier, a delete does not.
func (r *CardRequest) Validate() error {
	switch r.RequestType {
	case RequestUpgrade:
		if r.NewCardType == nil {
			return errors.NewValidationError("new_card_type", "required for Upgrade requests")
		}
		if !r.NewCardType.Valid() {
			return errors.NewValidationError("new_card_type", "must be one of Premium, Gold, Silver")
		}
	case RequestDelete:
		if r.NewCardType != nil {
			return errors.NewValidationError("new_card_type", "only allowed for Upgrade requests")
		}
	default:
		return errors.NewValidationError("request_type", "must be Delete or Upgrade")
	}
	return nil
}
