package handlers

import (
	"context"
	"net/http"

	"github.com/ruralpay/cardledger/internal/errors"
	"github.com/ruralpay/cardledger/internal/models"
	"github.com/ruralpay/cardledger/internal/services"
)

// CardHandler serves the signed-in user's own cards and requests.
type CardHandler struct {
	accounts  Accounts
	requests  Requests
	validator *services.ValidationHelper
}

func NewCardHandler(accounts Accounts, requests Requests) *CardHandler {
	return &CardHandler{
		accounts:  accounts,
		requests:  requests,
		validator: services.NewValidationHelper(),
	}
}

type createCardRequest struct {
	CardType string `json:"card_type" validate:"required"`
}

type transactionRequest struct {
	Amount          string `json:"amount" validate:"required"`
	TransactionType string `json:"transaction_type" validate:"required"`
}

type cardChangeRequest struct {
	RequestType string `json:"request_type" validate:"required"`
	NewCardType string `json:"new_card_type,omitempty"`
}

// ownedCard loads the card and fails unless the caller owns it or is an administrator.
func (h *CardHandler) ownedCard(ctx context.Context, claims *services.Claims, cardID int64) (*models.Card, error) {
	card, err := h.accounts.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if claims.Role != models.RoleAdmin && card.UserID != claims.UserID {
		return nil, errors.ErrCardNotOwned
	}
	return card, nil
}

func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req createCardRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	cardType, err := models.ParseCardType(req.CardType)
	if err != nil {
		writeError(w, r, err)
		return
	}

	card, err := h.accounts.CreateCard(r.Context(), claims.UserID, cardType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerFrom(w, r)
	if !ok {
		return
	}

	cards, err := h.accounts.ListCards(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *CardHandler) PostTransaction(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerFrom(w, r)
	if !ok {
		return
	}

	cardID, err := pathID(r, "cardID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req transactionRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	amount, err := services.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	txType, err := models.ParseTransactionType(req.TransactionType)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := h.ownedCard(r.Context(), claims, cardID); err != nil {
		writeError(w, r, err)
		return
	}

	txn, err := h.accounts.PostTransaction(r.Context(), claims.UserID, cardID, amount, txType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (h *CardHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerFrom(w, r)
	if !ok {
		return
	}

	cardID, err := pathID(r, "cardID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := h.ownedCard(r.Context(), claims, cardID); err != nil {
		writeError(w, r, err)
		return
	}

	txns, err := h.accounts.ListTransactions(r.Context(), cardID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

// SubmitRequest files a deletion or upgrade request for administrator approval.
func (h *CardHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerFrom(w, r)
	if !ok {
		return
	}

	cardID, err := pathID(r, "cardID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req cardChangeRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	requestType, err := models.ParseRequestType(req.RequestType)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var newType *models.CardType
	if req.NewCardType != "" {
		t, err := models.ParseCardType(req.NewCardType)
		if err != nil {
			writeError(w, r, err)
			return
		}
		newType = &t
	}

	request, err := h.requests.Submit(r.Context(), claims.UserID, cardID, requestType, newType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, request)
}

func (h *CardHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerFrom(w, r)
	if !ok {
		return
	}

	requests, err := h.requests.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}
