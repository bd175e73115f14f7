package handlers

import (
	"net/http"

	"github.com/ruralpay/cardledger/internal/models"
	"github.com/ruralpay/cardledger/internal/services"
)

// AdminHandler serves the administrator-only routes. Callers are expected
// to sit behind middleware.RequireAdmin.
type AdminHandler struct {
	accounts  Accounts
	requests  Requests
	auth      Auth
	audit     Audit
	validator *services.ValidationHelper
}

func NewAdminHandler(accounts Accounts, requests Requests, auth Auth, audit Audit) *AdminHandler {
	return &AdminHandler{
		accounts:  accounts,
		requests:  requests,
		auth:      auth,
		audit:     audit,
		validator: services.NewValidationHelper(),
	}
}

type resolveRequest struct {
	Decision string `json:"decision" validate:"required"`
}

type upgradeRequest struct {
	CardType string `json:"card_type" validate:"required"`
}

func (h *AdminHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req services.RegisterInput
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *AdminHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.accounts.ListAllCards(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *AdminHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := h.accounts.ListAllTransactions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (h *AdminHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.audit.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *AdminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requests.ListPending(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// ResolveRequest accepts or denies a pending card request
func (h *AdminHandler) ResolveRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerFrom(w, r)
	if !ok {
		return
	}

	requestID, err := pathID(r, "requestID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req resolveRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	request, err := h.requests.Resolve(r.Context(), claims.UserID, requestID, req.Decision)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (h *AdminHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerFrom(w, r)
	if !ok {
		return
	}

	cardID, err := pathID(r, "cardID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.accounts.DeleteCard(r.Context(), claims.UserID, cardID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) UpgradeCard(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerFrom(w, r)
	if !ok {
		return
	}

	cardID, err := pathID(r, "cardID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req upgradeRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	cardType, err := models.ParseCardType(req.CardType)
	if err != nil {
		writeError(w, r, err)
		return
	}

	card, err := h.accounts.UpgradeCard(r.Context(), claims.UserID, cardID, cardType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}
