package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ruralpay/cardledger/internal/errors"
	"github.com/ruralpay/cardledger/internal/logger"
	"github.com/ruralpay/cardledger/internal/middleware"
	"github.com/ruralpay/cardledger/internal/models"
	"github.com/ruralpay/cardledger/internal/services"
)

const maxBodyBytes = 1_048_576

// Accounts is the card and balance side of the ledger
type Accounts interface {
	CreateCard(ctx context.Context, userID int64, cardType models.CardType) (*models.Card, error)
	DeleteCard(ctx context.Context, actorID, cardID int64) error
	UpgradeCard(ctx context.Context, actorID, cardID int64, newType models.CardType) (*models.Card, error)
	PostTransaction(ctx context.Context, userID, cardID int64, amount decimal.Decimal, txType models.TransactionType) (*models.Transaction, error)
	GetCard(ctx context.Context, cardID int64) (*models.Card, error)
	ListCards(ctx context.Context, userID int64) ([]*models.Card, error)
	ListAllCards(ctx context.Context) ([]*models.Card, error)
	ListTransactions(ctx context.Context, cardID int64) ([]*models.Transaction, error)
	ListAllTransactions(ctx context.Context) ([]*models.Transaction, error)
}

type Requests interface {
	Submit(ctx context.Context, userID, cardID int64, requestType models.RequestType, newType *models.CardType) (*models.CardRequest, error)
	ListPending(ctx context.Context) ([]*models.CardRequest, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.CardRequest, error)
	Resolve(ctx context.Context, adminID, requestID int64, decision string) (*models.CardRequest, error)
}

type Auth interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	SignUp(ctx context.Context, username, password string) (*models.User, error)
	Register(ctx context.Context, adminID int64, in services.RegisterInput) (*models.User, error)
}

type Audit interface {
	LogAction(ctx context.Context, userID int64, action string) error
	ListAll(ctx context.Context) ([]*models.ActivityLog, error)
}

// Tokens issues and revokes API tokens
type Tokens interface {
	Issue(user *models.User) (string, error)
	Revoke(ctx context.Context, claims *services.Claims) error
}

// decodeJSON reads exactly one JSON object into dst and validates it.
// It writes the error response itself and reports whether the caller may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, vh *services.ValidationHelper, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}

	if err := vh.ValidateStruct(dst); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

// statusFor maps the ledger's error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch errors.Code(err) {
	case errors.CodeValidation, errors.CodeInvalidDecision:
		return http.StatusBadRequest
	case errors.CodeUnauthorized:
		return http.StatusUnauthorized
	case errors.CodeForbidden:
		return http.StatusForbidden
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeDuplicateUser, errors.CodeAlreadyResolved, errors.CodeInsufficient:
		return http.StatusConflict
	case errors.CodeTooManyRequests:
		return http.StatusTooManyRequests
	case errors.CodeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		message = "Ledger store unavailable, please retry"
	case http.StatusInternalServerError:
		message = "Internal server error"
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	}
	services.SendErrorResponse(w, message, status, err)
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

// callerFrom returns the authenticated caller or writes a 401.
func callerFrom(w http.ResponseWriter, r *http.Request) (*services.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return nil, false
	}
	return claims, true
}
