package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ruralpay/cardledger/internal/database"
	"github.com/ruralpay/cardledger/internal/errors"
	"github.com/ruralpay/cardledger/internal/logger"
	"github.com/ruralpay/cardledger/internal/models"
	"github.com/ruralpay/cardledger/internal/repository"
)

// RequestService runs the Pending -> Accepted|Denied workflow for card changes.
type RequestService struct {
	store    *database.Store
	requests repository.RequestRepository
	cards    repository.CardRepository
	audit    *AuditService
}

func NewRequestService(
	store *database.Store,
	requests repository.RequestRepository,
	cards repository.CardRepository,
	audit *AuditService,
) *RequestService {
	return &RequestService{
		store:    store,
		requests: requests,
		cards:    cards,
		audit:    audit,
	}
}

// Submit files a Pending request. The card must exist and belong to userID.
func (s *RequestService) Submit(ctx context.Context, userID, cardID int64, requestType models.RequestType, newType *models.CardType) (*models.CardRequest, error) {
	request := &models.CardRequest{
		UserID:      userID,
		CardID:      cardID,
		RequestType: requestType,
		NewCardType: newType,
		Status:      models.StatusPending,
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, "submit_request", func(ctx context.Context, tx *sql.Tx) error {
		card, err := s.cards.GetByID(ctx, tx, cardID)
		if err != nil {
			return err
		}
		if card.UserID != userID {
			return errors.ErrCardNotOwned
		}
		if requestType == models.RequestUpgrade {
			if err := card.CanUpgradeTo(*newType); err != nil {
				return err
			}
		}

		if err := s.requests.Create(ctx, tx, request); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, userID, describeSubmission(request))
	})
	if err != nil {
		logger.Warn().Err(err).Int64("user_id", userID).Int64("card_id", cardID).Str("request_type", string(requestType)).Msg("card request rejected")
		return nil, err
	}

	logger.Info().Int64("user_id", userID).Int64("card_id", cardID).Int64("request_id", request.RequestID).Str("request_type", string(requestType)).Msg("card request submitted")
	return request, nil
}

// Resolve applies an administrator's decision. The status change, the card
// change and the audit entry commit as one unit. A request can be resolved once.
func (s *RequestService) Resolve(ctx context.Context, adminID, requestID int64, decision string) (*models.CardRequest, error) {
	d, err := models.ParseDecision(decision)
	if err != nil {
		return nil, err
	}

	var request *models.CardRequest
	err = s.store.WithTx(ctx, "resolve_request", func(ctx context.Context, tx *sql.Tx) error {
		var err error
		request, err = s.requests.GetByIDForUpdate(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if request.IsTerminal() {
			return errors.ErrRequestAlreadyResolved
		}

		status := d.Status()
		if err := s.requests.UpdateStatus(ctx, tx, requestID, status); err != nil {
			return err
		}
		request.Status = status

		if d == models.DecisionAccept {
			if err := s.apply(ctx, tx, request); err != nil {
				return err
			}
		}
		return s.audit.Record(ctx, tx, adminID, describeResolution(request))
	})
	if err != nil {
		logger.Warn().Err(err).Int64("user_id", adminID).Int64("request_id", requestID).Str("decision", string(d)).Msg("request resolution failed")
		return nil, err
	}

	logger.Info().Int64("user_id", adminID).Int64("request_id", requestID).Int64("card_id", request.CardID).Str("status", string(request.Status)).Msg("request resolved")
	return request, nil
}

func (s *RequestService) apply(ctx context.Context, tx *sql.Tx, request *models.CardRequest) error {
	switch request.RequestType {
	case models.RequestDelete:
		return s.cards.Delete(ctx, tx, request.CardID)
	case models.RequestUpgrade:
		if request.NewCardType == nil {
			return errors.NewValidationError("new_card_type", "required for Upgrade requests")
		}
		// The card may have changed tier since the request was filed.
		card, err := s.cards.GetByIDForUpdate(ctx, tx, request.CardID)
		if err != nil {
			return err
		}
		if err := card.CanUpgradeTo(*request.NewCardType); err != nil {
			return err
		}
		return s.cards.UpdateType(ctx, tx, request.CardID, *request.NewCardType)
	}
	return errors.NewValidationError("request_type", "must be Delete or Upgrade")
}

// ListPending returns Pending requests, oldest first.
func (s *RequestService) ListPending(ctx context.Context) ([]*models.CardRequest, error) {
	ctx, cancel := s.store.Context(ctx)
	defer cancel()

	pending, err := s.requests.ListPending(ctx, s.store.DB)
	if err != nil {
		return nil, s.store.Wrap("list_pending_requests", err)
	}
	return pending, nil
}

func (s *RequestService) ListByUser(ctx context.Context, userID int64) ([]*models.CardRequest, error) {
	ctx, cancel := s.store.Context(ctx)
	defer cancel()

	requests, err := s.requests.ListByUser(ctx, s.store.DB, userID)
	if err != nil {
		return nil, s.store.Wrap("list_user_requests", err)
	}
	return requests, nil
}

func describeSubmission(r *models.CardRequest) string {
	if r.RequestType == models.RequestUpgrade {
		return fmt.Sprintf("Requested upgrade of card %d to %s (request %d).", r.CardID, *r.NewCardType, r.RequestID)
	}
	return fmt.Sprintf("Requested deletion of card %d (request %d).", r.CardID, r.RequestID)
}

func describeResolution(r *models.CardRequest) string {
	if r.Status == models.StatusDenied {
		return fmt.Sprintf("Denied request %d for card %d.", r.RequestID, r.CardID)
	}
	if r.RequestType == models.RequestUpgrade {
		return fmt.Sprintf("Accepted request %d: upgraded card %d to %s.", r.RequestID, r.CardID, *r.NewCardType)
	}
	return fmt.Sprintf("Accepted request %d: deleted card %d.", r.RequestID, r.CardID)
}
