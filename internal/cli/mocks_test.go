package cli

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/ruralpay/cardledger/internal/models"
	"github.com/ruralpay/cardledger/internal/services"
)

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) CreateCard(ctx context.Context, userID int64, cardType models.CardType) (*models.Card, error) {
	args := m.Called(ctx, userID, cardType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockAccounts) DeleteCard(ctx context.Context, actorID, cardID int64) error {
	args := m.Called(ctx, actorID, cardID)
	return args.Error(0)
}

func (m *MockAccounts) UpgradeCard(ctx context.Context, actorID, cardID int64, newType models.CardType) (*models.Card, error) {
	args := m.Called(ctx, actorID, cardID, newType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockAccounts) PostTransaction(ctx context.Context, userID, cardID int64, amount decimal.Decimal, txType models.TransactionType) (*models.Transaction, error) {
	args := m.Called(ctx, userID, cardID, amount, txType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockAccounts) ListCards(ctx context.Context, userID int64) ([]*models.Card, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Card), args.Error(1)
}

func (m *MockAccounts) ListAllCards(ctx context.Context) ([]*models.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Card), args.Error(1)
}

func (m *MockAccounts) ListTransactions(ctx context.Context, cardID int64) ([]*models.Transaction, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockAccounts) ListAllTransactions(ctx context.Context) ([]*models.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

type MockRequests struct {
	mock.Mock
}

func (m *MockRequests) Submit(ctx context.Context, userID, cardID int64, requestType models.RequestType, newType *models.CardType) (*models.CardRequest, error) {
	args := m.Called(ctx, userID, cardID, requestType, newType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardRequest), args.Error(1)
}

func (m *MockRequests) ListPending(ctx context.Context) ([]*models.CardRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CardRequest), args.Error(1)
}

func (m *MockRequests) ListByUser(ctx context.Context, userID int64) ([]*models.CardRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CardRequest), args.Error(1)
}

func (m *MockRequests) Resolve(ctx context.Context, adminID, requestID int64, decision string) (*models.CardRequest, error) {
	args := m.Called(ctx, adminID, requestID, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardRequest), args.Error(1)
}

type MockAuth struct {
	mock.Mock
}

func (m *MockAuth) Login(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuth) SignUp(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuth) Register(ctx context.Context, adminID int64, in services.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, adminID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockAudit struct {
	mock.Mock
}

func (m *MockAudit) LogAction(ctx context.Context, userID int64, action string) error {
	args := m.Called(ctx, userID, action)
	return args.Error(0)
}

func (m *MockAudit) ListAll(ctx context.Context) ([]*models.ActivityLog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ActivityLog), args.Error(1)
}
