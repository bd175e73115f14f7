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

// RegisterInput is the registration payload for sign-up and admin registration
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role"`
}

type AuthService struct {
	store     *database.Store
	users     repository.UserRepository
	hasher    *PasswordHasher
	limiter   *LoginLimiter
	audit     *AuditService
	validator *ValidationHelper
}

func NewAuthService(
	store *database.Store,
	users repository.UserRepository,
	hasher *PasswordHasher,
	limiter *LoginLimiter,
	audit *AuditService,
) *AuthService {
	return &AuthService{
		store:     store,
		users:     users,
		hasher:    hasher,
		limiter:   limiter,
		audit:     audit,
		validator: NewValidationHelper(),
	}
}

// Register creates a user on behalf of an administrator, who may pick the role.
func (s *AuthService) Register(ctx context.Context, adminID int64, in RegisterInput) (*models.User, error) {
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, in, role, func(u *models.User) (int64, string) {
		return adminID, fmt.Sprintf("Registered user %s as %s.", u.Username, u.Role)
	})
}

// SignUp is self-registration; the account always gets the user role.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (*models.User, error) {
	in := RegisterInput{Username: username, Password: password}
	return s.create(ctx, in, models.RoleUser, func(u *models.User) (int64, string) {
		return u.UserID, "Signed up."
	})
}

// EnsureAdmin creates the bootstrap administrator if no user with that name exists yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	exists, err := s.exists(ctx, username)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	in := RegisterInput{Username: username, Password: password}
	_, err = s.create(ctx, in, models.RoleAdmin, func(u *models.User) (int64, string) {
		return u.UserID, "Administrator account bootstrapped."
	})
	// created concurrently by another process
	if err == errors.ErrDuplicateUsername {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) exists(ctx context.Context, username string) (bool, error) {
	ctx, cancel := s.store.Context(ctx)
	defer cancel()

	exists, err := s.users.Exists(ctx, s.store.DB, username)
	if err != nil {
		return false, s.store.Wrap("check_user", err)
	}
	return exists, nil
}

func (s *AuthService) create(ctx context.Context, in RegisterInput, role models.Role, attribute func(*models.User) (int64, string)) (*models.User, error) {
	if err := s.validator.Validate(&in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		logger.Error().Err(err).Msg("password hashing failed")
		return nil, err
	}

	user := &models.User{Username: in.Username, PasswordHash: hash, Role: role}
	err = s.store.WithTx(ctx, "register_user", func(ctx context.Context, tx *sql.Tx) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}
		actorID, action := attribute(user)
		return s.audit.Record(ctx, tx, actorID, action)
	})
	if err != nil {
		logger.Warn().Err(err).Str("username", in.Username).Msg("registration failed")
		return nil, err
	}

	logger.Info().Int64("user_id", user.UserID).Str("username", user.Username).Str("role", string(user.Role)).Msg("user registered")
	return user, nil
}

// Login checks credentials. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, errors.ErrInvalidCredentials
	}

	if err := s.limiter.Check(ctx, username); err != nil {
		logger.Warn().Str("username", username).Msg("login blocked after repeated failures")
		return nil, err
	}

	qctx, cancel := s.store.Context(ctx)
	defer cancel()

	user, err := s.users.GetByUsername(qctx, s.store.DB, username)
	if err == errors.ErrUserNotFound {
		s.limiter.RecordFailure(ctx, username)
		logger.Warn().Str("username", username).Msg("login for unknown user")
		return nil, errors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, s.store.Wrap("login", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.limiter.RecordFailure(ctx, username)
		logger.Warn().Int64("user_id", user.UserID).Msg("invalid password")
		return nil, errors.ErrInvalidCredentials
	}

	s.limiter.Reset(ctx, username)
	logger.Info().Int64("user_id", user.UserID).Str("role", string(user.Role)).Msg("login successful")
	return user, nil
}
