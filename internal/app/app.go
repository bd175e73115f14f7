package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/ruralpay/cardledger/internal/config"
	"github.com/ruralpay/cardledger/internal/database"
	"github.com/ruralpay/cardledger/internal/logger"
	"github.com/ruralpay/cardledger/internal/repository"
	"github.com/ruralpay/cardledger/internal/services"
)

// App holds the connections and services shared by the console and the API.
type App struct {
	DB    *sql.DB
	Redis *redis.Client

	Accounts *services.AccountService
	Requests *services.RequestService
	Auth     *services.AuthService
	Audit    *services.AuditService
	Tokens   *services.TokenIssuer
}

// New connects Postgres (required) and Redis (optional), migrates the schema,
// wires the services and seeds the configured administrator.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.InitDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	redisClient := database.InitRedis(ctx, cfg.Redis)

	store := database.NewStore(db, cfg.Database.QueryTimeout)
	users := repository.NewUserRepository()
	cards := repository.NewCardRepository()

	audit := services.NewAuditService(store, repository.NewActivityRepository())
	a := &App{
		DB:       db,
		Redis:    redisClient,
		Audit:    audit,
		Accounts: services.NewAccountService(store, users, cards, repository.NewTransactionRepository(), audit),
		Requests: services.NewRequestService(store, repository.NewRequestRepository(), cards, audit),
		Auth: services.NewAuthService(
			store,
			users,
			services.NewPasswordHasher(cfg.Argon2),
			services.NewLoginLimiter(redisClient, cfg.Login.MaxAttempts, cfg.Login.LockoutWindow),
			audit,
		),
		Tokens: services.NewTokenIssuer(cfg.JWT.SecretKey, cfg.JWT.ExpiryHours, redisClient),
	}

	if cfg.Admin.Username != "" && cfg.Admin.Password != "" {
		created, err := a.Auth.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to bootstrap administrator: %w", err)
		}
		if created {
			logger.Info().Str("username", cfg.Admin.Username).Msg("administrator account created")
		}
	}

	return a, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close Redis client")
		}
	}
	if err := a.DB.Close(); err != nil {
		logger.Warn().Err(err).Msg("failed to close database")
	}
}
