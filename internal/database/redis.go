package database

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/ruralpay/cardledger/internal/config"
	"github.com/ruralpay/cardledger/internal/logger"
)

// InitRedis initializes Redis client with config. It returns nil when Redis
// cannot be reached so callers can run without login throttling.
func InitRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Addr()).Msg("Redis connection failed, continuing without Redis")
		rdb.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Addr()).Msg("Redis connection established")
	return rdb
}
