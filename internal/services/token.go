package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ruralpay/cardledger/internal/errors"
	"github.com/ruralpay/cardledger/internal/logger"
	"github.com/ruralpay/cardledger/internal/models"
)

// Claims carried by API tokens
type Claims struct {
	UserID int64       `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies API tokens. Revocation needs Redis;
// with a nil client tokens stay valid until they expire.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
	redis  *redis.Client
	now    func() time.Time
}

func NewTokenIssuer(secret string, expiryHours int, redisClient *redis.Client) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		expiry: time.Duration(expiryHours) * time.Hour,
		redis:  redisClient,
		now:    time.Now,
	}
}

func revokedKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}

func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: user.UserID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(user.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry. Any failure is reported as ErrInvalidCredentials.
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return nil, errors.ErrInvalidCredentials
	}
	return claims, nil
}

// Revoke blacklists the token until its natural expiry.
func (t *TokenIssuer) Revoke(ctx context.Context, claims *Claims) error {
	if t.redis == nil || claims.ExpiresAt == nil {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(t.now())
	if ttl <= 0 {
		return nil
	}
	if err := t.redis.Set(ctx, revokedKey(claims.ID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id was blacklisted. Redis failures are
// logged and treated as not revoked.
func (t *TokenIssuer) IsRevoked(ctx context.Context, jti string) bool {
	if t.redis == nil {
		return false
	}

	n, err := t.redis.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		logger.Warn().Err(err).Msg("token blacklist unavailable")
		return false
	}
	return n > 0
}
