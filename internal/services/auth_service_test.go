package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruralpay/cardledger/internal/config"
	apperrors "github.com/ruralpay/cardledger/internal/errors"
	"github.com/ruralpay/cardledger/internal/models"
	"github.com/ruralpay/cardledger/internal/repository"
)

var testArgon2 = config.Argon2Config{
	Time:       1,
	Memory:     8 * 1024,
	Threads:    1,
	KeyLength:  32,
	SaltLength: 16,
}

func newTestAuthService(t *testing.T, limiter *LoginLimiter) (*AuthService, sqlmock.Sqlmock) {
	store, mock := newTestStore(t)
	audit := NewAuditService(store, repository.NewActivityRepository())
	svc := NewAuthService(store, repository.NewUserRepository(), NewPasswordHasher(testArgon2), limiter, audit)
	return svc, mock
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("new user gets the user role", func(t *testing.T) {
		svc, mock := newTestAuthService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("alice", sqlmock.AnyArg(), "user").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(3))
		expectAudit(mock, 3, "Signed up.")
		mock.ExpectCommit()

		user, err := svc.SignUp(ctx, "alice", "s3cret-pw")
		require.NoError(t, err)
		assert.Equal(t, int64(3), user.UserID)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.NotEqual(t, "s3cret-pw", user.PasswordHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc, mock := newTestAuthService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("alice", sqlmock.AnyArg(), "user").
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		_, err := svc.SignUp(ctx, "alice", "another-pw")
		assert.ErrorIs(t, err, apperrors.ErrDuplicateUsername)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("short password", func(t *testing.T) {
		svc, mock := newTestAuthService(t, nil)

		_, err := svc.SignUp(ctx, "alice", "123")
		require.True(t, apperrors.IsValidationError(err))

		var vErr *apperrors.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "password", vErr.Field)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("admin registers another admin", func(t *testing.T) {
		svc, mock := newTestAuthService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("root2", sqlmock.AnyArg(), "admin").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(4))
		expectAudit(mock, 1, "Registered user root2 as admin.")
		mock.ExpectCommit()

		user, err := svc.Register(ctx, 1, RegisterInput{Username: "root2", Password: "password1", Role: "Admin"})
		require.NoError(t, err)
		assert.True(t, user.IsAdmin())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown role", func(t *testing.T) {
		svc, mock := newTestAuthService(t, nil)

		_, err := svc.Register(ctx, 1, RegisterInput{Username: "bob", Password: "password1", Role: "owner"})
		assert.True(t, apperrors.IsValidationError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := NewPasswordHasher(testArgon2).Hash("correct-horse")
	require.NoError(t, err)

	const key = "login_failures:alice"

	t.Run("valid credentials reset the failure counter", func(t *testing.T) {
		client, redisMock := redismock.NewClientMock()
		svc, mock := newTestAuthService(t, NewLoginLimiter(client, 5, 15*time.Minute))

		redisMock.ExpectGet(key).RedisNil()
		mock.ExpectQuery("SELECT user_id, username, password_hash, role FROM users WHERE username = \\$1").
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(3, "alice", hash, "user"))
		redisMock.ExpectDel(key).SetVal(1)

		user, err := svc.Login(ctx, "alice", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, int64(3), user.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("wrong password counts a failure", func(t *testing.T) {
		client, redisMock := redismock.NewClientMock()
		svc, mock := newTestAuthService(t, NewLoginLimiter(client, 5, 15*time.Minute))

		redisMock.ExpectGet(key).SetVal("1")
		mock.ExpectQuery("SELECT user_id, username, password_hash, role FROM users WHERE username = \\$1").
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(3, "alice", hash, "user"))
		redisMock.ExpectIncr(key).SetVal(2)

		_, err := svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("unknown user looks like a bad password", func(t *testing.T) {
		client, redisMock := redismock.NewClientMock()
		svc, mock := newTestAuthService(t, NewLoginLimiter(client, 5, 15*time.Minute))

		redisMock.ExpectGet(key).RedisNil()
		mock.ExpectQuery("SELECT user_id, username, password_hash, role FROM users WHERE username = \\$1").
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userCols))
		redisMock.ExpectIncr(key).SetVal(1)
		redisMock.ExpectExpire(key, 15*time.Minute).SetVal(true)

		_, err := svc.Login(ctx, "alice", "whatever")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("locked out after max attempts", func(t *testing.T) {
		client, redisMock := redismock.NewClientMock()
		svc, mock := newTestAuthService(t, NewLoginLimiter(client, 5, 15*time.Minute))

		redisMock.ExpectGet(key).SetVal("5")

		_, err := svc.Login(ctx, "alice", "correct-horse")
		assert.ErrorIs(t, err, apperrors.ErrTooManyAttempts)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("works without redis", func(t *testing.T) {
		svc, mock := newTestAuthService(t, NewLoginLimiter(nil, 5, time.Minute))

		mock.ExpectQuery("SELECT user_id, username, password_hash, role FROM users WHERE username = \\$1").
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(3, "alice", hash, "user"))

		_, err := svc.Login(ctx, "alice", "correct-horse")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("existing admin is left alone", func(t *testing.T) {
		svc, mock := newTestAuthService(t, nil)

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("admin").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		created, err := svc.EnsureAdmin(ctx, "admin", "changeme1")
		require.NoError(t, err)
		assert.False(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing admin is created", func(t *testing.T) {
		svc, mock := newTestAuthService(t, nil)

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("admin").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("admin", sqlmock.AnyArg(), "admin").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(1))
		expectAudit(mock, 1, "Administrator account bootstrapped.")
		mock.ExpectCommit()

		created, err := svc.EnsureAdmin(ctx, "admin", "changeme1")
		require.NoError(t, err)
		assert.True(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not configured", func(t *testing.T) {
		svc, mock := newTestAuthService(t, nil)

		created, err := svc.EnsureAdmin(ctx, "", "")
		require.NoError(t, err)
		assert.False(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
