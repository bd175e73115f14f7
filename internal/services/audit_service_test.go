package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ruralpay/cardledger/internal/errors"
	"github.com/ruralpay/cardledger/internal/models"
	"github.com/ruralpay/cardledger/internal/repository"
)

func TestAuditService(t *testing.T) {
	ctx := context.Background()
	store, mock := newTestStore(t)
	audit := NewAuditService(store, repository.NewActivityRepository())

	t.Run("long actions are truncated to the column width", func(t *testing.T) {
		long := strings.Repeat("x", 300)
		expectAudit(mock, 2, long[:models.MaxActionLength])

		require.NoError(t, audit.LogAction(ctx, 2, long))
	})

	t.Run("append failure is reported", func(t *testing.T) {
		mock.ExpectQuery(insertActivity).WillReturnError(errors.New("connection refused"))

		err := audit.LogAction(ctx, 2, "Logged out.")
		assert.True(t, apperrors.IsStorageUnavailable(err))
	})

	t.Run("entries come back oldest first", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("SELECT log_id, user_id, action, action_time FROM activity_logs ORDER BY action_time, log_id").
			WillReturnRows(sqlmock.NewRows([]string{"log_id", "user_id", "action", "action_time"}).
				AddRow(1, 2, "Created a Gold card.", now.Add(-time.Minute)).
				AddRow(2, 2, "Credit of amount 50.00 on card 1.", now))

		logs, err := audit.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "Created a Gold card.", logs[0].Action)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
