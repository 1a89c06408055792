package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/opsdash/backend/internal/domain/order"
)

func setupSyncRunTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&order.SyncRun{}))
	return db
}

func TestGormSyncRunRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSyncRunRepository(setupSyncRunTestDB(t))

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		startedAt := base.Add(time.Duration(i) * time.Hour)
		var runErr error
		if i == 1 {
			runErr = errors.New("token exchange failed")
		}
		run := order.NewSyncRun(startedAt, startedAt.Add(time.Second), &order.SyncResult{Fetched: i}, runErr)
		require.NoError(t, repo.Save(ctx, run))
	}

	t.Run("returns newest first", func(t *testing.T) {
		runs, err := repo.FindRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, 2, runs[0].Fetched)
		assert.Equal(t, 0, runs[2].Fetched)
	})

	t.Run("records failure status and error", func(t *testing.T) {
		runs, err := repo.FindRecent(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, order.SyncRunStatusFailed, runs[1].Status)
		assert.Equal(t, "token exchange failed", runs[1].Error)
	})

	t.Run("respects limit", func(t *testing.T) {
		runs, err := repo.FindRecent(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, runs, 1)
	})
}
