package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/opsdash/backend/internal/domain/order"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&order.Order{}))
	return db
}

func TestGormOrderRepository_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a new row on first sync", func(t *testing.T) {
		repo := NewGormOrderRepository(setupOrderTestDB(t))

		raw := order.RawOrder{
			order.FieldAmazonOrderID: "111-0000001-0000001",
			order.FieldOrderStatus:   "Pending",
			order.FieldPurchaseDate:  "2024-01-01T00:00:00Z",
			order.FieldBuyerName:     "Kim Minjun",
			order.FieldOrderAmount:   decimal.NewFromFloat(99.50),
			order.FieldCost:          decimal.NewFromFloat(55.20),
		}

		row, created, err := repo.Upsert(ctx, raw)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotZero(t, row.ID)
		assert.Equal(t, "111-0000001-0000001", row.AmazonOrderID)
		require.NotNil(t, row.OrderStatus)
		assert.Equal(t, "Pending", *row.OrderStatus)
		require.NotNil(t, row.Amount)
		assert.True(t, row.Amount.Equal(decimal.NewFromFloat(99.50)))
		assert.False(t, row.SyncedAt.IsZero())
		assert.Equal(t, "Pending", row.RawPayload[order.FieldOrderStatus])
	})

	t.Run("second sync updates in place", func(t *testing.T) {
		repo := NewGormOrderRepository(setupOrderTestDB(t))

		first, created, err := repo.Upsert(ctx, order.RawOrder{
			order.FieldAmazonOrderID: "111-0000002-0000002",
			order.FieldOrderStatus:   "Pending",
		})
		require.NoError(t, err)
		require.True(t, created)

		second, created, err := repo.Upsert(ctx, order.RawOrder{
			order.FieldAmazonOrderID: "111-0000002-0000002",
			order.FieldOrderStatus:   "Shipped",
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
		require.NotNil(t, second.OrderStatus)
		assert.Equal(t, "Shipped", *second.OrderStatus)

		rows, err := repo.FindAll(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("update overwrites fields, never merges", func(t *testing.T) {
		repo := NewGormOrderRepository(setupOrderTestDB(t))

		_, _, err := repo.Upsert(ctx, order.RawOrder{
			order.FieldAmazonOrderID: "111-0000003-0000003",
			order.FieldOrderStatus:   "Pending",
			order.FieldPurchaseDate:  "2024-01-01T00:00:00Z",
		})
		require.NoError(t, err)

		// Second sync carries no status and no purchase date
		row, _, err := repo.Upsert(ctx, order.RawOrder{
			order.FieldAmazonOrderID: "111-0000003-0000003",
		})
		require.NoError(t, err)
		assert.Nil(t, row.OrderStatus)
		assert.Nil(t, row.PurchaseDate)
		assert.NotContains(t, row.RawPayload, order.FieldOrderStatus)
	})

	t.Run("missing order id is rejected", func(t *testing.T) {
		repo := NewGormOrderRepository(setupOrderTestDB(t))

		_, _, err := repo.Upsert(ctx, order.RawOrder{order.FieldOrderStatus: "Pending"})
		assert.ErrorIs(t, err, ErrMissingAmazonOrderID)
	})

	t.Run("stamps synced_at on every write", func(t *testing.T) {
		repo := NewGormOrderRepository(setupOrderTestDB(t))

		first, _, err := repo.Upsert(ctx, order.RawOrder{
			order.FieldAmazonOrderID: "111-0000004-0000004",
		})
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		second, _, err := repo.Upsert(ctx, order.RawOrder{
			order.FieldAmazonOrderID: "111-0000004-0000004",
		})
		require.NoError(t, err)
		assert.True(t, second.SyncedAt.After(first.SyncedAt))
	})
}

func TestGormOrderRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(setupOrderTestDB(t))

	ids := []string{"111-0000001-0000001", "111-0000002-0000002", "111-0000003-0000003"}
	for _, id := range ids {
		_, _, err := repo.Upsert(ctx, order.RawOrder{order.FieldAmazonOrderID: id})
		require.NoError(t, err)
	}

	t.Run("newest first", func(t *testing.T) {
		rows, err := repo.FindAll(ctx, 10)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "111-0000003-0000003", rows[0].AmazonOrderID)
		assert.Equal(t, "111-0000001-0000001", rows[2].AmazonOrderID)
	})

	t.Run("respects limit", func(t *testing.T) {
		rows, err := repo.FindAll(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("non-positive limit uses default", func(t *testing.T) {
		rows, err := repo.FindAll(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})
}

func TestGormOrderRepository_DeleteAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(setupOrderTestDB(t))

	for _, id := range []string{"111-0000001-0000001", "111-0000002-0000002"} {
		_, _, err := repo.Upsert(ctx, order.RawOrder{order.FieldAmazonOrderID: id})
		require.NoError(t, err)
	}

	deleted, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	rows, err := repo.FindAll(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)

	deleted, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
