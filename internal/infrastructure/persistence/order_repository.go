package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/opsdash/backend/internal/domain/order"
	"github.com/opsdash/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ErrMissingAmazonOrderID is returned when an upstream record has no
// external order identifier to key the upsert on
var ErrMissingAmazonOrderID = shared.NewDomainError("INVALID_INPUT", "order record has no AmazonOrderId")

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository. Pass a
// transaction handle to scope all operations to that transaction.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Upsert inserts or updates the row matched by the record's AmazonOrderId.
// All synced fields are overwritten with the latest upstream values, not
// merged, and synced_at is stamped on every write. Commit/rollback belongs
// to the caller. A concurrent first-sync of the same identifier surfaces
// as the store's unique-constraint violation.
func (r *GormOrderRepository) Upsert(ctx context.Context, raw order.RawOrder) (*order.Order, bool, error) {
	amazonOrderID := raw.AmazonOrderID()
	if amazonOrderID == "" {
		return nil, false, ErrMissingAmazonOrderID
	}

	var row order.Order
	err := r.db.WithContext(ctx).
		Where("amazon_order_id = ?", amazonOrderID).
		First(&row).Error
	created := false
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created = true
		row = order.Order{AmazonOrderID: amazonOrderID}
	case err != nil:
		return nil, false, err
	}

	row.OrderStatus = raw.OrderStatus()
	row.PurchaseDate = raw.PurchaseDate()
	row.LastUpdateDate = raw.LastUpdateDate()
	row.BuyerName = raw.BuyerName()
	row.Amount = raw.Amount()
	row.Cost = raw.Cost()
	row.RawPayload = raw.Payload()
	row.SyncedAt = time.Now().UTC()

	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, false, err
	}
	return &row, created, nil
}

// FindAll returns the most recently stored orders, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context, limit int) ([]order.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var orders []order.Order
	if err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// DeleteAll removes every row and reports the count removed
func (r *GormOrderRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&order.Order{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

var _ order.Repository = (*GormOrderRepository)(nil)
