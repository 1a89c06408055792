package persistence

import (
	"context"

	"github.com/opsdash/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormSyncRunRepository implements order.SyncRunRepository using GORM
type GormSyncRunRepository struct {
	db *gorm.DB
}

// NewGormSyncRunRepository creates a new GormSyncRunRepository
func NewGormSyncRunRepository(db *gorm.DB) *GormSyncRunRepository {
	return &GormSyncRunRepository{db: db}
}

// Save persists a sync run record
func (r *GormSyncRunRepository) Save(ctx context.Context, run *order.SyncRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// FindRecent returns the most recent sync runs, newest first
func (r *GormSyncRunRepository) FindRecent(ctx context.Context, limit int) ([]order.SyncRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []order.SyncRun
	if err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

var _ order.SyncRunRepository = (*GormSyncRunRepository)(nil)
