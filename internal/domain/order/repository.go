package order

import "context"

// Repository defines persistence for orders. Upsert never commits on its
// own; transaction boundaries belong to the caller.
type Repository interface {
	// Upsert inserts or updates the row matched by the record's external
	// order identifier and reports whether a new row was created. Every
	// call overwrites status, timestamps, enrichment fields and the raw
	// payload with the latest values and stamps synced_at.
	Upsert(ctx context.Context, raw RawOrder) (*Order, bool, error)

	// FindAll returns the most recently stored orders, newest first
	FindAll(ctx context.Context, limit int) ([]Order, error)

	// DeleteAll removes every row and reports the count removed.
	// Operator/test reset only.
	DeleteAll(ctx context.Context) (int64, error)
}

// SyncRunRepository persists sync run history
type SyncRunRepository interface {
	Save(ctx context.Context, run *SyncRun) error
	FindRecent(ctx context.Context, limit int) ([]SyncRun, error)
}
