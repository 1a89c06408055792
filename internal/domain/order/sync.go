package order

import (
	"time"

	"github.com/google/uuid"
)

// DemoOrderStatus is the fixed status assigned to locally generated demo orders
const DemoOrderStatus = "Pending"

// SyncResult summarizes a single orchestration run. It is produced once per
// run and never persisted.
type SyncResult struct {
	Fetched       int      `json:"fetched"`
	Upserted      int      `json:"upserted"`
	DemoGenerated int      `json:"demo_generated"`
	Orders        []string `json:"orders,omitempty"`
}

// SyncRunStatus represents the outcome of a sync run
type SyncRunStatus string

const (
	SyncRunStatusSuccess SyncRunStatus = "SUCCESS"
	SyncRunStatusFailed  SyncRunStatus = "FAILED"
)

// IsValid returns true if the status is a known SyncRunStatus
func (s SyncRunStatus) IsValid() bool {
	switch s {
	case SyncRunStatusSuccess, SyncRunStatusFailed:
		return true
	}
	return false
}

// SyncRun records one orchestration run for operator visibility. Written
// best-effort after the run's order transaction has committed or rolled
// back, so it never participates in that transaction.
type SyncRun struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey"`
	StartedAt     time.Time     `gorm:"not null;index"`
	FinishedAt    time.Time     `gorm:"not null"`
	Status        SyncRunStatus `gorm:"type:varchar(16);not null"`
	Fetched       int           `gorm:"not null;default:0"`
	Upserted      int           `gorm:"not null;default:0"`
	DemoGenerated int           `gorm:"not null;default:0"`
	Error         string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SyncRun) TableName() string {
	return "sync_runs"
}

// NewSyncRun builds a run record from an orchestration outcome
func NewSyncRun(startedAt, finishedAt time.Time, result *SyncResult, runErr error) *SyncRun {
	run := &SyncRun{
		ID:         uuid.New(),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Status:     SyncRunStatusSuccess,
	}
	if result != nil {
		run.Fetched = result.Fetched
		run.Upserted = result.Upserted
		run.DemoGenerated = result.DemoGenerated
	}
	if runErr != nil {
		run.Status = SyncRunStatusFailed
		run.Error = runErr.Error()
	}
	return run
}
