package sync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/opsdash/backend/internal/domain/order"
)

// OrderFetcher pulls one page of raw order records from the upstream API
type OrderFetcher interface {
	GetSandboxOrders(ctx context.Context, createdAfter string) ([]order.RawOrder, error)
}

// Notifier delivers best-effort notifications for newly created orders
type Notifier interface {
	NotifyOrderReceived(ctx context.Context, orderID string, orderStatus *string)
}

// RepositoryFactory builds an order repository bound to a transaction handle
type RepositoryFactory func(tx *gorm.DB) order.Repository

// Config holds ETL pipeline settings
type Config struct {
	// DemoMode injects one synthetic demo order per run
	DemoMode bool
	// CreatedAfter overrides the upstream created-after filter; empty
	// falls back to the client's configured default
	CreatedAfter string
}

// Service orchestrates one ETL run: fetch orders from the upstream API,
// enrich and upsert each record inside a single transaction, then deliver
// notifications for newly created rows strictly after commit.
type Service struct {
	db       *gorm.DB
	fetcher  OrderFetcher
	notifier Notifier
	runs     order.SyncRunRepository
	newRepo  RepositoryFactory
	config   Config
	logger   *zap.Logger
}

// NewService creates a sync service. runs may be nil to disable run
// history recording.
func NewService(
	db *gorm.DB,
	fetcher OrderFetcher,
	notifier Notifier,
	runs order.SyncRunRepository,
	newRepo RepositoryFactory,
	config Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		db:       db,
		fetcher:  fetcher,
		notifier: notifier,
		runs:     runs,
		newRepo:  newRepo,
		config:   config,
		logger:   logger,
	}
}

// notificationEvent is queued during Apply and delivered after commit
type notificationEvent struct {
	orderID string
	status  *string
}

// Run executes one orchestration run and returns its summary. Failures
// before the transaction opens abort with zero side effects; failures
// inside it roll everything back. Notification failures never surface.
func (s *Service) Run(ctx context.Context) (*order.SyncResult, error) {
	startedAt := time.Now().UTC()
	result, err := s.run(ctx)
	s.recordRun(ctx, startedAt, result, err)
	return result, err
}

func (s *Service) run(ctx context.Context) (*order.SyncResult, error) {
	raws, err := s.fetcher.GetSandboxOrders(ctx, s.config.CreatedAfter)
	if err != nil {
		return nil, err
	}

	result := &order.SyncResult{
		Fetched: len(raws),
		Orders:  make([]string, 0, len(raws)+1),
	}
	var events []notificationEvent

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.newRepo(tx)

		apply := func(raw order.RawOrder) error {
			enriched := Enrich(raw)
			row, created, err := repo.Upsert(ctx, enriched)
			if err != nil {
				return err
			}
			result.Upserted++
			result.Orders = append(result.Orders, summarize(row))
			if created {
				events = append(events, notificationEvent{
					orderID: row.AmazonOrderID,
					status:  row.OrderStatus,
				})
			}
			return nil
		}

		for _, raw := range raws {
			if err := apply(raw); err != nil {
				return err
			}
		}

		if s.config.DemoMode {
			if err := apply(NewDemoOrder(time.Now())); err != nil {
				return err
			}
			result.DemoGenerated = 1
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Delivery strictly after commit, in apply order: a notification
	// failure can never roll back persisted data, and an aborted run can
	// never emit spurious notifications.
	for _, ev := range events {
		s.notifier.NotifyOrderReceived(ctx, ev.orderID, ev.status)
	}

	s.logger.Info("Order sync completed",
		zap.Int("fetched", result.Fetched),
		zap.Int("upserted", result.Upserted),
		zap.Int("demo_generated", result.DemoGenerated),
		zap.Int("notified", len(events)),
	)
	return result, nil
}

// recordRun persists sync run history outside the order transaction.
// Best-effort: a history write failure never affects the run outcome.
func (s *Service) recordRun(ctx context.Context, startedAt time.Time, result *order.SyncResult, runErr error) {
	if s.runs == nil {
		return
	}
	run := order.NewSyncRun(startedAt, time.Now().UTC(), result, runErr)
	if err := s.runs.Save(ctx, run); err != nil {
		s.logger.Warn("Failed to record sync run", zap.Error(err))
	}
}

func summarize(row *order.Order) string {
	status := "Unknown"
	if row.OrderStatus != nil && *row.OrderStatus != "" {
		status = *row.OrderStatus
	}
	return fmt.Sprintf("%s [%s]", row.AmazonOrderID, status)
}
