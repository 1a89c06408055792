package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	syncapp "github.com/opsdash/backend/internal/application/sync"
	"github.com/opsdash/backend/internal/domain/order"
	"github.com/opsdash/backend/internal/infrastructure/config"
	"github.com/opsdash/backend/internal/infrastructure/logger"
	"github.com/opsdash/backend/internal/infrastructure/notify"
	"github.com/opsdash/backend/internal/infrastructure/persistence"
	"github.com/opsdash/backend/internal/infrastructure/scheduler"
	"github.com/opsdash/backend/internal/infrastructure/spapi"
	"github.com/opsdash/backend/internal/interfaces/http/handler"
	"github.com/opsdash/backend/internal/interfaces/http/middleware"
	"github.com/opsdash/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting OpsDash Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	syncRunRepo := persistence.NewGormSyncRunRepository(db.DB)

	// Upstream API client
	spapiClient := spapi.NewClient(&spapi.Config{
		ClientID:        cfg.SPAPI.ClientID,
		ClientSecret:    cfg.SPAPI.ClientSecret,
		RefreshToken:    cfg.SPAPI.RefreshToken,
		TokenEndpoint:   cfg.SPAPI.TokenEndpoint,
		SandboxEndpoint: cfg.SPAPI.SandboxEndpoint,
		MarketplaceID:   cfg.SPAPI.MarketplaceID,
		CreatedAfter:    cfg.SPAPI.CreatedAfter,
		Timeout:         cfg.SPAPI.Timeout,
	})

	// Webhook notifier; an empty URL makes it a no-op
	notifier := notify.NewWebhookNotifier(cfg.Notify.WebhookURL, cfg.Notify.Timeout, log)
	if cfg.Notify.WebhookURL == "" {
		log.Info("Webhook notifications disabled")
	}

	// Order sync service
	syncService := syncapp.NewService(
		db.DB,
		spapiClient,
		notifier,
		syncRunRepo,
		func(tx *gorm.DB) order.Repository { return persistence.NewGormOrderRepository(tx) },
		syncapp.Config{
			DemoMode:     cfg.Sync.DemoMode,
			CreatedAfter: cfg.SPAPI.CreatedAfter,
		},
		log,
	)

	// Periodic sync trigger
	if cfg.Sync.SchedulerEnabled {
		trigger := scheduler.NewSyncTrigger(
			scheduler.SyncTriggerConfig{Interval: cfg.Sync.Interval},
			syncService,
			log,
		)
		trigger.Start(context.Background())
		defer trigger.Stop()
		log.Info("Sync scheduler started", zap.Duration("interval", cfg.Sync.Interval))
	}

	// Initialize handlers
	orderHandler := handler.NewOrderHandler(orderRepo, syncService, cfg.Sync.OrderListLimit, log)
	logsHandler := handler.NewLogsHandler(syncRunRepo, log)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(orderHandler).
		Register(logsHandler).
		Register(systemHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
