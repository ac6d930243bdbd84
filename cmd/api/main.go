package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsHttp "events-analytics-service/internal/analytics/adapters/http/fiber"
	analyticsRepoPg "events-analytics-service/internal/analytics/adapters/postgres"
	analyticsUsecase "events-analytics-service/internal/analytics/core/usecase"
	"events-analytics-service/internal/config"
	"events-analytics-service/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "events-analytics-service/docs"
)

// @title GitHub Events Analytics API
// @version 1.0
// @description Analytics API over an append-only GitHub events table
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// DB connection
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open postgres")
	}
	defer db.Close()

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		logger.WithError(err).Fatal("Failed to ping postgres")
	}

	// Repository over the adapter-level DB wrapper
	store := analyticsRepoPg.NewEventStoreRepository(analyticsRepoPg.NewSQLDB(db))

	// Use cases
	runQueryUC := analyticsUsecase.NewRunQueryUseCase(store)
	manualQueryUC := analyticsUsecase.NewManualQueryUseCase(store)
	overviewUC := analyticsUsecase.NewGetOverviewUseCase(store)
	timelineUC := analyticsUsecase.NewGetTimelineUseCase(store)
	topReposUC := analyticsUsecase.NewGetTopRepositoriesUseCase(store)
	snapshotUC := analyticsUsecase.NewGetSnapshotUseCase(store, store)

	// Realtime subsystem
	hub := realtime.NewHub(logger)
	broadcaster := realtime.NewBroadcaster(hub, snapshotUC, cfg.BroadcastInterval, logger)
	go broadcaster.Run()

	// HTTP (Fiber) app + handlers
	app := fiber.New()

	analyticsHandler := analyticsHttp.NewAnalyticsHandler(runQueryUC, manualQueryUC, overviewUC, timelineUC, topReposUC)
	app.Get("/api/query-executor", analyticsHandler.RunQuery)
	app.Post("/api/manual-query", analyticsHandler.ManualQuery)
	app.Get("/api/github-metrics", analyticsHandler.GetMetrics)
	app.Get("/api/github-timeline", analyticsHandler.GetTimeline)
	app.Get("/api/github-repositories", analyticsHandler.GetTopRepositories)

	healthHandler := analyticsHttp.NewHealthHandler(db)
	app.Get("/health", healthHandler.Health)

	// Realtime subscriptions
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(broadcaster.HandleSubscriber))

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.WithError(err).Error("Fiber stopped")
		}
	}()

	logger.WithFields(logrus.Fields{"port": cfg.Port}).Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	logger.Info("Shutting down...")

	broadcaster.Stop()
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.WithError(err).Error("Fiber shutdown error")
	}

	logger.Info("Server exiting")
}
