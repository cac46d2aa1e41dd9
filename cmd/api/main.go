package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/api"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/api/handler"
	custommw "github.com/asmaalachhab/Gestion-v-nementielle/internal/api/middleware"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/application"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/config"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/infrastructure/postgres"
	redisinfra "github.com/asmaalachhab/Gestion-v-nementielle/internal/infrastructure/redis"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/pkg/logger"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/pkg/metrics"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/worker"
)

func main() {
	cfg := config.Load()

	logger.Set(logger.NewLogger(os.Getenv("APP_ENV")))
	defer logger.Sync()

	m := metrics.Init()

	// PostgreSQL
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisinfra.Ping(pingCtx, redisClient); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	pingCancel()

	lockManager := redisinfra.NewLockManager(redisClient)
	availabilityCache := redisinfra.NewAvailabilityCache(redisClient)

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	offerRepo := postgres.NewOfferRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	statsRepo := postgres.NewStatsRepository(db)
	txManager := postgres.NewTxManager(db)

	// Services
	statsService := application.NewStatsService(statsRepo, eventRepo, reservationRepo)
	inventoryService := application.NewInventoryService(offerRepo, eventRepo, availabilityCache)
	reservationService := application.NewReservationService(
		txManager, reservationRepo, eventRepo, inventoryService, statsService, lockManager,
	)

	// Views are recorded off the request path through a bounded queue.
	statsRecorder := worker.NewStatsRecorder(statsService, cfg.Stats.QueueSize, cfg.Stats.RecordTimeout)
	eventService := application.NewEventService(eventRepo, statsRecorder)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go statsRecorder.Start(workerCtx)

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	custommw.SetupMiddleware(e)
	e.Use(custommw.PrometheusMiddleware(m))

	registerRoutes(e, eventService, inventoryService, reservationService, statsService)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	statsRecorder.Stop()

	logger.Info("shutdown complete")
}

func registerRoutes(
	e *echo.Echo,
	eventService *application.EventService,
	inventoryService *application.InventoryService,
	reservationService *application.ReservationService,
	statsService *application.StatsService,
) {
	healthHandler := handler.NewHealthHandler()
	eventHandler := handler.NewEventHandler(eventService, inventoryService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	organizerHandler := handler.NewOrganizerHandler(eventService, inventoryService, statsService)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommw.MetricsBasicAuth())

	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)

	// Public catalog
	v1.GET("/events", eventHandler.Search)
	v1.GET("/events/:id", eventHandler.GetByID)
	v1.POST("/events/:id/view", eventHandler.View)
	v1.GET("/events/:id/offers", eventHandler.ListOffers)
	v1.GET("/offers/:id/availability", eventHandler.Availability)

	// Booking
	v1.POST("/reservations", reservationHandler.Create)
	v1.GET("/reservations/me", reservationHandler.MyReservations)
	v1.POST("/reservations/:id/cancel", reservationHandler.Cancel)

	// Organizer
	org := v1.Group("/organizer")
	org.POST("/events", organizerHandler.CreateEvent)
	org.GET("/events", organizerHandler.MyEvents)
	org.PUT("/events/:id", organizerHandler.UpdateEvent)
	org.DELETE("/events/:id", organizerHandler.DeleteEvent)
	org.POST("/events/:id/publish", organizerHandler.PublishEvent)
	org.POST("/events/:id/offers", organizerHandler.CreateOffer)
	org.GET("/events/:id/offers", organizerHandler.ListOffers)
	org.PUT("/offers/:id", organizerHandler.UpdateOffer)
	org.DELETE("/offers/:id", organizerHandler.DeleteOffer)
	org.GET("/events/:id/stats", organizerHandler.EventStats)
	org.GET("/stats/overview", organizerHandler.Overview)
}
