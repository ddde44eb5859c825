package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"

	"github.com/rajivgeraev/iv-catalog/internal/cache"
	"github.com/rajivgeraev/iv-catalog/internal/config"
	"github.com/rajivgeraev/iv-catalog/internal/db"
	"github.com/rajivgeraev/iv-catalog/internal/events"
	"github.com/rajivgeraev/iv-catalog/internal/favorites"
	"github.com/rajivgeraev/iv-catalog/internal/kv"
	"github.com/rajivgeraev/iv-catalog/internal/logger"
	"github.com/rajivgeraev/iv-catalog/internal/metrics"
	"github.com/rajivgeraev/iv-catalog/internal/middleware"
	"github.com/rajivgeraev/iv-catalog/internal/services/cloudinary"
	"github.com/rajivgeraev/iv-catalog/internal/services/favorite"
	"github.com/rajivgeraev/iv-catalog/internal/services/listing"
	"github.com/rajivgeraev/iv-catalog/internal/source"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.LogLevel, cfg.LogEncoding)
	defer func() { _ = appLogger.Sync() }()

	store, closeStore, err := openStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open favorites storage", zap.String("backend", cfg.Favorites.Backend), zap.Error(err))
	}
	defer closeStore()

	publisher := newPublisher(cfg, appLogger)
	defer publisher.Close()

	cloudinaryService, err := cloudinary.NewCloudinaryService(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to init thumbnails", zap.Error(err))
	}

	metricsManager := metrics.NewMetricsManager("iv_catalog")

	filterCache := cache.NewFilterCache(cfg.FilterCache.MaxSize, cfg.FilterCache.TTL)
	defer filterCache.Stop()

	sessions := favorites.NewSessions(store, cfg.Favorites.Key, cfg.Favorites.MaxSessions, cfg.Favorites.SessionTTL, appLogger)
	defer sessions.Stop()

	loader := source.NewLoader(
		source.NewHTTPSource(cfg.ListingsURL, cfg.FetchTimeout),
		appLogger,
		metricsManager.LoaderHook(),
	)

	app := fiber.New(fiber.Config{
		AppName:      "IV Catalog API",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.SessionHeader},
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		ExposeHeaders: []string{middleware.SessionHeader},
	}))
	app.Use(metricsManager.Middleware())

	listingService := listing.NewListingService(cfg, loader, sessions, cloudinaryService, filterCache, metricsManager, appLogger)
	favoriteService := favorite.NewFavoriteService(loader, sessions, cloudinaryService, publisher, metricsManager, appLogger)

	listingService.SetupRoutes(app)
	favoriteService.SetupRoutes(app)

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "catalog": loader.State()})
	})
	app.Get("/metrics", metricsManager.Handler())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the collection is fetched once; failures wait for POST /api/catalog/reload
	go func() {
		loadCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout+5*time.Second)
		defer cancel()
		_ = loader.Load(loadCtx)
	}()

	go func() {
		appLogger.Info("IV Catalog API started", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := app.Listen(":" + cfg.Port); err != nil {
			appLogger.Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// openStore selects the favorites backend named by FAVORITES_BACKEND
func openStore(cfg *config.Config, appLogger *zap.Logger) (kv.Store, func(), error) {
	noop := func() {}

	switch cfg.Favorites.Backend {
	case config.BackendMemory:
		return kv.NewMemoryStore(), noop, nil
	case config.BackendFile:
		store, err := kv.NewFileStore(cfg.Favorites.File)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case config.BackendRedis:
		client, err := kv.NewRedisClient(cfg.RedisConfig, appLogger)
		if err != nil {
			return nil, noop, err
		}
		return kv.NewRedisStore(client, appLogger), func() { _ = client.Close() }, nil
	case config.BackendPostgres:
		if err := db.InitDB(cfg, appLogger); err != nil {
			return nil, noop, err
		}
		return kv.NewPostgresStore(db.Pool), db.CloseDB, nil
	}
	return nil, noop, fmt.Errorf("unknown favorites backend %q", cfg.Favorites.Backend)
}

func newPublisher(cfg *config.Config, appLogger *zap.Logger) events.Publisher {
	if cfg.NATSConfig.URL == "" {
		return events.NoopPublisher{}
	}
	publisher, err := events.NewNATSPublisher(cfg.NATSConfig.URL, cfg.NATSConfig.Subject, appLogger)
	if err != nil {
		appLogger.Warn("Favorite events disabled", zap.Error(err))
		return events.NoopPublisher{}
	}
	return publisher
}

// errorHandler renders errors returned by handlers as JSON
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
