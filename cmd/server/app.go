package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mealio/ordering-api/internal/api"
	"github.com/mealio/ordering-api/internal/config"
	"github.com/mealio/ordering-api/internal/events"
	"github.com/mealio/ordering-api/internal/platform/logger"
	"github.com/mealio/ordering-api/internal/platform/postgres"
	"github.com/mealio/ordering-api/internal/platform/redispub"
	"github.com/mealio/ordering-api/internal/service/auth"
	"github.com/mealio/ordering-api/internal/service/notification"
	"github.com/mealio/ordering-api/internal/storage"
	"github.com/mealio/ordering-api/internal/store"
)

// application holds the wired dependencies of the server process.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore         store.UserStore
	productStore      store.ProductStore
	cartStore         store.CartStore
	tokenStore        store.TokenStore
	notificationStore store.NotificationStore

	tokenService    auth.TokenService
	passwords       *auth.BcryptVerifier
	googleService   *auth.GoogleService
	notifications   *notification.Service
	imageStore      storage.ImageStore
	redisPublisher  *redispub.Publisher
	notificationHub *events.AsyncEmitter
}

// newApplication loads configuration and wires every component: logging,
// database plus migrations, stores, services and side-channel publishers.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := openDatabase(ctx, cfg, appLogger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, appLogger); err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &application{
		config: cfg,
		logger: appLogger,
		db:     db,
	}

	app.userStore = postgres.NewUserStore(db, appLogger)
	app.productStore = postgres.NewProductStore(db, appLogger)
	app.cartStore = postgres.NewCartStore(db, appLogger)
	app.tokenStore = postgres.NewTokenStore(db, appLogger)
	app.notificationStore = postgres.NewNotificationStore(db, appLogger)

	app.passwords = auth.NewBcryptVerifier()
	app.tokenService = auth.NewTokenService(app.tokenStore, db, appLogger)

	app.imageStore, err = newImageStore(ctx, cfg, appLogger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	hub := events.NewInMemoryEventEmitter(appLogger)
	if cfg.Redis.Addr != "" {
		app.redisPublisher, err = redispub.NewPublisher(ctx, cfg.Redis, appLogger)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		hub.RegisterHandler(app.redisPublisher)
	} else {
		appLogger.Info("Redis address not configured, notification fan-out disabled")
	}
	app.notificationHub = events.NewAsyncEmitter(hub, events.AsyncEmitterConfig{}, appLogger)
	app.notifications = notification.NewService(app.notificationStore, app.notificationHub, appLogger)

	if cfg.OAuth.GoogleClientID != "" {
		states, err := auth.NewStateSigner(cfg.Auth.StateSecret)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create state signer: %w", err)
		}
		app.googleService = auth.NewGoogleService(
			cfg.OAuth, states, app.userStore, app.tokenService, app.passwords, appLogger)
	} else {
		appLogger.Info("Google client ID not configured, federated login disabled")
	}

	return app, nil
}

// newImageStore selects the configured image storage backend.
func newImageStore(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) (storage.ImageStore, error) {
	switch cfg.Storage.Driver {
	case "s3":
		return storage.NewS3Store(ctx, cfg.Storage, appLogger)
	case "local":
		return storage.NewLocalStore(cfg.Storage.LocalDir, appLogger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// run builds the router and serves until the context is canceled.
func (app *application) run(ctx context.Context) error {
	handlers := routeHandlers{
		auth: api.NewAuthHandler(
			app.userStore, app.tokenService, app.passwords, app.passwords),
		products:      api.NewProductHandler(app.productStore, app.imageStore),
		carts:         api.NewCartHandler(app.cartStore, app.productStore, app.userStore, app.notifications),
		notifications: api.NewNotificationHandler(app.notifications),
	}
	if app.googleService != nil {
		handlers.social = api.NewSocialHandler(app.googleService, app.config.Auth.ClientBaseURL)
	}

	router := app.setupRouter(handlers)
	return app.startHTTPServer(ctx, router)
}

// cleanup releases long-lived resources on shutdown.
func (app *application) cleanup() {
	if app.notificationHub != nil {
		app.notificationHub.Stop()
	}
	if app.redisPublisher != nil {
		if err := app.redisPublisher.Close(); err != nil {
			app.logger.Warn("Failed to close redis publisher", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn("Failed to close database", "error", err)
		}
	}
}
