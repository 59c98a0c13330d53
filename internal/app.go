// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "customer-portal/internal/api"
	"customer-portal/internal/api/handler"
	apimw "customer-portal/internal/api/middleware"
	"customer-portal/internal/config"
	"customer-portal/internal/repository"
	"customer-portal/internal/repository/jsonfile"
	"customer-portal/internal/repository/postgres"
	"customer-portal/internal/service"
	"customer-portal/internal/session"
	"customer-portal/internal/util"
	"customer-portal/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB // nil unless the postgres driver is selected

	Store    repository.Store
	Sessions *session.Manager
	Cookies  *session.CookieCodec

	// Services
	AuthService    service.AuthService
	PaymentService service.PaymentService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize loads the configuration and builds every component.
func (app *Application) Initialize(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		app.Logger = util.GetLogger()
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	return app.Build(ctx, cfg)
}

// Build wires the application from an already loaded configuration.
func (app *Application) Build(ctx context.Context, cfg *config.AppConfig) error {
	app.Config = cfg
	if app.Logger == nil {
		app.Logger = util.GetLogger()
	}

	// 1. Storage
	store, conn, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	app.Store = store
	app.DB = conn
	app.Logger.Info("Storage opened.", "driver", cfg.Storage.Driver)

	// 2. Sessions
	secret := cfg.Session.Secret
	if secret == "" {
		secret, err = session.NewID()
		if err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		app.Logger.Warn("SESSION_SECRET not set; using an ephemeral secret, sessions will not survive a restart")
	}
	app.Sessions = session.NewManager(
		session.NewMemoryStore(cfg.Session.MaxAge, nil),
		app.Logger,
		session.Options{MaxAge: cfg.Session.MaxAge},
	)
	app.Cookies = session.NewCookieCodec(cfg.Session.CookieName, secret, cfg.Session.CookieSecure, cfg.Session.MaxAge)

	// 3. Services
	app.AuthService, err = service.NewAuthService(app.Store, app.Logger, cfg.BcryptCost)
	if err != nil {
		return err
	}
	app.PaymentService = service.NewPaymentService(app.Store, app.Logger)
	app.Logger.Info("Services initialized.")

	// 4. HTTP Handlers and Router
	app.HTTPHandler = router.NewRouter(router.Handlers{
		Auth:        handler.NewAuthHandler(app.AuthService, app.Sessions, app.Cookies, app.Logger),
		Payments:    handler.NewPaymentHandler(app.PaymentService, app.Logger),
		SessionAuth: apimw.NewSessionAuth(app.Sessions, app.Cookies, app.Logger),
	}, router.Options{
		AllowedOrigins:      cfg.AllowedOrigins,
		RateLimitPerMinute:  cfg.RateLimitPerMinute,
		RequireStaffSession: cfg.RequireStaffSession,
		TrustedProxies:      cfg.TrustedProxies,
	}, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// OpenStore opens the configured storage backend. For postgres it also
// applies the schema and returns the connection pool.
func OpenStore(ctx context.Context, cfg *config.AppConfig) (repository.Store, *sqlx.DB, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		conn, err := db.NewPostgresDB(cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgres.Migrate(ctx, conn, cfg.Limits); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return postgres.NewStore(conn), conn, nil
	default:
		store, err := jsonfile.Open(cfg.Storage.DataFile, cfg.Limits)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open data file: %w", err)
		}
		return store, nil, nil
	}
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Store != nil {
		if err := app.Store.Close(); err != nil {
			app.Logger.Error("Failed to close storage", "error", err)
			return fmt.Errorf("failed to close storage: %w", err)
		}
		app.Logger.Info("Storage closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
