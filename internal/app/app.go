// Package app wires configuration, storage, services and the HTTP router
// together for the server and lambda entry points.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mmynk/myfishingdiary/internal/api"
	"github.com/mmynk/myfishingdiary/internal/auth"
	"github.com/mmynk/myfishingdiary/internal/config"
	"github.com/mmynk/myfishingdiary/internal/geocode"
	"github.com/mmynk/myfishingdiary/internal/mail"
	"github.com/mmynk/myfishingdiary/internal/middleware"
	"github.com/mmynk/myfishingdiary/internal/service"
	"github.com/mmynk/myfishingdiary/internal/storage"
	"github.com/mmynk/myfishingdiary/internal/storage/mongo"
	"github.com/mmynk/myfishingdiary/internal/storage/sqlite"
)

// App is the fully wired application.
type App struct {
	Config   *config.Config
	Store    storage.Store
	Services api.Services
	JWT      *auth.JWTManager
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// OpenStore connects to the database selected by cfg.DBDriver.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		return mongo.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverSQLite:
		return sqlite.New(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// New opens the store, ensures its indexes and builds the services.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.DBDriver, err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}
	logger.Info("Storage initialized", "driver", cfg.DBDriver)

	var geocoder geocode.Geocoder
	if cfg.GoogleAPIKey != "" {
		geocoder = geocode.NewGoogle(cfg.GoogleAPIKey, geocode.WithRateLimit(cfg.GeocoderRPS))
	}

	var mailer mail.Sender
	if cfg.Mail.Enabled() {
		mailer = mail.NewSMTPSender(cfg.Mail)
		logger.Info("Registration e-mails enabled", "smtp_host", cfg.Mail.Host)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &App{
		Config: cfg,
		Store:  store,
		Services: api.Services{
			Trips:  service.NewTripService(store, geocoder, logger),
			Groups: service.NewGroupService(store, logger),
			Auth:   service.NewAuthService(authenticator, jwtManager, mailer, logger),
			Seed:   service.NewSeedService(store, logger),
		},
		JWT:      jwtManager,
		Registry: registry,
		Logger:   logger,
	}, nil
}

// Router builds the HTTP handler for the app.
func (a *App) Router() (http.Handler, error) {
	return api.NewRouter(a.Services, api.Options{
		JWT:      a.JWT,
		Logger:   a.Logger,
		Registry: a.Registry,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: a.Config.RateLimitRPS,
			Burst:             a.Config.RateLimitBurst,
		},
		CORSAllowedOrigins: a.Config.CORSAllowedOrigins,
		SeedEndpoints:      a.Config.SeedEndpoints,
		StaticPath:         a.Config.StaticPath,
	})
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
