// Package bootstrap wires configuration, storage, adapters and services into
// a runnable application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/taskconnect/marketplace-api/internal/api"
	"github.com/taskconnect/marketplace-api/internal/api/handler"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
	"github.com/taskconnect/marketplace-api/internal/core/service"
	"github.com/taskconnect/marketplace-api/internal/infrastructure/auth"
	"github.com/taskconnect/marketplace-api/internal/infrastructure/config"
	"github.com/taskconnect/marketplace-api/internal/infrastructure/db/redis"
	"github.com/taskconnect/marketplace-api/internal/infrastructure/files"
	"github.com/taskconnect/marketplace-api/internal/infrastructure/notify"
	"github.com/taskconnect/marketplace-api/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	bcryptCost      = 12
)

// App holds all dependencies for the application.
type App struct {
	Config  *config.Config
	Log     zerolog.Logger
	Storage *Storage
	Redis   *goredis.Client
	Echo    *echo.Echo
}

// Logger initialises the process logger from cfg.
func Logger(cfg *config.Config) zerolog.Logger {
	return logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "marketplace-api",
	})
}

// New creates an App with every dependency connected.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := Logger(cfg)
	app := &App{Config: cfg, Log: log}

	store, err := OpenStorage(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}
	app.Storage = store

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.Redis = rdb
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	resolver, err := newResolver(cfg)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	hasher := auth.NewBcryptHasher(bcryptCost)
	tokens := auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, redis.NewSessionStore(rdb))

	svc := api.Services{
		Registration: service.NewRegistrationService(store.Identities, hasher, logger.Component("registration")),
		Auth:         service.NewAuthService(store.Identities, store.Approvals, hasher, tokens, logger.Component("auth")),
		Approvals: service.NewApprovalService(
			store.Identities, store.Approvals, newNotifier(cfg, log), cfg.Auth.LoginCodeTTL, logger.Component("approval"),
		),
		Directory: service.NewProviderDirectory(store.Identities, resolver),
		Bookings:  service.NewBookingService(store.Bookings, store.Identities, resolver, logger.Component("booking")),
		Reports:   service.NewReportService(store.Reports, store.Identities, logger.Component("report")),
	}

	app.Echo = api.NewRouter(svc, api.Options{
		Log:      log,
		ImageDir: cfg.Files.ImageDir,
		Readiness: map[string]handler.PingFunc{
			store.Name: store.Ping,
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		},
	})

	return app, nil
}

func newNotifier(cfg *config.Config, log zerolog.Logger) ports.Notifier {
	if cfg.SMTP.Host == "" {
		log.Warn().Msg("SMTP_HOST not set, login codes are written to the log")
		return notify.NewLogNotifier(logger.Component("notify"))
	}
	return notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
}

func newResolver(cfg *config.Config) (ports.FileResolver, error) {
	if cfg.Files.Resolver == config.ResolverCloudinary {
		return files.NewCloudinaryResolver(cfg.Files.CloudinaryURL)
	}
	return files.NewLocalResolver(cfg.Files.PublicBaseURL), nil
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM, then shuts
// down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		app.Log.Info().
			Str("port", app.Config.Port).
			Str("env", app.Config.Env).
			Str("storage", app.Config.Storage.Driver).
			Msg("server starting")
		if err := app.Echo.Start(":" + app.Config.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			app.Close(context.Background())
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	app.Log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Echo.Shutdown(shutdownCtx); err != nil {
		app.Log.Error().Err(err).Msg("server forced to shutdown")
	}
	app.Close(shutdownCtx)

	app.Log.Info().Msg("server shutdown complete")
	return nil
}

// Close releases storage and redis connections.
func (app *App) Close(ctx context.Context) {
	if app.Storage != nil {
		if err := app.Storage.Close(ctx); err != nil {
			app.Log.Error().Err(err).Msg("close storage")
		}
	}
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Log.Error().Err(err).Msg("close redis")
		}
	}
}
