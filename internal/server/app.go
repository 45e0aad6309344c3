// Package server initializes and runs the application: configuration,
// database and Redis connections, migrations, services, and the HTTP server
// with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/nileguide/api/internal/logging"
	"github.com/nileguide/api/internal/server/auth"
	"github.com/nileguide/api/internal/server/config"
	"github.com/nileguide/api/internal/server/email"
	"github.com/nileguide/api/internal/server/rate"
	"github.com/nileguide/api/internal/server/repositories/repomanager"
	"github.com/nileguide/api/internal/server/rest"
	"github.com/nileguide/api/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *rest.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	limiter := rate.New(redisClient, cfg.RateLimitWindow)

	notifier := email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort,
		cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.SMTPFromName)

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL)

	authService := services.NewAuthService(db, rm, hasher, issuer)
	resetService := services.NewResetService(db, rm, hasher, notifier, logger,
		cfg.ResetCodePepper, cfg.ResetCodeTTL, cfg.ResetCodeSpace, cfg.ResetMaxAttempts)

	handler := rest.NewHandler(authService, resetService, logger)
	srv := rest.NewServer(cfg.EndpointAddrHTTP, handler, issuer, limiter,
		cfg.LoginRateLimit, cfg.ResetRateLimit, logger)

	return &App{config: cfg, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
