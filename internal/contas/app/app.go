package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	httpapi "github.com/controlefin/contas/internal/contas/http"
	"github.com/controlefin/contas/internal/contas/identity"
	"github.com/controlefin/contas/internal/contas/ledger"
	"github.com/controlefin/contas/internal/contas/notify"
	"github.com/controlefin/contas/internal/contas/service"
	"github.com/controlefin/contas/internal/contas/store"
	"github.com/controlefin/contas/internal/contas/store/drivers/sqlite"
	"github.com/controlefin/contas/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the account service together: store, pending ledger,
// notifier, services and the HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db          store.Store
	redisClient *redis.Client
	ledger      ledger.Ledger
	notifier    notify.Notifier
	provider    identity.Provider

	registrationService *service.RegistrationService
	emailChangeService  *service.EmailChangeService
	loginService        *service.LoginService
	profileService      *service.ProfileService
	cardService         *service.CardService
	housekeeping        *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "contas",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initLedger(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initNotifier()
	if err := app.initIdentity(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeeping.Start(context.Background())

	app.logger.Info("contas service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"ledger", app.cfg.LedgerBackend,
		"auth_mode", app.cfg.AuthMode,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully stops the server, background workers and stores.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down contas service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()

	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("contas service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initLedger() error {
	switch app.cfg.LedgerBackend {
	case "", "memory":
		app.ledger = ledger.NewMemory()
	case "redis":
		if app.cfg.RedisAddr == "" {
			return fmt.Errorf("redis ledger backend requires CONTAS_REDIS_ADDR")
		}
		app.redisClient = redis.NewClient(&redis.Options{Addr: app.cfg.RedisAddr})
		if err := app.redisClient.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("redis unreachable: %w", err)
		}
		app.ledger = ledger.NewRedis(app.redisClient)
	default:
		return fmt.Errorf("unknown ledger backend %q", app.cfg.LedgerBackend)
	}
	return nil
}

func (app *Application) initNotifier() {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("SMTP_HOST not set, verification codes will only be logged")
		app.notifier = notify.NewLog(app.logger)
		return
	}

	app.notifier = notify.NewSMTP(notify.SMTPConfig{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.SMTPFrom,
		Timeout:  app.cfg.NotifyTimeout,
	})
}

func (app *Application) initIdentity() error {
	switch app.cfg.AuthMode {
	case "", "payload":
		app.provider = identity.NewPayloadProvider()
	case "token":
		if app.cfg.TokenSecret == "" {
			return fmt.Errorf("token auth mode requires CONTAS_TOKEN_SECRET")
		}
		app.provider = identity.NewTokenProvider(app.cfg.TokenSecret, "contas")
	default:
		return fmt.Errorf("unknown auth mode %q", app.cfg.AuthMode)
	}
	return nil
}

func (app *Application) initServices() {
	var creds service.Credentials = service.PlainCredentials{}
	if app.cfg.PasswordMode == "argon2" {
		creds = service.Argon2Credentials{}
	}

	var issuer service.TokenIssuer
	if tp, ok := app.provider.(*identity.TokenProvider); ok {
		issuer = tp
	}

	app.registrationService = service.NewRegistrationService(
		app.db, app.ledger, app.notifier, creds, app.cfg.CodeTTL, app.logger)
	app.emailChangeService = service.NewEmailChangeService(
		app.db, app.ledger, app.notifier, app.cfg.CodeTTL, app.logger)
	app.loginService = service.NewLoginService(
		app.db, creds, issuer, app.cfg.TokenTTL, app.logger)
	app.profileService = service.NewProfileService(app.db, creds, app.logger)
	app.cardService = service.NewCardService(app.db, app.logger)
	app.housekeeping = service.NewHousekeepingService(
		app.ledger, app.cfg.HousekeepingInterval, app.logger)
}

func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(
		app.provider, BuildVersion, app.cfg.FrontendDir, app.db, app.logger)

	app.router.RegistrationService = app.registrationService
	app.router.EmailChangeService = app.emailChangeService
	app.router.LoginService = app.loginService
	app.router.ProfileService = app.profileService
	app.router.CardService = app.cardService

	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
