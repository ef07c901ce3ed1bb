package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/peertutor/internal/peertutor/http"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/metrics"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/service"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store/drivers/sqlite"
	"github.com/aussiebroadwan/peertutor/pkg/cryptox"
	"github.com/aussiebroadwan/peertutor/pkg/jwtx"
	"github.com/aussiebroadwan/peertutor/pkg/mailx"
	"github.com/aussiebroadwan/peertutor/pkg/slogx"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application encapsulates the site with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      *sqlite.Store
	keys    sessionKeys
	hasher  *cryptox.Argon2id
	mailer  mailx.Mailer
	metrics *metrics.Metrics

	// Services
	sessionService      *service.SessionService
	authService         *service.AuthService
	userService         *service.UserService
	catalogService      *service.CatalogService
	requestService      *service.RequestService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "peertutor",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:     cfg,
		logger:  NewLogger(cfg),
		metrics: metrics.New(),
	}

	pepper, err := cryptox.LoadPepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewArgon2id(pepper)

	if app.keys, err = deriveSessionKeys(cfg.SessionSecret, app.logger); err != nil {
		return nil, err
	}

	if app.mailer, err = newMailer(cfg); err != nil {
		return nil, err
	}
	if cfg.MailDriver == "log" && cfg.Env != "dev" {
		app.logger.Warn("log mail driver outside dev: reset passwords will be written to the logs",
			"env", cfg.Env)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.seedCatalogue(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Handler exposes the router, mostly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("peertutor starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			_ = app.db.Close()
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down peertutor...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("peertutor stopped")
	return nil
}

// OpenStore opens the database file and applies pending migrations.
func OpenStore(path string) (*sqlite.Store, error) {
	db, err := sqlite.NewStore(sqlite.DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}

func (app *Application) initDatabase() error {
	db, err := OpenStore(app.cfg.DatabaseFile)
	if err != nil {
		return err
	}
	app.db = db

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

func newMailer(cfg Config) (mailx.Mailer, error) {
	switch cfg.MailDriver {
	case "log":
		return mailx.LogMailer{}, nil
	case "smtp":
		return mailx.NewSMTPMailer(mailx.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			Timeout:  cfg.MailTimeout,
		})
	}
	return nil, fmt.Errorf("unknown MAIL_DRIVER %q (want smtp or log)", cfg.MailDriver)
}

func (app *Application) initServices() error {
	signer, err := jwtx.NewSignerHS256(app.keys.JWT)
	if err != nil {
		return fmt.Errorf("failed to create session signer: %w", err)
	}

	app.sessionService = &service.SessionService{
		Store:       app.db,
		Signer:      signer,
		Verifier:    jwtx.NewVerifierHS256(app.keys.JWT, jwtx.VerifyOptions{Issuer: app.cfg.Issuer}),
		Issuer:      app.cfg.Issuer,
		TTL:         app.cfg.SessionTTL,
		RememberTTL: app.cfg.RememberTTL,
	}
	app.authService = &service.AuthService{
		Store:       app.db,
		Hasher:      app.hasher,
		Mailer:      app.mailer,
		Sessions:    app.sessionService,
		EmailSuffix: app.cfg.EmailSuffix,
		LoginURL:    app.cfg.BaseURL + "/login",
		MailTimeout: app.cfg.MailTimeout,
	}
	app.userService = &service.UserService{Store: app.db}
	app.catalogService = &service.CatalogService{Store: app.db}
	app.requestService = &service.RequestService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// seedCatalogue loads the subject catalogue into a database that has none.
func (app *Application) seedCatalogue(ctx context.Context) error {
	existing, err := app.catalogService.ListSubjects(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	entries, err := LoadCatalogue(app.cfg.SubjectsFile)
	if err != nil {
		return err
	}
	n, err := app.catalogService.Seed(ctx, entries)
	if err != nil {
		return fmt.Errorf("failed to seed subjects: %w", err)
	}

	app.logger.Info("subject catalogue seeded", "subjects", n)
	return nil
}

// LoadCatalogue reads the YAML catalogue at path, or the built-in one when
// path is empty.
func LoadCatalogue(path string) ([]service.CatalogueEntry, error) {
	if path == "" {
		return service.DefaultCatalogue()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open subjects file: %w", err)
	}
	defer f.Close()

	return service.LoadCatalogue(f)
}

func (app *Application) initHTTP() error {
	flash := httpapi.NewFlashStore(app.keys.FlashAuth, app.keys.FlashEnc, app.cfg.SecureCookies)
	views, err := httpapi.NewViews(flash)
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	router := httpapi.NewRouter(
		app.db,
		views,
		flash,
		app.metrics,
		BuildVersion,
		app.cfg.SecureCookies,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.SessionService = app.sessionService
	router.UserService = app.userService
	router.RequestService = app.requestService
	router.CatalogService = app.catalogService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
