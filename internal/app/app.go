package app

import (
	"context"
	"database/sql"
	"fmt"

	"funlabs/internal/api"
	"funlabs/internal/config"
	"funlabs/internal/metrics"
	"funlabs/internal/middleware"
	"funlabs/internal/store"
	"funlabs/internal/utils"
	"funlabs/migrations"
)

type Application struct {
	Config          *config.Config
	Logger          *utils.Logger
	LearningHandler *api.LearningHandler
	HealthHandler   *api.HealthHandler
	Middleware      *middleware.Middleware
	RateLimiter     *middleware.RateLimiter
	Metrics         *metrics.Metrics
	DB              *sql.DB
	ctx             context.Context
	cancel          context.CancelFunc
}

func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewFileLogger(cfg.Logging.LogFile, cfg.Logging.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("app", "Configuration loaded successfully")
	logger.Info("app", "Opening database connection")

	db, err := store.OpenWithConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("app", "Failed to open database", err)
		logger.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	logger.Info("app", "Running database migrations")
	if err := store.MigrateFS(db, migrations.FS, "."); err != nil {
		logger.Error("app", "Failed to run migrations", err)
		db.Close()
		logger.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app, err := New(cfg, logger, db, store.NewPostgresLearningStore(db))
	if err != nil {
		logger.Error("app", "Failed to build application", err)
		db.Close()
		logger.Close()
		return nil, err
	}

	logger.Info("app", "Application initialized successfully")
	return app, nil
}

// New assembles the handlers and middleware around an already opened
// database and learning store.
func New(cfg *config.Config, logger *utils.Logger, db api.Pinger, learningStore store.LearningStore) (*Application, error) {
	policy, err := cfg.CORS.Policy()
	if err != nil {
		return nil, fmt.Errorf("failed to build origin policy: %w", err)
	}
	logger.Info("cors", fmt.Sprintf("Mode %s with rules %v (credentials: %t)",
		policy.Mode(), policy.Rules(), policy.AllowCredentials()))

	m := metrics.NewMetrics()
	appCtx, cancel := context.WithCancel(context.Background())

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.PerMinute > 0 {
		limiter = middleware.NewRateLimiter(appCtx, cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, logger)
	}

	app := &Application{
		Config:          cfg,
		Logger:          logger,
		LearningHandler: api.NewLearningHandler(learningStore, logger),
		HealthHandler:   api.NewHealthHandler(db, cfg.Environment, logger),
		Middleware: middleware.NewMiddleware(
			policy,
			m,
			logger,
			cfg.IsProduction(),
			cfg.Environment != config.EnvTest,
		),
		RateLimiter: limiter,
		Metrics:     m,
		ctx:         appCtx,
		cancel:      cancel,
	}

	if sqlDB, ok := db.(*sql.DB); ok {
		app.DB = sqlDB
	}

	return app, nil
}

func (app *Application) Close() error {
	app.Logger.Info("app", "Shutting down application")

	app.cancel()

	if app.DB != nil {
		app.Logger.Info("app", "Closing database connection")
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("app", "Error closing database", err)
		}
	}

	if app.Logger != nil {
		app.Logger.Info("app", "Application shutdown complete")
		return app.Logger.Close()
	}

	return nil
}
