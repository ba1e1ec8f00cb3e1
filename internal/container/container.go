package container

import (
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/tmcorreia/go-auth-api/app/db"
	"github.com/tmcorreia/go-auth-api/config"
	"github.com/tmcorreia/go-auth-api/internal/api/auth"
	"github.com/tmcorreia/go-auth-api/internal/api/dashboard"
	"github.com/tmcorreia/go-auth-api/internal/api/health"
)

// Container holds all application dependencies.
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Pool             *pgxpool.Pool
	TokenIssuer      *auth.TokenIssuer
	AuthHandler      *auth.HandlerImpl
	HealthHandler    *health.HandlerImpl
	DashboardHandler *dashboard.HandlerImpl
	Authenticate     func(http.Handler) http.Handler
}

// NewContainer initializes and returns a new dependency container.
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	issuer, err := auth.NewTokenIssuer(cfg.JWT)
	if err != nil {
		logger.Error("Failed to construct token issuer", slog.Any("error", err))
		pool.Close()
		return nil, err
	}

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, issuer, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Pool:             pool,
		TokenIssuer:      issuer,
		AuthHandler:      auth.NewAuthHandlerImpl(authService, logger),
		HealthHandler:    health.NewHealthHandlerImpl(pool, logger),
		DashboardHandler: dashboard.NewDashboardHandlerImpl(logger),
		Authenticate:     auth.Authenticate(logger, issuer),
	}, nil
}

// Close releases held resources.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
