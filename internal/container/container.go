package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-medpoint-api/app/db"
	"github.com/FACorreiaa/go-medpoint-api/app/observability/metrics"
	"github.com/FACorreiaa/go-medpoint-api/config"
	"github.com/FACorreiaa/go-medpoint-api/internal/api/audit"
	"github.com/FACorreiaa/go-medpoint-api/internal/api/auth"
	"github.com/FACorreiaa/go-medpoint-api/internal/api/drug"
	"github.com/FACorreiaa/go-medpoint-api/internal/api/regulatory"
	"github.com/FACorreiaa/go-medpoint-api/internal/api/user"
	"github.com/FACorreiaa/go-medpoint-api/internal/router"
	"github.com/FACorreiaa/go-medpoint-api/internal/seed"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *slog.Logger
	Pool         *pgxpool.Pool
	Tokens       *auth.TokenManager
	UserService  *user.UserServiceImpl
	DrugService  *drug.DrugServiceImpl
	AuditService *audit.AuditServiceImpl
	AuthHandler  *auth.HandlerImpl
	UserHandler  *user.HandlerImpl
	DrugHandler  *drug.HandlerImpl
	AuditHandler *audit.HandlerImpl
	Seeder       *seed.Seeder
}

// NewContainer opens the database pool and wires every component on top of it.
func NewContainer(ctx context.Context, cfg *config.Config, appMetrics *metrics.AppMetrics, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(ctx, dbConfig, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	c, err := NewContainerWithPool(cfg, pool, appMetrics, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return c, nil
}

// NewContainerWithPool wires every component on an existing pool.
func NewContainerWithPool(cfg *config.Config, pool *pgxpool.Pool, appMetrics *metrics.AppMetrics, logger *slog.Logger) (*Container, error) {
	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("failed to create token manager: %w", err)
	}

	gateway, err := regulatory.New(cfg.Regulatory, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create regulatory gateway: %w", err)
	}

	txManager := database.NewTxManager(pool)

	// Identity directory
	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService, err := user.NewUserService(userRepo, cfg.Security.BcryptCost, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	userHandler := user.NewHandlerImpl(userService, logger)

	// Audit log
	auditRepo := audit.NewPostgresAuditRepository(pool, logger)
	auditService := audit.NewAuditService(auditRepo, appMetrics, logger)
	auditHandler := audit.NewHandlerImpl(auditService, logger)

	// Bearer tokens
	authService := auth.NewAuthService(userService, tokens, appMetrics, logger)
	authHandler := auth.NewAuthHandlerImpl(authService, logger)

	// Catalog
	drugRepo := drug.NewPostgresDrugRepository(pool, logger)
	drugService := drug.NewDrugService(drugRepo, userService, gateway, auditService, txManager,
		appMetrics, cfg.Regulatory.Timeout, logger)
	drugHandler := drug.NewHandlerImpl(drugService, logger)

	return &Container{
		Config:       cfg,
		Logger:       logger,
		Pool:         pool,
		Tokens:       tokens,
		UserService:  userService,
		DrugService:  drugService,
		AuditService: auditService,
		AuthHandler:  authHandler,
		UserHandler:  userHandler,
		DrugHandler:  drugHandler,
		AuditHandler: auditHandler,
		Seeder:       seed.NewSeeder(cfg.Seed, userService, drugRepo, logger),
	}, nil
}

// Router returns the application HTTP handler.
func (c *Container) Router() http.Handler {
	return router.SetupRouter(&router.Config{
		Logger:         c.Logger,
		Tokens:         c.Tokens,
		AuthHandler:    c.AuthHandler,
		UserHandler:    c.UserHandler,
		DrugHandler:    c.DrugHandler,
		AuditHandler:   c.AuditHandler,
		AllowedOrigins: c.Config.Server.AllowedOrigins,
		RateLimit:      c.Config.RateLimit,
		RequestTimeout: c.Config.Server.Timeout,
	})
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// Seed provisions the admin account and demo catalog.
func (c *Container) Seed(ctx context.Context) error {
	return c.Seeder.Run(ctx)
}
