package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/app"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/config"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/database"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/http/handler"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/http/middleware"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/http/router"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/observability"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/repository"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/security"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	observability.InitLogger,
	provideRuntime,
)

var RuntimeInfraSet = wire.NewSet(
	provideOpenDB,
	provideRedisClient,
	provideRateLimitBackend,
)

var SecuritySet = wire.NewSet(provideJWTManager)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewLocalCredentialRepository,
	repository.NewSessionRepository,
	repository.NewVerificationTokenRepository,
	repository.NewExpenseRepository,
	repository.NewBudgetRepository,
)

var ServiceSet = wire.NewSet(
	service.NewDevEmailVerificationNotifier,
	wire.Bind(new(service.EmailVerificationNotifier), new(*service.DevEmailVerificationNotifier)),
	provideVerificationService,
	wire.Bind(new(service.VerificationServiceInterface), new(*service.VerificationService)),
	provideAuthService,
	wire.Bind(new(service.AuthServiceInterface), new(*service.AuthService)),
	service.NewUserService,
	wire.Bind(new(service.UserServiceInterface), new(*service.UserService)),
	service.NewExpenseService,
	wire.Bind(new(service.ExpenseServiceInterface), new(*service.ExpenseService)),
	service.NewBudgetService,
	wire.Bind(new(service.BudgetServiceInterface), new(*service.BudgetService)),
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewExpenseHandler,
	handler.NewBudgetHandler,
	handler.NewHealthHandler,
	handler.NewHandlers,
	provideRouterDependencies,
	router.New,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideRuntime(cfg *config.Config, logger *slog.Logger) (*observability.Runtime, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return observability.InitRuntime(ctx, cfg, logger)
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

// provideRedisClient returns nil when no Redis URL is configured; the
// rate limiter then falls back to its local fixed window.
func provideRedisClient(cfg *config.Config, logger *slog.Logger) (redis.UniversalClient, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	client.AddHook(observability.NewRedisMetricsHook())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// Keep the client: the limiter fails open and Redis may come up later.
		logger.Warn("redis unreachable at startup", "error", err)
	}
	return client, nil
}

func provideRateLimitBackend(client redis.UniversalClient) middleware.Limiter {
	if client == nil {
		return nil
	}
	return middleware.NewRedisFixedWindowLimiter(client, "ratelimit")
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
}

func provideVerificationService(
	db *gorm.DB,
	tokens repository.VerificationTokenRepository,
	users repository.UserRepository,
	notifier service.EmailVerificationNotifier,
	logger *slog.Logger,
	cfg *config.Config,
) *service.VerificationService {
	return service.NewVerificationService(db, tokens, users, notifier, logger, cfg.VerificationTokenTTL, cfg.VerificationBaseURL)
}

func provideAuthService(
	db *gorm.DB,
	users repository.UserRepository,
	credentials repository.LocalCredentialRepository,
	sessions repository.SessionRepository,
	verification service.VerificationServiceInterface,
	jwtMgr *security.JWTManager,
	cfg *config.Config,
) *service.AuthService {
	return service.NewAuthService(db, users, credentials, sessions, verification, jwtMgr, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, cfg.RefreshTokenPepper)
}

func provideRouterDependencies(
	handlers *handler.Handlers,
	jwtMgr *security.JWTManager,
	users service.UserServiceInterface,
	limiter middleware.Limiter,
	logger *slog.Logger,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		Handlers:         handlers,
		JWT:              jwtMgr,
		Users:            users,
		Limiter:          limiter,
		Logger:           logger,
		AuthRateLimitRPM: cfg.AuthRateLimitPerMin,
		APIRateLimitRPM:  cfg.APIRateLimitPerMin,
		CORSOrigins:      cfg.CORSAllowedOrigins,
		ProbeBypass:      cfg.RateLimitProbeBypass,
		TrustedCIDRs:     cfg.RateLimitTrustedCIDRs,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// MigrationRunner is the maintenance entrypoint used by the migrate and
// verify-email subcommands.
type MigrationRunner struct {
	db *gorm.DB
}

func NewMigrationRunner(db *gorm.DB) *MigrationRunner {
	return &MigrationRunner{db: db}
}

func (m *MigrationRunner) Run() error {
	return database.Migrate(m.db)
}

func (m *MigrationRunner) VerifyEmail(email string) error {
	return database.VerifyLocalEmail(m.db, email)
}
