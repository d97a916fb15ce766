package api

import (
	"net/http"
	"time"

	"github.com/Profanor/bullafric-fintech-api/internal/api/handler"
	"github.com/Profanor/bullafric-fintech-api/internal/api/middleware"
	"github.com/Profanor/bullafric-fintech-api/internal/api/spec"
	"github.com/Profanor/bullafric-fintech-api/internal/idempotency"
	"github.com/Profanor/bullafric-fintech-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// Router wires middleware, handlers and operational endpoints.
type Router struct {
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Logger *zap.Logger

	Auth         *service.AuthService
	Wallets      *service.WalletService
	Users        *service.UserService
	Transactions *service.TransactionService

	IdempotencyStore *idempotency.Store

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	PublicRPS       int
	AuthRPS         int
}

func (api *Router) Routes() chi.Router {
	logger := api.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if api.PublicRPS <= 0 {
		api.PublicRPS = 10
	}
	if api.AuthRPS <= 0 {
		api.AuthRPS = 50
	}

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.RecoverMiddleware(logger))
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.MetricsMiddleware)

	authHandler := handler.NewAuthHandler(api.Auth, api.AccessTokenTTL, api.RefreshTokenTTL)
	walletHandler := handler.NewWalletHandler(api.Wallets)
	userHandler := handler.NewUserHandler(api.Users, api.Transactions)
	healthHandler := handler.NewHealthHandler(api.DB, api.Redis)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicRateLimiter(api.PublicRPS))
		r.Post("/v1/auth/register", authHandler.Register)
		r.Post("/v1/auth/login", authHandler.Login)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Use(middleware.AuthRateLimiter(api.AuthRPS))

		r.Get("/v1/users/me", userHandler.Profile)
		r.Get("/v1/users/me/transactions", userHandler.Transactions)
		r.Get("/v1/wallet/balance", walletHandler.Balance)

		r.Group(func(r chi.Router) {
			r.Use(middleware.IdempotencyMiddleware(api.IdempotencyStore, logger))
			r.Post("/v1/wallet/fund", walletHandler.Fund)
			r.Post("/v1/wallet/withdraw", walletHandler.Withdraw)
			r.Post("/v1/wallet/transfer", walletHandler.Transfer)
		})
	})

	// Operational endpoints
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/openapi.yaml"),
	))

	return r
}
