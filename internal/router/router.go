package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/FACorreiaa/go-medpoint-api/docs"

	appLogger "github.com/FACorreiaa/go-medpoint-api/app/logger"
	"github.com/FACorreiaa/go-medpoint-api/config"
	"github.com/FACorreiaa/go-medpoint-api/internal/api"
	"github.com/FACorreiaa/go-medpoint-api/internal/api/audit"
	"github.com/FACorreiaa/go-medpoint-api/internal/api/auth"
	"github.com/FACorreiaa/go-medpoint-api/internal/api/drug"
	"github.com/FACorreiaa/go-medpoint-api/internal/api/user"
	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

// Config contains dependencies needed for the router setup
type Config struct {
	Logger         *slog.Logger
	Tokens         *auth.TokenManager
	AuthHandler    auth.Handler
	UserHandler    user.Handler
	DrugHandler    drug.Handler
	AuditHandler   audit.Handler
	AllowedOrigins []string
	RateLimit      config.RateLimitConfig
	RequestTimeout time.Duration
}

// SetupRouter builds the full HTTP handler: server-wide middleware, public
// routes, and the bearer-protected /api/v1 tree.
func SetupRouter(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Compress(5, "application/json"))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	authenticate := auth.Authenticate(cfg.Logger, cfg.Tokens)
	canMutate := auth.RequireRole(cfg.Logger, types.RoleContributor, types.RoleAdmin)
	adminOnly := auth.RequireRole(cfg.Logger, types.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Group(func(r chi.Router) {
			r.With(authRateLimit(cfg.RateLimit)).Post("/users/authenticate", cfg.AuthHandler.Authenticate)
			r.Post("/users/register", cfg.AuthHandler.Register)
			r.Get("/drugs", cfg.DrugHandler.ListDrugs)
			r.Get("/drugs/{id}", cfg.DrugHandler.GetDrug)
		})

		// Contributor or Admin
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(canMutate)
			r.Post("/drugs", cfg.DrugHandler.CreateDrug)
			r.Put("/drugs/{id}", cfg.DrugHandler.UpdateDrug)
			r.Delete("/drugs/{id}", cfg.DrugHandler.DeleteDrug)
		})

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)
			r.Get("/logs", cfg.AuditHandler.ListLogs)
			r.Get("/users", cfg.UserHandler.ListUsers)
			r.Post("/users/set-role/{userId}", cfg.UserHandler.SetRole)
		})
	})

	return otelhttp.NewHandler(r, "medpoint-api",
		otelhttp.WithFilter(func(req *http.Request) bool { return req.URL.Path != "/ping" }),
	)
}

func authRateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.AuthenticateRequests <= 0 || cfg.Window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(cfg.AuthenticateRequests, cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			api.ErrorResponse(w, r, http.StatusTooManyRequests, "Too many authentication attempts, try again later")
		}),
	)
}
