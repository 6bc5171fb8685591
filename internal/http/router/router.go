package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/http/handler"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/http/middleware"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/http/response"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/security"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/service"
)

// Dependencies carries everything the router needs, assembled in di.
type Dependencies struct {
	Handlers *handler.Handlers
	JWT      *security.JWTManager
	Users    service.UserServiceInterface
	Limiter  middleware.Limiter
	Logger   *slog.Logger

	AuthRateLimitRPM int
	APIRateLimitRPM  int
	CORSOrigins      []string
	ProbeBypass      bool
	TrustedCIDRs     []string
}

// New builds the HTTP routing tree.
//
// The auth group is rate limited by client IP so one address cannot farm
// signups or brute-force logins. Everything under /api/v1 outside auth
// requires a valid access token, and the expense/budget resources
// additionally require a verified email. /me stays reachable for
// unverified accounts so a client can show who is logged in and whether
// verification is still pending.
func New(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, req, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	h := deps.Handlers
	if h.Health != nil {
		r.Get("/health/live", h.Health.Live)
		r.Get("/health/ready", h.Health.Ready)
	}

	bypass := middleware.NewRequestBypassEvaluator(middleware.RequestBypassConfig{
		EnableInternalProbeBypass: deps.ProbeBypass,
		EnableTrustedActorBypass:  len(deps.TrustedCIDRs) > 0,
		TrustedActorCIDRs:         deps.TrustedCIDRs,
	}, deps.JWT)

	authLimiter := newLimiter(deps, deps.AuthRateLimitRPM, "auth", nil, bypass)
	apiLimiter := newLimiter(deps, deps.APIRateLimitRPM, "api", middleware.SubjectOrIPKeyFunc(deps.JWT), bypass)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware())
			r.Post("/signup", h.Auth.Signup)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)
			r.Post("/logout", h.Auth.Logout)
			// GET supports the link in the verification email directly.
			r.Get("/verify-email", h.Auth.VerifyEmail)
			r.Post("/verify-email", h.Auth.VerifyEmail)
			r.Post("/resend-verification", h.Auth.ResendVerification)
		})

		r.Group(func(r chi.Router) {
			r.Use(apiLimiter.Middleware())
			r.Use(middleware.RequireAuth(deps.JWT))

			r.Get("/me", h.User.Me)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireVerifiedEmail(deps.Users))

				r.Route("/expenses", func(r chi.Router) {
					r.Post("/", h.Expense.Create)
					r.Get("/", h.Expense.List)
					r.Get("/summary", h.Expense.Summary)
					r.Get("/export", h.Expense.ExportCSV)
					r.Get("/{id}", h.Expense.Get)
					r.Put("/{id}", h.Expense.Update)
					r.Delete("/{id}", h.Expense.Delete)
				})

				r.Route("/budgets", func(r chi.Router) {
					r.Post("/", h.Budget.Create)
					r.Get("/", h.Budget.List)
					r.Get("/{id}", h.Budget.Get)
					r.Put("/{id}", h.Budget.Update)
					r.Delete("/{id}", h.Budget.Delete)
				})
			})
		})
	})

	return r
}

func newLimiter(deps Dependencies, rpm int, scope string, keyFunc func(r *http.Request) string, bypass middleware.BypassEvaluator) *middleware.RateLimiter {
	backend := deps.Limiter
	mode := middleware.FailOpen
	if backend == nil {
		backend = middleware.NewLocalFixedWindowLimiter()
		mode = middleware.FailClosed
		scope = "local"
	}
	rl := middleware.NewDistributedRateLimiterWithKey(backend, rpm, time.Minute, mode, scope, keyFunc)
	if bypass != nil {
		rl = rl.WithBypass(bypass)
	}
	return rl
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
