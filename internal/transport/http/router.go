package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-finlink-api/internal/application/account"
	"github.com/go-finlink-api/internal/application/link"
	"github.com/go-finlink-api/internal/config"
	"github.com/go-finlink-api/internal/transport/http/handler"
	appmiddleware "github.com/go-finlink-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10 — applied to the credential endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	accountSvc := account.NewService(deps.UserRepo, deps.JWTProvider, deps.Hasher)
	linkSvc := link.NewService(deps.UserRepo, deps.Aggregator, cfg.TransactionsStartDate)

	healthH := handler.NewHealthHandler()
	accountH := handler.NewAccountHandler(accountSvc)
	linkH := handler.NewLinkHandler(linkSvc)

	// ── Public routes (no auth) ──────────────────────────────────────────
	r.Get("/health-check", healthH.Ping)
	r.With(sensitiveRL.Limit).Post("/signup", accountH.Signup)
	r.With(sensitiveRL.Limit).Post("/login", accountH.Login)

	// ── Authenticated routes ─────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.Get("/user", accountH.Profile)
		r.Post("/create_link_token", linkH.CreateLinkToken)
		r.Post("/exchange_public_token", linkH.ExchangePublicToken)
		r.Get("/fetch_transactions", linkH.FetchTransactions)
	})

	return r
}
