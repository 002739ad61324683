package http

import (
	"log/slog"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nguyenhoangkha03/salesdesk/pkg/health"
	"github.com/nguyenhoangkha03/salesdesk/pkg/middleware"

	"github.com/nguyenhoangkha03/salesdesk/internal/auth"
)

// Permission keys the routes gate on. The token carries the full list; the
// router only cares about these two.
const (
	PermCreateOrders = "create_orders"
	PermViewOrders   = "view_orders"
)

// RoleAdmin gates the diagnostics endpoints.
const RoleAdmin = "admin"

// RouterConfig bundles the handlers and cross-cutting pieces the router
// mounts.
type RouterConfig struct {
	Cart     *CartHandler
	Order    *OrderHandler
	Auth     *AuthHandler
	Verifier *auth.TokenVerifier
	Health   *health.Handler
	Logger   *slog.Logger

	CORS           middleware.CORSConfig
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter assembles the chi router with the shared middleware chain,
// operational endpoints, and the versioned API routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.RealIP)
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.ScopedLogger(cfg.Logger))
	r.Use(middleware.Metrics("salesdesk"))
	r.Use(middleware.Tracing("salesdesk"))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))

	r.Get("/health/live", cfg.Health.Liveness())
	r.Get("/health/ready", cfg.Health.Readiness())
	r.Handle("/metrics", promhttp.Handler())

	registerDiagnostics(r, cfg.Verifier)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(ContentTypeJSON)
		api.Use(Authenticate(cfg.Verifier))

		api.Route("/auth", func(ar chi.Router) {
			ar.Get("/session", cfg.Auth.GetSession)
			ar.Post("/gate", cfg.Auth.EvaluateGate)
		})

		api.Route("/cart", func(cr chi.Router) {
			cr.Use(RequirePermission(PermCreateOrders))

			cr.Get("/", cfg.Cart.GetCart)
			cr.Delete("/", cfg.Cart.ClearCart)
			cr.Get("/summary", cfg.Cart.GetSummary)
			cr.Put("/shipping", cfg.Cart.SetShippingFee)
			cr.Post("/lines", cfg.Cart.AddLine)
			cr.Put("/lines/{productID}", cfg.Cart.UpdateLine)
			cr.Delete("/lines/{productID}", cfg.Cart.RemoveLine)
		})

		api.Route("/orders", func(or chi.Router) {
			or.With(RequirePermission(PermCreateOrders)).Post("/credit-check", cfg.Order.CheckCredit)
			or.With(RequirePermission(PermCreateOrders)).Post("/", cfg.Order.SubmitOrder)

			or.Route("/submissions", func(sr chi.Router) {
				sr.Use(RequirePermission(PermViewOrders))
				sr.Get("/", cfg.Order.ListSubmissions)
				sr.Get("/{id}", cfg.Order.GetSubmission)
			})
		})
	})

	return r
}

// registerDiagnostics mounts the pprof endpoints. Profiles expose heap
// contents, so the group sits behind authentication and the admin role.
func registerDiagnostics(r chi.Router, verifier *auth.TokenVerifier) {
	r.Group(func(dr chi.Router) {
		dr.Use(Authenticate(verifier))
		dr.Use(RequireGate(auth.Gate{Role: RoleAdmin}))

		dr.HandleFunc("/debug/pprof/*", pprof.Index)
		dr.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		dr.HandleFunc("/debug/pprof/profile", pprof.Profile)
		dr.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		dr.HandleFunc("/debug/pprof/trace", pprof.Trace)
	})
}
