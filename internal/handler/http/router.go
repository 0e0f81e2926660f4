package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omega-events/omega-backend/pkg/health"
	"github.com/omega-events/omega-backend/pkg/middleware"
)

// RouterConfig carries the handlers and cross-cutting dependencies the
// router wires together.
type RouterConfig struct {
	Refunds *RefundHandler
	Charges *ChargeHandler
	Admin   *AdminHandler

	Health        *health.Handler
	Logger        *slog.Logger
	TokenVerifier middleware.TokenValidator

	ServiceName       string
	CORSAllowedOrigin string

	AdminRateLimitRPS   float64
	AdminRateLimitBurst int
}

// NewRouter builds the HTTP routing tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics())
	r.Use(CORS(cfg.CORSAllowedOrigin))

	r.Get("/healthz", cfg.Health.LivenessHandler())
	r.Get("/readyz", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(cfg.TokenVerifier))

		r.Post("/refunds", cfg.Refunds.IssueRefund)
		r.Get("/refunds/invoice/{invoiceID}", cfg.Refunds.ListByInvoice)
		r.Get("/charges/intent/{intentID}", cfg.Charges.LookupChargeID)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.AdminRateLimitRPS, cfg.AdminRateLimitBurst))

			r.Get("/users", cfg.Admin.ListUsers)
			r.Put("/users/{id}/role", cfg.Admin.UpdateUserRole)
		})
	})

	return r
}
