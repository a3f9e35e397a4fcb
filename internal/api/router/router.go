package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/IgorAcender/AIGenda-sub001/internal/appointments"
	"github.com/IgorAcender/AIGenda-sub001/internal/catalog"
	httpmiddleware "github.com/IgorAcender/AIGenda-sub001/internal/http/middleware"
	"github.com/IgorAcender/AIGenda-sub001/internal/tenant"
	"github.com/IgorAcender/AIGenda-sub001/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	TenantHandler      *tenant.Handler
	CatalogHandler     *catalog.Handler
	BookingHandler     *appointments.Handler
	MetricsHandler     http.Handler
	BookingStats       http.HandlerFunc
	HealthCheck        http.HandlerFunc
	CORSAllowedOrigins []string

	// BookingRatePerSec throttles API traffic per tenant.
	// Zero disables the limiter.
	BookingRatePerSec float64
	BookingRateBurst  int
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		if cfg.HealthCheck != nil {
			public.Get("/health", cfg.HealthCheck)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Tenant-scoped API.
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(requireTenantID)
		if cfg.BookingRatePerSec > 0 {
			api.Use(httpmiddleware.TenantRateLimit(cfg.BookingRatePerSec, cfg.BookingRateBurst))
		}
		if cfg.TenantHandler != nil {
			api.Mount("/tenants", cfg.TenantHandler.Routes())
		}
		if cfg.CatalogHandler != nil {
			api.Mount("/catalog", cfg.CatalogHandler.Routes())
		}
		if cfg.BookingHandler != nil {
			api.Mount("/booking", cfg.BookingHandler.Routes())
		}
		if cfg.BookingStats != nil {
			api.Get("/stats/bookings", cfg.BookingStats)
		}
	})

	return r
}
