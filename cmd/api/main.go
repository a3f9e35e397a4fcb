package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/IgorAcender/AIGenda-sub001/internal/api/router"
	"github.com/IgorAcender/AIGenda-sub001/internal/appointments"
	"github.com/IgorAcender/AIGenda-sub001/internal/catalog"
	appconfig "github.com/IgorAcender/AIGenda-sub001/internal/config"
	"github.com/IgorAcender/AIGenda-sub001/internal/observability/metrics"
	"github.com/IgorAcender/AIGenda-sub001/internal/tenant"
	"github.com/IgorAcender/AIGenda-sub001/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.NewWithFormat(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting agenda API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBConnTimeout)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("invalid DATABASE_URL", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = int32(cfg.DBMaxConns)
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed", "error", err)
		os.Exit(1)
	}

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("redis ping failed", "error", err)
		os.Exit(1)
	}

	metricsHandler, bookingMetrics, registry := setupBookingMetrics()

	settingsStore := tenant.NewStore(redisClient, &tenant.Defaults{
		SlotMinutes:     cfg.DefaultSlotMinutes,
		BufferMinutes:   cfg.DefaultBufferMinutes,
		MinAdvanceHours: cfg.DefaultMinAdvanceHours,
		MaxAdvanceDays:  cfg.DefaultMaxAdvanceDays,
		Timezone:        cfg.DefaultTimezone,
	})
	catalogRepo := catalog.NewRepository(pool)
	appointmentStore := appointments.NewStore(pool)
	bookingService := appointments.NewService(
		settingsStore, catalogRepo, appointmentStore,
		bookingMetrics, logger, cfg.MaxDateRangeDays,
	)

	r := router.New(&router.Config{
		Logger:             logger,
		TenantHandler:      tenant.NewHandler(settingsStore, logger),
		CatalogHandler:     catalog.NewHandler(catalogRepo, logger),
		BookingHandler:     appointments.NewHandler(bookingService, logger),
		MetricsHandler:     metricsHandler,
		BookingStats:       bookingStats(registry),
		HealthCheck:        healthCheck(pool, redisClient),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		BookingRatePerSec:  cfg.BookingRatePerSec,
		BookingRateBurst:   cfg.BookingRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// setupBookingMetrics wires a dedicated registry so tests and the API
// serve exactly the booking collectors.
func setupBookingMetrics() (http.Handler, *metrics.BookingMetrics, *prometheus.Registry) {
	registry := prometheus.NewRegistry()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), metrics.NewBookingMetrics(registry), registry
}

// bookingStats serves the booking counters as JSON for dashboards that
// do not scrape Prometheus.
func bookingStats(gatherer prometheus.Gatherer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(metrics.SnapshotBookings(gatherer))
	}
}

// healthCheck pings both backing stores so load balancers only route to
// instances that can actually serve bookings.
func healthCheck(pool *pgxpool.Pool, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
