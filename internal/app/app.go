package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/domain/listing"
	"github.com/xenking/storefront/internal/handler"
	"github.com/xenking/storefront/internal/storage/fakestore"
	"github.com/xenking/storefront/pkg/health"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

const serviceName = "storefront"

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("catalog", cfg.Catalog.URL),
	)

	// Upstream catalog.
	catalog, err := fakestore.NewClient(fakestore.Config{
		URL:       cfg.Catalog.URL,
		Timeout:   cfg.Catalog.Timeout,
		UserAgent: cfg.Catalog.UserAgent,
	}, fakestore.Options{
		TracerProvider: m.TracerProvider(),
		MeterProvider:  m.MeterProvider(),
	})
	if err != nil {
		return errors.Wrap(err, "create catalog client")
	}

	// Health check service. The page renders an empty grid when the
	// catalog is down, so its check only degrades readiness.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddLivenessCheck("gc_pause", time.Second, health.GCMaxPauseCheck(time.Second))
	healthSvc.AddReadinessCheck("catalog", cfg.Catalog.Timeout, health.PingCheck(cfg.Catalog.URL, catalog), health.NonCritical())
	healthSvc.Start(ctx, cfg.Health.Interval)

	// HTTP handlers.
	h, err := handler.NewHandler(handler.HandlerConfig{
		Title:    cfg.Title,
		Currency: cfg.Currency,
	}, listing.NewService(catalog))
	if err != nil {
		healthSvc.Stop()
		return errors.Wrap(err, "create handler")
	}

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      cfg.Catalog.Timeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           newRouter(ctx, lg, m, cfg, h, healthSvc),
	}
	healthSvc.SetReady(true)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	// Graceful shutdown: wait for cancellation, drain, then stop.
	g.Go(func() error {
		<-gctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		defer healthSvc.Stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	return g.Wait()
}

// newRouter mounts the probes and the listing page behind the middleware
// chain. ctx bounds the rate limiter cleanup goroutine.
func newRouter(
	ctx context.Context,
	lg *zap.Logger,
	t httpmiddleware.Telemetry,
	cfg *Config,
	h *handler.Handler,
	healthSvc *health.Health,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.Recovery(),
		httpmiddleware.Instrument(serviceName, t),
		httpmiddleware.LogRequests(),
		httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
			Skip:   skipRateLimit,
		}),
		httpmiddleware.HTMX(),
		httpmiddleware.Compress(cfg.Compression.Level),
	)

	r.Get("/livez", healthSvc.LiveEndpoint)
	r.Get("/readyz", healthSvc.ReadyEndpoint)
	h.Routes(r)
	return r
}

// skipRateLimit exempts probes and static assets: only page renders cost
// an upstream fetch.
func skipRateLimit(r *http.Request) bool {
	switch r.URL.Path {
	case "/livez", "/readyz":
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/assets/")
}
