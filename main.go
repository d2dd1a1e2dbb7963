package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	appcart "github.com/Zhima-Mochi/minishop-cart/internal/application/cart"
	"github.com/Zhima-Mochi/minishop-cart/internal/config"
	cartworker "github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/cart/worker"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/memory"
	infraobs "github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/outbox"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
	"github.com/Zhima-Mochi/minishop-cart/internal/pkg/logging"
	"github.com/Zhima-Mochi/minishop-cart/internal/presentation/cartview"
	httppresentation "github.com/Zhima-Mochi/minishop-cart/internal/presentation/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "minishop-cart: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(config.DefaultEnvPrefix, config.DefaultFile)
	if err != nil {
		return err
	}

	baseLogger, err := logging.NewLogger(logging.Options{
		Service: cfg.Service.Name,
		Env:     cfg.Service.Env,
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID)
	systemLogger.Debug("config_loaded", zap.String("config", cfg.String()))

	counters, histograms := registerMetrics(prometrics.New(prometheus.DefaultRegisterer, "", ""))
	tel := infraobs.New(oteltrace.New(""), zaplogger.New(baseLogger), counters, histograms)

	products, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		return err
	}
	systemLogger.Info("catalog_loaded",
		zap.String("file", cfg.Catalog.File),
		zap.Int("products", len(products)),
	)

	// In-process bus; cart changes are delivered before the request returns.
	bus := outbox.NewBus(tel.Logger())
	cartworker.New(bus, tel).Start()

	storeRepo := memory.NewStoreRepository()
	prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "cart_sessions_active",
		Help: "Cart sessions currently held in memory.",
	}, func() float64 { return float64(storeRepo.Len()) }))

	sessions := appcart.NewSessions(storeRepo, bus, tel)
	handler := httppresentation.NewHandler(httppresentation.Dependencies{
		Sessions:      sessions,
		Template:      cartview.MustTemplate(),
		Catalog:       memory.NewCatalogRepository(products...),
		Observability: tel,
		ContinueURL:   cfg.Cart.Continue,
		CookieName:    cfg.Cart.Cookie,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           mux,
		ReadTimeout:       cfg.HTTP.Timeout.Read,
		WriteTimeout:      cfg.HTTP.Timeout.Write,
		IdleTimeout:       cfg.HTTP.Timeout.Idle,
		ReadHeaderTimeout: cfg.HTTP.Timeout.Header,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		systemLogger.Info("http_server_start",
			zap.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			systemLogger.Error("http_server_error",
				zap.Error(err),
			)
			return err
		}
		return nil
	})

	g.Go(func() error {
		return sessions.RunSweeper(gctx, cfg.Cart.Session.Sweep, cfg.Cart.Session.TTL)
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			systemLogger.Error("http_server_shutdown_error",
				zap.Error(err),
			)
			return err
		}
		systemLogger.Info("http_server_stopped")
		return nil
	})

	return g.Wait()
}

func registerMetrics(reg prometrics.Registry) (
	map[observability.MetricKey]observability.Counter,
	map[observability.MetricKey]observability.Histogram,
) {
	counters := map[observability.MetricKey]observability.Counter{
		observability.MUsecaseRequests: reg.Counter(string(observability.MUsecaseRequests),
			"Total number of use case invocations.", "use_case", "outcome"),
		observability.MHTTPRequests: reg.Counter(string(observability.MHTTPRequests),
			"Total number of HTTP requests.", "method", "route", "status"),
		observability.MCartEvents: reg.Counter(string(observability.MCartEvents),
			"Cart change events delivered to subscribers.", "event"),
		observability.MCartSessionsOpened: reg.Counter(string(observability.MCartSessionsOpened),
			"Cart sessions opened."),
		observability.MCartSessionsExpired: reg.Counter(string(observability.MCartSessionsExpired),
			"Cart sessions closed after staying idle."),
	}
	histograms := map[observability.MetricKey]observability.Histogram{
		observability.MUsecaseDuration: reg.Histogram(string(observability.MUsecaseDuration),
			"Duration of use case execution in seconds.", nil, "use_case"),
		observability.MHTTPRequestDuration: reg.Histogram(string(observability.MHTTPRequestDuration),
			"Duration of HTTP requests in seconds.", nil, "method", "route", "status"),
	}
	return counters, histograms
}
