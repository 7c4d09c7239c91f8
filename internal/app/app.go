package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bojrates/internal/adapters"
	"bojrates/internal/adapters/boj"
	"bojrates/internal/adapters/cache"
	"bojrates/internal/adapters/postgres"
	"bojrates/internal/api"
	"bojrates/internal/config"
	"bojrates/internal/currency"
	"bojrates/internal/metrics"
	"bojrates/internal/platform/db"
	httpserver "bojrates/internal/platform/http"
	"bojrates/internal/rate"
	"bojrates/internal/rate/handler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	cfgLevel := appCfg.Logging.Level
	if parsedLvl, parseErr := logrus.ParseLevel(cfgLevel); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, initial reads)
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// DB pool
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	// Rate cache
	rateCache, err := cache.NewRateCache(appCfg.Cache.MaxItems)
	if err != nil {
		logrus.WithError(err).Error("Error creating rate cache")
		return err
	}
	defer rateCache.Close()
	logrus.Info("✅ Rate cache initialization successful")

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// BOJ counter rates source
	bojBaseURL := strings.TrimSuffix(appCfg.BOJ.BaseURL, "/")
	feedClient := boj.NewFeedClient(baseHTTPClient, bojBaseURL)
	fetchPage := func(fetchCtx context.Context) (adapters.MarkupSource, error) {
		return boj.FetchCounterRatePage(fetchCtx, baseHTTPClient, bojBaseURL)
	}

	// Metrics
	appMetrics := metrics.NewMetrics(prometheus.DefaultRegisterer)

	// Repositories and services
	rateRepo := postgres.NewExchangeRateRepository(pool)
	ingestSvc := rate.NewIngestionService(fetchPage, feedClient, rateRepo, appMetrics, appCfg.BOJ.TableID, appCfg.BOJ.DataTableID)
	rateProvider := rate.NewTriangulatingProvider(rateRepo, rateCache)
	conversionSvc := rate.NewConversionService(rateProvider)
	rateValidator := rate.NewValidator(currency.ISOCodes())

	// Scheduler
	if appCfg.Scheduler.Enabled {
		scheduler := rate.NewScheduler(ingestSvc, time.Duration(appCfg.Scheduler.IntervalMinutes)*time.Minute)
		// Ensure scheduler stops before DB pool closes
		defer func() {
			if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
				logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
			}
		}()
		// Start scheduler tied to root context
		if startErr := scheduler.Start(ctx); startErr != nil {
			logrus.WithError(startErr).Error("Failed to start scheduler")
			return startErr
		}
		logrus.Info("✅ Scheduler activation successful")
	}

	// Handlers and router
	rateHandler := handler.NewRateHandler(rateValidator, rateProvider, conversionSvc, ingestSvc, rateRepo, appMetrics)
	router := api.NewRouter(rateHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
