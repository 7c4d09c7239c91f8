package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"bojrates/internal/adapters"
	"bojrates/internal/adapters/boj"
	"bojrates/internal/adapters/postgres"
	"bojrates/internal/config"
	"bojrates/internal/metrics"
	"bojrates/internal/platform/db"
	"bojrates/internal/rate"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// loadrates fetches BOJ counter rates for a date range and persists them.
//
//	loadrates                     load today
//	loadrates 2022-06-01          load a single day
//	loadrates 2022-06-01 2022-06-03   load a bounded range
func main() {
	logrus.SetOutput(os.Stdout)

	appCfg, err := config.Init()
	if err != nil {
		logrus.Fatal(err)
	}

	dateRange := rate.TodayRange(time.Now())
	if len(os.Args) > 1 {
		endDate := ""
		if len(os.Args) > 2 {
			endDate = os.Args[2]
		}
		dateRange, err = rate.ParseDateRange(os.Args[1], endDate)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.CreatePoolAndPing(ctx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Fatal("Error connecting to db")
	}
	defer pool.Close()

	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	bojBaseURL := strings.TrimSuffix(appCfg.BOJ.BaseURL, "/")
	feedClient := boj.NewFeedClient(baseHTTPClient, bojBaseURL)
	fetchPage := func(fetchCtx context.Context) (adapters.MarkupSource, error) {
		return boj.FetchCounterRatePage(fetchCtx, baseHTTPClient, bojBaseURL)
	}

	ingestSvc := rate.NewIngestionService(
		fetchPage,
		feedClient,
		postgres.NewExchangeRateRepository(pool),
		metrics.NewMetrics(prometheus.NewRegistry()),
		appCfg.BOJ.TableID,
		appCfg.BOJ.DataTableID,
	)

	if err := ingestSvc.Load(ctx, uuid.NewString(), dateRange); err != nil {
		logrus.WithError(err).Fatal("Load rates failed")
	}
}
