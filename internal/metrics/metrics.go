package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RateRequestsTotal       *prometheus.CounterVec
	ConversionRequestsTotal *prometheus.CounterVec

	IngestionRunsTotal prometheus.Counter
	RatesIngestedTotal prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RateRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_requests_total",
				Help: "Total number of exchange rate requests",
			},
			[]string{"status"},
		),

		ConversionRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conversion_requests_total",
				Help: "Total number of currency conversion requests",
			},
			[]string{"status"},
		),

		IngestionRunsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ingestion_runs_total",
				Help: "Total number of counter rate ingestion runs started",
			},
		),

		RatesIngestedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rates_ingested_total",
				Help: "Total number of exchange rate rows persisted",
			},
		),
	}
}
