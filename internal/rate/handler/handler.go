package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bojrates/internal/domain"
	"bojrates/internal/metrics"
	"bojrates/internal/rate"

	"github.com/shopspring/decimal"
)

type Validator interface {
	ValidateCodes(source, target string) error
	SupportedCodes() []string
}

type RateProvider interface {
	Rate(ctx context.Context, source, target string, date time.Time, kind domain.RateKind) (decimal.Decimal, error)
}

type Converter interface {
	Convert(ctx context.Context, targetCurrency string, sourceAmount decimal.Decimal, sourceCurrency string, date time.Time, kind domain.RateKind) (rate.Conversion, error)
}

type Loader interface {
	Load(ctx context.Context, execID string, r domain.DateRange) error
}

type CurrencyLister interface {
	DistinctCurrencies(ctx context.Context) ([]string, error)
}

type Handler struct {
	validator Validator
	provider  RateProvider
	converter Converter
	loader    Loader
	lister    CurrencyLister
	metrics   *metrics.Metrics
}

func NewRateHandler(validator Validator, provider RateProvider, converter Converter, loader Loader, lister CurrencyLister, m *metrics.Metrics) *Handler {
	return &Handler{
		validator: validator,
		provider:  provider,
		converter: converter,
		loader:    loader,
		lister:    lister,
		metrics:   m,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// parseDateParam reads an optional YYYY-MM-DD value; the zero time means
// "latest ingested day" downstream.
func parseDateParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}
