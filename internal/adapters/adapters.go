package adapters

import (
	"context"
	"time"

	"bojrates/internal/domain"

	"github.com/shopspring/decimal"
)

// MarkupSource exposes the two identifiers embedded in the counter-rates
// page markup. Absent identifiers are reported as ok=false, not as errors.
type MarkupSource interface {
	DataTableID(htmlTableID string) (string, bool)
	Nonce(dataTableID string) (string, bool)
}

// PageFetcher retrieves the counter-rates page. It is invoked once per
// ingestion run; the returned source caches the body for repeated lookups.
type PageFetcher func(ctx context.Context) (MarkupSource, error)

// RateFeed yields raw 6-column rows (date, currency name, buy price, notes,
// coins, sell price) from the tabular-data endpoint.
type RateFeed interface {
	FetchCounterRates(ctx context.Context, dataTableID, nonce, searchDates string) ([][]string, error)
}

type ExchangeRateRepository interface {
	// Save persists all records in one transaction; nothing survives a failure.
	Save(ctx context.Context, rates []domain.ExchangeRate) error
	// MaxDate returns the most recent persisted quote date, or
	// domain.ErrNoRatesStored when the table is empty.
	MaxDate(ctx context.Context) (time.Time, error)
	// FirstOnOrAfter returns the kind-selected price of the first quote for
	// currency dated on or after the given day, or domain.ErrRateUnavailable.
	FirstOnOrAfter(ctx context.Context, currency string, date time.Time, kind domain.RateKind) (decimal.Decimal, error)
	// AnyInRange reports whether any quote falls in [lower, upper]; a zero
	// upper leaves the range open-ended.
	AnyInRange(ctx context.Context, lower, upper time.Time) (bool, error)
	// DistinctCurrencies lists the stored ISO codes sorted, always including
	// the base currency.
	DistinctCurrencies(ctx context.Context) ([]string, error)
}

// RateCache holds resolved rates and the max-date sentinel for 24 hours.
// It is a pure optimization: every answer is re-derivable from the repository.
type RateCache interface {
	GetRate(key string) (decimal.Decimal, bool)
	SetRate(key string, value decimal.Decimal)
	GetMaxDate() (time.Time, bool)
	SetMaxDate(t time.Time)
}

// RateProvider computes an exchange rate between any two ISO currencies for
// a given date. A zero date means "most recent ingested date".
type RateProvider interface {
	Rate(ctx context.Context, source, target string, date time.Time, kind domain.RateKind) (decimal.Decimal, error)
}
