package rate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bojrates/internal/adapters"
	"bojrates/internal/currency"
	"bojrates/internal/domain"
	"bojrates/internal/metrics"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// searchDateLayout is the display format the BOJ table filter expects.
const searchDateLayout = "02 Jan 2006"

// inputDateLayout is the calendar-date format accepted from callers.
const inputDateLayout = "2006-01-02"

// feed rows carry exactly: date, currency name, buy price, notes, coins, sell price
const feedColumns = 6

// IngestionService retrieves raw counter-rate rows from the BOJ feed and maps
// them into normalized exchange rate records.
type IngestionService struct {
	fetchPage adapters.PageFetcher
	feed      adapters.RateFeed
	repo      adapters.ExchangeRateRepository
	metrics   *metrics.Metrics

	htmlTableID string
	dataTableID string
}

func NewIngestionService(fetchPage adapters.PageFetcher, feed adapters.RateFeed, repo adapters.ExchangeRateRepository, m *metrics.Metrics, htmlTableID, dataTableID string) *IngestionService {
	return &IngestionService{
		fetchPage:   fetchPage,
		feed:        feed,
		repo:        repo,
		metrics:     m,
		htmlTableID: htmlTableID,
		dataTableID: dataTableID,
	}
}

// ParseDateRange builds a DateRange from YYYY-MM-DD strings. The end date is
// optional; when supplied it is widened to the end of that day so range
// predicates include the whole day.
func ParseDateRange(startDate, endDate string) (domain.DateRange, error) {
	start, err := time.Parse(inputDateLayout, startDate)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}

	r := domain.DateRange{Start: start}
	if endDate != "" {
		end, err := time.Parse(inputDateLayout, endDate)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
		}
		r.End = endOfDay(end)
	}
	return r, nil
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// searchDates renders the column-0 filter expression: a single display date,
// or "start|end" when the range is bounded.
func searchDates(r domain.DateRange) string {
	start := r.Start.Format(searchDateLayout)
	if !r.Bounded() {
		return start
	}
	return start + "|" + r.End.Format(searchDateLayout)
}

// Ingest fetches the counter rates for the range and returns them as
// normalized records, not yet persisted. Any row that fails to map aborts the
// whole call; there is no partial-success mode.
func (s *IngestionService) Ingest(ctx context.Context, r domain.DateRange) ([]domain.ExchangeRate, error) {
	page, err := s.fetchPage(ctx)
	if err != nil {
		return nil, err
	}

	dataTableID, ok := page.DataTableID(s.htmlTableID)
	if !ok {
		return nil, fmt.Errorf("%w: table %q not found in counter rates page", domain.ErrFeedUnavailable, s.htmlTableID)
	}
	nonce, ok := page.Nonce(dataTableID)
	if !ok {
		return nil, fmt.Errorf("%w: nonce for data table %q not found in counter rates page", domain.ErrFeedUnavailable, dataTableID)
	}

	rows, err := s.feed.FetchCounterRates(ctx, s.dataTableID, nonce, searchDates(r))
	if err != nil {
		return nil, err
	}

	rates := make([]domain.ExchangeRate, 0, len(rows))
	for i, row := range rows {
		rate, err := mapRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

func mapRow(row []string) (domain.ExchangeRate, error) {
	if len(row) != feedColumns {
		return domain.ExchangeRate{}, fmt.Errorf("expected %d columns, got %d", feedColumns, len(row))
	}

	date, err := parseRowDate(row[0])
	if err != nil {
		return domain.ExchangeRate{}, err
	}

	iso, err := currency.ToISO(row[1])
	if err != nil {
		return domain.ExchangeRate{}, err
	}

	buy, err := decimal.NewFromString(strings.TrimSpace(row[2]))
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("invalid buy price %q for %s: %w", row[2], iso, err)
	}
	sell, err := decimal.NewFromString(strings.TrimSpace(row[5]))
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("invalid sell price %q for %s: %w", row[5], iso, err)
	}

	return domain.ExchangeRate{
		Date:      date,
		Currency:  iso,
		BuyPrice:  buy,
		SellPrice: sell,
		Notes:     optionalText(row[3]),
		Coins:     optionalText(row[4]),
	}, nil
}

func parseRowDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{searchDateLayout, inputDateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable rate date %q", raw)
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// AlreadyLoaded reports whether the range is already covered by persisted
// rates. A zero Start substitutes the most recent persisted date, so a
// default run only re-ingests when something newer than the last load could
// exist. Callers check this before ingesting to avoid duplicate rows.
func (s *IngestionService) AlreadyLoaded(ctx context.Context, r domain.DateRange) (bool, error) {
	lower := r.Start
	if lower.IsZero() {
		maxDate, err := s.repo.MaxDate(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNoRatesStored) {
				return false, nil
			}
			return false, err
		}
		lower = maxDate
	}
	return s.repo.AnyInRange(ctx, lower, r.End)
}

// SaveRates persists the batch and reports success as a boolean: false means
// the transaction rolled back and nothing was saved, so the caller may retry
// the whole batch.
func (s *IngestionService) SaveRates(ctx context.Context, rates []domain.ExchangeRate) bool {
	if err := s.repo.Save(ctx, rates); err != nil {
		logrus.WithError(err).Error("Failed to save exchange rates")
		return false
	}
	return true
}
