package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"bojrates/internal/adapters"
	"bojrates/internal/domain"
	"bojrates/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMarkupSource struct{ mock.Mock }

func (m *MockMarkupSource) DataTableID(htmlTableID string) (string, bool) {
	args := m.Called(htmlTableID)
	return args.String(0), args.Bool(1)
}

func (m *MockMarkupSource) Nonce(dataTableID string) (string, bool) {
	args := m.Called(dataTableID)
	return args.String(0), args.Bool(1)
}

type MockRateFeed struct{ mock.Mock }

func (m *MockRateFeed) FetchCounterRates(ctx context.Context, dataTableID, nonce, searchDates string) ([][]string, error) {
	args := m.Called(ctx, dataTableID, nonce, searchDates)
	rows, _ := args.Get(0).([][]string)
	return rows, args.Error(1)
}

func fetcherFor(src adapters.MarkupSource, err error) adapters.PageFetcher {
	return func(context.Context) (adapters.MarkupSource, error) {
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}

func newIngestionFixture(t *testing.T) (*IngestionService, *MockMarkupSource, *MockRateFeed, *MockExchangeRateRepository) {
	t.Helper()
	page := new(MockMarkupSource)
	feed := new(MockRateFeed)
	repo := new(MockExchangeRateRepository)
	m := metrics.NewMetrics(prometheus.NewRegistry())
	svc := NewIngestionService(fetcherFor(page, nil), feed, repo, m, "table_1", "10")
	return svc, page, feed, repo
}

// --- ParseDateRange ---

func TestParseDateRange_StartOnly(t *testing.T) {
	r, err := ParseDateRange("2022-06-01", "")

	require.NoError(t, err)
	require.Equal(t, june1, r.Start)
	require.True(t, r.End.IsZero())
	require.False(t, r.Bounded())
}

func TestParseDateRange_EndWidenedToEndOfDay(t *testing.T) {
	r, err := ParseDateRange("2022-06-01", "2022-06-03")

	require.NoError(t, err)
	require.True(t, r.Bounded())
	require.Equal(t, time.Date(2022, 6, 3, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), r.End)
}

func TestParseDateRange_RejectsBadDates(t *testing.T) {
	_, err := ParseDateRange("06/01/2022", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid start date")

	_, err = ParseDateRange("2022-06-01", "tomorrow")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid end date")
}

// --- searchDates ---

func TestSearchDates_SingleDay(t *testing.T) {
	require.Equal(t, "01 Jun 2022", searchDates(domain.DateRange{Start: june1}))
}

func TestSearchDates_BoundedRangeUsesPipe(t *testing.T) {
	r := domain.DateRange{Start: june1, End: time.Date(2022, 6, 3, 23, 59, 59, 0, time.UTC)}
	require.Equal(t, "01 Jun 2022|03 Jun 2022", searchDates(r))
}

// --- Ingest ---

func usdRow() []string {
	return []string{"01 Jun 2022", "U.S. DOLLAR", "153.3627", "", "", "155.8292"}
}

func TestIngest_MapsFeedRows(t *testing.T) {
	svc, page, feed, _ := newIngestionFixture(t)

	page.On("DataTableID", "table_1").Return("11", true).Once()
	page.On("Nonce", "11").Return("f9a31b2c77", true).Once()
	feed.On("FetchCounterRates", mock.Anything, "10", "f9a31b2c77", "01 Jun 2022").
		Return([][]string{
			usdRow(),
			{"01 Jun 2022", "GREAT BRITAIN POUND", "190.1123", "note", "coins", "193.3157"},
		}, nil).Once()

	rates, err := svc.Ingest(context.Background(), domain.DateRange{Start: june1})

	require.NoError(t, err)
	require.Len(t, rates, 2)

	require.Equal(t, "USD", rates[0].Currency)
	require.Equal(t, june1, rates[0].Date)
	require.Equal(t, "153.3627", rates[0].BuyPrice.String())
	require.Equal(t, "155.8292", rates[0].SellPrice.String())
	require.Nil(t, rates[0].Notes)
	require.Nil(t, rates[0].Coins)

	require.Equal(t, "GBP", rates[1].Currency)
	require.NotNil(t, rates[1].Notes)
	require.Equal(t, "note", *rates[1].Notes)
	require.NotNil(t, rates[1].Coins)
	require.Equal(t, "coins", *rates[1].Coins)

	page.AssertExpectations(t)
	feed.AssertExpectations(t)
}

// The nonce lookup uses the id resolved from the page markup, while the feed
// request carries the configured data table id. These differ on purpose.
func TestIngest_NonceKeyedByResolvedID(t *testing.T) {
	svc, page, feed, _ := newIngestionFixture(t)

	page.On("DataTableID", "table_1").Return("99", true).Once()
	page.On("Nonce", "99").Return("abc", true).Once()
	feed.On("FetchCounterRates", mock.Anything, "10", "abc", mock.Anything).
		Return([][]string{}, nil).Once()

	_, err := svc.Ingest(context.Background(), domain.DateRange{Start: june1})

	require.NoError(t, err)
	feed.AssertExpectations(t)
}

func TestIngest_PageFetchFailureIsFatal(t *testing.T) {
	feed := new(MockRateFeed)
	repo := new(MockExchangeRateRepository)
	wantErr := errors.New("connection refused")
	m := metrics.NewMetrics(prometheus.NewRegistry())
	svc := NewIngestionService(fetcherFor(nil, wantErr), feed, repo, m, "table_1", "10")

	_, err := svc.Ingest(context.Background(), domain.DateRange{Start: june1})

	require.ErrorIs(t, err, wantErr)
	feed.AssertNotCalled(t, "FetchCounterRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIngest_MissingTableID(t *testing.T) {
	svc, page, _, _ := newIngestionFixture(t)

	page.On("DataTableID", "table_1").Return("", false).Once()

	_, err := svc.Ingest(context.Background(), domain.DateRange{Start: june1})

	require.ErrorIs(t, err, domain.ErrFeedUnavailable)
	require.Contains(t, err.Error(), `table "table_1" not found`)
}

func TestIngest_MissingNonce(t *testing.T) {
	svc, page, _, _ := newIngestionFixture(t)

	page.On("DataTableID", "table_1").Return("11", true).Once()
	page.On("Nonce", "11").Return("", false).Once()

	_, err := svc.Ingest(context.Background(), domain.DateRange{Start: june1})

	require.ErrorIs(t, err, domain.ErrFeedUnavailable)
	require.Contains(t, err.Error(), "nonce")
}

func TestIngest_UnknownCurrencyAbortsBatch(t *testing.T) {
	svc, page, feed, _ := newIngestionFixture(t)

	page.On("DataTableID", "table_1").Return("11", true).Once()
	page.On("Nonce", "11").Return("abc", true).Once()
	feed.On("FetchCounterRates", mock.Anything, "10", "abc", mock.Anything).
		Return([][]string{
			usdRow(),
			{"01 Jun 2022", "MARTIAN CREDIT", "1.0000", "", "", "2.0000"},
		}, nil).Once()

	_, err := svc.Ingest(context.Background(), domain.DateRange{Start: june1})

	require.ErrorIs(t, err, domain.ErrUnknownCurrency)
	require.Contains(t, err.Error(), "row 1")
	require.Contains(t, err.Error(), "MARTIAN CREDIT")
}

func TestIngest_BadPriceAbortsBatch(t *testing.T) {
	svc, page, feed, _ := newIngestionFixture(t)

	page.On("DataTableID", "table_1").Return("11", true).Once()
	page.On("Nonce", "11").Return("abc", true).Once()
	feed.On("FetchCounterRates", mock.Anything, "10", "abc", mock.Anything).
		Return([][]string{
			{"01 Jun 2022", "U.S. DOLLAR", "n/a", "", "", "155.8292"},
		}, nil).Once()

	_, err := svc.Ingest(context.Background(), domain.DateRange{Start: june1})

	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid buy price")
}

func TestIngest_ShortRowAbortsBatch(t *testing.T) {
	svc, page, feed, _ := newIngestionFixture(t)

	page.On("DataTableID", "table_1").Return("11", true).Once()
	page.On("Nonce", "11").Return("abc", true).Once()
	feed.On("FetchCounterRates", mock.Anything, "10", "abc", mock.Anything).
		Return([][]string{{"01 Jun 2022", "U.S. DOLLAR", "153.3627"}}, nil).Once()

	_, err := svc.Ingest(context.Background(), domain.DateRange{Start: june1})

	require.Error(t, err)
	require.Contains(t, err.Error(), "expected 6 columns, got 3")
}

func TestIngest_AcceptsISODatesInRows(t *testing.T) {
	svc, page, feed, _ := newIngestionFixture(t)

	page.On("DataTableID", "table_1").Return("11", true).Once()
	page.On("Nonce", "11").Return("abc", true).Once()
	feed.On("FetchCounterRates", mock.Anything, "10", "abc", mock.Anything).
		Return([][]string{
			{"2022-06-01", "U.S. DOLLAR", "153.3627", "", "", "155.8292"},
		}, nil).Once()

	rates, err := svc.Ingest(context.Background(), domain.DateRange{Start: june1})

	require.NoError(t, err)
	require.Equal(t, june1, rates[0].Date)
}

// --- AlreadyLoaded ---

func TestAlreadyLoaded_UsesRangeStart(t *testing.T) {
	svc, _, _, repo := newIngestionFixture(t)

	repo.On("AnyInRange", mock.Anything, june1, time.Time{}).Return(true, nil).Once()

	loaded, err := svc.AlreadyLoaded(context.Background(), domain.DateRange{Start: june1})

	require.NoError(t, err)
	require.True(t, loaded)
	repo.AssertNotCalled(t, "MaxDate", mock.Anything)
}

func TestAlreadyLoaded_ZeroStartSubstitutesMaxDate(t *testing.T) {
	svc, _, _, repo := newIngestionFixture(t)

	repo.On("MaxDate", mock.Anything).Return(june1, nil).Once()
	repo.On("AnyInRange", mock.Anything, june1, time.Time{}).Return(true, nil).Once()

	loaded, err := svc.AlreadyLoaded(context.Background(), domain.DateRange{})

	require.NoError(t, err)
	require.True(t, loaded)
	repo.AssertExpectations(t)
}

func TestAlreadyLoaded_EmptyTableMeansNotLoaded(t *testing.T) {
	svc, _, _, repo := newIngestionFixture(t)

	repo.On("MaxDate", mock.Anything).Return(time.Time{}, domain.ErrNoRatesStored).Once()

	loaded, err := svc.AlreadyLoaded(context.Background(), domain.DateRange{})

	require.NoError(t, err)
	require.False(t, loaded)
	repo.AssertNotCalled(t, "AnyInRange", mock.Anything, mock.Anything, mock.Anything)
}

func TestAlreadyLoaded_RepositoryErrorPropagates(t *testing.T) {
	svc, _, _, repo := newIngestionFixture(t)

	wantErr := errors.New("db unavailable")
	repo.On("MaxDate", mock.Anything).Return(time.Time{}, wantErr).Once()

	_, err := svc.AlreadyLoaded(context.Background(), domain.DateRange{})

	require.ErrorIs(t, err, wantErr)
}

// --- SaveRates ---

func TestSaveRates_ReportsOutcome(t *testing.T) {
	svc, _, _, repo := newIngestionFixture(t)

	rates := []domain.ExchangeRate{{Currency: "USD", Date: june1}}
	repo.On("Save", mock.Anything, rates).Return(nil).Once()

	require.True(t, svc.SaveRates(context.Background(), rates))

	repo.On("Save", mock.Anything, rates).Return(errors.New("tx aborted")).Once()

	require.False(t, svc.SaveRates(context.Background(), rates))
	repo.AssertExpectations(t)
}
