package boj

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"bojrates/internal/domain"

	"github.com/stretchr/testify/require"
)

const feedFixture = `{
    "draw": 1,
    "recordsTotal": 2,
    "recordsFiltered": 2,
    "data": [
        ["01 Jun 2022", "U.S. DOLLAR", "153.3627", null, null, "155.8292"],
        ["01 Jun 2022", "GREAT BRITAIN POUND", "186.5375", null, null, "193.3157"]
    ]
}`

func TestFeedClient_FetchCounterRates(t *testing.T) {
	var gotQuery url.Values
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedFixture))
	}))
	t.Cleanup(srv.Close)

	c := NewFeedClient(srv.Client(), srv.URL)

	rows, err := c.FetchCounterRates(context.Background(), "134", "f77c57c352", "01 Jun 2022|10 Jun 2022")
	require.NoError(t, err)

	require.Equal(t, "get_wdtable", gotQuery.Get("action"))
	require.Equal(t, "134", gotQuery.Get("table_id"))

	require.Equal(t, "1", gotForm.Get("draw"))
	require.Equal(t, "0", gotForm.Get("start"))
	require.Equal(t, "-1", gotForm.Get("length"))
	require.Equal(t, "f77c57c352", gotForm.Get("wdtNonce"))
	require.Equal(t, "|", gotForm.Get("sRangeSeparator"))
	require.Equal(t, "01 Jun 2022|10 Jun 2022", gotForm.Get("columns[0][search][value]"))
	require.Equal(t, "0", gotForm.Get("order[0][column]"))
	require.Equal(t, "asc", gotForm.Get("order[0][dir]"))

	require.Len(t, rows, 2)
	require.Equal(t, []string{"01 Jun 2022", "U.S. DOLLAR", "153.3627", "", "", "155.8292"}, rows[0])
	require.Equal(t, "GREAT BRITAIN POUND", rows[1][1])
}

func TestFeedClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nonce expired", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	c := NewFeedClient(srv.Client(), srv.URL)

	_, err := c.FetchCounterRates(context.Background(), "134", "stale", "01 Jun 2022")
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrFeedUnavailable)
	require.Contains(t, err.Error(), "403")
}

func TestFeedClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewFeedClient(&http.Client{}, srv.URL)

	_, err := c.FetchCounterRates(context.Background(), "134", "nonce", "01 Jun 2022")
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrFeedUnavailable)
}

func TestFeedClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	t.Cleanup(srv.Close)

	c := NewFeedClient(srv.Client(), srv.URL)

	_, err := c.FetchCounterRates(context.Background(), "134", "nonce", "01 Jun 2022")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to decode counter rates data response")
}
