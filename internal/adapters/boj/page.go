// Package boj talks to the Bank of Jamaica website: the counter-rates HTML
// page that embeds the wpDataTables identifiers, and the admin-ajax endpoint
// serving the actual rate rows.
package boj

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"bojrates/internal/domain"
)

const counterRatesPath = "/market/foreign-exchange/counter-rates"

// nonce inputs look like:
// <input type="hidden" id="wdtNonceFrontendEdit_134" name="wdtNonceFrontendEdit_134" value="f77c57c352" />
const noncePrefix = "wdtNonceFrontendEdit"

// The page is not parsed as general HTML. Two narrow extraction rules cover
// exactly the markup the feed request needs, so a markup drift shows up as a
// lookup miss instead of a parser crash.
var (
	// <table id="table_2" class="wpDataTable" data-wpdatatable_id="134">
	tablePattern = regexp.MustCompile(`(?s)<table[^>]*id="([^"]*)"[^>]*data-wpdatatable_id="([^"]*)"[^>]*>`)
	noncePattern = regexp.MustCompile(`(?s)<input[^>]*type="hidden"[^>]*id="([^"]*)"[^>]*value="([^"]*)"[^>]*>`)
)

// CounterRatePage holds the counter-rates page body fetched once at
// construction. Markup lookups reuse the cached body, they never re-fetch.
type CounterRatePage struct {
	body string
}

// FetchCounterRatePage downloads the counter-rates page. Without the page no
// identifier extraction can proceed, so any fetch failure is fatal here.
func FetchCounterRatePage(ctx context.Context, httpClient *http.Client, baseURL string) (*CounterRatePage, error) {
	pageURL := strings.TrimSuffix(baseURL, "/") + counterRatesPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter rates page request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get the counter rates page: %v", domain.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read the counter rates page: %v", domain.ErrFeedUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: counter rates page returned status %d", domain.ErrFeedUnavailable, resp.StatusCode)
	}

	return &CounterRatePage{body: string(body)}, nil
}

// NewCounterRatePage wraps an already fetched page body. Used by tests.
func NewCounterRatePage(body string) *CounterRatePage {
	return &CounterRatePage{body: body}
}

// DataTableID returns the internal wpdatatable id of the table element
// carrying the given visible HTML id. The second return is false when no such
// table exists in the page; that is an absence, not an error.
func (p *CounterRatePage) DataTableID(htmlTableID string) (string, bool) {
	for _, m := range tablePattern.FindAllStringSubmatch(p.body, -1) {
		if m[1] == htmlTableID {
			return m[2], true
		}
	}
	return "", false
}

// Nonce returns the request nonce bound to the given data table id, read from
// the hidden input whose element id is "<prefix>_<dataTableID>".
func (p *CounterRatePage) Nonce(dataTableID string) (string, bool) {
	wantID := noncePrefix + "_" + dataTableID
	for _, m := range noncePattern.FindAllStringSubmatch(p.body, -1) {
		if m[1] == wantID {
			return m[2], true
		}
	}
	return "", false
}
