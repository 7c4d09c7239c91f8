package boj

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"bojrates/internal/domain"

	"github.com/sirupsen/logrus"
)

// FeedClient issues the wpDataTables data request against the BOJ admin-ajax
// endpoint and yields the raw tabular rows.
type FeedClient struct {
	http    *http.Client
	baseURL string
}

func NewFeedClient(httpClient *http.Client, baseURL string) *FeedClient {
	return &FeedClient{http: httpClient, baseURL: strings.TrimSuffix(baseURL, "/")}
}

type feedResponse struct {
	Data [][]string `json:"data"`
}

// FetchCounterRates posts the tabular-data query. searchDates is either a
// single "02 Jan 2006" date or a "start|end" pair; the endpoint filters
// column 0 (the date) by it and returns rows ascending by date.
func (c *FeedClient) FetchCounterRates(ctx context.Context, dataTableID, nonce, searchDates string) ([][]string, error) {
	endpoint := fmt.Sprintf("%s/wp-admin/admin-ajax.php?action=get_wdtable&table_id=%s",
		c.baseURL, url.QueryEscape(dataTableID))

	form := url.Values{
		"draw":                      {"1"},
		"start":                     {"0"},
		"length":                    {"-1"},
		"wdtNonce":                  {nonce},
		"sRangeSeparator":           {"|"},
		"columns[0][data]":          {"0"},
		"columns[0][searchable]":    {"true"},
		"columns[0][orderable]":     {"true"},
		"columns[0][search][value]": {searchDates},
		"columns[0][search][regex]": {"false"},
		"order[0][column]":          {"0"},
		"order[0][dir]":             {"asc"},
		"search[value]":             {""},
		"search[regex]":             {"false"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter rates data request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: counter rates data request failed: %v", domain.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read counter rates data response: %v", domain.ErrFeedUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(raw),
		}).Error("Unable to get exchange rates from BOJ website")
		return nil, fmt.Errorf("%w: data endpoint returned status %d", domain.ErrFeedUnavailable, resp.StatusCode)
	}

	var payload feedResponse
	if err = json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode counter rates data response: %w", err)
	}

	return payload.Data, nil
}
