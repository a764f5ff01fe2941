// Package fred implements the FRED economic-time-series client.
// Observations come back newest first; the "." placeholder FRED uses for
// missing values is filtered out during normalization.
package fred

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/finsight/finsight/internal/infra"
	"github.com/finsight/finsight/internal/provider"
	"github.com/finsight/finsight/internal/upstream/httpx"
	"github.com/finsight/finsight/pkg/models"
)

const sourceName = "FRED"

// Titles for the series the service exposes by default; the observations
// endpoint does not echo titles back.
var seriesTitles = map[string]string{
	"GDP":      "Gross Domestic Product",
	"GDPC1":    "Real Gross Domestic Product",
	"CPIAUCSL": "Consumer Price Index for All Urban Consumers",
	"UNRATE":   "Unemployment Rate",
	"FEDFUNDS": "Federal Funds Effective Rate",
	"DGS10":    "10-Year Treasury Constant Maturity Rate",
	"MORTGAGE30US": "30-Year Fixed Rate Mortgage Average",
	"DEXINUS":  "Indian Rupees to U.S. Dollar Spot Exchange Rate",
	"DEXUSEU":  "U.S. Dollars to Euro Spot Exchange Rate",
	"DEXJPUS":  "Japanese Yen to U.S. Dollar Spot Exchange Rate",
	"DEXUSUK":  "U.S. Dollars to U.K. Pound Sterling Spot Exchange Rate",
}

// Client calls the FRED observations API.
type Client struct {
	apiKey  string
	http    *http.Client
	limiter *infra.RateLimiter
	baseURL string
}

// New creates a FRED client. A missing key disables it.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: infra.NewRateLimiter(10, time.Second),
		baseURL: "https://api.stlouisfed.org/fred",
	}
}

// NewWithBaseURL is used by tests to point the client at a fake server.
func NewWithBaseURL(apiKey, base string) *Client {
	c := New(apiKey)
	c.baseURL = base
	return c
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Series fetches observations for one series ID, newest first, limited
// to the most recent limit rows (0 means the FRED default of 24).
func (c *Client) Series(ctx context.Context, seriesID string, limit int) (*models.EconomicSeries, error) {
	if !c.Enabled() {
		return nil, provider.ErrNoData
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 24
	}

	u := fmt.Sprintf("%s/series/observations?series_id=%s&api_key=%s&file_type=json&sort_order=desc&limit=%d",
		c.baseURL, url.QueryEscape(seriesID), url.QueryEscape(c.apiKey), limit)

	var resp observationsResponse
	if err := httpx.GetJSON(ctx, c.http, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("fred series %s: %w", seriesID, err)
	}

	series := &models.EconomicSeries{
		SeriesID: seriesID,
		Title:    SeriesTitle(seriesID),
		Source:   sourceName,
	}
	for _, obs := range resp.Observations {
		if obs.Value == "." {
			continue // FRED missing-value marker
		}
		v, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		series.Observations = append(series.Observations, models.SeriesObservation{
			Date:  obs.Date,
			Value: v,
		})
	}
	if len(series.Observations) == 0 {
		return nil, provider.ErrNoData
	}
	return series, nil
}

// SeriesTitle returns the human title for a known series ID, or the ID.
func SeriesTitle(seriesID string) string {
	if title, ok := seriesTitles[seriesID]; ok {
		return title
	}
	return seriesID
}
