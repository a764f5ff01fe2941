// Package yahoo implements the Yahoo Finance chart-endpoint client. It is
// the primary quote source: no API key, generous limits, global coverage.
package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/finsight/finsight/internal/infra"
	"github.com/finsight/finsight/internal/provider"
	"github.com/finsight/finsight/internal/upstream/httpx"
	"github.com/finsight/finsight/pkg/models"
)

const sourceName = "Yahoo Finance"

// Client fetches and normalizes Yahoo chart payloads. Stateless apart
// from its HTTP client and rate limiter; it never caches.
type Client struct {
	http    *http.Client
	limiter *infra.RateLimiter
	baseURL string
}

// New creates a Yahoo client with the standard 10 s request timeout.
func New() *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: infra.NewRateLimiter(5, time.Second),
		baseURL: "https://query1.finance.yahoo.com",
	}
}

// NewWithBaseURL is used by tests to point the client at a fake server.
func NewWithBaseURL(base string) *Client {
	c := New()
	c.baseURL = base
	return c
}

func browserHeaders() map[string]string {
	return map[string]string{
		"User-Agent": "Mozilla/5.0 (compatible; FinSightAggregator/1.0)",
	}
}

// Quote fetches a single-day chart and normalizes the meta block into a
// Quote. Returns provider.ErrNoData when Yahoo has no rows for the symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", c.baseURL, url.PathEscape(symbol))
	var resp chartResponse
	if err := httpx.GetJSON(ctx, c.http, u, browserHeaders(), &resp); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}

	result, err := resp.firstResult()
	if err != nil {
		return nil, err
	}

	meta := result.Meta
	if meta.RegularMarketPrice == 0 && meta.ChartPreviousClose == 0 {
		return nil, provider.ErrNoData
	}

	q := &models.Quote{
		Symbol:        meta.Symbol,
		Name:          firstNonEmpty(meta.LongName, meta.ShortName, meta.Symbol),
		Currency:      meta.Currency,
		Exchange:      meta.ExchangeName,
		CurrentPrice:  meta.RegularMarketPrice,
		PreviousClose: firstNonZero(meta.PreviousClose, meta.ChartPreviousClose),
		Volume:        meta.RegularMarketVolume,
		DayRange: models.Range{
			Low:  meta.RegularMarketDayLow,
			High: meta.RegularMarketDayHigh,
		},
		FiftyTwoWeekRange: models.Range{
			Low:  meta.FiftyTwoWeekLow,
			High: meta.FiftyTwoWeekHigh,
		},
		MarketState: marketState(meta),
		Timestamp:   time.Unix(meta.RegularMarketTime, 0).UTC(),
		Source:      sourceName,
	}
	q.Derive()
	return q, nil
}

// History fetches an OHLCV series for the given range and interval,
// zipping the timestamp array against the quote arrays by index.
func (c *Client) History(ctx context.Context, symbol, rng, interval string) (*models.PriceSeries, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(rng), url.QueryEscape(interval))
	var resp chartResponse
	if err := httpx.GetJSON(ctx, c.http, u, browserHeaders(), &resp); err != nil {
		return nil, fmt.Errorf("yahoo history %s: %w", symbol, err)
	}

	result, err := resp.firstResult()
	if err != nil {
		return nil, err
	}
	if len(result.Timestamps) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, provider.ErrNoData
	}

	bars := result.Indicators.Quote[0]
	series := &models.PriceSeries{
		Symbol:   result.Meta.Symbol,
		Interval: interval,
		Source:   sourceName,
	}
	for i, ts := range result.Timestamps {
		// Nulls in any OHLC slot mark a gap bar; skip the row. The quote
		// arrays are not guaranteed to match the timestamp length.
		if i >= len(bars.Close) || i >= len(bars.Open) || bars.Close[i] == nil || bars.Open[i] == nil {
			continue
		}
		candle := models.Candle{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      *bars.Open[i],
			Close:     *bars.Close[i],
		}
		if i < len(bars.High) && bars.High[i] != nil {
			candle.High = *bars.High[i]
		}
		if i < len(bars.Low) && bars.Low[i] != nil {
			candle.Low = *bars.Low[i]
		}
		if i < len(bars.Volume) && bars.Volume[i] != nil {
			candle.Volume = *bars.Volume[i]
		}
		series.Candles = append(series.Candles, candle)
	}
	if len(series.Candles) == 0 {
		return nil, provider.ErrNoData
	}
	return series, nil
}

// IndexQuote fetches a market-index quote; indices use the same chart
// endpoint with a caret-prefixed symbol.
func (c *Client) IndexQuote(ctx context.Context, index string) (*models.Quote, error) {
	return c.Quote(ctx, index)
}

func marketState(meta chartMeta) string {
	if meta.MarketState != "" {
		return meta.MarketState
	}
	return "REGULAR"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...float64) float64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
