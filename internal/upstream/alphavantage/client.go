// Package alphavantage implements the Alpha Vantage client: quotes,
// intraday/daily series, company overview, technical indicators, symbol
// search, and ticker news. Free-tier rate limiting surfaces as a "Note"
// or "Information" field on an HTTP 200 response; both are treated as
// "no answer" so the fallback chain can proceed.
package alphavantage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/finsight/finsight/internal/infra"
	"github.com/finsight/finsight/internal/provider"
	"github.com/finsight/finsight/internal/upstream/httpx"
	"github.com/finsight/finsight/pkg/models"
)

const sourceName = "Alpha Vantage"

// Client calls the Alpha Vantage query API. A missing key disables the
// client; every method then returns provider.ErrNoData immediately.
type Client struct {
	apiKey string
	http   *http.Client
	// Overview and technical-indicator payloads are slow on the free
	// tier, so they get a longer timeout.
	slowHTTP *http.Client
	limiter  *infra.RateLimiter
	baseURL  string
}

// New creates an Alpha Vantage client.
func New(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 10 * time.Second},
		slowHTTP: &http.Client{Timeout: 15 * time.Second},
		limiter:  infra.NewRateLimiter(5, time.Minute),
		baseURL:  "https://www.alphavantage.co",
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

func (c *Client) queryURL(params url.Values) string {
	params.Set("apikey", c.apiKey)
	return c.baseURL + "/query?" + params.Encode()
}

func (c *Client) get(ctx context.Context, client *http.Client, params url.Values, dest any) error {
	if !c.Enabled() {
		return provider.ErrNoData
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return httpx.GetJSON(ctx, client, c.queryURL(params), nil, dest)
}

// GlobalQuote fetches the GLOBAL_QUOTE function and normalizes it.
func (c *Client) GlobalQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	params := url.Values{"function": {"GLOBAL_QUOTE"}, "symbol": {symbol}}
	var resp globalQuoteResponse
	if err := c.get(ctx, c.http, params, &resp); err != nil {
		return nil, fmt.Errorf("alpha quote %s: %w", symbol, err)
	}
	if err := resp.apiError(); err != nil {
		return nil, err
	}

	g := resp.GlobalQuote
	if g.Symbol == "" {
		return nil, provider.ErrNoData
	}

	q := &models.Quote{
		Symbol:        g.Symbol,
		Name:          g.Symbol, // GLOBAL_QUOTE carries no company name
		Currency:      "USD",
		CurrentPrice:  parseFloat(g.Price),
		PreviousClose: parseFloat(g.PreviousClose),
		Volume:        parseInt(g.Volume),
		DayRange: models.Range{
			Low:  parseFloat(g.Low),
			High: parseFloat(g.High),
		},
		MarketState: "REGULAR",
		Timestamp:   parseTradingDay(g.LatestTradingDay),
		Source:      sourceName,
	}
	q.Derive()
	return q, nil
}

// Intraday fetches TIME_SERIES_INTRADAY for the given interval
// (1min, 5min, 15min, 30min, 60min).
func (c *Client) Intraday(ctx context.Context, symbol, interval string) (*models.PriceSeries, error) {
	if interval == "" {
		interval = "5min"
	}
	params := url.Values{
		"function": {"TIME_SERIES_INTRADAY"},
		"symbol":   {symbol},
		"interval": {interval},
	}
	var resp seriesResponse
	if err := c.get(ctx, c.http, params, &resp); err != nil {
		return nil, fmt.Errorf("alpha intraday %s: %w", symbol, err)
	}
	if err := resp.apiError(); err != nil {
		return nil, err
	}
	return normalizeSeries(symbol, interval, resp.series(), "2006-01-02 15:04:05")
}

// Daily fetches TIME_SERIES_DAILY; outputSize is "compact" or "full".
func (c *Client) Daily(ctx context.Context, symbol, outputSize string) (*models.PriceSeries, error) {
	if outputSize == "" {
		outputSize = "compact"
	}
	params := url.Values{
		"function":   {"TIME_SERIES_DAILY"},
		"symbol":     {symbol},
		"outputsize": {outputSize},
	}
	var resp seriesResponse
	if err := c.get(ctx, c.http, params, &resp); err != nil {
		return nil, fmt.Errorf("alpha daily %s: %w", symbol, err)
	}
	if err := resp.apiError(); err != nil {
		return nil, err
	}
	return normalizeSeries(symbol, "daily", resp.series(), "2006-01-02")
}

// Overview fetches the OVERVIEW fundamentals document.
func (c *Client) Overview(ctx context.Context, symbol string) (*models.CompanyOverview, error) {
	params := url.Values{"function": {"OVERVIEW"}, "symbol": {symbol}}
	var resp overviewResponse
	if err := c.get(ctx, c.slowHTTP, params, &resp); err != nil {
		return nil, fmt.Errorf("alpha overview %s: %w", symbol, err)
	}
	if err := resp.apiError(); err != nil {
		return nil, err
	}
	if resp.Symbol == "" {
		return nil, provider.ErrNoData
	}

	return &models.CompanyOverview{
		Symbol:            resp.Symbol,
		Name:              resp.Name,
		Description:       resp.Description,
		Sector:            resp.Sector,
		Industry:          resp.Industry,
		MarketCap:         parseFloat(resp.MarketCapitalization),
		PERatio:           parseOptFloat(resp.PERatio),
		PEGRatio:          parseOptFloat(resp.PEGRatio),
		PriceToBookRatio:  parseOptFloat(resp.PriceToBookRatio),
		DividendYield:     parseOptFloat(resp.DividendYield),
		ProfitMargin:      parseOptFloat(resp.ProfitMargin),
		DebtToEquityRatio: parseOptFloat(resp.DebtToEquity),
		EPS:               parseOptFloat(resp.EPS),
		Beta:              parseOptFloat(resp.Beta),
		Source:            sourceName,
	}, nil
}

// Technical fetches one of the supported indicator functions.
// Points come back newest first.
func (c *Client) Technical(ctx context.Context, symbol, indicator, interval string, timePeriod int) (*models.TechnicalIndicator, error) {
	indicator = strings.ToUpper(indicator)
	if !SupportedIndicator(indicator) {
		return nil, fmt.Errorf("unsupported indicator %q", indicator)
	}
	if interval == "" {
		interval = "daily"
	}
	if timePeriod <= 0 {
		timePeriod = 14
	}

	params := url.Values{
		"function":    {indicator},
		"symbol":      {symbol},
		"interval":    {interval},
		"time_period": {strconv.Itoa(timePeriod)},
		"series_type": {"close"},
	}
	var resp technicalResponse
	if err := c.get(ctx, c.slowHTTP, params, &resp); err != nil {
		return nil, fmt.Errorf("alpha technical %s %s: %w", symbol, indicator, err)
	}
	if err := resp.apiError(); err != nil {
		return nil, err
	}

	analysis := resp.analysis()
	if len(analysis) == 0 {
		return nil, provider.ErrNoData
	}

	result := &models.TechnicalIndicator{
		Symbol:     symbol,
		Indicator:  indicator,
		Interval:   interval,
		TimePeriod: timePeriod,
		Source:     sourceName,
	}
	for date, values := range analysis {
		point := models.IndicatorPoint{Date: date}
		switch indicator {
		case "MACD":
			point.Value = parseFloat(values["MACD"])
			point.Signal = parseOptFloat(values["MACD_Signal"])
			point.Histogram = parseOptFloat(values["MACD_Hist"])
		case "BBANDS":
			point.Value = parseFloat(values["Real Middle Band"])
		case "STOCH":
			point.Value = parseFloat(values["SlowK"])
		default:
			point.Value = parseFloat(values[indicator])
		}
		result.Points = append(result.Points, point)
	}
	sort.Slice(result.Points, func(i, j int) bool {
		return result.Points[i].Date > result.Points[j].Date
	})
	return result, nil
}

// Search fetches SYMBOL_SEARCH matches.
func (c *Client) Search(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	params := url.Values{"function": {"SYMBOL_SEARCH"}, "keywords": {query}}
	var resp searchResponse
	if err := c.get(ctx, c.http, params, &resp); err != nil {
		return nil, fmt.Errorf("alpha search %q: %w", query, err)
	}
	if err := resp.apiError(); err != nil {
		return nil, err
	}
	if len(resp.BestMatches) == 0 {
		return nil, provider.ErrNoData
	}

	matches := make([]models.SymbolMatch, 0, len(resp.BestMatches))
	for _, m := range resp.BestMatches {
		matches = append(matches, models.SymbolMatch{
			Symbol:     m.Symbol,
			Name:       m.Name,
			Type:       m.Type,
			Region:     m.Region,
			Currency:   m.Currency,
			MatchScore: parseFloat(m.MatchScore),
			Source:     sourceName,
		})
	}
	return matches, nil
}

// News fetches NEWS_SENTIMENT articles, optionally filtered by ticker
// and topic list. Alpha Vantage supplies its own sentiment labels, which
// are mapped onto the three-way scheme.
func (c *Client) News(ctx context.Context, ticker string, topics []string) ([]models.NewsArticle, error) {
	params := url.Values{"function": {"NEWS_SENTIMENT"}}
	if ticker != "" {
		params.Set("tickers", ticker)
	}
	if len(topics) > 0 {
		params.Set("topics", strings.Join(topics, ","))
	}

	var resp newsResponse
	if err := c.get(ctx, c.http, params, &resp); err != nil {
		return nil, fmt.Errorf("alpha news: %w", err)
	}
	if err := resp.apiError(); err != nil {
		return nil, err
	}
	if len(resp.Feed) == 0 {
		return nil, provider.ErrNoData
	}

	articles := make([]models.NewsArticle, 0, len(resp.Feed))
	for _, item := range resp.Feed {
		articles = append(articles, models.NewsArticle{
			Title:          item.Title,
			Summary:        item.Summary,
			Source:         item.Source,
			PublishedAt:    parseNewsTime(item.TimePublished),
			Sentiment:      mapSentimentLabel(item.OverallSentimentLabel),
			URL:            item.URL,
			RelevanceScore: relevanceFor(ticker, item),
		})
	}
	return articles, nil
}

// SupportedIndicator reports whether the indicator function is one the
// service exposes.
func SupportedIndicator(indicator string) bool {
	switch strings.ToUpper(indicator) {
	case "RSI", "MACD", "SMA", "EMA", "BBANDS", "STOCH", "ADX":
		return true
	}
	return false
}

func mapSentimentLabel(label string) string {
	switch strings.ToLower(label) {
	case "bullish", "somewhat-bullish":
		return models.SentimentPositive
	case "bearish", "somewhat-bearish":
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func relevanceFor(ticker string, item newsItem) float64 {
	for _, ts := range item.TickerSentiment {
		if strings.EqualFold(ts.Ticker, ticker) {
			return parseFloat(ts.RelevanceScore)
		}
	}
	if len(item.TickerSentiment) > 0 {
		return parseFloat(item.TickerSentiment[0].RelevanceScore)
	}
	return 0.5
}

func normalizeSeries(symbol, interval string, raw map[string]ohlcvStrings, layout string) (*models.PriceSeries, error) {
	if len(raw) == 0 {
		return nil, provider.ErrNoData
	}

	series := &models.PriceSeries{Symbol: symbol, Interval: interval, Source: sourceName}
	for ts, bar := range raw {
		parsed, err := time.Parse(layout, ts)
		if err != nil {
			continue
		}
		series.Candles = append(series.Candles, models.Candle{
			Timestamp: parsed.UTC(),
			Open:      parseFloat(bar.Open),
			High:      parseFloat(bar.High),
			Low:       parseFloat(bar.Low),
			Close:     parseFloat(bar.Close),
			Volume:    parseInt(bar.Volume),
		})
	}
	sort.Slice(series.Candles, func(i, j int) bool {
		return series.Candles[i].Timestamp.After(series.Candles[j].Timestamp)
	})
	return series, nil
}

func parseFloat(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseOptFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "None" || s == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseTradingDay(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}

func parseNewsTime(s string) time.Time {
	// Alpha Vantage emits 20240102T150405.
	t, err := time.Parse("20060102T150405", s)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}
