// Package analysis implements the stock-analysis pipeline: five parallel
// fetch slots fused into sentiment, technical, fundamental, and risk
// sub-analyses plus a weighted recommendation. Every slot except the
// quote tolerates failure; absent slots are replaced by demo
// sub-analyses.
package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/finsight/finsight/internal/infra"
	"github.com/finsight/finsight/internal/mockdata"
	"github.com/finsight/finsight/internal/provider"
	"github.com/finsight/finsight/pkg/models"
)

// pipelineIndicators are the indicator slots fetched per analysis.
var pipelineIndicators = []string{"RSI", "MACD", "SMA"}

// econSeries are the macro slots fetched per analysis.
var econSeries = []string{"GDP", "CPIAUCSL", "UNRATE"}

// MarketData is the quote/fundamentals/indicator dependency.
type MarketData interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	GetCompanyOverview(ctx context.Context, symbol string) (*models.CompanyOverview, error)
	GetTechnicalIndicator(ctx context.Context, symbol, indicator, interval string, timePeriod int) (*models.TechnicalIndicator, error)
	SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error)
	GetRegionalTopSymbols(ctx context.Context, region string) ([]*models.Quote, error)
}

// NewsProvider is the article dependency.
type NewsProvider interface {
	GetArticles(ctx context.Context, ticker string, topics []string) ([]models.NewsArticle, error)
}

// EconProvider is the macro-series dependency.
type EconProvider interface {
	GetSeries(ctx context.Context, seriesID string) (*models.EconomicSeries, error)
}

// Analyzer is the stock-analysis pipeline.
type Analyzer struct {
	market MarketData
	news   NewsProvider
	econ   EconProvider
	model  SentimentModel // optional, may be nil
	mock   *mockdata.Generator
	cache  *infra.Cache
	log    zerolog.Logger
}

// New wires the analyzer. model may be nil; sentiment then uses article
// labels only.
func New(market MarketData, news NewsProvider, econ EconProvider, model SentimentModel, mock *mockdata.Generator, cache *infra.Cache, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		market: market,
		news:   news,
		econ:   econ,
		model:  model,
		mock:   mock,
		cache:  cache,
		log:    log.With().Str("service", "stock-analysis").Logger(),
	}
}

// slots carries the five parallel fetch results. Nil means the slot
// failed and its consumer substitutes demo output.
type slots struct {
	quote      *models.Quote
	articles   []models.NewsArticle
	overview   *models.CompanyOverview
	indicators map[string]*models.TechnicalIndicator
	macro      map[string]*models.EconomicSeries
}

// Analyze runs the full pipeline for one symbol.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) (*models.StockAnalysis, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	key := provider.Key(infra.NamespaceAnalysis, symbol)
	ttl := infra.NamespaceTTL(infra.NamespaceAnalysis, 0)
	return provider.ReadThrough(a.cache, key, ttl, func() (*models.StockAnalysis, error) {
		s := a.fetchSlots(ctx, symbol)
		if s.quote == nil {
			return nil, provider.Unavailable("stock data", "quote unavailable for "+symbol)
		}
		return a.fuse(ctx, symbol, s), nil
	})
}

// fetchSlots runs the five independent fetches in parallel. Failures are
// logged and leave the slot nil.
func (a *Analyzer) fetchSlots(ctx context.Context, symbol string) *slots {
	s := &slots{
		indicators: make(map[string]*models.TechnicalIndicator, len(pipelineIndicators)),
		macro:      make(map[string]*models.EconomicSeries, len(econSeries)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		quote, err := a.market.GetQuote(gctx, symbol)
		if err != nil {
			a.log.Warn().Str("symbol", symbol).Err(err).Msg("quote slot failed")
			return nil
		}
		s.quote = quote
		return nil
	})
	g.Go(func() error {
		articles, err := a.news.GetArticles(gctx, symbol, nil)
		if err != nil {
			a.log.Warn().Str("symbol", symbol).Err(err).Msg("news slot failed")
			return nil
		}
		s.articles = articles
		return nil
	})
	g.Go(func() error {
		overview, err := a.market.GetCompanyOverview(gctx, symbol)
		if err != nil {
			a.log.Warn().Str("symbol", symbol).Err(err).Msg("overview slot failed")
			return nil
		}
		s.overview = overview
		return nil
	})
	for _, name := range pipelineIndicators {
		name := name
		g.Go(func() error {
			indicator, err := a.market.GetTechnicalIndicator(gctx, symbol, name, "daily", 14)
			if err != nil {
				a.log.Warn().Str("symbol", symbol).Str("indicator", name).Err(err).Msg("indicator slot failed")
				return nil
			}
			mu.Lock()
			s.indicators[name] = indicator
			mu.Unlock()
			return nil
		})
	}
	for _, id := range econSeries {
		id := id
		g.Go(func() error {
			series, err := a.econ.GetSeries(gctx, id)
			if err != nil {
				a.log.Warn().Str("series", id).Err(err).Msg("macro slot failed")
				return nil
			}
			mu.Lock()
			s.macro[id] = series
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return s
}

// fuse combines the slot results into the analysis document.
func (a *Analyzer) fuse(ctx context.Context, symbol string, s *slots) *models.StockAnalysis {
	sentiment := a.mock.SentimentAnalysis(symbol)
	if len(s.articles) > 0 {
		sentiment = AnalyzeSentiment(ctx, a.model, s.articles)
	}

	technical := a.mock.TechnicalAnalysis(symbol)
	if len(s.indicators) > 0 {
		technical = AnalyzeTechnical(s.indicators)
	}

	fundamental := a.mock.FundamentalAnalysis(symbol)
	if s.overview != nil {
		fundamental = AnalyzeFundamental(s.overview)
	}

	inflationHigh := inflationIsHigh(s.macro["CPIAUCSL"])
	risk := AnalyzeRisk(RiskInputs{
		Sentiment:          sentiment,
		Volatility:         rangeVolatility(s.quote),
		RSI:                latestRSI(s.indicators),
		InflationHigh:      inflationHigh,
		RecentNewsNegative: recentTrend(s.articles) == "declining",
	})

	recommendation := Recommend(s.quote, sentiment, technical, fundamental, risk, econContext(s.macro, inflationHigh))

	return &models.StockAnalysis{
		Symbol:         symbol,
		Quote:          s.quote,
		Sentiment:      sentiment,
		Technical:      technical,
		Fundamental:    fundamental,
		Risk:           risk,
		Recommendation: recommendation,
		GeneratedAt:    time.Now().UTC(),
	}
}

// QuickAnalysis is the lightweight variant: quote plus a single RSI
// read, no news or fundamentals.
type QuickAnalysis struct {
	Symbol      string        `json:"symbol"`
	Quote       *models.Quote `json:"quote"`
	RSI         *float64      `json:"rsi,omitempty"`
	Signal      string        `json:"signal"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// Quick returns the lightweight analysis for one symbol.
func (a *Analyzer) Quick(ctx context.Context, symbol string) (*QuickAnalysis, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	quote, err := a.market.GetQuote(ctx, symbol)
	if err != nil {
		return nil, provider.Unavailable("stock data", "quote unavailable for "+symbol)
	}

	quick := &QuickAnalysis{
		Symbol:      symbol,
		Quote:       quote,
		Signal:      "hold",
		GeneratedAt: time.Now().UTC(),
	}
	if indicator, err := a.market.GetTechnicalIndicator(ctx, symbol, "RSI", "daily", 14); err == nil {
		if latest, ok := indicator.Latest(); ok {
			quick.RSI = &latest.Value
			switch {
			case latest.Value > rsiOverbought:
				quick.Signal = "sell"
			case latest.Value < rsiOversold:
				quick.Signal = "buy"
			}
		}
	}
	return quick, nil
}

// TrendingEntry is one row of the trending board.
type TrendingEntry struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	CurrentPrice  float64 `json:"currentPrice"`
	ChangePercent float64 `json:"changePercent"`
	Source        string  `json:"source"`
}

// Trending ranks the regional top symbols by absolute move.
func (a *Analyzer) Trending(ctx context.Context, region string) ([]TrendingEntry, error) {
	quotes, err := a.market.GetRegionalTopSymbols(ctx, region)
	if err != nil {
		return nil, err
	}

	entries := make([]TrendingEntry, 0, len(quotes))
	for _, q := range quotes {
		entries = append(entries, TrendingEntry{
			Symbol:        q.Symbol,
			Name:          q.Name,
			CurrentPrice:  q.CurrentPrice,
			ChangePercent: q.ChangePercent,
			Source:        q.Source,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return abs(entries[i].ChangePercent) > abs(entries[j].ChangePercent)
	})
	if len(entries) > 10 {
		entries = entries[:10]
	}
	return entries, nil
}

// Sentiment runs only the sentiment slot for one symbol.
func (a *Analyzer) Sentiment(ctx context.Context, symbol string) (*models.SentimentAnalysis, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	articles, err := a.news.GetArticles(ctx, symbol, nil)
	if err != nil || len(articles) == 0 {
		demo := a.mock.SentimentAnalysis(symbol)
		return &demo, nil
	}
	result := AnalyzeSentiment(ctx, a.model, articles)
	return &result, nil
}

// Search resolves symbols for analysis via the market-data provider.
func (a *Analyzer) Search(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	return a.market.SearchSymbols(ctx, query)
}

// latestRSI pulls the newest RSI reading out of the indicator slots.
func latestRSI(indicators map[string]*models.TechnicalIndicator) *float64 {
	rsi, ok := indicators["RSI"]
	if !ok || rsi == nil {
		return nil
	}
	latest, ok := rsi.Latest()
	if !ok {
		return nil
	}
	return &latest.Value
}

// inflationIsHigh compares the latest CPI level to twelve observations
// back; above 4% year over year counts as high.
func inflationIsHigh(cpi *models.EconomicSeries) bool {
	if cpi == nil || len(cpi.Observations) < 13 {
		return false
	}
	latest := cpi.Observations[0].Value
	yearAgo := cpi.Observations[12].Value
	if yearAgo <= 0 {
		return false
	}
	return latest/yearAgo-1 > inflationHighYoY
}

// econContext classifies the macro backdrop: growing GDP without high
// inflation is supportive; high inflation is adverse.
func econContext(macro map[string]*models.EconomicSeries, inflationHigh bool) EconContext {
	if inflationHigh {
		return EconAdverse
	}
	gdp := macro["GDP"]
	if gdp == nil || len(gdp.Observations) < 2 {
		return EconMixed
	}
	if gdp.Observations[0].Value > gdp.Observations[1].Value {
		return EconSupportive
	}
	return EconMixed
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
