// Package marketdata implements the market-quote provider service:
// quotes, price series, fundamentals, technical indicators, and symbol
// search, composed from the upstream clients through the cache+fallback
// envelope.
package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/finsight/finsight/internal/infra"
	"github.com/finsight/finsight/internal/mockdata"
	"github.com/finsight/finsight/internal/provider"
	"github.com/finsight/finsight/pkg/models"
)

// bulkConcurrency bounds parallel upstream fan-out for bulk quotes.
const bulkConcurrency = 4

// ChartAPI is the primary quote upstream (chart endpoint).
type ChartAPI interface {
	Quote(ctx context.Context, symbol string) (*models.Quote, error)
	History(ctx context.Context, symbol, rng, interval string) (*models.PriceSeries, error)
	IndexQuote(ctx context.Context, index string) (*models.Quote, error)
}

// AlphaAPI is the secondary quote upstream and the only source for
// fundamentals, indicators, intraday/daily series, and symbol search.
type AlphaAPI interface {
	GlobalQuote(ctx context.Context, symbol string) (*models.Quote, error)
	Intraday(ctx context.Context, symbol, interval string) (*models.PriceSeries, error)
	Daily(ctx context.Context, symbol, outputSize string) (*models.PriceSeries, error)
	Overview(ctx context.Context, symbol string) (*models.CompanyOverview, error)
	Technical(ctx context.Context, symbol, indicator, interval string, timePeriod int) (*models.TechnicalIndicator, error)
	Search(ctx context.Context, query string) ([]models.SymbolMatch, error)
	Enabled() bool
}

// Service is the market-data provider service.
type Service struct {
	chart     ChartAPI
	alpha     AlphaAPI
	mock      *mockdata.Generator
	cache     *infra.Cache
	log       zerolog.Logger
	forceMock bool
}

// New wires the market-data service. forceMock short-circuits every chain
// straight to the mock generator (USE_MOCK_DATA).
func New(chart ChartAPI, alpha AlphaAPI, mock *mockdata.Generator, cache *infra.Cache, log zerolog.Logger, forceMock bool) *Service {
	return &Service{
		chart:     chart,
		alpha:     alpha,
		mock:      mock,
		cache:     cache,
		log:       log.With().Str("service", "market-data").Logger(),
		forceMock: forceMock,
	}
}

// GetQuote returns a quote through the chain [chart, alpha, mock].
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	key := provider.Key(infra.NamespaceQuote, symbol)
	ttl := infra.NamespaceTTL(infra.NamespaceQuote, 0)
	return provider.ReadThrough(s.cache, key, ttl, func() (*models.Quote, error) {
		if s.forceMock {
			return s.mock.Quote(symbol), nil
		}
		quote, source := provider.First(ctx, s.log, "quote "+symbol,
			provider.Source[models.Quote]{Name: "Yahoo Finance", Load: func(ctx context.Context) (*models.Quote, error) {
				return s.chart.Quote(ctx, symbol)
			}},
			provider.Source[models.Quote]{Name: "Alpha Vantage", Load: func(ctx context.Context) (*models.Quote, error) {
				return s.alpha.GlobalQuote(ctx, symbol)
			}},
			provider.Source[models.Quote]{Name: "Demo", Load: func(ctx context.Context) (*models.Quote, error) {
				return s.mock.Quote(symbol), nil
			}},
		)
		if quote == nil {
			return nil, provider.Unavailable("quote data", "all sources exhausted for "+symbol)
		}
		s.log.Debug().Str("symbol", symbol).Str("source", source).Msg("quote resolved")
		return quote, nil
	})
}

// GetIndexQuote returns a market-index quote (caret-prefixed symbols use
// the same chart endpoint).
func (s *Service) GetIndexQuote(ctx context.Context, index string) (*models.Quote, error) {
	return s.GetQuote(ctx, index)
}

// GetBulkQuotes resolves quotes for several symbols in parallel. A failed
// symbol is skipped, never fatal; order follows the input list.
func (s *Service) GetBulkQuotes(ctx context.Context, symbols []string) ([]*models.Quote, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("symbols list is required")
	}

	results := make([]*models.Quote, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			quote, err := s.GetQuote(gctx, symbol)
			if err != nil {
				s.log.Warn().Str("symbol", symbol).Err(err).Msg("bulk quote slot failed")
				return nil
			}
			results[i] = quote
			return nil
		})
	}
	_ = g.Wait()

	quotes := make([]*models.Quote, 0, len(results))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, q)
		}
	}
	return quotes, nil
}

// GetRegionalTopSymbols returns quotes for the region's symbol whitelist.
func (s *Service) GetRegionalTopSymbols(ctx context.Context, region string) ([]*models.Quote, error) {
	return s.GetBulkQuotes(ctx, TopSymbols(region))
}

// GetRegionalIndices returns quotes for the region's index list.
func (s *Service) GetRegionalIndices(ctx context.Context, region string) ([]*models.Quote, error) {
	return s.GetBulkQuotes(ctx, IndexSymbols(region))
}

// GetIntradaySeries returns an intraday candle series through the chain
// [alpha intraday, chart 1d history, mock].
func (s *Service) GetIntradaySeries(ctx context.Context, symbol, interval string) (*models.PriceSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if interval == "" {
		interval = "5min"
	}

	key := provider.Key(infra.NamespaceQuote, "intraday", symbol, interval)
	ttl := infra.NamespaceTTL(infra.NamespaceQuote, 0)
	return provider.ReadThrough(s.cache, key, ttl, func() (*models.PriceSeries, error) {
		if s.forceMock {
			return s.mock.History(symbol, interval, 78), nil
		}
		series, _ := provider.First(ctx, s.log, "intraday "+symbol,
			provider.Source[models.PriceSeries]{Name: "Alpha Vantage", Load: func(ctx context.Context) (*models.PriceSeries, error) {
				return s.alpha.Intraday(ctx, symbol, interval)
			}},
			provider.Source[models.PriceSeries]{Name: "Yahoo Finance", Load: func(ctx context.Context) (*models.PriceSeries, error) {
				return s.chart.History(ctx, symbol, "1d", "5m")
			}},
			provider.Source[models.PriceSeries]{Name: "Demo", Load: func(ctx context.Context) (*models.PriceSeries, error) {
				return s.mock.History(symbol, interval, 78), nil
			}},
		)
		if series == nil {
			return nil, provider.Unavailable("intraday data", "all sources exhausted for "+symbol)
		}
		return series, nil
	})
}

// GetDailySeries returns a daily candle series through the chain
// [alpha daily, chart 1y history, mock].
func (s *Service) GetDailySeries(ctx context.Context, symbol, outputSize string) (*models.PriceSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	key := provider.Key(infra.NamespaceQuote, "daily", symbol, outputSize)
	ttl := infra.NamespaceTTL(infra.NamespaceSeries, 0)
	return provider.ReadThrough(s.cache, key, ttl, func() (*models.PriceSeries, error) {
		if s.forceMock {
			return s.mock.History(symbol, "daily", 100), nil
		}
		series, _ := provider.First(ctx, s.log, "daily "+symbol,
			provider.Source[models.PriceSeries]{Name: "Alpha Vantage", Load: func(ctx context.Context) (*models.PriceSeries, error) {
				return s.alpha.Daily(ctx, symbol, outputSize)
			}},
			provider.Source[models.PriceSeries]{Name: "Yahoo Finance", Load: func(ctx context.Context) (*models.PriceSeries, error) {
				return s.chart.History(ctx, symbol, "1y", "1d")
			}},
			provider.Source[models.PriceSeries]{Name: "Demo", Load: func(ctx context.Context) (*models.PriceSeries, error) {
				return s.mock.History(symbol, "daily", 100), nil
			}},
		)
		if series == nil {
			return nil, provider.Unavailable("daily series", "all sources exhausted for "+symbol)
		}
		return series, nil
	})
}

// GetCompanyOverview returns fundamentals through [alpha, mock].
func (s *Service) GetCompanyOverview(ctx context.Context, symbol string) (*models.CompanyOverview, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	key := provider.Key(infra.NamespaceOverview, symbol)
	ttl := infra.NamespaceTTL(infra.NamespaceOverview, 0)
	return provider.ReadThrough(s.cache, key, ttl, func() (*models.CompanyOverview, error) {
		if s.forceMock {
			return s.mock.Overview(symbol), nil
		}
		overview, _ := provider.First(ctx, s.log, "overview "+symbol,
			provider.Source[models.CompanyOverview]{Name: "Alpha Vantage", Load: func(ctx context.Context) (*models.CompanyOverview, error) {
				return s.alpha.Overview(ctx, symbol)
			}},
			provider.Source[models.CompanyOverview]{Name: "Demo", Load: func(ctx context.Context) (*models.CompanyOverview, error) {
				return s.mock.Overview(symbol), nil
			}},
		)
		if overview == nil {
			return nil, provider.Unavailable("company overview", "all sources exhausted for "+symbol)
		}
		return overview, nil
	})
}

// GetTechnicalIndicator returns an indicator series through [alpha, mock].
func (s *Service) GetTechnicalIndicator(ctx context.Context, symbol, indicator, interval string, timePeriod int) (*models.TechnicalIndicator, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	indicator = strings.ToUpper(strings.TrimSpace(indicator))
	if symbol == "" || indicator == "" {
		return nil, fmt.Errorf("symbol and indicator are required")
	}
	if interval == "" {
		interval = "daily"
	}
	if timePeriod <= 0 {
		timePeriod = 14
	}

	key := provider.Key(infra.NamespaceTechnical, symbol, indicator, interval, fmt.Sprint(timePeriod))
	ttl := infra.NamespaceTTL(infra.NamespaceTechnical, 0)
	return provider.ReadThrough(s.cache, key, ttl, func() (*models.TechnicalIndicator, error) {
		if s.forceMock {
			return s.mock.Technical(symbol, indicator, interval, timePeriod), nil
		}
		result, _ := provider.First(ctx, s.log, "technical "+symbol+" "+indicator,
			provider.Source[models.TechnicalIndicator]{Name: "Alpha Vantage", Load: func(ctx context.Context) (*models.TechnicalIndicator, error) {
				return s.alpha.Technical(ctx, symbol, indicator, interval, timePeriod)
			}},
			provider.Source[models.TechnicalIndicator]{Name: "Demo", Load: func(ctx context.Context) (*models.TechnicalIndicator, error) {
				return s.mock.Technical(symbol, indicator, interval, timePeriod), nil
			}},
		)
		if result == nil {
			return nil, provider.Unavailable("technical data", "all sources exhausted for "+symbol)
		}
		return result, nil
	})
}

// SearchSymbols queries the provider and falls back to the static catalog
// when the provider fails or returns nothing.
func (s *Service) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	if !s.forceMock && s.alpha.Enabled() {
		matches, err := s.alpha.Search(ctx, query)
		if err == nil && len(matches) > 0 {
			return matches, nil
		}
		if err != nil {
			s.log.Warn().Str("query", query).Err(err).Msg("symbol search provider failed, using static catalog")
		}
	}
	return staticMatches(query), nil
}

// HealthStatus is one provider-service health probe result.
type HealthStatus struct {
	Service   string    `json:"service"`
	Healthy   bool      `json:"healthy"`
	Detail    string    `json:"detail,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Health probes the quote chain with a representative symbol.
func (s *Service) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{Service: "market-data", CheckedAt: time.Now().UTC()}
	quote, err := s.GetQuote(ctx, "AAPL")
	switch {
	case err != nil:
		status.Detail = err.Error()
	case quote.Source == mockdata.Source:
		status.Healthy = true
		status.Detail = "serving demo data; live providers unavailable"
	default:
		status.Healthy = true
		status.Detail = "serving " + quote.Source
	}
	return status
}
