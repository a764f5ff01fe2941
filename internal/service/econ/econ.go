// Package econ implements the economic-indicators provider service:
// single series, regional summaries, a global parallel merge, and forex
// rates, composed from the FRED client through the cache+fallback
// envelope.
package econ

import (
	"context"
	"fmt"
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

// summaryBudget bounds a composite summary call; slots still outstanding
// at expiry are filled with demo data.
const summaryBudget = 10 * time.Second

// regionIndicators maps region → indicator name → series ID.
var regionIndicators = map[string]map[string]string{
	"us": {
		"gdp":          "GDP",
		"inflation":    "CPIAUCSL",
		"unemployment": "UNRATE",
		"fedFunds":     "FEDFUNDS",
		"treasury10y":  "DGS10",
		"mortgage30y":  "MORTGAGE30US",
	},
	"india": {
		"usdInr":       "DEXINUS",
		"gdp":          "NGDPRSAXDCINQ",
		"unemployment": "LRHUTTTTINQ156S",
	},
}

// forexSeries maps currency pairs to their FRED spot-rate series.
var forexSeries = map[string]string{
	"EUR/USD": "DEXUSEU",
	"USD/JPY": "DEXJPUS",
	"GBP/USD": "DEXUSUK",
	"USD/INR": "DEXINUS",
}

// SeriesAPI is the economic-series upstream.
type SeriesAPI interface {
	Series(ctx context.Context, seriesID string, limit int) (*models.EconomicSeries, error)
	Enabled() bool
}

// Service is the economic-indicators provider service.
type Service struct {
	fred      SeriesAPI
	mock      *mockdata.Generator
	cache     *infra.Cache
	log       zerolog.Logger
	forceMock bool
}

// New wires the economic-indicators service.
func New(fred SeriesAPI, mock *mockdata.Generator, cache *infra.Cache, log zerolog.Logger, forceMock bool) *Service {
	return &Service{
		fred:      fred,
		mock:      mock,
		cache:     cache,
		log:       log.With().Str("service", "economic-indicators").Logger(),
		forceMock: forceMock,
	}
}

// GetSeries returns one economic series through [fred, mock].
func (s *Service) GetSeries(ctx context.Context, seriesID string) (*models.EconomicSeries, error) {
	seriesID = strings.TrimSpace(seriesID)
	if seriesID == "" {
		return nil, fmt.Errorf("series id is required")
	}

	key := provider.Key(infra.NamespaceSeries, seriesID)
	ttl := infra.NamespaceTTL(infra.NamespaceSeries, 0)
	return provider.ReadThrough(s.cache, key, ttl, func() (*models.EconomicSeries, error) {
		if s.forceMock {
			return s.mock.Series(seriesID, 24), nil
		}
		series, _ := provider.First(ctx, s.log, "series "+seriesID,
			provider.Source[models.EconomicSeries]{Name: "FRED", Load: func(ctx context.Context) (*models.EconomicSeries, error) {
				return s.fred.Series(ctx, seriesID, 24)
			}},
			provider.Source[models.EconomicSeries]{Name: "Demo", Load: func(ctx context.Context) (*models.EconomicSeries, error) {
				return s.mock.Series(seriesID, 24), nil
			}},
		)
		if series == nil {
			return nil, provider.Unavailable("economic data", "all sources exhausted for "+seriesID)
		}
		return series, nil
	})
}

// GetRegionalSummary fans out over a region's indicator set in parallel.
// A failing slot is filled with demo data, never fatal.
func (s *Service) GetRegionalSummary(ctx context.Context, region string) (*models.EconomicSummary, error) {
	region = strings.ToLower(strings.TrimSpace(region))
	indicators, ok := regionIndicators[region]
	if !ok {
		return nil, fmt.Errorf("unknown region %q", region)
	}

	ctx, cancel := context.WithTimeout(ctx, summaryBudget)
	defer cancel()

	summary := &models.EconomicSummary{
		Region:      region,
		Indicators:  make(map[string]*models.EconomicSeries, len(indicators)),
		GeneratedAt: time.Now().UTC(),
		Source:      "FRED",
	}

	type slot struct {
		name   string
		series *models.EconomicSeries
	}
	results := make(chan slot, len(indicators))

	g, gctx := errgroup.WithContext(ctx)
	for name, seriesID := range indicators {
		name, seriesID := name, seriesID
		g.Go(func() error {
			series, err := s.GetSeries(gctx, seriesID)
			if err != nil || series == nil {
				// Budget expired or chain exhausted: fill with demo data.
				series = s.mock.Series(seriesID, 24)
			}
			results <- slot{name: name, series: series}
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	demoSlots := 0
	for r := range results {
		summary.Indicators[r.name] = r.series
		if r.series.Source == mockdata.Source {
			demoSlots++
		}
	}
	if demoSlots == len(indicators) {
		summary.Source = mockdata.Source
	}
	return summary, nil
}

// GetUSSummary returns the US indicator summary.
func (s *Service) GetUSSummary(ctx context.Context) (*models.EconomicSummary, error) {
	return s.GetRegionalSummary(ctx, "us")
}

// GlobalSummary merges every regional summary plus forex.
type GlobalSummary struct {
	Regions     map[string]*models.EconomicSummary `json:"regions"`
	Forex       []models.ForexRate                 `json:"forex"`
	GeneratedAt time.Time                          `json:"generatedAt"`
}

// GetGlobalSummary fans out over all regions and forex in parallel.
func (s *Service) GetGlobalSummary(ctx context.Context) (*GlobalSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, summaryBudget)
	defer cancel()

	global := &GlobalSummary{
		Regions:     make(map[string]*models.EconomicSummary, len(regionIndicators)),
		GeneratedAt: time.Now().UTC(),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for region := range regionIndicators {
		region := region
		g.Go(func() error {
			summary, err := s.GetRegionalSummary(gctx, region)
			if err != nil {
				s.log.Warn().Str("region", region).Err(err).Msg("regional summary slot failed")
				return nil
			}
			mu.Lock()
			global.Regions[region] = summary
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		rates, err := s.GetForex(gctx)
		if err != nil {
			rates = s.mock.Forex()
		}
		global.Forex = rates
		return nil
	})
	_ = g.Wait()

	return global, nil
}

// GetForex returns spot rates for the major pairs through [fred, mock].
func (s *Service) GetForex(ctx context.Context) ([]models.ForexRate, error) {
	key := provider.Key(infra.NamespaceSeries, "forex")
	ttl := infra.NamespaceTTL(infra.NamespaceSeries, 0)

	type rateList struct{ Rates []models.ForexRate }
	cached, err := provider.ReadThrough(s.cache, key, ttl, func() (*rateList, error) {
		if s.forceMock || !s.fred.Enabled() {
			return &rateList{Rates: s.mock.Forex()}, nil
		}

		rates := make([]models.ForexRate, 0, len(forexSeries))
		for pair, seriesID := range forexSeries {
			series, err := s.fred.Series(ctx, seriesID, 2)
			if err != nil {
				s.log.Warn().Str("pair", pair).Err(err).Msg("forex series failed")
				continue
			}
			latest, ok := series.Latest()
			if !ok {
				continue
			}
			rate := models.ForexRate{
				Pair:      pair,
				Rate:      latest.Value,
				Timestamp: time.Now().UTC(),
				Source:    "FRED",
			}
			if len(series.Observations) > 1 {
				rate.Change = latest.Value - series.Observations[1].Value
			}
			rates = append(rates, rate)
		}
		if len(rates) == 0 {
			return &rateList{Rates: s.mock.Forex()}, nil
		}
		return &rateList{Rates: rates}, nil
	})
	if err != nil {
		return nil, err
	}
	return cached.Rates, nil
}

// HealthStatus is the health probe result.
type HealthStatus struct {
	Service   string    `json:"service"`
	Healthy   bool      `json:"healthy"`
	Detail    string    `json:"detail,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Health probes the series chain with a representative series.
func (s *Service) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{Service: "economic-indicators", CheckedAt: time.Now().UTC()}
	series, err := s.GetSeries(ctx, "GDP")
	switch {
	case err != nil:
		status.Detail = err.Error()
	case series.Source == mockdata.Source:
		status.Healthy = true
		status.Detail = "serving demo data; live providers unavailable"
	default:
		status.Healthy = true
		status.Detail = "serving " + series.Source
	}
	return status
}
