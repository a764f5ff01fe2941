package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/pkg/logger"
	"github.com/finsight/finsight/pkg/models"
)

type fakeQuotes struct {
	mu      sync.Mutex
	symbols []string
	fail    map[string]bool
}

func (f *fakeQuotes) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[symbol] {
		return nil, errors.New("upstream down")
	}
	f.symbols = append(f.symbols, symbol)
	return &models.Quote{Symbol: symbol}, nil
}

type fakeNews struct {
	mu      sync.Mutex
	regions []string
}

func (f *fakeNews) GetRegionalArticles(ctx context.Context, region string) ([]models.NewsArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regions = append(f.regions, region)
	return []models.NewsArticle{{Title: "headline"}}, nil
}

type fakeEcon struct {
	mu        sync.Mutex
	regions   []string
	forexHits int
}

func (f *fakeEcon) GetRegionalSummary(ctx context.Context, region string) (*models.EconomicSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regions = append(f.regions, region)
	return &models.EconomicSummary{Region: region}, nil
}

func (f *fakeEcon) GetForex(ctx context.Context) ([]models.ForexRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forexHits++
	return []models.ForexRate{{Pair: "EUR/USD"}}, nil
}

func newTestScheduler(quotes *fakeQuotes, news *fakeNews, econ *fakeEcon, probes []HealthProbe) *Scheduler {
	return New(quotes, news, econ, probes, logger.Nop())
}

func TestStartRegistersAllJobs(t *testing.T) {
	s := newTestScheduler(&fakeQuotes{}, &fakeNews{}, &fakeEcon{}, nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 5)
}

func TestWarmQuotesCoversRegionsAndWatchlist(t *testing.T) {
	quotes := &fakeQuotes{}
	s := newTestScheduler(quotes, &fakeNews{}, &fakeEcon{}, nil)

	s.warmQuotes(context.Background())

	seen := map[string]bool{}
	for _, sym := range quotes.symbols {
		assert.False(t, seen[sym], "symbol %s requested twice", sym)
		seen[sym] = true
	}
	assert.True(t, seen["AAPL"], "us top list warmed")
	assert.True(t, seen["SPY"], "watchlist warmed")
}

func TestWarmQuotesToleratesFailures(t *testing.T) {
	quotes := &fakeQuotes{fail: map[string]bool{"AAPL": true}}
	s := newTestScheduler(quotes, &fakeNews{}, &fakeEcon{}, nil)

	s.warmQuotes(context.Background())

	assert.NotEmpty(t, quotes.symbols, "other symbols still warmed")
	assert.NotContains(t, quotes.symbols, "AAPL")
}

func TestRefreshNewsHitsBothRegions(t *testing.T) {
	news := &fakeNews{}
	s := newTestScheduler(&fakeQuotes{}, news, &fakeEcon{}, nil)

	s.refreshNews(context.Background())

	assert.ElementsMatch(t, []string{"global", "india"}, news.regions)
}

func TestRefreshEconomics(t *testing.T) {
	econ := &fakeEcon{}
	s := newTestScheduler(&fakeQuotes{}, &fakeNews{}, econ, nil)

	s.refreshEconomics(context.Background())

	assert.ElementsMatch(t, []string{"us", "india"}, econ.regions)
	assert.Equal(t, 1, econ.forexHits)
}

func TestProbeHealthRunsEveryCheck(t *testing.T) {
	var mu sync.Mutex
	var probed []string
	probes := []HealthProbe{
		{Name: "market-data", Check: func(ctx context.Context) (bool, string) {
			mu.Lock()
			defer mu.Unlock()
			probed = append(probed, "market-data")
			return true, "ok"
		}},
		{Name: "news", Check: func(ctx context.Context) (bool, string) {
			mu.Lock()
			defer mu.Unlock()
			probed = append(probed, "news")
			return false, "upstream down"
		}},
	}
	s := newTestScheduler(&fakeQuotes{}, &fakeNews{}, &fakeEcon{}, probes)

	s.probeHealth(context.Background())

	assert.Equal(t, []string{"market-data", "news"}, probed)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, dedupe([]string{"A", "B", "A", "C", "B"}))
	assert.Empty(t, dedupe(nil))
}
