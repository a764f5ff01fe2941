// Package scheduler keeps the caches warm and the logs honest: periodic
// quote, news, and economics refreshes, a daily health probe, and an
// hourly process-stats line. Jobs are independent; a panic in one never
// takes down another.
package scheduler

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/finsight/finsight/internal/service/marketdata"
	"github.com/finsight/finsight/pkg/models"
)

// Job cadences.
const (
	quoteSpec  = "@every 5m"
	newsSpec   = "@every 15m"
	econSpec   = "@every 30m"
	healthSpec = "0 9 * * *"
	statsSpec  = "@hourly"

	jobTimeout       = 2 * time.Minute
	quoteConcurrency = 4
)

// popularSymbols are warmed on top of the regional lists.
var popularSymbols = []string{"SPY", "QQQ", "VTI", "BRK-B", "COST"}

// newsRegions re-primed by the news job.
var newsRegions = []string{"global", "india"}

// econRegions re-primed by the economics job.
var econRegions = []string{"us", "india"}

// QuoteSource is what the warm-up job needs from market data.
type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// NewsSource is what the news job needs.
type NewsSource interface {
	GetRegionalArticles(ctx context.Context, region string) ([]models.NewsArticle, error)
}

// EconSource is what the economics job needs.
type EconSource interface {
	GetRegionalSummary(ctx context.Context, region string) (*models.EconomicSummary, error)
	GetForex(ctx context.Context) ([]models.ForexRate, error)
}

// HealthProbe is one named service check run by the daily job.
type HealthProbe struct {
	Name  string
	Check func(ctx context.Context) (healthy bool, detail string)
}

// Scheduler owns the cron instance and the job dependencies.
type Scheduler struct {
	cron    *cron.Cron
	market  QuoteSource
	news    NewsSource
	econ    EconSource
	probes  []HealthProbe
	log     zerolog.Logger
	started time.Time
}

// New builds the scheduler. Start registers and launches the jobs.
func New(market QuoteSource, news NewsSource, econ EconSource, probes []HealthProbe, log zerolog.Logger) *Scheduler {
	log = log.With().Str("service", "scheduler").Logger()
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.PrintfLogger(printfAdapter{log})),
		)),
		market: market,
		news:   news,
		econ:   econ,
		probes: probes,
		log:    log,
	}
}

// Start registers every job and launches the cron loop.
func (s *Scheduler) Start() error {
	s.started = time.Now().UTC()

	jobs := []struct {
		spec string
		name string
		run  func(context.Context)
	}{
		{quoteSpec, "quote-warmup", s.warmQuotes},
		{newsSpec, "news-refresh", s.refreshNews},
		{econSpec, "econ-refresh", s.refreshEconomics},
		{healthSpec, "health-probe", s.probeHealth},
		{statsSpec, "process-stats", s.logProcessStats},
	}
	for _, job := range jobs {
		run := job.run
		name := job.name
		if _, err := s.cron.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			s.log.Debug().Str("job", name).Msg("job starting")
			run(ctx)
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.log.Info().Int("jobs", len(jobs)).Msg("scheduler started")
	return nil
}

// Stop halts scheduling and returns when running jobs have drained.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// warmQuotes primes the quote cache for the regional top lists plus the
// popular watchlist.
func (s *Scheduler) warmQuotes(ctx context.Context) {
	var symbols []string
	symbols = append(symbols, marketdata.TopSymbols("us")...)
	symbols = append(symbols, marketdata.TopSymbols("india")...)
	symbols = append(symbols, popularSymbols...)
	symbols = dedupe(symbols)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(quoteConcurrency)
	var warmed atomic.Int64
	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			if _, err := s.market.GetQuote(gctx, symbol); err != nil {
				s.log.Debug().Str("symbol", symbol).Err(err).Msg("quote warm-up miss")
				return nil
			}
			warmed.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	s.log.Info().Int("requested", len(symbols)).Int64("warmed", warmed.Load()).Msg("quote warm-up complete")
}

// refreshNews re-primes both regional article caches in parallel.
func (s *Scheduler) refreshNews(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	for _, region := range newsRegions {
		region := region
		g.Go(func() error {
			articles, err := s.news.GetRegionalArticles(gctx, region)
			if err != nil {
				s.log.Warn().Str("region", region).Err(err).Msg("news refresh failed")
				return nil
			}
			s.log.Info().Str("region", region).Int("articles", len(articles)).Msg("news refreshed")
			return nil
		})
	}
	_ = g.Wait()
}

// refreshEconomics re-primes the regional summaries and forex rates in
// parallel.
func (s *Scheduler) refreshEconomics(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	for _, region := range econRegions {
		region := region
		g.Go(func() error {
			if _, err := s.econ.GetRegionalSummary(gctx, region); err != nil {
				s.log.Warn().Str("region", region).Err(err).Msg("economics refresh failed")
			}
			return nil
		})
	}
	g.Go(func() error {
		rates, err := s.econ.GetForex(gctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("forex refresh failed")
			return nil
		}
		s.log.Info().Int("pairs", len(rates)).Msg("forex refreshed")
		return nil
	})
	_ = g.Wait()
	s.log.Info().Msg("economics refresh complete")
}

// probeHealth runs every registered service check and logs the outcome.
func (s *Scheduler) probeHealth(ctx context.Context) {
	for _, probe := range s.probes {
		healthy, detail := probe.Check(ctx)
		event := s.log.Info()
		if !healthy {
			event = s.log.Error()
		}
		event.Str("probe", probe.Name).Bool("healthy", healthy).Str("detail", detail).Msg("health probe")
	}
}

// logProcessStats records uptime and heap numbers once an hour.
func (s *Scheduler) logProcessStats(ctx context.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.log.Info().
		Dur("uptime", time.Since(s.started)).
		Uint64("heapAllocMB", m.HeapAlloc/1024/1024).
		Uint64("heapSysMB", m.HeapSys/1024/1024).
		Uint32("numGC", m.NumGC).
		Int("goroutines", runtime.NumGoroutine()).
		Msg("process stats")
}

func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// printfAdapter lets cron's recovery wrapper log through zerolog.
type printfAdapter struct{ log zerolog.Logger }

func (p printfAdapter) Printf(format string, args ...any) {
	p.log.Error().Msgf(format, args...)
}
