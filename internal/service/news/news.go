// Package news implements the news provider service: ticker and general
// articles through the provider chain, RSS feed aggregation, and the
// sentiment summary over the most recent article window.
package news

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/finsight/finsight/internal/infra"
	"github.com/finsight/finsight/internal/mockdata"
	"github.com/finsight/finsight/internal/provider"
	"github.com/finsight/finsight/internal/service/marketdata"
	"github.com/finsight/finsight/pkg/models"
)

// sentimentWindow is how many recent articles feed the sentiment summary.
const sentimentWindow = 50

// AlphaNewsAPI is the primary article source (ticker-aware sentiment feed).
type AlphaNewsAPI interface {
	News(ctx context.Context, ticker string, topics []string) ([]models.NewsArticle, error)
	Enabled() bool
}

// HeadlinesAPI is the secondary article source (keyword search and
// category headlines).
type HeadlinesAPI interface {
	Everything(ctx context.Context, query string) ([]models.NewsArticle, error)
	TopHeadlines(ctx context.Context, category, country string) ([]models.NewsArticle, error)
	Enabled() bool
}

// Service is the news provider service.
type Service struct {
	alpha      AlphaNewsAPI
	headlines  HeadlinesAPI
	parser     *gofeed.Parser
	rssLimiter *infra.RateLimiter
	mock       *mockdata.Generator
	cache      *infra.Cache
	log        zerolog.Logger
	forceMock  bool
}

// New wires the news service.
func New(alpha AlphaNewsAPI, headlines HeadlinesAPI, mock *mockdata.Generator, cache *infra.Cache, log zerolog.Logger, forceMock bool) *Service {
	return &Service{
		alpha:      alpha,
		headlines:  headlines,
		parser:     gofeed.NewParser(),
		rssLimiter: infra.NewRateLimiter(2, time.Second),
		mock:       mock,
		cache:      cache,
		log:        log.With().Str("service", "news").Logger(),
		forceMock:  forceMock,
	}
}

// articleList wraps a slice for the read-through cache.
type articleList struct {
	Articles []models.NewsArticle
}

// GetArticles returns ticker news through [alpha news, headline search,
// mock]. Articles come back newest first and fully labeled.
func (s *Service) GetArticles(ctx context.Context, ticker string, topics []string) ([]models.NewsArticle, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return s.GetGeneralArticles(ctx)
	}

	key := provider.Key(infra.NamespaceNews, "stock", ticker, strings.Join(topics, ","))
	return s.cachedChain(ctx, key, "news "+ticker,
		provider.Source[articleList]{Name: "Alpha Vantage", Load: func(ctx context.Context) (*articleList, error) {
			articles, err := s.alpha.News(ctx, ticker, topics)
			if err != nil {
				return nil, err
			}
			return &articleList{Articles: articles}, nil
		}},
		provider.Source[articleList]{Name: "NewsAPI", Load: func(ctx context.Context) (*articleList, error) {
			articles, err := s.headlines.Everything(ctx, marketdata.CompanyName(ticker))
			if err != nil {
				return nil, err
			}
			return &articleList{Articles: articles}, nil
		}},
		provider.Source[articleList]{Name: "Demo", Load: func(ctx context.Context) (*articleList, error) {
			return &articleList{Articles: s.mock.News(ticker, 0)}, nil
		}},
	)
}

// GetGeneralArticles returns market-wide news through [alpha topics feed,
// business headlines, mock].
func (s *Service) GetGeneralArticles(ctx context.Context) ([]models.NewsArticle, error) {
	key := provider.Key(infra.NamespaceNews, "general")
	return s.cachedChain(ctx, key, "general news",
		provider.Source[articleList]{Name: "Alpha Vantage", Load: func(ctx context.Context) (*articleList, error) {
			articles, err := s.alpha.News(ctx, "", []string{"financial_markets"})
			if err != nil {
				return nil, err
			}
			return &articleList{Articles: articles}, nil
		}},
		provider.Source[articleList]{Name: "NewsAPI", Load: func(ctx context.Context) (*articleList, error) {
			articles, err := s.headlines.TopHeadlines(ctx, "business", "us")
			if err != nil {
				return nil, err
			}
			return &articleList{Articles: articles}, nil
		}},
		provider.Source[articleList]{Name: "Demo", Load: func(ctx context.Context) (*articleList, error) {
			return &articleList{Articles: s.mock.News("", 0)}, nil
		}},
	)
}

// GetCategoryArticles returns headlines for a category through
// [headlines, mock].
func (s *Service) GetCategoryArticles(ctx context.Context, category string) ([]models.NewsArticle, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return nil, fmt.Errorf("category is required")
	}

	key := provider.Key(infra.NamespaceNews, "category", category)
	return s.cachedChain(ctx, key, "category news "+category,
		provider.Source[articleList]{Name: "NewsAPI", Load: func(ctx context.Context) (*articleList, error) {
			articles, err := s.headlines.TopHeadlines(ctx, category, "us")
			if err != nil {
				return nil, err
			}
			return &articleList{Articles: articles}, nil
		}},
		provider.Source[articleList]{Name: "Demo", Load: func(ctx context.Context) (*articleList, error) {
			return &articleList{Articles: s.mock.News(category, 0)}, nil
		}},
	)
}

// GetRegionalArticles returns region-scoped market news: RSS feeds first,
// demo fill when every feed fails.
func (s *Service) GetRegionalArticles(ctx context.Context, region string) ([]models.NewsArticle, error) {
	region = strings.ToLower(strings.TrimSpace(region))

	key := provider.Key(infra.NamespaceNews, "region", region)
	return s.cachedChain(ctx, key, "regional news "+region,
		provider.Source[articleList]{Name: "RSS", Load: func(ctx context.Context) (*articleList, error) {
			articles, err := s.collectRSS(ctx, regionSources(region))
			if err != nil {
				return nil, err
			}
			return &articleList{Articles: articles}, nil
		}},
		provider.Source[articleList]{Name: "Demo", Load: func(ctx context.Context) (*articleList, error) {
			return &articleList{Articles: s.mock.News(region, 0)}, nil
		}},
	)
}

// GetRSSArticles aggregates all configured feeds.
func (s *Service) GetRSSArticles(ctx context.Context) ([]models.NewsArticle, error) {
	return s.GetRegionalArticles(ctx, "")
}

// SearchArticles searches indexed news through [headline search, mock].
func (s *Service) SearchArticles(ctx context.Context, query string) ([]models.NewsArticle, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	key := provider.Key(infra.NamespaceNews, "search", strings.ToLower(query))
	return s.cachedChain(ctx, key, "news search "+query,
		provider.Source[articleList]{Name: "NewsAPI", Load: func(ctx context.Context) (*articleList, error) {
			articles, err := s.headlines.Everything(ctx, query)
			if err != nil {
				return nil, err
			}
			return &articleList{Articles: articles}, nil
		}},
		provider.Source[articleList]{Name: "Demo", Load: func(ctx context.Context) (*articleList, error) {
			return &articleList{Articles: s.mock.News(query, 0)}, nil
		}},
	)
}

// GetSentimentSummary aggregates sentiment over the newest articles.
func (s *Service) GetSentimentSummary(ctx context.Context) (*models.NewsSentimentSummary, error) {
	articles, err := s.GetGeneralArticles(ctx)
	if err != nil {
		return nil, err
	}
	if len(articles) > sentimentWindow {
		articles = articles[:sentimentWindow]
	}

	var positive, neutral, negative int
	bySource := make(map[string]int)
	for _, a := range articles {
		switch a.Sentiment {
		case models.SentimentPositive:
			positive++
		case models.SentimentNegative:
			negative++
		default:
			neutral++
		}
		bySource[a.Source]++
	}

	overall := models.SentimentNeutral
	if len(articles) > 0 {
		score := float64(positive-negative) / float64(len(articles))
		if score > 0.3 {
			overall = models.SentimentPositive
		} else if score < -0.3 {
			overall = models.SentimentNegative
		}
	}

	return &models.NewsSentimentSummary{
		Overall:      overall,
		ArticleCount: len(articles),
		Breakdown:    models.NewSentimentBreakdown(positive, neutral, negative),
		BySource:     bySource,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// cachedChain runs the fallback chain behind the news cache namespace and
// post-processes the winning list (classify, sort newest first).
func (s *Service) cachedChain(ctx context.Context, key, what string, sources ...provider.Source[articleList]) ([]models.NewsArticle, error) {
	ttl := infra.NamespaceTTL(infra.NamespaceNews, 0)
	cached, err := provider.ReadThrough(s.cache, key, ttl, func() (*articleList, error) {
		if s.forceMock {
			last := sources[len(sources)-1]
			result, _ := last.Load(ctx)
			return result, nil
		}
		result, source := provider.First(ctx, s.log, what, sources...)
		if result == nil {
			return nil, provider.Unavailable("news", "all sources exhausted")
		}
		result.Articles = classifyArticles(result.Articles)
		sort.Slice(result.Articles, func(i, j int) bool {
			return result.Articles[i].PublishedAt.After(result.Articles[j].PublishedAt)
		})
		s.log.Debug().Str("what", what).Str("source", source).Int("count", len(result.Articles)).Msg("news resolved")
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return cached.Articles, nil
}

// collectRSS fans out over the feeds in parallel; failed feeds are
// skipped and an empty merge surfaces ErrNoData so the chain proceeds.
func (s *Service) collectRSS(ctx context.Context, sources []RSSSource) ([]models.NewsArticle, error) {
	if len(sources) == 0 {
		return nil, provider.ErrNoData
	}

	results := make([][]models.NewsArticle, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			articles, err := s.fetchRSS(gctx, src)
			if err != nil {
				s.log.Warn().Str("feed", src.Name).Err(err).Msg("RSS feed failed")
				return nil
			}
			results[i] = articles
			return nil
		})
	}
	_ = g.Wait()

	var merged []models.NewsArticle
	for _, list := range results {
		merged = append(merged, list...)
	}
	if len(merged) == 0 {
		return nil, provider.ErrNoData
	}
	return merged, nil
}

// HealthStatus is the health probe result.
type HealthStatus struct {
	Service   string    `json:"service"`
	Healthy   bool      `json:"healthy"`
	Detail    string    `json:"detail,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Health probes the general-news chain.
func (s *Service) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{Service: "news", CheckedAt: time.Now().UTC()}
	articles, err := s.GetGeneralArticles(ctx)
	switch {
	case err != nil:
		status.Detail = err.Error()
	case len(articles) > 0 && articles[0].Source == mockdata.Source:
		status.Healthy = true
		status.Detail = "serving demo data; live providers unavailable"
	default:
		status.Healthy = true
		status.Detail = fmt.Sprintf("serving %d articles", len(articles))
	}
	return status
}
