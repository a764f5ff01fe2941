package analysis

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/infra"
	"github.com/finsight/finsight/internal/mockdata"
	"github.com/finsight/finsight/internal/provider"
	"github.com/finsight/finsight/pkg/logger"
	"github.com/finsight/finsight/pkg/models"
)

type fakeMarket struct {
	quote      *models.Quote
	quoteErr   error
	overview   *models.CompanyOverview
	indicators map[string]*models.TechnicalIndicator
}

func (f *fakeMarket) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	return f.quote, f.quoteErr
}

func (f *fakeMarket) GetCompanyOverview(ctx context.Context, symbol string) (*models.CompanyOverview, error) {
	if f.overview == nil {
		return nil, provider.ErrNoData
	}
	return f.overview, nil
}

func (f *fakeMarket) GetTechnicalIndicator(ctx context.Context, symbol, indicator, interval string, timePeriod int) (*models.TechnicalIndicator, error) {
	if ind, ok := f.indicators[indicator]; ok {
		return ind, nil
	}
	return nil, provider.ErrNoData
}

func (f *fakeMarket) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	return []models.SymbolMatch{{Symbol: "AAPL", Name: "Apple Inc."}}, nil
}

func (f *fakeMarket) GetRegionalTopSymbols(ctx context.Context, region string) ([]*models.Quote, error) {
	return []*models.Quote{
		{Symbol: "AAPL", ChangePercent: 1.2, Source: "Yahoo Finance"},
		{Symbol: "TSLA", ChangePercent: -4.5, Source: "Yahoo Finance"},
	}, nil
}

type fakeNews struct {
	articles []models.NewsArticle
	err      error
}

func (f *fakeNews) GetArticles(ctx context.Context, ticker string, topics []string) ([]models.NewsArticle, error) {
	return f.articles, f.err
}

type fakeEcon struct {
	series map[string]*models.EconomicSeries
}

func (f *fakeEcon) GetSeries(ctx context.Context, seriesID string) (*models.EconomicSeries, error) {
	if s, ok := f.series[seriesID]; ok {
		return s, nil
	}
	return nil, provider.ErrNoData
}

func labeled(sentiments ...string) []models.NewsArticle {
	articles := make([]models.NewsArticle, 0, len(sentiments))
	ts := time.Now().UTC()
	for i, s := range sentiments {
		articles = append(articles, models.NewsArticle{
			Title:       "article",
			Sentiment:   s,
			PublishedAt: ts.Add(-time.Duration(i) * time.Hour),
		})
	}
	return articles
}

func indicatorWith(name string, value float64) *models.TechnicalIndicator {
	return &models.TechnicalIndicator{
		Indicator: name,
		Points:    []models.IndicatorPoint{{Date: "2026-08-20", Value: value}},
	}
}

func newTestAnalyzer(market *fakeMarket, news *fakeNews, econ *fakeEcon) *Analyzer {
	return New(market, news, econ, nil, mockdata.New(), infra.NewCache(time.Minute), logger.Nop())
}

func TestAnalyzeSentimentScenario(t *testing.T) {
	articles := labeled(
		models.SentimentPositive, models.SentimentPositive, models.SentimentNeutral,
		models.SentimentNegative, models.SentimentPositive,
	)

	result := AnalyzeSentiment(context.Background(), nil, articles)

	assert.InDelta(t, 0.4, result.Score, 1e-9, "score = 2/5")
	assert.Equal(t, models.SentimentPositive, result.Overall)
	assert.Equal(t, models.SentimentBreakdown{Positive: 60, Neutral: 20, Negative: 20}, result.Breakdown)
	assert.Equal(t, models.ConfidenceLow, result.Confidence, "count <= 5 is low confidence")
	require.NotEmpty(t, result.Reasoning)
	assert.Contains(t, result.Reasoning[0], "60% positive")
}

func TestAnalyzeSentimentEmptyList(t *testing.T) {
	result := AnalyzeSentiment(context.Background(), nil, nil)

	assert.Equal(t, models.SentimentNeutral, result.Overall)
	assert.Equal(t, models.ConfidenceLow, result.Confidence)
	assert.Equal(t, models.SentimentBreakdown{Positive: 33, Neutral: 34, Negative: 33}, result.Breakdown)
}

func TestAnalyzeSentimentConfidenceBands(t *testing.T) {
	six := AnalyzeSentiment(context.Background(), nil, labeled(
		models.SentimentNeutral, models.SentimentNeutral, models.SentimentNeutral,
		models.SentimentNeutral, models.SentimentNeutral, models.SentimentNeutral,
	))
	assert.Equal(t, models.ConfidenceMedium, six.Confidence)

	eleven := make([]string, 11)
	for i := range eleven {
		eleven[i] = models.SentimentNeutral
	}
	high := AnalyzeSentiment(context.Background(), nil, labeled(eleven...))
	assert.Equal(t, models.ConfidenceHigh, high.Confidence)
}

type capturingModel struct {
	texts []string
}

func (m *capturingModel) Enabled() bool { return true }

func (m *capturingModel) Classify(ctx context.Context, texts []string) ([]LabelScores, error) {
	m.texts = texts
	results := make([]LabelScores, len(texts))
	for i := range results {
		results[i] = LabelScores{models.SentimentPositive: 0.9}
	}
	return results, nil
}

func TestClassifyTruncatesOnRuneBoundary(t *testing.T) {
	// Multi-byte runes straddling the 512-byte cap must not be split.
	long := models.NewsArticle{
		Title:       "article",
		Summary:     strings.Repeat("€", 200),
		PublishedAt: time.Now().UTC(),
	}
	model := &capturingModel{}

	counts, ok := classifyWithModel(context.Background(), model, []models.NewsArticle{long})
	require.True(t, ok)
	assert.Equal(t, 1, counts[0])

	require.Len(t, model.texts, 1)
	text := model.texts[0]
	assert.LessOrEqual(t, len(text), modelMaxTextLen)
	assert.True(t, utf8.ValidString(text), "truncation must not split a rune")
}

func TestAnalyzeTechnicalOverboughtRSI(t *testing.T) {
	result := AnalyzeTechnical(map[string]*models.TechnicalIndicator{
		"RSI": indicatorWith("RSI", 75),
		"MACD": {Indicator: "MACD"}, // empty series, ignored
		"SMA": indicatorWith("SMA", 182),
	})

	assert.Equal(t, 1, result.SellSignals, "RSI 75 yields one sell signal")
	assert.Equal(t, 0, result.BuySignals)
	assert.Equal(t, "bearish", result.Overall)
	assert.Equal(t, "sell", result.Recommendation)
}

func TestAnalyzeTechnicalOversoldRSI(t *testing.T) {
	result := AnalyzeTechnical(map[string]*models.TechnicalIndicator{
		"RSI": indicatorWith("RSI", 25),
	})
	assert.Equal(t, "bullish", result.Overall)
	assert.Equal(t, "buy", result.Recommendation)
	assert.Equal(t, models.ConfidenceMedium, result.Confidence, "fewer than 3 indicators populated")
}

func TestAnalyzeTechnicalHighConfidence(t *testing.T) {
	hist := 0.5
	result := AnalyzeTechnical(map[string]*models.TechnicalIndicator{
		"RSI": indicatorWith("RSI", 50),
		"MACD": {Indicator: "MACD", Points: []models.IndicatorPoint{
			{Date: "2026-08-20", Value: 1.2, Histogram: &hist},
		}},
		"SMA": indicatorWith("SMA", 182),
	})
	assert.Equal(t, models.ConfidenceHigh, result.Confidence)
	assert.Equal(t, "bullish", result.Overall, "MACD histogram positive is the only directional signal")
}

func TestAnalyzeFundamental(t *testing.T) {
	pe := 12.0
	pm := 0.22
	peg := 1.4
	pb := 5.0
	strong := AnalyzeFundamental(&models.CompanyOverview{
		PERatio: &pe, ProfitMargin: &pm, PEGRatio: &peg, PriceToBookRatio: &pb,
	})
	assert.Equal(t, "strong", strong.Overall)
	assert.Equal(t, models.ConfidenceHigh, strong.Confidence, "4 of 6 metrics present")
	assert.Len(t, strong.Positives, 2)

	peHigh := 45.0
	pmThin := 0.02
	weak := AnalyzeFundamental(&models.CompanyOverview{PERatio: &peHigh, ProfitMargin: &pmThin})
	assert.Equal(t, "weak", weak.Overall)
	assert.Equal(t, models.ConfidenceMedium, weak.Confidence)

	assert.Equal(t, "neutral", AnalyzeFundamental(nil).Overall)
}

func TestAnalyzeRiskAdditive(t *testing.T) {
	rsi := 80.0
	result := AnalyzeRisk(RiskInputs{
		Sentiment:          models.SentimentAnalysis{Overall: models.SentimentNegative},
		Volatility:         0.4,
		RSI:                &rsi,
		InflationHigh:      true,
		RecentNewsNegative: true,
	})

	assert.InDelta(t, 10, result.Score, 1e-9, "3+2+2+1+1+1 clamps to 10")
	assert.Equal(t, "high", result.Level)
	assert.Len(t, result.Factors, 5)
}

func TestAnalyzeRiskBaseline(t *testing.T) {
	result := AnalyzeRisk(RiskInputs{Sentiment: models.SentimentAnalysis{Overall: models.SentimentNeutral}})
	assert.InDelta(t, 3, result.Score, 1e-9)
	assert.Equal(t, "low", result.Level)
}

func TestRecommendBands(t *testing.T) {
	quote := &models.Quote{CurrentPrice: 100}

	buy := Recommend(quote,
		models.SentimentAnalysis{Overall: models.SentimentPositive},
		models.TechnicalAnalysis{Overall: "bullish"},
		models.FundamentalAnalysis{Overall: "strong"},
		models.RiskAnalysis{Level: "low"},
		EconSupportive,
	)
	assert.Equal(t, "BUY", buy.Action)
	assert.InDelta(t, 9.5, buy.Score, 1e-9)
	assert.Equal(t, models.ConfidenceHigh, buy.Confidence)
	assert.InDelta(t, 145, buy.TargetPrice, 1e-9, "100 * (1 + 4.5*0.1)")

	sell := Recommend(quote,
		models.SentimentAnalysis{Overall: models.SentimentNegative},
		models.TechnicalAnalysis{Overall: "bearish"},
		models.FundamentalAnalysis{Overall: "weak"},
		models.RiskAnalysis{Level: "high"},
		EconAdverse,
	)
	assert.Equal(t, "SELL", sell.Action)
	assert.InDelta(t, 0, sell.Score, 1e-9)

	hold := Recommend(quote,
		models.SentimentAnalysis{Overall: models.SentimentNeutral},
		models.TechnicalAnalysis{Overall: "neutral"},
		models.FundamentalAnalysis{Overall: "neutral"},
		models.RiskAnalysis{Level: "medium"},
		EconMixed,
	)
	assert.Equal(t, "HOLD", hold.Action)
	assert.InDelta(t, 100, hold.TargetPrice, 1e-9)
}

func TestAnalyzeFailsWithoutQuote(t *testing.T) {
	analyzer := newTestAnalyzer(
		&fakeMarket{quoteErr: provider.ErrNoData},
		&fakeNews{articles: labeled(models.SentimentPositive)},
		&fakeEcon{},
	)

	_, err := analyzer.Analyze(context.Background(), "AAPL")
	require.Error(t, err)

	var unavailable *provider.ErrTotalUnavailable
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "No stock data available", unavailable.Message)
}

func TestAnalyzeSubstitutesDemoForMissingSlots(t *testing.T) {
	analyzer := newTestAnalyzer(
		&fakeMarket{quote: &models.Quote{Symbol: "AAPL", CurrentPrice: 190, Source: "Yahoo Finance"}},
		&fakeNews{err: provider.ErrNoData},
		&fakeEcon{},
	)

	result, err := analyzer.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "Yahoo Finance", result.Quote.Source)
	assert.Equal(t, mockdata.Source, result.Sentiment.Source, "missing news slot gets demo sentiment")
	assert.Equal(t, mockdata.Source, result.Fundamental.Source)
	assert.NotEmpty(t, result.Recommendation.Action)
}

func TestAnalyzeFullPipeline(t *testing.T) {
	pe := 12.0
	pm := 0.2
	market := &fakeMarket{
		quote:    &models.Quote{Symbol: "AAPL", CurrentPrice: 190, Source: "Yahoo Finance"},
		overview: &models.CompanyOverview{Symbol: "AAPL", PERatio: &pe, ProfitMargin: &pm, Source: "Alpha Vantage"},
		indicators: map[string]*models.TechnicalIndicator{
			"RSI": indicatorWith("RSI", 28),
			"SMA": indicatorWith("SMA", 185),
		},
	}
	analyzer := newTestAnalyzer(market, &fakeNews{articles: labeled(
		models.SentimentPositive, models.SentimentPositive, models.SentimentPositive,
		models.SentimentNeutral,
	)}, &fakeEcon{})

	result, err := analyzer.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, models.SentimentPositive, result.Sentiment.Overall)
	assert.Equal(t, "bullish", result.Technical.Overall)
	assert.Equal(t, "strong", result.Fundamental.Overall)
	assert.Equal(t, "BUY", result.Recommendation.Action)
}

func TestAnalyzeCachedWithinTTL(t *testing.T) {
	market := &fakeMarket{quote: &models.Quote{Symbol: "AAPL", CurrentPrice: 190, Source: "Yahoo Finance"}}
	analyzer := newTestAnalyzer(market, &fakeNews{}, &fakeEcon{})

	first, err := analyzer.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)
	second, err := analyzer.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestQuickSignals(t *testing.T) {
	market := &fakeMarket{
		quote:      &models.Quote{Symbol: "AAPL", CurrentPrice: 190, Source: "Yahoo Finance"},
		indicators: map[string]*models.TechnicalIndicator{"RSI": indicatorWith("RSI", 75)},
	}
	analyzer := newTestAnalyzer(market, &fakeNews{}, &fakeEcon{})

	quick, err := analyzer.Quick(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "sell", quick.Signal)
	require.NotNil(t, quick.RSI)
	assert.InDelta(t, 75, *quick.RSI, 1e-9)
}

func TestTrendingRanksByAbsoluteMove(t *testing.T) {
	analyzer := newTestAnalyzer(&fakeMarket{}, &fakeNews{}, &fakeEcon{})

	entries, err := analyzer.Trending(context.Background(), "us")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "TSLA", entries[0].Symbol, "-4.5% beats +1.2% on absolute move")
}

func TestRecentTrend(t *testing.T) {
	improving := []models.NewsArticle{
		{Sentiment: models.SentimentPositive, PublishedAt: time.Now()},
		{Sentiment: models.SentimentPositive, PublishedAt: time.Now().Add(-1 * time.Hour)},
		{Sentiment: models.SentimentNegative, PublishedAt: time.Now().Add(-24 * time.Hour)},
		{Sentiment: models.SentimentNegative, PublishedAt: time.Now().Add(-25 * time.Hour)},
	}
	assert.Equal(t, "improving", recentTrend(improving))
	assert.Equal(t, "stable", recentTrend(nil))
}

func TestInflationIsHigh(t *testing.T) {
	series := &models.EconomicSeries{SeriesID: "CPIAUCSL"}
	for i := 0; i < 14; i++ {
		series.Observations = append(series.Observations, models.SeriesObservation{
			Date: "2026-01-01", Value: 100,
		})
	}
	assert.False(t, inflationIsHigh(series))

	series.Observations[0].Value = 106 // 6% above twelve months back
	assert.True(t, inflationIsHigh(series))

	assert.False(t, inflationIsHigh(nil))
}
