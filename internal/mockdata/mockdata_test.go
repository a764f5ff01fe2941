package mockdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/pkg/models"
)

func TestQuoteDeterministic(t *testing.T) {
	g := New()
	a := g.Quote("AAPL")
	b := g.Quote("aapl")

	assert.Equal(t, a.CurrentPrice, b.CurrentPrice, "same symbol must yield same price regardless of case")
	assert.Equal(t, "AAPL", a.Symbol)
	assert.Equal(t, Source, a.Source)
	assert.InDelta(t, a.CurrentPrice-a.PreviousClose, a.Change, 1e-9)
	assert.Greater(t, a.CurrentPrice, 0.0)
}

func TestQuoteDiffersAcrossSymbols(t *testing.T) {
	g := New()
	assert.NotEqual(t, g.Quote("AAPL").CurrentPrice, g.Quote("MSFT").CurrentPrice)
}

func TestHistoryShape(t *testing.T) {
	g := New()
	s := g.History("TSLA", "daily", 50)

	require.Len(t, s.Candles, 50)
	assert.Equal(t, Source, s.Source)
	for _, c := range s.Candles {
		assert.GreaterOrEqual(t, c.High, c.Low)
		assert.GreaterOrEqual(t, c.High, c.Close)
		assert.LessOrEqual(t, c.Low, c.Open)
	}
	// newest last
	assert.True(t, s.Candles[1].Timestamp.After(s.Candles[0].Timestamp))
}

func TestTechnicalRSIInBand(t *testing.T) {
	g := New()
	ti := g.Technical("NVDA", "RSI", "daily", 14)

	require.NotEmpty(t, ti.Points)
	for _, p := range ti.Points {
		assert.GreaterOrEqual(t, p.Value, 30.0)
		assert.LessOrEqual(t, p.Value, 70.0)
		assert.Nil(t, p.Signal)
	}
}

func TestTechnicalMACDHasSignalLine(t *testing.T) {
	g := New()
	ti := g.Technical("NVDA", "MACD", "daily", 0)

	require.NotEmpty(t, ti.Points)
	p := ti.Points[0]
	require.NotNil(t, p.Signal)
	require.NotNil(t, p.Histogram)
	assert.InDelta(t, p.Value-*p.Signal, *p.Histogram, 0.011)
}

func TestNewsTaggedDemo(t *testing.T) {
	g := New()
	articles := g.News("AAPL", 5)

	require.Len(t, articles, 5)
	for _, a := range articles {
		assert.Equal(t, Source, a.Source)
		assert.Contains(t, a.Title, "AAPL")
		assert.Contains(t, []string{
			models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative,
		}, a.Sentiment)
	}
}

func TestSeriesNewestFirst(t *testing.T) {
	g := New()
	s := g.Series("GDP", 12)

	require.Len(t, s.Observations, 12)
	assert.Greater(t, s.Observations[0].Date, s.Observations[1].Date)
}

func TestDemoSentimentAnalysisSumsTo100(t *testing.T) {
	g := New()
	sa := g.SentimentAnalysis("AAPL")
	assert.Equal(t, 100, sa.Breakdown.Positive+sa.Breakdown.Neutral+sa.Breakdown.Negative)
	assert.Equal(t, models.SentimentNeutral, sa.Overall)
	assert.Equal(t, models.ConfidenceLow, sa.Confidence)
}
