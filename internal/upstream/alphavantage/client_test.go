package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/provider"
)

func fixtureServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
}

func TestGlobalQuote(t *testing.T) {
	srv := fixtureServer(t, `{
	  "Global Quote": {
	    "01. symbol": "IBM",
	    "02. open": "182.0",
	    "03. high": "184.5",
	    "04. low": "181.2",
	    "05. price": "183.4",
	    "06. volume": "3500000",
	    "07. latest trading day": "2024-04-01",
	    "08. previous close": "181.0"
	  }
	}`)
	defer srv.Close()

	q, err := NewWithBaseURL("key", srv.URL).GlobalQuote(context.Background(), "IBM")
	require.NoError(t, err)

	assert.Equal(t, "IBM", q.Symbol)
	assert.InDelta(t, 183.4, q.CurrentPrice, 1e-9)
	assert.InDelta(t, 2.4, q.Change, 1e-9)
	assert.Equal(t, int64(3500000), q.Volume)
	assert.Equal(t, "Alpha Vantage", q.Source)
}

func TestRateLimitNoteIsNoData(t *testing.T) {
	srv := fixtureServer(t, `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`)
	defer srv.Close()

	_, err := NewWithBaseURL("key", srv.URL).GlobalQuote(context.Background(), "IBM")
	assert.ErrorIs(t, err, provider.ErrNoData)

	_, err = NewWithBaseURL("key", srv.URL).Search(context.Background(), "ibm")
	assert.ErrorIs(t, err, provider.ErrNoData)
}

func TestMissingKeyDisablesClient(t *testing.T) {
	_, err := New("").GlobalQuote(context.Background(), "IBM")
	assert.ErrorIs(t, err, provider.ErrNoData)
}

func TestTechnicalRSINewestFirst(t *testing.T) {
	srv := fixtureServer(t, `{
	  "Technical Analysis: RSI": {
	    "2024-03-28": {"RSI": "55.1"},
	    "2024-04-01": {"RSI": "61.2"},
	    "2024-03-29": {"RSI": "58.4"}
	  }
	}`)
	defer srv.Close()

	ind, err := NewWithBaseURL("key", srv.URL).Technical(context.Background(), "IBM", "RSI", "daily", 14)
	require.NoError(t, err)

	require.Len(t, ind.Points, 3)
	assert.Equal(t, "2024-04-01", ind.Points[0].Date)
	assert.InDelta(t, 61.2, ind.Points[0].Value, 1e-9)
	latest, ok := ind.Latest()
	require.True(t, ok)
	assert.InDelta(t, 61.2, latest.Value, 1e-9)
}

func TestTechnicalMACDFields(t *testing.T) {
	srv := fixtureServer(t, `{
	  "Technical Analysis: MACD": {
	    "2024-04-01": {"MACD": "1.25", "MACD_Signal": "1.10", "MACD_Hist": "0.15"}
	  }
	}`)
	defer srv.Close()

	ind, err := NewWithBaseURL("key", srv.URL).Technical(context.Background(), "IBM", "MACD", "daily", 14)
	require.NoError(t, err)

	require.Len(t, ind.Points, 1)
	p := ind.Points[0]
	assert.InDelta(t, 1.25, p.Value, 1e-9)
	require.NotNil(t, p.Signal)
	assert.InDelta(t, 1.10, *p.Signal, 1e-9)
	require.NotNil(t, p.Histogram)
	assert.InDelta(t, 0.15, *p.Histogram, 1e-9)
}

func TestUnsupportedIndicator(t *testing.T) {
	_, err := New("key").Technical(context.Background(), "IBM", "VWAP", "daily", 14)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported indicator")
}

func TestOverviewOptionalFields(t *testing.T) {
	srv := fixtureServer(t, `{
	  "Symbol": "IBM",
	  "Name": "International Business Machines",
	  "Sector": "TECHNOLOGY",
	  "MarketCapitalization": "170000000000",
	  "PERatio": "22.5",
	  "PEGRatio": "None",
	  "ProfitMargin": "0.095",
	  "DividendYield": "0.037"
	}`)
	defer srv.Close()

	o, err := NewWithBaseURL("key", srv.URL).Overview(context.Background(), "IBM")
	require.NoError(t, err)

	require.NotNil(t, o.PERatio)
	assert.InDelta(t, 22.5, *o.PERatio, 1e-9)
	assert.Nil(t, o.PEGRatio, `"None" maps to absent`)
	require.NotNil(t, o.ProfitMargin)
	assert.InDelta(t, 0.095, *o.ProfitMargin, 1e-9)
	assert.Nil(t, o.DebtToEquityRatio)
}

func TestNewsSentimentMapping(t *testing.T) {
	srv := fixtureServer(t, `{
	  "feed": [
	    {"title": "Shares rally", "url": "https://x/1", "time_published": "20240401T120000",
	     "summary": "s", "source": "Wire", "overall_sentiment_label": "Somewhat-Bullish",
	     "ticker_sentiment": [{"ticker": "IBM", "relevance_score": "0.8"}]},
	    {"title": "Shares slump", "url": "https://x/2", "time_published": "20240401T110000",
	     "summary": "s", "source": "Wire", "overall_sentiment_label": "Bearish",
	     "ticker_sentiment": []}
	  ]
	}`)
	defer srv.Close()

	articles, err := NewWithBaseURL("key", srv.URL).News(context.Background(), "IBM", nil)
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "positive", articles[0].Sentiment)
	assert.InDelta(t, 0.8, articles[0].RelevanceScore, 1e-9)
	assert.Equal(t, "negative", articles[1].Sentiment)
}
