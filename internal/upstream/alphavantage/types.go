package alphavantage

import "github.com/finsight/finsight/internal/provider"

// apiEnvelope carries the error/rate-limit fields Alpha Vantage returns
// with HTTP 200. A populated Note or Information means the free-tier
// budget is exhausted and must be treated as "no answer".
type apiEnvelope struct {
	Note         string `json:"Note,omitempty"`
	Information  string `json:"Information,omitempty"`
	ErrorMessage string `json:"Error Message,omitempty"`
}

func (e apiEnvelope) apiError() error {
	if e.Note != "" || e.Information != "" || e.ErrorMessage != "" {
		return provider.ErrNoData
	}
	return nil
}

type globalQuoteResponse struct {
	apiEnvelope
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Open             string `json:"02. open"`
		High             string `json:"03. high"`
		Low              string `json:"04. low"`
		Price            string `json:"05. price"`
		Volume           string `json:"06. volume"`
		LatestTradingDay string `json:"07. latest trading day"`
		PreviousClose    string `json:"08. previous close"`
	} `json:"Global Quote"`
}

type ohlcvStrings struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// seriesResponse covers both intraday and daily payloads; the series key
// varies by function so every candidate is declared.
type seriesResponse struct {
	apiEnvelope
	Daily      map[string]ohlcvStrings `json:"Time Series (Daily)"`
	Intraday1  map[string]ohlcvStrings `json:"Time Series (1min)"`
	Intraday5  map[string]ohlcvStrings `json:"Time Series (5min)"`
	Intraday15 map[string]ohlcvStrings `json:"Time Series (15min)"`
	Intraday30 map[string]ohlcvStrings `json:"Time Series (30min)"`
	Intraday60 map[string]ohlcvStrings `json:"Time Series (60min)"`
}

func (r *seriesResponse) series() map[string]ohlcvStrings {
	for _, m := range []map[string]ohlcvStrings{
		r.Daily, r.Intraday1, r.Intraday5, r.Intraday15, r.Intraday30, r.Intraday60,
	} {
		if len(m) > 0 {
			return m
		}
	}
	return nil
}

type overviewResponse struct {
	apiEnvelope
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	Description          string `json:"Description"`
	Sector               string `json:"Sector"`
	Industry             string `json:"Industry"`
	MarketCapitalization string `json:"MarketCapitalization"`
	PERatio              string `json:"PERatio"`
	PEGRatio             string `json:"PEGRatio"`
	PriceToBookRatio     string `json:"PriceToBookRatio"`
	DividendYield        string `json:"DividendYield"`
	ProfitMargin         string `json:"ProfitMargin"`
	DebtToEquity         string `json:"DebtToEquityRatio"`
	EPS                  string `json:"EPS"`
	Beta                 string `json:"Beta"`
}

// technicalResponse holds the indicator payload; the analysis key name
// embeds the function name, so candidates for each supported indicator
// are declared explicitly.
type technicalResponse struct {
	apiEnvelope
	RSI    map[string]map[string]string `json:"Technical Analysis: RSI"`
	MACD   map[string]map[string]string `json:"Technical Analysis: MACD"`
	SMA    map[string]map[string]string `json:"Technical Analysis: SMA"`
	EMA    map[string]map[string]string `json:"Technical Analysis: EMA"`
	BBANDS map[string]map[string]string `json:"Technical Analysis: BBANDS"`
	STOCH  map[string]map[string]string `json:"Technical Analysis: STOCH"`
	ADX    map[string]map[string]string `json:"Technical Analysis: ADX"`
}

func (r *technicalResponse) analysis() map[string]map[string]string {
	for _, m := range []map[string]map[string]string{
		r.RSI, r.MACD, r.SMA, r.EMA, r.BBANDS, r.STOCH, r.ADX,
	} {
		if len(m) > 0 {
			return m
		}
	}
	return nil
}

type searchResponse struct {
	apiEnvelope
	BestMatches []struct {
		Symbol     string `json:"1. symbol"`
		Name       string `json:"2. name"`
		Type       string `json:"3. type"`
		Region     string `json:"4. region"`
		Currency   string `json:"8. currency"`
		MatchScore string `json:"9. matchScore"`
	} `json:"bestMatches"`
}

type newsItem struct {
	Title                 string `json:"title"`
	URL                   string `json:"url"`
	TimePublished         string `json:"time_published"`
	Summary               string `json:"summary"`
	Source                string `json:"source"`
	OverallSentimentLabel string `json:"overall_sentiment_label"`
	TickerSentiment       []struct {
		Ticker         string `json:"ticker"`
		RelevanceScore string `json:"relevance_score"`
	} `json:"ticker_sentiment"`
}

type newsResponse struct {
	apiEnvelope
	Feed []newsItem `json:"feed"`
}
