// Package models defines the shared value objects exchanged between the
// upstream clients, provider services, analysis pipeline, and the HTTP API.
// All types are plain data carriers; ownership passes to the caller on
// return and nothing here is mutated after construction.
package models

import "time"

// Range is a low/high price band.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Quote is a normalized equity or index quote. Source records which
// upstream supplied the record ("Yahoo Finance", "Alpha Vantage", "Demo").
type Quote struct {
	Symbol            string    `json:"symbol"`
	Name              string    `json:"name"`
	Currency          string    `json:"currency"`
	Exchange          string    `json:"exchange"`
	CurrentPrice      float64   `json:"currentPrice"`
	PreviousClose     float64   `json:"previousClose"`
	Change            float64   `json:"change"`
	ChangePercent     float64   `json:"changePercent"`
	Volume            int64     `json:"volume"`
	DayRange          Range     `json:"dayRange"`
	FiftyTwoWeekRange Range     `json:"fiftyTwoWeekRange"`
	MarketCap         float64   `json:"marketCap,omitempty"`
	MarketState       string    `json:"marketState"`
	Timestamp         time.Time `json:"timestamp"`
	Source            string    `json:"source"`
}

// Derive fills Change and ChangePercent from CurrentPrice and
// PreviousClose. ChangePercent is 0 when PreviousClose is 0.
func (q *Quote) Derive() {
	q.Change = q.CurrentPrice - q.PreviousClose
	if q.PreviousClose != 0 {
		q.ChangePercent = q.Change / q.PreviousClose * 100
	} else {
		q.ChangePercent = 0
	}
}

// Candle is one OHLCV bar of a price series.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// PriceSeries is an intraday or daily candle series for one symbol.
type PriceSeries struct {
	Symbol   string   `json:"symbol"`
	Interval string   `json:"interval"`
	Candles  []Candle `json:"candles"`
	Source   string   `json:"source"`
}

// CompanyOverview carries the fundamental metrics used by the analysis
// pipeline. Pointer fields distinguish "absent upstream" from zero.
type CompanyOverview struct {
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	Sector            string   `json:"sector,omitempty"`
	Industry          string   `json:"industry,omitempty"`
	MarketCap         float64  `json:"marketCap,omitempty"`
	PERatio           *float64 `json:"peRatio,omitempty"`
	PEGRatio          *float64 `json:"pegRatio,omitempty"`
	PriceToBookRatio  *float64 `json:"priceToBookRatio,omitempty"`
	DividendYield     *float64 `json:"dividendYield,omitempty"`
	ProfitMargin      *float64 `json:"profitMargin,omitempty"`
	DebtToEquityRatio *float64 `json:"debtToEquityRatio,omitempty"`
	EPS               *float64 `json:"eps,omitempty"`
	Beta              *float64 `json:"beta,omitempty"`
	Source            string   `json:"source"`
}

// IndicatorPoint is one observation of a technical indicator. MACD-style
// indicators populate Signal and Histogram; single-line indicators leave
// them nil.
type IndicatorPoint struct {
	Date      string   `json:"date"`
	Value     float64  `json:"value"`
	Signal    *float64 `json:"signal,omitempty"`
	Histogram *float64 `json:"histogram,omitempty"`
}

// TechnicalIndicator is a normalized indicator series, newest first.
type TechnicalIndicator struct {
	Symbol     string           `json:"symbol"`
	Indicator  string           `json:"indicator"`
	Interval   string           `json:"interval"`
	TimePeriod int              `json:"timePeriod"`
	Points     []IndicatorPoint `json:"points"`
	Source     string           `json:"source"`
}

// Latest returns the newest indicator observation, or false when the
// series is empty.
func (t *TechnicalIndicator) Latest() (IndicatorPoint, bool) {
	if len(t.Points) == 0 {
		return IndicatorPoint{}, false
	}
	return t.Points[0], true
}

// SymbolMatch is one result of a symbol search.
type SymbolMatch struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Type       string  `json:"type,omitempty"`
	Region     string  `json:"region,omitempty"`
	Currency   string  `json:"currency,omitempty"`
	MatchScore float64 `json:"matchScore,omitempty"`
	Source     string  `json:"source"`
}
