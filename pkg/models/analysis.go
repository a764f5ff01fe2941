package models

import "time"

// Confidence levels shared by the analysis sub-results.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// SentimentAnalysis summarizes news sentiment for one symbol.
type SentimentAnalysis struct {
	Overall      string             `json:"overall"` // positive | neutral | negative
	Score        float64            `json:"score"`   // -1..+1
	Confidence   string             `json:"confidence"`
	Breakdown    SentimentBreakdown `json:"breakdown"`
	RecentTrend  string             `json:"recentTrend"` // improving | declining | stable
	ArticleCount int                `json:"articleCount"`
	Reasoning    []string           `json:"reasoning"`
	Source       string             `json:"source"`
}

// IndicatorSignal maps one indicator reading to a trade signal.
type IndicatorSignal struct {
	Indicator string  `json:"indicator"`
	Value     float64 `json:"value"`
	Signal    string  `json:"signal"`   // buy | sell | neutral
	Strength  string  `json:"strength"` // low | medium | high
	Reason    string  `json:"reason"`
}

// TechnicalAnalysis fuses the indicator signals.
type TechnicalAnalysis struct {
	Overall        string            `json:"overall"` // bullish | bearish | neutral
	Recommendation string            `json:"recommendation"` // buy | sell | hold
	Confidence     string            `json:"confidence"`
	Signals        []IndicatorSignal `json:"signals"`
	BuySignals     int               `json:"buySignals"`
	SellSignals    int               `json:"sellSignals"`
	Source         string            `json:"source"`
}

// FundamentalAnalysis scores the company-overview metrics.
type FundamentalAnalysis struct {
	Overall     string   `json:"overall"` // strong | neutral | weak
	Confidence  string   `json:"confidence"`
	MetricsUsed int      `json:"metricsUsed"`
	Positives   []string `json:"positives"`
	Negatives   []string `json:"negatives"`
	Source      string   `json:"source"`
}

// RiskAnalysis is the additive 0-10 risk score.
type RiskAnalysis struct {
	Score   float64  `json:"score"`
	Level   string   `json:"level"` // low | medium | high
	Factors []string `json:"factors"`
	Source  string   `json:"source"`
}

// Recommendation is the weighted final call.
type Recommendation struct {
	Action      string   `json:"action"` // BUY | HOLD | SELL
	Score       float64  `json:"score"`  // 0..10
	Confidence  string   `json:"confidence"`
	TargetPrice float64  `json:"targetPrice"`
	Reasoning   []string `json:"reasoning"`
}

// StockAnalysis is the fused analysis document for one symbol.
type StockAnalysis struct {
	Symbol         string              `json:"symbol"`
	Quote          *Quote              `json:"quote"`
	Sentiment      SentimentAnalysis   `json:"sentiment"`
	Technical      TechnicalAnalysis   `json:"technical"`
	Fundamental    FundamentalAnalysis `json:"fundamental"`
	Risk           RiskAnalysis        `json:"risk"`
	Recommendation Recommendation      `json:"recommendation"`
	GeneratedAt    time.Time           `json:"generatedAt"`
}
