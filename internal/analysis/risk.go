package analysis

import (
	"fmt"

	"github.com/finsight/finsight/pkg/models"
)

// Risk scoring constants: additive on a 0-10 scale.
const (
	riskBase         = 3
	volatilityLimit  = 0.3
	rsiExtremeHigh   = 75
	rsiExtremeLow    = 25
	inflationHighYoY = 0.04
)

// RiskInputs carries the signals feeding the additive risk score.
type RiskInputs struct {
	Sentiment          models.SentimentAnalysis
	Volatility         float64 // annual range ratio
	RSI                *float64
	InflationHigh      bool
	RecentNewsNegative bool
}

// AnalyzeRisk computes the additive 0-10 risk score.
func AnalyzeRisk(in RiskInputs) models.RiskAnalysis {
	score := float64(riskBase)
	var factors []string

	if in.Sentiment.Overall == models.SentimentNegative {
		score += 2
		factors = append(factors, "negative news sentiment")
	}
	if in.Volatility > volatilityLimit {
		score += 2
		factors = append(factors, fmt.Sprintf("elevated volatility (%.0f%% annual range)", in.Volatility*100))
	}
	if in.RSI != nil && (*in.RSI > rsiExtremeHigh || *in.RSI < rsiExtremeLow) {
		score++
		factors = append(factors, fmt.Sprintf("RSI at extreme level (%.1f)", *in.RSI))
	}
	if in.InflationHigh {
		score++
		factors = append(factors, "high inflation environment")
	}
	if in.RecentNewsNegative {
		score++
		factors = append(factors, "recent news flow negative")
	}
	if score > 10 {
		score = 10
	}

	level := "low"
	switch {
	case score >= 7:
		level = "high"
	case score > 3:
		level = "medium"
	}

	if len(factors) == 0 {
		factors = append(factors, "no elevated risk factors detected")
	}
	return models.RiskAnalysis{
		Score:   score,
		Level:   level,
		Factors: factors,
		Source:  "composite risk model",
	}
}

// rangeVolatility derives an annual volatility proxy from the 52-week
// band relative to its midpoint.
func rangeVolatility(q *models.Quote) float64 {
	low, high := q.FiftyTwoWeekRange.Low, q.FiftyTwoWeekRange.High
	if low <= 0 || high <= low {
		return 0
	}
	mid := (high + low) / 2
	return (high - low) / mid / 2
}
