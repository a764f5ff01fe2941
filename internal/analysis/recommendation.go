package analysis

import (
	"fmt"
	"math"

	"github.com/finsight/finsight/pkg/models"
)

// EconContext is the macro backdrop feeding the recommendation: +1
// supportive, -1 adverse, 0 mixed or unknown.
type EconContext int

// Macro backdrop classifications.
const (
	EconMixed      EconContext = 0
	EconSupportive EconContext = 1
	EconAdverse    EconContext = -1
)

// Recommend fuses the sub-analyses into a weighted 0-10 score starting
// from neutral 5.
func Recommend(quote *models.Quote, sentiment models.SentimentAnalysis, technical models.TechnicalAnalysis, fundamental models.FundamentalAnalysis, risk models.RiskAnalysis, econ EconContext) models.Recommendation {
	score := 5.0
	var reasoning []string

	switch sentiment.Overall {
	case models.SentimentPositive:
		score += 1.5
		reasoning = append(reasoning, "news sentiment is positive")
	case models.SentimentNegative:
		score -= 1.5
		reasoning = append(reasoning, "news sentiment is negative")
	}

	switch technical.Overall {
	case "bullish":
		score++
		reasoning = append(reasoning, fmt.Sprintf("technical picture bullish (%d buy vs %d sell signals)", technical.BuySignals, technical.SellSignals))
	case "bearish":
		score--
		reasoning = append(reasoning, fmt.Sprintf("technical picture bearish (%d sell vs %d buy signals)", technical.SellSignals, technical.BuySignals))
	}

	switch fundamental.Overall {
	case "strong":
		score++
		reasoning = append(reasoning, "fundamentals are strong")
	case "weak":
		score--
		reasoning = append(reasoning, "fundamentals are weak")
	}

	switch risk.Level {
	case "low":
		score += 0.5
		reasoning = append(reasoning, "risk profile is low")
	case "high":
		score--
		reasoning = append(reasoning, "risk profile is high")
	}

	switch econ {
	case EconSupportive:
		score += 0.5
		reasoning = append(reasoning, "macro backdrop supportive")
	case EconAdverse:
		score -= 0.5
		reasoning = append(reasoning, "macro backdrop adverse")
	}

	score = math.Max(0, math.Min(10, score))

	action := "HOLD"
	confidence := models.ConfidenceMedium
	switch {
	case score >= 7:
		action = "BUY"
		confidence = models.ConfidenceHigh
	case score <= 3:
		action = "SELL"
		confidence = models.ConfidenceHigh
	}
	if len(reasoning) == 0 {
		reasoning = append(reasoning, "no strong signals in either direction")
	}

	target := 0.0
	if quote != nil {
		target = math.Round(quote.CurrentPrice*(1+(score-5)*0.1)*100) / 100
	}
	return models.Recommendation{
		Action:      action,
		Score:       score,
		Confidence:  confidence,
		TargetPrice: target,
		Reasoning:   reasoning,
	}
}
