package analysis

import (
	"fmt"

	"github.com/finsight/finsight/pkg/models"
)

// RSI bands for overbought/oversold signals.
const (
	rsiOverbought = 70
	rsiOversold   = 30
)

// AnalyzeTechnical fuses the latest reading of each indicator into buy
// and sell signals. Nil or empty indicators are skipped.
func AnalyzeTechnical(indicators map[string]*models.TechnicalIndicator) models.TechnicalAnalysis {
	result := models.TechnicalAnalysis{
		Overall:    "neutral",
		Confidence: models.ConfidenceMedium,
		Source:     "technical indicators",
	}

	populated := 0
	for _, name := range []string{"RSI", "MACD", "SMA"} {
		indicator, ok := indicators[name]
		if !ok || indicator == nil {
			continue
		}
		latest, ok := indicator.Latest()
		if !ok {
			continue
		}
		populated++

		signal := indicatorSignal(name, latest)
		result.Signals = append(result.Signals, signal)
		switch signal.Signal {
		case "buy":
			result.BuySignals++
		case "sell":
			result.SellSignals++
		}
	}

	switch {
	case result.BuySignals > result.SellSignals:
		result.Overall = "bullish"
		result.Recommendation = "buy"
	case result.SellSignals > result.BuySignals:
		result.Overall = "bearish"
		result.Recommendation = "sell"
	default:
		result.Recommendation = "hold"
	}
	if populated >= 3 {
		result.Confidence = models.ConfidenceHigh
	}
	return result
}

func indicatorSignal(name string, latest models.IndicatorPoint) models.IndicatorSignal {
	signal := models.IndicatorSignal{
		Indicator: name,
		Value:     latest.Value,
		Signal:    "neutral",
		Strength:  "low",
	}

	switch name {
	case "RSI":
		switch {
		case latest.Value > rsiOverbought:
			signal.Signal = "sell"
			signal.Strength = "medium"
			signal.Reason = fmt.Sprintf("RSI %.1f indicates overbought conditions", latest.Value)
		case latest.Value < rsiOversold:
			signal.Signal = "buy"
			signal.Strength = "medium"
			signal.Reason = fmt.Sprintf("RSI %.1f indicates oversold conditions", latest.Value)
		default:
			signal.Reason = fmt.Sprintf("RSI %.1f is in the neutral band", latest.Value)
		}
	case "MACD":
		if latest.Histogram != nil {
			switch {
			case *latest.Histogram > 0:
				signal.Signal = "buy"
				signal.Reason = "MACD histogram positive, momentum building"
			case *latest.Histogram < 0:
				signal.Signal = "sell"
				signal.Reason = "MACD histogram negative, momentum fading"
			default:
				signal.Reason = "MACD histogram flat"
			}
		} else {
			signal.Reason = "MACD signal line unavailable"
		}
	default:
		signal.Reason = name + " tracked for trend context"
	}
	return signal
}
