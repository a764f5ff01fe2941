package analysis

import (
	"fmt"

	"github.com/finsight/finsight/pkg/models"
)

// Fundamental scoring thresholds.
const (
	peCheap        = 15
	peExpensive    = 30
	marginStrong   = 0.15
	marginWeak     = 0.05
	metricsForHigh = 4
)

// AnalyzeFundamental scores the overview metrics. A nil overview yields
// the neutral low-confidence result.
func AnalyzeFundamental(overview *models.CompanyOverview) models.FundamentalAnalysis {
	result := models.FundamentalAnalysis{
		Overall:    "neutral",
		Confidence: models.ConfidenceLow,
		Source:     "company overview",
	}
	if overview == nil {
		return result
	}

	metrics := []*float64{
		overview.PERatio, overview.PEGRatio, overview.PriceToBookRatio,
		overview.DividendYield, overview.ProfitMargin, overview.DebtToEquityRatio,
	}
	for _, m := range metrics {
		if m != nil {
			result.MetricsUsed++
		}
	}
	if result.MetricsUsed >= metricsForHigh {
		result.Confidence = models.ConfidenceHigh
	} else if result.MetricsUsed > 0 {
		result.Confidence = models.ConfidenceMedium
	}

	if pe := overview.PERatio; pe != nil {
		switch {
		case *pe < peCheap:
			result.Positives = append(result.Positives, fmt.Sprintf("P/E %.1f suggests attractive valuation", *pe))
		case *pe > peExpensive:
			result.Negatives = append(result.Negatives, fmt.Sprintf("P/E %.1f suggests stretched valuation", *pe))
		}
	}
	if pm := overview.ProfitMargin; pm != nil {
		switch {
		case *pm > marginStrong:
			result.Positives = append(result.Positives, fmt.Sprintf("profit margin %.1f%% is strong", *pm*100))
		case *pm < marginWeak:
			result.Negatives = append(result.Negatives, fmt.Sprintf("profit margin %.1f%% is thin", *pm*100))
		}
	}

	switch {
	case len(result.Positives) > len(result.Negatives):
		result.Overall = "strong"
	case len(result.Negatives) > len(result.Positives):
		result.Overall = "weak"
	}
	return result
}
