package planning

import (
	"math"

	"github.com/finsight/finsight/pkg/models"
)

// Allocation tuning.
const (
	stocksFloor = 60
	stocksCap   = 90
	bondsFloor  = 5
	bondsCap    = 50
)

// riskFactors scale the age-based stock share.
var riskFactors = map[string]float64{
	models.RiskConservative: 0.7,
	models.RiskModerate:     1.0,
	models.RiskAggressive:   1.3,
}

// goalDelta shifts the allocation toward a goal's liquidity needs.
type goalDelta struct {
	stocks int
	bonds  int
	cash   int
}

var goalDeltas = map[string]goalDelta{
	models.GoalRetirement:     {stocks: 0, bonds: 5, cash: -3},
	models.GoalHouse:          {stocks: -10, bonds: 5, cash: 5},
	models.GoalEducation:      {stocks: -5, bonds: 0, cash: 5},
	models.GoalEmergencyFund:  {stocks: -20, bonds: 10, cash: 10},
	models.GoalWealthBuilding: {stocks: 5, bonds: -5, cash: 0},
}

// AnalyzePortfolio derives the integer allocation and its statistics.
// Components always sum to exactly 100; the rounding residual lands in
// cash, and a negative residual comes out of stocks.
func AnalyzePortfolio(profile models.Profile) models.PortfolioAnalysis {
	profile = NormalizeProfile(profile)
	delta := goalDeltas[profile.InvestmentGoal]

	base := 120 - profile.Age
	if base < stocksFloor {
		base = stocksFloor
	}
	stocks := int(math.Round(float64(base) * riskFactors[profile.RiskTolerance]))
	if stocks > stocksCap {
		stocks = stocksCap
	}
	stocks += delta.stocks
	if stocks > stocksCap {
		stocks = stocksCap
	}
	if stocks < 0 {
		stocks = 0
	}

	bonds := int(math.Round(clampf(bondsFloor, bondsCap, float64(100-stocks)*0.7+float64(delta.bonds))))

	realEstate := 8
	if profile.Income > 100_000 {
		realEstate = 12
	}

	// The goal's cash shift comes out of stocks so the four components
	// keep summing to exactly 100; a negative residual also lands on
	// stocks, never on cash.
	cash := 100 - stocks - bonds - realEstate + delta.cash
	stocks -= delta.cash
	if cash < 0 {
		stocks += cash
		cash = 0
	}
	if stocks < 0 {
		cash += stocks
		stocks = 0
	}

	allocation := models.Allocation{
		Stocks:     stocks,
		Bonds:      bonds,
		RealEstate: realEstate,
		Cash:       cash,
	}

	expectedReturn := weighted(allocation, returnStocks, returnBonds, returnRealEstate, returnCash)
	volatility := weighted(allocation, volStocks, volBonds, volRealEstate, volCash)

	riskLevel := "High"
	switch {
	case volatility < 8:
		riskLevel = "Low"
	case volatility < 15:
		riskLevel = "Medium"
	}

	return models.PortfolioAnalysis{
		Allocation:     allocation,
		ExpectedReturn: round1(expectedReturn),
		Volatility:     round1(volatility),
		RiskLevel:      riskLevel,
	}
}

// weighted computes the allocation-weighted percentage of a per-asset rate.
func weighted(a models.Allocation, stocks, bonds, realEstate, cash float64) float64 {
	return float64(a.Stocks)*stocks + float64(a.Bonds)*bonds +
		float64(a.RealEstate)*realEstate + float64(a.Cash)*cash
}
