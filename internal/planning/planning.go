// Package planning implements the financial-planning engine: pure
// deterministic routines mapping a profile into an allocation,
// retirement projection, emergency-fund target, goal tracking, change
// impact, and a health score. Nothing here touches the network.
package planning

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/pkg/models"
)

// Model constants. Illustrative published values, not advice.
const (
	inflationRate    = 0.025
	marginalTaxRate  = 0.22
	capitalGainsRate = 0.15
	retirementTax    = 0.12

	returnStocks     = 0.10
	returnBonds      = 0.04
	returnRealEstate = 0.08
	returnCash       = 0.02

	volStocks     = 0.20
	volBonds      = 0.05
	volRealEstate = 0.15
	volCash       = 0.01
)

// Profile boundaries.
const (
	minAge              = 18
	maxAge              = 100
	defaultHorizonYears = 30
)

// Planner is the planning engine. All computations are pure; the logger
// only records what was asked for.
type Planner struct {
	log zerolog.Logger
}

// New creates the planner.
func New(log zerolog.Logger) *Planner {
	return &Planner{log: log.With().Str("service", "financial-planning").Logger()}
}

// NormalizeProfile clamps out-of-range fields to documented defaults.
// Invalid input is repaired, never rejected.
func NormalizeProfile(p models.Profile) models.Profile {
	if p.Age < minAge {
		p.Age = minAge
	}
	if p.Age > maxAge {
		p.Age = maxAge
	}
	if p.Income < 0 {
		p.Income = 0
	}
	if p.CurrentSavings < 0 {
		p.CurrentSavings = 0
	}
	if p.MonthlyExpenses < 0 {
		p.MonthlyExpenses = 0
	}
	if p.MonthlySavings < 0 {
		p.MonthlySavings = 0
	}
	switch p.RiskTolerance {
	case models.RiskConservative, models.RiskModerate, models.RiskAggressive:
	default:
		p.RiskTolerance = models.RiskModerate
	}
	switch p.InvestmentGoal {
	case models.GoalRetirement, models.GoalHouse, models.GoalEducation,
		models.GoalEmergencyFund, models.GoalWealthBuilding:
	default:
		p.InvestmentGoal = models.GoalRetirement
	}
	p.TimeHorizon = fmt.Sprintf("%d years", horizonYears(p.TimeHorizon))
	return p
}

// horizonYears parses the "N years" horizon string, defaulting to 30.
func horizonYears(horizon string) int {
	fields := strings.Fields(strings.TrimSpace(horizon))
	if len(fields) == 0 {
		return defaultHorizonYears
	}
	years, err := strconv.Atoi(fields[0])
	if err != nil || years <= 0 {
		return defaultHorizonYears
	}
	return years
}

// GeneratePlan runs the full engine for one profile. Same profile in,
// byte-identical plan out, except for the LastUpdated stamp.
func (pl *Planner) GeneratePlan(profile models.Profile) *models.Plan {
	profile = NormalizeProfile(profile)
	pl.log.Debug().Int("age", profile.Age).Str("goal", profile.InvestmentGoal).Msg("generating plan")

	portfolio := AnalyzePortfolio(profile)
	retirement := PlanRetirement(profile, portfolio.ExpectedReturn/100, 0)
	emergency := PlanEmergencyFund(profile)
	financials := AssessFinancials(profile)

	var house *models.HousePlan
	if profile.InvestmentGoal == models.GoalHouse {
		h := PlanHousePurchase(profile)
		house = &h
	}

	health := ScoreHealth(profile, financials, emergency, retirement)

	return &models.Plan{
		Profile:           profile,
		PortfolioAnalysis: portfolio,
		RetirementPlan:    retirement,
		EmergencyFund:     emergency,
		HousePlan:         house,
		CurrentFinancials: financials,
		Recommendations:   buildRecommendations(profile, retirement, emergency, financials),
		HealthScore:       health,
		Projections:       ProjectSavings(profile, portfolio.ExpectedReturn/100),
		LastUpdated:       time.Now().UTC(),
	}
}

// ProjectSavings compounds current savings plus yearly contributions at
// the portfolio return over the profile's horizon.
func ProjectSavings(profile models.Profile, annualReturn float64) []models.Projection {
	years := horizonYears(profile.TimeHorizon)
	value := profile.CurrentSavings
	contributed := profile.CurrentSavings
	projections := make([]models.Projection, 0, years)
	for year := 1; year <= years; year++ {
		value = (value + profile.MonthlySavings*12) * (1 + annualReturn)
		contributed += profile.MonthlySavings * 12
		projections = append(projections, models.Projection{
			Year:           year,
			Age:            profile.Age + year,
			ProjectedValue: round2(value),
			Contributions:  round2(contributed),
		})
	}
	return projections
}

// buildRecommendations derives the advisory bullet list from the plan
// components.
func buildRecommendations(profile models.Profile, retirement models.RetirementPlan, emergency models.EmergencyFund, financials models.CurrentFinancials) []string {
	var recs []string

	if financials.LiquidSavings < emergency.TargetAmount {
		recs = append(recs, fmt.Sprintf("Build your emergency fund to %.0f (%d months of expenses) before increasing market exposure", emergency.TargetAmount, emergency.MonthsNeeded))
	}
	if !retirement.IsRealistic {
		recs = append(recs, fmt.Sprintf("Retirement plan needs %.0f/month but only %.0f/month is available; consider extending the horizon or raising income", retirement.MonthlySavingsNeeded, retirement.MonthlyAvailable))
	}
	if financials.SavingsRate < 0.15 && financials.MonthlyIncome > 0 {
		recs = append(recs, fmt.Sprintf("Savings rate is %.0f%%; aim for at least 15%% of income", financials.SavingsRate*100))
	}
	if profile.RiskTolerance == models.RiskAggressive && profile.Age > 55 {
		recs = append(recs, "Aggressive allocation past age 55 leaves little recovery time after a drawdown; consider stepping down risk")
	}
	if profile.InvestmentGoal == models.GoalWealthBuilding {
		recs = append(recs, fmt.Sprintf("Hold appreciating assets over a year where possible; long-term gains are taxed at %.0f%% versus %.0f%% marginal", capitalGainsRate*100, marginalTaxRate*100))
	}
	if len(recs) == 0 {
		recs = append(recs, "Plan is on track; review annually or after major life changes")
	}
	return recs
}

func clampf(min, max, v float64) float64 {
	return math.Max(min, math.Min(max, v))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
