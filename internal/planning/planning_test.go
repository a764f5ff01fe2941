package planning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/pkg/logger"
	"github.com/finsight/finsight/pkg/models"
)

func moderateProfile() models.Profile {
	return models.Profile{
		Age:             30,
		Income:          120_000,
		RiskTolerance:   models.RiskModerate,
		InvestmentGoal:  models.GoalRetirement,
		TimeHorizon:     "30 years",
		CurrentSavings:  10_000,
		MonthlyExpenses: 4_000,
		MonthlySavings:  2_000,
	}
}

func TestNormalizeProfileBoundaries(t *testing.T) {
	p := NormalizeProfile(models.Profile{Age: 17})
	assert.Equal(t, 18, p.Age)

	p = NormalizeProfile(models.Profile{Age: 101})
	assert.Equal(t, 100, p.Age)

	p = NormalizeProfile(models.Profile{Age: 40, RiskTolerance: "yolo", InvestmentGoal: "moon"})
	assert.Equal(t, models.RiskModerate, p.RiskTolerance)
	assert.Equal(t, models.GoalRetirement, p.InvestmentGoal)

	p = NormalizeProfile(models.Profile{Age: 40, Income: -1, CurrentSavings: -5})
	assert.Zero(t, p.Income)
	assert.Zero(t, p.CurrentSavings)
}

func TestHorizonYears(t *testing.T) {
	assert.Equal(t, 5, horizonYears("5 years"))
	assert.Equal(t, 12, horizonYears("12 years"))
	assert.Equal(t, 30, horizonYears(""))
	assert.Equal(t, 30, horizonYears("someday"))
	assert.Equal(t, 30, horizonYears("-3 years"))
}

func TestAnalyzePortfolioConservativeRetirement(t *testing.T) {
	result := AnalyzePortfolio(models.Profile{
		Age:            28,
		Income:         90_000,
		RiskTolerance:  models.RiskConservative,
		InvestmentGoal: models.GoalRetirement,
		TimeHorizon:    "30 years",
	})

	a := result.Allocation
	assert.Equal(t, 100, a.Stocks+a.Bonds+a.RealEstate+a.Cash, "allocation must sum to exactly 100")
	assert.Equal(t, 30, a.Bonds, "clamp(5,50, 36*0.7+5)")
	assert.Equal(t, 8, a.RealEstate, "income below 100k")
	assert.LessOrEqual(t, a.Stocks, 64, "conservative factor caps the age-based share")

	// Weighted return must stay inside the per-asset extremes.
	assert.Greater(t, result.ExpectedReturn, 2.0)
	assert.Less(t, result.ExpectedReturn, 10.0)
}

func TestAnalyzePortfolioAggressiveCaps(t *testing.T) {
	result := AnalyzePortfolio(models.Profile{
		Age:            25,
		Income:         200_000,
		RiskTolerance:  models.RiskAggressive,
		InvestmentGoal: models.GoalWealthBuilding,
		TimeHorizon:    "30 years",
	})

	a := result.Allocation
	assert.LessOrEqual(t, a.Stocks, 90, "stock share is capped")
	assert.GreaterOrEqual(t, a.Stocks, 80)
	assert.Equal(t, 100, a.Stocks+a.Bonds+a.RealEstate+a.Cash)
	assert.Equal(t, 12, a.RealEstate, "income above 100k")
	assert.Equal(t, "High", result.RiskLevel)
}

func TestAnalyzePortfolioEmergencyFundGoalIsDefensive(t *testing.T) {
	base := AnalyzePortfolio(models.Profile{
		Age: 35, Income: 80_000, RiskTolerance: models.RiskModerate,
		InvestmentGoal: models.GoalRetirement, TimeHorizon: "20 years",
	})
	defensive := AnalyzePortfolio(models.Profile{
		Age: 35, Income: 80_000, RiskTolerance: models.RiskModerate,
		InvestmentGoal: models.GoalEmergencyFund, TimeHorizon: "20 years",
	})

	assert.Less(t, defensive.Allocation.Stocks, base.Allocation.Stocks)
	assert.Less(t, defensive.ExpectedReturn, base.ExpectedReturn)
	assert.Equal(t, 100, defensive.Allocation.Stocks+defensive.Allocation.Bonds+defensive.Allocation.RealEstate+defensive.Allocation.Cash)
}

func TestPlanRetirementFeasibility(t *testing.T) {
	profile := moderateProfile()
	plan := PlanRetirement(profile, 0.088, 0)

	assert.Equal(t, 30, plan.YearsToRetirement)
	assert.InDelta(t, 0.6, plan.ReplacementRatio, 1e-9, "48000/120000 clamps up to the floor")
	assert.InDelta(t, 48_000, plan.AnnualNeedToday, 0.01)

	inflated := 48_000 * math.Pow(1.025, 30)
	assert.InDelta(t, inflated, plan.InflatedAnnualNeed, 0.01)
	assert.InDelta(t, 0.04, plan.WithdrawalRate, 1e-9)
	assert.InDelta(t, inflated/0.04/(1-0.12), plan.RequiredNestEgg, 0.01)

	projected := 10_000 * math.Pow(1.088, 30)
	assert.InDelta(t, projected, plan.ProjectedSavings, 0.01)
	assert.InDelta(t, 6_000, plan.MonthlyAvailable, 0.01, "10000 income minus 4000 expenses")
	assert.Greater(t, plan.MonthlySavingsNeeded, 0.0)
}

func TestPlanRetirementDefaultRatioWithoutExpenses(t *testing.T) {
	plan := PlanRetirement(models.Profile{
		Age: 40, Income: 100_000, RiskTolerance: models.RiskModerate,
		InvestmentGoal: models.GoalRetirement, TimeHorizon: "25 years",
	}, 0.08, 0)

	assert.InDelta(t, 0.8, plan.ReplacementRatio, 1e-9)
	assert.InDelta(t, 80_000, plan.AnnualNeedToday, 0.01)
	assert.InDelta(t, 0.035, plan.WithdrawalRate, 1e-9, "horizon between 20 and 30 years")
	assert.InDelta(t, 100_000/12.0*0.2, plan.MonthlyAvailable, 0.01)
}

func TestPlanRetirementIncomeAdjustments(t *testing.T) {
	high := PlanRetirement(models.Profile{
		Age: 40, Income: 200_000, TimeHorizon: "25 years",
	}, 0.08, 0)
	assert.InDelta(t, 0.8*0.85, high.ReplacementRatio, 1e-9)

	low := PlanRetirement(models.Profile{
		Age: 40, Income: 40_000, TimeHorizon: "25 years",
	}, 0.08, 0)
	assert.InDelta(t, 0.8*1.10, low.ReplacementRatio, 1e-9)
}

func TestPlanRetirementExternalAssets(t *testing.T) {
	profile := moderateProfile()
	without := PlanRetirement(profile, 0.08, 0)
	with := PlanRetirement(profile, 0.08, 50_000)

	assert.Greater(t, with.ProjectedSavings, without.ProjectedSavings)
	assert.LessOrEqual(t, with.Shortfall, without.Shortfall)
}

func TestPlanEmergencyFund(t *testing.T) {
	cautious := PlanEmergencyFund(models.Profile{
		Age: 30, Income: 40_000, RiskTolerance: models.RiskConservative,
		MonthlyExpenses: 2_000, TimeHorizon: "10 years",
	})
	assert.Equal(t, 9, cautious.MonthsNeeded, "6 + conservative 2 + low income 1")
	assert.InDelta(t, 18_000, cautious.TargetAmount, 0.01)
	assert.InDelta(t, 12_600, cautious.HighYieldSavings, 0.01)
	assert.InDelta(t, 5_400, cautious.LiquidInvestments, 0.01)

	bold := PlanEmergencyFund(models.Profile{
		Age: 30, Income: 200_000, RiskTolerance: models.RiskAggressive,
		MonthlyExpenses: 5_000, TimeHorizon: "10 years",
	})
	assert.Equal(t, 3, bold.MonthsNeeded, "6 - aggressive 2 - high income 1")
}

func TestPlanHousePurchase(t *testing.T) {
	plan := PlanHousePurchase(models.Profile{
		Age: 32, Income: 120_000, RiskTolerance: models.RiskModerate,
		InvestmentGoal: models.GoalHouse, TimeHorizon: "10 years",
	})

	assert.InDelta(t, 480_000, plan.TargetPrice, 0.01, "four times income")
	assert.InDelta(t, 0.20, plan.DownPaymentPct, 1e-9)
	assert.InDelta(t, 96_000, plan.DownPaymentTarget, 0.01)
	assert.InDelta(t, 14_400, plan.ClosingCosts, 0.01)
	assert.InDelta(t, 0.06, plan.ExpectedReturn, 1e-9, "horizons past 5 years earn the higher rate")

	r := 0.06 / 12
	want := (96_000 + 14_400) * r / (math.Pow(1+r, 120) - 1)
	assert.InDelta(t, want, plan.MonthlyContribution, 0.01)

	short := PlanHousePurchase(models.Profile{
		Age: 32, Income: 80_000, RiskTolerance: models.RiskModerate,
		InvestmentGoal: models.GoalHouse, TimeHorizon: "4 years",
	})
	assert.InDelta(t, 0.15, short.DownPaymentPct, 1e-9)
	assert.InDelta(t, 0.04, short.ExpectedReturn, 1e-9)
}

func TestTrackGoalMatchesClosedForm(t *testing.T) {
	progress := TrackGoal(10_000, 500, 100_000, 10, 6.0)

	r := 0.06 / 12
	months := 120.0
	want := 10_000*math.Pow(1+r, months) + 500*(1+r)*(math.Pow(1+r, months)-1)/r
	assert.InDelta(t, want, progress.ProjectedFinalValue, 0.5)

	require.Len(t, progress.Milestones, 10)
	assert.Equal(t, 1, progress.Milestones[0].Year)
	assert.Equal(t, 10, progress.Milestones[9].Year)
	assert.InDelta(t, progress.ProjectedFinalValue, progress.Milestones[9].Value, 0.01)
	assert.True(t, progress.WillReachGoal)
	assert.Zero(t, progress.Shortfall)
	assert.Zero(t, progress.AdditionalMonthlyNeeded)
}

func TestTrackGoalShortfall(t *testing.T) {
	progress := TrackGoal(0, 100, 1_000_000, 10, 6.0)

	assert.False(t, progress.WillReachGoal)
	assert.Greater(t, progress.Shortfall, 0.0)

	r := 0.06 / 12
	want := progress.Shortfall * r / (math.Pow(1+r, 120) - 1)
	assert.InDelta(t, want, progress.AdditionalMonthlyNeeded, 0.5)
}

func TestTrackGoalZeroReturn(t *testing.T) {
	progress := TrackGoal(0, 0, 1_200, 1, 0)

	assert.False(t, progress.WillReachGoal)
	assert.InDelta(t, 1_200, progress.Shortfall, 0.01)
	assert.InDelta(t, 100, progress.AdditionalMonthlyNeeded, 0.01, "shortfall spread over 12 months")
}

func TestScoreHealthGrades(t *testing.T) {
	score := ScoreHealth(
		moderateProfile(),
		models.CurrentFinancials{LiquidSavings: 24_000, SavingsRate: 0.2},
		models.EmergencyFund{TargetAmount: 24_000, MonthsNeeded: 6},
		models.RetirementPlan{ProjectedSavings: 500_000, RequiredNestEgg: 1_000_000},
	)

	// 20 emergency + 12.5 retirement + 20 debt + 8 savings + 15 diversification.
	assert.InDelta(t, 75.5, score.TotalScore, 0.01)
	assert.Equal(t, "B", score.Grade)
	require.Len(t, score.Factors, 5)
	assert.Equal(t, "Emergency Fund", score.Factors[0].Name)
}

func TestScoreHealthGradeBands(t *testing.T) {
	perfect := ScoreHealth(
		moderateProfile(),
		models.CurrentFinancials{LiquidSavings: 50_000, SavingsRate: 0.5},
		models.EmergencyFund{TargetAmount: 24_000},
		models.RetirementPlan{ProjectedSavings: 2, RequiredNestEgg: 1},
	)
	assert.Equal(t, "A+", perfect.Grade)

	broke := ScoreHealth(
		moderateProfile(),
		models.CurrentFinancials{DebtRatio: 0.6},
		models.EmergencyFund{TargetAmount: 24_000},
		models.RetirementPlan{ProjectedSavings: 0, RequiredNestEgg: 1_000_000},
	)
	assert.Less(t, broke.TotalScore, 50.0)
	assert.Equal(t, "F", broke.Grade)
}

func TestGeneratePlanComposition(t *testing.T) {
	pl := New(logger.Nop())
	plan := pl.GeneratePlan(moderateProfile())

	a := plan.PortfolioAnalysis.Allocation
	assert.Equal(t, 100, a.Stocks+a.Bonds+a.RealEstate+a.Cash)
	assert.Nil(t, plan.HousePlan, "house plan only for the House goal")
	assert.NotEmpty(t, plan.Recommendations)
	assert.Len(t, plan.Projections, 30)
	assert.Equal(t, 31, plan.Projections[0].Age)
	assert.Greater(t, plan.Projections[29].ProjectedValue, plan.Projections[0].ProjectedValue)
	assert.Greater(t, plan.HealthScore.TotalScore, 0.0)

	house := moderateProfile()
	house.InvestmentGoal = models.GoalHouse
	withHouse := pl.GeneratePlan(house)
	require.NotNil(t, withHouse.HousePlan)
	assert.InDelta(t, 480_000, withHouse.HousePlan.TargetPrice, 0.01)
}

func TestGeneratePlanDeterministic(t *testing.T) {
	pl := New(logger.Nop())
	first := pl.GeneratePlan(moderateProfile())
	second := pl.GeneratePlan(moderateProfile())

	assert.Equal(t, first.PortfolioAnalysis, second.PortfolioAnalysis)
	assert.Equal(t, first.RetirementPlan, second.RetirementPlan)
	assert.Equal(t, first.HealthScore, second.HealthScore)
	assert.Equal(t, first.Projections, second.Projections)
}

func TestAnalyzeChangeAge(t *testing.T) {
	pl := New(logger.Nop())
	impact, err := pl.AnalyzeChange("age", 45, moderateProfile())
	require.NoError(t, err)

	assert.Equal(t, "age", impact.Field)
	assert.Equal(t, 30, impact.OldValue)
	assert.Equal(t, 45, impact.NewValue)

	byName := map[string]models.AttributeDelta{}
	for _, d := range impact.Deltas {
		byName[d.Attribute] = d
	}
	assert.Less(t, byName["stockAllocation"].Delta, 0.0, "older profile holds fewer stocks")
	assert.Less(t, byName["expectedReturn"].Delta, 0.0)
	assert.Greater(t, byName["monthlySavingsNeeded"].Delta, 0.0, "lower return means more saving")

	require.NotEmpty(t, impact.Insights)
	assert.Contains(t, impact.Insights[0], "Stock allocation")
}

func TestAnalyzeChangeRiskTolerance(t *testing.T) {
	pl := New(logger.Nop())
	impact, err := pl.AnalyzeChange("riskTolerance", models.RiskAggressive, moderateProfile())
	require.NoError(t, err)

	byName := map[string]models.AttributeDelta{}
	for _, d := range impact.Deltas {
		byName[d.Attribute] = d
	}
	assert.GreaterOrEqual(t, byName["stockAllocation"].Delta, 0.0)
	assert.Contains(t, impact.Insights[0], models.RiskAggressive)
}

func TestAnalyzeChangeUnknownField(t *testing.T) {
	pl := New(logger.Nop())
	_, err := pl.AnalyzeChange("shoeSize", 11, moderateProfile())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown profile field")

	_, err = pl.AnalyzeChange("riskTolerance", 3, moderateProfile())
	require.Error(t, err)
}

func TestAnalyzeChangeDefaultInsight(t *testing.T) {
	pl := New(logger.Nop())
	impact, err := pl.AnalyzeChange("timeHorizon", "10 years", moderateProfile())
	require.NoError(t, err)
	assert.Equal(t, []string{"Profile updated"}, impact.Insights)
}

func TestSimulateScenarios(t *testing.T) {
	pl := New(logger.Nop())
	base, results, err := pl.Simulate(moderateProfile(), []Scenario{
		{Name: "raise", Changes: map[string]any{"income": 150_000.0}},
		{Name: "early retirement", Changes: map[string]any{"timeHorizon": "20 years", "monthlySavings": 4_000.0}},
	})
	require.NoError(t, err)
	require.NotNil(t, base)
	require.Len(t, results, 2)

	assert.Equal(t, "raise", results[0].Name)
	assert.InDelta(t, 150_000, results[0].Plan.Profile.Income, 0.01)
	assert.NotEmpty(t, results[0].DeltasFromBase)

	assert.Equal(t, 20, results[1].Plan.RetirementPlan.YearsToRetirement)
}

func TestSimulateBadScenario(t *testing.T) {
	pl := New(logger.Nop())
	_, _, err := pl.Simulate(moderateProfile(), []Scenario{
		{Name: "broken", Changes: map[string]any{"age": "not a number"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestTrackProfileGoal(t *testing.T) {
	pl := New(logger.Nop())
	progress := pl.TrackProfileGoal(moderateProfile(), 500_000, 15)

	assert.Equal(t, 15, progress.TimeframeYears)
	assert.InDelta(t, 2_000, progress.MonthlyContribution, 0.01)
	assert.Len(t, progress.Milestones, 15)
}
