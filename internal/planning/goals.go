package planning

import (
	"math"

	"github.com/finsight/finsight/pkg/models"
)

// Emergency-fund split between park-it-safe and keep-it-liquid buckets.
const (
	highYieldShare = 0.70
	liquidShare    = 0.30
)

// PlanEmergencyFund sizes the liquid reserve by risk tolerance and
// income stability proxy.
func PlanEmergencyFund(profile models.Profile) models.EmergencyFund {
	profile = NormalizeProfile(profile)

	months := 6
	switch profile.RiskTolerance {
	case models.RiskConservative:
		months += 2
	case models.RiskAggressive:
		months -= 2
	}
	switch {
	case profile.Income > highIncomeCutoff:
		months--
	case profile.Income < lowIncomeCutoff:
		months++
	}

	target := profile.MonthlyExpenses * float64(months)
	return models.EmergencyFund{
		MonthsNeeded:      months,
		TargetAmount:      round2(target),
		HighYieldSavings:  round2(target * highYieldShare),
		LiquidInvestments: round2(target * liquidShare),
	}
}

// PlanHousePurchase sizes the down-payment fund. The target price is
// anchored at four times income, a common affordability heuristic.
func PlanHousePurchase(profile models.Profile) models.HousePlan {
	profile = NormalizeProfile(profile)
	years := horizonYears(profile.TimeHorizon)

	targetPrice := profile.Income * 4
	pct := 0.15
	if profile.Income > 100_000 {
		pct = 0.20
	}
	downPayment := targetPrice * pct
	closing := targetPrice * 0.03

	annualReturn := 0.04
	if years > 5 {
		annualReturn = 0.06
	}
	monthly := annuityPayment(downPayment+closing, annualReturn/12, years*12)

	return models.HousePlan{
		TargetPrice:         round2(targetPrice),
		DownPaymentPct:      pct,
		DownPaymentTarget:   round2(downPayment),
		ClosingCosts:        round2(closing),
		Years:               years,
		ExpectedReturn:      annualReturn,
		MonthlyContribution: round2(monthly),
	}
}

// TrackGoal iterates a monthly-compounded projection toward a target,
// emitting a milestone per completed year.
func TrackGoal(currentSavings, monthlyContribution, targetAmount float64, timeframeYears int, expectedReturnPct float64) models.GoalProgress {
	if timeframeYears <= 0 {
		timeframeYears = defaultHorizonYears
	}
	monthlyRate := expectedReturnPct / 100 / 12
	months := timeframeYears * 12

	value := currentSavings
	milestones := make([]models.Milestone, 0, timeframeYears)
	for m := 1; m <= months; m++ {
		value = (value + monthlyContribution) * (1 + monthlyRate)
		if m%12 == 0 {
			milestones = append(milestones, models.Milestone{
				Year:  m / 12,
				Value: round2(value),
			})
		}
	}

	shortfall := math.Max(0, targetAmount-value)
	additional := 0.0
	if shortfall > 0 {
		additional = annuityPayment(shortfall, monthlyRate, months)
	}

	return models.GoalProgress{
		TargetAmount:            targetAmount,
		TimeframeYears:          timeframeYears,
		MonthlyContribution:     monthlyContribution,
		ProjectedFinalValue:     round2(value),
		WillReachGoal:           value >= targetAmount,
		Shortfall:               round2(shortfall),
		AdditionalMonthlyNeeded: round2(additional),
		Milestones:              milestones,
	}
}

// TrackProfileGoal derives the contribution and return from the profile
// before projecting toward the target.
func (pl *Planner) TrackProfileGoal(profile models.Profile, targetAmount float64, timeframeYears int) models.GoalProgress {
	profile = NormalizeProfile(profile)
	portfolio := AnalyzePortfolio(profile)
	return TrackGoal(profile.CurrentSavings, profile.MonthlySavings, targetAmount, timeframeYears, portfolio.ExpectedReturn)
}

// annuityPayment is the level payment growing a fund to fv over n
// periods at rate r per period. Zero rate degrades to straight division.
func annuityPayment(fv, r float64, n int) float64 {
	if n <= 0 {
		return fv
	}
	if r <= 0 {
		return fv / float64(n)
	}
	return fv * r / (math.Pow(1+r, float64(n)) - 1)
}
