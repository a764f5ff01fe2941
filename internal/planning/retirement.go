package planning

import (
	"math"

	"github.com/finsight/finsight/pkg/models"
)

// Replacement-ratio bounds and income adjustments.
const (
	replacementFloor   = 0.6
	replacementCeiling = 0.9
	replacementDefault = 0.8
	highIncomeCutoff   = 150_000
	lowIncomeCutoff    = 50_000
)

// PlanRetirement projects the nest egg required at the end of the
// profile's horizon. externalAssets covers linked account balances and
// may be zero.
func PlanRetirement(profile models.Profile, portfolioReturn float64, externalAssets float64) models.RetirementPlan {
	profile = NormalizeProfile(profile)
	years := horizonYears(profile.TimeHorizon)

	ratio := replacementDefault
	if profile.MonthlyExpenses > 0 && profile.Income > 0 {
		ratio = clampf(replacementFloor, replacementCeiling, 12*profile.MonthlyExpenses/profile.Income)
	}
	switch {
	case profile.Income > highIncomeCutoff:
		ratio *= 0.85
	case profile.Income < lowIncomeCutoff:
		ratio *= 1.10
	}

	// Spending, when known, anchors the need directly; the replacement
	// ratio covers profiles that report income only.
	annualNeed := profile.Income * ratio
	if profile.MonthlyExpenses > 0 {
		annualNeed = 12 * profile.MonthlyExpenses
	}
	inflatedNeed := annualNeed * math.Pow(1+inflationRate, float64(years))

	withdrawalRate := 0.03
	switch {
	case years >= 30:
		withdrawalRate = 0.04
	case years > 20:
		withdrawalRate = 0.035
	}

	requiredNestEgg := inflatedNeed / withdrawalRate / (1 - retirementTax)
	projected := (profile.CurrentSavings + externalAssets) * math.Pow(1+portfolioReturn, float64(years))
	shortfall := math.Max(0, requiredNestEgg-projected)

	annualSavingsNeeded := 0.0
	if shortfall > 0 && portfolioReturn > 0 {
		annualSavingsNeeded = shortfall * portfolioReturn / (math.Pow(1+portfolioReturn, float64(years)) - 1)
	} else if shortfall > 0 {
		annualSavingsNeeded = shortfall / float64(years)
	}
	monthlyNeeded := annualSavingsNeeded / 12

	monthlyAvailable := profile.Income / 12 * 0.2
	if profile.MonthlyExpenses > 0 {
		monthlyAvailable = profile.Income/12 - profile.MonthlyExpenses
	}

	feasibility := 100
	if monthlyNeeded > 0 {
		feasibility = int(clampf(0, 100, math.Round(100*monthlyAvailable/monthlyNeeded)))
	}

	return models.RetirementPlan{
		YearsToRetirement:    years,
		ReplacementRatio:     round2(ratio),
		AnnualNeedToday:      round2(annualNeed),
		InflatedAnnualNeed:   round2(inflatedNeed),
		WithdrawalRate:       withdrawalRate,
		RequiredNestEgg:      round2(requiredNestEgg),
		ProjectedSavings:     round2(projected),
		Shortfall:            round2(shortfall),
		AnnualSavingsNeeded:  round2(annualSavingsNeeded),
		MonthlySavingsNeeded: round2(monthlyNeeded),
		MonthlyAvailable:     round2(monthlyAvailable),
		FeasibilityScore:     feasibility,
		IsRealistic:          monthlyAvailable >= 0.8*monthlyNeeded,
	}
}
