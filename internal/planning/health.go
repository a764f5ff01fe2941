package planning

import (
	"fmt"
	"math"

	"github.com/finsight/finsight/pkg/models"
)

// AssessFinancials derives the present-day ratios the health score
// consumes. The profile carries no debt input, so the debt ratio is
// zero until a banking link supplies liabilities.
func AssessFinancials(profile models.Profile) models.CurrentFinancials {
	profile = NormalizeProfile(profile)
	monthlyIncome := profile.Income / 12

	savingsRate := 0.0
	if monthlyIncome > 0 {
		savingsRate = profile.MonthlySavings / monthlyIncome
	}
	emergencyMonths := 0.0
	if profile.MonthlyExpenses > 0 {
		emergencyMonths = profile.CurrentSavings / profile.MonthlyExpenses
	}

	return models.CurrentFinancials{
		MonthlyIncome:   round2(monthlyIncome),
		MonthlyExpenses: round2(profile.MonthlyExpenses),
		MonthlySurplus:  round2(monthlyIncome - profile.MonthlyExpenses),
		SavingsRate:     round2(savingsRate),
		DebtRatio:       0,
		LiquidSavings:   round2(profile.CurrentSavings),
		EmergencyMonths: round2(emergencyMonths),
	}
}

// ScoreHealth sums the five weighted factors into the 0-100 composite.
func ScoreHealth(profile models.Profile, financials models.CurrentFinancials, emergency models.EmergencyFund, retirement models.RetirementPlan) models.HealthScore {
	factors := make([]models.HealthFactor, 0, 5)

	efCoverage := 1.0
	if emergency.TargetAmount > 0 {
		efCoverage = math.Min(1, financials.LiquidSavings/emergency.TargetAmount)
	}
	factors = append(factors, models.HealthFactor{
		Name:     "Emergency Fund",
		Score:    round2(20 * efCoverage),
		MaxScore: 20,
		Detail:   fmt.Sprintf("%.1f of %d months covered", financials.EmergencyMonths, emergency.MonthsNeeded),
	})

	readiness := 1.0
	if retirement.RequiredNestEgg > 0 {
		readiness = math.Min(1, retirement.ProjectedSavings/retirement.RequiredNestEgg)
	}
	factors = append(factors, models.HealthFactor{
		Name:     "Retirement Readiness",
		Score:    round2(25 * readiness),
		MaxScore: 25,
		Detail:   fmt.Sprintf("projected %.0f against %.0f required", retirement.ProjectedSavings, retirement.RequiredNestEgg),
	})

	factors = append(factors, models.HealthFactor{
		Name:     "Debt Management",
		Score:    round2(math.Max(0, 20-financials.DebtRatio*40)),
		MaxScore: 20,
	})

	factors = append(factors, models.HealthFactor{
		Name:     "Savings Rate",
		Score:    round2(math.Min(20, financials.SavingsRate*40)),
		MaxScore: 20,
		Detail:   fmt.Sprintf("saving %.0f%% of income", financials.SavingsRate*100),
	})

	// Constant until holdings-level data feeds a concentration measure.
	factors = append(factors, models.HealthFactor{
		Name:     "Portfolio Diversification",
		Score:    15,
		MaxScore: 15,
	})

	total := 0.0
	for _, f := range factors {
		total += f.Score
	}
	total = round2(total)

	grade := "F"
	switch {
	case total >= 90:
		grade = "A+"
	case total >= 80:
		grade = "A"
	case total >= 70:
		grade = "B"
	case total >= 60:
		grade = "C"
	case total >= 50:
		grade = "D"
	}

	return models.HealthScore{
		TotalScore: total,
		Grade:      grade,
		Factors:    factors,
	}
}
