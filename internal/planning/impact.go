package planning

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/finsight/finsight/pkg/models"
)

// Scenario is one named what-if: a set of profile field overrides.
type Scenario struct {
	Name    string         `json:"name"`
	Changes map[string]any `json:"changes"`
}

// AnalyzeChange recomputes portfolio and retirement before and after a
// single field change and reports the per-attribute movement.
func (pl *Planner) AnalyzeChange(field string, value any, oldProfile models.Profile) (*models.ChangeImpact, error) {
	oldProfile = NormalizeProfile(oldProfile)
	newProfile, err := applyChange(oldProfile, field, value)
	if err != nil {
		return nil, err
	}
	newProfile = NormalizeProfile(newProfile)

	oldPortfolio := AnalyzePortfolio(oldProfile)
	newPortfolio := AnalyzePortfolio(newProfile)
	oldRetirement := PlanRetirement(oldProfile, oldPortfolio.ExpectedReturn/100, 0)
	newRetirement := PlanRetirement(newProfile, newPortfolio.ExpectedReturn/100, 0)

	deltas := diffPlans(oldPortfolio, newPortfolio, oldRetirement, newRetirement)

	return &models.ChangeImpact{
		Field:    field,
		OldValue: fieldValue(oldProfile, field),
		NewValue: fieldValue(newProfile, field),
		Deltas:   deltas,
		Insights: changeInsights(field, oldProfile, newProfile, oldPortfolio, newPortfolio, oldRetirement, newRetirement),
	}, nil
}

// Simulate regenerates the plan per scenario and diffs each against the
// base plan.
func (pl *Planner) Simulate(baseProfile models.Profile, scenarios []Scenario) (*models.Plan, []models.ScenarioResult, error) {
	baseProfile = NormalizeProfile(baseProfile)
	basePlan := pl.GeneratePlan(baseProfile)

	results := make([]models.ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		profile := baseProfile
		for field, value := range sc.Changes {
			changed, err := applyChange(profile, field, value)
			if err != nil {
				return nil, nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			profile = changed
		}
		plan := pl.GeneratePlan(profile)
		results = append(results, models.ScenarioResult{
			Name: sc.Name,
			Plan: plan,
			DeltasFromBase: diffPlans(
				basePlan.PortfolioAnalysis, plan.PortfolioAnalysis,
				basePlan.RetirementPlan, plan.RetirementPlan,
			),
		})
	}
	return basePlan, results, nil
}

// applyChange sets one profile field from a loosely typed JSON value.
func applyChange(profile models.Profile, field string, value any) (models.Profile, error) {
	switch field {
	case "age":
		n, err := toFloat(value)
		if err != nil {
			return profile, fmt.Errorf("age: %w", err)
		}
		profile.Age = int(n)
	case "income":
		n, err := toFloat(value)
		if err != nil {
			return profile, fmt.Errorf("income: %w", err)
		}
		profile.Income = n
	case "currentSavings":
		n, err := toFloat(value)
		if err != nil {
			return profile, fmt.Errorf("currentSavings: %w", err)
		}
		profile.CurrentSavings = n
	case "monthlyExpenses":
		n, err := toFloat(value)
		if err != nil {
			return profile, fmt.Errorf("monthlyExpenses: %w", err)
		}
		profile.MonthlyExpenses = n
	case "monthlySavings":
		n, err := toFloat(value)
		if err != nil {
			return profile, fmt.Errorf("monthlySavings: %w", err)
		}
		profile.MonthlySavings = n
	case "riskTolerance":
		s, ok := value.(string)
		if !ok {
			return profile, fmt.Errorf("riskTolerance: expected string, got %T", value)
		}
		profile.RiskTolerance = s
	case "investmentGoal":
		s, ok := value.(string)
		if !ok {
			return profile, fmt.Errorf("investmentGoal: expected string, got %T", value)
		}
		profile.InvestmentGoal = s
	case "timeHorizon":
		s, ok := value.(string)
		if !ok {
			return profile, fmt.Errorf("timeHorizon: expected string, got %T", value)
		}
		profile.TimeHorizon = s
	default:
		return profile, fmt.Errorf("unknown profile field %q", field)
	}
	return profile, nil
}

func fieldValue(profile models.Profile, field string) any {
	switch field {
	case "age":
		return profile.Age
	case "income":
		return profile.Income
	case "currentSavings":
		return profile.CurrentSavings
	case "monthlyExpenses":
		return profile.MonthlyExpenses
	case "monthlySavings":
		return profile.MonthlySavings
	case "riskTolerance":
		return profile.RiskTolerance
	case "investmentGoal":
		return profile.InvestmentGoal
	case "timeHorizon":
		return profile.TimeHorizon
	default:
		return nil
	}
}

// diffPlans emits the attribute movements a field change drives.
func diffPlans(oldP, newP models.PortfolioAnalysis, oldR, newR models.RetirementPlan) []models.AttributeDelta {
	return []models.AttributeDelta{
		delta("stockAllocation", float64(oldP.Allocation.Stocks), float64(newP.Allocation.Stocks)),
		delta("expectedReturn", oldP.ExpectedReturn, newP.ExpectedReturn),
		delta("requiredNestEgg", oldR.RequiredNestEgg, newR.RequiredNestEgg),
		delta("projectedSavings", oldR.ProjectedSavings, newR.ProjectedSavings),
		delta("monthlySavingsNeeded", oldR.MonthlySavingsNeeded, newR.MonthlySavingsNeeded),
		delta("feasibilityScore", float64(oldR.FeasibilityScore), float64(newR.FeasibilityScore)),
	}
}

func delta(name string, oldV, newV float64) models.AttributeDelta {
	return models.AttributeDelta{
		Attribute: name,
		Old:       oldV,
		New:       newV,
		Delta:     round2(newV - oldV),
	}
}

// changeInsights phrases the impact per changed field.
func changeInsights(field string, oldProfile, newProfile models.Profile, oldP, newP models.PortfolioAnalysis, oldR, newR models.RetirementPlan) []string {
	switch field {
	case "age":
		return []string{
			fmt.Sprintf("Stock allocation moves from %d%% to %d%% as the glide path adjusts", oldP.Allocation.Stocks, newP.Allocation.Stocks),
			fmt.Sprintf("Expected portfolio return moves from %.1f%% to %.1f%%", oldP.ExpectedReturn, newP.ExpectedReturn),
			fmt.Sprintf("Monthly retirement savings needed moves from %.0f to %.0f", oldR.MonthlySavingsNeeded, newR.MonthlySavingsNeeded),
		}
	case "income":
		afterTax := (newProfile.Income - oldProfile.Income) * (1 - marginalTaxRate)
		return []string{
			fmt.Sprintf("Annual income change of %s is roughly %.0f after tax at the %.0f%% marginal rate", formatMoney(newProfile.Income-oldProfile.Income), afterTax, marginalTaxRate*100),
			fmt.Sprintf("Required nest egg moves from %.0f to %.0f", oldR.RequiredNestEgg, newR.RequiredNestEgg),
			fmt.Sprintf("Retirement feasibility moves from %d to %d", oldR.FeasibilityScore, newR.FeasibilityScore),
		}
	case "currentSavings":
		return []string{
			fmt.Sprintf("Projected savings at retirement move from %.0f to %.0f", oldR.ProjectedSavings, newR.ProjectedSavings),
			fmt.Sprintf("Retirement shortfall moves from %.0f to %.0f", oldR.Shortfall, newR.Shortfall),
		}
	case "monthlyExpenses":
		return []string{
			fmt.Sprintf("Replacement ratio moves from %.2f to %.2f", oldR.ReplacementRatio, newR.ReplacementRatio),
			fmt.Sprintf("Monthly amount available for saving moves from %.0f to %.0f", oldR.MonthlyAvailable, newR.MonthlyAvailable),
		}
	case "riskTolerance":
		return []string{
			fmt.Sprintf("Moving from %s to %s shifts stocks from %d%% to %d%%", oldProfile.RiskTolerance, newProfile.RiskTolerance, oldP.Allocation.Stocks, newP.Allocation.Stocks),
			fmt.Sprintf("Expected return moves from %.1f%% to %.1f%% with volatility %.1f%% to %.1f%%", oldP.ExpectedReturn, newP.ExpectedReturn, oldP.Volatility, newP.Volatility),
		}
	default:
		return []string{"Profile updated"}
	}
}

// toFloat coerces the loosely typed JSON values change requests carry.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

func formatMoney(v float64) string {
	if v < 0 {
		return "-" + strconv.FormatFloat(-v, 'f', 0, 64)
	}
	return "+" + strconv.FormatFloat(v, 'f', 0, 64)
}
