package models

import "time"

// Risk tolerance levels.
const (
	RiskConservative = "Conservative"
	RiskModerate     = "Moderate"
	RiskAggressive   = "Aggressive"
)

// Investment goals.
const (
	GoalRetirement     = "Retirement"
	GoalHouse          = "House"
	GoalEducation      = "Education"
	GoalEmergencyFund  = "EmergencyFund"
	GoalWealthBuilding = "WealthBuilding"
)

// Profile is the financial-planning input. Out-of-range fields are
// clamped to defaults by planning.NormalizeProfile, never rejected.
type Profile struct {
	Age             int     `json:"age"`
	Income          float64 `json:"income"`
	RiskTolerance   string  `json:"riskTolerance"`
	InvestmentGoal  string  `json:"investmentGoal"`
	TimeHorizon     string  `json:"timeHorizon"` // "<N> years"
	CurrentSavings  float64 `json:"currentSavings"`
	MonthlyExpenses float64 `json:"monthlyExpenses"`
	MonthlySavings  float64 `json:"monthlySavings"`
}

// Allocation holds integer portfolio percentages summing to exactly 100.
type Allocation struct {
	Stocks     int `json:"stocks"`
	Bonds      int `json:"bonds"`
	RealEstate int `json:"realEstate"`
	Cash       int `json:"cash"`
}

// PortfolioAnalysis is the allocation plus its derived statistics.
type PortfolioAnalysis struct {
	Allocation     Allocation `json:"allocation"`
	ExpectedReturn float64    `json:"expectedReturn"` // percent, 1dp
	Volatility     float64    `json:"volatility"`     // percent
	RiskLevel      string     `json:"riskLevel"`      // Low | Medium | High
}

// RetirementPlan is the nest-egg projection.
type RetirementPlan struct {
	YearsToRetirement    int     `json:"yearsToRetirement"`
	ReplacementRatio     float64 `json:"replacementRatio"`
	AnnualNeedToday      float64 `json:"annualNeedToday"`
	InflatedAnnualNeed   float64 `json:"inflatedAnnualNeed"`
	WithdrawalRate       float64 `json:"withdrawalRate"`
	RequiredNestEgg      float64 `json:"requiredNestEgg"`
	ProjectedSavings     float64 `json:"projectedSavings"`
	Shortfall            float64 `json:"shortfall"`
	AnnualSavingsNeeded  float64 `json:"annualSavingsNeeded"`
	MonthlySavingsNeeded float64 `json:"monthlySavingsNeeded"`
	MonthlyAvailable     float64 `json:"monthlyAvailable"`
	FeasibilityScore     int     `json:"feasibilityScore"` // 0..100
	IsRealistic          bool    `json:"isRealistic"`
}

// EmergencyFund is the liquid-reserve target.
type EmergencyFund struct {
	MonthsNeeded      int     `json:"monthsNeeded"`
	TargetAmount      float64 `json:"targetAmount"`
	HighYieldSavings  float64 `json:"highYieldSavings"`  // 70%
	LiquidInvestments float64 `json:"liquidInvestments"` // 30%
}

// HousePlan is the down-payment plan, present only when the goal is House.
type HousePlan struct {
	TargetPrice         float64 `json:"targetPrice"`
	DownPaymentPct      float64 `json:"downPaymentPct"`
	DownPaymentTarget   float64 `json:"downPaymentTarget"`
	ClosingCosts        float64 `json:"closingCosts"`
	Years               int     `json:"years"`
	ExpectedReturn      float64 `json:"expectedReturn"`
	MonthlyContribution float64 `json:"monthlyContribution"`
}

// CurrentFinancials are the present-day ratios the health score uses.
type CurrentFinancials struct {
	MonthlyIncome    float64 `json:"monthlyIncome"`
	MonthlyExpenses  float64 `json:"monthlyExpenses"`
	MonthlySurplus   float64 `json:"monthlySurplus"`
	SavingsRate      float64 `json:"savingsRate"`
	DebtRatio        float64 `json:"debtRatio"`
	LiquidSavings    float64 `json:"liquidSavings"`
	EmergencyMonths  float64 `json:"emergencyMonths"`
}

// HealthFactor is one weighted component of the health score.
type HealthFactor struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"maxScore"`
	Detail   string  `json:"detail,omitempty"`
}

// HealthScore is the 0-100 composite with a letter grade.
type HealthScore struct {
	TotalScore float64        `json:"totalScore"`
	Grade      string         `json:"grade"`
	Factors    []HealthFactor `json:"factors"`
}

// Projection is one yearly milestone of projected savings growth.
type Projection struct {
	Year           int     `json:"year"`
	Age            int     `json:"age"`
	ProjectedValue float64 `json:"projectedValue"`
	Contributions  float64 `json:"contributions"`
}

// Plan is the immutable composite planning result.
type Plan struct {
	Profile           Profile           `json:"profile"`
	PortfolioAnalysis PortfolioAnalysis `json:"portfolioAnalysis"`
	RetirementPlan    RetirementPlan    `json:"retirementPlan"`
	EmergencyFund     EmergencyFund     `json:"emergencyFund"`
	HousePlan         *HousePlan        `json:"housePlan,omitempty"`
	CurrentFinancials CurrentFinancials `json:"currentFinancials"`
	Recommendations   []string          `json:"recommendations"`
	HealthScore       HealthScore       `json:"healthScore"`
	Projections       []Projection      `json:"projections"`
	LastUpdated       time.Time         `json:"lastUpdated"`
}

// Milestone is a yearly checkpoint of a goal projection.
type Milestone struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// GoalProgress is the forward projection toward a savings goal.
type GoalProgress struct {
	TargetAmount            float64     `json:"targetAmount"`
	TimeframeYears          int         `json:"timeframeYears"`
	MonthlyContribution     float64     `json:"monthlyContribution"`
	ProjectedFinalValue     float64     `json:"projectedFinalValue"`
	WillReachGoal           bool        `json:"willReachGoal"`
	Shortfall               float64     `json:"shortfall"`
	AdditionalMonthlyNeeded float64     `json:"additionalMonthlyNeeded"`
	Milestones              []Milestone `json:"milestones"`
}

// AttributeDelta is one before/after comparison in a change impact.
type AttributeDelta struct {
	Attribute string  `json:"attribute"`
	Old       float64 `json:"old"`
	New       float64 `json:"new"`
	Delta     float64 `json:"delta"`
}

// ChangeImpact is the diff of two plans after a single profile change.
type ChangeImpact struct {
	Field    string           `json:"field"`
	OldValue any              `json:"oldValue"`
	NewValue any              `json:"newValue"`
	Deltas   []AttributeDelta `json:"deltas"`
	Insights []string         `json:"insights"`
}

// ScenarioResult is one named what-if outcome in a simulation.
type ScenarioResult struct {
	Name           string           `json:"name"`
	Plan           *Plan            `json:"plan"`
	DeltasFromBase []AttributeDelta `json:"deltasFromBase"`
}
