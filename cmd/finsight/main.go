// FinSight — personal-finance data and planning API.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/finsight/finsight/api"
	"github.com/finsight/finsight/internal/analysis"
	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/infra"
	"github.com/finsight/finsight/internal/mockdata"
	"github.com/finsight/finsight/internal/planning"
	"github.com/finsight/finsight/internal/scheduler"
	"github.com/finsight/finsight/internal/service/banking"
	"github.com/finsight/finsight/internal/service/econ"
	"github.com/finsight/finsight/internal/service/filings"
	"github.com/finsight/finsight/internal/service/marketdata"
	"github.com/finsight/finsight/internal/service/news"
	"github.com/finsight/finsight/internal/upstream/alphavantage"
	"github.com/finsight/finsight/internal/upstream/fred"
	"github.com/finsight/finsight/internal/upstream/huggingface"
	"github.com/finsight/finsight/internal/upstream/newsapi"
	"github.com/finsight/finsight/internal/upstream/sec"
	"github.com/finsight/finsight/internal/upstream/yahoo"
	"github.com/finsight/finsight/pkg/logger"
	"github.com/finsight/finsight/pkg/models"
	"github.com/finsight/finsight/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finsight",
	Short: "FinSight — personal-finance data and planning API",
	Long: `FinSight aggregates market data, economic indicators, news, SEC
filings, and banking data behind one JSON API, with a stock-analysis
pipeline and a deterministic financial-planning engine on top.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(planCmd)
}

func buildLogger(cmd *cobra.Command) zerolog.Logger {
	level := cfg.Logging.Level
	if override, _ := cmd.Flags().GetString("log-level"); override != "" {
		level = override
	}
	return logger.New(level, cfg.Logging.Format)
}

// services bundles the wired provider tier.
type services struct {
	market   *marketdata.Service
	econ     *econ.Service
	news     *news.Service
	filings  *filings.Service
	banking  *banking.Service
	analyzer *analysis.Analyzer
	planner  *planning.Planner
}

// sentimentAdapter bridges the inference client into the analysis
// pipeline's model interface.
type sentimentAdapter struct {
	client *huggingface.Client
}

func (a sentimentAdapter) Enabled() bool { return a.client.Enabled() }

func (a sentimentAdapter) Classify(ctx context.Context, texts []string) ([]analysis.LabelScores, error) {
	raw, err := a.client.Classify(ctx, texts)
	if err != nil {
		return nil, err
	}
	scores := make([]analysis.LabelScores, len(raw))
	for i, row := range raw {
		scores[i] = analysis.LabelScores(row)
	}
	return scores, nil
}

// buildServices wires upstream clients into the provider services.
func buildServices(log zerolog.Logger) *services {
	cache := infra.NewCache(cfg.Cache.DefaultTTL)
	mock := mockdata.New()
	forceMock := cfg.Cache.UseMockData

	chart := yahoo.New()
	alpha := alphavantage.New(cfg.Keys.AlphaVantage)
	fredClient := fred.New(cfg.Keys.FRED)
	headlines := newsapi.New(cfg.Keys.News)
	edgar := sec.New()
	model := sentimentAdapter{client: huggingface.New(cfg.Keys.HuggingFace)}

	market := marketdata.New(chart, alpha, mock, cache, log, forceMock)
	econSvc := econ.New(fredClient, mock, cache, log, forceMock)
	newsSvc := news.New(alpha, headlines, mock, cache, log, forceMock)
	filingsSvc := filings.New(edgar, mock, cache, log, forceMock)
	bankingSvc := banking.New(cfg.Plaid.Env, log)

	return &services{
		market:   market,
		econ:     econSvc,
		news:     newsSvc,
		filings:  filingsSvc,
		banking:  bankingSvc,
		analyzer: analysis.New(market, newsSvc, econSvc, model, mock, cache, log),
		planner:  planning.New(log),
	}
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("FinSight %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server and the background refresh jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := buildLogger(cmd)
		svcs := buildServices(log)

		probes := []scheduler.HealthProbe{
			{Name: "market-data", Check: func(ctx context.Context) (bool, string) {
				st := svcs.market.Health(ctx)
				return st.Healthy, st.Detail
			}},
			{Name: "economic-indicators", Check: func(ctx context.Context) (bool, string) {
				st := svcs.econ.Health(ctx)
				return st.Healthy, st.Detail
			}},
			{Name: "news", Check: func(ctx context.Context) (bool, string) {
				st := svcs.news.Health(ctx)
				return st.Healthy, st.Detail
			}},
			{Name: "company-filings", Check: func(ctx context.Context) (bool, string) {
				st := svcs.filings.Health(ctx)
				return st.Healthy, st.Detail
			}},
			{Name: "banking", Check: func(ctx context.Context) (bool, string) {
				st := svcs.banking.Health(ctx)
				return st.Healthy, st.Detail
			}},
		}

		sched := scheduler.New(svcs.market, svcs.news, svcs.econ, probes, log)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()

		srv := api.NewServer(cfg, api.Deps{
			Market:   svcs.market,
			Econ:     svcs.econ,
			News:     svcs.news,
			Filings:  svcs.filings,
			Banking:  svcs.banking,
			Analyzer: svcs.analyzer,
			Planner:  svcs.planner,
		}, log)
		return srv.ListenAndServe()
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and upstream key status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  FinSight — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:      %s (%s)\n", version, commit)
		fmt.Printf("  Environment:  %s\n", cfg.Server.Env)
		fmt.Printf("  Port:         %d (fallbacks %v)\n", cfg.Server.Port, cfg.Server.FallbackPorts)
		fmt.Printf("  NSE Market:   %s\n", utils.NSEMarketStatus())
		fmt.Printf("  Time (IST):   %s\n", utils.FormatDateTimeIST(utils.NowIST()))
		fmt.Println()

		fmt.Println("  Upstream keys:")
		keys := []struct {
			name string
			set  bool
		}{
			{"Alpha Vantage", cfg.Keys.AlphaVantage != ""},
			{"FRED", cfg.Keys.FRED != ""},
			{"NewsAPI", cfg.Keys.News != ""},
			{"Hugging Face", cfg.Keys.HuggingFace != ""},
			{"Plaid", cfg.Plaid.ClientID != ""},
		}
		for _, k := range keys {
			state := "not set (fallback chain skips it)"
			if k.set {
				state = "set"
			}
			fmt.Printf("    %-15s %s\n", k.name+":", state)
		}

		if cfg.Cache.UseMockData {
			fmt.Println()
			fmt.Println("  ⚠ USE_MOCK_DATA is on; every endpoint serves demo data.")
		}
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// --- Quote Command ---

var quoteCmd = &cobra.Command{
	Use:   "quote [symbol]",
	Short: "Fetch one quote and print it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := buildLogger(cmd)
		svcs := buildServices(log)

		symbol := args[0]
		if indian, _ := cmd.Flags().GetBool("nse"); indian {
			symbol = utils.YahooSymbol(symbol)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		quote, err := svcs.market.GetQuote(ctx, symbol)
		if err != nil {
			return err
		}

		price := fmt.Sprintf("$%.2f", quote.CurrentPrice)
		volume := fmt.Sprintf("%d", quote.Volume)
		if strings.HasSuffix(quote.Symbol, ".NS") || strings.HasSuffix(quote.Symbol, ".BO") {
			price = utils.FormatINR(quote.CurrentPrice)
			volume = utils.FormatVolumeIndian(quote.Volume)
		}

		fmt.Printf("%s (%s)\n", quote.Name, quote.Symbol)
		fmt.Printf("  Price:   %s (%s)\n", price, utils.FormatPct(quote.ChangePercent))
		fmt.Printf("  Volume:  %s\n", volume)
		fmt.Printf("  Source:  %s\n", quote.Source)
		return nil
	},
}

func init() {
	quoteCmd.Flags().Bool("nse", false, "treat the symbol as an NSE ticker")
}

// --- Plan Command ---

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a financial plan from profile flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := buildLogger(cmd)
		planner := planning.New(log)

		profile := planProfileFromFlags(cmd)
		plan := planner.GeneratePlan(profile)

		alloc := plan.PortfolioAnalysis.Allocation
		fmt.Printf("Allocation: %d%% stocks / %d%% bonds / %d%% real estate / %d%% cash\n",
			alloc.Stocks, alloc.Bonds, alloc.RealEstate, alloc.Cash)
		fmt.Printf("Expected return: %.1f%%  volatility: %.1f%%  risk: %s\n",
			plan.PortfolioAnalysis.ExpectedReturn, plan.PortfolioAnalysis.Volatility, plan.PortfolioAnalysis.RiskLevel)
		fmt.Printf("Retirement nest egg: %s (feasibility %d/100)\n",
			utils.FormatUSD(plan.RetirementPlan.RequiredNestEgg), plan.RetirementPlan.FeasibilityScore)
		fmt.Printf("Emergency fund target: %s\n", utils.FormatUSD(plan.EmergencyFund.TargetAmount))
		fmt.Printf("Health score: %.1f (%s)\n", plan.HealthScore.TotalScore, plan.HealthScore.Grade)
		fmt.Println()
		for _, rec := range plan.Recommendations {
			fmt.Printf("  • %s\n", rec)
		}
		return nil
	},
}

func planProfileFromFlags(cmd *cobra.Command) (profile models.Profile) {
	profile.Age, _ = cmd.Flags().GetInt("age")
	profile.Income, _ = cmd.Flags().GetFloat64("income")
	profile.RiskTolerance, _ = cmd.Flags().GetString("risk")
	profile.InvestmentGoal, _ = cmd.Flags().GetString("goal")
	profile.TimeHorizon, _ = cmd.Flags().GetString("horizon")
	profile.CurrentSavings, _ = cmd.Flags().GetFloat64("savings")
	profile.MonthlyExpenses, _ = cmd.Flags().GetFloat64("expenses")
	profile.MonthlySavings, _ = cmd.Flags().GetFloat64("monthly-savings")
	return profile
}

func init() {
	planCmd.Flags().Int("age", 30, "age in years")
	planCmd.Flags().Float64("income", 100000, "annual income")
	planCmd.Flags().String("risk", "Moderate", "risk tolerance (Conservative, Moderate, Aggressive)")
	planCmd.Flags().String("goal", "Retirement", "investment goal")
	planCmd.Flags().String("horizon", "30 years", "time horizon")
	planCmd.Flags().Float64("savings", 0, "current savings")
	planCmd.Flags().Float64("expenses", 0, "monthly expenses")
	planCmd.Flags().Float64("monthly-savings", 0, "monthly savings")
}
