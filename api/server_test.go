package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/analysis"
	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/infra"
	"github.com/finsight/finsight/internal/mockdata"
	"github.com/finsight/finsight/internal/planning"
	"github.com/finsight/finsight/internal/provider"
	"github.com/finsight/finsight/internal/service/banking"
	"github.com/finsight/finsight/internal/service/econ"
	"github.com/finsight/finsight/internal/service/filings"
	"github.com/finsight/finsight/internal/service/marketdata"
	"github.com/finsight/finsight/internal/service/news"
	"github.com/finsight/finsight/pkg/logger"
	"github.com/finsight/finsight/pkg/models"
)

// newTestServer wires every service in forced-mock mode so the full
// route surface can be exercised without upstreams.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cache := infra.NewCache(time.Minute)
	mock := mockdata.New()
	log := logger.Nop()

	market := marketdata.New(nil, nil, mock, cache, log, true)
	econSvc := econ.New(nil, mock, cache, log, true)
	newsSvc := news.New(nil, nil, mock, cache, log, true)
	filingsSvc := filings.New(nil, mock, cache, log, true)
	bankingSvc := banking.New("sandbox", log)
	analyzer := analysis.New(market, newsSvc, econSvc, nil, mock, cache, log)
	planner := planning.New(log)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:        3000,
			Env:         "development",
			CORSOrigins: []string{"http://localhost:5173"},
		},
	}
	return NewServer(cfg, Deps{
		Market:   market,
		Econ:     econSvc,
		News:     newsSvc,
		Filings:  filingsSvc,
		Banking:  bankingSvc,
		Analyzer: analyzer,
		Planner:  planner,
	}, log)
}

type wireError struct {
	Message          string   `json:"message"`
	Details          string   `json:"details"`
	SuggestedActions []string `json:"suggestedActions"`
}

type wireEnvelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *wireError      `json:"error"`
	Timestamp string          `json:"timestamp"`
}

func do(t *testing.T, srv *Server, method, path string, body any) (*httptest.ResponseRecorder, wireEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var env wireEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec, env := do(t, srv, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Timestamp)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "development", data["env"])
}

func TestUnknownRouteReturnsEnvelope(t *testing.T) {
	srv := newTestServer(t)

	rec, env := do(t, srv, http.MethodGet, "/api/no-such-route", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "route not found", env.Error.Message)
}

func TestStockQuoteServesDemoData(t *testing.T) {
	srv := newTestServer(t)

	rec, env := do(t, srv, http.MethodGet, "/api/market-data/stock/aapl", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var quote models.Quote
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, mockdata.Source, quote.Source)
	assert.Positive(t, quote.CurrentPrice)
}

func TestIndianStockAppendsExchangeSuffix(t *testing.T) {
	srv := newTestServer(t)

	_, env := do(t, srv, http.MethodGet, "/api/market-data/indian-stock/RELIANCE", nil)

	require.True(t, env.Success)
	var quote models.Quote
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.Equal(t, "RELIANCE.NS", quote.Symbol)

	_, env = do(t, srv, http.MethodGet, "/api/market-data/indian-stock/NIFTY", nil)
	require.True(t, env.Success)
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.Equal(t, "^NSEI", quote.Symbol)
}

func TestBulkQuotesRequiresSymbols(t *testing.T) {
	srv := newTestServer(t)

	rec, env := do(t, srv, http.MethodPost, "/api/market-data/bulk", BulkQuotesRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "symbols")
}

func TestTechnicalRejectsBadTimePeriod(t *testing.T) {
	srv := newTestServer(t)

	rec, env := do(t, srv, http.MethodGet, "/api/market-data/alpha/technical/AAPL/RSI?time_period=abc", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "time_period")
}

func TestEconomicSummaryRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/api/economic-indicators/us",
		"/api/economic-indicators/india",
		"/api/economic-indicators/global",
		"/api/economic-indicators/forex",
		"/api/economic-indicators/summary",
	} {
		rec, env := do(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, env.Success, path)
	}
}

func TestNewsCategoriesCatalog(t *testing.T) {
	srv := newTestServer(t)

	rec, env := do(t, srv, http.MethodGet, "/api/news/categories", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var categories []string
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	assert.Contains(t, categories, "business")
}

func TestNewsSearchRequiresQuery(t *testing.T) {
	srv := newTestServer(t)

	rec, env := do(t, srv, http.MethodGet, "/api/news/search", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
}

func TestFilingsRoutesServeDemoData(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/api/company-filings/company/AAPL",
		"/api/company-filings/cik/AAPL",
		"/api/company-filings/forms",
	} {
		rec, env := do(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, env.Success, path)
	}
}

func TestPlaidLinkAndAccountsFlow(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := do(t, srv, http.MethodPost, "/api/plaid/link/token/create", CreateLinkTokenRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(t, srv, http.MethodPost, "/api/plaid/link/token/create", CreateLinkTokenRequest{UserID: "user-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var link models.LinkToken
	require.NoError(t, json.Unmarshal(env.Data, &link))
	assert.NotEmpty(t, link.LinkToken)

	rec, env = do(t, srv, http.MethodPost, "/api/plaid/link/token/exchange", ExchangeTokenRequest{PublicToken: "public-sandbox-x", UserID: "user-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var exchange models.TokenExchange
	require.NoError(t, json.Unmarshal(env.Data, &exchange))
	require.NotEmpty(t, exchange.AccessToken)

	rec, env = do(t, srv, http.MethodPost, "/api/plaid/accounts", AccessTokenRequest{AccessToken: exchange.AccessToken})
	require.Equal(t, http.StatusOK, rec.Code)

	var accounts []models.Account
	require.NoError(t, json.Unmarshal(env.Data, &accounts))
	assert.NotEmpty(t, accounts)
}

func TestPlaidAccountsRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	rec, env := do(t, srv, http.MethodPost, "/api/plaid/accounts", AccessTokenRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "accessToken")
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec, env := do(t, srv, http.MethodGet, "/api/stock-analysis/analyze/AAPL", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var result models.StockAnalysis
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "AAPL", result.Symbol)
	assert.NotEmpty(t, result.Recommendation.Action)
}

func TestTrendingDefaultsToUS(t *testing.T) {
	srv := newTestServer(t)

	rec, env := do(t, srv, http.MethodGet, "/api/stock-analysis/trending", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var entries []analysis.TrendingEntry
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	assert.NotEmpty(t, entries)
}

func TestGeneratePlanEndpoint(t *testing.T) {
	srv := newTestServer(t)

	profile := models.Profile{
		Age: 30, Income: 120_000, RiskTolerance: models.RiskModerate,
		InvestmentGoal: models.GoalRetirement, TimeHorizon: "30 years",
		CurrentSavings: 10_000, MonthlyExpenses: 4_000, MonthlySavings: 2_000,
	}
	rec, env := do(t, srv, http.MethodPost, "/api/financial-planning/plan", PlanRequest{Profile: profile})

	assert.Equal(t, http.StatusOK, rec.Code)
	var plan models.Plan
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	alloc := plan.PortfolioAnalysis.Allocation
	assert.Equal(t, 100, alloc.Stocks+alloc.Bonds+alloc.RealEstate+alloc.Cash)
	assert.NotEmpty(t, plan.Recommendations)
}

func TestPlanRequiresProfile(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := do(t, srv, http.MethodPost, "/api/financial-planning/plan", PlanRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeChangeSingleAndBatch(t *testing.T) {
	srv := newTestServer(t)
	profile := models.Profile{Age: 30, Income: 100_000, TimeHorizon: "30 years"}

	rec, env := do(t, srv, http.MethodPost, "/api/financial-planning/analyze", map[string]any{
		"field": "age", "value": 45, "currentProfile": profile,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var impact models.ChangeImpact
	require.NoError(t, json.Unmarshal(env.Data, &impact))
	assert.Equal(t, "age", impact.Field)
	assert.NotEmpty(t, impact.Deltas)

	rec, env = do(t, srv, http.MethodPost, "/api/financial-planning/analyze", map[string]any{
		"changes": map[string]any{"income": 150_000}, "profile": profile,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var impacts []models.ChangeImpact
	require.NoError(t, json.Unmarshal(env.Data, &impacts))
	require.Len(t, impacts, 1)
	assert.Equal(t, "income", impacts[0].Field)
}

func TestAnalyzeChangeRejectsUnknownField(t *testing.T) {
	srv := newTestServer(t)

	rec, env := do(t, srv, http.MethodPost, "/api/financial-planning/analyze", map[string]any{
		"field": "shoeSize", "value": 11, "currentProfile": models.Profile{Age: 30},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "shoeSize")
}

func TestSimulateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec, env := do(t, srv, http.MethodPost, "/api/financial-planning/simulate", map[string]any{
		"baseProfile": models.Profile{Age: 30, Income: 100_000, TimeHorizon: "30 years"},
		"scenarios": []map[string]any{
			{"name": "raise", "changes": map[string]any{"income": 150_000}},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SimulateResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotNil(t, resp.BasePlan)
	require.Len(t, resp.Scenarios, 1)
	assert.Equal(t, "raise", resp.Scenarios[0].Name)
}

func TestTrackGoalAcceptsStringTimeframe(t *testing.T) {
	srv := newTestServer(t)

	rec, env := do(t, srv, http.MethodPost, "/api/financial-planning/track", map[string]any{
		"profile": models.Profile{Age: 30, Income: 100_000, MonthlySavings: 1_000},
		"goal":    map[string]any{"targetAmount": 50_000, "timeframe": "10 years"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var progress models.GoalProgress
	require.NoError(t, json.Unmarshal(env.Data, &progress))
	assert.Equal(t, 10, progress.TimeframeYears)
	assert.Equal(t, 50_000.0, progress.TargetAmount)
}

func TestTrackGoalRejectsMissingTimeframe(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := do(t, srv, http.MethodPost, "/api/financial-planning/track", map[string]any{
		"profile": models.Profile{Age: 30},
		"goal":    map[string]any{"targetAmount": 50_000},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrackDetailedUsesProfileReturn(t *testing.T) {
	srv := newTestServer(t)

	rec, env := do(t, srv, http.MethodPost, "/api/financial-planning/track-detailed", map[string]any{
		"currentSavings":      10_000,
		"monthlyContribution": 500,
		"targetAmount":        100_000,
		"timeframe":           15,
		"profile":             models.Profile{Age: 30, Income: 100_000, TimeHorizon: "30 years"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var progress models.GoalProgress
	require.NoError(t, json.Unmarshal(env.Data, &progress))
	assert.Equal(t, 15, progress.TimeframeYears)
	assert.Positive(t, progress.ProjectedFinalValue)
}

func TestServiceHealthRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/api/market-data/health",
		"/api/economic-indicators/health",
		"/api/news/health",
		"/api/company-filings/health",
		"/api/plaid/health",
	} {
		rec, env := do(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, env.Success, path)
	}
}

func TestUnavailableErrorCarriesSuggestedActions(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.writeServiceError(rec, provider.Unavailable("stock data", "all sources exhausted"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var env wireEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "No stock data available", env.Error.Message)
	assert.NotEmpty(t, env.Error.SuggestedActions)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/market-data/stock/AAPL", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
}
