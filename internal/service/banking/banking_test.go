package banking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/pkg/logger"
	"github.com/finsight/finsight/pkg/models"
)

func newTestService() *Service {
	svc := New("sandbox", logger.Nop())
	svc.sleepFn = func(ctx context.Context, d time.Duration) {} // skip latency in tests
	return svc
}

func TestCreateLinkToken(t *testing.T) {
	svc := newTestService()

	token, err := svc.CreateLinkToken(context.Background(), "user-1", "FinSight")
	require.NoError(t, err)

	assert.Contains(t, token.LinkToken, "link-sandbox-")
	assert.NotEmpty(t, token.RequestID)
	assert.True(t, token.Expiration.After(time.Now()))
}

func TestCreateLinkTokenRequiresUser(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreateLinkToken(context.Background(), " ", "FinSight")
	assert.Error(t, err)
}

func TestExchangePublicToken(t *testing.T) {
	svc := newTestService()

	exchange, err := svc.ExchangePublicToken(context.Background(), "public-sandbox-abc", "user-1")
	require.NoError(t, err)
	assert.Contains(t, exchange.AccessToken, "access-sandbox-")
	assert.NotEmpty(t, exchange.ItemID)
}

func TestGetAccountsDeterministic(t *testing.T) {
	svc := newTestService()

	first, err := svc.GetAccounts(context.Background(), "access-1")
	require.NoError(t, err)
	second, err := svc.GetAccounts(context.Background(), "access-1")
	require.NoError(t, err)

	require.Len(t, first, 3)
	assert.Equal(t, first, second, "same token must yield identical accounts")
	assert.NotEqual(t, first[0].AccountID, first[1].AccountID)

	other, err := svc.GetAccounts(context.Background(), "access-2")
	require.NoError(t, err)
	assert.NotEqual(t, first[0].Balances.Current, other[0].Balances.Current)
}

func TestGetTransactionsWindowAndPaging(t *testing.T) {
	svc := newTestService()

	all, err := svc.GetTransactions(context.Background(), "access-1", "2026-01-01", "2026-03-31", nil, 500, 0)
	require.NoError(t, err)
	require.NotEmpty(t, all)

	for _, txn := range all {
		assert.Negative(t, txn.Amount, "generated transactions are outflows")
		assert.GreaterOrEqual(t, txn.Date, "2026-01-01")
		assert.LessOrEqual(t, txn.Date, "2026-03-31")
	}

	page, err := svc.GetTransactions(context.Background(), "access-1", "2026-01-01", "2026-03-31", nil, 10, 5)
	require.NoError(t, err)
	assert.Len(t, page, 10)
	assert.Equal(t, all[5].TransactionID, page[0].TransactionID, "offset pages into the same sequence")
}

func TestGetTransactionsValidation(t *testing.T) {
	svc := newTestService()

	_, err := svc.GetTransactions(context.Background(), "access-1", "bad", "2026-01-31", nil, 10, 0)
	assert.Error(t, err)

	_, err = svc.GetTransactions(context.Background(), "access-1", "2026-02-01", "2026-01-01", nil, 10, 0)
	assert.Error(t, err)
}

func TestGetInvestmentHoldings(t *testing.T) {
	svc := newTestService()

	holdings, err := svc.GetInvestmentHoldings(context.Background(), "access-1")
	require.NoError(t, err)
	require.Len(t, holdings, 3)
	for _, h := range holdings {
		// Value is derived from the published quantity and price, so the
		// only slack is the rounding of the product itself.
		assert.InDelta(t, h.Quantity*h.Price, h.Value, 0.005)
		assert.Positive(t, h.CostBasis)
	}
}

func TestGetItemEchoesEnvironment(t *testing.T) {
	svc := newTestService()

	item, err := svc.GetItem(context.Background(), "access-1")
	require.NoError(t, err)
	assert.Equal(t, "sandbox", item.Environment)
	assert.NotEmpty(t, item.InstitutionName)
	assert.Equal(t, Products, item.Products)
}

func TestGenerateSpendingInsights(t *testing.T) {
	svc := newTestService()

	transactions := []models.Transaction{
		{Amount: -100, Date: "2026-01-05", Category: []string{"Food and Drink"}},
		{Amount: -50, Date: "2026-01-20", Category: []string{"Food and Drink"}},
		{Amount: -200, Date: "2026-02-10", Category: []string{"Travel"}},
		{Amount: -500, Date: "2026-02-11", Category: []string{"Transfer"}}, // excluded
		{Amount: 2000, Date: "2026-02-15", Category: []string{"Payroll"}},  // income, excluded
		{Amount: -30, Date: "2026-02-20", Category: nil},                   // Uncategorized
	}

	insights := svc.GenerateSpendingInsights(transactions)

	assert.Equal(t, 6, insights.TotalTransactions)
	assert.Equal(t, 4, insights.ExpenseTransactions)
	assert.InDelta(t, 380, insights.TotalSpending, 1e-9)
	assert.InDelta(t, 95, insights.AverageTransaction, 1e-9)

	require.NotEmpty(t, insights.TopCategories)
	assert.Equal(t, "Travel", insights.TopCategories[0].Category, "categories sorted by spend")
	assert.InDelta(t, 52.63, insights.TopCategories[0].Percentage, 0.01)

	var foodPct float64
	for _, c := range insights.TopCategories {
		assert.NotEqual(t, "Transfer", c.Category)
		if c.Category == "Food and Drink" {
			foodPct = c.Percentage
			assert.Equal(t, 2, c.Count)
		}
	}
	assert.InDelta(t, 39.47, foodPct, 0.01)

	require.Len(t, insights.MonthlyTrends, 2)
	assert.Equal(t, "2026-01", insights.MonthlyTrends[0].Month, "monthly trends ascending")
	assert.InDelta(t, 150, insights.MonthlyTrends[0].Amount, 1e-9)
}

func TestGenerateSpendingInsightsEmpty(t *testing.T) {
	svc := newTestService()
	insights := svc.GenerateSpendingInsights(nil)

	assert.Zero(t, insights.TotalSpending)
	assert.Zero(t, insights.AverageTransaction)
	assert.Empty(t, insights.TopCategories)
}
