package banking

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finsight/finsight/pkg/models"
)

// GenerateSpendingInsights derives the spending view from a transaction
// list. Expenses are negative-amount transactions outside the Transfer
// category; sums use decimal arithmetic so category percentages stay
// exact to two places.
func (s *Service) GenerateSpendingInsights(transactions []models.Transaction) *models.SpendingInsights {
	insights := &models.SpendingInsights{
		TotalTransactions: len(transactions),
		TopCategories:     []models.CategorySpend{},
		MonthlyTrends:     []models.MonthlySpend{},
	}

	type bucket struct {
		amount decimal.Decimal
		count  int
	}
	byCategory := make(map[string]*bucket)
	byMonth := make(map[string]*bucket)
	total := decimal.Zero

	for _, txn := range transactions {
		if txn.Amount >= 0 {
			continue
		}
		category := txn.PrimaryCategory()
		if category == "Transfer" {
			continue
		}

		spend := decimal.NewFromFloat(-txn.Amount)
		total = total.Add(spend)
		insights.ExpenseTransactions++

		if b, ok := byCategory[category]; ok {
			b.amount = b.amount.Add(spend)
			b.count++
		} else {
			byCategory[category] = &bucket{amount: spend, count: 1}
		}

		if len(txn.Date) >= 7 {
			month := txn.Date[:7] // YYYY-MM
			if b, ok := byMonth[month]; ok {
				b.amount = b.amount.Add(spend)
				b.count++
			} else {
				byMonth[month] = &bucket{amount: spend, count: 1}
			}
		}
	}

	insights.TotalSpending, _ = total.Round(2).Float64()
	if insights.ExpenseTransactions > 0 {
		avg := total.Div(decimal.NewFromInt(int64(insights.ExpenseTransactions)))
		insights.AverageTransaction, _ = avg.Round(2).Float64()
	}

	hundred := decimal.NewFromInt(100)
	for category, b := range byCategory {
		amount, _ := b.amount.Round(2).Float64()
		percentage := 0.0
		if !total.IsZero() {
			percentage, _ = b.amount.Mul(hundred).Div(total).Round(2).Float64()
		}
		insights.TopCategories = append(insights.TopCategories, models.CategorySpend{
			Category:   category,
			Amount:     amount,
			Count:      b.count,
			Percentage: percentage,
		})
	}
	sort.Slice(insights.TopCategories, func(i, j int) bool {
		return insights.TopCategories[i].Amount > insights.TopCategories[j].Amount
	})
	if len(insights.TopCategories) > 10 {
		insights.TopCategories = insights.TopCategories[:10]
	}

	for month, b := range byMonth {
		amount, _ := b.amount.Round(2).Float64()
		insights.MonthlyTrends = append(insights.MonthlyTrends, models.MonthlySpend{
			Month:  month,
			Amount: amount,
			Count:  b.count,
		})
	}
	sort.Slice(insights.MonthlyTrends, func(i, j int) bool {
		return insights.MonthlyTrends[i].Month < insights.MonthlyTrends[j].Month
	})

	return insights
}
