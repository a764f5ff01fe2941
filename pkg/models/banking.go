package models

import "time"

// LinkToken is the result of creating a banking link session.
type LinkToken struct {
	LinkToken  string    `json:"linkToken"`
	Expiration time.Time `json:"expiration"`
	RequestID  string    `json:"requestId"`
}

// TokenExchange is the result of exchanging a public token.
type TokenExchange struct {
	AccessToken string `json:"accessToken"`
	ItemID      string `json:"itemId"`
	RequestID   string `json:"requestId"`
}

// AccountBalances mirrors the aggregator balance object.
type AccountBalances struct {
	Available float64 `json:"available"`
	Current   float64 `json:"current"`
	Limit     float64 `json:"limit,omitempty"`
	Currency  string  `json:"isoCurrencyCode"`
}

// Account is one linked bank account.
type Account struct {
	AccountID    string          `json:"accountId"`
	Name         string          `json:"name"`
	OfficialName string          `json:"officialName,omitempty"`
	Type         string          `json:"type"`
	Subtype      string          `json:"subtype"`
	Mask         string          `json:"mask"`
	Balances     AccountBalances `json:"balances"`
}

// Transaction is one bank transaction. Negative amounts are outflows.
type Transaction struct {
	TransactionID  string   `json:"transactionId"`
	AccountID      string   `json:"accountId"`
	Amount         float64  `json:"amount"`
	Date           string   `json:"date"` // YYYY-MM-DD
	Name           string   `json:"name"`
	MerchantName   string   `json:"merchantName,omitempty"`
	Category       []string `json:"category"`
	PaymentChannel string   `json:"paymentChannel,omitempty"`
	Pending        bool     `json:"pending"`
}

// PrimaryCategory returns the first category element, or "Uncategorized".
func (t Transaction) PrimaryCategory() string {
	if len(t.Category) == 0 {
		return "Uncategorized"
	}
	return t.Category[0]
}

// Holding is one investment position.
type Holding struct {
	AccountID  string  `json:"accountId"`
	SecurityID string  `json:"securityId"`
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Value      float64 `json:"value"`
	CostBasis  float64 `json:"costBasis"`
}

// IdentityAddress is a mailing address on file.
type IdentityAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Identity is account-holder identity data.
type Identity struct {
	Names     []string          `json:"names"`
	Emails    []string          `json:"emails"`
	Phones    []string          `json:"phoneNumbers"`
	Addresses []IdentityAddress `json:"addresses"`
}

// Item describes one linked institution item.
type Item struct {
	ItemID          string   `json:"itemId"`
	InstitutionID   string   `json:"institutionId"`
	InstitutionName string   `json:"institutionName"`
	Products        []string `json:"availableProducts"`
	Environment     string   `json:"environment"`
}

// CategorySpend is one spending-insights category bucket.
type CategorySpend struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"` // 2dp
}

// MonthlySpend is one YYYY-MM trend bucket, sorted ascending.
type MonthlySpend struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// SpendingInsights is the derived view over a transaction list.
type SpendingInsights struct {
	TotalSpending       float64         `json:"totalSpending"`
	AverageTransaction  float64         `json:"averageTransaction"`
	TotalTransactions   int             `json:"totalTransactions"`
	ExpenseTransactions int             `json:"expenseTransactions"`
	TopCategories       []CategorySpend `json:"topCategories"`
	MonthlyTrends       []MonthlySpend  `json:"monthlyTrends"`
}
