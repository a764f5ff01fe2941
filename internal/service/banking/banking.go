// Package banking implements the banking-aggregation service. The entire
// integration is a mock collaborator: it issues synthetic tokens, serves
// deterministic account data seeded by access token, and simulates
// upstream latency so callers exercise realistic timing.
package banking

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/finsight/finsight/pkg/models"
)

// Simulated upstream latency band.
const (
	minLatency = 50 * time.Millisecond
	maxLatency = 300 * time.Millisecond
)

// Products advertised by the info endpoint.
var Products = []string{"transactions", "auth", "identity", "investments", "liabilities"}

var institutions = []struct {
	id   string
	name string
}{
	{"ins_109508", "First Platypus Bank"},
	{"ins_109509", "Houndstooth Bank"},
	{"ins_109510", "Tattersall Federal Credit Union"},
}

var transactionTemplates = []struct {
	name     string
	merchant string
	category string
	min, max float64
}{
	{"Whole Foods Market", "Whole Foods", "Food and Drink", 20, 180},
	{"Starbucks", "Starbucks", "Food and Drink", 4, 15},
	{"Shell Gas Station", "Shell", "Travel", 30, 80},
	{"United Airlines", "United Airlines", "Travel", 150, 600},
	{"Netflix Subscription", "Netflix", "Entertainment", 15, 16},
	{"AMC Theatres", "AMC", "Entertainment", 12, 45},
	{"Rent Payment", "", "Payment", 1400, 2600},
	{"Electric Bill", "City Power", "Utilities", 60, 220},
	{"Amazon Purchase", "Amazon", "Shops", 10, 250},
	{"Target", "Target", "Shops", 15, 160},
	{"CVS Pharmacy", "CVS", "Healthcare", 8, 90},
	{"Transfer to Savings", "", "Transfer", 200, 1000},
}

// Service is the banking-aggregation mock collaborator.
type Service struct {
	env     string
	log     zerolog.Logger
	sleepFn func(ctx context.Context, d time.Duration) // overridable in tests
}

// New wires the banking service. env records the configured aggregator
// environment (sandbox, development, production); the mock only echoes it.
func New(env string, log zerolog.Logger) *Service {
	if env == "" {
		env = "sandbox"
	}
	return &Service{
		env: env,
		log: log.With().Str("service", "banking").Logger(),
		sleepFn: func(ctx context.Context, d time.Duration) {
			select {
			case <-ctx.Done():
			case <-time.After(d):
			}
		},
	}
}

func seeded(key string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// simulateLatency blocks for a seeded duration in the 50-300 ms band.
func (s *Service) simulateLatency(ctx context.Context, key string) {
	r := seeded("latency:" + key)
	d := minLatency + time.Duration(r.Int63n(int64(maxLatency-minLatency)))
	s.sleepFn(ctx, d)
}

// CreateLinkToken issues a link session token for a user.
func (s *Service) CreateLinkToken(ctx context.Context, userID, clientName string) (*models.LinkToken, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("userId is required")
	}
	s.simulateLatency(ctx, "link:"+userID)

	return &models.LinkToken{
		LinkToken:  "link-" + s.env + "-" + uuid.NewString(),
		Expiration: time.Now().UTC().Add(4 * time.Hour),
		RequestID:  uuid.NewString(),
	}, nil
}

// ExchangePublicToken swaps a public token for an access token.
func (s *Service) ExchangePublicToken(ctx context.Context, publicToken, userID string) (*models.TokenExchange, error) {
	if strings.TrimSpace(publicToken) == "" {
		return nil, fmt.Errorf("publicToken is required")
	}
	s.simulateLatency(ctx, "exchange:"+publicToken)

	return &models.TokenExchange{
		AccessToken: "access-" + s.env + "-" + uuid.NewString(),
		ItemID:      uuid.NewString(),
		RequestID:   uuid.NewString(),
	}, nil
}

// GetAccounts returns the linked accounts for an access token. The same
// token always yields the same account set.
func (s *Service) GetAccounts(ctx context.Context, accessToken string) ([]models.Account, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, fmt.Errorf("accessToken is required")
	}
	s.simulateLatency(ctx, "accounts:"+accessToken)

	r := seeded("accounts:" + accessToken)
	checking := 800 + r.Float64()*9000
	savings := 2000 + r.Float64()*40000
	credit := 200 + r.Float64()*4500

	return []models.Account{
		{
			AccountID: deterministicID(accessToken, "checking"),
			Name:      "Plaid Checking",
			Type:      "depository",
			Subtype:   "checking",
			Mask:      "0000",
			Balances: models.AccountBalances{
				Available: round2(checking), Current: round2(checking), Currency: "USD",
			},
		},
		{
			AccountID: deterministicID(accessToken, "savings"),
			Name:      "Plaid Saving",
			Type:      "depository",
			Subtype:   "savings",
			Mask:      "1111",
			Balances: models.AccountBalances{
				Available: round2(savings), Current: round2(savings), Currency: "USD",
			},
		},
		{
			AccountID: deterministicID(accessToken, "credit"),
			Name:      "Plaid Credit Card",
			Type:      "credit",
			Subtype:   "credit card",
			Mask:      "3333",
			Balances: models.AccountBalances{
				Available: round2(5000 - credit), Current: round2(credit), Limit: 5000, Currency: "USD",
			},
		},
	}, nil
}

// GetTransactions returns transactions in [startDate, endDate], paged by
// count and offset. Dates are YYYY-MM-DD.
func (s *Service) GetTransactions(ctx context.Context, accessToken, startDate, endDate string, accountIDs []string, count, offset int) ([]models.Transaction, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, fmt.Errorf("accessToken is required")
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate %q", startDate)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate %q", endDate)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("endDate precedes startDate")
	}
	if count <= 0 || count > 500 {
		count = 100
	}
	s.simulateLatency(ctx, "transactions:"+accessToken)

	accounts, _ := s.accountIDsFor(accessToken, accountIDs)
	r := seeded("transactions:" + accessToken + ":" + startDate)

	var all []models.Transaction
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		// 0-3 transactions per day.
		for n := r.Intn(4); n > 0; n-- {
			tmpl := transactionTemplates[r.Intn(len(transactionTemplates))]
			amount := -(tmpl.min + r.Float64()*(tmpl.max-tmpl.min))
			all = append(all, models.Transaction{
				TransactionID:  deterministicID(accessToken, fmt.Sprintf("txn:%s:%d", day.Format("2006-01-02"), n)),
				AccountID:      accounts[r.Intn(len(accounts))],
				Amount:         round2(amount),
				Date:           day.Format("2006-01-02"),
				Name:           tmpl.name,
				MerchantName:   tmpl.merchant,
				Category:       []string{tmpl.category},
				PaymentChannel: "in store",
				Pending:        false,
			})
		}
	}

	if offset >= len(all) {
		return []models.Transaction{}, nil
	}
	all = all[offset:]
	if len(all) > count {
		all = all[:count]
	}
	return all, nil
}

// GetInvestmentHoldings returns investment positions for an access token.
func (s *Service) GetInvestmentHoldings(ctx context.Context, accessToken string) ([]models.Holding, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, fmt.Errorf("accessToken is required")
	}
	s.simulateLatency(ctx, "holdings:"+accessToken)

	r := seeded("holdings:" + accessToken)
	symbols := []struct {
		symbol string
		name   string
		price  float64
	}{
		{"AAPL", "Apple Inc.", 190},
		{"VTI", "Vanguard Total Stock Market ETF", 250},
		{"BND", "Vanguard Total Bond Market ETF", 72},
	}

	accountID := deterministicID(accessToken, "investment")
	holdings := make([]models.Holding, 0, len(symbols))
	for _, sym := range symbols {
		// Round the factors first so Value stays consistent with the
		// published Quantity and Price.
		qty := round2(1 + r.Float64()*50)
		price := round2(sym.price * (1 + (r.Float64()-0.5)*0.1))
		holdings = append(holdings, models.Holding{
			AccountID:  accountID,
			SecurityID: deterministicID(accessToken, "security:"+sym.symbol),
			Symbol:     sym.symbol,
			Name:       sym.name,
			Quantity:   qty,
			Price:      price,
			Value:      round2(qty * price),
			CostBasis:  round2(qty * price * (0.7 + r.Float64()*0.3)),
		})
	}
	return holdings, nil
}

// GetIdentity returns account-holder identity data.
func (s *Service) GetIdentity(ctx context.Context, accessToken string) (*models.Identity, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, fmt.Errorf("accessToken is required")
	}
	s.simulateLatency(ctx, "identity:"+accessToken)

	return &models.Identity{
		Names:  []string{"Alberta Bobbeth Charleson"},
		Emails: []string{"accountholder0@example.com"},
		Phones: []string{"1112223333"},
		Addresses: []models.IdentityAddress{{
			Street:     "2992 Cameron Road",
			City:       "Malakoff",
			Region:     "NY",
			PostalCode: "14236",
			Country:    "US",
		}},
	}, nil
}

// GetItem returns the linked institution item for an access token.
func (s *Service) GetItem(ctx context.Context, accessToken string) (*models.Item, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, fmt.Errorf("accessToken is required")
	}
	s.simulateLatency(ctx, "item:"+accessToken)

	r := seeded("item:" + accessToken)
	inst := institutions[r.Intn(len(institutions))]
	return &models.Item{
		ItemID:          deterministicID(accessToken, "item"),
		InstitutionID:   inst.id,
		InstitutionName: inst.name,
		Products:        Products,
		Environment:     s.env,
	}, nil
}

func (s *Service) accountIDsFor(accessToken string, requested []string) ([]string, error) {
	if len(requested) > 0 {
		return requested, nil
	}
	return []string{
		deterministicID(accessToken, "checking"),
		deterministicID(accessToken, "savings"),
		deterministicID(accessToken, "credit"),
	}, nil
}

// deterministicID derives a stable UUID from the token and a label so
// repeated calls agree.
func deterministicID(accessToken, label string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(accessToken+":"+label)).String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// HealthStatus is the health probe result.
type HealthStatus struct {
	Service   string    `json:"service"`
	Healthy   bool      `json:"healthy"`
	Detail    string    `json:"detail,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Health reports the mock collaborator status.
func (s *Service) Health(ctx context.Context) HealthStatus {
	return HealthStatus{
		Service:   "banking",
		Healthy:   true,
		Detail:    "mock aggregator, environment " + s.env,
		CheckedAt: time.Now().UTC(),
	}
}
