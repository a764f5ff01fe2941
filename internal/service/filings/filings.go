// Package filings implements the company-filings provider service: CIK
// resolution, the submissions index, XBRL latest-value extraction, and
// company search over the EDGAR exchange map.
package filings

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/finsight/finsight/internal/infra"
	"github.com/finsight/finsight/internal/mockdata"
	"github.com/finsight/finsight/internal/provider"
	"github.com/finsight/finsight/internal/upstream/sec"
	"github.com/finsight/finsight/pkg/models"
)

// syntheticCIK is returned when a ticker cannot be resolved anywhere.
const syntheticCIK = "0000000000"

// knownCIKs short-circuits CIK resolution for frequent tickers before the
// exchange map is consulted.
var knownCIKs = map[string]string{
	"AAPL":  "0000320193",
	"MSFT":  "0000789019",
	"GOOGL": "0001652044",
	"AMZN":  "0001018724",
	"NVDA":  "0001045810",
	"META":  "0001326801",
	"TSLA":  "0001318605",
	"JPM":   "0000019617",
	"V":     "0001403161",
	"WMT":   "0000104169",
	"XOM":   "0000034088",
	"JNJ":   "0000200406",
	"KO":    "0000021344",
	"DIS":   "0001744489",
	"NFLX":  "0001065280",
	"INTC":  "0000050863",
	"AMD":   "0000002488",
	"BA":    "0000012927",
}

// factAliases maps canonical metric names to the XBRL tags tried in
// order; taxonomies vary by filer.
var factAliases = map[string][]string{
	"Revenues":                  {"Revenues", "RevenueFromContractWithCustomerExcludingAssessedTax"},
	"NetIncomeLoss":             {"NetIncomeLoss"},
	"Assets":                    {"Assets"},
	"Liabilities":               {"Liabilities"},
	"StockholdersEquity":        {"StockholdersEquity"},
	"OperatingIncomeLoss":       {"OperatingIncomeLoss"},
	"EarningsPerShareBasic":     {"EarningsPerShareBasic"},
	"CashAndCashEquivalents":    {"CashAndCashEquivalentsAtCarryingValue"},
	"CommonSharesOutstanding":   {"CommonStockSharesOutstanding"},
	"ResearchAndDevelopment":    {"ResearchAndDevelopmentExpense"},
}

// formsCatalog is the static form-type reference served by the catalog
// endpoint.
var formsCatalog = []models.FormType{
	{Form: "10-K", Description: "Annual report with audited financial statements"},
	{Form: "10-Q", Description: "Quarterly report with unaudited financial statements"},
	{Form: "8-K", Description: "Current report announcing material events"},
	{Form: "DEF 14A", Description: "Definitive proxy statement"},
	{Form: "S-1", Description: "Registration statement for new securities"},
	{Form: "4", Description: "Statement of changes in beneficial ownership"},
	{Form: "13F-HR", Description: "Quarterly institutional investment holdings"},
	{Form: "20-F", Description: "Annual report for foreign private issuers"},
}

// EdgarAPI is the filings upstream.
type EdgarAPI interface {
	CompanyTickers(ctx context.Context) (map[string]models.Company, error)
	Submissions(ctx context.Context, cik string, limit int) ([]models.Filing, error)
	CompanyFacts(ctx context.Context, cik string) (*sec.CompanyFactsRaw, error)
}

// Service is the company-filings provider service.
type Service struct {
	edgar     EdgarAPI
	mock      *mockdata.Generator
	cache     *infra.Cache
	log       zerolog.Logger
	forceMock bool
}

// New wires the filings service.
func New(edgar EdgarAPI, mock *mockdata.Generator, cache *infra.Cache, log zerolog.Logger, forceMock bool) *Service {
	return &Service{
		edgar:     edgar,
		mock:      mock,
		cache:     cache,
		log:       log.With().Str("service", "company-filings").Logger(),
		forceMock: forceMock,
	}
}

// GetCik resolves a ticker to its 10-digit CIK: known table first, then
// the exchange map, then the synthetic zero CIK.
func (s *Service) GetCik(ctx context.Context, ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return "", fmt.Errorf("ticker is required")
	}

	if cik, ok := knownCIKs[ticker]; ok {
		return cik, nil
	}

	companies, err := s.companyMap(ctx)
	if err == nil {
		if company, ok := companies[ticker]; ok {
			return company.CIK, nil
		}
	} else {
		s.log.Warn().Str("ticker", ticker).Err(err).Msg("exchange map unavailable for CIK resolution")
	}
	return syntheticCIK, nil
}

// GetFilings returns recent filings for a ticker through [edgar, mock].
func (s *Service) GetFilings(ctx context.Context, ticker string, limit int) ([]models.Filing, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	type filingList struct{ Filings []models.Filing }
	key := provider.Key(infra.NamespaceFilings, ticker, fmt.Sprint(limit))
	ttl := infra.NamespaceTTL(infra.NamespaceFilings, 0)
	cached, err := provider.ReadThrough(s.cache, key, ttl, func() (*filingList, error) {
		if s.forceMock {
			return &filingList{Filings: s.mock.Filings(ticker, limit)}, nil
		}
		result, _ := provider.First(ctx, s.log, "filings "+ticker,
			provider.Source[filingList]{Name: "SEC EDGAR", Load: func(ctx context.Context) (*filingList, error) {
				cik, err := s.GetCik(ctx, ticker)
				if err != nil {
					return nil, err
				}
				if cik == syntheticCIK {
					return nil, provider.ErrNoData
				}
				filings, err := s.edgar.Submissions(ctx, cik, limit)
				if err != nil {
					return nil, err
				}
				return &filingList{Filings: filings}, nil
			}},
			provider.Source[filingList]{Name: "Demo", Load: func(ctx context.Context) (*filingList, error) {
				return &filingList{Filings: s.mock.Filings(ticker, limit)}, nil
			}},
		)
		if result == nil {
			return nil, provider.Unavailable("filings", "all sources exhausted for "+ticker)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return cached.Filings, nil
}

// GetFilingsByForm filters the generic filings result by form type. No
// separate upstream call is made.
func (s *Service) GetFilingsByForm(ctx context.Context, ticker, form string, limit int) ([]models.Filing, error) {
	form = strings.ToUpper(strings.TrimSpace(form))
	if form == "" {
		return nil, fmt.Errorf("form type is required")
	}

	// Fetch a generous window so the filter still yields results.
	all, err := s.GetFilings(ctx, ticker, 100)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 10
	}
	filtered := make([]models.Filing, 0, limit)
	for _, f := range all {
		if strings.EqualFold(f.Form, form) {
			filtered = append(filtered, f)
			if len(filtered) == limit {
				break
			}
		}
	}
	return filtered, nil
}

// GetCompanyFacts returns the latest-value XBRL view for a ticker.
func (s *Service) GetCompanyFacts(ctx context.Context, ticker string) (*models.CompanyFacts, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	key := provider.Key(infra.NamespaceFilings, "facts", ticker)
	ttl := infra.NamespaceTTL(infra.NamespaceFilings, 0)
	return provider.ReadThrough(s.cache, key, ttl, func() (*models.CompanyFacts, error) {
		if s.forceMock {
			return s.mock.CompanyFacts(ticker), nil
		}
		facts, _ := provider.First(ctx, s.log, "facts "+ticker,
			provider.Source[models.CompanyFacts]{Name: "SEC EDGAR", Load: func(ctx context.Context) (*models.CompanyFacts, error) {
				return s.liveFacts(ctx, ticker)
			}},
			provider.Source[models.CompanyFacts]{Name: "Demo", Load: func(ctx context.Context) (*models.CompanyFacts, error) {
				return s.mock.CompanyFacts(ticker), nil
			}},
		)
		if facts == nil {
			return nil, provider.Unavailable("company facts", "all sources exhausted for "+ticker)
		}
		return facts, nil
	})
}

func (s *Service) liveFacts(ctx context.Context, ticker string) (*models.CompanyFacts, error) {
	cik, err := s.GetCik(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if cik == syntheticCIK {
		return nil, provider.ErrNoData
	}

	raw, err := s.edgar.CompanyFacts(ctx, cik)
	if err != nil {
		return nil, err
	}

	extracted := extractLatestFacts(raw.Facts)
	if len(extracted) == 0 {
		return nil, provider.ErrNoData
	}
	return &models.CompanyFacts{
		Company: models.Company{CIK: cik, Ticker: ticker, Name: raw.EntityName},
		Facts:   extracted,
		Source:  "SEC EDGAR",
	}, nil
}

// extractLatestFacts walks every alias and unit bucket per canonical
// metric, keeping the observation with the lexicographically greatest end
// date.
func extractLatestFacts(raw map[string]sec.FactBuckets) map[string]models.CompanyFact {
	out := make(map[string]models.CompanyFact, len(factAliases))
	for canonical, aliases := range factAliases {
		var best *models.CompanyFact
		for _, alias := range aliases {
			buckets, ok := raw[alias]
			if !ok {
				continue
			}
			for unit, observations := range buckets.Units {
				for _, obs := range observations {
					if obs.End == "" {
						continue
					}
					if best == nil || obs.End > best.EndDate {
						best = &models.CompanyFact{
							Value:     obs.Val,
							Unit:      unit,
							EndDate:   obs.End,
							StartDate: obs.Start,
							Form:      obs.Form,
							Filed:     obs.Filed,
						}
					}
				}
			}
			if best != nil {
				break // first alias with data wins
			}
		}
		if best != nil {
			out[canonical] = *best
		}
	}
	return out
}

// SearchCompanies matches the exchange map by ticker or name substring.
func (s *Service) SearchCompanies(ctx context.Context, query string) ([]models.Company, error) {
	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	companies, err := s.companyMap(ctx)
	if err != nil {
		return nil, provider.Unavailable("company search", err.Error())
	}

	var matches []models.Company
	for _, company := range companies {
		if strings.Contains(company.Ticker, query) || strings.Contains(strings.ToUpper(company.Name), query) {
			matches = append(matches, company)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Ticker < matches[j].Ticker })
	if len(matches) > 25 {
		matches = matches[:25]
	}
	return matches, nil
}

// FormsCatalog returns the static form-type reference.
func (s *Service) FormsCatalog() []models.FormType {
	return formsCatalog
}

// latestTenKTickers is the whitelist scanned by the latest-10-K endpoint.
var latestTenKTickers = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA"}

// LatestTenK is one company's most recent annual report.
type LatestTenK struct {
	Ticker string        `json:"ticker"`
	Name   string        `json:"name"`
	Filing models.Filing `json:"filing"`
}

// GetLatestTenK returns the most recent 10-K per whitelisted company,
// newest filing first.
func (s *Service) GetLatestTenK(ctx context.Context) ([]LatestTenK, error) {
	results := make([]*LatestTenK, len(latestTenKTickers))
	g, gctx := errgroup.WithContext(ctx)
	for i, ticker := range latestTenKTickers {
		i, ticker := i, ticker
		g.Go(func() error {
			filings, err := s.GetFilingsByForm(gctx, ticker, "10-K", 1)
			if err != nil || len(filings) == 0 {
				return nil
			}
			results[i] = &LatestTenK{
				Ticker: ticker,
				Name:   companyName(ticker),
				Filing: filings[0],
			}
			return nil
		})
	}
	_ = g.Wait()

	var out []LatestTenK
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filing.FilingDate > out[j].Filing.FilingDate })
	return out, nil
}

func companyName(ticker string) string {
	names := map[string]string{
		"AAPL": "Apple Inc.", "MSFT": "Microsoft Corporation", "GOOGL": "Alphabet Inc.",
		"AMZN": "Amazon.com Inc.", "NVDA": "NVIDIA Corporation", "META": "Meta Platforms Inc.",
		"TSLA": "Tesla Inc.",
	}
	if name, ok := names[ticker]; ok {
		return name
	}
	return ticker
}

// companyMap is the cached exchange ticker map.
func (s *Service) companyMap(ctx context.Context) (map[string]models.Company, error) {
	type companySet struct{ Companies map[string]models.Company }
	key := provider.Key(infra.NamespaceFilings, "company-map")
	cached, err := provider.ReadThrough(s.cache, key, 24*time.Hour, func() (*companySet, error) {
		companies, err := s.edgar.CompanyTickers(ctx)
		if err != nil {
			return nil, err
		}
		return &companySet{Companies: companies}, nil
	})
	if err != nil {
		return nil, err
	}
	return cached.Companies, nil
}

// HealthStatus is the health probe result.
type HealthStatus struct {
	Service   string    `json:"service"`
	Healthy   bool      `json:"healthy"`
	Detail    string    `json:"detail,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Health probes the filings chain with a representative ticker.
func (s *Service) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{Service: "company-filings", CheckedAt: time.Now().UTC()}
	filings, err := s.GetFilings(ctx, "AAPL", 1)
	switch {
	case err != nil:
		status.Detail = err.Error()
	case len(filings) > 0 && strings.HasPrefix(filings[0].AccessionNumber, syntheticCIK):
		status.Healthy = true
		status.Detail = "serving demo data; live provider unavailable"
	default:
		status.Healthy = true
		status.Detail = "serving SEC EDGAR"
	}
	return status
}
