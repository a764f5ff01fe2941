// Package sec implements the SEC EDGAR client: the exchange ticker map,
// the submissions index (parallel arrays zipped by index), and XBRL
// company facts. EDGAR requires a descriptive User-Agent identifying the
// caller; anonymous requests are rejected.
package sec

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/finsight/finsight/internal/infra"
	"github.com/finsight/finsight/internal/provider"
	"github.com/finsight/finsight/internal/upstream/httpx"
	"github.com/finsight/finsight/pkg/models"
)

const (
	sourceName = "SEC EDGAR"
	userAgent  = "FinSight research aggregator (contact: ops@finsight.dev)"
)

// Client calls EDGAR's JSON endpoints.
type Client struct {
	http        *http.Client
	limiter     *infra.RateLimiter
	dataBaseURL string // data.sec.gov
	wwwBaseURL  string // www.sec.gov
}

// New creates an EDGAR client. EDGAR enforces 10 req/s per caller.
func New() *Client {
	return &Client{
		http:        &http.Client{Timeout: 10 * time.Second},
		limiter:     infra.NewRateLimiter(8, time.Second),
		dataBaseURL: "https://data.sec.gov",
		wwwBaseURL:  "https://www.sec.gov",
	}
}

// NewWithBaseURLs is used by tests to point the client at fake servers.
func NewWithBaseURLs(dataBase, wwwBase string) *Client {
	c := New()
	c.dataBaseURL = dataBase
	c.wwwBaseURL = wwwBase
	return c
}

func secHeaders() map[string]string {
	return map[string]string{"User-Agent": userAgent}
}

// CompanyTickers fetches the exchange ticker→CIK map.
func (c *Client) CompanyTickers(ctx context.Context) (map[string]models.Company, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp map[string]struct {
		CIK    int64  `json:"cik_str"`
		Ticker string `json:"ticker"`
		Title  string `json:"title"`
	}
	u := c.wwwBaseURL + "/files/company_tickers.json"
	if err := httpx.GetJSON(ctx, c.http, u, secHeaders(), &resp); err != nil {
		return nil, fmt.Errorf("sec company tickers: %w", err)
	}
	if len(resp) == 0 {
		return nil, provider.ErrNoData
	}

	companies := make(map[string]models.Company, len(resp))
	for _, row := range resp {
		ticker := strings.ToUpper(row.Ticker)
		companies[ticker] = models.Company{
			CIK:    PadCIK(fmt.Sprintf("%d", row.CIK)),
			Ticker: ticker,
			Name:   row.Title,
		}
	}
	return companies, nil
}

type submissionsResponse struct {
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			Form            []string `json:"form"`
			FilingDate      []string `json:"filingDate"`
			ReportDate      []string `json:"reportDate"`
			PrimaryDocument []string `json:"primaryDocument"`
			Size            []int64  `json:"size"`
			IsXBRL          []int    `json:"isXBRL"`
		} `json:"recent"`
	} `json:"filings"`
}

// Submissions fetches the recent filings for a CIK. The upstream payload
// is a struct of parallel arrays; rows are zipped by index.
func (c *Client) Submissions(ctx context.Context, cik string, limit int) ([]models.Filing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	cik = PadCIK(cik)
	u := fmt.Sprintf("%s/submissions/CIK%s.json", c.dataBaseURL, cik)
	var resp submissionsResponse
	if err := httpx.GetJSON(ctx, c.http, u, secHeaders(), &resp); err != nil {
		return nil, fmt.Errorf("sec submissions %s: %w", cik, err)
	}

	recent := resp.Filings.Recent
	n := len(recent.AccessionNumber)
	if n == 0 {
		return nil, provider.ErrNoData
	}
	if limit > 0 && limit < n {
		n = limit
	}

	filings := make([]models.Filing, 0, n)
	for i := 0; i < n; i++ {
		filing := models.Filing{
			AccessionNumber: at(recent.AccessionNumber, i),
			Form:            at(recent.Form, i),
			FilingDate:      at(recent.FilingDate, i),
			ReportDate:      at(recent.ReportDate, i),
			PrimaryDocument: at(recent.PrimaryDocument, i),
		}
		if i < len(recent.Size) {
			filing.Size = recent.Size[i]
		}
		if i < len(recent.IsXBRL) {
			filing.IsXBRL = recent.IsXBRL[i] == 1
		}
		filing.URL = c.filingURL(cik, filing)
		filings = append(filings, filing)
	}
	return filings, nil
}

// FactObservation is one raw XBRL observation.
type FactObservation struct {
	End   string  `json:"end"`
	Start string  `json:"start,omitempty"`
	Val   float64 `json:"val"`
	Form  string  `json:"form"`
	Filed string  `json:"filed"`
}

// FactBuckets maps unit type (USD, shares, ...) to observations.
type FactBuckets struct {
	Units map[string][]FactObservation `json:"units"`
}

// CompanyFactsRaw is the us-gaap fact tree keyed by metric name.
type CompanyFactsRaw struct {
	EntityName string                 `json:"entityName"`
	Facts      map[string]FactBuckets // us-gaap metrics
}

type companyFactsResponse struct {
	EntityName string `json:"entityName"`
	Facts      struct {
		USGAAP map[string]FactBuckets `json:"us-gaap"`
	} `json:"facts"`
}

// CompanyFacts fetches the raw XBRL fact tree for a CIK. Extraction of
// latest values per metric happens in the filings service.
func (c *Client) CompanyFacts(ctx context.Context, cik string) (*CompanyFactsRaw, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	cik = PadCIK(cik)
	u := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.dataBaseURL, cik)
	var resp companyFactsResponse
	if err := httpx.GetJSON(ctx, c.http, u, secHeaders(), &resp); err != nil {
		return nil, fmt.Errorf("sec company facts %s: %w", cik, err)
	}
	if len(resp.Facts.USGAAP) == 0 {
		return nil, provider.ErrNoData
	}
	return &CompanyFactsRaw{EntityName: resp.EntityName, Facts: resp.Facts.USGAAP}, nil
}

func (c *Client) filingURL(cik string, f models.Filing) string {
	if f.AccessionNumber == "" || f.PrimaryDocument == "" {
		return ""
	}
	accession := strings.ReplaceAll(f.AccessionNumber, "-", "")
	return fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s",
		c.wwwBaseURL, strings.TrimLeft(cik, "0"), accession, f.PrimaryDocument)
}

// PadCIK zero-pads a CIK to 10 digits.
func PadCIK(cik string) string {
	for len(cik) < 10 {
		cik = "0" + cik
	}
	return cik
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}
