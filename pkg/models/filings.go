package models

// Company identifies a securities filer.
type Company struct {
	CIK    string `json:"cik"` // 10 digits, zero padded
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// Filing is one regulatory filing from the submissions index.
type Filing struct {
	AccessionNumber string `json:"accessionNumber"`
	Form            string `json:"form"`
	FilingDate      string `json:"filingDate"`
	ReportDate      string `json:"reportDate,omitempty"`
	PrimaryDocument string `json:"primaryDocument,omitempty"`
	Size            int64  `json:"size,omitempty"`
	IsXBRL          bool   `json:"isXBRL"`
	URL             string `json:"url"`
}

// CompanyFact is the latest reported value for one XBRL metric: the
// observation with the lexicographically greatest end date across all
// unit buckets.
type CompanyFact struct {
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	EndDate   string  `json:"endDate"`
	StartDate string  `json:"startDate,omitempty"`
	Form      string  `json:"form"`
	Filed     string  `json:"filed"`
}

// CompanyFacts is the extracted latest-value view of a company's XBRL
// facts, keyed by canonical metric name.
type CompanyFacts struct {
	Company Company                `json:"company"`
	Facts   map[string]CompanyFact `json:"facts"`
	Source  string                 `json:"source"`
}

// FormType describes one filing form for the static catalog endpoint.
type FormType struct {
	Form        string `json:"form"`
	Description string `json:"description"`
}
