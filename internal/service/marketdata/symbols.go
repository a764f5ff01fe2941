package marketdata

import (
	"sort"
	"strings"

	"github.com/finsight/finsight/pkg/models"
)

// symbolDirectory is the static symbol catalog backing CompanyName lookups
// and the search fallback when the provider is unavailable.
var symbolDirectory = map[string]string{
	// US large caps
	"AAPL":  "Apple Inc.",
	"MSFT":  "Microsoft Corporation",
	"GOOGL": "Alphabet Inc.",
	"AMZN":  "Amazon.com Inc.",
	"NVDA":  "NVIDIA Corporation",
	"META":  "Meta Platforms Inc.",
	"TSLA":  "Tesla Inc.",
	"BRK-B": "Berkshire Hathaway Inc.",
	"JPM":   "JPMorgan Chase & Co.",
	"V":     "Visa Inc.",
	"JNJ":   "Johnson & Johnson",
	"WMT":   "Walmart Inc.",
	"XOM":   "Exxon Mobil Corporation",
	"PG":    "Procter & Gamble Company",
	"KO":    "Coca-Cola Company",
	"DIS":   "Walt Disney Company",
	"NFLX":  "Netflix Inc.",
	"INTC":  "Intel Corporation",
	"AMD":   "Advanced Micro Devices Inc.",
	"BA":    "Boeing Company",

	// NSE-listed
	"RELIANCE.NS":   "Reliance Industries Limited",
	"TCS.NS":        "Tata Consultancy Services Limited",
	"HDFCBANK.NS":   "HDFC Bank Limited",
	"INFY.NS":       "Infosys Limited",
	"ICICIBANK.NS":  "ICICI Bank Limited",
	"HINDUNILVR.NS": "Hindustan Unilever Limited",
	"SBIN.NS":       "State Bank of India",
	"BHARTIARTL.NS": "Bharti Airtel Limited",
	"ITC.NS":        "ITC Limited",
	"KOTAKBANK.NS":  "Kotak Mahindra Bank Limited",
	"LT.NS":         "Larsen & Toubro Limited",
	"WIPRO.NS":      "Wipro Limited",

	// Indices
	"^GSPC":  "S&P 500",
	"^DJI":   "Dow Jones Industrial Average",
	"^IXIC":  "NASDAQ Composite",
	"^NSEI":  "NIFTY 50",
	"^BSESN": "S&P BSE SENSEX",
}

// regionTopSymbols lists the symbols re-primed per region by the
// scheduler and served by the top-symbols endpoints.
var regionTopSymbols = map[string][]string{
	"us": {"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "JPM"},
	"india": {
		"RELIANCE.NS", "TCS.NS", "HDFCBANK.NS", "INFY.NS",
		"ICICIBANK.NS", "SBIN.NS", "BHARTIARTL.NS", "ITC.NS",
	},
}

// regionIndices lists index symbols per region.
var regionIndices = map[string][]string{
	"us":    {"^GSPC", "^DJI", "^IXIC"},
	"india": {"^NSEI", "^BSESN"},
}

// CompanyName resolves a symbol to its catalog name, falling back to the
// symbol itself for unknown tickers.
func CompanyName(symbol string) string {
	if name, ok := symbolDirectory[strings.ToUpper(symbol)]; ok {
		return name
	}
	return strings.ToUpper(symbol)
}

// TopSymbols returns the per-region symbol whitelist; unknown regions get
// the US list.
func TopSymbols(region string) []string {
	if symbols, ok := regionTopSymbols[strings.ToLower(region)]; ok {
		return symbols
	}
	return regionTopSymbols["us"]
}

// IndexSymbols returns the per-region index list; unknown regions get the
// US list.
func IndexSymbols(region string) []string {
	if indices, ok := regionIndices[strings.ToLower(region)]; ok {
		return indices
	}
	return regionIndices["us"]
}

// staticMatches searches the symbol catalog by substring for the search
// fallback, ordered by symbol for stable output.
func staticMatches(query string) []models.SymbolMatch {
	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var matches []models.SymbolMatch
	for symbol, name := range symbolDirectory {
		if strings.Contains(symbol, query) || strings.Contains(strings.ToUpper(name), query) {
			matches = append(matches, models.SymbolMatch{
				Symbol:     symbol,
				Name:       name,
				Type:       "Equity",
				MatchScore: 0.5,
				Source:     "Static Catalog",
			})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Symbol < matches[j].Symbol })
	return matches
}
