package utils

import "strings"

// nseAliases maps common spellings and abbreviations to the canonical
// NSE ticker.
var nseAliases = map[string]string{
	"RIL":           "RELIANCE",
	"INFOSYS":       "INFY",
	"HDFC BANK":     "HDFCBANK",
	"ICICI BANK":    "ICICIBANK",
	"SBI":           "SBIN",
	"AIRTEL":        "BHARTIARTL",
	"L&T":           "LT",
	"TATA MOTORS":   "TATAMOTORS",
	"TATA STEEL":    "TATASTEEL",
	"HCL TECH":      "HCLTECH",
	"KOTAK":         "KOTAKBANK",
	"AXIS BANK":     "AXISBANK",
	"SUN PHARMA":    "SUNPHARMA",
	"ASIAN PAINTS":  "ASIANPAINT",
	"NESTLE":        "NESTLEIND",
	"ULTRATECH":     "ULTRACEMCO",
	"TECH MAHINDRA": "TECHM",
	"MAHINDRA":      "M&M",
	"ADANI":         "ADANIENT",
	"HUL":           "HINDUNILVR",
	"COAL INDIA":    "COALINDIA",
}

// nseIndices maps index names to their Yahoo Finance symbols.
var nseIndices = map[string]string{
	"NIFTY":      "^NSEI",
	"NIFTY50":    "^NSEI",
	"NIFTY 50":   "^NSEI",
	"BANKNIFTY":  "^NSEBANK",
	"NIFTYBANK":  "^NSEBANK",
	"NIFTY BANK": "^NSEBANK",
	"NIFTYIT":    "^CNXIT",
	"NIFTY IT":   "^CNXIT",
	"SENSEX":     "^BSESN",
}

// YahooSymbol resolves user input for an Indian listing into the symbol
// the chart upstream expects: aliases are canonicalized, index names map
// to their caret form, and equities get the .NS suffix.
func YahooSymbol(raw string) string {
	ticker := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(raw)), "$")
	if ticker == "" {
		return ticker
	}

	if index, ok := nseIndices[ticker]; ok {
		return index
	}
	if canonical, ok := nseAliases[ticker]; ok {
		ticker = canonical
	}

	if strings.HasPrefix(ticker, "^") || strings.Contains(ticker, ".") {
		return ticker
	}
	return ticker + ".NS"
}

// IsNSEIndex reports whether the input names an index rather than an
// equity.
func IsNSEIndex(raw string) bool {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := nseIndices[ticker]; ok {
		return true
	}
	return strings.HasPrefix(ticker, "^")
}
