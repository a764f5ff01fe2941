// Package mockdata generates deterministic synthetic payloads shaped
// like every provider-service result. Payloads are keyed by their input
// (symbol, series ID, ...) so repeated calls agree, and every record is
// tagged Source="Demo" so downstream consumers can detect demo data.
package mockdata

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/finsight/finsight/pkg/models"
)

// Source tags every synthetic record.
const Source = "Demo"

// Generator produces synthetic payloads. Safe for concurrent use: each
// call derives its own seeded RNG from the input key.
type Generator struct{}

// New creates a Generator.
func New() *Generator { return &Generator{} }

func seeded(key string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToUpper(key)))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// basePrice derives a stable price level in [20, 520) from the symbol.
func basePrice(symbol string) float64 {
	r := seeded(symbol)
	return 20 + r.Float64()*500
}

// Quote builds a synthetic quote around the symbol's stable base price.
func (g *Generator) Quote(symbol string) *models.Quote {
	r := seeded(symbol)
	base := basePrice(symbol)
	prevClose := base * (1 + (r.Float64()-0.5)*0.02)
	current := prevClose * (1 + (r.Float64()-0.5)*0.04)

	q := &models.Quote{
		Symbol:        strings.ToUpper(symbol),
		Name:          strings.ToUpper(symbol) + " (Demo)",
		Currency:      "USD",
		Exchange:      "DEMO",
		CurrentPrice:  round2(current),
		PreviousClose: round2(prevClose),
		Volume:        int64(1_000_000 + r.Intn(50_000_000)),
		DayRange: models.Range{
			Low:  round2(math.Min(current, prevClose) * 0.99),
			High: round2(math.Max(current, prevClose) * 1.01),
		},
		FiftyTwoWeekRange: models.Range{
			Low:  round2(base * 0.7),
			High: round2(base * 1.3),
		},
		MarketCap:   round2(current * float64(100_000_000+r.Intn(2_000_000_000))),
		MarketState: "REGULAR",
		Timestamp:   time.Now().UTC(),
		Source:      Source,
	}
	q.Derive()
	return q
}

// History builds a random-walk candle series ending near the symbol's
// base price, newest last.
func (g *Generator) History(symbol, interval string, bars int) *models.PriceSeries {
	if bars <= 0 {
		bars = 100
	}
	r := seeded(symbol + ":" + interval)
	price := basePrice(symbol)

	step := 24 * time.Hour
	if strings.Contains(interval, "min") {
		step = 5 * time.Minute
	}

	series := &models.PriceSeries{
		Symbol:   strings.ToUpper(symbol),
		Interval: interval,
		Source:   Source,
	}
	ts := time.Now().UTC().Add(-time.Duration(bars) * step)
	for i := 0; i < bars; i++ {
		open := price
		price *= 1 + (r.Float64()-0.5)*0.03
		high := math.Max(open, price) * (1 + r.Float64()*0.01)
		low := math.Min(open, price) * (1 - r.Float64()*0.01)
		series.Candles = append(series.Candles, models.Candle{
			Timestamp: ts,
			Open:      round2(open),
			High:      round2(high),
			Low:       round2(low),
			Close:     round2(price),
			Volume:    int64(500_000 + r.Intn(10_000_000)),
		})
		ts = ts.Add(step)
	}
	return series
}

// Technical builds a synthetic indicator series, newest first.
func (g *Generator) Technical(symbol, indicator, interval string, timePeriod int) *models.TechnicalIndicator {
	r := seeded(symbol + ":" + indicator)
	result := &models.TechnicalIndicator{
		Symbol:     strings.ToUpper(symbol),
		Indicator:  strings.ToUpper(indicator),
		Interval:   interval,
		TimePeriod: timePeriod,
		Source:     Source,
	}

	day := time.Now().UTC()
	for i := 0; i < 30; i++ {
		point := models.IndicatorPoint{Date: day.Format("2006-01-02")}
		switch result.Indicator {
		case "RSI", "STOCH", "ADX":
			point.Value = round2(30 + r.Float64()*40) // mid-band oscillator
		case "MACD":
			point.Value = round2((r.Float64() - 0.5) * 4)
			signal := round2(point.Value - (r.Float64()-0.5))
			hist := round2(point.Value - signal)
			point.Signal = &signal
			point.Histogram = &hist
		default:
			point.Value = round2(basePrice(symbol) * (1 + (r.Float64()-0.5)*0.05))
		}
		result.Points = append(result.Points, point)
		day = day.AddDate(0, 0, -1)
	}
	return result
}

// Overview builds synthetic fundamentals.
func (g *Generator) Overview(symbol string) *models.CompanyOverview {
	r := seeded(symbol + ":overview")
	pe := round2(8 + r.Float64()*35)
	peg := round2(0.5 + r.Float64()*3)
	pb := round2(1 + r.Float64()*10)
	dy := round2(r.Float64()*0.05*10000) / 10000
	pm := round2(r.Float64()*0.3*10000) / 10000
	de := round2(0.2 + r.Float64()*2)

	return &models.CompanyOverview{
		Symbol:            strings.ToUpper(symbol),
		Name:              strings.ToUpper(symbol) + " (Demo)",
		Description:       "Synthetic company overview generated for demonstration.",
		Sector:            "Technology",
		Industry:          "Software",
		MarketCap:         round2(basePrice(symbol) * 1_000_000_000),
		PERatio:           &pe,
		PEGRatio:          &peg,
		PriceToBookRatio:  &pb,
		DividendYield:     &dy,
		ProfitMargin:      &pm,
		DebtToEquityRatio: &de,
		Source:            Source,
	}
}

// Series builds a synthetic economic series, newest first, monthly.
func (g *Generator) Series(seriesID string, observations int) *models.EconomicSeries {
	if observations <= 0 {
		observations = 24
	}
	r := seeded("series:" + seriesID)
	level := 50 + r.Float64()*100

	series := &models.EconomicSeries{
		SeriesID: seriesID,
		Title:    seriesID + " (Demo)",
		Source:   Source,
	}
	month := time.Now().UTC()
	for i := 0; i < observations; i++ {
		series.Observations = append(series.Observations, models.SeriesObservation{
			Date:  month.Format("2006-01-02"),
			Value: round2(level),
		})
		level *= 1 + (r.Float64()-0.5)*0.02
		month = month.AddDate(0, -1, 0)
	}
	return series
}

var mockHeadlines = []struct {
	title     string
	sentiment string
}{
	{"%s reports quarterly results ahead of expectations", models.SentimentPositive},
	{"Analysts raise price target on %s after strong guidance", models.SentimentPositive},
	{"%s announces expanded share buyback program", models.SentimentPositive},
	{"%s trading flat as market awaits economic data", models.SentimentNeutral},
	{"%s schedules annual shareholder meeting", models.SentimentNeutral},
	{"%s faces margin pressure from rising input costs", models.SentimentNegative},
	{"Regulatory scrutiny weighs on %s shares", models.SentimentNegative},
}

// News builds a synthetic article set. ticker may be empty for general
// market news.
func (g *Generator) News(ticker string, count int) []models.NewsArticle {
	if count <= 0 || count > len(mockHeadlines) {
		count = len(mockHeadlines)
	}
	subject := strings.ToUpper(ticker)
	if subject == "" {
		subject = "Markets"
	}
	r := seeded("news:" + subject)

	articles := make([]models.NewsArticle, 0, count)
	published := time.Now().UTC()
	for i := 0; i < count; i++ {
		h := mockHeadlines[i]
		articles = append(articles, models.NewsArticle{
			Title:          fmt.Sprintf(h.title, subject),
			Summary:        "Synthetic article generated for demonstration purposes.",
			Source:         Source,
			PublishedAt:    published,
			Sentiment:      h.sentiment,
			URL:            fmt.Sprintf("https://demo.finsight.dev/news/%s/%d", strings.ToLower(subject), i),
			RelevanceScore: round2(0.4 + r.Float64()*0.6),
		})
		published = published.Add(-time.Duration(2+r.Intn(10)) * time.Hour)
	}
	return articles
}

// Filings builds a synthetic filings list.
func (g *Generator) Filings(ticker string, limit int) []models.Filing {
	if limit <= 0 || limit > 8 {
		limit = 8
	}
	forms := []string{"10-K", "10-Q", "8-K", "10-Q", "8-K", "DEF 14A", "10-Q", "4"}
	r := seeded("filings:" + ticker)

	filings := make([]models.Filing, 0, limit)
	date := time.Now().UTC()
	for i := 0; i < limit; i++ {
		date = date.AddDate(0, 0, -(20 + r.Intn(70)))
		filings = append(filings, models.Filing{
			AccessionNumber: fmt.Sprintf("0000000000-%02d-%06d", date.Year()%100, i+1),
			Form:            forms[i%len(forms)],
			FilingDate:      date.Format("2006-01-02"),
			ReportDate:      date.AddDate(0, 0, -15).Format("2006-01-02"),
			PrimaryDocument: "demo-filing.htm",
			Size:            int64(100_000 + r.Intn(900_000)),
			IsXBRL:          i%2 == 0,
			URL:             fmt.Sprintf("https://demo.finsight.dev/filings/%s/%d", strings.ToLower(ticker), i),
		})
	}
	return filings
}

// CompanyFacts builds synthetic latest-value XBRL facts.
func (g *Generator) CompanyFacts(ticker string) *models.CompanyFacts {
	r := seeded("facts:" + ticker)
	ticker = strings.ToUpper(ticker)
	end := time.Now().UTC().AddDate(0, -3, 0).Format("2006-01-02")
	filed := time.Now().UTC().AddDate(0, -2, 0).Format("2006-01-02")

	revenue := float64(1_000_000_000 + r.Intn(400_000_000_000))
	facts := map[string]models.CompanyFact{
		"Revenues":           {Value: revenue, Unit: "USD", EndDate: end, Form: "10-K", Filed: filed},
		"NetIncomeLoss":      {Value: round2(revenue * (0.05 + r.Float64()*0.2)), Unit: "USD", EndDate: end, Form: "10-K", Filed: filed},
		"Assets":             {Value: round2(revenue * (1 + r.Float64()*2)), Unit: "USD", EndDate: end, Form: "10-K", Filed: filed},
		"Liabilities":        {Value: round2(revenue * (0.5 + r.Float64())), Unit: "USD", EndDate: end, Form: "10-K", Filed: filed},
		"StockholdersEquity": {Value: round2(revenue * (0.3 + r.Float64()*0.7)), Unit: "USD", EndDate: end, Form: "10-K", Filed: filed},
	}
	return &models.CompanyFacts{
		Company: models.Company{CIK: "0000000000", Ticker: ticker, Name: ticker + " (Demo)"},
		Facts:   facts,
		Source:  Source,
	}
}

// Forex builds synthetic currency-pair rates.
func (g *Generator) Forex() []models.ForexRate {
	pairs := map[string]float64{
		"EUR/USD": 1.08, "USD/JPY": 150.2, "GBP/USD": 1.26, "USD/INR": 83.1,
	}
	r := seeded("forex")

	now := time.Now().UTC()
	rates := make([]models.ForexRate, 0, len(pairs))
	for _, pair := range []string{"EUR/USD", "USD/JPY", "GBP/USD", "USD/INR"} {
		base := pairs[pair]
		rates = append(rates, models.ForexRate{
			Pair:      pair,
			Rate:      round4(base * (1 + (r.Float64()-0.5)*0.01)),
			Change:    round4((r.Float64() - 0.5) * 0.01),
			Timestamp: now,
			Source:    Source,
		})
	}
	return rates
}

// SentimentAnalysis builds the demo sentiment sub-analysis used when the
// news slot is absent.
func (g *Generator) SentimentAnalysis(symbol string) models.SentimentAnalysis {
	return models.SentimentAnalysis{
		Overall:      models.SentimentNeutral,
		Score:        0,
		Confidence:   models.ConfidenceLow,
		Breakdown:    models.SentimentBreakdown{Positive: 33, Neutral: 34, Negative: 33},
		RecentTrend:  "stable",
		ArticleCount: 0,
		Reasoning:    []string{"No live news available; neutral demo sentiment substituted"},
		Source:       Source,
	}
}

// TechnicalAnalysis builds the demo technical sub-analysis.
func (g *Generator) TechnicalAnalysis(symbol string) models.TechnicalAnalysis {
	return models.TechnicalAnalysis{
		Overall:        "neutral",
		Recommendation: "hold",
		Confidence:     models.ConfidenceMedium,
		Source:         Source,
	}
}

// FundamentalAnalysis builds the demo fundamental sub-analysis.
func (g *Generator) FundamentalAnalysis(symbol string) models.FundamentalAnalysis {
	return models.FundamentalAnalysis{
		Overall:    "neutral",
		Confidence: models.ConfidenceLow,
		Source:     Source,
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
