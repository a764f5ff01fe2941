package yahoo

import (
	"fmt"

	"github.com/finsight/finsight/internal/provider"
)

// chartResponse wraps the v8 chart API payload.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta       chartMeta `json:"meta"`
	Timestamps []int64   `json:"timestamp"`
	Indicators struct {
		Quote []quoteArrays `json:"quote"`
	} `json:"indicators"`
}

type chartMeta struct {
	Currency           string  `json:"currency"`
	Symbol             string  `json:"symbol"`
	ExchangeName       string  `json:"exchangeName"`
	InstrumentType     string  `json:"instrumentType"`
	ShortName          string  `json:"shortName"`
	LongName           string  `json:"longName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
	PreviousClose      float64 `json:"previousClose"`
	RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
	RegularMarketVolume  int64   `json:"regularMarketVolume"`
	FiftyTwoWeekHigh     float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow      float64 `json:"fiftyTwoWeekLow"`
	RegularMarketTime    int64   `json:"regularMarketTime"`
	MarketState          string  `json:"marketState"`
}

// quoteArrays holds the parallel OHLCV arrays. Pointers keep the JSON
// nulls that Yahoo emits for gap bars distinguishable from zeros.
type quoteArrays struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

func (r *chartResponse) firstResult() (chartResult, error) {
	if r.Chart.Error != nil {
		return chartResult{}, fmt.Errorf("yahoo chart error %s: %s", r.Chart.Error.Code, r.Chart.Error.Description)
	}
	if len(r.Chart.Result) == 0 {
		return chartResult{}, provider.ErrNoData
	}
	return r.Chart.Result[0], nil
}
