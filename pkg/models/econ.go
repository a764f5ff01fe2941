package models

import "time"

// SeriesObservation is one dated value of an economic time series.
type SeriesObservation struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// EconomicSeries is a normalized economic time series. Observations are
// ordered newest first with strictly decreasing dates. An empty
// observation slice means "no data".
type EconomicSeries struct {
	SeriesID     string              `json:"seriesId"`
	Title        string              `json:"title"`
	Units        string              `json:"units,omitempty"`
	Observations []SeriesObservation `json:"observations"`
	Source       string              `json:"source"`
}

// Latest returns the most recent observation, or false when empty.
func (s *EconomicSeries) Latest() (SeriesObservation, bool) {
	if len(s.Observations) == 0 {
		return SeriesObservation{}, false
	}
	return s.Observations[0], true
}

// EconomicSummary groups indicator series for one region.
type EconomicSummary struct {
	Region      string                     `json:"region"`
	Indicators  map[string]*EconomicSeries `json:"indicators"`
	GeneratedAt time.Time                  `json:"generatedAt"`
	Source      string                     `json:"source"`
}

// ForexRate is one currency-pair rate.
type ForexRate struct {
	Pair      string    `json:"pair"`
	Rate      float64   `json:"rate"`
	Change    float64   `json:"change,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}
