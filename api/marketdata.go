package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/finsight/finsight/pkg/utils"
)

func (s *Server) marketDataRoutes(r chi.Router) {
	r.Get("/stock/{symbol}", s.handleStockQuote)
	r.Get("/indian-stock/{symbol}", s.handleIndianStockQuote)
	r.Get("/indian-stocks/top", s.handleIndianTopStocks)
	r.Get("/indian-indices", s.handleIndianIndices)
	r.Get("/search", s.handleSymbolSearch)
	r.Post("/bulk", s.handleBulkQuotes)
	r.Get("/alpha/quote/{symbol}", s.handleStockQuote)
	r.Get("/alpha/intraday/{symbol}", s.handleIntraday)
	r.Get("/alpha/daily/{symbol}", s.handleDaily)
	r.Get("/alpha/technical/{symbol}/{indicator}", s.handleTechnical)
	r.Get("/alpha/overview/{symbol}", s.handleOverview)
	r.Get("/alpha/analysis/{symbol}", s.handleAnalyze)
	r.Get("/health", s.handleMarketDataHealth)
}

func (s *Server) handleStockQuote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		s.writeError(w, http.StatusBadRequest, "symbol is required", "", nil)
		return
	}

	quote, err := s.market.GetQuote(r.Context(), symbol)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, quote)
}

// handleIndianStockQuote resolves NSE tickers: aliases are
// canonicalized, index names map to their caret form, and equities get
// the exchange suffix when the caller omits it.
func (s *Server) handleIndianStockQuote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		s.writeError(w, http.StatusBadRequest, "symbol is required", "", nil)
		return
	}
	symbol = utils.YahooSymbol(symbol)

	quote, err := s.market.GetQuote(r.Context(), symbol)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, quote)
}

func (s *Server) handleIndianTopStocks(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.market.GetRegionalTopSymbols(r.Context(), "india")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, quotes)
}

func (s *Server) handleIndianIndices(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.market.GetRegionalIndices(r.Context(), "india")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, quotes)
}

func (s *Server) handleSymbolSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter q is required", "", nil)
		return
	}

	matches, err := s.market.SearchSymbols(r.Context(), query)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, matches)
}

// BulkQuotesRequest is the body for POST /api/market-data/bulk.
type BulkQuotesRequest struct {
	Symbols []string `json:"symbols"`
}

func (s *Server) handleBulkQuotes(w http.ResponseWriter, r *http.Request) {
	var req BulkQuotesRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return
	}
	if len(req.Symbols) == 0 {
		s.writeError(w, http.StatusBadRequest, "symbols list is required", "", nil)
		return
	}

	quotes, err := s.market.GetBulkQuotes(r.Context(), req.Symbols)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, quotes)
}

func (s *Server) handleIntraday(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	interval := r.URL.Query().Get("interval")

	series, err := s.market.GetIntradaySeries(r.Context(), symbol, interval)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, series)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	outputSize := r.URL.Query().Get("outputsize")

	series, err := s.market.GetDailySeries(r.Context(), symbol, outputSize)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, series)
}

func (s *Server) handleTechnical(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	indicator := chi.URLParam(r, "indicator")
	interval := r.URL.Query().Get("interval")

	timePeriod := 0
	if raw := r.URL.Query().Get("time_period"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "time_period must be a positive integer", "", nil)
			return
		}
		timePeriod = n
	}

	result, err := s.market.GetTechnicalIndicator(r.Context(), symbol, indicator, interval, timePeriod)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, result)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	overview, err := s.market.GetCompanyOverview(r.Context(), symbol)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, overview)
}

func (s *Server) handleMarketDataHealth(w http.ResponseWriter, r *http.Request) {
	status := s.market.Health(r.Context())
	s.writeHealthStatus(w, status.Healthy, status)
}
