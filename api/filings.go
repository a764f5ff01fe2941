package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) filingsRoutes(r chi.Router) {
	r.Get("/company/{ticker}", s.handleCompanyFilings)
	r.Get("/company/{ticker}/form/{formType}", s.handleFilingsByForm)
	r.Get("/company/{ticker}/facts", s.handleCompanyFacts)
	r.Get("/cik/{ticker}", s.handleCikLookup)
	r.Get("/search", s.handleCompanySearch)
	r.Get("/forms", s.handleFormsCatalog)
	r.Get("/latest/10-k", s.handleLatestTenK)
	r.Get("/health", s.handleFilingsHealth)
}

func filingLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (s *Server) handleCompanyFilings(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		s.writeError(w, http.StatusBadRequest, "ticker is required", "", nil)
		return
	}

	results, err := s.filings.GetFilings(r.Context(), ticker, filingLimit(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, results)
}

func (s *Server) handleFilingsByForm(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	formType := chi.URLParam(r, "formType")
	if ticker == "" || formType == "" {
		s.writeError(w, http.StatusBadRequest, "ticker and form type are required", "", nil)
		return
	}

	results, err := s.filings.GetFilingsByForm(r.Context(), ticker, formType, filingLimit(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, results)
}

func (s *Server) handleCompanyFacts(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		s.writeError(w, http.StatusBadRequest, "ticker is required", "", nil)
		return
	}

	facts, err := s.filings.GetCompanyFacts(r.Context(), ticker)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, facts)
}

func (s *Server) handleCikLookup(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		s.writeError(w, http.StatusBadRequest, "ticker is required", "", nil)
		return
	}

	cik, err := s.filings.GetCik(r.Context(), ticker)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, map[string]string{"ticker": ticker, "cik": cik})
}

func (s *Server) handleCompanySearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter q is required", "", nil)
		return
	}

	companies, err := s.filings.SearchCompanies(r.Context(), query)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, companies)
}

func (s *Server) handleFormsCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, http.StatusOK, s.filings.FormsCatalog())
}

func (s *Server) handleLatestTenK(w http.ResponseWriter, r *http.Request) {
	latest, err := s.filings.GetLatestTenK(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, latest)
}

func (s *Server) handleFilingsHealth(w http.ResponseWriter, r *http.Request) {
	status := s.filings.Health(r.Context())
	s.writeHealthStatus(w, status.Healthy, status)
}
