package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) econRoutes(r chi.Router) {
	r.Get("/us", s.handleUSIndicators)
	r.Get("/india", s.handleIndiaIndicators)
	r.Get("/global", s.handleGlobalIndicators)
	r.Get("/forex", s.handleForex)
	r.Get("/summary", s.handleUSIndicators)
	r.Get("/fred/{seriesId}", s.handleSeries)
	r.Get("/health", s.handleEconHealth)
}

func (s *Server) handleUSIndicators(w http.ResponseWriter, r *http.Request) {
	summary, err := s.econ.GetUSSummary(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, summary)
}

func (s *Server) handleIndiaIndicators(w http.ResponseWriter, r *http.Request) {
	summary, err := s.econ.GetRegionalSummary(r.Context(), "india")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, summary)
}

func (s *Server) handleGlobalIndicators(w http.ResponseWriter, r *http.Request) {
	summary, err := s.econ.GetGlobalSummary(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, summary)
}

func (s *Server) handleForex(w http.ResponseWriter, r *http.Request) {
	rates, err := s.econ.GetForex(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, rates)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "seriesId")
	if seriesID == "" {
		s.writeError(w, http.StatusBadRequest, "series id is required", "", nil)
		return
	}

	series, err := s.econ.GetSeries(r.Context(), seriesID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, series)
}

func (s *Server) handleEconHealth(w http.ResponseWriter, r *http.Request) {
	status := s.econ.Health(r.Context())
	s.writeHealthStatus(w, status.Healthy, status)
}
