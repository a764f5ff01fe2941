package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) analysisRoutes(r chi.Router) {
	r.Get("/analyze/{symbol}", s.handleAnalyze)
	r.Get("/search", s.handleAnalysisSearch)
	r.Get("/quick/{symbol}", s.handleQuickAnalysis)
	r.Get("/trending", s.handleTrending)
	r.Get("/sentiment/{symbol}", s.handleSentiment)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		s.writeError(w, http.StatusBadRequest, "symbol is required", "", nil)
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), symbol)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, result)
}

func (s *Server) handleAnalysisSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter q is required", "", nil)
		return
	}

	matches, err := s.analyzer.Search(r.Context(), query)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, matches)
}

func (s *Server) handleQuickAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		s.writeError(w, http.StatusBadRequest, "symbol is required", "", nil)
		return
	}

	quick, err := s.analyzer.Quick(r.Context(), symbol)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, quick)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	if region == "" {
		region = "us"
	}

	trending, err := s.analyzer.Trending(r.Context(), region)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, trending)
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		s.writeError(w, http.StatusBadRequest, "symbol is required", "", nil)
		return
	}

	sentiment, err := s.analyzer.Sentiment(r.Context(), symbol)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, sentiment)
}
