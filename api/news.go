package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// newsCategories is the static catalog behind GET /api/news/categories.
var newsCategories = []string{
	"business", "technology", "general", "science", "health",
}

func (s *Server) newsRoutes(r chi.Router) {
	r.Get("/indian", s.handleIndianNews)
	r.Get("/global", s.handleGlobalNews)
	r.Get("/latest", s.handleLatestNews)
	r.Get("/categories", s.handleNewsCategories)
	r.Get("/sentiment", s.handleNewsSentiment)
	r.Get("/realtime", s.handleLatestNews)
	r.Get("/rss", s.handleRSSNews)
	r.Get("/yahoo-finance", s.handleGlobalNews)
	r.Get("/alpha-vantage", s.handleLatestNews)
	r.Get("/category/{category}", s.handleCategoryNews)
	r.Get("/search", s.handleNewsSearch)
	r.Get("/stock/{symbol}", s.handleStockNews)
	r.Get("/health", s.handleNewsHealth)
}

func (s *Server) handleIndianNews(w http.ResponseWriter, r *http.Request) {
	articles, err := s.news.GetRegionalArticles(r.Context(), "india")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, articles)
}

func (s *Server) handleGlobalNews(w http.ResponseWriter, r *http.Request) {
	articles, err := s.news.GetRegionalArticles(r.Context(), "global")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, articles)
}

func (s *Server) handleLatestNews(w http.ResponseWriter, r *http.Request) {
	articles, err := s.news.GetGeneralArticles(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, articles)
}

func (s *Server) handleNewsCategories(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, http.StatusOK, newsCategories)
}

func (s *Server) handleNewsSentiment(w http.ResponseWriter, r *http.Request) {
	summary, err := s.news.GetSentimentSummary(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, summary)
}

func (s *Server) handleRSSNews(w http.ResponseWriter, r *http.Request) {
	articles, err := s.news.GetRSSArticles(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, articles)
}

func (s *Server) handleCategoryNews(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if category == "" {
		s.writeError(w, http.StatusBadRequest, "category is required", "", nil)
		return
	}

	articles, err := s.news.GetCategoryArticles(r.Context(), category)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, articles)
}

func (s *Server) handleNewsSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter q is required", "", nil)
		return
	}

	articles, err := s.news.SearchArticles(r.Context(), query)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, articles)
}

func (s *Server) handleStockNews(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		s.writeError(w, http.StatusBadRequest, "symbol is required", "", nil)
		return
	}

	articles, err := s.news.GetArticles(r.Context(), symbol, nil)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, articles)
}

func (s *Server) handleNewsHealth(w http.ResponseWriter, r *http.Request) {
	status := s.news.Health(r.Context())
	s.writeHealthStatus(w, status.Healthy, status)
}
