// Package api provides the HTTP REST surface: market data, economic
// indicators, news, company filings, banking aggregation, stock
// analysis, and financial planning, all behind a uniform JSON envelope.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/analysis"
	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/planning"
	"github.com/finsight/finsight/internal/provider"
	"github.com/finsight/finsight/internal/service/banking"
	"github.com/finsight/finsight/internal/service/econ"
	"github.com/finsight/finsight/internal/service/filings"
	"github.com/finsight/finsight/internal/service/marketdata"
	"github.com/finsight/finsight/internal/service/news"
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	market   *marketdata.Service
	econ     *econ.Service
	news     *news.Service
	filings  *filings.Service
	banking  *banking.Service
	analyzer *analysis.Analyzer
	planner  *planning.Planner
	log      zerolog.Logger
	started  time.Time
}

// Deps carries the wired services into the server.
type Deps struct {
	Market   *marketdata.Service
	Econ     *econ.Service
	News     *news.Service
	Filings  *filings.Service
	Banking  *banking.Service
	Analyzer *analysis.Analyzer
	Planner  *planning.Planner
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, deps Deps, log zerolog.Logger) *Server {
	srv := &Server{
		cfg:      cfg,
		market:   deps.Market,
		econ:     deps.Econ,
		news:     deps.News,
		filings:  deps.Filings,
		banking:  deps.Banking,
		analyzer: deps.Analyzer,
		planner:  deps.Planner,
		log:      log.With().Str("component", "api").Logger(),
		started:  time.Now().UTC(),
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe binds the preferred port, walking the fallback list
// when it is taken, and runs until interrupted.
func (s *Server) ListenAndServe() error {
	listener, port, err := s.listen()
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		s.log.Info().Int("port", port).Msg("server listening")
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-done
	s.log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}

// listen tries the configured port, then each fallback.
func (s *Server) listen() (net.Listener, int, error) {
	ports := append([]int{s.cfg.Server.Port}, s.cfg.Server.FallbackPorts...)
	for _, port := range ports {
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			return listener, port, nil
		}
		s.log.Warn().Int("port", port).Err(err).Msg("port unavailable, trying next")
	}
	return nil, 0, fmt.Errorf("no available port among %v", ports)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.Server.CORSOrigins) > 0 {
		origins = s.cfg.Server.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Cache-Control", "Pragma"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "route not found", r.URL.Path, nil)
	})

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/market-data", s.marketDataRoutes)
		r.Route("/economic-indicators", s.econRoutes)
		r.Route("/news", s.newsRoutes)
		r.Route("/company-filings", s.filingsRoutes)
		r.Route("/plaid", s.plaidRoutes)
		r.Route("/stock-analysis", s.analysisRoutes)
		r.Route("/financial-planning", s.planningRoutes)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).String(),
		"env":    s.cfg.Server.Env,
	})
}

// envelope is the uniform response shape.
type envelope struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *errorBody `json:"error,omitempty"`
	Timestamp string     `json:"timestamp"`
}

type errorBody struct {
	Message          string   `json:"message"`
	Details          string   `json:"details,omitempty"`
	SuggestedActions []string `json:"suggestedActions,omitempty"`
}

func (s *Server) writeData(w http.ResponseWriter, status int, data any) {
	s.writeJSON(w, status, envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message, details string, actions []string) {
	if !s.cfg.Server.Development() && status == http.StatusInternalServerError {
		details = ""
	}
	s.writeJSON(w, status, envelope{
		Success: false,
		Error: &errorBody{
			Message:          message,
			Details:          details,
			SuggestedActions: actions,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// writeServiceError maps service-layer failures onto the wire contract.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var unavailable *provider.ErrTotalUnavailable
	if errors.As(err, &unavailable) {
		s.writeError(w, http.StatusInternalServerError, unavailable.Message, unavailable.Details, unavailable.SuggestedActions)
		return
	}
	s.writeError(w, http.StatusInternalServerError, "internal error", err.Error(), nil)
}

// writeHealthStatus emits a probe result: 200 when healthy, 503 when a
// dependency is down.
func (s *Server) writeHealthStatus(w http.ResponseWriter, healthy bool, status any) {
	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, envelope{
		Success:   healthy,
		Data:      status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to write response")
	}
}

// decode parses a JSON request body into dst.
func decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
