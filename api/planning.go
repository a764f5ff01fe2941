package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/finsight/finsight/internal/planning"
	"github.com/finsight/finsight/pkg/models"
)

func (s *Server) planningRoutes(r chi.Router) {
	r.Post("/plan", s.handleGeneratePlan)
	r.Post("/analyze", s.handleAnalyzeChange)
	r.Post("/simulate", s.handleSimulate)
	r.Post("/track", s.handleTrackGoal)
	r.Post("/track-detailed", s.handleTrackGoalDetailed)
}

// PlanRequest is the body for POST /api/financial-planning/plan.
type PlanRequest struct {
	Profile models.Profile `json:"profile"`
}

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return
	}
	if req.Profile.Age == 0 && req.Profile.Income == 0 {
		s.writeError(w, http.StatusBadRequest, "profile is required", "", nil)
		return
	}

	s.writeData(w, http.StatusOK, s.planner.GeneratePlan(req.Profile))
}

// AnalyzeChangeRequest is the body for POST /api/financial-planning/analyze.
// It accepts either a single change (field, value, currentProfile) or a
// batch of changes against one profile (changes, profile).
type AnalyzeChangeRequest struct {
	Field          string         `json:"field"`
	Value          any            `json:"value"`
	CurrentProfile models.Profile `json:"currentProfile"`

	Changes map[string]any `json:"changes"`
	Profile models.Profile `json:"profile"`
}

func (s *Server) handleAnalyzeChange(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeChangeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return
	}

	if len(req.Changes) > 0 {
		impacts := make([]*models.ChangeImpact, 0, len(req.Changes))
		profile := req.Profile
		for field, value := range req.Changes {
			impact, err := s.planner.AnalyzeChange(field, value, profile)
			if err != nil {
				s.writeError(w, http.StatusBadRequest, "invalid change", err.Error(), nil)
				return
			}
			impacts = append(impacts, impact)
		}
		s.writeData(w, http.StatusOK, impacts)
		return
	}

	if req.Field == "" {
		s.writeError(w, http.StatusBadRequest, "field is required", "", nil)
		return
	}
	impact, err := s.planner.AnalyzeChange(req.Field, req.Value, req.CurrentProfile)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid change", err.Error(), nil)
		return
	}
	s.writeData(w, http.StatusOK, impact)
}

// SimulateRequest is the body for POST /api/financial-planning/simulate.
type SimulateRequest struct {
	Scenarios   []planning.Scenario `json:"scenarios"`
	BaseProfile models.Profile      `json:"baseProfile"`
}

// SimulateResponse pairs the baseline plan with each what-if outcome.
type SimulateResponse struct {
	BasePlan  *models.Plan            `json:"basePlan"`
	Scenarios []models.ScenarioResult `json:"scenarios"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return
	}
	if len(req.Scenarios) == 0 {
		s.writeError(w, http.StatusBadRequest, "scenarios list is required", "", nil)
		return
	}

	basePlan, results, err := s.planner.Simulate(req.BaseProfile, req.Scenarios)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid scenario", err.Error(), nil)
		return
	}
	s.writeData(w, http.StatusOK, SimulateResponse{BasePlan: basePlan, Scenarios: results})
}

// GoalSpec names a savings target and a timeframe. The timeframe accepts
// either a number of years or a "<N> years" string.
type GoalSpec struct {
	TargetAmount float64 `json:"targetAmount"`
	Timeframe    any     `json:"timeframe"`
}

// TrackGoalRequest is the body for POST /api/financial-planning/track.
type TrackGoalRequest struct {
	Profile models.Profile `json:"profile"`
	Goal    GoalSpec       `json:"goal"`
}

func (s *Server) handleTrackGoal(w http.ResponseWriter, r *http.Request) {
	var req TrackGoalRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return
	}
	if req.Goal.TargetAmount <= 0 {
		s.writeError(w, http.StatusBadRequest, "goal targetAmount must be positive", "", nil)
		return
	}
	years, err := timeframeYears(req.Goal.Timeframe)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid goal timeframe", err.Error(), nil)
		return
	}

	s.writeData(w, http.StatusOK, s.planner.TrackProfileGoal(req.Profile, req.Goal.TargetAmount, years))
}

// TrackGoalDetailedRequest is the body for POST
// /api/financial-planning/track-detailed. The profile supplies the
// expected portfolio return; the remaining inputs override what the
// profile would imply.
type TrackGoalDetailedRequest struct {
	CurrentSavings      float64        `json:"currentSavings"`
	MonthlyContribution float64        `json:"monthlyContribution"`
	TargetAmount        float64        `json:"targetAmount"`
	Timeframe           any            `json:"timeframe"`
	Profile             models.Profile `json:"profile"`
}

func (s *Server) handleTrackGoalDetailed(w http.ResponseWriter, r *http.Request) {
	var req TrackGoalDetailedRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return
	}
	if req.TargetAmount <= 0 {
		s.writeError(w, http.StatusBadRequest, "targetAmount must be positive", "", nil)
		return
	}
	years, err := timeframeYears(req.Timeframe)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid timeframe", err.Error(), nil)
		return
	}

	portfolio := planning.AnalyzePortfolio(planning.NormalizeProfile(req.Profile))
	progress := planning.TrackGoal(req.CurrentSavings, req.MonthlyContribution, req.TargetAmount, years, portfolio.ExpectedReturn)
	s.writeData(w, http.StatusOK, progress)
}

// timeframeYears coerces a JSON timeframe into whole years.
func timeframeYears(v any) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, fmt.Errorf("timeframe is required")
	case float64:
		if t <= 0 {
			return 0, fmt.Errorf("timeframe must be positive")
		}
		return int(t), nil
	case string:
		fields := strings.Fields(t)
		if len(fields) == 0 {
			return 0, fmt.Errorf("timeframe is required")
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("timeframe %q is not a number of years", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported timeframe type %T", v)
	}
}
