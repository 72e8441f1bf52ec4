package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/projector"
	"github.com/yourusername/courtside/internal/service"
	"github.com/yourusername/courtside/internal/teams"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	predictor        *service.Predictor
	resolver         *features.ContextResolver
	currentSeasonID  int
	recentFormWindow int
	logger           *logrus.Logger
}

// NewHandler creates a new handler
func NewHandler(predictor *service.Predictor, resolver *features.ContextResolver, currentSeasonID, recentFormWindow int, logger *logrus.Logger) *Handler {
	return &Handler{
		predictor:        predictor,
		resolver:         resolver,
		currentSeasonID:  currentSeasonID,
		recentFormWindow: recentFormWindow,
		logger:           logger,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "courtside",
	})
}

// ProjectionRequest is the body for POST /v1/projections/{player}.
type ProjectionRequest struct {
	Opponent         string   `json:"opponent"`
	Stat             string   `json:"stat"`
	ProjectedMinutes float64  `json:"projected_minutes"`
	Line             *float64 `json:"line,omitempty"`
}

// ProjectPlayer returns a point estimate for a player against an opponent,
// with over/under probabilities when a book line is supplied.
func (h *Handler) ProjectPlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	player := strings.TrimSpace(vars["player"])

	var req ProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	stat := req.Stat
	if stat == "" {
		stat = models.StatPoints
	}

	var (
		result *models.PredictionResult
		err    error
	)
	if req.Line != nil {
		result, err = h.predictor.ProjectWithOdds(r.Context(), player, req.Opponent, stat, req.ProjectedMinutes, *req.Line)
	} else {
		result, err = h.predictor.Project(r.Context(), player, req.Opponent, stat, req.ProjectedMinutes)
	}
	if err != nil {
		respondDomainError(w, "Projection failed", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// OddsRequest is the body for POST /v1/odds.
type OddsRequest struct {
	Line     float64 `json:"line"`
	Estimate float64 `json:"estimate"`
}

// ConvertOdds converts a point estimate against a book line into over/under
// probabilities and fair prices. No model lookup; pure computation.
func (h *Handler) ConvertOdds(w http.ResponseWriter, r *http.Request) {
	var req OddsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	quote, err := h.predictor.Odds(req.Estimate, req.Line)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Odds conversion failed", err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// BaselineRequest is the body for POST /v1/baseline.
type BaselineRequest struct {
	TeamPace   float64                   `json:"team_pace"`
	LeaguePace float64                   `json:"league_pace"`
	Player     projector.PlayerProfile   `json:"player"`
	Opponent   projector.OpponentDefense `json:"opponent"`
}

// Baseline returns the pace/usage points projection from season averages,
// without touching any trained model.
func (h *Handler) Baseline(w http.ResponseWriter, r *http.Request) {
	var req BaselineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.TeamPace <= 0 || req.LeaguePace <= 0 {
		respondError(w, http.StatusBadRequest, "team_pace and league_pace must be positive", nil)
		return
	}

	p := projector.NewMatchupProjector(req.TeamPace, projector.DefaultLeagueAverages(req.LeaguePace))
	respondJSON(w, http.StatusOK, p.ProjectPoints(req.Player, req.Opponent))
}

// ListTeams returns the team directory.
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	codes := teams.Codes()
	out := make([]map[string]string, 0, len(codes))
	for _, code := range codes {
		city, err := teams.CityForCode(code)
		if err != nil {
			continue
		}
		out = append(out, map[string]string{"code": code, "city": city})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"teams": out,
		"count": len(out),
	})
}

// GetTeamContext returns the defensive four factors and pace for a team.
func (h *Handler) GetTeamContext(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	code := strings.ToUpper(strings.TrimSpace(vars["code"]))

	if !teams.IsKnownCode(code) {
		respondError(w, http.StatusNotFound, "Unknown team code", models.ErrUnknownEntity)
		return
	}

	lastN := h.recentFormWindow
	if lastNStr := r.URL.Query().Get("last_n"); lastNStr != "" {
		n, err := strconv.Atoi(lastNStr)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "Invalid last_n parameter", err)
			return
		}
		lastN = n
	}

	octx, err := h.resolver.Resolve(r.Context(), nil, code, h.currentSeasonID, lastN)
	if err != nil {
		respondDomainError(w, "Failed to fetch team context", err)
		return
	}

	respondJSON(w, http.StatusOK, octx)
}

// respondDomainError maps sentinel errors onto HTTP status codes.
func respondDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, models.ErrUnknownEntity), errors.Is(err, models.ErrModelNotFound):
		respondError(w, http.StatusNotFound, message, err)
	case errors.Is(err, models.ErrUnknownStat), errors.Is(err, models.ErrMalformedMatchup):
		respondError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, models.ErrDataUnavailable):
		respondError(w, http.StatusServiceUnavailable, message, err)
	case errors.Is(err, models.ErrFeatureSchemaMismatch):
		respondError(w, http.StatusConflict, message, err)
	default:
		respondError(w, http.StatusInternalServerError, message, err)
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
