// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cuatro-costuras/public-baseball/internal/adapters/repository"
	"github.com/cuatro-costuras/public-baseball/internal/domain/aggregate"
	"github.com/cuatro-costuras/public-baseball/internal/domain/rank"
	"github.com/cuatro-costuras/public-baseball/internal/domain/scoring"
	"github.com/cuatro-costuras/public-baseball/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Ready(ctx context.Context) bool
	SearchPitchers(ctx context.Context, query string) ([]string, error)
	ListPitchTypes(ctx context.Context, pitcherID string) ([]types.PitchTypeInfo, error)
	MovementSummary(ctx context.Context, pitcherID, pitchType string, maxBins int) (*types.MovementSummary, error)
	Consistency(ctx context.Context, pitcherID, pitchType string) (*types.Consistency, error)
	RankArsenal(ctx context.Context, pitcherID string) ([]types.ArsenalRank, error)
	Leaderboard(ctx context.Context, pitchType string, limit int) ([]types.LeaderboardEntry, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	pitchersHandler    *PitchersHandler
	consistencyHandler *ConsistencyHandler
	leaderboardHandler *LeaderboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(deps),
		statsHandler:       NewStatsHandler(statsProvider),
		pitchersHandler:    NewPitchersHandler(deps),
		consistencyHandler: NewConsistencyHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/v1/pitchers",
		MetricsMiddleware(s.pitchersHandler.HandleSearch, "pitchers"))
	mux.HandleFunc("GET /api/v1/pitchers/{id}/arsenal",
		MetricsMiddleware(s.pitchersHandler.HandleArsenal, "arsenal"))
	mux.HandleFunc("GET /api/v1/pitchers/{id}/pitches/{type}/summary",
		MetricsMiddleware(s.consistencyHandler.HandleSummary, "summary"))
	mux.HandleFunc("GET /api/v1/pitchers/{id}/pitches/{type}/consistency",
		MetricsMiddleware(s.consistencyHandler.HandleConsistency, "consistency"))
	mux.HandleFunc("GET /api/v1/pitchers/{id}/rankings",
		MetricsMiddleware(s.consistencyHandler.HandleRankings, "rankings"))
	mux.HandleFunc("GET /api/v1/leaderboard",
		MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates upstream errors to their HTTP shape.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	case errors.Is(err, repository.ErrUnknownPitcher),
		errors.Is(err, aggregate.ErrUnknownPitcher),
		errors.Is(err, repository.ErrUnknownPitchType),
		errors.Is(err, aggregate.ErrUnknownPitchType):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, scoring.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_data", err)
	case errors.Is(err, rank.ErrInsufficientLeagueData):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_league_data", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
