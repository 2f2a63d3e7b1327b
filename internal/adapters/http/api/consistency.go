// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cuatro-costuras/public-baseball/internal/domain/types"
)

// ConsistencyDependencies defines the interface for consistency queries.
type ConsistencyDependencies interface {
	MovementSummary(ctx context.Context, pitcherID, pitchType string, maxBins int) (*types.MovementSummary, error)
	Consistency(ctx context.Context, pitcherID, pitchType string) (*types.Consistency, error)
	RankArsenal(ctx context.Context, pitcherID string) ([]types.ArsenalRank, error)
}

// ConsistencyHandler handles movement summary and consistency requests.
type ConsistencyHandler struct {
	deps ConsistencyDependencies
}

// NewConsistencyHandler creates a new consistency handler.
func NewConsistencyHandler(deps ConsistencyDependencies) *ConsistencyHandler {
	return &ConsistencyHandler{deps: deps}
}

// HandleSummary handles
// GET /api/v1/pitchers/{id}/pitches/{type}/summary?bins=N requests.
func (h *ConsistencyHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	pitcherID := r.PathValue("id")
	pitchType := r.PathValue("type")
	if pitcherID == "" || pitchType == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	maxBins := 0
	if binsStr := r.URL.Query().Get("bins"); binsStr != "" {
		n, err := strconv.Atoi(binsStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		maxBins = n
	}

	sum, err := h.deps.MovementSummary(r.Context(), pitcherID, pitchType, maxBins)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// HandleConsistency handles
// GET /api/v1/pitchers/{id}/pitches/{type}/consistency requests.
func (h *ConsistencyHandler) HandleConsistency(w http.ResponseWriter, r *http.Request) {
	pitcherID := r.PathValue("id")
	pitchType := r.PathValue("type")
	if pitcherID == "" || pitchType == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	out, err := h.deps.Consistency(r.Context(), pitcherID, pitchType)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type rankingsResponse struct {
	PitcherID string              `json:"pitcher_id"`
	Rankings  []types.ArsenalRank `json:"rankings"`
}

// HandleRankings handles GET /api/v1/pitchers/{id}/rankings requests.
func (h *ConsistencyHandler) HandleRankings(w http.ResponseWriter, r *http.Request) {
	pitcherID := r.PathValue("id")
	if pitcherID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	rankings, err := h.deps.RankArsenal(r.Context(), pitcherID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rankingsResponse{PitcherID: pitcherID, Rankings: rankings})
}
