// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/cuatro-costuras/public-baseball/internal/domain/types"
)

// PitcherDependencies defines the interface for pitcher directory operations.
type PitcherDependencies interface {
	SearchPitchers(ctx context.Context, query string) ([]string, error)
	ListPitchTypes(ctx context.Context, pitcherID string) ([]types.PitchTypeInfo, error)
}

// PitchersHandler handles pitcher directory requests.
type PitchersHandler struct {
	deps PitcherDependencies
}

// NewPitchersHandler creates a new pitchers handler.
func NewPitchersHandler(deps PitcherDependencies) *PitchersHandler {
	return &PitchersHandler{deps: deps}
}

type searchResponse struct {
	Query    string   `json:"query"`
	Pitchers []string `json:"pitchers"`
}

// HandleSearch handles GET /api/v1/pitchers?q=name requests.
func (h *PitchersHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	pitchers, err := h.deps.SearchPitchers(r.Context(), query)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if pitchers == nil {
		pitchers = []string{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Pitchers: pitchers})
}

type arsenalResponse struct {
	PitcherID  string                `json:"pitcher_id"`
	PitchTypes []types.PitchTypeInfo `json:"pitch_types"`
}

// HandleArsenal handles GET /api/v1/pitchers/{id}/arsenal requests.
func (h *PitchersHandler) HandleArsenal(w http.ResponseWriter, r *http.Request) {
	pitcherID := r.PathValue("id")
	if pitcherID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	arsenal, err := h.deps.ListPitchTypes(r.Context(), pitcherID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, arsenalResponse{PitcherID: pitcherID, PitchTypes: arsenal})
}
