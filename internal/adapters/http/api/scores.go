// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/inmeta/pitwall/internal/adapters/repository"
	"github.com/inmeta/pitwall/internal/domain/laptime"
	"github.com/inmeta/pitwall/internal/domain/model"
)

// ScoreDependencies defines the interface for score operations.
type ScoreDependencies interface {
	SubmitScore(ctx context.Context, playerID string, lap laptime.LapTime) (model.Score, error)
	Scores(ctx context.Context) ([]model.Score, error)
	DeleteScore(ctx context.Context, id int64) (model.Score, error)
}

// ScoresHandler handles score requests.
type ScoresHandler struct {
	deps ScoreDependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps ScoreDependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// HandleScores handles GET and POST /scores requests.
func (h *ScoresHandler) HandleScores(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListScores(w, r)
	case http.MethodPost:
		h.handleSubmitScore(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleListScores handles GET /scores requests.
func (h *ScoresHandler) handleListScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_scores"
	scores, err := h.deps.Scores(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	if scores == nil {
		scores = []model.Score{}
	}
	writeJSON(w, http.StatusOK, scores)
}

// handleSubmitScore handles POST /scores requests. The stored score is
// returned as-is; any milestone side effect is not reflected in the body.
func (h *ScoresHandler) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_score"
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	stored, err := h.deps.SubmitScore(r.Context(), req.PlayerID, req.lapTime())
	if err != nil {
		if errors.Is(err, laptime.ErrInvalid) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// HandleScoreByID handles DELETE /scores/{id} requests.
func (h *ScoresHandler) HandleScoreByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_score"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}

	// Extract path parameter after /scores/
	path := strings.TrimPrefix(r.URL.Path, "/scores/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: id must be numeric", ErrBadRequest))
		return
	}

	deleted, err := h.deps.DeleteScore(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}
