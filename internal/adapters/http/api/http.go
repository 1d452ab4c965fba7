// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/inmeta/pitwall/internal/domain/laptime"
	"github.com/inmeta/pitwall/internal/domain/model"
	"github.com/inmeta/pitwall/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SubmitScore validates and stores a lap time for a player.
	SubmitScore(ctx context.Context, playerID string, lap laptime.LapTime) (model.Score, error)

	// Scores returns every stored score.
	Scores(ctx context.Context) ([]model.Score, error)

	// DeleteScore removes a score by id and returns the deleted row.
	DeleteScore(ctx context.Context, id int64) (model.Score, error)

	// Players returns the roster snapshot.
	Players(ctx context.Context) ([]model.Player, error)

	// Leaderboard derives the ranked board.
	Leaderboard(ctx context.Context) (types.Board, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	scoresHandler      *ScoresHandler
	playersHandler     *PlayersHandler
	leaderboardHandler *LeaderboardHandler
	slackHandler       *SlackHandler
}

// NewServer creates a new API server with all handlers. siteURL is the
// public address the chat digest links back to.
func NewServer(deps Dependencies, statsProvider StatsProvider, siteURL string) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		scoresHandler:      NewScoresHandler(deps),
		playersHandler:     NewPlayersHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		slackHandler:       NewSlackHandler(deps, siteURL),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/scores", MetricsMiddleware(s.scoresHandler.HandleScores, "scores"))
	mux.HandleFunc("/scores/", MetricsMiddleware(s.scoresHandler.HandleScoreByID, "score_by_id"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleGetPlayers, "players"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/slack/leaderboard", MetricsMiddleware(s.slackHandler.HandleGetDigest, "slack_leaderboard"))
}

// scoreRequest mirrors the OpenAPI schema for POST /scores.
type scoreRequest struct {
	PlayerID string `json:"playerId"`
	Min      int    `json:"min"`
	Sec      int    `json:"sec"`
	Ms       int    `json:"ms"`
}

func (s scoreRequest) validate() error {
	if strings.TrimSpace(s.PlayerID) == "" {
		return fmt.Errorf("%w: missing playerId", ErrBadRequest)
	}
	return nil
}

func (s scoreRequest) lapTime() laptime.LapTime {
	return laptime.LapTime{Minutes: s.Min, Seconds: s.Sec, Millis: s.Ms}
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
