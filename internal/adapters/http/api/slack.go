// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"

	"github.com/inmeta/pitwall/internal/adapters/notify"
)

// SlackHandler renders the leaderboard as a chat digest payload. A
// scheduled chat workflow polls this endpoint and posts the blocks
// verbatim.
type SlackHandler struct {
	deps    LeaderboardDependencies
	siteURL string
}

// NewSlackHandler creates a new digest handler.
func NewSlackHandler(deps LeaderboardDependencies, siteURL string) *SlackHandler {
	return &SlackHandler{deps: deps, siteURL: siteURL}
}

// HandleGetDigest handles GET /slack/leaderboard requests.
func (h *SlackHandler) HandleGetDigest(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_slack_digest"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	board, err := h.deps.Leaderboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, notify.BuildLeaderboardMessage(board, h.siteURL))
}
