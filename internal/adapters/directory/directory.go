// Package directory reads the player roster from the external content
// store. The roster is owned by the CMS; this adapter only fetches
// point-in-time snapshots and caches them briefly.
package directory

import (
	"context"

	"github.com/inmeta/pitwall/internal/domain/model"
)

// Directory lists the players eligible to appear on the leaderboard.
type Directory interface {
	// ListPlayers returns the current roster snapshot.
	ListPlayers(ctx context.Context) ([]model.Player, error)
}
