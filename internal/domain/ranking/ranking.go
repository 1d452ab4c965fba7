// Package ranking orders stored scores and derives leaderboard arithmetic.
package ranking

import (
	"sort"

	"github.com/inmeta/pitwall/internal/domain/laptime"
	"github.com/inmeta/pitwall/internal/domain/model"
)

// Rank returns a copy of scores stable-sorted ascending by total minutes.
// Equal times keep a deterministic order by player id ascending.
func Rank(scores []model.Score) []model.Score {
	ranked := make([]model.Score, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].TotalMinutes(), ranked[j].TotalMinutes()
		if a != b {
			return a < b
		}
		return ranked[i].PlayerID < ranked[j].PlayerID
	})
	return ranked
}

// BestOf returns the leader's lap time, or false if there are no scores.
func BestOf(ranked []model.Score) (laptime.LapTime, bool) {
	if len(ranked) == 0 {
		return laptime.LapTime{}, false
	}
	return ranked[0].LapTime, true
}

// Average returns the arithmetic mean of total minutes over all scores,
// or 0 for an empty field.
func Average(scores []model.Score) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s.TotalMinutes()
	}
	return sum / float64(len(scores))
}

// GapToLeader returns how many seconds score trails the leader of ranked.
// The leader itself reports 0.
func GapToLeader(score model.Score, ranked []model.Score) float64 {
	if len(ranked) == 0 || score.ID == ranked[0].ID {
		return 0
	}
	return laptime.DeltaSeconds(score.LapTime, ranked[0].LapTime)
}

// ByPlayer returns the score belonging to playerID, or false if the player
// has no recorded time.
func ByPlayer(scores []model.Score, playerID string) (model.Score, bool) {
	for _, s := range scores {
		if s.PlayerID == playerID {
			return s, true
		}
	}
	return model.Score{}, false
}
