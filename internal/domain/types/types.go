// Package types contains common view types used across the application.
package types

// Row is one ranked leaderboard line as returned by leaderboard queries.
type Row struct {
	Position   int     `json:"position"`
	ScoreID    int64   `json:"scoreId"`
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	ImageURL   string  `json:"imageUrl,omitempty"`
	Time       string  `json:"time"`
	TotalMin   float64 `json:"totalMinutes"`
	GapSeconds float64 `json:"gapSeconds"`
}

// Board is the full derived leaderboard: ranked rows plus the field average.
// It is recomputed on every read and never persisted.
type Board struct {
	Rows        []Row   `json:"rows"`
	AverageMin  float64 `json:"averageMinutes"`
	AverageTime string  `json:"averageTime,omitempty"`
}
