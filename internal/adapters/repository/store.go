// Package repository defines the score store interface and its
// implementations. The store keeps at most one score per player; every
// write is an upsert keyed on the player id.
package repository

import (
	"context"

	"github.com/inmeta/pitwall/internal/domain/model"
)

// Store provides read/write access to stored lap times.
type Store interface {
	// ListScores returns every stored score in no particular order.
	ListScores(ctx context.Context) ([]model.Score, error)

	// GetScoreByPlayer returns the player's current score.
	// Returns ErrNotFound if the player has no recorded time.
	GetScoreByPlayer(ctx context.Context, playerID string) (model.Score, error)

	// UpsertScore writes the player's score, replacing any previous row for
	// the same player, and returns the stored row with its id filled in.
	UpsertScore(ctx context.Context, score model.Score) (model.Score, error)

	// DeleteScore removes the score with the given id and returns the
	// deleted row. Returns ErrNotFound if no such score exists.
	DeleteScore(ctx context.Context, id int64) (model.Score, error)

	// Count returns the number of players with a recorded time.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
