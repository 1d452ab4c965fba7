package repository

import (
	"context"
	"sync"

	"github.com/inmeta/pitwall/internal/domain/model"
)

// MemoryStore is an in-process Store used for local runs and tests.
// It mirrors the Postgres upsert semantics: one row per player, ids
// assigned from a monotonic counter.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[int64]model.Score
	nextID int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[int64]model.Score),
		nextID: 1,
	}
}

// ListScores implements Store.
func (m *MemoryStore) ListScores(_ context.Context) ([]model.Score, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	scores := make([]model.Score, 0, len(m.byID))
	for _, s := range m.byID {
		scores = append(scores, s)
	}
	return scores, nil
}

// GetScoreByPlayer implements Store.
func (m *MemoryStore) GetScoreByPlayer(_ context.Context, playerID string) (model.Score, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.byID {
		if s.PlayerID == playerID {
			return s, nil
		}
	}
	return model.Score{}, ErrNotFound
}

// UpsertScore implements Store. An existing row for the same player keeps
// its id; only the time fields change.
func (m *MemoryStore) UpsertScore(_ context.Context, score model.Score) (model.Score, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.byID {
		if s.PlayerID == score.PlayerID {
			score.ID = id
			m.byID[id] = score
			return score, nil
		}
	}

	score.ID = m.nextID
	m.nextID++
	m.byID[score.ID] = score
	return score, nil
}

// DeleteScore implements Store.
func (m *MemoryStore) DeleteScore(_ context.Context, id int64) (model.Score, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return model.Score{}, ErrNotFound
	}
	delete(m.byID, id)
	return s, nil
}

// Count implements Store.
func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID), nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
