package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Registers the "postgres" database/sql driver.
	_ "github.com/lib/pq"

	"github.com/inmeta/pitwall/internal/domain/model"
	"github.com/inmeta/pitwall/pkg/metrics"
)

// Safe to run on every start; uses IF NOT EXISTS.
const schema = `
CREATE TABLE IF NOT EXISTS score (
    id BIGSERIAL PRIMARY KEY,
    player_id TEXT NOT NULL UNIQUE,
    minutes INTEGER NOT NULL CHECK (minutes >= 0),
    seconds INTEGER NOT NULL CHECK (seconds BETWEEN 0 AND 59),
    millis INTEGER NOT NULL CHECK (millis BETWEEN 0 AND 999),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_score_player_id ON score(player_id);
`

// PostgresStore is the durable Store backed by PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool against databaseURL, verifies
// connectivity and bootstraps the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// ListScores implements Store.
func (p *PostgresStore) ListScores(ctx context.Context) ([]model.Score, error) {
	start := time.Now()
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, player_id, minutes, seconds, millis FROM score`)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	var scores []model.Score
	for rows.Next() {
		var s model.Score
		if err := rows.Scan(&s.ID, &s.PlayerID, &s.Minutes, &s.Seconds, &s.Millis); err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("failed to read scores: %w", err)
	}

	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	return scores, nil
}

// GetScoreByPlayer implements Store.
func (p *PostgresStore) GetScoreByPlayer(ctx context.Context, playerID string) (model.Score, error) {
	start := time.Now()
	var s model.Score
	err := p.db.QueryRowContext(ctx,
		`SELECT id, player_id, minutes, seconds, millis FROM score WHERE player_id = $1`,
		playerID,
	).Scan(&s.ID, &s.PlayerID, &s.Minutes, &s.Seconds, &s.Millis)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Score{}, ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreError()
		return model.Score{}, fmt.Errorf("failed to get score for player %s: %w", playerID, err)
	}

	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	return s, nil
}

// UpsertScore implements Store. A conflicting player row keeps its id;
// only the time columns change.
func (p *PostgresStore) UpsertScore(ctx context.Context, score model.Score) (model.Score, error) {
	start := time.Now()
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO score (player_id, minutes, seconds, millis)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (player_id) DO UPDATE
		 SET minutes = EXCLUDED.minutes,
		     seconds = EXCLUDED.seconds,
		     millis = EXCLUDED.millis,
		     updated_at = NOW()
		 RETURNING id`,
		score.PlayerID, score.Minutes, score.Seconds, score.Millis,
	).Scan(&score.ID)
	if err != nil {
		metrics.RecordStoreError()
		return model.Score{}, fmt.Errorf("failed to upsert score for player %s: %w", score.PlayerID, err)
	}

	metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	return score, nil
}

// DeleteScore implements Store.
func (p *PostgresStore) DeleteScore(ctx context.Context, id int64) (model.Score, error) {
	start := time.Now()
	var s model.Score
	err := p.db.QueryRowContext(ctx,
		`DELETE FROM score WHERE id = $1
		 RETURNING id, player_id, minutes, seconds, millis`,
		id,
	).Scan(&s.ID, &s.PlayerID, &s.Minutes, &s.Seconds, &s.Millis)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Score{}, ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreError()
		return model.Score{}, fmt.Errorf("failed to delete score %d: %w", id, err)
	}

	metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	return s, nil
}

// Count implements Store.
func (p *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM score`).Scan(&n); err != nil {
		metrics.RecordStoreError()
		return 0, fmt.Errorf("failed to count scores: %w", err)
	}
	return n, nil
}

// Close implements Store.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
