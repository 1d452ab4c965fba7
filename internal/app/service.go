// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/inmeta/pitwall/internal/adapters/directory"
	milestonequeue "github.com/inmeta/pitwall/internal/adapters/mq/queue"
	workerpool "github.com/inmeta/pitwall/internal/adapters/mq/worker"
	"github.com/inmeta/pitwall/internal/adapters/notify"
	"github.com/inmeta/pitwall/internal/adapters/repository"
	"github.com/inmeta/pitwall/internal/domain/laptime"
	"github.com/inmeta/pitwall/internal/domain/milestone"
	"github.com/inmeta/pitwall/internal/domain/model"
	"github.com/inmeta/pitwall/internal/domain/ranking"
	"github.com/inmeta/pitwall/internal/domain/types"
	"github.com/inmeta/pitwall/pkg/logger"
	"github.com/inmeta/pitwall/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize   = 1024
	defaultWorkerCount = 2
	shutdownTimeout    = 10 * time.Second
)

// Service implements the API dependencies for the lap-time leaderboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	roster   directory.Directory
	notifier notify.Notifier
	queue    milestonequeue.Queue
	workers  []*workerpool.DeliveryWorker

	// Configuration
	queueSize   int
	workerCount int

	// State
	started bool
	cancel  context.CancelFunc

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the score store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDirectory sets the player roster source.
func WithDirectory(d directory.Directory) Option {
	return func(s *Service) {
		if d != nil {
			s.roster = d
		}
	}
}

// WithNotifier sets the milestone notification channel. Without one,
// milestones are classified and logged but never delivered.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithQueueSize sets the maximum size of the milestone queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of delivery worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:   defaultQueueSize,
		workerCount: defaultWorkerCount,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting leaderboard service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory score store")
	}

	s.queue = milestonequeue.NewInMemoryQueue(
		milestonequeue.WithCapacity(s.queueSize),
	)

	workerCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if s.notifier != nil {
		for i := 0; i < s.workerCount; i++ {
			w := workerpool.NewDeliveryWorker(s.queue, s.notifier)
			s.workers = append(s.workers, w)
			go w.Run(workerCtx)
		}
		metrics.UpdateNotifyWorkerCount(s.workerCount)
	} else {
		s.logger.Warn(ctx, "no notifier configured, milestones will not be delivered")
	}

	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("workers", len(s.workers)),
		logger.Int("queueSize", s.queueSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping leaderboard service...")

	// Stop accepting milestones; workers drain what is buffered.
	if s.queue != nil {
		_ = s.queue.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	for _, w := range s.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(ctx, "worker shutdown failed", logger.Error(err))
		}
	}
	if s.cancel != nil {
		s.cancel()
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(ctx, "store close failed", logger.Error(err))
		}
	}

	s.started = false
	s.workers = nil
	s.logger.Info(ctx, "leaderboard service stopped")
}

// SubmitScore validates and stores a lap time, then classifies the
// submission against the pre-write state and queues at most one milestone
// notification. Notification delivery is best-effort and never affects
// the returned result.
func (s *Service) SubmitScore(ctx context.Context, playerID string, lap laptime.LapTime) (model.Score, error) {
	if err := lap.Validate(); err != nil {
		metrics.RecordSubmissionRejected()
		return model.Score{}, err
	}

	// Pre-write state drives milestone classification. The read and the
	// upsert are not transactional; same-player races are accepted.
	var previous *laptime.LapTime
	prior, err := s.store.GetScoreByPlayer(ctx, playerID)
	switch {
	case err == nil:
		previous = &prior.LapTime
	case errors.Is(err, repository.ErrNotFound):
		// first submission for this player
	default:
		return model.Score{}, err
	}

	var fieldBest *laptime.LapTime
	all, err := s.store.ListScores(ctx)
	if err != nil {
		return model.Score{}, err
	}
	if best, ok := ranking.BestOf(ranking.Rank(all)); ok {
		fieldBest = &best
	}

	stored, err := s.store.UpsertScore(ctx, model.Score{PlayerID: playerID, LapTime: lap})
	if err != nil {
		return model.Score{}, err
	}
	metrics.RecordScoreSubmitted()
	tracked := len(all)
	if previous == nil {
		tracked++
	}
	metrics.UpdateTrackedScores(tracked)

	kind := milestone.Classify(lap, previous, fieldBest)
	s.logger.Info(ctx, "score submitted",
		logger.String("playerID", playerID),
		logger.String("time", lap.Format()),
		logger.String("milestone", string(kind)),
	)
	if kind != milestone.KindNone {
		metrics.RecordMilestone(string(kind))
		s.queueMilestone(ctx, kind, stored)
	}

	return stored, nil
}

// queueMilestone resolves the player's display data and enqueues the
// notification. A roster failure degrades the message, never the write.
func (s *Service) queueMilestone(ctx context.Context, kind milestone.Kind, score model.Score) {
	if s.notifier == nil {
		return
	}

	m := milestone.Milestone{
		Kind:       kind,
		PlayerID:   score.PlayerID,
		PlayerName: score.PlayerID,
		Time:       score.LapTime,
	}
	if player, ok := s.lookupPlayer(ctx, score.PlayerID); ok {
		m.PlayerName = player.DisplayName()
		m.ImageURL = player.ImageURL
	}

	if !s.queue.Enqueue(ctx, m) {
		s.logger.Warn(ctx, "milestone dropped, queue full or closed",
			logger.String("kind", string(kind)),
			logger.String("playerID", score.PlayerID),
		)
	}
}

// lookupPlayer finds a roster entry by id. Roster failures are logged
// and reported as a miss.
func (s *Service) lookupPlayer(ctx context.Context, playerID string) (model.Player, bool) {
	if s.roster == nil {
		return model.Player{}, false
	}

	players, err := s.roster.ListPlayers(ctx)
	if err != nil {
		s.logger.Warn(ctx, "roster fetch failed", logger.Error(err))
		return model.Player{}, false
	}
	for _, p := range players {
		if p.ID == playerID {
			return p, true
		}
	}
	return model.Player{}, false
}

// Scores returns all stored scores.
func (s *Service) Scores(ctx context.Context) ([]model.Score, error) {
	return s.store.ListScores(ctx)
}

// DeleteScore removes a stored score by id and returns the deleted row.
func (s *Service) DeleteScore(ctx context.Context, id int64) (model.Score, error) {
	deleted, err := s.store.DeleteScore(ctx, id)
	if err != nil {
		return model.Score{}, err
	}
	metrics.RecordScoreDeleted()
	s.logger.Info(ctx, "score deleted",
		logger.Int64("id", id),
		logger.String("playerID", deleted.PlayerID),
	)
	return deleted, nil
}

// Players returns the current roster snapshot.
func (s *Service) Players(ctx context.Context) ([]model.Player, error) {
	if s.roster == nil {
		return nil, directory.ErrNotConfigured
	}
	return s.roster.ListPlayers(ctx)
}

// Leaderboard derives the ranked board from stored scores, joining roster
// display data and computing per-row gaps plus the field average. The
// board is recomputed on every call and never cached. A roster failure
// degrades names to player ids instead of failing the read.
func (s *Service) Leaderboard(ctx context.Context) (types.Board, error) {
	scores, err := s.store.ListScores(ctx)
	if err != nil {
		return types.Board{}, err
	}

	var playersByID map[string]model.Player
	if s.roster != nil {
		players, err := s.roster.ListPlayers(ctx)
		if err != nil {
			s.logger.Warn(ctx, "roster fetch failed, rendering ids", logger.Error(err))
		} else {
			playersByID = make(map[string]model.Player, len(players))
			for _, p := range players {
				playersByID[p.ID] = p
			}
		}
	}

	ranked := ranking.Rank(scores)
	rows := make([]types.Row, 0, len(ranked))
	for i, score := range ranked {
		row := types.Row{
			Position:   i + 1,
			ScoreID:    score.ID,
			PlayerID:   score.PlayerID,
			PlayerName: score.PlayerID,
			Time:       score.Format(),
			TotalMin:   score.TotalMinutes(),
			GapSeconds: ranking.GapToLeader(score, ranked),
		}
		if p, ok := playersByID[score.PlayerID]; ok {
			row.PlayerName = p.DisplayName()
			row.ImageURL = p.ImageURL
		}
		rows = append(rows, row)
	}

	board := types.Board{
		Rows:       rows,
		AverageMin: ranking.Average(scores),
	}
	if len(scores) > 0 {
		board.AverageTime = laptime.FromMinutes(board.AverageMin).Format()
	}
	return board, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen

		if total, err := s.store.Count(ctx); err == nil {
			stats["trackedScores"] = total
			metrics.UpdateTrackedScores(total)
		}
	}

	return stats
}
