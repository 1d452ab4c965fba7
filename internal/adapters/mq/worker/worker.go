// Package worker drains the milestone queue and delivers notifications.
//
// A delivery failure is logged and dropped; the score write that produced
// the milestone already succeeded and is never rolled back.
package worker

import (
	"context"
	"fmt"

	"github.com/inmeta/pitwall/internal/adapters/mq/queue"
	"github.com/inmeta/pitwall/internal/domain/milestone"
	"github.com/inmeta/pitwall/pkg/logger"
)

// Milestone abstracts what workers read off the queue.
type Milestone = queue.Milestone

// Notifier delivers one milestone message.
type Notifier interface {
	NotifyMilestone(ctx context.Context, m milestone.Milestone) error
}

// Queue defines how workers receive milestones.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Milestone
}

// Worker delivers queued milestones using the provided notifier.
type Worker interface {
	// Run starts the delivery loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// DeliveryWorker implements Worker.
type DeliveryWorker struct {
	queue    Queue
	notifier Notifier
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewDeliveryWorker creates a new worker with configuration options.
func NewDeliveryWorker(queue Queue, notifier Notifier, opts ...Option) *DeliveryWorker {
	w := &DeliveryWorker{
		queue:    queue,
		notifier: notifier,
		name:     "notify-worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("notify-worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Run starts the delivery loop.
func (w *DeliveryWorker) Run(ctx context.Context) {
	defer close(w.done)

	pending := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case m, ok := <-pending:
			if !ok {
				// Queue closed, worker should stop.
				return
			}
			w.deliver(ctx, m)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *DeliveryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// deliver sends one milestone. Failures are logged and swallowed.
func (w *DeliveryWorker) deliver(ctx context.Context, m Milestone) {
	if err := w.notifier.NotifyMilestone(ctx, m); err != nil {
		w.logger.Error(ctx, "milestone delivery failed",
			logger.String("kind", string(m.Kind)),
			logger.String("playerID", m.PlayerID),
			logger.Error(err),
		)
		return
	}

	w.logger.Info(ctx, "milestone delivered",
		logger.String("kind", string(m.Kind)),
		logger.String("playerID", m.PlayerID),
		logger.String("time", m.FormattedTime()),
	)
}
