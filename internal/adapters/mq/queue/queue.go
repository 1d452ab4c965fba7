// Package queue defines the contract for enqueuing and consuming pending
// milestone notifications.
//
// Delivery is best-effort: a full queue drops the milestone rather than
// block the submission that produced it.
package queue

import (
	"context"
	"sync"

	"github.com/inmeta/pitwall/internal/domain/milestone"
	"github.com/inmeta/pitwall/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 1024
)

// Milestone is the payload type flowing through the queue.
type Milestone = milestone.Milestone

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a milestone to the queue.
	// Returns false if the queue is full or closed and the milestone was dropped.
	Enqueue(ctx context.Context, m Milestone) bool

	// Dequeue returns a channel that will receive milestones as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Milestone

	// Len returns the current number of queued milestones.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new milestones can be enqueued.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	pending  chan Milestone
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.pending = make(chan Milestone, q.capacity)

	metrics.UpdateNotifyQueueCapacity(q.capacity)
	metrics.UpdateNotifyQueueSize(0)

	return q
}

// Enqueue adds a milestone to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, m Milestone) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordNotifyQueueDropped()
		return false
	}

	select {
	case q.pending <- m:
		metrics.UpdateNotifyQueueSize(len(q.pending))
		return true
	case <-ctx.Done():
		metrics.RecordNotifyQueueDropped()
		return false
	default:
		metrics.RecordNotifyQueueDropped()
		return false // queue is full
	}
}

// Dequeue returns a channel that will receive milestones as they become
// available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Milestone {
	out := make(chan Milestone)
	go func() {
		defer close(out)
		for m := range q.pending {
			select {
			case out <- m:
				metrics.UpdateNotifyQueueSize(len(q.pending))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued milestones.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.pending)
	metrics.UpdateNotifyQueueSize(size)
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	close(q.pending)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
