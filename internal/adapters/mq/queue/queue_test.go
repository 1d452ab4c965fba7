package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/inmeta/pitwall/internal/domain/laptime"
	"github.com/inmeta/pitwall/internal/domain/milestone"
)

func testMilestone(playerID string) Milestone {
	return Milestone{
		Kind:       milestone.KindPersonalBest,
		PlayerID:   playerID,
		PlayerName: "Test Player",
		Time:       laptime.LapTime{Minutes: 1, Seconds: 20, Millis: 0},
	}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, testMilestone("p1")) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	pending := q.Dequeue(ctx)
	m := <-pending
	if m.PlayerID != "p1" {
		t.Errorf("expected p1, got %v", m.PlayerID)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, testMilestone("p1")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, testMilestone("p2")) {
		t.Error("expected enqueue to succeed")
	}

	// Full queue drops instead of blocking.
	if q.Enqueue(ctx, testMilestone("p3")) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, testMilestone("p1")) {
		t.Error("expected enqueue to succeed")
	}

	if err := q.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}

	if q.Enqueue(ctx, testMilestone("p2")) {
		t.Error("expected enqueue to fail after close")
	}

	// Closing twice is a no-op.
	if err := q.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}

	// Buffered milestones drain, then the channel closes.
	pending := q.Dequeue(ctx)
	if m, ok := <-pending; !ok || m.PlayerID != "p1" {
		t.Errorf("expected buffered milestone p1, got %v (ok=%v)", m.PlayerID, ok)
	}
	select {
	case _, ok := <-pending:
		if ok {
			t.Error("expected dequeue channel to close")
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for dequeue channel to close")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1000))
	ctx := context.Background()
	numGoroutines := 10
	numPerGoroutine := 100

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numPerGoroutine; j++ {
				q.Enqueue(ctx, testMilestone(fmt.Sprintf("p%d-%d", id, j)))
			}
		}(i)
	}
	wg.Wait()

	if l := q.Len(ctx); l != numGoroutines*numPerGoroutine {
		t.Errorf("expected %d queued, got %d", numGoroutines*numPerGoroutine, l)
	}
}
