// Package feed implements the snapshot changefeed behind continuously
// updating reads: every committed mutation publishes, and each subscriber
// receives a freshly re-queried, complete snapshot of the collection.
package feed

import (
	"context"
	"log/slog"
	"sync"
)

// Snapshot re-queries the full collection.
type Snapshot[T any] func(ctx context.Context) ([]T, error)

// Hub fans re-queried snapshots out to subscribers. Delivery is latest-wins:
// a subscriber that falls behind skips intermediate snapshots and gets the
// newest one, never a stale one after a newer one.
type Hub[T any] struct {
	query Snapshot[T]

	mu   sync.Mutex
	subs map[int]chan []T
	next int
}

// NewHub creates a hub over the given snapshot query.
func NewHub[T any](query Snapshot[T]) *Hub[T] {
	return &Hub[T]{query: query, subs: make(map[int]chan []T)}
}

// Subscribe registers a subscriber and returns its snapshot channel. The
// current snapshot is delivered first, then one per Notify. The channel is
// closed when ctx ends.
func (h *Hub[T]) Subscribe(ctx context.Context) (<-chan []T, error) {
	initial, err := h.query(ctx)
	if err != nil {
		return nil, err
	}

	ch := make(chan []T, 1)
	ch <- initial

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		close(ch)
		h.mu.Unlock()
	}()

	return ch, nil
}

// Notify re-queries the collection and pushes the snapshot to every
// subscriber. Called after a mutation commits, never inside the transaction.
func (h *Hub[T]) Notify(ctx context.Context) {
	snapshot, err := h.query(ctx)
	if err != nil {
		slog.Warn("feed re-query failed", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		// Drop the undelivered previous snapshot, if any, then send.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// Subscribers reports the number of active subscriptions.
func (h *Hub[T]) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
