// Package publisher fans audit events out to sinks off the request path.
//
// Publish enqueues onto a bounded channel and returns immediately; a worker
// goroutine drains the channel and writes to every sink. A full buffer drops
// the event with a log line rather than stalling a request. The trail is
// best-effort by construction.
package publisher

import (
	"context"
	"log/slog"
	"sync"

	"vouch/internal/audit/models"
)

const defaultBufferSize = 1024

// Sink receives drained events. Implementations are called sequentially
// from the worker goroutine.
type Sink interface {
	Record(ctx context.Context, event models.Event) error
}

// Buffered is the channel-backed publisher.
type Buffered struct {
	events chan models.Event
	sinks  []Sink
	logger *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

type Option func(*Buffered)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Buffered) { b.logger = logger }
}

func WithBufferSize(n int) Option {
	return func(b *Buffered) { b.events = make(chan models.Event, n) }
}

func New(sinks []Sink, opts ...Option) *Buffered {
	b := &Buffered{
		events: make(chan models.Event, defaultBufferSize),
		sinks:  sinks,
		logger: slog.Default(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish enqueues the event without blocking. The request context is not
// carried into the worker; a cancelled request must not lose its trail.
func (b *Buffered) Publish(_ context.Context, event models.Event) {
	select {
	case b.events <- event:
	default:
		b.logger.Warn("audit buffer full, dropping event",
			"action", event.Action, "entity_id", event.EntityID)
	}
}

// Run drains events until the context is cancelled, then flushes whatever is
// already buffered. Intended to run under the process error group.
func (b *Buffered) Run(ctx context.Context) error {
	for {
		select {
		case event := <-b.events:
			b.record(event)
		case <-ctx.Done():
			b.flush()
			close(b.done)
			return nil
		}
	}
}

// Close publishes nothing further and waits for the worker to finish its
// final flush. Call after cancelling Run's context.
func (b *Buffered) Close() {
	b.closeOnce.Do(func() { <-b.done })
}

func (b *Buffered) flush() {
	for {
		select {
		case event := <-b.events:
			b.record(event)
		default:
			return
		}
	}
}

func (b *Buffered) record(event models.Event) {
	ctx := context.Background()
	for _, sink := range b.sinks {
		if err := sink.Record(ctx, event); err != nil {
			b.logger.Error("audit sink write failed",
				"action", event.Action, "event_id", event.ID, "error", err)
		}
	}
}
