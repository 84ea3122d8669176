package publisher_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vouch/internal/audit/models"
	"vouch/internal/audit/publisher"
)

type captureSink struct {
	mu     sync.Mutex
	events []models.Event
}

func (c *captureSink) Record(_ context.Context, event models.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestPublishReachesAllSinks(t *testing.T) {
	first, second := &captureSink{}, &captureSink{}
	pub := publisher.New([]publisher.Sink{first, second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = pub.Run(ctx)
		close(done)
	}()

	ev := models.NewEvent(models.ActionClaimCreated, "claim", "c-1", time.Now())
	pub.Publish(context.Background(), ev)

	require.Eventually(t, func() bool {
		return first.count() == 1 && second.count() == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, ev.ID, first.events[0].ID)
}

func TestShutdownFlushesBufferedEvents(t *testing.T) {
	sink := &captureSink{}
	pub := publisher.New([]publisher.Sink{sink}, publisher.WithBufferSize(16))

	for i := 0; i < 5; i++ {
		pub.Publish(context.Background(),
			models.NewEvent(models.ActionClaimSubmitted, "claim", "c-2", time.Now()))
	}

	// Worker starts after the events are already queued; cancellation must
	// still drain them.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, pub.Run(ctx))
	pub.Close()

	assert.Equal(t, 5, sink.count())
}

func TestFullBufferDropsInsteadOfBlocking(t *testing.T) {
	sink := &captureSink{}
	pub := publisher.New([]publisher.Sink{sink}, publisher.WithBufferSize(1))

	doneCh := make(chan struct{})
	go func() {
		// No worker running; the second publish must return anyway.
		pub.Publish(context.Background(), models.NewEvent(models.ActionClaimCreated, "claim", "c-3", time.Now()))
		pub.Publish(context.Background(), models.NewEvent(models.ActionClaimCreated, "claim", "c-4", time.Now()))
		close(doneCh)
	}()

	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full buffer")
	}
}
