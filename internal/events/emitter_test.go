package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardforge/internal/domain"
)

type recordingHandler struct {
	events []ProgressEvent
	err    error
}

func (h *recordingHandler) HandleProgress(_ context.Context, e ProgressEvent) error {
	h.events = append(h.events, e)
	return h.err
}

func TestEmitDeliversToAllHandlers(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEmitter(nil)
	first := &recordingHandler{err: errors.New("boom")}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event := NewProgressEvent(uuid.New(), domain.RequestStatusPrompting, "calling model")
	err := emitter.Emit(context.Background(), event)

	assert.EqualError(t, err, "boom", "first handler error is surfaced")
	require.Len(t, second.events, 1, "later handlers still receive the event")
	assert.Equal(t, event.RequestID, second.events[0].RequestID)
}

func TestEmitWithNoHandlers(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEmitter(nil)
	err := emitter.Emit(context.Background(), NewProgressEvent(uuid.New(), domain.RequestStatusPending, ""))
	assert.NoError(t, err)
}

func TestSubscribeReceivesEvents(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEmitter(nil)
	ch, cancel := emitter.Subscribe()
	defer cancel()

	event := NewProgressEvent(uuid.New(), domain.RequestStatusDone, "finished")
	require.NoError(t, emitter.Emit(context.Background(), event))

	got := <-ch
	assert.Equal(t, event.RequestID, got.RequestID)
	assert.Equal(t, domain.RequestStatusDone, got.Status)
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEmitter(nil)
	ch, cancel := emitter.Subscribe()
	cancel()
	cancel() // idempotent

	_, open := <-ch
	assert.False(t, open, "cancel closes the channel")

	require.NoError(t, emitter.Emit(context.Background(), NewProgressEvent(uuid.New(), domain.RequestStatusDone, "")))
}

func TestSlowSubscriberDoesNotBlockEmit(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEmitter(nil)
	_, cancel := emitter.Subscribe()
	defer cancel()

	// Fill past the buffer without draining.
	for i := 0; i < subscriberBuffer+10; i++ {
		require.NoError(t, emitter.Emit(context.Background(), NewProgressEvent(uuid.New(), domain.RequestStatusPrompting, "")))
	}
}

func TestEmitConcurrentWithSubscribeCancel(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEmitter(nil)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_ = emitter.Emit(context.Background(),
					NewProgressEvent(uuid.New(), domain.RequestStatusPrompting, "tick"))
			}
		}
	}()

	// Churn subscriptions while events are in flight. A send racing a
	// cancel's close would panic the emitting goroutine.
	for i := 0; i < 2000; i++ {
		_, cancel := emitter.Subscribe()
		cancel()
	}

	close(stop)
	wg.Wait()
}
