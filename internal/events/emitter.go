package events

import (
	"context"
	"log/slog"
	"sync"
)

// subscriberBuffer is how many events a channel subscriber can lag
// behind before events are dropped for it.
const subscriberBuffer = 64

// InMemoryEmitter dispatches progress events to registered handlers and
// channel subscribers. Handler errors do not stop delivery to the
// remaining handlers; the first error is returned.
type InMemoryEmitter struct {
	mu          sync.RWMutex
	handlers    []Handler
	subscribers map[int]chan ProgressEvent
	nextSub     int
	logger      *slog.Logger
}

// NewInMemoryEmitter creates a new emitter.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEmitter{
		subscribers: make(map[int]chan ProgressEvent),
		logger:      logger.With("component", "event_emitter"),
	}
}

// RegisterHandler adds a handler that receives every emitted event.
func (e *InMemoryEmitter) RegisterHandler(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered event handler", "handler_count", len(e.handlers))
}

// Subscribe returns a channel that receives every emitted event and a
// cancel function that must be called when the subscriber is done. A
// subscriber that stops draining its channel loses events rather than
// blocking the emitter.
func (e *InMemoryEmitter) Subscribe() (<-chan ProgressEvent, func()) {
	ch := make(chan ProgressEvent, subscriberBuffer)

	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subscribers[id] = ch
	e.mu.Unlock()

	cancel := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.subscribers[id]; ok {
			delete(e.subscribers, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Emit publishes the event to all handlers and subscribers. Handler
// errors are logged and collected; the first one is returned after every
// handler has seen the event.
func (e *InMemoryEmitter) Emit(ctx context.Context, event ProgressEvent) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)

	// Subscriber sends stay under the read lock: cancel closes a channel
	// only while holding the write lock, so a send can never race a
	// close. Sends are non-blocking, so the lock is held only briefly.
	subscriberCount := len(e.subscribers)
	for _, ch := range e.subscribers {
		select {
		case ch <- event:
		default:
			e.logger.Warn("dropping event for slow subscriber",
				"request_id", event.RequestID,
				"status", event.Status)
		}
	}
	e.mu.RUnlock()

	e.logger.Debug("emitting progress event",
		"request_id", event.RequestID,
		"status", event.Status,
		"handler_count", len(handlers),
		"subscriber_count", subscriberCount)

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleProgress(ctx, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"request_id", event.RequestID,
				"status", event.Status)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
