package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cardforge/internal/domain"
)

// ProgressEvent describes one state transition of a generation request.
// Events carry enough context for a subscriber to render progress without
// fetching the request: the new status, a human-readable message, and the
// running card/warning counts once they are known.
type ProgressEvent struct {
	// RequestID identifies the generation request the event belongs to.
	RequestID uuid.UUID `json:"request_id"`

	// Status is the state the request just entered.
	Status domain.RequestStatus `json:"status"`

	// Message is a short human-readable description of the transition.
	Message string `json:"message,omitempty"`

	// CardCount is the number of records produced so far. Zero until
	// normalization completes.
	CardCount int `json:"card_count,omitempty"`

	// WarningCount is the number of normalization warnings accumulated.
	WarningCount int `json:"warning_count,omitempty"`

	// Timestamp is when the transition happened.
	Timestamp time.Time `json:"timestamp"`
}

// NewProgressEvent creates an event for a request entering the given status.
func NewProgressEvent(requestID uuid.UUID, status domain.RequestStatus, message string) ProgressEvent {
	return ProgressEvent{
		RequestID: requestID,
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// Handler processes progress events. Handlers must be safe for concurrent
// use; the emitter may invoke them from multiple worker goroutines.
type Handler interface {
	// HandleProgress processes the given event within the provided context.
	HandleProgress(ctx context.Context, event ProgressEvent) error
}

// Emitter publishes progress events without knowledge of who consumes
// them. This keeps the orchestrator decoupled from the transport layers
// that surface progress to clients.
type Emitter interface {
	// Emit publishes the given event to all registered handlers and
	// subscribers.
	Emit(ctx context.Context, event ProgressEvent) error
}
