package generation

import (
	"context"

	"github.com/google/uuid"

	"cardforge/internal/domain"
	"cardforge/internal/task"
)

// Task adapts a generation request to the worker pool's task interface.
type Task struct {
	req          Request
	orchestrator *Orchestrator
}

// NewTask creates a queueable task for the request. The request must
// already be accepted with Orchestrator.Accept so its status is visible
// while queued.
func NewTask(req Request, orchestrator *Orchestrator) *Task {
	return &Task{req: req, orchestrator: orchestrator}
}

// ID returns the request ID.
func (t *Task) ID() uuid.UUID { return t.req.ID }

// Type returns the task type identifier.
func (t *Task) Type() string { return task.TaskTypeCardGeneration }

// Status maps the request's pipeline status onto the queue's task states.
func (t *Task) Status() task.TaskStatus {
	res, err := t.orchestrator.Status(t.req.ID)
	if err != nil {
		return task.TaskStatusPending
	}
	switch res.Status {
	case domain.RequestStatusPending:
		return task.TaskStatusPending
	case domain.RequestStatusDone:
		return task.TaskStatusCompleted
	case domain.RequestStatusFailed:
		return task.TaskStatusFailed
	case domain.RequestStatusCancelled:
		return task.TaskStatusCancelled
	default:
		return task.TaskStatusProcessing
	}
}

// Execute runs the request through the orchestrator.
func (t *Task) Execute(ctx context.Context) error {
	_, err := t.orchestrator.Run(ctx, t.req)
	return err
}
