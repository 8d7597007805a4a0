package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTask struct {
	id      uuid.UUID
	execute func(ctx context.Context) error
}

func newFakeTask(execute func(ctx context.Context) error) *fakeTask {
	return &fakeTask{id: uuid.New(), execute: execute}
}

func (t *fakeTask) ID() uuid.UUID      { return t.id }
func (t *fakeTask) Type() string       { return TaskTypeCardGeneration }
func (t *fakeTask) Status() TaskStatus { return TaskStatusPending }

func (t *fakeTask) Execute(ctx context.Context) error {
	if t.execute != nil {
		return t.execute(ctx)
	}
	return nil
}

func TestQueueEnqueueAndConsume(t *testing.T) {
	t.Parallel()

	q := NewQueue(2, nil)
	task := newFakeTask(nil)

	require.NoError(t, q.Enqueue(task))
	got := <-q.Chan()
	assert.Equal(t, task.ID(), got.ID())
}

func TestQueueFull(t *testing.T) {
	t.Parallel()

	q := NewQueue(1, nil)
	require.NoError(t, q.Enqueue(newFakeTask(nil)))

	err := q.Enqueue(newFakeTask(nil))
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestQueueClosed(t *testing.T) {
	t.Parallel()

	q := NewQueue(1, nil)
	q.Close()
	q.Close() // idempotent

	assert.ErrorIs(t, q.Enqueue(newFakeTask(nil)), ErrQueueClosed)
}

func TestWorkerPoolProcessesTasks(t *testing.T) {
	t.Parallel()

	q := NewQueue(10, nil)
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 3}, nil)

	var executed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.NoError(t, q.Enqueue(newFakeTask(func(context.Context) error {
			defer wg.Done()
			executed.Add(1)
			return nil
		})))
	}

	pool.Start()
	wg.Wait()
	pool.Stop()

	assert.Equal(t, int32(5), executed.Load())
}

func TestWorkerPoolErrorHandler(t *testing.T) {
	t.Parallel()

	q := NewQueue(1, nil)
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 1}, nil)

	handled := make(chan error, 1)
	pool.SetErrorHandler(func(_ Task, err error) { handled <- err })

	boom := errors.New("boom")
	require.NoError(t, q.Enqueue(newFakeTask(func(context.Context) error { return boom })))

	pool.Start()
	defer pool.Stop()

	select {
	case err := <-handled:
		assert.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("error handler was not invoked")
	}
}

func TestWorkerPoolSurvivesPanickingTask(t *testing.T) {
	t.Parallel()

	q := NewQueue(2, nil)
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 1}, nil)

	done := make(chan struct{})
	require.NoError(t, q.Enqueue(newFakeTask(func(context.Context) error { panic("bad task") })))
	require.NoError(t, q.Enqueue(newFakeTask(func(context.Context) error {
		close(done)
		return nil
	})))

	pool.Start()
	defer pool.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panicking task")
	}
}

func TestWorkerPoolStopCancelsContext(t *testing.T) {
	t.Parallel()

	q := NewQueue(1, nil)
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 1}, nil)

	started := make(chan struct{})
	cancelled := make(chan struct{})
	require.NoError(t, q.Enqueue(newFakeTask(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	})))

	pool.Start()
	<-started
	pool.Stop()

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("task context was not cancelled on Stop")
	}
}
