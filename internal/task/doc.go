// Package task provides the in-memory queue and worker pool that execute
// generation requests asynchronously. The HTTP layer enqueues a task and
// returns immediately; workers drain the queue and run each task with the
// pool's lifecycle context so shutdown cancels in-flight work.
package task
