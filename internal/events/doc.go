// Package events provides the progress event types and the in-memory
// emitter that connects the generation orchestrator to its observers.
//
// The orchestrator emits a ProgressEvent on every request state
// transition. Handlers registered with the emitter (the websocket feed,
// tests) receive each event; channel subscribers get a buffered stream
// with slow-consumer drop semantics so a stalled client can never block
// generation.
package events
