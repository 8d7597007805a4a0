// Package generation contains the card generation pipeline: the
// Generator boundary interface to the language model, the prompt
// builder, the completion cache, and the orchestrator that drives a
// request through prompting, normalization, export, and history.
package generation
