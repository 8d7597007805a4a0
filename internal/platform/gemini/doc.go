// Package gemini implements the generation.Generator interface against
// Google's Gemini API. It handles transport concerns only: request
// assembly, retry with exponential backoff and jitter for transient
// failures, and safety-block detection. Turning the raw completion text
// into card records is the normalizer's job.
package gemini
