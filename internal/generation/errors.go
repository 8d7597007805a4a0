package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package.
var (
	// ErrGenerationFailed is returned when card generation fails for any
	// general reason.
	ErrGenerationFailed = errors.New("failed to generate cards from content")

	// ErrInvalidResponse is returned when the LLM response is malformed
	// beyond what the normalizer can recover.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due
	// to safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might
	// resolve on retry.
	ErrTransientFailure = errors.New("transient error during card generation")

	// ErrInvalidConfig is returned when the generator configuration is
	// invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrRequestNotFound is returned when a request ID is unknown.
	ErrRequestNotFound = errors.New("generation request not found")
)

// StageError records which pipeline stage a request failed in. It wraps
// the underlying cause so callers can still classify it with errors.Is.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("generation failed during %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
