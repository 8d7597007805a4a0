package api

import (
	"errors"
	"net/http"

	"cardforge/internal/domain"
	"cardforge/internal/extractor"
	"cardforge/internal/generation"
	"cardforge/internal/history"
	"cardforge/internal/settings"
	"cardforge/internal/task"
	"cardforge/internal/template"
)

// MapErrorToStatusCode translates service errors into HTTP status codes.
// Unknown errors map to 500 so internals are never leaked by accident.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, template.ErrTemplateNotFound),
		errors.Is(err, history.ErrNotFound),
		errors.Is(err, generation.ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrUnknownFormat),
		errors.Is(err, settings.ErrInvalidSettings),
		errors.Is(err, extractor.ErrCorruptFile):
		return http.StatusBadRequest
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, task.ErrQueueFull):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for the given
// error. Messages for known sentinels pass through; anything else is
// replaced with a generic message.
func GetSafeErrorMessage(err error) string {
	switch MapErrorToStatusCode(err) {
	case http.StatusInternalServerError:
		return "an internal error occurred"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable, please retry"
	default:
		return err.Error()
	}
}
