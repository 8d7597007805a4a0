package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTemplateName is returned when a template name is empty.
	ErrEmptyTemplateName = errors.New("template name cannot be empty")

	// ErrEmptyFieldSchema is returned when a template declares no fields.
	ErrEmptyFieldSchema = errors.New("template must declare at least one field")

	// ErrDuplicateField is returned when a template declares the same
	// field name twice.
	ErrDuplicateField = errors.New("template field names must be unique")

	// ErrEmptyDeckName is returned when a deck name is empty.
	ErrEmptyDeckName = errors.New("deck name cannot be empty")

	// ErrUnknownFormat is returned when an export format string does not
	// name a supported format.
	ErrUnknownFormat = errors.New("unknown export format")

	// ErrNoCardsProduced is returned when a generation request yields no
	// usable card records and nothing could be recovered.
	ErrNoCardsProduced = errors.New("no cards produced")
)
