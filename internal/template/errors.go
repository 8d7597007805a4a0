package template

import "errors"

// Errors returned by the template registry.
var (
	// ErrDuplicateTemplate is returned when a template is registered under
	// a name that already exists with a different field schema.
	ErrDuplicateTemplate = errors.New("template already registered with a different schema")

	// ErrTemplateNotFound is returned when no template exists for a name.
	// Lookup is case-sensitive; there is no fuzzy matching.
	ErrTemplateNotFound = errors.New("template not found")
)
