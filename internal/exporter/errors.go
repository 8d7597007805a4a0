package exporter

import (
	"errors"
	"fmt"

	"cardforge/internal/domain"
)

// ErrNoRecords is returned when an export is attempted with zero records.
var ErrNoRecords = errors.New("no records to export")

// ExportError describes a failure to produce one artifact. Export collects
// these per format instead of aborting the whole call.
type ExportError struct {
	Format domain.ExportFormat
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("exporting %s to %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
