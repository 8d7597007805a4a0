package domain

import (
	"fmt"
	"strings"
	"time"
)

// ExportFormat identifies one of the supported export encodings.
type ExportFormat string

// Supported export formats.
const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
	FormatTXT  ExportFormat = "txt"
	FormatHTML ExportFormat = "html"
	FormatAPKG ExportFormat = "apkg"
)

// AllFormats lists every supported format in a fixed order.
var AllFormats = []ExportFormat{FormatJSON, FormatCSV, FormatTXT, FormatHTML, FormatAPKG}

// ParseFormat converts a string into an ExportFormat.
// Matching is case-insensitive.
func ParseFormat(s string) (ExportFormat, error) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// Valid reports whether the format is one of the supported encodings.
func (f ExportFormat) Valid() bool {
	switch f {
	case FormatJSON, FormatCSV, FormatTXT, FormatHTML, FormatAPKG:
		return true
	}
	return false
}

// Ext returns the file extension for the format, without a leading dot.
func (f ExportFormat) Ext() string {
	return string(f)
}

// ExportArtifact describes one file produced by an export call.
// Artifacts are created fresh per export and never mutated afterwards;
// superseded files are left on disk for history browsing.
type ExportArtifact struct {
	Format      ExportFormat `json:"format"`
	Path        string       `json:"path"`
	CardCount   int          `json:"card_count"`
	GeneratedAt time.Time    `json:"generated_at"`
}
