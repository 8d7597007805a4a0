package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cardforge/internal/domain"
)

// Request describes one export run.
type Request struct {
	// Records are the cards to write. Must be non-empty.
	Records []domain.CardRecord

	// Template owns the field schema the records were normalized against.
	Template domain.TemplateDefinition

	// Formats to produce. The json format is always produced regardless
	// of whether it appears here; duplicates are collapsed.
	Formats []domain.ExportFormat

	// Directory receives the artifacts. Created if missing.
	Directory string

	// DeckName names the deck for records that carry no deck of their
	// own, and seeds the artifact filename suffix.
	DeckName string
}

// Exporter writes card records to files in the supported encodings.
type Exporter struct {
	logger *slog.Logger
	now    func() time.Time
}

// New creates an Exporter.
func New(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		logger: logger.With("component", "exporter"),
		now:    time.Now,
	}
}

// Export writes the request's records in every requested format and
// returns the artifacts produced plus any per-format failures. Formats
// fail independently; a csv failure does not suppress the html artifact.
// The json artifact is always attempted first.
func (e *Exporter) Export(req Request) ([]domain.ExportArtifact, []ExportError) {
	if len(req.Records) == 0 {
		return nil, []ExportError{{Format: domain.FormatJSON, Err: ErrNoRecords}}
	}

	formats := normalizeFormats(req.Formats)
	ts := e.now().UTC()
	suffix := req.DeckName
	if suffix == "" {
		suffix = req.Template.Name
	}

	if req.Directory != "" {
		if err := os.MkdirAll(req.Directory, 0o755); err != nil {
			errs := make([]ExportError, 0, len(formats))
			for _, f := range formats {
				errs = append(errs, ExportError{Format: f, Err: fmt.Errorf("creating export directory: %w", err)})
			}
			return nil, errs
		}
	}

	var (
		artifacts []domain.ExportArtifact
		failures  []ExportError
	)
	for _, format := range formats {
		path := filepath.Join(req.Directory, artifactName(ts, suffix, format))
		if err := e.writeFormat(format, path, req); err != nil {
			e.logger.Warn("export format failed",
				"format", format, "path", path, "error", err)
			failures = append(failures, ExportError{Format: format, Path: path, Err: err})
			continue
		}
		e.logger.Debug("artifact written",
			"format", format, "path", path, "cards", len(req.Records))
		artifacts = append(artifacts, domain.ExportArtifact{
			Format:      format,
			Path:        path,
			CardCount:   len(req.Records),
			GeneratedAt: ts,
		})
	}

	return artifacts, failures
}

func (e *Exporter) writeFormat(format domain.ExportFormat, path string, req Request) error {
	switch format {
	case domain.FormatJSON:
		return writeJSON(path, req)
	case domain.FormatCSV:
		return writeCSV(path, req)
	case domain.FormatTXT:
		return writeTXT(path, req)
	case domain.FormatHTML:
		return writeHTML(path, req)
	case domain.FormatAPKG:
		return writeAPKG(path, req)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownFormat, format)
	}
}

// normalizeFormats deduplicates the requested formats and guarantees json
// is present, first.
func normalizeFormats(formats []domain.ExportFormat) []domain.ExportFormat {
	out := []domain.ExportFormat{domain.FormatJSON}
	seen := map[domain.ExportFormat]bool{domain.FormatJSON: true}
	for _, f := range formats {
		if !f.Valid() || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
