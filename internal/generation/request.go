package generation

import (
	"time"

	"github.com/google/uuid"

	"cardforge/internal/domain"
	"cardforge/internal/exporter"
)

// Request describes one card generation run.
type Request struct {
	// ID identifies the request across the queue, progress events, and
	// history.
	ID uuid.UUID `json:"id"`

	// Content is the study material cards are generated from.
	Content string `json:"content"`

	// DeckName is the target deck. Optional; exports fall back to a
	// generated name.
	DeckName string `json:"deck_name,omitempty"`

	// TemplateName selects the card template. Empty means the configured
	// default.
	TemplateName string `json:"template_name,omitempty"`

	// CardCount is how many cards to ask the model for. Zero means the
	// configured default.
	CardCount int `json:"card_count,omitempty"`

	// Difficulty is a free-form difficulty hint passed to the model.
	Difficulty string `json:"difficulty,omitempty"`

	// Tags are attached to every generated card.
	Tags []string `json:"tags,omitempty"`

	// Formats are the export encodings to produce. JSON is always
	// included regardless.
	Formats []domain.ExportFormat `json:"formats,omitempty"`

	// SourceFiles names the uploaded files the content came from, for
	// history display.
	SourceFiles []string `json:"source_files,omitempty"`

	// CreatedAt is when the request was accepted.
	CreatedAt time.Time `json:"created_at"`
}

// NewRequest creates a request with a fresh ID and timestamp.
func NewRequest(content string) Request {
	return Request{
		ID:        uuid.New(),
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// Result is the observable state of a request. The orchestrator updates
// it on every transition; status queries receive snapshots.
type Result struct {
	RequestID uuid.UUID            `json:"request_id"`
	Status    domain.RequestStatus `json:"status"`

	Records   []domain.CardRecord     `json:"records,omitempty"`
	Warnings  []domain.Warning        `json:"warnings,omitempty"`
	Artifacts []domain.ExportArtifact `json:"artifacts,omitempty"`

	// Summary carries per-deck and per-template card counts once the
	// export stage has run.
	Summary *exporter.Summary `json:"summary,omitempty"`

	// ExportErrors holds per-format export failure messages. A request
	// can finish done with some formats failed.
	ExportErrors []string `json:"export_errors,omitempty"`

	// FailedStage and Error are set when Status is failed.
	FailedStage string `json:"failed_stage,omitempty"`
	Error       string `json:"error,omitempty"`

	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// clone returns a snapshot safe to hand outside the orchestrator's lock.
func (r *Result) clone() Result {
	out := *r
	out.Records = domain.CloneRecords(r.Records)
	out.Warnings = append([]domain.Warning(nil), r.Warnings...)
	out.Artifacts = append([]domain.ExportArtifact(nil), r.Artifacts...)
	out.ExportErrors = append([]string(nil), r.ExportErrors...)
	if r.Summary != nil {
		s := *r.Summary
		out.Summary = &s
	}
	return out
}
