package api

import (
	"time"

	"github.com/google/uuid"

	"cardforge/internal/domain"
	"cardforge/internal/exporter"
	"cardforge/internal/generation"
	"cardforge/internal/history"
)

// GenerateRequest is the payload for POST /api/generate.
type GenerateRequest struct {
	Content      string   `json:"content" validate:"required_without=SourceFiles"`
	DeckName     string   `json:"deck_name,omitempty" validate:"omitempty,max=120"`
	TemplateName string   `json:"template,omitempty"`
	CardCount    int      `json:"card_count,omitempty" validate:"omitempty,min=1,max=100"`
	Difficulty   string   `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Tags         []string `json:"tags,omitempty"`
	Formats      []string `json:"formats,omitempty" validate:"omitempty,dive,oneof=json csv txt html apkg"`

	// SourceFiles carries pre-extracted upload content keyed by filename.
	// The handler concatenates extracted text with Content.
	SourceFiles []UploadedFile `json:"source_files,omitempty"`
}

// UploadedFile is one uploaded document embedded in a generate request.
type UploadedFile struct {
	Name string `json:"name" validate:"required"`
	Data []byte `json:"data" validate:"required"`
}

// GenerateResponse acknowledges an accepted generation request.
type GenerateResponse struct {
	RequestID uuid.UUID            `json:"request_id"`
	Status    domain.RequestStatus `json:"status"`
}

// StatusResponse reports the current state of a request.
type StatusResponse struct {
	RequestID    uuid.UUID               `json:"request_id"`
	Status       domain.RequestStatus    `json:"status"`
	CardCount    int                     `json:"card_count"`
	Warnings     []domain.Warning        `json:"warnings,omitempty"`
	Artifacts    []domain.ExportArtifact `json:"artifacts,omitempty"`
	Summary      *exporter.Summary       `json:"summary,omitempty"`
	ExportErrors []string                `json:"export_errors,omitempty"`
	FailedStage  string                  `json:"failed_stage,omitempty"`
	Error        string                  `json:"error,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	CompletedAt  *time.Time              `json:"completed_at,omitempty"`
}

func newStatusResponse(res generation.Result) StatusResponse {
	out := StatusResponse{
		RequestID:    res.RequestID,
		Status:       res.Status,
		CardCount:    len(res.Records),
		Warnings:     res.Warnings,
		Artifacts:    res.Artifacts,
		Summary:      res.Summary,
		ExportErrors: res.ExportErrors,
		FailedStage:  res.FailedStage,
		Error:        res.Error,
		CreatedAt:    res.CreatedAt,
	}
	if !res.CompletedAt.IsZero() {
		t := res.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

// TemplateSummary is one entry in the template listing.
type TemplateSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Fields      []string `json:"fields"`
	IsCloze     bool     `json:"is_cloze"`
}

// HistoryEntry is one row in the history listing. Artifact paths are not
// exposed; files are downloaded through the files endpoint instead.
type HistoryEntry struct {
	ID             uuid.UUID             `json:"id"`
	DeckName       string                `json:"deck_name"`
	Timestamp      time.Time             `json:"timestamp"`
	CardCount      int                   `json:"card_count"`
	ContentPreview string                `json:"content_preview"`
	Formats        []domain.ExportFormat `json:"formats"`
	SourceFiles    []string              `json:"source_files,omitempty"`
}

func newHistoryEntry(rec history.Record) HistoryEntry {
	formats := make([]domain.ExportFormat, 0, len(rec.Files))
	for _, f := range domain.AllFormats {
		if _, ok := rec.Files[f]; ok {
			formats = append(formats, f)
		}
	}
	return HistoryEntry{
		ID:             rec.ID,
		DeckName:       rec.DeckName,
		Timestamp:      rec.Timestamp,
		CardCount:      rec.CardCount,
		ContentPreview: rec.ContentPreview,
		Formats:        formats,
		SourceFiles:    rec.SourceFiles,
	}
}
