package history

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"cardforge/internal/domain"
)

// previewRunes caps how much of the source content a record keeps.
const previewRunes = 200

// Record is one completed generation run.
type Record struct {
	ID        uuid.UUID `json:"id"`
	DeckName  string    `json:"deck_name"`
	Timestamp time.Time `json:"timestamp"`
	CardCount int       `json:"card_count"`

	// ContentPreview is the start of the source content, truncated for
	// display.
	ContentPreview string `json:"content_preview"`

	// Files maps export format to artifact path on disk.
	Files map[domain.ExportFormat]string `json:"files"`

	// SourceFiles names the uploads the content came from, when any.
	SourceFiles []string `json:"source_files,omitempty"`
}

// NewRecord builds a record for a finished run. The content is truncated
// to a preview; artifact paths are indexed by format.
func NewRecord(id uuid.UUID, deckName, content string, artifacts []domain.ExportArtifact) Record {
	files := make(map[domain.ExportFormat]string, len(artifacts))
	cardCount := 0
	for _, a := range artifacts {
		files[a.Format] = a.Path
		cardCount = a.CardCount
	}
	return Record{
		ID:             id,
		DeckName:       deckName,
		Timestamp:      time.Now().UTC(),
		CardCount:      cardCount,
		ContentPreview: Preview(content),
		Files:          files,
	}
}

// Preview truncates content to the preview length, appending an ellipsis
// when anything was cut. Truncation counts runes, not bytes, so
// multi-byte text is never split mid-character.
func Preview(content string) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= previewRunes {
		return content
	}
	return string(runes[:previewRunes]) + "..."
}
