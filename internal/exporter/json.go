package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"cardforge/internal/domain"
)

// jsonDocument is the machine-readable export shape. It round-trips: the
// cards array unmarshals back into the same records that produced it.
type jsonDocument struct {
	Deck       string              `json:"deck,omitempty"`
	Template   string              `json:"template"`
	CardCount  int                 `json:"card_count"`
	ExportedAt time.Time           `json:"exported_at"`
	Cards      []domain.CardRecord `json:"cards"`
}

func writeJSON(path string, req Request) error {
	doc := jsonDocument{
		Deck:       req.DeckName,
		Template:   req.Template.Name,
		CardCount:  len(req.Records),
		ExportedAt: time.Now().UTC(),
		Cards:      req.Records,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cards: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
