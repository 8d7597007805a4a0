package exporter

import (
	"encoding/csv"
	"fmt"
	"os"

	"cardforge/internal/domain"
)

// writeCSV emits one row per card: the template's fields in schema order,
// then deck and tags columns. Quoting is left to the csv encoder, so
// embedded commas, quotes and newlines survive a round trip.
func writeCSV(path string, req Request) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := append(append([]string{}, req.Template.Fields...), "deck", "tags")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, rec := range req.Records {
		row := append(rec.FieldValues(req.Template), recordDeck(rec, req), domain.JoinTags(rec.Tags))
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return f.Close()
}

// recordDeck resolves a record's deck, falling back to the request-level
// deck name for records that carry none.
func recordDeck(rec domain.CardRecord, req Request) string {
	if rec.Deck != "" {
		return rec.Deck
	}
	return req.DeckName
}
