package exporter

import "cardforge/internal/domain"

// Summary aggregates what an export run produced.
type Summary struct {
	CardCount int                 `json:"card_count"`
	Decks     map[string]int      `json:"decks"`
	Templates map[string]int      `json:"templates"`
	Formats   []domain.ExportFormat `json:"formats"`
}

// Summarize computes per-deck and per-template card counts for the
// records plus the list of formats that actually produced artifacts.
// Records without a deck of their own count toward fallbackDeck, or the
// default deck name when that is empty too.
func Summarize(records []domain.CardRecord, artifacts []domain.ExportArtifact, fallbackDeck string) Summary {
	s := Summary{
		CardCount: len(records),
		Decks:     make(map[string]int),
		Templates: make(map[string]int),
	}
	for _, rec := range records {
		deck := rec.Deck
		if deck == "" {
			deck = fallbackDeck
		}
		if deck == "" {
			deck = defaultDeckName
		}
		s.Decks[deck]++
		s.Templates[rec.TemplateName]++
	}
	for _, a := range artifacts {
		s.Formats = append(s.Formats, a.Format)
	}
	return s
}
