package exporter

import (
	"fmt"
	"os"
	"strings"

	"cardforge/internal/domain"
)

// writeTXT emits a human-readable plain text rendering: one labeled block
// per card, fields in schema order, blank line between cards.
func writeTXT(path string, req Request) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Deck: %s\n", firstNonEmpty(req.DeckName, req.Template.Name))
	fmt.Fprintf(&b, "Template: %s\n", req.Template.Name)
	fmt.Fprintf(&b, "Cards: %d\n\n", len(req.Records))

	for i, rec := range req.Records {
		fmt.Fprintf(&b, "#%d\n", i+1)
		for _, name := range req.Template.Fields {
			fmt.Fprintf(&b, "%s: %s\n", name, indentContinuations(rec.Fields[name]))
		}
		if tags := domain.JoinTags(rec.Tags); tags != "" {
			fmt.Fprintf(&b, "Tags: %s\n", tags)
		}
		b.WriteString("\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// indentContinuations keeps multi-line field values inside their labeled
// block by indenting every line after the first.
func indentContinuations(v string) string {
	return strings.ReplaceAll(v, "\n", "\n    ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
