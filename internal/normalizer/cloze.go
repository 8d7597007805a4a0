package normalizer

import (
	"strings"

	"cardforge/internal/domain"
)

// applyCloze post-processes a card mapped onto a cloze template. When the
// text field carries no deletion markers but the card object listed cloze
// terms, markers are synthesized around those terms. A cloze card that
// still has no markers gets a warning; the deck writer falls back to a
// single card for it rather than dropping the note.
func applyCloze(values map[string]string, clozes []string, tmpl domain.TemplateDefinition, index int) []domain.Warning {
	if !tmpl.IsCloze || len(tmpl.Fields) == 0 {
		return nil
	}

	textField := tmpl.Fields[0]
	text := values[textField]

	if len(clozes) > 0 && len(domain.ClozeOrdinals(text)) == 0 {
		values[textField] = domain.ApplyClozes(text, numberClozes(clozes))
		text = values[textField]
	}

	if strings.TrimSpace(text) != "" && len(domain.ClozeOrdinals(text)) == 0 {
		return []domain.Warning{domain.Warnf(domain.WarnClozeMissing,
			"card %d: cloze template %q but no {{cN::...}} markers in field %q", index+1, tmpl.Name, textField)}
	}
	return nil
}

// numberClozes converts raw cloze terms into sequentially numbered
// deletions. A term written as "answer::hint" keeps the hint.
func numberClozes(terms []string) []domain.Cloze {
	out := make([]domain.Cloze, 0, len(terms))
	n := 1
	for _, term := range terms {
		answer, hint := term, ""
		if i := strings.Index(term, "::"); i >= 0 {
			answer, hint = term[:i], term[i+2:]
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			continue
		}
		out = append(out, domain.Cloze{ID: n, Text: answer, Hint: hint})
		n++
	}
	return out
}
