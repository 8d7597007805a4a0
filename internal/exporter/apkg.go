package exporter

import (
	"fmt"
	"strings"

	"cardforge/internal/anki"
	"cardforge/internal/domain"
	cardtemplate "cardforge/internal/template"
)

const defaultDeckName = "Generated Cards"

// writeAPKG packages the records as an importable deck archive. The model
// ID comes from the template's stable identifier and deck IDs hash from
// deck names, so re-importing a regenerated deck merges instead of
// duplicating.
func writeAPKG(path string, req Request) error {
	model := buildModel(req.Template)

	fallback := firstNonEmpty(req.DeckName, defaultDeckName)
	decks := make(map[string]*anki.Deck)
	var order []string

	for _, rec := range req.Records {
		name := firstNonEmpty(rec.Deck, fallback)
		deck, ok := decks[name]
		if !ok {
			deck = &anki.Deck{ID: anki.DeckID(name), Name: name}
			decks[name] = deck
			order = append(order, name)
		}
		deck.AddNote(anki.Note{
			Model:  model,
			Fields: noteFields(rec, req),
			Tags:   domain.SortedTags(rec.Tags),
		})
	}

	pkgDecks := make([]*anki.Deck, 0, len(order))
	for _, name := range order {
		pkgDecks = append(pkgDecks, decks[name])
	}

	if err := anki.NewPackage(pkgDecks...).WriteTo(path); err != nil {
		return fmt.Errorf("writing deck package: %w", err)
	}
	return nil
}

// buildModel maps a card template onto a note model. Templates without
// markup get generated question/answer formats over their own schema and
// the built-in styling.
func buildModel(tmpl domain.TemplateDefinition) *anki.Model {
	modelType := anki.ModelTypeStandard
	if tmpl.IsCloze {
		modelType = anki.ModelTypeCloze
	}

	qfmt, afmt, css := tmpl.FrontMarkup, tmpl.BackMarkup, tmpl.CSS
	if !tmpl.HasMarkup() {
		qfmt, afmt = generatedMarkup(tmpl)
	}
	if css == "" {
		css = cardtemplate.Fallback(tmpl.IsCloze).CSS
	}

	return &anki.Model{
		ID:        tmpl.StableID,
		Name:      tmpl.Name,
		Fields:    tmpl.Fields,
		Templates: []anki.CardTemplate{{Name: "Card 1", Qfmt: qfmt, Afmt: afmt}},
		CSS:       css,
		Type:      modelType,
	}
}

// generatedMarkup derives front/back formats from the template's own
// schema: first field on the front, remaining fields on the back.
func generatedMarkup(tmpl domain.TemplateDefinition) (qfmt, afmt string) {
	if tmpl.IsCloze {
		qfmt = "{{cloze:" + tmpl.Fields[0] + "}}"
		rest := make([]string, 0, len(tmpl.Fields)-1)
		for _, name := range tmpl.Fields[1:] {
			rest = append(rest, "{{"+name+"}}")
		}
		afmt = qfmt
		if len(rest) > 0 {
			afmt += "<br>" + strings.Join(rest, "<br>")
		}
		return qfmt, afmt
	}

	qfmt = "{{" + tmpl.Fields[0] + "}}"
	back := make([]string, 0, len(tmpl.Fields)-1)
	for _, name := range tmpl.Fields[1:] {
		back = append(back, "{{"+name+"}}")
	}
	afmt = "{{FrontSide}}\n\n<hr id=answer>\n\n" + strings.Join(back, "<br>")
	return qfmt, afmt
}

// noteFields resolves the record's field values in schema order. Schema
// fields literally named for deck or tags pull from the record's metadata
// when the LLM left them blank, matching how quiz-style templates expect
// those columns filled.
func noteFields(rec domain.CardRecord, req Request) []string {
	values := rec.FieldValues(req.Template)
	for i, name := range req.Template.Fields {
		if values[i] != "" {
			continue
		}
		switch strings.ToLower(name) {
		case "deck", "deck name":
			values[i] = recordDeck(rec, req)
		case "tags":
			values[i] = domain.JoinTags(rec.Tags)
		}
	}
	return values
}
