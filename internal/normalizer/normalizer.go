package normalizer

import (
	"log/slog"

	"cardforge/internal/domain"
)

// Normalizer turns raw LLM text into card records for a template schema.
// The zero value is not usable; construct with New.
type Normalizer struct {
	logger *slog.Logger
}

// New creates a Normalizer that logs recovery decisions to the given logger.
func New(logger *slog.Logger) *Normalizer {
	return &Normalizer{
		logger: logger.With("component", "normalizer"),
	}
}

// strategy is one rung of the recovery ladder. A strategy inspects the raw
// text and either produces candidate card objects or passes. Strategies
// marked recovered contribute a warning when they win, so callers can see
// that the response needed repair beyond routine fence stripping.
type strategy struct {
	name      string
	recovered bool
	parse     func(raw string, tmpl domain.TemplateDefinition) ([]cardObject, bool)
}

// ladder is the ordered sequence of parsing strategies. Order matters:
// each rung is strictly more permissive than the one before it, and the
// first success wins.
var ladder = []strategy{
	{name: "strict", recovered: false, parse: parseStrict},
	{name: "fenced", recovered: false, parse: parseFenced},
	{name: "bracket_scan", recovered: true, parse: parseBracketScan},
	{name: "line_split", recovered: true, parse: parseLineSplit},
}

// Normalize converts raw model output into card records mapped onto the
// template's field schema. It never returns an error: malformed input
// yields a possibly empty record list plus warnings describing what was
// repaired or dropped. A card count differing from expectedCount is a
// warning, not an error; callers decide whether over- or under-generation
// is acceptable.
func (n *Normalizer) Normalize(raw string, tmpl domain.TemplateDefinition, expectedCount int) ([]domain.CardRecord, []domain.Warning) {
	var warnings []domain.Warning

	for _, s := range ladder {
		objects, ok := s.parse(raw, tmpl)
		if !ok || len(objects) == 0 {
			continue
		}

		n.logger.Debug("parsing strategy succeeded",
			"strategy", s.name,
			"candidates", len(objects))

		if s.recovered {
			warnings = append(warnings, domain.Warnf(domain.WarnRecovered,
				"response was not valid structured output; recovered %d card(s) via %s", len(objects), s.name))
		}

		records := make([]domain.CardRecord, 0, len(objects))
		for i, obj := range objects {
			values, deck, tags, ws := mapOntoSchema(obj, tmpl, i)
			warnings = append(warnings, ws...)

			rec := domain.NewCardRecord(tmpl, values, deck, tags)
			if rec.IsEmpty() {
				warnings = append(warnings, domain.Warnf(domain.WarnEmptyCard,
					"card %d has no content in any field and was dropped", i+1))
				continue
			}
			records = append(records, rec)
		}

		if len(records) == 0 {
			// Every candidate was empty. Fall through to the next, more
			// permissive strategy rather than giving up here.
			continue
		}

		if expectedCount > 0 && len(records) != expectedCount {
			warnings = append(warnings, domain.Warnf(domain.WarnCountMismatch,
				"expected %d card(s), got %d", expectedCount, len(records)))
		}

		return records, warnings
	}

	n.logger.Warn("no parsing strategy produced cards", "raw_length", len(raw))
	warnings = append(warnings, domain.Warnf(domain.WarnUnparseable,
		"could not extract any card from the response (%d bytes)", len(raw)))
	return nil, warnings
}
