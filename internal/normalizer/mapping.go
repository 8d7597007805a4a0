package normalizer

import (
	"strings"

	"cardforge/internal/domain"
)

// reservedKeys are card-object keys that carry collection metadata rather
// than field content. They are handled out of band and never count as
// unknown fields.
var reservedKeys = map[string]string{
	"deck":      "deck",
	"deckname":  "deck",
	"deck_name": "deck",
	"tags":      "tags",
	"tag":       "tags",
	"clozes":    "clozes",
	"cloze":     "clozes",
}

// mapOntoSchema maps one candidate card object onto the template's field
// schema. Matching runs exact key first, then case-insensitive, then by
// positional order if none of the object's keys match the schema at all.
// Unknown keys are dropped with a warning, never merged into front/back.
func mapOntoSchema(obj cardObject, tmpl domain.TemplateDefinition, index int) (map[string]string, string, []string, []domain.Warning) {
	var (
		warnings []domain.Warning
		deck     string
		tags     []string
		clozes   []string
	)

	lowerSchema := make(map[string]string, len(tmpl.Fields))
	for _, f := range tmpl.Fields {
		lowerSchema[strings.ToLower(f)] = f
	}

	values := make(map[string]string, len(tmpl.Fields))
	var unmatched []string

	for _, key := range obj.keys {
		v, _ := obj.get(key)

		if kind, ok := reservedKeys[strings.ToLower(key)]; ok {
			switch kind {
			case "deck":
				deck = strings.TrimSpace(stringify(v))
			case "tags":
				tags = append(tags, parseTags(v)...)
			case "clozes":
				clozes = append(clozes, parseClozes(v)...)
			}
			continue
		}

		if _, ok := tmpl.FieldIndex(key); ok {
			values[key] = stringify(v)
			continue
		}
		if canonical, ok := lowerSchema[strings.ToLower(key)]; ok {
			values[canonical] = stringify(v)
			continue
		}
		unmatched = append(unmatched, key)
	}

	if len(values) == 0 && len(unmatched) > 0 {
		// Nothing matched the schema by name. Fall back to positional
		// assignment in the object's own key order.
		for i, key := range unmatched {
			if i >= len(tmpl.Fields) {
				break
			}
			v, _ := obj.get(key)
			values[tmpl.Fields[i]] = stringify(v)
		}
		warnings = append(warnings, domain.Warnf(domain.WarnPositionalMapping,
			"card %d: keys %v match no schema field; values assigned positionally", index+1, unmatched))
	} else {
		for _, key := range unmatched {
			warnings = append(warnings, domain.Warnf(domain.WarnUnknownField,
				"card %d: field %q is not in the %q schema and was dropped", index+1, key, tmpl.Name))
		}
	}

	for _, f := range tmpl.Fields {
		if _, ok := values[f]; !ok {
			values[f] = ""
			warnings = append(warnings, domain.Warnf(domain.WarnMissingField,
				"card %d: field %q missing from response; set to empty", index+1, f))
		}
	}

	warnings = append(warnings, applyCloze(values, clozes, tmpl, index)...)

	return values, deck, tags, warnings
}

// parseClozes accepts cloze term lists as a JSON array or a single
// comma-separated string. Unlike tags, terms may contain spaces, so bare
// strings are only split on commas.
func parseClozes(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := strings.TrimSpace(stringify(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		parts := strings.Split(t, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		if s := strings.TrimSpace(stringify(v)); s != "" {
			return []string{s}
		}
		return nil
	}
}

// parseTags accepts the tag shapes models actually produce: a JSON array,
// a single string with space or comma separators, or a scalar.
func parseTags(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, stringify(item))
		}
		return out
	case string:
		if strings.Contains(t, ",") {
			parts := strings.Split(t, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return parts
		}
		return strings.Fields(t)
	default:
		s := stringify(v)
		if s == "" {
			return nil
		}
		return []string{s}
	}
}
