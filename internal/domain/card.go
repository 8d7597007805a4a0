package domain

import (
	"sort"
	"strings"
)

// CardRecord is the canonical in-memory representation of one flashcard.
// Field contents are keyed by the owning template's schema; Front and Back
// are a convenience projection of the first two schema fields when the
// schema has exactly two.
type CardRecord struct {
	Front        string            `json:"front"`
	Back         string            `json:"back"`
	Fields       map[string]string `json:"fields"`
	Deck         string            `json:"deck"`
	Tags         []string          `json:"tags"`
	TemplateName string            `json:"template"`
}

// NewCardRecord creates a CardRecord for the given template with the
// provided field values. Values whose keys are not part of the template
// schema are ignored; missing schema fields are present as empty strings.
// Tags are deduplicated.
func NewCardRecord(tmpl TemplateDefinition, values map[string]string, deck string, tags []string) CardRecord {
	fields := make(map[string]string, len(tmpl.Fields))
	for _, name := range tmpl.Fields {
		fields[name] = values[name]
	}

	rec := CardRecord{
		Fields:       fields,
		Deck:         deck,
		Tags:         NormalizeTags(tags),
		TemplateName: tmpl.Name,
	}

	// Project the two-field convenience accessors.
	if len(tmpl.Fields) >= 1 {
		rec.Front = fields[tmpl.Fields[0]]
	}
	if len(tmpl.Fields) >= 2 {
		rec.Back = fields[tmpl.Fields[1]]
	}

	return rec
}

// FieldValues returns the record's field contents in the canonical order
// declared by the template. Missing fields yield empty strings, never a
// shorter slice: every export format requires fixed-arity field lists.
func (c CardRecord) FieldValues(tmpl TemplateDefinition) []string {
	out := make([]string, len(tmpl.Fields))
	for i, name := range tmpl.Fields {
		out[i] = c.Fields[name]
	}
	return out
}

// IsEmpty reports whether every field of the record is empty or whitespace.
func (c CardRecord) IsEmpty() bool {
	for _, v := range c.Fields {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the record. Exporters receive copies so
// that caller-owned records are never mutated downstream.
func (c CardRecord) Clone() CardRecord {
	out := c
	out.Fields = make(map[string]string, len(c.Fields))
	for k, v := range c.Fields {
		out.Fields[k] = v
	}
	out.Tags = append([]string(nil), c.Tags...)
	return out
}

// CloneRecords deep-copies a slice of records.
func CloneRecords(records []CardRecord) []CardRecord {
	out := make([]CardRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// NormalizeTags collapses duplicate tags (first occurrence wins) and drops
// empty entries. Tag order is not significant, but the result is stable
// for a given input so exports stay reproducible.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// JoinTags renders a tag set in the single-space-delimited form used by
// the deck-package and CSV exports.
func JoinTags(tags []string) string {
	return strings.Join(NormalizeTags(tags), " ")
}

// SortedTags returns a lexically sorted copy of the tag set. Used where a
// canonical ordering is needed, e.g. when hashing card content.
func SortedTags(tags []string) []string {
	out := append([]string(nil), NormalizeTags(tags)...)
	sort.Strings(out)
	return out
}
