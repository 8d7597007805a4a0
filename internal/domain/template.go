package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// TemplateDefinition describes a named card template: its ordered field
// schema, its rendering markup, and the stable numeric identifier used for
// deck-package model addressing.
type TemplateDefinition struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Fields      []string `json:"fields"`
	FrontMarkup string   `json:"front_markup,omitempty"`
	BackMarkup  string   `json:"back_markup,omitempty"`
	CSS         string   `json:"css,omitempty"`
	IsCloze     bool     `json:"is_cloze,omitempty"`

	// StableID is derived deterministically from Name so that repeated
	// exports of the same template address the same deck-package model
	// across process restarts.
	StableID int64 `json:"stable_id"`
}

// NewTemplateDefinition creates a validated TemplateDefinition and computes
// its stable identifier from the name.
func NewTemplateDefinition(name string, fields []string) (TemplateDefinition, error) {
	tmpl := TemplateDefinition{
		Name:     name,
		Fields:   append([]string(nil), fields...),
		StableID: StableID(name),
	}
	if err := tmpl.Validate(); err != nil {
		return TemplateDefinition{}, err
	}
	return tmpl, nil
}

// Validate checks the template definition for structural problems.
func (t TemplateDefinition) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyTemplateName
	}
	if len(t.Fields) == 0 {
		return ErrEmptyFieldSchema
	}
	seen := make(map[string]struct{}, len(t.Fields))
	for _, f := range t.Fields {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("%w: empty field name", ErrValidation)
		}
		if _, ok := seen[f]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateField, f)
		}
		seen[f] = struct{}{}
	}
	if t.StableID != StableID(t.Name) {
		return fmt.Errorf("%w: stable ID does not match name", ErrValidation)
	}
	return nil
}

// HasMarkup reports whether the template carries custom rendering markup.
// Templates without markup fall back to the exporter's built-in models.
func (t TemplateDefinition) HasMarkup() bool {
	return strings.TrimSpace(t.FrontMarkup) != "" && strings.TrimSpace(t.BackMarkup) != ""
}

// FieldIndex returns the position of the named field in the schema.
// Lookup is case-sensitive.
func (t TemplateDefinition) FieldIndex(name string) (int, bool) {
	for i, f := range t.Fields {
		if f == name {
			return i, true
		}
	}
	return 0, false
}

// SchemaEqual reports whether two templates declare the same ordered field
// schema. Used to decide whether a re-registration is an idempotent no-op.
func (t TemplateDefinition) SchemaEqual(other TemplateDefinition) bool {
	if len(t.Fields) != len(other.Fields) {
		return false
	}
	for i := range t.Fields {
		if t.Fields[i] != other.Fields[i] {
			return false
		}
	}
	return true
}

// StableID derives a 64-bit identifier from a name. It takes the first
// eight hex digits of the MD5 of the name, so the same name always maps to
// the same ID with no process-local state involved.
func StableID(name string) int64 {
	sum := md5.Sum([]byte(name))
	id, err := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	if err != nil {
		// Unreachable: eight hex digits always parse.
		return 0
	}
	return id
}
