package anki

import "errors"

// Model types understood by the collection schema.
const (
	ModelTypeStandard = 0
	ModelTypeCloze    = 1
)

// Errors returned while assembling a package.
var (
	ErrNoDecks        = errors.New("package must contain at least one deck")
	ErrNoFields       = errors.New("model must declare at least one field")
	ErrFieldArity     = errors.New("note field count must match its model")
	ErrMissingModel   = errors.New("note has no model")
	ErrEmptyDeckName  = errors.New("deck name cannot be empty")
	ErrEmptyModelName = errors.New("model name cannot be empty")
)

// CardTemplate is one question/answer rendering of a model.
type CardTemplate struct {
	Name string
	Qfmt string
	Afmt string
}

// Model is a note type: an ordered field list plus card templates and
// styling. ID must be stable across exports for re-imports to merge.
type Model struct {
	ID        int64
	Name      string
	Fields    []string
	Templates []CardTemplate
	CSS       string
	Type      int
}

// Validate checks the model for structural problems.
func (m Model) Validate() error {
	if m.Name == "" {
		return ErrEmptyModelName
	}
	if len(m.Fields) == 0 {
		return ErrNoFields
	}
	return nil
}

// Note is one unit of memorizable content: field values in model order
// plus a tag set.
type Note struct {
	Model  *Model
	Fields []string
	Tags   []string
}

// Validate checks the note against its model. The collection format
// requires a fixed-arity field list per model; missing values must be
// empty strings, never omitted.
func (n Note) Validate() error {
	if n.Model == nil {
		return ErrMissingModel
	}
	if len(n.Fields) != len(n.Model.Fields) {
		return ErrFieldArity
	}
	return nil
}

// Deck is a named collection of notes.
type Deck struct {
	ID          int64
	Name        string
	Description string
	Notes       []Note
}

// AddNote appends a note to the deck.
func (d *Deck) AddNote(n Note) {
	d.Notes = append(d.Notes, n)
}

// Validate checks the deck and all contained notes.
func (d Deck) Validate() error {
	if d.Name == "" {
		return ErrEmptyDeckName
	}
	for _, n := range d.Notes {
		if err := n.Validate(); err != nil {
			return err
		}
		if err := n.Model.Validate(); err != nil {
			return err
		}
	}
	return nil
}
