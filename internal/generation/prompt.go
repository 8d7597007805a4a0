package generation

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"
)

// ErrEmptyContent is returned when a prompt is requested for empty
// study content.
var ErrEmptyContent = errors.New("content cannot be empty")

// defaultPromptTemplate instructs the model to return a JSON object with
// a cards array keyed by the template's field schema. Custom deployments
// can override it with a template file.
const defaultPromptTemplate = `You are an expert flashcard author. Create exactly {{.CardCount}} high-quality flashcards from the study content below.

Requirements:
- Difficulty level: {{.Difficulty}}
- Card style: {{.TemplateName}}
{{- if .IsCloze}}
- Use cloze deletions written as {{"{{c1::hidden text}}"}} inside the text field.
{{- end}}
{{- if .DeckName}}
- Deck name: {{.DeckName}}
{{- end}}

Respond with only a JSON object of the form {"cards": [...]}. Each card object must have exactly these keys: {{.FieldList}}.

Study content:
{{.Content}}
`

// PromptData is the input to the prompt template.
type PromptData struct {
	Content      string
	CardCount    int
	Difficulty   string
	TemplateName string
	FieldList    string
	DeckName     string
	IsCloze      bool
}

// PromptBuilder renders generation prompts from a template. Prompts feed
// the completion cache key, so the output is fully deterministic for a
// given input.
type PromptBuilder struct {
	tmpl *template.Template
}

// NewPromptBuilder creates a builder using the built-in prompt template.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		tmpl: template.Must(template.New("prompt").Parse(defaultPromptTemplate)),
	}
}

// NewPromptBuilderFromFile creates a builder from a template file.
func NewPromptBuilderFromFile(path string) (*PromptBuilder, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading prompt template from %s: %v", ErrInvalidConfig, path, err)
	}
	tmpl, err := template.New("prompt").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing prompt template: %v", ErrInvalidConfig, err)
	}
	return &PromptBuilder{tmpl: tmpl}, nil
}

// Build renders the prompt for the given data. Difficulty defaults to
// medium and the card count must be positive.
func (b *PromptBuilder) Build(data PromptData) (string, error) {
	if strings.TrimSpace(data.Content) == "" {
		return "", ErrEmptyContent
	}
	if data.CardCount <= 0 {
		return "", fmt.Errorf("%w: card count must be positive, got %d", ErrInvalidConfig, data.CardCount)
	}
	if data.Difficulty == "" {
		data.Difficulty = "medium"
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}
	return buf.String(), nil
}
