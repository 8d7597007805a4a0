package template

import "cardforge/internal/domain"

// Built-in template names. These are always present in a registry, even
// when no external template assets are found.
const (
	BasicName = "basic"
	ClozeName = "cloze"
)

const basicCSS = `.card {
  font-family: arial;
  font-size: 20px;
  text-align: center;
  color: black;
  background-color: white;
}`

const clozeCSS = basicCSS + `
.cloze {
  font-weight: bold;
  color: blue;
}`

// builtinTemplates returns the generic two-field basic template and the
// generic cloze template. Their markup mirrors the stock note types of the
// target application so decks render sensibly without any custom assets.
func builtinTemplates() []domain.TemplateDefinition {
	basic := domain.TemplateDefinition{
		Name:        BasicName,
		Description: "Generic two-field question/answer template",
		Fields:      []string{"Front", "Back"},
		FrontMarkup: "{{Front}}",
		BackMarkup:  "{{FrontSide}}\n\n<hr id=answer>\n\n{{Back}}",
		CSS:         basicCSS,
		StableID:    domain.StableID(BasicName),
	}

	cloze := domain.TemplateDefinition{
		Name:        ClozeName,
		Description: "Generic cloze deletion template",
		Fields:      []string{"Text", "Back Extra"},
		FrontMarkup: "{{cloze:Text}}",
		BackMarkup:  "{{cloze:Text}}<br>{{Back Extra}}",
		CSS:         clozeCSS,
		IsCloze:     true,
		StableID:    domain.StableID(ClozeName),
	}

	return []domain.TemplateDefinition{basic, cloze}
}

// Fallback returns the built-in template the exporter substitutes when a
// registered template carries no markup of its own.
func Fallback(isCloze bool) domain.TemplateDefinition {
	builtins := builtinTemplates()
	if isCloze {
		return builtins[1]
	}
	return builtins[0]
}
