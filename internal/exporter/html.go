package exporter

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"os"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"cardforge/internal/domain"
	cardtemplate "cardforge/internal/template"
)

var pageTemplate = htmltemplate.Must(htmltemplate.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: arial, sans-serif; margin: 2em auto; max-width: 48em; }
.card-entry { border: 1px solid #ccc; border-radius: 6px; margin-bottom: 1.5em; }
.card-front, .card-back { padding: 1em; }
.card-front { border-bottom: 1px solid #eee; font-weight: bold; }
.card-tags { padding: 0.5em 1em; color: #777; font-size: 0.85em; }
{{.CSS}}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.CardCount}} cards</p>
{{range .Cards}}<div class="card-entry">
<div class="card-front">{{.Front}}</div>
<div class="card-back">{{.Back}}</div>
{{if .Tags}}<div class="card-tags">{{.Tags}}</div>{{end}}
</div>
{{end}}</body>
</html>
`))

type pageData struct {
	Title     string
	CSS       htmltemplate.CSS
	CardCount int
	Cards     []pageCard
}

type pageCard struct {
	Front htmltemplate.HTML
	Back  htmltemplate.HTML
	Tags  string
}

var (
	markdown  = goldmark.New()
	sanitizer = func() *bluemonday.Policy {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").OnElements("span")
		return p
	}()
	clozeSpan = regexp.MustCompile(`\{\{c\d+::(.+?)\}\}`)
)

// writeHTML renders a browsable preview page. Field values are treated as
// markdown, converted, and sanitized before they reach the page. When the
// template carries its own markup the front and back panes follow it;
// otherwise the first field renders as the front and the rest as the back.
func writeHTML(path string, req Request) error {
	tmpl := req.Template
	css := tmpl.CSS
	if css == "" {
		css = cardtemplate.Fallback(tmpl.IsCloze).CSS
	}

	data := pageData{
		Title:     firstNonEmpty(req.DeckName, tmpl.Name),
		CSS:       htmltemplate.CSS(css),
		CardCount: len(req.Records),
	}

	for _, rec := range req.Records {
		rendered := make(map[string]string, len(tmpl.Fields))
		for _, name := range tmpl.Fields {
			html, err := fieldHTML(rec.Fields[name])
			if err != nil {
				return fmt.Errorf("rendering field %q: %w", name, err)
			}
			rendered[name] = html
		}

		var front, back string
		if tmpl.HasMarkup() {
			front = renderMarkup(tmpl.FrontMarkup, tmpl.Fields, rendered, "")
			back = renderMarkup(tmpl.BackMarkup, tmpl.Fields, rendered, front)
		} else {
			front = rendered[tmpl.Fields[0]]
			parts := make([]string, 0, len(tmpl.Fields)-1)
			for _, name := range tmpl.Fields[1:] {
				parts = append(parts, rendered[name])
			}
			back = strings.Join(parts, "\n")
		}

		data.Cards = append(data.Cards, pageCard{
			Front: htmltemplate.HTML(front),
			Back:  htmltemplate.HTML(back),
			Tags:  domain.JoinTags(rec.Tags),
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// fieldHTML converts one field value from markdown to sanitized HTML.
// Cloze deletions render as highlighted spans so the preview shows the
// hidden text instead of raw braces.
func fieldHTML(value string) (string, error) {
	value = clozeSpan.ReplaceAllStringFunc(value, func(m string) string {
		inner := clozeSpan.FindStringSubmatch(m)[1]
		// Drop a trailing ::hint segment.
		if i := strings.Index(inner, "::"); i >= 0 {
			inner = inner[:i]
		}
		return `<span class="cloze">` + inner + `</span>`
	})

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(value), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(sanitizer.Sanitize(buf.String())), nil
}

// renderMarkup substitutes {{Field}}, {{cloze:Field}} and {{FrontSide}}
// placeholders in a card template's markup with rendered field content.
func renderMarkup(markup string, fields []string, rendered map[string]string, frontSide string) string {
	out := strings.ReplaceAll(markup, "{{FrontSide}}", frontSide)
	for _, name := range fields {
		out = strings.ReplaceAll(out, "{{cloze:"+name+"}}", rendered[name])
		out = strings.ReplaceAll(out, "{{"+name+"}}", rendered[name])
	}
	return out
}
