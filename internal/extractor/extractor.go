// Package extractor turns uploaded study files into the plain text the
// generation pipeline consumes. Plain text files split into paragraphs;
// markdown files split into heading-delimited sections via the goldmark
// AST. Binary document formats are out of scope.
package extractor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Errors returned while extracting content.
var (
	// ErrUnsupportedFormat is returned for file extensions the extractor
	// does not handle.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrCorruptFile is returned when a file's content cannot be decoded.
	ErrCorruptFile = errors.New("file content is corrupt or not text")
)

// Section is one logical span of a document: a heading and the text
// under it for markdown, a paragraph for plain text.
type Section struct {
	// Title is the heading text. Empty for untitled spans.
	Title string `json:"title,omitempty"`

	// Content is the span's text with surrounding whitespace trimmed.
	Content string `json:"content"`
}

// Document is the extracted content of one file.
type Document struct {
	// Text is the full plain text of the document.
	Text string `json:"text"`

	// Sections are the document's logical spans in source order.
	Sections []Section `json:"sections"`
}

// Extract parses the file content according to its extension.
// Supported: .txt, .md, .markdown.
func Extract(filename string, data []byte) (Document, error) {
	if !utf8.Valid(data) {
		return Document{}, fmt.Errorf("%w: %s is not valid UTF-8", ErrCorruptFile, filepath.Base(filename))
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return extractText(string(data)), nil
	case ".md", ".markdown":
		return extractMarkdown(data), nil
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// extractText splits plain text into paragraph sections on blank lines.
func extractText(content string) Document {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")

	var sections []Section
	for _, para := range strings.Split(normalized, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		sections = append(sections, Section{Content: para})
	}

	return Document{
		Text:     strings.TrimSpace(normalized),
		Sections: sections,
	}
}

// extractMarkdown walks the goldmark AST and groups content under its
// nearest preceding heading. Content before the first heading becomes an
// untitled section.
func extractMarkdown(source []byte) Document {
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	var sections []Section
	var current *Section

	flush := func() {
		if current != nil && (current.Title != "" || current.Content != "") {
			current.Content = strings.TrimSpace(current.Content)
			sections = append(sections, *current)
		}
		current = nil
	}

	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*ast.Heading); ok {
			flush()
			current = &Section{Title: nodeText(heading, source)}
			continue
		}

		if current == nil {
			current = &Section{}
		}
		block := blockText(node, source)
		if block == "" {
			continue
		}
		if current.Content != "" {
			current.Content += "\n\n"
		}
		current.Content += block
	}
	flush()

	return Document{
		Text:     strings.TrimSpace(string(source)),
		Sections: sections,
	}
}

// nodeText concatenates the raw text of a node's inline children.
func nodeText(node ast.Node, source []byte) string {
	var b strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
			continue
		}
		b.WriteString(nodeText(child, source))
	}
	return strings.TrimSpace(b.String())
}

// blockText slices a block node's source lines back out of the input,
// preserving the author's own formatting inside the block.
func blockText(node ast.Node, source []byte) string {
	lines := node.Lines()
	if lines == nil || lines.Len() == 0 {
		// Containers like lists carry no lines themselves; descend.
		var b strings.Builder
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			part := blockText(child, source)
			if part == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(part)
		}
		return strings.TrimSpace(b.String())
	}

	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimSpace(b.String())
}
