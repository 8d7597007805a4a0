package exporter

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardforge/internal/domain"
)

func basicTemplate(t *testing.T) domain.TemplateDefinition {
	t.Helper()
	tmpl, err := domain.NewTemplateDefinition("basic", []string{"Front", "Back"})
	require.NoError(t, err)
	return tmpl
}

func sampleRecords(t *testing.T, tmpl domain.TemplateDefinition) []domain.CardRecord {
	t.Helper()
	return []domain.CardRecord{
		domain.NewCardRecord(tmpl, map[string]string{
			"Front": "What is ATP?",
			"Back":  "Adenosine triphosphate, the cell's energy currency",
		}, "Biology", []string{"biology", "energy"}),
		domain.NewCardRecord(tmpl, map[string]string{
			"Front": "Quote, \"comma\", and\nnewline",
			"Back":  "survive csv",
		}, "", nil),
	}
}

func TestExportProducesRequestedArtifacts(t *testing.T) {
	t.Parallel()

	tmpl := basicTemplate(t)
	dir := t.TempDir()

	artifacts, failures := New(nil).Export(Request{
		Records:   sampleRecords(t, tmpl),
		Template:  tmpl,
		Formats:   []domain.ExportFormat{domain.FormatCSV, domain.FormatTXT},
		Directory: dir,
		DeckName:  "Biology",
	})

	require.Empty(t, failures)
	require.Len(t, artifacts, 3, "json is always included")

	assert.Equal(t, domain.FormatJSON, artifacts[0].Format)
	for _, a := range artifacts {
		assert.Equal(t, 2, a.CardCount)
		assert.FileExists(t, a.Path)
		assert.True(t, strings.HasPrefix(filepath.Base(a.Path), "cards_"))
		assert.True(t, strings.HasSuffix(a.Path, "."+a.Format.Ext()))
	}
}

func TestExportJSONRoundTrips(t *testing.T) {
	t.Parallel()

	tmpl := basicTemplate(t)
	records := sampleRecords(t, tmpl)
	dir := t.TempDir()

	artifacts, failures := New(nil).Export(Request{
		Records:   records,
		Template:  tmpl,
		Directory: dir,
		DeckName:  "Biology",
	})
	require.Empty(t, failures)
	require.Len(t, artifacts, 1)

	data, err := os.ReadFile(artifacts[0].Path)
	require.NoError(t, err)

	var doc jsonDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Biology", doc.Deck)
	assert.Equal(t, "basic", doc.Template)
	assert.Equal(t, records, doc.Cards)
}

func TestExportCSVRoundTrips(t *testing.T) {
	t.Parallel()

	tmpl := basicTemplate(t)
	records := sampleRecords(t, tmpl)
	dir := t.TempDir()

	artifacts, failures := New(nil).Export(Request{
		Records:   records,
		Template:  tmpl,
		Formats:   []domain.ExportFormat{domain.FormatCSV},
		Directory: dir,
		DeckName:  "Biology",
	})
	require.Empty(t, failures)
	require.Len(t, artifacts, 2)

	f, err := os.Open(artifacts[1].Path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Front", "Back", "deck", "tags"}, rows[0])
	assert.Equal(t, []string{"What is ATP?", "Adenosine triphosphate, the cell's energy currency", "Biology", "biology energy"}, rows[1])
	assert.Equal(t, "Quote, \"comma\", and\nnewline", rows[2][0], "quoting survives a round trip")
	assert.Equal(t, "Biology", rows[2][2], "empty deck falls back to the request deck")
}

func TestExportTXT(t *testing.T) {
	t.Parallel()

	tmpl := basicTemplate(t)
	dir := t.TempDir()

	artifacts, failures := New(nil).Export(Request{
		Records:   sampleRecords(t, tmpl),
		Template:  tmpl,
		Formats:   []domain.ExportFormat{domain.FormatTXT},
		Directory: dir,
		DeckName:  "Biology",
	})
	require.Empty(t, failures)

	data, err := os.ReadFile(artifacts[1].Path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Deck: Biology")
	assert.Contains(t, text, "#1\nFront: What is ATP?")
	assert.Contains(t, text, "Tags: biology energy")
}

func TestExportHTMLSanitizesFields(t *testing.T) {
	t.Parallel()

	tmpl := basicTemplate(t)
	rec := domain.NewCardRecord(tmpl, map[string]string{
		"Front": "**bold** and <script>alert(1)</script>",
		"Back":  "plain",
	}, "", nil)
	dir := t.TempDir()

	artifacts, failures := New(nil).Export(Request{
		Records:   []domain.CardRecord{rec},
		Template:  tmpl,
		Formats:   []domain.ExportFormat{domain.FormatHTML},
		Directory: dir,
	})
	require.Empty(t, failures)

	data, err := os.ReadFile(artifacts[1].Path)
	require.NoError(t, err)
	page := string(data)

	assert.Contains(t, page, "<strong>bold</strong>", "markdown renders")
	assert.NotContains(t, page, "<script>", "script tags are stripped")
}

func TestExportAPKGIsReadable(t *testing.T) {
	t.Parallel()

	tmpl := basicTemplate(t)
	dir := t.TempDir()

	artifacts, failures := New(nil).Export(Request{
		Records:   sampleRecords(t, tmpl),
		Template:  tmpl,
		Formats:   []domain.ExportFormat{domain.FormatAPKG},
		Directory: dir,
		DeckName:  "Biology",
	})
	require.Empty(t, failures)

	zr, err := zip.OpenReader(artifacts[1].Path)
	require.NoError(t, err)
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"collection.anki2", "media"}, names)
}

func TestExportWithNoRecords(t *testing.T) {
	t.Parallel()

	artifacts, failures := New(nil).Export(Request{Template: basicTemplate(t)})
	assert.Empty(t, artifacts)
	require.Len(t, failures, 1)
	assert.ErrorIs(t, &failures[0], ErrNoRecords)
}

func TestNormalizeFormats(t *testing.T) {
	t.Parallel()

	got := normalizeFormats([]domain.ExportFormat{
		domain.FormatCSV, domain.FormatJSON, domain.FormatCSV, "bogus", domain.FormatAPKG,
	})
	assert.Equal(t, []domain.ExportFormat{domain.FormatJSON, domain.FormatCSV, domain.FormatAPKG}, got)
}

func TestSanitizeBasename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Biology", "Biology"},
		{"../../etc/passwd", "etc_passwd"},
		{"my deck: draft #2", "my_deck_draft_2"},
		{"  ", "cards"},
		{"", "cards"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, sanitizeBasename(tc.in), "input %q", tc.in)
	}
}

func TestArtifactNameShape(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 9, 14, 30, 5, 0, time.UTC)
	got := artifactName(ts, "Biology", domain.FormatCSV)
	assert.Equal(t, "cards_20250309_143005_Biology.csv", got)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	tmpl := basicTemplate(t)
	records := sampleRecords(t, tmpl)
	artifacts := []domain.ExportArtifact{
		{Format: domain.FormatJSON},
		{Format: domain.FormatAPKG},
	}

	s := Summarize(records, artifacts, "")
	assert.Equal(t, 2, s.CardCount)
	assert.Equal(t, map[string]int{"Biology": 1, defaultDeckName: 1}, s.Decks)
	assert.Equal(t, map[string]int{"basic": 2}, s.Templates)
	assert.Equal(t, []domain.ExportFormat{domain.FormatJSON, domain.FormatAPKG}, s.Formats)
}
