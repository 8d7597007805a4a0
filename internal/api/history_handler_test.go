package api

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardforge/internal/domain"
	"cardforge/internal/history"
)

func seedHistory(t *testing.T, f *fixture) history.Record {
	t.Helper()

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "cards_20250101_120000_Biology.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"cards":[]}`), 0o600))

	rec := history.Record{
		ID:             uuid.New(),
		DeckName:       "Biology",
		Timestamp:      time.Now().UTC(),
		CardCount:      3,
		ContentPreview: "mitochondria notes",
		Files: map[domain.ExportFormat]string{
			domain.FormatJSON: jsonPath,
		},
	}
	require.NoError(t, f.history.Save(context.Background(), rec))
	return rec
}

func TestHistoryListAndGet(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &syncQueue{})
	rec := seedHistory(t, f)

	entries := decodeBody[[]HistoryEntry](t, f.get(t, "/api/history"))
	require.Len(t, entries, 1)
	assert.Equal(t, rec.ID, entries[0].ID)
	assert.Equal(t, []domain.ExportFormat{domain.FormatJSON}, entries[0].Formats)

	entry := decodeBody[HistoryEntry](t, f.get(t, "/api/history/"+rec.ID.String()))
	assert.Equal(t, "Biology", entry.DeckName)
	assert.Equal(t, 3, entry.CardCount)
}

func TestHistoryGetUnknownRecord(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &syncQueue{})
	resp := f.get(t, "/api/history/"+uuid.NewString())
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHistoryDelete(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &syncQueue{})
	rec := seedHistory(t, f)

	req, err := http.NewRequest(http.MethodDelete, f.server.URL+"/api/history/"+rec.ID.String(), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Export files survive record deletion.
	_, statErr := os.Stat(rec.Files[domain.FormatJSON])
	assert.NoError(t, statErr)

	missing := f.get(t, "/api/history/"+rec.ID.String())
	defer func() { _ = missing.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestHistoryDownloadFile(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &syncQueue{})
	rec := seedHistory(t, f)

	resp := f.get(t, "/api/history/"+rec.ID.String()+"/files/json")
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "cards_20250101_120000_Biology.json")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"cards":[]}`, string(body))
}

func TestHistoryDownloadMissingFormat(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &syncQueue{})
	rec := seedHistory(t, f)

	resp := f.get(t, "/api/history/"+rec.ID.String()+"/files/apkg")
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	bad := f.get(t, "/api/history/"+rec.ID.String()+"/files/pdf")
	defer func() { _ = bad.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestHistoryDownloadDeletedFile(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &syncQueue{})
	rec := seedHistory(t, f)
	require.NoError(t, os.Remove(rec.Files[domain.FormatJSON]))

	resp := f.get(t, "/api/history/"+rec.ID.String()+"/files/json")
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
