package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardforge/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndGet(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	rec := NewRecord(uuid.New(), "Biology", "mitochondria are the powerhouse", []domain.ExportArtifact{
		{Format: domain.FormatJSON, Path: "/tmp/cards.json", CardCount: 5},
		{Format: domain.FormatAPKG, Path: "/tmp/cards.apkg", CardCount: 5},
	})

	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Biology", got.DeckName)
	assert.Equal(t, 5, got.CardCount)
	assert.Equal(t, "mitochondria are the powerhouse", got.ContentPreview)
	assert.Equal(t, "/tmp/cards.apkg", got.Files[domain.FormatAPKG])
}

func TestGetUnknownID(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	older := NewRecord(uuid.New(), "First", "a", nil)
	older.Timestamp = time.Now().Add(-time.Hour)
	newer := NewRecord(uuid.New(), "Second", "b", nil)

	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Second", records[0].DeckName)
	assert.Equal(t, "First", records[1].DeckName)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	rec := NewRecord(uuid.New(), "Doomed", "c", nil)
	require.NoError(t, store.Save(ctx, rec))
	require.NoError(t, store.Delete(ctx, rec.ID))

	_, err := store.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, rec.ID), ErrNotFound)
}

func TestPreviewTruncation(t *testing.T) {
	t.Parallel()

	short := "short content"
	assert.Equal(t, short, Preview(short))

	long := strings.Repeat("é", 300)
	got := Preview(long)
	assert.Equal(t, strings.Repeat("é", 200)+"...", got)

	assert.Equal(t, "trimmed", Preview("  trimmed  "))
}

func TestSaveCancelledContext(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Save(ctx, NewRecord(uuid.New(), "x", "y", nil))
	assert.ErrorIs(t, err, context.Canceled)
}
