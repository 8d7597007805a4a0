package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardforge/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Server: config.ServerConfig{Port: 0, LogLevel: "info"},
		LLM: config.LLMConfig{
			GeminiAPIKey: "test-key",
			ModelName:    "gemini-2.0-flash",
			MaxRetries:   1,
		},
		Generation: config.GenerationConfig{
			DefaultCardCount: 10,
			DefaultTemplate:  "basic",
			QueueSize:        4,
			WorkerCount:      1,
		},
		Export: config.ExportConfig{
			Directory:      filepath.Join(dir, "exports"),
			DefaultFormats: []string{"json"},
		},
		Store: config.StoreConfig{
			HistoryPath:  filepath.Join(dir, "history.db"),
			SettingsPath: filepath.Join(dir, "settings.json"),
		},
	}
}

func TestNewApplicationWiresComponents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app, err := newApplication(context.Background(), testConfig(t), logger)
	require.NoError(t, err)
	defer app.cleanup()

	assert.NotNil(t, app.router)
	assert.NotNil(t, app.queue)
	assert.NotNil(t, app.pool)
	assert.NotNil(t, app.history)
	assert.NotNil(t, app.settings)
	assert.Nil(t, app.watcher)

	// The router serves the health endpoint without any worker running.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewApplicationRejectsMissingAPIKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testConfig(t)
	cfg.LLM.GeminiAPIKey = ""

	_, err := newApplication(context.Background(), cfg, logger)
	require.Error(t, err)
}
