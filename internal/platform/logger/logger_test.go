package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		want  slog.Level
		valid bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"Error", slog.LevelError, true},
		{"", slog.LevelInfo, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tc := range tests {
		got, ok := parseLevel(tc.in)
		assert.Equal(t, tc.want, got, "level for %q", tc.in)
		assert.Equal(t, tc.valid, ok, "validity for %q", tc.in)
	}
}

func TestSetupEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := setup("debug", &buf)
	require.NotNil(t, logger)

	logger.Debug("hello", "component", "test")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "test", record["component"])
}

func TestSetupFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := setup("error", &buf)

	logger.Info("suppressed")
	assert.Zero(t, buf.Len())

	logger.Error("emitted")
	assert.Contains(t, buf.String(), "emitted")
}
