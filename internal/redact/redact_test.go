package redact

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringRedactsAPIKeys(t *testing.T) {
	t.Parallel()

	got := String("request failed: api_key=AIzaSyBx12345678abcdef denied")
	assert.NotContains(t, got, "AIzaSyBx12345678abcdef")
	assert.Contains(t, got, RedactedKeyPlaceholder)
}

func TestStringRedactsPaths(t *testing.T) {
	t.Parallel()

	got := String("open /home/alice/secrets/config.yaml: permission denied")
	assert.NotContains(t, got, "/home/alice/secrets")
	assert.Contains(t, got, RedactedPathPlaceholder)
}

func TestStringRedactsHosts(t *testing.T) {
	t.Parallel()

	got := String("dial tcp generativelanguage.googleapis.com:443 refused")
	assert.NotContains(t, got, "googleapis.com")
	assert.Contains(t, got, RedactedHostPlaceholder)
}

func TestStringLeavesPlainMessages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no cards produced", String("no cards produced"))
	assert.Equal(t, "", String(""))
}

func TestError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Error(nil))
	assert.Contains(t, Error(errors.New("token abcdefgh1234 rejected")), RedactedKeyPlaceholder)
}
