// Package settings holds the runtime-mutable generation preferences.
// Unlike the process configuration, these survive restarts in a JSON
// file and can be changed through the API without redeploying. The core
// pipeline reads immutable snapshots, so a concurrent update can never
// tear a request's view of its settings.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"cardforge/internal/domain"
)

// ErrInvalidSettings is returned when an update fails validation.
var ErrInvalidSettings = errors.New("invalid settings")

// Snapshot is one immutable view of the current settings.
type Snapshot struct {
	// ModelName overrides the configured LLM model when non-empty.
	ModelName string `json:"model_name,omitempty"`

	// DefaultCardCount is the card count applied to requests that omit one.
	DefaultCardCount int `json:"default_card_count"`

	// DefaultDifficulty is the difficulty hint applied by default.
	DefaultDifficulty string `json:"default_difficulty"`

	// DefaultTemplate names the template used when a request omits one.
	DefaultTemplate string `json:"default_template"`

	// DefaultFormats are produced when a request names no formats.
	DefaultFormats []domain.ExportFormat `json:"default_formats"`

	// Temperature overrides the configured sampling temperature when
	// greater than zero.
	Temperature float64 `json:"temperature,omitempty"`

	// MaxTokens overrides the configured response token cap when
	// greater than zero.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// Defaults returns the settings used when no settings file exists yet.
func Defaults() Snapshot {
	return Snapshot{
		DefaultCardCount:  10,
		DefaultDifficulty: "medium",
		DefaultTemplate:   "basic",
		DefaultFormats:    []domain.ExportFormat{domain.FormatJSON, domain.FormatAPKG},
	}
}

// validate checks a snapshot before it becomes current.
func (s Snapshot) validate() error {
	if s.DefaultCardCount <= 0 || s.DefaultCardCount > 100 {
		return fmt.Errorf("%w: default card count must be in 1..100, got %d", ErrInvalidSettings, s.DefaultCardCount)
	}
	if s.DefaultTemplate == "" {
		return fmt.Errorf("%w: default template cannot be empty", ErrInvalidSettings)
	}
	if len(s.DefaultFormats) == 0 {
		return fmt.Errorf("%w: at least one default format is required", ErrInvalidSettings)
	}
	for _, f := range s.DefaultFormats {
		if !f.Valid() {
			return fmt.Errorf("%w: %q is not a supported format", ErrInvalidSettings, f)
		}
	}
	if s.Temperature < 0 || s.Temperature > 2 {
		return fmt.Errorf("%w: temperature must be in 0..2, got %g", ErrInvalidSettings, s.Temperature)
	}
	if s.MaxTokens < 0 {
		return fmt.Errorf("%w: max tokens cannot be negative, got %d", ErrInvalidSettings, s.MaxTokens)
	}
	return nil
}

// clone deep-copies the snapshot so callers never share slices.
func (s Snapshot) clone() Snapshot {
	out := s
	out.DefaultFormats = append([]domain.ExportFormat(nil), s.DefaultFormats...)
	return out
}

// Service serves and persists settings snapshots.
type Service struct {
	mu      sync.RWMutex
	current Snapshot
	path    string
	logger  *slog.Logger
}

// NewService loads settings from path, falling back to defaults when the
// file does not exist yet. A corrupt file is an error: silently reverting
// a user's settings would be worse than failing startup.
func NewService(path string, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	svc := &Service{
		current: Defaults(),
		path:    path,
		logger:  logger.With("component", "settings"),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return svc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding settings file %s: %w", path, err)
	}
	if err := snap.validate(); err != nil {
		return nil, err
	}

	svc.current = snap
	return svc, nil
}

// Current returns an immutable snapshot of the settings.
func (s *Service) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Update validates, persists, and activates a new snapshot.
func (s *Service) Update(snap Snapshot) error {
	if err := snap.validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating settings directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	s.current = snap.clone()
	s.logger.Info("settings updated",
		"default_card_count", snap.DefaultCardCount,
		"default_template", snap.DefaultTemplate)
	return nil
}
