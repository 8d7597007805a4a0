package config

import "cardforge/internal/domain"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Export     ExportConfig     `mapstructure:"export" validate:"required"`
	Store      StoreConfig      `mapstructure:"store" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name" validate:"required"`
	// MaxRetries caps transport retry attempts for transient failures.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	// RetryDelaySeconds is the base backoff delay between retries.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
	// PromptTemplatePath optionally overrides the built-in prompt template.
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
	// CacheSize is the number of raw completions kept in the LRU cache.
	CacheSize int `mapstructure:"cache_size" validate:"gte=0,lte=10000"`
	// Temperature is the sampling temperature passed to the model.
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	// MaxTokens caps the model's response length. Zero leaves the
	// provider default in place.
	MaxTokens int `mapstructure:"max_tokens" validate:"gte=0"`
	// TimeoutSeconds bounds each individual model call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gte=0,lte=600"`
}

// GenerationConfig contains generation pipeline defaults.
type GenerationConfig struct {
	// DefaultCardCount is used when a request does not specify one.
	DefaultCardCount int `mapstructure:"default_card_count" validate:"required,gt=0,lte=100"`
	// DefaultTemplate names the template used when a request omits one.
	DefaultTemplate string `mapstructure:"default_template" validate:"required"`
	// QueueSize is the buffer size of the background task queue.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`
	// WorkerCount is the number of concurrent generation workers.
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0,lte=32"`
}

// ExportConfig contains export output settings.
type ExportConfig struct {
	// Directory receives export artifacts.
	Directory string `mapstructure:"directory" validate:"required"`
	// DefaultFormats are produced when a request does not name any.
	DefaultFormats []string `mapstructure:"default_formats" validate:"required,min=1,dive,oneof=json csv txt html apkg"`
}

// ParsedFormats converts the configured format names to typed formats.
// Validation has already rejected unknown names, so parse failures are
// skipped rather than surfaced.
func (c ExportConfig) ParsedFormats() []domain.ExportFormat {
	formats := make([]domain.ExportFormat, 0, len(c.DefaultFormats))
	for _, raw := range c.DefaultFormats {
		format, err := domain.ParseFormat(raw)
		if err != nil {
			continue
		}
		formats = append(formats, format)
	}
	return formats
}

// StoreConfig contains persistence settings.
type StoreConfig struct {
	// HistoryPath is the bbolt database file holding generation history.
	HistoryPath string `mapstructure:"history_path" validate:"required"`
	// SettingsPath is the JSON file holding runtime-mutable settings.
	SettingsPath string `mapstructure:"settings_path" validate:"required"`
	// TemplateDir optionally holds custom template assets.
	TemplateDir string `mapstructure:"template_dir"`
}
