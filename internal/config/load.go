package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix namespaces the environment variables the loader reads, e.g.
// CARDFORGE_LLM_GEMINI_API_KEY maps to llm.gemini_api_key.
const envPrefix = "CARDFORGE"

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. A .env file, if present, is
// loaded first so local development does not need exported variables.
// Environment variables take precedence over file values. Returns a
// populated Config or an error if loading or validation fails.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.cache_size", 128)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.timeout_seconds", 60)

	v.SetDefault("generation.default_card_count", 10)
	v.SetDefault("generation.default_template", "basic")
	v.SetDefault("generation.queue_size", 100)
	v.SetDefault("generation.worker_count", 2)

	v.SetDefault("export.directory", "exports")
	v.SetDefault("export.default_formats", []string{"json", "apkg"})

	v.SetDefault("store.history_path", "data/history.db")
	v.SetDefault("store.settings_path", "data/settings.json")
	v.SetDefault("store.template_dir", "")
}

// bindEnvKeys registers every config key with viper so AutomaticEnv can
// resolve variables for keys that have no default and appear in no file.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"server.port", "server.log_level",
		"llm.gemini_api_key", "llm.model_name", "llm.max_retries",
		"llm.retry_delay_seconds", "llm.prompt_template_path", "llm.cache_size",
		"llm.temperature", "llm.max_tokens", "llm.timeout_seconds",
		"generation.default_card_count", "generation.default_template",
		"generation.queue_size", "generation.worker_count",
		"export.directory", "export.default_formats",
		"store.history_path", "store.settings_path", "store.template_dir",
	}
	for _, key := range keys {
		// BindEnv only fails on an empty key.
		_ = v.BindEnv(key)
	}
}
