package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/randomtoy/arcano/internal/entropy"
)

type Config struct {
	HTTPAddr          string        `env:"HTTP_ADDR" envDefault:":8080"`
	RawLogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	EntropyMode       entropy.Mode  `env:"ENTROPY_MODE" envDefault:"auto"`
	HistoryDB         string        `env:"HISTORY_DB" envDefault:"tarot.db"`
	LLMModel          string        `env:"LLM_MODEL" envDefault:"qwen/qwen3-4b:free"`
	LLMFallbackModels []string      `env:"LLM_FALLBACK_MODELS" envSeparator:","`
	OpenRouterAPIKey  string        `env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string        `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	LLMTimeout        time.Duration `env:"LLM_TIMEOUT" envDefault:"10s"`
	LLMLang           string        `env:"LLM_LANG" envDefault:"es"`

	LogLevel slog.Level
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	level, err := parseLogLevel(c.RawLogLevel)
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level
	c.LLMFallbackModels = cleanModels(c.LLMFallbackModels)

	switch c.EntropyMode {
	case entropy.ModeAuto, entropy.ModeCrypto, entropy.ModePool:
	default:
		return Config{}, fmt.Errorf("invalid ENTROPY_MODE %q", c.EntropyMode)
	}
	if c.LLMTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid LLM_TIMEOUT %s", c.LLMTimeout)
	}

	return c, nil
}

// NarratorEnabled reports whether an OpenRouter key was supplied.
func (c Config) NarratorEnabled() bool {
	return c.OpenRouterAPIKey != ""
}

func cleanModels(in []string) []string {
	var models []string
	for _, m := range in {
		m = strings.TrimSpace(m)
		if m != "" {
			models = append(models, m)
		}
	}
	return models
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
