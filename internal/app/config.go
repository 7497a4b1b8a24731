package app

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds the invocation settings an App is created from. Empty log
// settings fall back to the environment.
type Config struct {
	ConfigPaths []string // hcl files or directories
	DotEnvFiles []string

	LogFormat string
	LogLevel  string

	// Limit overrides the attempt cap when LimitSet is true.
	Limit    int
	LimitSet bool

	SkipTranslations bool
	FailOnEmpty      bool
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("at least one configuration path is required")
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "" && cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.LimitSet && cfg.Limit < 0 {
		return nil, fmt.Errorf("invalid limit %d: must be zero (no cap) or positive", cfg.Limit)
	}

	return &cfg, nil
}
