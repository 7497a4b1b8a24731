package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env holds the settings read from the process environment. Secrets live here
// rather than in the run file.
type Env struct {
	LogLevel     string `env:"REGIONGRID_LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"REGIONGRID_LOG_FORMAT" envDefault:"text"`
	Limit        *int   `env:"REGIONGRID_LIMIT"`
	S3AccessKey  string `env:"REGIONGRID_S3_ACCESS_KEY"`
	S3SecretKey  string `env:"REGIONGRID_S3_SECRET_KEY"`
	OtelEndpoint string `env:"REGIONGRID_OTEL_ENDPOINT"`
	OtelEnabled  bool   `env:"REGIONGRID_OTEL_ENABLED" envDefault:"true"`
}

// LoadEnv loads the given dotenv files (missing files are ignored) and then
// parses the environment into an Env.
func LoadEnv(dotenvFiles ...string) (Env, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// ApplyEnv overlays environment values on the model. Only values that were
// actually set take effect.
func ApplyEnv(m *Model, e Env) {
	if e.Limit != nil {
		m.Limit = *e.Limit
	}
	if e.S3AccessKey != "" {
		m.Publish.AccessKey = e.S3AccessKey
	}
	if e.S3SecretKey != "" {
		m.Publish.SecretKey = e.S3SecretKey
	}
}
