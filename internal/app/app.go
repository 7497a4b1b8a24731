package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/regiongrid/internal/config"
	"github.com/vk/regiongrid/internal/ctxlog"
	"github.com/vk/regiongrid/internal/httpclient"
)

const serviceName = "regiongrid"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	appConfig *Config
	config    *config.Model
	env       config.Env
	client    *http.Client
}

// NewApp loads the environment and the run configuration and returns a fully
// initialized App with its own isolated logger. Command-line values in
// appConfig take precedence over the environment, which takes precedence
// over the configuration files.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	env, err := config.LoadEnv(appConfig.DotEnvFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	level, format := appConfig.LogLevel, appConfig.LogFormat
	if level == "" {
		level = env.LogLevel
	}
	if format == "" {
		format = env.LogFormat
	}
	logger := newLogger(level, format, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfgModel, err := loader.Load(ctx, appConfig.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	config.ApplyEnv(cfgModel, env)
	if appConfig.LimitSet {
		cfgModel.Limit = appConfig.Limit
	}
	if appConfig.SkipTranslations {
		cfgModel.Translations.Enabled = false
	}
	if err := cfgModel.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debug("Configuration loaded.", "limit", cfgModel.Limit, "build_root", cfgModel.Layout.BuildRoot)

	client, err := httpclient.New(httpclient.Options{Timeout: "10m", UserAgent: serviceName})
	if err != nil {
		return nil, err
	}

	return &App{
		outW:      outW,
		logger:    logger,
		appConfig: appConfig,
		config:    cfgModel,
		env:       env,
		client:    client,
	}, nil
}

// Config returns the resolved run configuration. This is primarily for testing.
func (a *App) Config() *config.Model {
	return a.config
}

// Close releases the resources held by the App.
func (a *App) Close() {
	httpclient.Close(a.client)
}
