package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vk/regiongrid/internal/codelist"
	"github.com/vk/regiongrid/internal/config"
	"github.com/vk/regiongrid/internal/ctxlog"
	"github.com/vk/regiongrid/internal/engine"
	"github.com/vk/regiongrid/internal/executor"
	"github.com/vk/regiongrid/internal/index"
	"github.com/vk/regiongrid/internal/model"
	"github.com/vk/regiongrid/internal/overlay"
	"github.com/vk/regiongrid/internal/pipeline"
	"github.com/vk/regiongrid/internal/publish"
	"github.com/vk/regiongrid/internal/render"
	"github.com/vk/regiongrid/internal/runstore"
	"github.com/vk/regiongrid/internal/telemetry"
	"github.com/vk/regiongrid/internal/translations"
)

// ErrNothingBuilt is returned by Build when FailOnEmpty is set and targets
// were attempted but none succeeded.
var ErrNothingBuilt = errors.New("no target built successfully")

// Build runs one complete build: templates, targets, translations,
// per-target builds, the index and then the optional upload and history record. Target failures
// are reported in the returned RunReport; only fatal errors are returned.
func (a *App) Build(ctx context.Context) (*model.RunReport, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Build method started.")

	shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: serviceName,
		Endpoint:    a.env.OtelEndpoint,
		Enabled:     a.env.OtelEnabled,
	})
	if err != nil {
		a.logger.Warn("Tracing disabled.", "error", err)
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn("Failed to flush traces.", "error", err)
		}
	}()

	templates, err := overlay.LoadTemplates(a.config.Templates.Site, a.config.Templates.Data, overlay.Provenance{
		Organisation: a.config.Provenance.Organisation,
		URL:          a.config.Provenance.URL,
		URLText:      a.config.Provenance.URLText,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	targets, err := a.Targets(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.fetchTranslations(ctx); err != nil {
		return nil, err
	}

	exec := executor.New(a.config.Layout, templates, pipeline.New(a.config.Pipeline.Args), render.New(a.config.Renderer.Args))
	report, err := engine.New(exec).Run(ctx, targets, a.config.Limit)
	if err != nil {
		return report, fmt.Errorf("run interrupted: %w", err)
	}

	agg := index.New(a.config.Layout.HomepageDir, a.config.Layout.SiteDir(), a.config.Homepage.Assets, a.outW)
	if err := agg.Finalize(ctx, report); err != nil {
		return report, fmt.Errorf("failed to write index: %w", err)
	}

	if err := a.publish(ctx); err != nil {
		return report, err
	}
	a.recordHistory(ctx, report)

	if a.appConfig.FailOnEmpty && len(report.Attempts) > 0 && len(report.Succeeded) == 0 {
		return report, ErrNothingBuilt
	}
	a.logger.Debug("App.Build method finished.")
	return report, nil
}

// Targets fetches the classification and returns the targets a build would
// attempt, before the attempt cap is applied.
func (a *App) Targets(ctx context.Context) ([]model.Target, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	src := codelist.NewSource(a.client, codelist.Options{
		URL:       a.config.Classification.URL,
		CacheFile: a.config.Classification.CacheFile,
		Dimension: a.config.Classification.Dimension,
	})
	targets, err := src.Targets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read classification: %w", err)
	}
	return targets, nil
}

// History lists the most recent recorded runs.
func (a *App) History(ctx context.Context, limit int) ([]runstore.RunSummary, error) {
	if a.config.History.Path == "" {
		return nil, errors.New("run history is not configured; add a history block")
	}
	store, err := runstore.Open(ctx, a.config.History.Path)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.ListRuns(ctx, limit)
}

func (a *App) fetchTranslations(ctx context.Context) error {
	t := a.config.Translations
	if !t.Enabled {
		a.logger.Info("Skipping translations download.")
		return nil
	}
	f := translations.NewFetcher(a.client, translations.Options{
		BaseURL:    t.BaseURL,
		Repository: t.Repository,
		Ref:        t.Ref,
		Language:   t.Language,
		Dest:       t.Dest,
	})
	if _, err := f.Fetch(ctx); err != nil {
		return fmt.Errorf("failed to fetch translations: %w", err)
	}
	return nil
}

func (a *App) publish(ctx context.Context) error {
	p := a.config.Publish
	if !p.Enabled() {
		return nil
	}
	pub, err := publish.NewS3Publisher(publish.Config{
		Endpoint:  p.Endpoint,
		Region:    p.Region,
		AccessKey: p.AccessKey,
		SecretKey: p.SecretKey,
		Bucket:    p.Bucket,
		Prefix:    p.Prefix,
		UseSSL:    p.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to configure publisher: %w", err)
	}
	if _, err := pub.Publish(ctx, a.config.Layout.SiteDir(), dataTrees(a.config.Layout)...); err != nil {
		return fmt.Errorf("failed to publish site: %w", err)
	}
	return nil
}

// dataTrees returns the pipeline output published next to the sites. Sites
// reach it through remote_data_prefix, which ends in data/<id>.
func dataTrees(layout config.Layout) []publish.Tree {
	if _, err := os.Stat(layout.DataRoot()); err != nil {
		return nil
	}
	return []publish.Tree{{Dir: layout.DataRoot(), Under: "data"}}
}

// recordHistory stores the report. A history failure never fails the build.
func (a *App) recordHistory(ctx context.Context, report *model.RunReport) {
	if a.config.History.Path == "" {
		return
	}
	store, err := runstore.Open(ctx, a.config.History.Path)
	if err != nil {
		a.logger.Warn("Failed to open run history.", "error", err)
		return
	}
	defer store.Close()
	if err := store.SaveRun(ctx, report); err != nil {
		a.logger.Warn("Failed to record run.", "run_id", report.RunID, "error", err)
		return
	}
	a.logger.Debug("Run recorded.", "run_id", report.RunID, "path", a.config.History.Path)
}
