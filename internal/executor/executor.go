package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vk/regiongrid/internal/config"
	"github.com/vk/regiongrid/internal/ctxlog"
	"github.com/vk/regiongrid/internal/fsutil"
	"github.com/vk/regiongrid/internal/model"
	"github.com/vk/regiongrid/internal/overlay"
)

// SiteConfigFileName is the renderer configuration written into the work
// directory.
const SiteConfigFileName = "_config.yml"

// Overlays derives the per-target configuration. *overlay.Templates
// implements it.
type Overlays interface {
	For(t model.Target, workDir, dataDir string, now time.Time) (overlay.Overlay, error)
}

// Pipeline materialises one target's data into cfg.SiteDir.
type Pipeline interface {
	Run(ctx context.Context, workDir string, cfg overlay.DataConfig, enricher overlay.MetadataEnricher) error
}

// Renderer renders the site configured in workDir.
type Renderer interface {
	Render(ctx context.Context, workDir string) error
}

// Executor builds targets one at a time.
type Executor struct {
	layout   config.Layout
	overlays Overlays
	pipeline Pipeline
	renderer Renderer
	now      func() time.Time
}

// Option customises an Executor.
type Option func(*Executor)

// WithClock replaces the clock used for the overlay's generation date.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

// New creates an Executor writing under layout.
func New(layout config.Layout, overlays Overlays, pipeline Pipeline, renderer Renderer, opts ...Option) *Executor {
	e := &Executor{
		layout:   layout,
		overlays: overlays,
		pipeline: pipeline,
		renderer: renderer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WorkDir is the directory t is configured and rendered in.
func (e *Executor) WorkDir(t model.Target) string {
	return filepath.Join(e.layout.TempDir(), t.ID)
}

// OutputDir is where t's finished site is published.
func (e *Executor) OutputDir(t model.Target) string {
	return filepath.Join(e.layout.SiteDir(), t.ID)
}

// Build runs every stage for t. It returns nil on success or a *BuildError.
func (e *Executor) Build(ctx context.Context, t model.Target) error {
	logger := ctxlog.FromContext(ctx)
	workDir := e.WorkDir(t)
	dataDir := e.layout.DataDir(t.ID)

	logger.Debug("Preparing directories.", "work_dir", workDir, "data_dir", dataDir)
	if err := e.prepare(workDir, dataDir); err != nil {
		return &BuildError{Target: t, Stage: StagePrepare, Err: err}
	}

	ov, err := e.overlays.For(t, workDir, dataDir, e.now())
	if err != nil {
		return &BuildError{Target: t, Stage: StageOverlay, Err: err}
	}

	if err := overlay.WriteYAML(filepath.Join(workDir, SiteConfigFileName), ov.Site); err != nil {
		return &BuildError{Target: t, Stage: StageWriteConfig, Err: err}
	}

	logger.Info("Running data pipeline.")
	if err := e.pipeline.Run(ctx, workDir, ov.Data, ov.Enricher); err != nil {
		return &BuildError{Target: t, Stage: StagePipeline, Err: err}
	}

	logger.Info("Rendering site.")
	if err := e.renderer.Render(ctx, workDir); err != nil {
		return &BuildError{Target: t, Stage: StageRender, Err: err}
	}

	rendered := filepath.Join(workDir, filepath.Clean(ov.Site.Destination))
	if _, err := os.Stat(rendered); err != nil {
		return &BuildError{Target: t, Stage: StagePublishLocal, Err: fmt.Errorf("renderer produced no output: %w", err)}
	}
	if err := fsutil.ReplaceDir(rendered, e.OutputDir(t)); err != nil {
		return &BuildError{Target: t, Stage: StagePublishLocal, Err: err}
	}

	logger.Debug("Site published locally.", "output_dir", e.OutputDir(t))
	return nil
}

// prepare creates the shared roots plus an empty work directory and data
// directory for one target.
func (e *Executor) prepare(workDir, dataDir string) error {
	for _, dir := range []string{e.layout.SiteDir(), e.layout.TempDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	for _, dir := range []string{workDir, dataDir} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if e.layout.ScaffoldDir == "" {
		return nil
	}
	if err := fsutil.CopyTree(e.layout.ScaffoldDir, workDir); err != nil {
		return errors.Join(errors.New("copy scaffold"), err)
	}
	return nil
}
