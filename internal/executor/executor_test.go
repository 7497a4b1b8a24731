package executor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vk/regiongrid/internal/config"
	"github.com/vk/regiongrid/internal/model"
	"github.com/vk/regiongrid/internal/overlay"
	"github.com/vk/regiongrid/internal/testutil"
)

const siteTemplate = "remote_theme: open-sdg/open-sdg\n"
const dataTemplate = "docs_branding: Docs\ndocs_intro: Intro.\ninputs:\n  - class: InputSdmxMl\n"

type fakePipeline struct {
	err      error
	cfg      overlay.DataConfig
	enricher overlay.MetadataEnricher
	workDir  string
	// stale reports whether cfg.SiteDir held a file before this run wrote.
	stale bool
}

func (f *fakePipeline) Run(_ context.Context, workDir string, cfg overlay.DataConfig, e overlay.MetadataEnricher) error {
	f.workDir, f.cfg, f.enricher = workDir, cfg, e
	if f.err != nil {
		return f.err
	}
	if _, err := os.Stat(filepath.Join(cfg.SiteDir, "meta", "stale.json")); err == nil {
		f.stale = true
	}
	if err := os.MkdirAll(filepath.Join(cfg.SiteDir, "data"), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cfg.SiteDir, "data", "indicator_1-1-1.csv"), []byte("Year,Value\n"), 0o644)
}

// fakeRenderer behaves like a static site generator: it reads _config.yml
// from its working directory, loads the data through remote_data_prefix and
// writes the site into destination.
type fakeRenderer struct {
	err     error
	produce bool
	page    string
}

func (f *fakeRenderer) Render(_ context.Context, workDir string) error {
	if f.err != nil {
		return f.err
	}
	if !f.produce {
		return nil
	}
	raw, err := os.ReadFile(filepath.Join(workDir, SiteConfigFileName))
	if err != nil {
		return err
	}
	var cfg overlay.SiteConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return err
	}
	dataFile := filepath.Join(workDir, filepath.FromSlash(cfg.RemoteDataPrefix), "data", "indicator_1-1-1.csv")
	if _, err := os.Stat(dataFile); err != nil {
		return err
	}
	out := filepath.Join(workDir, cfg.Destination)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(out, "index.html"), []byte(f.page), 0o644)
}

func newExecutor(t *testing.T, layout config.Layout, p Pipeline, r Renderer) *Executor {
	t.Helper()
	tp, err := overlay.ParseTemplates([]byte(siteTemplate), []byte(dataTemplate), overlay.Provenance{})
	require.NoError(t, err)
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	return New(layout, tp, p, r, WithClock(func() time.Time { return day }))
}

var afghanistan = model.Target{ID: "004", Name: "Afghanistan"}

func TestBuild_Success(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	layout := config.Layout{BuildRoot: filepath.Join(root, "_builds")}
	p := &fakePipeline{}
	exec := newExecutor(t, layout, p, &fakeRenderer{produce: true, page: "fresh"})

	existing := filepath.Join(layout.SiteDir(), "004")
	testutil.WriteFiles(t, existing, map[string]string{"index.html": "stale", "old.html": "old"})

	ctx, _ := testutil.Context(t)
	require.NoError(t, exec.Build(ctx, afghanistan))

	assert.Equal(t, "fresh", testutil.ReadFile(t, filepath.Join(existing, "index.html")))
	assert.NoFileExists(t, filepath.Join(existing, "old.html"))
	assert.DirExists(t, layout.DataDir("004"))

	assert.Equal(t, exec.WorkDir(afghanistan), p.workDir)
	assert.Equal(t, layout.DataDir("004"), p.cfg.SiteDir)
	assert.Equal(t, "004", p.cfg.Inputs[0].ReferenceArea)
	assert.Equal(t, "Intro. This data covers Afghanistan and was downloaded 2026-10-18.", p.cfg.DocsIntro)
	require.NotNil(t, p.enricher)
	assert.Equal(t, "Afghanistan", p.enricher.Enrich(nil)["national_geographical_coverage"])

	var written map[string]any
	raw := testutil.ReadFile(t, filepath.Join(exec.WorkDir(afghanistan), SiteConfigFileName))
	require.NoError(t, yaml.Unmarshal([]byte(raw), &written))
	assert.Equal(t, "/004", written["baseurl"])
	assert.Equal(t, "../../data/004", written["remote_data_prefix"])
}

func TestBuild_StartsWithEmptyDataDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	layout := config.Layout{BuildRoot: filepath.Join(root, "_builds")}
	testutil.WriteFiles(t, layout.DataDir("004"), map[string]string{"meta/stale.json": "{}"})

	p := &fakePipeline{}
	exec := newExecutor(t, layout, p, &fakeRenderer{produce: true, page: "fresh"})
	ctx, _ := testutil.Context(t)
	require.NoError(t, exec.Build(ctx, afghanistan))

	assert.False(t, p.stale)
	assert.NoFileExists(t, filepath.Join(layout.DataDir("004"), "meta", "stale.json"))
	assert.FileExists(t, filepath.Join(layout.DataDir("004"), "data", "indicator_1-1-1.csv"))
}

func TestBuild_FailuresKeepPublishedOutput(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	testCases := []struct {
		name      string
		pipeline  *fakePipeline
		renderer  *fakeRenderer
		wantStage Stage
	}{
		{name: "pipeline fails", pipeline: &fakePipeline{err: boom}, renderer: &fakeRenderer{produce: true}, wantStage: StagePipeline},
		{name: "renderer fails", pipeline: &fakePipeline{}, renderer: &fakeRenderer{err: boom}, wantStage: StageRender},
		{name: "renderer produces nothing", pipeline: &fakePipeline{}, renderer: &fakeRenderer{}, wantStage: StagePublishLocal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			layout := config.Layout{BuildRoot: filepath.Join(root, "_builds")}
			exec := newExecutor(t, layout, tc.pipeline, tc.renderer)

			published := filepath.Join(layout.SiteDir(), "004", "index.html")
			testutil.WriteFiles(t, layout.SiteDir(), map[string]string{"004/index.html": "previous"})

			ctx, _ := testutil.Context(t)
			err := exec.Build(ctx, afghanistan)
			require.Error(t, err)

			var be *BuildError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, tc.wantStage, be.Stage)
			assert.Equal(t, afghanistan, be.Target)
			assert.Contains(t, err.Error(), "Afghanistan (004)")
			assert.Equal(t, "previous", testutil.ReadFile(t, published))
		})
	}
}

func TestBuild_FreshWorkDirAndScaffold(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	scaffold := filepath.Join(root, "scaffold")
	testutil.WriteFiles(t, scaffold, map[string]string{"Gemfile": "gem 'jekyll'"})

	layout := config.Layout{BuildRoot: filepath.Join(root, "_builds"), ScaffoldDir: scaffold}
	exec := newExecutor(t, layout, &fakePipeline{err: errors.New("stop")}, &fakeRenderer{})

	leftover := filepath.Join(exec.WorkDir(afghanistan), "leftover.txt")
	testutil.WriteFiles(t, exec.WorkDir(afghanistan), map[string]string{"leftover.txt": "x"})

	ctx, _ := testutil.Context(t)
	require.Error(t, exec.Build(ctx, afghanistan))
	assert.NoFileExists(t, leftover)
	assert.FileExists(t, filepath.Join(exec.WorkDir(afghanistan), "Gemfile"))
	assert.FileExists(t, filepath.Join(exec.WorkDir(afghanistan), SiteConfigFileName))
}

func TestBuild_PrepareFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	blocker := filepath.Join(root, "_builds")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0o644))

	exec := newExecutor(t, config.Layout{BuildRoot: blocker}, &fakePipeline{}, &fakeRenderer{produce: true})
	ctx, _ := testutil.Context(t)
	err := exec.Build(ctx, afghanistan)

	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, StagePrepare, be.Stage)
}
