// Package index publishes the landing-page index of every region that built
// in a run.
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vk/regiongrid/internal/ctxlog"
	"github.com/vk/regiongrid/internal/fsutil"
	"github.com/vk/regiongrid/internal/model"
)

// FileName is the index written into the homepage directory.
const FileName = "reference-areas.json"

const banner = "*************************************************"

// Aggregator writes the index and assembles the site root.
type Aggregator struct {
	homepageDir string
	siteDir     string
	assets      []string
	out         io.Writer
}

// New creates an Aggregator. assets are file names relative to homepageDir
// copied into siteDir; the warning block is written to out.
func New(homepageDir, siteDir string, assets []string, out io.Writer) *Aggregator {
	return &Aggregator{homepageDir: homepageDir, siteDir: siteDir, assets: assets, out: out}
}

// Encode renders the index of succeeded targets as compact JSON.
func Encode(succeeded []model.Target) ([]byte, error) {
	if succeeded == nil {
		succeeded = []model.Target{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(succeeded); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Finalize writes the index, copies the landing-page assets and reports the
// failed targets. The index depends only on report.Succeeded.
func (a *Aggregator) Finalize(ctx context.Context, report *model.RunReport) error {
	logger := ctxlog.FromContext(ctx)

	raw, err := Encode(report.Succeeded)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := os.MkdirAll(a.homepageDir, 0o755); err != nil {
		return fmt.Errorf("create homepage dir: %w", err)
	}
	indexPath := filepath.Join(a.homepageDir, FileName)
	if err := os.WriteFile(indexPath, raw, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	logger.Info("Index written.", "path", indexPath, "entries", len(report.Succeeded))

	if err := os.MkdirAll(a.siteDir, 0o755); err != nil {
		return fmt.Errorf("create site dir: %w", err)
	}
	for _, name := range a.assets {
		src := filepath.Join(a.homepageDir, name)
		if err := fsutil.CopyFile(src, filepath.Join(a.siteDir, filepath.Base(name))); err != nil {
			return fmt.Errorf("copy homepage asset %s: %w", name, err)
		}
		logger.Debug("Homepage asset copied.", "asset", name)
	}

	if len(report.Failed) > 0 {
		if _, err := io.WriteString(a.out, Warning(report.Failed)); err != nil {
			return fmt.Errorf("write warning: %w", err)
		}
	}
	return nil
}

// Warning formats the block listing failed builds.
func Warning(failed []string) string {
	var b bytes.Buffer
	b.WriteString(banner + "\n")
	b.WriteString("* WARNING: Some builds failed and were skipped: *\n")
	b.WriteString(banner + "\n")
	for _, line := range failed {
		b.WriteString("* " + line + "\n")
	}
	return b.String()
}
