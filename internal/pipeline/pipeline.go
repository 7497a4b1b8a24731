// Package pipeline drives the external data-processing pipeline that turns
// the global dataset into one region's indicator data and metadata.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/regiongrid/internal/ctxlog"
	"github.com/vk/regiongrid/internal/extcmd"
	"github.com/vk/regiongrid/internal/fsutil"
	"github.com/vk/regiongrid/internal/overlay"
)

// ConfigFileName is the data configuration written into the work directory.
const ConfigFileName = "config_data.yml"

// Command runs the pipeline as an external program. Args may reference
// {config} (the written data configuration) and {site_dir} (its output
// directory).
type Command struct {
	Args []string
}

// New creates a pipeline invoking args.
func New(args []string) *Command {
	return &Command{Args: append([]string(nil), args...)}
}

// Run writes cfg into workDir, invokes the pipeline and then applies enricher
// once to every metadata record found under cfg.SiteDir.
func (c *Command) Run(ctx context.Context, workDir string, cfg overlay.DataConfig, enricher overlay.MetadataEnricher) error {
	logger := ctxlog.FromContext(ctx)

	configPath := filepath.Join(workDir, ConfigFileName)
	if err := overlay.WriteYAML(configPath, cfg); err != nil {
		return fmt.Errorf("write data config: %w", err)
	}

	args := extcmd.Expand(c.Args, map[string]string{
		"config":   configPath,
		"site_dir": cfg.SiteDir,
	})
	if err := extcmd.Run(ctx, extcmd.Invocation{Name: "pipeline", Args: args}); err != nil {
		return err
	}

	n, err := EnrichMetadata(cfg.SiteDir, enricher)
	if err != nil {
		return fmt.Errorf("enrich metadata: %w", err)
	}
	logger.Info("Data pipeline finished.", "metadata_records", n)
	return nil
}

// EnrichMetadata rewrites every *.json file whose parent directory is named
// "meta" below root, passing each decoded record to enricher exactly once. It
// returns the number of records rewritten.
func EnrichMetadata(root string, enricher overlay.MetadataEnricher) (int, error) {
	if _, err := os.Stat(root); err != nil {
		return 0, fmt.Errorf("pipeline output %s: %w", root, err)
	}
	files, err := fsutil.FindFilesByExtension(root, ".json")
	if err != nil {
		return 0, err
	}

	n := 0
	for _, path := range files {
		if filepath.Base(filepath.Dir(path)) != "meta" {
			continue
		}
		if err := enrichFile(path, enricher); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func enrichFile(path string, enricher overlay.MetadataEnricher) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var meta overlay.Metadata
	if err := dec.Decode(&meta); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	out, err := json.Marshal(enricher.Enrich(meta))
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, out, 0o644)
}
