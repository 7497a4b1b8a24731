package codelist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/regiongrid/internal/ctxlog"
	"github.com/vk/regiongrid/internal/model"
)

// Options configures a Source.
type Options struct {
	// URL of the data structure definition. A file:// URL reads a local copy.
	URL string
	// CacheFile receives the downloaded document before it is parsed.
	CacheFile string
	// Dimension is the id of the reference area dimension, e.g. REF_AREA.
	Dimension string
}

// Source obtains build targets from the classification provider.
type Source struct {
	client *http.Client
	opts   Options
}

// NewSource creates a Source downloading through client.
func NewSource(client *http.Client, opts Options) *Source {
	return &Source{client: client, opts: opts}
}

// Targets fetches the classification and returns its numeric reference area
// codes in canonical order. Errors wrap ErrClassificationUnavailable or
// ErrDimensionNotFound.
func (s *Source) Targets(ctx context.Context) ([]model.Target, error) {
	logger := ctxlog.FromContext(ctx)

	path, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrClassificationUnavailable, path, err)
	}
	defer f.Close()

	targets, err := ParseTargets(f, s.opts.Dimension)
	if err != nil {
		return nil, err
	}
	logger.Info("Classification parsed.", "dimension", s.opts.Dimension, "targets", len(targets))
	return targets, nil
}

// fetch stores the document at CacheFile and returns the path to parse.
func (s *Source) fetch(ctx context.Context) (string, error) {
	logger := ctxlog.FromContext(ctx)

	if local, ok := strings.CutPrefix(s.opts.URL, "file://"); ok {
		logger.Debug("Reading classification from local file.", "path", local)
		return local, nil
	}

	logger.Info("Downloading classification.", "url", s.opts.URL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.opts.URL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrClassificationUnavailable, err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassificationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %s", ErrClassificationUnavailable, s.opts.URL, resp.Status)
	}

	if dir := filepath.Dir(s.opts.CacheFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("%w: create cache dir: %v", ErrClassificationUnavailable, err)
		}
	}
	out, err := os.Create(s.opts.CacheFile)
	if err != nil {
		return "", fmt.Errorf("%w: create cache file: %v", ErrClassificationUnavailable, err)
	}
	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("%w: write cache file: %v", ErrClassificationUnavailable, err)
	}

	logger.Debug("Classification cached.", "path", s.opts.CacheFile, "bytes", n)
	return s.opts.CacheFile, nil
}
