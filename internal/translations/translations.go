// Package translations downloads the interface strings the renderer needs and
// unpacks one language into a fixed local directory.
package translations

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/vk/regiongrid/internal/ctxlog"
	"github.com/vk/regiongrid/internal/fsutil"
)

// DefaultBaseURL serves repository tarballs as <base>/<repo>/tar.gz/<ref>.
const DefaultBaseURL = "https://codeload.github.com"

// ErrLanguageNotFound is returned when the archive has no strings for the
// requested language.
var ErrLanguageNotFound = errors.New("language not found in translations archive")

// Options configures a Fetcher.
type Options struct {
	BaseURL    string
	Repository string
	Ref        string
	Language   string
	// Dest receives <Dest>/<Language>. Any previous copy is replaced.
	Dest string
}

// Fetcher downloads and unpacks the translation strings once per run.
type Fetcher struct {
	client *http.Client
	opts   Options
}

// NewFetcher creates a Fetcher downloading through client.
func NewFetcher(client *http.Client, opts Options) *Fetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	return &Fetcher{client: client, opts: opts}
}

// URL is the tarball location for the configured repository and ref.
func (f *Fetcher) URL() string {
	return strings.TrimRight(f.opts.BaseURL, "/") + "/" + f.opts.Repository + "/tar.gz/" + f.opts.Ref
}

// Fetch downloads the archive and installs <Dest>/<Language>. It returns the
// number of files written.
func (f *Fetcher) Fetch(ctx context.Context) (int, error) {
	logger := ctxlog.FromContext(ctx)
	url := f.URL()
	logger.Info("Downloading translations.", "url", url, "language", f.opts.Language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build translations request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download translations: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("download translations: %s returned %s", url, resp.Status)
	}

	if err := os.MkdirAll(f.opts.Dest, 0o755); err != nil {
		return 0, fmt.Errorf("create translations dir: %w", err)
	}
	staging, err := os.MkdirTemp(f.opts.Dest, ".download-")
	if err != nil {
		return 0, fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)
	if err := os.Chmod(staging, 0o755); err != nil {
		return 0, fmt.Errorf("create staging dir: %w", err)
	}

	n, err := extract(resp.Body, staging, f.opts.Language)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrLanguageNotFound, f.opts.Language)
	}

	dst := filepath.Join(f.opts.Dest, f.opts.Language)
	if err := fsutil.ReplaceDir(staging, dst); err != nil {
		return 0, fmt.Errorf("install translations: %w", err)
	}
	logger.Info("Translations installed.", "path", dst, "files", n)
	return n, nil
}

// extract writes every regular file under */translations/<lang>/ of the gzip
// tarball r into dst, keeping its path relative to the language directory.
func extract(r io.Reader, dst, lang string) (int, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("open translations archive: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	written := 0
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, fmt.Errorf("read translations archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		rel, ok := languagePath(hdr.Name, lang)
		if !ok {
			continue
		}
		if err := writeFile(filepath.Join(dst, filepath.FromSlash(rel)), tr, hdr.FileInfo().Mode().Perm()); err != nil {
			return written, err
		}
		written++
	}
}

// languagePath maps "<root>/translations/<lang>/a/b.yml" to "a/b.yml".
func languagePath(name, lang string) (string, bool) {
	clean := path.Clean(name)
	parts := strings.SplitN(clean, "/", 4)
	if len(parts) != 4 || parts[1] != "translations" || parts[2] != lang {
		return "", false
	}
	rel := parts[3]
	if rel == ".." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
		return "", false
	}
	return rel, true
}

func writeFile(target string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if perm == 0 {
		perm = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
