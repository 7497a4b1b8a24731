package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Model is the unified, format-agnostic representation of a run's
// configuration.
type Model struct {
	// Limit caps the number of targets attempted. Zero or less means no cap.
	Limit int

	Classification Classification
	Templates      Templates
	Layout         Layout
	Pipeline       Command
	Renderer       Command
	Provenance     Provenance
	Translations   Translations
	Homepage       Homepage
	Publish        Publish
	History        History
}

// Classification locates the SDMX data structure listing the reference areas.
type Classification struct {
	URL       string
	CacheFile string
	Dimension string
}

// Templates are the shared YAML base configurations.
type Templates struct {
	Site string
	Data string
}

// Layout fixes where a run reads and writes on disk.
type Layout struct {
	BuildRoot   string
	HomepageDir string
	// ScaffoldDir, when set, is copied into every target's work directory
	// before rendering.
	ScaffoldDir string
}

// SiteDir is the shared output root holding one directory per built target.
func (l Layout) SiteDir() string { return filepath.Join(l.BuildRoot, "site") }

// DataRoot holds one data pipeline output folder per target.
func (l Layout) DataRoot() string { return filepath.Join(l.BuildRoot, "data") }

// DataDir is the data pipeline output folder of one target.
func (l Layout) DataDir(id string) string { return filepath.Join(l.DataRoot(), id) }

// TempDir is the root of the per-target work directories.
func (l Layout) TempDir() string { return filepath.Join(l.BuildRoot, "temp") }

// Command is an external program invocation.
type Command struct {
	Args []string
}

// Provenance values stamped into every indicator metadata record.
type Provenance struct {
	Organisation string
	URL          string
	URLText      string
}

// Translations controls the once-per-run translation download.
type Translations struct {
	Enabled bool
	// BaseURL serves <base>/<repository>/tar.gz/<ref>. Empty means codeload.github.com.
	BaseURL    string
	Repository string
	Ref        string
	Language   string
	Dest       string
}

// Homepage lists the landing page assets copied into the site root.
type Homepage struct {
	Assets []string
}

// Publish configures the optional upload of the site root to S3-compatible
// storage. It is disabled while Endpoint or Bucket is empty.
type Publish struct {
	Endpoint  string
	Bucket    string
	Prefix    string
	Region    string
	UseSSL    bool
	AccessKey string
	SecretKey string
}

// Enabled reports whether publishing was configured.
func (p Publish) Enabled() bool {
	return strings.TrimSpace(p.Endpoint) != "" && strings.TrimSpace(p.Bucket) != ""
}

// History configures the optional SQLite run ledger. Empty Path disables it.
type History struct {
	Path string
}

const (
	DefaultClassificationURL = "https://registry.sdmx.org/ws/public/sdmxapi/rest/datastructure/IAEG-SDGs/SDG/latest/?format=sdmx-2.1&detail=full&references=children"
	DefaultDimension         = "REF_AREA"
)

// Defaults returns the configuration used when a file leaves a field unset.
func Defaults() *Model {
	return &Model{
		Classification: Classification{
			URL:       DefaultClassificationURL,
			CacheFile: "SDG_DSD.xml",
			Dimension: DefaultDimension,
		},
		Templates: Templates{
			Site: "config_site.yml",
			Data: "config_data.yml",
		},
		Layout: Layout{
			BuildRoot:   "_builds",
			HomepageDir: "homepage",
		},
		Renderer: Command{Args: []string{"bundle", "exec", "jekyll", "build"}},
		Provenance: Provenance{
			Organisation: "United Nations Statistics Division",
			URL:          "https://unstats.un.org/sdgs/indicators/database/",
			URLText:      "SDG Global Database",
		},
		Translations: Translations{
			Enabled:    true,
			Repository: "open-sdg/sdg-translations",
			Ref:        "master",
			Language:   "en",
			Dest:       "translations",
		},
		Homepage: Homepage{
			Assets: []string{"homepage.css", "homepage.js", "index.html", "reference-areas.json"},
		},
		Publish: Publish{Region: "us-east-1", UseSSL: true},
	}
}

// Validate checks the fields every run depends on.
func (m *Model) Validate() error {
	var errs []error
	if strings.TrimSpace(m.Classification.URL) == "" {
		errs = append(errs, errors.New("classification url is required"))
	}
	if strings.TrimSpace(m.Classification.Dimension) == "" {
		errs = append(errs, errors.New("classification dimension is required"))
	}
	if strings.TrimSpace(m.Templates.Site) == "" || strings.TrimSpace(m.Templates.Data) == "" {
		errs = append(errs, errors.New("both site and data templates are required"))
	}
	if strings.TrimSpace(m.Layout.BuildRoot) == "" {
		errs = append(errs, errors.New("layout build_root is required"))
	}
	if len(m.Pipeline.Args) == 0 {
		errs = append(errs, errors.New("pipeline command is required"))
	}
	if len(m.Renderer.Args) == 0 {
		errs = append(errs, errors.New("renderer command is required"))
	}
	if m.Translations.Enabled && (m.Translations.Repository == "" || m.Translations.Language == "") {
		errs = append(errs, errors.New("translations need a repository and a language"))
	}
	if m.Publish.Enabled() && (m.Publish.AccessKey == "" || m.Publish.SecretKey == "") {
		errs = append(errs, fmt.Errorf("publishing to %s requires REGIONGRID_S3_ACCESS_KEY and REGIONGRID_S3_SECRET_KEY", m.Publish.Endpoint))
	}
	return errors.Join(errs...)
}
