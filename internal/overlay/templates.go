package overlay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vk/regiongrid/internal/model"
)

// Templates holds the shared base configurations of a run. It is read-only
// after construction; every method derives a fresh copy.
type Templates struct {
	site       SiteConfig
	data       DataConfig
	provenance Provenance
}

// Overlay is the fully resolved configuration of one target. It lives only
// for the duration of that target's build.
type Overlay struct {
	Site     SiteConfig
	Data     DataConfig
	Enricher MetadataEnricher
}

// NewTemplates builds Templates from already decoded bases. The bases are
// cloned so later changes by the caller are not observed.
func NewTemplates(site SiteConfig, data DataConfig, p Provenance) *Templates {
	return &Templates{site: site.Clone(), data: data.Clone(), provenance: p}
}

// LoadTemplates reads the site and data base templates from YAML files.
func LoadTemplates(sitePath, dataPath string, p Provenance) (*Templates, error) {
	siteRaw, err := os.ReadFile(sitePath)
	if err != nil {
		return nil, fmt.Errorf("read site template: %w", err)
	}
	dataRaw, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("read data template: %w", err)
	}
	return ParseTemplates(siteRaw, dataRaw, p)
}

// ParseTemplates decodes the site and data base templates.
func ParseTemplates(siteYAML, dataYAML []byte, p Provenance) (*Templates, error) {
	var site SiteConfig
	if err := yaml.Unmarshal(siteYAML, &site); err != nil {
		return nil, fmt.Errorf("decode site template: %w", err)
	}
	var data DataConfig
	if err := yaml.Unmarshal(dataYAML, &data); err != nil {
		return nil, fmt.Errorf("decode data template: %w", err)
	}
	if len(data.Inputs) == 0 {
		return nil, errors.New("data template must declare at least one input")
	}
	return &Templates{site: site, data: data, provenance: p}, nil
}

// Site derives the renderer configuration of t for a renderer running one
// level below the build root. For resolves the data prefix against the
// actual work directory.
func (tp *Templates) Site(t model.Target) SiteConfig {
	c := tp.site.Clone()
	c.Title = SiteTitle(t)
	c.BaseURL = "/" + t.ID
	c.RemoteDataPrefix = "../data/" + t.ID
	c.Destination = "./" + t.ID
	c.Country = &Country{Name: t.Name, Adjective: t.Name}
	c.Disclaimer = &Disclaimer{Phase: disclaimerPhase, Message: disclaimerMessage(t, tp.provenance)}
	return c
}

// Data derives the pipeline configuration of t writing into outputDir.
// downloaded is the date reported in the introductory text.
func (tp *Templates) Data(t model.Target, outputDir string, downloaded time.Time) (DataConfig, error) {
	c := tp.data.Clone()
	if len(c.Inputs) == 0 {
		return DataConfig{}, errors.New("data template has no input to filter by reference area")
	}
	c.SiteDir = outputDir
	c.Inputs[0].ReferenceArea = t.ID
	c.DocsBranding += " for " + t.Name
	c.DocsIntro += fmt.Sprintf(" This data covers %s and was downloaded %s.", t.Name, downloaded.Format("2006-01-02"))
	return c, nil
}

// Enricher returns the metadata enricher bound to t.
func (tp *Templates) Enricher(t model.Target) MetadataEnricher {
	return NewProvenanceEnricher(t, tp.provenance)
}

// For derives the complete overlay of t. The renderer runs in workDir and
// reads the pipeline output from dataDir, so remote_data_prefix is the path
// of dataDir relative to workDir.
func (tp *Templates) For(t model.Target, workDir, dataDir string, now time.Time) (Overlay, error) {
	data, err := tp.Data(t, dataDir, now)
	if err != nil {
		return Overlay{}, err
	}
	site := tp.Site(t)
	prefix, err := DataPrefix(workDir, dataDir)
	if err != nil {
		return Overlay{}, err
	}
	site.RemoteDataPrefix = prefix
	return Overlay{Site: site, Data: data, Enricher: tp.Enricher(t)}, nil
}

// DataPrefix returns dataDir relative to workDir with forward slashes.
func DataPrefix(workDir, dataDir string) (string, error) {
	rel, err := filepath.Rel(workDir, dataDir)
	if err != nil {
		return "", fmt.Errorf("resolve data prefix: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// EncodeYAML writes v as YAML with two-space indentation.
func EncodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// WriteYAML writes v as YAML to path, replacing any existing file.
func WriteYAML(path string, v any) error {
	var buf bytes.Buffer
	if err := EncodeYAML(&buf, v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
