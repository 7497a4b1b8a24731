package overlay

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vk/regiongrid/internal/model"
)

const siteTemplate = `
title: Placeholder
remote_theme: open-sdg/open-sdg@2.3.0
languages:
  - en
frontpage_introduction_banner:
  title: Welcome
  description: Indicators
`

const dataTemplate = `
docs_branding: Build docs
docs_intro: This is a list of indicators.
languages:
  - en
inputs:
  - class: InputSdmxMl_StructureSpecific
    source: https://example.org/data.xml
    import_codes: true
  - class: InputYamlMeta
    path_pattern: meta/*.md
schema_file: _prose.yml
`

var testProvenance = Provenance{
	Organisation: "United Nations Statistics Division",
	URL:          "https://unstats.un.org/sdgs/indicators/database/",
	URLText:      "SDG Global Database",
}

func newTemplates(t *testing.T) *Templates {
	t.Helper()
	tp, err := ParseTemplates([]byte(siteTemplate), []byte(dataTemplate), testProvenance)
	require.NoError(t, err)
	return tp
}

func TestSite_DerivedFields(t *testing.T) {
	t.Parallel()

	tp := newTemplates(t)
	target := model.Target{ID: "004", Name: "Afghanistan"}

	got := tp.Site(target)
	assert.Equal(t, "Afghanistan Indicators for the Sustainable Development Goals", got.Title)
	assert.Equal(t, "/004", got.BaseURL)
	assert.Equal(t, "../data/004", got.RemoteDataPrefix)
	assert.Equal(t, "./004", got.Destination)
	assert.Equal(t, &Country{Name: "Afghanistan", Adjective: "Afghanistan"}, got.Country)
	require.NotNil(t, got.Disclaimer)
	assert.Equal(t, "UNOFFICIAL", got.Disclaimer.Phase)
	assert.Contains(t, got.Disclaimer.Message, "<strong>Afghanistan</strong>")
	assert.Contains(t, got.Disclaimer.Message, "SDG Global Database")
	assert.Equal(t, "open-sdg/open-sdg@2.3.0", got.Extra["remote_theme"])
}

func TestSite_PropertiesHoldForEveryTarget(t *testing.T) {
	t.Parallel()

	tp := newTemplates(t)
	for _, target := range []model.Target{
		{ID: "8", Name: "Albania"},
		{ID: "384", Name: "Côte d'Ivoire"},
		{ID: "0", Name: "A & B <C>"},
	} {
		got := tp.Site(target)
		require.Equal(t, "/"+target.ID, got.BaseURL)
		require.True(t, strings.Contains(got.Disclaimer.Message, target.Name))
	}
}

func TestData_DerivedFields(t *testing.T) {
	t.Parallel()

	tp := newTemplates(t)
	target := model.Target{ID: "008", Name: "Albania"}
	day := time.Date(2026, 3, 9, 17, 4, 0, 0, time.UTC)

	got, err := tp.Data(target, "_builds/data/008", day)
	require.NoError(t, err)

	assert.Equal(t, "_builds/data/008", got.SiteDir)
	assert.Equal(t, "008", got.Inputs[0].ReferenceArea)
	assert.Empty(t, got.Inputs[1].ReferenceArea)
	assert.Equal(t, "Build docs for Albania", got.DocsBranding)
	assert.Equal(t, "This is a list of indicators. This data covers Albania and was downloaded 2026-03-09.", got.DocsIntro)
	assert.True(t, strings.HasPrefix(got.DocsBranding, "Build docs"))
	assert.True(t, strings.HasPrefix(got.DocsIntro, "This is a list of indicators."))
	assert.Equal(t, "_prose.yml", got.Extra["schema_file"])
}

func TestTemplates_NeverMutateBase(t *testing.T) {
	t.Parallel()

	tp := newTemplates(t)
	before := NewTemplates(tp.site, tp.data, tp.provenance)

	a, err := tp.For(model.Target{ID: "004", Name: "Afghanistan"}, "w/a", "a", time.Now())
	require.NoError(t, err)
	a.Site.Extra["languages"].([]any)[0] = "fr"
	a.Data.Inputs[0].Extra["source"] = "mutated"
	a.Data.Extra["languages"] = nil

	b, err := tp.For(model.Target{ID: "008", Name: "Albania"}, "w/b", "b", time.Now())
	require.NoError(t, err)

	if diff := cmp.Diff(before.site, tp.site); diff != "" {
		t.Errorf("site base mutated (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(before.data, tp.data); diff != "" {
		t.Errorf("data base mutated (-before +after):\n%s", diff)
	}
	assert.Equal(t, []any{"en"}, b.Site.Extra["languages"])
	assert.Equal(t, "https://example.org/data.xml", b.Data.Inputs[0].Extra["source"])
	assert.Equal(t, "Build docs for Albania", b.Data.DocsBranding)
}

func TestFor_DataPrefixFollowsWorkDir(t *testing.T) {
	t.Parallel()

	tp := newTemplates(t)
	root := "_builds"
	testCases := []struct {
		name    string
		workDir string
		want    string
	}{
		{name: "per-target work dir", workDir: filepath.Join(root, "temp", "004"), want: "../../data/004"},
		{name: "shared work dir", workDir: filepath.Join(root, "temp"), want: "../data/004"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dataDir := filepath.Join(root, "data", "004")
			ov, err := tp.For(model.Target{ID: "004", Name: "Afghanistan"}, tc.workDir, dataDir, time.Now())
			require.NoError(t, err)
			assert.Equal(t, tc.want, ov.Site.RemoteDataPrefix)
			assert.Equal(t, filepath.Clean(dataDir), filepath.Clean(filepath.Join(tc.workDir, ov.Site.RemoteDataPrefix)))
			assert.Equal(t, dataDir, ov.Data.SiteDir)
		})
	}
}

func TestParseTemplates_RequiresInput(t *testing.T) {
	t.Parallel()
	_, err := ParseTemplates([]byte(siteTemplate), []byte("docs_branding: x\n"), testProvenance)
	require.Error(t, err)
}

func TestLoadTemplates_MissingFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	_, err := LoadTemplates(filepath.Join(dir, "site.yml"), filepath.Join(dir, "data.yml"), testProvenance)
	require.Error(t, err)
}

func TestProvenanceEnricher(t *testing.T) {
	t.Parallel()

	e := NewProvenanceEnricher(model.Target{ID: "004", Name: "Afghanistan"}, testProvenance)
	got := e.Enrich(Metadata{
		"indicator_number":               "1.1.1",
		"national_geographical_coverage": "World",
		"source_active_1":                false,
	})

	want := Metadata{
		"indicator_number":               "1.1.1",
		"national_geographical_coverage": "Afghanistan",
		"source_active_1":                true,
		"source_organisation_1":          "United Nations Statistics Division",
		"source_url_1":                   "https://unstats.un.org/sdgs/indicators/database/",
		"source_url_text_1":              "SDG Global Database",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("enriched metadata mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, e.Enrich(nil))
}

func TestWriteYAML_KeepsUnknownKeys(t *testing.T) {
	t.Parallel()

	tp := newTemplates(t)
	site := tp.Site(model.Target{ID: "004", Name: "Afghanistan"})

	path := filepath.Join(t.TempDir(), "_config.yml")
	require.NoError(t, WriteYAML(path, site))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.NewDecoder(bytes.NewReader(raw)).Decode(&decoded))
	assert.Equal(t, "/004", decoded["baseurl"])
	assert.Equal(t, "./004", decoded["destination"])
	assert.Equal(t, "open-sdg/open-sdg@2.3.0", decoded["remote_theme"])
	assert.Equal(t, map[string]any{"name": "Afghanistan", "adjective": "Afghanistan"}, decoded["country"])
}
