// This file contains the logic for merging decoded HCL schema structs into the
// format-agnostic configuration model defined in the config package. Only
// fields present in the file override what is already in the model.

package hcl

import "github.com/vk/regiongrid/internal/config"

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// merge applies one decoded file onto the model.
func merge(m *config.Model, root *fileRoot) {
	if root.Limit != nil {
		m.Limit = *root.Limit
	}
	if c := root.Classification; c != nil {
		setString(&m.Classification.URL, c.URL)
		setString(&m.Classification.CacheFile, c.CacheFile)
		setString(&m.Classification.Dimension, c.Dimension)
	}
	if t := root.Templates; t != nil {
		setString(&m.Templates.Site, t.Site)
		setString(&m.Templates.Data, t.Data)
	}
	if l := root.Layout; l != nil {
		setString(&m.Layout.BuildRoot, l.BuildRoot)
		setString(&m.Layout.HomepageDir, l.HomepageDir)
		setString(&m.Layout.ScaffoldDir, l.ScaffoldDir)
	}
	if p := root.Pipeline; p != nil {
		m.Pipeline.Args = append([]string(nil), p.Command...)
	}
	if r := root.Renderer; r != nil {
		m.Renderer.Args = append([]string(nil), r.Command...)
	}
	if p := root.Provenance; p != nil {
		setString(&m.Provenance.Organisation, p.Organisation)
		setString(&m.Provenance.URL, p.URL)
		setString(&m.Provenance.URLText, p.URLText)
	}
	if t := root.Translations; t != nil {
		setBool(&m.Translations.Enabled, t.Enabled)
		setString(&m.Translations.BaseURL, t.BaseURL)
		setString(&m.Translations.Repository, t.Repository)
		setString(&m.Translations.Ref, t.Ref)
		setString(&m.Translations.Language, t.Language)
		setString(&m.Translations.Dest, t.Dest)
	}
	if h := root.Homepage; h != nil && h.Assets != nil {
		m.Homepage.Assets = append([]string(nil), h.Assets...)
	}
	if p := root.Publish; p != nil {
		setString(&m.Publish.Endpoint, p.Endpoint)
		setString(&m.Publish.Bucket, p.Bucket)
		setString(&m.Publish.Prefix, p.Prefix)
		setString(&m.Publish.Region, p.Region)
		setBool(&m.Publish.UseSSL, p.UseSSL)
	}
	if h := root.History; h != nil {
		setString(&m.History.Path, h.Path)
	}
}
