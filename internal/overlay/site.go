package overlay

import (
	"fmt"

	"github.com/vk/regiongrid/internal/model"
)

// Country is the renderer's country identity block.
type Country struct {
	Name      string `yaml:"name"`
	Adjective string `yaml:"adjective"`
}

// Disclaimer is the banner shown on every page of a regional site.
type Disclaimer struct {
	Phase   string `yaml:"phase"`
	Message string `yaml:"message"`
}

// SiteConfig is the renderer configuration of one site. The typed fields are
// the ones an overlay sets; everything else in the template is kept in Extra.
type SiteConfig struct {
	Title            string         `yaml:"title,omitempty"`
	BaseURL          string         `yaml:"baseurl,omitempty"`
	RemoteDataPrefix string         `yaml:"remote_data_prefix,omitempty"`
	Destination      string         `yaml:"destination,omitempty"`
	Country          *Country       `yaml:"country,omitempty"`
	Disclaimer       *Disclaimer    `yaml:"disclaimer,omitempty"`
	Extra            map[string]any `yaml:",inline"`
}

// Clone returns a deep copy.
func (c SiteConfig) Clone() SiteConfig {
	out := c
	if c.Country != nil {
		country := *c.Country
		out.Country = &country
	}
	if c.Disclaimer != nil {
		d := *c.Disclaimer
		out.Disclaimer = &d
	}
	out.Extra = cloneMap(c.Extra)
	return out
}

const disclaimerPhase = "UNOFFICIAL"

// SiteTitle is the human title of a target's site.
func SiteTitle(t model.Target) string {
	return t.Name + " Indicators for the Sustainable Development Goals"
}

// disclaimerMessage tags the build as unofficial and names the data source.
func disclaimerMessage(t model.Target, p Provenance) string {
	return fmt.Sprintf(
		`This is an <em>unofficial demo</em> of <a href="https://open-sdg.org">Open SDG</a> using data from the <a href="%s">%s</a> for <strong>%s</strong>.`,
		p.URL, p.URLText, t.Name,
	)
}
