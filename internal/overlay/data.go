package overlay

// Input is one data source of the pipeline. ReferenceArea is the region filter.
type Input struct {
	ReferenceArea string         `yaml:"reference_area,omitempty"`
	Extra         map[string]any `yaml:",inline"`
}

// DataConfig is the data pipeline configuration of one target.
type DataConfig struct {
	SiteDir      string         `yaml:"site_dir,omitempty"`
	Inputs       []Input        `yaml:"inputs"`
	DocsBranding string         `yaml:"docs_branding"`
	DocsIntro    string         `yaml:"docs_intro"`
	Extra        map[string]any `yaml:",inline"`
}

// Clone returns a deep copy.
func (c DataConfig) Clone() DataConfig {
	out := c
	if c.Inputs != nil {
		out.Inputs = make([]Input, len(c.Inputs))
		for i, in := range c.Inputs {
			out.Inputs[i] = Input{ReferenceArea: in.ReferenceArea, Extra: cloneMap(in.Extra)}
		}
	}
	out.Extra = cloneMap(c.Extra)
	return out
}
