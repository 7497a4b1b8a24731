package overlay

import "github.com/vk/regiongrid/internal/model"

// Metadata is one indicator metadata record as produced by the pipeline.
type Metadata map[string]any

// MetadataEnricher rewrites indicator metadata for one target. The pipeline
// calls Enrich exactly once per record it produces.
type MetadataEnricher interface {
	Enrich(meta Metadata) Metadata
}

// Provenance names the organisation and database the data comes from.
type Provenance struct {
	Organisation string
	URL          string
	URLText      string
}

// ProvenanceEnricher stamps the target's coverage and the fixed data source
// onto every record.
type ProvenanceEnricher struct {
	target     model.Target
	provenance Provenance
}

// NewProvenanceEnricher binds an enricher to one target.
func NewProvenanceEnricher(t model.Target, p Provenance) *ProvenanceEnricher {
	return &ProvenanceEnricher{target: t, provenance: p}
}

// Enrich overwrites the provenance fields in place and returns the record.
func (e *ProvenanceEnricher) Enrich(meta Metadata) Metadata {
	if meta == nil {
		meta = Metadata{}
	}
	meta["national_geographical_coverage"] = e.target.Name
	meta["source_active_1"] = true
	meta["source_organisation_1"] = e.provenance.Organisation
	meta["source_url_1"] = e.provenance.URL
	meta["source_url_text_1"] = e.provenance.URLText
	return meta
}
