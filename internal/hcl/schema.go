package hcl

// fileRoot is a struct used to decode all possible top-level blocks from any
// run file. Every field is optional so that several files can be layered.
type fileRoot struct {
	Limit          *int                 `hcl:"limit,optional"`
	Classification *ClassificationBlock `hcl:"classification,block"`
	Templates      *TemplatesBlock      `hcl:"templates,block"`
	Layout         *LayoutBlock         `hcl:"layout,block"`
	Pipeline       *CommandBlock        `hcl:"pipeline,block"`
	Renderer       *CommandBlock        `hcl:"renderer,block"`
	Provenance     *ProvenanceBlock     `hcl:"provenance,block"`
	Translations   *TranslationsBlock   `hcl:"translations,block"`
	Homepage       *HomepageBlock       `hcl:"homepage,block"`
	Publish        *PublishBlock        `hcl:"publish,block"`
	History        *HistoryBlock        `hcl:"history,block"`
}

// ClassificationBlock is the `classification` block.
type ClassificationBlock struct {
	URL       *string `hcl:"url,optional"`
	CacheFile *string `hcl:"cache_file,optional"`
	Dimension *string `hcl:"dimension,optional"`
}

// TemplatesBlock is the `templates` block naming the YAML base configs.
type TemplatesBlock struct {
	Site *string `hcl:"site,optional"`
	Data *string `hcl:"data,optional"`
}

// LayoutBlock is the `layout` block.
type LayoutBlock struct {
	BuildRoot   *string `hcl:"build_root,optional"`
	HomepageDir *string `hcl:"homepage_dir,optional"`
	ScaffoldDir *string `hcl:"scaffold_dir,optional"`
}

// CommandBlock describes an external program, e.g. `pipeline` or `renderer`.
type CommandBlock struct {
	Command []string `hcl:"command"`
}

// ProvenanceBlock is the `provenance` block.
type ProvenanceBlock struct {
	Organisation *string `hcl:"organisation,optional"`
	URL          *string `hcl:"url,optional"`
	URLText      *string `hcl:"url_text,optional"`
}

// TranslationsBlock is the `translations` block.
type TranslationsBlock struct {
	Enabled    *bool   `hcl:"enabled,optional"`
	BaseURL    *string `hcl:"base_url,optional"`
	Repository *string `hcl:"repository,optional"`
	Ref        *string `hcl:"ref,optional"`
	Language   *string `hcl:"language,optional"`
	Dest       *string `hcl:"dest,optional"`
}

// HomepageBlock is the `homepage` block.
type HomepageBlock struct {
	Assets []string `hcl:"assets,optional"`
}

// PublishBlock is the `publish` block. Credentials are never read from files.
type PublishBlock struct {
	Endpoint *string `hcl:"endpoint"`
	Bucket   *string `hcl:"bucket"`
	Prefix   *string `hcl:"prefix,optional"`
	Region   *string `hcl:"region,optional"`
	UseSSL   *bool   `hcl:"use_ssl,optional"`
}

// HistoryBlock is the `history` block.
type HistoryBlock struct {
	Path *string `hcl:"path"`
}
