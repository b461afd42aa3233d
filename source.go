package docyard

import (
	"context"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SourceKind identifies the producer responsible for a configured source.
type SourceKind string

// Supported source kinds.
const (
	SourceWebsite SourceKind = "website"
	SourceGitHub  SourceKind = "github"
	SourceLocal   SourceKind = "local"
)

// ExtractorMode selects how page content is pulled out of fetched HTML.
type ExtractorMode string

// Extractor modes for website sources.
const (
	// ExtractSelectors uses configurable CSS selector lists (the default).
	ExtractSelectors ExtractorMode = "selectors"
	// ExtractArticle uses automatic article extraction with fallbacks.
	ExtractArticle ExtractorMode = "article"
	// ExtractReadability uses readability-style boilerplate removal.
	ExtractReadability ExtractorMode = "readability"
)

// Source is one configured documentation origin. Type selects the variant;
// exactly the matching variant field must be populated.
type Source struct {
	Type SourceKind `json:"type" yaml:"type"`
	Name string     `json:"name" yaml:"name"`

	Website *WebsiteSource `json:"website,omitempty" yaml:"website,omitempty"`
	GitHub  *GitHubSource  `json:"github,omitempty" yaml:"github,omitempty"`
	Local   *LocalSource   `json:"local,omitempty" yaml:"local,omitempty"`
}

// WebsiteSource configures a crawled documentation site.
type WebsiteSource struct {
	URL string `json:"url" yaml:"url"`

	// MaxDepth bounds traversal distance from the seed URL. The seed itself
	// is always fetched, even at depth zero.
	MaxDepth int `json:"maxDepth" yaml:"maxDepth"`

	// ContentSelector and TitleSelector are tried before the built-in
	// selector lists when set.
	ContentSelector string `json:"contentSelector,omitempty" yaml:"contentSelector,omitempty"`
	TitleSelector   string `json:"titleSelector,omitempty" yaml:"titleSelector,omitempty"`

	// ExcludePatterns are RE2 expressions matched against absolute URLs.
	ExcludePatterns []string `json:"excludePatterns,omitempty" yaml:"excludePatterns,omitempty"`

	// Extractor selects the content extraction strategy. Empty means
	// ExtractSelectors.
	Extractor ExtractorMode `json:"extractor,omitempty" yaml:"extractor,omitempty"`

	// Render fetches pages through a headless browser so JavaScript-rendered
	// documentation can be crawled.
	Render bool `json:"render,omitempty" yaml:"render,omitempty"`

	// Sitemap seeds the crawl frontier from the site's sitemap in addition
	// to following links from the seed page.
	Sitemap bool `json:"sitemap,omitempty" yaml:"sitemap,omitempty"`
}

// GitHubSource configures a repository extraction.
type GitHubSource struct {
	// Repo is the "owner/name" identifier.
	Repo string `json:"repo" yaml:"repo"`

	// Branch pins the ref to fetch. Empty fetches the default branch, with
	// one retry against the legacy default name on failure.
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`

	// IncludeReadme probes conventional README filenames at the repository
	// root. Nil means true.
	IncludeReadme *bool `json:"includeReadme,omitempty" yaml:"includeReadme,omitempty"`

	// IncludeWiki additionally fetches the repository's wiki. Wiki fetch
	// failure degrades to zero wiki items rather than failing the source.
	IncludeWiki bool `json:"includeWiki,omitempty" yaml:"includeWiki,omitempty"`

	// ExcludePatterns are glob patterns removed from the documentation scan.
	ExcludePatterns []string `json:"excludePatterns,omitempty" yaml:"excludePatterns,omitempty"`
}

// Owner returns the repository owner half of Repo.
func (g *GitHubSource) Owner() string {
	owner, _, _ := strings.Cut(g.Repo, "/")
	return owner
}

// Name returns the repository name half of Repo.
func (g *GitHubSource) Name() string {
	_, name, _ := strings.Cut(g.Repo, "/")
	return name
}

// ReadmeEnabled reports whether the README probe should run.
func (g *GitHubSource) ReadmeEnabled() bool {
	return g.IncludeReadme == nil || *g.IncludeReadme
}

// LocalSource configures a filesystem walk.
type LocalSource struct {
	Path string `json:"path" yaml:"path"`

	// Include and Exclude are glob patterns. Empty Include falls back to
	// common text and markdown extensions.
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	// Format overrides extension-based type classification when set.
	Format ContentType `json:"format,omitempty" yaml:"format,omitempty"`
}

// Validate returns EINVALID unless the source has a name, a known kind, and
// exactly the variant matching its kind.
func (s *Source) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "source name required")
	}
	variants := 0
	for _, set := range []bool{s.Website != nil, s.GitHub != nil, s.Local != nil} {
		if set {
			variants++
		}
	}
	if variants > 1 {
		return Errorf(EINVALID, "source %q configures multiple variants", s.Name)
	}
	switch s.Type {
	case SourceWebsite:
		if s.Website == nil {
			return Errorf(EINVALID, "source %q missing website configuration", s.Name)
		}
		if s.Website.URL == "" {
			return Errorf(EINVALID, "source %q missing website URL", s.Name)
		}
		if s.Website.MaxDepth < 0 {
			return Errorf(EINVALID, "source %q has negative maxDepth", s.Name)
		}
		switch s.Website.Extractor {
		case "", ExtractSelectors, ExtractArticle, ExtractReadability:
		default:
			return Errorf(EINVALID, "source %q has unknown extractor %q", s.Name, s.Website.Extractor)
		}
	case SourceGitHub:
		if s.GitHub == nil {
			return Errorf(EINVALID, "source %q missing github configuration", s.Name)
		}
		if s.GitHub.Owner() == "" || s.GitHub.Name() == "" {
			return Errorf(EINVALID, "source %q repo must be owner/name, got %q", s.Name, s.GitHub.Repo)
		}
	case SourceLocal:
		if s.Local == nil {
			return Errorf(EINVALID, "source %q missing local configuration", s.Name)
		}
		if s.Local.Path == "" {
			return Errorf(EINVALID, "source %q missing local path", s.Name)
		}
	default:
		return Errorf(EINVALID, "source %q has unknown type %q", s.Name, s.Type)
	}
	return nil
}

// Options are advisory global processing knobs.
type Options struct {
	// MaxConcurrency bounds crawler workers and cross-source parallelism.
	// Zero or one means fully sequential processing.
	MaxConcurrency int `json:"maxConcurrency,omitempty" yaml:"maxConcurrency,omitempty"`

	// Timeout overrides the per-fetch HTTP timeout.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// UnmarshalYAML decodes options with the timeout given as a Go duration
// string ("30s", "2m").
func (o *Options) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		MaxConcurrency int    `yaml:"maxConcurrency"`
		Timeout        string `yaml:"timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	o.MaxConcurrency = raw.MaxConcurrency
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return Errorf(EINVALID, "invalid timeout %q", raw.Timeout)
		}
		o.Timeout = d
	}
	return nil
}

// Config is the full ingestion configuration: an ordered source list plus
// global options.
type Config struct {
	Sources []Source `json:"sources" yaml:"sources"`
	Options Options  `json:"options,omitempty" yaml:"options,omitempty"`
}

// Validate checks every source and requires at least one.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return Errorf(EINVALID, "at least one source required")
	}
	seen := make(map[string]bool, len(c.Sources))
	for i := range c.Sources {
		if err := c.Sources[i].Validate(); err != nil {
			return err
		}
		if seen[c.Sources[i].Name] {
			return Errorf(EINVALID, "duplicate source name %q", c.Sources[i].Name)
		}
		seen[c.Sources[i].Name] = true
	}
	return nil
}

// Producer turns one configured source into an ordered sequence of content
// items. Producers run to completion; partial results are never returned
// alongside an error.
type Producer interface {
	Produce(ctx context.Context) ([]ContentItem, error)
}
