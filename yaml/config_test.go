package yaml_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docyard/docyard"
	"github.com/docyard/docyard/yaml"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("decodes every source variant and the options", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.Parse([]byte(`
sources:
  - type: website
    name: docs-site
    website:
      url: https://example.com/docs
      maxDepth: 3
      extractor: article
      excludePatterns:
        - /v1/
      render: true
      sitemap: true
  - type: github
    name: main-repo
    github:
      repo: acme/widget
      branch: main
      includeReadme: false
      includeWiki: true
  - type: local
    name: local-notes
    local:
      path: ./notes
      include:
        - "*.md"
      format: markdown
options:
  maxConcurrency: 4
  timeout: 45s
`))

		require.NoError(t, err)
		require.Len(t, cfg.Sources, 3)

		site := cfg.Sources[0]
		assert.Equal(t, docyard.SourceWebsite, site.Type)
		assert.Equal(t, "docs-site", site.Name)
		require.NotNil(t, site.Website)
		assert.Equal(t, "https://example.com/docs", site.Website.URL)
		assert.Equal(t, 3, site.Website.MaxDepth)
		assert.Equal(t, docyard.ExtractArticle, site.Website.Extractor)
		assert.Equal(t, []string{"/v1/"}, site.Website.ExcludePatterns)
		assert.True(t, site.Website.Render)
		assert.True(t, site.Website.Sitemap)

		repo := cfg.Sources[1]
		require.NotNil(t, repo.GitHub)
		assert.Equal(t, "acme/widget", repo.GitHub.Repo)
		assert.Equal(t, "main", repo.GitHub.Branch)
		assert.False(t, repo.GitHub.ReadmeEnabled())
		assert.True(t, repo.GitHub.IncludeWiki)

		local := cfg.Sources[2]
		require.NotNil(t, local.Local)
		assert.Equal(t, "./notes", local.Local.Path)
		assert.Equal(t, []string{"*.md"}, local.Local.Include)
		assert.Equal(t, docyard.TypeMarkdown, local.Local.Format)

		assert.Equal(t, 4, cfg.Options.MaxConcurrency)
		assert.Equal(t, 45*time.Second, cfg.Options.Timeout)
	})

	t.Run("defaults the crawl depth", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.Parse([]byte(`
sources:
  - type: website
    name: site
    website:
      url: https://example.com
`))

		require.NoError(t, err)
		assert.Equal(t, yaml.DefaultMaxDepth, cfg.Sources[0].Website.MaxDepth)
	})

	t.Run("leaves the README probe enabled by default", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.Parse([]byte(`
sources:
  - type: github
    name: repo
    github:
      repo: acme/widget
`))

		require.NoError(t, err)
		assert.Nil(t, cfg.Sources[0].GitHub.IncludeReadme)
		assert.True(t, cfg.Sources[0].GitHub.ReadmeEnabled())
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Parse([]byte(`
sources:
  - type: website
    name: site
    website:
      url: https://example.com
      maxDeth: 3
`))

		require.Error(t, err)
		assert.Equal(t, docyard.EINVALID, docyard.ErrorCode(err))
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Parse([]byte("sources: ["))

		require.Error(t, err)
		assert.Equal(t, docyard.EINVALID, docyard.ErrorCode(err))
	})

	t.Run("rejects an invalid timeout", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Parse([]byte(`
sources:
  - type: website
    name: site
    website:
      url: https://example.com
options:
  timeout: fast
`))

		require.Error(t, err)
		assert.Equal(t, docyard.EINVALID, docyard.ErrorCode(err))
		assert.Contains(t, docyard.ErrorMessage(err), "timeout")
	})

	t.Run("requires at least one source", func(t *testing.T) {
		t.Parallel()

		for _, doc := range []string{"", "options:\n  maxConcurrency: 2\n"} {
			_, err := yaml.Parse([]byte(doc))
			require.Error(t, err)
			assert.Equal(t, docyard.EINVALID, docyard.ErrorCode(err))
		}
	})

	t.Run("rejects a source missing its name", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Parse([]byte(`
sources:
  - type: website
    website:
      url: https://example.com
`))

		require.Error(t, err)
		assert.Equal(t, docyard.EINVALID, docyard.ErrorCode(err))
		assert.Contains(t, docyard.ErrorMessage(err), "name")
	})

	t.Run("rejects duplicate source names", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Parse([]byte(`
sources:
  - type: website
    name: twin
    website:
      url: https://example.com
  - type: github
    name: twin
    github:
      repo: acme/widget
`))

		require.Error(t, err)
		assert.Equal(t, docyard.EINVALID, docyard.ErrorCode(err))
		assert.Contains(t, docyard.ErrorMessage(err), "duplicate")
	})

	t.Run("rejects a source configuring multiple variants", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Parse([]byte(`
sources:
  - type: website
    name: confused
    website:
      url: https://example.com
    github:
      repo: acme/widget
`))

		require.Error(t, err)
		assert.Equal(t, docyard.EINVALID, docyard.ErrorCode(err))
		assert.Contains(t, docyard.ErrorMessage(err), "multiple")
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("loads a config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "docyard.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
sources:
  - type: local
    name: notes
    local:
      path: ./notes
`), 0o644))

		cfg, err := yaml.Load(path)

		require.NoError(t, err)
		require.Len(t, cfg.Sources, 1)
		assert.Equal(t, "notes", cfg.Sources[0].Name)
	})

	t.Run("missing file is ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Load(filepath.Join(t.TempDir(), "absent.yaml"))

		require.Error(t, err)
		assert.Equal(t, docyard.ENOTFOUND, docyard.ErrorCode(err))
	})
}
