// Package gitrepo extracts documentation from source repositories. It
// materializes a shallow clone into an ephemeral workspace, walks the
// worktree for documentation-like files, and emits one content item per
// file, with optional README and wiki passes.
package gitrepo

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/google/uuid"

	"github.com/docyard/docyard"
)

// legacyDefaultBranch is the fallback head tried once when a clone of the
// remote default branch fails and no branch was requested explicitly.
const legacyDefaultBranch = "master"

// docGlobs match documentation files anywhere in the tree. Matching is
// case-insensitive on the file base name.
var docGlobs = []string{"*.md", "*.markdown", "*.rst", "*.txt"}

// docDirs are directory names whose entire contents count as documentation
// regardless of extension.
var docDirs = map[string]bool{
	"docs":          true,
	"doc":           true,
	"documentation": true,
	"wiki":          true,
}

// defaultExcludes are pruned from every scan before user patterns apply.
var defaultExcludes = []string{
	".git",
	"node_modules",
	"vendor",
	"dist",
	"build",
	"target",
	".next",
}

// readmeNames are probed in order at the repository root.
var readmeNames = []string{
	"README.md",
	"README.markdown",
	"README.rst",
	"README.txt",
	"README",
	"readme.md",
}

// binaryExts are skipped even when they land under a documentation
// directory.
var binaryExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".svg": true, ".webp": true, ".pdf": true, ".zip": true, ".tar": true,
	".gz": true, ".mp4": true, ".mov": true, ".woff": true, ".woff2": true,
	".ttf": true, ".eot": true, ".exe": true, ".bin": true, ".dll": true,
	".so": true, ".dylib": true, ".jar": true, ".class": true, ".pyc": true,
}

// Ensure Producer implements docyard.Producer at compile time.
var _ docyard.Producer = (*Producer)(nil)

// Producer extracts documentation items from one repository source.
type Producer struct {
	name     string
	src      docyard.GitHubSource
	excludes []string
	cloneURL string
	wikiURL  string
	depth    int
	workDir  string
	logger   *slog.Logger
}

// Option configures a Producer.
type Option func(*Producer)

// WithCloneURL overrides the derived repository remote. Any URL go-git can
// clone works, including local paths.
func WithCloneURL(url string) Option {
	return func(p *Producer) {
		p.cloneURL = url
	}
}

// WithWikiURL overrides the derived wiki remote.
func WithWikiURL(url string) Option {
	return func(p *Producer) {
		p.wikiURL = url
	}
}

// WithDepth sets the clone depth. Zero clones the full history.
func WithDepth(depth int) Option {
	return func(p *Producer) {
		p.depth = depth
	}
}

// WithWorkspaceDir places ephemeral workspaces under dir instead of the
// system temp directory.
func WithWorkspaceDir(dir string) Option {
	return func(p *Producer) {
		p.workDir = dir
	}
}

// WithLogger sets the logger for skip and degradation notices.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Producer) {
		p.logger = logger
	}
}

// NewProducer returns a producer for the named source. The default clone is
// shallow (depth 1).
func NewProducer(name string, src docyard.GitHubSource, opts ...Option) *Producer {
	p := &Producer{
		name:   name,
		src:    src,
		depth:  1,
		logger: slog.New(slog.DiscardHandler),
	}
	p.excludes = make([]string, 0, len(defaultExcludes)+len(src.ExcludePatterns))
	p.excludes = append(p.excludes, defaultExcludes...)
	p.excludes = append(p.excludes, src.ExcludePatterns...)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Produce clones the repository into a fresh workspace, collects
// documentation items, and removes the workspace before returning.
//
// A failed clone (after the one legacy-branch retry) is EUNAVAILABLE. Wiki
// failures degrade to zero wiki items.
func (p *Producer) Produce(ctx context.Context) ([]docyard.ContentItem, error) {
	if p.src.Owner() == "" || p.src.Name() == "" {
		return nil, docyard.Errorf(docyard.EINVALID, "repository must be owner/name, got %q", p.src.Repo)
	}

	base := p.workDir
	if base == "" {
		base = os.TempDir()
	}
	workspace := filepath.Join(base, "docyard-git-"+uuid.New().String())
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return nil, docyard.Errorf(docyard.EUNAVAILABLE, "creating workspace: %v", err)
	}
	defer func() {
		if err := os.RemoveAll(workspace); err != nil {
			p.logger.Warn("workspace cleanup failed", "dir", workspace, "err", err)
		}
	}()

	repoDir := filepath.Join(workspace, "repo")
	if err := p.cloneWithFallback(ctx, p.repoRemote(), repoDir, p.src.Branch); err != nil {
		return nil, docyard.Errorf(docyard.EUNAVAILABLE, "cloning %s: %v", p.src.Repo, err)
	}

	items, emitted := p.collect(repoDir, "", false)

	if p.src.ReadmeEnabled() {
		if item, ok := p.readmeItem(repoDir, emitted); ok {
			items = append(items, item)
		}
	}

	if p.src.IncludeWiki {
		items = append(items, p.wikiItems(ctx, workspace)...)
	}

	return items, nil
}

func (p *Producer) repoRemote() string {
	if p.cloneURL != "" {
		return p.cloneURL
	}
	return fmt.Sprintf("https://github.com/%s/%s.git", p.src.Owner(), p.src.Name())
}

func (p *Producer) wikiRemote() string {
	if p.wikiURL != "" {
		return p.wikiURL
	}
	return fmt.Sprintf("https://github.com/%s/%s.wiki.git", p.src.Owner(), p.src.Name())
}

// cloneWithFallback clones one branch. When no branch was requested and the
// default-branch clone fails, it retries the legacy default once; the
// original error is surfaced if the retry fails too.
func (p *Producer) cloneWithFallback(ctx context.Context, url, dir, branch string) error {
	err := p.clone(ctx, url, dir, branch)
	if err == nil || branch != "" {
		return err
	}

	p.logger.Debug("default branch clone failed, retrying legacy head", "url", url, "err", err)
	if rmErr := os.RemoveAll(dir); rmErr != nil {
		return err
	}
	if retryErr := p.clone(ctx, url, dir, legacyDefaultBranch); retryErr != nil {
		return err
	}
	return nil
}

func (p *Producer) clone(ctx context.Context, url, dir, branch string) error {
	opts := &git.CloneOptions{
		URL:          url,
		Depth:        p.depth,
		SingleBranch: true,
		Tags:         git.NoTags,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}
	_, err := git.PlainCloneContext(ctx, dir, false, opts)
	return err
}

// collect walks a worktree and emits one item per documentation file.
// It returns the emitted repo-relative paths so the README probe can avoid
// duplicating an item.
func (p *Producer) collect(root, pathPrefix string, wiki bool) ([]docyard.ContentItem, map[string]bool) {
	var items []docyard.ContentItem
	emitted := make(map[string]bool)

	err := filepath.WalkDir(root, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, full)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if p.excluded(rel, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		if p.excluded(rel, d.Name()) || !documentationFile(rel) {
			return nil
		}
		if item, ok := p.fileItem(root, rel, pathPrefix, wiki); ok {
			items = append(items, item)
			emitted[rel] = true
		}
		return nil
	})
	if err != nil {
		p.logger.Warn("repository walk ended early", "err", err)
	}

	return items, emitted
}

// excluded matches the rel path and its base name against the exclude
// patterns.
func (p *Producer) excluded(rel, base string) bool {
	for _, pattern := range p.excludes {
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// documentationFile reports whether a repo-relative path counts as
// documentation: a doc-like extension anywhere, or any location under a
// doc-like directory.
func documentationFile(rel string) bool {
	base := strings.ToLower(path.Base(rel))
	for _, pattern := range docGlobs {
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	for _, seg := range strings.Split(path.Dir(rel), "/") {
		if docDirs[strings.ToLower(seg)] {
			return true
		}
	}
	return false
}

// fileItem reads one file and builds its content item. Oversized, binary,
// and unreadable files are skipped.
func (p *Producer) fileItem(root, rel, pathPrefix string, wiki bool) (docyard.ContentItem, bool) {
	full := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return docyard.ContentItem{}, false
	}
	if info.Size() > docyard.MaxFileSize {
		p.logger.Warn("file skipped, too large", "path", rel, "bytes", info.Size())
		return docyard.ContentItem{}, false
	}
	if binaryExts[strings.ToLower(path.Ext(rel))] {
		return docyard.ContentItem{}, false
	}

	raw, err := os.ReadFile(full)
	if err != nil {
		p.logger.Warn("file skipped, unreadable", "path", rel, "err", err)
		return docyard.ContentItem{}, false
	}
	content := string(raw)

	itemPath := pathPrefix + rel
	typ := docyard.ClassifyPath(rel)
	section := docyard.DeriveSection(itemPath)
	if wiki {
		typ = docyard.TypeWiki
		section = "wiki"
	}

	return docyard.ContentItem{
		ID:      docyard.ItemID(docyard.SourceGitHub, p.src.Repo+"/"+itemPath),
		Title:   docyard.ExtractTitle(content, itemPath),
		Content: content,
		Path:    itemPath,
		Type:    typ,
		Source:  p.name,
		Metadata: docyard.Metadata{
			Section:      section,
			LastModified: info.ModTime(),
		},
	}, true
}

// readmeItem probes conventional README names at the repository root and
// ingests the first one on disk, unless the walk already emitted it.
func (p *Producer) readmeItem(repoDir string, emitted map[string]bool) (docyard.ContentItem, bool) {
	for _, name := range readmeNames {
		info, err := os.Stat(filepath.Join(repoDir, name))
		if err != nil || info.IsDir() {
			continue
		}
		if emitted[name] {
			return docyard.ContentItem{}, false
		}
		return p.fileItem(repoDir, name, "", false)
	}
	return docyard.ContentItem{}, false
}

// wikiItems clones the wiki companion repository and collects its pages.
// Every failure here degrades to zero wiki items.
func (p *Producer) wikiItems(ctx context.Context, workspace string) []docyard.ContentItem {
	wikiDir := filepath.Join(workspace, "wiki")
	if err := p.cloneWithFallback(ctx, p.wikiRemote(), wikiDir, ""); err != nil {
		p.logger.Warn("wiki clone failed, skipping wiki", "repo", p.src.Repo, "err", err)
		return nil
	}
	items, _ := p.collect(wikiDir, "wiki/", true)
	return items
}
