// Package localfs ingests documentation from the local filesystem. The
// producer walks a configured root directory, or reads a single-file root
// directly, and emits one content item per matched file.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/docyard/docyard"
)

// defaultIncludes cover the common plain-text documentation formats.
var defaultIncludes = []string{
	"*.md",
	"*.markdown",
	"*.txt",
	"*.rst",
	"*.json",
	"*.yaml",
	"*.yml",
}

// defaultExcludes prune dependency, build, and VCS directories plus the
// usual OS artifact files before user patterns apply.
var defaultExcludes = []string{
	".git",
	"node_modules",
	"vendor",
	"dist",
	"build",
	".DS_Store",
	"Thumbs.db",
}

// Ensure Producer implements docyard.Producer at compile time.
var _ docyard.Producer = (*Producer)(nil)

// Producer turns a directory tree (or one file) into content items.
type Producer struct {
	name     string
	src      docyard.LocalSource
	includes []string
	excludes []string
	logger   *slog.Logger
}

// Option configures a Producer.
type Option func(*Producer)

// WithLogger sets the logger for skip notices.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Producer) {
		p.logger = logger
	}
}

// NewProducer returns a walker for the named source. Configured include
// patterns replace the defaults; exclude patterns extend them.
func NewProducer(name string, src docyard.LocalSource, opts ...Option) *Producer {
	p := &Producer{
		name:     name,
		src:      src,
		includes: src.Include,
		logger:   slog.New(slog.DiscardHandler),
	}
	if len(p.includes) == 0 {
		p.includes = defaultIncludes
	}
	p.excludes = make([]string, 0, len(defaultExcludes)+len(src.Exclude))
	p.excludes = append(p.excludes, defaultExcludes...)
	p.excludes = append(p.excludes, src.Exclude...)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Produce walks the configured root and returns its documentation items.
// A missing root is ENOTFOUND. A single-file root yields exactly that file,
// addressed relative to the working directory so its section still derives
// from the directory layout.
func (p *Producer) Produce(ctx context.Context) ([]docyard.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(p.src.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, docyard.Errorf(docyard.ENOTFOUND, "path %q does not exist", p.src.Path)
		}
		return nil, fmt.Errorf("stat %s: %w", p.src.Path, err)
	}

	if !info.IsDir() {
		item, ok := p.fileItem(p.src.Path, cwdRelative(p.src.Path))
		if !ok {
			return nil, nil
		}
		return []docyard.ContentItem{item}, nil
	}

	return p.collect(p.src.Path), nil
}

// collect walks root and emits one item per file matching the include
// patterns. Directory read errors end the walk early with a warning rather
// than discarding the items already gathered.
func (p *Producer) collect(root string) []docyard.ContentItem {
	var items []docyard.ContentItem

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

		if p.excluded(rel, d.Name()) || !p.included(rel, d.Name()) {
			return nil
		}
		if item, ok := p.fileItem(full, rel); ok {
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		p.logger.Warn("walk ended early", "root", root, "err", err)
	}

	return items
}

// included matches the rel path and its base name against the include
// patterns.
func (p *Producer) included(rel, base string) bool {
	for _, pattern := range p.includes {
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
	}
	return false
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

// fileItem reads one file and builds its content item. Oversized and
// unreadable files are skipped with a log line.
func (p *Producer) fileItem(full, itemPath string) (docyard.ContentItem, bool) {
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return docyard.ContentItem{}, false
	}
	if info.Size() > docyard.MaxFileSize {
		p.logger.Warn("file skipped, too large", "path", itemPath, "bytes", info.Size())
		return docyard.ContentItem{}, false
	}

	raw, err := os.ReadFile(full)
	if err != nil {
		p.logger.Warn("file skipped, unreadable", "path", itemPath, "err", err)
		return docyard.ContentItem{}, false
	}
	content := string(raw)

	typ := p.src.Format
	if typ == "" {
		typ = docyard.ClassifyPath(itemPath)
	}

	return docyard.ContentItem{
		ID:      docyard.ItemID(docyard.SourceLocal, itemPath),
		Title:   title(content, itemPath),
		Content: content,
		Path:    itemPath,
		Type:    typ,
		Source:  p.name,
		Metadata: docyard.Metadata{
			Section:      docyard.DeriveSection(itemPath),
			LastModified: info.ModTime(),
		},
	}, true
}

// title runs the extraction chain: markdown heading or front matter, then a
// short capitalized first line, then the file name.
func title(content, itemPath string) string {
	if t := docyard.ExtractTitle(content, ""); t != "" {
		return t
	}
	if line, ok := docyard.FirstLineTitle(content); ok {
		return line
	}
	return path.Base(itemPath)
}

// cwdRelative returns p relative to the current working directory, falling
// back to the base name when no relative path can be computed.
func cwdRelative(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Base(p)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Base(p)
	}
	rel, err := filepath.Rel(cwd, abs)
	if err != nil {
		return filepath.Base(p)
	}
	return filepath.ToSlash(rel)
}
