package docyard

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// ContentType classifies a content item by its origin or file format.
// The set is open: producers map unknown formats to TypeDocument.
type ContentType string

// Known content types.
const (
	TypeMarkdown ContentType = "markdown"
	TypeText     ContentType = "text"
	TypeRST      ContentType = "restructuredtext"
	TypeWebpage  ContentType = "webpage"
	TypeWiki     ContentType = "wiki"
	TypeDocument ContentType = "document"
	TypeJSON     ContentType = "json"
	TypeYAML     ContentType = "yaml"
)

// MaxFileSize is the per-file ingestion ceiling shared by the file-based
// producers. Larger files are skipped with a log line, not an error.
const MaxFileSize = 1 << 20

// ContentItem is one normalized unit of documentation content.
// Items are created once during a single producer pass and are immutable
// thereafter; re-running ingestion produces a wholly new set.
type ContentItem struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Content  string      `json:"content"`
	URL      string      `json:"url,omitempty"` // web-sourced items only
	Path     string      `json:"path"`
	Type     ContentType `json:"type"`
	Source   string      `json:"source"`
	Metadata Metadata    `json:"metadata"`

	// Parent and Children are reserved hierarchy links. No current producer
	// populates them; if present they must form a DAG.
	Parent   string   `json:"parent,omitempty"`
	Children []string `json:"children,omitempty"`
}

// Metadata holds optional descriptive fields for a content item.
type Metadata struct {
	Description  string    `json:"description,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	LastModified time.Time `json:"lastModified,omitzero"`
	Author       string    `json:"author,omitempty"`

	// Section is the derived directory-like grouping label used by
	// hierarchical listing.
	Section string `json:"section,omitempty"`
}

// Validate returns an error if the item is missing required fields.
func (c *ContentItem) Validate() error {
	if c.ID == "" {
		return Errorf(EINVALID, "content item ID required")
	}
	if c.Source == "" {
		return Errorf(EINVALID, "content item source required")
	}
	return nil
}

// ItemID derives a stable item identifier from a namespaced path. The same
// kind and path always produce the same ID; distinct paths collide only with
// xxhash's 64-bit probability.
func ItemID(kind SourceKind, path string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(string(kind)+":"+path))
}

// DeriveSection returns the directory-like grouping label for a path: the
// second-to-last slash-separated segment, or "root" when the path has at
// most one segment.
func DeriveSection(path string) string {
	segments := make([]string, 0, 8)
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) <= 1 {
		return "root"
	}
	return segments[len(segments)-2]
}

// ClassifyPath maps a file path to a content type by its extension.
// Unknown extensions classify as TypeDocument.
func ClassifyPath(path string) ContentType {
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 {
		return TypeDocument
	}
	switch strings.ToLower(path[dot:]) {
	case ".md", ".markdown", ".mdx":
		return TypeMarkdown
	case ".txt":
		return TypeText
	case ".rst":
		return TypeRST
	case ".json":
		return TypeJSON
	case ".yaml", ".yml":
		return TypeYAML
	default:
		return TypeDocument
	}
}

var (
	headingRe    = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	codeBlockRe  = regexp.MustCompile("(?s)```.*?```")
	frontMatter  = regexp.MustCompile(`(?s)\A---\s*\n(.*?)\n---\s*(\n|\z)`)
	markupPrefix = regexp.MustCompile(`^[#>\-*=|` + "`" + `]`)
)

// ExtractTitle returns the best-effort title for a text document: the first
// level-one markdown heading outside fenced code blocks, else the front
// matter "title:" field, else the fallback.
func ExtractTitle(content, fallback string) string {
	cleaned := codeBlockRe.ReplaceAllString(content, "")
	if m := headingRe.FindStringSubmatch(cleaned); m != nil {
		return strings.TrimSpace(m[1])
	}
	if title := frontMatterTitle(content); title != "" {
		return title
	}
	return fallback
}

// frontMatterTitle parses a leading YAML front matter block and returns its
// title field, if any.
func frontMatterTitle(content string) string {
	m := frontMatter.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	var fm struct {
		Title string `yaml:"title"`
	}
	if err := yaml.Unmarshal([]byte(m[1]), &fm); err != nil {
		return ""
	}
	return strings.TrimSpace(fm.Title)
}

// FirstLineTitle reports the first line of content if it reads like a short
// capitalized sentence: at most 80 characters, starting with an upper-case
// letter, and free of markup prefixes.
func FirstLineTitle(content string) (string, bool) {
	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > 80 || markupPrefix.MatchString(line) {
			return "", false
		}
		r, _ := utf8.DecodeRuneInString(line)
		if !unicode.IsUpper(r) {
			return "", false
		}
		return line, true
	}
	return "", false
}
