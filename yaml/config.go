// Package yaml loads ingestion configuration from YAML files.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/docyard/docyard"
)

// DefaultMaxDepth is applied to website sources that do not set a crawl
// depth.
const DefaultMaxDepth = 2

// Load reads and parses the configuration file at path. A missing file is
// ENOTFOUND.
func Load(path string) (*docyard.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, docyard.Errorf(docyard.ENOTFOUND, "config file %q does not exist", path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes configuration YAML. Unknown fields are rejected, defaults
// are applied, and every source is validated.
func Parse(data []byte) (*docyard.Config, error) {
	var cfg docyard.Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		// Field-level unmarshalers raise application errors; keep those.
		var appErr *docyard.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, docyard.Errorf(docyard.EINVALID, "parsing config: %v", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills the documented configuration defaults. The README
// probe and walker glob defaults are pointer- and empty-slice-based, so
// only the crawl depth needs filling here.
func applyDefaults(cfg *docyard.Config) {
	for i := range cfg.Sources {
		if w := cfg.Sources[i].Website; w != nil && w.MaxDepth == 0 {
			w.MaxDepth = DefaultMaxDepth
		}
	}
}
