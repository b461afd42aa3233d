// Package fs persists processed content snapshots on disk.
package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docyard/docyard"
)

// Ensure Store implements docyard.SnapshotStore at compile time.
var _ docyard.SnapshotStore = (*Store)(nil)

// Store reads and writes snapshots as JSON files with atomic update
// semantics: a snapshot is written next to its destination and moved into
// place with a rename, so readers never observe a partial file.
type Store struct{}

// NewStore creates a snapshot store.
func NewStore() *Store {
	return &Store{}
}

// Write persists the snapshot at path, replacing any previous snapshot.
func (s *Store) Write(path string, content *docyard.ProcessedContent) error {
	if content == nil {
		return docyard.Errorf(docyard.EINVALID, "snapshot is nil")
	}
	if err := content.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Read loads the snapshot at path. A missing file is ENOTFOUND; a file that
// does not decode as a snapshot is EINVALID.
func (s *Store) Read(path string) (*docyard.ProcessedContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, docyard.Errorf(docyard.ENOTFOUND, "no snapshot at %q", path)
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var content docyard.ProcessedContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, docyard.Errorf(docyard.EINVALID, "malformed snapshot %q: %v", path, err)
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return &content, nil
}
