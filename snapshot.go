package docyard

import "time"

// ProcessedContent is the aggregate result of one ingestion run: every
// produced item, the derived index, and run metadata. It is handed by value
// to the query engine and treated as read-only for the engine's lifetime.
type ProcessedContent struct {
	Items    []ContentItem         `json:"items"`
	Index    map[string]IndexEntry `json:"index"`
	Metadata ProcessMetadata       `json:"metadata"`
}

// ProcessMetadata describes an ingestion run.
type ProcessMetadata struct {
	TotalItems    int       `json:"totalItems"`
	Sources       []string  `json:"sources"`
	LastProcessed time.Time `json:"lastProcessed"`
}

// Validate returns an error if the snapshot is structurally unsound.
func (p *ProcessedContent) Validate() error {
	for i := range p.Items {
		if err := p.Items[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SnapshotStore persists processed content between the ingestion and serving
// phases of a run.
type SnapshotStore interface {
	// Write persists the snapshot at path, atomically replacing any
	// previous snapshot.
	Write(path string, content *ProcessedContent) error

	// Read loads a snapshot. Returns ENOTFOUND if no snapshot exists at
	// path and EINVALID if the file cannot be decoded.
	Read(path string) (*ProcessedContent, error)
}
