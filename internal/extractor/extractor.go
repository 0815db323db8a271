package extractor

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/metascope/go-file-inspect/internal/types"
)

// FormatExtractor is one member of the closed set of per-format extraction
// strategies. Extract writes the fields it could derive onto the record and
// returns an error only for its own bookkeeping; the orchestrator treats any
// error as non-fatal field absence.
type FormatExtractor interface {
	// Name identifies the extractor in logs.
	Name() string

	// CanHandle checks the declared name and MIME type.
	CanHandle(name, mimeType string) bool

	// Extract populates format-specific fields on the record.
	Extract(ctx context.Context, handle *types.FileHandle, record *types.MetadataRecord) error
}

// Classifier dispatches a file to at most one format extractor. Dispatch is
// deterministic: extractors are consulted in registration order and the
// first match wins.
type Classifier struct {
	extractors []FormatExtractor
}

// NewClassifier builds the default dispatch order: image, audio/video,
// PDF, plain text, archive.
func NewClassifier() *Classifier {
	c := &Classifier{}
	c.Register(&ImageExtractor{})
	c.Register(&MediaExtractor{})
	c.Register(&DocumentExtractor{})
	c.Register(&TextExtractor{})
	c.Register(&ArchiveExtractor{})
	return c
}

// Register appends an extractor to the dispatch order.
func (c *Classifier) Register(e FormatExtractor) {
	c.extractors = append(c.extractors, e)
}

// Classify returns the first extractor that handles the declared name and
// MIME type, or nil when only universal analysis applies.
func (c *Classifier) Classify(name, mimeType string) FormatExtractor {
	for _, e := range c.extractors {
		if e.CanHandle(name, mimeType) {
			return e
		}
	}
	return nil
}

// lowerExt returns the lowercased extension of name, dot included.
func lowerExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
