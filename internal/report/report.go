// Package report aggregates the metadata records of one CLI invocation into
// a single JSON document. It is one-shot output for the caller, not a
// persistent result store.
package report

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/metascope/go-file-inspect/internal/logger"
	"github.com/metascope/go-file-inspect/internal/types"
)

// Document is the JSON shape written by the CLI.
type Document struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Stats       types.ReportStats       `json:"stats"`
	Files       []*types.MetadataRecord `json:"files"`
}

// Report accumulates records and summary statistics.
type Report struct {
	mu   sync.Mutex
	data Document
}

// New creates an empty report.
func New() *Report {
	return &Report{
		data: Document{
			Stats: types.ReportStats{
				FilesByMIME: make(map[string]int),
			},
			Files: make([]*types.MetadataRecord, 0),
		},
	}
}

// Add appends one record and folds it into the stats.
func (r *Report) Add(record *types.MetadataRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data.Files = append(r.data.Files, record)
	r.data.Stats.FilesInspected++
	r.data.Stats.TotalBytes += record.Identity.SizeBytes
	if record.Identity.MIMEType != "" {
		r.data.Stats.FilesByMIME[record.Identity.MIMEType]++
	}
}

// AddError counts a file whose bytes could not be read at all.
func (r *Report) AddError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Stats.Errors++
}

// Stats returns a copy of the current summary.
func (r *Report) Stats() types.ReportStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data.Stats
}

// WriteTo encodes the report as indented JSON, files sorted by name.
func (r *Report) WriteTo(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sort.Slice(r.data.Files, func(i, j int) bool {
		return r.data.Files[i].Identity.Name < r.data.Files[j].Identity.Name
	})
	r.data.GeneratedAt = time.Now()

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r.data)
}

// Save writes the report to a file path.
func (r *Report) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := r.WriteTo(file); err != nil {
		return err
	}
	logger.Infof("report with %d files saved to %s", r.Stats().FilesInspected, path)
	return nil
}
