package extractor

import (
	"context"
	"sync"

	"github.com/metascope/go-file-inspect/internal/types"
)

// Session serializes extraction for one submission surface and enforces
// cancellation-by-supersession: submitting a new file cancels any prior
// in-flight extraction, and a superseded run's result is discarded even if
// it completes. No two results are ever merged into one record.
type Session struct {
	engine *Engine

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewSession wraps an engine with supersession semantics.
func NewSession(engine *Engine) *Session {
	return &Session{engine: engine}
}

// Extract runs the pipeline for handle. If another submission arrives while
// this one is in flight, this call returns ErrSuperseded and its record is
// dropped.
func (s *Session) Extract(ctx context.Context, handle *types.FileHandle) (*types.MetadataRecord, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	defer cancel()

	record, err := s.engine.Extract(runCtx, handle)

	s.mu.Lock()
	superseded := generation != s.generation
	if !superseded {
		s.cancel = nil
	}
	s.mu.Unlock()

	if superseded {
		return nil, ErrSuperseded
	}
	return record, err
}
