package extractor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metascope/go-file-inspect/internal/types"
)

// blockingExtractor holds Extract open until its context is cancelled or
// release is closed, so tests can control when an extraction finishes.
type blockingExtractor struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingExtractor) Name() string { return "blocking" }

func (b *blockingExtractor) CanHandle(name, mime string) bool { return true }

func (b *blockingExtractor) Extract(ctx context.Context, handle *types.FileHandle, record *types.MetadataRecord) error {
	b.started <- struct{}{}
	select {
	case <-ctx.Done():
	case <-b.release:
	}
	return nil
}

func blockingEngine(b *blockingExtractor) *Engine {
	c := &Classifier{}
	c.Register(b)
	return &Engine{classifier: c}
}

func TestSession_SupersessionDiscardsPriorResult(t *testing.T) {
	blocker := &blockingExtractor{
		started: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	session := NewSession(blockingEngine(blocker))
	handle := &types.FileHandle{Name: "a.bin", MIMEType: "application/octet-stream", Data: []byte{1}}

	firstErr := make(chan error, 1)
	go func() {
		_, err := session.Extract(context.Background(), handle)
		firstErr <- err
	}()

	// Wait until the first extraction is in flight.
	<-blocker.started

	second := make(chan struct{})
	var secondRecord *types.MetadataRecord
	var secondErr error
	go func() {
		secondRecord, secondErr = session.Extract(context.Background(), handle)
		close(second)
	}()

	// The second submission unblocks the first via cancellation.
	<-blocker.started
	close(blocker.release)

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("first extraction never returned")
	}

	select {
	case <-second:
		require.NoError(t, secondErr)
		assert.NotNil(t, secondRecord)
	case <-time.After(5 * time.Second):
		t.Fatal("second extraction never returned")
	}
}

func TestSession_SequentialSubmissionsBothComplete(t *testing.T) {
	session := NewSession(NewEngine())
	handle := &types.FileHandle{Name: "a.txt", MIMEType: "text/plain", Size: 5, Data: []byte("hello")}

	first, err := session.Extract(context.Background(), handle)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := session.Extract(context.Background(), handle)
	require.NoError(t, err)
	require.NotNil(t, second)

	// Content addressing: identical bytes, identical digests.
	assert.Equal(t, *first.Security.SHA256, *second.Security.SHA256)
}
