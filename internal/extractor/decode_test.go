package extractor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metascope/go-file-inspect/internal/types"
)

func TestRunBounded_Success(t *testing.T) {
	err := runBounded(context.Background(), func() error { return nil })
	assert.NoError(t, err)
}

func TestRunBounded_DeadlineExceeded(t *testing.T) {
	saved := decodeTimeout
	decodeTimeout = 20 * time.Millisecond
	defer func() { decodeTimeout = saved }()

	release := make(chan struct{})
	defer close(release)

	record := &types.MetadataRecord{}
	err := runBounded(context.Background(), func() error {
		<-release
		return nil
	})

	// The decode never got to populate anything; the fields stay absent.
	require.ErrorIs(t, err, ErrDecodeTimeout)
	assert.Nil(t, record.Media.Width)
	assert.Nil(t, record.Media.DurationSeconds)
}

func TestRunBounded_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	release := make(chan struct{})
	defer close(release)

	err := runBounded(ctx, func() error {
		<-release
		return nil
	})
	assert.ErrorIs(t, err, ErrDecodeTimeout)
}

func TestRunBounded_PanicBecomesDecodeFailure(t *testing.T) {
	err := runBounded(context.Background(), func() error {
		panic("decoder went off the rails")
	})
	assert.ErrorIs(t, err, ErrDecodeFailure)
}
