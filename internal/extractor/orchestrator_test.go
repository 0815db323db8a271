package extractor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metascope/go-file-inspect/internal/types"
)

func TestEngine_UnreadableInput(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnreadableInput)

	_, err = engine.Extract(context.Background(), &types.FileHandle{Name: "x"})
	assert.ErrorIs(t, err, ErrUnreadableInput)
}

func TestEngine_TextFile(t *testing.T) {
	engine := NewEngine()
	modified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	handle := &types.FileHandle{
		Name:         "notes.txt",
		MIMEType:     "text/plain",
		Size:         19,
		LastModified: modified,
		Data:         []byte("the and of the word"),
	}

	record, err := engine.Extract(context.Background(), handle)
	require.NoError(t, err)

	assert.Equal(t, "notes.txt", record.Identity.Name)
	assert.Equal(t, "txt", record.Identity.Extension)
	assert.Equal(t, int64(19), record.Identity.SizeBytes)
	require.NotNil(t, record.Identity.LastModified)
	assert.Equal(t, modified, *record.Identity.LastModified)

	require.NotNil(t, record.Technical.Signature)
	assert.NotEmpty(t, *record.Technical.Signature)
	require.NotNil(t, record.Technical.Entropy)
	require.NotNil(t, record.Technical.ProcessingMillis)
	assert.GreaterOrEqual(t, *record.Technical.ProcessingMillis, 0.0)

	require.NotNil(t, record.Technical.Executable)
	assert.False(t, *record.Technical.Executable)
	require.NotNil(t, record.Technical.LikelyEncrypted)
	assert.False(t, *record.Technical.LikelyEncrypted)
	require.NotNil(t, record.Technical.HasEmbeddedMetadata)
	assert.False(t, *record.Technical.HasEmbeddedMetadata)

	require.NotNil(t, record.Security.SHA256)
	require.NotNil(t, record.Security.MD5)
	assert.NotEqual(t, *record.Security.SHA256, *record.Security.MD5)

	require.NotNil(t, record.Content.WordCount)
	assert.Equal(t, 5, *record.Content.WordCount)
}

func TestEngine_ExecutableExtension(t *testing.T) {
	engine := NewEngine()

	record, err := engine.Extract(context.Background(), &types.FileHandle{
		Name: "setup.exe", MIMEType: "application/octet-stream", Size: 4, Data: []byte("text"),
	})
	require.NoError(t, err)
	require.NotNil(t, record.Technical.Executable)
	assert.True(t, *record.Technical.Executable)
}

func TestEngine_CorruptImageDegrades(t *testing.T) {
	engine := NewEngine()
	handle := &types.FileHandle{
		Name:     "broken.png",
		MIMEType: "image/png",
		Size:     22,
		Data:     []byte("not image bytes at all"),
	}

	record, err := engine.Extract(context.Background(), handle)
	require.NoError(t, err)

	// Format fields are absent, universal fields still populated.
	assert.Nil(t, record.Media.Width)
	assert.Nil(t, record.Media.Height)
	assert.NotNil(t, record.Security.SHA256)
	assert.NotNil(t, record.Technical.Entropy)
	assert.Equal(t, "broken.png", record.Identity.Name)
}

func TestEngine_EmptyFile(t *testing.T) {
	engine := NewEngine()
	handle := &types.FileHandle{Name: "empty.bin", MIMEType: "application/octet-stream", Data: []byte{}}

	record, err := engine.Extract(context.Background(), handle)
	require.NoError(t, err)

	require.NotNil(t, record.Technical.Signature)
	assert.Equal(t, "", *record.Technical.Signature)
	require.NotNil(t, record.Technical.Entropy)
	assert.Equal(t, 0.0, *record.Technical.Entropy)
}

func TestEngine_PDFEmbeddedMetadata(t *testing.T) {
	engine := NewEngine()
	handle := &types.FileHandle{
		Name:     "doc.pdf",
		MIMEType: "application/pdf",
		Size:     int64(len(samplePDF)),
		Data:     []byte(samplePDF),
	}

	record, err := engine.Extract(context.Background(), handle)
	require.NoError(t, err)
	require.NotNil(t, record.Technical.HasEmbeddedMetadata)
	assert.True(t, *record.Technical.HasEmbeddedMetadata)
}

func TestEngine_UnclassifiedFileGetsUniversalFieldsOnly(t *testing.T) {
	engine := NewEngine()
	handle := &types.FileHandle{
		Name:     "data.bin",
		MIMEType: "application/octet-stream",
		Size:     8,
		Data:     []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}

	record, err := engine.Extract(context.Background(), handle)
	require.NoError(t, err)

	assert.NotNil(t, record.Security.SHA256)
	assert.Nil(t, record.Content.WordCount)
	assert.Nil(t, record.Media.Width)
	assert.Nil(t, record.Content.CompressionRatio)
}

func TestClassifier_DispatchPriority(t *testing.T) {
	c := NewClassifier()

	assert.Equal(t, "image", c.Classify("x.png", "image/png").Name())
	assert.Equal(t, "media", c.Classify("x.mp3", "audio/mpeg").Name())
	assert.Equal(t, "media", c.Classify("x.mp4", "video/mp4").Name())
	assert.Equal(t, "document", c.Classify("x.pdf", "application/pdf").Name())
	assert.Equal(t, "text", c.Classify("x.txt", "text/plain").Name())
	assert.Equal(t, "text", c.Classify("x.md", "").Name())
	assert.Equal(t, "archive", c.Classify("x.zip", "application/zip").Name())
	assert.Nil(t, c.Classify("x.bin", "application/octet-stream"))
}
