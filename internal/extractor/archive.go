package extractor

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/metascope/go-file-inspect/internal/logger"
	"github.com/metascope/go-file-inspect/internal/types"
)

// zipLocalHeaderMagic is "PK\x03\x04", the local file header signature.
var zipLocalHeaderMagic = []byte{0x50, 0x4B, 0x03, 0x04}

const (
	zipLocalHeaderLen = 30

	// gzipDecompressCap bounds how much a gzip member is decompressed
	// when deriving its compression ratio.
	gzipDecompressCap = 256 << 20
)

// ArchiveExtractor walks ZIP local file headers sequentially to accumulate
// the archive's uncompressed size and derive a compression ratio. It is a
// structural scan over fixed header offsets, not an archive reader: entries
// are never decompressed, and a truncated or descriptor-based archive
// simply stops the walk early. GZIP members get the same ratio treatment
// through bounded decompression.
type ArchiveExtractor struct{}

func (e *ArchiveExtractor) Name() string { return "archive" }

func (e *ArchiveExtractor) CanHandle(name, mimeType string) bool {
	mt := strings.ToLower(mimeType)
	if strings.Contains(mt, "zip") || strings.Contains(mt, "archive") || strings.Contains(mt, "gzip") {
		return true
	}
	switch lowerExt(name) {
	case ".zip", ".rar", ".gz":
		return true
	}
	return false
}

func (e *ArchiveExtractor) Extract(ctx context.Context, handle *types.FileHandle, record *types.MetadataRecord) error {
	data := handle.Data

	if len(data) >= 2 && data[0] == 0x1F && data[1] == 0x8B {
		return e.extractGzip(handle, record)
	}

	if len(data) < zipLocalHeaderLen || !bytes.Equal(data[:4], zipLocalHeaderMagic) {
		// Not a ZIP we can walk (.rar lands here too). Absence is the
		// signal; this is not an error condition.
		return nil
	}

	entries, totalUncompressed := walkZipHeaders(data)
	if entries > 0 {
		record.Tag("zip_entries", fmt.Sprintf("%d", entries))
	}
	if totalUncompressed > 0 {
		ratio := round2(float64(handle.Size) / float64(totalUncompressed))
		record.Content.CompressionRatio = &ratio
	}

	logger.Debugf("zip walk for %s: %d entries, %d uncompressed bytes", handle.Name, entries, totalUncompressed)
	return nil
}

// walkZipHeaders reads consecutive local file headers at fixed offsets,
// advancing past each entry's name, extra field, and compressed data. The
// walk stops at the first position that is not a header or that runs past
// the buffer.
func walkZipHeaders(data []byte) (entries int, totalUncompressed uint64) {
	cursor := 0
	for cursor+zipLocalHeaderLen <= len(data) {
		header := data[cursor:]
		if !bytes.Equal(header[:4], zipLocalHeaderMagic) {
			break
		}

		compressedSize := binary.LittleEndian.Uint32(header[18:22])
		uncompressedSize := binary.LittleEndian.Uint32(header[22:26])
		nameLen := binary.LittleEndian.Uint16(header[26:28])
		extraLen := binary.LittleEndian.Uint16(header[28:30])

		entries++
		totalUncompressed += uint64(uncompressedSize)

		advance := zipLocalHeaderLen + int(nameLen) + int(extraLen) + int(compressedSize)
		if cursor+advance > len(data) {
			break
		}
		cursor += advance
	}
	return entries, totalUncompressed
}

// extractGzip reads the member header for the original name and mtime and
// decompresses up to gzipDecompressCap bytes to measure the uncompressed
// size.
func (e *ArchiveExtractor) extractGzip(handle *types.FileHandle, record *types.MetadataRecord) error {
	reader, err := gzip.NewReader(bytes.NewReader(handle.Data))
	if err != nil {
		return fmt.Errorf("%w: gzip header: %v", ErrStructuralParse, err)
	}
	defer reader.Close()

	if reader.Name != "" {
		record.Tag("gzip_name", reader.Name)
	}
	if !reader.ModTime.IsZero() {
		record.Tag("gzip_mtime", reader.ModTime.UTC().Format(time.RFC3339))
	}

	uncompressed, err := io.Copy(io.Discard, io.LimitReader(reader, gzipDecompressCap))
	if err != nil {
		return fmt.Errorf("%w: gzip stream: %v", ErrStructuralParse, err)
	}
	if uncompressed > 0 {
		ratio := round2(float64(handle.Size) / float64(uncompressed))
		record.Content.CompressionRatio = &ratio
	}
	return nil
}
