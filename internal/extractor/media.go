package extractor

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/abema/go-mp4"
	tcmp3 "github.com/tcolgate/mp3"

	"github.com/metascope/go-file-inspect/internal/logger"
	"github.com/metascope/go-file-inspect/internal/types"
)

// MediaExtractor attempts a bounded decode of audio/video containers to
// obtain duration and, for video, pixel dimensions. Bitrate is derived from
// file size and duration rather than decoded. Timeout or decode failure
// leaves every media field absent without failing the pipeline.
type MediaExtractor struct{}

func (e *MediaExtractor) Name() string { return "media" }

func (e *MediaExtractor) CanHandle(name, mimeType string) bool {
	mt := strings.ToLower(mimeType)
	return strings.HasPrefix(mt, "audio/") || strings.HasPrefix(mt, "video/")
}

func (e *MediaExtractor) Extract(ctx context.Context, handle *types.FileHandle, record *types.MetadataRecord) error {
	err := runBounded(ctx, func() error {
		switch {
		case e.isMP3(handle):
			return e.decodeMP3(handle, record)
		case e.isMP4(handle):
			return e.decodeMP4(handle, record)
		default:
			return fmt.Errorf("%w: no decoder for %q", ErrDecodeFailure, handle.MIMEType)
		}
	})
	if err != nil {
		return err
	}

	if record.Media.DurationSeconds != nil && *record.Media.DurationSeconds > 0 {
		bitrate := DeriveBitrate(handle.Size, *record.Media.DurationSeconds)
		record.Media.BitrateBPS = &bitrate
	}
	return nil
}

func (e *MediaExtractor) isMP3(handle *types.FileHandle) bool {
	return strings.Contains(strings.ToLower(handle.MIMEType), "mpeg") || lowerExt(handle.Name) == ".mp3"
}

func (e *MediaExtractor) isMP4(handle *types.FileHandle) bool {
	mt := strings.ToLower(handle.MIMEType)
	if strings.Contains(mt, "mp4") || strings.Contains(mt, "quicktime") {
		return true
	}
	switch lowerExt(handle.Name) {
	case ".mp4", ".m4a", ".m4v", ".mov":
		return true
	}
	return false
}

// decodeMP3 walks MPEG audio frames and sums their durations.
func (e *MediaExtractor) decodeMP3(handle *types.FileHandle, record *types.MetadataRecord) error {
	decoder := tcmp3.NewDecoder(bytes.NewReader(handle.Data))

	var frame tcmp3.Frame
	var skipped int
	var total time.Duration
	frames := 0
	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			break
		}
		total += frame.Duration()
		frames++
	}

	if frames == 0 || total <= 0 {
		return fmt.Errorf("%w: no decodable mpeg frames", ErrDecodeFailure)
	}

	duration := round2(total.Seconds())
	record.Media.DurationSeconds = &duration
	logger.Debugf("mp3 decode for %s: %d frames, %.2fs", handle.Name, frames, duration)
	return nil
}

// decodeMP4 probes the box structure for movie duration and, when an AVC
// track is present, video dimensions.
func (e *MediaExtractor) decodeMP4(handle *types.FileHandle, record *types.MetadataRecord) error {
	info, err := mp4.Probe(bytes.NewReader(handle.Data))
	if err != nil {
		return fmt.Errorf("%w: mp4 probe: %v", ErrDecodeFailure, err)
	}
	if info.Timescale == 0 {
		return fmt.Errorf("%w: mp4 movie header missing timescale", ErrStructuralParse)
	}

	duration := round2(float64(info.Duration) / float64(info.Timescale))
	record.Media.DurationSeconds = &duration

	for _, track := range info.Tracks {
		if track.AVC == nil {
			continue
		}
		width, height := int(track.AVC.Width), int(track.AVC.Height)
		if width > 0 && height > 0 {
			record.Media.Width = &width
			record.Media.Height = &height
			ratio := AspectRatio(width, height)
			record.Media.AspectRatio = &ratio
			break
		}
	}

	logger.Debugf("mp4 probe for %s: %.2fs, %d tracks", handle.Name, duration, len(info.Tracks))
	return nil
}

// DeriveBitrate computes whole bits per second from file size and duration.
// Callers must only pass a positive duration.
func DeriveBitrate(sizeBytes int64, durationSeconds float64) int64 {
	return int64(math.Round(float64(sizeBytes) * 8 / durationSeconds))
}
