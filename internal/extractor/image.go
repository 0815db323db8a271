package extractor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/metascope/go-file-inspect/internal/logger"
	"github.com/metascope/go-file-inspect/internal/types"
)

// pixelSampleCap bounds pixel inspection to a 100x100 sampling grid.
const pixelSampleCap = 100

// ImageExtractor decodes raster images for dimensions, samples pixels for
// alpha and color depth, and lifts EXIF tags into authorship fields and the
// raw tag map. A corrupt or unsupported image leaves every field absent
// without failing the pipeline.
type ImageExtractor struct{}

func (e *ImageExtractor) Name() string { return "image" }

func (e *ImageExtractor) CanHandle(name, mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}

func (e *ImageExtractor) Extract(ctx context.Context, handle *types.FileHandle, record *types.MetadataRecord) error {
	// EXIF is parsed independently of pixel decoding so that a corrupt
	// pixel stream does not cost us the embedded tags, and vice versa.
	e.extractTags(handle.Data, record)

	var img image.Image
	var format string
	err := runBounded(ctx, func() error {
		decoded, decodedFormat, decodeErr := image.Decode(bytes.NewReader(handle.Data))
		if decodeErr != nil {
			return fmt.Errorf("%w: %v", ErrDecodeFailure, decodeErr)
		}
		img = decoded
		format = decodedFormat
		return nil
	})
	if err != nil {
		return err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	record.Media.Width = &width
	record.Media.Height = &height

	ratio := AspectRatio(width, height)
	record.Media.AspectRatio = &ratio

	hasAlpha, depth := samplePixels(img)
	record.Media.HasAlpha = &hasAlpha
	record.Media.ColorDepthBits = &depth

	logger.Debugf("image extraction for %s: %s %dx%d, depth=%d-bit, alpha=%v",
		handle.Name, format, width, height, depth, hasAlpha)
	return nil
}

// extractTags parses EXIF metadata and maps the recognized tags onto
// authorship fields and DPI. Every readable tag also lands in the raw map.
func (e *ImageExtractor) extractTags(data []byte, record *types.MetadataRecord) {
	meta, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return
	}

	_ = meta.Walk(tagWalker{record: record})

	if tag, err := meta.Get(exif.Artist); err == nil {
		if artist, err := tag.StringVal(); err == nil && artist != "" {
			record.Authorship.Creator = &artist
		}
	}
	if tag, err := meta.Get(exif.ImageDescription); err == nil {
		if desc, err := tag.StringVal(); err == nil && desc != "" {
			record.Authorship.Subject = &desc
		}
	}
	if tag, err := meta.Get(exif.XResolution); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			dpi := int(num / den)
			if dpi > 0 {
				record.Media.DPI = &dpi
			}
		}
	}
}

// tagWalker copies every EXIF field into the record's raw tag map.
type tagWalker struct {
	record *types.MetadataRecord
}

func (w tagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	value := strings.Trim(tag.String(), `"`)
	if value != "" {
		w.record.Tag(string(name), value)
	}
	return nil
}

// samplePixels walks at most a 100x100 grid over the image, reporting
// whether any sampled pixel is less than fully opaque and estimating color
// depth from the count of distinct RGB colors seen. The count short-circuits
// to 24-bit once it exceeds 65536 colors.
func samplePixels(img image.Image) (hasAlpha bool, depthBits int) {
	bounds := img.Bounds()
	// Ceiling division keeps the grid at no more than 100 points per axis.
	stepX := (bounds.Dx() + pixelSampleCap - 1) / pixelSampleCap
	if stepX < 1 {
		stepX = 1
	}
	stepY := (bounds.Dy() + pixelSampleCap - 1) / pixelSampleCap
	if stepY < 1 {
		stepY = 1
	}

	colors := make(map[uint32]struct{})
	overflowed := false

	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			r, g, b, a := img.At(x, y).RGBA()
			if a < 0xFFFF {
				hasAlpha = true
			}
			if overflowed {
				continue
			}
			key := (r>>8)<<16 | (g>>8)<<8 | b>>8
			colors[key] = struct{}{}
			if len(colors) > 65536 {
				overflowed = true
			}
		}
	}

	switch {
	case overflowed:
		depthBits = 24
	case len(colors) <= 2:
		depthBits = 1
	case len(colors) <= 16:
		depthBits = 4
	case len(colors) <= 256:
		depthBits = 8
	case len(colors) <= 65536:
		depthBits = 16
	default:
		depthBits = 24
	}
	return hasAlpha, depthBits
}

// AspectRatio reduces width:height by their greatest common divisor,
// rendered as "W:H".
func AspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return fmt.Sprintf("%d:%d", width, height)
	}
	d := gcd(width, height)
	return fmt.Sprintf("%d:%d", width/d, height/d)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
