package types

import (
	"path/filepath"
	"strings"
	"time"
)

// FileHandle is an immutable reference to one submitted file: the raw byte
// buffer plus whatever the caller declared about it. It is created once per
// submission and never mutated by the engine.
type FileHandle struct {
	Name         string
	MIMEType     string
	Size         int64
	LastModified time.Time
	Data         []byte
}

// Extension returns the lowercased filename extension without the dot,
// or "" when the name has none.
func (h *FileHandle) Extension() string {
	ext := strings.ToLower(filepath.Ext(h.Name))
	return strings.TrimPrefix(ext, ".")
}

// MetadataRecord aggregates everything the extraction pipeline learned about
// one file. Fields are pointers so that absence carries meaning: a field is
// set only when its extractor applied to the file and succeeded. Consumers
// must treat nil as "omit", never as zero or false.
type MetadataRecord struct {
	Identity   Identity          `json:"identity"`
	Technical  Technical         `json:"technical"`
	Security   Security          `json:"security"`
	Media      Media             `json:"media"`
	Content    Content           `json:"content"`
	Authorship Authorship        `json:"authorship"`
	RawTags    map[string]string `json:"raw_tags,omitempty"`
}

// Identity fields come straight from the FileHandle and are always present.
type Identity struct {
	Name         string     `json:"name"`
	MIMEType     string     `json:"mime_type"`
	SizeBytes    int64      `json:"size_bytes"`
	Extension    string     `json:"extension,omitempty"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

// Technical fields are produced by the universal analyzers.
type Technical struct {
	Signature           *string  `json:"signature,omitempty"`
	Entropy             *float64 `json:"entropy,omitempty"`
	Encoding            *string  `json:"encoding,omitempty"`
	Executable          *bool    `json:"executable,omitempty"`
	LikelyEncrypted     *bool    `json:"likely_encrypted,omitempty"`
	HasEmbeddedMetadata *bool    `json:"has_embedded_metadata,omitempty"`
	ProcessingMillis    *float64 `json:"processing_ms,omitempty"`
}

// Security holds the content-addressed digests.
type Security struct {
	SHA256  *string `json:"sha256,omitempty"`
	MD5     *string `json:"md5,omitempty"`
	SHA3256 *string `json:"sha3_256,omitempty"`
	XXH64   *string `json:"xxh64,omitempty"`
}

// Media fields are populated by the image and audio/video extractors.
type Media struct {
	Width           *int     `json:"width,omitempty"`
	Height          *int     `json:"height,omitempty"`
	AspectRatio     *string  `json:"aspect_ratio,omitempty"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
	BitrateBPS      *int64   `json:"bitrate_bps,omitempty"`
	ColorDepthBits  *int     `json:"color_depth_bits,omitempty"`
	HasAlpha        *bool    `json:"has_alpha,omitempty"`
	DPI             *int     `json:"dpi,omitempty"`
}

// Content fields describe textual or structural content.
type Content struct {
	WordCount        *int     `json:"word_count,omitempty"`
	CharCount        *int     `json:"char_count,omitempty"`
	LineCount        *int     `json:"line_count,omitempty"`
	PageCount        *int     `json:"page_count,omitempty"`
	Language         *string  `json:"language,omitempty"`
	CompressionRatio *float64 `json:"compression_ratio,omitempty"`
}

// Authorship fields come from embedded document/image metadata.
type Authorship struct {
	Creator  *string  `json:"creator,omitempty"`
	Subject  *string  `json:"subject,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Tag records a format-native metadata tag in the raw tag map, allocating
// the map on first use.
func (r *MetadataRecord) Tag(key, value string) {
	if r.RawTags == nil {
		r.RawTags = make(map[string]string)
	}
	r.RawTags[key] = value
}

// ReportStats summarizes one report of inspected files.
type ReportStats struct {
	FilesInspected int            `json:"files_inspected"`
	TotalBytes     int64          `json:"total_bytes"`
	FilesByMIME    map[string]int `json:"files_by_mime,omitempty"`
	Errors         int            `json:"errors"`
}
