package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileHandle_Extension(t *testing.T) {
	assert.Equal(t, "txt", (&FileHandle{Name: "notes.TXT"}).Extension())
	assert.Equal(t, "gz", (&FileHandle{Name: "archive.tar.gz"}).Extension())
	assert.Equal(t, "", (&FileHandle{Name: "Makefile"}).Extension())
}

func TestMetadataRecord_Tag(t *testing.T) {
	r := &MetadataRecord{}
	r.Tag("camera", "X100V")
	r.Tag("software", "darktable")

	assert.Equal(t, "X100V", r.RawTags["camera"])
	assert.Len(t, r.RawTags, 2)
}
