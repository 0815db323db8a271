package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestSignature_Empty(t *testing.T) {
	assert.Equal(t, "", Signature(NewByteSampler(nil)))
	assert.Equal(t, "", Signature(NewByteSampler([]byte{})))
}

func TestSignature_PNGHeader(t *testing.T) {
	data := append(append([]byte{}, pngHeader...), 0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R')
	sig := Signature(NewByteSampler(data))
	assert.Equal(t, "89 50 4E 47 0D 0A 1A 0A 00 00 00 0D 49 48 44 52", sig)
}

func TestSignature_ShortBuffer(t *testing.T) {
	sig := Signature(NewByteSampler([]byte{0xFF, 0xD8}))
	assert.Equal(t, "FF D8", sig)
}

func TestEntropy_AllZeros(t *testing.T) {
	assert.Equal(t, 0.0, Entropy(NewByteSampler(make([]byte, 4096))))
	assert.Equal(t, 0.0, Entropy(NewByteSampler(make([]byte, 1))))
	assert.Equal(t, 0.0, Entropy(NewByteSampler(nil)))
}

func TestEntropy_UniformDistribution(t *testing.T) {
	data := make([]byte, 65536)
	for i := range data {
		data[i] = byte(i % 256)
	}
	entropy := Entropy(NewByteSampler(data))
	assert.InDelta(t, 8.0, entropy, 0.05)
}

func TestEntropy_SingleSymbolPair(t *testing.T) {
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i % 2)
	}
	assert.Equal(t, 1.0, Entropy(NewByteSampler(data)))
}

func TestLikelyEncrypted_ContainerMagics(t *testing.T) {
	sevenZip := []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C, 0x00, 0x04}
	assert.True(t, LikelyEncrypted(NewByteSampler(sevenZip), 2.0))

	rar4 := []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00, 0x00}
	assert.True(t, LikelyEncrypted(NewByteSampler(rar4), 2.0))
}

func TestLikelyEncrypted_ZIPEncryptionBit(t *testing.T) {
	// Local header with general-purpose bit 0 set.
	encrypted := []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x01, 0x00}
	assert.True(t, LikelyEncrypted(NewByteSampler(encrypted), 2.0))

	plain := []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x00, 0x00}
	assert.False(t, LikelyEncrypted(NewByteSampler(plain), 2.0))
}

func TestLikelyEncrypted_EntropyThreshold(t *testing.T) {
	text := []byte("just some ordinary words, nothing to see")
	assert.False(t, LikelyEncrypted(NewByteSampler(text), 4.2))
	assert.True(t, LikelyEncrypted(NewByteSampler(text), 7.82))
}

func TestByteSampler_PrefixClamps(t *testing.T) {
	s := NewByteSampler([]byte{1, 2, 3})
	assert.Len(t, s.Prefix(2), 2)
	assert.Len(t, s.Prefix(10), 3)
	assert.Len(t, s.Prefix(-1), 0)
	assert.Equal(t, 3, s.Len())
	assert.Len(t, s.FullBytes(), 3)
}
