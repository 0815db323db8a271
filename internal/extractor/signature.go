package extractor

import (
	"bytes"
	"fmt"
	"math"
)

// REF: https://en.wikipedia.org/wiki/List_of_file_signatures

const (
	// signatureBytes is how many leading bytes make up the hex signature.
	signatureBytes = 16

	// entropySampleCap bounds the entropy histogram to the first 1 MiB.
	entropySampleCap = 1 << 20

	// encryptedEntropyThreshold is the bits-per-byte level above which a
	// buffer is flagged as likely encrypted.
	encryptedEntropyThreshold = 7.5
)

// Magic prefixes of container formats that commonly wrap encrypted
// payloads. ZIP is handled separately: the bare PK magic is far too common
// to flag, so the local header's encryption bit is checked instead.
var encryptedContainerMagics = [][]byte{
	{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C},             // 7z
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00},       // RAR v4
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}, // RAR v5
}

// Signature renders the first 16 bytes of the buffer as space-separated
// uppercase hex, e.g. "89 50 4E 47 0D 0A 1A 0A ...". Empty input yields "".
func Signature(sampler *ByteSampler) string {
	head := sampler.Prefix(signatureBytes)
	if len(head) == 0 {
		return ""
	}
	return fmt.Sprintf("% X", head)
}

// Entropy computes the Shannon entropy, in bits per byte, of a prefix of at
// most 1 MiB, rounded to 2 decimal places. An empty sample yields 0.
func Entropy(sampler *ByteSampler) float64 {
	sample := sampler.Prefix(entropySampleCap)
	if len(sample) == 0 {
		return 0
	}

	var freq [256]int
	for _, b := range sample {
		freq[b]++
	}

	total := float64(len(sample))
	entropy := 0.0
	for _, count := range freq {
		if count == 0 {
			continue
		}
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}

	return round2(entropy)
}

// LikelyEncrypted reports whether the buffer looks like an encrypted
// payload. This is a heuristic, not proof: it fires on the magic bytes of
// containers that commonly carry encrypted data (7z, RAR, a ZIP whose first
// entry has the encryption bit set) or on entropy above 7.5 bits/byte.
// Compressed media routinely trips the entropy arm.
func LikelyEncrypted(sampler *ByteSampler, entropy float64) bool {
	head := sampler.Prefix(signatureBytes)
	for _, magic := range encryptedContainerMagics {
		if len(head) >= len(magic) && bytes.Equal(head[:len(magic)], magic) {
			return true
		}
	}

	// ZIP local header: general-purpose bit 0 marks an encrypted entry.
	if len(head) >= 8 && bytes.Equal(head[:4], zipLocalHeaderMagic) && head[6]&0x1 != 0 {
		return true
	}

	return entropy > encryptedEntropyThreshold
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
