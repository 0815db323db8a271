package extractor

import (
	"crypto/md5"
	"crypto/sha256"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/sha3"
)

// Digests holds the content-addressed fingerprints of one buffer. All are
// deterministic functions of the bytes alone; name, type, and timestamps
// never influence them.
type Digests struct {
	SHA256  string
	MD5     string
	SHA3256 string
	XXH64   string
}

// ComputeDigests hashes the full byte buffer with each configured
// algorithm. SHA-256 and MD5 are the advertised pair; SHA3-256 adds a
// structurally different construction, and XXH64 is a fast non-cryptographic
// fingerprint for dedup-style comparisons.
func ComputeDigests(data []byte) Digests {
	sha := sha256.Sum256(data)
	md := md5.Sum(data)
	sha3Sum := sha3.Sum256(data)

	return Digests{
		SHA256:  fmt.Sprintf("%x", sha),
		MD5:     fmt.Sprintf("%x", md),
		SHA3256: fmt.Sprintf("%x", sha3Sum),
		XXH64:   fmt.Sprintf("%016x", xxhash.Sum64(data)),
	}
}
