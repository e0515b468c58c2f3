// Package digest provides the pluggable hash primitive behind checksums: a
// fixed table of named algorithms, each mapping a byte sequence to a
// fixed-length digest. The digest length is a property of the algorithm, not
// of the callers; checksum consumers derive total lengths from Size.
//
// Every algorithm also carries its multihash code so checksums can be
// projected into CIDs without guessing.
package digest

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"github.com/cloudflare/circl/xof"
	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// Algorithm names a digest algorithm. The zero value is not valid; use
// Default when the caller does not care.
type Algorithm string

const (
	SHA256     Algorithm = "sha256"
	SHA512     Algorithm = "sha512"
	SHA3256    Algorithm = "sha3-256"
	Blake2b256 Algorithm = "blake2b-256"
	Blake3     Algorithm = "blake3"
	Shake256   Algorithm = "shake256"

	// Default is the algorithm used when none is selected.
	Default = SHA256
)

type entry struct {
	size int
	code uint64
	sum  func([]byte) []byte
}

var table = map[Algorithm]entry{
	SHA256: {size: sha256.Size, code: multihash.SHA2_256, sum: func(b []byte) []byte {
		s := sha256.Sum256(b)
		return s[:]
	}},
	SHA512: {size: sha512.Size, code: multihash.SHA2_512, sum: func(b []byte) []byte {
		s := sha512.Sum512(b)
		return s[:]
	}},
	SHA3256: {size: 32, code: multihash.SHA3_256, sum: func(b []byte) []byte {
		s := sha3.Sum256(b)
		return s[:]
	}},
	Blake2b256: {size: blake2b.Size256, code: multihash.BLAKE2B_MIN + 31, sum: func(b []byte) []byte {
		s := blake2b.Sum256(b)
		return s[:]
	}},
	Blake3: {size: 32, code: multihash.BLAKE3, sum: func(b []byte) []byte {
		s := blake3.Sum256(b)
		return s[:]
	}},
	Shake256: {size: 32, code: multihash.SHAKE_256, sum: func(b []byte) []byte {
		x := xof.SHAKE256.New()
		_, _ = x.Write(b)
		out := make([]byte, 32)
		_, _ = x.Read(out)
		return out
	}},
}

// Resolve validates an algorithm name, mapping the empty string to Default.
func Resolve(name string) (Algorithm, error) {
	if name == "" {
		return Default, nil
	}
	a := Algorithm(name)
	if _, ok := table[a]; !ok {
		return "", fmt.Errorf("digest: unsupported algorithm %q", name)
	}
	return a, nil
}

// Valid reports whether the algorithm is in the table.
func (a Algorithm) Valid() bool {
	_, ok := table[a]
	return ok
}

// Size returns the digest length in bytes.
func (a Algorithm) Size() (int, error) {
	s, ok := table[a]
	if !ok {
		return 0, fmt.Errorf("digest: unsupported algorithm %q", string(a))
	}
	return s.size, nil
}

// Sum digests the given bytes.
func (a Algorithm) Sum(data []byte) ([]byte, error) {
	s, ok := table[a]
	if !ok {
		return nil, fmt.Errorf("digest: unsupported algorithm %q", string(a))
	}
	return s.sum(data), nil
}

// MultihashCode returns the multihash function code for the algorithm.
func (a Algorithm) MultihashCode() (uint64, error) {
	s, ok := table[a]
	if !ok {
		return 0, fmt.Errorf("digest: unsupported algorithm %q", string(a))
	}
	return s.code, nil
}

// Algorithms lists every supported algorithm. Order is unspecified.
func Algorithms() []Algorithm {
	out := make([]Algorithm, 0, len(table))
	for a := range table {
		out = append(out, a)
	}
	return out
}
