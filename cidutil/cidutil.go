// Package cidutil projects checksums into IPFS-compatible CIDs.
//
// The projection is an identifier convenience: the CID's multihash wraps the
// checksum's content digest under the code of the algorithm that produced it,
// so CID equality tracks checksum content equality. No storage or transport
// semantics are implied.
package cidutil

import (
	"errors"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"xdao.co/qsum/checksum"
	"xdao.co/qsum/digest"
)

// ErrEmptyChecksum is returned when the checksum carries no content digest.
var ErrEmptyChecksum = errors.New("cidutil: checksum has no content digest")

// ErrDigestSizeMismatch is returned when the checksum's content digest does
// not have the length the declared algorithm produces. Encoding such a pair
// would mint a CID whose multihash code misstates the digest's provenance.
var ErrDigestSizeMismatch = errors.New("cidutil: digest length does not match algorithm")

// ForChecksum returns a CIDv1 (raw codec) whose multihash carries the
// checksum's content digest under the given algorithm's multihash code.
// An empty algorithm selects digest.Default.
func ForChecksum(c checksum.Checksum, algo digest.Algorithm) (cid.Cid, error) {
	a, err := digest.Resolve(string(algo))
	if err != nil {
		return cid.Undef, err
	}
	code, err := a.MultihashCode()
	if err != nil {
		return cid.Undef, err
	}
	d := c.Digest()
	if len(d) == 0 {
		return cid.Undef, ErrEmptyChecksum
	}
	size, err := a.Size()
	if err != nil {
		return cid.Undef, err
	}
	if len(d) != size {
		return cid.Undef, ErrDigestSizeMismatch
	}
	mh, err := multihash.Encode(d, code)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// StringForChecksum is ForChecksum rendered as a CID string.
func StringForChecksum(c checksum.Checksum, algo digest.Algorithm) (string, error) {
	id, err := ForChecksum(c, algo)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
