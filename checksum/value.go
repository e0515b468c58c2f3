package checksum

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"xdao.co/qsum/digest"
	"xdao.co/qsum/typemap"
)

// Checksum wraps the raw bytes of a computed checksum: a 2-byte type prefix
// followed by the content digest. It is immutable; equality is defined purely
// on these bytes, never on the value that produced them.
type Checksum struct {
	b []byte
}

// FromBytes wraps existing checksum bytes, validating shape and prefix.
func FromBytes(b []byte) (Checksum, error) {
	if _, err := typemap.FromChecksum(b); err != nil {
		return Checksum{}, invalidChecksum(err)
	}
	return Checksum{b: bytes.Clone(b)}, nil
}

// FromHex wraps a hex-encoded checksum.
func FromHex(s string) (Checksum, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Checksum{}, wrapError(KindInvalidChecksum, "QSUM-SUM-004", "checksum hex is malformed", err)
	}
	return FromBytes(b)
}

// From wraps a checksum-like value: raw bytes, a hex string, or another
// Checksum.
func From(v any) (Checksum, error) {
	switch c := v.(type) {
	case Checksum:
		return c, nil
	case []byte:
		return FromBytes(c)
	case string:
		return FromHex(c)
	}
	return Checksum{}, newError(KindInvalidChecksum, "QSUM-SUM-005",
		fmt.Sprintf("%T is not a checksum-like value", v))
}

func invalidChecksum(err error) error {
	switch err {
	case typemap.ErrShortChecksum:
		return wrapError(KindInvalidChecksum, "QSUM-SUM-001", "checksum too short", err)
	case typemap.ErrInvalidPrefix:
		return wrapError(KindInvalidChecksum, "QSUM-SUM-002", "checksum carries the reserved invalid prefix", err)
	default:
		return wrapError(KindInvalidChecksum, "QSUM-SUM-003", "checksum prefix not in registry", err)
	}
}

// Bytes returns a copy of the raw checksum bytes.
func (c Checksum) Bytes() []byte {
	return bytes.Clone(c.b)
}

// Digest returns a copy of the content digest with the type prefix stripped.
func (c Checksum) Digest() []byte {
	if len(c.b) <= typemap.PrefixBytes {
		return nil
	}
	return bytes.Clone(c.b[typemap.PrefixBytes:])
}

// Hex returns the lossless hex rendering of the full checksum.
func (c Checksum) Hex() string {
	return hex.EncodeToString(c.b)
}

// TypeName recovers the logical type of the checksummed value from the
// prefix.
func (c Checksum) TypeName() (typemap.Name, error) {
	n, err := typemap.FromChecksum(c.b)
	if err != nil {
		return "", invalidChecksum(err)
	}
	return n, nil
}

// String renders the recovered type name and the content digest hex, for
// human inspection.
func (c Checksum) String() string {
	n, err := typemap.FromChecksum(c.b)
	if err != nil {
		return "Checksum(invalid:" + c.Hex() + ")"
	}
	return fmt.Sprintf("Checksum(%s:%s)", n, hex.EncodeToString(c.b[typemap.PrefixBytes:]))
}

// Equal reports byte equality with another Checksum.
func (c Checksum) Equal(other Checksum) bool {
	return bytes.Equal(c.b, other.b)
}

// EqualBytes reports equality against raw checksum bytes.
func (c Checksum) EqualBytes(b []byte) bool {
	return bytes.Equal(c.b, b)
}

// EqualHex reports equality against a hex rendering.
func (c Checksum) EqualHex(s string) bool {
	b, err := hex.DecodeString(s)
	if err != nil {
		return false
	}
	return bytes.Equal(c.b, b)
}

// Combine folds two checksums into one tagged as a checksum collection,
// without recomputing from the original values. The collection prefix is
// distinct from every data prefix, so a combined checksum can never collide
// with a directly computed one.
func (c Checksum) Combine(other Checksum) Checksum {
	prefix, _ := typemap.NameChecksums.PrefixOf()
	payload := make([]byte, 0, len(c.b)+len(other.b))
	payload = append(payload, c.b...)
	payload = append(payload, other.b...)
	// Default never fails to digest.
	d, _ := digest.Default.Sum(payload)
	return Checksum{b: append(prefix.Bytes(), d...)}
}
