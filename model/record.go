// Package model defines stable boundary types for external surfaces.
//
// Checksum identity (the raw prefix||digest bytes) is unaffected by any
// projection. These structs are the only types intended for direct JSON
// serialization by consumers.
package model

import (
	"xdao.co/qsum/checksum"
	"xdao.co/qsum/digest"
	"xdao.co/qsum/typemap"
)

// ChecksumRecord is the JSON projection of a computed checksum.
type ChecksumRecord struct {
	Type      string `json:"type"`
	Hex       string `json:"hex"`
	Digest    string `json:"digest"`
	Algorithm string `json:"algorithm"`
	CID       string `json:"cid,omitempty"`
}

// NewChecksumRecord projects a checksum. The CID field is left empty; callers
// that want the CID projection fill it in explicitly.
func NewChecksumRecord(c checksum.Checksum, algo digest.Algorithm) (ChecksumRecord, error) {
	name, err := c.TypeName()
	if err != nil {
		return ChecksumRecord{}, err
	}
	a, err := digest.Resolve(string(algo))
	if err != nil {
		return ChecksumRecord{}, err
	}
	full := c.Hex()
	return ChecksumRecord{
		Type:      string(name),
		Hex:       full,
		Digest:    full[2*typemap.PrefixBytes:],
		Algorithm: string(a),
	}, nil
}
