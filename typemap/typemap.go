// Package typemap defines the fixed prefix table for checksummable types.
//
// Every registered type owns a 2-byte prefix so that two checksums can only
// compare equal when both the type tag and the content digest match. Prefixes
// are grouped:
//
//	0x00: scalar types that represent individual values
//	0x01: containers and collections
//	0x02: checksum collections (tags produced by combining checksums)
//
// Two prefixes are reserved and must never be assigned to a real type:
// 0xFFFE marks an unregistered type (the type's identity is folded into the
// content digest instead) and 0xFFFF is the invalid sentinel.
//
// The table is fixed at startup and never mutated afterward; extension
// happens by adding entries here, not through a runtime API.
package typemap

// PrefixBytes is the fixed width of a type prefix.
const PrefixBytes = 2

// Prefix is a fixed-width type tag. The leading PrefixBytes bytes of every
// checksum are a Prefix.
type Prefix [PrefixBytes]byte

// Bytes returns the prefix as a slice.
func (p Prefix) Bytes() []byte {
	return []byte{p[0], p[1]}
}

// Reserved prefixes. Neither may appear in the registry table.
var (
	// InvalidPrefix signals an invalid or uncomputed checksum.
	InvalidPrefix = Prefix{0xff, 0xff}

	// UnregisteredPrefix tags checksums of types without a registry entry.
	// The payload must fold the actual type identity into the content
	// digest, since the prefix alone cannot disambiguate it.
	UnregisteredPrefix = Prefix{0xff, 0xfe}
)

// Name is the stable logical name of a registered type.
type Name string

const (
	// 0x00: scalar types.
	NameInt     Name = "int"
	NameString  Name = "string"
	NameBool    Name = "bool"
	NameBytes   Name = "bytes"
	NameFloat   Name = "float"
	NameComplex Name = "complex"
	NameNil     Name = "nil"
	NameType    Name = "type"
	NameUint    Name = "uint"
	NameFunc    Name = "func"

	// 0x01: containers and collections.
	NameTuple Name = "tuple"
	NameList  Name = "list"
	NameRing  Name = "ring"
	NameMap   Name = "map"
	NameSet   Name = "set"

	// 0x02: checksum collections.
	NameChecksums Name = "checksums"

	// NameUnregistered is the logical name recovered from
	// UnregisteredPrefix. It never appears in the forward table.
	NameUnregistered Name = "unregistered"
)

var prefixByName = map[Name]Prefix{
	NameInt:     {0x00, 0x00},
	NameString:  {0x00, 0x01},
	NameBool:    {0x00, 0x02},
	NameBytes:   {0x00, 0x03},
	NameFloat:   {0x00, 0x04},
	NameComplex: {0x00, 0x05},
	NameNil:     {0x00, 0x06},
	NameType:    {0x00, 0x07},
	NameUint:    {0x00, 0x08},
	NameFunc:    {0x00, 0x09},

	NameTuple: {0x01, 0x00},
	NameList:  {0x01, 0x01},
	NameRing:  {0x01, 0x02},
	NameMap:   {0x01, 0x03},
	NameSet:   {0x01, 0x04},

	NameChecksums: {0x02, 0x00},
}

var nameByPrefix = func() map[Prefix]Name {
	inv := make(map[Prefix]Name, len(prefixByName)+1)
	for n, p := range prefixByName {
		inv[p] = n
	}
	inv[UnregisteredPrefix] = NameUnregistered
	return inv
}()

// PrefixOf returns the registered prefix for a logical type name.
func (n Name) PrefixOf() (Prefix, bool) {
	p, ok := prefixByName[n]
	return p, ok
}

// NameOf returns the logical type name owning the given prefix. The
// unregistered prefix resolves to NameUnregistered; the invalid sentinel
// resolves to nothing.
func NameOf(p Prefix) (Name, bool) {
	n, ok := nameByPrefix[p]
	return n, ok
}

// Registered reports whether the logical name has a forward table entry.
func Registered(n Name) bool {
	_, ok := prefixByName[n]
	return ok
}

// Names returns every logical name in the forward table. Intended for
// table-integrity tests; order is unspecified.
func Names() []Name {
	out := make([]Name, 0, len(prefixByName))
	for n := range prefixByName {
		out = append(out, n)
	}
	return out
}

// FromChecksum recovers the logical type name from checksum bytes by inverse
// lookup on the leading prefix.
func FromChecksum(sum []byte) (Name, error) {
	if len(sum) < PrefixBytes+1 {
		return "", ErrShortChecksum
	}
	p := Prefix{sum[0], sum[1]}
	if p == InvalidPrefix {
		return "", ErrInvalidPrefix
	}
	n, ok := nameByPrefix[p]
	if !ok {
		return "", ErrUnknownPrefix
	}
	return n, nil
}
