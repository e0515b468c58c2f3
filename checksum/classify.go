package checksum

import (
	"container/list"
	"fmt"
	"reflect"

	"xdao.co/qsum/typemap"
)

// Tuple is the ordered heterogeneous container. Element order is
// semantically meaningful: permuting a Tuple changes its checksum.
type Tuple []any

// Set is the unordered container. Construction order is not semantically
// meaningful: any permutation of the same elements checksums identically.
type Set []any

// SourceRepresentable is the opt-in capability for function-like values.
// Implementations expose enough identity to checksum behavior: the source
// text, an attribute mapping, and the name of the declaring scope.
//
// Source text is stripped of leading and trailing whitespace before hashing.
// Interior per-line whitespace still changes the checksum; that imprecision
// is part of the stability contract and must not be "fixed".
type SourceRepresentable interface {
	SourceText() string
	Attributes() map[string]any
	DeclaringScopeName() string
}

type class int

const (
	classScalar class = iota
	classOrdered
	classUnordered
	classMapping
	classStruct
	classSource
)

// typeInfo is the per-type classification computed once per dispatch: which
// registered logical name (if any) owns the prefix, how the value's contents
// are combined, and the runtime type for unregistered identity folding.
type typeInfo struct {
	name  typemap.Name // empty for unregistered-but-structural types
	class class
	rtype reflect.Type // nil only for nil values
}

func (i typeInfo) registered() bool { return i.name != "" }

var (
	bytesType = reflect.TypeOf([]byte(nil))
	tupleType = reflect.TypeOf(Tuple(nil))
	setType   = reflect.TypeOf(Set(nil))
	ringType  = reflect.TypeOf((*list.List)(nil))
)

// classify resolves a value to its checksum dispatch entry. Types with no
// registry entry that structurally match a container family come back as
// unregistered entries; everything else unknown is an UnsupportedType error.
func classify(v any) (typeInfo, error) {
	if v == nil {
		return typeInfo{name: typemap.NameNil, class: classScalar}, nil
	}

	switch v.(type) {
	case Checksum:
		return typeInfo{}, newError(KindInvalidData, "QSUM-DATA-001",
			"checksums are not data values; use Combine to fold checksums together")
	case reflect.Type:
		return typeInfo{name: typemap.NameType, class: classScalar, rtype: reflect.TypeOf(v)}, nil
	}
	if _, ok := v.(SourceRepresentable); ok {
		return typeInfo{name: typemap.NameFunc, class: classSource, rtype: reflect.TypeOf(v)}, nil
	}

	t := reflect.TypeOf(v)
	switch t {
	case tupleType:
		return typeInfo{name: typemap.NameTuple, class: classOrdered, rtype: t}, nil
	case setType:
		return typeInfo{name: typemap.NameSet, class: classUnordered, rtype: t}, nil
	case ringType:
		return typeInfo{name: typemap.NameRing, class: classOrdered, rtype: t}, nil
	case bytesType:
		return typeInfo{name: typemap.NameBytes, class: classScalar, rtype: t}, nil
	}

	predeclared := t.PkgPath() == ""
	switch t.Kind() {
	case reflect.Bool:
		if predeclared {
			return typeInfo{name: typemap.NameBool, class: classScalar, rtype: t}, nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if predeclared {
			return typeInfo{name: typemap.NameInt, class: classScalar, rtype: t}, nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if predeclared {
			return typeInfo{name: typemap.NameUint, class: classScalar, rtype: t}, nil
		}
	case reflect.Float32, reflect.Float64:
		if predeclared {
			return typeInfo{name: typemap.NameFloat, class: classScalar, rtype: t}, nil
		}
	case reflect.Complex64, reflect.Complex128:
		if predeclared {
			return typeInfo{name: typemap.NameComplex, class: classScalar, rtype: t}, nil
		}
	case reflect.String:
		if predeclared {
			return typeInfo{name: typemap.NameString, class: classScalar, rtype: t}, nil
		}
	case reflect.Slice, reflect.Array:
		if predeclared {
			return typeInfo{name: typemap.NameList, class: classOrdered, rtype: t}, nil
		}
		// Named slice/array types are the unregistered ordered family.
		return typeInfo{class: classOrdered, rtype: t}, nil
	case reflect.Map:
		if predeclared {
			return typeInfo{name: typemap.NameMap, class: classMapping, rtype: t}, nil
		}
		return typeInfo{class: classMapping, rtype: t}, nil
	case reflect.Struct:
		return typeInfo{class: classStruct, rtype: t}, nil
	}

	return typeInfo{}, newError(KindUnsupportedType, "QSUM-TYPE-001",
		fmt.Sprintf("type %s has no checksum implementation", t))
}

// Supported reports whether a value can be checksummed, assuming unregistered
// structural types are permitted.
func Supported(v any) bool {
	_, err := classify(v)
	return err == nil
}
