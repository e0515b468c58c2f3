// Package checksum computes deterministic, type-aware checksums for
// structured values.
//
// A checksum is a 2-byte type prefix followed by a fixed-length content
// digest. Two values checksum equal exactly when they have the same logical
// type and equivalent contents; containers whose order is not semantically
// meaningful (Set, maps) checksum identically regardless of construction
// order, while ordered containers (Tuple, slices, rings) are
// order-sensitive.
package checksum

import (
	"bytes"
	"container/list"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"xdao.co/qsum/depend"
	"xdao.co/qsum/digest"
	"xdao.co/qsum/typemap"
)

// Options controls a checksum computation. The zero value selects the
// default algorithm, rejects unregistered types, and folds no dependencies.
type Options struct {
	// Algorithm is the named digest primitive. Empty selects digest.Default.
	Algorithm digest.Algorithm

	// AllowUnregistered permits types without a registry entry, as long as
	// they structurally match a supported container family. Their checksums
	// carry the reserved unregistered prefix and fold the type's identity
	// into the content digest.
	AllowUnregistered bool

	// DependsOn lists dependency identifiers (module-path strings or
	// depend.Builtin sentinels) to fold into the checksum. The emitted type
	// prefix stays that of the value itself.
	DependsOn []any

	// Resolver resolves DependsOn identifiers. Nil selects the build-info
	// resolver.
	Resolver depend.Resolver
}

// Sum checksums a value with default options.
func Sum(v any) (Checksum, error) {
	return SumWithOptions(v, Options{})
}

// SumHex returns the hex form of Sum(v).
func SumHex(v any) (string, error) {
	c, err := Sum(v)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// SumWithOptions checksums a value.
//
// Dispatch order: dependency folding (top level only), container
// combination, source-representable values, scalar fallback.
func SumWithOptions(v any, opts Options) (Checksum, error) {
	algo, err := digest.Resolve(string(opts.Algorithm))
	if err != nil {
		return Checksum{}, wrapError(KindInvalidData, "QSUM-DATA-002", "unusable digest algorithm", err)
	}
	e := engine{algo: algo, allowUnregistered: opts.AllowUnregistered}

	if len(opts.DependsOn) == 0 {
		b, err := e.checksum(v)
		if err != nil {
			return Checksum{}, err
		}
		return Checksum{b: b}, nil
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = depend.BuildInfo{}
	}
	resolved, err := resolver.Resolve(opts.DependsOn)
	if err != nil {
		return Checksum{}, wrapError(KindInvalidDependsOn, "QSUM-DEP-001", "dependency resolution failed", err)
	}
	deps := make(Tuple, len(resolved))
	for i, s := range resolved {
		deps[i] = s
	}

	// Fold (value, resolved dependencies) as an ordered pair while keeping
	// the value's own type prefix, so folding is invisible in the type tag.
	info, err := classify(v)
	if err != nil {
		return Checksum{}, err
	}
	cv, err := e.checksum(v)
	if err != nil {
		return Checksum{}, err
	}
	cd, err := e.checksum(deps)
	if err != nil {
		return Checksum{}, err
	}
	b, err := e.finish(info, append(cv, cd...))
	if err != nil {
		return Checksum{}, err
	}
	return Checksum{b: b}, nil
}

type engine struct {
	algo              digest.Algorithm
	allowUnregistered bool
}

// checksum computes prefix||digest for a value under its own type.
func (e engine) checksum(v any) ([]byte, error) {
	info, err := classify(v)
	if err != nil {
		return nil, err
	}

	switch info.class {
	case classScalar:
		data, err := scalarBytes(info.name, v)
		if err != nil {
			return nil, err
		}
		return e.finish(info, data)

	case classOrdered:
		payload, err := e.orderedPayload(v, info)
		if err != nil {
			return nil, err
		}
		return e.finish(info, payload)

	case classUnordered:
		parts := make([][]byte, 0, len(v.(Set)))
		for _, item := range v.(Set) {
			b, err := e.checksum(item)
			if err != nil {
				return nil, err
			}
			parts = append(parts, b)
		}
		return e.finish(info, sortJoin(parts))

	case classMapping:
		payload, err := e.mappingPayload(v)
		if err != nil {
			return nil, err
		}
		return e.finish(info, payload)

	case classStruct:
		payload, err := e.structPayload(v)
		if err != nil {
			return nil, err
		}
		return e.finish(info, payload)

	case classSource:
		sr := v.(SourceRepresentable)
		elems := Tuple{strings.TrimSpace(sr.SourceText()), sr.Attributes(), sr.DeclaringScopeName()}
		payload, err := e.tuplePayload(elems)
		if err != nil {
			return nil, err
		}
		return e.finish(info, payload)
	}

	return nil, newError(KindUnhandledContainer, "QSUM-CONT-001",
		fmt.Sprintf("registry claims support for %s but no combination logic exists", info.rtype))
}

// orderedPayload concatenates element checksums in iteration order.
func (e engine) orderedPayload(v any, info typeInfo) ([]byte, error) {
	if r, ok := v.(*list.List); ok {
		var buf []byte
		if r == nil {
			// A nil ring carries the same elements as an empty one.
			return buf, nil
		}
		for el := r.Front(); el != nil; el = el.Next() {
			b, err := e.checksum(el.Value)
			if err != nil {
				return nil, err
			}
			buf = append(buf, b...)
		}
		return buf, nil
	}
	if t, ok := v.(Tuple); ok {
		return e.tuplePayload(t)
	}
	rv := reflect.ValueOf(v)
	var buf []byte
	for i := 0; i < rv.Len(); i++ {
		b, err := e.checksum(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	return buf, nil
}

func (e engine) tuplePayload(t Tuple) ([]byte, error) {
	var buf []byte
	for _, item := range t {
		b, err := e.checksum(item)
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	return buf, nil
}

// mappingPayload treats a map as an unordered collection of key/value pairs:
// each pair is checksummed as an ordered 2-tuple, then the pair checksums are
// sorted as raw bytes. Map iteration order never reaches the result.
func (e engine) mappingPayload(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	parts := make([][]byte, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		b, err := e.checksum(Tuple{iter.Key().Interface(), iter.Value().Interface()})
		if err != nil {
			return nil, err
		}
		parts = append(parts, b)
	}
	return sortJoin(parts), nil
}

// structPayload folds exported fields in declaration order, each as a
// (name, value) tuple. Declaration order is part of a struct type's identity,
// so it is treated as ordered.
func (e engine) structPayload(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	t := rv.Type()
	var buf []byte
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		b, err := e.checksum(Tuple{f.Name, rv.Field(i).Interface()})
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	return buf, nil
}

// finish tags a content payload: resolve the declared type's prefix, fold
// type identity when the prefix is the unregistered marker, digest, and
// concatenate.
func (e engine) finish(declared typeInfo, payload []byte) ([]byte, error) {
	var prefix typemap.Prefix
	data := payload
	if declared.registered() {
		p, ok := declared.name.PrefixOf()
		if !ok {
			return nil, newError(KindUnhandledContainer, "QSUM-CONT-003",
				"logical type "+string(declared.name)+" missing from registry")
		}
		prefix = p
	} else {
		if !e.allowUnregistered {
			return nil, newError(KindUnsupportedType, "QSUM-TYPE-002",
				fmt.Sprintf("type %s is not registered and unregistered types are not allowed", declared.rtype))
		}
		prefix = typemap.UnregisteredPrefix
		// Two unregistered types sharing structural shape must not collide.
		data = append([]byte(declared.rtype.String()), payload...)
	}
	d, err := e.algo.Sum(data)
	if err != nil {
		return nil, wrapError(KindInvalidData, "QSUM-DATA-003", "digest failed", err)
	}
	return append(prefix.Bytes(), d...), nil
}

func sortJoin(parts [][]byte) []byte {
	sort.Slice(parts, func(i, j int) bool { return bytes.Compare(parts[i], parts[j]) < 0 })
	var buf []byte
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return buf
}
