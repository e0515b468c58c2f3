package checksum

import (
	"encoding/binary"
	"math"
	"reflect"
	"strconv"

	"xdao.co/qsum/typemap"
)

// Canonical byte encodings for scalar values. Two semantically equal values
// must encode to identical bytes: signed zero collapses to +0, every NaN
// collapses to one quiet-NaN bit pattern, and narrow numeric kinds widen
// before encoding so int8(1) and int(1) agree.

const quietNaNBits = 0x7ff8000000000000

func floatBytes(buf []byte, f float64) []byte {
	if f == 0 {
		f = 0
	}
	bits := math.Float64bits(f)
	if math.IsNaN(f) {
		bits = quietNaNBits
	}
	return binary.BigEndian.AppendUint64(buf, bits)
}

// scalarBytes returns the canonical encoding of a scalar value for the given
// logical type. Integers use decimal ASCII, strings and type names their
// UTF-8 bytes, booleans a single byte, floats eight big-endian IEEE-754
// bytes, complex values sixteen, nil the empty byte string.
func scalarBytes(name typemap.Name, v any) ([]byte, error) {
	switch name {
	case typemap.NameNil:
		return nil, nil
	case typemap.NameString:
		return []byte(v.(string)), nil
	case typemap.NameBytes:
		return v.([]byte), nil
	case typemap.NameType:
		return []byte(v.(reflect.Type).String()), nil
	}

	rv := reflect.ValueOf(v)
	switch name {
	case typemap.NameInt:
		return strconv.AppendInt(nil, rv.Int(), 10), nil
	case typemap.NameUint:
		return strconv.AppendUint(nil, rv.Uint(), 10), nil
	case typemap.NameBool:
		if rv.Bool() {
			return []byte{0x01}, nil
		}
		return []byte{0x00}, nil
	case typemap.NameFloat:
		return floatBytes(nil, rv.Float()), nil
	case typemap.NameComplex:
		c := rv.Complex()
		return floatBytes(floatBytes(nil, real(c)), imag(c)), nil
	}

	return nil, newError(KindUnhandledContainer, "QSUM-CONT-002",
		"no canonical encoding for logical type "+string(name))
}
