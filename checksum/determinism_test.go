package checksum

import (
	"container/list"
	"math"
	"strconv"
	"testing"

	"xdao.co/qsum/digest"
	"xdao.co/qsum/typemap"
)

func TestDeterminism_RepeatedRuns(t *testing.T) {
	values := []any{
		"a nice word", 42, uint(7), 3.14, true, nil, []byte{1, 2, 3},
		Tuple{1, "two", 3.0}, Set{"x", "y"}, map[string]int{"k": 1},
	}
	for _, v := range values {
		if !mustSum(t, v).Equal(mustSum(t, v)) {
			t.Fatalf("checksum of %v not stable", v)
		}
	}
}

func TestTypeDiscrimination(t *testing.T) {
	// Equal-looking content across types must never collide.
	pairs := [][2]any{
		{1, true},
		{1, "1"},
		{1, 1.0},
		{1, uint(1)},
		{0, false},
		{nil, ""},
		{nil, 0},
		{[]byte("abc"), "abc"},
		{Tuple{"a", "b"}, Set{"a", "b"}},
		{Tuple{"a", "b"}, []any{"a", "b"}},
	}
	for _, p := range pairs {
		if mustSum(t, p[0]).Equal(mustSum(t, p[1])) {
			t.Fatalf("checksum(%#v) == checksum(%#v)", p[0], p[1])
		}
	}
}

func TestIntegerWidening(t *testing.T) {
	// Narrow kinds alias to the same logical type and value encoding.
	if !mustSum(t, int8(42)).Equal(mustSum(t, 42)) {
		t.Fatalf("int8(42) != int(42)")
	}
	if !mustSum(t, uint16(42)).Equal(mustSum(t, uint64(42))) {
		t.Fatalf("uint16(42) != uint64(42)")
	}
	if !mustSum(t, float32(0.5)).Equal(mustSum(t, 0.5)) {
		t.Fatalf("float32(0.5) != float64(0.5)")
	}
}

func TestSignedZeroEquivalence(t *testing.T) {
	negZero := math.Copysign(0, -1)
	if !mustSum(t, negZero).Equal(mustSum(t, 0.0)) {
		t.Fatalf("checksum(-0.0) != checksum(0.0)")
	}
}

func TestNaNNormalization(t *testing.T) {
	a := math.NaN()
	b := math.Float64frombits(0xfff8000000000001)
	if !mustSum(t, a).Equal(mustSum(t, b)) {
		t.Fatalf("NaN payloads leak into the checksum")
	}
}

func TestUnorderedCanonicalization_Set(t *testing.T) {
	s1 := Set{"a", "b", "c"}
	s2 := Set{"b", "a", "c"}
	s3 := Set{"c", "a", "b"}
	c1, c2, c3 := mustSum(t, s1), mustSum(t, s2), mustSum(t, s3)
	if !c1.Equal(c2) || !c2.Equal(c3) {
		t.Fatalf("set checksum depends on construction order")
	}
	// Heterogeneous element types sort by checksum bytes, not native order.
	h1 := Set{1, "a", 2.0, true}
	h2 := Set{true, 2.0, "a", 1}
	if !mustSum(t, h1).Equal(mustSum(t, h2)) {
		t.Fatalf("heterogeneous set checksum depends on construction order")
	}
}

func TestOrderedSensitivity(t *testing.T) {
	if mustSum(t, Tuple{0, 1, 2}).Equal(mustSum(t, Tuple{2, 1, 0})) {
		t.Fatalf("tuple checksum ignores order")
	}
	if mustSum(t, []any{1, 2, 3}).Equal(mustSum(t, []any{1, 2, 3, 4})) {
		t.Fatalf("list checksum ignores appended element")
	}
	r1, r2 := list.New(), list.New()
	r1.PushBack("a")
	r1.PushBack("b")
	r2.PushBack("b")
	r2.PushBack("a")
	if mustSum(t, r1).Equal(mustSum(t, r2)) {
		t.Fatalf("ring checksum ignores order")
	}
}

func TestNilRingAliasesEmptyRing(t *testing.T) {
	nilRing, err := Sum((*list.List)(nil))
	if err != nil {
		t.Fatalf("Sum(nil ring): %v", err)
	}
	if !nilRing.Equal(mustSum(t, list.New())) {
		t.Fatalf("nil ring and empty ring differ")
	}
	name, err := nilRing.TypeName()
	if err != nil {
		t.Fatalf("TypeName: %v", err)
	}
	if name != typemap.NameRing {
		t.Fatalf("nil ring tagged %s, want %s", name, typemap.NameRing)
	}
}

func TestArrayAliasesList(t *testing.T) {
	if !mustSum(t, [2]string{"a", "b"}).Equal(mustSum(t, []string{"a", "b"})) {
		t.Fatalf("array and slice of equal elements differ")
	}
}

func TestMappingOrderIndependence(t *testing.T) {
	d1 := map[string]int{"a": 1, "b": 2, "c": 3}
	d2 := map[string]int{"c": 3, "b": 2, "a": 1}
	if !mustSum(t, d1).Equal(mustSum(t, d2)) {
		t.Fatalf("map checksum depends on construction order")
	}

	mixed1 := map[any]any{"a": 10, 2: 20, 3.0: 30}
	mixed2 := map[any]any{3.0: 30, "a": 10, 2: 20}
	if !mustSum(t, mixed1).Equal(mustSum(t, mixed2)) {
		t.Fatalf("mixed-key map checksum depends on construction order")
	}

	changed := map[string]int{"a": 1, "b": 2, "c": 4}
	if mustSum(t, d1).Equal(mustSum(t, changed)) {
		t.Fatalf("map checksum ignores a changed value")
	}
}

func TestNestedMappingChanges(t *testing.T) {
	if mustSum(t, map[string]any{"a": map[string]any{"b": 2}}).
		Equal(mustSum(t, map[string]any{"a": map[string]any{"b": 3}})) {
		t.Fatalf("nested map change not reflected")
	}
}

func TestDeepNesting(t *testing.T) {
	var v any = map[string]any{"foo": "abc"}
	for depth := 0; depth < 90; depth++ {
		v = map[string]any{strconv.Itoa(depth): v}
	}
	c := mustSum(t, v)
	size, err := digest.Default.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if len(c.Bytes()) != typemap.PrefixBytes+size {
		t.Fatalf("deeply nested checksum has length %d", len(c.Bytes()))
	}
}

func TestLongList(t *testing.T) {
	long := make([]any, 1<<16)
	for i := range long {
		long[i] = i
	}
	mustSum(t, long)
}

func TestAlgorithmSelection(t *testing.T) {
	c256, err := SumWithOptions("abc", Options{Algorithm: digest.SHA256})
	if err != nil {
		t.Fatalf("sha256: %v", err)
	}
	c512, err := SumWithOptions("abc", Options{Algorithm: digest.SHA512})
	if err != nil {
		t.Fatalf("sha512: %v", err)
	}
	if len(c512.Bytes()) != typemap.PrefixBytes+64 {
		t.Fatalf("sha512 checksum has length %d", len(c512.Bytes()))
	}
	if c256.Equal(c512) {
		t.Fatalf("algorithm does not affect checksum")
	}
	n256, _ := c256.TypeName()
	n512, _ := c512.TypeName()
	if n256 != n512 || n256 != typemap.NameString {
		t.Fatalf("algorithm changed the type tag: %q vs %q", n256, n512)
	}
}

func TestDependencySensitivity(t *testing.T) {
	plain := mustSum(t, 123)
	folded, err := SumWithOptions(123, Options{
		DependsOn: []any{"example.com/lib"},
		Resolver:  fixedResolver{resolved: []string{"example.com/lib@v0.9.0"}},
	})
	if err != nil {
		t.Fatalf("SumWithOptions: %v", err)
	}
	if plain.Equal(folded) {
		t.Fatalf("dependency folding did not change the checksum")
	}
	// Folding stays invisible in the type tag.
	name, err := folded.TypeName()
	if err != nil {
		t.Fatalf("TypeName: %v", err)
	}
	if name != typemap.NameInt {
		t.Fatalf("folded checksum has type %q, want int", name)
	}
}

func TestDependencyResolutionFailurePropagates(t *testing.T) {
	_, err := SumWithOptions(1, Options{DependsOn: []any{42}})
	if err == nil {
		t.Fatalf("expected failure for non-string dependency identifier")
	}
	if !IsKind(err, KindInvalidDependsOn) {
		t.Fatalf("got %v, want InvalidDependsOn kind", err)
	}
}

func TestRoundTripViaWrapper(t *testing.T) {
	c := mustSum(t, "a nice word")
	wrapped, err := FromBytes(c.Bytes())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	hex, err := SumHex("a nice word")
	if err != nil {
		t.Fatalf("SumHex: %v", err)
	}
	if wrapped.Hex() != hex {
		t.Fatalf("round trip mismatch: %s vs %s", wrapped.Hex(), hex)
	}
}

func TestCombine_TaggedAsCollection(t *testing.T) {
	a, b := mustSum(t, "foo"), mustSum(t, "bar")
	combined := a.Combine(b)
	name, err := combined.TypeName()
	if err != nil {
		t.Fatalf("TypeName: %v", err)
	}
	if name != typemap.NameChecksums {
		t.Fatalf("combined checksum has type %q", name)
	}
	if combined.Equal(a) || combined.Equal(b) {
		t.Fatalf("combined checksum collides with an operand")
	}
	if !a.Combine(b).Equal(combined) {
		t.Fatalf("combine not deterministic")
	}
	if a.Combine(b).Equal(b.Combine(a)) {
		t.Fatalf("combine ignores operand order")
	}
}
