package columnar

// MapEntry is one key/value pair of a materialized map Value, order
// preserved as the upstream map iterates it.
type MapEntry struct {
	Key Value
	Val Value
}

// Value is a boxed, tagged value produced by a Column for recursive or
// otherwise non-raw-copyable types (arrays, maps, structs, and any
// scalar reached while walking into one of those). The columnar engine
// is assumed to hand these out already materialized; this package never
// decodes a Value from bytes itself.
type Value struct {
	Null bool
	Kind Kind

	// Int holds the native value for every fixed-length integer-shaped
	// kind (all signed/unsigned ints, Date16, Date32, DateTime64,
	// Decimal32, Decimal64), already narrowed to that kind's native
	// width's numeric range.
	Int int64

	// Float holds the native value for KindFloat32/KindFloat64.
	Float float64

	// Bytes holds the raw payload for KindString (UTF-8, unescaped) and
	// KindDecimal128 (16 bytes, native little-endian, pre-swap).
	Bytes []byte

	// Elems holds element values for KindArray, in order.
	Elems []Value

	// Entries holds key/value pairs for KindMap, in order.
	Entries []MapEntry

	// Fields holds field values for KindStruct, in Type.Fields order.
	Fields []Value
}

// NullValue is a convenience constructor for a null value of kind k.
func NullValue(k Kind) Value { return Value{Null: true, Kind: k} }
