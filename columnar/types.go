// Package columnar defines the external collaborator interfaces this
// serializer consumes: the columnar type system and value accessors of
// the upstream engine. Nothing in this package mutates a Type or Column;
// they are read-only views the rest of the module dispatches over.
package columnar

// Kind identifies the logical element type of a column or nested value.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Fixed-length kinds.
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindDate16 // 16-bit date, e.g. days since epoch in a narrow column
	KindDate32 // 32-bit date
	KindDateTime64
	KindDecimal32
	KindDecimal64
	KindFloat32
	KindFloat64
	KindEmpty // marker type carrying no payload

	// Variable-length kinds.
	KindString
	KindDecimal128
	KindArray
	KindMap
	KindStruct
)

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindInt8:       "int8",
	KindInt16:      "int16",
	KindInt32:      "int32",
	KindInt64:      "int64",
	KindUint8:      "uint8",
	KindUint16:     "uint16",
	KindUint32:     "uint32",
	KindUint64:     "uint64",
	KindDate16:     "date16",
	KindDate32:     "date32",
	KindDateTime64: "datetime64",
	KindDecimal32:  "decimal32",
	KindDecimal64:  "decimal64",
	KindFloat32:    "float32",
	KindFloat64:    "float64",
	KindEmpty:      "empty",
	KindString:     "string",
	KindDecimal128: "decimal128",
	KindArray:      "array",
	KindMap:        "map",
	KindStruct:     "struct",
}

// Field describes one field of a struct type, in declaration order.
type Field struct {
	Name string
	Type Type
}

// Type is the input-only type descriptor for a column or nested value.
// The core never mutates a Type.
type Type struct {
	Kind     Kind
	Nullable bool

	// Elem is the element type of an Array. Set only when Kind == KindArray.
	Elem *Type

	// Key and Val are the key/value types of a Map. Set only when
	// Kind == KindMap.
	Key *Type
	Val *Type

	// Fields describes a Struct's members, in order. Set only when
	// Kind == KindStruct.
	Fields []Field

	// DecPrecision and DecScale carry decimal precision/scale. They do
	// not affect this package's byte layout (which is fixed-width per
	// decimal kind) but are retained for passthrough to downstream
	// decoders via RowSet.Types.
	DecPrecision int
	DecScale     int
}

// WithoutNullable returns t with Nullable cleared. Classification and
// layout rules operate on the unwrapped type; only the top-level column
// null bit and the element/field null bitmaps carry nullability.
func (t Type) WithoutNullable() Type {
	t.Nullable = false
	return t
}
