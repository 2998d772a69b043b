package columnar

// Column is the external collaborator interface: a (type descriptor,
// value accessor) pair producing Len() values. The core never mutates a
// Column and never retains pointers into it past the call that read
// from it.
type Column interface {
	// Type describes every value in the column, including nested
	// element/field types for composites.
	Type() Type

	// Len is the number of source rows the column holds.
	Len() int

	// IsNull reports whether the value at row is null. Only meaningful
	// when Type().Nullable; callers must not call it otherwise.
	IsNull(row int) bool

	// RawBytes returns the native in-memory bytes of the value at row,
	// valid only when typeclass.SupportsRaw(Type()) holds: every
	// fixed-length kind (native width, little-endian), KindString (raw
	// UTF-8 bytes, no length prefix), and KindDecimal128 (16 bytes,
	// native little-endian). The caller must not retain the returned
	// slice past the current write pass.
	RawBytes(row int) []byte

	// Value returns a boxed tagged value at row, valid for the
	// recursive kinds RawBytes cannot serve: KindArray, KindMap,
	// KindStruct.
	Value(row int) Value

	// Dictionary returns the underlying dictionary-encoded column when
	// this column is itself a dictionary wrapper over row indices, or
	// nil otherwise.
	Dictionary() Column

	// Const returns the single broadcast value and true when this
	// column holds one physical value repeated across every row, or
	// the zero Value and false otherwise.
	Const() (Value, bool)
}
