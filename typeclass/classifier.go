// Package typeclass classifies a columnar.Kind as fixed-length,
// variable-length, or raw-copyable, and supplies the per-element width
// tables the write passes need. Every function here is a branchless
// switch over a closed enum, never a virtual call, matching the
// original's WhichDataType dispatch (CHColumnToSparkRow.cpp).
package typeclass

import "github.com/squareup/rowcodec/columnar"

// IsFixed reports whether k occupies only its 8-byte row slot.
func IsFixed(k columnar.Kind) bool {
	switch k {
	case columnar.KindInt8, columnar.KindInt16, columnar.KindInt32, columnar.KindInt64,
		columnar.KindUint8, columnar.KindUint16, columnar.KindUint32, columnar.KindUint64,
		columnar.KindDate16, columnar.KindDate32, columnar.KindDateTime64,
		columnar.KindDecimal32, columnar.KindDecimal64,
		columnar.KindFloat32, columnar.KindFloat64,
		columnar.KindEmpty:
		return true
	default:
		return false
	}
}

// IsVariable reports whether k requires a backing-data region.
func IsVariable(k columnar.Kind) bool {
	switch k {
	case columnar.KindString, columnar.KindDecimal128,
		columnar.KindArray, columnar.KindMap, columnar.KindStruct:
		return true
	default:
		return false
	}
}

// SupportsRaw reports whether k's native in-memory bytes can be memcpy'd
// directly into the row format without per-value re-encoding: every
// fixed-length kind, plus string and 128-bit decimal.
func SupportsRaw(k columnar.Kind) bool {
	return IsFixed(k) || k == columnar.KindString || k == columnar.KindDecimal128
}

// NeedsEndianSwap reports whether k's row-format encoding is big-endian
// while the column's native storage is little-endian. Only 128-bit
// decimal requires this.
func NeedsEndianSwap(k columnar.Kind) bool {
	return k == columnar.KindDecimal128
}

// FixedValueWidth returns the native in-memory width, in bytes, of a
// fixed-length scalar kind. Used by raw-copy writes. Panics if k is not
// fixed-length — callers must check IsFixed first.
func FixedValueWidth(k columnar.Kind) int {
	switch k {
	case columnar.KindInt8, columnar.KindUint8:
		return 1
	case columnar.KindInt16, columnar.KindUint16, columnar.KindDate16:
		return 2
	case columnar.KindInt32, columnar.KindUint32, columnar.KindFloat32,
		columnar.KindDate32, columnar.KindDecimal32:
		return 4
	case columnar.KindInt64, columnar.KindUint64, columnar.KindFloat64,
		columnar.KindDateTime64, columnar.KindDecimal64:
		return 8
	case columnar.KindEmpty:
		return 0
	default:
		panic("typeclass: FixedValueWidth called on non-fixed kind " + k.String())
	}
}

// ArrayElementSize returns the per-element stride, in bytes, of an array
// whose nested element kind is k: 1 for 8-bit ints, 2 for 16-bit ints and
// 16-bit date, 4 for 32-bit ints/float/date32, 8 for everything else
// including variable-length elements (whose slot holds an 8-byte
// offset-and-size descriptor). The default of 8 for an unrecognized kind
// is intentional for variable-length elements and irrelevant for
// unsupported kinds, which the writer rejects at value time — callers
// must not rely on the default for correctness beyond slot-stride math.
func ArrayElementSize(k columnar.Kind) int {
	switch k {
	case columnar.KindInt8, columnar.KindUint8:
		return 1
	case columnar.KindInt16, columnar.KindUint16, columnar.KindDate16:
		return 2
	case columnar.KindInt32, columnar.KindUint32, columnar.KindFloat32, columnar.KindDate32:
		return 4
	default:
		return 8
	}
}
