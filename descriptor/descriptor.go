// Package descriptor holds the small pieces of shared layout math used
// by every component that writes or sizes the row format: the packed
// (offset<<32)|size descriptor, the null-bitmap width formula, and the
// 8-byte rounding rule. These are named helpers rather than inlined
// shifts so the 32-bit size-field limit has exactly one place to check.
package descriptor

import "github.com/squareup/rowcodec/rowerr"

// maxSize is the largest size a packed descriptor's low 32 bits can
// represent. A backing-data region ever needing more than this cannot be
// expressed in the row format and must fail length calculation rather
// than silently truncate.
const maxSize = 0xFFFFFFFF

// Pack combines a relative offset and a byte size into the row format's
// 8-byte descriptor word: (offset << 32) | size.
func Pack(offset, size int64) (uint64, error) {
	if size < 0 || size > maxSize {
		return 0, rowerr.NewValueOutOfRangeErrorf("backing-data size %d exceeds the 32-bit descriptor size field", size)
	}
	return uint64(offset)<<32 | uint64(size)&0xFFFFFFFF, nil
}

// UnpackOffset extracts the relative offset from a packed descriptor.
func UnpackOffset(packed uint64) int64 {
	return int64(packed >> 32)
}

// UnpackSize extracts the byte size from a packed descriptor.
func UnpackSize(packed uint64) int64 {
	return int64(packed & 0xFFFFFFFF)
}

// BitsetBytes is ceil(n/64)*8, the fixed width in bytes of a null bitmap
// covering n bits.
func BitsetBytes(n int64) int64 {
	return ((n + 63) / 64) * 8
}

// RoundUp8 rounds x up to the nearest multiple of 8.
func RoundUp8(x int64) int64 {
	return (x + 7) &^ 7
}

// FieldOffset is the byte offset of column slot c within a row, given
// the row's null-bitmap width.
func FieldOffset(nullBitsetWidthBytes int64, col int) int64 {
	return nullBitsetWidthBytes + 8*int64(col)
}
