// Package rowset defines the RowSet output artifact and its Handoff
// method realizing the cross-language handoff contract.
package rowset

import (
	"github.com/squareup/rowcodec/arena"
	"github.com/squareup/rowcodec/columnar"
	"github.com/squareup/rowcodec/descriptor"
)

// RowSet is the artifact RowAssembler returns. It exclusively owns
// Buffer and the offset/length vectors; the caller takes ownership of
// the RowSet from RowAssembler.
type RowSet struct {
	Types                []columnar.Type
	NumRows              int
	NumCols              int
	NullBitsetWidthBytes int64
	Offsets              []int64
	Lengths              []int64
	Buffer               []byte
	TotalBytes           int64

	allocator Allocator
}

// Allocator is the subset of arena.Allocator RowSet needs to free its
// own buffer.
type Allocator interface {
	Free(buf []byte, size int64)
}

// SetAllocator records which allocator produced Buffer, so Free can
// release it through the same allocator it was obtained from.
func (rs *RowSet) SetAllocator(a Allocator) { rs.allocator = a }

// Free releases Buffer through the allocator that produced it. Called
// on any assembly error, and equally available to a caller done with a
// successfully-built RowSet.
func (rs *RowSet) Free() {
	if rs.allocator != nil && rs.Buffer != nil {
		rs.allocator.Free(rs.Buffer, rs.TotalBytes)
		rs.Buffer = nil
	}
}

// FieldOffset is the byte offset of column c's slot within a row.
func (rs *RowSet) FieldOffset(col int) int64 {
	return descriptor.FieldOffset(rs.NullBitsetWidthBytes, col)
}

// IsNull reports whether column col of row is null, per the row's null
// bitmap.
func (rs *RowSet) IsNull(row, col int) bool {
	rowStart := rs.Offsets[row]
	wordOffset := (col / 64) * 8
	bitOffset := uint(col % 64)
	b := rs.Buffer[rowStart+int64(wordOffset) : rowStart+int64(wordOffset)+8]
	word := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
	return word&(1<<bitOffset) != 0
}

// Slot returns the 8-byte column slot for (row, col).
func (rs *RowSet) Slot(row, col int) []byte {
	start := rs.Offsets[row] + rs.FieldOffset(col)
	return rs.Buffer[start : start+8]
}

// SetNullBit sets bit col of row's null bitmap.
func (rs *RowSet) SetNullBit(row, col int) {
	rowStart := rs.Offsets[row]
	wordOffset := int64((col / 64) * 8)
	bitOffset := uint(col % 64)
	b := rs.Buffer[rowStart+wordOffset : rowStart+wordOffset+8]
	word := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
	word |= 1 << bitOffset
	b[0] = byte(word)
	b[1] = byte(word >> 8)
	b[2] = byte(word >> 16)
	b[3] = byte(word >> 24)
	b[4] = byte(word >> 32)
	b[5] = byte(word >> 40)
	b[6] = byte(word >> 48)
	b[7] = byte(word >> 56)
}

// Row returns the full byte range of row within Buffer.
func (rs *RowSet) Row(row int) []byte {
	start := rs.Offsets[row]
	return rs.Buffer[start : start+rs.Lengths[row]]
}

// Handoff returns the five values a cross-language caller needs to read
// this RowSet directly out of its buffer: per-row offsets, per-row
// lengths, the buffer's base address, the column count, and the total
// buffer size.
func (rs *RowSet) Handoff() (offsets, lengths []int64, bufferAddr uintptr, numCols, totalBytes int64) {
	return rs.Offsets, rs.Lengths, arena.Address(rs.Buffer), int64(rs.NumCols), rs.TotalBytes
}
