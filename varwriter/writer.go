// Package varwriter emits variable-length payloads (strings, 128-bit
// decimals, arrays, maps, structs) into a row's backing-data region and
// returns the packed (offset, size) descriptor for the row slot or
// parent structure that points at them.
package varwriter

import (
	"github.com/squareup/rowcodec/columnar"
	"github.com/squareup/rowcodec/descriptor"
	"github.com/squareup/rowcodec/fixedwriter"
	"github.com/squareup/rowcodec/rowerr"
	"github.com/squareup/rowcodec/typeclass"
)

// Writer writes variable-length values into row-major regions of a
// single shared buffer. cursor[row] is the only mutable state it
// touches; it is the caller's responsibility to keep writes to distinct
// rows either sequential or partitioned across goroutines that each own
// a disjoint row range.
type Writer struct {
	buffer  []byte
	offsets []int64
	cursor  []int64
}

// New returns a Writer over buffer, with offsets[row] the row's base
// offset within buffer and cursor[row] the row's next free position,
// both owned by the caller and mutated in place as cursor advances.
func New(buffer []byte, offsets, cursor []int64) *Writer {
	return &Writer{buffer: buffer, offsets: offsets, cursor: cursor}
}

// rowBase returns row's base byte offset within the shared buffer;
// callers index further within it using byte positions relative to
// offsets[row].
func (w *Writer) rowBase(row int) int64 { return w.offsets[row] }

// WriteRaw implements §4.4.1: copies n source bytes at the row's current
// cursor, advances the cursor by round_up_8(n), and returns the packed
// descriptor (offset relative to parentOffset, size n).
func (w *Writer) WriteRaw(row int, src []byte, parentOffset int64) (uint64, error) {
	base := w.rowBase(row)
	cursorBefore := w.cursor[row]
	n := int64(len(src))
	copy(w.buffer[base+cursorBefore:base+cursorBefore+n], src)
	w.cursor[row] = cursorBefore + descriptor.RoundUp8(n)
	return descriptor.Pack(cursorBefore-parentOffset, n)
}

// WriteDecimal128 implements §4.4.2: byte-swaps both 64-bit halves
// individually and swaps the halves themselves (so the row format holds
// the 128-bit decimal fully big-endian as a single integer), then writes
// the resulting 16 bytes via the raw path.
func (w *Writer) WriteDecimal128(row int, nativeLE []byte, parentOffset int64) (uint64, error) {
	if len(nativeLE) != 16 {
		return 0, rowerr.NewInvariantBrokenErrorf("varwriter: decimal128 payload must be 16 bytes, got %d", len(nativeLE))
	}
	swapped := swapDecimal128(nativeLE)
	return w.WriteRaw(row, swapped, parentOffset)
}

// swapDecimal128 returns the big-endian row-format encoding of a
// 128-bit decimal stored natively as two little-endian 64-bit halves
// (low half first, matching the column's native in-memory layout).
func swapDecimal128(nativeLE []byte) []byte {
	out := make([]byte, 16)
	// Swap each 8-byte half's own byte order, then swap the halves.
	for i := 0; i < 8; i++ {
		out[i] = nativeLE[15-i]   // high half, byte-reversed, placed first
		out[8+i] = nativeLE[7-i] // low half, byte-reversed, placed second
	}
	return out
}

// Write dispatches on t.Kind to the appropriate recursive writer. field
// offsets it returns are always relative to parentOffset.
func (w *Writer) Write(row int, t columnar.Type, v columnar.Value, parentOffset int64) (uint64, error) {
	if v.Null {
		return 0, nil
	}
	switch t.Kind {
	case columnar.KindString:
		return w.WriteRaw(row, v.Bytes, parentOffset)
	case columnar.KindDecimal128:
		return w.WriteDecimal128(row, v.Bytes, parentOffset)
	case columnar.KindArray:
		return w.WriteArray(row, t, v.Elems, parentOffset)
	case columnar.KindMap:
		return w.WriteMap(row, t, v.Entries, parentOffset)
	case columnar.KindStruct:
		return w.WriteStruct(row, t, v.Fields, parentOffset)
	default:
		return 0, rowerr.NewUnsupportedTypeErrorf("varwriter: unsupported kind %s", t.Kind)
	}
}

// WriteArray implements §4.4.3.
func (w *Writer) WriteArray(row int, arrayType columnar.Type, elems []columnar.Value, parentOffset int64) (uint64, error) {
	base := w.rowBase(row)
	start := w.cursor[row]
	elemType := *arrayType.Elem
	numElems := int64(len(elems))

	// 1. num_elems (8B).
	putUint64(w.buffer[base+start:], uint64(numElems))
	w.cursor[row] = start + 8
	if numElems == 0 {
		return descriptor.Pack(start-parentOffset, 8)
	}

	// 2. Reserve the element null-bitmap (already zero).
	bitmapLen := descriptor.BitsetBytes(numElems)
	bitmapOff := start + 8

	// 3. Reserve the values region (already zero).
	elemSize := int64(typeclass.ArrayElementSize(elemType.Kind))
	valuesLen := descriptor.RoundUp8(elemSize * numElems)
	valuesOff := bitmapOff + bitmapLen

	// 4. Advance the cursor past the values region.
	w.cursor[row] = valuesOff + valuesLen

	// 5. Per-element write.
	if typeclass.IsFixed(elemType.Kind) {
		for i, elem := range elems {
			if elem.Null {
				setBit(w.buffer[base+bitmapOff:], i)
				continue
			}
			slotStart := valuesOff + int64(i)*elemSize
			if err := writeFixedNativeWidth(w.buffer[base+slotStart:base+slotStart+elemSize], elemType.Kind, elem); err != nil {
				return 0, err
			}
		}
	} else {
		for i, elem := range elems {
			if elem.Null {
				setBit(w.buffer[base+bitmapOff:], i)
				continue
			}
			packed, err := w.Write(row, elemType, elem, start)
			if err != nil {
				return 0, err
			}
			slotStart := valuesOff + int64(i)*8
			putUint64(w.buffer[base+slotStart:], packed)
		}
	}
	return descriptor.Pack(start-parentOffset, w.cursor[row]-start)
}

// WriteMap implements §4.4.4: 8 bytes holding the key-array byte length,
// followed by the key UnsafeArray, followed by the value UnsafeArray.
func (w *Writer) WriteMap(row int, mapType columnar.Type, entries []columnar.MapEntry, parentOffset int64) (uint64, error) {
	base := w.rowBase(row)
	start := w.cursor[row]
	w.cursor[row] = start + 8 // reserve the 8-byte key-array-size field

	keys := make([]columnar.Value, len(entries))
	vals := make([]columnar.Value, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
		vals[i] = e.Val
	}

	keyArrayType := columnar.Type{Kind: columnar.KindArray, Elem: mapType.Key}
	keyPacked, err := w.WriteArray(row, keyArrayType, keys, start+8)
	if err != nil {
		return 0, err
	}
	keyArraySize := int64(descriptor.UnpackSize(keyPacked))
	putUint64(w.buffer[base+start:], uint64(keyArraySize))

	valArrayType := columnar.Type{Kind: columnar.KindArray, Elem: mapType.Val}
	if _, err := w.WriteArray(row, valArrayType, vals, start+8+keyArraySize); err != nil {
		return 0, err
	}
	return descriptor.Pack(start-parentOffset, w.cursor[row]-start)
}

// WriteStruct implements §4.4.5: null_bitmap(k) | k*8B slots | backing data.
func (w *Writer) WriteStruct(row int, structType columnar.Type, fields []columnar.Value, parentOffset int64) (uint64, error) {
	base := w.rowBase(row)
	start := w.cursor[row]
	numFields := int64(len(structType.Fields))
	if numFields == 0 {
		return descriptor.Pack(start-parentOffset, 0)
	}

	bitmapLen := descriptor.BitsetBytes(numFields)
	w.cursor[row] = start + bitmapLen + 8*numFields

	for i, fv := range fields {
		fieldType := structType.Fields[i].Type
		if fv.Null {
			setBit(w.buffer[base+start:], i)
			continue
		}
		slotStart := start + bitmapLen + int64(i)*8
		if typeclass.IsFixed(fieldType.Kind) {
			if err := fixedwriter.WriteTyped(w.buffer[base+slotStart:base+slotStart+8], fieldType.Kind, fv); err != nil {
				return 0, err
			}
		} else {
			packed, err := w.Write(row, fieldType, fv, start)
			if err != nil {
				return 0, err
			}
			putUint64(w.buffer[base+slotStart:], packed)
		}
	}
	return descriptor.Pack(start-parentOffset, w.cursor[row]-start)
}

func putUint64(b []byte, v uint64) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}

// setBit sets bit index within a byte-slice null bitmap, matching the
// row format's 64-bit-word bitset layout.
func setBit(bitmap []byte, index int) {
	wordOffset := (index / 64) * 8
	bitOffset := uint(index % 64)
	word := uint64(bitmap[wordOffset]) | uint64(bitmap[wordOffset+1])<<8 |
		uint64(bitmap[wordOffset+2])<<16 | uint64(bitmap[wordOffset+3])<<24 |
		uint64(bitmap[wordOffset+4])<<32 | uint64(bitmap[wordOffset+5])<<40 |
		uint64(bitmap[wordOffset+6])<<48 | uint64(bitmap[wordOffset+7])<<56
	word |= 1 << bitOffset
	putUint64(bitmap[wordOffset:], word)
}

// writeFixedNativeWidth writes a fixed-length element value into an
// array's values region at the array element stride
// (typeclass.ArrayElementSize), not always a full 8-byte slot.
func writeFixedNativeWidth(slot []byte, k columnar.Kind, v columnar.Value) error {
	width := typeclass.ArrayElementSize(k)
	tmp := make([]byte, 8)
	if err := fixedwriter.WriteTyped(tmp, k, v); err != nil {
		return err
	}
	copy(slot[:width], tmp[:width])
	return nil
}
