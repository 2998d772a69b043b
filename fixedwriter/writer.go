// Package fixedwriter writes one scalar value into an 8-byte row slot,
// either from a tagged value or by raw memcpy from the column's
// native-width bytes.
package fixedwriter

import (
	"encoding/binary"
	"math"

	"github.com/squareup/rowcodec/columnar"
	"github.com/squareup/rowcodec/rowerr"
	"github.com/squareup/rowcodec/typeclass"
)

// WriteTyped writes v's value into slot (which must be exactly 8 bytes)
// as 1, 2, 4, or 8 little-endian bytes per k's native width; the
// remaining high bytes of slot are left untouched, relying on the
// caller's pre-zeroed buffer. Decimal32 is sign-extended to 64 bits
// before being written. Null values must never reach WriteTyped — the
// caller sets the null bit and skips the call instead.
func WriteTyped(slot []byte, k columnar.Kind, v columnar.Value) error {
	if !typeclass.IsFixed(k) {
		return rowerr.NewUnsupportedTypeErrorf("fixedwriter: WriteTyped called on non-fixed kind %s", k)
	}
	if len(slot) != 8 {
		return rowerr.NewInvariantBrokenErrorf("fixedwriter: slot must be 8 bytes, got %d", len(slot))
	}
	switch k {
	case columnar.KindEmpty:
		return nil
	case columnar.KindDecimal32:
		// Sign-extend the 32-bit decimal to a full 64-bit slot.
		binary.LittleEndian.PutUint64(slot, uint64(int64(int32(v.Int))))
		return nil
	case columnar.KindFloat32:
		binary.LittleEndian.PutUint32(slot[:4], math.Float32bits(float32(v.Float)))
		return nil
	case columnar.KindFloat64:
		binary.LittleEndian.PutUint64(slot, math.Float64bits(v.Float))
		return nil
	}
	width := typeclass.FixedValueWidth(k)
	switch width {
	case 1:
		slot[0] = byte(v.Int)
	case 2:
		binary.LittleEndian.PutUint16(slot[:2], uint16(v.Int))
	case 4:
		binary.LittleEndian.PutUint32(slot[:4], uint32(v.Int))
	case 8:
		binary.LittleEndian.PutUint64(slot, uint64(v.Int))
	default:
		return rowerr.NewInvariantBrokenErrorf("fixedwriter: unexpected native width %d for kind %s", width, k)
	}
	return nil
}

// WriteRaw memcpy's typeclass.FixedValueWidth(k) bytes from src (the
// column's native-width representation) into the low bytes of slot.
// Used for every fixed-length kind except Decimal32, whose native 4-byte
// representation must go through WriteTyped's sign extension instead —
// the caller, not this function, is responsible for routing Decimal32
// there.
func WriteRaw(slot []byte, k columnar.Kind, src []byte) error {
	if !typeclass.IsFixed(k) {
		return rowerr.NewUnsupportedTypeErrorf("fixedwriter: WriteRaw called on non-fixed kind %s", k)
	}
	width := typeclass.FixedValueWidth(k)
	if width == 0 {
		return nil
	}
	if len(src) < width {
		return rowerr.NewInvariantBrokenErrorf("fixedwriter: source has %d bytes, need %d for kind %s", len(src), width, k)
	}
	if len(slot) < width {
		return rowerr.NewInvariantBrokenErrorf("fixedwriter: slot has %d bytes, need %d for kind %s", len(slot), width, k)
	}
	copy(slot[:width], src[:width])
	return nil
}
