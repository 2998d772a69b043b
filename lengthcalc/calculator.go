// Package lengthcalc computes the recursive backing-data byte size a
// value contributes to a row, ahead of the write pass that must advance
// the cursor by exactly that many bytes.
package lengthcalc

import (
	"github.com/squareup/rowcodec/columnar"
	"github.com/squareup/rowcodec/descriptor"
	"github.com/squareup/rowcodec/rowerr"
	"github.com/squareup/rowcodec/typeclass"
)

// Calc returns the number of backing-data bytes v will occupy when
// written at type t. Fixed-length scalars and null values return 0: a
// null occupies only its bit in a null bitmap, a fixed scalar occupies
// only its header slot or its fixed-width element-array cell.
func Calc(t columnar.Type, v columnar.Value) (int64, error) {
	if v.Null {
		return 0, nil
	}
	k := t.Kind
	if typeclass.IsFixed(k) {
		return 0, nil
	}
	switch k {
	case columnar.KindString:
		return descriptor.RoundUp8(int64(len(v.Bytes))), nil
	case columnar.KindDecimal128:
		return 16, nil
	case columnar.KindArray:
		return calcArray(t, v.Elems)
	case columnar.KindMap:
		return calcMap(t, v.Entries)
	case columnar.KindStruct:
		return calcStruct(t, v.Fields)
	default:
		return 0, rowerr.NewUnsupportedTypeErrorf("lengthcalc: unsupported kind %s", k)
	}
}

// calcArray implements: 8 + bitset_bytes(n) + round_up_8(elem_size*n) +
// Σ Calc(elem_type, element_i). The element sum is zero whenever the
// element type is fixed-length, since its values live in the fixed
// values region sized by elem_size*n.
func calcArray(arrayType columnar.Type, elems []columnar.Value) (int64, error) {
	elemType := *arrayType.Elem
	n := int64(len(elems))
	elemSize := int64(typeclass.ArrayElementSize(elemType.Kind))
	total := 8 + descriptor.BitsetBytes(n) + descriptor.RoundUp8(elemSize*n)
	for _, elem := range elems {
		sz, err := Calc(elemType, elem)
		if err != nil {
			return 0, err
		}
		total += sz
	}
	return total, nil
}

// calcMap implements: 8 + size(UnsafeArray(keys)) + size(UnsafeArray(values)).
func calcMap(mapType columnar.Type, entries []columnar.MapEntry) (int64, error) {
	keys := make([]columnar.Value, len(entries))
	vals := make([]columnar.Value, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
		vals[i] = e.Val
	}
	keyArrayType := columnar.Type{Kind: columnar.KindArray, Elem: mapType.Key}
	valArrayType := columnar.Type{Kind: columnar.KindArray, Elem: mapType.Val}

	keySize, err := calcArray(keyArrayType, keys)
	if err != nil {
		return 0, err
	}
	valSize, err := calcArray(valArrayType, vals)
	if err != nil {
		return 0, err
	}
	return 8 + keySize + valSize, nil
}

// calcStruct implements: bitset_bytes(k) + 8*k + Σ Calc(field_type_i, field_i).
func calcStruct(structType columnar.Type, fields []columnar.Value) (int64, error) {
	k := int64(len(structType.Fields))
	total := descriptor.BitsetBytes(k) + 8*k
	for i, fv := range fields {
		sz, err := Calc(structType.Fields[i].Type, fv)
		if err != nil {
			return 0, err
		}
		total += sz
	}
	return total, nil
}
