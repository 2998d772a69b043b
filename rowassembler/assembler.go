// Package rowassembler implements the two-phase orchestration that
// turns a set of columnar.Column values (plus an optional
// row-selection mask) into a rowset.RowSet.
package rowassembler

import (
	"github.com/squareup/rowcodec/columnar"
	"github.com/squareup/rowcodec/descriptor"
	"github.com/squareup/rowcodec/fixedwriter"
	"github.com/squareup/rowcodec/lengthcalc"
	"github.com/squareup/rowcodec/log"
	"github.com/squareup/rowcodec/rowerr"
	"github.com/squareup/rowcodec/rowset"
	"github.com/squareup/rowcodec/typeclass"
	"github.com/squareup/rowcodec/varwriter"
)

// Assemble runs both passes over cols and returns the resulting RowSet.
// mask, if non-nil, selects and orders output rows
// from source row indices; a nil mask produces output rows in natural
// order, one per source row.
func Assemble(cols []columnar.Column, mask []int, opts AssemblerOptions) (*rowset.RowSet, error) {
	if len(cols) == 0 {
		return nil, rowerr.NewEmptySchemaError()
	}

	numCols := len(cols)
	numRows := cols[0].Len()
	if mask != nil {
		numRows = len(mask)
	}

	nullBitsetWidth := descriptor.BitsetBytes(int64(numCols))
	fixedSizePerRow := nullBitsetWidth + 8*int64(numCols)

	lengths := make([]int64, numRows)
	for i := range lengths {
		lengths[i] = fixedSizePerRow
	}

	effCols := make([]columnar.Column, numCols)
	for i, c := range cols {
		effCols[i] = unwrapDictionary(c)
	}

	if err := computeLengths(effCols, mask, lengths, opts.MaxRowBytes); err != nil {
		return nil, err
	}

	offsets := make([]int64, numRows)
	var totalBytes int64
	for i := 0; i < numRows; i++ {
		if i > 0 {
			offsets[i] = offsets[i-1] + lengths[i-1]
		}
		totalBytes += lengths[i]
	}

	allocator := opts.allocator()
	buffer, err := allocator.Allocate(totalBytes)
	if err != nil {
		return nil, err
	}

	types := make([]columnar.Type, numCols)
	for i, c := range cols {
		types[i] = c.Type()
	}

	rs := &rowset.RowSet{
		Types:                types,
		NumRows:              numRows,
		NumCols:              numCols,
		NullBitsetWidthBytes: nullBitsetWidth,
		Offsets:              offsets,
		Lengths:              lengths,
		Buffer:               buffer,
		TotalBytes:           totalBytes,
	}
	rs.SetAllocator(allocator)

	cursor := make([]int64, numRows)
	for i := range cursor {
		cursor[i] = fixedSizePerRow
	}

	concurrency := opts.Concurrency
	var writeErr error
	if concurrency > 1 && numRows > 1 {
		writeErr = writeRowsParallel(rs, effCols, mask, cursor, concurrency)
	} else {
		writeErr = writeColumnsSequential(rs, effCols, mask, cursor)
	}
	if writeErr != nil {
		log.Warnf("rowassembler: freeing buffer after write error rows=%d cols=%d total_bytes=%d: %v", numRows, numCols, totalBytes, writeErr)
		rs.Free()
		return nil, writeErr
	}

	for i := 0; i < numRows; i++ {
		if cursor[i] != lengths[i] {
			log.Warnf("rowassembler: freeing buffer after cursor divergence row=%d cursor=%d predicted=%d", i, cursor[i], lengths[i])
			rs.Free()
			return nil, rowerr.NewInvariantBrokenErrorf(
				"rowassembler: row %d cursor %d diverged from predicted length %d", i, cursor[i], lengths[i])
		}
	}

	log.Debugf("rowassembler: assembled block rows=%d cols=%d total_bytes=%d", numRows, numCols, totalBytes)
	return rs, nil
}

// sourceRow returns the source row index output row maps to.
func sourceRow(mask []int, row int) int {
	if mask == nil {
		return row
	}
	return mask[row]
}

// computeLengths is Phase 1: for every variable-length column, add each
// row's backing-data contribution to lengths. Fixed-length columns
// contribute nothing beyond fixedSizePerRow, already seeded into
// lengths by the caller.
func computeLengths(effCols []columnar.Column, mask []int, lengths []int64, maxRowBytes int64) error {
	numRows := len(lengths)
	for _, col := range effCols {
		t := col.Type().WithoutNullable()
		if !typeclass.IsVariable(t.Kind) {
			continue
		}
		if constVal, ok := col.Const(); ok {
			size, err := constContribution(t, constVal)
			if err != nil {
				return err
			}
			for i := 0; i < numRows; i++ {
				lengths[i] += size
			}
			continue
		}
		raw := typeclass.SupportsRaw(t.Kind)
		nullable := col.Type().Nullable
		for i := 0; i < numRows; i++ {
			row := sourceRow(mask, i)
			if nullable && col.IsNull(row) {
				continue
			}
			var size int64
			var err error
			if raw {
				size, err = rawContribution(t.Kind, col.RawBytes(row))
			} else {
				size, err = lengthcalc.Calc(t, col.Value(row))
			}
			if err != nil {
				return err
			}
			lengths[i] += size
		}
	}
	for i, l := range lengths {
		// Every offset and size packed into a descriptor of this row is
		// bounded by the row's length, so a row that fits the 32-bit
		// descriptor field cannot overflow a descriptor in Phase 2.
		if _, err := descriptor.Pack(0, l); err != nil {
			return err
		}
		if maxRowBytes > 0 && l > maxRowBytes {
			return rowerr.NewValueOutOfRangeErrorf("rowassembler: row %d length %d exceeds MaxRowBytes %d", i, l, maxRowBytes)
		}
	}
	return nil
}

func constContribution(t columnar.Type, v columnar.Value) (int64, error) {
	if v.Null {
		return 0, nil
	}
	if typeclass.SupportsRaw(t.Kind) && (t.Kind == columnar.KindString || t.Kind == columnar.KindDecimal128) {
		return rawContribution(t.Kind, v.Bytes)
	}
	return lengthcalc.Calc(t, v)
}

func rawContribution(k columnar.Kind, raw []byte) (int64, error) {
	switch k {
	case columnar.KindString:
		return descriptor.RoundUp8(int64(len(raw))), nil
	case columnar.KindDecimal128:
		return 16, nil
	default:
		return 0, rowerr.NewUnsupportedTypeErrorf("rowassembler: rawContribution called on non-raw-variable kind %s", k)
	}
}

// unwrapDictionary follows Column.Dictionary() until it returns nil, so
// the rest of the assembler always sees a column that has already
// dereferenced its dictionary indices.
func unwrapDictionary(c columnar.Column) columnar.Column {
	for {
		d := c.Dictionary()
		if d == nil {
			return c
		}
		c = d
	}
}

// writeColumnsSequential is the default Phase 2 path: column-major
// iteration, matching the original's cache-friendly "writeValue once
// per column, sweeping all rows" shape.
func writeColumnsSequential(rs *rowset.RowSet, effCols []columnar.Column, mask []int, cursor []int64) error {
	numRows := rs.NumRows
	for colIdx, col := range effCols {
		for row := 0; row < numRows; row++ {
			src := sourceRow(mask, row)
			if err := writeCell(rs, colIdx, col, row, src, cursor); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeCell writes one (row, col) cell: null-bit handling, fixed/
// variable dispatch, and the decimal32/endian-swap special cases.
func writeCell(rs *rowset.RowSet, colIdx int, col columnar.Column, row, srcRow int, cursor []int64) error {
	t := col.Type()
	twn := t.WithoutNullable()
	fieldOffset := descriptor.FieldOffset(rs.NullBitsetWidthBytes, colIdx)
	slot := rs.Slot(row, colIdx)

	constVal, isConst := col.Const()

	isNull := false
	if t.Nullable {
		if isConst {
			isNull = constVal.Null
		} else {
			isNull = col.IsNull(srcRow)
		}
	}
	if isNull {
		rs.SetNullBit(row, colIdx)
		return nil
	}

	switch {
	case typeclass.IsFixed(twn.Kind):
		return writeFixedCell(rs, slot, twn.Kind, col, row, srcRow, isConst, constVal)
	case typeclass.IsVariable(twn.Kind):
		return writeVariableCell(rs, slot, fieldOffset, twn, col, row, srcRow, cursor, isConst, constVal)
	default:
		return rowerr.NewUnsupportedTypeErrorf("rowassembler: column %d has unsupported kind %s", colIdx, twn.Kind)
	}
}

func writeFixedCell(rs *rowset.RowSet, slot []byte, k columnar.Kind, col columnar.Column, row, srcRow int, isConst bool, constVal columnar.Value) error {
	// Decimal32 must always go through the typed, sign-extending path:
	// a raw memcpy of its 4-byte native form would leave the slot's
	// high bytes zero instead of sign-extended for negative values.
	if k == columnar.KindDecimal32 {
		v := constVal
		if !isConst {
			raw := col.RawBytes(srcRow)
			if len(raw) < 4 {
				return rowerr.NewInvariantBrokenErrorf("rowassembler: decimal32 source has %d bytes, need 4", len(raw))
			}
			native := uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24
			v = columnar.Value{Kind: k, Int: int64(int32(native))}
		}
		return fixedwriter.WriteTyped(slot, k, v)
	}
	var raw []byte
	if isConst {
		raw = constVal.Bytes
		if raw == nil {
			return fixedwriter.WriteTyped(slot, k, constVal)
		}
	} else {
		raw = col.RawBytes(srcRow)
	}
	return fixedwriter.WriteRaw(slot, k, raw)
}

func writeVariableCell(rs *rowset.RowSet, slot []byte, fieldOffset int64, t columnar.Type, col columnar.Column, row, srcRow int, cursor []int64, isConst bool, constVal columnar.Value) error {
	w := varwriter.New(rs.Buffer, rs.Offsets, cursor)
	if typeclass.SupportsRaw(t.Kind) {
		var raw []byte
		if isConst {
			raw = constVal.Bytes
		} else {
			raw = col.RawBytes(srcRow)
		}
		var packed uint64
		var err error
		if typeclass.NeedsEndianSwap(t.Kind) {
			packed, err = w.WriteDecimal128(row, raw, 0)
		} else {
			packed, err = w.WriteRaw(row, raw, 0)
		}
		if err != nil {
			return err
		}
		putSlot(slot, packed)
		return nil
	}
	v := constVal
	if !isConst {
		v = col.Value(srcRow)
	}
	packed, err := w.Write(row, t, v, 0)
	if err != nil {
		return err
	}
	putSlot(slot, packed)
	return nil
}

func putSlot(slot []byte, v uint64) {
	slot[0] = byte(v)
	slot[1] = byte(v >> 8)
	slot[2] = byte(v >> 16)
	slot[3] = byte(v >> 24)
	slot[4] = byte(v >> 32)
	slot[5] = byte(v >> 40)
	slot[6] = byte(v >> 48)
	slot[7] = byte(v >> 56)
}
