package rowassembler

import (
	"encoding/binary"
	"math"

	"github.com/squareup/rowcodec/columnar"
)

// literalColumn is a minimal in-memory columnar.Column backed by a slice
// of already-materialized Values, for exercising Assemble end to end
// without pulling in a real columnar engine.
type literalColumn struct {
	typ      columnar.Type
	values   []columnar.Value
	constVal *columnar.Value
	dict     columnar.Column
}

func (c *literalColumn) Type() columnar.Type { return c.typ }
func (c *literalColumn) Len() int            { return len(c.values) }

func (c *literalColumn) IsNull(row int) bool { return c.values[row].Null }

func (c *literalColumn) Value(row int) columnar.Value { return c.values[row] }

func (c *literalColumn) Dictionary() columnar.Column { return c.dict }

func (c *literalColumn) Const() (columnar.Value, bool) {
	if c.constVal == nil {
		return columnar.Value{}, false
	}
	return *c.constVal, true
}

// RawBytes encodes v's native little-endian representation for every
// kind fixedwriter/varwriter treat as raw-copyable.
func (c *literalColumn) RawBytes(row int) []byte {
	v := c.values[row]
	return valueToRaw(c.typ.WithoutNullable().Kind, v)
}

func valueToRaw(k columnar.Kind, v columnar.Value) []byte {
	switch k {
	case columnar.KindInt8, columnar.KindUint8:
		return []byte{byte(v.Int)}
	case columnar.KindInt16, columnar.KindUint16, columnar.KindDate16:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(v.Int))
		return b
	case columnar.KindInt32, columnar.KindUint32, columnar.KindDate32, columnar.KindDecimal32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(v.Int))
		return b
	case columnar.KindInt64, columnar.KindUint64, columnar.KindDateTime64, columnar.KindDecimal64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(v.Int))
		return b
	case columnar.KindFloat32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v.Float)))
		return b
	case columnar.KindFloat64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, math.Float64bits(v.Float))
		return b
	case columnar.KindEmpty:
		return nil
	case columnar.KindString, columnar.KindDecimal128:
		return v.Bytes
	default:
		return nil
	}
}

func intCol(kind columnar.Kind, nullable bool, vals ...int64) *literalColumn {
	values := make([]columnar.Value, len(vals))
	for i, n := range vals {
		values[i] = columnar.Value{Kind: kind, Int: n}
	}
	return &literalColumn{typ: columnar.Type{Kind: kind, Nullable: nullable}, values: values}
}

func nullIntCol(kind columnar.Kind) *literalColumn {
	return &literalColumn{
		typ:    columnar.Type{Kind: kind, Nullable: true},
		values: []columnar.Value{columnar.NullValue(kind)},
	}
}

// projectColumn returns a new literalColumn holding values[mask[i]] at
// position i, for comparing a masked Assemble call against an
// equivalent unmasked call over the already-projected rows.
func projectColumn(c *literalColumn, mask []int) *literalColumn {
	values := make([]columnar.Value, len(mask))
	for i, src := range mask {
		values[i] = c.values[src]
	}
	return &literalColumn{typ: c.typ, values: values}
}

func stringCol(vals ...string) *literalColumn {
	values := make([]columnar.Value, len(vals))
	for i, s := range vals {
		values[i] = columnar.Value{Kind: columnar.KindString, Bytes: []byte(s)}
	}
	return &literalColumn{typ: columnar.Type{Kind: columnar.KindString}, values: values}
}
