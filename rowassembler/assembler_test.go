package rowassembler

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/squareup/rowcodec/columnar"
	"github.com/squareup/rowcodec/descriptor"
)

func packedLE(offset, size int64) []byte {
	packed, err := descriptor.Pack(offset, size)
	if err != nil {
		panic(err)
	}
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, packed)
	return b
}

func TestAssembleEmptySchemaFails(t *testing.T) {
	_, err := Assemble(nil, nil, AssemblerOptions{})
	require.Error(t, err)
}

func TestAssembleSingleInt32Row(t *testing.T) {
	col := intCol(columnar.KindInt32, false, 42)
	rs, err := Assemble([]columnar.Column{col}, nil, AssemblerOptions{})
	require.NoError(t, err)
	require.Equal(t, int64(16), rs.Lengths[0])

	row := rs.Row(0)
	require.Equal(t, make([]byte, 8), row[0:8]) // no nulls
	require.Equal(t, []byte{42, 0, 0, 0, 0, 0, 0, 0}, row[8:16])
}

func TestAssembleNullableInt32Null(t *testing.T) {
	col := nullIntCol(columnar.KindInt32)
	rs, err := Assemble([]columnar.Column{col}, nil, AssemblerOptions{})
	require.NoError(t, err)
	require.Equal(t, int64(16), rs.Lengths[0])

	row := rs.Row(0)
	require.True(t, rs.IsNull(0, 0))
	require.Equal(t, byte(1), row[0])
}

func TestAssembleSingleString(t *testing.T) {
	col := stringCol("hi")
	rs, err := Assemble([]columnar.Column{col}, nil, AssemblerOptions{})
	require.NoError(t, err)
	require.Equal(t, int64(24), rs.Lengths[0])

	row := rs.Row(0)
	require.Equal(t, make([]byte, 8), row[0:8])
	require.Equal(t, packedLE(16, 2), row[8:16])
	require.Equal(t, []byte{'h', 'i', 0, 0, 0, 0, 0, 0}, row[16:24])
}

func TestAssembleEmptyArray(t *testing.T) {
	elemType := columnar.Type{Kind: columnar.KindInt32}
	arrType := columnar.Type{Kind: columnar.KindArray, Elem: &elemType}
	col := &literalColumn{
		typ:    arrType,
		values: []columnar.Value{{Kind: columnar.KindArray, Elems: nil}},
	}
	rs, err := Assemble([]columnar.Column{col}, nil, AssemblerOptions{})
	require.NoError(t, err)
	require.Equal(t, int64(24), rs.Lengths[0])

	row := rs.Row(0)
	require.Equal(t, packedLE(16, 8), row[8:16])
	require.Equal(t, make([]byte, 8), row[16:24])
}

func TestAssembleArrayOfInt32(t *testing.T) {
	elemType := columnar.Type{Kind: columnar.KindInt32}
	arrType := columnar.Type{Kind: columnar.KindArray, Elem: &elemType}
	col := &literalColumn{
		typ: arrType,
		values: []columnar.Value{{
			Kind:  columnar.KindArray,
			Elems: []columnar.Value{{Int: 1}, {Int: 2}, {Int: 3}},
		}},
	}
	rs, err := Assemble([]columnar.Column{col}, nil, AssemblerOptions{})
	require.NoError(t, err)
	require.Equal(t, int64(48), rs.Lengths[0])

	row := rs.Row(0)
	require.Equal(t, packedLE(16, 32), row[8:16])
	require.Equal(t, uint64(3), binary.LittleEndian.Uint64(row[16:24])) // num_elems
	require.Equal(t, make([]byte, 8), row[24:32])                      // element null bitmap
	require.Equal(t, int32(1), int32(binary.LittleEndian.Uint32(row[32:36])))
	require.Equal(t, int32(2), int32(binary.LittleEndian.Uint32(row[36:40])))
	require.Equal(t, int32(3), int32(binary.LittleEndian.Uint32(row[40:44])))
	require.Equal(t, []byte{0, 0, 0, 0}, row[44:48]) // padding
}

func TestAssembleStructOfInt32AndString(t *testing.T) {
	structType := columnar.Type{
		Kind: columnar.KindStruct,
		Fields: []columnar.Field{
			{Name: "a", Type: columnar.Type{Kind: columnar.KindInt32}},
			{Name: "b", Type: columnar.Type{Kind: columnar.KindString}},
		},
	}
	col := &literalColumn{
		typ: structType,
		values: []columnar.Value{{
			Kind: columnar.KindStruct,
			Fields: []columnar.Value{
				{Int: 7},
				{Kind: columnar.KindString, Bytes: []byte("ok")},
			},
		}},
	}
	rs, err := Assemble([]columnar.Column{col}, nil, AssemblerOptions{})
	require.NoError(t, err)
	require.Equal(t, int64(48), rs.Lengths[0])

	row := rs.Row(0)
	require.Equal(t, packedLE(16, 32), row[8:16])
	require.Equal(t, make([]byte, 8), row[16:24])                                    // struct null bitmap
	require.Equal(t, []byte{7, 0, 0, 0, 0, 0, 0, 0}, row[24:32])                      // field a
	require.Equal(t, packedLE(24, 2), row[32:40])                                     // field b descriptor
	require.Equal(t, []byte{'o', 'k', 0, 0, 0, 0, 0, 0}, row[40:48])                  // field b backing
}

func TestAssembleMaskSelectsAndReordersRows(t *testing.T) {
	col := intCol(columnar.KindInt32, false, 10, 20, 30)
	mask := []int{2, 0, 0}
	rs, err := Assemble([]columnar.Column{col}, mask, AssemblerOptions{})
	require.NoError(t, err)
	require.Equal(t, 3, rs.NumRows)
	require.Equal(t, byte(30), rs.Row(0)[8])
	require.Equal(t, byte(10), rs.Row(1)[8])
	require.Equal(t, byte(10), rs.Row(2)[8])
}

func TestAssembleMultiColumnCursorMatchesPredictedLength(t *testing.T) {
	c1 := intCol(columnar.KindInt64, false, 1, 2, 3, 4, 5)
	c2 := stringCol("a", "bb", "ccc", "dddd", "eeeee")
	rs, err := Assemble([]columnar.Column{c1, c2}, nil, AssemblerOptions{})
	require.NoError(t, err)
	for i := 0; i < rs.NumRows; i++ {
		require.Equal(t, rs.Lengths[i], int64(len(rs.Row(i))))
	}
}

func TestAssembleRowMajorParallelMatchesSequential(t *testing.T) {
	n := 200
	vals := make([]int64, n)
	strs := make([]string, n)
	for i := range vals {
		vals[i] = int64(i)
		strs[i] = "row-value-padding"
	}
	c1 := intCol(columnar.KindInt64, false, vals...)
	c2 := stringCol(strs...)

	seq, err := Assemble([]columnar.Column{c1, c2}, nil, AssemblerOptions{Concurrency: 1})
	require.NoError(t, err)

	c1b := intCol(columnar.KindInt64, false, vals...)
	c2b := stringCol(strs...)
	par, err := Assemble([]columnar.Column{c1b, c2b}, nil, AssemblerOptions{Concurrency: 8})
	require.NoError(t, err)

	require.Equal(t, seq.Buffer, par.Buffer)
	require.Equal(t, seq.Offsets, par.Offsets)
	require.Equal(t, seq.Lengths, par.Lengths)
}

func TestAssembleConstColumnBroadcasts(t *testing.T) {
	v := columnar.Value{Kind: columnar.KindString, Bytes: []byte("same")}
	col := &literalColumn{
		typ:      columnar.Type{Kind: columnar.KindString},
		values:   []columnar.Value{v, v, v},
		constVal: &v,
	}
	rs, err := Assemble([]columnar.Column{col}, nil, AssemblerOptions{})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		row := rs.Row(i)
		require.Equal(t, []byte("same"), row[16:20])
	}
}

func TestAssembleDictionaryColumnUnwraps(t *testing.T) {
	underlying := stringCol("x", "y", "z")
	wrapper := &literalColumn{
		typ:    underlying.typ,
		values: make([]columnar.Value, underlying.Len()), // indices are irrelevant once unwrapped
		dict:   underlying,
	}
	rs, err := Assemble([]columnar.Column{wrapper}, nil, AssemblerOptions{})
	require.NoError(t, err)
	require.Equal(t, 3, rs.NumRows)
	require.Equal(t, byte('x'), rs.Row(0)[16])
	require.Equal(t, byte('y'), rs.Row(1)[16])
	require.Equal(t, byte('z'), rs.Row(2)[16])
}

func TestAssembleMaskFidelityMatchesManualProjection(t *testing.T) {
	const numRows = 17
	vals := make([]int64, numRows)
	strs := make([]string, numRows)
	for i := range vals {
		vals[i] = int64(i * 7)
		strs[i] = strings.Repeat("x", i+1)
	}
	c1 := intCol(columnar.KindInt64, false, vals...)
	c2 := stringCol(strs...)

	mask := columnar.BuildMask(99, numRows, 31)
	require.NotEmpty(t, mask)

	masked, err := Assemble([]columnar.Column{c1, c2}, mask, AssemblerOptions{})
	require.NoError(t, err)

	projC1 := projectColumn(c1, mask)
	projC2 := projectColumn(c2, mask)
	unmasked, err := Assemble([]columnar.Column{projC1, projC2}, nil, AssemblerOptions{})
	require.NoError(t, err)

	require.Equal(t, unmasked.Buffer, masked.Buffer)
	require.Equal(t, unmasked.Offsets, masked.Offsets)
	require.Equal(t, unmasked.Lengths, masked.Lengths)
}

func TestAssembleIsDeterministicAcrossIdenticalRuns(t *testing.T) {
	build := func() []columnar.Column {
		return []columnar.Column{
			intCol(columnar.KindInt32, false, 1, -2, 3, -4, 5),
			stringCol("alpha", "beta", "gamma", "delta", "epsilon"),
		}
	}
	first, err := Assemble(build(), nil, AssemblerOptions{})
	require.NoError(t, err)
	second, err := Assemble(build(), nil, AssemblerOptions{})
	require.NoError(t, err)

	require.Equal(t, first.Buffer, second.Buffer)
	require.Equal(t, first.Offsets, second.Offsets)
	require.Equal(t, first.Lengths, second.Lengths)
	require.Equal(t, first.TotalBytes, second.TotalBytes)
}

func TestAssembleMaxRowBytesExceeded(t *testing.T) {
	col := stringCol("this string is definitely long enough to exceed a tiny cap")
	_, err := Assemble([]columnar.Column{col}, nil, AssemblerOptions{MaxRowBytes: 8})
	require.Error(t, err)
}
