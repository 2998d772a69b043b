package rowassembler

import (
	"golang.org/x/sync/errgroup"

	"github.com/squareup/rowcodec/columnar"
	"github.com/squareup/rowcodec/rowset"
)

// writeRowsParallel partitions rows row-major across goroutines: each
// worker owns a disjoint, contiguous range of output rows and iterates
// all columns for each of its rows in turn. Because cursor[row] is
// touched only by the worker that owns row, and every row's backing
// data lives in a disjoint region of the shared buffer, workers never
// race with each other. Column-major partitioning would not have this
// property: two workers could advance the same row's cursor at once.
func writeRowsParallel(rs *rowset.RowSet, effCols []columnar.Column, mask []int, cursor []int64, concurrency int) error {
	numRows := rs.NumRows
	if concurrency > numRows {
		concurrency = numRows
	}

	chunk := (numRows + concurrency - 1) / concurrency

	var g errgroup.Group
	for start := 0; start < numRows; start += chunk {
		end := start + chunk
		if end > numRows {
			end = numRows
		}
		start, end := start, end
		g.Go(func() error {
			for row := start; row < end; row++ {
				src := sourceRow(mask, row)
				for colIdx, col := range effCols {
					if err := writeCell(rs, colIdx, col, row, src, cursor); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	return g.Wait()
}
