// Package dataset converts row-oriented matrices into the flat native
// buffers the training engine requires and builds native dataset handles
// from them.
//
// Dense matrices flatten row-major; sparse matrices flatten to CSR
// (row pointers, column indices, values). Every intermediate buffer is
// released exactly once, on success and on failure.
package dataset

import (
	"errors"
	"fmt"
)

// Params is the fixed dataset construction parameter string. Rows are
// assumed to be pre-partitioned consistently with the resolved cluster
// topology.
const Params = "max_bin=255 is_pre_partition=True"

// ErrEmptyMatrix is returned when a matrix has no rows; the column count
// and the native layout would be undefined.
var ErrEmptyMatrix = errors.New("matrix has no rows")

// RowLengthError reports a row whose shape disagrees with the rest of the
// matrix: a ragged dense row, a sparse row with a different column count,
// or a sparse row whose index and value sequences differ in length.
type RowLengthError struct {
	Row  int
	Want int
	Got  int
}

func (e *RowLengthError) Error() string {
	return fmt.Sprintf("row %d: length %d, want %d", e.Row, e.Got, e.Want)
}

// ColumnRangeError reports a sparse column index outside [0, Cols).
type ColumnRangeError struct {
	Row   int
	Index int32
	Cols  int
}

func (e *ColumnRangeError) Error() string {
	return fmt.Sprintf("row %d: column index %d outside [0, %d)", e.Row, e.Index, e.Cols)
}

// Dense is a row-major dense matrix of float64 values. All rows must have
// the same length.
type Dense [][]float64

// SparseRow is one row of a sparse matrix. Indices are ascending column
// indices within [0, Cols); Values holds the corresponding cell values.
// All rows of a matrix share the same Cols.
type SparseRow struct {
	Indices []int32
	Values  []float64
	Cols    int
}

// RowPointers computes the CSR row-pointer array for rows: length
// len(rows)+1, starting at 0, each entry the running non-zero count. It is
// computed before the flattened value and index buffers are sized.
func RowPointers(rows []SparseRow) []int32 {
	ptrs := make([]int32, len(rows)+1)
	for i, r := range rows {
		ptrs[i+1] = ptrs[i] + int32(len(r.Values))
	}
	return ptrs
}
