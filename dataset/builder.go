package dataset

import (
	"github.com/Mallik-G/lgbridge/buffer"
	"github.com/Mallik-G/lgbridge/native"
)

// Component name reported to the engine's error validator.
const componentCreate = "Dataset create"

// Builder marshals matrices into native buffers and constructs dataset
// handles. Buffers live only within a single build call; handles transfer
// to the caller.
type Builder struct {
	eng   native.Engine
	arena *buffer.Arena
}

// NewBuilder creates a Builder over the given engine. A nil arena
// allocates a fresh one.
func NewBuilder(eng native.Engine, arena *buffer.Arena) *Builder {
	if arena == nil {
		arena = buffer.NewArena()
	}
	return &Builder{eng: eng, arena: arena}
}

// Arena returns the arena backing this builder's buffers.
func (b *Builder) Arena() *buffer.Arena { return b.arena }

// Engine returns the engine this builder targets.
func (b *Builder) Engine() native.Engine { return b.eng }

// BuildDense constructs a dataset handle from a dense matrix. The matrix
// is flattened row-major into one float64 buffer, which is released before
// returning regardless of outcome.
func (b *Builder) BuildDense(rows Dense) (native.DatasetHandle, error) {
	if len(rows) == 0 {
		return 0, ErrEmptyMatrix
	}
	numCols := len(rows[0])
	for i, r := range rows {
		if len(r) != numCols {
			return 0, &RowLengthError{Row: i, Want: numCols, Got: len(r)}
		}
	}

	flat := b.arena.Float64s(len(rows) * numCols)
	defer func() { _ = b.arena.Release(flat) }()

	for i, r := range rows {
		copy(flat.Data[i*numCols:], r)
	}

	code, h := b.eng.CreateDenseDataset(flat.Data, len(rows), numCols, true, Params, nil)
	if err := native.Check(b.eng, code, componentCreate); err != nil {
		return 0, err
	}
	return h, nil
}

// BuildCSR constructs a dataset handle from sparse rows. Values and
// indices are concatenated preserving row order and per-row order, which
// is what makes the flattened layout valid CSR. All three buffers are
// released before returning regardless of outcome.
func (b *Builder) BuildCSR(rows []SparseRow) (native.DatasetHandle, error) {
	if len(rows) == 0 {
		return 0, ErrEmptyMatrix
	}
	numCols := rows[0].Cols
	for i, r := range rows {
		if r.Cols != numCols {
			return 0, &RowLengthError{Row: i, Want: numCols, Got: r.Cols}
		}
		if len(r.Indices) != len(r.Values) {
			return 0, &RowLengthError{Row: i, Want: len(r.Indices), Got: len(r.Values)}
		}
		for _, idx := range r.Indices {
			if idx < 0 || int(idx) >= numCols {
				return 0, &ColumnRangeError{Row: i, Index: idx, Cols: numCols}
			}
		}
	}

	ptrs := RowPointers(rows)
	nnz := int(ptrs[len(ptrs)-1])

	values := b.arena.Float64s(nnz)
	defer func() { _ = b.arena.Release(values) }()
	indices := b.arena.Int32s(nnz)
	defer func() { _ = b.arena.Release(indices) }()
	rowPointers := b.arena.Int32s(len(ptrs))
	defer func() { _ = b.arena.Release(rowPointers) }()

	copy(rowPointers.Data, ptrs)
	for i, r := range rows {
		copy(values.Data[ptrs[i]:], r.Values)
		copy(indices.Data[ptrs[i]:], r.Indices)
	}

	code, h := b.eng.CreateCSRDataset(rowPointers.Data, indices.Data, values.Data, numCols, Params, nil)
	if err := native.Check(b.eng, code, componentCreate); err != nil {
		return 0, err
	}
	return h, nil
}
