// Package native defines the contract between the bridge and the external
// gradient-boosting engine.
//
// The engine is consumed as an opaque handle API: dataset-creation calls
// take flat buffers and return an integer result code plus a handle, and a
// single process-wide accessor exposes the message of the most recent
// failure. Element types (64-bit float data, 32-bit integer indices) are
// carried by the Go slice types themselves.
package native

// DatasetHandle is an opaque reference to a dataset constructed inside the
// engine. Ownership transfers to the caller on successful construction; the
// engine owns the memory behind it thereafter.
type DatasetHandle uintptr

// Result codes returned by engine calls. Any value other than CodeError
// denotes success.
const (
	CodeOK    = 0
	CodeError = -1
)

// Engine is the dataset-construction surface of the native training engine.
//
// Implementations are expected to be loaded bindings to a shared library.
// LastError reads process-wide state: it must be queried immediately after
// the failing call, before any other engine call can overwrite it.
type Engine interface {
	// CreateDenseDataset constructs a dataset from a row-major flattened
	// matrix of numRows x numCols float64 values. categorical lists the
	// column indices to treat as categorical features; nil means none.
	CreateDenseDataset(data []float64, numRows, numCols int, rowMajor bool, params string, categorical []int32) (code int, h DatasetHandle)

	// CreateCSRDataset constructs a dataset from compressed-sparse-row
	// buffers. rowPointers has one entry per row plus one; indices and
	// values are the per-row concatenations of column indices and cell
	// values, both of length rowPointers[len(rowPointers)-1].
	CreateCSRDataset(rowPointers, indices []int32, values []float64, numCols int, params string, categorical []int32) (code int, h DatasetHandle)

	// LastError returns the message of the most recent engine failure.
	LastError() string
}
