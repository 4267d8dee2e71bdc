package native

import "sync"

// DenseCall records the arguments of one CreateDenseDataset invocation.
type DenseCall struct {
	Data        []float64
	NumRows     int
	NumCols     int
	RowMajor    bool
	Params      string
	Categorical []int32
}

// CSRCall records the arguments of one CreateCSRDataset invocation.
type CSRCall struct {
	RowPointers []int32
	Indices     []int32
	Values      []float64
	NumCols     int
	Params      string
	Categorical []int32
}

// Fake is an in-memory Engine implementation for testing. It records every
// call with copies of the buffer contents (so released buffers can still be
// asserted against) and can be switched into a failing mode.
// Thread-safe.
type Fake struct {
	mu sync.Mutex

	// FailMessage, when non-empty, makes every creation call return
	// CodeError and become the LastError message.
	FailMessage string

	DenseCalls     []DenseCall
	CSRCalls       []CSRCall
	LastErrorCalls int

	nextHandle DatasetHandle
}

var _ Engine = (*Fake)(nil)

// NewFake creates a Fake engine that succeeds on every call.
func NewFake() *Fake {
	return &Fake{}
}

// Fail switches the engine into failing mode with the given message.
func (f *Fake) Fail(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FailMessage = message
}

func (f *Fake) CreateDenseDataset(data []float64, numRows, numCols int, rowMajor bool, params string, categorical []int32) (int, DatasetHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.DenseCalls = append(f.DenseCalls, DenseCall{
		Data:        append([]float64(nil), data...),
		NumRows:     numRows,
		NumCols:     numCols,
		RowMajor:    rowMajor,
		Params:      params,
		Categorical: append([]int32(nil), categorical...),
	})

	if f.FailMessage != "" {
		return CodeError, 0
	}
	f.nextHandle++
	return CodeOK, f.nextHandle
}

func (f *Fake) CreateCSRDataset(rowPointers, indices []int32, values []float64, numCols int, params string, categorical []int32) (int, DatasetHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.CSRCalls = append(f.CSRCalls, CSRCall{
		RowPointers: append([]int32(nil), rowPointers...),
		Indices:     append([]int32(nil), indices...),
		Values:      append([]float64(nil), values...),
		NumCols:     numCols,
		Params:      params,
		Categorical: append([]int32(nil), categorical...),
	})

	if f.FailMessage != "" {
		return CodeError, 0
	}
	f.nextHandle++
	return CodeOK, f.nextHandle
}

func (f *Fake) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastErrorCalls++
	return f.FailMessage
}
