package solver

import (
	"github.com/mpark/mpint/precision"
	"github.com/mpark/mpint/utils"
)

// Dense is a row-major dense matrix over the reduced (or full) working
// type. gonum's mat package is float64 only, so the inner solve carries its
// own minimal dense type; float64 paths outside the solver keep using
// utils.Matrix.
type Dense[T precision.Float] struct {
	Rows, Cols int
	Data       []T
}

func NewDense[T precision.Float](nr, nc int) *Dense[T] {
	return &Dense[T]{Rows: nr, Cols: nc, Data: make([]T, nr*nc)}
}

// FromMatrix narrows a float64 utils.Matrix into the working type. Used
// once per run to snapshot the spectral operator.
func FromMatrix[T precision.Float](m utils.Matrix) (R *Dense[T]) {
	nr, nc := m.Dims()
	R = NewDense[T](nr, nc)
	for i, val := range m.Data() {
		R.Data[i] = T(val)
	}
	return
}

func (m *Dense[T]) At(i, j int) T       { return m.Data[i*m.Cols+j] }
func (m *Dense[T]) Set(i, j int, val T) { m.Data[i*m.Cols+j] = val }

func (m *Dense[T]) SetIdentity() {
	for i := range m.Data {
		m.Data[i] = 0
	}
	for i := 0; i < m.Rows; i++ {
		m.Data[i*m.Cols+i] = 1
	}
}

func (m *Dense[T]) CopyFrom(a *Dense[T]) {
	copy(m.Data, a.Data)
}

// MulVec computes y = M*x into the caller's buffer. y must not alias x.
func (m *Dense[T]) MulVec(x, y []T) {
	for i := 0; i < m.Rows; i++ {
		row := m.Data[i*m.Cols : (i+1)*m.Cols]
		var sum T
		for j, val := range row {
			sum += val * x[j]
		}
		y[i] = sum
	}
}

// InfNorm is the max-abs entry of a vector, the convergence measure of the
// nonlinear iterations.
func InfNorm[T precision.Float](v []T) (norm T) {
	for _, val := range v {
		if val < 0 {
			val = -val
		}
		if val > norm {
			norm = val
		}
	}
	return
}

func dot[T precision.Float](a, b []T) (sum T) {
	for i, val := range a {
		sum += val * b[i]
	}
	return
}
