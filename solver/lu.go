package solver

import (
	"errors"

	"github.com/mpark/mpint/precision"
)

// ErrSingular is returned when elimination meets an exactly zero pivot.
// Near-singular systems are not detected; the iteration that asked for
// the solve carries whatever non-finite values result.
var ErrSingular = errors.New("solver: singular matrix, zero pivot")

// LU holds an in-place Doolittle factorization with partial pivoting, in
// the working precision. The backing arrays are owned by a Scratch so a
// time step's inner iterations refactor into the same storage.
type LU[T precision.Float] struct {
	n   int
	lu  []T
	piv []int
}

func NewLU[T precision.Float](n int) *LU[T] {
	return &LU[T]{n: n, lu: make([]T, n*n), piv: make([]int, n)}
}

func (f *LU[T]) Factorize(a *Dense[T]) error {
	n := f.n
	copy(f.lu, a.Data)
	for i := range f.piv {
		f.piv[i] = i
	}
	for k := 0; k < n; k++ {
		// pivot row
		p, max := k, f.lu[k*n+k]
		if max < 0 {
			max = -max
		}
		for i := k + 1; i < n; i++ {
			v := f.lu[i*n+k]
			if v < 0 {
				v = -v
			}
			if v > max {
				p, max = i, v
			}
		}
		if f.lu[p*n+k] == 0 {
			return ErrSingular
		}
		if p != k {
			f.piv[k], f.piv[p] = f.piv[p], f.piv[k]
			rk := f.lu[k*n : k*n+n]
			rp := f.lu[p*n : p*n+n]
			for j := range rk {
				rk[j], rp[j] = rp[j], rk[j]
			}
		}
		pivVal := f.lu[k*n+k]
		for i := k + 1; i < n; i++ {
			m := f.lu[i*n+k] / pivVal
			f.lu[i*n+k] = m
			for j := k + 1; j < n; j++ {
				f.lu[i*n+j] -= m * f.lu[k*n+j]
			}
		}
	}
	return nil
}

// Solve computes x with A*x = b from the current factorization. x must
// not alias b (the permutation reads b while x is written).
func (f *LU[T]) Solve(b, x []T) {
	n := f.n
	// apply permutation, forward substitution with unit lower triangle
	for i := 0; i < n; i++ {
		x[i] = b[f.piv[i]]
	}
	for i := 1; i < n; i++ {
		var sum T
		for j := 0; j < i; j++ {
			sum += f.lu[i*n+j] * x[j]
		}
		x[i] -= sum
	}
	// back substitution
	for i := n - 1; i >= 0; i-- {
		var sum T
		for j := i + 1; j < n; j++ {
			sum += f.lu[i*n+j] * x[j]
		}
		x[i] = (x[i] - sum) / f.lu[i*n+i]
	}
}

// Inverse assembles the explicit inverse column by column, seeding
// Broyden's approximate inverse. e and col are scratch vectors of length n.
func (f *LU[T]) Inverse(dst *Dense[T], e, col []T) {
	n := f.n
	for j := 0; j < n; j++ {
		for i := range e {
			e[i] = 0
		}
		e[j] = 1
		f.Solve(e, col)
		for i := 0; i < n; i++ {
			dst.Data[i*n+j] = col[i]
		}
	}
}
