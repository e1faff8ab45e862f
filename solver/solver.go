// Package solver implements the nonlinear solver core shared by the
// implicit time stepping schemes: Newton's method with a dense LU solve
// per inner iteration, and "good" Broyden with a rank-one updated
// approximate inverse Jacobian. Both run entirely in the working precision
// they are instantiated with.
package solver

import "github.com/mpark/mpint/precision"

// Residual writes F(y) into f. Implementations must be pure given y and
// must write into the supplied buffer; the loops reuse buffers across
// iterations instead of allocating.
type Residual[T precision.Float] func(y []T, f []T)

// Jacobian writes J(y) into j, same buffer discipline as Residual.
type Jacobian[T precision.Float] func(y []T, j *Dense[T])

// Result reports a nonlinear solve. X aliases the iterate buffer passed
// in, holding the best iterate whether or not the tolerance was met.
// Callers that need a convergence guarantee check Converged; the time
// stepping driver deliberately does not, proceeding best-effort.
type Result[T precision.Float] struct {
	X            []T
	Iterations   int
	Converged    bool
	ResidualNorm T
}

// Scratch owns the working storage for one problem size, allocated once
// per run and lent to every inner iteration of every step.
type Scratch[T precision.Float] struct {
	F, Fnew []T
	Delta   []T
	S, By   []T
	STB     []T
	E, Col  []T
	J, B    *Dense[T]
	LU      *LU[T]
}

func NewScratch[T precision.Float](n int) *Scratch[T] {
	return &Scratch[T]{
		F:     make([]T, n),
		Fnew:  make([]T, n),
		Delta: make([]T, n),
		S:     make([]T, n),
		By:    make([]T, n),
		STB:   make([]T, n),
		E:     make([]T, n),
		Col:   make([]T, n),
		J:     NewDense[T](n, n),
		B:     NewDense[T](n, n),
		LU:    NewLU[T](n),
	}
}

// Newton iterates x <- x - J(x)^-1 F(x) until the residual infinity norm
// drops below tol or maxIter iterations have run. Exhausting the cap is
// not an error: the best iterate is returned as-is.
func Newton[T precision.Float](x []T, F Residual[T], J Jacobian[T], tol T, maxIter int, s *Scratch[T]) (r Result[T]) {
	r.X = x
	for k := 0; k < maxIter; k++ {
		F(x, s.F)
		r.ResidualNorm = InfNorm(s.F)
		r.Iterations = k
		if r.ResidualNorm < tol {
			r.Converged = true
			return
		}
		J(x, s.J)
		if err := s.LU.Factorize(s.J); err != nil {
			return
		}
		s.LU.Solve(s.F, s.Delta)
		for i := range x {
			x[i] -= s.Delta[i]
		}
	}
	F(x, s.F)
	r.ResidualNorm = InfNorm(s.F)
	r.Iterations = maxIter
	r.Converged = r.ResidualNorm < tol
	return
}

// Broyden evaluates the true Jacobian once, at the initial guess, to seed
// an explicit approximate inverse B, then replaces further Jacobian
// evaluations and linear solves with the good-Broyden rank-one update
//
//	B <- B + (s - B*y) s^T B / (s^T B y)
//
// where s is the step taken and y the change in residual.
func Broyden[T precision.Float](x []T, F Residual[T], J Jacobian[T], tol T, maxIter int, s *Scratch[T]) (r Result[T]) {
	n := len(x)
	r.X = x
	F(x, s.F)
	r.ResidualNorm = InfNorm(s.F)
	if r.ResidualNorm < tol {
		r.Converged = true
		return
	}
	J(x, s.J)
	if err := s.LU.Factorize(s.J); err != nil {
		return
	}
	s.LU.Inverse(s.B, s.E, s.Col)
	for k := 1; k <= maxIter; k++ {
		// step s = -B*F(x)
		s.B.MulVec(s.F, s.S)
		for i := range s.S {
			s.S[i] = -s.S[i]
			x[i] += s.S[i]
		}
		F(x, s.Fnew)
		r.ResidualNorm = InfNorm(s.Fnew)
		r.Iterations = k
		if r.ResidualNorm < tol {
			r.Converged = true
			return
		}
		// y = F(x+s) - F(x), held in Delta
		for i := range s.Delta {
			s.Delta[i] = s.Fnew[i] - s.F[i]
		}
		s.B.MulVec(s.Delta, s.By)
		for j := 0; j < n; j++ {
			var sum T
			for i := 0; i < n; i++ {
				sum += s.S[i] * s.B.Data[i*n+j]
			}
			s.STB[j] = sum
		}
		denom := dot(s.S, s.By)
		if denom == 0 {
			// degenerate update, keep B and carry the best iterate
			copy(s.F, s.Fnew)
			continue
		}
		for i := 0; i < n; i++ {
			u := (s.S[i] - s.By[i]) / denom
			row := s.B.Data[i*n : (i+1)*n]
			for j := 0; j < n; j++ {
				row[j] += u * s.STB[j]
			}
		}
		copy(s.F, s.Fnew)
	}
	return
}
