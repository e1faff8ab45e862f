// Package Burgers1D implements the inviscid Burgers' equation
//
//	u_t + u*u_x = 0
//
// on a periodic domain, discretized in space with the dense spectral
// differentiation operator and advanced with an implicit scheme whose
// nonlinear solve runs in reduced precision.
package Burgers1D

import (
	"math"

	"github.com/mpark/mpint/precision"
	"github.com/mpark/mpint/solver"
	"github.com/mpark/mpint/spectral"
	"github.com/mpark/mpint/timestep"
	"github.com/mpark/mpint/utils"
)

// System holds the reduced precision snapshot of the operator plus the
// per-iteration scratch the evaluators write into. One System serves all
// steps of a run; the evaluator buffers are overwritten in place across
// inner iterations.
type System[R precision.Float] struct {
	Nx int
	D  *solver.Dense[R]
	q  []R // 0.5*y^2
	dq []R // D*q
}

func NewSystem[R precision.Float](D utils.Matrix) (s *System[R]) {
	nx, _ := D.Dims()
	s = &System[R]{
		Nx: nx,
		D:  solver.FromMatrix[R](D),
		q:  make([]R, nx),
		dq: make([]R, nx),
	}
	return
}

func (s *System[R]) Dim() int { return s.Nx }

// Residual returns F for the implicit relation at step size h:
//
//	F(y) = y - u_prev + h * D * (y^2 / 2)
//
// one dense mat-vec per evaluation.
func (s *System[R]) Residual(prev []R, h R) solver.Residual[R] {
	return func(y []R, f []R) {
		for i, val := range y {
			s.q[i] = val * val / 2
		}
		s.D.MulVec(s.q, s.dq)
		for i := range f {
			f[i] = y[i] - prev[i] + h*s.dq[i]
		}
	}
}

// Jacobian returns J(y) = I + h*D*diag(y).
func (s *System[R]) Jacobian(prev []R, h R) solver.Jacobian[R] {
	return func(y []R, j *solver.Dense[R]) {
		nx := s.Nx
		for i := 0; i < nx; i++ {
			for jj := 0; jj < nx; jj++ {
				val := h * s.D.At(i, jj) * y[jj]
				if i == jj {
					val++
				}
				j.Set(i, jj, val)
			}
		}
	}
}

// Burgers carries the full precision run parameters: the grid, the
// float64 spectral operator, and the initial waveform u0 = sin(x).
type Burgers struct {
	Nx         int
	XMin, XMax float64
	FinalTime  float64
	X          utils.Vector
	D          utils.Matrix
	U0         []float64
	Scheme     timestep.Scheme
	Method     timestep.Method
	Tol        float64
	MaxIter    int
}

// New validates the grid and builds the differentiation operator once.
// Even nx is rejected here, before any solve.
func New(nx int, xmin, xmax, finalTime float64) (c *Burgers, err error) {
	D, err := spectral.DiffMat(nx, xmin, xmax)
	if err != nil {
		return
	}
	c = &Burgers{
		Nx:        nx,
		XMin:      xmin,
		XMax:      xmax,
		FinalTime: finalTime,
		X:         spectral.Grid(nx, xmin, xmax),
		D:         D,
		Scheme:    timestep.BackwardEuler,
		Method:    timestep.Newton,
	}
	c.U0 = c.X.Copy().Apply(math.Sin).Data()
	return
}

// Integrate runs one step count with full precision F and reduced
// precision R.
func Integrate[F, R precision.Float](c *Burgers, nsteps int, truncate func([]R),
	sink func(t float64, y []F)) (y []F, stats timestep.Stats, err error) {
	var (
		sys = NewSystem[R](c.D)
		y0  = make([]F, c.Nx)
		cfg = timestep.Config[R]{
			Scheme:   c.Scheme,
			Method:   c.Method,
			Tol:      c.Tol,
			MaxIter:  c.MaxIter,
			TEnd:     c.FinalTime,
			Truncate: truncate,
		}
	)
	for i, val := range c.U0 {
		y0[i] = F(val)
	}
	scratch := solver.NewScratch[R](c.Nx)
	return timestep.Integrate[F, R](sys, y0, nsteps, cfg, scratch, sink)
}
