// Package VanDerPol implements the Van der Pol oscillator
//
//	x' = y
//	y' = alpha*(1 - x^2)*y - x
//
// as an implicit-scheme model problem. The classic alpha = 1 gives the
// limit cycle; larger alpha makes the system stiff, which is what the
// mixed precision implicit solve is here to study.
package VanDerPol

import (
	"github.com/mpark/mpint/precision"
	"github.com/mpark/mpint/solver"
	"github.com/mpark/mpint/timestep"
)

// System is the 2-state problem instantiated in the reduced working
// precision.
type System[R precision.Float] struct {
	Alpha R
}

func (s System[R]) Dim() int { return 2 }

// Residual returns F for the implicit relation y = u + h*f(y):
//
//	F(y) = [ u1 + h*y2 - y1 ; u2 + h*(alpha*(1-y1^2)*y2 - y1) - y2 ]
//
// With h = dt this is backward Euler's fixed point; with h = dt/2 the root
// is the step's midpoint value.
func (s System[R]) Residual(prev []R, h R) solver.Residual[R] {
	var (
		u1, u2 = prev[0], prev[1]
		a      = s.Alpha
	)
	return func(y []R, f []R) {
		f[0] = u1 + h*y[1] - y[0]
		f[1] = u2 + h*(a*(1-y[0]*y[0])*y[1]-y[0]) - y[1]
	}
}

// Jacobian returns the closed-form 2x2 partial derivative matrix of the
// residual.
func (s System[R]) Jacobian(prev []R, h R) solver.Jacobian[R] {
	a := s.Alpha
	return func(y []R, j *solver.Dense[R]) {
		j.Set(0, 0, -1)
		j.Set(0, 1, h)
		j.Set(1, 0, h*(-2*a*y[0]*y[1]-1))
		j.Set(1, 1, h*a*(1-y[0]*y[0])-1)
	}
}

// VanDerPol carries the full precision run parameters for the model.
type VanDerPol struct {
	Alpha     float64
	FinalTime float64
	Y0        [2]float64
	Scheme    timestep.Scheme
	Method    timestep.Method
	Tol       float64
	MaxIter   int
}

func New(alpha, finalTime float64) (c *VanDerPol) {
	c = &VanDerPol{
		Alpha:     alpha,
		FinalTime: finalTime,
		Y0:        [2]float64{2, 0},
		Scheme:    timestep.ImplicitMidpoint,
		Method:    timestep.Newton,
	}
	return
}

// Integrate runs one step count with full precision F and reduced
// precision R. truncate, if non-nil, models a narrower storage format at
// the precision boundary. sink observes the trajectory step by step.
func Integrate[F, R precision.Float](c *VanDerPol, nsteps int, truncate func([]R),
	sink func(t float64, y []F)) (y []F, stats timestep.Stats, err error) {
	var (
		sys = System[R]{Alpha: R(c.Alpha)}
		y0  = []F{F(c.Y0[0]), F(c.Y0[1])}
		cfg = timestep.Config[R]{
			Scheme:   c.Scheme,
			Method:   c.Method,
			Tol:      c.Tol,
			MaxIter:  c.MaxIter,
			TEnd:     c.FinalTime,
			Truncate: truncate,
		}
	)
	scratch := solver.NewScratch[R](2)
	return timestep.Integrate(sys, y0, nsteps, cfg, scratch, sink)
}
