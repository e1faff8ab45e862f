// Package timestep advances a full precision state with an implicit scheme
// whose per-step nonlinear system is solved in a reduced working
// precision. Each step narrows the state down, runs Newton or Broyden to
// convergence (or to the iteration cap, silently), widens the result and
// applies the scheme's explicit correction in full precision.
package timestep

import (
	"fmt"
	"strings"

	"github.com/mpark/mpint/precision"
	"github.com/mpark/mpint/solver"
)

type Scheme uint8

const (
	BackwardEuler Scheme = iota
	ImplicitMidpoint
)

var schemeNames = []string{"backward-euler", "implicit-midpoint"}

func (s Scheme) String() string { return schemeNames[s] }

func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(name) {
	case "backward-euler", "beuler", "be":
		return BackwardEuler, nil
	case "implicit-midpoint", "impmid", "im":
		return ImplicitMidpoint, nil
	default:
		return 0, fmt.Errorf("unknown scheme %q: want backward-euler or implicit-midpoint", name)
	}
}

type Method uint8

const (
	Newton Method = iota
	Broyden
)

var methodNames = []string{"newton", "broyden"}

func (m Method) String() string { return methodNames[m] }

func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(name) {
	case "newton":
		return Newton, nil
	case "broyden":
		return Broyden, nil
	default:
		return 0, fmt.Errorf("unknown method %q: want newton or broyden", name)
	}
}

// Problem binds a model's residual and Jacobian to a step's previous state
// and (half-)step size. The returned evaluators are called repeatedly
// within one step and must follow the solver package's buffer discipline.
// For the midpoint scheme the driver passes h = dt/2 and the solved
// iterate is the midpoint value.
type Problem[R precision.Float] interface {
	Dim() int
	Residual(prev []R, h R) solver.Residual[R]
	Jacobian(prev []R, h R) solver.Jacobian[R]
}

// Config parameterizes one integration run.
type Config[R precision.Float] struct {
	Scheme  Scheme
	Method  Method
	Tol     float64 // 0 means DefaultTol
	MaxIter int     // 0 means DefaultMaxIter
	T0      float64
	TEnd    float64
	// Truncate, if set, is applied to the narrowed previous state before
	// each solve. Used to model sub-float32 storage widths (bfloat16).
	Truncate func([]R)
}

const (
	DefaultTol     = 1.e-10
	DefaultMaxIter = 20
)

// Stats summarizes a completed run. NonConverged counts steps that
// exhausted the iteration cap; they are observable here but never abort
// the run.
type Stats struct {
	Steps           int
	TotalIterations int
	NonConverged    int
	FinalTime       float64
}

// Integrate advances y0 across nsteps uniform steps from T0 to TEnd and
// returns the final full precision state. The last step's size is clamped
// so accumulated time lands exactly on TEnd regardless of round-off in the
// repeated dt additions. sink, if non-nil, observes the state after every
// completed step.
func Integrate[F, R precision.Float](p Problem[R], y0 []F, nsteps int, cfg Config[R],
	scratch *solver.Scratch[R], sink func(t float64, y []F)) (y []F, stats Stats, err error) {
	var (
		n       = p.Dim()
		tol     = cfg.Tol
		maxIter = cfg.MaxIter
	)
	if nsteps < 1 {
		err = fmt.Errorf("timestep: nsteps must be >= 1, have %d", nsteps)
		return
	}
	if len(y0) != n {
		err = fmt.Errorf("timestep: state length %d does not match problem dimension %d", len(y0), n)
		return
	}
	if tol == 0 {
		tol = DefaultTol
	}
	if minTol := 8 * float64(precision.Eps[R]()); tol < minTol {
		// below a few ulps of the working type the residual norm can
		// never settle; the cap would silently absorb every step
		tol = minTol
	}
	if maxIter == 0 {
		maxIter = DefaultMaxIter
	}

	y = make([]F, n)
	copy(y, y0)
	var (
		prev = make([]R, n)
		x    = make([]R, n)
		wide = make([]F, n)
		dt   = (cfg.TEnd - cfg.T0) / float64(nsteps)
		t    = cfg.T0
	)
	for step := 0; step < nsteps; step++ {
		h := dt
		if step == nsteps-1 {
			h = cfg.TEnd - t
		}
		precision.Narrow(y, prev)
		if cfg.Truncate != nil {
			cfg.Truncate(prev)
		}
		copy(x, prev)

		hr := R(h)
		if cfg.Scheme == ImplicitMidpoint {
			hr = R(h / 2)
		}
		resid := p.Residual(prev, hr)
		jac := p.Jacobian(prev, hr)

		var res solver.Result[R]
		switch cfg.Method {
		case Broyden:
			res = solver.Broyden(x, resid, jac, R(tol), maxIter, scratch)
		default:
			res = solver.Newton(x, resid, jac, R(tol), maxIter, scratch)
		}
		stats.TotalIterations += res.Iterations
		if !res.Converged {
			stats.NonConverged++
		}

		precision.Widen(x, wide)
		switch cfg.Scheme {
		case ImplicitMidpoint:
			// x is the midpoint value; the explicit half of the
			// split step happens in full precision
			for i := range y {
				y[i] = 2*wide[i] - y[i]
			}
		default:
			copy(y, wide)
		}
		if step == nsteps-1 {
			t = cfg.TEnd
		} else {
			t += h
		}
		stats.Steps++
		if sink != nil {
			sink(t, y)
		}
	}
	stats.FinalTime = t
	return
}
