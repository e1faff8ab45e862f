package VanDerPol

import (
	"math"
	"testing"

	"github.com/mpark/mpint/precision"
	"github.com/mpark/mpint/solver"
	"github.com/mpark/mpint/timestep"
	"github.com/stretchr/testify/assert"
)

func TestResidualClosedForm(t *testing.T) {
	var (
		sys  = System[float64]{Alpha: 1.5}
		prev = []float64{2, 0.5}
		h    = 0.01
		y    = []float64{1.9, 0.4}
		f    = make([]float64, 2)
	)
	sys.Residual(prev, h)(y, f)
	assert.InDelta(t, prev[0]+h*y[1]-y[0], f[0], 1.e-15)
	g := 1.5*(1-y[0]*y[0])*y[1] - y[0]
	assert.InDelta(t, prev[1]+h*g-y[1], f[1], 1.e-15)
}

func TestJacobianMatchesFiniteDifferences(t *testing.T) {
	var (
		sys  = System[float64]{Alpha: 2}
		prev = []float64{1.7, -0.3}
		h    = 0.05
		y    = []float64{1.6, -0.25}
		F    = sys.Residual(prev, h)
		J    = sys.Jacobian(prev, h)
		jac  = solver.NewDense[float64](2, 2)
		eps  = 1.e-7
	)
	J(y, jac)
	f0 := make([]float64, 2)
	f1 := make([]float64, 2)
	yp := make([]float64, 2)
	F(y, f0)
	for j := 0; j < 2; j++ {
		copy(yp, y)
		yp[j] += eps
		F(yp, f1)
		for i := 0; i < 2; i++ {
			fd := (f1[i] - f0[i]) / eps
			assert.InDelta(t, fd, jac.At(i, j), 1.e-6, "entry (%d,%d)", i, j)
		}
	}
}

func TestAlphaZeroIsHarmonicOscillator(t *testing.T) {
	// with alpha = 0 the midpoint step is linear, so Newton needs exactly
	// one inner iteration per step, and the scheme conserves x^2 + y^2
	c := New(0, 2*math.Pi)
	nsteps := 200
	y, stats, err := Integrate[float64, float64](c, nsteps, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, nsteps, stats.TotalIterations)
	assert.Equal(t, 0, stats.NonConverged)
	energy := y[0]*y[0] + y[1]*y[1]
	assert.InDelta(t, 4, energy, 1.e-8)
}

func TestAgainstReference(t *testing.T) {
	c := New(1, 1)
	ref := Reference(1, 1, 200000)
	y, stats, err := Integrate[float64, float64](c, 4096, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.NonConverged)
	errNorm := math.Hypot(y[0]-ref[0], y[1]-ref[1])
	assert.Less(t, errNorm, 1.e-6)
}

func TestReferenceSelfConsistent(t *testing.T) {
	a := Reference(1, 1, 2000)
	b := Reference(1, 1, 4000)
	assert.InDelta(t, a[0], b[0], 1.e-7)
	assert.InDelta(t, a[1], b[1], 1.e-7)
}

func TestNewtonBroydenAgree(t *testing.T) {
	cn := New(1, 1)
	cb := New(1, 1)
	cb.Method = timestep.Broyden
	yn, _, err := Integrate[float64, float64](cn, 500, nil, nil)
	assert.NoError(t, err)
	yb, _, err := Integrate[float64, float64](cb, 500, nil, nil)
	assert.NoError(t, err)
	assert.InDelta(t, yn[0], yb[0], 1.e-8)
	assert.InDelta(t, yn[1], yb[1], 1.e-8)
}

func TestPrecisionDegradationMonotone(t *testing.T) {
	// for a fixed step count, narrowing the inner precision must worsen
	// the error against the extended precision reference
	const nsteps = 10000
	ref := Reference(1, 1, 200000)
	l2 := func(y []float64) float64 {
		return math.Hypot(y[0]-ref[0], y[1]-ref[1])
	}
	c := New(1, 1)
	y64, _, err := Integrate[float64, float64](c, nsteps, nil, nil)
	assert.NoError(t, err)
	y32, _, err := Integrate[float64, float32](c, nsteps, nil, nil)
	assert.NoError(t, err)
	ybf, _, err := Integrate[float64, float32](c, nsteps, precision.TruncateSliceBF16, nil)
	assert.NoError(t, err)
	assert.Less(t, l2(y64), l2(y32))
	assert.Less(t, l2(y32), l2(ybf))
}

func TestBackwardEulerFirstOrder(t *testing.T) {
	ref := Reference(1, 1, 200000)
	c := New(1, 1)
	c.Scheme = timestep.BackwardEuler
	errAt := func(nsteps int) float64 {
		y, _, err := Integrate[float64, float64](c, nsteps, nil, nil)
		assert.NoError(t, err)
		return math.Hypot(y[0]-ref[0], y[1]-ref[1])
	}
	e1, e2 := errAt(500), errAt(1000)
	assert.InDelta(t, 2, e1/e2, 0.4)
}

func TestTrajectorySinkLength(t *testing.T) {
	c := New(1, 1)
	var rows int
	_, _, err := Integrate[float64, float64](c, 50, nil, func(tm float64, y []float64) { rows++ })
	assert.NoError(t, err)
	assert.Equal(t, 50, rows)
}
