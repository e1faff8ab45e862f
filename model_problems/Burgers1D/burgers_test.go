package Burgers1D

import (
	"math"
	"testing"

	"github.com/mpark/mpint/solver"
	"github.com/mpark/mpint/timestep"
	"github.com/mpark/mpint/utils"
	"github.com/stretchr/testify/assert"
)

func TestNewRejectsEvenGrid(t *testing.T) {
	_, err := New(100, 0, 2*math.Pi, 1.75)
	assert.Error(t, err)
	c, err := New(101, 0, 2*math.Pi, 1.75)
	assert.NoError(t, err)
	assert.Equal(t, 101, c.Nx)
	assert.Equal(t, 101, len(c.U0))
}

func TestResidualAtPreviousState(t *testing.T) {
	// at y = u_prev the residual reduces to h * D * (u^2/2)
	c, err := New(31, 0, 2*math.Pi, 1)
	assert.NoError(t, err)
	var (
		sys = NewSystem[float64](c.D)
		h   = 0.01
		F   = sys.Residual(c.U0, h)
		f   = make([]float64, c.Nx)
	)
	F(c.U0, f)
	q := utils.NewVector(c.Nx)
	for i, val := range c.U0 {
		q.Data()[i] = val * val / 2
	}
	dq := c.D.MulVec(q)
	for i := 0; i < c.Nx; i++ {
		assert.InDelta(t, h*dq.AtVec(i), f[i], 1.e-12)
	}
}

func TestJacobianMatchesFiniteDifferences(t *testing.T) {
	c, err := New(11, 0, 2*math.Pi, 1)
	assert.NoError(t, err)
	var (
		sys = NewSystem[float64](c.D)
		h   = 0.02
		F   = sys.Residual(c.U0, h)
		J   = sys.Jacobian(c.U0, h)
		jac = solver.NewDense[float64](c.Nx, c.Nx)
		eps = 1.e-7
	)
	y := append([]float64{}, c.U0...)
	J(y, jac)
	f0 := make([]float64, c.Nx)
	f1 := make([]float64, c.Nx)
	yp := make([]float64, c.Nx)
	F(y, f0)
	for j := 0; j < c.Nx; j++ {
		copy(yp, y)
		yp[j] += eps
		F(yp, f1)
		for i := 0; i < c.Nx; i++ {
			fd := (f1[i] - f0[i]) / eps
			assert.InDelta(t, fd, jac.At(i, j), 1.e-5, "entry (%d,%d)", i, j)
		}
	}
}

func TestConstantStateIsFixedPoint(t *testing.T) {
	// a constant field has zero spatial derivative; the integrator must
	// leave it alone
	c, err := New(21, 0, 2*math.Pi, 0.5)
	assert.NoError(t, err)
	for i := range c.U0 {
		c.U0[i] = 1.5
	}
	y, stats, err := Integrate[float64, float64](c, 10, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.NonConverged)
	for i := range y {
		assert.InDelta(t, 1.5, y[i], 1.e-10)
	}
}

func TestRefinementConverges(t *testing.T) {
	// pre-shock horizon: halving dt must shrink the error against a fine
	// midpoint reference
	ref := finalState(t, 31, 0.2, timestep.ImplicitMidpoint, 2000)
	errAt := func(nsteps int) float64 {
		y := finalState(t, 31, 0.2, timestep.BackwardEuler, nsteps)
		var sum float64
		for i := range y {
			d := y[i] - ref[i]
			sum += d * d
		}
		return math.Sqrt(sum)
	}
	eCoarse, eFine := errAt(25), errAt(200)
	assert.Less(t, eFine, eCoarse)
}

func TestNewtonBroydenAgree(t *testing.T) {
	cn, err := New(31, 0, 2*math.Pi, 0.2)
	assert.NoError(t, err)
	cb, err := New(31, 0, 2*math.Pi, 0.2)
	assert.NoError(t, err)
	cb.Method = timestep.Broyden
	cn.Tol = 1.e-12
	cb.Tol = 1.e-12
	yn, _, err := Integrate[float64, float64](cn, 50, nil, nil)
	assert.NoError(t, err)
	yb, _, err := Integrate[float64, float64](cb, 50, nil, nil)
	assert.NoError(t, err)
	for i := range yn {
		assert.InDelta(t, yn[i], yb[i], 1.e-7)
	}
}

func TestMixedPrecisionRuns(t *testing.T) {
	c, err := New(31, 0, 2*math.Pi, 0.2)
	assert.NoError(t, err)
	ref := finalState(t, 31, 0.2, timestep.BackwardEuler, 100)
	y32, _, err := Integrate[float64, float32](c, 100, nil, nil)
	assert.NoError(t, err)
	var sum float64
	for i := range y32 {
		d := y32[i] - ref[i]
		sum += d * d
	}
	// reduced precision stays close to the full precision run
	assert.Less(t, math.Sqrt(sum), 1.e-3)
}

func finalState(t *testing.T, nx int, tEnd float64, scheme timestep.Scheme, nsteps int) []float64 {
	c, err := New(nx, 0, 2*math.Pi, tEnd)
	assert.NoError(t, err)
	c.Scheme = scheme
	y, _, err := Integrate[float64, float64](c, nsteps, nil, nil)
	assert.NoError(t, err)
	return y
}
