package VanDerPol

import "math/big"

// refPrec is the mantissa width of the reference integration, matching the
// 128-bit runs the error studies baseline against.
const refPrec = 128

// Reference integrates the oscillator with the implicit midpoint rule
// entirely in extended precision and returns the final state rounded to
// float64. It exists only as the oracle for accuracy studies; the main
// solve path never touches math/big.
func Reference(alpha, tEnd float64, nsteps int) (final [2]float64) {
	var (
		a   = newRef(alpha)
		y1  = newRef(2)
		y2  = newRef(0)
		t   = newRef(0)
		end = newRef(tEnd)
		dt  = newRef(0).Quo(end, newRef(float64(nsteps)))
		h   = newRef(0).Quo(dt, newRef(2))
		tol = new(big.Float).SetPrec(refPrec).SetMantExp(newRef(1), -110)
	)
	x1, x2 := newRef(0), newRef(0)
	for step := 0; step < nsteps; step++ {
		hs := h
		if step == nsteps-1 {
			rem := newRef(0).Sub(end, t)
			hs = newRef(0).Quo(rem, newRef(2))
		}
		x1.Copy(y1)
		x2.Copy(y2)
		newtonRef(a, y1, y2, hs, tol, x1, x2)
		// y <- 2*m - y
		y1.Sub(newRef(0).Add(x1, x1), y1)
		y2.Sub(newRef(0).Add(x2, x2), y2)
		if step == nsteps-1 {
			t.Copy(end)
		} else {
			t.Add(t, dt)
		}
	}
	final[0], _ = y1.Float64()
	final[1], _ = y2.Float64()
	return
}

func newRef(x float64) *big.Float {
	return new(big.Float).SetPrec(refPrec).SetFloat64(x)
}

// newtonRef solves the 2x2 midpoint system in place with Newton and a
// closed-form linear solve via the determinant.
func newtonRef(a, u1, u2, h, tol, x1, x2 *big.Float) {
	var (
		one  = newRef(1)
		two  = newRef(2)
		f1   = newRef(0)
		f2   = newRef(0)
		tmp  = newRef(0)
		tmp2 = newRef(0)
		j00  = newRef(-1)
		j01  = newRef(0).Copy(h)
		j10  = newRef(0)
		j11  = newRef(0)
		det  = newRef(0)
		d1   = newRef(0)
		d2   = newRef(0)
	)
	for iter := 0; iter < 60; iter++ {
		// f1 = u1 + h*x2 - x1
		f1.Mul(h, x2)
		f1.Add(f1, u1)
		f1.Sub(f1, x1)
		// g = a*(1 - x1^2)*x2 - x1
		tmp.Mul(x1, x1)
		tmp.Sub(one, tmp)
		tmp.Mul(tmp, a)
		tmp.Mul(tmp, x2)
		tmp.Sub(tmp, x1)
		// f2 = u2 + h*g - x2
		f2.Mul(h, tmp)
		f2.Add(f2, u2)
		f2.Sub(f2, x2)

		if maxAbsRef(f1, f2, tmp2).Cmp(tol) < 0 {
			return
		}

		// j10 = h*(-2*a*x1*x2 - 1)
		j10.Mul(two, a)
		j10.Mul(j10, x1)
		j10.Mul(j10, x2)
		j10.Neg(j10)
		j10.Sub(j10, one)
		j10.Mul(j10, h)
		// j11 = h*a*(1 - x1^2) - 1
		j11.Mul(x1, x1)
		j11.Sub(one, j11)
		j11.Mul(j11, a)
		j11.Mul(j11, h)
		j11.Sub(j11, one)

		// det = j00*j11 - j01*j10
		det.Mul(j00, j11)
		tmp.Mul(j01, j10)
		det.Sub(det, tmp)

		// d = J^-1 * f by Cramer's rule
		d1.Mul(f1, j11)
		tmp.Mul(j01, f2)
		d1.Sub(d1, tmp)
		d1.Quo(d1, det)
		d2.Mul(j00, f2)
		tmp.Mul(f1, j10)
		d2.Sub(d2, tmp)
		d2.Quo(d2, det)

		x1.Sub(x1, d1)
		x2.Sub(x2, d2)
	}
}

func maxAbsRef(f1, f2, scratch *big.Float) *big.Float {
	scratch.Abs(f1)
	a2 := newRef(0).Abs(f2)
	if scratch.Cmp(a2) < 0 {
		scratch.Copy(a2)
	}
	return scratch
}
