// Package spectral builds the dense Fourier differentiation operator for a
// periodic grid: D = Re( F^-1 * iK * F ), with K the diagonal wavenumber
// matrix. D is computed once per run and shared read-only by every time
// step.
package spectral

import (
	"fmt"
	"math"

	"github.com/mpark/mpint/utils"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Grid returns the nx collocation points of the periodic domain
// [xmin, xmax); xmax itself is excluded, it aliases xmin.
func Grid(nx int, xmin, xmax float64) (x utils.Vector) {
	var (
		h = (xmax - xmin) / float64(nx)
	)
	x = utils.NewVector(nx)
	data := x.Data()
	for i := range data {
		data[i] = xmin + float64(i)*h
	}
	return
}

// DiffMat builds the nx x nx spectral differentiation matrix for the
// periodic domain [xmin, xmax). nx must be odd: an even point count splits
// the Nyquist mode's wavenumber symmetry and the resulting operator is
// wrong in a way the solvers only reveal as divergence, so it is rejected
// here, before any compute.
func DiffMat(nx int, xmin, xmax float64) (D utils.Matrix, err error) {
	if nx < 3 || nx%2 == 0 {
		err = fmt.Errorf("spectral: grid point count must be odd and >= 3, have %d", nx)
		return
	}
	if xmax <= xmin {
		err = fmt.Errorf("spectral: empty domain [%g, %g)", xmin, xmax)
		return
	}
	var (
		fft   = fourier.NewCmplxFFT(nx)
		seq   = make([]complex128, nx)
		coeff = make([]complex128, nx)
		col   = make([]float64, nx)
		scale = 2 * math.Pi / ((xmax - xmin) * float64(nx))
	)
	D = utils.NewMatrix(nx, nx)
	for j := 0; j < nx; j++ {
		for i := range seq {
			seq[i] = 0
		}
		seq[j] = 1
		fft.Coefficients(coeff, seq)
		// multiply by i*k in coefficient ordering: index m carries
		// wavenumber m for m <= (nx-1)/2 and m-nx above
		for m := range coeff {
			k := m
			if m > (nx-1)/2 {
				k = m - nx
			}
			coeff[m] *= complex(0, float64(k))
		}
		fft.Sequence(seq, coeff)
		// inverse transform is unnormalized; fold 1/nx into the
		// domain scaling and keep the real part
		for i := range col {
			col[i] = real(seq[i]) * scale
		}
		D.SetCol(j, col)
	}
	return
}
