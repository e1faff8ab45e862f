package precision

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	for name, want := range map[string]Kind{
		"float64":  Float64,
		"double":   Float64,
		"F64":      Float64,
		"float32":  Float32,
		"single":   Float32,
		"bfloat16": BFloat16,
		"half":     BFloat16,
	} {
		k, err := ParseKind(name)
		assert.NoError(t, err)
		assert.Equal(t, want, k)
	}
	_, err := ParseKind("float128")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "float128")
}

func TestEps(t *testing.T) {
	assert.Equal(t, math.Nextafter(1, 2)-1, Eps[float64]())
	assert.Equal(t, float64(math.Nextafter32(1, 2)-1), float64(Eps[float32]()))
	assert.Less(t, Eps[float64](), float64(Eps[float32]()))
	assert.Less(t, Float32.Eps(), BFloat16.Eps())
}

func TestNarrowWiden(t *testing.T) {
	src := []float64{1, -2.5, 3.14159265358979, 1.e-8}
	narrow := make([]float32, len(src))
	wide := make([]float64, len(src))
	Narrow(src, narrow)
	Widen(narrow, wide)
	for i := range src {
		assert.InDelta(t, src[i], wide[i], float64(Eps[float32]())*math.Abs(src[i])+1.e-30)
	}
}

func TestTruncateBF16(t *testing.T) {
	// truncation keeps sign and exponent, drops the low mantissa
	assert.Equal(t, float32(1), TruncateBF16(1+1.e-5))
	assert.Equal(t, float32(-2), TruncateBF16(-2-1.e-4))
	assert.Equal(t, float32(0), TruncateBF16(0))
	// truncated values are exactly representable in 8 mantissa bits, so a
	// second truncation is the identity
	v := TruncateBF16(float32(math.Pi))
	assert.Equal(t, v, TruncateBF16(v))
	assert.InDelta(t, math.Pi, float64(v), BFloat16.Eps()*math.Pi)

	x := []float32{1.0001, 2.71828, -0.5}
	TruncateSliceBF16(x)
	for _, val := range x {
		assert.Equal(t, val, TruncateBF16(val))
	}
}
