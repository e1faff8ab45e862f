// Package precision defines the floating point kinds the solvers can be
// instantiated with and the narrowing/widening casts between them. The
// invariant throughout the module is one-directional: reduced precision
// working buffers are produced only by narrowing a full precision state,
// and full precision state is updated only by widening a converged reduced
// precision iterate.
package precision

import (
	"fmt"
	"math"
	"strings"
)

// Float constrains the solver's working types. Extended precision
// (math/big) is deliberately excluded; it appears only behind the Van der
// Pol reference oracle.
type Float interface {
	float32 | float64
}

// Kind tags a floating point width for CLI/config dispatch.
type Kind uint8

const (
	Float64 Kind = iota
	Float32
	BFloat16
)

var kindNames = []string{"float64", "float32", "bfloat16"}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindNames[k]
}

// ParseKind maps a user supplied datatype name to a Kind. Unknown names are
// a configuration error and must be rejected before any compute begins.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "float64", "double", "f64":
		return Float64, nil
	case "float32", "single", "f32":
		return Float32, nil
	case "bfloat16", "bf16", "half":
		return BFloat16, nil
	default:
		return 0, fmt.Errorf("unknown datatype %q: want float64|double, float32|single, or bfloat16|half", name)
	}
}

// Eps returns the machine epsilon of the instantiated type.
func Eps[T Float]() T {
	var t T
	switch any(t).(type) {
	case float32:
		return T(math.Nextafter32(1, 2) - 1)
	default:
		return T(math.Nextafter(1, 2) - 1)
	}
}

// Eps returns the machine epsilon of the reduced arithmetic the Kind
// stands for. BFloat16 keeps 8 significand bits.
func (k Kind) Eps() float64 {
	switch k {
	case Float32:
		return float64(Eps[float32]())
	case BFloat16:
		return 1.0 / (1 << 8)
	default:
		return Eps[float64]()
	}
}

// Narrow casts src down into dst. dst is caller supplied so the per-step
// snapshot does not allocate.
func Narrow[F, R Float](src []F, dst []R) {
	for i, val := range src {
		dst[i] = R(val)
	}
}

// Widen casts src up into dst.
func Widen[R, F Float](src []R, dst []F) {
	for i, val := range src {
		dst[i] = F(val)
	}
}

// TruncateBF16 drops the low 16 bits of the float32 significand, leaving
// the bfloat16 value with the same exponent range. Arithmetic after the
// cast proceeds in float32; the truncation models a half-width storage
// format at the precision boundary.
func TruncateBF16(x float32) float32 {
	return math.Float32frombits(math.Float32bits(x) &^ 0xffff)
}

// TruncateSliceBF16 applies TruncateBF16 in place.
func TruncateSliceBF16(x []float32) {
	for i, val := range x {
		x[i] = TruncateBF16(val)
	}
}
