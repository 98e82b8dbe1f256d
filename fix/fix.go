// package fix implements fixed-point arithmetic over a logarithmic domain.
// Codes are unsigned magnitudes of a configurable bit width; addition in the
// linear domain becomes the log-sum-exp operation here, approximated the same
// coarse, width-adaptive way the hardware does it. One bit pattern is
// reserved as a sentinel for negative infinity, the additive identity.
package fix

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Code is an unsigned fixed-point code over the log domain. Only the low
// Params.Width bits are significant; everything in the package masks its
// results accordingly.
type Code uint32

// ErrInvalidConfig is returned (wrapped, naming the offending parameter) for
// configuration that cannot describe a valid unit: bad widths, lane widths
// that don't divide the word, table sizes that aren't powers of two.
var ErrInvalidConfig = errors.New("invalid configuration")

// Params holds the width-derived constants of the adaptive approximation.
// They are computed once by NewParams and passed around by value; nothing
// should rederive them inline.
type Params struct {
	// Width is the operand width in bits.
	Width int
	// NegInf is the sentinel code for negative infinity: the MSB set and
	// every other bit clear.
	NegInf Code
	// SmallCorrection is the single correction quantum added when the
	// smaller operand still matters: Width/8.
	SmallCorrection Code
	// DiffThreshold is the cutoff below which the smaller operand is
	// ignored: -2^(Width-4).
	DiffThreshold int64
	// MaxVal is the largest representable code, 2^Width - 1.
	MaxVal Code
}

// NewParams derives the adaptive parameters for the given operand width.
// Widths below 4 would make the difference threshold degenerate and widths
// above 31 don't fit a Code with signed headroom, so both are rejected.
func NewParams(width int) (Params, error) {
	if width < 4 || width > 31 {
		return Params{}, fmt.Errorf("%w: width %d, want 4 to 31", ErrInvalidConfig, width)
	}
	return Params{
		Width:           width,
		NegInf:          1 << (width - 1),
		SmallCorrection: Code(width / 8),
		DiffThreshold:   -(int64(1) << (width - 4)),
		MaxVal:          1<<width - 1,
	}, nil
}

// IsNegInf reports whether c is the sentinel for negative infinity.
func (p Params) IsNegInf(c Code) bool { return c == p.NegInf }

// Add is the adaptive log-sum-exp addition, approximating
// max(a,b) + log2(1+2^(min-max)). The sentinel is the identity: adding
// negative infinity returns the other operand unchanged. Otherwise the
// result is the larger operand, plus SmallCorrection when the smaller one
// is within DiffThreshold of it, saturating at MaxVal rather than wrapping.
// Total over all Width-bit inputs; never errors.
func (p Params) Add(a, b Code) Code {
	if a == p.NegInf || b == p.NegInf {
		switch {
		case a == p.NegInf && b == p.NegInf:
			return p.NegInf
		case a == p.NegInf:
			return b
		default:
			return a
		}
	}

	larger, smaller := a, b
	if smaller > larger {
		larger, smaller = smaller, larger
	}
	// Always <= 0. int64 has plenty of headroom for any valid width.
	diff := int64(smaller) - int64(larger)

	if diff > p.DiffThreshold {
		// The smaller operand still contributes.
		if larger > p.MaxVal-p.SmallCorrection {
			return p.MaxVal
		}
		return (larger + p.SmallCorrection) & p.MaxVal
	}
	return larger & p.MaxVal
}

// Mul multiplies in the log domain, which is a saturating addition of the
// codes. Negative infinity annihilates: if either operand is the sentinel
// the product is the sentinel.
func (p Params) Mul(a, b Code) Code {
	if a == p.NegInf || b == p.NegInf {
		return p.NegInf
	}
	// Only one side needs checking: if a > MaxVal-b then also b > MaxVal-a.
	if a > p.MaxVal-b {
		return p.MaxVal
	}
	return (a + b) & p.MaxVal
}

// Sum folds Add over the codes. The empty sum is the additive identity,
// negative infinity.
func (p Params) Sum(codes ...Code) Code {
	acc := p.NegInf
	for _, c := range codes {
		acc = p.Add(acc, c)
	}
	return acc
}

// Float converts a code with the given number of fractional bits to a float.
func Float[T constraints.Float](c Code, fracBits int) T {
	return T(c) / T(uint64(1)<<fracBits)
}

// FromFloat converts a real log-domain value to a code with the given number
// of fractional bits, rounding to nearest and clamping to [0, max].
func FromFloat[T constraints.Float](f T, fracBits int, max Code) Code {
	v := math.Round(float64(f) * float64(uint64(1)<<fracBits))
	if v < 0 {
		return 0
	}
	if v > float64(max) {
		return max
	}
	return Code(v)
}
