// package vector generates high-precision reference vectors for verifying
// the hardware's LSE adder. Each vector carries two fixed-point operands,
// the exact log-sum-exp result computed in float64, its quantized expected
// code, and a symmetric tolerance band the verification harness judges
// against. The fixed-point format here is the hardware interface format (24
// bits, 10 fractional) and is independent of the adaptive engine's width
// parameter.
package vector

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/lsepe/lseref/fix"
)

// Fixed-point interface format of the arithmetic unit.
const (
	Width    = 24
	FracBits = 10
	Scale    = 1 << FracBits
)

const (
	maxCode fix.Code = 1<<Width - 1
	// NegInfCode is the sentinel for negative infinity in the interface
	// format.
	NegInfCode fix.Code = 1 << (Width - 1)
)

// Vector is one verification record. Immutable once built.
type Vector struct {
	Label                    string
	OperandA, OperandB       fix.Code
	Expected                 fix.Code
	MinExpected, MaxExpected fix.Code
	// ExactValue is the real-valued LSE result the expected code was
	// quantized from.
	ExactValue float64
	// Tolerance is the tolerance band half-width as a real value.
	Tolerance float64
}

// Config controls vector generation. The same config always produces the
// same vectors.
type Config struct {
	// RandomCount is how many random cases to add after the base cases.
	RandomCount int
	// Seed seeds the random operand sequence.
	Seed int64
	// ToleranceLSB is the symmetric tolerance around the expected code,
	// in least significant bits.
	ToleranceLSB int
	// Min and Max bound the random log-domain operand values.
	Min, Max float64
}

// baseCases are always generated: equal operands, small to large deltas,
// zeros, and fractional operands.
var baseCases = []struct {
	label string
	a, b  float64
}{
	{"equal_5", 5.0, 5.0},
	{"close_delta_0p5", 5.0, 4.5},
	{"close_delta_1", 3.0, 2.0},
	{"medium_delta_4", 8.0, 4.0},
	{"medium_delta_5", 10.0, 5.0},
	{"large_delta_18", 20.0, 2.0},
	{"zero_zero", 0.0, 0.0},
	{"zero_vs_4", 0.0, 4.0},
	{"four_vs_zero", 4.0, 0.0},
	{"fractional_0p25", 0.25, -0.75},
	{"fractional_1p5", 1.5, 0.0},
	{"fractional_2p75", 2.75, 1.125},
}

// RealToFixed converts a base-2 logarithmic real value to the interface
// fixed-point format, rounding and clamping to the representable range.
func RealToFixed(v float64) fix.Code {
	return fix.FromFloat(v, FracBits, maxCode)
}

// FixedToReal is the inverse scaling of RealToFixed, without clamping.
func FixedToReal(c fix.Code) float64 {
	return fix.Float[float64](c, FracBits)
}

// ExactLSE computes log2(2^a + 2^b) in float64. The log1p form keeps the
// computation stable when the operands are far apart; an unbounded operand
// dominates the result.
func ExactLSE(a, b float64) float64 {
	hi, lo := math.Max(a, b), math.Min(a, b)
	if math.IsInf(hi, 0) {
		return hi
	}
	return hi + math.Log1p(math.Exp2(lo-hi))/math.Ln2
}

// Build generates the reference vectors: every base case, then
// cfg.RandomCount cases with operands drawn uniformly from [cfg.Min,
// cfg.Max] using the seeded sequence. The result is sorted by label so the
// output order is deterministic.
func Build(cfg Config) ([]Vector, error) {
	if cfg.RandomCount < 0 {
		return nil, fmt.Errorf("%w: random count %d is negative", fix.ErrInvalidConfig, cfg.RandomCount)
	}
	if cfg.ToleranceLSB < 0 {
		return nil, fmt.Errorf("%w: tolerance %d LSB is negative", fix.ErrInvalidConfig, cfg.ToleranceLSB)
	}
	if cfg.RandomCount > 0 && cfg.Min > cfg.Max {
		return nil, fmt.Errorf("%w: range [%g, %g] is empty", fix.ErrInvalidConfig, cfg.Min, cfg.Max)
	}

	vectors := make([]Vector, 0, len(baseCases)+cfg.RandomCount)
	for _, c := range baseCases {
		vectors = append(vectors, build(c.label, c.a, c.b, cfg.ToleranceLSB))
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	for i := 0; i < cfg.RandomCount; i++ {
		a := cfg.Min + rng.Float64()*(cfg.Max-cfg.Min)
		b := cfg.Min + rng.Float64()*(cfg.Max-cfg.Min)
		vectors = append(vectors, build(fmt.Sprintf("random_%03d", i), a, b, cfg.ToleranceLSB))
	}
	sort.Slice(vectors, func(i, j int) bool { return vectors[i].Label < vectors[j].Label })
	return vectors, nil
}

func build(label string, a, b float64, toleranceLSB int) Vector {
	exact := ExactLSE(a, b)
	expected := RealToFixed(exact)
	lo := fix.Code(0)
	if t := fix.Code(toleranceLSB); expected > t {
		lo = expected - t
	}
	hi := expected + fix.Code(toleranceLSB)
	if hi > maxCode {
		hi = maxCode
	}
	return Vector{
		Label:       label,
		OperandA:    RealToFixed(a),
		OperandB:    RealToFixed(b),
		Expected:    expected,
		MinExpected: lo,
		MaxExpected: hi,
		ExactValue:  exact,
		Tolerance:   float64(toleranceLSB) / Scale,
	}
}
