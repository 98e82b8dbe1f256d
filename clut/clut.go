// package clut builds the correction lookup table that compensates for the
// systematic error of the hardware's first-order LSE approximation. The
// exact correction over [0,1) is f(x) = log2(1 + 2^x); the hardware
// approximates it as just x, so the table stores the quantized error
// f(x) - x, sampled uniformly and scaled by the largest error so the full
// output range is used.
package clut

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/lsepe/lseref/fix"
)

// Table is a built correction table plus the generation metadata a consumer
// needs to rescale its entries back to additive corrections.
type Table struct {
	// Entries is the number of table entries, always a power of two.
	Entries int
	// Bits is the width of each stored value.
	Bits int
	// Values holds the quantized corrections, ordered by address.
	Values []uint16
	// Samples holds the sample point x_i = i/Entries for each entry.
	Samples []float64
	// Errors holds the exact error f(x_i) - x_i for each entry.
	Errors []float64
	// MaxError is the largest exact error, the quantization scale
	// reference. It must travel with the table: a stored value v decodes
	// to v * MaxError / (2^Bits - 1).
	MaxError float64
}

// Exact is the exact correction function f(x) = log2(1 + 2^x).
func Exact(x float64) float64 {
	return math.Log2(1 + math.Exp2(x))
}

// Approx is the hardware's first-order approximation of Exact.
func Approx(x float64) float64 {
	return x
}

// Build samples the correction error at entries uniform points over
// [0, 1-1/entries] and quantizes each to bits bits, scaled so the largest
// error maps to the largest storable value. The entry count must be a power
// of two (the table is addressed by a log2(entries)-bit index) and the value
// width must fit the uint16 storage.
func Build(entries, bitWidth int) (Table, error) {
	if entries < 2 || entries&(entries-1) != 0 {
		return Table{}, fmt.Errorf("%w: entries %d is not a power of two", fix.ErrInvalidConfig, entries)
	}
	if bitWidth < 1 || bitWidth > 16 {
		return Table{}, fmt.Errorf("%w: bit width %d, want 1 to 16", fix.ErrInvalidConfig, bitWidth)
	}

	t := Table{
		Entries: entries,
		Bits:    bitWidth,
		Values:  make([]uint16, entries),
		Samples: make([]float64, entries),
		Errors:  make([]float64, entries),
	}
	for i := range t.Samples {
		x := float64(i) / float64(entries)
		t.Samples[i] = x
		t.Errors[i] = Exact(x) - Approx(x)
		t.MaxError = max(t.MaxError, t.Errors[i])
	}

	maxInt := float64(uint32(1)<<bitWidth - 1)
	for i, e := range t.Errors {
		q := math.Round(e / t.MaxError * maxInt)
		q = min(max(q, 0), maxInt)
		t.Values[i] = uint16(q)
	}
	return t, nil
}

// AddrBits is the width of the table's address, log2(Entries).
func (t Table) AddrBits() int {
	return bits.TrailingZeros(uint(t.Entries))
}

// Scale is the factor a stored value is multiplied by to recover an additive
// correction.
func (t Table) Scale() float64 {
	return t.MaxError / float64(uint32(1)<<t.Bits-1)
}

// Dequantize decodes entry i back to an approximate correction value.
func (t Table) Dequantize(i int) float64 {
	return float64(t.Values[i]) * t.Scale()
}
