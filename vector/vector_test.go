package vector

import (
	"errors"
	"math"
	"reflect"
	"sort"
	"testing"

	"github.com/lsepe/lseref/fix"
)

func TestExactLSE(t *testing.T) {
	for _, c := range []struct {
		a, b, want float64
	}{
		{5, 5, 6},
		{0, 0, 1},
		{4, 0, 4 + math.Log2(1+math.Exp2(-4))},
		{20, 2, 20 + math.Log2(1+math.Exp2(-18))},
		{3, math.Inf(-1), 3},
		{math.Inf(1), 2, math.Inf(1)},
		{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	} {
		got := ExactLSE(c.a, c.b)
		if math.IsInf(c.want, 0) {
			if got != c.want {
				t.Errorf("ExactLSE(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
			}
			continue
		}
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("ExactLSE(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
		if sym := ExactLSE(c.b, c.a); sym != got {
			t.Errorf("ExactLSE(%v, %v) = %v but ExactLSE(%v, %v) = %v", c.a, c.b, got, c.b, c.a, sym)
		}
	}
}

func TestRealToFixed(t *testing.T) {
	for _, c := range []struct {
		in  float64
		out fix.Code
	}{
		{5.0, 5 * Scale},
		{0.25, Scale / 4},
		{0.0, 0},
		{-1.0, 0},
		{1e9, 1<<Width - 1},
	} {
		if got := RealToFixed(c.in); got != c.out {
			t.Errorf("RealToFixed(%v) = %#x, want %#x", c.in, got, c.out)
		}
	}
}

func TestBuildDeterminism(t *testing.T) {
	cfg := Config{RandomCount: 16, Seed: 2025, ToleranceLSB: 64, Min: 0, Max: 12}
	a, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two builds with the same config differ")
	}

	cfg.Seed = 7
	c, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced identical vectors")
	}
}

func TestBuildVectors(t *testing.T) {
	cfg := Config{RandomCount: 8, Seed: 1, ToleranceLSB: 64, Min: 0, Max: 12}
	vectors, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if want := len(baseCases) + cfg.RandomCount; len(vectors) != want {
		t.Fatalf("got %d vectors, want %d", len(vectors), want)
	}
	if !sort.SliceIsSorted(vectors, func(i, j int) bool { return vectors[i].Label < vectors[j].Label }) {
		t.Error("vectors are not sorted by label")
	}
	for _, v := range vectors {
		if v.MinExpected > v.Expected || v.Expected > v.MaxExpected {
			t.Errorf("%s: expected %#x outside [%#x, %#x]", v.Label, v.Expected, v.MinExpected, v.MaxExpected)
		}
		if want := RealToFixed(v.ExactValue); v.Expected != want {
			t.Errorf("%s: expected %#x, want quantized exact %#x", v.Label, v.Expected, want)
		}
		if v.MaxExpected > 1<<Width-1 {
			t.Errorf("%s: max expected %#x exceeds the code range", v.Label, v.MaxExpected)
		}
		if v.Tolerance != float64(cfg.ToleranceLSB)/Scale {
			t.Errorf("%s: tolerance %v, want %v", v.Label, v.Tolerance, float64(cfg.ToleranceLSB)/Scale)
		}
	}
}

func TestBuildBaseCases(t *testing.T) {
	vectors, err := Build(Config{ToleranceLSB: 64})
	if err != nil {
		t.Fatal(err)
	}
	byLabel := make(map[string]Vector, len(vectors))
	for _, v := range vectors {
		byLabel[v.Label] = v
	}
	for _, c := range []struct {
		label          string
		a, b, expected fix.Code
		minExp, maxExp fix.Code
	}{
		// log2(2^5 + 2^5) = 6 exactly.
		{"equal_5", 5120, 5120, 6144, 6080, 6208},
		// log2(2) = 1.
		{"zero_zero", 0, 0, 1024, 960, 1088},
		// The delta is far too small to move the quantized result.
		{"large_delta_18", 20480, 2048, 20480, 20416, 20544},
	} {
		v, ok := byLabel[c.label]
		if !ok {
			t.Errorf("missing base case %q", c.label)
			continue
		}
		if v.OperandA != c.a || v.OperandB != c.b || v.Expected != c.expected ||
			v.MinExpected != c.minExp || v.MaxExpected != c.maxExp {
			t.Errorf("%s = %+v, want a=%d b=%d expected=%d band=[%d, %d]",
				c.label, v, c.a, c.b, c.expected, c.minExp, c.maxExp)
		}
	}
}

func TestBuildToleranceClamp(t *testing.T) {
	vectors, err := Build(Config{ToleranceLSB: 1 << 24})
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vectors {
		if v.MinExpected != 0 {
			t.Errorf("%s: min expected %#x, want 0", v.Label, v.MinExpected)
		}
		if v.MaxExpected != 1<<Width-1 {
			t.Errorf("%s: max expected %#x, want full scale", v.Label, v.MaxExpected)
		}
	}
}

func TestBuildInvalidConfig(t *testing.T) {
	for _, cfg := range []Config{
		{RandomCount: -1},
		{ToleranceLSB: -1},
		{RandomCount: 4, Min: 10, Max: 0},
	} {
		if _, err := Build(cfg); !errors.Is(err, fix.ErrInvalidConfig) {
			t.Errorf("Build(%+v): got %v, want ErrInvalidConfig", cfg, err)
		}
	}
}
