package lseref

import "github.com/lsepe/lseref/fix"

// Case is a curated SIMD verification case: two operand words, the mode they
// are processed in, and the word the hardware must produce.
type Case struct {
	Name     string
	Mode     Mode
	A, B     Word
	Expected Word
}

// Cases returns the curated SIMD verification cases consumed by the external
// verification harness. Expected words are derived by the model itself, so
// the cases stay consistent with the engine whenever its parameters move.
func Cases() []Case {
	var cases []Case
	add := func(name string, m Mode, a, b Word) {
		cases = append(cases, Case{Name: name, Mode: m, A: a, B: b, Expected: m.Apply(a, b)})
	}
	dual := func(name string, x0, x1, y0, y1 fix.Code) {
		add(name, Mode2x12, Pack([]fix.Code{x0, x1}, 12), Pack([]fix.Code{y0, y1}, 12))
	}
	quad := func(name string, x, y [4]fix.Code) {
		add(name, Mode4x6, Pack(x[:], 6), Pack(y[:], 6))
	}

	dual("dual basic", 0x100, 0x200, 0x050, 0x100)
	dual("dual zero inputs", 0x000, 0x000, 0x000, 0x000)
	dual("dual saturation", 0xFFF, 0xFFF, 0x001, 0x001)
	dual("dual asymmetric", 0x800, 0x100, 0x200, 0x800)
	dual("dual ramp 0", 0x100, 0x200, 0x050, 0x100)
	dual("dual ramp 1", 0x110, 0x220, 0x058, 0x110)
	dual("dual ramp 2", 0x120, 0x240, 0x060, 0x120)
	dual("dual ramp 3", 0x130, 0x260, 0x068, 0x130)

	quad("quad basic", [4]fix.Code{0x05, 0x0A, 0x15, 0x20}, [4]fix.Code{0x03, 0x08, 0x12, 0x18})
	quad("quad zero inputs", [4]fix.Code{}, [4]fix.Code{})
	quad("quad saturation", [4]fix.Code{0x3F, 0x3F, 0x3F, 0x3F}, [4]fix.Code{0x01, 0x01, 0x01, 0x01})
	quad("quad independence", [4]fix.Code{0x10, 0x20, 0x30, 0x08}, [4]fix.Code{0x08, 0x10, 0x18, 0x30})
	quad("quad equal lanes", [4]fix.Code{0x02, 0x04, 0x08, 0x10}, [4]fix.Code{0x02, 0x04, 0x08, 0x10})

	add("full word", Mode24, 0x100050, 0x100050)
	add("dual word", Mode2x12, 0x200100, 0x100050)
	add("quad word", Mode4x6, 0x041044, 0x041044)

	return cases
}
