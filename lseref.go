// package lseref is the golden numeric reference model for a fixed-point
// log-sum-exp arithmetic unit. The hardware processes a 24 bit data word
// either whole or split into independent equal-width lanes (SIMD); this
// package owns the word layer: packing codes into lanes, unpacking them, and
// applying the adaptive LSE addition from package fix to each lane pair.
package lseref

import (
	"fmt"
	"math/bits"

	"github.com/lsepe/lseref/fix"
)

// WordWidth is the total width of a data word in bits.
const WordWidth = 24

// Word is a WordWidth-bit data word holding one or more lanes.
type Word uint32

// Pack assembles lanes into a word, lane i at bit offset i*width. Lane 0
// occupies the least significant bits. Each lane is masked to width bits.
func Pack(lanes []fix.Code, width int) Word {
	mask := fix.Code(1)<<width - 1
	var w Word
	for i, l := range lanes {
		w |= Word(l&mask) << (i * width)
	}
	return w
}

// Unpack is the exact inverse of Pack: lane i is (w >> i*width) & (2^width-1).
func Unpack(w Word, width, count int) []fix.Code {
	mask := fix.Code(1)<<width - 1
	lanes := make([]fix.Code, count)
	for i := range lanes {
		lanes[i] = fix.Code(w>>(i*width)) & mask
	}
	return lanes
}

// Mode selects how the word is split: one 24 bit lane, two 12 bit lanes or
// four 6 bit lanes. The adaptive parameters for the lane width are derived
// once at construction.
type Mode struct {
	LaneWidth int
	LaneCount int
	Params    fix.Params
}

// NewMode builds the mode splitting the word into lanes of the given width.
// The width must divide WordWidth and be a valid engine width.
func NewMode(laneWidth int) (Mode, error) {
	if laneWidth <= 0 || WordWidth%laneWidth != 0 {
		return Mode{}, fmt.Errorf("%w: lane width %d does not divide %d", fix.ErrInvalidConfig, laneWidth, WordWidth)
	}
	p, err := fix.NewParams(laneWidth)
	if err != nil {
		return Mode{}, err
	}
	return Mode{LaneWidth: laneWidth, LaneCount: WordWidth / laneWidth, Params: p}, nil
}

func mustMode(laneWidth int) Mode {
	m, err := NewMode(laneWidth)
	if err != nil {
		panic(err)
	}
	return m
}

var (
	// Mode24 processes the word as a single 24 bit operand.
	Mode24 = mustMode(24)
	// Mode2x12 processes the word as two independent 12 bit lanes.
	Mode2x12 = mustMode(12)
	// Mode4x6 processes the word as four independent 6 bit lanes.
	Mode4x6 = mustMode(6)
)

// Modes returns all supported modes.
func Modes() []Mode {
	return []Mode{Mode24, Mode2x12, Mode4x6}
}

// ParseMode resolves a mode from its textual name: "24", "2x12" or "4x6".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "24", "24b":
		return Mode24, nil
	case "2x12", "2x12b":
		return Mode2x12, nil
	case "4x6", "4x6b":
		return Mode4x6, nil
	}
	return Mode{}, fmt.Errorf("%w: unknown mode %q", fix.ErrInvalidConfig, s)
}

// Selector is the hardware mode selector value for this mode: log2 of the
// lane count, so 0 for the full word, 1 for two lanes, 2 for four.
func (m Mode) Selector() int {
	return bits.Len(uint(m.LaneCount)) - 1
}

func (m Mode) String() string {
	if m.LaneCount == 1 {
		return fmt.Sprintf("%db", m.LaneWidth)
	}
	return fmt.Sprintf("%dx%db", m.LaneCount, m.LaneWidth)
}

// Apply performs the lane-wise LSE addition of two words: both are unpacked,
// corresponding lanes are added independently, and the results repacked. No
// carry or sentinel crosses a lane boundary.
func (m Mode) Apply(a, b Word) Word {
	la := Unpack(a, m.LaneWidth, m.LaneCount)
	lb := Unpack(b, m.LaneWidth, m.LaneCount)
	out := make([]fix.Code, m.LaneCount)
	for i := range out {
		out[i] = m.Params.Add(la[i], lb[i])
	}
	return Pack(out, m.LaneWidth)
}
