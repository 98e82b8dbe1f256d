// show-lse shows how the adaptive LSE addition evaluates a pair of operands
// at each supported width, mostly for debugging the hardware description
// against the model.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/lsepe/lseref/fix"
)

var widthsFlag = flag.String("widths", "24,12,6", "comma separated list of operand `widths` to show")

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), help)
		fmt.Fprintln(flag.CommandLine.Output(), "\nOptional arguments:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		fail("Need exactly two arguments.")
	}
	a, err := parse(flag.Arg(0))
	if err != nil {
		fail(err.Error())
	}
	b, err := parse(flag.Arg(1))
	if err != nil {
		fail(err.Error())
	}
	widths, err := parseWidths(*widthsFlag)
	if err != nil {
		fail(err.Error())
	}

	w := tabwriter.NewWriter(os.Stdout, 9, 1, 2, ' ', 0)
	fmt.Fprintln(w, "width\ta\tb\tdiff\tthreshold\tcorrection\tresult\tnote")
	for _, width := range widths {
		p, err := fix.NewParams(width)
		if err != nil {
			fail(err.Error())
		}
		row(w, p, a, b)
	}
	if err := w.Flush(); err != nil {
		fail(err.Error())
	}
}

func parse(s string) (fix.Code, error) {
	raw, err := strconv.ParseUint(s, 0, 31)
	if err != nil {
		return 0, err
	}
	return fix.Code(raw), nil
}

func parseWidths(s string) ([]int, error) {
	var widths []int
	for _, part := range strings.Split(s, ",") {
		width, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad width %q: %v", part, err)
		}
		widths = append(widths, width)
	}
	return widths, nil
}

func row(w io.Writer, p fix.Params, a, b fix.Code) {
	a &= p.MaxVal
	b &= p.MaxVal
	result := p.Add(a, b)

	var note string
	var diff int64
	switch {
	case a == p.NegInf && b == p.NegInf:
		note = "-inf + -inf"
	case a == p.NegInf || b == p.NegInf:
		note = "-inf is the identity"
	default:
		larger, smaller := a, b
		if smaller > larger {
			larger, smaller = smaller, larger
		}
		diff = int64(smaller) - int64(larger)
		switch {
		case diff <= p.DiffThreshold:
			note = "smaller dropped"
		case larger > p.MaxVal-p.SmallCorrection:
			note = "saturated"
		default:
			note = "corrected"
		}
	}
	fmt.Fprintf(w, "%d\t%#x\t%#x\t%d\t%d\t%d\t%#x\t%s\n",
		p.Width, a, b, diff, p.DiffThreshold, p.SmallCorrection, result, note)
}

func fail(reason string) {
	fmt.Fprintln(os.Stderr, reason)
	fmt.Fprint(os.Stderr, help)
	os.Exit(1)
}

const help = `show-lse shows the adaptive LSE addition of two operands at
each requested width, with the intermediate values the hardware would see.
Usage:
	show-lse [-widths] a b

Where a and b are unsigned integer literals in Go syntax. Operands are
masked to each width before the addition.
`
