// gen-lse generates the artifacts the external collaborators consume: a
// SystemVerilog ROM initializer for the correction table, reference vector
// files for the verification harness (SystemVerilog include plus a JSON
// report), and SIMD mode test cases. Everything is rendered from structured
// data produced by the model packages; nothing is patched into existing
// files.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/lsepe/lseref"
	"github.com/lsepe/lseref/clut"
	"github.com/lsepe/lseref/vector"
)

var (
	dirFlag = flag.String("dir", "", "directory in which to write output")

	genCLUTFlag    = flag.Bool("clut", true, "whether to generate the correction table artifacts")
	genVectorsFlag = flag.Bool("vectors", true, "whether to generate the reference vector artifacts")
	genSIMDFlag    = flag.Bool("simd", true, "whether to generate the SIMD mode test cases")

	entriesFlag = flag.Int("entries", 16, "number of correction table `entries`, a power of two")
	bitsFlag    = flag.Int("bits", 10, "bit width of each correction table entry")

	randomFlag    = flag.Int("random", 16, "number of additional random reference cases")
	seedFlag      = flag.Int64("seed", 2025, "seed for the random reference cases")
	toleranceFlag = flag.Int("tolerance-lsb", 64, "symmetric tolerance around each expected code, in LSBs")
	minFlag       = flag.Float64("min", 0, "lower bound for random log-domain operand values")
	maxFlag       = flag.Float64("max", 12, "upper bound for random log-domain operand values")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("gen-lse: ")

	// The three artifact families are independent of each other.
	var g errgroup.Group
	if *genCLUTFlag {
		g.Go(func() error { return genCLUT(*dirFlag) })
	}
	if *genVectorsFlag {
		g.Go(func() error { return genVectors(*dirFlag) })
	}
	if *genSIMDFlag {
		g.Go(func() error { return genSIMD(*dirFlag) })
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
	log.Println("All done")
}

func write(dir, name string, b []byte) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0666); err != nil {
		return err
	}
	log.Printf("Wrote %s", path)
	return nil
}

func genCLUT(dir string) error {
	t, err := clut.Build(*entriesFlag, *bitsFlag)
	if err != nil {
		return err
	}
	log.Printf("Built correction table: %d entries x %d bits, max correction %.6f, scale %.8f",
		t.Entries, t.Bits, t.MaxError, t.Scale())

	if err := write(dir, "clut_rom.sv", clutROM(t)); err != nil {
		return err
	}

	report := struct {
		Parameters struct {
			Entries       int     `json:"entries"`
			BitWidth      int     `json:"bit_width"`
			AddrBits      int     `json:"addr_bits"`
			MaxCorrection float64 `json:"max_correction"`
			Scale         float64 `json:"scale"`
		} `json:"parameters"`
		SamplePoints     []float64 `json:"sample_points"`
		ExactCorrections []float64 `json:"exact_corrections"`
		QuantizedValues  []uint16  `json:"quantized_values"`
	}{
		SamplePoints:     t.Samples,
		ExactCorrections: t.Errors,
		QuantizedValues:  t.Values,
	}
	report.Parameters.Entries = t.Entries
	report.Parameters.BitWidth = t.Bits
	report.Parameters.AddrBits = t.AddrBits()
	report.Parameters.MaxCorrection = t.MaxError
	report.Parameters.Scale = t.Scale()

	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return write(dir, "clut_report.json", b)
}

// clutROM renders the table as a SystemVerilog ROM initializer.
func clutROM(t clut.Table) []byte {
	var b bytes.Buffer
	hexDigits := (t.Bits + 3) / 4
	fmt.Fprintf(&b, "// CLUT ROM Data - %d entries x %d bits\n", t.Entries, t.Bits)
	fmt.Fprintf(&b, "logic [%d:0] lut_rom [%d] = '{\n", t.Bits-1, t.Entries)
	for i, v := range t.Values {
		sep := ","
		if i == len(t.Values)-1 {
			sep = " "
		}
		fmt.Fprintf(&b, "    %d'h%0*X%s  // Entry %2d: f(%.4f) correction\n",
			t.Bits, hexDigits, v, sep, i, t.Samples[i])
	}
	b.WriteString("};\n")
	return b.Bytes()
}

func genVectors(dir string) error {
	vs, err := vector.Build(vector.Config{
		RandomCount:  *randomFlag,
		Seed:         *seedFlag,
		ToleranceLSB: *toleranceFlag,
		Min:          *minFlag,
		Max:          *maxFlag,
	})
	if err != nil {
		return err
	}
	log.Printf("Built %d reference vectors with tolerance +/-%d LSB (%.6f)",
		len(vs), *toleranceFlag, float64(*toleranceFlag)/vector.Scale)

	if err := write(dir, "lse_add_reference_vectors.svh", vectorSVH(vs)); err != nil {
		return err
	}

	type jsonVector struct {
		Label          string  `json:"label"`
		OperandA       uint32  `json:"operand_a"`
		OperandB       uint32  `json:"operand_b"`
		Expected       uint32  `json:"expected"`
		MinExpected    uint32  `json:"min_expected"`
		MaxExpected    uint32  `json:"max_expected"`
		ExactValue     float64 `json:"exact_value"`
		ErrorTolerance float64 `json:"error_tolerance"`
		OperandAHex    string  `json:"operand_a_hex"`
		OperandBHex    string  `json:"operand_b_hex"`
		ExpectedHex    string  `json:"expected_hex"`
		MinExpectedHex string  `json:"min_expected_hex"`
		MaxExpectedHex string  `json:"max_expected_hex"`
	}
	payload := struct {
		Width        int          `json:"width"`
		FracBits     int          `json:"frac_bits"`
		NegInfCode   uint32       `json:"neg_inf_code"`
		ToleranceLSB int          `json:"tolerance_lsb"`
		Vectors      []jsonVector `json:"vectors"`
	}{
		Width:        vector.Width,
		FracBits:     vector.FracBits,
		NegInfCode:   uint32(vector.NegInfCode),
		ToleranceLSB: *toleranceFlag,
	}
	for _, v := range vs {
		payload.Vectors = append(payload.Vectors, jsonVector{
			Label:          v.Label,
			OperandA:       uint32(v.OperandA),
			OperandB:       uint32(v.OperandB),
			Expected:       uint32(v.Expected),
			MinExpected:    uint32(v.MinExpected),
			MaxExpected:    uint32(v.MaxExpected),
			ExactValue:     v.ExactValue,
			ErrorTolerance: v.Tolerance,
			OperandAHex:    fmt.Sprintf("0x%06X", uint32(v.OperandA)),
			OperandBHex:    fmt.Sprintf("0x%06X", uint32(v.OperandB)),
			ExpectedHex:    fmt.Sprintf("0x%06X", uint32(v.Expected)),
			MinExpectedHex: fmt.Sprintf("0x%06X", uint32(v.MinExpected)),
			MaxExpectedHex: fmt.Sprintf("0x%06X", uint32(v.MaxExpected)),
		})
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return write(dir, "lse_add_reference_vectors.json", b)
}

// vectorSVH renders the reference vectors as a SystemVerilog include the
// unified testbench consumes.
func vectorSVH(vs []vector.Vector) []byte {
	var b bytes.Buffer
	b.WriteString("`ifndef LSE_ADD_REFERENCE_VECTORS_SVH\n")
	b.WriteString("`define LSE_ADD_REFERENCE_VECTORS_SVH\n\n")
	b.WriteString("// Auto-generated file. Do not edit manually.\n")
	b.WriteString("// Generated by gen-lse.\n\n")
	b.WriteString("typedef struct {\n")
	b.WriteString("    logic [23:0] operand_a;\n")
	b.WriteString("    logic [23:0] operand_b;\n")
	b.WriteString("    logic [23:0] expected;\n")
	b.WriteString("    logic [23:0] min_expected;\n")
	b.WriteString("    logic [23:0] max_expected;\n")
	b.WriteString("    real exact_value;\n")
	b.WriteString("    real error_tolerance;\n")
	b.WriteString("    string label;\n")
	b.WriteString("} lse_add_reference_vector_t;\n\n")
	fmt.Fprintf(&b, "localparam int LSE_ADD_REFERENCE_VECTOR_COUNT = %d;\n", len(vs))
	fmt.Fprintf(&b, "localparam real LSE_ADD_REFERENCE_DEFAULT_TOLERANCE = %.6f;\n\n",
		float64(*toleranceFlag)/vector.Scale)
	b.WriteString("lse_add_reference_vector_t LSE_ADD_REFERENCE_VECTORS [0:LSE_ADD_REFERENCE_VECTOR_COUNT-1]")
	if len(vs) == 0 {
		b.WriteString(";\n\n")
	} else {
		b.WriteString(" = '{\n")
		for i, v := range vs {
			sep := ","
			if i == len(vs)-1 {
				sep = ""
			}
			fmt.Fprintf(&b, "    '{24'h%06X, 24'h%06X, 24'h%06X, 24'h%06X, 24'h%06X, %.12f, %.12f, %q}%s\n",
				uint32(v.OperandA), uint32(v.OperandB), uint32(v.Expected),
				uint32(v.MinExpected), uint32(v.MaxExpected),
				v.ExactValue, v.Tolerance, v.Label, sep)
		}
		b.WriteString("};\n\n")
	}
	b.WriteString("`endif // LSE_ADD_REFERENCE_VECTORS_SVH\n")
	return b.Bytes()
}

func genSIMD(dir string) error {
	cases := lseref.Cases()
	log.Printf("Built %d SIMD mode cases", len(cases))

	var b bytes.Buffer
	b.WriteString("// Auto-generated SIMD mode test cases.\n")
	b.WriteString("// Generated by gen-lse.\n\n")
	for _, c := range cases {
		fmt.Fprintf(&b, "// %s (%v)\n", c.Name, c.Mode)
		fmt.Fprintf(&b, "test_mode(2'b%02b, 24'h%06X, 24'h%06X, 24'h%06X, %q);\n\n",
			c.Mode.Selector(), uint32(c.A), uint32(c.B), uint32(c.Expected), c.Name)
	}
	return write(dir, "simd_mode_cases.sv", b.Bytes())
}
