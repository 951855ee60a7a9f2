package asm_test

import (
	"strings"
	"testing"

	. "github.com/sicxe/assembler/internal/asm"
)

func parseLines(t *testing.T, src string) []*Instruction {
	t.Helper()

	parser := NewParser(testLogger(t))

	instrs, err := parser.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}

	return instrs
}

func TestPass1AssignsAddresses(t *testing.T) {
	const src = `COPY    START   1000
FIRST   LDA     ALPHA
        STA     BETA
ALPHA   WORD    5
BETA    RESW    1
        END     FIRST
`

	instrs := parseLines(t, src)

	pass1 := NewPass1()
	length := pass1.Run(instrs)

	if len(pass1.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", pass1.Errors)
	}

	want := map[string]uint32{
		"FIRST": 0x1000,
		"ALPHA": 0x1006,
		"BETA":  0x1009,
	}

	for sym, wantAddr := range want {
		addr, ok := pass1.Symbols.Get(sym)
		if !ok {
			t.Errorf("symbol %q not defined", sym)
			continue
		}

		if addr != wantAddr {
			t.Errorf("symbol %q = %#x; want %#x", sym, addr, wantAddr)
		}
	}

	if length != 0x000C {
		t.Errorf("program length = %#x; want 0x000C", length)
	}

	// Instruction formats and sizes are set distinctly: a format-3 LDA has Format==Size==3,
	// while RESW's Format is 0 (not an instruction) but Size reflects its storage.
	lda := findInstr(instrs, "FIRST")
	if lda.Format != 3 || lda.Size != 3 {
		t.Errorf("LDA: Format=%d Size=%d; want 3, 3", lda.Format, lda.Size)
	}

	resw := findInstr(instrs, "BETA")
	if resw.Format != 0 || resw.Size != 3 {
		t.Errorf("RESW: Format=%d Size=%d; want 0, 3", resw.Format, resw.Size)
	}
}

func TestPass1DuplicateSymbol(t *testing.T) {
	const src = `COPY    START   0
ALPHA   WORD    1
ALPHA   WORD    2
        END     ALPHA
`

	instrs := parseLines(t, src)
	pass1 := NewPass1()
	pass1.Run(instrs)

	if len(pass1.Errors) != 1 {
		t.Fatalf("errors = %v; want exactly one duplicate-symbol error", pass1.Errors)
	}
}

func TestPass1LiteralsFlushAtEnd(t *testing.T) {
	const src = `COPY    START   0
        LDA     =C'EOF'
        END     COPY
`

	instrs := parseLines(t, src)
	pass1 := NewPass1()
	pass1.Run(instrs)

	if pass1.Literal.HasPending() {
		t.Error("want literals flushed by END")
	}

	if _, ok := pass1.Literal.Address("=C'EOF'"); !ok {
		t.Error("want literal assigned an address")
	}
}

func TestPass1LtorgFlushesEarly(t *testing.T) {
	const src = `COPY    START   0
        LDA     =C'EOF'
        LTORG
HERE    WORD    1
        END     COPY
`

	instrs := parseLines(t, src)
	pass1 := NewPass1()
	pass1.Run(instrs)

	addr, ok := pass1.Literal.Address("=C'EOF'")
	if !ok {
		t.Fatal("want literal assigned an address after LTORG")
	}

	here, _ := pass1.Symbols.Get("HERE")
	if here <= addr {
		t.Errorf("HERE (%#x) should fall after the flushed literal (%#x)", here, addr)
	}
}

func TestPass1InvalidLabel(t *testing.T) {
	tcs := []struct {
		name string
		src  string
	}{
		{"leading digit", "7X      WORD    1\n        END\n"},
		{"too long", "TOOLONGLBL WORD 1\n        END\n"},
		{"non-alnum", "A$      WORD    1\n        END\n"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			instrs := parseLines(t, tc.src)
			pass1 := NewPass1()
			pass1.Run(instrs)

			if len(pass1.Errors) != 1 {
				t.Fatalf("errors = %v; want exactly one invalid-label error", pass1.Errors)
			}
		})
	}
}

func findInstr(instrs []*Instruction, label string) *Instruction {
	for _, instr := range instrs {
		if instr.Label == label {
			return instr
		}
	}

	return nil
}
