package asm_test

import (
	"strings"
	"testing"

	. "github.com/sicxe/assembler/internal/asm"
)

func assemblePasses(t *testing.T, src string) []*Instruction {
	t.Helper()

	instrs := parseLines(t, src)

	pass1 := NewPass1()
	pass1.Run(instrs)

	if len(pass1.Errors) != 0 {
		t.Fatalf("pass1 errors: %v", pass1.Errors)
	}

	pass2 := NewPass2(pass1.Symbols, pass1.Literal)
	pass2.Run(instrs)

	if len(pass2.Errors) != 0 {
		t.Fatalf("pass2 errors: %v", pass2.Errors)
	}

	return instrs
}

// TestFormat3PCRelative reproduces the worked example from the assembler's displacement rules: an
// LDA followed by an STA, both within PC-relative range of their targets.
func TestFormat3PCRelative(t *testing.T) {
	const src = `COPY    START   1000
FIRST   LDA     ALPHA
        STA     BETA
ALPHA   WORD    5
BETA    RESW    1
        END     FIRST
`

	instrs := assemblePasses(t, src)

	lda := findInstr(instrs, "FIRST")
	if lda.ObjectCode != "032003" {
		t.Errorf("LDA ALPHA = %q; want 032003", lda.ObjectCode)
	}
}

func TestFormat4Extended(t *testing.T) {
	const src = `COPY    START   1000
SUB1    EQU     2040
        +JSUB   SUB1
        END     COPY
`

	instrs := assemblePasses(t, src)

	jsub := findByMnemonic(instrs, "JSUB")
	if jsub == nil {
		t.Fatal("+JSUB instruction not found")
	}

	if jsub.ObjectCode != "4B102040" {
		t.Errorf("+JSUB SUB1 = %q; want 4B102040", jsub.ObjectCode)
	}
}

func TestFormat2TwoRegisters(t *testing.T) {
	instrs := assemblePasses(t, `COPY    START   0
        ADDR    A,X
        END     COPY
`)

	addr := findByMnemonic(instrs, "ADDR")
	if addr.ObjectCode != "9001" {
		t.Errorf("ADDR A,X = %q; want 9001", addr.ObjectCode)
	}
}

func TestFormat1NoOperand(t *testing.T) {
	instrs := assemblePasses(t, `COPY    START   0
        FIX
        END     COPY
`)

	fix := findByMnemonic(instrs, "FIX")
	if fix.ObjectCode != "C4" {
		t.Errorf("FIX = %q; want C4", fix.ObjectCode)
	}
}

func TestFormat3NoOperand(t *testing.T) {
	instrs := assemblePasses(t, `COPY    START   0
        RSUB
        END     COPY
`)

	rsub := findByMnemonic(instrs, "RSUB")
	if rsub.ObjectCode != "4F0000" {
		t.Errorf("RSUB = %q; want 4F0000", rsub.ObjectCode)
	}
}

func TestIndexedAddressing(t *testing.T) {
	const src = `COPY    START   1000
        LDA     ALPHA,X
ALPHA   RESW    1
        END     COPY
`
	instrs := assemblePasses(t, src)

	lda := findByMnemonic(instrs, "LDA")
	// x=1 sets the top bit of byte 1; nibble 8-F means x is set.
	if lda.ObjectCode[2] < '8' {
		t.Errorf("object code %q: want x bit set in byte 1", lda.ObjectCode)
	}
}

func TestImmediateOperand(t *testing.T) {
	instrs := assemblePasses(t, `COPY    START   0
        LDA     #5
        END     COPY
`)

	lda := findByMnemonic(instrs, "LDA")
	if lda.ObjectCode != "010005" {
		t.Errorf("LDA #5 = %q; want 010005", lda.ObjectCode)
	}
}

func TestBaseRelativeFallback(t *testing.T) {
	const src = `COPY    START   0
        BASE    BUFFER
        LDA     BUFFER
        RESW    1000
BUFFER  RESW    1
        END     COPY
`
	instrs := assemblePasses(t, src)

	lda := findByMnemonic(instrs, "LDA")
	if lda.ObjectCode == "" || lda.Errored {
		t.Fatalf("LDA BUFFER should resolve base-relative, got %q errored=%v", lda.ObjectCode, lda.Errored)
	}

	// b=1, p=0 must be set: byte 1's top nibble is x<<7|b<<6|p<<5|e<<4 = 0x4.
	if len(lda.ObjectCode) != 6 {
		t.Fatalf("object code %q: want 6 hex digits", lda.ObjectCode)
	}

	if lda.ObjectCode[2] != '4' {
		t.Errorf("flags nibble = %c; want 4 (b=1)", lda.ObjectCode[2])
	}
}

func TestDisplacementOutOfRange(t *testing.T) {
	var src strings.Builder

	src.WriteString("COPY    START   0\n")
	src.WriteString("        LDA     FAR\n")
	src.WriteString("        RESW    3000\n")
	src.WriteString("FAR     RESW    1\n")
	src.WriteString("        END     COPY\n")

	instrs := parseLines(t, src.String())

	pass1 := NewPass1()
	pass1.Run(instrs)

	pass2 := NewPass2(pass1.Symbols, pass1.Literal)
	pass2.Run(instrs)

	if len(pass2.Errors) == 0 {
		t.Fatal("want a displacement error")
	}

	lda := findByMnemonic(instrs, "LDA")
	if !lda.Errored {
		t.Error("want LDA marked Errored")
	}
}

func TestIndexedLiteralOperand(t *testing.T) {
	const src = `COPY    START   0
        LDA     =X'05',X
        END     COPY
`
	instrs := assemblePasses(t, src)

	lda := findByMnemonic(instrs, "LDA")
	if lda.ObjectCode == "" || lda.Errored {
		t.Fatalf("LDA =X'05',X should resolve, got %q errored=%v", lda.ObjectCode, lda.Errored)
	}
}

func findByMnemonic(instrs []*Instruction, mnemonic string) *Instruction {
	for _, instr := range instrs {
		if instr.Clean() == mnemonic {
			return instr
		}
	}

	return nil
}
