package listing_test

import (
	"strings"
	"testing"

	"github.com/sicxe/assembler/internal/asm"
	"github.com/sicxe/assembler/internal/listing"
)

func TestWrite(t *testing.T) {
	instrs := []*asm.Instruction{
		{LineNumber: 1, Class: asm.Directive, Label: "COPY", Mnemonic: "START", Operand: "1000", Address: 0x1000},
		{LineNumber: 2, Class: asm.Instr, Label: "FIRST", Mnemonic: "LDA", Operand: "ALPHA", Address: 0x1000, ObjectCode: "032026"},
		{LineNumber: 3, Class: asm.Comment, OriginalText: ". a remark"},
		{LineNumber: 4, Class: asm.Instr, Mnemonic: "STA", Operand: "BETA", Address: 0x1003, Errored: true},
	}

	var buf strings.Builder
	if err := listing.Write(&buf, instrs); err != nil {
		t.Fatalf("Write: %s", err)
	}

	out := buf.String()

	if !strings.HasPrefix(out, "LINE  LOC") {
		t.Errorf("missing header: %q", out)
	}

	if !strings.Contains(out, "1000") || !strings.Contains(out, "032026") {
		t.Errorf("missing expected fields: %q", out)
	}

	if !strings.Contains(out, "*** ERROR ***") {
		t.Errorf("missing error marker: %q", out)
	}
}
