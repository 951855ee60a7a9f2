// Package listing formats an assembled instruction stream as a fixed-column program listing, the
// kind an assembler operator reviews alongside the object file: one line per source line, with the
// assigned address and generated object code alongside the original source text.
package listing

import (
	"fmt"
	"io"

	"github.com/sicxe/assembler/internal/asm"
)

const header = "LINE  LOC    OBJECT CODE   SOURCE STATEMENT\n" +
	"====  ====   ===========   ================\n"

// Write formats instrs as a listing and writes it to w.
func Write(w io.Writer, instrs []*asm.Instruction) error {
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	for _, instr := range instrs {
		if err := writeLine(w, instr); err != nil {
			return err
		}
	}

	return nil
}

func writeLine(w io.Writer, instr *asm.Instruction) error {
	if instr.Class == asm.Comment {
		_, err := fmt.Fprintf(w, "%4d                       %s\n", instr.LineNumber, instr.OriginalText)
		return err
	}

	loc := "    "
	if instr.Mnemonic != "" {
		loc = fmt.Sprintf("%04X", instr.Address)
	}

	objectCode := instr.ObjectCode
	if instr.Errored {
		objectCode = "*** ERROR ***"
	}

	source := fmt.Sprintf("%-8s %-8s %s", instr.Label, instr.Mnemonic, instr.Operand)

	_, err := fmt.Fprintf(w, "%4d  %-4s   %-12s   %s\n", instr.LineNumber, loc, objectCode, source)

	return err
}
