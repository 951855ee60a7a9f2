package asm

import (
	"io"
	"sort"

	"github.com/sicxe/assembler/internal/log"
	"github.com/sicxe/assembler/internal/objcode"
)

// Program is the result of assembling one source file: the instruction stream, annotated with
// addresses and object code, plus the tables Pass 1 built and any diagnostics either pass raised.
type Program struct {
	Name         string
	StartAddress uint32
	Length       uint32

	Instructions []*Instruction
	Symbols      SymbolTable
	Literals     *LiteralTable

	modRecords []ModRecord

	Errors []error
}

// Assemble runs the full two-pass pipeline against source read from in: parse, assign addresses
// and build tables, then generate object code. It returns a Program even when errors occur --
// Program.Errors collects every diagnostic from every stage, so a caller can report them all
// rather than stopping at the first.
func Assemble(in io.Reader, logger *log.Logger) (*Program, error) {
	if logger == nil {
		logger = log.DefaultLogger()
	}

	parser := NewParser(logger)

	instrs, err := parser.Parse(in)
	if err != nil {
		return nil, err
	}

	pass1 := NewPass1()
	length := pass1.Run(instrs)

	pass2 := NewPass2(pass1.Symbols, pass1.Literal)
	pass2.Run(instrs)

	prog := &Program{
		Name:         programName(instrs),
		StartAddress: startAddress(instrs),
		Length:       length,
		Instructions: instrs,
		Symbols:      pass1.Symbols,
		Literals:     pass1.Literal,
		modRecords:   pass2.ModRecords,
	}

	prog.Errors = append(prog.Errors, pass1.Errors...)
	prog.Errors = append(prog.Errors, pass2.Errors...)

	return prog, nil
}

func programName(instrs []*Instruction) string {
	for _, instr := range instrs {
		if instr.Class == Comment {
			continue
		}

		if instr.Mnemonic == "START" {
			return instr.Label
		}

		break
	}

	return ""
}

func startAddress(instrs []*Instruction) uint32 {
	for _, instr := range instrs {
		if instr.Class == Comment {
			continue
		}

		return instr.Address
	}

	return 0
}

// firstExecAddress resolves the operand of the program's END directive to an address, the entry
// point recorded in the object program's end record. An absent END, an absent operand, or an
// operand that fails to resolve yields 0.
func (prog *Program) firstExecAddress() uint32 {
	for _, instr := range prog.Instructions {
		if instr.Mnemonic != "END" {
			continue
		}

		if instr.Operand == "" {
			return 0
		}

		if addr, ok := prog.Symbols.Get(instr.Operand); ok {
			return addr
		}

		return 0
	}

	return 0
}

// ObjectProgram renders the assembled program into H/T/M/E object records, including object code
// for literal-pool entries alongside the instructions that reference them.
func (prog *Program) ObjectProgram() *objcode.ObjectProgram {
	obj := objcode.NewObjectProgram(prog.Name, prog.StartAddress, prog.Length)
	obj.FirstExec = prog.firstExecAddress()

	type placed struct {
		address uint32
		code    string
	}

	var entries []placed

	for _, instr := range prog.Instructions {
		if instr.Errored || instr.ObjectCode == "" {
			continue
		}

		entries = append(entries, placed{instr.Address, instr.ObjectCode})
	}

	for _, text := range prog.Literals.Order() {
		if addr, code, ok := prog.Literals.Record(text); ok {
			entries = append(entries, placed{addr, code})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].address < entries[j].address })

	for _, e := range entries {
		obj.AddCode(e.address, e.code)
	}

	for _, m := range prog.modRecords {
		obj.AddMod(m.Address, m.Length)
	}

	return obj
}

// WriteObject renders and writes the assembled program's object records to out.
func (prog *Program) WriteObject(out io.Writer) error {
	text, err := prog.ObjectProgram().MarshalText()
	if err != nil {
		return err
	}

	_, err = out.Write(text)

	return err
}

