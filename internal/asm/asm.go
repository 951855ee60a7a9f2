package asm

import (
	"fmt"
)

// Classification is how a source line was categorized during parsing.
type Classification uint8

//go:generate go run golang.org/x/tools/cmd/stringer -type Classification -output classification_string.go

// Line classifications.
const (
	Comment Classification = iota
	Directive
	Instr
)

// AddressingMode is the addressing-mode flag pair (n,i) selected for a format-3/4 operand.
type AddressingMode uint8

//go:generate go run golang.org/x/tools/cmd/stringer -type AddressingMode -output addressingmode_string.go

// Addressing modes, by their (n,i) flag values.
const (
	SimpleMode    AddressingMode = iota // n=1, i=1
	ImmediateMode                       // n=0, i=1
	IndirectMode                        // n=1, i=0
)

// flags returns the (n,i) bit pair for the addressing mode.
func (m AddressingMode) flags() (n, i uint8) {
	switch m {
	case ImmediateMode:
		return 0, 1
	case IndirectMode:
		return 1, 0
	default:
		return 1, 1
	}
}

// Instruction is the record the pipeline passes from one stage to the next: one per source line.
// The parser populates LineNumber, OriginalText, Label, Mnemonic, Operand, Comment and Class.
// Pass 1 populates Address and Format. Pass 2 populates ObjectCode (or marks Errored).
type Instruction struct {
	LineNumber   int
	OriginalText string

	Label    string
	Mnemonic string
	Operand  string
	Comment  string
	Class    Classification

	Address uint32
	Format  int // instruction format (1-4); 0 for directives.
	Size    int // bytes this line occupies in the address space; advances the location counter.

	ObjectCode string // hex-digit string, even length; empty when nothing is emitted.
	Errored    bool   // true when Pass 2 could not encode this instruction.
}

// Clean returns the mnemonic with any leading '+' (extended-format marker) removed.
func (instr *Instruction) Clean() string {
	if len(instr.Mnemonic) > 0 && instr.Mnemonic[0] == '+' {
		return instr.Mnemonic[1:]
	}

	return instr.Mnemonic
}

// Extended reports whether the mnemonic requests extended (format-4) addressing.
func (instr *Instruction) Extended() bool {
	return len(instr.Mnemonic) > 0 && instr.Mnemonic[0] == '+'
}

// Error kinds. Each is returned, wrapped in a *Error, from the stage that detected it.
var (
	ErrParse        = fmt.Errorf("parse error")
	ErrSymbol       = fmt.Errorf("symbol error")
	ErrOpcode       = fmt.Errorf("opcode error")
	ErrFormat       = fmt.Errorf("format error")
	ErrDisplacement = fmt.Errorf("displacement error")
)

// Error is a line-addressed diagnostic produced by any assembler stage. Line is 1-based; Line==0
// means the error is not attributable to a single source line.
type Error struct {
	Line    int
	Message string
	Err     error // one of the Err* sentinels above.
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return e.Message
	}

	return fmt.Sprintf("Line %d: %s", e.Line, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return e.Err == target //nolint:errorlint
}

func newError(line int, kind error, format string, args ...any) *Error {
	return &Error{Line: line, Message: fmt.Sprintf(format, args...), Err: kind}
}
