package asm

import (
	"strconv"
	"strings"

	"github.com/sicxe/assembler/internal/optab"
)

// Pass1 is the address-assigner pass. It walks a parsed instruction stream in order, assigning an
// address to each instruction, populating the symbol and literal tables, and recording storage
// advancement for directives. See spec §4.2.
type Pass1 struct {
	Symbols SymbolTable
	Literal *LiteralTable
	Errors  []error

	locCtr       uint32
	startAddress uint32
	programName  string
}

// NewPass1 returns a Pass1 ready to process an instruction stream.
func NewPass1() *Pass1 {
	return &Pass1{
		Symbols: make(SymbolTable),
		Literal: NewLiteralTable(),
	}
}

// Run assigns addresses and builds the symbol and literal tables for instrs, mutating each
// Instruction's Address, Format and Size in place. It returns the program's length
// (locCtr - startAddress at END).
func (p *Pass1) Run(instrs []*Instruction) (programLength uint32) {
	p.findStart(instrs)

	for _, instr := range instrs {
		if instr.Class == Comment {
			continue
		}

		if instr.Mnemonic == "START" {
			continue
		}

		if instr.Mnemonic == "END" {
			p.locCtr = p.Literal.Flush(p.locCtr)
			instr.Address = p.locCtr

			break
		}

		instr.Address = p.locCtr

		// EQU binds its own label to its operand's value in processDirective.
		if instr.Label != "" && instr.Mnemonic != "EQU" {
			if !validateLabel(instr.Label) {
				p.addError(instr.LineNumber, ErrFormat, "invalid label %q", instr.Label)
			}

			if !p.Symbols.Add(instr.Label, p.locCtr) {
				p.addError(instr.LineNumber, ErrSymbol, "duplicate symbol %q", instr.Label)
			}
		}

		if len(instr.Operand) > 0 && instr.Operand[0] == '=' {
			literalText := instr.Operand
			if idx := strings.IndexByte(literalText, ','); idx >= 0 {
				literalText = literalText[:idx]
			}

			if err := p.Literal.Add(literalText); err != nil {
				p.addError(instr.LineNumber, ErrFormat, "bad literal %q: %s", instr.Operand, err)
			}
		}

		if instr.Class == Directive {
			p.processDirective(instr)
		} else {
			p.processInstruction(instr)
		}
	}

	programLength = p.locCtr - p.startAddress

	return programLength
}

// findStart locates a leading START directive, if any, and initializes the location counter and
// program name from it. Per spec §4.2.1, only the first non-comment instruction is examined.
func (p *Pass1) findStart(instrs []*Instruction) {
	for _, instr := range instrs {
		if instr.Class == Comment {
			continue
		}

		if instr.Mnemonic == "START" {
			p.programName = instr.Label

			addr, err := parseHex(instr.Operand)
			if err != nil {
				addr = 0
			}

			p.startAddress = addr
			p.locCtr = addr
			instr.Address = p.locCtr
		}

		break
	}
}

func (p *Pass1) processInstruction(instr *Instruction) {
	entry, ok := optab.Lookup(instr.Mnemonic)
	if !ok {
		p.addError(instr.LineNumber, ErrOpcode, "invalid mnemonic %q", instr.Mnemonic)
		return
	}

	instr.Format = entry.Format
	instr.Size = entry.Format
	p.locCtr += uint32(entry.Format)
}

func (p *Pass1) processDirective(instr *Instruction) {
	switch instr.Mnemonic {
	case "RESW":
		n, err := strconv.Atoi(instr.Operand)
		if err != nil || n < 0 {
			p.addError(instr.LineNumber, ErrFormat, "RESW: bad operand %q", instr.Operand)
			return
		}

		instr.Size = 3 * n
		p.locCtr += uint32(3 * n)

	case "RESB":
		n, err := strconv.Atoi(instr.Operand)
		if err != nil || n < 0 {
			p.addError(instr.LineNumber, ErrFormat, "RESB: bad operand %q", instr.Operand)
			return
		}

		instr.Size = n
		p.locCtr += uint32(n)

	case "WORD":
		instr.Size = 3
		p.locCtr += 3

	case "BYTE":
		n, err := byteLength(instr.Operand)
		if err != nil {
			p.addError(instr.LineNumber, ErrFormat, "BYTE: %s", err)
			return
		}

		instr.Size = n
		p.locCtr += uint32(n)

	case "BASE", "NOBASE":
		// No storage allocated.

	case "LTORG":
		p.locCtr = p.Literal.Flush(p.locCtr)

	case "EQU":
		if instr.Label == "" {
			return
		}

		if !validateLabel(instr.Label) {
			p.addError(instr.LineNumber, ErrFormat, "invalid label %q", instr.Label)
		}

		var value uint32

		if instr.Operand == "*" {
			value = p.locCtr
		} else {
			v, err := parseHex(instr.Operand)
			if err != nil {
				p.addError(instr.LineNumber, ErrFormat, "EQU: bad operand %q", instr.Operand)
				return
			}

			value = v
		}

		if !p.Symbols.Add(instr.Label, value) {
			p.addError(instr.LineNumber, ErrSymbol, "duplicate symbol %q", instr.Label)
		}

	case "ORG":
		if instr.Operand == "" || instr.Operand == "*" {
			return
		}

		v, err := parseHex(instr.Operand)
		if err != nil {
			p.addError(instr.LineNumber, ErrFormat, "ORG: bad operand %q", instr.Operand)
			return
		}

		p.locCtr = v

	case "USE":
		p.addError(instr.LineNumber, ErrFormat, "USE: program blocks are not supported")
	}
}

func (p *Pass1) addError(line int, kind error, format string, args ...any) {
	p.Errors = append(p.Errors, newError(line, kind, format, args...))
}

// validateLabel reports whether label meets SYMTAB's naming rule: non-empty, at most 6
// characters, starting with a letter, alphanumeric thereafter.
func validateLabel(label string) bool {
	if label == "" || len(label) > 6 {
		return false
	}

	if !isAlpha(label[0]) {
		return false
	}

	for i := 1; i < len(label); i++ {
		if !isAlpha(label[i]) && !isDigit(label[i]) {
			return false
		}
	}

	return true
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// byteLength computes the storage, in bytes, a BYTE directive's operand occupies.
func byteLength(operand string) (int, error) {
	switch {
	case len(operand) >= 3 && operand[0] == 'C' && operand[1] == '\'' && operand[len(operand)-1] == '\'':
		return len(operand) - 3, nil

	case len(operand) >= 3 && operand[0] == 'X' && operand[1] == '\'' && operand[len(operand)-1] == '\'':
		content := operand[2 : len(operand)-1]
		if len(content)%2 != 0 {
			return 0, newError(0, ErrFormat, "odd-length hex constant %q", operand)
		}

		return (len(content) + 1) / 2, nil

	default:
		return 0, newError(0, ErrFormat, "bad BYTE operand %q", operand)
	}
}

// parseHex parses s as an unsigned, base-16 24-bit address.
func parseHex(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}

	return uint32(v), nil
}
