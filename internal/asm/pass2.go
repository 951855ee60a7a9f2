package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sicxe/assembler/internal/optab"
)

// ModRecord is a relocation directive: the loader must add the program's load bias to the
// length/2-byte field starting at Address.
type ModRecord struct {
	Address uint32
	Length  int // half-bytes (nibbles).
}

// Pass2 is the code-generation pass. Given the symbol and literal tables Pass 1 built, it
// synthesizes object code for each instruction and accumulates modification records for
// extended-format references. See spec §4.5-§4.6.
type Pass2 struct {
	Symbols SymbolTable
	Literal *LiteralTable
	Errors  []error

	ModRecords []ModRecord

	baseRegister uint32
}

// NewPass2 returns a Pass2 using the symbol and literal tables Pass 1 built.
func NewPass2(symbols SymbolTable, literals *LiteralTable) *Pass2 {
	return &Pass2{Symbols: symbols, Literal: literals}
}

// Run generates object code for every instruction in instrs, in place.
func (p *Pass2) Run(instrs []*Instruction) {
	for _, instr := range instrs {
		if instr.Class == Comment || instr.Mnemonic == "START" || instr.Mnemonic == "END" {
			continue
		}

		switch instr.Mnemonic {
		case "BASE":
			p.setBase(instr.Operand)
			continue
		case "NOBASE":
			p.baseRegister = 0
			continue
		}

		if instr.Class == Directive {
			p.generateDirective(instr)
		} else {
			p.generateInstruction(instr)
		}
	}
}

func (p *Pass2) setBase(operand string) {
	if operand == "" {
		return
	}

	if addr, ok := p.Symbols.Get(operand); ok {
		p.baseRegister = addr
		return
	}

	if v, err := parseHex(operand); err == nil {
		p.baseRegister = v
	}
}

func (p *Pass2) generateInstruction(instr *Instruction) {
	entry, ok := optab.Lookup(instr.Mnemonic)
	if !ok {
		p.addError(instr.LineNumber, ErrOpcode, "invalid opcode %q", instr.Mnemonic)
		return
	}

	switch instr.Format {
	case 1:
		instr.ObjectCode = fmt.Sprintf("%02X", entry.Opcode)
	case 2:
		p.generateFormat2(instr, entry.Opcode)
	case 3, 4:
		p.generateFormat34(instr, entry.Opcode)
	}
}

func (p *Pass2) generateFormat2(instr *Instruction, opcode byte) {
	regs := strings.Split(instr.Operand, ",")

	var r1, r2 uint8

	if len(regs) >= 1 && strings.TrimSpace(regs[0]) != "" {
		if code, ok := optab.RegisterCode(strings.TrimSpace(regs[0])); ok {
			r1 = code
		} else {
			p.addError(instr.LineNumber, ErrFormat, "unrecognized register %q", regs[0])
			instr.Errored = true
			return
		}
	}

	if len(regs) >= 2 && strings.TrimSpace(regs[1]) != "" {
		if code, ok := optab.RegisterCode(strings.TrimSpace(regs[1])); ok {
			r2 = code
		} else {
			p.addError(instr.LineNumber, ErrFormat, "unrecognized register %q", regs[1])
			instr.Errored = true
			return
		}
	}

	instr.ObjectCode = fmt.Sprintf("%02X%01X%01X", opcode, r1, r2)
}

// generateFormat34 encodes a format-3 or format-4 instruction, choosing PC-relative,
// base-relative, or extended-absolute addressing. See spec §4.6.
func (p *Pass2) generateFormat34(instr *Instruction, opcode byte) {
	mode, indexed, baseToken := addressingMode(instr.Operand)

	target, numericImmediate, err := p.resolveTarget(instr.Operand, mode, baseToken)
	if err != nil {
		p.addError(instr.LineNumber, ErrSymbol, "undefined symbol in %q", instr.Operand)
		instr.ObjectCode = ""
		instr.Errored = true

		return
	}

	n, i := mode.flags()

	var x uint8
	if indexed {
		x = 1
	}

	var (
		b, pbit, e uint8
		disp       uint32
		bits       int
	)

	switch {
	case instr.Format == 4:
		e = 1
		disp = target & 0xFFFFF
		bits = 20

		if instr.Operand != "" && !numericImmediate {
			p.ModRecords = append(p.ModRecords, ModRecord{Address: instr.Address + 1, Length: 5})
		}
	case instr.Operand == "":
		// No operand (e.g. RSUB): nixbpe carries no addressing information, displacement is 0.
		bits = 12
	default:
		bits = 12

		if numericImmediate {
			b, pbit = 0, 0
			disp = target & 0xFFF
		} else {
			pc := instr.Address + 3
			signedDisp := int64(target) - int64(pc)

			switch {
			case signedDisp >= -2048 && signedDisp <= 2047:
				pbit = 1
				disp = uint32(signedDisp) & 0xFFF
			case p.baseRegister != 0 && int64(target)-int64(p.baseRegister) >= 0 && int64(target)-int64(p.baseRegister) <= 4095:
				b = 1
				disp = target - p.baseRegister
			default:
				p.addError(instr.LineNumber, ErrDisplacement, "displacement out of range for %q", instr.Operand)
				instr.ObjectCode = ""
				instr.Errored = true

				return
			}
		}
	}

	instr.ObjectCode = encodeNIXBPE(opcode, n, i, x, b, pbit, e, disp, bits)
}

// encodeNIXBPE assembles the final object-code hex string for a format-3/4 instruction from its
// addressing-mode flags and displacement/address field.
//
//	byte 0: opcode & 0xFC | n<<1 | i
//	byte 1: x<<7 | b<<6 | p<<5 | e<<4 | high nibble of the displacement
//	bytes 2+: remaining displacement bits
func encodeNIXBPE(opcode byte, n, i, x, b, p, e uint8, disp uint32, bits int) string {
	byte0 := (opcode & 0xFC) | n<<1 | i
	highNibble := uint8((disp >> (uint(bits) - 4)) & 0xF)
	byte1 := x<<7 | b<<6 | p<<5 | e<<4 | highNibble

	switch bits {
	case 12:
		byte2 := uint8(disp & 0xFF)
		return fmt.Sprintf("%02X%02X%02X", byte0, byte1, byte2)
	default: // 20
		byte2 := uint8((disp >> 8) & 0xFF)
		byte3 := uint8(disp & 0xFF)

		return fmt.Sprintf("%02X%02X%02X%02X", byte0, byte1, byte2, byte3)
	}
}

// addressingMode classifies operand into its addressing mode, indexed flag, and the "base token"
// -- the operand with any '#'/'@' prefix and any ',X' suffix stripped.
func addressingMode(operand string) (mode AddressingMode, indexed bool, baseToken string) {
	if operand == "" {
		return SimpleMode, false, ""
	}

	token := operand
	if idx := strings.IndexByte(token, ','); idx >= 0 {
		suffix := strings.ToUpper(strings.TrimSpace(token[idx+1:]))
		if suffix == "X" {
			indexed = true
		}

		token = token[:idx]
	}

	switch {
	case strings.HasPrefix(token, "#"):
		mode = ImmediateMode
		token = token[1:]
	case strings.HasPrefix(token, "@"):
		mode = IndirectMode
		token = token[1:]
	default:
		mode = SimpleMode
	}

	return mode, indexed, token
}

// resolveTarget resolves baseToken to a target address, per spec §4.6's target-resolution steps.
// numericImmediate is true when the operand is an immediate numeric constant rather than a
// memory reference -- no symbol lookup, no modification record.
func (p *Pass2) resolveTarget(operand string, mode AddressingMode, baseToken string) (target uint32, numericImmediate bool, err error) {
	if operand == "" {
		return 0, false, nil
	}

	if strings.HasPrefix(baseToken, "=") {
		addr, ok := p.Literal.Address(baseToken)
		if !ok {
			return 0, false, fmt.Errorf("literal %q has no assigned address", baseToken)
		}

		return addr, false, nil
	}

	if mode == ImmediateMode && isDecimal(baseToken) {
		v, err := strconv.ParseInt(baseToken, 10, 32)
		if err != nil {
			return 0, false, err
		}

		return uint32(v) & 0xFFFFF, true, nil
	}

	addr, ok := p.Symbols.Get(baseToken)
	if !ok {
		return 0, false, fmt.Errorf("undefined symbol %q", baseToken)
	}

	return addr, false, nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}

	start := 0
	if s[0] == '-' {
		start = 1
	}

	if start == len(s) {
		return false
	}

	for i := start; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func (p *Pass2) generateDirective(instr *Instruction) {
	switch instr.Mnemonic {
	case "WORD":
		v, err := strconv.ParseInt(instr.Operand, 10, 64)
		if err != nil {
			p.addError(instr.LineNumber, ErrFormat, "WORD: bad operand %q", instr.Operand)
			instr.ObjectCode = "000000"

			return
		}

		if v < 0 {
			v += 1 << 24
		}

		instr.ObjectCode = fmt.Sprintf("%06X", uint32(v)&0xFFFFFF)

	case "BYTE":
		code, err := byteObjectCode(instr.Operand)
		if err != nil {
			p.addError(instr.LineNumber, ErrFormat, "BYTE: %s", err)
			return
		}

		instr.ObjectCode = code
	}
}

func byteObjectCode(operand string) (string, error) {
	switch {
	case len(operand) >= 3 && operand[0] == 'C' && operand[1] == '\'' && operand[len(operand)-1] == '\'':
		content := operand[2 : len(operand)-1]

		var b strings.Builder
		for i := 0; i < len(content); i++ {
			fmt.Fprintf(&b, "%02X", content[i])
		}

		return b.String(), nil

	case len(operand) >= 3 && operand[0] == 'X' && operand[1] == '\'' && operand[len(operand)-1] == '\'':
		content := operand[2 : len(operand)-1]
		if len(content)%2 != 0 {
			return "", fmt.Errorf("odd-length hex constant %q", operand)
		}

		return strings.ToUpper(content), nil

	default:
		return "", fmt.Errorf("bad BYTE operand %q", operand)
	}
}

func (p *Pass2) addError(line int, kind error, format string, args ...any) {
	p.Errors = append(p.Errors, newError(line, kind, format, args...))
}
