package asm

import (
	"bufio"
	"io"
	"strings"

	"github.com/sicxe/assembler/internal/log"
	"github.com/sicxe/assembler/internal/optab"
)

// Parser reads source lines and tokenizes each into an Instruction, classifying it as a comment,
// directive, or instruction. It performs no semantic analysis -- that is Pass 1 and Pass 2's job --
// beyond the lexical decomposition described in the package Grammar.
type Parser struct {
	log *log.Logger
}

// NewParser creates a Parser that logs tokenization details to logger.
func NewParser(logger *log.Logger) *Parser {
	return &Parser{log: logger}
}

// Parse reads every line from in and returns one Instruction per line, in source order. It never
// returns a non-nil error for malformed assembly -- lexical classification always succeeds --
// only for an I/O failure reading the stream.
func (p *Parser) Parse(in io.Reader) ([]*Instruction, error) {
	var (
		instrs []*Instruction
		lineNo int
	)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		instr := p.parseLine(lineNo, line)
		instrs = append(instrs, instr)

		p.log.Debug("parsed line",
			"line", lineNo, "label", instr.Label, "mnemonic", instr.Mnemonic,
			"operand", instr.Operand, "class", instr.Class)
	}

	if err := scanner.Err(); err != nil {
		return instrs, newError(0, ErrParse, "read error: %s", err)
	}

	return instrs, nil
}

// parseLine tokenizes a single source line per the column-1 rules in spec §4.1.
func (p *Parser) parseLine(lineNo int, line string) *Instruction {
	instr := &Instruction{LineNumber: lineNo, OriginalText: line}

	stripped := strings.TrimSpace(line)
	if stripped == "" || stripped[0] == '.' {
		instr.Class = Comment
		instr.Comment = stripped

		return instr
	}

	code, comment := splitComment(line)
	instr.Comment = comment

	label, mnemonic, operand := tokenize(code)
	instr.Label = label
	instr.Mnemonic = strings.ToUpper(mnemonic)
	instr.Operand = operand

	if optab.IsDirective(instr.Mnemonic) {
		instr.Class = Directive
	} else {
		instr.Class = Instr
	}

	return instr
}

// splitComment separates inline comment text (everything from the first '.' on the line onward)
// from the code portion of a line. Quoted operand text is not recognized.
func splitComment(line string) (code, comment string) {
	if idx := strings.IndexByte(line, '.'); idx >= 0 {
		return line[:idx], strings.TrimSpace(line[idx:])
	}

	return line, ""
}

// tokenize splits a code line into (label, mnemonic, operand) following the column-1 convention:
// if the line begins with whitespace there is no label. The operand field keeps any internal
// whitespace verbatim (e.g. a character literal's text), only its surrounding whitespace trimmed.
func tokenize(code string) (label, mnemonic, operand string) {
	if code == "" {
		return "", "", ""
	}

	if code[0] == ' ' || code[0] == '\t' {
		fields := splitFields(code, 2)
		if len(fields) >= 1 {
			mnemonic = fields[0]
		}

		if len(fields) >= 2 {
			operand = strings.TrimSpace(fields[1])
		}

		return "", mnemonic, operand
	}

	fields := splitFields(code, 3)
	if len(fields) >= 1 {
		label = fields[0]
	}

	if len(fields) >= 2 {
		mnemonic = fields[1]
	}

	if len(fields) >= 3 {
		operand = strings.TrimSpace(fields[2])
	}

	return label, mnemonic, operand
}

// splitFields splits s on runs of whitespace into at most n fields; the final field retains any
// internal whitespace, mirroring Python's str.split(None, n-1).
func splitFields(s string, n int) []string {
	var out []string

	i, length := 0, len(s)
	isSpace := func(b byte) bool { return b == ' ' || b == '\t' }

	for len(out) < n-1 {
		for i < length && isSpace(s[i]) {
			i++
		}

		if i >= length {
			break
		}

		start := i
		for i < length && !isSpace(s[i]) {
			i++
		}

		out = append(out, s[start:i])
	}

	for i < length && isSpace(s[i]) {
		i++
	}

	if i < length {
		out = append(out, s[i:])
	}

	return out
}
