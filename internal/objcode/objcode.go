// Package objcode implements the canonical SIC/XE object-program format: a header record, a
// sequence of text records carrying assembled object code, zero or more modification records for
// extended-format relocation, and an end record. It implements encoding.TextMarshaler, mirroring
// the teacher's Intel-Hex encoder.
//
// Each record is a single line, its fields separated by '^' and terminated with '\n':
//
//	H^name   ^start ^length
//	T^start  ^len   ^code...
//	M^start  ^len
//	E^first
//
// See [Grammar] for a formal grammar.
//
// # Bugs
//
// Only a flat, single-CSECT program is supported: there is no linking, so a program's object code
// is exactly one H record, its text records, its modification records, and one E record.
package objcode

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const Grammar = `
program = header { text } { mod } end ;
header  = 'H' sep name sep addr6 sep len6 nl ;
text    = 'T' sep addr6 sep len2 sep { byte } nl ;
mod     = 'M' sep addr6 sep len2 nl ;
end     = 'E' sep addr6 nl ;
sep     = '^' ;
name    = 6*6 ( alnum | ' ' ) ;
addr6   = 6*6 hex ;
len2    = 2*2 hex ;
len6    = 6*6 hex ;
byte    = hex hex ;
nl      = '\n' ;
`

// maxTextBytes is the largest payload a single text record may carry: SIC/XE's length field is a
// single hex byte, and 0x1E (30) keeps each record's line comfortably short.
const maxTextBytes = 30

// TextRecord is one contiguous run of assembled object code.
type TextRecord struct {
	StartAddress uint32
	Code         string // hex digits, even length, at most 2*maxTextBytes long.
}

// ModRecord is a relocation directive: add the program's load bias to the half-byte field
// starting at Address.
type ModRecord struct {
	Address uint32
	Length  int // nibbles modified.
}

// ObjectProgram is the full set of records the assembler emits for one assembled source file.
type ObjectProgram struct {
	Name         string
	StartAddress uint32
	Length       uint32
	FirstExec    uint32

	Text []TextRecord
	Mods []ModRecord
}

// NewObjectProgram returns an ObjectProgram with no text records yet.
func NewObjectProgram(name string, start, length uint32) *ObjectProgram {
	if name == "" {
		name = "COPY"
	}

	if len(name) > 6 {
		name = name[:6]
	}

	return &ObjectProgram{Name: name, StartAddress: start, Length: length, FirstExec: start}
}

// AddCode appends code (a hex-digit string) at address to the program, coalescing it into the
// current text record when it is contiguous and the record has room, else starting a new one.
func (op *ObjectProgram) AddCode(address uint32, code string) {
	if code == "" {
		return
	}

	if n := len(op.Text); n > 0 {
		last := &op.Text[n-1]

		lastEnd := last.StartAddress + uint32(len(last.Code)/2)
		room := maxTextBytes - len(last.Code)/2

		if lastEnd == address && room > 0 {
			take := len(code) / 2
			if take > room {
				take = room
			}

			last.Code += code[:take*2]
			code = code[take*2:]
			address += uint32(take)

			if code == "" {
				return
			}
		}
	}

	for len(code) > 0 {
		take := len(code)
		if take > maxTextBytes*2 {
			take = maxTextBytes * 2
		}

		op.Text = append(op.Text, TextRecord{StartAddress: address, Code: code[:take]})
		address += uint32(take / 2)
		code = code[take:]
	}
}

// AddMod appends a modification record.
func (op *ObjectProgram) AddMod(address uint32, length int) {
	op.Mods = append(op.Mods, ModRecord{Address: address, Length: length})
}

// MarshalText renders the object program as H/T/M/E records.
func (op *ObjectProgram) MarshalText() ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "H^%-6s^%06X^%06X\n", op.Name, op.StartAddress, op.Length)

	for _, t := range op.Text {
		fmt.Fprintf(&buf, "T^%06X^%02X^%s\n", t.StartAddress, len(t.Code)/2, strings.ToUpper(t.Code))
	}

	for _, m := range op.Mods {
		fmt.Fprintf(&buf, "M^%06X^%02X\n", m.Address, m.Length)
	}

	fmt.Fprintf(&buf, "E^%06X\n", op.FirstExec)

	return buf.Bytes(), nil
}

// UnmarshalText parses a canonical SIC/XE object program, primarily for round-trip testing.
func (op *ObjectProgram) UnmarshalText(bs []byte) error {
	*op = ObjectProgram{}

	scanner := bufio.NewScanner(bytes.NewReader(bs))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "^")

		switch fields[0] {
		case "H":
			if len(fields) != 4 {
				return fmt.Errorf("%w: malformed header record %q", ErrInvalidRecord, line)
			}

			op.Name = strings.TrimSpace(fields[1])

			start, err := strconv.ParseUint(fields[2], 16, 32)
			if err != nil {
				return fmt.Errorf("%w: header start: %s", ErrInvalidRecord, err)
			}

			length, err := strconv.ParseUint(fields[3], 16, 32)
			if err != nil {
				return fmt.Errorf("%w: header length: %s", ErrInvalidRecord, err)
			}

			op.StartAddress = uint32(start)
			op.Length = uint32(length)

		case "T":
			if len(fields) != 4 {
				return fmt.Errorf("%w: malformed text record %q", ErrInvalidRecord, line)
			}

			addr, err := strconv.ParseUint(fields[1], 16, 32)
			if err != nil {
				return fmt.Errorf("%w: text addr: %s", ErrInvalidRecord, err)
			}

			op.Text = append(op.Text, TextRecord{StartAddress: uint32(addr), Code: fields[3]})

		case "M":
			if len(fields) != 3 {
				return fmt.Errorf("%w: malformed modification record %q", ErrInvalidRecord, line)
			}

			addr, err := strconv.ParseUint(fields[1], 16, 32)
			if err != nil {
				return fmt.Errorf("%w: mod addr: %s", ErrInvalidRecord, err)
			}

			length, err := strconv.ParseUint(fields[2], 16, 8)
			if err != nil {
				return fmt.Errorf("%w: mod length: %s", ErrInvalidRecord, err)
			}

			op.Mods = append(op.Mods, ModRecord{Address: uint32(addr), Length: int(length)})

		case "E":
			if len(fields) != 2 {
				return fmt.Errorf("%w: malformed end record %q", ErrInvalidRecord, line)
			}

			addr, err := strconv.ParseUint(fields[1], 16, 32)
			if err != nil {
				return fmt.Errorf("%w: end addr: %s", ErrInvalidRecord, err)
			}

			op.FirstExec = uint32(addr)

		default:
			return fmt.Errorf("%w: unknown record type %q", ErrInvalidRecord, fields[0])
		}
	}

	return scanner.Err()
}

// ErrInvalidRecord is returned by UnmarshalText for any malformed line.
var ErrInvalidRecord = fmt.Errorf("invalid object record")
