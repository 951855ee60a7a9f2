package asm

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// literal holds one entry of the literal pool: its encoded bytes and address once assigned.
type literal struct {
	Value    []byte
	Address  uint32
	Assigned bool
}

// LiteralTable maps literal source text (including the leading '=') to its encoded value and,
// once a LTORG or END flush has run, its assigned address. Literals are consumed FIFO: a literal
// is assigned an address the first time it is flushed, in the order it was first referenced. A
// literal registered more than once occupies the queue only once.
type LiteralTable struct {
	entries map[string]*literal
	order   []string // insertion order, for deterministic iteration (e.g. by the object writer).
	pending []string // FIFO queue of literals awaiting an address.
}

// NewLiteralTable returns an empty literal table.
func NewLiteralTable() *LiteralTable {
	return &LiteralTable{entries: make(map[string]*literal)}
}

// Add registers a literal's source text, computing its encoded value and byte length. If the
// literal has already been registered, Add is a no-op. The literal is enqueued for address
// assignment at the next flush.
func (lt *LiteralTable) Add(text string) error {
	if _, exists := lt.entries[text]; exists {
		return nil
	}

	value, err := ParseLiteral(text)
	if err != nil {
		return err
	}

	lt.entries[text] = &literal{Value: value}
	lt.order = append(lt.order, text)
	lt.pending = append(lt.pending, text)

	return nil
}

// Address returns the address assigned to a literal, and whether it has been assigned one yet.
func (lt *LiteralTable) Address(text string) (uint32, bool) {
	entry, ok := lt.entries[text]
	if !ok || !entry.Assigned {
		return 0, false
	}

	return entry.Address, true
}

// Value returns the literal's encoded bytes.
func (lt *LiteralTable) Value(text string) ([]byte, bool) {
	entry, ok := lt.entries[text]
	if !ok {
		return nil, false
	}

	return entry.Value, true
}

// Length returns the literal's byte length.
func (lt *LiteralTable) Length(text string) (int, bool) {
	entry, ok := lt.entries[text]
	if !ok {
		return 0, false
	}

	return len(entry.Value), true
}

// HasPending reports whether any literal is still awaiting an address.
func (lt *LiteralTable) HasPending() bool {
	return len(lt.pending) > 0
}

// Count returns the number of distinct literals registered.
func (lt *LiteralTable) Count() int {
	return len(lt.entries)
}

// Order returns the literals in the order they were first referenced.
func (lt *LiteralTable) Order() []string {
	out := make([]string, len(lt.order))
	copy(out, lt.order)

	return out
}

// Record returns a literal's assigned address and the hex object code representing its encoded
// value -- the form the object writer emits into a text record, the same way it would for a WORD
// or BYTE directive at that address.
func (lt *LiteralTable) Record(text string) (address uint32, code string, ok bool) {
	entry, exists := lt.entries[text]
	if !exists || !entry.Assigned {
		return 0, "", false
	}

	var b strings.Builder
	for _, v := range entry.Value {
		fmt.Fprintf(&b, "%02X", v)
	}

	return entry.Address, b.String(), true
}

// Flush assigns addresses to every pending literal, in FIFO order, starting at loc, and returns
// the location counter immediately past the last literal. It consumes the entire pending queue.
func (lt *LiteralTable) Flush(loc uint32) uint32 {
	for _, text := range lt.pending {
		entry := lt.entries[text]
		entry.Address = loc
		entry.Assigned = true
		loc += uint32(len(entry.Value))
	}

	lt.pending = nil

	return loc
}

// ParseLiteral parses a literal's source text (including the leading '=') and returns its encoded
// bytes, in the order they are stored in memory.
//
//	=C'text'  -- the successive bytes of text, one byte each.
//	=X'hex'   -- the hex constant's bytes, most-significant first; an odd digit count is an error.
//	=decimal  -- the decimal integer, packed big-endian into a 3-byte word.
//
// Carrying the raw bytes, rather than packing them into a fixed-width integer, lets a character
// literal of any length round-trip through the table without truncation.
func ParseLiteral(text string) (value []byte, err error) {
	if !strings.HasPrefix(text, "=") {
		return nil, newError(0, ErrFormat, "literal %q: missing '='", text)
	}

	body := text[1:]

	switch {
	case strings.HasPrefix(body, "C'") && strings.HasSuffix(body, "'") && len(body) >= 3:
		content := body[2 : len(body)-1]

		return []byte(content), nil

	case strings.HasPrefix(body, "X'") && strings.HasSuffix(body, "'") && len(body) >= 3:
		content := body[2 : len(body)-1]
		if len(content)%2 != 0 {
			return nil, newError(0, ErrFormat, "literal %q: odd-length hex constant", text)
		}

		bs, err := hex.DecodeString(content)
		if err != nil {
			return nil, newError(0, ErrFormat, "literal %q: bad hex constant: %s", text, err)
		}

		return bs, nil

	default:
		v, err := strconv.ParseInt(body, 10, 32)
		if err != nil {
			return nil, newError(0, ErrFormat, "literal %q: bad decimal constant: %s", text, err)
		}

		uv := uint32(v)
		if v < 0 {
			uv = uint32(v + 1<<24)
		}

		return []byte{byte(uv >> 16), byte(uv >> 8), byte(uv)}, nil
	}
}
