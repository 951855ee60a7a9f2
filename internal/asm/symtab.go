package asm

// SymbolTable maps a label to its assigned 24-bit address. Keys are case-sensitive; an attempted
// duplicate insertion is rejected rather than overwriting the existing entry.
type SymbolTable map[string]uint32

// Add inserts label at address. It returns false, without modifying the table, if label is
// already bound.
func (s SymbolTable) Add(label string, address uint32) bool {
	if _, exists := s[label]; exists {
		return false
	}

	s[label] = address

	return true
}

// Get returns the address bound to symbol and whether it was found.
func (s SymbolTable) Get(symbol string) (uint32, bool) {
	addr, ok := s[symbol]
	return addr, ok
}

// Count returns the number of symbols in the table.
func (s SymbolTable) Count() int {
	return len(s)
}
