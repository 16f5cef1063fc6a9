package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// labelNamePattern is the grammar spec.md §3 requires: [A-Za-z_][A-Za-z0-9_]*.
var labelNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidLabelName reports whether name matches the label grammar.
func ValidLabelName(name string) bool {
	return labelNamePattern.MatchString(name)
}

// Symbol is one label -> address binding.
type Symbol struct {
	Name    string
	Address uint64
	Defined bool
	Line    int
}

// SymbolTable is the case-insensitive label table spec.md §3/§4.4 mandates,
// populated during pass 1 of the two-pass assembler (C4). Duplicate
// definitions are a hard assembler error.
type SymbolTable struct {
	symbols map[string]*Symbol
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

func key(name string) string {
	return strings.ToLower(name)
}

// Define binds name to address. Returns an error if name is already defined
// (duplicate label definitions are fatal per spec.md §3) or is not a valid
// label name.
func (t *SymbolTable) Define(name string, address uint64, line int) error {
	if !ValidLabelName(name) {
		return fmt.Errorf("invalid label name %q", name)
	}
	k := key(name)
	if existing, ok := t.symbols[k]; ok && existing.Defined {
		return fmt.Errorf("duplicate label %q (first defined at line %d)", name, existing.Line)
	}
	t.symbols[k] = &Symbol{Name: name, Address: address, Defined: true, Line: line}
	return nil
}

// Lookup returns the symbol bound to name, if any.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := t.symbols[key(name)]
	return sym, ok
}

// Address is a convenience wrapper over Lookup for encoder callers that only
// need the address and a bool.
func (t *SymbolTable) Address(name string) (uint64, bool) {
	sym, ok := t.Lookup(name)
	if !ok || !sym.Defined {
		return 0, false
	}
	return sym.Address, true
}

// All returns every defined symbol, for symbol-dump and debugger use.
func (t *SymbolTable) All() map[string]*Symbol {
	out := make(map[string]*Symbol, len(t.symbols))
	for k, v := range t.symbols {
		out[k] = v
	}
	return out
}
