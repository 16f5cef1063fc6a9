package encoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arcrv/rv64i-toolchain/isa"
	"github.com/arcrv/rv64i-toolchain/parser"
)

// ParseRegister resolves an operand string as a register name.
func ParseRegister(s string) (int, error) {
	idx, err := isa.Resolve(strings.TrimSpace(s))
	if err != nil {
		return 0, &SyntaxError{Detail: err.Error()}
	}
	return idx, nil
}

// ParseImmediate parses a decimal, 0x-prefixed hex, or 0-prefixed octal
// signed integer literal (spec.md §4.4), or resolves it as a previously
// defined label.
func ParseImmediate(s string, symtab *parser.SymbolTable) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &SyntaxError{Detail: "empty immediate"}
	}

	neg := false
	unsigned := s
	if strings.HasPrefix(unsigned, "-") {
		neg = true
		unsigned = unsigned[1:]
	} else if strings.HasPrefix(unsigned, "+") {
		unsigned = unsigned[1:]
	}

	var value uint64
	var err error
	switch {
	case strings.HasPrefix(unsigned, "0x") || strings.HasPrefix(unsigned, "0X"):
		value, err = strconv.ParseUint(unsigned[2:], 16, 64)
	case strings.HasPrefix(unsigned, "0") && len(unsigned) > 1:
		value, err = strconv.ParseUint(unsigned[1:], 8, 64)
	default:
		value, err = strconv.ParseUint(unsigned, 10, 64)
	}

	if err != nil {
		if symtab != nil {
			if addr, ok := symtab.Address(s); ok {
				return int64(addr), nil
			}
		}
		return 0, &SyntaxError{Detail: fmt.Sprintf("invalid immediate %q", s)}
	}

	result := int64(value)
	if neg {
		result = -result
	}
	return result, nil
}

// MemOperand is the decoded form of RISC-V's "imm(reg)" addressing syntax,
// used by loads, stores, and JALR.
type MemOperand struct {
	Imm int64
	Reg int
}

// ParseMemOperand parses "imm(reg)", tolerating whitespace around both parts.
func ParseMemOperand(s string, symtab *parser.SymbolTable) (MemOperand, error) {
	s = strings.TrimSpace(s)
	open := strings.Index(s, "(")
	if open < 0 || !strings.HasSuffix(s, ")") {
		return MemOperand{}, &SyntaxError{Detail: fmt.Sprintf("expected imm(reg) form, got %q", s)}
	}

	immStr := strings.TrimSpace(s[:open])
	regStr := strings.TrimSpace(s[open+1 : len(s)-1])

	var imm int64
	var err error
	if immStr == "" {
		imm = 0
	} else {
		imm, err = ParseImmediate(immStr, symtab)
		if err != nil {
			return MemOperand{}, err
		}
	}

	reg, err := ParseRegister(regStr)
	if err != nil {
		return MemOperand{}, err
	}

	return MemOperand{Imm: imm, Reg: reg}, nil
}

func checkSignedRange(value int64, bits int, what string) error {
	lo := -(int64(1) << (bits - 1))
	hi := int64(1)<<(bits-1) - 1
	if value < lo || value > hi {
		return &RangeError{Value: value, Min: lo, Max: hi, What: what}
	}
	return nil
}
