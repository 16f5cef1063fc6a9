// Package isa holds the RV64I register-name table and instruction field
// layout constants shared by the encoder and the vm package, so the two
// can never drift apart on what a bit pattern means.
package isa

import (
	"fmt"
	"strconv"
	"strings"
)

// NumRegisters is the size of the RV64I integer register file.
const NumRegisters = 32

// NameError reports a register name that does not resolve to x0..x31.
type NameError struct {
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("unknown register name: %q", e.Name)
}

// abiNames maps ABI mnemonics to register indices per the standard RISC-V calling convention.
var abiNames = map[string]int{
	"zero": 0,
	"ra":   1,
	"sp":   2,
	"gp":   3,
	"tp":   4,
	"t0":   5,
	"t1":   6,
	"t2":   7,
	"s0":   8,
	"fp":   8,
	"s1":   9,
	"a0":   10,
	"a1":   11,
	"a2":   12,
	"a3":   13,
	"a4":   14,
	"a5":   15,
	"a6":   16,
	"a7":   17,
	"s2":   18,
	"s3":   19,
	"s4":   20,
	"s5":   21,
	"s6":   22,
	"s7":   23,
	"s8":   24,
	"s9":   25,
	"s10":  26,
	"s11":  27,
	"t3":   28,
	"t4":   29,
	"t5":   30,
	"t6":   31,
}

// canonicalNames is the inverse of abiNames, used for display (RegisterName).
// Where two ABI names alias the same index (s0/fp) the canonical one wins.
var canonicalNames = [NumRegisters]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// Resolve maps a symbolic register name ("x0".."x31" or an ABI alias like
// "ra", "sp", "a0") to its register-file index 0..31.
func Resolve(name string) (int, error) {
	trimmed := strings.TrimSpace(name)
	lower := strings.ToLower(trimmed)

	if idx, ok := abiNames[lower]; ok {
		return idx, nil
	}

	if strings.HasPrefix(lower, "x") && len(lower) > 1 {
		n, err := strconv.Atoi(lower[1:])
		if err == nil && n >= 0 && n < NumRegisters {
			return n, nil
		}
	}

	return 0, &NameError{Name: name}
}

// MustResolve is Resolve for callers (tests, fixtures) that know the name is valid.
func MustResolve(name string) int {
	idx, err := Resolve(name)
	if err != nil {
		panic(err)
	}
	return idx
}

// RegisterName returns the canonical ABI display name for a register index.
func RegisterName(idx int) string {
	if idx < 0 || idx >= NumRegisters {
		return fmt.Sprintf("x%d", idx)
	}
	return canonicalNames[idx]
}
