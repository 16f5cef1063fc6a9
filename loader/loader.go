// Package loader seeds the VM's memory from an encoded hex stream plus the
// original assembly source, and rebuilds the source-line map the debugger
// needs to translate addresses back to lines.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/arcrv/rv64i-toolchain/encoder"
	"github.com/arcrv/rv64i-toolchain/isa"
	"github.com/arcrv/rv64i-toolchain/parser"
	"github.com/arcrv/rv64i-toolchain/vm"
)

// LoadHex reads a hex stream (one 8-hex-character word per line, as written
// by rvasm) into the VM's text memory starting at isa.TextStart.
func LoadHex(machine *vm.VM, hexPath string) error {
	f, err := os.Open(hexPath) // #nosec G304 -- user-specified hex path
	if err != nil {
		return fmt.Errorf("io error: failed to open %s: %w", hexPath, err)
	}
	defer f.Close()

	addr := uint64(isa.TextStart)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		word, err := strconv.ParseUint(line, 16, 32)
		if err != nil {
			return fmt.Errorf("io error: malformed hex word at line %d: %q", lineNo, line)
		}
		if err := machine.Memory.Write32(addr, uint32(word)); err != nil {
			return fmt.Errorf("io error: failed to write word at 0x%X: %w", addr, err)
		}
		addr += 4
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("io error: failed reading %s: %w", hexPath, err)
	}
	return nil
}

// LoadSource re-parses the original assembly file through the same two-pass
// parser rvasm uses, so the simulator can recover the label table (for the
// debugger and call-stack frame naming) and seed the .data image, since the
// hex stream itself carries no symbol information.
func LoadSource(path string) (*parser.Program, error) {
	return parser.ParseFile(path)
}

// LoadData writes every .byte/.half/.word/.dword directive's encoded bytes
// into the VM's data memory at the addresses the parser already assigned.
func LoadData(machine *vm.VM, program *parser.Program) error {
	for _, dir := range program.Directives {
		addr := dir.Address
		for _, arg := range dir.Args {
			value, err := encoder.ParseImmediate(arg, program.SymbolTable)
			if err != nil {
				return fmt.Errorf("line %d: invalid %s argument %q: %w", dir.Line, dir.Name, arg, err)
			}
			switch dir.Name {
			case ".byte":
				if err := machine.Memory.Write8(addr, uint8(value)); err != nil {
					return err
				}
				addr += 1
			case ".half":
				if err := machine.Memory.Write16(addr, uint16(value)); err != nil {
					return err
				}
				addr += 2
			case ".word":
				if err := machine.Memory.Write32(addr, uint32(value)); err != nil {
					return err
				}
				addr += 4
			case ".dword":
				if err := machine.Memory.Write64(addr, uint64(value)); err != nil {
					return err
				}
				addr += 8
			default:
				return fmt.Errorf("line %d: unknown directive %q", dir.Line, dir.Name)
			}
		}
	}
	return nil
}

// SourceLineMap maps a text-memory address back to its 1-based source line,
// used by the debugger (spec.md §4.7, C11) to print the current line and
// resolve breakpoints.
type SourceLineMap map[uint64]int

// BuildSourceLineMap builds the address->line map from a parsed program's
// instruction list.
func BuildSourceLineMap(program *parser.Program) SourceLineMap {
	m := make(SourceLineMap, len(program.Instructions))
	for _, inst := range program.Instructions {
		m[inst.Address] = inst.Line
	}
	return m
}

// Load performs the full simulator bring-up: hex into text memory, source
// re-parse for labels and the data image, stack and entry-point setup, and
// returns the source-line map for the debugger. Entry is always
// isa.TextStart and the bottom call-stack frame is always named "main" per
// spec.md §3/§4.7 — there is no entry-point directive to resolve.
func Load(machine *vm.VM, hexPath, sourcePath string) (SourceLineMap, error) {
	if err := LoadHex(machine, hexPath); err != nil {
		return nil, err
	}

	program, err := LoadSource(sourcePath)
	if err != nil {
		return nil, err
	}

	if err := LoadData(machine, program); err != nil {
		return nil, err
	}

	machine.InitializeStack(isa.StackTop)
	machine.Start(isa.TextStart, isa.HaltAddress)

	if machine.CallStack != nil {
		symtab := program.SymbolTable
		machine.CallStack.ResolveLabel = func(addr uint64) (string, bool) {
			for _, sym := range symtab.All() {
				if sym.Address == addr {
					return sym.Name, true
				}
			}
			return "", false
		}
	}

	return BuildSourceLineMap(program), nil
}
