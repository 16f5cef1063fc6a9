package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arcrv/rv64i-toolchain/isa"
	"github.com/arcrv/rv64i-toolchain/parser"
)

// ReferenceType indicates how a symbol is used
type ReferenceType int

const (
	RefDefinition ReferenceType = iota // Symbol defined here
	RefBranch                          // Conditional branch target
	RefJump                            // Unconditional jump target (J, or JAL whose rd is not a link register)
	RefCall                            // Function call (JAL with a link register)
	RefData                            // .data directive reference
)

func (r ReferenceType) String() string {
	switch r {
	case RefDefinition:
		return "definition"
	case RefBranch:
		return "branch"
	case RefJump:
		return "jump"
	case RefCall:
		return "call"
	case RefData:
		return "data"
	default:
		return "unknown"
	}
}

// Reference represents a single reference to a symbol
type Reference struct {
	Type   ReferenceType
	Line   int
	Source string // Source line text
}

// Symbol represents a symbol and all its references
type Symbol struct {
	Name        string
	Definition  *Reference
	References  []*Reference
	Address     uint64
	IsFunction  bool // True if it's a call target (JAL with rd in {ra, t0})
	IsDataLabel bool // True if defined by a .data directive
}

// XRefGenerator generates cross-reference information
type XRefGenerator struct {
	program *parser.Program
	symbols map[string]*Symbol
}

// NewXRefGenerator creates a new cross-reference generator
func NewXRefGenerator() *XRefGenerator {
	return &XRefGenerator{symbols: make(map[string]*Symbol)}
}

// Generate generates cross-reference information from source code
func (x *XRefGenerator) Generate(input string) (map[string]*Symbol, error) {
	prog, err := parser.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	x.program = prog
	x.collectDefinitions()
	x.collectReferences()
	x.analyzeCallGraph()

	return x.symbols, nil
}

func (x *XRefGenerator) symbolFor(name string) *Symbol {
	if sym, ok := x.symbols[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name}
	x.symbols[name] = sym
	return sym
}

// collectDefinitions collects every label definition in the program.
func (x *XRefGenerator) collectDefinitions() {
	for _, inst := range x.program.Instructions {
		if inst.Label == "" {
			continue
		}
		sym := x.symbolFor(inst.Label)
		sym.Definition = &Reference{Type: RefDefinition, Line: inst.Line, Source: inst.RawLine}
		sym.Address = inst.Address
	}

	for _, dir := range x.program.Directives {
		if dir.Label == "" {
			continue
		}
		sym := x.symbolFor(dir.Label)
		sym.Definition = &Reference{Type: RefDefinition, Line: dir.Line, Source: dir.RawLine}
		sym.Address = dir.Address
		sym.IsDataLabel = true
	}

	if x.program.SymbolTable != nil {
		for name, s := range x.program.SymbolTable.All() {
			sym := x.symbolFor(name)
			if sym.Definition == nil {
				sym.Definition = &Reference{Type: RefDefinition, Line: s.Line}
				sym.Address = s.Address
			}
		}
	}
}

// collectReferences collects every branch/jump/call reference to a label.
func (x *XRefGenerator) collectReferences() {
	for _, inst := range x.program.Instructions {
		mnem := strings.ToUpper(inst.Mnemonic)

		if branchMnemonics[mnem] && len(inst.Operands) > 0 {
			target := strings.TrimSpace(inst.Operands[len(inst.Operands)-1])
			if isNumeric(target) || isRegisterOperand(target) {
				continue
			}
			refType := RefBranch
			if mnem == "JAL" || mnem == "J" {
				refType = RefJump
				if mnem == "JAL" && len(inst.Operands) > 0 {
					rd := strings.ToLower(strings.TrimSpace(inst.Operands[0]))
					if rd == "ra" || rd == "t0" || rd == "x1" || rd == "x5" {
						refType = RefCall
					}
				}
			}
			x.addReference(target, refType, inst.Line, inst.RawLine)
		}

		// LUI/AUIPC with a symbolic operand (address materialization idiom).
		if (mnem == "LUI" || mnem == "AUIPC") && len(inst.Operands) > 1 {
			operand := strings.TrimSpace(inst.Operands[1])
			if !isNumeric(operand) && !isRegisterOperand(operand) {
				x.addReference(operand, RefData, inst.Line, inst.RawLine)
			}
		}
	}
}

func (x *XRefGenerator) addReference(name string, refType ReferenceType, line int, source string) {
	sym := x.symbolFor(name)
	sym.References = append(sym.References, &Reference{Type: refType, Line: line, Source: source})
}

// analyzeCallGraph marks symbols reached via a call reference as functions.
func (x *XRefGenerator) analyzeCallGraph() {
	for _, symbol := range x.symbols {
		for _, ref := range symbol.References {
			if ref.Type == RefCall {
				symbol.IsFunction = true
				break
			}
		}
	}
}

// isRegisterOperand checks if operand names a register rather than a label.
func isRegisterOperand(operand string) bool {
	operand = strings.TrimSpace(operand)
	if operand == "" {
		return false
	}
	_, err := isa.Resolve(operand)
	return err == nil
}

// XRefReport generates a formatted cross-reference report
type XRefReport struct {
	symbols []*Symbol
}

// NewXRefReport creates a new cross-reference report
func NewXRefReport(symbols map[string]*Symbol) *XRefReport {
	sortedSymbols := make([]*Symbol, 0, len(symbols))
	for _, sym := range symbols {
		sortedSymbols = append(sortedSymbols, sym)
	}
	sort.Slice(sortedSymbols, func(i, j int) bool {
		return sortedSymbols[i].Name < sortedSymbols[j].Name
	})

	return &XRefReport{symbols: sortedSymbols}
}

// String generates a text report
func (r *XRefReport) String() string {
	var sb strings.Builder

	sb.WriteString("Symbol Cross-Reference\n")
	sb.WriteString("======================\n\n")

	for _, sym := range r.symbols {
		sb.WriteString(fmt.Sprintf("%-30s", sym.Name))

		switch {
		case sym.IsFunction:
			sb.WriteString(fmt.Sprintf(" [function @ 0x%X]", sym.Address))
		case sym.IsDataLabel:
			sb.WriteString(fmt.Sprintf(" [data @ 0x%X]", sym.Address))
		default:
			sb.WriteString(fmt.Sprintf(" [label @ 0x%X]", sym.Address))
		}
		sb.WriteString("\n")

		if sym.Definition != nil {
			sb.WriteString(fmt.Sprintf("  Defined:     line %d\n", sym.Definition.Line))
		} else {
			sb.WriteString("  Defined:     (undefined)\n")
		}

		if len(sym.References) == 0 {
			sb.WriteString("  Referenced:  (never)\n")
		} else {
			sb.WriteString(fmt.Sprintf("  Referenced:  %d time(s)\n", len(sym.References)))

			refsByType := make(map[ReferenceType][]*Reference)
			for _, ref := range sym.References {
				refsByType[ref.Type] = append(refsByType[ref.Type], ref)
			}

			for _, refType := range []ReferenceType{RefCall, RefJump, RefBranch, RefData} {
				refs := refsByType[refType]
				if len(refs) == 0 {
					continue
				}
				lines := make([]string, len(refs))
				for i, ref := range refs {
					lines[i] = fmt.Sprintf("%d", ref.Line)
				}
				sb.WriteString(fmt.Sprintf("    %-10s: line(s) %s\n", refType.String(), strings.Join(lines, ", ")))
			}
		}

		sb.WriteString("\n")
	}

	definedSymbols, undefinedSymbols, unusedSymbols, functionCount := 0, 0, 0, 0
	for _, sym := range r.symbols {
		if sym.Definition != nil {
			definedSymbols++
		} else {
			undefinedSymbols++
		}
		if len(sym.References) == 0 {
			unusedSymbols++
		}
		if sym.IsFunction {
			functionCount++
		}
	}

	sb.WriteString("Summary\n")
	sb.WriteString("=======\n")
	sb.WriteString(fmt.Sprintf("Total symbols:     %d\n", len(r.symbols)))
	sb.WriteString(fmt.Sprintf("Defined:           %d\n", definedSymbols))
	sb.WriteString(fmt.Sprintf("Undefined:         %d\n", undefinedSymbols))
	sb.WriteString(fmt.Sprintf("Unused:            %d\n", unusedSymbols))
	sb.WriteString(fmt.Sprintf("Functions:         %d\n", functionCount))

	return sb.String()
}

// GenerateXRef is a convenience function to generate a cross-reference report
func GenerateXRef(input string) (string, error) {
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(input)
	if err != nil {
		return "", err
	}

	return NewXRefReport(symbols).String(), nil
}

// GetSymbols returns all symbols found in the source
func (x *XRefGenerator) GetSymbols() map[string]*Symbol {
	return x.symbols
}

// GetSymbol returns a specific symbol by name
func (x *XRefGenerator) GetSymbol(name string) (*Symbol, bool) {
	sym, exists := x.symbols[name]
	return sym, exists
}

// GetFunctions returns all symbols that are call targets
func (x *XRefGenerator) GetFunctions() []*Symbol {
	functions := make([]*Symbol, 0)
	for _, sym := range x.symbols {
		if sym.IsFunction {
			functions = append(functions, sym)
		}
	}
	sort.Slice(functions, func(i, j int) bool { return functions[i].Name < functions[j].Name })
	return functions
}

// GetDataLabels returns all symbols defined by a .data directive
func (x *XRefGenerator) GetDataLabels() []*Symbol {
	dataLabels := make([]*Symbol, 0)
	for _, sym := range x.symbols {
		if sym.IsDataLabel {
			dataLabels = append(dataLabels, sym)
		}
	}
	sort.Slice(dataLabels, func(i, j int) bool { return dataLabels[i].Name < dataLabels[j].Name })
	return dataLabels
}

// GetUndefinedSymbols returns all symbols that are referenced but never defined
func (x *XRefGenerator) GetUndefinedSymbols() []*Symbol {
	undefined := make([]*Symbol, 0)
	for _, sym := range x.symbols {
		if sym.Definition == nil && len(sym.References) > 0 {
			undefined = append(undefined, sym)
		}
	}
	sort.Slice(undefined, func(i, j int) bool { return undefined[i].Name < undefined[j].Name })
	return undefined
}

// GetUnusedSymbols returns all symbols that are defined but never referenced
func (x *XRefGenerator) GetUnusedSymbols() []*Symbol {
	unused := make([]*Symbol, 0)
	for _, sym := range x.symbols {
		if sym.Definition != nil && len(sym.References) == 0 && !isSpecialLabel(sym.Name) {
			unused = append(unused, sym)
		}
	}
	sort.Slice(unused, func(i, j int) bool { return unused[i].Name < unused[j].Name })
	return unused
}
