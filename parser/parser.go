package parser

import (
	"strings"

	"github.com/arcrv/rv64i-toolchain/isa"
)

// Instruction is one parsed .text line awaiting encoding (C5's input).
type Instruction struct {
	Label    string
	Mnemonic string
	Operands []string
	Comment  string
	Address  uint64
	Line     int
	RawLine  string
}

// Directive is one parsed .data line (.byte/.half/.word/.dword).
type Directive struct {
	Label   string
	Name    string
	Args    []string
	Comment string
	Address uint64
	Line    int
	RawLine string
}

// Program is the result of a full two-pass parse: every instruction and data
// directive with its final address, plus the symbol table pass 1 built.
type Program struct {
	Instructions []*Instruction
	Directives   []*Directive
	SymbolTable  *SymbolTable
}

type section int

const (
	sectionNone section = iota
	sectionText
	sectionData
)

var dataDirectiveSizes = map[string]uint64{
	".byte":  1,
	".half":  2,
	".word":  4,
	".dword": 8,
}

// Parse runs the mandatory two-pass assembly spec.md §4.4 describes: pass 1
// walks the source collecting label->address bindings without emitting
// anything; pass 2 re-walks, building the final Instruction/Directive lists
// against the pass-1 symbol table. The two passes are kept as textually
// separate loops — spec.md §9 is explicit that pass 1 must not be inlined
// into pass 2.
func Parse(source string) (*Program, error) {
	rawLines := strings.Split(source, "\n")
	lx := NewLexer()

	symtab := NewSymbolTable()
	errs := &ErrorList{}

	// Pass 1: collect labels, track section-relative program counters.
	textPC := uint64(isa.TextStart)
	dataPC := uint64(isa.DataStart)
	sect := sectionNone

	for i, raw := range rawLines {
		lineNo := i + 1
		ln := lx.Lex(raw)

		if ln.Label != "" {
			var addr uint64
			switch sect {
			case sectionText:
				addr = textPC
			case sectionData:
				addr = dataPC
			default:
				addr = 0
			}
			if err := symtab.Define(ln.Label, addr, lineNo); err != nil {
				errs.Add(lineNo, "label", err.Error(), raw)
			}
		}

		switch ln.Op {
		case "":
			continue
		case ".text":
			sect = sectionText
			continue
		case ".data":
			sect = sectionData
			continue
		}

		if size, ok := dataDirectiveSizes[ln.Op]; ok {
			if sect != sectionData {
				errs.Add(lineNo, "syntax", "data directive outside .data section", raw)
				continue
			}
			dataPC += size * uint64(len(ln.Operands))
			continue
		}

		if strings.HasPrefix(ln.Op, ".") {
			errs.Add(lineNo, "syntax", "unknown directive "+ln.Op, raw)
			continue
		}

		// An instruction mnemonic.
		if sect != sectionText {
			errs.Add(lineNo, "syntax", "instruction outside .text section", raw)
			continue
		}
		textPC += 4
	}

	if errs.HasErrors() {
		return nil, errs
	}

	// Pass 2: re-walk, emitting Instructions/Directives against the
	// now-complete symbol table.
	program := &Program{SymbolTable: symtab}
	textPC = uint64(isa.TextStart)
	dataPC = uint64(isa.DataStart)
	sect = sectionNone

	for i, raw := range rawLines {
		lineNo := i + 1
		ln := lx.Lex(raw)

		switch ln.Op {
		case "":
			continue
		case ".text":
			sect = sectionText
			continue
		case ".data":
			sect = sectionData
			continue
		}

		if _, ok := dataDirectiveSizes[ln.Op]; ok {
			program.Directives = append(program.Directives, &Directive{
				Label:   ln.Label,
				Name:    ln.Op,
				Args:    ln.Operands,
				Comment: ln.Comment,
				Address: dataPC,
				Line:    lineNo,
				RawLine: raw,
			})
			dataPC += dataDirectiveSizes[ln.Op] * uint64(len(ln.Operands))
			continue
		}

		if strings.HasPrefix(ln.Op, ".") {
			continue // already reported in pass 1
		}

		inst := &Instruction{
			Label:    ln.Label,
			Mnemonic: ln.Op,
			Operands: ln.Operands,
			Comment:  ln.Comment,
			Address:  textPC,
			Line:     lineNo,
			RawLine:  raw,
		}
		program.Instructions = append(program.Instructions, inst)
		textPC += 4
	}

	return program, nil
}
