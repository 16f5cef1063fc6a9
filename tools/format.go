package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arcrv/rv64i-toolchain/parser"
)

// FormatStyle defines formatting options
type FormatStyle int

const (
	FormatDefault  FormatStyle = iota // Standard formatting
	FormatCompact                     // Minimal whitespace
	FormatExpanded                    // Extra whitespace for readability
)

// FormatOptions controls formatter behavior
type FormatOptions struct {
	Style             FormatStyle
	InstructionColumn int  // Column for instructions (default: 8)
	OperandColumn     int  // Column for operands (default: 16)
	CommentColumn     int  // Column for comments (default: 40)
	AlignOperands     bool // Align operands in columns
	AlignComments     bool // Align comments in columns
}

// DefaultFormatOptions returns default formatter options
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{
		Style:             FormatDefault,
		InstructionColumn: 8,
		OperandColumn:     16,
		CommentColumn:     40,
		AlignOperands:     true,
		AlignComments:     true,
	}
}

// CompactFormatOptions returns options for compact formatting
func CompactFormatOptions() *FormatOptions {
	opts := DefaultFormatOptions()
	opts.Style = FormatCompact
	opts.InstructionColumn = 0
	opts.OperandColumn = 0
	opts.CommentColumn = 0
	opts.AlignOperands = false
	opts.AlignComments = false
	return opts
}

// ExpandedFormatOptions returns options for expanded formatting
func ExpandedFormatOptions() *FormatOptions {
	opts := DefaultFormatOptions()
	opts.Style = FormatExpanded
	opts.InstructionColumn = 12
	opts.OperandColumn = 24
	opts.CommentColumn = 50
	return opts
}

// Formatter formats RV64I assembly source into a canonical column layout.
type Formatter struct {
	options *FormatOptions
	program *parser.Program
	output  strings.Builder
}

// NewFormatter creates a new formatter
func NewFormatter(options *FormatOptions) *Formatter {
	if options == nil {
		options = DefaultFormatOptions()
	}
	return &Formatter{options: options}
}

// Format formats the given assembly source code.
func (f *Formatter) Format(input string) (string, error) {
	prog, err := parser.Parse(input)
	if err != nil {
		return "", fmt.Errorf("parse error: %w", err)
	}

	f.program = prog
	f.output.Reset()
	f.formatProgram()

	return f.output.String(), nil
}

// formatProgram formats the entire program, interleaving instructions,
// directives, and label-only lines in their original source order.
func (f *Formatter) formatProgram() {
	attachedLabels := make(map[string]bool)
	for _, inst := range f.program.Instructions {
		if inst.Label != "" {
			attachedLabels[inst.Label] = true
		}
	}
	for _, dir := range f.program.Directives {
		if dir.Label != "" {
			attachedLabels[dir.Label] = true
		}
	}

	type standaloneLabel struct {
		name string
		line int
	}
	var standaloneLabels []standaloneLabel
	if f.program.SymbolTable != nil {
		for _, sym := range f.program.SymbolTable.All() {
			if !attachedLabels[sym.Name] {
				standaloneLabels = append(standaloneLabels, standaloneLabel{name: sym.Name, line: sym.Line})
			}
		}
	}
	sort.Slice(standaloneLabels, func(i, j int) bool {
		return standaloneLabels[i].line < standaloneLabels[j].line
	})

	instructions := f.program.Instructions
	directives := f.program.Directives

	instIdx, dirIdx, labelIdx := 0, 0, 0
	const infLine = 1<<31 - 1

	for instIdx < len(instructions) || dirIdx < len(directives) || labelIdx < len(standaloneLabels) {
		nextInstLine, nextDirLine, nextLabelLine := infLine, infLine, infLine

		if instIdx < len(instructions) {
			nextInstLine = instructions[instIdx].Line
		}
		if dirIdx < len(directives) {
			nextDirLine = directives[dirIdx].Line
		}
		if labelIdx < len(standaloneLabels) {
			nextLabelLine = standaloneLabels[labelIdx].line
		}

		switch {
		case nextLabelLine <= nextInstLine && nextLabelLine <= nextDirLine:
			f.output.WriteString(standaloneLabels[labelIdx].name)
			f.output.WriteString(":\n")
			labelIdx++
		case nextInstLine <= nextDirLine:
			f.formatInstruction(instructions[instIdx])
			instIdx++
		default:
			f.formatDirective(directives[dirIdx])
			dirIdx++
		}
	}
}

func (f *Formatter) formatInstruction(inst *parser.Instruction) {
	line := strings.Builder{}

	if inst.Label != "" {
		line.WriteString(inst.Label)
		line.WriteString(":")
		if f.options.Style != FormatCompact {
			f.padToColumn(&line, f.options.InstructionColumn)
		}
	} else if f.options.Style != FormatCompact {
		f.padToColumn(&line, f.options.InstructionColumn)
	}

	mnemonic := strings.ToUpper(inst.Mnemonic)

	if f.options.Style == FormatCompact {
		if inst.Label != "" {
			line.WriteString(" ")
		}
		line.WriteString(mnemonic)
	} else {
		line.WriteString(mnemonic)
		if len(inst.Operands) > 0 && f.options.AlignOperands {
			f.padToColumn(&line, f.options.OperandColumn)
		} else if len(inst.Operands) > 0 {
			line.WriteString("\t")
		}
	}

	if len(inst.Operands) > 0 {
		if f.options.Style == FormatCompact {
			line.WriteString(" ")
		}
		line.WriteString(formatOperands(inst.Operands))
	}

	f.writeComment(&line, inst.Comment)

	f.output.WriteString(line.String())
	f.output.WriteString("\n")
}

func (f *Formatter) formatDirective(dir *parser.Directive) {
	line := strings.Builder{}

	if dir.Label != "" {
		line.WriteString(dir.Label)
		line.WriteString(":")
		if f.options.Style != FormatCompact {
			f.padToColumn(&line, f.options.InstructionColumn)
		} else {
			line.WriteString(" ")
		}
	} else if f.options.Style != FormatCompact {
		f.padToColumn(&line, f.options.InstructionColumn)
	}

	directiveName := strings.ToLower(dir.Name)
	if !strings.HasPrefix(directiveName, ".") {
		directiveName = "." + directiveName
	}
	line.WriteString(directiveName)

	if len(dir.Args) > 0 {
		if f.options.Style == FormatCompact {
			line.WriteString(" ")
		} else {
			line.WriteString("\t")
		}
		line.WriteString(strings.Join(dir.Args, ", "))
	}

	f.writeComment(&line, dir.Comment)

	f.output.WriteString(line.String())
	f.output.WriteString("\n")
}

func (f *Formatter) writeComment(line *strings.Builder, comment string) {
	if comment == "" {
		return
	}
	comment = strings.TrimSpace(comment)
	switch {
	case f.options.Style == FormatCompact:
		line.WriteString(" ; ")
		line.WriteString(comment)
	case f.options.AlignComments:
		f.padToColumn(line, f.options.CommentColumn)
		line.WriteString("; ")
		line.WriteString(comment)
	default:
		line.WriteString("\t; ")
		line.WriteString(comment)
	}
}

func formatOperands(operands []string) string {
	result := strings.Builder{}
	for i, op := range operands {
		if i > 0 {
			result.WriteString(", ")
		}
		result.WriteString(strings.TrimSpace(op))
	}
	return result.String()
}

// padToColumn pads the string builder to the specified column
func (f *Formatter) padToColumn(sb *strings.Builder, column int) {
	current := sb.Len()
	if current < column {
		sb.WriteString(strings.Repeat(" ", column-current))
	} else if current > column {
		sb.WriteString(" ")
	}
}

// FormatString is a convenience function to format a string with default options
func FormatString(input string) (string, error) {
	return NewFormatter(DefaultFormatOptions()).Format(input)
}

// FormatStringWithStyle formats a string with the specified style
func FormatStringWithStyle(input string, style FormatStyle) (string, error) {
	var options *FormatOptions
	switch style {
	case FormatCompact:
		options = CompactFormatOptions()
	case FormatExpanded:
		options = ExpandedFormatOptions()
	default:
		options = DefaultFormatOptions()
	}
	return NewFormatter(options).Format(input)
}
