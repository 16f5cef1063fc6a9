// Package debugger implements the interactive session spec.md §4.7
// describes: a command loop over a running vm.VM, line breakpoints, and a
// call-stack viewer, with both a CLI front end and a tview-based TUI sharing
// the same command-execution core (structurally the teacher's
// debugger/debugger.go ExecuteCommand dispatch, trimmed to this spec's
// command set).
package debugger

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/arcrv/rv64i-toolchain/loader"
	"github.com/arcrv/rv64i-toolchain/vm"
)

// Debugger holds one debug session: the VM under inspection, its
// breakpoints, the source-line map C11 builds, and an output buffer the CLI
// and TUI front ends both drain.
type Debugger struct {
	VM          *vm.VM
	Breakpoints *BreakpointManager

	// SourceLines maps a text-memory address to its 1-based source line.
	SourceLines loader.SourceLineMap

	LastCommand string
	Output      strings.Builder
}

// NewDebugger creates a debugger session over machine, wiring its call
// stack if the caller has not set one (NewVM leaves CallStack nil).
func NewDebugger(machine *vm.VM, sourceLines loader.SourceLineMap) *Debugger {
	if machine.CallStack == nil {
		machine.CallStack = vm.NewCallStack()
	}
	return &Debugger{
		VM:          machine,
		Breakpoints: NewBreakpointManager(),
		SourceLines: sourceLines,
	}
}

// currentLine returns the source line at the VM's current PC, or 0 if unmapped.
func (d *Debugger) currentLine() int {
	return d.SourceLines[d.VM.Regs.PC()]
}

// ExecuteCommand parses and runs one command line. An empty line repeats
// the last non-empty command, matching the teacher's REPL convention.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)
	if cmdLine == "" {
		cmdLine = d.LastCommand
	}
	if cmdLine == "" {
		return nil
	}
	d.LastCommand = cmdLine

	parts := strings.Fields(cmdLine)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	// "del break <line>" / "delete break <line>" is a two-word command.
	if (cmd == "del" || cmd == "delete") && len(args) > 0 && strings.ToLower(args[0]) == "break" {
		return d.cmdDelBreak(args[1:])
	}

	switch cmd {
	case "run", "r":
		return d.cmdRun()
	case "step", "s":
		return d.cmdStep()
	case "regs":
		return d.cmdRegs()
	case "mem":
		return d.cmdMem(args)
	case "break", "b":
		return d.cmdBreak(args)
	case "show-stack":
		return d.cmdShowStack()
	case "exit", "quit", "q":
		return d.cmdExit()
	case "help", "h", "?":
		return d.cmdHelp()
	default:
		return errors.New("Unknown command")
	}
}

func (d *Debugger) cmdRun() error {
	for {
		if d.VM.State == vm.StateFinished || d.VM.State == vm.StateError {
			return d.VM.LastError
		}
		if err := d.VM.Step(); err != nil {
			return err
		}
		if d.VM.State == vm.StateFinished {
			d.Printf("program finished\n")
			return nil
		}
		line := d.currentLine()
		if bp := d.Breakpoints.Hit(line); bp != nil {
			d.VM.State = vm.StateAtBreakpoint
			d.Printf("breakpoint %d hit at line %d\n", bp.ID, bp.Line)
			return nil
		}
	}
}

func (d *Debugger) cmdStep() error {
	if err := d.VM.Step(); err != nil {
		return err
	}
	if d.VM.State == vm.StateFinished {
		d.Printf("program finished\n")
		return nil
	}
	d.Printf("line %d (pc=0x%X)\n", d.currentLine(), d.VM.Regs.PC())
	return nil
}

func (d *Debugger) cmdRegs() error {
	d.Printf("%s", d.VM.Regs.Dump())
	return nil
}

func (d *Debugger) cmdMem(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: mem <addr> <count>")
	}
	addr, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	count, err := strconv.Atoi(args[1])
	if err != nil || count < 0 {
		return fmt.Errorf("invalid count: %s", args[1])
	}

	bytes, err := d.VM.Memory.ReadBytes(addr, count)
	if err != nil {
		return err
	}
	for i, b := range bytes {
		d.Printf("Memory[0x%X] = 0x%02X\n", addr+uint64(i), b)
	}
	return nil
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: break <line>")
	}
	line, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid line: %s", args[0])
	}
	bp, err := d.Breakpoints.Add(line)
	if err != nil {
		return err
	}
	d.Printf("breakpoint %d set at line %d\n", bp.ID, bp.Line)
	return nil
}

func (d *Debugger) cmdDelBreak(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: del break <line>")
	}
	line, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid line: %s", args[0])
	}
	if err := d.Breakpoints.Delete(line); err != nil {
		return err
	}
	d.Printf("breakpoint at line %d deleted\n", line)
	return nil
}

func (d *Debugger) cmdShowStack() error {
	frames := d.VM.CallStack.Frames()
	for i := len(frames) - 1; i >= 0; i-- {
		d.Printf("%s (line %d)\n", frames[i].FunctionName, frames[i].Line)
	}
	return nil
}

func (d *Debugger) cmdExit() error {
	d.Printf("exiting\n")
	return nil
}

func (d *Debugger) cmdHelp() error {
	d.Printf("commands: run, step, regs, mem <addr> <count>, break <line>, del break <line>, show-stack, exit, help\n")
	return nil
}

// Printf writes formatted output to the session's output buffer.
func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

// GetOutput returns and clears the accumulated output.
func (d *Debugger) GetOutput() string {
	s := d.Output.String()
	d.Output.Reset()
	return s
}

func parseAddress(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		return v, err
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", s)
	}
	return v, nil
}

// BreakpointLines returns every set breakpoint's line number, sorted, for
// the TUI's breakpoints panel.
func (d *Debugger) BreakpointLines() []int {
	bps := d.Breakpoints.All()
	lines := make([]int, len(bps))
	for i, bp := range bps {
		lines[i] = bp.Line
	}
	sort.Ints(lines)
	return lines
}
