package vm

import (
	"fmt"
)

// ExecutionState mirrors the session states spec.md §4.7 enumerates for the
// debugger, plus the states direct (non-debug) execution needs.
type ExecutionState int

const (
	StateLoaded ExecutionState = iota
	StateHalted
	StateRunning
	StateAtBreakpoint
	StateFinished
	StateError
)

func (s ExecutionState) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateHalted:
		return "halted"
	case StateRunning:
		return "running"
	case StateAtBreakpoint:
		return "at_breakpoint"
	case StateFinished:
		return "finished"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// VM is the complete RV64I virtual machine: register file, memory, and the
// execution bookkeeping the debugger and direct-run mode both need.
type VM struct {
	Regs   *RegisterFile
	Memory *Memory

	State ExecutionState

	CycleLimit     uint64
	Cycles         uint64
	InstructionLog []uint64

	LastError error

	EntryPoint uint64
	StackTop   uint64
	ExitCode   int32

	// HaltAddress is the sentinel PC value that marks program completion.
	// The loader seeds ra with this address before the first instruction
	// runs, so that "ret" from main lands here instead of at a real
	// instruction (the teacher's vm/executor.go does the same: "Set link
	// register to a halt address so returning from main halts").
	HaltAddress uint64

	LastMemoryWrite uint64
	HasMemoryWrite  bool

	// CallStack is optional and nil disables call tracking; NewVM leaves it
	// nil. The debugger wires one in for show-stack support (spec.md §4.7,
	// C10), and rvsim sets one before loading in every mode.
	CallStack *CallStack
}

// NewVM creates a VM with a fresh register file and 1 MiB memory.
func NewVM() *VM {
	return &VM{
		Regs:           NewRegisterFile(),
		Memory:         NewMemory(),
		State:          StateLoaded,
		CycleLimit:     DefaultMaxCycles,
		InstructionLog: make([]uint64, 0, 1024),
	}
}

// Reset restores registers and memory to their zero state.
func (m *VM) Reset() {
	m.Regs.Reset()
	m.Memory.Reset()
	m.State = StateLoaded
	m.Cycles = 0
	m.InstructionLog = m.InstructionLog[:0]
	m.LastError = nil
	if m.CallStack != nil {
		m.CallStack.Reset()
	}
}

// InitializeStack sets the initial stack pointer (x2/sp).
func (m *VM) InitializeStack(stackTop uint64) {
	m.StackTop = stackTop
	m.Regs.Write(2, stackTop)
}

// Start sets the program counter to entry and seeds ra (x1) with haltAddress,
// so that a "ret" out of main's call frame lands on the sentinel rather than
// on a real instruction, marking the run StateFinished.
func (m *VM) Start(entry, haltAddress uint64) {
	m.EntryPoint = entry
	m.HaltAddress = haltAddress
	m.Regs.SetPC(entry)
	m.Regs.Write(1, haltAddress)
	m.State = StateLoaded
}

// Fetch reads the 32-bit instruction word at the current PC.
func (m *VM) Fetch() (uint32, error) {
	return m.Memory.Read32(m.Regs.PC())
}

// Step executes exactly one instruction: fetch, decode, execute, each error
// class reported per spec.md §7 ("per-instruction errors stop run, leave all
// state intact for inspection").
func (m *VM) Step() error {
	if m.State == StateError {
		return fmt.Errorf("vm is in error state: %w", m.LastError)
	}

	if m.CycleLimit > 0 && m.Cycles >= m.CycleLimit {
		m.State = StateError
		m.LastError = fmt.Errorf("cycle limit exceeded (%d cycles)", m.CycleLimit)
		return m.LastError
	}

	if m.Regs.PC() == m.HaltAddress {
		m.State = StateFinished
		return nil
	}

	pc := m.Regs.PC()
	m.InstructionLog = append(m.InstructionLog, pc)

	word, err := m.Fetch()
	if err != nil {
		m.State = StateError
		m.LastError = fmt.Errorf("fetch failed at pc=0x%X: %w", pc, err)
		return m.LastError
	}

	op, err := Decode(word, pc)
	if err != nil {
		m.State = StateError
		m.LastError = err
		return err
	}

	if err := m.Execute(op); err != nil {
		if m.State != StateHalted && m.State != StateAtBreakpoint {
			m.State = StateError
			m.LastError = fmt.Errorf("execute failed at pc=0x%X: %w", pc, err)
		}
		return m.LastError
	}

	m.Cycles++
	return nil
}

// Run steps until halt, error, or the cycle limit is reached.
func (m *VM) Run() error {
	m.State = StateRunning
	for m.State == StateRunning {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// DumpState is a one-line summary used by verbose direct-run mode and debugger status lines.
func (m *VM) DumpState() string {
	return fmt.Sprintf("pc=0x%X sp=0x%X ra=0x%X cycles=%d state=%s",
		m.Regs.PC(), m.Regs.Read(2), m.Regs.Read(1), m.Cycles, m.State)
}
