package vm

import "github.com/arcrv/rv64i-toolchain/isa"

// Memory layout (see SPEC_FULL.md §5 — Open Question resolution for MEM_SIZE).
// Re-exported from isa so vm-package callers don't need a second import.
const (
	MemSize     = isa.MemSize
	TextStart   = isa.TextStart
	DataStart   = isa.DataStart
	StackTop    = isa.StackTop
	HaltAddress = isa.HaltAddress
)

// DefaultMaxCycles caps runaway programs the way the teacher's vm.DefaultMaxCycles does.
const DefaultMaxCycles = 1_000_000

// MaxBreakpoints is the hard limit spec.md §3 places on simultaneous breakpoints.
const MaxBreakpoints = 5
