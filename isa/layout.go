package isa

// Memory layout constants shared by the assembler (parser), the loader, and
// the vm package so label addresses and runtime addresses never disagree.
// See SPEC_FULL.md §5 for why MemSize is fixed at 1 MiB.
const (
	MemSize   = 0x100000
	TextStart = 0x00000
	DataStart = 0x10000
	StackTop  = 0xF0000

	// HaltAddress is the sentinel ra value the loader seeds before entry.
	// It equals MemSize, the first address past the end of addressable
	// memory, so it is never a valid instruction address; vm.Step checks for
	// it before fetching.
	HaltAddress = MemSize
)
