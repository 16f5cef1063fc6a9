package vm

import "fmt"

// MemoryFault reports an out-of-range or otherwise invalid memory access.
// It is the runtime counterpart of spec.md §7's MemoryFault error class.
type MemoryFault struct {
	Address uint64
	Size    int
}

func (e *MemoryFault) Error() string {
	return fmt.Sprintf("memory fault: address 0x%X size %d is outside [0, 0x%X)", e.Address, e.Size, MemSize)
}

// IllegalInstruction reports a 32-bit word the decoder cannot map to a known operation.
type IllegalInstruction struct {
	Word    uint32
	Address uint64
}

func (e *IllegalInstruction) Error() string {
	return fmt.Sprintf("illegal instruction 0x%08X at 0x%X", e.Word, e.Address)
}
