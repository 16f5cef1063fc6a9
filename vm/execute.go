package vm

import (
	"fmt"

	"github.com/arcrv/rv64i-toolchain/isa"
)

// Execute applies a decoded Op to the VM's architectural state following the
// duties spec.md §4.6 lays out: read operands, compute the result with
// precise sign-extension/W-variant semantics, write the destination register
// and/or memory, then update PC. Register writes and memory writes both
// happen before the PC update, as spec.md §5 requires.
func (m *VM) Execute(op Op) error {
	switch op.Kind {
	case OpRegReg:
		return m.executeRegReg(op)
	case OpRegImm:
		return m.executeRegImm(op)
	case OpLoad:
		return m.executeLoad(op)
	case OpStore:
		return m.executeStore(op)
	case OpBranch:
		return m.executeBranch(op)
	case OpLUI:
		m.Regs.Write(op.Rd, uint64(op.Imm))
		m.Regs.SetPC(m.Regs.PC() + 4)
		return nil
	case OpAUIPC:
		m.Regs.Write(op.Rd, m.Regs.PC()+uint64(op.Imm))
		m.Regs.SetPC(m.Regs.PC() + 4)
		return nil
	case OpJAL:
		return m.executeJAL(op)
	case OpJALR:
		return m.executeJALR(op)
	default:
		return &IllegalInstruction{Word: op.Word, Address: m.Regs.PC()}
	}
}

func isWVariant(mn isa.Mnemonic) bool {
	switch mn {
	case isa.ADDW, isa.SUBW, isa.SLLW, isa.SRLW, isa.SRAW,
		isa.ADDIW, isa.SLLIW, isa.SRLIW, isa.SRAIW:
		return true
	}
	return false
}

func (m *VM) executeRegReg(op Op) error {
	a := m.Regs.Read(op.Rs1)
	b := m.Regs.Read(op.Rs2)

	var result uint64
	switch op.Mnemonic {
	case isa.ADD:
		result = a + b
	case isa.SUB:
		result = a - b
	case isa.SLL:
		result = a << (b & 63)
	case isa.SLT:
		result = boolToUint64(int64(a) < int64(b))
	case isa.SLTU:
		result = boolToUint64(a < b)
	case isa.XOR:
		result = a ^ b
	case isa.SRL:
		result = a >> (b & 63)
	case isa.SRA:
		result = uint64(int64(a) >> (b & 63))
	case isa.OR:
		result = a | b
	case isa.AND:
		result = a & b
	case isa.ADDW:
		result = signExtend32(uint32(a) + uint32(b))
	case isa.SUBW:
		result = signExtend32(uint32(a) - uint32(b))
	case isa.SLLW:
		result = signExtend32(uint32(a) << (uint32(b) & 31))
	case isa.SRLW:
		result = signExtend32(uint32(a) >> (uint32(b) & 31))
	case isa.SRAW:
		result = uint64(int64(int32(uint32(a)) >> (uint32(b) & 31)))
	default:
		return fmt.Errorf("unimplemented register-register op %s", op.Mnemonic)
	}

	m.Regs.Write(op.Rd, result)
	m.Regs.SetPC(m.Regs.PC() + 4)
	return nil
}

func (m *VM) executeRegImm(op Op) error {
	a := m.Regs.Read(op.Rs1)
	imm := uint64(op.Imm)

	var result uint64
	switch op.Mnemonic {
	case isa.ADDI:
		result = a + imm
	case isa.SLTI:
		result = boolToUint64(int64(a) < op.Imm)
	case isa.SLTIU:
		result = boolToUint64(a < imm)
	case isa.XORI:
		result = a ^ imm
	case isa.ORI:
		result = a | imm
	case isa.ANDI:
		result = a & imm
	case isa.SLLI:
		result = a << uint(op.Imm&63)
	case isa.SRLI:
		result = a >> uint(op.Imm&63)
	case isa.SRAI:
		result = uint64(int64(a) >> uint(op.Imm&63))
	case isa.ADDIW:
		result = signExtend32(uint32(a) + uint32(op.Imm))
	case isa.SLLIW:
		result = signExtend32(uint32(a) << uint(op.Imm&31))
	case isa.SRLIW:
		result = signExtend32(uint32(a) >> uint(op.Imm&31))
	case isa.SRAIW:
		result = uint64(int64(int32(uint32(a)) >> uint(op.Imm&31)))
	default:
		return fmt.Errorf("unimplemented register-immediate op %s", op.Mnemonic)
	}

	m.Regs.Write(op.Rd, result)
	m.Regs.SetPC(m.Regs.PC() + 4)
	return nil
}

func (m *VM) executeLoad(op Op) error {
	addr := m.Regs.Read(op.Rs1) + uint64(op.Imm)

	var result uint64
	switch op.Mnemonic {
	case isa.LB:
		v, err := m.Memory.Read8(addr)
		if err != nil {
			return err
		}
		result = uint64(int64(int8(v)))
	case isa.LH:
		v, err := m.Memory.Read16(addr)
		if err != nil {
			return err
		}
		result = uint64(int64(int16(v)))
	case isa.LW:
		v, err := m.Memory.Read32(addr)
		if err != nil {
			return err
		}
		result = uint64(int64(int32(v)))
	case isa.LD:
		v, err := m.Memory.Read64(addr)
		if err != nil {
			return err
		}
		result = v
	case isa.LBU:
		v, err := m.Memory.Read8(addr)
		if err != nil {
			return err
		}
		result = uint64(v)
	case isa.LHU:
		v, err := m.Memory.Read16(addr)
		if err != nil {
			return err
		}
		result = uint64(v)
	case isa.LWU:
		v, err := m.Memory.Read32(addr)
		if err != nil {
			return err
		}
		result = uint64(v)
	default:
		return fmt.Errorf("unimplemented load op %s", op.Mnemonic)
	}

	m.Regs.Write(op.Rd, result)
	m.Regs.SetPC(m.Regs.PC() + 4)
	return nil
}

func (m *VM) executeStore(op Op) error {
	addr := m.Regs.Read(op.Rs1) + uint64(op.Imm)
	v := m.Regs.Read(op.Rs2)

	var err error
	switch op.Mnemonic {
	case isa.SB:
		err = m.Memory.Write8(addr, uint8(v))
	case isa.SH:
		err = m.Memory.Write16(addr, uint16(v))
	case isa.SW:
		err = m.Memory.Write32(addr, uint32(v))
	case isa.SD:
		err = m.Memory.Write64(addr, v)
	default:
		return fmt.Errorf("unimplemented store op %s", op.Mnemonic)
	}
	if err != nil {
		return err
	}

	m.LastMemoryWrite = addr
	m.HasMemoryWrite = true

	m.Regs.SetPC(m.Regs.PC() + 4)
	return nil
}

func (m *VM) executeBranch(op Op) error {
	a := m.Regs.Read(op.Rs1)
	b := m.Regs.Read(op.Rs2)

	var taken bool
	switch op.Mnemonic {
	case isa.BEQ:
		taken = a == b
	case isa.BNE:
		taken = a != b
	case isa.BLT:
		taken = int64(a) < int64(b)
	case isa.BGE:
		taken = int64(a) >= int64(b)
	case isa.BLTU:
		taken = a < b
	case isa.BGEU:
		taken = a >= b
	default:
		return fmt.Errorf("unimplemented branch op %s", op.Mnemonic)
	}

	if taken {
		m.Regs.SetPC(m.Regs.PC() + uint64(op.Imm))
	} else {
		m.Regs.SetPC(m.Regs.PC() + 4)
	}
	return nil
}

func (m *VM) executeJAL(op Op) error {
	link := m.Regs.PC() + 4
	target := m.Regs.PC() + uint64(op.Imm)
	m.Regs.Write(op.Rd, link)
	m.Regs.SetPC(target)
	m.trackCall(op.Rd, target, link)
	return nil
}

func (m *VM) executeJALR(op Op) error {
	link := m.Regs.PC() + 4
	target := (m.Regs.Read(op.Rs1) + uint64(op.Imm)) &^ 1
	m.Regs.Write(op.Rd, link)
	m.Regs.SetPC(target)
	m.trackReturn(op.Rd, op.Rs1, op.Imm)
	m.trackCall(op.Rd, target, link)
	return nil
}

func boolToUint64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func signExtend32(v uint32) uint64 {
	return uint64(int64(int32(v)))
}
