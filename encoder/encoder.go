// Package encoder turns parsed assembly instructions (C4's output) into
// 32-bit RV64I machine code words (C5), per spec.md §4.4's bit layouts.
package encoder

import (
	"fmt"

	"github.com/arcrv/rv64i-toolchain/isa"
	"github.com/arcrv/rv64i-toolchain/parser"
)

// Encode assembles one parsed instruction into its 32-bit machine code word.
// pc is the instruction's own address, needed for PC-relative branch/jump
// offsets. symtab resolves label operands to addresses.
func Encode(inst *parser.Instruction, pc uint64, symtab *parser.SymbolTable) (uint32, error) {
	mn := isa.Mnemonic(inst.Mnemonic)
	ops := inst.Operands

	if exp, ok, err := expandPseudo(inst); err != nil {
		return 0, err
	} else if ok {
		mn = exp.Mnemonic
		ops = exp.Operands
	}

	if f, ok := isa.RTable[mn]; ok {
		if err := requireN(inst, ops, 3); err != nil {
			return 0, err
		}
		rd, err := ParseRegister(ops[0])
		if err != nil {
			return 0, lineErr(inst, err)
		}
		rs1, err := ParseRegister(ops[1])
		if err != nil {
			return 0, lineErr(inst, err)
		}
		rs2, err := ParseRegister(ops[2])
		if err != nil {
			return 0, lineErr(inst, err)
		}
		return encodeR(f, rd, rs1, rs2), nil
	}

	if f, ok := isa.ITable[mn]; ok {
		if err := requireN(inst, ops, 3); err != nil {
			return 0, err
		}
		rd, err := ParseRegister(ops[0])
		if err != nil {
			return 0, lineErr(inst, err)
		}
		rs1, err := ParseRegister(ops[1])
		if err != nil {
			return 0, lineErr(inst, err)
		}
		imm, err := ParseImmediate(ops[2], symtab)
		if err != nil {
			return 0, lineErr(inst, err)
		}
		var word uint32
		if f.IsShift {
			word, err = encodeShift(f.Opcode, f.Funct3, f.ShiftTopBits, f.ShamtBits, rd, rs1, imm)
		} else {
			word, err = encodeI(f.Opcode, f.Funct3, rd, rs1, imm)
		}
		if err != nil {
			return 0, lineErr(inst, err)
		}
		return word, nil
	}

	if f3, ok := isa.LoadTable[mn]; ok {
		if err := requireN(inst, ops, 2); err != nil {
			return 0, err
		}
		rd, err := ParseRegister(ops[0])
		if err != nil {
			return 0, lineErr(inst, err)
		}
		mem, err := ParseMemOperand(ops[1], symtab)
		if err != nil {
			return 0, lineErr(inst, err)
		}
		word, err := encodeI(isa.OpcodeLoad, f3, rd, mem.Reg, mem.Imm)
		if err != nil {
			return 0, lineErr(inst, err)
		}
		return word, nil
	}

	if f3, ok := isa.StoreTable[mn]; ok {
		if err := requireN(inst, ops, 2); err != nil {
			return 0, err
		}
		rs2, err := ParseRegister(ops[0])
		if err != nil {
			return 0, lineErr(inst, err)
		}
		mem, err := ParseMemOperand(ops[1], symtab)
		if err != nil {
			return 0, lineErr(inst, err)
		}
		word, err := encodeS(f3, mem.Reg, rs2, mem.Imm)
		if err != nil {
			return 0, lineErr(inst, err)
		}
		return word, nil
	}

	if f3, ok := isa.BranchTable[mn]; ok {
		if err := requireN(inst, ops, 3); err != nil {
			return 0, err
		}
		rs1, err := ParseRegister(ops[0])
		if err != nil {
			return 0, lineErr(inst, err)
		}
		rs2, err := ParseRegister(ops[1])
		if err != nil {
			return 0, lineErr(inst, err)
		}
		target, err := resolveTarget(ops[2], symtab)
		if err != nil {
			return 0, lineErr(inst, err)
		}
		word, err := encodeB(f3, rs1, rs2, int64(target)-int64(pc))
		if err != nil {
			return 0, lineErr(inst, err)
		}
		return word, nil
	}

	switch mn {
	case isa.LUI, isa.AUIPC:
		if err := requireN(inst, ops, 2); err != nil {
			return 0, err
		}
		rd, err := ParseRegister(ops[0])
		if err != nil {
			return 0, lineErr(inst, err)
		}
		imm, err := ParseImmediate(ops[1], symtab)
		if err != nil {
			return 0, lineErr(inst, err)
		}
		opcode := isa.OpcodeLUI
		if mn == isa.AUIPC {
			opcode = isa.OpcodeAUIPC
		}
		word, err := encodeU(opcode, rd, imm)
		if err != nil {
			return 0, lineErr(inst, err)
		}
		return word, nil

	case isa.JAL:
		if err := requireN(inst, ops, 2); err != nil {
			return 0, err
		}
		rd, err := ParseRegister(ops[0])
		if err != nil {
			return 0, lineErr(inst, err)
		}
		target, err := resolveTarget(ops[1], symtab)
		if err != nil {
			return 0, lineErr(inst, err)
		}
		word, err := encodeJ(rd, int64(target)-int64(pc))
		if err != nil {
			return 0, lineErr(inst, err)
		}
		return word, nil

	case isa.JALR:
		if err := requireN(inst, ops, 2); err != nil {
			return 0, err
		}
		rd, err := ParseRegister(ops[0])
		if err != nil {
			return 0, lineErr(inst, err)
		}
		mem, err := ParseMemOperand(ops[1], symtab)
		if err != nil {
			return 0, lineErr(inst, err)
		}
		word, err := encodeI(isa.OpcodeJALR, 0x0, rd, mem.Reg, mem.Imm)
		if err != nil {
			return 0, lineErr(inst, err)
		}
		return word, nil
	}

	return 0, &SyntaxError{Detail: fmt.Sprintf("line %d: unknown mnemonic %q", inst.Line, inst.Mnemonic)}
}

// resolveTarget resolves a branch/jump operand that names a label or, failing
// that, a raw numeric address.
func resolveTarget(s string, symtab *parser.SymbolTable) (uint64, error) {
	if symtab != nil {
		if addr, ok := symtab.Address(s); ok {
			return addr, nil
		}
	}
	v, err := ParseImmediate(s, nil)
	if err != nil {
		return 0, &SyntaxError{Detail: fmt.Sprintf("undefined label %q", s)}
	}
	return uint64(v), nil
}

func requireN(inst *parser.Instruction, ops []string, n int) error {
	if len(ops) != n {
		return &SyntaxError{Detail: fmt.Sprintf("line %d: %s expects %d operand(s), got %d", inst.Line, inst.Mnemonic, n, len(ops))}
	}
	return nil
}

func lineErr(inst *parser.Instruction, err error) error {
	return fmt.Errorf("line %d: %w", inst.Line, err)
}
