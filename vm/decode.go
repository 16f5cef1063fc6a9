package vm

import (
	"github.com/arcrv/rv64i-toolchain/isa"
)

// OpKind tags a decoded operation the way spec.md §9 prescribes: a single
// tagged variant rather than a class-per-opcode hierarchy, so Execute can
// pattern-match exhaustively with no heap allocation per instruction.
type OpKind int

const (
	OpUnknown OpKind = iota
	OpRegReg         // R-type: rd = rs1 OP rs2
	OpRegImm         // I-type ALU: rd = rs1 OP imm
	OpLoad
	OpStore
	OpBranch
	OpLUI
	OpAUIPC
	OpJAL
	OpJALR
)

// Op is the fully decoded form of one 32-bit instruction word: every field
// needed by Execute, with immediates already sign-extended per spec.md §4.5.
type Op struct {
	Kind     OpKind
	Mnemonic isa.Mnemonic
	Rd       int
	Rs1      int
	Rs2      int
	Imm      int64
	Word     uint32
}

func signExtend(value uint32, bits int) int64 {
	shift := 32 - bits
	return int64(int32(value<<shift)) >> shift
}

func bits(word uint32, hi, lo int) uint32 {
	mask := uint32(1)<<(hi-lo+1) - 1
	return (word >> lo) & mask
}

// Decode reverses the encoder's bit layout (spec.md §4.4) for a single 32-bit
// instruction word, returning an IllegalInstruction error for any
// opcode/funct3/funct7 combination the RV64I base does not define.
func Decode(word uint32, address uint64) (Op, error) {
	opcode := bits(word, 6, 0)
	rd := int(bits(word, 11, 7))
	funct3 := bits(word, 14, 12)
	rs1 := int(bits(word, 19, 15))
	rs2 := int(bits(word, 24, 20))
	funct7 := bits(word, 31, 25)

	switch opcode {
	case isa.OpcodeOp, isa.OpcodeOp32:
		for mn, f := range isa.RTable {
			if f.Opcode == opcode && f.Funct3 == funct3 && f.Funct7 == funct7 {
				return Op{Kind: OpRegReg, Mnemonic: mn, Rd: rd, Rs1: rs1, Rs2: rs2, Word: word}, nil
			}
		}

	case isa.OpcodeOpImm, isa.OpcodeOpImm32:
		for mn, f := range isa.ITable {
			if f.Opcode != opcode || f.Funct3 != funct3 {
				continue
			}
			if f.IsShift {
				if f.ShamtBits == 6 {
					topBits := bits(word, 31, 26)
					shamt := bits(word, 25, 20)
					if topBits != f.ShiftTopBits {
						continue
					}
					return Op{Kind: OpRegImm, Mnemonic: mn, Rd: rd, Rs1: rs1, Imm: int64(shamt), Word: word}, nil
				}
				topBits := bits(word, 31, 25)
				shamt := bits(word, 24, 20)
				if topBits != f.ShiftTopBits {
					continue
				}
				return Op{Kind: OpRegImm, Mnemonic: mn, Rd: rd, Rs1: rs1, Imm: int64(shamt), Word: word}, nil
			}
			imm := signExtend(bits(word, 31, 20), 12)
			return Op{Kind: OpRegImm, Mnemonic: mn, Rd: rd, Rs1: rs1, Imm: imm, Word: word}, nil
		}

	case isa.OpcodeLoad:
		for mn, f3 := range isa.LoadTable {
			if f3 == funct3 {
				imm := signExtend(bits(word, 31, 20), 12)
				return Op{Kind: OpLoad, Mnemonic: mn, Rd: rd, Rs1: rs1, Imm: imm, Word: word}, nil
			}
		}

	case isa.OpcodeStore:
		for mn, f3 := range isa.StoreTable {
			if f3 == funct3 {
				immHi := bits(word, 31, 25)
				immLo := bits(word, 11, 7)
				imm := signExtend((immHi<<5)|immLo, 12)
				return Op{Kind: OpStore, Mnemonic: mn, Rs1: rs1, Rs2: rs2, Imm: imm, Word: word}, nil
			}
		}

	case isa.OpcodeBranch:
		for mn, f3 := range isa.BranchTable {
			if f3 == funct3 {
				b12 := bits(word, 31, 31)
				b11 := bits(word, 7, 7)
				b105 := bits(word, 30, 25)
				b41 := bits(word, 11, 8)
				raw := (b12 << 12) | (b11 << 11) | (b105 << 5) | (b41 << 1)
				imm := signExtend(raw, 13)
				return Op{Kind: OpBranch, Mnemonic: mn, Rs1: rs1, Rs2: rs2, Imm: imm, Word: word}, nil
			}
		}

	case isa.OpcodeLUI:
		imm := int64(bits(word, 31, 12)) << 12
		// sign-extend the 32-bit result to 64 bits
		imm = int64(int32(imm))
		return Op{Kind: OpLUI, Mnemonic: isa.LUI, Rd: rd, Imm: imm, Word: word}, nil

	case isa.OpcodeAUIPC:
		imm := int64(bits(word, 31, 12)) << 12
		imm = int64(int32(imm))
		return Op{Kind: OpAUIPC, Mnemonic: isa.AUIPC, Rd: rd, Imm: imm, Word: word}, nil

	case isa.OpcodeJAL:
		b20 := bits(word, 31, 31)
		b1912 := bits(word, 19, 12)
		b11 := bits(word, 20, 20)
		b101 := bits(word, 30, 21)
		raw := (b20 << 20) | (b1912 << 12) | (b11 << 11) | (b101 << 1)
		imm := signExtend(raw, 21)
		return Op{Kind: OpJAL, Mnemonic: isa.JAL, Rd: rd, Imm: imm, Word: word}, nil

	case isa.OpcodeJALR:
		if funct3 == 0 {
			imm := signExtend(bits(word, 31, 20), 12)
			return Op{Kind: OpJALR, Mnemonic: isa.JALR, Rd: rd, Rs1: rs1, Imm: imm, Word: word}, nil
		}
	}

	return Op{}, &IllegalInstruction{Word: word, Address: address}
}
