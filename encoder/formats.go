package encoder

import (
	"fmt"

	"github.com/arcrv/rv64i-toolchain/isa"
)

// encodeR builds: funct7[31:25] | rs2[24:20] | rs1[19:15] | funct3[14:12] | rd[11:7] | opcode[6:0]
func encodeR(f isa.RFormat, rd, rs1, rs2 int) uint32 {
	return f.Funct7<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | f.Funct3<<12 | uint32(rd)<<7 | f.Opcode
}

// encodeI builds: imm[11:0][31:20] | rs1 | funct3 | rd | opcode
func encodeI(opcode, funct3 uint32, rd, rs1 int, imm int64) (uint32, error) {
	if err := checkSignedRange(imm, 12, "I-type immediate"); err != nil {
		return 0, err
	}
	return uint32(imm)&0xFFF<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode, nil
}

// encodeShift builds an I-type shift-immediate encoding with the given
// shamt field width (6 bits for RV64 ops, 5 for W-variants).
func encodeShift(opcode, funct3, topBits uint32, shamtBits int, rd, rs1 int, shamt int64) (uint32, error) {
	maxShamt := int64(1)<<shamtBits - 1
	if shamt < 0 || shamt > maxShamt {
		return 0, &RangeError{Value: shamt, Min: 0, Max: maxShamt, What: "shift amount"}
	}
	top := topBits << uint(shamtBits)
	return (top|uint32(shamt))<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode, nil
}

// encodeS builds: imm[11:5][31:25] | rs2 | rs1 | funct3 | imm[4:0][11:7] | opcode=0x23
func encodeS(funct3 uint32, rs1, rs2 int, imm int64) (uint32, error) {
	if err := checkSignedRange(imm, 12, "S-type immediate"); err != nil {
		return 0, err
	}
	u := uint32(imm) & 0xFFF
	hi := u >> 5
	lo := u & 0x1F
	return hi<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | lo<<7 | isa.OpcodeStore, nil
}

// encodeB builds the 13-bit signed branch offset spread across bits
// [31],[30:25],[11:8],[7]; opcode=0x63. The offset is label_address - pc
// and must be even and within [-4096, 4095].
func encodeB(funct3 uint32, rs1, rs2 int, offset int64) (uint32, error) {
	if offset%2 != 0 {
		return 0, fmt.Errorf("branch offset %d is not even", offset)
	}
	if err := checkSignedRange(offset, 13, "branch offset"); err != nil {
		return 0, err
	}
	u := uint32(offset)
	b12 := (u >> 12) & 1
	b11 := (u >> 11) & 1
	b105 := (u >> 5) & 0x3F
	b41 := (u >> 1) & 0xF
	return b12<<31 | b105<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | b41<<8 | b11<<7 | isa.OpcodeBranch, nil
}

// encodeU builds: imm[19:0] in bits [31:12] | rd | opcode. imm is the raw
// 20-bit upper field, not pre-shifted.
func encodeU(opcode uint32, rd int, imm int64) (uint32, error) {
	if imm < 0 || imm > 0xFFFFF {
		return 0, &RangeError{Value: imm, Min: 0, Max: 0xFFFFF, What: "U-type immediate"}
	}
	return uint32(imm)<<12 | uint32(rd)<<7 | opcode, nil
}

// encodeJ builds the 21-bit signed JAL offset spread across bits
// [31],[30:21],[20],[19:12]; opcode=0x6F.
func encodeJ(rd int, offset int64) (uint32, error) {
	if offset%2 != 0 {
		return 0, fmt.Errorf("jump offset %d is not even", offset)
	}
	if err := checkSignedRange(offset, 21, "jump offset"); err != nil {
		return 0, err
	}
	u := uint32(offset)
	b20 := (u >> 20) & 1
	b1912 := (u >> 12) & 0xFF
	b11 := (u >> 11) & 1
	b101 := (u >> 1) & 0x3FF
	return b20<<31 | b101<<21 | b11<<20 | b1912<<12 | uint32(rd)<<7 | isa.OpcodeJAL, nil
}
