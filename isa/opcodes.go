package isa

// Primary opcodes (bits [6:0]) for the RV64I base instruction set.
const (
	OpcodeOp      uint32 = 0x33 // register-register ops (ADD, SUB, ...)
	OpcodeOp32    uint32 = 0x3B // W-variant register-register ops
	OpcodeOpImm   uint32 = 0x13 // register-immediate ops (ADDI, ...)
	OpcodeOpImm32 uint32 = 0x1B // W-variant register-immediate ops
	OpcodeLoad    uint32 = 0x03 // LB/LH/LW/LD/LBU/LHU/LWU
	OpcodeStore   uint32 = 0x23 // SB/SH/SW/SD
	OpcodeBranch  uint32 = 0x63 // BEQ/BNE/BLT/BGE/BLTU/BGEU
	OpcodeLUI     uint32 = 0x37
	OpcodeAUIPC   uint32 = 0x17
	OpcodeJAL     uint32 = 0x6F
	OpcodeJALR    uint32 = 0x67
)

// Mnemonic identifies a decoded or to-be-encoded base RV64I operation.
type Mnemonic string

const (
	ADD  Mnemonic = "ADD"
	SUB  Mnemonic = "SUB"
	SLL  Mnemonic = "SLL"
	SLT  Mnemonic = "SLT"
	SLTU Mnemonic = "SLTU"
	XOR  Mnemonic = "XOR"
	SRL  Mnemonic = "SRL"
	SRA  Mnemonic = "SRA"
	OR   Mnemonic = "OR"
	AND  Mnemonic = "AND"

	ADDW Mnemonic = "ADDW"
	SUBW Mnemonic = "SUBW"
	SLLW Mnemonic = "SLLW"
	SRLW Mnemonic = "SRLW"
	SRAW Mnemonic = "SRAW"

	ADDI  Mnemonic = "ADDI"
	SLTI  Mnemonic = "SLTI"
	SLTIU Mnemonic = "SLTIU"
	XORI  Mnemonic = "XORI"
	ORI   Mnemonic = "ORI"
	ANDI  Mnemonic = "ANDI"
	SLLI  Mnemonic = "SLLI"
	SRLI  Mnemonic = "SRLI"
	SRAI  Mnemonic = "SRAI"

	ADDIW Mnemonic = "ADDIW"
	SLLIW Mnemonic = "SLLIW"
	SRLIW Mnemonic = "SRLIW"
	SRAIW Mnemonic = "SRAIW"

	LB  Mnemonic = "LB"
	LH  Mnemonic = "LH"
	LW  Mnemonic = "LW"
	LD  Mnemonic = "LD"
	LBU Mnemonic = "LBU"
	LHU Mnemonic = "LHU"
	LWU Mnemonic = "LWU"

	SB Mnemonic = "SB"
	SH Mnemonic = "SH"
	SW Mnemonic = "SW"
	SD Mnemonic = "SD"

	BEQ  Mnemonic = "BEQ"
	BNE  Mnemonic = "BNE"
	BLT  Mnemonic = "BLT"
	BGE  Mnemonic = "BGE"
	BLTU Mnemonic = "BLTU"
	BGEU Mnemonic = "BGEU"

	LUI   Mnemonic = "LUI"
	AUIPC Mnemonic = "AUIPC"
	JAL   Mnemonic = "JAL"
	JALR  Mnemonic = "JALR"
)

// RFormat describes an R-type instruction's opcode/funct3/funct7 encoding.
type RFormat struct {
	Opcode, Funct3, Funct7 uint32
}

// RTable holds the encoding for every R-type (register-register) instruction.
var RTable = map[Mnemonic]RFormat{
	ADD:  {OpcodeOp, 0x0, 0x00},
	SUB:  {OpcodeOp, 0x0, 0x20},
	SLL:  {OpcodeOp, 0x1, 0x00},
	SLT:  {OpcodeOp, 0x2, 0x00},
	SLTU: {OpcodeOp, 0x3, 0x00},
	XOR:  {OpcodeOp, 0x4, 0x00},
	SRL:  {OpcodeOp, 0x5, 0x00},
	SRA:  {OpcodeOp, 0x5, 0x20},
	OR:   {OpcodeOp, 0x6, 0x00},
	AND:  {OpcodeOp, 0x7, 0x00},

	ADDW: {OpcodeOp32, 0x0, 0x00},
	SUBW: {OpcodeOp32, 0x0, 0x20},
	SLLW: {OpcodeOp32, 0x1, 0x00},
	SRLW: {OpcodeOp32, 0x5, 0x00},
	SRAW: {OpcodeOp32, 0x5, 0x20},
}

// IFormat describes an I-type instruction's opcode/funct3 (and, for shifts,
// the shamt field width and the fixed value of the bits above it).
type IFormat struct {
	Opcode, Funct3 uint32
	IsShift        bool
	ShamtBits      int    // 6 for RV64 shifts, 5 for W-variant shifts
	ShiftTopBits   uint32 // fixed value of the bits above the shamt field (0 logical, non-zero arithmetic)
}

// ITable holds the encoding for every I-type register-immediate instruction.
var ITable = map[Mnemonic]IFormat{
	ADDI:  {OpcodeOpImm, 0x0, false, 0, 0},
	SLTI:  {OpcodeOpImm, 0x2, false, 0, 0},
	SLTIU: {OpcodeOpImm, 0x3, false, 0, 0},
	XORI:  {OpcodeOpImm, 0x4, false, 0, 0},
	ORI:   {OpcodeOpImm, 0x6, false, 0, 0},
	ANDI:  {OpcodeOpImm, 0x7, false, 0, 0},
	SLLI:  {OpcodeOpImm, 0x1, true, 6, 0x00},
	SRLI:  {OpcodeOpImm, 0x5, true, 6, 0x00},
	SRAI:  {OpcodeOpImm, 0x5, true, 6, 0x10}, // bits[31:26] = 010000

	ADDIW: {OpcodeOpImm32, 0x0, false, 0, 0},
	SLLIW: {OpcodeOpImm32, 0x1, true, 5, 0x00},
	SRLIW: {OpcodeOpImm32, 0x5, true, 5, 0x00},
	SRAIW: {OpcodeOpImm32, 0x5, true, 5, 0x20}, // bits[31:25] = 0100000
}

// LoadTable holds the funct3 encoding for every load instruction (opcode is always OpcodeLoad).
var LoadTable = map[Mnemonic]uint32{
	LB:  0x0,
	LH:  0x1,
	LW:  0x2,
	LD:  0x3,
	LBU: 0x4,
	LHU: 0x5,
	LWU: 0x6,
}

// StoreTable holds the funct3 encoding for every store instruction (opcode is always OpcodeStore).
var StoreTable = map[Mnemonic]uint32{
	SB: 0x0,
	SH: 0x1,
	SW: 0x2,
	SD: 0x3,
}

// BranchTable holds the funct3 encoding for every branch instruction (opcode is always OpcodeBranch).
var BranchTable = map[Mnemonic]uint32{
	BEQ:  0x0,
	BNE:  0x1,
	BLT:  0x4,
	BGE:  0x5,
	BLTU: 0x6,
	BGEU: 0x7,
}
