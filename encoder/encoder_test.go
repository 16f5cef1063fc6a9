package encoder

import (
	"testing"

	"github.com/arcrv/rv64i-toolchain/isa"
	"github.com/arcrv/rv64i-toolchain/parser"
	"github.com/arcrv/rv64i-toolchain/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vmDecode(word uint32, address uint64) (vm.Op, error) {
	return vm.Decode(word, address)
}

func encodeMnemonic(t *testing.T, mnemonic string, operands []string, pc uint64, symtab *parser.SymbolTable) uint32 {
	t.Helper()
	inst := &parser.Instruction{Mnemonic: mnemonic, Operands: operands, Address: pc, Line: 1}
	word, err := Encode(inst, pc, symtab)
	require.NoError(t, err)
	return word
}

// S1 — ADDI.
func TestEncodeADDI(t *testing.T) {
	word := encodeMnemonic(t, "ADDI", []string{"a0", "zero", "5"}, 0, nil)
	assert.Equal(t, isa.OpcodeOpImm, word&0x7F)
	assert.Equal(t, uint32(10), (word>>7)&0x1F)  // rd = a0 = 10
	assert.Equal(t, uint32(0), (word>>15)&0x1F)  // rs1 = zero
	assert.Equal(t, uint32(5), (word>>20)&0xFFF) // imm = 5
}

// S2 — ADD.
func TestEncodeADD(t *testing.T) {
	word := encodeMnemonic(t, "ADD", []string{"t0", "t1", "t2"}, 0, nil)
	assert.Equal(t, isa.OpcodeOp, word&0x7F)
	assert.Equal(t, uint32(5), (word>>7)&0x1F)  // rd = t0
	assert.Equal(t, uint32(6), (word>>15)&0x1F) // rs1 = t1
	assert.Equal(t, uint32(7), (word>>20)&0x1F) // rs2 = t2
	assert.Equal(t, uint32(0), word>>25)        // funct7
}

// S3 — SW / SB round-trip through the decoder.
func TestEncodeSWDecodesBack(t *testing.T) {
	word := encodeMnemonic(t, "SW", []string{"a1", "8(sp)"}, 0, nil)
	op, err := vmDecode(word, 0)
	require.NoError(t, err)
	assert.Equal(t, isa.SW, op.Mnemonic)
	assert.Equal(t, int64(8), op.Imm)

	word = encodeMnemonic(t, "SB", []string{"a1", "-1(sp)"}, 0, nil)
	op, err = vmDecode(word, 0)
	require.NoError(t, err)
	assert.Equal(t, isa.SB, op.Mnemonic)
	assert.Equal(t, int64(-1), op.Imm)
}

// S4 — register aliases resolve via ParseRegister.
func TestParseRegisterAliases(t *testing.T) {
	cases := map[string]int{"t0": 5, "fp": 8, "s1": 9, "a0": 10}
	for name, want := range cases {
		got, err := ParseRegister(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseRegister("invalid")
	assert.Error(t, err)
}

func TestEncodeLUIAndAUIPC(t *testing.T) {
	word := encodeMnemonic(t, "LUI", []string{"a0", "0x10"}, 0, nil)
	assert.Equal(t, isa.OpcodeLUI, word&0x7F)
	assert.Equal(t, uint32(0x10), word>>12)

	word = encodeMnemonic(t, "AUIPC", []string{"a0", "1"}, 0, nil)
	assert.Equal(t, isa.OpcodeAUIPC, word&0x7F)
}

func TestEncodeBranchResolvesLabel(t *testing.T) {
	symtab := parser.NewSymbolTable()
	require.NoError(t, symtab.Define("loop", 16, 1))

	word := encodeMnemonic(t, "BEQ", []string{"a0", "a1", "loop"}, 0, symtab)
	op, err := vmDecode(word, 0)
	require.NoError(t, err)
	assert.Equal(t, isa.BEQ, op.Mnemonic)
	assert.Equal(t, int64(16), op.Imm)
}

func TestEncodeJALResolvesLabel(t *testing.T) {
	symtab := parser.NewSymbolTable()
	require.NoError(t, symtab.Define("target", 100, 1))

	word := encodeMnemonic(t, "JAL", []string{"ra", "target"}, 4, symtab)
	op, err := vmDecode(word, 4)
	require.NoError(t, err)
	assert.Equal(t, isa.JAL, op.Mnemonic)
	assert.Equal(t, int64(96), op.Imm)
	assert.Equal(t, 1, op.Rd)
}

func TestEncodeShiftImmediate(t *testing.T) {
	word := encodeMnemonic(t, "SLLI", []string{"a0", "a0", "3"}, 0, nil)
	op, err := vmDecode(word, 0)
	require.NoError(t, err)
	assert.Equal(t, isa.SLLI, op.Mnemonic)
	assert.Equal(t, int64(3), op.Imm)

	word = encodeMnemonic(t, "SRAIW", []string{"a0", "a0", "1"}, 0, nil)
	op, err = vmDecode(word, 0)
	require.NoError(t, err)
	assert.Equal(t, isa.SRAIW, op.Mnemonic)
	assert.Equal(t, int64(1), op.Imm)
}

func TestEncodeSRLIWAndSRAIWDoNotCollapse(t *testing.T) {
	srliWord := encodeMnemonic(t, "SRLIW", []string{"a0", "a0", "1"}, 0, nil)
	sraiWord := encodeMnemonic(t, "SRAIW", []string{"a0", "a0", "1"}, 0, nil)
	assert.NotEqual(t, srliWord, sraiWord, "SRLIW and SRAIW must not encode to the same word")

	op, err := vmDecode(srliWord, 0)
	require.NoError(t, err)
	assert.Equal(t, isa.SRLIW, op.Mnemonic)

	op, err = vmDecode(sraiWord, 0)
	require.NoError(t, err)
	assert.Equal(t, isa.SRAIW, op.Mnemonic)
}

func TestEncodeOutOfRangeImmediate(t *testing.T) {
	inst := &parser.Instruction{Mnemonic: "ADDI", Operands: []string{"a0", "a0", "4096"}, Line: 1}
	_, err := Encode(inst, 0, nil)
	assert.Error(t, err)
	assert.ErrorAs(t, err, new(*RangeError))
}

func TestPseudoInstructionExpansion(t *testing.T) {
	// mv a0, a1 -> addi a0, a1, 0
	word := encodeMnemonic(t, "MV", []string{"a0", "a1"}, 0, nil)
	op, err := vmDecode(word, 0)
	require.NoError(t, err)
	assert.Equal(t, isa.ADDI, op.Mnemonic)
	assert.Equal(t, int64(0), op.Imm)

	// ret -> jalr zero, 0(ra)
	word = encodeMnemonic(t, "RET", nil, 0, nil)
	op, err = vmDecode(word, 0)
	require.NoError(t, err)
	assert.Equal(t, isa.JALR, op.Mnemonic)
	assert.Equal(t, 1, op.Rs1)
	assert.Equal(t, 0, op.Rd)

	// beqz a0, label -> beq a0, zero, label
	symtab := parser.NewSymbolTable()
	require.NoError(t, symtab.Define("done", 20, 1))
	word = encodeMnemonic(t, "BEQZ", []string{"a0", "done"}, 0, symtab)
	op, err = vmDecode(word, 0)
	require.NoError(t, err)
	assert.Equal(t, isa.BEQ, op.Mnemonic)
	assert.Equal(t, 0, op.Rs2)
}

func TestParseImmediateForms(t *testing.T) {
	cases := map[string]int64{
		"10":    10,
		"-10":   -10,
		"0x1F":  31,
		"010":   8,
		"+5":    5,
	}
	for text, want := range cases {
		got, err := ParseImmediate(text, nil)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseMemOperand(t *testing.T) {
	mem, err := ParseMemOperand("-4(sp)", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(-4), mem.Imm)
	assert.Equal(t, 2, mem.Reg)

	mem, err = ParseMemOperand("(a0)", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), mem.Imm)
	assert.Equal(t, 10, mem.Reg)

	_, err = ParseMemOperand("garbage", nil)
	assert.Error(t, err)
}
