package encoder

import (
	"fmt"

	"github.com/arcrv/rv64i-toolchain/isa"
	"github.com/arcrv/rv64i-toolchain/parser"
)

// expanded is one base instruction produced by expanding a pseudo-instruction,
// already resolved to a concrete mnemonic and operand list in base-instruction
// form (register names and raw immediate/label text, same shape the parser
// would have produced directly).
type expanded struct {
	Mnemonic isa.Mnemonic
	Operands []string
}

// expandPseudo rewrites a pseudo-instruction into exactly one base
// instruction per spec.md §4.3 ("each pseudo-instruction expands to exactly
// one base instruction"). Instructions that are already base forms are
// returned as a no-op passthrough by the caller, so this only needs to
// handle the fixed pseudo-instruction set.
func expandPseudo(inst *parser.Instruction) (expanded, bool, error) {
	ops := inst.Operands
	// The lexer uppercases every mnemonic token (parser/lexer.go), pseudo or not.
	switch inst.Mnemonic {
	case "NOP":
		return expanded{Mnemonic: isa.ADDI, Operands: []string{"zero", "zero", "0"}}, true, nil

	case "MV":
		if err := requireOperands(inst, 2); err != nil {
			return expanded{}, false, err
		}
		return expanded{Mnemonic: isa.ADDI, Operands: []string{ops[0], ops[1], "0"}}, true, nil

	case "NOT":
		if err := requireOperands(inst, 2); err != nil {
			return expanded{}, false, err
		}
		return expanded{Mnemonic: isa.XORI, Operands: []string{ops[0], ops[1], "-1"}}, true, nil

	case "NEG":
		if err := requireOperands(inst, 2); err != nil {
			return expanded{}, false, err
		}
		return expanded{Mnemonic: isa.SUB, Operands: []string{ops[0], "zero", ops[1]}}, true, nil

	case "SEQZ":
		if err := requireOperands(inst, 2); err != nil {
			return expanded{}, false, err
		}
		return expanded{Mnemonic: isa.SLTIU, Operands: []string{ops[0], ops[1], "1"}}, true, nil

	case "SNEZ":
		if err := requireOperands(inst, 2); err != nil {
			return expanded{}, false, err
		}
		return expanded{Mnemonic: isa.SLTU, Operands: []string{ops[0], "zero", ops[1]}}, true, nil

	case "SLTZ":
		if err := requireOperands(inst, 2); err != nil {
			return expanded{}, false, err
		}
		return expanded{Mnemonic: isa.SLT, Operands: []string{ops[0], ops[1], "zero"}}, true, nil

	case "SGTZ":
		if err := requireOperands(inst, 2); err != nil {
			return expanded{}, false, err
		}
		return expanded{Mnemonic: isa.SLT, Operands: []string{ops[0], "zero", ops[1]}}, true, nil

	case "J":
		if err := requireOperands(inst, 1); err != nil {
			return expanded{}, false, err
		}
		return expanded{Mnemonic: isa.JAL, Operands: []string{"zero", ops[0]}}, true, nil

	case "JR":
		if err := requireOperands(inst, 1); err != nil {
			return expanded{}, false, err
		}
		return expanded{Mnemonic: isa.JALR, Operands: []string{"zero", "0(" + ops[0] + ")"}}, true, nil

	case "RET":
		if err := requireOperands(inst, 0); err != nil {
			return expanded{}, false, err
		}
		return expanded{Mnemonic: isa.JALR, Operands: []string{"zero", "0(ra)"}}, true, nil

	case "BEQZ":
		return expandBranchZero(inst, isa.BEQ)
	case "BNEZ":
		return expandBranchZero(inst, isa.BNE)
	case "BLEZ":
		return expandBranchZeroSwapped(inst, isa.BGE)
	case "BGEZ":
		return expandBranchZero(inst, isa.BGE)
	case "BLTZ":
		return expandBranchZero(inst, isa.BLT)
	case "BGTZ":
		return expandBranchZeroSwapped(inst, isa.BLT)
	}

	return expanded{}, false, nil
}

func requireOperands(inst *parser.Instruction, n int) error {
	if len(inst.Operands) != n {
		return fmt.Errorf("line %d: %s expects %d operand(s), got %d", inst.Line, inst.Mnemonic, n, len(inst.Operands))
	}
	return nil
}

// expandBranchZero handles beqz/bnez/bgez/bltz rs, label -> OP rs, zero, label.
func expandBranchZero(inst *parser.Instruction, mn isa.Mnemonic) (expanded, bool, error) {
	if err := requireOperands(inst, 2); err != nil {
		return expanded{}, false, err
	}
	return expanded{Mnemonic: mn, Operands: []string{inst.Operands[0], "zero", inst.Operands[1]}}, true, nil
}

// expandBranchZeroSwapped handles blez/bgtz rs, label -> OP zero, rs, label.
func expandBranchZeroSwapped(inst *parser.Instruction, mn isa.Mnemonic) (expanded, bool, error) {
	if err := requireOperands(inst, 2); err != nil {
		return expanded{}, false, err
	}
	return expanded{Mnemonic: mn, Operands: []string{"zero", inst.Operands[0], inst.Operands[1]}}, true, nil
}
