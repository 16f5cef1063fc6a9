package vm_test

import (
	"testing"

	"github.com/arcrv/rv64i-toolchain/encoder"
	"github.com/arcrv/rv64i-toolchain/isa"
	"github.com/arcrv/rv64i-toolchain/loader"
	"github.com/arcrv/rv64i-toolchain/parser"
	"github.com/arcrv/rv64i-toolchain/vm"
)

// factorialSource is a recursive factorial program written against the
// RV64I base alone (no M extension: multiplication is a hand-rolled
// repeated-addition loop, "mul"). This is scenario S5 (spec.md §8):
// "assemble a recursive factorial program; simulate with a0=5; expect
// a0=120 at halt and show-stack to show balanced enter/return."
const factorialSource = `
.text
_start:
	addi sp, sp, -16
	sd ra, 8(sp)
	jal ra, fact
	ld ra, 8(sp)
	addi sp, sp, 16
	jalr zero, 0(ra)
fact:
	addi sp, sp, -32
	sd ra, 24(sp)
	sd a0, 16(sp)
	addi t0, zero, 2
	blt a0, t0, fact_base
	addi a0, a0, -1
	jal ra, fact
	ld t1, 16(sp)
	jal ra, mul
	ld ra, 24(sp)
	addi sp, sp, 32
	jalr zero, 0(ra)
fact_base:
	addi a0, zero, 1
	ld ra, 24(sp)
	addi sp, sp, 32
	jalr zero, 0(ra)
mul:
	addi t2, zero, 0
mul_loop:
	beq a0, zero, mul_done
	add t2, t2, t1
	addi a0, a0, -1
	j mul_loop
mul_done:
	addi a0, t2, 0
	jalr zero, 0(ra)
`

func assembleAndLoad(t *testing.T, source string) *vm.VM {
	t.Helper()

	program, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	machine := vm.NewVM()
	for _, inst := range program.Instructions {
		word, err := encoder.Encode(inst, inst.Address, program.SymbolTable)
		if err != nil {
			t.Fatalf("encode error at line %d: %v", inst.Line, err)
		}
		if err := machine.Memory.Write32(inst.Address, word); err != nil {
			t.Fatalf("write error at 0x%X: %v", inst.Address, err)
		}
	}
	if err := loader.LoadData(machine, program); err != nil {
		t.Fatalf("load data error: %v", err)
	}

	machine.CallStack = vm.NewCallStack()
	symtab := program.SymbolTable
	machine.CallStack.ResolveLabel = func(addr uint64) (string, bool) {
		for _, sym := range symtab.All() {
			if sym.Address == addr {
				return sym.Name, true
			}
		}
		return "", false
	}

	machine.InitializeStack(isa.StackTop)
	machine.Start(isa.TextStart, isa.HaltAddress)
	return machine
}

func TestFactorialEndToEnd(t *testing.T) {
	machine := assembleAndLoad(t, factorialSource)
	machine.Regs.Write(isa.MustResolve("a0"), 5)

	if err := machine.Run(); err != nil {
		t.Fatalf("run error: %v (state=%s)", err, machine.DumpState())
	}
	if machine.State != vm.StateFinished {
		t.Fatalf("expected StateFinished, got %v", machine.State)
	}

	got := machine.Regs.Read(isa.MustResolve("a0"))
	if got != 120 {
		t.Errorf("expected a0=120 (5!), got %d", got)
	}

	frames := machine.CallStack.Frames()
	if len(frames) != 1 || frames[0].FunctionName != "main" {
		t.Errorf("expected a balanced call stack with only the bottom main frame left, got %+v", frames)
	}
}

func TestFactorialZeroAndOne(t *testing.T) {
	for n, want := range map[uint64]uint64{0: 1, 1: 1, 2: 2, 3: 6} {
		machine := assembleAndLoad(t, factorialSource)
		machine.Regs.Write(isa.MustResolve("a0"), n)

		if err := machine.Run(); err != nil {
			t.Fatalf("n=%d: run error: %v", n, err)
		}
		got := machine.Regs.Read(isa.MustResolve("a0"))
		if got != want {
			t.Errorf("n=%d: expected a0=%d, got %d", n, want, got)
		}
	}
}
