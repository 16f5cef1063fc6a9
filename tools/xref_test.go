package tools

import (
	"strings"
	"testing"
)

func TestXRef_DefinitionRecorded(t *testing.T) {
	source := ".text\nloop: ADDI a0, a0, -1\nBNEZ a0, loop"

	gen := NewXRefGenerator()
	symbols, err := gen.Generate(source)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	sym, ok := symbols["loop"]
	if !ok {
		t.Fatal("expected symbol \"loop\" to be recorded")
	}
	if sym.Definition == nil {
		t.Error("expected loop to have a definition")
	}
	if len(sym.References) != 1 {
		t.Errorf("expected 1 reference to loop, got %d", len(sym.References))
	}
}

func TestXRef_CallDetection(t *testing.T) {
	source := ".text\n_start: JAL ra, fact\nJ done\nfact: ADDI t0, zero, 1\nRET\ndone: ADDI zero, zero, 0"

	gen := NewXRefGenerator()
	symbols, err := gen.Generate(source)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	fact, ok := symbols["fact"]
	if !ok {
		t.Fatal("expected symbol \"fact\"")
	}
	if !fact.IsFunction {
		t.Error("expected fact to be marked as a function, since it is the target of JAL ra, fact")
	}

	done, ok := symbols["done"]
	if !ok {
		t.Fatal("expected symbol \"done\"")
	}
	if done.IsFunction {
		t.Error("done is only targeted by J (rd=zero), should not be marked a function")
	}
}

func TestXRef_DataLabel(t *testing.T) {
	source := ".data\ncount: .word 1, 2, 3\n.text\nADDI a0, zero, 0"

	gen := NewXRefGenerator()
	symbols, err := gen.Generate(source)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	count, ok := symbols["count"]
	if !ok {
		t.Fatal("expected symbol \"count\"")
	}
	if !count.IsDataLabel {
		t.Error("expected count to be marked as a data label")
	}
}

func TestXRef_UndefinedSymbol(t *testing.T) {
	source := ".text\nJAL zero, missing"

	gen := NewXRefGenerator()
	_, err := gen.Generate(source)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	undefined := gen.GetUndefinedSymbols()
	found := false
	for _, sym := range undefined {
		if sym.Name == "missing" {
			found = true
		}
	}
	if !found {
		t.Error("expected missing to be reported as undefined but referenced")
	}
}

func TestXRef_UnusedSymbolExcludesEntryPoint(t *testing.T) {
	source := ".text\n_start: ADDI a0, zero, 1\nunused: ADDI t0, zero, 2"

	gen := NewXRefGenerator()
	_, err := gen.Generate(source)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	unused := gen.GetUnusedSymbols()
	names := make(map[string]bool)
	for _, sym := range unused {
		names[sym.Name] = true
	}
	if !names["unused"] {
		t.Error("expected unused to be reported as unused")
	}
	if names["_start"] {
		t.Error("_start is a conventional entry point and should be excluded from unused symbols")
	}
}

func TestXRef_ReportContainsSummary(t *testing.T) {
	source := ".text\nloop: ADDI a0, a0, -1\nBNEZ a0, loop"

	report, err := GenerateXRef(source)
	if err != nil {
		t.Fatalf("GenerateXRef error: %v", err)
	}

	if !strings.Contains(report, "Summary") {
		t.Error("expected report to contain a Summary section")
	}
	if !strings.Contains(report, "loop") {
		t.Error("expected report to mention loop")
	}
}

func TestXRef_GetFunctionsSorted(t *testing.T) {
	source := ".text\n_start: JAL ra, bravo\nJAL ra, alpha\nJ end\nalpha: RET\nbravo: RET\nend: ADDI zero, zero, 0"

	gen := NewXRefGenerator()
	_, err := gen.Generate(source)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	functions := gen.GetFunctions()
	if len(functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(functions))
	}
	if functions[0].Name != "alpha" || functions[1].Name != "bravo" {
		t.Errorf("expected functions sorted alphabetically, got %v, %v", functions[0].Name, functions[1].Name)
	}
}
