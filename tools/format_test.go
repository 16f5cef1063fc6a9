package tools

import (
	"strings"
	"testing"
)

func TestFormat_BasicInstruction(t *testing.T) {
	source := ".text\nADDI a0, zero, 10"

	result, err := FormatString(source)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	if !strings.Contains(result, "ADDI") {
		t.Error("Expected ADDI instruction in output")
	}
	if !strings.Contains(result, "a0, zero, 10") {
		t.Errorf("Expected comma-separated operands, got: %s", result)
	}
}

func TestFormat_WithLabel(t *testing.T) {
	source := ".text\nloop: ADDI a0, zero, 10"

	result, err := FormatString(source)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	if !strings.Contains(result, "loop:") {
		t.Error("Expected label with colon")
	}

	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "loop:") {
		t.Errorf("Expected first line to start with label, got: %v", lines)
	}
}

func TestFormat_WithComment(t *testing.T) {
	source := ".text\nADDI a0, zero, 10 ; load 10 into a0"

	result, err := FormatString(source)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	if !strings.Contains(result, "load 10 into a0") {
		t.Error("Expected comment in output")
	}
	if !strings.Contains(result, ";") {
		t.Error("Expected semicolon for comment")
	}
}

func TestFormat_CompactStyle(t *testing.T) {
	source := ".text\nloop: ADDI a0, a0, 1\nADD t0, t0, a0"

	result, err := FormatStringWithStyle(source, FormatCompact)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	if strings.Contains(result, "   ") {
		t.Errorf("Compact style should not introduce wide padding, got: %q", result)
	}
	if !strings.Contains(result, "loop:") {
		t.Error("Expected label preserved under compact style")
	}
}

func TestFormat_ExpandedStyle(t *testing.T) {
	source := ".text\nADD t0, t1, t2"

	result, err := FormatStringWithStyle(source, FormatExpanded)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	if !strings.Contains(result, "ADD") {
		t.Error("Expected ADD instruction in output")
	}
}

func TestFormat_Directive(t *testing.T) {
	source := ".data\ncount: .word 1, 2, 3"

	result, err := FormatString(source)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	if !strings.Contains(result, "count:") {
		t.Error("Expected directive label preserved")
	}
	if !strings.Contains(result, ".word") {
		t.Error("Expected .word directive preserved")
	}
	if !strings.Contains(result, "1, 2, 3") {
		t.Errorf("Expected comma-separated args, got: %s", result)
	}
}

func TestFormat_StandaloneLabel(t *testing.T) {
	source := ".text\nloop:\nADDI a0, a0, 1\nJAL zero, loop"

	result, err := FormatString(source)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	if !strings.Contains(result, "loop:") {
		t.Error("Expected standalone label preserved even with no attached instruction")
	}
}

func TestFormat_RepeatedMnemonicsDoNotError(t *testing.T) {
	source := ".text\nADDI a0, a0, 1\nADDI a0, a0, 1"

	_, err := FormatString(source)
	if err != nil {
		t.Fatalf("well-formed duplicate mnemonics should not error: %v", err)
	}
}

func TestFormat_DuplicateLabelErrors(t *testing.T) {
	source := ".text\nloop: ADDI a0, a0, 1\nloop: ADDI a0, a0, 2"

	_, err := FormatString(source)
	if err == nil {
		t.Error("Expected duplicate label to surface as a format error")
	}
}
