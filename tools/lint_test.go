package tools

import (
	"strings"
	"testing"
)

func TestLint_UndefinedLabel(t *testing.T) {
	source := ".text\nADDI a0, zero, 10\nJAL zero, undefined_label"

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source)

	foundError := false
	for _, issue := range issues {
		if issue.Code == "UNDEF_LABEL" && strings.Contains(issue.Message, "undefined_label") {
			foundError = true
			if issue.Level != LintError {
				t.Errorf("Expected error level, got %v", issue.Level)
			}
		}
	}

	if !foundError {
		t.Error("Expected undefined label error")
	}
}

func TestLint_DuplicateLabel(t *testing.T) {
	source := ".text\nloop: ADDI a0, zero, 10\nloop: ADDI a0, a0, 1"

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source)

	foundIssue := false
	for _, issue := range issues {
		if issue.Code == "PARSE_ERROR" {
			foundIssue = true
		}
	}

	if !foundIssue {
		t.Error("Expected duplicate label to surface as a parse error, since spec.md treats it as hard-fatal")
	}
}

func TestLint_UnusedLabel(t *testing.T) {
	source := ".text\n_start: ADDI a0, zero, 10\nunused_label: ADDI t0, zero, 1"

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source)

	foundUnused := false
	for _, issue := range issues {
		if issue.Code == "UNUSED_LABEL" && strings.Contains(issue.Message, "unused_label") {
			foundUnused = true
		}
		if issue.Code == "UNUSED_LABEL" && strings.Contains(issue.Message, "_start") {
			t.Error("_start is a conventional entry point and should not be flagged unused")
		}
	}

	if !foundUnused {
		t.Error("Expected unused_label to be flagged")
	}
}

func TestLint_UsedLabelNotFlagged(t *testing.T) {
	source := ".text\nloop: ADDI a0, a0, -1\nBNEZ a0, loop"

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source)

	for _, issue := range issues {
		if issue.Code == "UNUSED_LABEL" {
			t.Errorf("loop is referenced by BNEZ and should not be flagged unused, got: %v", issue)
		}
	}
}

func TestLint_UnreachableCode(t *testing.T) {
	source := ".text\nJ done\nADDI a0, zero, 1\ndone: ADDI a0, zero, 2"

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source)

	foundUnreachable := false
	for _, issue := range issues {
		if issue.Code == "UNREACHABLE_CODE" {
			foundUnreachable = true
		}
	}

	if !foundUnreachable {
		t.Error("Expected unreachable code warning after unconditional jump")
	}
}

func TestLint_ReachableAfterLabel(t *testing.T) {
	source := ".text\nJ target\ntarget: ADDI a0, zero, 1"

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source)

	for _, issue := range issues {
		if issue.Code == "UNREACHABLE_CODE" {
			t.Errorf("instruction with its own label is a valid jump target, should not be unreachable: %v", issue)
		}
	}
}

func TestLint_WriteToZero(t *testing.T) {
	source := ".text\nADDI zero, a0, 1"

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source)

	found := false
	for _, issue := range issues {
		if issue.Code == "WRITE_TO_ZERO" {
			found = true
		}
	}

	if !found {
		t.Error("Expected WRITE_TO_ZERO warning for ADDI with rd=zero")
	}
}

func TestLint_InvalidDirective(t *testing.T) {
	source := ".data\nempty: .word"

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source)

	found := false
	for _, issue := range issues {
		if issue.Code == "INVALID_DIRECTIVE" {
			found = true
		}
	}

	if !found {
		t.Error("Expected INVALID_DIRECTIVE for .word with no arguments")
	}
}

func TestLint_CleanProgramHasNoErrors(t *testing.T) {
	source := ".text\n_start:\nADDI a0, zero, 5\nJAL ra, fact\nJ done\nfact: ADDI t0, zero, 1\nRET\ndone: ADDI zero, zero, 0"

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source)

	for _, issue := range issues {
		if issue.Level == LintError {
			t.Errorf("Unexpected lint error in well-formed program: %v", issue)
		}
	}
}
