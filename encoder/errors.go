package encoder

import "fmt"

// RangeError reports an immediate literal outside its format's signed/unsigned window (spec.md §7).
type RangeError struct {
	Value int64
	Min   int64
	Max   int64
	What  string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s value %d out of range [%d, %d]", e.What, e.Value, e.Min, e.Max)
}

// SyntaxError reports a malformed instruction: wrong operand count, missing
// parens in a memory operand, or an unknown mnemonic (spec.md §7).
type SyntaxError struct {
	Detail string
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Detail
}
