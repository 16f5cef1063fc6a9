package vm

// CallFrame is one entry in the simulator-owned call stack (spec.md §3).
// The bottom frame is always named "main" and is never popped.
type CallFrame struct {
	FunctionName string
	Line         int
}

// CallStack infers calls and returns from JAL/JALR link-register conventions
// (spec.md §4.7, C10). It is owned exclusively by the VM/debugger session;
// Execute calls into it via hooks rather than importing the debugger package,
// mirroring the teacher's ExecutionTrace/MemoryTrace hook pattern on VM.
type CallStack struct {
	frames []CallFrame

	// ResolveLabel maps a target address to a label name, if known. Optional;
	// when nil or it returns ("", false) pushed frames are named function_<pc>.
	ResolveLabel func(addr uint64) (string, bool)
}

// NewCallStack creates a call stack with the mandatory bottom "main" frame.
func NewCallStack() *CallStack {
	return &CallStack{frames: []CallFrame{{FunctionName: "main"}}}
}

// Reset restores the call stack to just the bottom "main" frame.
func (c *CallStack) Reset() {
	c.frames = []CallFrame{{FunctionName: "main"}}
}

// Push adds a new frame for a call to target, named after its label if known.
func (c *CallStack) Push(target uint64) {
	name := ""
	if c.ResolveLabel != nil {
		if n, ok := c.ResolveLabel(target); ok {
			name = n
		}
	}
	if name == "" {
		name = functionPlaceholderName(target)
	}
	c.frames = append(c.frames, CallFrame{FunctionName: name})
}

// Pop removes the top frame, unless it is the bottom "main" frame.
func (c *CallStack) Pop() {
	if len(c.frames) > 1 {
		c.frames = c.frames[:len(c.frames)-1]
	}
}

// SetLine updates the line number recorded against the top frame.
func (c *CallStack) SetLine(line int) {
	if len(c.frames) == 0 {
		return
	}
	c.frames[len(c.frames)-1].Line = line
}

// Frames returns the current stack, bottom-to-top.
func (c *CallStack) Frames() []CallFrame {
	out := make([]CallFrame, len(c.frames))
	copy(out, c.frames)
	return out
}

func functionPlaceholderName(addr uint64) string {
	return "function_" + hex64(addr)
}

func hex64(v uint64) string {
	const digits = "0123456789abcdef"
	if v == 0 {
		return "0"
	}
	buf := make([]byte, 0, 16)
	for v > 0 {
		buf = append([]byte{digits[v&0xF]}, buf...)
		v >>= 4
	}
	return string(buf)
}

// trackCall is invoked by the JAL/JALR execute handlers. A JAL/JALR with
// rd in {1 (ra), 5 (t0)} — the link registers — pushes a frame. A JALR
// matching the canonical "ret" shape (rd=0, rs1=ra, imm=0) pops one.
func (m *VM) trackCall(rd int, target, linkValue uint64) {
	if m.CallStack == nil {
		return
	}
	if rd == 1 || rd == 5 {
		m.CallStack.Push(target)
	}
}

// trackReturn is invoked whenever a JALR is executed with the canonical
// ret encoding (rd=0, rs1=ra/x1, imm=0), per spec.md §4.7.
func (m *VM) trackReturn(rd, rs1 int, imm int64) {
	if m.CallStack == nil {
		return
	}
	if rd == 0 && rs1 == 1 && imm == 0 {
		m.CallStack.Pop()
	}
}
