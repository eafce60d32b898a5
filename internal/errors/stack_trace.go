package errors

import (
	"fmt"
	"strings"

	"github.com/robertkrimen/otto/file"
)

// StackFrame is a single frame in an interpreted call stack: the
// function being executed and its call-site position, used to build an
// Error object's non-standard `stack` property.
type StackFrame struct {
	Position     *file.Position
	FunctionName string
	FileName     string
}

// String formats a frame as "FunctionName [line: N, column: M]"; with no
// position it prints just the function name (the program's top level, or
// a native call with no interpreted call site).
func (sf StackFrame) String() string {
	if sf.Position == nil {
		return sf.FunctionName
	}
	return fmt.Sprintf("%s [line: %d, column: %d]",
		sf.FunctionName, sf.Position.Line, sf.Position.Column)
}

// StackTrace is a complete call stack, ordered oldest (bottom) to newest
// (top).
type StackTrace []StackFrame

// String prints the trace newest-frame-first, one per line, matching how
// a thrown Error's `stack` property reads.
func (st StackTrace) String() string {
	if len(st) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := len(st) - 1; i >= 0; i-- {
		sb.WriteString(st[i].String())
		if i > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Top returns the most recent frame, or nil if empty.
func (st StackTrace) Top() *StackFrame {
	if len(st) == 0 {
		return nil
	}
	return &st[len(st)-1]
}

// Depth returns the number of frames in the stack.
func (st StackTrace) Depth() int {
	return len(st)
}

// NewStackFrame creates a new stack frame.
func NewStackFrame(functionName, fileName string, position *file.Position) StackFrame {
	return StackFrame{FunctionName: functionName, FileName: fileName, Position: position}
}

// NewStackTrace creates a new empty stack trace.
func NewStackTrace() StackTrace {
	return make(StackTrace, 0)
}
