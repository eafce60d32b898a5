package errors

import (
	"testing"

	"github.com/robertkrimen/otto/file"
)

func TestStackFrameString(t *testing.T) {
	pos := &file.Position{Line: 4, Column: 9}
	sf := NewStackFrame("fib", "main.js", pos)
	want := "fib [line: 4, column: 9]"
	if got := sf.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	top := NewStackFrame("<program>", "main.js", nil)
	if got := top.String(); got != "<program>" {
		t.Fatalf("String() with nil position = %q, want %q", got, "<program>")
	}
}

func TestStackTraceOrdering(t *testing.T) {
	st := NewStackTrace()
	st = append(st, NewStackFrame("<program>", "main.js", nil))
	st = append(st, NewStackFrame("outer", "main.js", &file.Position{Line: 2, Column: 1}))
	st = append(st, NewStackFrame("inner", "main.js", &file.Position{Line: 5, Column: 3}))

	if got := st.Depth(); got != 3 {
		t.Fatalf("Depth() = %d, want 3", got)
	}
	if top := st.Top(); top == nil || top.FunctionName != "inner" {
		t.Fatalf("Top() = %+v, want inner frame", top)
	}

	want := "inner [line: 5, column: 3]\nouter [line: 2, column: 1]\n<program>"
	if got := st.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestEmptyStackTrace(t *testing.T) {
	st := NewStackTrace()
	if st.Top() != nil {
		t.Fatalf("Top() on empty trace should be nil")
	}
	if got := st.String(); got != "" {
		t.Fatalf("String() on empty trace = %q, want empty", got)
	}
}
