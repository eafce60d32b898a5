// Package evaluator_test exercises the step machine through the public
// Evaluator API against a fully wired global object, rather than unit
// testing individual frame types in isolation. It lives in an external
// test package because internal/global itself depends on
// internal/evaluator; wiring a real global object from inside the
// evaluator package's own tests would be an import cycle.
package evaluator_test

import (
	"testing"

	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/global"
	"github.com/es5box/es5box/internal/jsregexp"
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/parser"
)

// newTestEvaluator builds an Evaluator with a fully wired global object
// and its root scope, the same way internal/interp does for a real
// Interpreter, so these tests exercise the step machine against real
// prototypes and builtins rather than a stub.
func newTestEvaluator(t *testing.T) (*evaluator.Evaluator, *scope.Scope) {
	t.Helper()
	ev := evaluator.New()
	sc := global.Install(ev, global.Options{Regexp: jsregexp.NewNativeBackend()})
	return ev, sc
}

// testEval parses source as a full program, drives it to completion on
// a fresh evaluator, and returns the value of the last expression
// statement.
func testEval(t *testing.T, source string) value.Value {
	t.Helper()
	ev, sc := newTestEvaluator(t)
	program, err := parser.ParseFile(nil, "<test>", source, 0)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	ev.PushProgram(program, sc)
	if _, err := ev.Run(); err != nil {
		t.Fatalf("run error: %v", err)
	}
	return ev.LastValue()
}

// testEvalErr is like testEval but expects Run to fail, returning the
// thrown value's display string.
func testEvalErr(t *testing.T, source string) string {
	t.Helper()
	ev, sc := newTestEvaluator(t)
	program, err := parser.ParseFile(nil, "<test>", source, 0)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	ev.PushProgram(program, sc)
	_, err = ev.Run()
	if err == nil {
		t.Fatalf("expected run error, got none")
	}
	if tv, ok := err.(*evaluator.ThrownValue); ok {
		return value.ToPrimitiveString(tv.Value)
	}
	return err.Error()
}

func expectNumber(t *testing.T, v value.Value, want float64) {
	t.Helper()
	n, ok := v.(value.Number)
	if !ok {
		t.Fatalf("expected Number, got %T (%v)", v, v)
	}
	if float64(n) != want {
		t.Errorf("expected %v, got %v", want, float64(n))
	}
}

func expectString(t *testing.T, v value.Value, want string) {
	t.Helper()
	s, ok := v.(value.String)
	if !ok {
		t.Fatalf("expected String, got %T (%v)", v, v)
	}
	if string(s) != want {
		t.Errorf("expected %q, got %q", want, string(s))
	}
}

func expectBool(t *testing.T, v value.Value, want bool) {
	t.Helper()
	b, ok := v.(value.Boolean)
	if !ok {
		t.Fatalf("expected Boolean, got %T (%v)", v, v)
	}
	if bool(b) != want {
		t.Errorf("expected %v, got %v", want, bool(b))
	}
}
