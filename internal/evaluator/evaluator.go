// Package evaluator implements the state-stack machine that is the
// interpreter's core: a per-AST-node-kind step function walks the
// parsed program one small step at a time, suspending and resuming
// through an explicit Stack instead of the Go call stack, so that
// getter/setter re-entry and asynchronous native calls can interleave
// with ordinary evaluation.
package evaluator

import (
	"fmt"
	"time"

	"github.com/es5box/es5box/internal/jsregexp"
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
)

// RegexpFactory materializes a compiled regular expression value (class
// "RegExp", Data holding the backend handle) from a literal or the
// RegExp constructor. It is supplied by internal/global, which owns the
// RegExp prototype and constructor.
type RegexpFactory func(pattern, flags string) (*value.Object, error)

// Evaluator is the step-wise machine. It owns the Stack of the program
// it runs, the async call it is paused on, and the value passed from a
// finished frame to its parent; scopes and objects live outside it.
type Evaluator struct {
	Stack *Stack

	// MakeError allocates an interpreted Error instance of the named
	// constructor (TypeError, RangeError, ReferenceError, ...) — owned by
	// internal/global, injected here to avoid an import cycle.
	MakeError func(kind, message string) value.Value

	// Regexp is the isolation backend for the five regex-consuming
	// operations. Calls that need async delivery use Resume.
	Regexp jsregexp.Backend

	// NewRegexp constructs a RegExp-classed object from a literal.
	NewRegexp RegexpFactory

	// Prototype objects installed by internal/global, consulted when the
	// evaluator itself allocates an object (function closures, array and
	// object literals) so the result chains to the right built-in methods,
	// and, for String/Number/Boolean, when a method is called on a
	// primitive (`"abc".slice(1)`).
	ObjectProto   *value.Object
	FunctionProto *value.Object
	ArrayProto    *value.Object
	StringProto   *value.Object
	NumberProto   *value.Object
	BooleanProto  *value.Object

	// Now returns the current time; overridable for deterministic tests
	// of the pacing algorithm.
	Now func() time.Time

	// PolyfillBudget bounds how long a single Step() call may spend
	// running through polyfill-flagged frames before yielding control
	// back to the host, even if the polyfill hasn't finished.
	PolyfillBudget time.Duration

	// suspended holds the frame waiting on an async native call, and the
	// callback that resumes it, while the interpreter is paused.
	suspended *suspendedCall

	// lastChildValue threads a just-completed child frame's result into
	// the next microStep call on its parent.
	lastChildValue value.Value
}

type suspendedCall struct {
	frame *Frame
}

// ThrownValue wraps an interpreted value being thrown, letting Go's error
// return convention carry it through helper functions that are not
// themselves step functions (e.g. property access helpers).
type ThrownValue struct {
	Value value.Value
}

func (t *ThrownValue) Error() string {
	return fmt.Sprintf("uncaught interpreted exception: %s", value.ToPrimitiveString(t.Value))
}

// New creates an Evaluator. Regexp and MakeError must be set by the
// caller (internal/interp wiring) before Run/Step is first invoked.
func New() *Evaluator {
	return &Evaluator{
		Stack:          NewStack(),
		Now:            time.Now,
		PolyfillBudget: 5 * time.Millisecond,
	}
}

// Paused reports whether the evaluator is waiting on an async native call.
func (ev *Evaluator) Paused() bool { return ev.suspended != nil }

// Resume delivers an async callback's result into the suspended frame
// and clears the pause latch.
func (ev *Evaluator) Resume(v value.Value, thrown error) {
	if ev.suspended == nil {
		return
	}
	frame := ev.suspended.frame
	ev.suspended = nil
	cs, ok := frame.State.(*callFrameState)
	if !ok {
		return
	}
	if thrown != nil {
		if tv, ok := thrown.(*ThrownValue); ok {
			cs.asyncThrow = tv.Value
		} else {
			cs.asyncThrow = ev.throwHost(thrown)
		}
		return
	}
	cs.asyncResult = v
	cs.asyncDone = true
}

func (ev *Evaluator) throwHost(err error) value.Value {
	if ev.MakeError == nil {
		return value.String(err.Error())
	}
	switch e := err.(type) {
	case *ThrownValue:
		return e.Value
	case *value.PropertyError:
		return ev.MakeError(e.Kind, e.Message)
	case *scope.ReferenceError:
		return ev.MakeError("ReferenceError", e.Name+" is not defined")
	case *scope.AssignError:
		return ev.MakeError("ReferenceError", e.Name+" is not defined")
	default:
		return ev.MakeError("Error", err.Error())
	}
}

// PushProgram seeds the stack with the program's top-level frame, after
// running the global hoisting pass (var bindings and function
// declarations) the way a real top-level script evaluation does.
func (ev *Evaluator) PushProgram(prog *ast.Program, sc *scope.Scope) {
	hoistVars(sc, prog.Body)
	hoistFunctionDecls(ev, sc, prog.Body)
	f := NewFrame(prog, sc, &programState{stmts: prog.Body})
	ev.Stack.Push(f)
}

// AppendStatements extends an already-completed program frame with more
// statements: the program's frame is kept on the stack after completion
// so further appended code can execute against it, used by `eval` at
// global scope and by REPL-style hosts that call Run repeatedly.
func (ev *Evaluator) AppendStatements(stmts []ast.Statement) {
	for _, f := range ev.Stack.frames {
		if ps, ok := f.State.(*programState); ok && f.ProgramDone {
			ps.stmts = append(ps.stmts, stmts...)
			ps.done = false
			f.ProgramDone = false
			return
		}
	}
}

// LastValue is the value of the last completed expression statement,
// exposed to the host as Interpreter.Value.
func (ev *Evaluator) LastValue() value.Value {
	for _, f := range ev.Stack.frames {
		if ps, ok := f.State.(*programState); ok {
			return ps.lastValue
		}
	}
	return value.Undef
}

// Step advances one user-visible statement, running through any number
// of polyfill micro-steps invisibly, up to PolyfillBudget.
// It returns false once the program has terminated.
func (ev *Evaluator) Step() (bool, error) {
	if ev.Stack.Empty() {
		return false, nil
	}
	if ev.Paused() {
		return true, nil
	}

	deadline := ev.Now().Add(ev.PolyfillBudget)
	for {
		more, err := ev.microStep()
		if err != nil {
			return false, err
		}
		if !more {
			return false, nil
		}
		if ev.Paused() {
			return true, nil
		}
		top := ev.Stack.Top()
		if top == nil {
			return false, nil
		}
		if !top.Polyfill {
			return true, nil
		}
		if ev.Now().After(deadline) {
			return true, nil
		}
	}
}

// Run drives Step to completion or until the evaluator pauses for an
// async callback.
func (ev *Evaluator) Run() (bool, error) {
	for {
		more, err := ev.Step()
		if err != nil {
			return false, err
		}
		if !more {
			return false, nil
		}
		if ev.Paused() {
			return true, nil
		}
	}
}

// CallSync invokes fn synchronously to completion on a fresh, isolated
// stack, driving the same step machine Run uses but without touching the
// caller's in-progress Stack. This is what lets a native builtin (most
// notably Function.prototype.call/apply/bind) invoke an interpreted
// callback and get its result back within a single synchronous Go call,
// the same trick toPrimitive cannot afford for interpreted valueOf/
// toString because operators run on the hot path of every step.
// Async-backed functions cannot be driven this way (there is no step
// machine return path for a pending Resume without unwinding back to the
// host), so CallSync rejects them.
func (ev *Evaluator) CallSync(fn *value.Object, this value.Value, args []value.Value) (value.Value, error) {
	if fn != nil && fn.Async != nil {
		return nil, fmt.Errorf("evaluator: CallSync cannot invoke an async-backed function")
	}
	savedStack, savedChild := ev.Stack, ev.lastChildValue
	ev.Stack = NewStack()
	ev.lastChildValue = nil
	ev.Stack.Push(NewFrame(nil, nil, &invokeState{fn: fn, this: this, args: args}))

	var result value.Value = value.Undef
	var thrown error
	for {
		more, err := ev.microStep()
		if err != nil {
			thrown = err
			break
		}
		if !more {
			result = ev.lastChildValue
			break
		}
	}

	ev.Stack, ev.lastChildValue = savedStack, savedChild
	if thrown != nil {
		return nil, thrown
	}
	if result == nil {
		result = value.Undef
	}
	return result, nil
}

// EvalSync evaluates a single expression or statement node to completion
// on an isolated stack, the same way CallSync drives a function call.
// internal/global uses this to implement the Function constructor,
// which must compile and immediately evaluate a FunctionLiteral built
// from the constructor's string arguments.
func (ev *Evaluator) EvalSync(node ast.Node, sc *scope.Scope) (value.Value, error) {
	savedStack, savedChild := ev.Stack, ev.lastChildValue
	ev.Stack = NewStack()
	ev.lastChildValue = nil
	ev.Stack.Push(newFrame(node, sc))

	var result value.Value = value.Undef
	var thrown error
	for {
		more, err := ev.microStep()
		if err != nil {
			thrown = err
			break
		}
		if !more {
			result = ev.lastChildValue
			break
		}
	}

	ev.Stack, ev.lastChildValue = savedStack, savedChild
	if thrown != nil {
		return nil, thrown
	}
	if result == nil {
		result = value.Undef
	}
	return result, nil
}

// microStep performs exactly one Advance call on the top frame,
// threading the last child value through, and applies the resulting
// Outcome to the stack.
func (ev *Evaluator) microStep() (bool, error) {
	top := ev.Stack.Top()
	if top == nil {
		return false, nil
	}

	outcome := top.State.Advance(ev, top, ev.lastChildValue)
	ev.lastChildValue = nil

	if outcome.Push != nil {
		if top.Polyfill {
			outcome.Push.Polyfill = true
		}
		ev.Stack.Push(outcome.Push)
		return true, nil
	}

	if !outcome.Done {
		// Advance asked to be called again without pushing or finishing
		// (used by async suspension): leave the frame in place.
		return true, nil
	}

	if outcome.Completion != nil && outcome.Completion.Type != Normal {
		handler, unresolved := ev.Stack.Unwind(*outcome.Completion)
		if unresolved != nil {
			return false, &ThrownValue{Value: unresolved.Value}
		}
		if handler == nil {
			return false, nil
		}
		return true, nil
	}

	if top.ProgramDone {
		// A top-level program frame survives its own normal completion
		// (see programState) so AppendStatements can resume it later;
		// report termination for this Run/Step without popping it.
		ev.lastChildValue = outcome.Value
		return false, nil
	}

	ev.Stack.Pop()
	ev.lastChildValue = outcome.Value
	if ev.Stack.Empty() {
		return false, nil
	}
	return true, nil
}
