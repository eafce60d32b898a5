// Package interp is the engine-private facade over the step machine: it
// wires an evaluator.Evaluator to a global scope, owns the parse step,
// and exposes the host-facing operations (Run, Step, property access,
// native function registration) that pkg/es5box re-exports with
// functional options. Kept separate from pkg/es5box so the public API
// surface can stay small while this package is free to grow internal
// plumbing.
package interp

import (
	"fmt"
	"time"

	"github.com/es5box/es5box/internal/bridge"
	"github.com/es5box/es5box/internal/errors"
	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/global"
	"github.com/es5box/es5box/internal/jsregexp"
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
	"github.com/robertkrimen/otto/parser"
)

// RegexMode selects which jsregexp.Backend backs regular expressions.
type RegexMode int

const (
	// RegexDisabled is Mode 0: every regex-consuming operation fails.
	RegexDisabled RegexMode = iota
	// RegexNative is Mode 1: regexes run directly against Go's RE2 engine.
	RegexNative
	// RegexSandboxed is Mode 2: each Exec runs in an isolated, timeout-bound VM.
	RegexSandboxed
)

// Config collects the construction-time options a host can set through
// pkg/es5box's functional options.
type Config struct {
	RegexMode      RegexMode
	RegexTimeout   time.Duration
	PolyfillBudget time.Duration
	Print          func(string)
	InitHook       func(i *Interp) error
}

// Interp is the running interpreter: an evaluator bound to a global
// scope, plus the regex backend and bridge prototypes a host needs to
// move values across the native/interpreted boundary.
type Interp struct {
	ev     *evaluator.Evaluator
	global *scope.Scope
	protos bridge.Protos
}

func (c Config) regexpBackend() jsregexp.Backend {
	timeout := c.RegexTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	switch c.RegexMode {
	case RegexNative:
		return jsregexp.NewNativeBackend()
	case RegexSandboxed:
		return jsregexp.NewSandboxedBackend(timeout)
	default:
		return jsregexp.NewDisabledBackend()
	}
}

func newInterp(cfg Config) *Interp {
	ev := evaluator.New()
	if cfg.PolyfillBudget > 0 {
		ev.PolyfillBudget = cfg.PolyfillBudget
	}
	sc := global.Install(ev, global.Options{
		Regexp: cfg.regexpBackend(),
		Print:  cfg.Print,
	})
	return &Interp{
		ev:     ev,
		global: sc,
		protos: bridge.Protos{Object: ev.ObjectProto, Array: ev.ArrayProto},
	}
}

// New parses code and constructs an Interp ready to Run or Step.
func New(code string, cfg Config) (*Interp, error) {
	program, err := parser.ParseFile(nil, "<script>", code, 0)
	if err != nil {
		return nil, parseError(err, code)
	}
	return NewFromAST(program, cfg)
}

// NewFromAST constructs an Interp from an already-parsed program, for
// hosts that parse (and perhaps cache or inspect) the AST themselves.
func NewFromAST(program *ast.Program, cfg Config) (*Interp, error) {
	i := newInterp(cfg)
	if cfg.InitHook != nil {
		if err := cfg.InitHook(i); err != nil {
			return nil, err
		}
	}
	i.ev.PushProgram(program, i.global)
	return i, nil
}

func parseError(err error, source string) error {
	errs := errors.FromOttoErrors(err, source, "<script>")
	return fmt.Errorf("%s", errors.FormatErrors(errs, false))
}

// Run drives the program to completion or until it pauses on an async
// callback (reports paused=true in that case).
func (i *Interp) Run() (paused bool, err error) {
	return i.ev.Run()
}

// Step advances exactly one user-visible statement. more is false once
// the program has terminated.
func (i *Interp) Step() (more bool, err error) {
	return i.ev.Step()
}

// Value is the result of the last completed top-level expression
// statement.
func (i *Interp) Value() value.Value {
	return i.ev.LastValue()
}

// GlobalObject is the interpreted global object backing the top-level scope.
func (i *Interp) GlobalObject() *value.Object {
	return i.global.Global()
}

// GlobalScope is the top-level lexical scope, for hosts that want to
// evaluate further statements into it (e.g. a REPL).
func (i *Interp) GlobalScope() *scope.Scope {
	return i.global
}

// AppendStatements extends the running program with more source,
// parsed against the same global scope, for REPL-style hosts.
func (i *Interp) AppendStatements(code string) error {
	program, err := parser.ParseFile(nil, "<script>", code, 0)
	if err != nil {
		return parseError(err, code)
	}
	i.ev.AppendStatements(program.Body)
	return nil
}

// SetProperty sets a named property on an interpreted object, invoking
// a setter trap synchronously via CallSync when one is installed — the
// host-facing counterpart to the evaluator's own in-stack accessor
// re-entry, since host calls happen outside the step machine entirely.
func (i *Interp) SetProperty(obj *value.Object, name string, v value.Value) error {
	outcome, err := value.SetProperty(obj, name, v, false)
	if err != nil {
		return i.wrapThrown(err)
	}
	if outcome.Accessor != nil {
		_, err := i.ev.CallSync(outcome.Accessor.Fn, outcome.Accessor.This, outcome.Accessor.Args)
		if err != nil {
			return i.wrapThrown(err)
		}
	}
	return nil
}

// GetProperty reads a named property off an interpreted object,
// invoking a getter trap synchronously via CallSync when one is
// installed.
func (i *Interp) GetProperty(obj *value.Object, name string) (value.Value, error) {
	result, err := value.GetProperty(obj, name)
	if err != nil {
		return nil, i.wrapThrown(err)
	}
	if result.Accessor != nil {
		v, err := i.ev.CallSync(result.Accessor.Fn, result.Accessor.This, result.Accessor.Args)
		if err != nil {
			return nil, i.wrapThrown(err)
		}
		return v, nil
	}
	return result.Value, nil
}

// CreateNativeFunction wraps a Go function as a callable interpreted
// value chained to the real Function.prototype, invocable synchronously
// from script.
func (i *Interp) CreateNativeFunction(name string, fn value.NativeFunc) *value.Object {
	return bridge.NewNativeFunction(i.ev.FunctionProto, name, 0, fn)
}

// CreateAsyncFunction wraps a Go function that resumes the interpreter
// later via the supplied callback, suspending the step machine (Run/Step
// report paused=true) until resume is called.
func (i *Interp) CreateAsyncFunction(name string, fn value.AsyncFunc) *value.Object {
	return bridge.NewAsyncFunction(i.ev.FunctionProto, name, 0, fn)
}

// Resume delivers an async callback's result (or error) back into the
// paused evaluator.
func (i *Interp) Resume(v value.Value, thrown error) {
	i.ev.Resume(v, thrown)
}

// NativeToPseudo converts a Go value into its interpreted-object
// mirror, chaining array/object results to the real prototypes so they
// behave like any other interpreted value.
func (i *Interp) NativeToPseudo(v any) (value.Value, error) {
	return bridge.NativeToPseudo(i.protos, v)
}

// PseudoToNative converts an interpreted value back into a plain Go
// value (map[string]any / []any / primitives), rejecting callables.
func (i *Interp) PseudoToNative(v value.Value) (any, error) {
	return bridge.PseudoToNative(v)
}

// PseudoToNativeDescriptors is PseudoToNative's descriptor-preserving
// counterpart: object properties convert to bridge.PropertyDescriptor
// instead of a flattened map[string]any, for a host that needs to know
// whether a property was read-only or non-enumerable. Kept off
// pkg/es5box's minimal public surface for now; promote it to a method
// there if a real caller needs descriptor fidelity.
func (i *Interp) PseudoToNativeDescriptors(v value.Value) (any, error) {
	return bridge.PseudoToNativeDescriptors(v)
}

func (i *Interp) wrapThrown(err error) error {
	if _, ok := err.(*evaluator.ThrownValue); ok {
		return err
	}
	if pe, ok := err.(*value.PropertyError); ok {
		if i.ev.MakeError != nil {
			return &evaluator.ThrownValue{Value: i.ev.MakeError(pe.Kind, pe.Message)}
		}
	}
	return err
}
