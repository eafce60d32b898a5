// Package es5box is the public facade over a sandboxed, step-wise ES5
// interpreter: construct an Interpreter from source (or an already
// parsed AST), drive it with Run or Step, and exchange values with the
// host through the bridge helpers.
//
// Value is a plain alias for the interpreted value interface rather
// than a wrapper struct; every concrete case already carries pointer
// identity where it matters (*value.Object for anything with
// properties), so a host never needs a pointer-to-interface to observe
// mutation. See DESIGN.md for the rationale.
package es5box

import (
	"time"

	"github.com/es5box/es5box/internal/interp"
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
)

// Value is any interpreted value: Undefined, Null, Boolean, Number,
// String, or *Object.
type Value = value.Value

// Object is an interpreted object: the property bag and prototype link
// shared by every non-primitive value, function, array, and error.
type Object = value.Object

// Scope is a lexical environment record.
type Scope = scope.Scope

// NativeFunc is a host function invoked synchronously from script.
type NativeFunc = value.NativeFunc

// AsyncFunc is a host function that suspends the interpreter until it
// calls its resume callback.
type AsyncFunc = value.AsyncFunc

// RegexMode selects which regular-expression backend an Interpreter uses.
type RegexMode = interp.RegexMode

const (
	RegexDisabled  = interp.RegexDisabled
	RegexNative    = interp.RegexNative
	RegexSandboxed = interp.RegexSandboxed
)

// Interpreter is a sandboxed ES5 program bound to its own global object,
// step machine, and regex backend.
type Interpreter struct {
	i *interp.Interp
}

// Option configures an Interpreter at construction time.
type Option func(*interp.Config)

// WithInitHook registers a callback run once the global object exists
// but before the program's first statement executes, so a host can
// install native functions and seed globals ahead of script code.
func WithInitHook(fn func(i *Interpreter, global *Value) error) Option {
	return func(cfg *interp.Config) {
		cfg.InitHook = func(ip *interp.Interp) error {
			return fn(&Interpreter{i: ip}, globalValue(ip))
		}
	}
}

// WithRegexMode selects the regular-expression backend: disabled,
// native, or sandboxed.
func WithRegexMode(mode RegexMode) Option {
	return func(cfg *interp.Config) { cfg.RegexMode = mode }
}

// WithRegexTimeout bounds how long a single sandboxed regex Exec call
// may run before it is killed and reported as a timeout. Only
// meaningful with RegexSandboxed.
func WithRegexTimeout(d time.Duration) Option {
	return func(cfg *interp.Config) { cfg.RegexTimeout = d }
}

// WithPolyfillBudget bounds how long a single Step call may spend
// running through library (polyfill) code before yielding back to the
// host, even if the polyfill hasn't finished.
func WithPolyfillBudget(d time.Duration) Option {
	return func(cfg *interp.Config) { cfg.PolyfillBudget = d }
}

// WithPrint exposes a non-standard `print` global that forwards to fn,
// for hosts that want simple script-side diagnostics without wiring a
// full console object themselves.
func WithPrint(fn func(string)) Option {
	return func(cfg *interp.Config) { cfg.Print = fn }
}

func buildConfig(opts []Option) interp.Config {
	var cfg interp.Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// New parses code and returns an Interpreter ready to Run or Step.
func New(code string, opts ...Option) (*Interpreter, error) {
	ip, err := interp.New(code, buildConfig(opts))
	if err != nil {
		return nil, err
	}
	return &Interpreter{i: ip}, nil
}

// NewFromAST builds an Interpreter from an already-parsed program, for
// hosts that want to parse (or cache, or statically inspect) the AST
// themselves before running it.
func NewFromAST(program *ast.Program, opts ...Option) (*Interpreter, error) {
	ip, err := interp.NewFromAST(program, buildConfig(opts))
	if err != nil {
		return nil, err
	}
	return &Interpreter{i: ip}, nil
}

// Run drives the program to completion or until it suspends on an
// async host call; paused reports which.
func (i *Interpreter) Run() (paused bool, err error) {
	return i.i.Run()
}

// Step advances exactly one user-visible statement. more is false once
// the program has terminated.
func (i *Interpreter) Step() (more bool, err error) {
	return i.i.Step()
}

// Value is the result of the last completed top-level expression statement.
func (i *Interpreter) Value() Value {
	return i.i.Value()
}

// GlobalObject is the interpreted global object.
func (i *Interpreter) GlobalObject() *Value {
	v := globalValue(i.i)
	return v
}

func globalValue(ip *interp.Interp) *Value {
	var v Value = ip.GlobalObject()
	return &v
}

// GlobalScope is the top-level lexical scope.
func (i *Interpreter) GlobalScope() *Scope {
	return i.i.GlobalScope()
}

// AppendStatements parses code and runs it against the existing global
// scope, for REPL-style hosts that feed a program in incrementally.
func (i *Interpreter) AppendStatements(code string) error {
	return i.i.AppendStatements(code)
}

// SetProperty sets a named property on an interpreted object, invoking
// a setter trap synchronously when one is installed.
func (i *Interpreter) SetProperty(obj *Value, name string, v Value) error {
	target, err := asObject(obj)
	if err != nil {
		return err
	}
	return i.i.SetProperty(target, name, v)
}

// GetProperty reads a named property off an interpreted object,
// invoking a getter trap synchronously when one is installed.
func (i *Interpreter) GetProperty(obj *Value, name string) (Value, error) {
	target, err := asObject(obj)
	if err != nil {
		return nil, err
	}
	return i.i.GetProperty(target, name)
}

// CreateNativeFunction wraps a Go function as a callable interpreted
// value.
func (i *Interpreter) CreateNativeFunction(name string, fn NativeFunc) *Value {
	var v Value = i.i.CreateNativeFunction(name, fn)
	return &v
}

// CreateAsyncFunction wraps a Go function that suspends the interpreter
// until it calls its resume callback.
func (i *Interpreter) CreateAsyncFunction(name string, fn AsyncFunc) *Value {
	var v Value = i.i.CreateAsyncFunction(name, fn)
	return &v
}

// Resume delivers a pending async call's result (or error) back into
// the interpreter, letting a paused Run/Step continue.
func (i *Interpreter) Resume(v Value, thrown error) {
	i.i.Resume(v, thrown)
}

// NativeToPseudo converts a Go value into its interpreted-object mirror.
func (i *Interpreter) NativeToPseudo(v any) (Value, error) {
	return i.i.NativeToPseudo(v)
}

// PseudoToNative converts an interpreted value back into a plain Go value.
func (i *Interpreter) PseudoToNative(v Value) (any, error) {
	return i.i.PseudoToNative(v)
}

func asObject(v *Value) (*Object, error) {
	if v == nil {
		return nil, errNilValue
	}
	obj, ok := (*v).(*Object)
	if !ok {
		return nil, errNotAnObject
	}
	return obj, nil
}
