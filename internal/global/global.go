// Package global builds the ES5 global object: Object, Function, Array,
// String, Number, Boolean, Date, RegExp, the Error constructor
// hierarchy, Math, and JSON, plus the non-standard `print` hook. It is
// the sole owner of the prototype objects the evaluator consults when
// allocating closures, array literals, and object literals, and of the
// MakeError/NewRegexp factories the evaluator calls into for exceptions
// and regex literals.
package global

import (
	"math"

	"github.com/es5box/es5box/internal/bridge"
	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/jsregexp"
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
)

// Options configures what Install wires into the global object beyond
// the language-mandated builtins.
type Options struct {
	// Regexp backs the RegExp constructor and literal factory; Install
	// panics if this is nil, since no regex-consuming operation can work
	// without it.
	Regexp jsregexp.Backend

	// Print, if set, is exposed as the non-standard `print` global.
	Print func(string)
}

// protos bundles the nine built-in prototype objects together so builder
// functions don't need nine separate parameters.
type protos struct {
	object   *value.Object
	function *value.Object
	array    *value.Object
	str      *value.Object
	number   *value.Object
	boolean  *value.Object
	errorP   *value.Object
	regexp   *value.Object
	date     *value.Object
}

// Install builds the global object and scope, wires every
// evaluator-consulted field (ObjectProto, FunctionProto, ArrayProto,
// StringProto, NumberProto, BooleanProto, MakeError, Regexp, NewRegexp),
// and returns the root scope a program should run in.
func Install(ev *evaluator.Evaluator, opts Options) *scope.Scope {
	if opts.Regexp == nil {
		panic("global.Install: Options.Regexp must not be nil")
	}

	p := &protos{}
	p.object = value.NewObject(value.NullVal, "Object")
	p.function = value.NewObject(p.object, "Function")
	p.function.Native = func(this value.Value, args []value.Value) (value.Value, error) { return value.Undef, nil }
	p.array = value.NewObject(p.object, "Array")
	p.str = value.NewObject(p.object, "String")
	p.number = value.NewObject(p.object, "Number")
	p.boolean = value.NewObject(p.object, "Boolean")
	p.date = value.NewObject(p.object, "Date")

	ev.ObjectProto = p.object
	ev.FunctionProto = p.function
	ev.ArrayProto = p.array
	ev.StringProto = p.str
	ev.NumberProto = p.number
	ev.BooleanProto = p.boolean
	ev.Regexp = opts.Regexp

	global := value.NewObject(p.object, "Object")
	sc := scope.New(global, false)

	installObjectBuiltins(ev, p, global)
	installFunctionBuiltins(ev, p, global, sc)
	installArrayBuiltins(ev, p, sc)
	installStringBuiltins(ev, p, global)
	installNumberBuiltins(ev, p, global)
	installBooleanBuiltins(ev, p, global)
	installMath(ev, p, global)
	installJSON(ev, p, global)
	installErrors(ev, p, global)
	installDate(ev, p, global)
	installRegexp(ev, p, global, opts.Regexp)

	global.DefineOwn("undefined", &value.PropertySlot{Value: value.Undef, Flags: value.NonConfigurableReadOnlyNonEnumerable})
	global.DefineOwn("NaN", &value.PropertySlot{Value: value.Number(math.NaN()), Flags: value.NonConfigurableReadOnlyNonEnumerable})
	global.DefineOwn("Infinity", &value.PropertySlot{Value: value.Number(math.Inf(1)), Flags: value.NonConfigurableReadOnlyNonEnumerable})

	global.DefineOwn("parseInt", &value.PropertySlot{Value: nf(ev, "parseInt", 2, builtinParseInt), Flags: value.NonEnumerable})
	global.DefineOwn("parseFloat", &value.PropertySlot{Value: nf(ev, "parseFloat", 1, builtinParseFloat), Flags: value.NonEnumerable})
	global.DefineOwn("isNaN", &value.PropertySlot{Value: nf(ev, "isNaN", 1, builtinIsNaN), Flags: value.NonEnumerable})
	global.DefineOwn("isFinite", &value.PropertySlot{Value: nf(ev, "isFinite", 1, builtinIsFinite), Flags: value.NonEnumerable})
	global.DefineOwn("encodeURIComponent", &value.PropertySlot{Value: nf(ev, "encodeURIComponent", 1, builtinEncodeURIComponent), Flags: value.NonEnumerable})
	global.DefineOwn("decodeURIComponent", &value.PropertySlot{Value: nf(ev, "decodeURIComponent", 1, builtinDecodeURIComponent), Flags: value.NonEnumerable})

	if opts.Print != nil {
		printFn := opts.Print
		global.DefineOwn("print", &value.PropertySlot{
			Value: nf(ev, "print", 1, func(this value.Value, args []value.Value) (value.Value, error) {
				printFn(joinArgsAsString(ev, args))
				return value.Undef, nil
			}),
			Flags: value.NonEnumerable,
		})
	}

	installPolyfills(ev, sc)

	return sc
}

// nf is the package-wide shorthand for wrapping a Go function as a
// native method hanging off ev.FunctionProto.
func nf(ev *evaluator.Evaluator, name string, length int, fn value.NativeFunc) *value.Object {
	return bridge.NewNativeFunction(protoVal(ev.FunctionProto), name, length, fn)
}

func protoVal(obj *value.Object) value.Value {
	if obj == nil {
		return value.NullVal
	}
	return obj
}

func arg(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.Undef
}

func joinArgsAsString(ev *evaluator.Evaluator, args []value.Value) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += stringifyForDisplay(a)
	}
	return out
}

func stringifyForDisplay(v value.Value) string {
	if obj, ok := v.(*value.Object); ok {
		return obj.String()
	}
	return value.ToPrimitiveString(v)
}
