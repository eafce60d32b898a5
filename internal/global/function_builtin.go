package global

import (
	"strings"

	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
	"github.com/robertkrimen/otto/parser"
)

// installFunctionBuiltins wires Function.prototype's call/apply/bind and
// the Function constructor itself. call/apply/bind synchronously
// re-enter the step machine via ev.CallSync to invoke the callee (which
// may itself be interpreted code), something a plain NativeFunc cannot
// do on its own since Native callbacks run outside the Stack entirely;
// the constructor uses the sibling EvalSync to compile and immediately
// evaluate the FunctionLiteral its string arguments describe.
func installFunctionBuiltins(ev *evaluator.Evaluator, p *protos, g *value.Object, sc *scope.Scope) {
	proto := p.function

	proto.DefineOwn("toString", &value.PropertySlot{
		Value: nf(ev, "toString", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			name := ""
			if obj, ok := this.(*value.Object); ok {
				name = obj.FunctionName
			}
			return value.String("function " + name + "() { [native code] }"), nil
		}),
		Flags: value.NonEnumerable,
	})

	proto.DefineOwn("call", &value.PropertySlot{
		Value: nf(ev, "call", 1, func(this value.Value, args []value.Value) (value.Value, error) {
			fn, err := callableOrThrow(ev, this)
			if err != nil {
				return nil, err
			}
			thisArg := arg(args, 0)
			rest := []value.Value{}
			if len(args) > 1 {
				rest = args[1:]
			}
			return ev.CallSync(fn, thisArg, rest)
		}),
		Flags: value.NonEnumerable,
	})

	proto.DefineOwn("apply", &value.PropertySlot{
		Value: nf(ev, "apply", 2, func(this value.Value, args []value.Value) (value.Value, error) {
			fn, err := callableOrThrow(ev, this)
			if err != nil {
				return nil, err
			}
			thisArg := arg(args, 0)
			var rest []value.Value
			switch t := arg(args, 1).(type) {
			case *value.Object:
				rest = value.ArrayElements(t)
			case value.Undefined, value.Null:
				// arguments omitted: call with no arguments.
			default:
				return nil, typeErrorObj(ev, "Function.prototype.apply: arguments list must be an object")
			}
			return ev.CallSync(fn, thisArg, rest)
		}),
		Flags: value.NonEnumerable,
	})

	proto.DefineOwn("bind", &value.PropertySlot{
		Value: nf(ev, "bind", 1, func(this value.Value, args []value.Value) (value.Value, error) {
			fn, err := callableOrThrow(ev, this)
			if err != nil {
				return nil, err
			}
			boundThis := arg(args, 0)
			var boundArgs []value.Value
			if len(args) > 1 {
				boundArgs = append(boundArgs, args[1:]...)
			}
			bound := nf(ev, "bound "+fn.FunctionName, 0, func(_ value.Value, callArgs []value.Value) (value.Value, error) {
				all := append(append([]value.Value{}, boundArgs...), callArgs...)
				return ev.CallSync(fn, boundThis, all)
			})
			return bound, nil
		}),
		Flags: value.NonEnumerable,
	})

	ctor := nf(ev, "Function", 1, func(_ value.Value, args []value.Value) (value.Value, error) {
		return newFunctionFromStrings(ev, sc, args)
	})
	ctor.DefineOwn("prototype", &value.PropertySlot{Value: proto, Flags: value.NonConfigurableReadOnlyNonEnumerable})
	proto.DefineOwn("constructor", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
	g.DefineOwn("Function", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
}

// newFunctionFromStrings implements the Function constructor: the last
// argument is the body source, every earlier argument is joined as a
// comma-separated parameter list, and the whole thing is parsed as a
// function expression and evaluated once via EvalSync to produce the
// closure, the same construction `new Function(...)` performs in a real
// engine.
func newFunctionFromStrings(ev *evaluator.Evaluator, sc *scope.Scope, args []value.Value) (value.Value, error) {
	var params []string
	var body string
	if len(args) > 0 {
		for _, a := range args[:len(args)-1] {
			s, err := toDisplayString(ev, a)
			if err != nil {
				return nil, err
			}
			params = append(params, s)
		}
		b, err := toDisplayString(ev, args[len(args)-1])
		if err != nil {
			return nil, err
		}
		body = b
	}

	src := "(function (" + strings.Join(params, ",") + ") {" + body + "})"
	program, err := parser.ParseFile(nil, "<Function>", src, 0)
	if err != nil {
		return nil, typeErrorObj(ev, "Function constructor: "+err.Error())
	}
	if len(program.Body) != 1 {
		return nil, typeErrorObj(ev, "Function constructor: invalid function body")
	}
	exprStmt, ok := program.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, typeErrorObj(ev, "Function constructor: invalid function body")
	}
	lit, ok := exprStmt.Expression.(*ast.FunctionLiteral)
	if !ok {
		return nil, typeErrorObj(ev, "Function constructor: invalid function body")
	}

	return ev.EvalSync(lit, sc)
}

func callableOrThrow(ev *evaluator.Evaluator, this value.Value) (*value.Object, error) {
	fn, ok := this.(*value.Object)
	if !ok || !value.IsCallable(fn) {
		return nil, typeErrorObj(ev, "Function.prototype method called on a non-function")
	}
	return fn, nil
}

