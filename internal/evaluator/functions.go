package evaluator

import (
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
)

// functionLiteralState produces a closure object for a function
// expression; it never has children to evaluate, since the body only
// runs when the closure is later invoked.
type functionLiteralState struct {
	lit *ast.FunctionLiteral
}

func (s *functionLiteralState) Advance(ev *Evaluator, frame *Frame, _ value.Value) Outcome {
	return done(makeFunctionObject(ev, frame.Scope, s.lit))
}

// makeFunctionObject wraps a parsed function literal into a callable
// Object: Node holds the AST so invokeState can run its body, ParentScope
// is the closure's lexical environment, and prototype/length mirror the
// properties a real Function instance carries.
func makeFunctionObject(ev *Evaluator, sc *scope.Scope, lit *ast.FunctionLiteral) *value.Object {
	proto := value.Value(value.NullVal)
	if ev.FunctionProto != nil {
		proto = ev.FunctionProto
	}
	fn := value.NewObject(proto, "Function")
	fn.Node = lit
	fn.ParentScope = sc
	if lit.Name != nil {
		fn.FunctionName = lit.Name.Name
	}

	paramCount := 0
	if lit.ParameterList != nil {
		paramCount = len(lit.ParameterList.List)
	}
	fn.DefineOwn("length", &value.PropertySlot{
		Value: value.Number(float64(paramCount)),
		Flags: value.ReadOnlyNonEnumerable,
	})
	fn.DefineOwn("name", &value.PropertySlot{
		Value: value.String(fn.FunctionName),
		Flags: value.ReadOnlyNonEnumerable,
	})

	instanceProto := value.NewObject(protoOf(ev.ObjectProto), "Object")
	instanceProto.DefineOwn("constructor", &value.PropertySlot{Value: fn, Flags: value.NonEnumerable})
	fn.DefineOwn("prototype", &value.PropertySlot{Value: instanceProto, Flags: value.NonEnumerable})

	return fn
}

func protoOf(obj *value.Object) value.Value {
	if obj == nil {
		return value.NullVal
	}
	return obj
}
