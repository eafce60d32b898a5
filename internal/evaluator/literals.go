package evaluator

import (
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
)

// literalState covers every expression whose value is computable without
// evaluating a child: numbers, strings, booleans, null, this, and bare
// identifiers resolved through the scope chain.
type literalState struct {
	node ast.Expression
}

func (s *literalState) Advance(ev *Evaluator, frame *Frame, _ value.Value) Outcome {
	switch n := s.node.(type) {
	case *ast.NumberLiteral:
		return done(numberLiteralValue(n))
	case *ast.StringLiteral:
		return done(value.String(n.Value))
	case *ast.BooleanLiteral:
		return done(value.Boolean(n.Value))
	case *ast.NullLiteral:
		return done(value.NullVal)
	case *ast.ThisExpression:
		return done(frame.Scope.ThisBinding())
	case *ast.Identifier:
		res, err := scope.LookupOrUndefined(frame.Scope, n.Name, false)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		return done(res.Value)
	case *ast.EmptyExpression:
		return done(value.Undef)
	default:
		return doneCompletion(throwOf(ev.MakeError("SyntaxError", "unsupported literal node")))
	}
}

func numberLiteralValue(n *ast.NumberLiteral) value.Value {
	switch v := n.Value.(type) {
	case float64:
		return value.Number(v)
	case int64:
		return value.Number(float64(v))
	case int:
		return value.Number(float64(v))
	default:
		return value.Number(0)
	}
}

func throwOf(v value.Value) Completion {
	return Completion{Type: ThrowCompletion, Value: v}
}
