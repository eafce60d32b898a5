package evaluator

import (
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
	"github.com/robertkrimen/otto/token"
)

// newFrame is the single node-kind-to-Frame dispatcher: every place that
// needs to descend into a child statement or expression goes through
// here, so adding a node kind means adding one case, not touching every
// caller.
func newFrame(node ast.Node, sc *scope.Scope) *Frame {
	switch n := node.(type) {
	// Statements
	case *ast.Program:
		return NewFrame(n, sc, &programState{stmts: n.Body})
	case *ast.BlockStatement:
		return NewFrame(n, sc, &blockState{stmts: n.List, blockScope: scope.NewChild(sc)})
	case *ast.ExpressionStatement:
		return NewFrame(n, sc, &exprStmtState{expr: n.Expression})
	case *ast.VariableStatement:
		return NewFrame(n, sc, &varStmtState{list: n.List})
	case *ast.IfStatement:
		return NewFrame(n, sc, &ifState{test: n.Test, consequent: n.Consequent, alternate: n.Alternate})
	case *ast.ReturnStatement:
		return NewFrame(n, sc, &returnState{arg: n.Argument})
	case *ast.ThrowStatement:
		return NewFrame(n, sc, &throwState{arg: n.Argument})
	case *ast.BranchStatement:
		label := ""
		if n.Label != nil {
			label = n.Label.Name
		}
		return NewFrame(n, sc, &branchState{isBreak: n.Token == token.BREAK, label: label})
	case *ast.LabelledStatement:
		f := NewFrame(n, sc, &labelledState{label: n.Label.Name, stmt: n.Statement})
		f.AddLabel(n.Label.Name)
		return f
	case *ast.WithStatement:
		return NewFrame(n, sc, &withState{objExpr: n.Object, body: n.Body})
	case *ast.EmptyStatement:
		return NewFrame(n, sc, &noopState{})
	case *ast.DebuggerStatement:
		return NewFrame(n, sc, &noopState{})
	case *ast.FunctionStatement:
		return NewFrame(n, sc, &noopState{})
	case *ast.WhileStatement:
		f := NewFrame(n, sc, &whileState{test: n.Test, body: n.Body})
		f.IsLoop = true
		return f
	case *ast.DoWhileStatement:
		f := NewFrame(n, sc, &doWhileState{test: n.Test, body: n.Body})
		f.IsLoop = true
		return f
	case *ast.ForStatement:
		f := NewFrame(n, sc, &forState{init: n.Initializer, test: n.Test, update: n.Update, body: n.Body, phase: forPhaseInit})
		f.IsLoop = true
		return f
	case *ast.ForInStatement:
		f := NewFrame(n, sc, &forInState{into: n.Into, source: n.Source, body: n.Body})
		f.IsLoop = true
		return f
	case *ast.SwitchStatement:
		f := NewFrame(n, sc, newSwitchState(n, sc))
		f.IsSwitch = true
		return f
	case *ast.TryStatement:
		return NewFrame(n, sc, &tryState{body: n.Body, catch: n.Catch, finally: n.Finally})

	// Expressions
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BooleanLiteral, *ast.NullLiteral,
		*ast.ThisExpression, *ast.Identifier, *ast.EmptyExpression:
		return NewFrame(n, sc, &literalState{node: n.(ast.Expression)})
	case *ast.RegExpLiteral:
		return NewFrame(n, sc, &regexpLiteralState{node: n})
	case *ast.ArrayLiteral:
		return NewFrame(n, sc, &arrayLiteralState{elements: n.Value})
	case *ast.ObjectLiteral:
		return NewFrame(n, sc, &objectLiteralState{props: n.Value})
	case *ast.FunctionLiteral:
		return NewFrame(n, sc, &functionLiteralState{lit: n})
	case *ast.VariableExpression:
		return NewFrame(n, sc, &variableExpressionState{name: n.Name, init: n.Initializer})
	case *ast.SequenceExpression:
		return NewFrame(n, sc, &sequenceState{items: n.Sequence})
	case *ast.ConditionalExpression:
		return NewFrame(n, sc, &conditionalState{test: n.Test, consequent: n.Consequent, alternate: n.Alternate})
	case *ast.AssignExpression:
		return NewFrame(n, sc, &assignState{operator: n.Operator, left: n.Left, right: n.Right})
	case *ast.BinaryExpression:
		return NewFrame(n, sc, &binaryState{operator: n.Operator, left: n.Left, right: n.Right})
	case *ast.UnaryExpression:
		return NewFrame(n, sc, &unaryState{operator: n.Operator, operand: n.Operand, postfix: n.Postfix})
	case *ast.DotExpression:
		return NewFrame(n, sc, &dotState{left: n.Left, name: n.Identifier.Name})
	case *ast.BracketExpression:
		return NewFrame(n, sc, &bracketState{left: n.Left, member: n.Member})
	case *ast.CallExpression:
		return NewFrame(n, sc, &callExprState{callee: n.Callee, args: n.ArgumentList})
	case *ast.NewExpression:
		return NewFrame(n, sc, &callExprState{callee: n.Callee, args: n.ArgumentList, isNew: true})
	default:
		return NewFrame(n, sc, &noopState{})
	}
}

// noopState completes immediately with undefined; used for statements that
// have no runtime effect of their own (empty, debugger, hoisted function
// declarations already installed by the enclosing block's hoisting pass).
type noopState struct{}

func (s *noopState) Advance(ev *Evaluator, frame *Frame, _ value.Value) Outcome {
	return done(value.Undef)
}
