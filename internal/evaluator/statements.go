package evaluator

import (
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
)

// programState drives the top-level statement list. It survives its own
// completion (ProgramDone) so a host can append and re-run statements
// against the same global scope, the way a REPL or repeated eval does.
type programState struct {
	stmts     []ast.Statement
	index     int
	lastValue value.Value
	done      bool
}

func (s *programState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if childValue != nil {
		s.lastValue = childValue
	}
	if s.index >= len(s.stmts) {
		frame.ProgramDone = true
		s.done = true
		return Outcome{Done: true, Value: s.lastValue}
	}
	stmt := s.stmts[s.index]
	s.index++
	return pushChild(newFrame(stmt, frame.Scope))
}

// blockState runs a BlockStatement's statements in a child scope so that
// `let`-like catch/with bindings introduced inside stay contained (ES5
// itself only has var/function hoisting, but the block still gets its own
// scope to host the synthesized `arguments`-style bindings catch clauses
// need).
type blockState struct {
	stmts      []ast.Statement
	blockScope *scope.Scope
	index      int
}

func (s *blockState) Advance(ev *Evaluator, frame *Frame, _ value.Value) Outcome {
	if s.index >= len(s.stmts) {
		return done(value.Undef)
	}
	stmt := s.stmts[s.index]
	s.index++
	return pushChild(newFrame(stmt, s.blockScope))
}

type exprStmtState struct {
	expr     ast.Expression
	evaluated bool
}

func (s *exprStmtState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if !s.evaluated {
		s.evaluated = true
		return pushChild(newFrame(s.expr, frame.Scope))
	}
	return done(childValue)
}

// varStmtState runs a VariableStatement's comma-separated declarator
// list; each item is itself a VariableExpression (handles both `var x;`
// and `var x = 1;`).
type varStmtState struct {
	list  []ast.Expression
	index int
}

func (s *varStmtState) Advance(ev *Evaluator, frame *Frame, _ value.Value) Outcome {
	if s.index >= len(s.list) {
		return done(value.Undef)
	}
	item := s.list[s.index]
	s.index++
	return pushChild(newFrame(item, frame.Scope))
}

type ifState struct {
	test       ast.Expression
	consequent ast.Statement
	alternate  ast.Statement

	phase int // 0 = evaluate test, 1 = running branch
}

func (s *ifState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	switch s.phase {
	case 0:
		s.phase = 1
		return pushChild(newFrame(s.test, frame.Scope))
	case 1:
		s.phase = 2
		if value.ToBoolean(childValue) {
			return pushChild(newFrame(s.consequent, frame.Scope))
		}
		if s.alternate != nil {
			return pushChild(newFrame(s.alternate, frame.Scope))
		}
		return done(value.Undef)
	default:
		return done(value.Undef)
	}
}

type returnState struct {
	arg       ast.Expression
	evaluated bool
}

func (s *returnState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if s.arg == nil {
		return doneCompletion(Completion{Type: ReturnCompletion, Value: value.Undef})
	}
	if !s.evaluated {
		s.evaluated = true
		return pushChild(newFrame(s.arg, frame.Scope))
	}
	return doneCompletion(Completion{Type: ReturnCompletion, Value: childValue})
}

type throwState struct {
	arg       ast.Expression
	evaluated bool
}

func (s *throwState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if !s.evaluated {
		s.evaluated = true
		return pushChild(newFrame(s.arg, frame.Scope))
	}
	return doneCompletion(Completion{Type: ThrowCompletion, Value: childValue})
}

type branchState struct {
	isBreak bool
	label   string
}

func (s *branchState) Advance(ev *Evaluator, frame *Frame, _ value.Value) Outcome {
	t := ContinueCompletion
	if s.isBreak {
		t = BreakCompletion
	}
	return doneCompletion(Completion{Type: t, Label: s.label})
}

type labelledState struct {
	label   string
	stmt    ast.Statement
	started bool
}

func (s *labelledState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if !s.started {
		s.started = true
		child := newFrame(s.stmt, frame.Scope)
		for label := range frame.Labels {
			child.AddLabel(label)
		}
		return pushChild(child)
	}
	return done(childValue)
}

type withState struct {
	objExpr   ast.Expression
	body      ast.Statement
	evaluated bool
}

func (s *withState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if !s.evaluated {
		s.evaluated = true
		return pushChild(newFrame(s.objExpr, frame.Scope))
	}
	obj, ok := childValue.(*value.Object)
	if !ok {
		return doneCompletion(throwOf(ev.MakeError("TypeError", "with statement requires an object")))
	}
	withScope := scope.NewWithScope(frame.Scope, obj)
	return pushChild(newFrame(s.body, withScope))
}
