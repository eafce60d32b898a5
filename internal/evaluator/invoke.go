package evaluator

import (
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
)

// invokeState is the single place a function object is actually called,
// whether that call came from a CallExpression, a getter/setter trap, a
// host bridge native call, or ToPrimitive's valueOf/toString probing. It
// is always pushed as a child frame and never constructed as the
// top-level program frame.
type invokeState struct {
	fn      *value.Object
	this    value.Value
	args    []value.Value
	isNew   bool
	started bool

	// newObj holds the freshly allocated instance for a `new` call, so the
	// constructor's implicit return-the-new-instance behavior (when the
	// body returns a non-object) can restore it.
	newObj *value.Object
}

func (s *invokeState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if s.started {
		// The function body frame (a callFrameState) has completed and
		// already reduced to its return value via childValue.
		if s.isNew {
			if _, ok := childValue.(*value.Object); ok {
				return done(childValue)
			}
			return done(s.newObj)
		}
		return done(childValue)
	}
	s.started = true

	if s.fn == nil || !value.IsCallable(s.fn) {
		return doneCompletion(throwOf(ev.MakeError("TypeError", "value is not a function")))
	}

	if s.isNew {
		protoVal, err := value.GetProperty(s.fn, "prototype")
		proto := value.Value(value.NullVal)
		if err == nil {
			if p, ok := protoVal.Value.(*value.Object); ok {
				proto = p
			}
		}
		className := s.fn.FunctionName
		if className == "" {
			className = "Object"
		}
		s.newObj = value.NewObject(proto, className)
		s.this = s.newObj
	}

	if s.fn.Native != nil {
		result, err := s.fn.Native(s.this, s.args)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		if s.isNew {
			if obj, ok := result.(*value.Object); ok {
				return done(obj)
			}
			return done(s.newObj)
		}
		return done(result)
	}

	if s.fn.Async != nil {
		cs := &callFrameState{asyncPending: true}
		child := NewFrame(s.fn.Node, frame.Scope, cs)
		ev.suspended = &suspendedCall{frame: child}
		s.fn.Async(s.this, s.args, ev.Resume)
		return pushChild(child)
	}

	node, _ := s.fn.Node.(ast.Node)
	lit, ok := node.(*ast.FunctionLiteral)
	if !ok {
		return doneCompletion(throwOf(ev.MakeError("TypeError", "value is not a function")))
	}
	fnScope, _ := s.fn.ParentScope.(*scope.Scope)
	callScope := scope.NewCallScope(fnScope, frameIsStrict(lit, fnScope), s.this)
	bindParameters(callScope, lit, s.args)
	bindArgumentsObject(callScope, s.args, s.fn)
	hoist(callScope, lit.Body)
	hoistFunctionDecls(ev, callScope, statementsOf(lit.Body))

	cs := &callFrameState{body: statementsOf(lit.Body)}
	child := NewFrame(lit.Body, callScope, cs)
	child.Polyfill = s.fn.Polyfill
	return pushChild(child)
}

func frameIsStrict(lit *ast.FunctionLiteral, enclosing *scope.Scope) bool {
	if enclosing != nil && enclosing.Strict {
		return true
	}
	return hasUseStrict(lit.Body)
}

func hasUseStrict(body ast.Statement) bool {
	block, ok := body.(*ast.BlockStatement)
	if !ok || len(block.List) == 0 {
		return false
	}
	es, ok := block.List[0].(*ast.ExpressionStatement)
	if !ok {
		return false
	}
	lit, ok := es.Expression.(*ast.StringLiteral)
	return ok && lit.Value == "use strict"
}

func statementsOf(body ast.Statement) []ast.Statement {
	if block, ok := body.(*ast.BlockStatement); ok {
		return block.List
	}
	return []ast.Statement{body}
}

func bindParameters(sc *scope.Scope, lit *ast.FunctionLiteral, args []value.Value) {
	if lit.ParameterList == nil {
		return
	}
	for i, id := range lit.ParameterList.List {
		var v value.Value = value.Undef
		if i < len(args) {
			v = args[i]
		}
		scope.Define(sc, id.Name, v)
	}
}

func bindArgumentsObject(sc *scope.Scope, args []value.Value, fn *value.Object) {
	obj := value.NewArray(value.NullVal, args)
	obj.Class = "Arguments"
	scope.DefineConst(sc, "arguments", obj)
}

// hoist pre-declares every `var` binding reachable from body (including
// through nested blocks and control statements, since ES5 var is
// function-scoped) as undefined, matching the hoisting pass that must
// happen before a function/program body's first statement runs.
func hoist(sc *scope.Scope, body ast.Statement) {
	hoistVars(sc, statementsOf(body))
}

func hoistVars(sc *scope.Scope, stmts []ast.Statement) {
	for _, stmt := range stmts {
		hoistStatement(sc, stmt)
	}
}

// hoistFunctionDecls binds each function declaration directly in stmts
// (not descending into nested blocks) to its closure object before the
// body runs, so forward references to a sibling function work.
func hoistFunctionDecls(ev *Evaluator, sc *scope.Scope, stmts []ast.Statement) {
	for _, stmt := range stmts {
		fs, ok := stmt.(*ast.FunctionStatement)
		if !ok || fs.Function == nil || fs.Function.Name == nil {
			continue
		}
		fn := makeFunctionObject(ev, sc, fs.Function)
		scope.Define(sc, fs.Function.Name.Name, fn)
	}
}

func hoistStatement(sc *scope.Scope, stmt ast.Statement) {
	switch n := stmt.(type) {
	case *ast.VariableStatement:
		for _, item := range n.List {
			if ve, ok := item.(*ast.VariableExpression); ok {
				if !sc.Object.HasOwn(ve.Name) {
					scope.Define(sc, ve.Name, value.Undef)
				}
			}
		}
	case *ast.IfStatement:
		hoistStatement(sc, n.Consequent)
		if n.Alternate != nil {
			hoistStatement(sc, n.Alternate)
		}
	case *ast.BlockStatement:
		for _, s := range n.List {
			hoistStatement(sc, s)
		}
	case *ast.ForStatement:
		hoistStatement(sc, n.Body)
	case *ast.ForInStatement:
		hoistStatement(sc, n.Body)
	case *ast.WhileStatement:
		hoistStatement(sc, n.Body)
	case *ast.DoWhileStatement:
		hoistStatement(sc, n.Body)
	case *ast.TryStatement:
		hoistStatement(sc, n.Body)
		if n.Catch != nil {
			hoistStatement(sc, n.Catch.Body)
		}
		if n.Finally != nil {
			hoistStatement(sc, n.Finally)
		}
	case *ast.LabelledStatement:
		hoistStatement(sc, n.Statement)
	case *ast.SwitchStatement:
		for _, c := range n.Body {
			for _, s := range c.Consequent {
				hoistStatement(sc, s)
			}
		}
	case *ast.WithStatement:
		hoistStatement(sc, n.Body)
	}
}

// callFrameState runs a function body's statement list; Unwind absorbs a
// ReturnStatement completion here by setting result/returned directly,
// the same way tryState absorbs throws.
type callFrameState struct {
	body  []ast.Statement
	index int

	returned bool
	result   value.Value

	asyncPending bool
	asyncDone    bool
	asyncResult  value.Value
	asyncThrow   value.Value
}

func (s *callFrameState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if s.asyncPending {
		if s.asyncThrow != nil {
			return doneCompletion(throwOf(s.asyncThrow))
		}
		if s.asyncDone {
			return done(s.asyncResult)
		}
		return Outcome{} // still waiting on Resume
	}
	if s.returned {
		return done(s.result)
	}
	if s.index >= len(s.body) {
		return done(value.Undef)
	}
	stmt := s.body[s.index]
	s.index++
	return pushChild(newFrame(stmt, frame.Scope))
}
