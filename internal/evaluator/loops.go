package evaluator

import (
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
)

// whileState cycles between evaluating the test and running the body.
// phase 0 means "push the test next"; phase 1 means "the just-completed
// child was the test, decide whether to run the body".
type whileState struct {
	test  ast.Expression
	body  ast.Statement
	phase int
}

func (s *whileState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if s.phase == 0 {
		s.phase = 1
		return pushChild(newFrame(s.test, frame.Scope))
	}
	s.phase = 0
	if !value.ToBoolean(childValue) {
		return done(value.Undef)
	}
	return pushChild(newFrame(s.body, frame.Scope))
}

func (s *whileState) onContinue() { s.phase = 0 }

const (
	doBody = iota
	doAfterBody
	doAfterTest
)

// doWhileState runs the body at least once before the first test.
type doWhileState struct {
	test  ast.Expression
	body  ast.Statement
	phase int
}

func (s *doWhileState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	switch s.phase {
	case doBody:
		s.phase = doAfterBody
		return pushChild(newFrame(s.body, frame.Scope))
	case doAfterBody:
		s.phase = doAfterTest
		return pushChild(newFrame(s.test, frame.Scope))
	default: // doAfterTest
		if !value.ToBoolean(childValue) {
			return done(value.Undef)
		}
		s.phase = doAfterBody
		return pushChild(newFrame(s.body, frame.Scope))
	}
}

// onContinue skips the remainder of the body and jumps straight to the
// test, matching do-while's continue semantics.
func (s *doWhileState) onContinue() { s.phase = doAfterBody }

const (
	forAfterInit = iota
	forAfterTest
	forAfterBody
	forAfterUpdate
	forPhaseInit = forAfterInit
)

type forState struct {
	init, test, update ast.Expression
	body               ast.Statement
	phase              int
}

func (s *forState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	switch s.phase {
	case forAfterInit:
		s.phase = forAfterUpdate // next stop: push test (shares the "go to test" action below)
		if s.init != nil {
			return pushChild(newFrame(s.init, frame.Scope))
		}
		return s.pushTest(frame)
	case forAfterTest:
		if !value.ToBoolean(childValue) {
			return done(value.Undef)
		}
		s.phase = forAfterBody
		return pushChild(newFrame(s.body, frame.Scope))
	case forAfterBody:
		s.phase = forAfterUpdate
		if s.update != nil {
			return pushChild(newFrame(s.update, frame.Scope))
		}
		return s.pushTest(frame)
	default: // forAfterUpdate: init or update just resolved, go check test
		return s.pushTest(frame)
	}
}

func (s *forState) pushTest(frame *Frame) Outcome {
	s.phase = forAfterTest
	if s.test != nil {
		return pushChild(newFrame(s.test, frame.Scope))
	}
	s.phase = forAfterBody
	return pushChild(newFrame(s.body, frame.Scope))
}

// onContinue skips directly to the update clause, as a for-loop's
// continue must still run the update before re-testing.
func (s *forState) onContinue() { s.phase = forAfterBody }

type forInState struct {
	into, source ast.Expression
	body         ast.Statement

	sourceDone, keysComputed bool
	keys                     []string
	index                    int
}

func (s *forInState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if !s.sourceDone {
		s.sourceDone = true
		return pushChild(newFrame(s.source, frame.Scope))
	}
	if !s.keysComputed {
		s.keysComputed = true
		if obj, ok := childValue.(*value.Object); ok {
			s.keys = enumerableKeysChain(obj)
		}
	}
	return s.nextIteration(ev, frame)
}

func (s *forInState) nextIteration(ev *Evaluator, frame *Frame) Outcome {
	if s.index >= len(s.keys) {
		return done(value.Undef)
	}
	key := s.keys[s.index]
	s.index++
	if err := assignSimple(frame.Scope, s.into, value.String(key)); err != nil {
		return doneCompletion(throwOf(ev.throwHost(err)))
	}
	return pushChild(newFrame(s.body, frame.Scope))
}

// onContinue is a no-op: the next regular Advance call already resumes
// at the next key, since index was advanced before the body was pushed.
func (s *forInState) onContinue() {}

// enumerableKeysChain walks the prototype chain collecting each
// enumerable name exactly once, own properties first, the order a
// for-in loop visits them in.
func enumerableKeysChain(obj *value.Object) []string {
	seen := make(map[string]bool)
	var out []string
	for cur := obj; cur != nil; {
		for _, k := range cur.OwnKeys(false) {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
		next, ok := cur.Proto.(*value.Object)
		if !ok {
			break
		}
		cur = next
	}
	return out
}

// assignSimple handles the common for-in/catch-binding target shapes
// (`for (x in y)`, `for (var x in y)`) without needing a child frame to
// evaluate a base object first.
func assignSimple(sc *scope.Scope, target ast.Expression, v value.Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		_, err := scope.Assign(sc, t.Name, v)
		return err
	case *ast.VariableExpression:
		scope.Define(sc, t.Name, v)
		return nil
	default:
		return &value.PropertyError{Kind: "SyntaxError", Message: "unsupported for-in binding target"}
	}
}
