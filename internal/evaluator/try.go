package evaluator

import (
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
)

const (
	tryBody = iota
	tryAfterBody
	tryAfterCatch
	tryAfterFinally
)

// tryState implements try/catch/finally. Unwind routes any abrupt
// completion produced while body, catch, or finally is on top of the
// stack back here by setting cv directly (bypassing the ordinary
// push/pop value handoff), since a throw/return/break/continue must
// still let finally run before it keeps propagating.
type tryState struct {
	body    ast.Statement
	catch   *ast.CatchStatement
	finally ast.Statement

	phase   int
	cv      *Completion
	pending *Completion
}

func (s *tryState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	switch s.phase {
	case tryBody:
		s.phase = tryAfterBody
		return pushChild(newFrame(s.body, frame.Scope))

	case tryAfterBody:
		if s.cv != nil {
			abrupt := s.cv
			s.cv = nil
			if abrupt.Type == ThrowCompletion && s.catch != nil {
				s.phase = tryAfterCatch
				catchScope := scope.NewChild(frame.Scope)
				scope.Define(catchScope, s.catch.Parameter.Name, abrupt.Value)
				return pushChild(newFrame(s.catch.Body, catchScope))
			}
			s.pending = abrupt
			return s.runFinally(frame)
		}
		s.pending = nil
		return s.runFinally(frame)

	case tryAfterCatch:
		if s.cv != nil {
			s.pending = s.cv
			s.cv = nil
		} else {
			s.pending = nil
		}
		return s.runFinally(frame)

	default: // tryAfterFinally
		if s.cv != nil {
			return doneCompletion(*s.cv)
		}
		if s.pending != nil {
			return doneCompletion(*s.pending)
		}
		return done(childValue)
	}
}

func (s *tryState) runFinally(frame *Frame) Outcome {
	s.phase = tryAfterFinally
	if s.finally != nil {
		return pushChild(newFrame(s.finally, frame.Scope))
	}
	if s.pending != nil {
		return doneCompletion(*s.pending)
	}
	return done(value.Undef)
}
