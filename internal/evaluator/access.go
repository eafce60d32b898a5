package evaluator

import (
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
)

const (
	accessBase = iota
	accessGetterCall
	accessGetterDone
)

// dotState reads a fixed property name off an evaluated base object,
// invoking a getter trap through a synthesized call when the resolved
// slot is an accessor instead of a plain value.
type dotState struct {
	left  ast.Expression
	name  string
	phase int
}

func (s *dotState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	switch s.phase {
	case accessBase:
		s.phase = accessGetterCall
		return pushChild(newFrame(s.left, frame.Scope))
	case accessGetterCall:
		res, err := value.GetProperty(childValue, s.name)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		if res.Accessor != nil {
			s.phase = accessGetterDone
			return pushChild(NewFrame(nil, frame.Scope, &invokeState{fn: res.Accessor.Fn, this: res.Accessor.This}))
		}
		return done(res.Value)
	default:
		return done(childValue)
	}
}

// bracketState is dotState's computed-key counterpart: the member
// expression is evaluated before the property lookup.
type bracketState struct {
	left, member ast.Expression
	phase        int
	baseValue    value.Value
}

const (
	bracketBase = iota
	bracketMember
	bracketGetterCall
	bracketGetterDone
)

func (s *bracketState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	switch s.phase {
	case bracketBase:
		s.phase = bracketMember
		return pushChild(newFrame(s.left, frame.Scope))
	case bracketMember:
		s.baseValue = childValue
		s.phase = bracketGetterCall
		return pushChild(newFrame(s.member, frame.Scope))
	case bracketGetterCall:
		key := value.ToPrimitiveString(childValue)
		res, err := value.GetProperty(s.baseValue, key)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		if res.Accessor != nil {
			s.phase = bracketGetterDone
			return pushChild(NewFrame(nil, frame.Scope, &invokeState{fn: res.Accessor.Fn, this: res.Accessor.This}))
		}
		return done(res.Value)
	default:
		return done(childValue)
	}
}
