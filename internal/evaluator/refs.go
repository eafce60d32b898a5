package evaluator

import (
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
	"github.com/robertkrimen/otto/token"
)

// reference is the resolved left-hand side of an assignment or
// increment/decrement: either a scope-bound name, or an object/key pair
// for a property reference.
type reference struct {
	name    string
	hasName bool
	base    value.Value
	key     string
}

func (r reference) get(sc *scope.Scope) (value.Value, error) {
	if r.hasName {
		res, err := scope.LookupOrUndefined(sc, r.name, false)
		return res.Value, err
	}
	res, err := value.GetProperty(r.base, r.key)
	return res.Value, err
}

func (r reference) set(sc *scope.Scope, v value.Value) error {
	if r.hasName {
		_, err := scope.Assign(sc, r.name, v)
		return err
	}
	_, err := value.SetProperty(r.base, r.key, v, sc.Strict)
	return err
}

// trySet is set's step-aware cousin: a scope-bound name can never trap,
// but a property write can resolve to a setter, which the caller must run
// as a child frame before the assignment is considered complete.
func (r reference) trySet(sc *scope.Scope, v value.Value) (*value.AccessorResult, error) {
	if r.hasName {
		return nil, r.set(sc, v)
	}
	outcome, err := value.SetProperty(r.base, r.key, v, sc.Strict)
	if err != nil {
		return nil, err
	}
	return outcome.Accessor, nil
}

const (
	refBase = iota
	refMember
	refRight
	refSetterDone
	refDone
)

// assignState evaluates `=` and the compound assignment operators
// (`+=`, `-=`, ...) against an Identifier, DotExpression, or
// BracketExpression target.
type assignState struct {
	operator token.Token
	left     ast.Expression
	right    ast.Expression

	phase         int
	baseValue     value.Value
	pendingKey    string
	pendingMember ast.Expression
	ref           reference
	assignedValue value.Value
}

func (s *assignState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	switch s.phase {
	case refBase:
		switch t := s.left.(type) {
		case *ast.Identifier:
			s.ref = reference{name: t.Name, hasName: true}
			s.phase = refRight
			return pushChild(newFrame(s.right, frame.Scope))
		case *ast.DotExpression:
			s.pendingKey = t.Identifier.Name
			s.phase = refMember
			return pushChild(newFrame(t.Left, frame.Scope))
		case *ast.BracketExpression:
			s.pendingMember = t.Member
			s.phase = refMember
			return pushChild(newFrame(t.Left, frame.Scope))
		default:
			return doneCompletion(throwOf(ev.MakeError("ReferenceError", "invalid assignment target")))
		}
	case refMember:
		s.baseValue = childValue
		if s.pendingMember != nil {
			return s.pushMemberKey(frame)
		}
		s.ref = reference{base: s.baseValue, key: s.pendingKey}
		s.phase = refRight
		return pushChild(newFrame(s.right, frame.Scope))
	case refRight:
		if s.pendingMember != nil && s.ref.key == "" {
			// member key just resolved; childValue is the key, not the RHS
			s.ref = reference{base: s.baseValue, key: value.ToPrimitiveString(childValue)}
			s.pendingMember = nil
			return pushChild(newFrame(s.right, frame.Scope))
		}
		return s.compute(ev, frame, childValue)
	case refSetterDone:
		return done(s.assignedValue)
	default:
		return done(childValue)
	}
}

func (s *assignState) pushMemberKey(frame *Frame) Outcome {
	s.phase = refRight
	return pushChild(newFrame(s.pendingMember, frame.Scope))
}

func (s *assignState) compute(ev *Evaluator, frame *Frame, rightValue value.Value) Outcome {
	finalValue := rightValue
	if s.operator != token.ASSIGN {
		oldValue, err := s.ref.get(frame.Scope)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		newValue, err := compoundOp(ev, s.operator, oldValue, rightValue)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		finalValue = newValue
	}
	accessor, err := s.ref.trySet(frame.Scope, finalValue)
	if err != nil {
		return doneCompletion(throwOf(ev.throwHost(err)))
	}
	s.assignedValue = finalValue
	if accessor != nil {
		s.phase = refSetterDone
		return pushChild(NewFrame(nil, frame.Scope, &invokeState{fn: accessor.Fn, this: accessor.This, args: accessor.Args}))
	}
	s.phase = refDone
	return done(finalValue)
}

// compoundOp maps a `+=`-family operator token to its corresponding
// binary computation.
func compoundOp(ev *Evaluator, op token.Token, a, b value.Value) (value.Value, error) {
	switch op {
	case token.PLUS:
		return jsAdd(ev, a, b)
	case token.MINUS, token.MULTIPLY, token.SLASH, token.REMAINDER:
		na, err := toNumberCoerced(ev, a)
		if err != nil {
			return nil, err
		}
		nb, err := toNumberCoerced(ev, b)
		if err != nil {
			return nil, err
		}
		return value.Number(arith(op, na, nb)), nil
	case token.AND, token.OR, token.EXCLUSIVE_OR, token.SHIFT_LEFT, token.SHIFT_RIGHT, token.UNSIGNED_SHIFT_RIGHT:
		na, err := toNumberCoerced(ev, a)
		if err != nil {
			return nil, err
		}
		nb, err := toNumberCoerced(ev, b)
		if err != nil {
			return nil, err
		}
		return value.Number(bitwise(op, na, nb)), nil
	default:
		return nil, &value.PropertyError{Kind: "SyntaxError", Message: "unsupported compound assignment operator"}
	}
}

const (
	incBase = iota
	incAfterBase
	incAfterMember
	incSetterDone
)

// incDecState resolves the same reference shapes as assignState, for
// `++`/`--` in either prefix or postfix position.
type incDecState struct {
	target  ast.Expression
	delta   float64
	postfix bool

	phase         int
	baseValue     value.Value
	pendingKey    string
	pendingMember ast.Expression
	ref           reference
	resultValue   value.Value
}

func (s *incDecState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	switch s.phase {
	case incSetterDone:
		return done(s.resultValue)
	case incBase:
		switch t := s.target.(type) {
		case *ast.Identifier:
			s.ref = reference{name: t.Name, hasName: true}
			return s.finish(ev, frame)
		case *ast.DotExpression:
			s.pendingKey = t.Identifier.Name
			s.phase = incAfterBase
			return pushChild(newFrame(t.Left, frame.Scope))
		case *ast.BracketExpression:
			s.pendingMember = t.Member
			s.phase = incAfterBase
			return pushChild(newFrame(t.Left, frame.Scope))
		default:
			return doneCompletion(throwOf(ev.MakeError("ReferenceError", "invalid increment/decrement target")))
		}
	case incAfterBase:
		s.baseValue = childValue
		if s.pendingMember != nil {
			s.phase = incAfterMember
			return pushChild(newFrame(s.pendingMember, frame.Scope))
		}
		s.ref = reference{base: s.baseValue, key: s.pendingKey}
		return s.finish(ev, frame)
	case incAfterMember:
		s.ref = reference{base: s.baseValue, key: value.ToPrimitiveString(childValue)}
		return s.finish(ev, frame)
	default:
		return done(childValue)
	}
}

func (s *incDecState) finish(ev *Evaluator, frame *Frame) Outcome {
	oldValue, err := s.ref.get(frame.Scope)
	if err != nil {
		return doneCompletion(throwOf(ev.throwHost(err)))
	}
	oldNum := value.Number(value.ToNumber(oldValue))
	newNum := value.Number(float64(oldNum) + s.delta)
	s.resultValue = newNum
	if s.postfix {
		s.resultValue = oldNum
	}
	accessor, err := s.ref.trySet(frame.Scope, newNum)
	if err != nil {
		return doneCompletion(throwOf(ev.throwHost(err)))
	}
	if accessor != nil {
		s.phase = incSetterDone
		return pushChild(NewFrame(nil, frame.Scope, &invokeState{fn: accessor.Fn, this: accessor.This, args: accessor.Args}))
	}
	return done(s.resultValue)
}

