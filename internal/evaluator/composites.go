package evaluator

import (
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
)

// arrayLiteralState evaluates each element left to right, then builds a
// dense Array-classed object from the results. A nil element (elision, as
// in `[1, , 3]`) is not evaluated; its index holds undefined as an own
// element rather than being left as a hole.
type arrayLiteralState struct {
	elements []ast.Expression
	index    int
	values   []value.Value
}

func (s *arrayLiteralState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if s.index > 0 {
		s.values[s.index-1] = childValue
	}
	for s.index < len(s.elements) {
		el := s.elements[s.index]
		s.index++
		if el == nil {
			s.values = append(s.values, value.Undef)
			continue
		}
		if len(s.values) < s.index {
			s.values = append(s.values, value.Undef)
		}
		return pushChild(newFrame(el, frame.Scope))
	}
	proto := value.Value(value.NullVal)
	if ev.ArrayProto != nil {
		proto = ev.ArrayProto
	}
	return done(value.NewArray(proto, s.values))
}

const (
	objStart = iota
	objAfterValue
)

// objectLiteralState evaluates each property's value (or accessor body,
// for get/set properties are bound as closures rather than run) in
// source order and assembles the resulting object.
type objectLiteralState struct {
	props []ast.Property
	index int
	obj   *value.Object
	phase int
}

func (s *objectLiteralState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if s.obj == nil {
		proto := value.Value(value.NullVal)
		if ev.ObjectProto != nil {
			proto = ev.ObjectProto
		}
		s.obj = value.NewObject(proto, "Object")
	}
	if s.phase == objAfterValue {
		s.phase = objStart
		s.applyProperty(s.props[s.index-1], childValue)
	}
	for s.index < len(s.props) {
		p := s.props[s.index]
		s.index++
		if lit, ok := p.Value.(*ast.FunctionLiteral); ok && p.Kind != "value" {
			s.applyAccessor(ev, frame, p, lit)
			continue
		}
		s.phase = objAfterValue
		return pushChild(newFrame(p.Value, frame.Scope))
	}
	return done(s.obj)
}

func (s *objectLiteralState) applyProperty(p ast.Property, v value.Value) {
	s.obj.DefineOwn(p.Key, &value.PropertySlot{Value: v, Flags: value.Variable})
}

func (s *objectLiteralState) applyAccessor(ev *Evaluator, frame *Frame, p ast.Property, lit *ast.FunctionLiteral) {
	fn := makeFunctionObject(ev, frame.Scope, lit)
	slot := s.obj.OwnSlot(p.Key)
	if slot == nil || !slot.IsAccessor() {
		slot = &value.PropertySlot{Flags: value.Variable}
	}
	if p.Kind == "get" {
		slot.Get = fn
	} else {
		slot.Set = fn
	}
	slot.Value = nil
	s.obj.DefineOwn(p.Key, slot)
}

// regexpLiteralState materializes a RegExp object via the evaluator's
// injected factory, which owns the isolation backend.
type regexpLiteralState struct {
	node *ast.RegExpLiteral
}

func (s *regexpLiteralState) Advance(ev *Evaluator, frame *Frame, _ value.Value) Outcome {
	if ev.NewRegexp == nil {
		return doneCompletion(throwOf(ev.MakeError("Error", "regular expressions are not available")))
	}
	obj, err := ev.NewRegexp(s.node.Pattern, s.node.Flags)
	if err != nil {
		return doneCompletion(throwOf(ev.throwHost(err)))
	}
	return done(obj)
}

const (
	callCalleeStart = iota
	callDotBase
	callDotGetter
	callBracketBase
	callBracketMember
	callBracketGetter
	callSimpleCallee
	callArgs
)

// callExprState evaluates the callee, binding `this` to the base object
// when the callee is a member access (ES5's method-call rule), then each
// argument left to right, then pushes an invokeState child. NewExpression
// reuses this state with isNew set; `this` is irrelevant there since
// invokeState allocates its own instance.
type callExprState struct {
	callee ast.Expression
	args   []ast.Expression
	isNew  bool

	phase       int
	thisValue   value.Value
	fnValue     value.Value
	pendingName string
	argIndex    int
	argValues   []value.Value
}

func (s *callExprState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	switch s.phase {
	case callCalleeStart:
		switch c := s.callee.(type) {
		case *ast.DotExpression:
			s.pendingName = c.Identifier.Name
			s.phase = callDotBase
			return pushChild(newFrame(c.Left, frame.Scope))
		case *ast.BracketExpression:
			s.phase = callBracketBase
			return pushChild(newFrame(c.Left, frame.Scope))
		default:
			s.phase = callSimpleCallee
			return pushChild(newFrame(s.callee, frame.Scope))
		}
	case callDotBase:
		s.thisValue = childValue
		res, err := value.GetProperty(s.thisValue, s.pendingName)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		if _, undef := res.Value.(value.Undefined); undef && res.Accessor == nil {
			var proto *value.Object
			switch s.thisValue.(type) {
			case value.String:
				proto = ev.StringProto
			case value.Number:
				proto = ev.NumberProto
			case value.Boolean:
				proto = ev.BooleanProto
			}
			if proto != nil {
				res, _ = value.GetProperty(proto, s.pendingName)
			}
		}
		if res.Accessor != nil {
			s.phase = callDotGetter
			return pushChild(NewFrame(nil, frame.Scope, &invokeState{fn: res.Accessor.Fn, this: res.Accessor.This}))
		}
		s.fnValue = res.Value
		return s.nextArg(ev, frame)
	case callDotGetter:
		s.fnValue = childValue
		return s.nextArg(ev, frame)
	case callBracketBase:
		s.thisValue = childValue
		s.phase = callBracketMember
		return pushChild(newFrame(s.callee.(*ast.BracketExpression).Member, frame.Scope))
	case callBracketMember:
		key := value.ToPrimitiveString(childValue)
		res, err := value.GetProperty(s.thisValue, key)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		if res.Accessor != nil {
			s.phase = callBracketGetter
			return pushChild(NewFrame(nil, frame.Scope, &invokeState{fn: res.Accessor.Fn, this: res.Accessor.This}))
		}
		s.fnValue = res.Value
		return s.nextArg(ev, frame)
	case callBracketGetter:
		s.fnValue = childValue
		return s.nextArg(ev, frame)
	case callSimpleCallee:
		s.fnValue = childValue
		return s.nextArg(ev, frame)
	case callArgs:
		s.argValues[s.argIndex-1] = childValue
		return s.nextArg(ev, frame)
	default:
		return done(childValue)
	}
}

// nextArg pushes the next not-yet-evaluated argument, or invokes the
// resolved function once all arguments are in hand.
func (s *callExprState) nextArg(ev *Evaluator, frame *Frame) Outcome {
	if s.argIndex < len(s.args) {
		arg := s.args[s.argIndex]
		s.argIndex++
		s.argValues = append(s.argValues, value.Undef)
		s.phase = callArgs
		return pushChild(newFrame(arg, frame.Scope))
	}
	fn, ok := s.fnValue.(*value.Object)
	if !ok {
		return doneCompletion(throwOf(ev.MakeError("TypeError", "value is not a function")))
	}
	this := s.thisValue
	if this == nil {
		this = value.Undef
	}
	return pushChild(NewFrame(nil, frame.Scope, &invokeState{fn: fn, this: this, args: s.argValues, isNew: s.isNew}))
}
