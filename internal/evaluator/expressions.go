package evaluator

import (
	"math"

	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
	"github.com/robertkrimen/otto/token"
)

type sequenceState struct {
	items []ast.Expression
	index int
}

func (s *sequenceState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if s.index >= len(s.items) {
		return done(childValue)
	}
	item := s.items[s.index]
	s.index++
	return pushChild(newFrame(item, frame.Scope))
}

type conditionalState struct {
	test, consequent, alternate ast.Expression
	phase                       int
}

func (s *conditionalState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	switch s.phase {
	case 0:
		s.phase = 1
		return pushChild(newFrame(s.test, frame.Scope))
	case 1:
		s.phase = 2
		if value.ToBoolean(childValue) {
			return pushChild(newFrame(s.consequent, frame.Scope))
		}
		return pushChild(newFrame(s.alternate, frame.Scope))
	default:
		return done(childValue)
	}
}

// variableExpressionState evaluates a single `var` declarator, and is
// also reused directly as the for-in loop-variable declaration form
// (`for (var x in y)`), where init is nil.
type variableExpressionState struct {
	name      string
	init      ast.Expression
	evaluated bool
}

func (s *variableExpressionState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if s.init == nil {
		scope.Define(frame.Scope, s.name, value.Undef)
		return done(value.Undef)
	}
	if !s.evaluated {
		s.evaluated = true
		return pushChild(newFrame(s.init, frame.Scope))
	}
	scope.Define(frame.Scope, s.name, childValue)
	return done(childValue)
}

const (
	binLeft = iota
	binRight
	binDone
)

type binaryState struct {
	operator    token.Token
	left, right ast.Expression
	phase       int
	leftValue   value.Value
}

func (s *binaryState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	switch s.phase {
	case binLeft:
		s.phase = binRight
		return pushChild(newFrame(s.left, frame.Scope))
	case binRight:
		s.leftValue = childValue
		if short, v, isShort := shortCircuit(s.operator, s.leftValue); isShort {
			_ = short
			return done(v)
		}
		s.phase = binDone
		return pushChild(newFrame(s.right, frame.Scope))
	default:
		return s.compute(ev, childValue)
	}
}

// shortCircuit handles && and ||, the only binary operators that may
// skip evaluating their right operand.
func shortCircuit(op token.Token, left value.Value) (short bool, v value.Value, isShort bool) {
	switch op {
	case token.LOGICAL_AND:
		if !value.ToBoolean(left) {
			return true, left, true
		}
	case token.LOGICAL_OR:
		if value.ToBoolean(left) {
			return true, left, true
		}
	}
	return false, nil, false
}

func (s *binaryState) compute(ev *Evaluator, right value.Value) Outcome {
	left := s.leftValue
	switch s.operator {
	case token.LOGICAL_AND, token.LOGICAL_OR:
		return done(right)
	case token.PLUS:
		v, err := jsAdd(ev, left, right)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		return done(v)
	case token.MINUS, token.MULTIPLY, token.SLASH, token.REMAINDER:
		ln, err := toNumberCoerced(ev, left)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		rn, err := toNumberCoerced(ev, right)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		return done(value.Number(arith(s.operator, ln, rn)))
	case token.AND, token.OR, token.EXCLUSIVE_OR, token.SHIFT_LEFT, token.SHIFT_RIGHT, token.UNSIGNED_SHIFT_RIGHT:
		ln, err := toNumberCoerced(ev, left)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		rn, err := toNumberCoerced(ev, right)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		return done(value.Number(bitwise(s.operator, ln, rn)))
	case token.LESS, token.GREATER, token.LESS_OR_EQUAL, token.GREATER_OR_EQUAL:
		return s.compare(ev, left, right)
	case token.EQUAL:
		eq, err := looseEquals(ev, left, right)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		return done(value.Boolean(eq))
	case token.NOT_EQUAL:
		eq, err := looseEquals(ev, left, right)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		return done(value.Boolean(!eq))
	case token.STRICT_EQUAL:
		return done(value.Boolean(strictEquals(left, right)))
	case token.STRICT_NOT_EQUAL:
		return done(value.Boolean(!strictEquals(left, right)))
	case token.INSTANCEOF:
		return s.instanceOf(ev, left, right)
	case token.IN:
		return s.in(ev, left, right)
	default:
		return doneCompletion(throwOf(ev.MakeError("SyntaxError", "unsupported binary operator")))
	}
}

func (s *binaryState) compare(ev *Evaluator, left, right value.Value) Outcome {
	switch s.operator {
	case token.LESS:
		r, undef, err := lessThan(ev, left, right)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		return done(value.Boolean(!undef && r))
	case token.GREATER:
		r, undef, err := lessThan(ev, right, left)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		return done(value.Boolean(!undef && r))
	case token.LESS_OR_EQUAL:
		r, undef, err := lessThan(ev, right, left)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		return done(value.Boolean(!undef && !r))
	default: // GREATER_OR_EQUAL
		r, undef, err := lessThan(ev, left, right)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		return done(value.Boolean(!undef && !r))
	}
}

func (s *binaryState) instanceOf(ev *Evaluator, left, right value.Value) Outcome {
	ctor, ok := right.(*value.Object)
	if !ok || !value.IsCallable(ctor) {
		return doneCompletion(throwOf(ev.MakeError("TypeError", "right-hand side of instanceof is not callable")))
	}
	obj, ok := left.(*value.Object)
	if !ok {
		return done(value.Boolean(false))
	}
	protoRes, err := value.GetProperty(ctor, "prototype")
	if err != nil {
		return doneCompletion(throwOf(ev.throwHost(err)))
	}
	proto, ok := protoRes.Value.(*value.Object)
	if !ok {
		return done(value.Boolean(false))
	}
	for cur, ok := obj.Proto.(*value.Object); ok; cur, ok = cur.Proto.(*value.Object) {
		if cur == proto {
			return done(value.Boolean(true))
		}
	}
	return done(value.Boolean(false))
}

func (s *binaryState) in(ev *Evaluator, left, right value.Value) Outcome {
	obj, ok := right.(*value.Object)
	if !ok {
		return doneCompletion(throwOf(ev.MakeError("TypeError", "'in' operator requires an object")))
	}
	name := value.ToPrimitiveString(left)
	for cur := obj; cur != nil; {
		if cur.HasOwn(name) {
			return done(value.Boolean(true))
		}
		next, ok := cur.Proto.(*value.Object)
		if !ok {
			break
		}
		cur = next
	}
	return done(value.Boolean(false))
}

func arith(op token.Token, a, b float64) float64 {
	switch op {
	case token.MINUS:
		return a - b
	case token.MULTIPLY:
		return a * b
	case token.SLASH:
		return a / b
	case token.REMAINDER:
		return math.Mod(a, b)
	default:
		return math.NaN()
	}
}

func bitwise(op token.Token, a, b float64) float64 {
	ai, bi := toInt32(a), toInt32(b)
	switch op {
	case token.AND:
		return float64(ai & bi)
	case token.OR:
		return float64(ai | bi)
	case token.EXCLUSIVE_OR:
		return float64(ai ^ bi)
	case token.SHIFT_LEFT:
		return float64(ai << (uint32(bi) & 31))
	case token.SHIFT_RIGHT:
		return float64(ai >> (uint32(bi) & 31))
	case token.UNSIGNED_SHIFT_RIGHT:
		return float64(toUint32(a) >> (toUint32(b) & 31))
	default:
		return math.NaN()
	}
}

func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(f)))
}

func toUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(f))
}

const (
	unaryOperand = iota
	unaryDone
)

type unaryState struct {
	operator token.Token
	operand  ast.Expression
	postfix  bool
	phase    int
}

func (s *unaryState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	switch s.operator {
	case token.TYPEOF:
		return s.typeofOperand(ev, frame, childValue)
	case token.DELETE:
		return s.deleteOperand(ev, frame)
	case token.INCREMENT, token.DECREMENT:
		return s.incDec(ev, frame, childValue)
	}
	if s.phase == unaryOperand {
		s.phase = unaryDone
		return pushChild(newFrame(s.operand, frame.Scope))
	}
	switch s.operator {
	case token.MINUS:
		n, err := toNumberCoerced(ev, childValue)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		return done(value.Number(-n))
	case token.PLUS:
		n, err := toNumberCoerced(ev, childValue)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		return done(value.Number(n))
	case token.NOT:
		return done(value.Boolean(!value.ToBoolean(childValue)))
	case token.BITWISE_NOT:
		n, err := toNumberCoerced(ev, childValue)
		if err != nil {
			return doneCompletion(throwOf(ev.throwHost(err)))
		}
		return done(value.Number(float64(^toInt32(n))))
	case token.VOID:
		return done(value.Undef)
	default:
		return doneCompletion(throwOf(ev.MakeError("SyntaxError", "unsupported unary operator")))
	}
}

// typeofOperand special-cases a bare identifier so an unbound name
// yields "undefined" instead of throwing ReferenceError.
func (s *unaryState) typeofOperand(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if s.phase == unaryOperand {
		s.phase = unaryDone
		if id, ok := s.operand.(*ast.Identifier); ok {
			res, err := scope.LookupOrUndefined(frame.Scope, id.Name, true)
			if err != nil {
				return doneCompletion(throwOf(ev.throwHost(err)))
			}
			if !res.Found {
				return done(value.String("undefined"))
			}
			return done(value.String(res.Value.TypeOf()))
		}
		return pushChild(newFrame(s.operand, frame.Scope))
	}
	if childValue == nil {
		return done(value.String("undefined"))
	}
	return done(value.String(childValue.TypeOf()))
}

func (s *unaryState) deleteOperand(ev *Evaluator, frame *Frame) Outcome {
	switch t := s.operand.(type) {
	case *ast.DotExpression:
		return pushChild(newFrame(t.Left, frame.Scope))
	case *ast.BracketExpression:
		return pushChild(newFrame(t.Left, frame.Scope))
	default:
		return done(value.Boolean(true))
	}
}

func (s *unaryState) incDec(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	if s.phase == unaryDone {
		return done(childValue)
	}
	s.phase = unaryDone
	delta := 1.0
	if s.operator == token.DECREMENT {
		delta = -1.0
	}
	st := &incDecState{target: s.operand, delta: delta, postfix: s.postfix}
	return pushChild(NewFrame(s.operand, frame.Scope, st))
}
