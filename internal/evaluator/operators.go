package evaluator

import (
	"math"

	"github.com/es5box/es5box/internal/value"
)

// toPrimitive implements ToPrimitive for the operators that need it.
// Only Native-backed valueOf/toString methods are probed synchronously;
// an object whose valueOf/toString is itself interpreted code falls back
// to the default Object.prototype.toString tag, a pragmatic limit of the
// synchronous operator path (a user valueOf used inside `+`/`<` etc. is
// rare enough that this trade-off is worth the simplicity).
func toPrimitive(ev *Evaluator, v value.Value, hint string) (value.Value, error) {
	obj, ok := v.(*value.Object)
	if !ok {
		return v, nil
	}
	methods := []string{"valueOf", "toString"}
	if hint == "string" {
		methods = []string{"toString", "valueOf"}
	}
	for _, name := range methods {
		res, err := value.GetProperty(obj, name)
		if err != nil {
			return nil, err
		}
		fn, ok := res.Value.(*value.Object)
		if !ok || fn.Native == nil {
			continue
		}
		out, err := fn.Native(obj, nil)
		if err != nil {
			return nil, err
		}
		if _, isObj := out.(*value.Object); !isObj {
			return out, nil
		}
	}
	return value.String(obj.String()), nil
}

func toNumberCoerced(ev *Evaluator, v value.Value) (float64, error) {
	prim, err := toPrimitive(ev, v, "number")
	if err != nil {
		return math.NaN(), err
	}
	return value.ToNumber(prim), nil
}

func toStringCoerced(ev *Evaluator, v value.Value) (string, error) {
	prim, err := toPrimitive(ev, v, "string")
	if err != nil {
		return "", err
	}
	return value.ToPrimitiveString(prim), nil
}

// strictEquals implements the === operator: no coercion, NaN never equal
// to itself, +0/-0 treated equal, objects compared by identity.
func strictEquals(a, b value.Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case value.Undefined:
		_, ok := b.(value.Undefined)
		return ok
	case value.Null:
		_, ok := b.(value.Null)
		return ok
	case value.Boolean:
		bv, ok := b.(value.Boolean)
		return ok && av == bv
	case value.Number:
		bv, ok := b.(value.Number)
		return ok && float64(av) == float64(bv)
	case value.String:
		bv, ok := b.(value.String)
		return ok && av == bv
	case *value.Object:
		bv, ok := b.(*value.Object)
		return ok && av == bv
	default:
		return false
	}
}

// looseEquals implements the == operator's abstract equality comparison,
// including the cross-type coercion rules (number/string, boolean, and
// object-to-primitive).
func looseEquals(ev *Evaluator, a, b value.Value) (bool, error) {
	if strictEquals(a, b) {
		return true, nil
	}
	_, aUndef := a.(value.Undefined)
	_, aNull := a.(value.Null)
	_, bUndef := b.(value.Undefined)
	_, bNull := b.(value.Null)
	if (aUndef || aNull) && (bUndef || bNull) {
		return true, nil
	}
	if aUndef || aNull || bUndef || bNull {
		return false, nil
	}

	_, aNum := a.(value.Number)
	_, bNum := b.(value.Number)
	_, aStr := a.(value.String)
	_, bStr := b.(value.String)
	if aNum && bStr {
		return float64(a.(value.Number)) == value.ToNumber(b), nil
	}
	if aStr && bNum {
		return value.ToNumber(a) == float64(b.(value.Number)), nil
	}
	if ab, ok := a.(value.Boolean); ok {
		return looseEquals(ev, boolToNumber(ab), b)
	}
	if bb, ok := b.(value.Boolean); ok {
		return looseEquals(ev, a, boolToNumber(bb))
	}
	_, aObj := a.(*value.Object)
	_, bObj := b.(*value.Object)
	if (aNum || aStr) && bObj {
		prim, err := toPrimitive(ev, b, "default")
		if err != nil {
			return false, err
		}
		return looseEquals(ev, a, prim)
	}
	if aObj && (bNum || bStr) {
		prim, err := toPrimitive(ev, a, "default")
		if err != nil {
			return false, err
		}
		return looseEquals(ev, prim, b)
	}
	return false, nil
}

func boolToNumber(b value.Boolean) value.Number {
	if b {
		return 1
	}
	return 0
}

// lessThan implements the abstract relational comparison for `<`; the
// other three ordering operators are expressed in terms of it.
func lessThan(ev *Evaluator, a, b value.Value) (result, isUndefined bool, err error) {
	pa, err := toPrimitive(ev, a, "number")
	if err != nil {
		return false, false, err
	}
	pb, err := toPrimitive(ev, b, "number")
	if err != nil {
		return false, false, err
	}
	sa, aIsStr := pa.(value.String)
	sb, bIsStr := pb.(value.String)
	if aIsStr && bIsStr {
		return string(sa) < string(sb), false, nil
	}
	na, nb := value.ToNumber(pa), value.ToNumber(pb)
	if math.IsNaN(na) || math.IsNaN(nb) {
		return false, true, nil
	}
	return na < nb, false, nil
}

// jsAdd implements the `+` operator's ToPrimitive-then-branch rule:
// string concatenation if either side is (or becomes) a string,
// numeric addition otherwise.
func jsAdd(ev *Evaluator, a, b value.Value) (value.Value, error) {
	pa, err := toPrimitive(ev, a, "default")
	if err != nil {
		return nil, err
	}
	pb, err := toPrimitive(ev, b, "default")
	if err != nil {
		return nil, err
	}
	_, aStr := pa.(value.String)
	_, bStr := pb.(value.String)
	if aStr || bStr {
		return value.String(value.ToPrimitiveString(pa) + value.ToPrimitiveString(pb)), nil
	}
	return value.Number(value.ToNumber(pa) + value.ToNumber(pb)), nil
}
