package global

import (
	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/value"
)

// toPrimitive implements enough of the ES5 ToPrimitive abstract operation
// for native builtins that must stringify or numerize a value that might
// be an object: it tries the hinted method first (toString for "string",
// valueOf otherwise), falling back to the other one, and finally to the
// object's own Class-tagged String() if neither method yields a
// primitive. CallSync is what makes this possible from inside a native
// callback without reimplementing the evaluator's coercion path.
func toPrimitive(ev *evaluator.Evaluator, v value.Value, hint string) (value.Value, error) {
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
			continue
		}
		fn, ok := res.Value.(*value.Object)
		if !ok || !value.IsCallable(fn) {
			continue
		}
		result, err := ev.CallSync(fn, obj, nil)
		if err != nil {
			return nil, err
		}
		if _, isObj := result.(*value.Object); !isObj {
			return result, nil
		}
	}
	return value.String(obj.String()), nil
}

// toDisplayString coerces v to a string the way String(v) or implicit
// string concatenation would, invoking toString/valueOf on objects.
func toDisplayString(ev *evaluator.Evaluator, v value.Value) (string, error) {
	prim, err := toPrimitive(ev, v, "string")
	if err != nil {
		return "", err
	}
	return value.ToPrimitiveString(prim), nil
}

// toDisplayNumber coerces v to a number the way Number(v) would,
// invoking valueOf/toString on objects first.
func toDisplayNumber(ev *evaluator.Evaluator, v value.Value) (float64, error) {
	prim, err := toPrimitive(ev, v, "number")
	if err != nil {
		return 0, err
	}
	return value.ToNumber(prim), nil
}
