package global

import (
	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/jsonvalue"
	"github.com/es5box/es5box/internal/value"
)

// installJSON wires the JSON object around internal/jsonvalue, the
// package that owns the actual grammar. Reviver/replacer callbacks are
// invoked through CallSync, the same mechanism Function.prototype.call
// uses, since JSON.parse/stringify are native Go and cannot otherwise
// re-enter the step machine to run interpreted code mid-walk.
func installJSON(ev *evaluator.Evaluator, p *protos, g *value.Object) {
	j := value.NewObject(p.object, "Object")

	j.DefineOwn("parse", &value.PropertySlot{
		Value: nf(ev, "parse", 2, func(this value.Value, args []value.Value) (value.Value, error) {
			text, err := toDisplayString(ev, arg(args, 0))
			if err != nil {
				return nil, err
			}
			tree, err := jsonvalue.Parse(text)
			if err != nil {
				return nil, &evaluator.ThrownValue{Value: ev.MakeError("SyntaxError", err.Error())}
			}
			result := jsonToInterpreted(p, tree)
			if reviver, ok := arg(args, 1).(*value.Object); ok && value.IsCallable(reviver) {
				holder := value.NewObject(p.object, "Object")
				holder.DefineOwn("", &value.PropertySlot{Value: result, Flags: value.Variable})
				revived, err := reviveWalk(ev, reviver, holder, "")
				if err != nil {
					return nil, err
				}
				return revived, nil
			}
			return result, nil
		}),
		Flags: value.NonEnumerable,
	})

	j.DefineOwn("stringify", &value.PropertySlot{
		Value: nf(ev, "stringify", 3, func(this value.Value, args []value.Value) (value.Value, error) {
			replacer, _ := arg(args, 1).(*value.Object)
			indent := ""
			switch t := arg(args, 2).(type) {
			case value.Number:
				n := int(t)
				if n > 10 {
					n = 10
				}
				for i := 0; i < n; i++ {
					indent += " "
				}
			case value.String:
				indent = string(t)
			}
			tree, err := interpretedToJSON(ev, replacer, arg(args, 0))
			if err != nil {
				return nil, err
			}
			if tree == nil {
				return value.Undef, nil
			}
			return value.String(jsonvalue.Stringify(tree, indent)), nil
		}),
		Flags: value.NonEnumerable,
	})

	g.DefineOwn("JSON", &value.PropertySlot{Value: j, Flags: value.NonEnumerable})
}

func jsonToInterpreted(p *protos, v *jsonvalue.Value) value.Value {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return value.NullVal
	case jsonvalue.KindBoolean:
		return value.Boolean(v.BoolValue())
	case jsonvalue.KindNumber:
		return value.Number(v.NumberValue())
	case jsonvalue.KindString:
		return value.String(v.StringValue())
	case jsonvalue.KindArray:
		elems := v.ArrayElements()
		out := make([]value.Value, len(elems))
		for i, el := range elems {
			out[i] = jsonToInterpreted(p, el)
		}
		return value.NewArray(p.array, out)
	case jsonvalue.KindObject:
		obj := value.NewObject(p.object, "Object")
		for _, k := range v.ObjectKeys() {
			obj.DefineOwn(k, &value.PropertySlot{Value: jsonToInterpreted(p, v.ObjectGet(k)), Flags: value.Variable})
		}
		return obj
	default:
		return value.NullVal
	}
}

// reviveWalk implements JSON.parse's reviver pass: walk holder[name]
// bottom-up, replacing each value with reviver.call(holder, name, value).
func reviveWalk(ev *evaluator.Evaluator, reviver *value.Object, holder *value.Object, name string) (value.Value, error) {
	res, err := value.GetProperty(holder, name)
	if err != nil {
		return nil, err
	}
	val := res.Value
	if obj, ok := val.(*value.Object); ok {
		if obj.Class == "Array" {
			n := value.ArrayLength(obj)
			for i := 0; i < n; i++ {
				idx := itoaIndex(i)
				next, err := reviveWalk(ev, reviver, obj, idx)
				if err != nil {
					return nil, err
				}
				if _, isUndef := next.(value.Undefined); isUndef {
					obj.DeleteOwn(idx)
				} else if _, err := value.SetProperty(obj, idx, next, false); err != nil {
					return nil, err
				}
			}
		} else {
			for _, k := range obj.OwnKeys(false) {
				next, err := reviveWalk(ev, reviver, obj, k)
				if err != nil {
					return nil, err
				}
				if _, isUndef := next.(value.Undefined); isUndef {
					obj.DeleteOwn(k)
				} else if _, err := value.SetProperty(obj, k, next, false); err != nil {
					return nil, err
				}
			}
		}
	}
	return ev.CallSync(reviver, holder, []value.Value{value.String(name), val})
}

func itoaIndex(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// interpretedToJSON implements JSON.stringify's tree-walk, applying
// toJSON/replacer conventions and rejecting functions/undefined inside
// objects by omission rather than error, per the JSON.stringify spec.
func interpretedToJSON(ev *evaluator.Evaluator, replacer *value.Object, v value.Value) (*jsonvalue.Value, error) {
	if obj, ok := v.(*value.Object); ok {
		if res, err := value.GetProperty(obj, "toJSON"); err == nil {
			if fn, ok := res.Value.(*value.Object); ok && value.IsCallable(fn) {
				out, err := ev.CallSync(fn, obj, nil)
				if err != nil {
					return nil, err
				}
				return interpretedToJSON(ev, replacer, out)
			}
		}
	}

	switch t := v.(type) {
	case value.Undefined:
		return nil, nil
	case value.Null:
		return jsonvalue.NewNull(), nil
	case value.Boolean:
		return jsonvalue.NewBoolean(bool(t)), nil
	case value.Number:
		return jsonvalue.NewNumber(float64(t)), nil
	case value.String:
		return jsonvalue.NewString(string(t)), nil
	case *value.Object:
		if value.IsCallable(t) {
			return nil, nil
		}
		if t.Class == "Array" {
			elems := value.ArrayElements(t)
			arr := jsonvalue.NewArray()
			for _, el := range elems {
				child, err := interpretedToJSON(ev, replacer, el)
				if err != nil {
					return nil, err
				}
				if child == nil {
					child = jsonvalue.NewNull()
				}
				arr.ArrayAppend(child)
			}
			return arr, nil
		}
		obj := jsonvalue.NewObject()
		for _, k := range t.OwnKeys(false) {
			propRes, err := value.GetProperty(t, k)
			if err != nil {
				return nil, err
			}
			propVal := propRes.Value
			if replacer != nil {
				propVal, err = ev.CallSync(replacer, t, []value.Value{value.String(k), propVal})
				if err != nil {
					return nil, err
				}
			}
			child, err := interpretedToJSON(ev, replacer, propVal)
			if err != nil {
				return nil, err
			}
			if child == nil {
				continue
			}
			obj.ObjectSet(k, child)
		}
		return obj, nil
	default:
		return nil, nil
	}
}
