package global

import (
	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/value"
)

// installObjectBuiltins wires Object.prototype's own methods and the
// Object constructor's static methods, then exposes the constructor on
// the global object.
func installObjectBuiltins(ev *evaluator.Evaluator, p *protos, g *value.Object) {
	proto := p.object

	proto.DefineOwn("toString", &value.PropertySlot{
		Value: nf(ev, "toString", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			class := "Object"
			if obj, ok := this.(*value.Object); ok {
				class = obj.Class
			}
			return value.String("[object " + class + "]"), nil
		}),
		Flags: value.NonEnumerable,
	})
	proto.DefineOwn("valueOf", &value.PropertySlot{
		Value: nf(ev, "valueOf", 0, func(this value.Value, args []value.Value) (value.Value, error) { return this, nil }),
		Flags: value.NonEnumerable,
	})
	proto.DefineOwn("hasOwnProperty", &value.PropertySlot{
		Value: nf(ev, "hasOwnProperty", 1, func(this value.Value, args []value.Value) (value.Value, error) {
			obj, ok := this.(*value.Object)
			if !ok {
				return value.Boolean(false), nil
			}
			return value.Boolean(obj.HasOwn(value.ToPrimitiveString(arg(args, 0)))), nil
		}),
		Flags: value.NonEnumerable,
	})
	proto.DefineOwn("isPrototypeOf", &value.PropertySlot{
		Value: nf(ev, "isPrototypeOf", 1, func(this value.Value, args []value.Value) (value.Value, error) {
			self, ok := this.(*value.Object)
			if !ok {
				return value.Boolean(false), nil
			}
			obj, ok := arg(args, 0).(*value.Object)
			if !ok {
				return value.Boolean(false), nil
			}
			for cur, ok := obj.Proto.(*value.Object); ok; cur, ok = cur.Proto.(*value.Object) {
				if cur == self {
					return value.Boolean(true), nil
				}
			}
			return value.Boolean(false), nil
		}),
		Flags: value.NonEnumerable,
	})
	proto.DefineOwn("propertyIsEnumerable", &value.PropertySlot{
		Value: nf(ev, "propertyIsEnumerable", 1, func(this value.Value, args []value.Value) (value.Value, error) {
			obj, ok := this.(*value.Object)
			if !ok {
				return value.Boolean(false), nil
			}
			slot := obj.OwnSlot(value.ToPrimitiveString(arg(args, 0)))
			return value.Boolean(slot != nil && slot.Flags.Enumerable()), nil
		}),
		Flags: value.NonEnumerable,
	})

	ctor := nf(ev, "Object", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Undef, nil
		}
		if obj, ok := args[0].(*value.Object); ok {
			return obj, nil
		}
		return value.Undef, nil
	})
	ctor.DefineOwn("prototype", &value.PropertySlot{Value: proto, Flags: value.NonConfigurableReadOnlyNonEnumerable})
	proto.DefineOwn("constructor", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})

	ctor.DefineOwn("keys", &value.PropertySlot{Value: nf(ev, "keys", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		obj, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, typeErrorObj(ev, "Object.keys called on non-object")
		}
		keys := obj.OwnKeys(false)
		elems := make([]value.Value, len(keys))
		for i, k := range keys {
			elems[i] = value.String(k)
		}
		return value.NewArray(p.array, elems), nil
	}), Flags: value.NonEnumerable})

	ctor.DefineOwn("getOwnPropertyNames", &value.PropertySlot{Value: nf(ev, "getOwnPropertyNames", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		obj, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, typeErrorObj(ev, "Object.getOwnPropertyNames called on non-object")
		}
		keys := obj.OwnKeys(true)
		elems := make([]value.Value, len(keys))
		for i, k := range keys {
			elems[i] = value.String(k)
		}
		return value.NewArray(p.array, elems), nil
	}), Flags: value.NonEnumerable})

	ctor.DefineOwn("getOwnPropertyDescriptor", &value.PropertySlot{Value: nf(ev, "getOwnPropertyDescriptor", 2, func(this value.Value, args []value.Value) (value.Value, error) {
		obj, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, typeErrorObj(ev, "Object.getOwnPropertyDescriptor called on non-object")
		}
		slot := obj.OwnSlot(value.ToPrimitiveString(arg(args, 1)))
		if slot == nil {
			return value.Undef, nil
		}
		desc := value.NewObject(p.object, "Object")
		if slot.IsAccessor() {
			desc.DefineOwn("get", &value.PropertySlot{Value: accessorOrUndef(slot.Get), Flags: value.Variable})
			desc.DefineOwn("set", &value.PropertySlot{Value: accessorOrUndef(slot.Set), Flags: value.Variable})
		} else {
			desc.DefineOwn("value", &value.PropertySlot{Value: slot.Value, Flags: value.Variable})
			desc.DefineOwn("writable", &value.PropertySlot{Value: value.Boolean(slot.Flags.Writable()), Flags: value.Variable})
		}
		desc.DefineOwn("enumerable", &value.PropertySlot{Value: value.Boolean(slot.Flags.Enumerable()), Flags: value.Variable})
		desc.DefineOwn("configurable", &value.PropertySlot{Value: value.Boolean(slot.Flags.Configurable()), Flags: value.Variable})
		return desc, nil
	}), Flags: value.NonEnumerable})

	ctor.DefineOwn("defineProperty", &value.PropertySlot{Value: nf(ev, "defineProperty", 3, func(this value.Value, args []value.Value) (value.Value, error) {
		obj, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, typeErrorObj(ev, "Object.defineProperty called on non-object")
		}
		name := value.ToPrimitiveString(arg(args, 1))
		descObj, ok := arg(args, 2).(*value.Object)
		if !ok {
			return nil, typeErrorObj(ev, "Property description must be an object")
		}
		if err := applyDescriptor(obj, name, descObj); err != nil {
			return nil, err
		}
		return obj, nil
	}), Flags: value.NonEnumerable})

	ctor.DefineOwn("defineProperties", &value.PropertySlot{Value: nf(ev, "defineProperties", 2, func(this value.Value, args []value.Value) (value.Value, error) {
		obj, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, typeErrorObj(ev, "Object.defineProperties called on non-object")
		}
		props, ok := arg(args, 1).(*value.Object)
		if !ok {
			return nil, typeErrorObj(ev, "Properties must be an object")
		}
		for _, name := range props.OwnKeys(false) {
			descObj, ok := props.OwnSlot(name).Value.(*value.Object)
			if !ok {
				continue
			}
			if err := applyDescriptor(obj, name, descObj); err != nil {
				return nil, err
			}
		}
		return obj, nil
	}), Flags: value.NonEnumerable})

	ctor.DefineOwn("create", &value.PropertySlot{Value: nf(ev, "create", 2, func(this value.Value, args []value.Value) (value.Value, error) {
		var proto value.Value = value.NullVal
		switch t := arg(args, 0).(type) {
		case *value.Object:
			proto = t
		case value.Null:
			proto = value.NullVal
		default:
			return nil, typeErrorObj(ev, "Object prototype may only be an Object or null")
		}
		obj := value.NewObject(proto, "Object")
		if props, ok := arg(args, 1).(*value.Object); ok {
			for _, name := range props.OwnKeys(false) {
				descObj, ok := props.OwnSlot(name).Value.(*value.Object)
				if !ok {
					continue
				}
				if err := applyDescriptor(obj, name, descObj); err != nil {
					return nil, err
				}
			}
		}
		return obj, nil
	}), Flags: value.NonEnumerable})

	ctor.DefineOwn("freeze", &value.PropertySlot{Value: nf(ev, "freeze", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		obj, ok := arg(args, 0).(*value.Object)
		if !ok {
			return arg(args, 0), nil
		}
		obj.PreventExtensions = true
		for _, name := range obj.OwnKeys(true) {
			slot := obj.OwnSlot(name)
			if !slot.IsAccessor() {
				slot.Flags = value.NonConfigurableReadOnlyNonEnumerable | (slot.Flags & value.FlagEnumerable)
			}
		}
		return obj, nil
	}), Flags: value.NonEnumerable})

	ctor.DefineOwn("isFrozen", &value.PropertySlot{Value: nf(ev, "isFrozen", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		obj, ok := arg(args, 0).(*value.Object)
		if !ok {
			return value.Boolean(true), nil
		}
		if !obj.PreventExtensions {
			return value.Boolean(false), nil
		}
		for _, name := range obj.OwnKeys(true) {
			slot := obj.OwnSlot(name)
			if !slot.IsAccessor() && (slot.Flags.Writable() || slot.Flags.Configurable()) {
				return value.Boolean(false), nil
			}
		}
		return value.Boolean(true), nil
	}), Flags: value.NonEnumerable})

	ctor.DefineOwn("preventExtensions", &value.PropertySlot{Value: nf(ev, "preventExtensions", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		obj, ok := arg(args, 0).(*value.Object)
		if ok {
			obj.PreventExtensions = true
		}
		return arg(args, 0), nil
	}), Flags: value.NonEnumerable})

	g.DefineOwn("Object", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
}

func accessorOrUndef(fn *value.Object) value.Value {
	if fn == nil {
		return value.Undef
	}
	return fn
}

func applyDescriptor(obj *value.Object, name string, descObj *value.Object) error {
	var get, set *value.Object
	hasValue := false
	var val value.Value = value.Undef
	flags := value.NonConfigurableReadOnlyNonEnumerable

	if descObj.HasOwn("value") {
		hasValue = true
		val = descObj.OwnSlot("value").Value
	}
	if descObj.HasOwn("get") {
		if fn, ok := descObj.OwnSlot("get").Value.(*value.Object); ok {
			get = fn
		}
	}
	if descObj.HasOwn("set") {
		if fn, ok := descObj.OwnSlot("set").Value.(*value.Object); ok {
			set = fn
		}
	}
	var bits value.PropertyFlags
	if truthySlot(descObj, "writable") {
		bits |= value.FlagWritable
	}
	if truthySlot(descObj, "enumerable") {
		bits |= value.FlagEnumerable
	}
	if truthySlot(descObj, "configurable") {
		bits |= value.FlagConfigurable
	}
	flags = bits
	return value.DefineProperty(obj, name, val, get, set, flags, hasValue)
}

func truthySlot(obj *value.Object, name string) bool {
	slot := obj.OwnSlot(name)
	return slot != nil && value.ToBoolean(slot.Value)
}

// typeErrorObj builds a TypeError instance and wraps it as a
// *evaluator.ThrownValue, the carrier invokeState's native-call path
// recognizes so the exact constructed error instance (not a re-wrapped
// generic Error) is what interpreted code catches.
func typeErrorObj(ev *evaluator.Evaluator, msg string) error {
	return &evaluator.ThrownValue{Value: ev.MakeError("TypeError", msg)}
}
