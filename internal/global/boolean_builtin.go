package global

import (
	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/value"
)

func installBooleanBuiltins(ev *evaluator.Evaluator, p *protos, g *value.Object) {
	proto := p.boolean

	proto.DefineOwn("toString", &value.PropertySlot{
		Value: nf(ev, "toString", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			b, err := booleanReceiver(ev, this)
			if err != nil {
				return nil, err
			}
			return value.String(value.Boolean(b).String()), nil
		}),
		Flags: value.NonEnumerable,
	})
	proto.DefineOwn("valueOf", &value.PropertySlot{
		Value: nf(ev, "valueOf", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			b, err := booleanReceiver(ev, this)
			if err != nil {
				return nil, err
			}
			return value.Boolean(b), nil
		}),
		Flags: value.NonEnumerable,
	})

	ctor := nf(ev, "Boolean", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		b := value.ToBoolean(arg(args, 0))
		if obj, ok := this.(*value.Object); ok && obj.Class == "Boolean" && obj.Proto == proto {
			obj.Data = b
			return obj, nil
		}
		return value.Boolean(b), nil
	})
	ctor.DefineOwn("prototype", &value.PropertySlot{Value: proto, Flags: value.NonConfigurableReadOnlyNonEnumerable})
	proto.DefineOwn("constructor", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
	g.DefineOwn("Boolean", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
}

func booleanReceiver(ev *evaluator.Evaluator, this value.Value) (bool, error) {
	switch t := this.(type) {
	case value.Boolean:
		return bool(t), nil
	case *value.Object:
		if t.Class == "Boolean" {
			if b, ok := t.Data.(bool); ok {
				return b, nil
			}
		}
	}
	return false, typeErrorObj(ev, "Boolean.prototype method called on a non-boolean")
}
