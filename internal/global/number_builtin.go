package global

import (
	"math"
	"strconv"

	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/value"
)

func installNumberBuiltins(ev *evaluator.Evaluator, p *protos, g *value.Object) {
	proto := p.number

	method := func(name string, length int, fn value.NativeFunc) {
		proto.DefineOwn(name, &value.PropertySlot{Value: nf(ev, name, length, fn), Flags: value.NonEnumerable})
	}

	method("toString", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		n, err := numberReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		radix := 10
		if len(args) > 0 {
			if _, isUndef := args[0].(value.Undefined); !isUndef {
				radix = int(value.ToNumber(args[0]))
			}
		}
		if radix == 10 {
			return value.String(value.Number(n).String()), nil
		}
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return value.String(value.Number(n).String()), nil
		}
		return value.String(strconv.FormatInt(int64(n), radix)), nil
	})
	method("valueOf", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		n, err := numberReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.Number(n), nil
	})
	method("toFixed", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		n, err := numberReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		digits := int(value.ToNumber(arg(args, 0)))
		if digits < 0 {
			digits = 0
		}
		return value.String(strconv.FormatFloat(n, 'f', digits, 64)), nil
	})
	method("toPrecision", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		n, err := numberReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		if _, isUndef := arg(args, 0).(value.Undefined); isUndef {
			return value.String(value.Number(n).String()), nil
		}
		prec := int(value.ToNumber(args[0]))
		return value.String(strconv.FormatFloat(n, 'g', prec, 64)), nil
	})

	ctor := nf(ev, "Number", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		n := 0.0
		if len(args) > 0 {
			v, err := toDisplayNumber(ev, args[0])
			if err != nil {
				return nil, err
			}
			n = v
		}
		if obj, ok := this.(*value.Object); ok && obj.Class == "Number" && obj.Proto == proto {
			obj.Data = n
			return obj, nil
		}
		return value.Number(n), nil
	})
	ctor.DefineOwn("prototype", &value.PropertySlot{Value: proto, Flags: value.NonConfigurableReadOnlyNonEnumerable})
	proto.DefineOwn("constructor", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
	ctor.DefineOwn("MAX_VALUE", &value.PropertySlot{Value: value.Number(math.MaxFloat64), Flags: value.NonConfigurableReadOnlyNonEnumerable})
	ctor.DefineOwn("MIN_VALUE", &value.PropertySlot{Value: value.Number(math.SmallestNonzeroFloat64), Flags: value.NonConfigurableReadOnlyNonEnumerable})
	ctor.DefineOwn("NaN", &value.PropertySlot{Value: value.Number(math.NaN()), Flags: value.NonConfigurableReadOnlyNonEnumerable})
	ctor.DefineOwn("POSITIVE_INFINITY", &value.PropertySlot{Value: value.Number(math.Inf(1)), Flags: value.NonConfigurableReadOnlyNonEnumerable})
	ctor.DefineOwn("NEGATIVE_INFINITY", &value.PropertySlot{Value: value.Number(math.Inf(-1)), Flags: value.NonConfigurableReadOnlyNonEnumerable})
	g.DefineOwn("Number", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
}

func numberReceiver(ev *evaluator.Evaluator, this value.Value) (float64, error) {
	switch t := this.(type) {
	case value.Number:
		return float64(t), nil
	case *value.Object:
		if t.Class == "Number" {
			if n, ok := t.Data.(float64); ok {
				return n, nil
			}
		}
	}
	return 0, typeErrorObj(ev, "Number.prototype method called on a non-number")
}
