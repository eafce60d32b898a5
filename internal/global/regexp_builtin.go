package global

import (
	"context"
	"errors"

	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/jsregexp"
	"github.com/es5box/es5box/internal/value"
)

// installRegexp builds the RegExp constructor/prototype and wires
// ev.NewRegexp, the factory the evaluator calls for /pattern/flags
// literals, so literal and `new RegExp(...)` construction share one
// path through the injected isolation backend.
func installRegexp(ev *evaluator.Evaluator, p *protos, g *value.Object, backend jsregexp.Backend) {
	proto := value.NewObject(p.object, "RegExp")
	p.regexp = proto

	makeRegexp := func(pattern, flags string) (*value.Object, error) {
		prog, err := backend.Compile(pattern, flags)
		if err != nil {
			kind := "SyntaxError"
			if errors.Is(err, jsregexp.ErrDisabled) {
				kind = "Error"
			}
			return nil, &evaluator.ThrownValue{Value: ev.MakeError(kind, err.Error())}
		}
		obj := value.NewObject(proto, "RegExp")
		obj.Data = prog
		obj.DefineOwn("source", &value.PropertySlot{Value: value.String(prog.Source()), Flags: value.NonConfigurableReadOnlyNonEnumerable})
		obj.DefineOwn("global", &value.PropertySlot{Value: value.Boolean(prog.Global()), Flags: value.NonConfigurableReadOnlyNonEnumerable})
		obj.DefineOwn("ignoreCase", &value.PropertySlot{Value: value.Boolean(prog.IgnoreCase()), Flags: value.NonConfigurableReadOnlyNonEnumerable})
		obj.DefineOwn("multiline", &value.PropertySlot{Value: value.Boolean(prog.Multiline()), Flags: value.NonConfigurableReadOnlyNonEnumerable})
		obj.DefineOwn("lastIndex", &value.PropertySlot{Value: value.Number(0), Flags: value.NonEnumerable})
		return obj, nil
	}
	ev.NewRegexp = makeRegexp

	proto.DefineOwn("exec", &value.PropertySlot{
		Value: nf(ev, "exec", 1, func(this value.Value, args []value.Value) (value.Value, error) {
			obj, prog, err := regexpReceiver(ev, this)
			if err != nil {
				return nil, err
			}
			subject, err := toDisplayString(ev, arg(args, 0))
			if err != nil {
				return nil, err
			}
			from := 0
			if prog.Global() {
				from = int(currentLastIndex(obj))
			}
			if from < 0 || from > len(subject) {
				obj.DefineOwn("lastIndex", &value.PropertySlot{Value: value.Number(0), Flags: value.NonEnumerable})
				return value.NullVal, nil
			}
			m, found, err := prog.Exec(context.Background(), subject, from)
			if err != nil {
				return nil, regexpExecError(ev, err)
			}
			if !found {
				if prog.Global() {
					obj.DefineOwn("lastIndex", &value.PropertySlot{Value: value.Number(0), Flags: value.NonEnumerable})
				}
				return value.NullVal, nil
			}
			if prog.Global() {
				obj.DefineOwn("lastIndex", &value.PropertySlot{Value: value.Number(m.Index + m.Length), Flags: value.NonEnumerable})
			}
			return matchResultArray(p, m, subject), nil
		}),
		Flags: value.NonEnumerable,
	})

	proto.DefineOwn("test", &value.PropertySlot{
		Value: nf(ev, "test", 1, func(this value.Value, args []value.Value) (value.Value, error) {
			obj, prog, err := regexpReceiver(ev, this)
			if err != nil {
				return nil, err
			}
			subject, err := toDisplayString(ev, arg(args, 0))
			if err != nil {
				return nil, err
			}
			from := 0
			if prog.Global() {
				from = int(currentLastIndex(obj))
			}
			if from < 0 || from > len(subject) {
				obj.DefineOwn("lastIndex", &value.PropertySlot{Value: value.Number(0), Flags: value.NonEnumerable})
				return value.Boolean(false), nil
			}
			m, found, err := prog.Exec(context.Background(), subject, from)
			if err != nil {
				return nil, regexpExecError(ev, err)
			}
			if prog.Global() {
				if found {
					obj.DefineOwn("lastIndex", &value.PropertySlot{Value: value.Number(m.Index + m.Length), Flags: value.NonEnumerable})
				} else {
					obj.DefineOwn("lastIndex", &value.PropertySlot{Value: value.Number(0), Flags: value.NonEnumerable})
				}
			}
			return value.Boolean(found), nil
		}),
		Flags: value.NonEnumerable,
	})

	proto.DefineOwn("toString", &value.PropertySlot{
		Value: nf(ev, "toString", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			_, prog, err := regexpReceiver(ev, this)
			if err != nil {
				return nil, err
			}
			return value.String("/" + prog.Source() + "/" + prog.Flags()), nil
		}),
		Flags: value.NonEnumerable,
	})

	ctor := nf(ev, "RegExp", 2, func(this value.Value, args []value.Value) (value.Value, error) {
		if obj, ok := arg(args, 0).(*value.Object); ok && obj.Class == "RegExp" {
			if _, isUndef := arg(args, 1).(value.Undefined); isUndef {
				if prog, ok := obj.Data.(jsregexp.Program); ok {
					return makeRegexp(prog.Source(), prog.Flags())
				}
			}
		}
		pattern := ""
		if _, isUndef := arg(args, 0).(value.Undefined); !isUndef {
			s, err := toDisplayString(ev, arg(args, 0))
			if err != nil {
				return nil, err
			}
			pattern = s
		}
		flags := ""
		if _, isUndef := arg(args, 1).(value.Undefined); !isUndef {
			s, err := toDisplayString(ev, arg(args, 1))
			if err != nil {
				return nil, err
			}
			flags = s
		}
		return makeRegexp(pattern, flags)
	})
	ctor.DefineOwn("prototype", &value.PropertySlot{Value: proto, Flags: value.NonConfigurableReadOnlyNonEnumerable})
	proto.DefineOwn("constructor", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
	g.DefineOwn("RegExp", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
}

func regexpReceiver(ev *evaluator.Evaluator, this value.Value) (*value.Object, jsregexp.Program, error) {
	obj, ok := this.(*value.Object)
	if !ok || obj.Class != "RegExp" {
		return nil, nil, typeErrorObj(ev, "RegExp.prototype method called on a non-RegExp")
	}
	prog, ok := obj.Data.(jsregexp.Program)
	if !ok {
		return nil, nil, typeErrorObj(ev, "RegExp object missing its compiled program")
	}
	return obj, prog, nil
}

func currentLastIndex(obj *value.Object) float64 {
	slot := obj.OwnSlot("lastIndex")
	if slot == nil {
		return 0
	}
	if n, ok := slot.Value.(value.Number); ok {
		return float64(n)
	}
	return 0
}

func regexpExecError(ev *evaluator.Evaluator, err error) error {
	if _, ok := err.(*jsregexp.ErrTimeout); ok {
		return &evaluator.ThrownValue{Value: ev.MakeError("RangeError", err.Error())}
	}
	return err
}

// matchResultArray builds the Array RegExp.prototype.exec/String.match
// return: index 0..n are the full match and capture groups, plus the
// non-index own properties `index` and `input` ES5 specifies.
func matchResultArray(p *protos, m jsregexp.Match, subject string) *value.Object {
	elems := make([]value.Value, 0, len(m.Groups)+1)
	elems = append(elems, value.String(subject[m.Index:m.Index+m.Length]))
	for _, grp := range m.Groups[1:] {
		if !grp.Matched {
			elems = append(elems, value.Undef)
			continue
		}
		elems = append(elems, value.String(grp.Text))
	}
	arr := value.NewArray(p.array, elems)
	arr.DefineOwn("index", &value.PropertySlot{Value: value.Number(m.Index), Flags: value.Variable})
	arr.DefineOwn("input", &value.PropertySlot{Value: value.String(subject), Flags: value.Variable})
	return arr
}
