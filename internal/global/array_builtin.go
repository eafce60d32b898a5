package global

import (
	"sort"
	"strconv"

	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
)

// installArrayBuiltins wires the Array constructor and the core
// Array.prototype methods whose semantics are about index/length
// bookkeeping rather than callback iteration. The callback-driven
// methods (forEach, map, filter, reduce, reduceRight, some, every,
// indexOf, lastIndexOf) are installed separately as ES5-source
// polyfills by installPolyfills, since they are specified in terms of
// repeated ordinary calls a script could have written itself.
func installArrayBuiltins(ev *evaluator.Evaluator, p *protos, sc *scope.Scope) {
	proto := p.array

	proto.DefineOwn("toString", &value.PropertySlot{
		Value: nf(ev, "toString", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			return arrayJoin(ev, this, ",")
		}),
		Flags: value.NonEnumerable,
	})

	proto.DefineOwn("join", &value.PropertySlot{
		Value: nf(ev, "join", 1, func(this value.Value, args []value.Value) (value.Value, error) {
			sep := ","
			if len(args) > 0 {
				if _, isUndef := args[0].(value.Undefined); !isUndef {
					s, err := toDisplayString(ev, args[0])
					if err != nil {
						return nil, err
					}
					sep = s
				}
			}
			return arrayJoin(ev, this, sep)
		}),
		Flags: value.NonEnumerable,
	})

	proto.DefineOwn("push", &value.PropertySlot{
		Value: nf(ev, "push", 1, func(this value.Value, args []value.Value) (value.Value, error) {
			obj, err := arrayReceiver(ev, this)
			if err != nil {
				return nil, err
			}
			n := value.ArrayLength(obj)
			for _, a := range args {
				if _, err := value.SetProperty(obj, strconv.Itoa(n), a, false); err != nil {
					return nil, err
				}
				n++
			}
			return value.Number(n), nil
		}),
		Flags: value.NonEnumerable,
	})

	proto.DefineOwn("pop", &value.PropertySlot{
		Value: nf(ev, "pop", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			obj, err := arrayReceiver(ev, this)
			if err != nil {
				return nil, err
			}
			n := value.ArrayLength(obj)
			if n == 0 {
				return value.Undef, nil
			}
			last := n - 1
			res, err := value.GetProperty(obj, strconv.Itoa(last))
			if err != nil {
				return nil, err
			}
			obj.DeleteOwn(strconv.Itoa(last))
			obj.DefineOwn("length", &value.PropertySlot{Value: value.Number(last), Flags: value.NonEnumerable})
			return res.Value, nil
		}),
		Flags: value.NonEnumerable,
	})

	proto.DefineOwn("shift", &value.PropertySlot{
		Value: nf(ev, "shift", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			obj, err := arrayReceiver(ev, this)
			if err != nil {
				return nil, err
			}
			n := value.ArrayLength(obj)
			if n == 0 {
				return value.Undef, nil
			}
			first, err := value.GetProperty(obj, "0")
			if err != nil {
				return nil, err
			}
			for i := 1; i < n; i++ {
				v, err := value.GetProperty(obj, strconv.Itoa(i))
				if err != nil {
					return nil, err
				}
				if _, err := value.SetProperty(obj, strconv.Itoa(i-1), v.Value, false); err != nil {
					return nil, err
				}
			}
			obj.DeleteOwn(strconv.Itoa(n - 1))
			obj.DefineOwn("length", &value.PropertySlot{Value: value.Number(n - 1), Flags: value.NonEnumerable})
			return first.Value, nil
		}),
		Flags: value.NonEnumerable,
	})

	proto.DefineOwn("unshift", &value.PropertySlot{
		Value: nf(ev, "unshift", 1, func(this value.Value, args []value.Value) (value.Value, error) {
			obj, err := arrayReceiver(ev, this)
			if err != nil {
				return nil, err
			}
			n := value.ArrayLength(obj)
			shift := len(args)
			for i := n - 1; i >= 0; i-- {
				v, err := value.GetProperty(obj, strconv.Itoa(i))
				if err != nil {
					return nil, err
				}
				if _, err := value.SetProperty(obj, strconv.Itoa(i+shift), v.Value, false); err != nil {
					return nil, err
				}
			}
			for i, a := range args {
				if _, err := value.SetProperty(obj, strconv.Itoa(i), a, false); err != nil {
					return nil, err
				}
			}
			return value.Number(n + shift), nil
		}),
		Flags: value.NonEnumerable,
	})

	proto.DefineOwn("reverse", &value.PropertySlot{
		Value: nf(ev, "reverse", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			obj, err := arrayReceiver(ev, this)
			if err != nil {
				return nil, err
			}
			elems := value.ArrayElements(obj)
			for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
				elems[i], elems[j] = elems[j], elems[i]
			}
			for i, v := range elems {
				if _, err := value.SetProperty(obj, strconv.Itoa(i), v, false); err != nil {
					return nil, err
				}
			}
			return obj, nil
		}),
		Flags: value.NonEnumerable,
	})

	proto.DefineOwn("concat", &value.PropertySlot{
		Value: nf(ev, "concat", 1, func(this value.Value, args []value.Value) (value.Value, error) {
			obj, err := arrayReceiver(ev, this)
			if err != nil {
				return nil, err
			}
			out := append([]value.Value{}, value.ArrayElements(obj)...)
			for _, a := range args {
				if arr, ok := a.(*value.Object); ok && arr.Class == "Array" {
					out = append(out, value.ArrayElements(arr)...)
				} else {
					out = append(out, a)
				}
			}
			return value.NewArray(p.array, out), nil
		}),
		Flags: value.NonEnumerable,
	})

	proto.DefineOwn("slice", &value.PropertySlot{
		Value: nf(ev, "slice", 2, func(this value.Value, args []value.Value) (value.Value, error) {
			obj, err := arrayReceiver(ev, this)
			if err != nil {
				return nil, err
			}
			elems := value.ArrayElements(obj)
			start := clampIndex(arg(args, 0), len(elems), 0)
			end := clampIndex(arg(args, 1), len(elems), len(elems))
			if start >= end {
				return value.NewArray(p.array, nil), nil
			}
			return value.NewArray(p.array, append([]value.Value{}, elems[start:end]...)), nil
		}),
		Flags: value.NonEnumerable,
	})

	proto.DefineOwn("splice", &value.PropertySlot{
		Value: nf(ev, "splice", 2, func(this value.Value, args []value.Value) (value.Value, error) {
			obj, err := arrayReceiver(ev, this)
			if err != nil {
				return nil, err
			}
			elems := value.ArrayElements(obj)
			start := clampIndex(arg(args, 0), len(elems), 0)
			deleteCount := len(elems) - start
			if len(args) > 1 {
				n := int(value.ToNumber(args[1]))
				if n < 0 {
					n = 0
				}
				if n < deleteCount {
					deleteCount = n
				}
			}
			removed := append([]value.Value{}, elems[start:start+deleteCount]...)
			var inserted []value.Value
			if len(args) > 2 {
				inserted = args[2:]
			}
			next := append([]value.Value{}, elems[:start]...)
			next = append(next, inserted...)
			next = append(next, elems[start+deleteCount:]...)
			for i := len(next); i < len(elems); i++ {
				obj.DeleteOwn(strconv.Itoa(i))
			}
			for i, v := range next {
				if _, err := value.SetProperty(obj, strconv.Itoa(i), v, false); err != nil {
					return nil, err
				}
			}
			obj.DefineOwn("length", &value.PropertySlot{Value: value.Number(len(next)), Flags: value.NonEnumerable})
			return value.NewArray(p.array, removed), nil
		}),
		Flags: value.NonEnumerable,
	})

	proto.DefineOwn("sort", &value.PropertySlot{
		Value: nf(ev, "sort", 1, func(this value.Value, args []value.Value) (value.Value, error) {
			obj, err := arrayReceiver(ev, this)
			if err != nil {
				return nil, err
			}
			elems := value.ArrayElements(obj)
			var cmp *value.Object
			if fn, ok := arg(args, 0).(*value.Object); ok && value.IsCallable(fn) {
				cmp = fn
			}
			var sortErr error
			sort.SliceStable(elems, func(i, j int) bool {
				if sortErr != nil {
					return false
				}
				if cmp != nil {
					res, err := ev.CallSync(cmp, value.Undef, []value.Value{elems[i], elems[j]})
					if err != nil {
						sortErr = err
						return false
					}
					return value.ToNumber(res) < 0
				}
				si, err := toDisplayString(ev, elems[i])
				if err != nil {
					sortErr = err
					return false
				}
				sj, err := toDisplayString(ev, elems[j])
				if err != nil {
					sortErr = err
					return false
				}
				return si < sj
			})
			if sortErr != nil {
				return nil, sortErr
			}
			for i, v := range elems {
				if _, err := value.SetProperty(obj, strconv.Itoa(i), v, false); err != nil {
					return nil, err
				}
			}
			return obj, nil
		}),
		Flags: value.NonEnumerable,
	})

	ctor := nf(ev, "Array", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 1 {
			if n, ok := args[0].(value.Number); ok {
				ln, ok := func() (int, bool) {
					f := float64(n)
					if f < 0 || f != float64(uint32(f)) {
						return 0, false
					}
					return int(f), true
				}()
				if !ok {
					return nil, typeErrorObj(ev, "Invalid array length")
				}
				obj := value.NewObject(p.array, "Array")
				obj.DefineOwn("length", &value.PropertySlot{Value: value.Number(ln), Flags: value.NonEnumerable})
				return obj, nil
			}
		}
		return value.NewArray(p.array, append([]value.Value{}, args...)), nil
	})
	ctor.DefineOwn("prototype", &value.PropertySlot{Value: proto, Flags: value.NonConfigurableReadOnlyNonEnumerable})
	proto.DefineOwn("constructor", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
	ctor.DefineOwn("isArray", &value.PropertySlot{Value: nf(ev, "isArray", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		obj, ok := arg(args, 0).(*value.Object)
		return value.Boolean(ok && obj.Class == "Array"), nil
	}), Flags: value.NonEnumerable})

	sc.Object.DefineOwn("Array", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
}

func arrayReceiver(ev *evaluator.Evaluator, this value.Value) (*value.Object, error) {
	obj, ok := this.(*value.Object)
	if !ok {
		return nil, typeErrorObj(ev, "Array.prototype method called on a non-object")
	}
	return obj, nil
}

func arrayJoin(ev *evaluator.Evaluator, this value.Value, sep string) (value.Value, error) {
	obj, err := arrayReceiver(ev, this)
	if err != nil {
		return nil, err
	}
	elems := value.ArrayElements(obj)
	out := ""
	for i, v := range elems {
		if i > 0 {
			out += sep
		}
		switch v.(type) {
		case value.Undefined, value.Null, nil:
			continue
		}
		s, err := toDisplayString(ev, v)
		if err != nil {
			return nil, err
		}
		out += s
	}
	return value.String(out), nil
}

// clampIndex resolves a (possibly negative, possibly absent/undefined)
// relative-index argument against length, defaulting to def when v is
// undefined, the way Array.prototype.slice/splice's start/end do.
func clampIndex(v value.Value, length int, def int) int {
	if _, ok := v.(value.Undefined); ok {
		return def
	}
	n := int(value.ToNumber(v))
	if n < 0 {
		n += length
		if n < 0 {
			n = 0
		}
	}
	if n > length {
		n = length
	}
	return n
}
