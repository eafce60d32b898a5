package value

import (
	"strconv"
)

// GetResult is the outcome of GetProperty: either a resolved value or a
// pending getter trap the evaluator must invoke and resume through.
type GetResult struct {
	Value    Value
	Accessor *AccessorResult
}

// GetProperty walks the prototype chain,
// honoring string/array special cases, and surface a getter trap instead
// of a value when one is installed.
func GetProperty(receiver Value, name string) (GetResult, error) {
	switch t := receiver.(type) {
	case Undefined:
		return GetResult{}, typeError("Cannot read property '%s' of undefined", name)
	case Null:
		return GetResult{}, typeError("Cannot read property '%s' of null", name)
	case String:
		if name == "length" {
			return GetResult{Value: Number(len(t))}, nil
		}
		if idx, ok := arrayIndex(name); ok && idx < len(t) {
			return GetResult{Value: String(t[idx])}, nil
		}
		return GetResult{Value: Undef}, nil
	}

	obj, ok := receiver.(*Object)
	if !ok {
		return GetResult{Value: Undef}, nil
	}

	if obj.Class == "String" {
		if s, ok := obj.Data.(string); ok {
			if name == "length" {
				return GetResult{Value: Number(len(s))}, nil
			}
			if idx, ok := arrayIndex(name); ok && idx < len(s) {
				return GetResult{Value: String(s[idx])}, nil
			}
		}
	}

	for cur := obj; cur != nil; {
		if slot := cur.OwnSlot(name); slot != nil {
			if slot.IsAccessor() {
				if slot.Get == nil {
					return GetResult{Value: Undef}, nil
				}
				return GetResult{Accessor: &AccessorResult{Fn: slot.Get, This: receiver}}, nil
			}
			return GetResult{Value: slot.Value}, nil
		}
		next, ok := cur.Proto.(*Object)
		if !ok {
			break
		}
		cur = next
	}
	return GetResult{Value: Undef}, nil
}

// SetOutcome tells the caller what happened so the evaluator can decide
// whether to invoke a setter trap, re-raise a strict-mode error, or
// silently ignore a loose-mode failure.
type SetOutcome struct {
	Accessor *AccessorResult
	Ignored  bool // silent no-op in loose mode
}

// SetProperty assigns through the property protocol without an explicit descriptor
// (the plain assignment path). strict controls whether otherwise-silent
// failures become TypeErrors.
func SetProperty(receiver Value, name string, v Value, strict bool) (SetOutcome, error) {
	switch receiver.(type) {
	case Undefined:
		return SetOutcome{}, typeError("Cannot set property '%s' of undefined", name)
	case Null:
		return SetOutcome{}, typeError("Cannot set property '%s' of null", name)
	}

	obj, ok := receiver.(*Object)
	if !ok {
		// Primitive receiver (Number/Boolean/String): writes are no-ops.
		return SetOutcome{Ignored: true}, nil
	}

	if obj.Class == "String" {
		if name == "length" {
			if strict {
				return SetOutcome{}, typeError("Cannot assign to read only property 'length' of String")
			}
			return SetOutcome{Ignored: true}, nil
		}
		if _, ok := arrayIndex(name); ok {
			if strict {
				return SetOutcome{}, typeError("Cannot assign to read only property '%s' of String", name)
			}
			return SetOutcome{Ignored: true}, nil
		}
	}

	if name == "length" && obj.Class == "Array" {
		n, ok := toArrayLength(v)
		if !ok {
			return SetOutcome{}, rangeError("Invalid array length")
		}
		setArrayLength(obj, n)
		return SetOutcome{}, nil
	}

	// Walk the chain looking for an inherited accessor or a read-only
	// own slot before falling back to a direct write on the receiver.
	for cur := obj; cur != nil; {
		if slot := cur.OwnSlot(name); slot != nil {
			if slot.IsAccessor() {
				if slot.Set == nil {
					if strict {
						return SetOutcome{}, typeError("Cannot set property '%s' which has only a getter", name)
					}
					return SetOutcome{Ignored: true}, nil
				}
				return SetOutcome{Accessor: &AccessorResult{Fn: slot.Set, This: receiver, Args: []Value{v}}}, nil
			}
			if cur == obj {
				if !slot.Flags.Writable() {
					if strict {
						return SetOutcome{}, typeError("Cannot assign to read only property '%s'", name)
					}
					return SetOutcome{Ignored: true}, nil
				}
				slot.Value = v
				if obj.Class == "Array" {
					bumpArrayLength(obj, name)
				}
				return SetOutcome{}, nil
			}
			// Inherited data property: writable on the prototype does not
			// block an own write on the receiver (ES5 semantics), unless
			// the inherited property is non-writable.
			if !slot.Flags.Writable() {
				if strict {
					return SetOutcome{}, typeError("Cannot assign to read only property '%s'", name)
				}
				return SetOutcome{Ignored: true}, nil
			}
			break
		}
		next, ok := cur.Proto.(*Object)
		if !ok {
			break
		}
		cur = next
	}

	if obj.PreventExtensions && !obj.HasOwn(name) {
		if strict {
			return SetOutcome{}, typeError("Cannot add property %s, object is not extensible", name)
		}
		return SetOutcome{Ignored: true}, nil
	}

	obj.DefineOwn(name, &PropertySlot{Value: v, Flags: Variable})
	if obj.Class == "Array" {
		bumpArrayLength(obj, name)
	}
	return SetOutcome{}, nil
}

// DefineProperty implements the explicit-descriptor path of the property protocol
// setProperty: compose the effective descriptor, reject incompatible
// redefinitions of non-configurable properties, and install
// getter/setter entries.
func DefineProperty(obj *Object, name string, value Value, get, set *Object, flags PropertyFlags, hasValue bool) error {
	existing := obj.OwnSlot(name)
	if (get != nil || set != nil) && hasValue {
		return typeError("Invalid property descriptor: cannot mix accessor and data attributes for '%s'", name)
	}
	if existing != nil && !existing.Flags.Configurable() {
		if existing.IsAccessor() != (get != nil || set != nil) {
			return typeError("Cannot redefine property: %s", name)
		}
		if !existing.IsAccessor() && !existing.Flags.Writable() && hasValue {
			return typeError("Cannot redefine property: %s", name)
		}
	}
	if existing == nil && obj.PreventExtensions {
		return typeError("Cannot define property %s, object is not extensible", name)
	}
	slot := &PropertySlot{Flags: flags}
	if get != nil || set != nil {
		slot.Get, slot.Set = get, set
	} else if hasValue {
		slot.Value = value
	} else if existing != nil {
		slot.Value = existing.Value
		slot.Get, slot.Set = existing.Get, existing.Set
	}
	obj.DefineOwn(name, slot)
	if obj.Class == "Array" {
		bumpArrayLength(obj, name)
	}
	return nil
}

func arrayIndex(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	n, err := strconv.Atoi(name)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func toArrayLength(v Value) (uint32, bool) {
	switch t := v.(type) {
	case Number:
		f := float64(t)
		if f < 0 || f != float64(uint32(f)) {
			return 0, false
		}
		return uint32(f), true
	default:
		return 0, false
	}
}

// currentLength reads the cached integer length slot.
func currentLength(obj *Object) uint32 {
	slot := obj.OwnSlot("length")
	if slot == nil {
		return 0
	}
	if n, ok := slot.Value.(Number); ok && float64(n) >= 0 {
		return uint32(n)
	}
	return 0
}

// bumpArrayLength keeps length in sync after an indexed write: length
// lifts to max(length, i+1) whenever an integer-indexed own key is set.
func bumpArrayLength(obj *Object, name string) {
	idx, ok := arrayIndex(name)
	if !ok {
		return
	}
	cur := currentLength(obj)
	if uint32(idx)+1 > cur {
		obj.DefineOwn("length", &PropertySlot{Value: Number(idx + 1), Flags: NonEnumerable})
	}
}

// setArrayLength implements the other half of the length contract: writing
// length=n deletes indices >= n.
func setArrayLength(obj *Object, n uint32) {
	cur := currentLength(obj)
	if n < cur {
		for i := n; i < cur; i++ {
			obj.DeleteOwn(strconv.FormatUint(uint64(i), 10))
		}
	}
	obj.DefineOwn("length", &PropertySlot{Value: Number(n), Flags: NonEnumerable})
}
