// Package bridge implements the host↔interpreted value bridge: wrapping
// a host Go function as a callable interpreted Object (with a stable
// NativeID for debug/cycle tracking), and the two copy-conversion
// functions (NativeToPseudo/PseudoToNative) that cross the boundary
// without ever sharing a single Object between the two worlds.
package bridge

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/es5box/es5box/internal/value"
)

var nextNativeID int64

// NewNativeFunction wraps fn as a synchronously-callable interpreted
// Function object: the "length" and "name" properties mirror what
// makeFunctionObject installs for interpreted closures, so host-provided
// and script-provided functions look the same to introspection.
func NewNativeFunction(proto value.Value, name string, length int, fn value.NativeFunc) *value.Object {
	obj := value.NewObject(proto, "Function")
	obj.Native = fn
	obj.FunctionName = name
	nextNativeID++
	obj.NativeID = nextNativeID
	obj.DefineOwn("length", &value.PropertySlot{Value: value.Number(length), Flags: value.ReadOnlyNonEnumerable})
	obj.DefineOwn("name", &value.PropertySlot{Value: value.String(name), Flags: value.ReadOnlyNonEnumerable})
	return obj
}

// NewAsyncFunction wraps fn as a callable that suspends the evaluator
// until resume is invoked — used for host calls that themselves need to
// do I/O or otherwise can't resolve within a single synchronous Go call.
func NewAsyncFunction(proto value.Value, name string, length int, fn value.AsyncFunc) *value.Object {
	obj := value.NewObject(proto, "Function")
	obj.Async = fn
	obj.FunctionName = name
	nextNativeID++
	obj.NativeID = nextNativeID
	obj.DefineOwn("length", &value.PropertySlot{Value: value.Number(length), Flags: value.ReadOnlyNonEnumerable})
	obj.DefineOwn("name", &value.PropertySlot{Value: value.String(name), Flags: value.ReadOnlyNonEnumerable})
	return obj
}

// Protos supplies the prototypes NativeToPseudo needs to build plain
// objects and arrays that chain to the right built-in methods, the same
// way the evaluator's array/object literal states do.
type Protos struct {
	Object *value.Object
	Array  *value.Object
}

// NativeToPseudo converts an arbitrary host Go value into an interpreted
// Value: primitives map directly, slices/arrays become interpreted
// Arrays, maps and structs become interpreted Objects, and a value
// already satisfying value.Value passes through unchanged. visited
// guards against infinite recursion on a cyclic Go data structure (a
// pointer graph with a cycle), which — unlike the interpreted heap,
// where cycles are ordinary and fine — would otherwise recurse forever
// converting the same host memory on every revisit.
func NativeToPseudo(p Protos, v any) (value.Value, error) {
	return nativeToPseudo(p, v, make(map[uintptr]bool))
}

func nativeToPseudo(p Protos, v any, visited map[uintptr]bool) (value.Value, error) {
	if v == nil {
		return value.Undef, nil
	}
	if jv, ok := v.(value.Value); ok {
		return jv, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return value.Boolean(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return value.Number(rv.Float()), nil
	case reflect.String:
		return value.String(rv.String()), nil
	case reflect.Ptr:
		if rv.IsNil() {
			return value.NullVal, nil
		}
		addr := rv.Pointer()
		if visited[addr] {
			return nil, fmt.Errorf("bridge: cyclic host value at %v", v)
		}
		visited[addr] = true
		defer delete(visited, addr)
		return nativeToPseudo(p, rv.Elem().Interface(), visited)
	case reflect.Slice, reflect.Array:
		elems := make([]value.Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			el, err := nativeToPseudo(p, rv.Index(i).Interface(), visited)
			if err != nil {
				return nil, err
			}
			elems[i] = el
		}
		return value.NewArray(protoOf(p.Array), elems), nil
	case reflect.Map:
		obj := value.NewObject(protoOf(p.Object), "Object")
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface()) })
		for _, k := range keys {
			val, err := nativeToPseudo(p, rv.MapIndex(k).Interface(), visited)
			if err != nil {
				return nil, err
			}
			obj.DefineOwn(fmt.Sprint(k.Interface()), &value.PropertySlot{Value: val, Flags: value.Variable})
		}
		return obj, nil
	case reflect.Struct:
		obj := value.NewObject(protoOf(p.Object), "Object")
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() {
				continue
			}
			val, err := nativeToPseudo(p, rv.Field(i).Interface(), visited)
			if err != nil {
				return nil, err
			}
			obj.DefineOwn(field.Name, &value.PropertySlot{Value: val, Flags: value.Variable})
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("bridge: cannot convert host value of kind %s", rv.Kind())
	}
}

// PseudoToNative converts an interpreted Value into plain Go data:
// Arrays become []any, Objects become map[string]any (insertion order is
// lost, matching a plain Go map — see DESIGN.md's note on the separate
// PseudoToNativeDescriptors entry point for callers that need
// descriptor fidelity), and functions are rejected since there is no
// meaningful Go representation of a callable closure outside the
// interpreter. visited guards against an interpreted-side reference
// cycle (an object whose own property, directly or transitively, points
// back to itself).
func PseudoToNative(v value.Value) (any, error) {
	return pseudoToNative(v, make(map[*value.Object]bool))
}

func pseudoToNative(v value.Value, visited map[*value.Object]bool) (any, error) {
	switch t := v.(type) {
	case value.Undefined:
		return nil, nil
	case value.Null:
		return nil, nil
	case value.Boolean:
		return bool(t), nil
	case value.Number:
		return float64(t), nil
	case value.String:
		return string(t), nil
	case *value.Object:
		if value.IsCallable(t) {
			return nil, fmt.Errorf("bridge: cannot convert a function to a native value")
		}
		if visited[t] {
			return nil, fmt.Errorf("bridge: cyclic interpreted object")
		}
		visited[t] = true
		defer delete(visited, t)
		if t.Class == "Array" {
			n := value.ArrayLength(t)
			out := make([]any, n)
			for i, el := range value.ArrayElements(t) {
				conv, err := pseudoToNative(el, visited)
				if err != nil {
					return nil, err
				}
				out[i] = conv
			}
			return out, nil
		}
		out := make(map[string]any)
		for _, k := range t.OwnKeys(false) {
			slot := t.OwnSlot(k)
			if slot == nil || slot.IsAccessor() {
				continue
			}
			conv, err := pseudoToNative(slot.Value, visited)
			if err != nil {
				return nil, err
			}
			out[k] = conv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("bridge: unrecognized interpreted value %T", v)
	}
}

// PropertyDescriptor mirrors one interpreted property's attributes for a
// host that needs more than a flattened map[string]any — the descriptor-
// preserving counterpart to PseudoToNative's default, lossy conversion.
type PropertyDescriptor struct {
	Value        any
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// PseudoToNativeDescriptors converts an interpreted Object into
// map[string]PropertyDescriptor instead of the plain map[string]any
// PseudoToNative produces, so a host that cares about non-enumerable or
// read-only properties doesn't silently lose that information the way a
// flattened Go map would. Arrays and primitives convert the same way
// PseudoToNative does (a descriptor has no extra information to offer
// for an array element or a bare primitive).
func PseudoToNativeDescriptors(v value.Value) (any, error) {
	return pseudoToNativeDescriptors(v, make(map[*value.Object]bool))
}

func pseudoToNativeDescriptors(v value.Value, visited map[*value.Object]bool) (any, error) {
	obj, ok := v.(*value.Object)
	if !ok || obj.Class == "Array" {
		return pseudoToNative(v, visited)
	}
	if value.IsCallable(obj) {
		return nil, fmt.Errorf("bridge: cannot convert a function to a native value")
	}
	if visited[obj] {
		return nil, fmt.Errorf("bridge: cyclic interpreted object")
	}
	visited[obj] = true
	defer delete(visited, obj)

	out := make(map[string]PropertyDescriptor)
	for _, k := range obj.OwnKeys(true) {
		slot := obj.OwnSlot(k)
		if slot == nil || slot.IsAccessor() {
			continue
		}
		conv, err := pseudoToNativeDescriptors(slot.Value, visited)
		if err != nil {
			return nil, err
		}
		out[k] = PropertyDescriptor{
			Value:        conv,
			Writable:     slot.Flags.Writable(),
			Enumerable:   slot.Flags.Enumerable(),
			Configurable: slot.Flags.Configurable(),
		}
	}
	return out, nil
}

func protoOf(obj *value.Object) value.Value {
	if obj == nil {
		return value.NullVal
	}
	return obj
}
