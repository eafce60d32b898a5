package bridge

import (
	"testing"

	"github.com/es5box/es5box/internal/value"
)

func testProtos() Protos {
	object := value.NewObject(value.NullVal, "Object")
	array := value.NewObject(object, "Array")
	return Protos{Object: object, Array: array}
}

func TestNewNativeFunctionSetsLengthAndName(t *testing.T) {
	fn := NewNativeFunction(value.NullVal, "greet", 2, func(this value.Value, args []value.Value) (value.Value, error) {
		return value.String("hi"), nil
	})
	if fn.FunctionName != "greet" {
		t.Fatalf("expected FunctionName %q, got %q", "greet", fn.FunctionName)
	}
	if fn.NativeID == 0 {
		t.Fatalf("expected a non-zero NativeID")
	}
	slot := fn.OwnSlot("length")
	if slot == nil || slot.Value != value.Number(2) {
		t.Fatalf("expected length property 2, got %#v", slot)
	}
	result, err := fn.Native(value.Undef, nil)
	if err != nil {
		t.Fatalf("Native: %v", err)
	}
	if result != value.String("hi") {
		t.Fatalf("expected String(hi), got %#v", result)
	}
}

func TestNewAsyncFunctionSetsAsyncField(t *testing.T) {
	var resumed value.Value
	fn := NewAsyncFunction(value.NullVal, "fetch", 1, func(this value.Value, args []value.Value, resume func(value.Value, error)) {
		resume(value.Number(1), nil)
	})
	if fn.Async == nil {
		t.Fatalf("expected Async to be set")
	}
	fn.Async(value.Undef, nil, func(v value.Value, err error) { resumed = v })
	if resumed != value.Number(1) {
		t.Fatalf("expected Number(1), got %#v", resumed)
	}
}

func TestNativeToPseudoPrimitivesAndCollections(t *testing.T) {
	p := testProtos()

	v, err := nativeToPseudo(p, 42, nil)
	if err != nil {
		t.Fatalf("int: %v", err)
	}
	if v != value.Number(42) {
		t.Fatalf("expected Number(42), got %#v", v)
	}

	v, err = NativeToPseudo(p, []int{1, 2, 3})
	if err != nil {
		t.Fatalf("slice: %v", err)
	}
	arr, ok := v.(*value.Object)
	if !ok || arr.Class != "Array" || value.ArrayLength(arr) != 3 {
		t.Fatalf("expected a 3-element Array, got %#v", v)
	}

	v, err = NativeToPseudo(p, map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	obj, ok := v.(*value.Object)
	if !ok {
		t.Fatalf("expected *Object, got %T", v)
	}
	if slot := obj.OwnSlot("a"); slot == nil || slot.Value != value.Number(1) {
		t.Fatalf("expected a=1, got %#v", slot)
	}
}

func TestNativeToPseudoRejectsCyclicPointer(t *testing.T) {
	p := testProtos()
	type node struct {
		Next *node
	}
	n := &node{}
	n.Next = n
	if _, err := NativeToPseudo(p, n); err == nil {
		t.Fatalf("expected an error for a cyclic pointer graph")
	}
}

func TestPseudoToNativeArrayAndObject(t *testing.T) {
	p := testProtos()
	obj := value.NewObject(p.Object, "Object")
	obj.DefineOwn("a", &value.PropertySlot{Value: value.Number(1), Flags: value.Variable})
	obj.DefineOwn("hidden", &value.PropertySlot{Value: value.Number(2), Flags: value.NonEnumerable})

	native, err := PseudoToNative(obj)
	if err != nil {
		t.Fatalf("PseudoToNative: %v", err)
	}
	m, ok := native.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", native)
	}
	if m["a"] != float64(1) {
		t.Fatalf("expected a=1, got %#v", m["a"])
	}
	if _, present := m["hidden"]; present {
		t.Fatalf("non-enumerable property should be dropped by the default conversion")
	}
}

func TestPseudoToNativeRejectsCallable(t *testing.T) {
	fn := NewNativeFunction(value.NullVal, "f", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		return value.Undef, nil
	})
	if _, err := PseudoToNative(fn); err == nil {
		t.Fatalf("expected an error converting a callable")
	}
}

func TestPseudoToNativeDescriptorsPreservesEnumerability(t *testing.T) {
	p := testProtos()
	obj := value.NewObject(p.Object, "Object")
	obj.DefineOwn("a", &value.PropertySlot{Value: value.Number(1), Flags: value.Variable})
	obj.DefineOwn("hidden", &value.PropertySlot{Value: value.Number(2), Flags: value.NonEnumerable})

	native, err := PseudoToNativeDescriptors(obj)
	if err != nil {
		t.Fatalf("PseudoToNativeDescriptors: %v", err)
	}
	m, ok := native.(map[string]PropertyDescriptor)
	if !ok {
		t.Fatalf("expected map[string]PropertyDescriptor, got %T", native)
	}
	hidden, ok := m["hidden"]
	if !ok {
		t.Fatalf("expected the non-enumerable property to still be present")
	}
	if hidden.Enumerable {
		t.Fatalf("expected hidden's Enumerable flag to be false")
	}
	if a := m["a"]; !a.Enumerable || !a.Writable {
		t.Fatalf("expected a to be enumerable and writable, got %#v", a)
	}
}
