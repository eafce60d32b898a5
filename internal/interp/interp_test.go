package interp

import (
	"testing"

	"github.com/es5box/es5box/internal/value"
)

func TestRunReturnsLastExpressionValue(t *testing.T) {
	i, err := New(`1 + 2;`, Config{RegexMode: RegexNative})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := i.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	n, ok := i.Value().(value.Number)
	if !ok || float64(n) != 3 {
		t.Fatalf("expected Number(3), got %#v", i.Value())
	}
}

func TestCreateNativeFunctionIsCallableFromScript(t *testing.T) {
	i, err := New(`host(40, 2);`, Config{RegexMode: RegexNative})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fn := i.CreateNativeFunction("host", func(this value.Value, args []value.Value) (value.Value, error) {
		a, _ := args[0].(value.Number)
		b, _ := args[1].(value.Number)
		return a + b, nil
	})
	if err := i.SetProperty(i.GlobalObject(), "host", fn); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	if _, err := i.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	n, ok := i.Value().(value.Number)
	if !ok || float64(n) != 42 {
		t.Fatalf("expected Number(42), got %#v", i.Value())
	}
}

func TestSetPropertyInvokesSetterTrap(t *testing.T) {
	i, err := New(`obj.counter = 5; obj.counter;`, Config{RegexMode: RegexNative})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var seen value.Value
	obj := value.NewObject(i.ev.ObjectProto, "Object")
	setter := i.CreateNativeFunction("set counter", func(this value.Value, args []value.Value) (value.Value, error) {
		seen = args[0]
		return value.Undef, nil
	})
	getter := i.CreateNativeFunction("get counter", func(this value.Value, args []value.Value) (value.Value, error) {
		return seen, nil
	})
	if err := value.DefineProperty(obj, "counter", nil, getter, setter, value.NonEnumerable, false); err != nil {
		t.Fatalf("DefineProperty: %v", err)
	}
	if err := i.SetProperty(i.GlobalObject(), "obj", obj); err != nil {
		t.Fatalf("SetProperty(obj): %v", err)
	}
	if _, err := i.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	n, ok := i.Value().(value.Number)
	if !ok || float64(n) != 5 {
		t.Fatalf("expected Number(5) from getter round-trip, got %#v", i.Value())
	}
}

func TestNativeToPseudoAndBack(t *testing.T) {
	i, err := New(`0;`, Config{RegexMode: RegexNative})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pseudo, err := i.NativeToPseudo(map[string]any{"a": 1, "b": []any{1, 2, 3}})
	if err != nil {
		t.Fatalf("NativeToPseudo: %v", err)
	}
	native, err := i.PseudoToNative(pseudo)
	if err != nil {
		t.Fatalf("PseudoToNative: %v", err)
	}
	m, ok := native.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", native)
	}
	if _, ok := m["a"]; !ok {
		t.Fatalf("round-tripped map missing key %q", "a")
	}
}
