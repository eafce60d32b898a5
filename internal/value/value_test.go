package value

import "testing"

func TestArrayLengthInvariant(t *testing.T) {
	obj := NewObject(NullVal, "Array")
	obj.DefineOwn("length", &PropertySlot{Value: Number(0), Flags: NonEnumerable})

	if _, err := SetProperty(obj, "3", Number(42), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ArrayLength(obj); got != 4 {
		t.Fatalf("length = %d, want 4", got)
	}

	if _, err := SetProperty(obj, "length", Number(1), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj.HasOwn("3") {
		t.Fatalf("index 3 should have been deleted when length shrank")
	}
}

func TestGetPropertyPrototypeChain(t *testing.T) {
	proto := NewObject(NullVal, "Object")
	proto.DefineOwn("greeting", &PropertySlot{Value: String("hi"), Flags: Variable})
	child := NewObject(proto, "Object")

	res, err := GetProperty(child, "greeting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value != String("hi") {
		t.Fatalf("got %v, want hi", res.Value)
	}
}

func TestGetPropertyNullReceiver(t *testing.T) {
	_, err := GetProperty(NullVal, "x")
	if err == nil {
		t.Fatal("expected TypeError on null receiver")
	}
	pe, ok := err.(*PropertyError)
	if !ok || pe.Kind != "TypeError" {
		t.Fatalf("got %v, want TypeError", err)
	}
}

func TestSetPropertyStrictThrowsOnReadOnly(t *testing.T) {
	obj := NewObject(NullVal, "Object")
	obj.DefineOwn("x", &PropertySlot{Value: Number(1), Flags: ReadOnly})

	if _, err := SetProperty(obj, "x", Number(2), true); err == nil {
		t.Fatal("expected strict-mode TypeError")
	}
	out, err := SetProperty(obj, "x", Number(2), false)
	if err != nil || !out.Ignored {
		t.Fatalf("loose mode should silently ignore, got out=%v err=%v", out, err)
	}
}

func TestStringIndexing(t *testing.T) {
	res, err := GetProperty(String("abc"), "1")
	if err != nil || res.Value != String("b") {
		t.Fatalf("got %v, %v, want b", res.Value, err)
	}
	res, _ = GetProperty(String("abc"), "length")
	if res.Value != Number(3) {
		t.Fatalf("length got %v, want 3", res.Value)
	}
}
