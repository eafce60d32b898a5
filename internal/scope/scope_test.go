package scope

import (
	"testing"

	"github.com/es5box/es5box/internal/value"
)

func TestLookupWalksChain(t *testing.T) {
	global := value.NewObject(value.NullVal, "global")
	root := New(global, false)
	child := NewChild(root)
	Define(child, "x", value.Number(1))

	res, err := Lookup(child, "x")
	if err != nil || !res.Found || res.Value != value.Number(1) {
		t.Fatalf("got %+v, %v", res, err)
	}

	if _, err := Lookup(child, "nope"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, _ = Lookup(child, "nope")
	if res.Found {
		t.Fatal("expected not found")
	}
}

func TestAssignCreatesGlobalInLooseMode(t *testing.T) {
	global := value.NewObject(value.NullVal, "global")
	root := New(global, false)
	child := NewChild(root)

	if _, err := Assign(child, "implicitGlobal", value.Number(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !global.HasOwn("implicitGlobal") {
		t.Fatal("expected implicit global binding")
	}
}

func TestAssignStrictRejectsImplicitGlobal(t *testing.T) {
	global := value.NewObject(value.NullVal, "global")
	root := New(global, true)
	child := NewChild(root)

	if _, err := Assign(child, "x", value.Number(5)); err == nil {
		t.Fatal("expected ReferenceError in strict mode")
	}
}

func TestWithScopeSearchesPrototypeChain(t *testing.T) {
	global := value.NewObject(value.NullVal, "global")
	root := New(global, false)

	proto := value.NewObject(value.NullVal, "Object")
	proto.DefineOwn("inherited", &value.PropertySlot{Value: value.String("yes"), Flags: value.Variable})
	withObj := value.NewObject(proto, "Object")

	withScope := NewWithScope(root, withObj)
	res, err := Lookup(withScope, "inherited")
	if err != nil || !res.Found || res.Value != value.String("yes") {
		t.Fatalf("got %+v, %v", res, err)
	}
}
