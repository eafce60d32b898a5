// Package scope implements the interpreted-world environment chain
// linked scope records, strict-mode propagation, and
// prototype-aware lookup at the global scope.
package scope

import (
	"github.com/es5box/es5box/internal/value"
)

// Scope is a single environment record. Its backing store is itself an
// interpreted Object with a null prototype, so that a
// `with` statement can substitute an arbitrary object without a special
// case in lookup code — it just swaps in an Object with a real
// prototype chain.
type Scope struct {
	Parent *Scope
	Strict bool
	Object *value.Object

	// withTarget marks a scope created by a `with` statement: lookups
	// search Object's full prototype chain rather than only its own
	// properties, matching an ordinary object's semantics.
	withTarget bool

	// this/hasThis record a function-call scope's this-binding. Block,
	// catch, and with scopes leave hasThis false so ThisBinding falls
	// through to the enclosing function call.
	this    value.Value
	hasThis bool
}

// New creates the root (global) scope around an existing global object.
// The global object is also the top-level this-binding, matching
// sloppy-mode `this` at program scope.
func New(global *value.Object, strict bool) *Scope {
	return &Scope{Object: global, Strict: strict, this: global, hasThis: true}
}

// NewChild creates a block/catch scope enclosed by parent: it does not
// introduce a new this-binding.
func NewChild(parent *Scope) *Scope {
	return &Scope{
		Parent: parent,
		Strict: parent.Strict,
		Object: value.NewObject(value.NullVal, "Object"),
	}
}

// NewCallScope creates a function-call scope with its own this-binding,
// per the ES5 rule that only function calls (not blocks) rebind this.
func NewCallScope(parent *Scope, strict bool, thisArg value.Value) *Scope {
	return &Scope{
		Parent:  parent,
		Strict:  strict,
		Object:  value.NewObject(value.NullVal, "Object"),
		this:    thisArg,
		hasThis: true,
	}
}

// ThisBinding resolves `this` by walking to the nearest enclosing scope
// that introduced one.
func (s *Scope) ThisBinding() value.Value {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.hasThis {
			return cur.this
		}
	}
	return value.Undef
}

// NewWithScope creates the special scope pushed by a WithStatement: its
// Object is the evaluated expression, and lookups consult that object's
// full prototype chain before falling through to the parent scope.
func NewWithScope(parent *Scope, target *value.Object) *Scope {
	return &Scope{
		Parent:     parent,
		Strict:     parent.Strict,
		Object:     target,
		withTarget: true,
	}
}

// Global walks to the root scope.
func (s *Scope) Global() *value.Object {
	cur := s
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur.Object
}

// LookupResult describes where a name resolved, so AssignmentExpression
// can write back to exactly that location.
type LookupResult struct {
	Found bool
	Value value.Value
	// Scope is non-nil when the binding lives directly in a scope's own
	// object (the common case); Object is non-nil when it was found via
	// a `with` scope's prototype-aware search or on the global object.
	Scope  *Scope
	Object *value.Object
}

// Lookup resolves name by walking from this scope toward the global
// scope. At an ordinary scope it checks only own properties; at a `with`
// scope and at the global scope it falls through to prototype-aware
// getProperty.
func Lookup(s *Scope, name string) (LookupResult, error) {
	for cur := s; cur != nil; cur = cur.Parent {
		isGlobal := cur.Parent == nil
		if cur.withTarget || isGlobal {
			res, err := value.GetProperty(cur.Object, name)
			if err != nil {
				return LookupResult{}, err
			}
			if cur.Object.HasOwn(name) || hasInChain(cur.Object, name) {
				return LookupResult{Found: true, Value: res.Value, Object: cur.Object}, nil
			}
			continue
		}
		if slot := cur.Object.OwnSlot(name); slot != nil {
			return LookupResult{Found: true, Value: slot.Value, Scope: cur}, nil
		}
	}
	return LookupResult{}, nil
}

func hasInChain(obj *value.Object, name string) bool {
	for cur := obj; cur != nil; {
		if cur.HasOwn(name) {
			return true
		}
		next, ok := cur.Proto.(*value.Object)
		if !ok {
			return false
		}
		cur = next
	}
	return false
}

// Define creates a new binding in s's own object — used for `var`
// declarations and function hoisting, which must write directly to the
// scope without invoking setters, per variable-declaration semantics.
func Define(s *Scope, name string, v value.Value) {
	if slot := s.Object.OwnSlot(name); slot != nil && !slot.IsAccessor() {
		slot.Value = v
		return
	}
	s.Object.DefineOwn(name, &value.PropertySlot{Value: v, Flags: value.Variable})
}

// DefineConst installs a non-enumerable binding directly in s's own
// object, used for the function-scope `arguments` object and similar
// implicit bindings. The binding stays writable: a user assignment
// replaces it like any other variable.
func DefineConst(s *Scope, name string, v value.Value) {
	s.Object.DefineOwn(name, &value.PropertySlot{Value: v, Flags: value.NonEnumerable})
}

// AssignError signals that an assignment to an unbound identifier would
// create an implicit global, and strict mode forbids that.
type AssignError struct {
	Name string
}

func (e *AssignError) Error() string { return "ReferenceError: " + e.Name + " is not defined" }

// Assign walks the scope chain and writes to the scope/object that
// already defines name. If no scope defines it, the binding is created
// on the global object in loose mode, or rejected in strict mode.
func Assign(s *Scope, name string, v value.Value) (value.SetOutcome, error) {
	for cur := s; cur != nil; cur = cur.Parent {
		isGlobal := cur.Parent == nil
		if cur.withTarget || isGlobal {
			if cur.Object.HasOwn(name) || hasInChain(cur.Object, name) {
				return value.SetProperty(cur.Object, name, v, cur.Strict)
			}
			if isGlobal {
				break
			}
			continue
		}
		if slot := cur.Object.OwnSlot(name); slot != nil {
			if slot.IsAccessor() {
				return value.SetProperty(cur.Object, name, v, cur.Strict)
			}
			slot.Value = v
			return value.SetOutcome{}, nil
		}
	}
	if s.Strict {
		return value.SetOutcome{}, &AssignError{Name: name}
	}
	Define(&Scope{Object: s.Global()}, name, v)
	return value.SetOutcome{}, nil
}
