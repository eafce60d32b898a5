package value

import "strconv"

// NewArray builds an Array-classed object from elements, installing the
// length invariant up front.
func NewArray(proto Value, elements []Value) *Object {
	obj := NewObject(proto, "Array")
	for i, el := range elements {
		obj.DefineOwn(strconv.Itoa(i), &PropertySlot{Value: el, Flags: Variable})
	}
	obj.DefineOwn("length", &PropertySlot{Value: Number(len(elements)), Flags: NonEnumerable})
	return obj
}

// ArrayLength reads the length slot of an Array-classed object.
func ArrayLength(obj *Object) int {
	return int(currentLength(obj))
}

// ArrayElements materializes the dense elements of an Array-classed
// object from index 0 to length-1, using Undef for holes.
func ArrayElements(obj *Object) []Value {
	n := ArrayLength(obj)
	out := make([]Value, n)
	for i := 0; i < n; i++ {
		if slot := obj.OwnSlot(strconv.Itoa(i)); slot != nil && !slot.IsAccessor() {
			out[i] = slot.Value
		} else {
			out[i] = Undef
		}
	}
	return out
}
