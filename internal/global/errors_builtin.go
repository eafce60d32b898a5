package global

import (
	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/value"
)

var errorKinds = []string{"Error", "TypeError", "RangeError", "ReferenceError", "SyntaxError", "EvalError", "URIError"}

// installErrors builds the Error constructor hierarchy: Error.prototype
// chains to Object.prototype, and every other kind's prototype chains to
// Error.prototype, matching the single-level hierarchy ES5 specifies.
// ev.MakeError is wired here so the evaluator can allocate exception
// instances for its own internal throws (TypeError on a bad property
// access, and so on) without an import cycle back into this package.
func installErrors(ev *evaluator.Evaluator, p *protos, g *value.Object) {
	protoByKind := make(map[string]*value.Object, len(errorKinds))
	ctorByKind := make(map[string]*value.Object, len(errorKinds))

	errorProto := value.NewObject(p.object, "Error")
	protoByKind["Error"] = errorProto
	p.errorP = errorProto

	errorProto.DefineOwn("name", &value.PropertySlot{Value: value.String("Error"), Flags: value.Variable})
	errorProto.DefineOwn("message", &value.PropertySlot{Value: value.String(""), Flags: value.Variable})
	errorProto.DefineOwn("toString", &value.PropertySlot{
		Value: nf(ev, "toString", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			obj, ok := this.(*value.Object)
			if !ok {
				return value.String("Error"), nil
			}
			name := "Error"
			if v, err := value.GetProperty(obj, "name"); err == nil {
				if _, isUndef := v.Value.(value.Undefined); !isUndef {
					name = value.ToPrimitiveString(v.Value)
				}
			}
			msg := ""
			if v, err := value.GetProperty(obj, "message"); err == nil {
				msg = value.ToPrimitiveString(v.Value)
			}
			if msg == "" {
				return value.String(name), nil
			}
			return value.String(name + ": " + msg), nil
		}),
		Flags: value.NonEnumerable,
	})

	for _, kind := range errorKinds {
		proto := errorProto
		if kind != "Error" {
			proto = value.NewObject(errorProto, "Error")
			proto.DefineOwn("name", &value.PropertySlot{Value: value.String(kind), Flags: value.Variable})
			protoByKind[kind] = proto
		}
		kindCopy := kind
		protoCopy := proto
		ctor := nf(ev, kind, 1, func(this value.Value, args []value.Value) (value.Value, error) {
			obj, ok := this.(*value.Object)
			if !ok || obj.Class != kindCopy {
				obj = value.NewObject(protoCopy, "Error")
			}
			if len(args) > 0 {
				if _, isUndef := args[0].(value.Undefined); !isUndef {
					obj.DefineOwn("message", &value.PropertySlot{Value: value.String(value.ToPrimitiveString(args[0])), Flags: value.NonEnumerable})
				}
			}
			return obj, nil
		})
		ctor.DefineOwn("prototype", &value.PropertySlot{Value: proto, Flags: value.NonConfigurableReadOnlyNonEnumerable})
		proto.DefineOwn("constructor", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
		ctorByKind[kind] = ctor
		g.DefineOwn(kind, &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
	}

	ev.MakeError = func(kind, message string) value.Value {
		proto, ok := protoByKind[kind]
		if !ok {
			proto = errorProto
			kind = "Error"
		}
		obj := value.NewObject(proto, "Error")
		obj.DefineOwn("message", &value.PropertySlot{Value: value.String(message), Flags: value.NonEnumerable})
		return obj
	}
}
