package global

import (
	"math"
	"math/rand"

	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/value"
)

func mathRandomSource() float64 { return rand.Float64() }

// installMath builds the Math object: a plain object (not a
// constructor — Math is never called or newed) whose methods wrap the
// standard library's math package directly, since there is no
// ecosystem replacement for IEEE 754 double-precision transcendental
// functions and the teacher corpus reaches for math itself wherever it
// needs one.
func installMath(ev *evaluator.Evaluator, p *protos, g *value.Object) {
	m := value.NewObject(p.object, "Object")

	m.DefineOwn("E", &value.PropertySlot{Value: value.Number(math.E), Flags: value.NonConfigurableReadOnlyNonEnumerable})
	m.DefineOwn("LN2", &value.PropertySlot{Value: value.Number(math.Ln2), Flags: value.NonConfigurableReadOnlyNonEnumerable})
	m.DefineOwn("LN10", &value.PropertySlot{Value: value.Number(math.Log(10)), Flags: value.NonConfigurableReadOnlyNonEnumerable})
	m.DefineOwn("LOG2E", &value.PropertySlot{Value: value.Number(math.Log2E), Flags: value.NonConfigurableReadOnlyNonEnumerable})
	m.DefineOwn("LOG10E", &value.PropertySlot{Value: value.Number(math.Log10E), Flags: value.NonConfigurableReadOnlyNonEnumerable})
	m.DefineOwn("PI", &value.PropertySlot{Value: value.Number(math.Pi), Flags: value.NonConfigurableReadOnlyNonEnumerable})
	m.DefineOwn("SQRT1_2", &value.PropertySlot{Value: value.Number(math.Sqrt(0.5)), Flags: value.NonConfigurableReadOnlyNonEnumerable})
	m.DefineOwn("SQRT2", &value.PropertySlot{Value: value.Number(math.Sqrt2), Flags: value.NonConfigurableReadOnlyNonEnumerable})

	unary := func(name string, fn func(float64) float64) {
		m.DefineOwn(name, &value.PropertySlot{
			Value: nf(ev, name, 1, func(this value.Value, args []value.Value) (value.Value, error) {
				return value.Number(fn(value.ToNumber(arg(args, 0)))), nil
			}),
			Flags: value.NonEnumerable,
		})
	}
	unary("abs", math.Abs)
	unary("ceil", math.Ceil)
	unary("floor", math.Floor)
	unary("sqrt", math.Sqrt)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("exp", math.Exp)
	unary("log", math.Log)
	unary("round", func(f float64) float64 {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return f
		}
		return math.Floor(f + 0.5)
	})

	m.DefineOwn("pow", &value.PropertySlot{
		Value: nf(ev, "pow", 2, func(this value.Value, args []value.Value) (value.Value, error) {
			return value.Number(math.Pow(value.ToNumber(arg(args, 0)), value.ToNumber(arg(args, 1)))), nil
		}),
		Flags: value.NonEnumerable,
	})
	m.DefineOwn("atan2", &value.PropertySlot{
		Value: nf(ev, "atan2", 2, func(this value.Value, args []value.Value) (value.Value, error) {
			return value.Number(math.Atan2(value.ToNumber(arg(args, 0)), value.ToNumber(arg(args, 1)))), nil
		}),
		Flags: value.NonEnumerable,
	})
	m.DefineOwn("max", &value.PropertySlot{
		Value: nf(ev, "max", 2, func(this value.Value, args []value.Value) (value.Value, error) {
			if len(args) == 0 {
				return value.Number(math.Inf(-1)), nil
			}
			best := math.Inf(-1)
			for _, a := range args {
				f := value.ToNumber(a)
				if math.IsNaN(f) {
					return value.Number(math.NaN()), nil
				}
				if f > best {
					best = f
				}
			}
			return value.Number(best), nil
		}),
		Flags: value.NonEnumerable,
	})
	m.DefineOwn("min", &value.PropertySlot{
		Value: nf(ev, "min", 2, func(this value.Value, args []value.Value) (value.Value, error) {
			if len(args) == 0 {
				return value.Number(math.Inf(1)), nil
			}
			best := math.Inf(1)
			for _, a := range args {
				f := value.ToNumber(a)
				if math.IsNaN(f) {
					return value.Number(math.NaN()), nil
				}
				if f < best {
					best = f
				}
			}
			return value.Number(best), nil
		}),
		Flags: value.NonEnumerable,
	})
	m.DefineOwn("random", &value.PropertySlot{
		Value: nf(ev, "random", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			return value.Number(mathRandomSource()), nil
		}),
		Flags: value.NonEnumerable,
	})

	g.DefineOwn("Math", &value.PropertySlot{Value: m, Flags: value.NonEnumerable})
}
