package global

import (
	"context"
	"strings"

	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/jsregexp"
	"github.com/es5box/es5box/internal/value"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// installStringBuiltins wires String.prototype and the String
// constructor. Case conversion goes through golang.org/x/text/cases
// rather than strings.ToUpper/ToLower, since ES5's toUpperCase/
// toLowerCase are specified in terms of Unicode default case
// conversion rather than byte-wise ASCII folding.
func installStringBuiltins(ev *evaluator.Evaluator, p *protos, g *value.Object) {
	proto := p.str

	method := func(name string, length int, fn value.NativeFunc) {
		proto.DefineOwn(name, &value.PropertySlot{Value: nf(ev, name, length, fn), Flags: value.NonEnumerable})
	}

	method("toString", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.String(s), nil
	})
	method("valueOf", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.String(s), nil
	})
	method("charAt", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		i := int(value.ToNumber(arg(args, 0)))
		if i < 0 || i >= len(s) {
			return value.String(""), nil
		}
		return value.String(s[i : i+1]), nil
	})
	method("charCodeAt", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		i := int(value.ToNumber(arg(args, 0)))
		if i < 0 || i >= len(s) {
			return value.Number(nan()), nil
		}
		return value.Number(float64(s[i])), nil
	})
	method("indexOf", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		needle, err := toDisplayString(ev, arg(args, 0))
		if err != nil {
			return nil, err
		}
		start := 0
		if len(args) > 1 {
			start = int(value.ToNumber(args[1]))
			if start < 0 {
				start = 0
			}
			if start > len(s) {
				start = len(s)
			}
		}
		idx := strings.Index(s[start:], needle)
		if idx < 0 {
			return value.Number(-1), nil
		}
		return value.Number(float64(idx + start)), nil
	})
	method("lastIndexOf", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		needle, err := toDisplayString(ev, arg(args, 0))
		if err != nil {
			return nil, err
		}
		return value.Number(float64(strings.LastIndex(s, needle))), nil
	})
	method("slice", 2, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		start := clampIndex(arg(args, 0), len(s), 0)
		end := clampIndex(arg(args, 1), len(s), len(s))
		if start >= end {
			return value.String(""), nil
		}
		return value.String(s[start:end]), nil
	})
	method("substring", 2, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		start := substringIndex(arg(args, 0), len(s), 0)
		end := substringIndex(arg(args, 1), len(s), len(s))
		if start > end {
			start, end = end, start
		}
		return value.String(s[start:end]), nil
	})
	method("substr", 2, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		start := int(value.ToNumber(arg(args, 0)))
		if start < 0 {
			start += len(s)
			if start < 0 {
				start = 0
			}
		}
		if start > len(s) {
			start = len(s)
		}
		length := len(s) - start
		if _, isUndef := arg(args, 1).(value.Undefined); !isUndef {
			length = int(value.ToNumber(args[1]))
		}
		if length < 0 {
			length = 0
		}
		if start+length > len(s) {
			length = len(s) - start
		}
		return value.String(s[start : start+length]), nil
	})
	method("concat", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		b.WriteString(s)
		for _, a := range args {
			part, err := toDisplayString(ev, a)
			if err != nil {
				return nil, err
			}
			b.WriteString(part)
		}
		return value.String(b.String()), nil
	})
	method("toLowerCase", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.String(cases.Lower(language.Und).String(s)), nil
	})
	method("toUpperCase", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.String(cases.Upper(language.Und).String(s)), nil
	})
	method("toLocaleLowerCase", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.String(cases.Lower(language.Und).String(s)), nil
	})
	method("toLocaleUpperCase", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.String(cases.Upper(language.Und).String(s)), nil
	})
	method("trim", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return value.String(strings.TrimSpace(s)), nil
	})
	method("split", 2, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		limit := -1
		if len(args) > 1 {
			if _, isUndef := args[1].(value.Undefined); !isUndef {
				limit = int(value.ToNumber(args[1]))
			}
		}
		sep := arg(args, 0)
		if _, isUndef := sep.(value.Undefined); isUndef {
			return value.NewArray(p.array, []value.Value{value.String(s)}), nil
		}
		var parts []string
		if reObj, ok := sep.(*value.Object); ok && reObj.Class == "RegExp" {
			parts, err = splitByRegexp(reObj, s)
			if err != nil {
				return nil, err
			}
		} else {
			sepStr, err := toDisplayString(ev, sep)
			if err != nil {
				return nil, err
			}
			if sepStr == "" {
				parts = make([]string, len(s))
				for i, r := range []byte(s) {
					parts[i] = string(r)
				}
			} else {
				parts = strings.Split(s, sepStr)
			}
		}
		if limit >= 0 && limit < len(parts) {
			parts = parts[:limit]
		}
		elems := make([]value.Value, len(parts))
		for i, part := range parts {
			elems[i] = value.String(part)
		}
		return value.NewArray(p.array, elems), nil
	})
	method("match", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		reObj, prog, err := coerceRegexp(ev, arg(args, 0))
		if err != nil {
			return nil, err
		}
		if !prog.Global() {
			m, found, err := prog.Exec(context.Background(), s, 0)
			if err != nil {
				return nil, regexpExecError(ev, err)
			}
			if !found {
				return value.NullVal, nil
			}
			return matchResultArray(p, m, s), nil
		}
		var out []value.Value
		from := 0
		for from <= len(s) {
			m, found, err := prog.Exec(context.Background(), s, from)
			if err != nil {
				return nil, regexpExecError(ev, err)
			}
			if !found {
				break
			}
			out = append(out, value.String(s[m.Index:m.Index+m.Length]))
			if m.Length == 0 {
				from = m.Index + 1
			} else {
				from = m.Index + m.Length
			}
		}
		_ = reObj
		if out == nil {
			return value.NullVal, nil
		}
		return value.NewArray(p.array, out), nil
	})
	method("search", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		_, prog, err := coerceRegexp(ev, arg(args, 0))
		if err != nil {
			return nil, err
		}
		m, found, err := prog.Exec(context.Background(), s, 0)
		if err != nil {
			return nil, regexpExecError(ev, err)
		}
		if !found {
			return value.Number(-1), nil
		}
		return value.Number(float64(m.Index)), nil
	})
	method("replace", 2, func(this value.Value, args []value.Value) (value.Value, error) {
		s, err := stringReceiver(ev, this)
		if err != nil {
			return nil, err
		}
		return stringReplace(ev, p, s, arg(args, 0), arg(args, 1))
	})

	ctor := nf(ev, "String", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		s := ""
		if len(args) > 0 {
			v, err := toDisplayString(ev, args[0])
			if err != nil {
				return nil, err
			}
			s = v
		}
		if obj, ok := this.(*value.Object); ok && obj.Class == "String" && obj.Proto == proto {
			obj.Data = s
			return obj, nil
		}
		return value.String(s), nil
	})
	ctor.DefineOwn("prototype", &value.PropertySlot{Value: proto, Flags: value.NonConfigurableReadOnlyNonEnumerable})
	proto.DefineOwn("constructor", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
	ctor.DefineOwn("fromCharCode", &value.PropertySlot{Value: nf(ev, "fromCharCode", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		var b strings.Builder
		for _, a := range args {
			b.WriteByte(byte(int(value.ToNumber(a))))
		}
		return value.String(b.String()), nil
	}), Flags: value.NonEnumerable})
	g.DefineOwn("String", &value.PropertySlot{Value: ctor, Flags: value.NonEnumerable})
}

func stringReceiver(ev *evaluator.Evaluator, this value.Value) (string, error) {
	switch t := this.(type) {
	case value.String:
		return string(t), nil
	case *value.Object:
		if t.Class == "String" {
			if s, ok := t.Data.(string); ok {
				return s, nil
			}
		}
	}
	return "", typeErrorObj(ev, "String.prototype method called on a non-string")
}

func substringIndex(v value.Value, length int, def int) int {
	if _, ok := v.(value.Undefined); ok {
		return def
	}
	n := int(value.ToNumber(v))
	if n < 0 {
		n = 0
	}
	if n > length {
		n = length
	}
	return n
}

func coerceRegexp(ev *evaluator.Evaluator, v value.Value) (*value.Object, jsregexp.Program, error) {
	if obj, ok := v.(*value.Object); ok && obj.Class == "RegExp" {
		return regexpReceiver(ev, obj)
	}
	pattern, err := toDisplayString(ev, v)
	if err != nil {
		return nil, nil, err
	}
	obj, err := ev.NewRegexp(pattern, "")
	if err != nil {
		return nil, nil, err
	}
	return regexpReceiver(ev, obj)
}

func splitByRegexp(reObj *value.Object, s string) ([]string, error) {
	prog, ok := reObj.Data.(jsregexp.Program)
	if !ok {
		return []string{s}, nil
	}
	var out []string
	from, last := 0, 0
	for from <= len(s) {
		m, found, err := prog.Exec(context.Background(), s, from)
		if err != nil {
			return nil, err
		}
		if !found {
			break
		}
		if m.Length == 0 {
			from = m.Index + 1
			continue
		}
		out = append(out, s[last:m.Index])
		last = m.Index + m.Length
		from = last
	}
	out = append(out, s[last:])
	return out, nil
}

// stringReplace implements String.prototype.replace for both string and
// regular-expression search values, and both string and function
// replacement values (the function case invoked via CallSync so a
// user-defined replacer can run to completion inside this native call).
func stringReplace(ev *evaluator.Evaluator, p *protos, s string, search, replacement value.Value) (value.Value, error) {
	replacer := func(matched string, groups []jsregexp.Group, index int) (string, error) {
		if fn, ok := replacement.(*value.Object); ok && value.IsCallable(fn) {
			callArgs := []value.Value{value.String(matched)}
			for _, g := range groups {
				if g.Matched {
					callArgs = append(callArgs, value.String(g.Text))
				} else {
					callArgs = append(callArgs, value.Undef)
				}
			}
			callArgs = append(callArgs, value.Number(index), value.String(s))
			res, err := ev.CallSync(fn, value.Undef, callArgs)
			if err != nil {
				return "", err
			}
			return toDisplayString(ev, res)
		}
		repl, err := toDisplayString(ev, replacement)
		if err != nil {
			return "", err
		}
		return expandReplacement(repl, matched, groups), nil
	}

	if reObj, ok := search.(*value.Object); ok && reObj.Class == "RegExp" {
		prog, ok := reObj.Data.(jsregexp.Program)
		if !ok {
			return value.String(s), nil
		}
		var b strings.Builder
		from, last := 0, 0
		for from <= len(s) {
			m, found, err := prog.Exec(context.Background(), s, from)
			if err != nil {
				return nil, regexpExecError(ev, err)
			}
			if !found {
				break
			}
			b.WriteString(s[last:m.Index])
			out, err := replacer(s[m.Index:m.Index+m.Length], m.Groups[1:], m.Index)
			if err != nil {
				return nil, err
			}
			b.WriteString(out)
			last = m.Index + m.Length
			if m.Length == 0 {
				from = m.Index + 1
			} else {
				from = last
			}
			if !prog.Global() {
				break
			}
		}
		b.WriteString(s[last:])
		return value.String(b.String()), nil
	}

	needle, err := toDisplayString(ev, search)
	if err != nil {
		return nil, err
	}
	idx := strings.Index(s, needle)
	if idx < 0 {
		return value.String(s), nil
	}
	out, err := replacer(needle, nil, idx)
	if err != nil {
		return nil, err
	}
	return value.String(s[:idx] + out + s[idx+len(needle):]), nil
}

// expandReplacement substitutes $$, $&, $1-$9 in a literal replacement
// string the way ES5's GetSubstitution does.
func expandReplacement(repl, matched string, groups []jsregexp.Group) string {
	var b strings.Builder
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c != '$' || i == len(repl)-1 {
			b.WriteByte(c)
			continue
		}
		next := repl[i+1]
		switch {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '&':
			b.WriteString(matched)
			i++
		case next >= '1' && next <= '9':
			n := int(next - '0')
			if n <= len(groups) && groups[n-1].Matched {
				b.WriteString(groups[n-1].Text)
			}
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func nan() float64 {
	var z float64
	return z / z
}
