package jsregexp

import (
	"context"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// SandboxedBackend is Mode 2: each Exec call runs inside its own goja VM
// instance, guarded by goja's Interrupt mechanism, so a pattern with
// catastrophic backtracking (which goja's own regexp engine, unlike
// RE2, can exhibit) is killed at the timeout instead of hanging the
// host process. goja is used purely as an isolated regex executor here,
// never as the interpreter's own evaluator.
type SandboxedBackend struct {
	Budget time.Duration
}

func NewSandboxedBackend(budget time.Duration) *SandboxedBackend {
	if budget <= 0 {
		budget = 50 * time.Millisecond
	}
	return &SandboxedBackend{Budget: budget}
}

func (b *SandboxedBackend) Compile(pattern, flags string) (Program, error) {
	// Validate eagerly so a malformed RegExp literal fails at
	// construction time; real execution recompiles per Exec call in a
	// fresh, time-boxed VM (see Exec) rather than reusing this one.
	if _, err := validateInNewVM(pattern, flags); err != nil {
		return nil, fmt.Errorf("invalid regular expression: %w", err)
	}
	global := containsRune(flags, 'g')
	ignoreCase := containsRune(flags, 'i')
	multiline := containsRune(flags, 'm')
	return &sandboxedProgram{
		backend:    b,
		source:     pattern,
		flags:      flags,
		global:     global,
		ignoreCase: ignoreCase,
		multiline:  multiline,
	}, nil
}

func validateInNewVM(pattern, flags string) (goja.Value, error) {
	vm := goja.New()
	vm.Set("__pattern", pattern)
	vm.Set("__flags", flags)
	return vm.RunString("new RegExp(__pattern, __flags)")
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

type sandboxedProgram struct {
	backend                       *SandboxedBackend
	source, flags                 string
	global, ignoreCase, multiline bool
}

func (p *sandboxedProgram) Source() string   { return p.source }
func (p *sandboxedProgram) Flags() string    { return p.flags }
func (p *sandboxedProgram) Global() bool     { return p.global }
func (p *sandboxedProgram) IgnoreCase() bool { return p.ignoreCase }
func (p *sandboxedProgram) Multiline() bool  { return p.multiline }

// Exec builds a fresh VM per call (cheap relative to the alternative of
// sharing mutable VM state across concurrent regex operations), sets an
// Interrupt timer for the configured budget, and runs the match inside
// it. A caught interrupt is surfaced as ErrTimeout.
func (p *sandboxedProgram) Exec(ctx context.Context, subject string, fromIndex int) (Match, bool, error) {
	deadline := p.backend.Budget
	if d, ok := ctx.Deadline(); ok {
		if remaining := time.Until(d); remaining < deadline {
			deadline = remaining
		}
	}

	vm := goja.New()
	timer := time.AfterFunc(deadline, func() {
		vm.Interrupt(&ErrTimeout{Budget: deadline})
	})
	defer timer.Stop()

	vm.Set("__pattern", p.source)
	vm.Set("__flags", p.flags)
	vm.Set("__subject", subject)
	vm.Set("__from", fromIndex)

	script := `
		(function() {
			var re = new RegExp(__pattern, __flags.replace("g","") + "g");
			re.lastIndex = __from;
			var m = re.exec(__subject);
			if (!m) return null;
			var groups = [];
			for (var i = 0; i < m.length; i++) {
				groups.push(m[i] === undefined ? null : m[i]);
			}
			return { index: m.index, groups: groups };
		})()
	`
	result, err := vm.RunString(script)
	if err != nil {
		if ie, ok := err.(*goja.InterruptedError); ok {
			if to, ok := ie.Value().(*ErrTimeout); ok {
				return Match{}, false, to
			}
			return Match{}, false, &ErrTimeout{Budget: deadline}
		}
		return Match{}, false, fmt.Errorf("regexp execution failed: %w", err)
	}
	if goja.IsNull(result) || goja.IsUndefined(result) {
		return Match{}, false, nil
	}

	obj := result.ToObject(vm)
	index := int(obj.Get("index").ToInteger())
	groupsVal := obj.Get("groups")
	groupsObj := groupsVal.ToObject(vm)
	length := int(groupsObj.Get("length").ToInteger())
	groups := make([]Group, length)
	matchedLen := 0
	for i := 0; i < length; i++ {
		v := groupsObj.Get(fmt.Sprint(i))
		if goja.IsNull(v) || goja.IsUndefined(v) {
			groups[i] = Group{Matched: false}
			continue
		}
		text := v.String()
		if i == 0 {
			matchedLen = len(text)
		}
		groups[i] = Group{Text: text, Matched: true}
	}
	return Match{Index: index, Length: matchedLen, Groups: groups}, true, nil
}
