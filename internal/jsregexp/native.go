package jsregexp

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// NativeBackend is Mode 1: patterns are translated to Go's RE2-based
// regexp package and executed directly, no sandboxing needed since RE2
// has no backtracking to run away with. Its documented limitation is
// the ES5 syntax RE2 cannot express at all (backreferences, lookahead):
// Compile rejects those patterns rather than silently misinterpreting
// them.
type NativeBackend struct{}

func NewNativeBackend() *NativeBackend { return &NativeBackend{} }

func (b *NativeBackend) Compile(pattern, flags string) (Program, error) {
	global := strings.Contains(flags, "g")
	ignoreCase := strings.Contains(flags, "i")
	multiline := strings.Contains(flags, "m")

	goPattern, err := translatePattern(pattern, ignoreCase, multiline)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(goPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression: %w", err)
	}
	return &nativeProgram{re: re, source: pattern, flags: flags, global: global, ignoreCase: ignoreCase, multiline: multiline}, nil
}

// translatePattern applies the ES5-to-RE2 rewrites this backend
// supports: (?i)/(?m) inline flags for case/multiline, and \d \w \s
// classes pass through unchanged since RE2 already implements them the
// same way. Backreferences (\1) and lookaround ((?=...), (?!...)) are
// not supported by RE2 and are rejected here rather than compiled into
// something that silently means something else.
func translatePattern(pattern string, ignoreCase, multiline bool) (string, error) {
	if strings.Contains(pattern, "(?=") || strings.Contains(pattern, "(?!") || strings.Contains(pattern, "(?<") {
		return "", fmt.Errorf("lookaround assertions are not supported in native regexp mode")
	}
	for i := 1; i < len(pattern); i++ {
		if pattern[i-1] == '\\' && pattern[i] >= '1' && pattern[i] <= '9' {
			return "", fmt.Errorf("backreferences are not supported in native regexp mode")
		}
	}
	var prefix string
	if ignoreCase {
		prefix += "i"
	}
	if multiline {
		prefix += "m"
	}
	if prefix == "" {
		return pattern, nil
	}
	return "(?" + prefix + ")" + pattern, nil
}

type nativeProgram struct {
	re                                  *regexp.Regexp
	source, flags                       string
	global, ignoreCase, multiline       bool
}

func (p *nativeProgram) Source() string  { return p.source }
func (p *nativeProgram) Flags() string   { return p.flags }
func (p *nativeProgram) Global() bool    { return p.global }
func (p *nativeProgram) IgnoreCase() bool { return p.ignoreCase }
func (p *nativeProgram) Multiline() bool  { return p.multiline }

func (p *nativeProgram) Exec(ctx context.Context, subject string, fromIndex int) (Match, bool, error) {
	if fromIndex > len(subject) {
		return Match{}, false, nil
	}
	if err := ctx.Err(); err != nil {
		return Match{}, false, err
	}
	loc := p.re.FindStringSubmatchIndex(subject[fromIndex:])
	if loc == nil {
		return Match{}, false, nil
	}
	groups := make([]Group, len(loc)/2)
	for i := range groups {
		start, end := loc[2*i], loc[2*i+1]
		if start < 0 {
			groups[i] = Group{Matched: false}
			continue
		}
		groups[i] = Group{Text: subject[fromIndex+start : fromIndex+end], Matched: true}
	}
	return Match{
		Index:  fromIndex + loc[0],
		Length: loc[1] - loc[0],
		Groups: groups,
	}, true, nil
}
