//go:build !goja

package jsregexp

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// WorkerBackend is compiled unless the `goja` build tag is set; no
// RegexMode selects it, and the goja-backed SandboxedBackend is built
// either way. It uses Go's RE2 engine for matching — RE2 has no
// catastrophic-backtracking failure mode — but runs each Exec call on
// its own goroutine under context.WithTimeout anyway, so a pattern that
// is merely slow (a very long subject string against a complex pattern)
// still yields control back to the host on schedule rather than running
// unbounded.
type WorkerBackend struct {
	Budget time.Duration
}

func NewWorkerBackend(budget time.Duration) *WorkerBackend {
	if budget <= 0 {
		budget = 50 * time.Millisecond
	}
	return &WorkerBackend{Budget: budget}
}

func (b *WorkerBackend) Compile(pattern, flags string) (Program, error) {
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
	return &workerProgram{backend: b, re: re, source: pattern, flags: flags, global: global, ignoreCase: ignoreCase, multiline: multiline}, nil
}

type workerProgram struct {
	backend                        *WorkerBackend
	re                             *regexp.Regexp
	source, flags                  string
	global, ignoreCase, multiline  bool
}

func (p *workerProgram) Source() string   { return p.source }
func (p *workerProgram) Flags() string    { return p.flags }
func (p *workerProgram) Global() bool     { return p.global }
func (p *workerProgram) IgnoreCase() bool { return p.ignoreCase }
func (p *workerProgram) Multiline() bool  { return p.multiline }

type workerResult struct {
	match Match
	found bool
}

func (p *workerProgram) Exec(ctx context.Context, subject string, fromIndex int) (Match, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, p.backend.Budget)
	defer cancel()

	resultCh := make(chan workerResult, 1)
	go func() {
		if fromIndex > len(subject) {
			resultCh <- workerResult{}
			return
		}
		loc := p.re.FindStringSubmatchIndex(subject[fromIndex:])
		if loc == nil {
			resultCh <- workerResult{}
			return
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
		resultCh <- workerResult{
			match: Match{Index: fromIndex + loc[0], Length: loc[1] - loc[0], Groups: groups},
			found: true,
		}
	}()

	select {
	case r := <-resultCh:
		return r.match, r.found, nil
	case <-ctx.Done():
		// The goroutine above is leaked until FindStringSubmatchIndex
		// returns on its own; RE2 guarantees that happens in linear time,
		// so the leak is bounded, not permanent.
		return Match{}, false, &ErrTimeout{Budget: p.backend.Budget}
	}
}
