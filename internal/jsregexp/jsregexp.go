// Package jsregexp isolates regular-expression execution from the main
// evaluator. A pathological pattern (catastrophic backtracking) must
// never be able to hang the host process, so every regex-consuming
// operation goes through a Backend rather than calling a Go regexp
// engine inline.
package jsregexp

import (
	"context"
	"time"
)

// Match is the result of one successful Exec: Index is the byte offset
// the overall match starts at, Length its length in bytes, and Groups
// holds the whole match at index 0 followed by each capture group (a
// group that didn't participate has Matched false).
type Match struct {
	Index  int
	Length int
	Groups []Group
}

// Group is one capturing group of a Match.
type Group struct {
	Text    string
	Matched bool
}

// Backend compiles patterns into Programs. Execution happens in
// Program.Exec; the time-bounded backends (sandboxed, worker) return
// ErrTimeout from Exec when their budget runs out before a match is
// decided, while the native backend runs without a deadline.
type Backend interface {
	// Compile validates pattern/flags eagerly so RegExp literals fail at
	// construction time the way a native engine's parser would.
	Compile(pattern, flags string) (Program, error)
}

// Program is a compiled pattern ready to execute.
type Program interface {
	// Exec finds the first match at or after fromIndex (byte offset into
	// subject), or returns found=false if there is none.
	Exec(ctx context.Context, subject string, fromIndex int) (m Match, found bool, err error)
	Source() string
	Flags() string
	Global() bool
	IgnoreCase() bool
	Multiline() bool
}

// ErrTimeout is returned when a pattern did not resolve before its
// deadline; callers surface this as a RangeError to interpreted code.
type ErrTimeout struct{ Budget time.Duration }

func (e *ErrTimeout) Error() string { return "regular expression evaluation timed out" }
