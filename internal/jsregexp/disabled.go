package jsregexp

import (
	"context"
	"errors"
)

// ErrDisabled is returned by every regex-consuming operation when the
// interpreter is configured with Mode 0: no regular expression support
// at all, for hosts that want to exclude the feature's attack surface
// entirely rather than bound it with a timeout.
var ErrDisabled = errors.New("Regular expressions not supported")

// DisabledBackend is Mode 0: RegExp literals and every regex-consuming
// String method fail outright instead of compiling.
type DisabledBackend struct{}

func NewDisabledBackend() *DisabledBackend { return &DisabledBackend{} }

func (b *DisabledBackend) Compile(pattern, flags string) (Program, error) {
	return nil, ErrDisabled
}

var _ Program = (*disabledProgram)(nil)

// disabledProgram exists only to satisfy the Program interface; Compile
// never actually returns one.
type disabledProgram struct{}

func (disabledProgram) Exec(ctx context.Context, subject string, fromIndex int) (Match, bool, error) {
	return Match{}, false, ErrDisabled
}
func (disabledProgram) Source() string   { return "" }
func (disabledProgram) Flags() string    { return "" }
func (disabledProgram) Global() bool     { return false }
func (disabledProgram) IgnoreCase() bool { return false }
func (disabledProgram) Multiline() bool  { return false }
