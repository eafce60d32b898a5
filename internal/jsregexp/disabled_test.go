package jsregexp

import (
	"context"
	"errors"
	"testing"
)

func TestDisabledBackendCompileFails(t *testing.T) {
	b := NewDisabledBackend()
	_, err := b.Compile("foo", "")
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestDisabledProgramExecFails(t *testing.T) {
	var p disabledProgram
	_, matched, err := p.Exec(context.Background(), "subject", 0)
	if matched {
		t.Fatalf("expected no match")
	}
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}
