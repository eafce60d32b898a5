package jsregexp

import (
	"context"
	"testing"
)

func TestNativeBackendExecFindsMatch(t *testing.T) {
	b := NewNativeBackend()
	prog, err := b.Compile(`(\w+)@(\w+)\.com`, "i")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m, found, err := prog.Exec(context.Background(), "contact ADMIN@Example.com today", 0)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !found {
		t.Fatalf("expected a match")
	}
	if len(m.Groups) != 3 || !m.Groups[1].Matched || m.Groups[1].Text != "ADMIN" {
		t.Fatalf("unexpected groups: %+v", m.Groups)
	}
}

func TestNativeBackendNoMatch(t *testing.T) {
	b := NewNativeBackend()
	prog, err := b.Compile(`xyz`, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	_, found, err := prog.Exec(context.Background(), "abc def", 0)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if found {
		t.Fatalf("expected no match")
	}
}

func TestNativeBackendRejectsBackreferences(t *testing.T) {
	b := NewNativeBackend()
	if _, err := b.Compile(`(a)\1`, ""); err == nil {
		t.Fatalf("expected backreference rejection")
	}
}

func TestNativeBackendRejectsLookahead(t *testing.T) {
	b := NewNativeBackend()
	if _, err := b.Compile(`foo(?=bar)`, ""); err == nil {
		t.Fatalf("expected lookahead rejection")
	}
}

func TestNativeBackendFromIndex(t *testing.T) {
	b := NewNativeBackend()
	prog, err := b.Compile(`\d+`, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m, found, err := prog.Exec(context.Background(), "12 34", 1)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !found || m.Index != 3 {
		t.Fatalf("expected match at index 3, got %+v found=%v", m, found)
	}
}
