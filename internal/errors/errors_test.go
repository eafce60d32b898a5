package errors

import (
	"strings"
	"testing"

	"github.com/robertkrimen/otto/file"
	"github.com/robertkrimen/otto/parser"
)

func TestCompilerErrorFormatIncludesSourceLineAndCaret(t *testing.T) {
	source := "var x = ;\n"
	pos := file.Position{Line: 1, Column: 9}
	err := NewCompilerError(pos, "Unexpected token ;", source, "main.js")

	formatted := err.Format(false)
	if !strings.Contains(formatted, "main.js:1:9") {
		t.Fatalf("expected formatted error to reference main.js:1:9, got %q", formatted)
	}
	if !strings.Contains(formatted, "var x = ;") {
		t.Fatalf("expected formatted error to include the source line, got %q", formatted)
	}
	if !strings.Contains(formatted, "^") {
		t.Fatalf("expected formatted error to include a caret, got %q", formatted)
	}
}

func TestFromOttoErrorsFlattensErrorList(t *testing.T) {
	list := parser.ErrorList{
		&parser.Error{Position: file.Position{Line: 2, Column: 1}, Message: "unexpected identifier"},
		&parser.Error{Position: file.Position{Line: 3, Column: 5}, Message: "unexpected end of input"},
	}
	errs := FromOttoErrors(list, "a\nb\nc", "main.js")
	if len(errs) != 2 {
		t.Fatalf("FromOttoErrors returned %d errors, want 2", len(errs))
	}
	if errs[0].Pos.Line != 2 || errs[0].Message != "unexpected identifier" {
		t.Fatalf("unexpected first error: %+v", errs[0])
	}
	if errs[1].Pos.Line != 3 {
		t.Fatalf("unexpected second error: %+v", errs[1])
	}
}

func TestFromOttoErrorsNil(t *testing.T) {
	if errs := FromOttoErrors(nil, "", ""); errs != nil {
		t.Fatalf("FromOttoErrors(nil) = %v, want nil", errs)
	}
}
