// Package errors formats host-facing diagnostics — parse errors from the
// otto parser and construction-time SyntaxErrors — with source context,
// line/column information, and a caret pointing at the offending
// position.
package errors

import (
	"fmt"
	"strings"

	"github.com/robertkrimen/otto/file"
	"github.com/robertkrimen/otto/parser"
)

// CompilerError is a single diagnostic with position and source context.
type CompilerError struct {
	Message string
	Source  string
	File    string
	Pos     file.Position
}

// NewCompilerError creates a new diagnostic.
func NewCompilerError(pos file.Position, message, source, file string) *CompilerError {
	return &CompilerError{
		Pos:     pos,
		Message: message,
		Source:  source,
		File:    file,
	}
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format formats the error message with source context. If color is
// true, ANSI color codes are used for terminal output.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", e.Pos.Line, e.Pos.Column)
	}

	sourceLine := e.getSourceLine(e.Pos.Line)
	if sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (e *CompilerError) getSourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatErrors formats multiple diagnostics, each with its own source
// context.
func FormatErrors(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Compilation failed with %d error(s):\n\n", len(errs))
	for i, err := range errs {
		fmt.Fprintf(&sb, "[Error %d of %d]\n", i+1, len(errs))
		sb.WriteString(err.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// FromOttoErrors flattens a parse error returned by otto/parser.ParseFile
// into CompilerErrors with source context attached. A single call to
// ParseFile returns its accumulated errors as a parser.ErrorList; any
// other error shape is reported at position zero (the diagnostic still
// prints, just without a caret-aligned source line).
func FromOttoErrors(err error, source, filename string) []*CompilerError {
	if err == nil {
		return nil
	}
	if list, ok := err.(parser.ErrorList); ok {
		out := make([]*CompilerError, 0, len(list))
		for _, e := range list {
			out = append(out, NewCompilerError(e.Position, e.Message, source, filename))
		}
		return out
	}
	return []*CompilerError{NewCompilerError(file.Position{}, err.Error(), source, filename)}
}
