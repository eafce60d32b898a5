package evaluator

import (
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
)

// Outcome is what a step function hands back to the stepper loop: either
// a child frame to push (the current frame suspends and will be
// re-entered with the child's result), or a signal that this frame is
// done, with its resulting value and/or completion.
type Outcome struct {
	Push *Frame

	Done       bool
	Value      value.Value
	Completion *Completion // non-nil for break/continue/return/throw
}

// pushChild is a small constructor used pervasively by step functions.
func pushChild(f *Frame) Outcome { return Outcome{Push: f} }

func done(v value.Value) Outcome { return Outcome{Done: true, Value: v} }

func doneCompletion(c Completion) Outcome { return Outcome{Done: true, Completion: &c} }

// StepState is the per-node-kind scratch: "which sub-expression did I
// last emit, and what do I do now that it has produced a value". Advance
// is called once when the frame is first reached, and again each time a
// pushed child frame completes normally (childValue holds that child's
// result).
type StepState interface {
	Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome
}

// Frame is a single state-stack entry. Node and
// Scope are fixed at creation; State carries the re-entrant scratch.
type Frame struct {
	Node  ast.Node
	Scope *scope.Scope
	State StepState

	// Polyfill marks frames created while running interpreted-language
	// builtins, so Step's pacing budget can burn through them without
	// surfacing each one as a user-visible step.
	Polyfill bool

	// IsLoop / IsSwitch / Labels let the unwind algorithm find the
	// frame that absorbs a break/continue completion during unwind.
	IsLoop   bool
	IsSwitch bool
	Labels   map[string]bool

	// ProgramDone marks a frame kept on the stack after completion (Program),
	// so further appended code can still execute against it.
	ProgramDone bool
}

func NewFrame(node ast.Node, sc *scope.Scope, state StepState) *Frame {
	return &Frame{Node: node, Scope: sc, State: state}
}

func (f *Frame) HasLabel(label string) bool {
	if f.Labels == nil {
		return false
	}
	return f.Labels[label]
}

func (f *Frame) AddLabel(label string) {
	if f.Labels == nil {
		f.Labels = make(map[string]bool)
	}
	f.Labels[label] = true
}
