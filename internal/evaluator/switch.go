package evaluator

import (
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/ast"
)

// switchState evaluates the discriminant, then finds the first case
// whose test is strictly equal, falling through to subsequent cases
// (including a default clause interleaved at its source position) the
// way a real switch does once a match is found.
type switchState struct {
	discriminant ast.Expression
	cases        []*ast.CaseStatement
	defaultIndex int // -1 if there is no default clause
	sc           *scope.Scope

	phase        int // 0 discriminant, 1 testing a case, 2 running statements
	testIndex    int
	discValue    value.Value
	matchedIndex int // index into the flattened statement list; -1 until matched
	flatStmts    []ast.Statement
	flatCaseOf   []int // for each flattened statement, which case index produced it
}

func newSwitchState(n *ast.SwitchStatement, parent *scope.Scope) *switchState {
	s := &switchState{
		discriminant: n.Discriminant,
		cases:        n.Body,
		defaultIndex: -1,
		sc:           scope.NewChild(parent),
		matchedIndex: -1,
	}
	for i, c := range n.Body {
		if c.Test == nil {
			s.defaultIndex = i
		}
		for _, stmt := range c.Consequent {
			s.flatStmts = append(s.flatStmts, stmt)
			s.flatCaseOf = append(s.flatCaseOf, i)
		}
	}
	return s
}

func (s *switchState) Advance(ev *Evaluator, frame *Frame, childValue value.Value) Outcome {
	switch s.phase {
	case 0:
		s.phase = 1
		return pushChild(newFrame(s.discriminant, s.sc))
	case 1:
		s.discValue = childValue
		return s.testNextCase()
	case 2:
		return s.afterCaseTest(childValue)
	default:
		return s.runNext()
	}
}

// testNextCase evaluates the next clause's test expression, skipping
// default and already-tried clauses.
func (s *switchState) testNextCase() Outcome {
	for s.testIndex < len(s.cases) {
		c := s.cases[s.testIndex]
		if c.Test == nil {
			s.testIndex++
			continue
		}
		s.testIndex++
		s.phase = 2
		return pushChild(newFrame(c.Test, s.sc))
	}
	if s.defaultIndex >= 0 {
		s.startAt(s.defaultIndex)
	}
	return s.runNext()
}

// afterCaseTest is reached once the clause test at s.testIndex-1 has
// been evaluated; a strict match starts execution there.
func (s *switchState) afterCaseTest(testValue value.Value) Outcome {
	matchedCase := s.testIndex - 1
	if strictEquals(s.discValue, testValue) {
		s.startAt(matchedCase)
		return s.runNext()
	}
	return s.testNextCase()
}

func (s *switchState) startAt(caseIdx int) {
	for i, ci := range s.flatCaseOf {
		if ci == caseIdx {
			s.matchedIndex = i
			return
		}
	}
	s.matchedIndex = len(s.flatStmts)
}

func (s *switchState) runNext() Outcome {
	s.phase = 3
	if s.matchedIndex < 0 || s.matchedIndex >= len(s.flatStmts) {
		return done(value.Undef)
	}
	stmt := s.flatStmts[s.matchedIndex]
	s.matchedIndex++
	return pushChild(newFrame(stmt, s.sc))
}
