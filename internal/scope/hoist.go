package scope

// LookupOrUndefined wraps Lookup with the typeof rule: when
// isTypeofOperand is true a missing name resolves to not-found instead
// of a ReferenceError. The evaluator passes this flag through rather
// than duplicating the walk.
func LookupOrUndefined(s *Scope, name string, isTypeofOperand bool) (LookupResult, error) {
	res, err := Lookup(s, name)
	if err != nil {
		return res, err
	}
	if !res.Found && !isTypeofOperand {
		return res, &ReferenceError{Name: name}
	}
	return res, nil
}

// ReferenceError is raised when an identifier has no binding anywhere in
// the scope chain and the context is not a bare typeof operand.
type ReferenceError struct {
	Name string
}

func (e *ReferenceError) Error() string { return "ReferenceError: " + e.Name + " is not defined" }
