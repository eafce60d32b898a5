package es5box

import "errors"

var (
	errNilValue    = errors.New("es5box: nil value")
	errNotAnObject = errors.New("es5box: value is not an object")
)
