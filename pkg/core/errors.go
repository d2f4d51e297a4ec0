package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrParse         = errors.New("parse error")
	ErrFieldCount    = errors.New("wrong number of fields")
	ErrNoInput       = errors.New("no input files matched")
	ErrMissingOption = errors.New("missing required option")
)

// ParseError describes a row that could not be turned into a record.
// Line and Column are 1-based; zero means unknown.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Field  string
	Err    error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	if e.Column > 0 {
		return fmt.Sprintf("%s: column %d (%s): %v", loc, e.Column, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports every ParseError as ErrParse so callers can classify failures
// without unpacking them.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
