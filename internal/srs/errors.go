package srs

import "errors"

// Validation errors are local and synchronous; there is no transient class
// to retry. Check with errors.Is.
var (
	ErrInvalidGrade     = errors.New("grade must be between 1 (again) and 4 (easy)")
	ErrUnknownStrategy  = errors.New("unknown scheduling strategy")
	ErrInvalidParams    = errors.New("scheduler parameters out of bounds")
	ErrStrategyMismatch = errors.New("card is governed by a different strategy")
)
