// Package errs holds the error kinds shared by all fittrack packages.
// Packages wrap these with fmt.Errorf("%w: ...") so callers can use errors.Is.
package errs

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrAuth          = errors.New("authentication failed")
	ErrDuplicateUser = errors.New("user already exists")
	ErrParse         = errors.New("parse error")
	ErrPersistence   = errors.New("persistence error")
	ErrNoExercises   = errors.New("no exercises available")
)
