package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these with %w so handlers can map to HTTP status codes
// without inspecting infrastructure error types.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrUnavailable  = errors.New("unavailable")
)

type userFacingError struct {
	msg  string
	kind error
}

func (e *userFacingError) Error() string { return e.msg }
func (e *userFacingError) Unwrap() error { return e.kind }

// UserError wraps a sentinel with a message meant for the end user. Error()
// returns only the message, so handlers can put it on the wire verbatim while
// still discriminating the kind with errors.Is.
func UserError(kind error, msg string) error {
	return &userFacingError{msg: msg, kind: kind}
}
