package weather

import (
	"errors"
)

// Failure kinds. Match them with errors.Is.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrGeocodeFailure   = errors.New("geocode failure")
	ErrLocationNotFound = errors.New("location not found")
	ErrForecastFailure  = errors.New("forecast failure")
	ErrNotFound         = errors.New("not found")
)

// Error is an expected, non-fatal failure of a pipeline step. Reason is the
// human readable message surfaced to callers; Err optionally carries the
// underlying cause (transport error, bad status, decode error).
type Error struct {
	Kind   error
	Reason string
	Err    error
}

// Fail builds an *Error of the given kind.
func Fail(kind error, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// FailWith builds an *Error of the given kind wrapping cause.
func FailWith(kind error, reason string, cause error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// Reason returns the human readable reason of err when it is an *Error and
// err.Error() otherwise.
func Reason(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return err.Error()
}
