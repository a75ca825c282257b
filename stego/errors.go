package stego

import "errors"

// Kind is a stable category for programmatic error handling.
// Callers should branch on Kind (or errors.Is against the sentinels below)
// rather than matching error strings.
type Kind string

const (
	KindCapacity           Kind = "Capacity"
	KindHeaderCorrupt      Kind = "HeaderCorrupt"
	KindPasswordRequired   Kind = "PasswordRequired"
	KindWrongPassword      Kind = "WrongPassword"
	KindDataLengthMismatch Kind = "DataLengthMismatch"
	KindInvalidBits        Kind = "InvalidBits"
)

// Error is the codec's structured error type.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Sentinels match any *Error of the same Kind via errors.Is.
var (
	ErrCapacity           = &Error{Kind: KindCapacity}
	ErrHeaderCorrupt      = &Error{Kind: KindHeaderCorrupt}
	ErrPasswordRequired   = &Error{Kind: KindPasswordRequired}
	ErrWrongPassword      = &Error{Kind: KindWrongPassword}
	ErrDataLengthMismatch = &Error{Kind: KindDataLengthMismatch}
	ErrInvalidBits        = &Error{Kind: KindInvalidBits}
)

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the Kind of a structured error, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}
