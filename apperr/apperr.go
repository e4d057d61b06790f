// Package apperr classifies failures so callers can branch on kind
// instead of null-checking. Every service operation wraps the
// underlying store or SDK error with a kind and the operation name.
package apperr

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	// KindUnauthorized: missing, expired, or invalid credentials/session.
	KindUnauthorized
	// KindInvalid: the input was rejected before or by the backend
	// (bad identifiers, duplicate email, schema violations).
	KindInvalid
	// KindNotFound: the referenced document does not exist.
	KindNotFound
	// KindUnavailable: the hosted backend could not be reached or
	// failed internally.
	KindUnavailable
	// KindCompensated: a multi-step operation failed partway and its
	// side effects were rolled back by compensating actions.
	KindCompensated
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not found"
	case KindUnavailable:
		return "unavailable"
	case KindCompensated:
		return "compensated"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// E wraps err with a kind and operation name.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf is E with a formatted message instead of a wrapped cause.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the kind of err, or KindUnknown for errors that did
// not come through this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
