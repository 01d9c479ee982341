package dqf

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to classify an *Error.
var (
	// ErrPrecondition marks a programmer error: wrong entity variant, creating
	// an entity that is already persisted, updating one that is not.
	ErrPrecondition = errors.New("precondition violated")

	// ErrDomainConstraint marks a business rule breach detected locally, before
	// any network call.
	ErrDomainConstraint = errors.New("domain constraint violated")

	// ErrRemoteRejected marks a response whose status is outside the class the
	// operation expects.
	ErrRemoteRejected = errors.New("rejected by remote service")

	// ErrAttributeNotFound marks an enumeration key missing from the attribute cache.
	ErrAttributeNotFound = errors.New("attribute not found")

	// ErrNotInitialized marks use of the attribute cache before it was loaded.
	ErrNotInitialized = errors.New("attribute cache not initialized")
)

// Error is the error type returned by the domain graph and the layers built on it.
type Error struct {
	// Op is the operation that failed, e.g. "MasterProjectRepository.Save".
	Op string

	// Err is one of the sentinel errors above or an underlying cause.
	Err error

	// Msg is optional detail.
	Msg string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Preconditionf builds an ErrPrecondition error.
func Preconditionf(op, format string, args ...any) error {
	return &Error{Op: op, Err: ErrPrecondition, Msg: fmt.Sprintf(format, args...)}
}

// Constraintf builds an ErrDomainConstraint error.
func Constraintf(op, format string, args ...any) error {
	return &Error{Op: op, Err: ErrDomainConstraint, Msg: fmt.Sprintf(format, args...)}
}

// IsPrecondition reports whether err is a precondition violation.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrPrecondition)
}

// IsDomainConstraint reports whether err is a domain constraint violation.
func IsDomainConstraint(err error) bool {
	return errors.Is(err, ErrDomainConstraint)
}

// IsRemoteRejected reports whether err is a remote rejection.
func IsRemoteRejected(err error) bool {
	return errors.Is(err, ErrRemoteRejected)
}
