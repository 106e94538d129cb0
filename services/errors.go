package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies workflow failures so transports can map them to responses.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInvalidRequest    ErrorKind = "invalid_request"
	KindInvalidState      ErrorKind = "invalid_state"
	KindExpired           ErrorKind = "expired"
	KindDependencyFailure ErrorKind = "dependency_failure"
)

// Error is returned by every workflow operation.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the kind of a workflow error. Unclassified errors report "".
func KindOf(err error) ErrorKind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}

func notFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func invalidRequest(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

func invalidState(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func expired(format string, args ...interface{}) error {
	return &Error{Kind: KindExpired, Message: fmt.Sprintf(format, args...)}
}

func dependencyFailure(err error, format string, args ...interface{}) error {
	return &Error{Kind: KindDependencyFailure, Message: fmt.Sprintf(format, args...), Err: err}
}
