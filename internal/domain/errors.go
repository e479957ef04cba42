package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so callers can branch without parsing messages.
type Kind string

const (
	KindMalformedRequest Kind = "malformed_request"
	KindNotFound         Kind = "not_found"
	KindRuleViolation    Kind = "rule_violation"
	KindConflict         Kind = "conflict"
	KindInternal         Kind = "internal"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Error is the categorized error returned by every use case in this service.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// With attaches a piece of structured context (ids, emails) to the error.
func (e *Error) With(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// NewMalformedRequestError reports missing or empty request fields.
func NewMalformedRequestError(message string) *Error {
	return &Error{Kind: KindMalformedRequest, Message: message}
}

// NewNotFoundError reports that the referenced entity does not exist.
func NewNotFoundError(entity, key string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s %s not found", entity, key),
		Context: map[string]string{"entity": entity, "key": key},
	}
}

// NewNotFoundMessage reports a missing entity with a caller-supplied message.
func NewNotFoundMessage(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewRuleViolationError reports a broken business rule (duplicate request, quota).
func NewRuleViolationError(message string) *Error {
	return &Error{Kind: KindRuleViolation, Message: message}
}

// NewConflictError reports a state conflict, including lost optimistic-lock races.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewInternalError wraps an unexpected store or infrastructure failure.
func NewInternalError(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf returns the kind of err. Uncategorized errors are Internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a NotFound domain error.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// AsError converts err into a domain error, wrapping unknown errors as Internal.
func AsError(err error, message string) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return NewInternalError(message, err)
}
