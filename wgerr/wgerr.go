// Package wgerr defines the failure kinds surfaced through the engine.
//
// Errors carry a Kind tag rather than distinct types. The tag rides GraphQL
// responses under extensions.kind so clients can branch without parsing
// message text.
package wgerr

import (
	"bytes"
	"errors"
)

// Kind tags a failure class.
type Kind string

const (
	ConfigInvalid                Kind = "ConfigInvalid"
	TypeNotFound                 Kind = "TypeNotFound"
	FieldNotFound                Kind = "FieldNotFound"
	InvalidPropertyType          Kind = "InvalidPropertyType"
	MissingProperty              Kind = "MissingProperty"
	MissingResultElement         Kind = "MissingResultElement"
	MissingResultSet             Kind = "MissingResultSet"
	TransactionFinished          Kind = "TransactionFinished"
	CouldNotBuildPool            Kind = "CouldNotBuildPool"
	IntegrityConstraintViolation Kind = "IntegrityConstraintViolation"
	PartitionKeyRequired         Kind = "PartitionKeyRequired"
	CommitIndeterminate          Kind = "CommitIndeterminate"
	ResolverNotRegistered        Kind = "ResolverNotRegistered"
	Backend                      Kind = "Backend"
)

// Error is the single error type used across the engine.
//
// Field names the property, type, or result element the failure refers to,
// when one applies. Detail is an optional human hint and is safe to return to
// clients.
type Error struct {
	Kind   Kind
	Field  string
	Detail string
	cause  error
}

// New creates an error of the given kind. field may be empty.
func New(kind Kind, field string) *Error {
	return &Error{Kind: kind, Field: field}
}

// NewDetail creates an error with an attached hint.
func NewDetail(kind Kind, field, detail string) *Error {
	return &Error{Kind: kind, Field: field, Detail: detail}
}

// Wrap tags an underlying cause with a kind.
func Wrap(err error, kind Kind, field string) *Error {
	return &Error{Kind: kind, Field: field, cause: err}
}

func (e *Error) Error() string {
	var buffer bytes.Buffer
	buffer.WriteString(string(e.Kind))
	if e.Field != "" {
		buffer.WriteString(": ")
		buffer.WriteString(e.Field)
	}
	if e.Detail != "" {
		buffer.WriteString(": ")
		buffer.WriteString(e.Detail)
	}
	if e.cause != nil {
		buffer.WriteString(": ")
		buffer.WriteString(e.cause.Error())
	}
	return buffer.String()
}

func (e *Error) Unwrap() error { return e.cause }

// Extensions satisfies gqlerrors.ExtendedError so the kind and detail appear
// on the wire under the error's extensions map.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"kind": string(e.Kind)}
	if e.Detail != "" {
		ext["detail"] = e.Detail
	}
	return ext
}

// KindOf reports the kind of err, or Backend when err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Backend
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
