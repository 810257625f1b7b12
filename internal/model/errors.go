package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures reported to the calling layer.
type ErrorKind string

const (
	KindInvalidRequirement ErrorKind = "invalid_requirement"
	KindDegenerateSplicing ErrorKind = "degenerate_splicing"
	KindInvalidSettings    ErrorKind = "invalid_settings"
	KindUnknownDiameter    ErrorKind = "unknown_diameter_weight"
)

// Error is a structured failure: a kind plus a human-readable message.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, field, format string, args ...any) *Error {
	return &Error{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewError builds a structured error.
func NewError(kind ErrorKind, field, format string, args ...any) error {
	return newError(kind, field, format, args...)
}

// IsKind reports whether err (or anything it wraps) is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Warning is a non-fatal condition surfaced alongside a result.
type Warning struct {
	Kind     ErrorKind `json:"kind"`
	Diameter int       `json:"diameter,omitempty"`
	Message  string    `json:"message"`
}
