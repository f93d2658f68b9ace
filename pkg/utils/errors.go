package utils

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindValidation
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unexpected"
	}
}

// AppError is the only error shape services hand to handlers.
// Message is safe to show to the caller, Err is for logs.
type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ErrValidation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func ErrValidationFields(fields map[string]string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Message: "validation failed: " + FormatValidationErrors(fields),
		Fields:  fields,
	}
}

func ErrForbidden(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Message: message}
}

func ErrNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func ErrConflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func ErrUnexpected(message string, err error) *AppError {
	return &AppError{Kind: KindUnexpected, Message: message, Err: err}
}

// KindOf classifies err; anything that is not an *AppError is unexpected.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
