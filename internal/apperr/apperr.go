package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindAuth        Kind = "auth"
	KindProvider    Kind = "provider"
	KindGeneration  Kind = "generation"
	KindPersistence Kind = "persistence"
	KindNotFound    Kind = "not_found"
	KindInternal    Kind = "internal"
)

// AppError is an error tagged with a Kind.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(kind Kind, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func Validation(message string, err error) *AppError  { return New(KindValidation, message, err) }
func Auth(message string, err error) *AppError        { return New(KindAuth, message, err) }
func Provider(message string, err error) *AppError    { return New(KindProvider, message, err) }
func Generation(message string, err error) *AppError  { return New(KindGeneration, message, err) }
func Persistence(message string, err error) *AppError { return New(KindPersistence, message, err) }
func NotFound(message string, err error) *AppError    { return New(KindNotFound, message, err) }

// KindOf returns the Kind of the outermost AppError in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Wrap tags err with kind unless it already carries one, in which case the
// existing kind is kept and message is prefixed.
func Wrap(err error, kind Kind, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Kind:    appErr.Kind,
			Message: message,
			Err:     err,
		}
	}
	return New(kind, message, err)
}
