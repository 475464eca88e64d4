package errors

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrInternalError   ErrorType = "internal error"
	ErrNotFound        ErrorType = "not found"
	ErrAlreadyExists   ErrorType = "already exists"
	ErrInvalidArgument ErrorType = "invalid argument"
	ErrFailedPrecond   ErrorType = "failed precondition"
	ErrUnauthenticated ErrorType = "unauthenticated"

	ErrTimeout           ErrorType = "timeout"
	ErrConnection        ErrorType = "connection failure"
	ErrMalformedResponse ErrorType = "malformed response"
	ErrCyclicGraph       ErrorType = "cyclic graph"
	ErrIOFailure         ErrorType = "io failure"
)

func (e ErrorType) String() string {
	return string(e)
}

// DomainError is the standard error type used across the codebase, it
// carries the entity on which the error happened along with its type so
// callers can discriminate without parsing messages.
type DomainError struct {
	ErrorType ErrorType

	Entity  string
	Message string

	WrappedErr error
}

func NewError(errType ErrorType, entity, message string) *DomainError {
	return &DomainError{
		ErrorType: errType,
		Entity:    entity,
		Message:   message,
	}
}

func (d *DomainError) Error() string {
	if d.WrappedErr == nil {
		return fmt.Sprintf("%s for entity %s: %s", d.ErrorType, d.Entity, d.Message)
	}
	return fmt.Sprintf("%s for entity %s: %s: %s", d.ErrorType, d.Entity, d.Message, d.WrappedErr)
}

func (d *DomainError) Unwrap() error {
	return d.WrappedErr
}

func InvalidArgument(entity, message string) error {
	return NewError(ErrInvalidArgument, entity, message)
}

func NotFound(entity, message string) error {
	return NewError(ErrNotFound, entity, message)
}

func AlreadyExists(entity, message string) error {
	return NewError(ErrAlreadyExists, entity, message)
}

func InternalError(entity, message string, err error) error {
	return &DomainError{
		ErrorType:  ErrInternalError,
		Entity:     entity,
		Message:    message,
		WrappedErr: err,
	}
}

// Wrap creates a new internal error around err with added entity context.
func Wrap(entity, message string, err error) error {
	if err == nil {
		return nil
	}
	return &DomainError{
		ErrorType:  ErrInternalError,
		Entity:     entity,
		Message:    message,
		WrappedErr: err,
	}
}

// AddErrContext decorates err with entity and message while keeping the
// original error type intact.
func AddErrContext(err error, entity, message string) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return &DomainError{
			ErrorType:  de.ErrorType,
			Entity:     entity,
			Message:    message,
			WrappedErr: err,
		}
	}
	return &DomainError{
		ErrorType:  ErrInternalError,
		Entity:     entity,
		Message:    message,
		WrappedErr: err,
	}
}

func IsErrorType(err error, errType ErrorType) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.ErrorType == errType
	}
	return false
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target) //nolint:errorlint
}

func New(message string) error {
	return errors.New(message) //nolint:goerr113
}
