package entity

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindConflict   Kind = "CONFLICT"
	KindNotFound   Kind = "NOT_FOUND"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrEmailExists  = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidID    = errors.New("invalid ID format")
)

// Error is a typed failure carrying a human-readable message. It matches its
// kind's sentinel with errors.Is.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrEmailExists:
		return e.Kind == KindConflict
	case ErrUserNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

func ValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func ConflictError(cause error) *Error {
	return &Error{Kind: KindConflict, Message: "Email already exists", Cause: cause}
}

func NotFoundError(id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("User with ID %s not found", id)}
}

// InvalidIDError is returned when an identifier is malformed.
func InvalidIDError() *Error {
	return &Error{Kind: KindValidation, Message: "Invalid ID format", Cause: ErrInvalidID}
}

// KindOf returns the kind of err, or "" when err is not a domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrEmailExists):
		return KindConflict
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidID):
		return KindValidation
	}
	return ""
}
