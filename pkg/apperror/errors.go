package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error and maps it to an HTTP status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

// ForbiddenReason distinguishes a role that never has the permission from a
// role that has it but does not own the record.
type ForbiddenReason string

const (
	ReasonRoleDenied ForbiddenReason = "role_denied"
	ReasonNotOwner   ForbiddenReason = "not_owner"
)

// AppError is the error type every layer below the handlers returns.
type AppError struct {
	Kind    Kind            `json:"-"`
	Message string          `json:"message"`
	Reason  ForbiddenReason `json:"-"`
	Err     error           `json:"-"`
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

// StatusCode maps the error kind to its HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string, reason ForbiddenReason) *AppError {
	return &AppError{Kind: KindForbidden, Message: message, Reason: reason}
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// From extracts an *AppError from err, wrapping unknown errors as internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
