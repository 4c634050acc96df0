package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidationFailed       Code = "validation_failed"
	CodeNotFound               Code = "not_found"
	CodeDuplicateConflict      Code = "duplicate_conflict"
	CodeUnauthenticated        Code = "unauthenticated"
	CodeForbidden              Code = "forbidden"
	CodeInvalidCredentials     Code = "invalid_credentials"
	CodeNoCorrectChoiceDefined Code = "no_correct_choice_defined"
	CodeStorageFailure         Code = "storage_failure"
	CodeTimeout                Code = "timeout"
	CodeInternal               Code = "internal"
)

var code2http = map[Code]int{
	CodeValidationFailed:       http.StatusBadRequest,
	CodeNotFound:               http.StatusNotFound,
	CodeDuplicateConflict:      http.StatusConflict,
	CodeUnauthenticated:        http.StatusUnauthorized,
	CodeForbidden:              http.StatusForbidden,
	CodeInvalidCredentials:     http.StatusUnauthorized,
	CodeNoCorrectChoiceDefined: http.StatusInternalServerError,
	CodeStorageFailure:         http.StatusInternalServerError,
	CodeTimeout:                http.StatusGatewayTimeout,
	CodeInternal:               http.StatusInternalServerError,
}

var defaultMessages = map[Code]string{
	CodeValidationFailed:       "invalid request",
	CodeNotFound:               "not found",
	CodeDuplicateConflict:      "already exists",
	CodeUnauthenticated:        "authentication required",
	CodeForbidden:              "forbidden",
	CodeInvalidCredentials:     "invalid credentials",
	CodeNoCorrectChoiceDefined: "quiz is misconfigured: a question has no correct choice",
	CodeStorageFailure:         "storage unavailable",
	CodeTimeout:                "request timed out",
	CodeInternal:               "internal error",
}

// Error is the error type every layer returns to the HTTP boundary. Message is
// safe to show to clients; the cause is only ever logged.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	err     error
}

func New(code Code, opts ...Option) *Error {
	e := &Error{
		Code:    code,
		Message: defaultMessages[code],
	}
	if e.Message == "" {
		e.Message = string(code)
	}

	for _, opt := range opts {
		opt.apply(e)
	}

	return e
}

func (e *Error) Error() string {
	s := fmt.Sprintf("code: %s, message: %s", e.Code, e.Message)
	if e.err != nil {
		s += fmt.Sprintf(", err: %s", e.err)
	}

	return s
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) HTTPStatusCode() int {
	if c, ok := code2http[e.Code]; ok {
		return c
	}

	return http.StatusInternalServerError
}

// Public reports whether Message may carry request specific detail. Storage,
// timeout and internal failures always expose the generic message.
func (e *Error) Public() bool {
	switch e.Code {
	case CodeStorageFailure, CodeTimeout, CodeInternal:
		return false
	}
	return true
}

func Convert(err error) *Error {
	var e *Error
	if !errors.As(err, &e) {
		return Internal(err)
	}

	return e
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func Internal(err error) *Error {
	return New(CodeInternal, WithCause(err))
}

// Storage classifies a data-access failure: an expired or cancelled context
// becomes Timeout, anything else StorageFailure. Typed errors pass through.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return New(CodeTimeout, WithCause(err))
	}
	return New(CodeStorageFailure, WithCause(err))
}

type Option interface {
	apply(*Error)
}

type optionFunc func(*Error)

func (f optionFunc) apply(e *Error) {
	f(e)
}

func WithCause(err error) Option {
	return optionFunc(func(e *Error) {
		e.err = err
	})
}

func WithMessagef(format string, args ...any) Option {
	return optionFunc(func(e *Error) {
		e.Message = fmt.Sprintf(format, args...)
	})
}
