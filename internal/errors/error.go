package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryElement  Category = "element"
	CategoryRender   Category = "render"
	CategoryHost     Category = "host"
	CategoryProtocol Category = "protocol"
	CategoryStorage  Category = "storage"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// FibreError is a structured error with a registered code, a detail line and a suggestion.
type FibreError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (element, render, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this occurrence.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *FibreError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *FibreError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a FibreError with the same code.
func (e *FibreError) Is(target error) bool {
	t, ok := target.(*FibreError)
	if !ok || t.Code == "" {
		return false
	}
	return e.Code == t.Code
}

// WithDetail adds a detailed explanation to the error.
func (e *FibreError) WithDetail(d string) *FibreError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *FibreError) WithDetailf(format string, args ...any) *FibreError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *FibreError) WithSuggestion(s string) *FibreError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *FibreError) Wrap(err error) *FibreError {
	e.Wrapped = err
	return e
}

// New creates a FibreError from a registered error code.
func New(code string) *FibreError {
	template, ok := registry[code]
	if !ok {
		return &FibreError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &FibreError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new FibreError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *FibreError {
	return &FibreError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a FibreError.
// An error that already is (or wraps) a FibreError is returned unchanged.
func FromError(err error, code string) *FibreError {
	if err == nil {
		return nil
	}
	var fe *FibreError
	if stderrors.As(err, &fe) {
		return fe
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err, or any error it wraps, is a FibreError with the given code.
func HasCode(err error, code string) bool {
	for err != nil {
		if fe, ok := err.(*FibreError); ok && fe.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// CodeOf returns the code of the first FibreError in err's chain, or "".
func CodeOf(err error) string {
	var fe *FibreError
	if stderrors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// Chain returns err's message followed by the messages of the coded errors
// it wraps, down to the first error that is not a FibreError.
func Chain(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for {
		fe, ok := err.(*FibreError)
		if !ok || fe.Wrapped == nil {
			return msg
		}
		err = fe.Wrapped
		msg += ": " + err.Error()
	}
}
