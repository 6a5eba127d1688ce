package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidTimezone = errors.New("invalid timezone")
	ErrNotFound        = errors.New("not found")
	ErrAIParse         = errors.New("ai parse error")
	ErrAITransport     = errors.New("ai transport error")
	ErrStore           = errors.New("store error")
	ErrConfiguration   = errors.New("configuration error")
)

// AppError carries the client-facing message and an optional details string.
// Controllers map the wrapped sentinel to an HTTP status; Details is the only
// part of an underlying store/transport error that ever reaches the client.
type AppError struct {
	Err     error
	Message string
	Details string
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Validation(message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message}
}

func InvalidTimezone() *AppError {
	return &AppError{Err: ErrInvalidTimezone, Message: "Invalid timezone"}
}

func NotFound(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message}
}

func AIParse(details string) *AppError {
	return &AppError{Err: ErrAIParse, Message: "Failed to parse meal with AI", Details: details}
}

func AITransport(details string) *AppError {
	return &AppError{Err: ErrAITransport, Message: "Failed to parse meal with AI", Details: details}
}

func Store(message, details string) *AppError {
	return &AppError{Err: ErrStore, Message: message, Details: details}
}

func Configuration(details string) *AppError {
	return &AppError{Err: ErrConfiguration, Message: "Internal server error", Details: details}
}
