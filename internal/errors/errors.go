package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents the failure categories a stage boundary distinguishes
type ErrorType string

const (
	// ErrorTypeUsage - required inputs absent
	ErrorTypeUsage ErrorType = "usage"
	// ErrorTypeIO - a referenced file or remote object is missing or unreadable
	ErrorTypeIO ErrorType = "io"
	// ErrorTypeDecode - malformed JSON, an unreadable image, or a required
	// field that is missing or non-numeric
	ErrorTypeDecode ErrorType = "decode"
	// ErrorTypeUpstream - the consumed payload already carries status=error
	ErrorTypeUpstream ErrorType = "upstream"
	// ErrorTypeInternal - anything the other categories do not cover
	ErrorTypeInternal ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewUsageError creates a usage error
func NewUsageError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUsage,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewIOError creates an I/O error
func NewIOError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeIO,
		Message:    message,
		StatusCode: http.StatusNotFound,
		Cause:      cause,
	}
}

// NewDecodeError creates a parse/decode error
func NewDecodeError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDecode,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewUpstreamError creates an upstream-failure error
func NewUpstreamError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUpstream,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == errorType
	}
	return false
}

// TypeOf returns the error type, or ErrorTypeInternal for plain errors
func TypeOf(err error) ErrorType {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
