package errors

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// State reporter errors
	ErrCodeTypeContract ErrorCode = "TYPE_CONTRACT"

	// Filesystem errors
	ErrCodeTransientIO ErrorCode = "TRANSIENT_IO"
	ErrCodePermanentIO ErrorCode = "PERMANENT_IO"

	// Classification errors
	ErrCodeOutOfRange ErrorCode = "OUT_OF_RANGE"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
)

// KitError represents a structured error with context
type KitError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *KitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *KitError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *KitError) WithDetail(key string, value interface{}) *KitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *KitError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new KitError
func New(code ErrorCode, message string) *KitError {
	return &KitError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a KitError
func Wrap(err error, code ErrorCode, message string) *KitError {
	return &KitError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific KitError code
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, walking the Unwrap chain.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	kitErr, ok := err.(*KitError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return kitErr.Code
}
