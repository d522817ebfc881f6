package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrPermission     ErrorCode = "PERMISSION"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"
	ErrUnsupported    ErrorCode = "UNSUPPORTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Group errors
	ErrGroupNotFound ErrorCode = "GROUP_NOT_FOUND"

	// Removal errors
	ErrPolicyDenied  ErrorCode = "POLICY_DENIED"
	ErrExternalTool  ErrorCode = "EXTERNAL_TOOL"
	ErrExtraction    ErrorCode = "EXTRACTION"
	ErrBackup        ErrorCode = "BACKUP"
	ErrServiceRemove ErrorCode = "SERVICE_REMOVE"
	ErrTaskDisable   ErrorCode = "TASK_DISABLE"
	ErrRegistryWrite ErrorCode = "REGISTRY_WRITE"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrFileLock     ErrorCode = "FILE_LOCK"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// WinslimError represents a structured error with code and details
type WinslimError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *WinslimError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *WinslimError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *WinslimError) Is(target error) bool {
	var targetErr *WinslimError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new WinslimError with the given code and message
func New(code ErrorCode, message string) *WinslimError {
	return &WinslimError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new WinslimError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *WinslimError {
	return &WinslimError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a WinslimError
func Wrap(err error, code ErrorCode, message string) *WinslimError {
	if err == nil {
		return nil
	}
	return &WinslimError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *WinslimError {
	if err == nil {
		return nil
	}
	return &WinslimError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *WinslimError) WithDetail(key string, value interface{}) *WinslimError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *WinslimError) WithDetails(details map[string]interface{}) *WinslimError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if the outermost WinslimError in the chain has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var winslimErr *WinslimError
	if errors.As(err, &winslimErr) {
		return winslimErr.Code == code
	}
	return false
}

// HasErrorCode reports whether any WinslimError in the chain carries code.
func HasErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var winslimErr *WinslimError
		if !errors.As(err, &winslimErr) {
			return false
		}
		if winslimErr.Code == code {
			return true
		}
		err = winslimErr.Wrapped
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a WinslimError
func GetErrorCode(err error) ErrorCode {
	var winslimErr *WinslimError
	if errors.As(err, &winslimErr) {
		return winslimErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a WinslimError
func GetErrorDetails(err error) map[string]interface{} {
	var winslimErr *WinslimError
	if errors.As(err, &winslimErr) {
		return winslimErr.Details
	}
	return nil
}
