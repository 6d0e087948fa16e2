// Package errors provides structured, coded errors for the booking
// pipeline and its collaborators.
package errors

import (
	"fmt"
)

// ErrorCode identifies a failure class in the pipeline's taxonomy.
type ErrorCode string

const (
	// ErrCodeUpstreamParse indicates the inference collaborator returned
	// output that is not valid structured data.
	ErrCodeUpstreamParse ErrorCode = "UPSTREAM_PARSE_ERROR"
	// ErrCodeMissingTime indicates a booking intent without a resolvable
	// start time.
	ErrCodeMissingTime ErrorCode = "MISSING_TIME"
	// ErrCodeMissingCredential indicates no credential was available for a
	// calendar action.
	ErrCodeMissingCredential ErrorCode = "MISSING_CREDENTIAL"
	// ErrCodeCollaborator indicates a calendar or inference call failed.
	ErrCodeCollaborator ErrorCode = "COLLABORATOR_ERROR"
	// ErrCodeLLMUnavailable indicates the inference service is not
	// configured or not reachable.
	ErrCodeLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	// ErrCodeTimeout indicates a collaborator call exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// CodedError is a structured error carrying a failure class.
type CodedError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CodedError) Unwrap() error {
	return e.Cause
}

// UpstreamParse creates an upstream parse error.
func UpstreamParse(msg string, cause error) *CodedError {
	return &CodedError{Code: ErrCodeUpstreamParse, Message: msg, Cause: cause}
}

// MissingTime creates a missing time error.
func MissingTime(msg string) *CodedError {
	return &CodedError{Code: ErrCodeMissingTime, Message: msg}
}

// MissingCredential creates a missing credential error.
func MissingCredential(msg string) *CodedError {
	return &CodedError{Code: ErrCodeMissingCredential, Message: msg}
}

// Collaborator creates a collaborator failure error.
func Collaborator(msg string, cause error) *CodedError {
	return &CodedError{Code: ErrCodeCollaborator, Message: msg, Cause: cause}
}

// LLMUnavailable creates an LLM unavailable error.
func LLMUnavailable(msg string) *CodedError {
	return &CodedError{Code: ErrCodeLLMUnavailable, Message: msg}
}

// Timeout creates a timeout error.
func Timeout(msg string) *CodedError {
	return &CodedError{Code: ErrCodeTimeout, Message: msg}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if coded, ok := err.(*CodedError); ok {
		return coded.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error. Returns the
// provided default code if the error is not a CodedError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if coded, ok := err.(*CodedError); ok {
		return coded.Code
	}
	return defaultCode
}
