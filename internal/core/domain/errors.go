// Package domain defines the core values shared by the publication pipeline.
package domain

import (
	"errors"
	"fmt"
)

// DomainError is a pipeline error with a stable code.
// Codes have the form XC-<AREA>-<NNNN>.
type DomainError struct {
	Code    string // Error code (e.g., "XC-CHAN-4230")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Capture Errors (CAPT)
// ============================================================================

var (
	// ErrCaptureUnavailable indicates the host data interface cannot be read yet.
	ErrCaptureUnavailable = NewDomainError("XC-CAPT-5030", "simulator data unavailable")
)

// ============================================================================
// Encoding Errors (CODE)
// ============================================================================

var (
	// ErrOversizePayload indicates an encoded snapshot does not fit the channel.
	ErrOversizePayload = NewDomainError("XC-CODE-4130", "payload exceeds channel capacity")
)

// ============================================================================
// Channel Errors (CHAN)
// ============================================================================

var (
	// ErrInvalidCapacity indicates a zero or negative region size.
	ErrInvalidCapacity = NewDomainError("XC-CHAN-4000", "invalid channel capacity")

	// ErrChannelClosed indicates the channel is not open for publication.
	ErrChannelClosed = NewDomainError("XC-CHAN-4100", "channel not open")

	// ErrLockUnavailable indicates the region lock was not acquired in time.
	ErrLockUnavailable = NewDomainError("XC-CHAN-4230", "channel lock unavailable")

	// ErrChannelCreateFailed indicates the named region could not be created.
	ErrChannelCreateFailed = NewDomainError("XC-CHAN-5001", "cannot create shared region")

	// ErrChannelAttachFailed indicates an existing region could not be attached.
	ErrChannelAttachFailed = NewDomainError("XC-CHAN-5002", "cannot attach shared region")
)

// OversizeError builds an ErrOversizePayload that reports both sizes.
func OversizeError(size, capacity int) *DomainError {
	return ErrOversizePayload.WithDetails(fmt.Sprintf("size %d > capacity %d", size, capacity))
}
