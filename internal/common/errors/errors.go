// Package errors provides standardized error handling for the screening workflow.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeEvaluationServiceUnavailable ErrorCode = "EVALUATION_SERVICE_UNAVAILABLE"
	ErrCodeEvaluationParseFailed        ErrorCode = "EVALUATION_PARSE_FAILED"
	ErrCodeContentGenerationFailed      ErrorCode = "CONTENT_GENERATION_FAILED"

	ErrCodeResumeValidationFailed       ErrorCode = "RESUME_VALIDATION_FAILED"
	ErrCodeRequirementsValidationFailed ErrorCode = "REQUIREMENTS_VALIDATION_FAILED"

	ErrCodeSchedulingConflict ErrorCode = "SCHEDULING_CONFLICT"
	ErrCodeNoSlotFound        ErrorCode = "NO_SLOT_FOUND"
	ErrCodeBookingNotFound    ErrorCode = "BOOKING_NOT_FOUND"

	ErrCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeNotificationSend  ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeRunAborted ErrorCode = "RUN_ABORTED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Inspection
// ==========================

// HasCode reports whether err (or any error it wraps) is a StandardError
// carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsRetryable reports whether err is a StandardError marked retryable.
// Unknown errors are treated as non-retryable.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// ==========================
// 3. Error Constructors
// ==========================

// NewEvaluationServiceError creates a retryable transient evaluation service error.
func NewEvaluationServiceError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEvaluationServiceUnavailable,
		Message:   "Evaluation service call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEvaluationParseError creates a non-retryable malformed-response error.
func NewEvaluationParseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEvaluationParseFailed,
		Message:   "Evaluation service returned an unparseable result",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewContentGenerationError creates a non-fatal content generation error.
// Recorded as a run warning, never escalated.
func NewContentGenerationError(kind string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeContentGenerationFailed,
		Message:   "Content generation failed",
		Details:   fmt.Sprintf("kind: %s, error: %s", kind, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResumeValidationError creates a non-retryable resume input error.
func NewResumeValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResumeValidationFailed,
		Message:   "Resume text failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequirementsValidationError creates a non-retryable job requirements error.
func NewRequirementsValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequirementsValidationFailed,
		Message:   "Job requirements failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSchedulingConflictError creates a conflict error for an interval claimed
// by a concurrent reservation. Recovered locally by the allocator via re-scan.
func NewSchedulingConflictError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchedulingConflict,
		Message:   "Interval already reserved",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoSlotFoundError creates a non-retryable horizon-exhausted error.
func NewNoSlotFoundError(horizonDays int) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoSlotFound,
		Message:   "No available interview slot within the search horizon",
		Details:   fmt.Sprintf("horizonDays: %d", horizonDays),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBookingNotFoundError creates a non-retryable missing booking error.
func NewBookingNotFoundError(slotID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBookingNotFound,
		Message:   "Booking not found",
		Details:   fmt.Sprintf("slotId: %s", slotID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceError creates a retryable store error. Fatal for the affected
// operation; the run still finalizes with the error recorded.
func NewPersistenceError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistenceFailed,
		Message:   "Persistence operation failed",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendError creates a retryable outbound notification error.
func NewNotificationSendError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSend,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRunAbortedError creates a non-retryable cancellation error.
func NewRunAbortedError(step string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRunAborted,
		Message:   "Workflow run aborted",
		Details:   fmt.Sprintf("step: %s, error: %s", step, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
