// Package errors provides standardized error handling for the lifecycle
// automation service.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeApplicationNotFound     ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeInvalidStatusTransition ErrorCode = "INVALID_STATUS_TRANSITION"
	ErrCodeVersionConflict         ErrorCode = "VERSION_CONFLICT"
	ErrCodeRuleExecutionFailed     ErrorCode = "RULE_EXECUTION_FAILED"
	ErrCodeRuleValidationFailed    ErrorCode = "RULE_VALIDATION_FAILED"
	ErrCodeNotificationSendFailed  ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeDatabaseQueryFailed     ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeSweepLockHeld           ErrorCode = "SWEEP_LOCK_HELD"
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

// NewApplicationNotFoundError creates a non-retryable not-found error.
func NewApplicationNotFoundError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationNotFound,
		Message:   "Application not found",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTransitionError creates a non-retryable transition error.
func NewInvalidTransitionError(from, to string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStatusTransition,
		Message:   "Status transition not allowed",
		Details:   fmt.Sprintf("from: %s, to: %s", from, to),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewVersionConflictError creates a retryable optimistic-lock error.
// The next sweep re-reads fresh state, so retry is natural.
func NewVersionConflictError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeVersionConflict,
		Message:   "Application modified concurrently",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRuleExecutionFailedError creates a non-retryable rule execution error.
func NewRuleExecutionFailedError(ruleID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRuleExecutionFailed,
		Message:   "Workflow rule execution failed",
		Details:   fmt.Sprintf("ruleId: %s, error: %s", ruleID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRuleValidationFailedError creates a non-retryable rule definition error.
func NewRuleValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRuleValidationFailed,
		Message:   "Workflow rule definition invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseQueryFailedError creates a retryable database error.
func NewDatabaseQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseQueryFailed,
		Message:   "Database query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// HasCode reports whether err is a StandardError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsNotFound reports whether err is an application not-found error.
func IsNotFound(err error) bool {
	return HasCode(err, ErrCodeApplicationNotFound)
}

// IsInvalidTransition reports whether err is a transition error.
func IsInvalidTransition(err error) bool {
	return HasCode(err, ErrCodeInvalidStatusTransition)
}

// IsVersionConflict reports whether err is an optimistic-lock conflict.
func IsVersionConflict(err error) bool {
	return HasCode(err, ErrCodeVersionConflict)
}
