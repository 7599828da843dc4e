// Package errors provides standardized error handling for the matching engine.
package errors

import (
	goerrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidCoordinate ErrorCode = "INVALID_COORDINATE"

	ErrCodeLocationUnavailable ErrorCode = "LOCATION_UNAVAILABLE"
	ErrCodeNoLocation          ErrorCode = "NO_LOCATION"

	ErrCodeDiscoveryFetchFailed ErrorCode = "DISCOVERY_FETCH_FAILED"

	ErrCodeSwipeSubmitFailed ErrorCode = "SWIPE_SUBMIT_FAILED"
	ErrCodeAlreadyDecided    ErrorCode = "ALREADY_DECIDED"

	ErrCodeChannelDisconnected ErrorCode = "CHANNEL_DISCONNECTED"
	ErrCodeAuthRejected        ErrorCode = "AUTH_REJECTED"
	ErrCodeFrameInvalid        ErrorCode = "FRAME_INVALID"

	ErrCodeStateStoreFailed ErrorCode = "STATE_STORE_FAILED"
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
// 2. Error Constructors
// ==========================

// NewInvalidCoordinateError creates a non-retryable geo input error.
// It is fatal to the single call; discovery skips the candidate instead
// of failing the batch.
func NewInvalidCoordinateError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCoordinate,
		Message:   "Invalid latitude/longitude input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLocationUnavailableError creates a recoverable location read error;
// callers fall back to the cached coordinate.
func NewLocationUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLocationUnavailable,
		Message:   "Could not obtain a fresh location reading",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoLocationError signals that no coordinate has ever been cached.
func NewNoLocationError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNoLocation,
		Message:   "No cached location available",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDiscoveryFetchFailedError creates a recoverable discovery error;
// the coordinator degrades to the match cache.
func NewDiscoveryFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDiscoveryFetchFailed,
		Message:   "Could not refresh matches, showing saved results",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSwipeSubmitFailedError creates a recoverable swipe error; the local
// state stays undecided so the caller may retry.
func NewSwipeSubmitFailedError(profileID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSwipeSubmitFailed,
		Message:   "Could not record your swipe, please try again",
		Details:   fmt.Sprintf("profileId: %s, error: %s", profileID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadyDecidedError signals a duplicate swipe on an already-decided
// card. User-error signal, not a fault; no network call was made.
func NewAlreadyDecidedError(profileID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadyDecided,
		Message:   "Profile already decided in this session",
		Details:   fmt.Sprintf("profileId: %s", profileID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewChannelDisconnectedError creates a self-healing channel error; the
// channel reconnects on its own and callers need take no action.
func NewChannelDisconnectedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeChannelDisconnected,
		Message:   "Sync channel disconnected",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthRejectedError creates a non-retryable channel authentication error.
func NewAuthRejectedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthRejected,
		Message:   "Sync channel authentication rejected",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFrameInvalidError creates a non-fatal inbound frame error; the frame
// is dropped and the connection stays open.
func NewFrameInvalidError(frameType, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFrameInvalid,
		Message:   "Inbound frame failed validation",
		Details:   fmt.Sprintf("type: %s, %s", frameType, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStateStoreFailedError creates a retryable local persistence error.
func NewStateStoreFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStateStoreFailed,
		Message:   "Local state store operation failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsCode reports whether err is a StandardError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if goerrors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// IsRetryable reports whether err is a StandardError marked retryable.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if goerrors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "COORDINATE") || strings.Contains(codeStr, "LOCATION"):
		return "GEO"
	case strings.Contains(codeStr, "DISCOVERY"):
		return "DISCOVERY"
	case strings.Contains(codeStr, "SWIPE") || strings.Contains(codeStr, "DECIDED"):
		return "SWIPE"
	case strings.Contains(codeStr, "CHANNEL") || strings.Contains(codeStr, "AUTH") || strings.Contains(codeStr, "FRAME"):
		return "SYNC"
	case strings.Contains(codeStr, "STORE"):
		return "STORAGE"
	default:
		return "OTHER"
	}
}
