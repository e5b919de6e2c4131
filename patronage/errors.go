package patronage

import "fmt"

// ErrorCode is a domain error code for malformed-input errors.
//
// These are the only errors the library raises immediately: shape problems
// that make a computation meaningless (empty member id, negative surplus,
// nil event id). Business findings never surface here; they accumulate in
// report.Report values.
type ErrorCode string

const (
	// ErrorInvalidInput indicates input validation failed.
	ErrorInvalidInput ErrorCode = "0001"
	// ErrorInvalidPolicy indicates an allocation policy is not usable.
	ErrorInvalidPolicy ErrorCode = "0002"
	// ErrorCashRateBelowFloor indicates a cash rate below the regulatory minimum.
	ErrorCashRateBelowFloor ErrorCode = "0003"
	// ErrorUnknownEventType indicates an event type with no registered applier.
	ErrorUnknownEventType ErrorCode = "0004"
	// ErrorInvalidStateTransition indicates an illegal allocation status transition.
	ErrorInvalidStateTransition ErrorCode = "0005"
	// ErrorDataCorruption indicates persisted event data is inconsistent.
	ErrorDataCorruption ErrorCode = "0006"
)

// DomainError represents a structured domain validation error.
type DomainError struct {
	Code    ErrorCode
	Field   string
	Message string
}

// Error returns the formatted domain error string.
func (e DomainError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}

	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
}

// NewDomainError creates a domain error with code, field, and message.
func NewDomainError(code ErrorCode, field, message string) error {
	return DomainError{Code: code, Field: field, Message: message}
}
