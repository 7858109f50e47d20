package core

import (
	"errors"
	"fmt"
)

// Error represents a structured error with category and details
type Error struct {
	Category ErrorCategory
	Code     string                 // Machine-readable code: no_context, element_not_found, etc.
	Message  string                 // Human-readable message
	Details  map[string]interface{} // Additional context (locator, context type, ...)
	Cause    error                  // Underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
// Copies made by WithCause/WithMessage/WithDetails still match the predefined value.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithCause returns a copy of the error with the given cause
func (e *Error) WithCause(cause error) *Error {
	return &Error{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  e.Details,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Details:  e.Details,
		Cause:    e.Cause,
	}
}

// WithMessagef is WithMessage with fmt formatting.
func (e *Error) WithMessagef(format string, args ...interface{}) *Error {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// WithDetails returns a copy of the error with additional details
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &Error{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  merged,
		Cause:    e.Cause,
	}
}

// Predefined errors
var (
	// Programming errors: never retried, always propagated.
	ErrNoContext = &Error{
		Category: ErrCategoryConfig,
		Code:     "no_context",
		Message:  "no context attached",
	}
	ErrLocatorNotSupported = &Error{
		Category: ErrCategoryConfig,
		Code:     "locator_not_supported",
		Message:  "locator not supported by context",
	}
	ErrNoQualifyingFields = &Error{
		Category: ErrCategoryConfig,
		Code:     "no_qualifying_fields",
		Message:  "no qualifying required elements",
	}
	ErrMissingLoadCondition = &Error{
		Category: ErrCategoryConfig,
		Code:     "missing_load_condition",
		Message:  "view declares no required fields and no load condition",
	}
	ErrInvalidLocator = &Error{
		Category: ErrCategoryConfig,
		Code:     "invalid_locator",
		Message:  "invalid locator",
	}
	ErrInvalidDefinition = &Error{
		Category: ErrCategoryConfig,
		Code:     "invalid_definition",
		Message:  "invalid view definition",
	}

	// Resolution errors: expected and recoverable.
	ErrElementNotFound = &Error{
		Category: ErrCategoryNotFound,
		Code:     "element_not_found",
		Message:  "element not found",
	}
	ErrNotAContext = &Error{
		Category: ErrCategoryNotFound,
		Code:     "not_a_context",
		Message:  "located object cannot act as a context",
	}

	// Evaluation and driver errors.
	ErrConditionFailed = &Error{
		Category: ErrCategoryEvaluation,
		Code:     "condition_failed",
		Message:  "condition evaluation failed",
	}
	ErrNotSupported = &Error{
		Category: ErrCategoryDriver,
		Code:     "not_supported",
		Message:  "operation not supported by element",
	}
	ErrDriverFailure = &Error{
		Category: ErrCategoryDriver,
		Code:     "driver_failure",
		Message:  "driver call failed",
	}
)

// NewError creates a new Error with the given parameters
func NewError(category ErrorCategory, code, message string) *Error {
	return &Error{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// CategoryOf returns the category of the first *Error in err's chain.
func CategoryOf(err error) ErrorCategory {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ErrCategoryNone
}

// IsProgrammingError reports whether err is a configuration/programming error.
// Any *Error in the chain with the config category counts.
func IsProgrammingError(err error) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Category == ErrCategoryConfig {
			return true
		}
		err = e.Cause
	}
	return false
}

// IsNotFound reports whether err means "nothing was located".
func IsNotFound(err error) bool {
	return CategoryOf(err) == ErrCategoryNotFound && !IsProgrammingError(err)
}

// NotSupported builds a locator-not-supported error naming the locator kind and the context.
func NotSupported(l Locator, ctx Context) *Error {
	return ErrLocatorNotSupported.
		WithMessagef("locator %s not supported by context %T", l, ctx).
		WithDetails(map[string]interface{}{
			"locator": l.String(),
			"context": fmt.Sprintf("%T", ctx),
		})
}
