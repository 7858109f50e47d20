package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{
		Category: ErrCategoryConfig,
		Code:     "test_error",
		Message:  "test message",
	}

	if got := err.Error(); got != "test message" {
		t.Errorf("Error() = %q, want %q", got, "test message")
	}
}

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := &Error{
		Code:    "test_error",
		Message: "test message",
		Cause:   cause,
	}

	got := err.Error()
	if !strings.Contains(got, "test message") {
		t.Errorf("Error() = %q, should contain 'test message'", got)
	}
	if !strings.Contains(got, "underlying error") {
		t.Errorf("Error() = %q, should contain 'underlying error'", got)
	}
}

func TestError_WithCause(t *testing.T) {
	cause := errors.New("custom cause")
	newErr := ErrElementNotFound.WithCause(cause)

	if newErr.Cause != cause {
		t.Error("WithCause() did not set cause")
	}
	if newErr.Code != ErrElementNotFound.Code {
		t.Error("WithCause() changed code")
	}
	if ErrElementNotFound.Cause != nil {
		t.Error("WithCause() modified original error")
	}
	if !errors.Is(newErr, cause) {
		t.Error("errors.Is() should find the cause")
	}
}

func TestError_IsMatchesCode(t *testing.T) {
	err := ErrNoContext.WithMessage("custom").WithDetails(map[string]interface{}{"field": "x"})

	if !errors.Is(err, ErrNoContext) {
		t.Error("errors.Is(copy, ErrNoContext) = false, want true")
	}
	if errors.Is(err, ErrElementNotFound) {
		t.Error("errors.Is(copy, ErrElementNotFound) = true, want false")
	}

	wrapped := fmt.Errorf("binding header: %w", err)
	if !errors.Is(wrapped, ErrNoContext) {
		t.Error("errors.Is() should see through fmt wrapping")
	}
}

func TestError_WithDetails(t *testing.T) {
	original := &Error{
		Code:    "test",
		Message: "test",
		Details: map[string]interface{}{"existing": "value"},
	}

	newErr := original.WithDetails(map[string]interface{}{"locator": `id="x"`})

	if newErr.Details["locator"] != `id="x"` {
		t.Error("WithDetails() did not add new details")
	}
	if newErr.Details["existing"] != "value" {
		t.Error("WithDetails() did not preserve existing details")
	}
	if _, ok := original.Details["locator"]; ok {
		t.Error("WithDetails() modified original error")
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err      *Error
		category ErrorCategory
		code     string
	}{
		{ErrNoContext, ErrCategoryConfig, "no_context"},
		{ErrLocatorNotSupported, ErrCategoryConfig, "locator_not_supported"},
		{ErrNoQualifyingFields, ErrCategoryConfig, "no_qualifying_fields"},
		{ErrMissingLoadCondition, ErrCategoryConfig, "missing_load_condition"},
		{ErrInvalidLocator, ErrCategoryConfig, "invalid_locator"},
		{ErrInvalidDefinition, ErrCategoryConfig, "invalid_definition"},
		{ErrElementNotFound, ErrCategoryNotFound, "element_not_found"},
		{ErrNotAContext, ErrCategoryNotFound, "not_a_context"},
		{ErrConditionFailed, ErrCategoryEvaluation, "condition_failed"},
		{ErrNotSupported, ErrCategoryDriver, "not_supported"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Category != tt.category {
				t.Errorf("Category = %s, want %s", tt.err.Category, tt.category)
			}
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("Message should not be empty")
			}
		})
	}
}

func TestIsProgrammingError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"no context", ErrNoContext, true},
		{"not found", ErrElementNotFound, false},
		{"not found caused by unsupported locator", ErrElementNotFound.WithCause(ErrLocatorNotSupported), true},
		{"wrapped", fmt.Errorf("x: %w", ErrNoQualifyingFields), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsProgrammingError(tt.err); got != tt.want {
				t.Errorf("IsProgrammingError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(ErrElementNotFound.WithCause(errors.New("no match"))) {
		t.Error("IsNotFound(not found) = false, want true")
	}
	if IsNotFound(ErrElementNotFound.WithCause(ErrNoContext)) {
		t.Error("IsNotFound() = true for an error caused by a programming error")
	}
	if IsNotFound(errors.New("boom")) {
		t.Error("IsNotFound(plain) = true, want false")
	}
}

func TestNewError(t *testing.T) {
	err := NewError(ErrCategoryDriver, "custom_error", "custom message")

	if err.Category != ErrCategoryDriver {
		t.Errorf("Category = %s, want %s", err.Category, ErrCategoryDriver)
	}
	if err.Code != "custom_error" {
		t.Errorf("Code = %s, want 'custom_error'", err.Code)
	}
}
