package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCommonErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrAlreadyEnded", ErrAlreadyEnded, "stream has already ended"},
		{"ErrInvalidConfiguration", ErrInvalidConfiguration, "invalid configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatal("error should not be nil")
			}
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "without hint",
			err: &ValidationError{
				Module: "seq",
				Field:  "n",
				Value:  -1,
				Reason: "cannot be negative",
			},
			want: "seq: invalid n=-1 (cannot be negative)",
		},
		{
			name: "with hint",
			err: &ValidationError{
				Module: "timer",
				Field:  "interval",
				Value:  0,
				Reason: "must be positive",
				Hint:   "use a duration greater than 0",
			},
			want: "timer: invalid interval=0 (must be positive) - use a duration greater than 0",
		},
		{
			name: "string value",
			err: &ValidationError{
				Module: "timer",
				Field:  "cron",
				Value:  "",
				Reason: "cannot be empty",
			},
			want: "timer: invalid cron= (cannot be empty)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	verr := NewValidationError("buffer", "name", "", "cannot be empty")
	if !errors.Is(verr, ErrInvalidConfiguration) {
		t.Error("ValidationError should unwrap to ErrInvalidConfiguration")
	}
}

func TestValidationError_WithHint(t *testing.T) {
	err := NewValidationError("test", "field", 0, "invalid")
	result := err.WithHint("try using a positive value")
	if result != err {
		t.Error("WithHint should return the same instance")
	}
	if err.Hint != "try using a positive value" {
		t.Errorf("Hint = %q", err.Hint)
	}
}

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{
			name: "without context",
			err: &OperationError{
				Module:    "seq",
				Operation: "Merge",
				Cause:     errors.New("source failed"),
			},
			want: "seq.Merge failed: source failed",
		},
		{
			name: "with context",
			err: &OperationError{
				Module:    "pubsub",
				Operation: "Publish",
				Cause:     errors.New("connection refused"),
				Context:   "channel events",
			},
			want: "pubsub.Publish failed: connection refused (channel events)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	opErr := NewOperationError("seq", "Merge", cause).WithContext("source 1")
	if !errors.Is(opErr, cause) {
		t.Error("OperationError should unwrap to its cause")
	}
	if !strings.Contains(opErr.Error(), "source 1") {
		t.Errorf("message should contain context, got %q", opErr.Error())
	}
}

func TestIsAlreadyEnded(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"sentinel", ErrAlreadyEnded, true},
		{"wrapped", fmt.Errorf("emit: %w", ErrAlreadyEnded), true},
		{"other", errors.New("random"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAlreadyEnded(tt.err); got != tt.want {
				t.Errorf("IsAlreadyEnded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"validation error", NewValidationError("m", "f", 1, "r"), true},
		{"wrapped validation error", fmt.Errorf("config: %w", NewValidationError("m", "f", 1, "r")), true},
		{"operation error", &OperationError{Cause: errors.New("test")}, false},
		{"standard error", errors.New("test"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidationError(tt.err); got != tt.want {
				t.Errorf("IsValidationError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsContextError(t *testing.T) {
	if !IsContextError(context.Canceled) {
		t.Error("context.Canceled should be a context error")
	}
	if !IsContextError(fmt.Errorf("pull: %w", context.DeadlineExceeded)) {
		t.Error("wrapped DeadlineExceeded should be a context error")
	}
	if IsContextError(ErrAlreadyEnded) {
		t.Error("ErrAlreadyEnded is not a context error")
	}
}
