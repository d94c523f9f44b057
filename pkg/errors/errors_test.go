package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "disk not found")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "disk not found" {
		t.Errorf("expected message 'disk not found', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "snapshot creation failed", cause)

	if err.Code != ErrCodeInternal {
		t.Errorf("expected code %s, got %s", ErrCodeInternal, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("throttled")
	ctx := map[string]any{
		"resourceGroup": "rg1",
		"snapshot":      "d1-snapshot",
	}

	err := WrapWithContext(ErrCodeRateLimitExceeded, "create snapshot", cause, ctx)

	if err.Code != ErrCodeRateLimitExceeded {
		t.Errorf("expected code %s, got %s", ErrCodeRateLimitExceeded, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["resourceGroup"] != "rg1" {
		t.Errorf("expected resourceGroup to be rg1")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotFound, "not found"),
			expected: "[NOT_FOUND] not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInternal, "failed", errors.New("root cause")),
			expected: "[INTERNAL] failed: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}

	wrapped := fmt.Errorf("outer: %w", New(ErrCodeUnauthorized, "no credential"))
	if got := CodeOf(wrapped); got != ErrCodeUnauthorized {
		t.Errorf("CodeOf(wrapped) = %q, want %q", got, ErrCodeUnauthorized)
	}
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeNotFound, "disk missing")
	outer := Wrap(ErrCodeInternal, "run failed", inner)

	if !IsCode(outer, ErrCodeInternal) {
		t.Error("expected outer code to match")
	}
	if !IsCode(outer, ErrCodeNotFound) {
		t.Error("expected nested code to match")
	}
	if IsCode(outer, ErrCodeTimeout) {
		t.Error("unexpected match for TIMEOUT")
	}
	if IsCode(nil, ErrCodeInternal) {
		t.Error("nil error should not match")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitFailure},
		{"invalid request", New(ErrCodeInvalidRequest, "missing flag"), ExitInvalidUsage},
		{"unauthorized", New(ErrCodeUnauthorized, "no credential"), ExitUnauthorized},
		{"not found", New(ErrCodeNotFound, "disk"), ExitNotFound},
		{"rate limited", New(ErrCodeRateLimitExceeded, "429"), ExitFailure},
		{"canceled", fmt.Errorf("run: %w", context.Canceled), ExitCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	unwrapped := err.Unwrap()
	if !errors.Is(unwrapped, cause) {
		t.Errorf("expected unwrapped error to be original cause")
	}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should work with Unwrap")
	}
}
