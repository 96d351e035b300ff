package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidAmount, "amount %d exceeds limit", 150)

	if err.Code != ErrCodeInvalidAmount {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidAmount)
	}

	if err.Message != "amount 150 exceeds limit" {
		t.Errorf("Message = %v, want %v", err.Message, "amount 150 exceeds limit")
	}

	expected := "INVALID_AMOUNT: amount 150 exceeds limit"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, cause, "failed to save")

	if err.Code != ErrCodeInternal {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInternal)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeRowFull, "test"),
			code:     ErrCodeRowFull,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeRowFull, "test"),
			code:     ErrCodeNothingToUndo,
			expected: false,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("undo: %w", New(ErrCodeNothingToUndo, "history is empty")),
			code:     ErrCodeNothingToUndo,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNotFound, "missing")); got != ErrCodeNotFound {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeNotFound)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeRowFull, "row is full")); got != "row is full" {
		t.Errorf("UserMessage() = %q, want %q", got, "row is full")
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain")
	}
}

func TestIsEditFailure(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeInvalidAmount, true},
		{ErrCodeRowFull, true},
		{ErrCodeNothingToUndo, true},
		{ErrCodeNothingToRedo, true},
		{ErrCodeUnknownStitchType, true},
		{ErrCodeNotFound, false},
		{ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := IsEditFailure(New(tt.code, "x")); got != tt.want {
				t.Errorf("IsEditFailure(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
