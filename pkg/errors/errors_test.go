package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidLabel, "bad label %q", "a:b")

	if err.Code != ErrCodeInvalidLabel {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidLabel)
	}
	if err.Message != `bad label "a:b"` {
		t.Errorf("Message = %v", err.Message)
	}
	if want := `INVALID_LABEL: bad label "a:b"`; err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("cross check failed")
	err := Wrap(ErrCodeNotUltrametric, cause, "reconstruct")

	if err.Code != ErrCodeNotUltrametric {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNotUltrametric)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if want := "NOT_ULTRAMETRIC: reconstruct: cross check failed"; err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidInput, "x"), ErrCodeInvalidInput, true},
		{"different code", New(ErrCodeInvalidInput, "x"), ErrCodeStructure, false},
		{"wrapped by fmt", fmt.Errorf("cmd: %w", New(ErrCodeIncompleteMatrix, "x")), ErrCodeIncompleteMatrix, true},
		{"plain error", errors.New("x"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
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
	if got := GetCode(New(ErrCodeLabelNotFound, "x")); got != ErrCodeLabelNotFound {
		t.Errorf("GetCode = %v", got)
	}
	if got := GetCode(errors.New("x")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeInvalidFormat, "unbalanced parentheses"), "unbalanced parentheses"},
		{"coded with cause", Wrap(ErrCodeFileNotFound, errors.New("no such file"), "open m.json"), "open m.json: no such file"},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
