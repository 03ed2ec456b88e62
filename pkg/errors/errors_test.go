package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidRange, "bad range: %s", "node[3-1]")

	if err.Code != ErrCodeInvalidRange {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidRange)
	}

	if err.Message != "bad range: node[3-1]" {
		t.Errorf("Message = %v, want %v", err.Message, "bad range: node[3-1]")
	}

	expected := "INVALID_RANGE: bad range: node[3-1]"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrCodeCommandFailed, cause, "run sinfo")

	if err.Code != ErrCodeCommandFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeCommandFailed)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "COMMAND_FAILED: run sinfo: exit status 1"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidMapLine, "test"), ErrCodeInvalidMapLine, true},
		{"different code", New(ErrCodeInvalidMapLine, "test"), ErrCodeInvalidRange, false},
		{"wrapped by fmt", fmt.Errorf("outer: %w", New(ErrCodeRemote, "dial")), ErrCodeRemote, true},
		{"plain error", errors.New("plain"), ErrCodeInternal, false},
		{"nil error", nil, ErrCodeInternal, false},
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
	if got := GetCode(New(ErrCodeFileNotFound, "x")); got != ErrCodeFileNotFound {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeFileNotFound)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"structured", New(ErrCodeInvalidFormat, "unsupported format %q", "gif"), `unsupported format "gif"`},
		{"structured with cause", Wrap(ErrCodeRemote, errors.New("refused"), "dial host"), "dial host: refused"},
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

func TestLineError(t *testing.T) {
	le := &LineError{File: "/etc/auto.data", Line: 4, Text: "broken"}
	err := Wrap(ErrCodeInvalidMapLine, le, "no remote reference")

	var got *LineError
	if !errors.As(err, &got) {
		t.Fatal("errors.As(*LineError) = false, want true")
	}
	if got.Line != 4 {
		t.Errorf("Line = %d, want 4", got.Line)
	}
	if le.Error() != `/etc/auto.data:4: "broken"` {
		t.Errorf("Error() = %q", le.Error())
	}
}
