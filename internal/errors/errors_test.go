package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestToolpinError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ToolpinError
		expected string
	}{
		{
			name:     "message only",
			err:      &ToolpinError{Message: "something failed"},
			expected: "something failed",
		},
		{
			name:     "with task",
			err:      &ToolpinError{Task: "compileJava", Message: "failed"},
			expected: "[compileJava] failed",
		},
		{
			name:     "with task and role",
			err:      &ToolpinError{Task: "test", Role: "test", Message: "no match"},
			expected: "[test] test toolchain: no match",
		},
		{
			name:     "role without task not included",
			err:      &ToolpinError{Role: "main", Message: "something failed"},
			expected: "something failed",
		},
		{
			name:     "with cause",
			err:      &ToolpinError{Message: "wrapper", Cause: errors.New("inner")},
			expected: "wrapper: inner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestToolpinError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &ToolpinError{Message: "wrapper", Cause: cause}

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestToolpinError_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		kind     ErrorKind
		expected int
	}{
		{"runtime", KindRuntime, ExitRuntimeError},
		{"config", KindConfig, ExitConfigError},
		{"validation", KindValidation, ExitConfigError},
		{"not found", KindNotFound, ExitRuntimeError},
		{"toolchain", KindToolchain, ExitToolchainError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ToolpinError{Kind: tt.kind}
			if got := err.ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	if err := Newf("error %d", 42); err.Kind != KindRuntime || err.Message != "error 42" {
		t.Errorf("Newf() = %+v", err)
	}
	if err := Configf("field %q", "name"); err.Kind != KindConfig || err.Message != `field "name"` {
		t.Errorf("Configf() = %+v", err)
	}
	if err := Toolchainf("no toolchain for %s", "17"); err.Kind != KindToolchain || err.ExitCode() != ExitToolchainError {
		t.Errorf("Toolchainf() = %+v", err)
	}
	if err := NotFound("task", "jmh"); err.Message != "task not found: jmh" {
		t.Errorf("NotFound() = %q", err.Message)
	}
	if err := WrapConfig(fmt.Errorf("bad"), "failed to load configuration"); err.ExitCode() != ExitConfigError || err.Error() != "failed to load configuration: bad" {
		t.Errorf("WrapConfig() = %q (exit %d)", err.Error(), err.ExitCode())
	}
}

func TestTaskError_PreservesKind(t *testing.T) {
	cause := Toolchain("no installation for 99")
	err := TaskError("test", "test", cause)

	if err.Kind != KindToolchain {
		t.Errorf("Kind = %v, want %v", err.Kind, KindToolchain)
	}
	if !errors.Is(err, cause) {
		t.Error("TaskError should wrap the cause")
	}

	plain := TaskError("compileJava", "main", errors.New("boom"))
	if plain.Kind != KindRuntime {
		t.Errorf("Kind = %v, want %v", plain.Kind, KindRuntime)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("x"), ExitRuntimeError},
		{"config", Config("bad"), ExitConfigError},
		{"wrapped toolchain", fmt.Errorf("outer: %w", Toolchain("none")), ExitToolchainError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("ctx: %w", Toolchain("none"))
	if !IsKind(err, KindToolchain) {
		t.Error("IsKind(KindToolchain) = false, want true")
	}
	if IsKind(err, KindConfig) {
		t.Error("IsKind(KindConfig) = true, want false")
	}
	if IsKind(errors.New("plain"), KindRuntime) {
		t.Error("IsKind on plain error = true, want false")
	}
}
