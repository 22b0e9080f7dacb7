// Package errors provides structured error types and exit codes for toolpin.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess        = 0 // Success
	ExitRuntimeError   = 1 // Runtime error (task failed, etc.)
	ExitConfigError    = 2 // Configuration error (invalid config, bad flags, etc.)
	ExitToolchainError = 3 // No installed toolchain matches a requested version
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	KindToolchain
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindNotFound:
		return "not-found"
	case KindValidation:
		return "validation"
	case KindToolchain:
		return "toolchain"
	default:
		return "runtime"
	}
}

// ToolpinError is the base error type for toolpin.
type ToolpinError struct {
	Kind    ErrorKind
	Message string
	Task    string // Task name if applicable
	Role    string // Toolchain role if applicable
	Cause   error  // Underlying error
}

func (e *ToolpinError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Task != "" && e.Role != "" {
		return fmt.Sprintf("[%s] %s toolchain: %s", e.Task, e.Role, msg)
	}
	if e.Task != "" {
		return fmt.Sprintf("[%s] %s", e.Task, msg)
	}
	return msg
}

func (e *ToolpinError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *ToolpinError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindToolchain:
		return ExitToolchainError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *ToolpinError {
	return &ToolpinError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *ToolpinError {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *ToolpinError {
	return &ToolpinError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *ToolpinError {
	return Config(fmt.Sprintf(format, args...))
}

// Toolchain creates an error for a version no installed toolchain satisfies.
func Toolchain(message string) *ToolpinError {
	return &ToolpinError{
		Kind:    KindToolchain,
		Message: message,
	}
}

// Toolchainf creates a toolchain error with formatting.
func Toolchainf(format string, args ...interface{}) *ToolpinError {
	return Toolchain(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *ToolpinError {
	return &ToolpinError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// TaskError attributes a failure to a task and the toolchain role it was bound for.
// The kind of a wrapped ToolpinError is preserved.
func TaskError(task, role string, cause error) *ToolpinError {
	kind := KindRuntime
	var te *ToolpinError
	if stderrors.As(cause, &te) {
		kind = te.Kind
	}
	return &ToolpinError{
		Kind:    kind,
		Task:    task,
		Role:    role,
		Message: "realizing toolchain failed",
		Cause:   cause,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *ToolpinError {
	return &ToolpinError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// IsKind reports whether err wraps a ToolpinError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var te *ToolpinError
	if stderrors.As(err, &te) {
		return te.Kind == kind
	}
	return false
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var te *ToolpinError
	if stderrors.As(err, &te) {
		return te.ExitCode()
	}
	return ExitRuntimeError
}

// WrapConfig wraps an error that stems from project configuration.
func WrapConfig(err error, message string) *ToolpinError {
	return &ToolpinError{
		Kind:    KindConfig,
		Message: message,
		Cause:   err,
	}
}
