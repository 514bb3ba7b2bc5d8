// Package exception provides the launcher's error type.
// A LaunchError records the module that failed and the process exit status the
// failure maps to, so the entrypoint can turn any error into an exit code.
package exception

import (
	"errors"
	"fmt"
)

// Exit statuses used when the launcher itself, not the delegated server, decides the outcome.
// 126 and 127 follow the shell conventions for "not executable" and "not found".
const (
	ExitOK                 = 0
	ExitFailure            = 1
	ExitCommandNotRunnable = 126
	ExitCommandNotFound    = 127
	exitSignalBase         = 128
)

var (
	// ErrEnvFileMissing is returned when the configuration file is absent or not a regular file.
	ErrEnvFileMissing = errors.New("configuration file not found")
	// ErrRuntimeEnvMissing is returned when the isolated runtime environment has no activation entry point.
	ErrRuntimeEnvMissing = errors.New("runtime environment not found")
	// ErrCommandNotFound is returned when the server command cannot be resolved on PATH.
	ErrCommandNotFound = errors.New("command not found")
	// ErrCommandNotExecutable is returned when the server command exists but cannot be executed.
	ErrCommandNotExecutable = errors.New("command not executable")
)

// LaunchError is an error raised while preparing or running the delegated server.
type LaunchError struct {
	// Module indicates where the error occurred (e.g., "config", "runtimeenv", "envfile", "process").
	Module string
	// Message is a concise description of the error.
	Message string
	// OriginalErr is the wrapped original error.
	OriginalErr error
	// ExitCode is the process exit status this error maps to.
	ExitCode int
}

// NewLaunchError creates a LaunchError.
func NewLaunchError(module, message string, originalErr error, exitCode int) *LaunchError {
	return &LaunchError{
		Module:      module,
		Message:     message,
		OriginalErr: originalErr,
		ExitCode:    exitCode,
	}
}

// NewLaunchErrorf creates a LaunchError with a formatted message and exit status 1.
func NewLaunchErrorf(module, format string, a ...interface{}) *LaunchError {
	return NewLaunchError(module, fmt.Sprintf(format, a...), nil, ExitFailure)
}

// Error returns the module, the message and the original error.
func (e *LaunchError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Module, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("[%s] %s", e.Module, e.Message)
}

// Unwrap returns the original error for errors.Is and errors.As.
func (e *LaunchError) Unwrap() error {
	return e.OriginalErr
}

// IsLaunchError reports whether err is, or wraps, a LaunchError.
func IsLaunchError(err error) bool {
	var le *LaunchError
	return errors.As(err, &le)
}

// ExitCodeOf maps an error to a process exit status.
// nil maps to 0, a LaunchError to its ExitCode, sentinels to their shell
// equivalents, and anything else to 1.
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitOK
	}
	var le *LaunchError
	if errors.As(err, &le) {
		return le.ExitCode
	}
	switch {
	case errors.Is(err, ErrCommandNotFound):
		return ExitCommandNotFound
	case errors.Is(err, ErrCommandNotExecutable):
		return ExitCommandNotRunnable
	default:
		return ExitFailure
	}
}

// SignalExitCode returns the shell's exit status for a process killed by signal signum.
func SignalExitCode(signum int) int {
	return exitSignalBase + signum
}
