package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LaunchStatus represents the state of a launch.
type LaunchStatus string

const (
	LaunchStatusStarting  LaunchStatus = "STARTING"
	LaunchStatusRunning   LaunchStatus = "RUNNING"
	LaunchStatusCompleted LaunchStatus = "COMPLETED"
	LaunchStatusFailed    LaunchStatus = "FAILED"
	LaunchStatusStopped   LaunchStatus = "STOPPED"
	// LaunchStatusAborted means preflight refused to start the server.
	LaunchStatusAborted LaunchStatus = "ABORTED"
)

// String returns the string representation of the LaunchStatus.
func (s LaunchStatus) String() string {
	return string(s)
}

// IsFinished checks if the LaunchStatus represents a finished state.
func (s LaunchStatus) IsFinished() bool {
	switch s {
	case LaunchStatusCompleted, LaunchStatusFailed, LaunchStatusStopped, LaunchStatusAborted:
		return true
	default:
		return false
	}
}

// LaunchExecution is the in-memory record of one launcher run.
type LaunchExecution struct {
	ID         string
	AppName    string
	Command    string
	Args       []string
	WorkDir    string
	RuntimeEnv string
	EnvFile    string
	Status     LaunchStatus
	// ExitCode is the launcher's exit status: 1 when aborted, otherwise the server's.
	ExitCode  int
	StartTime time.Time
	EndTime   *time.Time
	// Warnings collects non-fatal preflight findings.
	Warnings []string
	// Failure is the error that ended the run, if any.
	Failure error
}

// NewLaunchExecution creates a LaunchExecution in STARTING state with a fresh ID.
func NewLaunchExecution(appName, command string, args []string) *LaunchExecution {
	return &LaunchExecution{
		ID:        uuid.NewString(),
		AppName:   appName,
		Command:   command,
		Args:      append([]string(nil), args...),
		Status:    LaunchStatusStarting,
		StartTime: time.Now(),
	}
}

// AddWarning records a non-fatal finding.
func (e *LaunchExecution) AddWarning(msg string) {
	e.Warnings = append(e.Warnings, msg)
}

// MarkRunning records that the server process has been handed control.
func (e *LaunchExecution) MarkRunning() {
	e.Status = LaunchStatusRunning
}

// Abort ends the execution before the server was started.
func (e *LaunchExecution) Abort(exitCode int, err error) {
	e.finish(LaunchStatusAborted, exitCode, err)
}

// Complete ends the execution with the server's exit status.
// stopped reports whether the operator asked the server to stop.
func (e *LaunchExecution) Complete(exitCode int, stopped bool, err error) {
	switch {
	case stopped:
		e.finish(LaunchStatusStopped, exitCode, err)
	case exitCode == 0 && err == nil:
		e.finish(LaunchStatusCompleted, exitCode, nil)
	default:
		e.finish(LaunchStatusFailed, exitCode, err)
	}
}

func (e *LaunchExecution) finish(status LaunchStatus, exitCode int, err error) {
	now := time.Now()
	e.Status = status
	e.ExitCode = exitCode
	e.Failure = err
	e.EndTime = &now
}

// Duration returns the time between start and end, or zero while running.
func (e *LaunchExecution) Duration() time.Duration {
	if e.EndTime == nil {
		return 0
	}
	return e.EndTime.Sub(e.StartTime)
}

// CommandLine returns the command and its arguments joined for display.
func (e *LaunchExecution) CommandLine() string {
	return strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
}
