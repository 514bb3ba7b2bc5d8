// Package port defines the interfaces the launch use case depends on.
package port

import (
	"context"
	"time"

	model "github.com/tigerroll/launchpad/pkg/launch/core/domain/model"
)

// ProcessSpec describes the server process to run.
type ProcessSpec struct {
	// Path is the resolved executable.
	Path string
	// Args excludes the program name.
	Args []string
	// Dir is the working directory.
	Dir string
	// Env is the complete environment of the child, in os.Environ form.
	Env []string
	// GracePeriod bounds how long the child may take to exit after an interrupt.
	GracePeriod time.Duration
}

// ProcessRunner runs a process to completion.
type ProcessRunner interface {
	// Run blocks until the process exits and returns its exit status.
	// Cancelling ctx asks the process to stop.
	// The returned error describes a failure to start or wait, not a non-zero exit.
	Run(ctx context.Context, spec ProcessSpec) (int, error)
}

// LaunchListenerGroup is the fx value group tag listeners are provided under.
const LaunchListenerGroup = `group:"launch_listeners"`

// LaunchListener observes a launch before preflight and after the server exits.
type LaunchListener interface {
	BeforeLaunch(ctx context.Context, execution *model.LaunchExecution)
	AfterLaunch(ctx context.Context, execution *model.LaunchExecution)
}
