package logging

import (
	"context"

	port "github.com/tigerroll/launchpad/pkg/launch/core/application/port"
	model "github.com/tigerroll/launchpad/pkg/launch/core/domain/model"
	logger "github.com/tigerroll/launchpad/pkg/launch/support/util/logger"
)

// LoggingLaunchListener logs the start and the outcome of a launch.
type LoggingLaunchListener struct{}

func NewLoggingLaunchListener() port.LaunchListener {
	return &LoggingLaunchListener{}
}

func (l *LoggingLaunchListener) BeforeLaunch(ctx context.Context, execution *model.LaunchExecution) {
	logger.Infof("LaunchListener: BeforeLaunch - App: %s, ID: %s, Command: %s", execution.AppName, execution.ID, execution.CommandLine())
}

func (l *LoggingLaunchListener) AfterLaunch(ctx context.Context, execution *model.LaunchExecution) {
	switch execution.Status {
	case model.LaunchStatusCompleted, model.LaunchStatusStopped:
		logger.Infof("LaunchListener: AfterLaunch - App: %s, Status: %s, ExitCode: %d, Duration: %s", execution.AppName, execution.Status, execution.ExitCode, execution.Duration())
	default:
		logger.Errorf("LaunchListener: AfterLaunch - App: %s, Status: %s, ExitCode: %d, Error: %v", execution.AppName, execution.Status, execution.ExitCode, execution.Failure)
	}
	for _, w := range execution.Warnings {
		logger.Debugf("LaunchListener: AfterLaunch - Warning: %s", w)
	}
}

var _ port.LaunchListener = (*LoggingLaunchListener)(nil)
