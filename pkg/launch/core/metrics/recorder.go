package metrics

import (
	"context"

	model "github.com/tigerroll/launchpad/pkg/launch/core/domain/model"
)

// MetricRecorder records launch metrics independently of the backend.
type MetricRecorder interface {
	// RecordLaunchStart records that a launch has begun.
	RecordLaunchStart(ctx context.Context, execution *model.LaunchExecution)
	// RecordServerRunning records that the launch has handed over to its server.
	RecordServerRunning(ctx context.Context, execution *model.LaunchExecution)
	// RecordLaunchEnd records the outcome and duration of a finished launch.
	RecordLaunchEnd(ctx context.Context, execution *model.LaunchExecution)
	// RecordPreflightWarning records a non-fatal preflight finding for check.
	RecordPreflightWarning(ctx context.Context, check string)
}

// Tracer abstracts distributed tracing for a launch.
type Tracer interface {
	// StartLaunchSpan starts a span covering the whole launch. The returned
	// function ends it and must be called once the execution is finished.
	StartLaunchSpan(ctx context.Context, execution *model.LaunchExecution) (context.Context, func())
	// RecordError records an error in the current span.
	RecordError(ctx context.Context, module string, err error)
	// RecordEvent records an event in the current span.
	RecordEvent(ctx context.Context, name string, attributes map[string]interface{})
}
