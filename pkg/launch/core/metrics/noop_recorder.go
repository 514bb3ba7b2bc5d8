package metrics

import (
	"context"

	model "github.com/tigerroll/launchpad/pkg/launch/core/domain/model"
)

// NoOpMetricRecorder is a MetricRecorder that does nothing.
type NoOpMetricRecorder struct{}

// NewNoOpMetricRecorder creates a new instance of NoOpMetricRecorder.
func NewNoOpMetricRecorder() MetricRecorder {
	return &NoOpMetricRecorder{}
}

func (r *NoOpMetricRecorder) RecordLaunchStart(ctx context.Context, execution *model.LaunchExecution)   {}
func (r *NoOpMetricRecorder) RecordServerRunning(ctx context.Context, execution *model.LaunchExecution) {}
func (r *NoOpMetricRecorder) RecordLaunchEnd(ctx context.Context, execution *model.LaunchExecution)     {}
func (r *NoOpMetricRecorder) RecordPreflightWarning(ctx context.Context, check string)                  {}

var _ MetricRecorder = (*NoOpMetricRecorder)(nil)

// NoOpTracer is a Tracer that does nothing.
type NoOpTracer struct{}

// NewNoOpTracer creates a new instance of NoOpTracer.
func NewNoOpTracer() Tracer {
	return &NoOpTracer{}
}

func (t *NoOpTracer) StartLaunchSpan(ctx context.Context, execution *model.LaunchExecution) (context.Context, func()) {
	return ctx, func() {}
}

func (t *NoOpTracer) RecordError(ctx context.Context, module string, err error) {}

func (t *NoOpTracer) RecordEvent(ctx context.Context, name string, attributes map[string]interface{}) {}

var _ Tracer = (*NoOpTracer)(nil)
