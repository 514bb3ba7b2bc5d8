package metrics

import (
	"context"

	port "github.com/tigerroll/launchpad/pkg/launch/core/application/port"
	model "github.com/tigerroll/launchpad/pkg/launch/core/domain/model"
	"github.com/tigerroll/launchpad/pkg/launch/core/metrics"
)

// MetricsLaunchListener forwards launch events to a MetricRecorder.
type MetricsLaunchListener struct {
	recorder metrics.MetricRecorder
}

func NewMetricsLaunchListener(recorder metrics.MetricRecorder) port.LaunchListener {
	return &MetricsLaunchListener{recorder: recorder}
}

func (l *MetricsLaunchListener) BeforeLaunch(ctx context.Context, execution *model.LaunchExecution) {
	l.recorder.RecordLaunchStart(ctx, execution)
}

func (l *MetricsLaunchListener) AfterLaunch(ctx context.Context, execution *model.LaunchExecution) {
	l.recorder.RecordLaunchEnd(ctx, execution)
}

var _ port.LaunchListener = (*MetricsLaunchListener)(nil)
