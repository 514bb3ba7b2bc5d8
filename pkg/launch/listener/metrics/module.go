package metrics

import (
	"go.uber.org/fx"

	port "github.com/tigerroll/launchpad/pkg/launch/core/application/port"
)

// Module provides the metrics listener into the launch listener group.
// The MetricRecorder itself comes from infrastructure/metrics.
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewMetricsLaunchListener,
		fx.ResultTags(port.LaunchListenerGroup),
	)),
)
