package metrics

import (
	"go.uber.org/fx"

	metrics "github.com/tigerroll/launchpad/pkg/launch/core/metrics"
)

// Module provides the Prometheus recorder (as itself and as metrics.MetricRecorder),
// the tracer, and the optional /metrics listener.
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewPrometheusRecorder,
		fx.As(fx.Self()),
		fx.As(new(metrics.MetricRecorder)),
	)),
	fx.Provide(NewTracer),
	fx.Invoke(RegisterMetricsServer),
)
