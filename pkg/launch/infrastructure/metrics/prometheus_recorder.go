package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	model "github.com/tigerroll/launchpad/pkg/launch/core/domain/model"
	metrics "github.com/tigerroll/launchpad/pkg/launch/core/metrics"
	logger "github.com/tigerroll/launchpad/pkg/launch/support/util/logger"
)

// PrometheusRecorder is a Prometheus implementation of the metrics.MetricRecorder interface.
// It owns a private registry so nothing leaks into the global default registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	launchStarted     *prometheus.CounterVec
	launchFinished    *prometheus.CounterVec
	launchDuration    *prometheus.HistogramVec
	serverExitCode    *prometheus.GaugeVec
	serverRunning     *prometheus.GaugeVec
	preflightWarnings *prometheus.CounterVec
}

// NewPrometheusRecorder creates a new instance of PrometheusRecorder.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusRecorder{
		registry: registry,
		launchStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "launcher_launch_started_total",
			Help: "Total number of launches started.",
		}, []string{"app"}),
		launchFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "launcher_launch_finished_total",
			Help: "Total number of launches finished, by final status.",
		}, []string{"app", "status"}),
		launchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "launcher_launch_duration_seconds",
			Help:    "Wall time from launch start until the server exited.",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 10),
		}, []string{"app", "status"}),
		serverExitCode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "launcher_server_exit_code",
			Help: "Exit status of the last launch.",
		}, []string{"app"}),
		serverRunning: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "launcher_server_running",
			Help: "1 while the delegated server is running.",
		}, []string{"app"}),
		preflightWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "launcher_preflight_warnings_total",
			Help: "Non-fatal preflight findings, by check.",
		}, []string{"check"}),
	}

	registry.MustRegister(
		r.launchStarted,
		r.launchFinished,
		r.launchDuration,
		r.serverExitCode,
		r.serverRunning,
		r.preflightWarnings,
	)
	return r
}

// GetRegistry returns the Prometheus registry.
func (r *PrometheusRecorder) GetRegistry() *prometheus.Registry {
	return r.registry
}

// RecordLaunchStart records the start of a launch.
func (r *PrometheusRecorder) RecordLaunchStart(ctx context.Context, execution *model.LaunchExecution) {
	r.launchStarted.WithLabelValues(execution.AppName).Inc()
	logger.Debugf("Metrics: launch '%s' started.", execution.ID)
}

// RecordServerRunning marks the server of a launch as running.
func (r *PrometheusRecorder) RecordServerRunning(ctx context.Context, execution *model.LaunchExecution) {
	r.serverRunning.WithLabelValues(execution.AppName).Set(1)
}

// RecordLaunchEnd records the outcome of a launch. Unfinished executions are ignored.
func (r *PrometheusRecorder) RecordLaunchEnd(ctx context.Context, execution *model.LaunchExecution) {
	if execution.EndTime == nil {
		return
	}
	status := execution.Status.String()
	r.serverRunning.WithLabelValues(execution.AppName).Set(0)
	r.launchFinished.WithLabelValues(execution.AppName, status).Inc()
	r.launchDuration.WithLabelValues(execution.AppName, status).Observe(execution.Duration().Seconds())
	r.serverExitCode.WithLabelValues(execution.AppName).Set(float64(execution.ExitCode))
	logger.Debugf("Metrics: launch '%s' ended with status %s, exit code %d.", execution.ID, status, execution.ExitCode)
}

// RecordPreflightWarning counts a non-fatal preflight finding.
func (r *PrometheusRecorder) RecordPreflightWarning(ctx context.Context, check string) {
	r.preflightWarnings.WithLabelValues(check).Inc()
}

var _ metrics.MetricRecorder = (*PrometheusRecorder)(nil)
