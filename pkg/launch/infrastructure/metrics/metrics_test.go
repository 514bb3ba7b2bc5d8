package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/fx/fxtest"

	config "github.com/tigerroll/launchpad/pkg/launch/core/config"
	model "github.com/tigerroll/launchpad/pkg/launch/core/domain/model"
	coremetrics "github.com/tigerroll/launchpad/pkg/launch/core/metrics"
	metrics "github.com/tigerroll/launchpad/pkg/launch/infrastructure/metrics"
)

func finishedExecution(exitCode int) *model.LaunchExecution {
	e := model.NewLaunchExecution("Finance Insights", "streamlit", []string{"run", "streamlit_app.py"})
	e.MarkRunning()
	e.Complete(exitCode, false, nil)
	return e
}

func TestPrometheusRecorder(t *testing.T) {
	r := metrics.NewPrometheusRecorder()
	ctx := context.Background()

	e := model.NewLaunchExecution("Finance Insights", "streamlit", nil)
	r.RecordLaunchStart(ctx, e)
	r.RecordPreflightWarning(ctx, "required_keys")
	r.RecordPreflightWarning(ctx, "required_keys")

	registry := r.GetRegistry()
	count, err := testutil.GatherAndCount(registry, "launcher_launch_started_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	r.RecordLaunchEnd(ctx, e)
	count, err = testutil.GatherAndCount(registry, "launcher_launch_finished_total")
	require.NoError(t, err)
	assert.Equal(t, 0, count, "unfinished executions are not recorded")

	r.RecordLaunchEnd(ctx, finishedExecution(3))
	count, err = testutil.GatherAndCount(registry, "launcher_launch_finished_total", "launcher_server_exit_code", "launcher_preflight_warnings_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	problems, err := testutil.GatherAndLint(registry, "launcher_launch_finished_total")
	require.NoError(t, err)
	assert.Empty(t, problems)
}

// gaugeValue returns the value of the single series of a gauge family.
func gaugeValue(t *testing.T, r *metrics.PrometheusRecorder, name string) (float64, bool) {
	t.Helper()
	families, err := r.GetRegistry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) == 1 {
			return mf.GetMetric()[0].GetGauge().GetValue(), true
		}
	}
	return 0, false
}

func TestPrometheusRecorder_ServerRunningFollowsHandover(t *testing.T) {
	r := metrics.NewPrometheusRecorder()
	ctx := context.Background()
	e := model.NewLaunchExecution("Finance Insights", "streamlit", nil)

	r.RecordLaunchStart(ctx, e)
	_, ok := gaugeValue(t, r, "launcher_server_running")
	assert.False(t, ok, "a launch in preflight has no running server")

	e.MarkRunning()
	r.RecordServerRunning(ctx, e)
	v, ok := gaugeValue(t, r, "launcher_server_running")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	e.Complete(0, false, nil)
	r.RecordLaunchEnd(ctx, e)
	v, _ = gaugeValue(t, r, "launcher_server_running")
	assert.Equal(t, 0.0, v)
}

func TestPrometheusRecorder_AbortedLaunchNeverRunning(t *testing.T) {
	r := metrics.NewPrometheusRecorder()
	ctx := context.Background()
	e := model.NewLaunchExecution("Finance Insights", "streamlit", nil)

	r.RecordLaunchStart(ctx, e)
	e.Abort(1, errors.New(".env is required"))
	r.RecordLaunchEnd(ctx, e)

	v, ok := gaugeValue(t, r, "launcher_server_running")
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestOpenTelemetryTracer_RecordsLaunchSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := metrics.NewOpenTelemetryTracer(provider)

	e := model.NewLaunchExecution("Finance Insights", "streamlit", []string{"run", "streamlit_app.py"})
	ctx, end := tracer.StartLaunchSpan(context.Background(), e)
	tracer.RecordEvent(ctx, "preflight.warning", map[string]interface{}{"check": "required_keys", "count": 1})
	tracer.RecordError(ctx, "envfile", errors.New("parse error"))
	e.MarkRunning()
	e.Complete(2, false, nil)
	end()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "launch", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)

	attrs := map[string]string{}
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, e.ID, attrs["launch.id"])
	assert.Equal(t, "FAILED", attrs["launch.status"])
	assert.Equal(t, "2", attrs["launch.exit_code"])
	assert.Equal(t, "streamlit run streamlit_app.py", attrs["launch.command"])

	var names []string
	for _, ev := range span.Events() {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, "preflight.warning")
	assert.Contains(t, names, "exception")
}

func TestNewTracer_NoEndpointIsNoOp(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	tracer, err := metrics.NewTracer(lc, config.NewConfig())
	require.NoError(t, err)
	assert.IsType(t, &coremetrics.NoOpTracer{}, tracer)
}

func TestNewTracer_WithEndpoint(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Launcher.Tracing.Endpoint = "http://127.0.0.1:4318/v1/traces"
	lc := fxtest.NewLifecycle(t)

	tracer, err := metrics.NewTracer(lc, cfg)
	require.NoError(t, err)
	assert.IsType(t, &metrics.OpenTelemetryTracer{}, tracer)

	lc.RequireStart()
	lc.RequireStop()
}

func TestMetricsServer_ServesRegistry(t *testing.T) {
	r := metrics.NewPrometheusRecorder()
	r.RecordLaunchEnd(context.Background(), finishedExecution(0))

	srv := metrics.NewMetricsServer("127.0.0.1:0", r)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `launcher_launch_finished_total{app="Finance Insights",status="COMPLETED"} 1`)
}

func TestRegisterMetricsServer_DisabledByDefault(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	metrics.RegisterMetricsServer(lc, config.NewConfig(), metrics.NewPrometheusRecorder())
	lc.RequireStart()
	lc.RequireStop()
}
