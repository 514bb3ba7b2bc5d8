package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	config "github.com/tigerroll/launchpad/pkg/launch/core/config"
	model "github.com/tigerroll/launchpad/pkg/launch/core/domain/model"
	metrics "github.com/tigerroll/launchpad/pkg/launch/core/metrics"
	logger "github.com/tigerroll/launchpad/pkg/launch/support/util/logger"
)

const instrumentationName = "github.com/tigerroll/launchpad/pkg/launch"

// OpenTelemetryTracer is an implementation of metrics.Tracer using OpenTelemetry.
type OpenTelemetryTracer struct {
	tracer trace.Tracer
}

// NewOpenTelemetryTracer creates a tracer backed by provider.
func NewOpenTelemetryTracer(provider trace.TracerProvider) *OpenTelemetryTracer {
	return &OpenTelemetryTracer{tracer: provider.Tracer(instrumentationName)}
}

// StartLaunchSpan starts the "launch" span. The end function copies the final
// status and exit code onto the span before ending it.
func (t *OpenTelemetryTracer) StartLaunchSpan(ctx context.Context, execution *model.LaunchExecution) (context.Context, func()) {
	ctx, span := t.tracer.Start(ctx, "launch",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("launch.id", execution.ID),
			attribute.String("launch.app", execution.AppName),
			attribute.String("launch.command", execution.CommandLine()),
		),
	)
	return ctx, func() {
		span.SetAttributes(
			attribute.String("launch.status", execution.Status.String()),
			attribute.Int("launch.exit_code", execution.ExitCode),
		)
		if execution.Status == model.LaunchStatusCompleted || execution.Status == model.LaunchStatusStopped {
			span.SetStatus(codes.Ok, "")
		} else {
			span.SetStatus(codes.Error, fmt.Sprintf("launch %s with exit code %d", execution.Status, execution.ExitCode))
		}
		span.End()
	}
}

// RecordError records an error in the current span.
func (t *OpenTelemetryTracer) RecordError(ctx context.Context, module string, err error) {
	trace.SpanFromContext(ctx).RecordError(err, trace.WithAttributes(attribute.String("launch.module", module)))
}

// RecordEvent records an event in the current span. Values that are not strings,
// bools or integers are recorded with their fmt representation.
func (t *OpenTelemetryTracer) RecordEvent(ctx context.Context, name string, attributes map[string]interface{}) {
	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, attribute.String(k, val))
		case bool:
			attrs = append(attrs, attribute.Bool(k, val))
		case int:
			attrs = append(attrs, attribute.Int(k, val))
		case int64:
			attrs = append(attrs, attribute.Int64(k, val))
		case []string:
			attrs = append(attrs, attribute.StringSlice(k, val))
		default:
			attrs = append(attrs, attribute.String(k, fmt.Sprint(val)))
		}
	}
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

var _ metrics.Tracer = (*OpenTelemetryTracer)(nil)

// NewTracer returns an OTLP/HTTP backed tracer when an endpoint is configured,
// and a NoOpTracer otherwise. The provider is flushed and shut down on fx stop.
func NewTracer(lc fx.Lifecycle, cfg *config.Config) (metrics.Tracer, error) {
	tc := cfg.Launcher.Tracing
	if tc.Endpoint == "" {
		return metrics.NewNoOpTracer(), nil
	}

	exporter, err := otlptracehttp.New(context.Background(), otlptracehttp.WithEndpointURL(tc.Endpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter for %s: %w", tc.Endpoint, err)
	}
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", tc.ServiceName),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Debugf("Tracing: flushing spans to %s.", tc.Endpoint)
			return provider.Shutdown(ctx)
		},
	})
	logger.Infof("Tracing: exporting launch spans to %s.", tc.Endpoint)
	return NewOpenTelemetryTracer(provider), nil
}
