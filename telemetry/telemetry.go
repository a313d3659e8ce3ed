package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/xizhibei/go-iotmqtt"

// Operation status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Telemetry records client operations.
type Telemetry interface {
	IsEnabled() bool
	RecordOperation(ctx context.Context, duration time.Duration, op string, status string, err error)
	StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
	Shutdown(ctx context.Context) error
}

// TelemetryImpl holds OpenTelemetry components
type TelemetryImpl struct {
	tp                *sdktrace.TracerProvider
	mp                *sdkmetric.MeterProvider
	tracer            trace.Tracer
	meter             metric.Meter
	operationDuration metric.Float64Histogram
	errorCounter      metric.Int64Counter
	enabled           bool
}

var _ Telemetry = (*TelemetryImpl)(nil)

// Config holds configuration for telemetry setup
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	Enabled        bool

	TraceWriter  io.Writer
	MetricWriter io.Writer
	Debug        bool
}

// New creates a new Telemetry instance. A disabled config yields a no-op instance.
func New(ctx context.Context, cfg Config) (*TelemetryImpl, error) {
	if !cfg.Enabled {
		return NewNoop()
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if cfg.TraceWriter == nil {
		cfg.TraceWriter = os.Stdout
	}

	if cfg.MetricWriter == nil {
		cfg.MetricWriter = os.Stdout
	}

	var traceExporter sdktrace.SpanExporter
	if cfg.Debug {
		traceExporter, err = stdouttrace.New(
			stdouttrace.WithWriter(cfg.TraceWriter),
			stdouttrace.WithPrettyPrint(),
		)
	} else {
		traceExporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	var metricExporter sdkmetric.Exporter
	if cfg.Debug {
		enc := json.NewEncoder(cfg.MetricWriter)
		enc.SetIndent("", "  ")

		metricExporter, err = stdoutmetric.New(
			stdoutmetric.WithEncoder(enc),
			stdoutmetric.WithoutTimestamps(),
		)
	} else {
		metricExporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				metricExporter,
				sdkmetric.WithInterval(10*time.Second),
			),
		),
		sdkmetric.WithView(
			sdkmetric.NewView(
				sdkmetric.Instrument{Name: "mqtt_operation_duration"},
				sdkmetric.Stream{
					Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
						Boundaries: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 15000},
					},
				},
			),
		),
	)
	otel.SetMeterProvider(mp)

	t, err := newTelemetry(tp, mp)
	if err != nil {
		return nil, err
	}
	t.enabled = true
	return t, nil
}

func newTelemetry(tp *sdktrace.TracerProvider, mp *sdkmetric.MeterProvider) (*TelemetryImpl, error) {
	meter := mp.Meter(instrumentationName)
	operationDuration, err := meter.Float64Histogram(
		"mqtt_operation_duration",
		metric.WithDescription("Duration of MQTT client operations"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation duration histogram: %w", err)
	}

	errorCounter, err := meter.Int64Counter(
		"mqtt_operation_errors",
		metric.WithDescription("Number of failed MQTT client operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	return &TelemetryImpl{
		tp:                tp,
		mp:                mp,
		tracer:            tp.Tracer(instrumentationName),
		meter:             meter,
		operationDuration: operationDuration,
		errorCounter:      errorCounter,
	}, nil
}

// NewFromEnv creates telemetry configured by environment variables:
// OTEL_ENABLED, OTEL_DEBUG, ENVIRONMENT and OTEL_EXPORTER_OTLP_ENDPOINT.
func NewFromEnv(ctx context.Context, serviceName, serviceVersion string) (*TelemetryImpl, error) {
	return New(ctx, Config{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    getEnvOrDefault("ENVIRONMENT", "development"),
		OTLPEndpoint:   getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Enabled:        isTrue(os.Getenv("OTEL_ENABLED")),
		Debug:          isTrue(os.Getenv("OTEL_DEBUG")),
	})
}

func getEnvOrDefault(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

func isTrue(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// IsEnabled reports whether telemetry is exported.
func (t *TelemetryImpl) IsEnabled() bool {
	return t.enabled
}

// Shutdown gracefully shuts down the telemetry providers
func (t *TelemetryImpl) Shutdown(ctx context.Context) error {
	if t.tp != nil {
		if err := t.tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown trace provider: %w", err)
		}
	}
	if t.mp != nil {
		if err := t.mp.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}
	return nil
}

// RecordOperation records the duration of a client operation and counts it as
// an error when err is not nil.
func (t *TelemetryImpl) RecordOperation(ctx context.Context, duration time.Duration, op string, status string, err error) {
	if !t.enabled {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", op),
		attribute.String("status", status),
	}

	t.operationDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		attrs = append(attrs, attribute.String("error", err.Error()))
		t.errorCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// StartSpan starts a new span and returns the context and span.
// When disabled the context is returned unchanged with its current span.
func (t *TelemetryImpl) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !t.enabled || t.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.tracer.Start(ctx, name, opts...)
}

// NewNoop creates a new Telemetry instance that does nothing.
func NewNoop() (*TelemetryImpl, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName("noop"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.NeverSample()),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
	)

	return newTelemetry(tp, mp)
}

// Track starts a span named "mqtt."+op and returns a function that ends it and
// records the operation with the error it is given.
func Track(ctx context.Context, t Telemetry, op string) (context.Context, func(err error)) {
	if t == nil {
		return ctx, func(error) {}
	}

	start := time.Now()
	ctx, span := t.StartSpan(ctx, "mqtt."+op)
	return ctx, func(err error) {
		status := StatusOK
		if err != nil {
			status = StatusError
			span.RecordError(err)
		}
		span.End()
		t.RecordOperation(ctx, time.Since(start), op, status, err)
	}
}
