package telemetry

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestTelemetry is an enabled Telemetry backed by in-memory exporters, for tests
// that assert on recorded operations.
type TestTelemetry struct {
	*TelemetryImpl
	spans *tracetest.InMemoryExporter
	mr    *sdkmetric.ManualReader
}

// NewTestTelemetry creates a TestTelemetry that is shut down when the test ends.
func NewTestTelemetry(t *testing.T) *TestTelemetry {
	t.Helper()

	spans := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spans))

	mr := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(mr))

	impl, err := newTelemetry(tp, mp)
	if err != nil {
		t.Fatalf("create test telemetry: %v", err)
	}
	impl.enabled = true

	tt := &TestTelemetry{TelemetryImpl: impl, spans: spans, mr: mr}
	t.Cleanup(func() { _ = tt.Shutdown(context.Background()) })
	return tt
}

// Collect gathers the metrics recorded so far.
func (tt *TestTelemetry) Collect(ctx context.Context) (metricdata.ResourceMetrics, error) {
	var rm metricdata.ResourceMetrics
	err := tt.mr.Collect(ctx, &rm)
	return rm, err
}

// SpanNames returns the names of the ended spans in order.
func (tt *TestTelemetry) SpanNames() []string {
	stubs := tt.spans.GetSpans()
	names := make([]string, 0, len(stubs))
	for _, s := range stubs {
		names = append(names, s.Name)
	}
	return names
}

// OperationCount returns how many operations were recorded for op and status.
func (tt *TestTelemetry) OperationCount(ctx context.Context, op, status string) uint64 {
	rm, err := tt.Collect(ctx)
	if err != nil {
		return 0
	}
	var n uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "mqtt_operation_duration" {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			if !ok {
				continue
			}
			for _, dp := range hist.DataPoints {
				gotOp, _ := dp.Attributes.Value("operation")
				gotStatus, _ := dp.Attributes.Value("status")
				if gotOp.AsString() == op && gotStatus.AsString() == status {
					n += dp.Count
				}
			}
		}
	}
	return n
}
