package xmetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestTracerProvider() (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	return sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter)), exporter
}

func newTestMeterProvider() (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), reader
}

// findSum 在采集结果中查找 int64 Sum 指标。
func findSum(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Sum[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok, "metric %s is %T", name, m.Data)
				return sum
			}
		}
	}
	t.Fatalf("metric %s not found", name)
	return metricdata.Sum[int64]{}
}

func TestOTelObserver_SpanAndMetrics(t *testing.T) {
	tp, exporter := newTestTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	mp, reader := newTestMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	obs, err := NewOTelObserver(WithTracerProvider(tp), WithMeterProvider(mp))
	require.NoError(t, err)

	ctx, span := obs.Start(context.Background(), SpanOptions{
		Component: "xkafka",
		Operation: "defer",
		Kind:      KindProducer,
		Attrs:     []Attr{String("messaging.destination.name", "messages.defer")},
	})
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid())
	span.End(Result{Err: errors.New("delivery failed")})
	span.End(Result{}) // 幂等

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "defer", spans[0].Name)
	assert.Equal(t, trace.SpanKindProducer, spans[0].SpanKind)
	assert.Equal(t, codes.Error, spans[0].Status.Code)

	sum := findSum(t, reader, metricOperations)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)
	status, ok := sum.DataPoints[0].Attributes.Value(attribute.Key("status"))
	require.True(t, ok)
	assert.Equal(t, statusError, status.AsString())
}

func TestOTelObserver_DefaultNames(t *testing.T) {
	tp, exporter := newTestTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	obs, err := NewOTelObserver(WithTracerProvider(tp), WithInstrumentationName(""))
	require.NoError(t, err)

	_, span := obs.Start(nil, SpanOptions{}) //nolint:staticcheck // nil ctx 归一化
	span.End(Result{})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, unknown, spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
}

func TestOTelObserver_ResultAttrs(t *testing.T) {
	tp, exporter := newTestTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	mp, reader := newTestMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	obs, err := NewOTelObserver(WithTracerProvider(tp), WithMeterProvider(mp))
	require.NoError(t, err)

	_, span := obs.Start(context.Background(), SpanOptions{Component: "xkafka", Operation: "health", Kind: KindClient})
	span.End(Result{Attrs: []Attr{Int("messaging.kafka.brokers", 3)}})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind)
	assert.Contains(t, spans[0].Attributes, attribute.Int("messaging.kafka.brokers", 3))

	sum := findSum(t, reader, metricOperations)
	status, ok := sum.DataPoints[0].Attributes.Value(attribute.Key("status"))
	require.True(t, ok)
	assert.Equal(t, statusOK, status.AsString())
}

func TestOtelAttrs(t *testing.T) {
	got := otelAttrs([]Attr{
		String("s", "v"),
		Bool("b", true),
		Int("i", 3),
		Int64("i64", 4),
		{Key: "f", Value: 1.5},
		{Key: "d", Value: time.Millisecond},
		{Key: ""},
		{Key: "nil"},
	})
	assert.Equal(t, []attribute.KeyValue{
		attribute.String("s", "v"),
		attribute.Bool("b", true),
		attribute.Int("i", 3),
		attribute.Int64("i64", 4),
		attribute.Float64("f", 1.5),
		attribute.String("d", "1ms"),
	}, got)
	assert.Nil(t, otelAttrs(nil))
}
