package xmetrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestNewOTelCounter_EmptyName(t *testing.T) {
	c, err := NewOTelCounter("", "")
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrEmptyMetricName)
}

func TestOTelCounter_Add(t *testing.T) {
	mp, reader := newTestMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	c, err := NewOTelCounter("xserial.consumer.messages", "consumer bookkeeping", WithMeterProvider(mp))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Add(ctx, 1, String("type", "ack"))
	c.Add(context.Background(), 2, String("type", "ack"))
	c.Add(context.Background(), 1, String("type", "nack"))

	sum := findSum(t, reader, "xserial.consumer.messages")
	got := map[string]int64{}
	for _, dp := range sum.DataPoints {
		v, ok := dp.Attributes.Value(attribute.Key("type"))
		require.True(t, ok)
		got[v.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"ack": 3, "nack": 1}, got)
}

func TestNoopCounter(t *testing.T) {
	assert.NotPanics(t, func() { NoopCounter{}.Add(context.Background(), 1) })
}
