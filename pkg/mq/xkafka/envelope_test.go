package xkafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope_Validation(t *testing.T) {
	_, err := NewEnvelope(nil, DeferOptions{Identifier: "id"})
	assert.ErrorIs(t, err, ErrInvalidDeferParams)

	_, err = NewEnvelope([]Record{{Topic: "t"}}, DeferOptions{})
	assert.ErrorIs(t, err, ErrInvalidDeferParams)
}

func TestNewEnvelope_Delay(t *testing.T) {
	records := []Record{{Topic: "t"}}
	for _, d := range []time.Duration{time.Millisecond, 999 * time.Millisecond, -time.Second} {
		_, err := NewEnvelope(records, DeferOptions{Identifier: "id", Delay: d, TTL: time.Minute})
		assert.ErrorIs(t, err, ErrInvalidDeferParams, d)
	}

	env, err := NewEnvelope(records, DeferOptions{Identifier: "id", Delay: 1500 * time.Millisecond, TTL: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, int64(1), env.Delay)
}

func TestNewEnvelope_Defaults(t *testing.T) {
	env, err := NewEnvelope([]Record{{Topic: "t", Value: []byte("x")}}, DeferOptions{
		Identifier: "user-1",
		TTL:        90 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(300), env.Delay)
	assert.Equal(t, int64(90), env.TTL)
	assert.False(t, env.Batch)
}

func TestDeferOptions_Immediate(t *testing.T) {
	assert.True(t, DeferOptions{}.immediate())
	assert.True(t, DeferOptions{TTL: -time.Second}.immediate())
	assert.True(t, DeferOptions{TTL: 999 * time.Millisecond}.immediate())
	assert.False(t, DeferOptions{TTL: time.Second}.immediate())
}

func TestEnvelope_WireFormat(t *testing.T) {
	env, err := NewEnvelope([]Record{
		{Topic: "emails", Key: "k", Value: []byte("hello"), Headers: map[string]string{"h": "v"}},
		{Topic: "emails", Value: []byte("world")},
	}, DeferOptions{Identifier: "user-1", Delay: 60 * time.Second, TTL: time.Hour, Batch: true})
	require.NoError(t, err)

	rec, err := env.Record("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDeferTopic, rec.Topic)
	assert.Equal(t, "user-1", rec.Key)
	assert.Equal(t, envelopeContentType, rec.Headers[headerContentType])

	var wire map[string]any
	require.NoError(t, json.Unmarshal(rec.Value, &wire))
	assert.Equal(t, "user-1", wire["identifier"])
	assert.InDelta(t, 60, wire["delay"], 0)
	assert.InDelta(t, 3600, wire["ttl"], 0)
	assert.Equal(t, true, wire["batch"])

	messages, ok := wire["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	first := messages[0].(map[string]any)
	assert.Equal(t, "aGVsbG8=", first["value"])
	assert.Equal(t, "k", first["key"])
	second := messages[1].(map[string]any)
	assert.NotContains(t, second, "key")
	assert.NotContains(t, second, "headers")

	decoded, err := DecodeEnvelope(rec.Value)
	require.NoError(t, err)
	assert.Equal(t, env, decoded)
}

func TestDecodeEnvelope_Errors(t *testing.T) {
	_, err := DecodeEnvelope([]byte("{"))
	assert.Error(t, err)

	_, err = DecodeEnvelope([]byte(`{"delay":1}`))
	assert.ErrorIs(t, err, ErrInvalidDeferParams)
}
