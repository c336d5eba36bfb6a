package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// enabledConfig points the exporter at a non-routable endpoint so the SDK
// initializes without ever connecting (batched export is async).
func enabledConfig(sampleRate float64) Config {
	return Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		OTLPEndpoint:   "127.0.0.1:0",
		SampleRate:     sampleRate,
		Enabled:        true,
	}
}

func TestInitTracer_Disabled(t *testing.T) {
	cfg := DefaultConfig("test-service")
	cfg.Enabled = false

	shutdown, err := InitTracer(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown, "shutdown function should not be nil even when disabled")

	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracer_Enabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), enabledConfig(1.0))
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	tp := otel.GetTracerProvider()
	assert.IsType(t, &sdktrace.TracerProvider{}, tp)

	if err := shutdown(context.Background()); err != nil {
		t.Logf("shutdown returned (expected with unreachable endpoint): %v", err)
	}
}

func TestInitTracer_SampleRates(t *testing.T) {
	for _, rate := range []float64{0.0, 0.5} {
		shutdown, err := InitTracer(context.Background(), enabledConfig(rate))
		require.NoError(t, err)
		defer shutdown(context.Background()) //nolint:errcheck
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("my-service")

	assert.Equal(t, "my-service", cfg.ServiceName)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 1.0, cfg.SampleRate)
	assert.Equal(t, "localhost:4318", cfg.OTLPEndpoint)
}

func TestTracer(t *testing.T) {
	tracer := Tracer("test-component")
	require.NotNil(t, tracer)

	// With no SDK provider installed the span may be a no-op; we only
	// verify starting and ending a span does not panic.
	_, span := tracer.Start(context.Background(), "test-op")
	span.End()
}
