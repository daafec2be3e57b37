package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestProbeFilter(t *testing.T) {
	sampler := newSampler(1.0)

	tests := []struct {
		name string
		want sdktrace.SamplingDecision
	}{
		{"GET /health/live", sdktrace.Drop},
		{"GET /health/ready", sdktrace.Drop},
		{"GET /metrics", sdktrace.Drop},
		{"GET /api/categories", sdktrace.RecordAndSample},
		{"POST /api/submissions", sdktrace.RecordAndSample},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := sampler.ShouldSample(sdktrace.SamplingParameters{
				ParentContext: context.Background(),
				Name:          tt.name,
			})
			assert.Equal(t, tt.want, res.Decision)
		})
	}
	assert.Contains(t, sampler.Description(), "ProbeFilter")
}

func TestInitTracing(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		shutdown, err := InitTracing(context.Background(), TracingConfig{ServiceName: "toolkit-test"})
		require.NoError(t, err)
		assert.NoError(t, shutdown(context.Background()))
	})

	t.Run("unknown exporter", func(t *testing.T) {
		_, err := InitTracing(context.Background(), TracingConfig{ServiceName: "toolkit-test", Enabled: true, Exporter: "zipkin"})
		assert.Error(t, err)
	})
}
