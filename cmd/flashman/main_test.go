package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ryanm101/flashman/internal/config"
)

func TestTracingConfig(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	c := config.DefaultConfig()
	tc := tracingConfig(c)
	assert.False(t, tc.Enabled())
	assert.Equal(t, version, tc.Version)
	assert.Equal(t, "db-api.unstable.life", tc.CatalogHost)
	assert.Equal(t, 1.0, tc.SampleRatio)

	c.Tracing.Endpoint = "collector:4317"
	c.Tracing.SampleRatio = 0.1
	tc = tracingConfig(c)
	assert.True(t, tc.Enabled())
	assert.Equal(t, "collector:4317", tc.Endpoint)
	assert.Equal(t, 0.1, tc.SampleRatio)
}
