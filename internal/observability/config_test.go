package observability

import (
	"testing"

	"github.com/smallbiznis/quotely/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("OTEL_ENABLED", "")
	cfg := LoadConfig(config.Config{AppName: "", Environment: "production", OTLPEndpoint: "collector:4317"})

	assert.Equal(t, "quotely", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.OtelEnabled)
	assert.Equal(t, "collector:4317", cfg.OtelExporterEndpoint)
	assert.False(t, cfg.Debug())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "yes")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "HTTP")
	t.Setenv("OTEL_SAMPLING_RATIO", "0.5")
	cfg := LoadConfig(config.Config{AppName: "quotely", Environment: "local"})

	assert.True(t, cfg.OtelEnabled)
	assert.Equal(t, "http", cfg.OtelExporterProtocol)
	assert.Equal(t, 0.5, cfg.OtelSamplingRatio)
	assert.True(t, cfg.Debug())
}
