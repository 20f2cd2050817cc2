package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/pkg/constants"
)

func TestFromCentralConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Environment = "production"
	cfg.Observability.Tracing.OTLPEndpoint = "otel:4318"

	c := FromCentralConfig(cfg)
	assert.Equal(t, constants.ServiceName, c.ServiceName)
	assert.Equal(t, "production", c.Environment)
	assert.Empty(t, c.OTLPEndpoint, "disabled tracing must not export")

	cfg.Observability.Tracing.Enabled = true
	cfg.Observability.Tracing.OTLPInsecure = true
	c = FromCentralConfig(cfg)
	assert.Equal(t, "otel:4318", c.OTLPEndpoint)
	assert.True(t, c.OTLPInsecure)
}
