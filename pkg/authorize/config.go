package authorize

import "github.com/Defimaso/Diario362-sub001/config"

// Config holds configuration for the authorization system
type Config struct {
	// CasbinModelPath is the path to the Casbin model configuration file
	CasbinModelPath string

	// EnableAudit enables audit logging for all authorization decisions
	EnableAudit bool

	// HealthCheckEnabled enables health monitoring for policy loading
	HealthCheckEnabled bool
}

// DefaultConfig returns sensible defaults for authorization configuration
func DefaultConfig() Config {
	return Config{
		CasbinModelPath:    "config/casbin_model.conf",
		EnableAudit:        true,
		HealthCheckEnabled: true,
	}
}

// FromCentralConfig converts central config.AuthorizationConfig to package Config
func FromCentralConfig(c config.AuthorizationConfig) Config {
	d := DefaultConfig()
	if c.CasbinModelPath != "" {
		d.CasbinModelPath = c.CasbinModelPath
	}
	d.EnableAudit = c.EnableAudit
	d.HealthCheckEnabled = c.HealthCheckEnabled
	return d
}
