package constants

const (
	ConfigName   = "config"
	ConfigFormat = "yaml"

	// EnvPrefix is prepended to every env override, e.g. DIARIO_DATABASE_HOST.
	EnvPrefix = "DIARIO"

	ServiceName = "diario"
)
