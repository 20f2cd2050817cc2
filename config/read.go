package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Defimaso/Diario362-sub001/pkg/constants"
)

func ReadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	// Allow env vars to override config values.
	// e.g. DIARIO_DATABASE_HOST overrides database.host
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The config file is optional in container deployments.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if os.Getenv(constants.EnvPrefix+"_DATABASE_HOST") == "" {
			return nil, fmt.Errorf("config file not found in %q and %s_DATABASE_HOST is unset", configPath, constants.EnvPrefix)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.cors.enabled", true)
	v.SetDefault("server.cors.allow_origins", []string{"*"})
	v.SetDefault("server.cors.allow_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors.allow_headers", []string{"authorization", "x-client-info", "apikey", "content-type"})
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.max", 20)
	v.SetDefault("server.rate_limit.window_seconds", 30)

	v.SetDefault("push.subscriber", "mailto:noreply@diario362.it")
	v.SetDefault("push.ttl_seconds", 86400)
	v.SetDefault("push.urgency", "normal")
	v.SetDefault("push.workers", 8)
	v.SetDefault("push.send_timeout_seconds", 10)
	v.SetDefault("push.icon", "/icons/icon-192x192.png")
	v.SetDefault("push.badge", "/icons/badge-72x72.png")

	v.SetDefault("staff.legacy_separator", "_")

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.timezone", "Europe/Rome")
	v.SetDefault("scheduler.absence_spec", "0 9 * * *")
	v.SetDefault("scheduler.reminder_spec", "0 20 * * *")

	v.SetDefault("events.async_timeout_seconds", 60)

	v.SetDefault("nats.subject", "diario.event.*")

	v.SetDefault("authorization.casbin_model_path", "config/casbin_model.conf")
	v.SetDefault("authentication.paseto.mode", "local")
	v.SetDefault("authentication.paseto.issuer", "diario362")
	v.SetDefault("authentication.paseto.audience", "diario-notify")
	v.SetDefault("authentication.paseto.access_ttl_minutes", 15)

	v.SetDefault("observability.service_name", constants.ServiceName)
	v.SetDefault("observability.metrics.path", "/metrics")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
