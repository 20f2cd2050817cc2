package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Database       DatabaseConfig       `mapstructure:"database"`
	CasbinDatabase DatabaseConfig       `mapstructure:"casbin_database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Server         ServerConfig         `mapstructure:"server"`
	Authentication AuthenticationConfig `mapstructure:"authentication"`
	Authorization  AuthorizationConfig  `mapstructure:"authorization"`
	Observability  ObservabilityConfig  `mapstructure:"observability"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Nats           NatsConfig           `mapstructure:"nats"`
	Push           PushConfig           `mapstructure:"push"`
	Staff          StaffConfig          `mapstructure:"staff"`
	Scheduler      SchedulerConfig      `mapstructure:"scheduler"`
	Webhook        WebhookConfig        `mapstructure:"webhook"`
	Events         EventsConfig         `mapstructure:"events"`
}

type NatsConfig struct {
	// URL is optional; an empty value disables the event worker.
	URL     string `mapstructure:"url" yaml:"url"`
	Subject string `mapstructure:"subject" yaml:"subject"`
}

type DatabaseConfig struct {
	Host     string                `mapstructure:"host"`
	Port     int                   `mapstructure:"port"`
	User     string                `mapstructure:"user"`
	Password string                `mapstructure:"password"`
	DBName   string                `mapstructure:"dbname"`
	SSLMode  string                `mapstructure:"sslmode"`
	Pool     DatabasePoolConfig    `mapstructure:"pool"`
	Logging  DatabaseLoggingConfig `mapstructure:"logging"`
}

type DatabasePoolConfig struct {
	MaxOpenConns       int `mapstructure:"max_open_conns"`
	MaxIdleConns       int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int `mapstructure:"conn_max_lifetime_minutes"`
}

type DatabaseLoggingConfig struct {
	Enabled              bool `mapstructure:"enabled"`
	SlowQueryThresholdMs int  `mapstructure:"slow_query_threshold_ms"`
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type ServerConfig struct {
	Port           int        `mapstructure:"port"`
	TimeoutSeconds int        `mapstructure:"timeout_seconds"`
	Environment    string     `mapstructure:"environment"`
	Databases      []string   `mapstructure:"databases"`
	CORS           CORSConfig `mapstructure:"cors"`
	RateLimit      RateLimit  `mapstructure:"rate_limit"`
}

type RateLimit struct {
	Enabled       bool `mapstructure:"enabled"`
	Max           int  `mapstructure:"max"`
	WindowSeconds int  `mapstructure:"window_seconds"`
}

func (r RateLimit) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAgeSeconds    int      `mapstructure:"max_age_seconds"`
}

type AuthenticationConfig struct {
	Paseto PasetoConfig `mapstructure:"paseto"`
}

type PasetoConfig struct {
	Mode             string `mapstructure:"mode"`
	LocalKeyHex      string `mapstructure:"local_key_hex"`
	SecretKeyHex     string `mapstructure:"secret_key_hex"`
	PublicKeyHex     string `mapstructure:"public_key_hex"`
	Issuer           string `mapstructure:"issuer"`
	Audience         string `mapstructure:"audience"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
	RefreshTTLDays   int    `mapstructure:"refresh_ttl_days"`
}

type AuthorizationConfig struct {
	CasbinModelPath    string `mapstructure:"casbin_model_path"`
	EnableAudit        bool   `mapstructure:"enable_audit"`
	HealthCheckEnabled bool   `mapstructure:"health_check_enabled"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`        // e.g. "logs/diario.log"
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // rotate after N MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // e.g. "http://localhost:3100"
	TenantID string `mapstructure:"tenant_id"`
	Username string `mapstructure:"username"` // for Grafana Cloud basic auth
	Password string `mapstructure:"password"`
}

// PushConfig carries the application-server identity and delivery tuning.
type PushConfig struct {
	VAPIDPublicKey     string `mapstructure:"vapid_public_key"`
	VAPIDPrivateKey    string `mapstructure:"vapid_private_key"`
	Subscriber         string `mapstructure:"subscriber"`
	TTLSeconds         int    `mapstructure:"ttl_seconds"`
	Urgency            string `mapstructure:"urgency"`
	Workers            int    `mapstructure:"workers"`
	SendTimeoutSeconds int    `mapstructure:"send_timeout_seconds"`
	Icon               string `mapstructure:"icon"`
	Badge              string `mapstructure:"badge"`
}

func (p PushConfig) SendTimeout() time.Duration {
	if p.SendTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(p.SendTimeoutSeconds) * time.Second
}

type StaffConfig struct {
	SuperAdminEmail string             `mapstructure:"super_admin_email"`
	LegacySeparator string             `mapstructure:"legacy_separator"`
	Directory       []StaffEntryConfig `mapstructure:"directory"`
}

type StaffEntryConfig struct {
	Email       string `mapstructure:"email"`
	DisplayName string `mapstructure:"display_name"`
	LegacyName  string `mapstructure:"legacy_name"`
}

type SchedulerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Timezone     string `mapstructure:"timezone"`
	AbsenceSpec  string `mapstructure:"absence_spec"`
	ReminderSpec string `mapstructure:"reminder_spec"`
}

// Location falls back to UTC when the timezone is empty or unknown.
func (s SchedulerConfig) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type WebhookConfig struct {
	Secret string `mapstructure:"secret"`
}

type EventsConfig struct {
	AsyncTimeoutSeconds int `mapstructure:"async_timeout_seconds"`
}

func (e EventsConfig) AsyncTimeout() time.Duration {
	if e.AsyncTimeoutSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(e.AsyncTimeoutSeconds) * time.Second
}

var (
	ErrMissingVAPIDKeys     = errors.New("push.vapid_public_key and push.vapid_private_key are required")
	ErrMissingWebhookSecret = errors.New("webhook.secret is required")
	ErrMissingSuperAdmin    = errors.New("staff.super_admin_email is required")
)

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Push.VAPIDPublicKey) == "" || strings.TrimSpace(c.Push.VAPIDPrivateKey) == "" {
		errs = append(errs, ErrMissingVAPIDKeys)
	}
	if strings.TrimSpace(c.Webhook.Secret) == "" {
		errs = append(errs, ErrMissingWebhookSecret)
	}
	if strings.TrimSpace(c.Staff.SuperAdminEmail) == "" {
		errs = append(errs, ErrMissingSuperAdmin)
	}
	for i, e := range c.Staff.Directory {
		if strings.TrimSpace(e.Email) == "" {
			errs = append(errs, fmt.Errorf("staff.directory[%d]: email is required", i))
		}
	}
	if c.Scheduler.Timezone != "" {
		if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("scheduler.timezone: %w", err))
		}
	}

	return errors.Join(errs...)
}
