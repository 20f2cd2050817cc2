package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
database:
  host: localhost
  dbname: diario
push:
  vapid_public_key: pub
  vapid_private_key: priv
webhook:
  secret: hook
staff:
  super_admin_email: owner@diario362.it
  directory:
    - email: coach@diario362.it
      display_name: Coach Uno
      legacy_name: coach
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestReadConfigDefaults(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "_", cfg.Staff.LegacySeparator)
	assert.Equal(t, "diario.event.*", cfg.Nats.Subject)
	assert.Equal(t, 30*time.Second, cfg.Server.RateLimit.Window())
	assert.Equal(t, time.Minute, cfg.Events.AsyncTimeout())
	assert.Equal(t, "Europe/Rome", cfg.Scheduler.Location().String())
	require.Len(t, cfg.Staff.Directory, 1)
	assert.Equal(t, "coach", cfg.Staff.Directory[0].LegacyName)
}

func TestReadConfigEnvOverride(t *testing.T) {
	t.Setenv("DIARIO_WEBHOOK_SECRET", "from-env")
	t.Setenv("DIARIO_SERVER_PORT", "9090")

	cfg, err := ReadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Webhook.Secret)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	var cfg Config
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingVAPIDKeys))
	assert.True(t, errors.Is(err, ErrMissingWebhookSecret))
	assert.True(t, errors.Is(err, ErrMissingSuperAdmin))

	cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey = "pub", "priv"
	cfg.Webhook.Secret = "hook"
	cfg.Staff.SuperAdminEmail = "owner@diario362.it"
	cfg.Scheduler.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())

	cfg.Scheduler.Timezone = ""
	assert.NoError(t, cfg.Validate())
}

func TestSchedulerLocationFallback(t *testing.T) {
	assert.Equal(t, time.UTC, SchedulerConfig{}.Location())
	assert.Equal(t, time.UTC, SchedulerConfig{Timezone: "Nowhere/Land"}.Location())
}
