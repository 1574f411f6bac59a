package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// setSecrets sets the values Load refuses to default.
func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PRACTICE_PASSWORD", "segredo1")
}

func TestLoad_DefaultValues(t *testing.T) {
	os.Clearenv()
	setSecrets(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.False(t, cfg.DBEnabled)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "mindcare", cfg.Database.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, "mindcare/reminders", cfg.MQTT.Topic)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "pro", cfg.Practice.Plan)
	assert.Equal(t, "America/Sao_Paulo", cfg.Practice.Timezone)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, "segredo1", cfg.Practice.SeedPassword)
}

func TestLoad_RequiresSecrets(t *testing.T) {
	os.Clearenv()
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "change-me")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", testSecret)
	_, err = Load()
	assert.ErrorContains(t, err, "PRACTICE_PASSWORD")

	// a hosted identity service owns the password
	t.Setenv("IDENTITY_URL", "https://auth.example")
	_, err = Load()
	assert.NoError(t, err)
}

func TestLoad_NormalisesPracticeEmail(t *testing.T) {
	os.Clearenv()
	setSecrets(t)
	t.Setenv("PRACTICE_EMAIL", "  Joao@MindCare.com ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "joao@mindcare.com", cfg.Practice.Email)
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Clearenv()
	setSecrets(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("MQTT_ENABLED", "true")
	t.Setenv("MQTT_BROKER", "tcp://mq:1883")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("DEFAULT_PLAN", "infinity")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, "pg", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "tcp://mq:1883", cfg.MQTT.Broker)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "infinity", cfg.Practice.Plan)
}

func TestLoad_InvalidTTL(t *testing.T) {
	os.Clearenv()
	t.Setenv("JWT_TTL", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ConfigFileOverlay(t *testing.T) {
	os.Clearenv()
	setSecrets(t)
	path := filepath.Join(t.TempDir(), "mindcare.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":7000"
database:
  host: db.example
practice:
  name: Dra. Ana
  plan: start
`), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.Equal(t, "db.example", cfg.Database.Host)
	// untouched keys keep env defaults
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "Dra. Ana", cfg.Practice.Name)
	assert.Equal(t, "start", cfg.Practice.Plan)
	assert.Equal(t, "joao@mindcare.com", cfg.Practice.Email)
}
