package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	commoncfg "mindcare/common/config"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config mindcare HTTP API settings.
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	DBEnabled    bool                     `yaml:"db_enabled"`
	Database     commoncfg.DatabaseConfig `yaml:"database"`
	RedisEnabled bool                     `yaml:"redis_enabled"`
	Redis        commoncfg.RedisConfig    `yaml:"redis"`
	Log          struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Identity IdentityConfig `yaml:"identity"`
	Auth     AuthConfig     `yaml:"auth"`
	Practice PracticeConfig `yaml:"practice"`
}

// MQTTConfig session reminder publishing.
type MQTTConfig struct {
	Enabled              bool   `yaml:"enabled"`
	Topic                string `yaml:"topic"` // reminders go to <topic>/sessions/<id>
	commoncfg.MQTTConfig `yaml:",inline"`
}

// IdentityConfig hosted identity service. Empty URL selects the in-process provider.
type IdentityConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// PracticeConfig seeds the practitioner account on first start.
type PracticeConfig struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Plan     string `yaml:"plan"`
	Timezone string `yaml:"timezone"`
	// SeedPassword is registered with the in-process identity provider only.
	SeedPassword string `yaml:"seed_password"`
}

// Load reads .env (if present), then the environment, then CONFIG_FILE (if set).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Off by default: without a database the service keeps state in memory.
	cfg.DBEnabled = getEnv("DB_ENABLED", "false") == "true"
	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "mindcare",
		SSLMode:  "disable",
		MaxConns: parseInt(getEnv("DB_MAX_CONNS", "10"), 10),
		MaxIdle:  parseInt(getEnv("DB_MAX_IDLE", "5"), 5),
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.RedisEnabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis = commoncfg.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "mindcare-reminders"
	cfg.MQTT.QoS = 1
	cfg.MQTT.MQTTConfig.LoadFromEnv("MQTT")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "mindcare/reminders")

	cfg.Identity.URL = getEnv("IDENTITY_URL", "")
	cfg.Identity.APIKey = getEnv("IDENTITY_API_KEY", "")

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", "")
	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.Auth.TokenTTL = ttl

	cfg.Practice.Name = getEnv("PRACTICE_NAME", "Dr. João Silva")
	cfg.Practice.Email = getEnv("PRACTICE_EMAIL", "joao@mindcare.com")
	cfg.Practice.Plan = getEnv("DEFAULT_PLAN", "pro")
	cfg.Practice.Timezone = getEnv("DEFAULT_TIMEZONE", "America/Sao_Paulo")
	cfg.Practice.SeedPassword = getEnv("PRACTICE_PASSWORD", "")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}
	cfg.Practice.Email = strings.ToLower(strings.TrimSpace(cfg.Practice.Email))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MinJWTSecretLength is the shortest accepted HS256 signing secret, in bytes.
const MinJWTSecretLength = 32

func (c *Config) validate() error {
	if len(c.Auth.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be set to at least %d bytes", MinJWTSecretLength)
	}
	if c.Practice.Email == "" {
		return fmt.Errorf("PRACTICE_EMAIL must not be empty")
	}
	if c.Identity.URL == "" && c.Practice.SeedPassword == "" {
		return fmt.Errorf("PRACTICE_PASSWORD is required when IDENTITY_URL is unset")
	}
	return nil
}

// overlayFile applies a YAML document on top of the env-derived values.
// Keys absent from the file keep their current value.
func (c *Config) overlayFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
