package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig          `envconfig:"APP"`
	Postgres     PostgresConfig     `envconfig:"POSTGRES"`
	Redis        RedisConfig        `envconfig:"REDIS"`
	Logger       LoggerConfig       `envconfig:"LOG"`
	Auth         AuthConfig         `envconfig:"AUTH"`
	Email        EmailConfig        `envconfig:"EMAIL"`
	Notification NotificationConfig `envconfig:"NOTIFY"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name               string        `envconfig:"NAME" default:"parent-child-service"`
	Env                string        `envconfig:"ENV" default:"development"`
	Host               string        `envconfig:"HOST" default:"0.0.0.0"`
	Port               string        `envconfig:"PORT" default:"8080"`
	Version            string        `envconfig:"VERSION" default:"dev"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	CORSAllowedOrigins string        `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string        `envconfig:"DSN"`
	MaxConns        int32         `envconfig:"MAX_CONNS" default:"10"`
	MinConns        int32         `envconfig:"MIN_CONNS" default:"2"`
	RunMigrations   bool          `envconfig:"RUN_MIGRATIONS" default:"true"`
	ConnMaxIdleTime time.Duration `envconfig:"CONN_MAX_IDLE" default:"30s"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFE" default:"5m"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `envconfig:"ADDR" default:"127.0.0.1:6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `envconfig:"LEVEL" default:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	SecretKey          string        `envconfig:"SECRET_KEY"`
	AccessTokenTTL     time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"30m"`
	RefreshTokenTTL    time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"720h"`
	ActivationTokenTTL time.Duration `envconfig:"ACTIVATION_TOKEN_TTL" default:"24h"`
	BcryptCost         int           `envconfig:"BCRYPT_COST" default:"12"`
}

// EmailConfig holds SMTP settings for outgoing mail.
type EmailConfig struct {
	Host     string `envconfig:"HOST"`
	Port     int    `envconfig:"PORT" default:"587"`
	Username string `envconfig:"HOST_USER"`
	Password string `envconfig:"HOST_PASSWORD"`
	From     string `envconfig:"FROM" default:"info@parentchildmanagement.com"`
}

// NotificationConfig controls background notification delivery.
type NotificationConfig struct {
	AdminDelay   time.Duration `envconfig:"ADMIN_DELAY" default:"300s"`
	SendAttempts int           `envconfig:"SEND_ATTEMPTS" default:"3"`
	JobTimeout   time.Duration `envconfig:"JOB_TIMEOUT" default:"1m"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.SecretKey) == "" {
		if c.App.Env == "production" {
			return errors.New("AUTH_SECRET_KEY is required in production")
		}
		c.Auth.SecretKey = "dev-secret"
	}
	if c.Notification.SendAttempts <= 0 {
		c.Notification.SendAttempts = 1
	}
	if c.Notification.AdminDelay < 0 {
		return fmt.Errorf("NOTIFY_ADMIN_DELAY must not be negative, got %s", c.Notification.AdminDelay)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// AllowedOrigins returns the CORS origins as a comma separated list without blanks.
func (a AppConfig) AllowedOrigins() string {
	if strings.TrimSpace(a.CORSAllowedOrigins) == "" {
		return "*"
	}
	return strings.ReplaceAll(a.CORSAllowedOrigins, " ", "")
}
