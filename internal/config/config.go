package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver      string `mapstructure:"DB_DRIVER" validate:"required,oneof=postgres sqlite"`
	DBDSN         string `mapstructure:"DB_DSN" validate:"required"`
	ServerPort    string `mapstructure:"SERVER_PORT" validate:"required,numeric"`
	SessionSecret string `mapstructure:"SESSION_SECRET" validate:"required,min=16"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME" validate:"required"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD" validate:"required,min=8"`
	AdminEmail    string `mapstructure:"ADMIN_EMAIL" validate:"required,email"`

	MediaRoot string `mapstructure:"MEDIA_ROOT" validate:"required"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`
	GinMode   string `mapstructure:"GIN_MODE" validate:"required,oneof=debug release test"`

	AuditRetentionDays int `mapstructure:"AUDIT_RETENTION_DAYS" validate:"gte=1"`
	AuthRatePerMinute  int `mapstructure:"AUTH_RATE_PER_MINUTE" validate:"gte=1,lte=10000"`
	MaxUploadMB        int `mapstructure:"MAX_UPLOAD_MB" validate:"gte=1,lte=1024"`
}

var keys = []string{
	"DB_DRIVER",
	"DB_DSN",
	"SERVER_PORT",
	"SESSION_SECRET",
	"ADMIN_USERNAME",
	"ADMIN_PASSWORD",
	"ADMIN_EMAIL",
	"MEDIA_ROOT",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"GIN_MODE",
	"AUDIT_RETENTION_DAYS",
	"AUTH_RATE_PER_MINUTE",
	"MAX_UPLOAD_MB",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "Admin12345")
	v.SetDefault("ADMIN_EMAIL", "admin@design.local")
	v.SetDefault("MEDIA_ROOT", "./media")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("AUDIT_RETENTION_DAYS", 90)
	v.SetDefault("AUTH_RATE_PER_MINUTE", 20)
	v.SetDefault("MAX_UPLOAD_MB", 32)

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &c, nil
}

func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return c
}
