package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all configuration for the service
type Config struct {
	// Core service configuration
	Environment string `mapstructure:"ENVIRONMENT"`
	Port        int    `mapstructure:"PORT"`

	// Database configuration
	DB struct {
		Host     string `mapstructure:"DB_HOST"`
		Port     int    `mapstructure:"DB_PORT"`
		User     string `mapstructure:"DB_USER"`
		Password string `mapstructure:"DB_PASSWORD"`
		Name     string `mapstructure:"DB_NAME"`
		SSLMode  string `mapstructure:"DB_SSLMODE"`
	} `mapstructure:",squash"`

	// S3 audit archive configuration
	S3 struct {
		Region          string `mapstructure:"S3_REGION"`
		Bucket          string `mapstructure:"S3_BUCKET"`
		AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`
		Endpoint        string `mapstructure:"S3_ENDPOINT"`
		UsePathStyle    bool   `mapstructure:"S3_USE_PATH_STYLE"`
	} `mapstructure:",squash"`

	// Audit configuration
	Audit struct {
		Enabled bool `mapstructure:"AUDIT_ENABLED"`
	} `mapstructure:",squash"`

	// JWT configuration
	JWT struct {
		Secret string        `mapstructure:"JWT_SECRET"`
		Issuer string        `mapstructure:"JWT_ISSUER"`
		TTL    time.Duration `mapstructure:"JWT_TTL"`
	} `mapstructure:",squash"`

	// Password hashing configuration
	Bcrypt struct {
		Cost int `mapstructure:"BCRYPT_COST"`
	} `mapstructure:",squash"`
}

// Load reads the configuration from environment variables and returns a Config struct
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Optional: Read from config file if specified
	configFile := v.GetString("CONFIG_FILE")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal config into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// validate checks values that viper cannot reject on its own
func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.Bcrypt.Cost < bcrypt.MinCost || c.Bcrypt.Cost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.Bcrypt.Cost)
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT TTL must be positive, got %s", c.JWT.TTL)
	}
	if c.Environment == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required in production")
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Core service defaults
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", 8080)

	// Database defaults
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "registration_service")
	v.SetDefault("DB_SSLMODE", "disable")

	// S3 defaults
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_BUCKET", "registration-audit")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_USE_PATH_STYLE", false)

	// Audit defaults
	v.SetDefault("AUDIT_ENABLED", false)

	// JWT defaults
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "registration-service")
	v.SetDefault("JWT_TTL", "24h")

	// Password hashing defaults
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
}
