package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	// Clear any environment variables that might affect the test
	os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err, "Loading default config should not error")
	require.NotNil(t, cfg, "Config should not be nil")

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)

	// Database defaults
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "postgres", cfg.DB.User)
	assert.Equal(t, "postgres", cfg.DB.Password)
	assert.Equal(t, "registration_service", cfg.DB.Name)
	assert.Equal(t, "disable", cfg.DB.SSLMode)

	// S3 defaults
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Equal(t, "registration-audit", cfg.S3.Bucket)
	assert.Equal(t, "", cfg.S3.Endpoint)
	assert.False(t, cfg.S3.UsePathStyle)
	assert.False(t, cfg.Audit.Enabled)

	// JWT defaults
	assert.Equal(t, "", cfg.JWT.Secret)
	assert.Equal(t, "registration-service", cfg.JWT.Issuer)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)

	assert.Equal(t, 10, cfg.Bcrypt.Cost)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	os.Clearenv()

	envVars := map[string]string{
		"ENVIRONMENT":          "production",
		"PORT":                 "9090",
		"DB_HOST":              "db.example.com",
		"DB_PORT":              "5433",
		"DB_USER":              "dbuser",
		"DB_PASSWORD":          "dbpass",
		"DB_NAME":              "users",
		"DB_SSLMODE":           "require",
		"S3_REGION":            "eu-west-1",
		"S3_BUCKET":            "audit",
		"S3_ACCESS_KEY_ID":     "access123",
		"S3_SECRET_ACCESS_KEY": "secret456",
		"S3_ENDPOINT":          "https://minio.example.com",
		"S3_USE_PATH_STYLE":    "true",
		"AUDIT_ENABLED":        "true",
		"JWT_SECRET":           "supersecret",
		"JWT_ISSUER":           "example",
		"JWT_TTL":              "15m",
		"BCRYPT_COST":          "12",
	}

	for k, v := range envVars {
		if err := os.Setenv(k, v); err != nil {
			t.Fatalf("Failed to set environment variable %s: %v", k, err)
		}
	}
	defer os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err, "Loading config with environment variables should not error")
	require.NotNil(t, cfg)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.Port)

	assert.Equal(t, "db.example.com", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
	assert.Equal(t, "dbuser", cfg.DB.User)
	assert.Equal(t, "dbpass", cfg.DB.Password)
	assert.Equal(t, "users", cfg.DB.Name)
	assert.Equal(t, "require", cfg.DB.SSLMode)

	assert.Equal(t, "eu-west-1", cfg.S3.Region)
	assert.Equal(t, "audit", cfg.S3.Bucket)
	assert.Equal(t, "access123", cfg.S3.AccessKeyID)
	assert.Equal(t, "secret456", cfg.S3.SecretAccessKey)
	assert.Equal(t, "https://minio.example.com", cfg.S3.Endpoint)
	assert.True(t, cfg.S3.UsePathStyle)
	assert.True(t, cfg.Audit.Enabled)

	assert.Equal(t, "supersecret", cfg.JWT.Secret)
	assert.Equal(t, "example", cfg.JWT.Issuer)
	assert.Equal(t, 15*time.Minute, cfg.JWT.TTL)

	assert.Equal(t, 12, cfg.Bcrypt.Cost)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non-numeric port", map[string]string{"PORT": "invalid"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"bcrypt cost too low", map[string]string{"BCRYPT_COST": "1"}},
		{"bad ttl", map[string]string{"JWT_TTL": "soon"}},
		{"negative ttl", map[string]string{"JWT_TTL": "-1m"}},
		{"production without secret", map[string]string{"ENVIRONMENT": "production"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			defer os.Clearenv()

			for k, v := range tt.env {
				require.NoError(t, os.Setenv(k, v))
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
