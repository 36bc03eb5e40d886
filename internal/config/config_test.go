package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.True(t, cfg.MigrateOnStart)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_EXPIRATION", "2h")
	t.Setenv("SNS_TOPIC_ARN", "arn:aws:sns:us-east-1:123456789012:stylane")
	t.Setenv("MIGRATE_ON_START", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:stylane", cfg.SNSTopicARN)
	assert.False(t, cfg.MigrateOnStart)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Env:           "development",
			JWTSecret:     defaultJWTSecret,
			JWTExpiration: time.Hour,
			StorageDriver: "local",
		}
	}

	t.Run("production requires a real secret", func(t *testing.T) {
		cfg := base()
		cfg.Env = "production"
		assert.Error(t, cfg.Validate())

		cfg.JWTSecret = "s3cr3t"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("s3 driver requires a bucket", func(t *testing.T) {
		cfg := base()
		cfg.StorageDriver = "s3"
		assert.Error(t, cfg.Validate())

		cfg.S3Bucket = "product-images"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown storage driver", func(t *testing.T) {
		cfg := base()
		cfg.StorageDriver = "ftp"
		assert.Error(t, cfg.Validate())
	})
}
