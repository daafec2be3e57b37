package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductionConfig() *Config {
	return &Config{
		Env:                "production",
		Port:               "8080",
		JWTSecret:          "secure-secret-at-least-32-chars-long",
		JWTTTLHours:        24,
		DBDriver:           "postgres",
		DBPassword:         "secure-password",
		DBSSLMode:          "require",
		GoogleClientID:     "client",
		GoogleClientSecret: "secret",
		TracingSampleRatio: 1,
	}
}

func TestConfig_ValidateProduction(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid", func(*Config) {}, false},
		{"default secret", func(c *Config) { c.JWTSecret = defaultJWTSecret }, true},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"sqlite driver", func(c *Config) { c.DBDriver = "sqlite" }, true},
		{"weak db password", func(c *Config) { c.DBPassword = "password" }, true},
		{"ssl disabled", func(c *Config) { c.DBSSLMode = "disable" }, true},
		{"missing google client", func(c *Config) { c.GoogleClientID = "" }, true},
		{"prod alias", func(c *Config) { c.Env = "prod" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validProductionConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateDevelopment(t *testing.T) {
	c := &Config{
		Env:         "development",
		Port:        "8080",
		JWTSecret:   defaultJWTSecret,
		JWTTTLHours: 24,
		DBDriver:    "sqlite",
	}
	assert.NoError(t, c.Validate())

	c.DBDriver = "mysql"
	assert.Error(t, c.Validate())

	c.DBDriver = "postgres"
	c.TracingSampleRatio = 2
	assert.Error(t, c.Validate())
}

func TestLoadConfig_EnvOverridesAndNormalization(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "  SQLite ")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("BASE_URL", "https://example.org/")
	t.Setenv("PORT", "9999")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "https://example.org", cfg.BaseURL)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 24*7, cfg.JWTTTLHours)
	assert.False(t, cfg.IsProduction())
}
