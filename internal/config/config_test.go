package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:          "5000",
		Env:           "development",
		DBDriver:      "sqlite",
		DBPath:        "test.sqlite",
		SessionSecret: "secure-secret-at-least-32-chars-long",
		SessionTTL:    time.Hour,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"Valid development config", func(c *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing session secret", func(c *Config) { c.SessionSecret = "" }, true},
		{"Zero session TTL", func(c *Config) { c.SessionTTL = 0 }, true},
		{"Unknown driver", func(c *Config) { c.DBDriver = "oracle" }, true},
		{"Sqlite without path", func(c *Config) { c.DBPath = "" }, true},
		{"Unknown schema mode", func(c *Config) { c.DBSchemaMode = "magic" }, true},
		{"Production with default secret", func(c *Config) {
			c.Env = "production"
			c.SessionSecret = defaultSessionSecret
		}, true},
		{"Production with short secret", func(c *Config) {
			c.Env = "prod"
			c.SessionSecret = "short"
		}, true},
		{"Production postgres with default password", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "postgres"
			c.DBPassword = "password"
		}, true},
		{"Production postgres with strong password", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "postgres"
			c.DBPassword = "s3cure-and-long"
			c.DBSSLMode = "require"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
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

func TestLoadConfig_DefaultsAndNormalization(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_DRIVER")
	defer os.Unsetenv("SESSION_TTL")
	defer viper.Reset()

	os.Setenv("APP_ENV", "test")
	os.Setenv("DB_DRIVER", "  SQLITE ")
	os.Setenv("SESSION_TTL", "2h")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "test", c.Env)
	assert.Equal(t, 2*time.Hour, c.SessionTTL)
	assert.Equal(t, "5000", c.Port)
	assert.False(t, c.IsProduction())
}

func TestLoadConfig_ProfileNameIsCaseInsensitive(t *testing.T) {
	defer viper.Reset()

	dir := t.TempDir()
	profile := "SESSION_SECRET: production-secret-with-more-than-32-chars\nDB_DRIVER: sqlite\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.production.yml"), []byte(profile), 0o600))
	t.Chdir(dir)
	t.Setenv("APP_ENV", " Production ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "production", c.Env)
	assert.True(t, c.IsProduction())
	assert.Equal(t, "production-secret-with-more-than-32-chars", c.SessionSecret)
}
