package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:                 "8420",
			JWTSecret:            "secure-secret-at-least-32-chars-long",
			DBPassword:           "secure-password",
			DBSSLMode:            "require",
			Env:                  "development",
			ProfileFetchAttempts: 3,
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid development config", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"zero profile fetch attempts", func(c *Config) { c.ProfileFetchAttempts = 0 }, true},
		{"production with default JWT secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "your-secret-key-change-in-production"
		}, true},
		{"production with short JWT secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "short"
		}, true},
		{"production with default DB password", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}, true},
		{"valid production config", func(c *Config) { c.Env = "production" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
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

func TestLoadConfig_EnvOverridesAndDefaults(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("ANALYSIS_DELAY_MS")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")
	os.Setenv("ANALYSIS_DELAY_MS", "50")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, c.AnalysisDelay())
	// Untouched values fall back to defaults.
	assert.Equal(t, 3, c.ProfileFetchAttempts)
	assert.Equal(t, 300*time.Millisecond, c.ProfileFetchDelay())
	assert.Equal(t, 5*time.Second, c.SessionTimeout())
}
