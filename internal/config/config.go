// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	Env            string `mapstructure:"APP_ENV"`

	// AdminPassword, when set, lets bootstrap create the reserved admin
	// account if it does not exist yet.
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	// SeedDemoData makes startup populate demo accounts and posts.
	SeedDemoData bool `mapstructure:"SEED_DEMO_DATA"`

	// Object storage (post images, avatars).
	S3Region     string `mapstructure:"S3_REGION"`
	S3Endpoint   string `mapstructure:"S3_ENDPOINT"`
	S3PublicBase string `mapstructure:"S3_PUBLIC_BASE"`

	// Mock analyzer latency; kept configurable so tests do not wait.
	AnalysisDelayMS int `mapstructure:"ANALYSIS_DELAY_MS"`

	// Session recovery / profile binder tuning.
	SessionTimeoutMS     int `mapstructure:"SESSION_TIMEOUT_MS"`
	ProfileFetchAttempts int `mapstructure:"PROFILE_FETCH_ATTEMPTS"`
	ProfileFetchDelayMS  int `mapstructure:"PROFILE_FETCH_DELAY_MS"`

	TracingStdoutExporter bool   `mapstructure:"TRACING_STDOUT"`
	OTLPEndpoint          string `mapstructure:"OTLP_ENDPOINT"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if errors.As(err, &notFoundErr) {
			log.Println("Config file not found; using environment variables and defaults")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Set default values for development
	viper.SetDefault("PORT", "8420")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "modam")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("S3_REGION", "ap-northeast-2")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("S3_PUBLIC_BASE", "")
	viper.SetDefault("ANALYSIS_DELAY_MS", 3500)
	viper.SetDefault("SESSION_TIMEOUT_MS", 5000)
	viper.SetDefault("PROFILE_FETCH_ATTEMPTS", 3)
	viper.SetDefault("PROFILE_FETCH_DELAY_MS", 300)
	viper.SetDefault("TRACING_STDOUT", false)
	viper.SetDefault("OTLP_ENDPOINT", "")
	viper.SetDefault("ADMIN_PASSWORD", "")
	viper.SetDefault("SEED_DEMO_DATA", false)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.ProfileFetchAttempts < 1 {
		return errors.New("PROFILE_FETCH_ATTEMPTS must be at least 1")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	}

	return nil
}

// AnalysisDelay returns the mock analyzer latency as a duration.
func (c *Config) AnalysisDelay() time.Duration {
	return time.Duration(c.AnalysisDelayMS) * time.Millisecond
}

// SessionTimeout bounds the initial session-recovery check.
func (c *Config) SessionTimeout() time.Duration {
	return time.Duration(c.SessionTimeoutMS) * time.Millisecond
}

// ProfileFetchDelay is the fixed inter-attempt delay for profile fetches.
func (c *Config) ProfileFetchDelay() time.Duration {
	return time.Duration(c.ProfileFetchDelayMS) * time.Millisecond
}
