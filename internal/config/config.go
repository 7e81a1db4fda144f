// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store scopes.
const (
	// ScopeClient gives every browser profile its own namespace, the way a
	// browser keeps its own local storage.
	ScopeClient = "client"
	// ScopeShared puts every client in one namespace.
	ScopeShared = "shared"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port            string  `mapstructure:"PORT"`
	Env             string  `mapstructure:"APP_ENV"`
	StoreDriver     string  `mapstructure:"STORE_DRIVER"`
	StoreScope      string  `mapstructure:"STORE_SCOPE"`
	StorePrefix     string  `mapstructure:"STORE_PREFIX"`
	RedisURL        string  `mapstructure:"REDIS_URL"`
	SQLitePath      string  `mapstructure:"SQLITE_PATH"`
	DatabaseURL     string  `mapstructure:"DATABASE_URL"`
	AllowedOrigins  string  `mapstructure:"ALLOWED_ORIGINS"`
	ProfileCookie   string  `mapstructure:"PROFILE_COOKIE"`
	DefaultTheme    string  `mapstructure:"DEFAULT_THEME"`
	TracingEnabled  bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampler  float64 `mapstructure:"TRACING_SAMPLER"`
}

// LoadConfig loads application configuration from .env, config.yml and
// environment variables, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("STORE_DRIVER", DriverMemory)
	viper.SetDefault("STORE_SCOPE", ScopeClient)
	viper.SetDefault("STORE_PREFIX", "joker")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("SQLITE_PATH", "jokerboard.db")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:8080")
	viper.SetDefault("PROFILE_COOKIE", "joker_profile")
	viper.SetDefault("DEFAULT_THEME", "dark")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) normalize() {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	c.StoreScope = strings.ToLower(strings.TrimSpace(c.StoreScope))
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
}

// IsProduction reports whether the app runs with a production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and consistent.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.ProfileCookie == "" {
		return errors.New("PROFILE_COOKIE is required")
	}

	switch c.StoreDriver {
	case DriverMemory:
		if c.IsProduction() {
			log.Println("WARNING: STORE_DRIVER is 'memory' in production. Data is lost on restart.")
		}
	case DriverRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis store driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite store driver")
		}
	case DriverPostgres:
		// An empty DATABASE_URL falls back to POSTGRES_* variables.
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.StoreScope {
	case ScopeClient, ScopeShared:
	default:
		return fmt.Errorf("unknown STORE_SCOPE %q", c.StoreScope)
	}

	if c.TracingSampler < 0 || c.TracingSampler > 1 {
		return errors.New("TRACING_SAMPLER must be between 0 and 1")
	}
	if c.IsProduction() && c.AllowedOrigins == "*" {
		log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
	}

	return nil
}

// Namespace returns the store key prefix for a browser profile. In shared
// scope every profile maps to the same namespace.
func (c *Config) Namespace(profileID string) string {
	prefix := c.StorePrefix
	if prefix == "" {
		prefix = "joker"
	}
	if c.StoreScope == ScopeShared {
		return prefix + ":shared"
	}
	return prefix + ":" + profileID
}
