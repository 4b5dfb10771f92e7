// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "ruya-dev-secret-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port                     string  `mapstructure:"PORT" yaml:"port"`
	Env                      string  `mapstructure:"APP_ENV" yaml:"app_env"`
	DBHost                   string  `mapstructure:"DB_HOST" yaml:"db_host"`
	DBPort                   string  `mapstructure:"DB_PORT" yaml:"db_port"`
	DBUser                   string  `mapstructure:"DB_USER" yaml:"db_user"`
	DBPassword               string  `mapstructure:"DB_PASSWORD" yaml:"-"`
	DBName                   string  `mapstructure:"DB_NAME" yaml:"db_name"`
	DBSSLMode                string  `mapstructure:"DB_SSLMODE" yaml:"db_sslmode"`
	DBMaxOpenConns           int     `mapstructure:"DB_MAX_OPEN_CONNS" yaml:"db_max_open_conns"`
	DBMaxIdleConns           int     `mapstructure:"DB_MAX_IDLE_CONNS" yaml:"db_max_idle_conns"`
	DBConnMaxLifetimeMinutes int     `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES" yaml:"db_conn_max_lifetime_minutes"`
	RedisURL                 string  `mapstructure:"REDIS_URL" yaml:"redis_url"`
	JWTSecret                string  `mapstructure:"JWT_SECRET" yaml:"-"`
	JWTIssuer                string  `mapstructure:"JWT_ISSUER" yaml:"jwt_issuer"`
	JWTAudience              string  `mapstructure:"JWT_AUDIENCE" yaml:"jwt_audience"`
	AllowedOrigins           string  `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	TracingEnabled           bool    `mapstructure:"TRACING_ENABLED" yaml:"tracing_enabled"`
	TracingExporter          string  `mapstructure:"TRACING_EXPORTER" yaml:"tracing_exporter"`
	OTLPEndpoint             string  `mapstructure:"OTLP_ENDPOINT" yaml:"otlp_endpoint"`
	TracingSampleRatio       float64 `mapstructure:"TRACING_SAMPLE_RATIO" yaml:"tracing_sample_ratio"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional; env and defaults are enough to boot.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults()

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

func setDefaults() {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "ruya")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "ruya")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", "ruya-api")
	viper.SetDefault("JWT_AUDIENCE", "ruya-client")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.TracingExporter = strings.ToLower(strings.TrimSpace(c.TracingExporter))
}

// IsProduction reports whether the config targets a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Redacted returns a copy that is safe to print. Credentials embedded in
// URL-valued settings are masked; the tagged secrets are never marshaled.
func (c *Config) Redacted() *Config {
	out := *c
	out.DBPassword = ""
	out.JWTSecret = ""
	out.RedisURL = redactURL(c.RedisURL)
	out.OTLPEndpoint = redactURL(c.OTLPEndpoint)
	return &out
}

const redactedUserinfo = "xxxxx"

func redactURL(raw string) string {
	if !strings.Contains(raw, "://") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable url>"
	}
	if u.User == nil {
		return raw
	}
	u.User = url.User(redactedUserinfo)
	return u.String()
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTIssuer == "" || c.JWTAudience == "" {
		return errors.New("JWT_ISSUER and JWT_AUDIENCE are required")
	}
	if c.DBMaxOpenConns < 0 || c.DBMaxIdleConns < 0 {
		return errors.New("DB pool sizes must not be negative")
	}
	if c.DBMaxIdleConns > c.DBMaxOpenConns && c.DBMaxOpenConns > 0 {
		return errors.New("DB_MAX_IDLE_CONNS must not exceed DB_MAX_OPEN_CONNS")
	}
	if c.DBConnMaxLifetimeMinutes < 1 {
		return errors.New("DB_CONN_MAX_LIFETIME_MINUTES must be at least 1")
	}
	if c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1 {
		return errors.New("TRACING_SAMPLE_RATIO must be within [0, 1]")
	}
	switch c.TracingExporter {
	case "", "stdout", "otlp":
	default:
		return fmt.Errorf("unknown TRACING_EXPORTER %q", c.TracingExporter)
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must enable TLS in production")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
