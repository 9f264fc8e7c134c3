package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/benvon/clinic-edge/internal/validation"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxRequestSize is the default maximum request body size (1MB)
	DefaultMaxRequestSize int64 = 1 << 20
	// FallbackClientURL is used when CLIENT_URL is not configured
	FallbackClientURL = "http://localhost:3000"
)

// DefaultAllowedOrigins are the browser origins allowed to make credentialed
// cross-origin requests when CORS_ALLOWED_ORIGINS is not set.
func DefaultAllowedOrigins() []string {
	return []string{
		"https://doctor-appfrontend.vercel.app",
		"http://localhost:3000",
	}
}

// Config holds application configuration
type Config struct {
	ServerPort      string        `yaml:"server_port" validate:"required,numeric"`
	ClientURL       string        `yaml:"client_url" validate:"required,url"`
	AllowedOrigins  []string      `yaml:"allowed_origins" validate:"required,min=1,dive,origin"`
	PublicDir       string        `yaml:"public_dir" validate:"required"`
	OpenAPIPath     string        `yaml:"openapi_path"`
	MaxRequestSize  int64         `yaml:"max_request_size" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" validate:"gte=0"`
	EnableHSTS      bool          `yaml:"enable_hsts"`
	ServerDebugMode bool          `yaml:"server_debug_mode"`
	LogFormat       string        `yaml:"log_format" validate:"oneof=json console"`
	DatabaseURL     string        `yaml:"database_url" validate:"omitempty,url"`
	RedisURL        string        `yaml:"redis_url" validate:"omitempty,url"`
	RateLimit       string        `yaml:"rate_limit" validate:"omitempty,ratelimit_rate"`
	OTELEnabled     bool          `yaml:"otel_enabled"`
	OTELEndpoint    string        `yaml:"otel_endpoint"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() *Config {
	return &Config{
		ServerPort:     "8080",
		ClientURL:      FallbackClientURL,
		AllowedOrigins: DefaultAllowedOrigins(),
		PublicDir:      "public",
		OpenAPIPath:    "api/openapi/openapi.yaml",
		MaxRequestSize: DefaultMaxRequestSize,
		LogFormat:      "json",
	}
}

// Load loads configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables, in that order of precedence.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	c.AllowedOrigins = dedupeOrigins(c.AllowedOrigins)
	return nil
}

func (c *Config) applyEnv() {
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.ClientURL = getEnv("CLIENT_URL", c.ClientURL)
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		c.AllowedOrigins = ParseOrigins(raw)
	}
	c.PublicDir = getEnv("PUBLIC_DIR", c.PublicDir)
	c.OpenAPIPath = getEnv("OPENAPI_PATH", c.OpenAPIPath)
	c.MaxRequestSize = getEnvInt64("MAX_REQUEST_SIZE", c.MaxRequestSize)
	c.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.EnableHSTS = getEnvBool("ENABLE_HSTS", c.EnableHSTS)
	c.ServerDebugMode = getEnvBool("SERVER_DEBUG_MODE", c.ServerDebugMode)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.RateLimit = getEnv("RATE_LIMIT", c.RateLimit)
	c.OTELEnabled = getEnvBool("OTEL_ENABLED", c.OTELEnabled)
	c.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTELEndpoint)
}

// Validate checks field constraints and reports the first failing field by its
// configuration key.
func (c *Config) Validate() error {
	err := validation.Validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid configuration: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("invalid configuration: %w", err)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

// ParseOrigins splits a comma-separated origin list, trimming whitespace and
// dropping empty entries and duplicates while preserving order.
func ParseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	return dedupeOrigins(strings.Split(raw, ","))
}

func dedupeOrigins(in []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range in {
		s := strings.TrimSpace(p)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
