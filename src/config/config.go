package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port           int
	BackendURL     string
	BackendTimeout time.Duration // 0 = no timeout
	PageSize       int
	AllowedOrigins string
	LogLevel       string
	LogFormat      string
	UIConfigPath   string

	// Page cache settings
	CacheTTL      time.Duration
	CacheSize     int
	RedisAddr     string // empty = in-process cache
	RedisPassword string
	RedisDB       int

	// Rate limit for create/update/delete requests, per client IP
	MutationRatePerMinute int
}

// LoadDotEnv loads variables from .env files into the environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnvInt("PORT", 8080),
		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8000"), "/"),
		BackendTimeout: getEnvDuration("BACKEND_TIMEOUT", 0),
		PageSize:       getEnvInt("PAGE_SIZE", 3),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		UIConfigPath:   getEnv("UI_CONFIG_PATH", ""),

		CacheTTL:      getEnvDuration("CACHE_TTL", 30*time.Second),
		CacheSize:     getEnvInt("CACHE_SIZE", 256),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MutationRatePerMinute: getEnvInt("MUTATION_RATE_PER_MINUTE", 60),
	}
}

// Validate checks values that would otherwise fail at first use
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid BACKEND_URL %q", c.BackendURL)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("invalid PAGE_SIZE %d", c.PageSize)
	}
	if c.BackendTimeout < 0 {
		return fmt.Errorf("invalid BACKEND_TIMEOUT %s", c.BackendTimeout)
	}
	return nil
}

// Origins returns the configured CORS origins
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// UseRedis reports whether the page cache lives in Redis
func (c *Config) UseRedis() bool {
	return c.RedisAddr != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") and plain seconds ("30")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
