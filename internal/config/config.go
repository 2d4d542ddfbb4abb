// Package config loads and validates application configuration.
//
// Values come from three layers, later layers winning: built-in defaults, an
// optional YAML file named by CONFIG_FILE, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `yaml:"port"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFormat is "json" (default) or "text" for colored console output.
	LogFormat string `yaml:"log_format"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `yaml:"cors_origins"`

	// StoreDriver selects the trip and user store: postgres, sqlite or memory.
	StoreDriver string `yaml:"store_driver"`

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string `yaml:"database_url"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `yaml:"sqlite_path"`

	// JWTSecret signs session tokens. Required.
	JWTSecret string `yaml:"jwt_secret"`

	// JWTAlgorithm is HS256 (default), HS384 or HS512.
	JWTAlgorithm string `yaml:"jwt_algorithm"`

	// AccessTokenTTL is how long a session token stays valid. Defaults to 7 days.
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`

	// Suggestion provider settings. An empty API key is allowed: every /ai
	// request then answers with its default payload.
	SuggestionAPIKey  string        `yaml:"suggestion_api_key"`
	SuggestionBaseURL string        `yaml:"suggestion_base_url"`
	SuggestionModel   string        `yaml:"suggestion_model"`
	SuggestionTimeout time.Duration `yaml:"suggestion_timeout"`

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// EnforceNestedOwnership requires trip ownership for city/day/activity
	// mutations and owner-or-public for copies.
	EnforceNestedOwnership bool `yaml:"enforce_nested_ownership"`

	// SeedDemoUser creates the demo account at startup.
	SeedDemoUser bool `yaml:"seed_demo_user"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		Port:      "8080",
		LogLevel:  "info",
		LogFormat: "json",
		CORSOrigins: []string{
			"http://localhost:5173",
			"http://localhost:3000",
			"http://127.0.0.1:5173",
		},
		StoreDriver:       DriverPostgres,
		SQLitePath:        "./data/globetrotter.db",
		JWTAlgorithm:      "HS256",
		AccessTokenTTL:    7 * 24 * time.Hour,
		SuggestionBaseURL: "https://generativelanguage.googleapis.com/v1beta/openai/",
		SuggestionModel:   "gemini-1.5-flash",
		SuggestionTimeout: 30 * time.Second,
		MaxBodyBytes:      1 << 20,
	}
}

// Load builds a Config from defaults, the CONFIG_FILE overlay and environment
// variables. Returns an error listing every required variable that is not set
// and every value that could not be parsed.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	var errs []error
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}
	cfg.StoreDriver = getEnv("STORE_DRIVER", cfg.StoreDriver)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTAlgorithm = getEnv("JWT_ALGORITHM", cfg.JWTAlgorithm)
	cfg.SuggestionAPIKey = getEnv("SUGGESTION_API_KEY", cfg.SuggestionAPIKey)
	cfg.SuggestionBaseURL = getEnv("SUGGESTION_BASE_URL", cfg.SuggestionBaseURL)
	cfg.SuggestionModel = getEnv("SUGGESTION_MODEL", cfg.SuggestionModel)
	cfg.AccessTokenTTL = getDuration("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL, &errs)
	cfg.SuggestionTimeout = getDuration("SUGGESTION_TIMEOUT", cfg.SuggestionTimeout, &errs)
	cfg.MaxBodyBytes = getInt64("MAX_BODY_BYTES", cfg.MaxBodyBytes, &errs)
	cfg.EnforceNestedOwnership = getBool("ENFORCE_NESTED_OWNERSHIP", cfg.EnforceNestedOwnership, &errs)
	cfg.SeedDemoUser = getBool("SEED_DEMO_USER", cfg.SeedDemoUser, &errs)

	var missing []string
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case DriverSQLite, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER: unknown driver %q (want postgres, sqlite or memory)", cfg.StoreDriver))
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT: unknown format %q (want json or text)", cfg.LogFormat))
	}
	if cfg.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES: must be positive"))
	}

	if len(missing) > 0 {
		errs = append([]error{fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))}, errs...)
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// loadFile overlays the YAML file at path onto cfg. Keys absent from the file
// keep their current value.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func getInt64(key string, fallback int64, errs *[]error) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getBool(key string, fallback bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
