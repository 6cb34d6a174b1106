// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// devSecretKey is used when SECRET_KEY is unset outside production.
const devSecretKey = "pagesmith-development-secret-change-me"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Storage backend for pages and settings
	StorageBackend string // file, sqlite, postgres, mysql, valkey, mongo, memory
	DataDir        string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	MySQLDSN string
	MongoURI string
	MongoDB  string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// AI provider settings
	AIProvider string // "openai", "gemini", "claude", "mistral"
	OpenAI     Provider
	Gemini     Provider
	Claude     Provider
	Mistral    Provider

	// S3-compatible object storage
	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3BucketPublic  string
	S3BucketPrivate string
	S3PublicURL     string

	// Security
	SecretKey          string // seals the stored API key
	EditorPasswordHash string // bcrypt; empty disables editor login
	EditorTOTPSecret   string // base32; empty disables TOTP

	// AutosaveInterval overrides the stored autosave setting when non-zero.
	AutosaveInterval time.Duration
}

// Provider holds the environment settings of one AI provider.
type Provider struct {
	APIKey     string
	Model      string
	ImageModel string
	BaseURL    string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is read first when present; real environment variables take precedence.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		StorageBackend: envOrDefault("STORAGE_BACKEND", "sqlite"),
		DataDir:        envOrDefault("DATA_DIR", "./data"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "pagesmith"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "pagesmith"),

		MySQLDSN: envOrDefault("MYSQL_DSN", "pagesmith:changeme@tcp(localhost:3306)/pagesmith"),
		MongoURI: envOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  envOrDefault("MONGO_DB", "pagesmith"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider: envOrDefault("AI_PROVIDER", "openai"),
		OpenAI:     providerFromEnv("OPENAI"),
		Gemini:     providerFromEnv("GEMINI"),
		Claude:     providerFromEnv("CLAUDE"),
		Mistral:    providerFromEnv("MISTRAL"),

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3BucketPublic:  os.Getenv("S3_BUCKET_PUBLIC"),
		S3BucketPrivate: os.Getenv("S3_BUCKET_PRIVATE"),
		S3PublicURL:     os.Getenv("S3_PUBLIC_URL"),

		SecretKey:          os.Getenv("SECRET_KEY"),
		EditorPasswordHash: os.Getenv("EDITOR_PASSWORD_HASH"),
		EditorTOTPSecret:   os.Getenv("EDITOR_TOTP_SECRET"),
	}

	db, err := strconv.Atoi(envOrDefault("VALKEY_DB", "0"))
	if err != nil || db < 0 {
		return nil, fmt.Errorf("VALKEY_DB must be a non-negative integer")
	}
	cfg.ValkeyDB = db

	if v := os.Getenv("AUTOSAVE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < time.Second {
			return nil, fmt.Errorf("AUTOSAVE_INTERVAL must be a duration of at least 1s, got %q", v)
		}
		cfg.AutosaveInterval = d
	}

	switch cfg.StorageBackend {
	case "file", "sqlite", "postgres", "mysql", "valkey", "mongo", "memory":
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND %q is not supported", cfg.StorageBackend)
	}

	if cfg.Env == "production" {
		if cfg.SecretKey == "" {
			return nil, fmt.Errorf("SECRET_KEY must be set in production")
		}
		if cfg.EditorPasswordHash == "" {
			return nil, fmt.Errorf("EDITOR_PASSWORD_HASH must be set in production")
		}
		if cfg.StorageBackend == "postgres" && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}
	if cfg.SecretKey == "" {
		slog.Warn("SECRET_KEY not set, using the development key")
		cfg.SecretKey = devSecretKey
	}

	return cfg, nil
}

func providerFromEnv(prefix string) Provider {
	return Provider{
		APIKey:     os.Getenv(prefix + "_API_KEY"),
		Model:      os.Getenv(prefix + "_MODEL"),
		ImageModel: os.Getenv(prefix + "_MODEL_IMAGE"),
		BaseURL:    os.Getenv(prefix + "_BASE_URL"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// NeedsValkey reports whether any configured component uses Valkey. The
// HTML cache and sessions use it opportunistically; the valkey storage
// backend requires it.
func (c *Config) NeedsValkey() bool {
	return c.StorageBackend == "valkey"
}

// StorageConfigured reports whether S3 publishing is configured.
func (c *Config) StorageConfigured() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
