package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"taxwizard/internal/database"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config is the process configuration read from configs/.env and the environment
type Config struct {
	Port             string
	GinMode          string
	LogLevel         string
	CORSAllowOrigins []string
	StorageDriver    string
	Database         database.Config

	GoogleAIAPIKey  string
	GoogleAIBaseURL string
	GoogleAIModel   string
	AIHTTPTimeout   time.Duration

	ShutdownTimeout time.Duration
}

// LoadEnvFile loads path into the environment. A missing file is not an error
// for the caller to act on; it is reported so main can log it.
func LoadEnvFile(path string) error {
	return godotenv.Load(path)
}

// Load builds the configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS",
			"http://localhost:5173,http://127.0.0.1:5173,http://localhost:5174")),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		GoogleAIAPIKey:  os.Getenv("GOOGLE_AI_API_KEY"),
		GoogleAIBaseURL: getEnv("GOOGLE_AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GoogleAIModel:   getEnv("GOOGLE_AI_MODEL", "gemini-2.0-flash-exp"),
	}

	var err error
	if cfg.AIHTTPTimeout, err = getDuration("AI_HTTP_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if cfg.StorageDriver != StorageMemory && cfg.StorageDriver != StoragePostgres {
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (want %s or %s)", cfg.StorageDriver, StorageMemory, StoragePostgres)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
