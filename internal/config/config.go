package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                     string
	DBPath                   string
	LogLevel                 string
	LandmarkBackend          string
	LandmarkSidecarURL       string
	LandmarkTimeoutMillis    int
	DetectionIntervalSeconds int
	SmoothingAlpha           float64
	RetentionDays            int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                     envOr("ADDR", ":8080"),
		DBPath:                   envOr("DB_PATH", "file:sitwell.db"),
		LogLevel:                 envOr("LOG_LEVEL", "INFO"),
		LandmarkBackend:          envOr("LANDMARK_BACKEND", "sidecar"),
		LandmarkSidecarURL:       envOr("LANDMARK_SIDECAR_URL", "http://127.0.0.1:9821"),
		LandmarkTimeoutMillis:    envIntOr("LANDMARK_TIMEOUT_MS", 2000),
		DetectionIntervalSeconds: envIntOr("DETECTION_INTERVAL_SECONDS", 300),
		SmoothingAlpha:           envFloatOr("SMOOTHING_ALPHA", 0.3),
		RetentionDays:            envIntOr("RETENTION_DAYS", 7),
	}
}

// Validate checks the configuration for values that would break startup,
// collecting every problem into one error.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	switch c.LandmarkBackend {
	case "sidecar", "disabled":
	default:
		problems = append(problems, fmt.Sprintf("LANDMARK_BACKEND %q is not one of sidecar, disabled", c.LandmarkBackend))
	}
	if c.LandmarkBackend == "sidecar" && c.LandmarkSidecarURL == "" {
		problems = append(problems, "LANDMARK_SIDECAR_URL cannot be empty when LANDMARK_BACKEND=sidecar")
	}
	if c.LandmarkTimeoutMillis <= 0 {
		problems = append(problems, "LANDMARK_TIMEOUT_MS must be positive")
	}
	if c.DetectionIntervalSeconds < 1 {
		problems = append(problems, "DETECTION_INTERVAL_SECONDS must be at least 1")
	}
	if c.SmoothingAlpha <= 0 || c.SmoothingAlpha > 1 {
		problems = append(problems, "SMOOTHING_ALPHA must be in (0, 1]")
	}
	if c.RetentionDays < 1 {
		problems = append(problems, "RETENTION_DAYS must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}
