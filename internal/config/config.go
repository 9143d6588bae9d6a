package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the demo host service.
type Config struct {
	Port            string
	LogLevel        string
	DocsPath        string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// Load reads settings from the environment, after loading any .env file in
// the working directory. Variables already set in the environment win over
// the file.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv files. Missing files are ignored.
func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var errs []error
	cfg := &Config{
		Port:     getString("PORT", "8080"),
		LogLevel: getString("LOG_LEVEL", "info"),
		DocsPath: getString("DOCS_PATH", "/api-docs"),
	}
	cfg.MaxBodyBytes, errs = getInt64("MAX_BODY_BYTES", 1<<20, errs)
	cfg.ShutdownTimeout, errs = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second, errs)

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64, errs []error) (int64, []error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, errs
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return fallback, append(errs, fmt.Errorf("%s must be a positive integer, got %q", key, v))
	}
	return n, errs
}

func getDuration(key string, fallback time.Duration, errs []error) (time.Duration, []error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, errs
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback, append(errs, fmt.Errorf("%s must be a positive duration, got %q", key, v))
	}
	return d, errs
}
