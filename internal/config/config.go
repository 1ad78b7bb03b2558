// Package config reads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	// Load .env file to environments
	_ "github.com/joho/godotenv/autoload"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// DefaultAllowOrigin is used when ALLOW_ORIGIN is unset. CORS refuses an empty origin list.
const DefaultAllowOrigin = "http://localhost:3000"

// Config holds the settings of the HTTP service.
type Config struct {
	Port               int
	AllowOrigins       []string
	RateLimitPerSecond uint
	RedisAddr          string
	RedisPassword      string

	Visibility      workflow.VisibilityRule
	BulkConcurrency int

	LogMode  string
	LogLevel string
}

// Load builds a Config from environment variables. Unset values get defaults;
// malformed values are errors.
func Load() (Config, error) {
	cfg := Config{
		Port:               8080,
		RateLimitPerSecond: 5,
		BulkConcurrency:    4,
		LogMode:            "console",
		LogLevel:           "info",
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return cfg, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}

	for _, origin := range strings.Split(os.Getenv("ALLOW_ORIGIN"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{DefaultAllowOrigin}
	}

	// Invalid or non-positive values fall back to the default, like the rate limiter always did
	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS_PER_SECOND")); err == nil && v > 0 {
		cfg.RateLimitPerSecond = uint(v)
	}

	if v := os.Getenv("BULK_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid BULK_CONCURRENCY %q", v)
		}
		cfg.BulkConcurrency = n
	}

	internship, err := workflow.ParseInternshipVisibility(os.Getenv("INTERNSHIP_VISIBILITY"))
	if err != nil {
		return cfg, err
	}
	cfg.Visibility = workflow.VisibilityRule{Internship: internship}

	if v := strings.TrimSpace(os.Getenv("LOG_MODE")); v != "" {
		cfg.LogMode = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}
