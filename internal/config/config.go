package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the check service configuration. The console program takes
// no configuration.
type Config struct {
	// Server settings
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// Redis settings
	RedisURL          string
	RedisPoolSize     int
	RedisMinIdle      int
	RedisDialTimeout  time.Duration
	RedisReadTimeout  time.Duration
	RedisWriteTimeout time.Duration
	RedisPoolTimeout  time.Duration

	// Check sessions
	SessionTTL time.Duration

	// Rate limiting, per client IP and minute
	CreateRateLimit  int
	AttemptRateLimit int

	// Shutdown settings
	ShutdownTimeout time.Duration

	// Security settings
	RequireHTTPS bool // enforce HTTPS with HSTS header (disable with NO_HTTPS=1)
}

func DefaultConfig() Config {
	return Config{
		Port:              "8080",
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB

		RedisURL:          "redis://localhost:6379/0",
		RedisPoolSize:     10,
		RedisMinIdle:      2,
		RedisDialTimeout:  5 * time.Second,
		RedisReadTimeout:  3 * time.Second,
		RedisWriteTimeout: 3 * time.Second,
		RedisPoolTimeout:  4 * time.Second,

		SessionTTL: 10 * time.Minute,

		CreateRateLimit:  20,
		AttemptRateLimit: 60,

		ShutdownTimeout: 5 * time.Second,

		RequireHTTPS: true,
	}
}

// Load reads configuration from environment variables and validates it.
func Load() (Config, error) {
	cfg := DefaultConfig()

	// Server settings
	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return Config{}, fmt.Errorf("PORT must be a valid number: %w", err)
		}
		cfg.Port = port
	}

	// Redis settings
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.RedisURL = redisURL
	}

	if poolSize := os.Getenv("REDIS_POOL_SIZE"); poolSize != "" {
		size, err := strconv.Atoi(poolSize)
		if err != nil || size < 1 {
			return Config{}, errors.New("REDIS_POOL_SIZE must be a positive integer")
		}
		cfg.RedisPoolSize = size
	}

	if minIdle := os.Getenv("REDIS_MIN_IDLE"); minIdle != "" {
		idle, err := strconv.Atoi(minIdle)
		if err != nil || idle < 0 {
			return Config{}, errors.New("REDIS_MIN_IDLE must be a non-negative integer")
		}
		cfg.RedisMinIdle = idle
	}

	// Check sessions
	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		dur, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, fmt.Errorf("SESSION_TTL must be a valid duration: %w", err)
		}
		if dur < time.Second {
			return Config{}, errors.New("SESSION_TTL must be at least 1s")
		}
		cfg.SessionTTL = dur
	}

	// Rate limiting
	if limit := os.Getenv("RATE_LIMIT_CREATE"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return Config{}, errors.New("RATE_LIMIT_CREATE must be a positive integer")
		}
		cfg.CreateRateLimit = n
	}

	if limit := os.Getenv("RATE_LIMIT_ATTEMPT"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return Config{}, errors.New("RATE_LIMIT_ATTEMPT must be a positive integer")
		}
		cfg.AttemptRateLimit = n
	}

	// Shutdown settings
	if timeout := os.Getenv("SHUTDOWN_TIMEOUT"); timeout != "" {
		dur, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf(
				"SHUTDOWN_TIMEOUT must be a valid duration: %w", err)
		}
		cfg.ShutdownTimeout = dur
	}

	// Security settings
	if noHTTPS := os.Getenv("NO_HTTPS"); noHTTPS == "1" || noHTTPS == "true" {
		cfg.RequireHTTPS = false
	}

	return cfg, nil
}

func (c Config) ListenAddr() string {
	return ":" + c.Port
}
