// Package config loads service configuration from the environment so main
// stays lean. Every knob has a development default; production deployments
// override them.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the full configuration surface of the service.
type Config struct {
	Addr     string
	LogLevel string

	// Posture of the auth gate.
	JWTSigningKey string
	JWTIssuer     string
	TokenTTL      time.Duration

	// Fixed-window rate limiting, per client address.
	RateLimitWindow time.Duration
	RateLimitMax    int

	// Per-subscriber lag buffer of the broadcast hub.
	BroadcastBuffer int

	// Empty URLs select the in-memory store variants.
	PostgresURL string
	RedisURL    string

	ShutdownTimeout time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:            envString("ZEVIS_ADDR", ":3000"),
		LogLevel:        envString("ZEVIS_LOG_LEVEL", "info"),
		JWTSigningKey:   envString("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:       os.Getenv("JWT_ISSUER"),
		TokenTTL:        envDuration("TOKEN_TTL", 24*time.Hour),
		RateLimitWindow: envDuration("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitMax:    envInt("RATE_LIMIT_MAX", 200),
		BroadcastBuffer: envInt("BROADCAST_BUFFER", 100),
		PostgresURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
