package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Reference values for the liveness machinery.
const (
	// DefaultHeartbeatInterval is how often the monitor probes every session.
	DefaultHeartbeatInterval = 30 * time.Second
	// DefaultIdleTimeout closes a connection with no traffic at all.
	DefaultIdleTimeout = 5 * time.Minute
	// DefaultSendTimeout bounds every outbound write so a stalled client
	// cannot wedge a pump.
	DefaultSendTimeout = 10 * time.Second
	// DefaultOnlineTTL is the lifetime of a Redis presence key between
	// heartbeat refreshes. Must outlast at least two sweep intervals.
	DefaultOnlineTTL = 90 * time.Second

	DefaultTokenTTL = 72 * time.Hour
)

// Config carries everything cmd/main needs to wire the process.
type Config struct {
	HTTPAddr    string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	TokenTTL  time.Duration

	HeartbeatInterval time.Duration
	IdleTimeout       time.Duration
	SendTimeout       time.Duration
	OnlineTTL         time.Duration
}

// Load reads the configuration from the environment, falling back to
// development defaults. A .env file, if present, is loaded by the caller
// before this runs.
func Load() Config {
	return Config{
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),
		PostgresDSN: envOr("POSTGRES_DSN",
			"host=localhost user=user password=password dbname=dategogodb port=5432 sslmode=disable"),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envOr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		JWTSecret: envOr("JWT_SECRET", "dev-only-secret"),
		TokenTTL:  envDuration("TOKEN_TTL", DefaultTokenTTL),

		HeartbeatInterval: envDuration("HEARTBEAT_INTERVAL", DefaultHeartbeatInterval),
		IdleTimeout:       envDuration("IDLE_TIMEOUT", DefaultIdleTimeout),
		SendTimeout:       envDuration("SEND_TIMEOUT", DefaultSendTimeout),
		OnlineTTL:         envDuration("ONLINE_TTL", DefaultOnlineTTL),
	}
}

func envOr(key, fallback string) string {
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
	if err != nil {
		log.Printf("WARNING: Invalid %s=%q, using %d", key, v, fallback)
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
	if err != nil {
		log.Printf("WARNING: Invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
