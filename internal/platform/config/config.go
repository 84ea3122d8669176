// Package config builds process configuration from the environment so main
// stays lean and nothing reads ambient globals after startup.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every knob the server needs, populated once in main and
// passed explicitly to the components that use it.
type Config struct {
	Addr string

	JWT      JWTConfig
	Password PasswordConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Notify   NotifyConfig
}

// JWTConfig covers token issuance. The signing key default exists only for
// local development.
type JWTConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// PasswordConfig controls bcrypt hashing for identity.
type PasswordConfig struct {
	BcryptCost int
}

// PostgresConfig selects the persistent store. Empty URL means the in-memory
// stack (local development, unit tests).
type PostgresConfig struct {
	URL string
}

// RedisConfig configures the optional public-report cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	ReportTTL    time.Duration
}

// KafkaConfig configures the optional audit event sink. No brokers means
// audit events stay in the local store only.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// NotifyConfig configures outbound notifications.
type NotifyConfig struct {
	Sender string
}

// FromEnv builds a Config from environment variables, applying development
// defaults where unset.
func FromEnv() Config {
	return Config{
		Addr: envOr("VOUCH_ADDR", ":8080"),
		JWT: JWTConfig{
			SigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:     envOr("JWT_ISSUER", "vouch"),
			Audience:   envOr("JWT_AUDIENCE", "vouch-api"),
			AccessTTL:  envDuration("JWT_ACCESS_TTL", 30*time.Minute),
			RefreshTTL: envDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		Password: PasswordConfig{
			BcryptCost: envInt("BCRYPT_COST", 12),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			ReportTTL:    envDuration("REPORT_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: envList("KAFKA_BROKERS"),
			Topic:   envOr("KAFKA_AUDIT_TOPIC", "vouch.audit"),
		},
		Notify: NotifyConfig{
			Sender: envOr("NOTIFY_SENDER", "no-reply@vouch.local"),
		},
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
		return fallback
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
