package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "projet/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	Log             Log
	Database        Database
	Redis           RedisConfig
	Kafka           Kafka
	Secrets         Secrets
}

// Log selects the slog handler.
type Log struct {
	Level  string
	Format string
}

// Database configures PostgreSQL. An empty URL selects the in-memory stores.
type Database struct {
	URL       string
	TxTimeout time.Duration
}

// RedisConfig configures the record cache. An empty URL disables caching.
type RedisConfig struct {
	URL          string
	CacheTTL     time.Duration
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures entity change events. No brokers selects the log publisher.
type Kafka struct {
	Brokers           []string
	Topic             string
	EnsureTopic       bool
	ReplicationFactor int16
}

// Secrets configures credential hashing.
type Secrets struct {
	BcryptCost int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:            envString("PROJET_ADDR", ":8080"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		RequestTimeout:  envDuration("REQUEST_TIMEOUT", 30*time.Second),
		Log: Log{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "json"),
		},
		Database: Database{
			URL:       os.Getenv("DATABASE_URL"),
			TxTimeout: envDuration("TX_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			CacheTTL:     envDuration("REDIS_CACHE_TTL", 10*time.Minute),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:           envList("KAFKA_BROKERS"),
			Topic:             envString("KAFKA_TOPIC", "projet.registry.changes"),
			EnsureTopic:       os.Getenv("KAFKA_ENSURE_TOPIC") == "true",
			ReplicationFactor: int16(envInt("KAFKA_REPLICATION_FACTOR", 1)),
		},
		Secrets: Secrets{
			BcryptCost: envInt("BCRYPT_COST", 0),
		},
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func envList(key string) []string {
	return pstrings.SplitList(os.Getenv(key), ",")
}
