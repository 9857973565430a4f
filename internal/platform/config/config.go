package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full process configuration assembled from the environment.
// Empty backend URLs select in-memory implementations at construction time.
type Config struct {
	Server   Server
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Crypto   CryptoConfig
	Anchor   AnchorConfig
	Signing  SigningConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	LogLevel        string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// DatabaseConfig configures the PostgreSQL pool used by the credential and revocation stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the Redis client backing the blob store and anchor index.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the anchor ledger topic and the activity topic.
type KafkaConfig struct {
	Brokers         string
	AnchorTopic     string
	ActivityTopic   string
	Acks            string
	Retries         int
	DeliveryTimeout time.Duration
}

// CryptoConfig holds payload encryption key material.
// Key takes precedence; Passphrase is stretched with HKDF using PassphraseSalt.
type CryptoConfig struct {
	Key            string
	Passphrase     string
	PassphraseSalt string
}

// AnchorConfig tunes retries, rate limiting and circuit breaking for ledger submissions.
type AnchorConfig struct {
	MaxAttempts      int
	Backoff          time.Duration
	RatePerSecond    float64
	Burst            int
	FailureThreshold int
	Cooldown         time.Duration
}

// SigningConfig configures the issuance signer. Empty key uses placeholder signatures.
type SigningConfig struct {
	JWTKey string
	Issuer string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            getEnv("CREDVAULT_ADDR", ":8080"),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  getDuration("REQUEST_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:         os.Getenv("KAFKA_BROKERS"),
			AnchorTopic:     getEnv("KAFKA_ANCHOR_TOPIC", "credvault.anchors"),
			ActivityTopic:   getEnv("KAFKA_ACTIVITY_TOPIC", "credvault.activity"),
			Acks:            getEnv("KAFKA_ACKS", "all"),
			Retries:         getInt("KAFKA_RETRIES", 3),
			DeliveryTimeout: getDuration("KAFKA_DELIVERY_TIMEOUT", 30*time.Second),
		},
		Crypto: CryptoConfig{
			Key:            os.Getenv("ENCRYPTION_KEY"),
			Passphrase:     os.Getenv("ENCRYPTION_PASSPHRASE"),
			PassphraseSalt: getEnv("ENCRYPTION_PASSPHRASE_SALT", "credvault"),
		},
		Anchor: AnchorConfig{
			MaxAttempts:      getInt("ANCHOR_MAX_ATTEMPTS", 3),
			Backoff:          getDuration("ANCHOR_BACKOFF", 200*time.Millisecond),
			RatePerSecond:    getFloat("ANCHOR_RATE_PER_SECOND", 50),
			Burst:            getInt("ANCHOR_BURST", 10),
			FailureThreshold: getInt("ANCHOR_FAILURE_THRESHOLD", 5),
			Cooldown:         getDuration("ANCHOR_COOLDOWN", 10*time.Second),
		},
		Signing: SigningConfig{
			JWTKey: os.Getenv("ISSUANCE_SIGNING_KEY"),
			Issuer: getEnv("ISSUANCE_SIGNER", "credvault"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
