package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a pgx connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Kafka stores supplier-application consumer settings. Empty brokers or
// topic disable the worker consumer.
type Kafka struct {
	Brokers []string
	GroupID string
	Topic   string
}

// RateLimit stores token-bucket settings for mutation endpoints.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Identity stores session-service gateway settings. An empty BaseURL
// disables the gateway and falls back to trusted actor headers.
type Identity struct {
	BaseURL     string
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Scheduling stores negotiation service settings.
type Scheduling struct {
	OperationTimeout time.Duration
	ConflictRetries  int
}

// Pprof stores debug server settings. An empty Addr disables it.
type Pprof struct {
	Addr string
	User string
	Pass string
}

// Config stores scheduling service settings.
type Config struct {
	Port       int
	DB         DB
	Kafka      Kafka
	RateLimit  RateLimit
	Identity   Identity
	Scheduling Scheduling
	Pprof      Pprof
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:       DefaultPort(),
		DB:         DefaultDB(),
		Kafka:      DefaultKafka(),
		RateLimit:  DefaultRateLimit(),
		Identity:   DefaultIdentity(),
		Scheduling: DefaultScheduling(),
		Pprof:      DefaultPprof(),
	}

	cfg.Port = envInt("PORT", cfg.Port)

	cfg.DB.Host = envStr("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = envStr("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = envStr("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = envStr("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = envStr("POSTGRES_DB", cfg.DB.Name)

	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		cfg.Kafka.Brokers = splitCSV(v)
	}
	cfg.Kafka.GroupID = envStr("KAFKA_GROUP_ID", cfg.Kafka.GroupID)
	cfg.Kafka.Topic = envStr("KAFKA_TOPIC", cfg.Kafka.Topic)

	cfg.RateLimit.Enabled = envBool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Rate = envFloat("RATE_LIMIT_RATE", cfg.RateLimit.Rate)
	cfg.RateLimit.Burst = envInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.TTL = envDuration("RATE_LIMIT_TTL", cfg.RateLimit.TTL)
	cfg.RateLimit.MaxBuckets = envInt("RATE_LIMIT_MAX_BUCKETS", cfg.RateLimit.MaxBuckets)

	cfg.Identity.BaseURL = envStr("IDENTITY_BASE_URL", cfg.Identity.BaseURL)
	cfg.Identity.MaxAttempts = envInt("IDENTITY_MAX_ATTEMPTS", cfg.Identity.MaxAttempts)
	cfg.Identity.BaseDelay = envDuration("IDENTITY_BASE_DELAY", cfg.Identity.BaseDelay)
	cfg.Identity.MaxDelay = envDuration("IDENTITY_MAX_DELAY", cfg.Identity.MaxDelay)

	cfg.Scheduling.OperationTimeout = envDuration("SCHEDULING_OPERATION_TIMEOUT", cfg.Scheduling.OperationTimeout)
	cfg.Scheduling.ConflictRetries = envInt("SCHEDULING_CONFLICT_RETRIES", cfg.Scheduling.ConflictRetries)

	cfg.Pprof.Addr = envStr("PPROF_ADDR", cfg.Pprof.Addr)
	cfg.Pprof.User = envStr("PPROF_USER", cfg.Pprof.User)
	cfg.Pprof.Pass = envStr("PPROF_PASSWORD", cfg.Pprof.Pass)

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.Parse()

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Scheduling.ConflictRetries < 1 {
		return nil, fmt.Errorf("invalid conflict retries: %d", cfg.Scheduling.ConflictRetries)
	}
	return cfg, nil
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
