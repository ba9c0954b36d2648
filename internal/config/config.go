package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// TieBreak selects the ordering policy the allocator uses when several
// available slots match a request.
type TieBreak string

const (
	// TieBreakLeastOccupied prefers the locker with the lowest current
	// occupancy, then the lowest slot id.
	TieBreakLeastOccupied TieBreak = "least_occupied"
	// TieBreakLowestID orders by slot id only.
	TieBreakLowestID TieBreak = "lowest_id"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string

	ReservationLease time.Duration
	PickupWindow     time.Duration

	CodeLength       int
	CodeMaxAttempts  int
	AllocationPolicy TieBreak

	ReclaimInterval  time.Duration
	ReclaimBatchSize int

	KafkaBrokers []string
	AuditTopic   string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
}

// Load reads .env (if present next to the working directory or one or two
// levels up) and builds the engine configuration from environment variables.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "9000"),
		DatabaseDSN:        buildDSN(),
		ReservationLease:   getDuration("RESERVATION_LEASE", 15*time.Minute),
		PickupWindow:       getDuration("PICKUP_WINDOW", 72*time.Hour),
		CodeLength:         getInt("PICKUP_CODE_LENGTH", 6),
		CodeMaxAttempts:    getInt("PICKUP_CODE_MAX_ATTEMPTS", 25),
		AllocationPolicy:   TieBreak(getEnv("ALLOCATION_POLICY", string(TieBreakLeastOccupied))),
		ReclaimInterval:    getDuration("RECLAIM_INTERVAL", time.Minute),
		ReclaimBatchSize:   getInt("RECLAIM_BATCH_SIZE", 100),
		KafkaBrokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		AuditTopic:         getEnv("AUDIT_TOPIC", "audit_events"),
		OutboxPollInterval: getDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:    getInt("OUTBOX_BATCH_SIZE", 50),
		OutboxMaxAttempts:  getInt("OUTBOX_MAX_ATTEMPTS", 5),
	}

	switch cfg.AllocationPolicy {
	case TieBreakLeastOccupied, TieBreakLowestID:
	default:
		return nil, fmt.Errorf("unknown ALLOCATION_POLICY %q", cfg.AllocationPolicy)
	}
	if cfg.CodeLength < 4 {
		return nil, fmt.Errorf("PICKUP_CODE_LENGTH must be at least 4, got %d", cfg.CodeLength)
	}

	return cfg, nil
}

func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	for _, envPath := range []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	} {
		if err := godotenv.Load(envPath); err == nil {
			return
		}
	}
}

func buildDSN() string {
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		return dsn
	}
	host := getEnv("DB_HOST", "localhost")
	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	user := getEnv("POSTGRES_USER", "postgres")
	password := os.Getenv("POSTGRES_PASSWORD")
	dbname := getEnv("POSTGRES_DB", "lockerd")

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
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

func getDuration(key string, fallback time.Duration) time.Duration {
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
