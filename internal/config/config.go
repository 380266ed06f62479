package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port        int
	Environment string
	Database    DatabaseConfig
	CORSOrigins []string
	Engine      EngineConfig
	Retention   RetentionConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type         string // postgres
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// EngineConfig holds the aggregation engine tunables. They travel as one
// struct into the engine so tests can pin them instead of reading env state.
type EngineConfig struct {
	DefaultWarningMs  int
	DefaultCriticalMs int
	DownFloorPercent  float64
	SeriesBuckets     int
	QueryTimeout      time.Duration
	SnapshotCacheTTL  time.Duration
}

// RetentionConfig holds background-job settings
type RetentionConfig struct {
	HeartbeatMaxAge time.Duration
}

// Load loads configuration from the environment, reading a local .env file
// first when present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		Environment: getEnv("ENVIRONMENT", "production"),
		Database: DatabaseConfig{
			Type:         getEnv("DATABASE_TYPE", "postgres"),
			DSN:          getEnv("DATABASE_DSN", buildPostgresDSN()),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		},
		CORSOrigins: loadCORSOrigins(),
		Engine: EngineConfig{
			DefaultWarningMs:  getEnvInt("DEFAULT_WARNING_THRESHOLD_MS", 500),
			DefaultCriticalMs: getEnvInt("DEFAULT_CRITICAL_THRESHOLD_MS", 1000),
			DownFloorPercent:  getEnvFloat("DOWN_SUCCESS_FLOOR_PERCENT", 0),
			SeriesBuckets:     getEnvInt("SERIES_BUCKETS", 50),
			QueryTimeout:      getEnvDuration("STORE_QUERY_TIMEOUT", 10*time.Second),
			SnapshotCacheTTL:  getEnvDuration("SNAPSHOT_CACHE_TTL", 5*time.Second),
		},
		Retention: RetentionConfig{
			HeartbeatMaxAge: getEnvDuration("HEARTBEAT_RETENTION", 90*24*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	return cfg
}

func buildPostgresDSN() string {
	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "statuspulse")
	password := getEnv("POSTGRES_PASSWORD", "secret")
	dbName := getEnv("POSTGRES_DB", "statuspulse")
	sslMode := getEnv("POSTGRES_SSLMODE", "disable")

	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(user, password),
		Host:   fmt.Sprintf("%s:%s", host, port),
		Path:   dbName,
	}

	query := u.Query()
	query.Set("sslmode", sslMode)
	u.RawQuery = query.Encode()

	return u.String()
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if len(c.CORSOrigins) == 0 {
		return fmt.Errorf("at least one CORS origin must be configured")
	}
	if c.Engine.DefaultWarningMs < 0 || c.Engine.DefaultCriticalMs < 0 {
		return fmt.Errorf("latency thresholds must be non-negative")
	}
	if c.Engine.DefaultCriticalMs < c.Engine.DefaultWarningMs {
		return fmt.Errorf("DEFAULT_CRITICAL_THRESHOLD_MS must be >= DEFAULT_WARNING_THRESHOLD_MS")
	}
	if c.Engine.DownFloorPercent < 0 || c.Engine.DownFloorPercent >= 100 {
		return fmt.Errorf("DOWN_SUCCESS_FLOOR_PERCENT must be in [0, 100)")
	}
	if c.Engine.SeriesBuckets <= 0 {
		return fmt.Errorf("SERIES_BUCKETS must be positive")
	}
	return nil
}

func loadCORSOrigins() []string {
	if appURL := os.Getenv("APP_URL"); appURL != "" {
		return []string{appURL}
	}
	return []string{"http://localhost:3000", "http://localhost:8080"}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
