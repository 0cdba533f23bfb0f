package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	defaultEnv           = "development"
	defaultPort          = 8080
	defaultLogLevel      = "info"
	defaultStore         = StorePostgres
	defaultWorkers       = 5
	defaultQueueSize     = 100
	defaultCacheTTL      = 30
	defaultCurrency      = "INR"
	defaultWalletBalance = "100000"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config keeps the runtime configuration for the service.
type Config struct {
	Env      string
	LogLevel string
	Store    string
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Orders   OrdersConfig
	Ledger   LedgerConfig
}

// HTTPConfig holds HTTP server related settings.
type HTTPConfig struct {
	Port    int
	GinMode string
}

// Addr renders the listen address.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", h.Port)
}

// PostgresConfig stores database connection parameters.
type PostgresConfig struct {
	DSN string
}

// RedisConfig stores Redis connection parameters. An empty Addr disables
// the catalog cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// OrdersConfig sizes the order worker pool.
type OrdersConfig struct {
	Workers   int
	QueueSize int
}

// LedgerConfig holds money settings.
type LedgerConfig struct {
	Currency             string
	DefaultWalletBalance decimal.Decimal
}

// Load reads an optional .env file and builds Config from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds Config from environment variables only.
func FromEnv() (*Config, error) {
	port, err := getInt("PORT", defaultPort)
	if err != nil {
		return nil, err
	}
	workers, err := getInt("NUM_WORKERS", defaultWorkers)
	if err != nil {
		return nil, err
	}
	queueSize, err := getInt("QUEUE_SIZE", defaultQueueSize)
	if err != nil {
		return nil, err
	}
	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getInt("CATALOG_CACHE_TTL_SECONDS", defaultCacheTTL)
	if err != nil {
		return nil, err
	}
	walletBalance, err := decimal.NewFromString(getString("DEFAULT_WALLET_BALANCE", defaultWalletBalance))
	if err != nil {
		return nil, fmt.Errorf("parse DEFAULT_WALLET_BALANCE: %w", err)
	}
	if walletBalance.IsNegative() {
		return nil, fmt.Errorf("DEFAULT_WALLET_BALANCE must not be negative")
	}

	store := getString("STORE", defaultStore)
	if store != StorePostgres && store != StoreMemory {
		return nil, fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, store)
	}

	logLevel := getString("LOG_LEVEL", defaultLogLevel)
	if _, err := logrus.ParseLevel(logLevel); err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	return &Config{
		Env:      getString("APP_ENV", defaultEnv),
		LogLevel: logLevel,
		Store:    store,
		HTTP: HTTPConfig{
			Port:    port,
			GinMode: os.Getenv("GIN_MODE"),
		},
		Postgres: PostgresConfig{
			DSN: postgresDSN(),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			TTL:      time.Duration(cacheTTL) * time.Second,
		},
		Orders: OrdersConfig{
			Workers:   workers,
			QueueSize: queueSize,
		},
		Ledger: LedgerConfig{
			Currency:             getString("CURRENCY", defaultCurrency),
			DefaultWalletBalance: walletBalance,
		},
	}, nil
}

// NewLogger builds the process logger: JSON in production, text otherwise.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	if c.Env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(level)
	}
	return log
}

// postgresDSN prefers DATABASE_DSN and otherwise assembles one from the
// DB_* variables.
func postgresDSN() string {
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getString("DB_HOST", "localhost"),
		getString("DB_PORT", "5432"),
		getString("DB_USER", "ledger"),
		getString("DB_PASSWORD", "ledger"),
		getString("DB_NAME", "wealthstream"),
	)
}

// Helper function to get environment variable with default
func getString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int: %w", key, value, err)
	}
	return parsed, nil
}
