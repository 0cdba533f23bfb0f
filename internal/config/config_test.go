package config

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "NUM_WORKERS", "STORE", "DATABASE_DSN", "REDIS_ADDR", "CURRENCY", "LOG_LEVEL", "APP_ENV", "DB_NAME", "QUEUE_SIZE", "CATALOG_CACHE_TTL_SECONDS", "DEFAULT_WALLET_BALANCE"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.HTTP.Addr() != ":8080" {
		t.Errorf("Expected addr :8080, got %s", cfg.HTTP.Addr())
	}
	if cfg.Orders.Workers != 5 || cfg.Orders.QueueSize != 100 {
		t.Errorf("Expected 5 workers and queue 100, got %+v", cfg.Orders)
	}
	if cfg.Store != StorePostgres {
		t.Errorf("Expected postgres store, got %s", cfg.Store)
	}
	if !strings.Contains(cfg.Postgres.DSN, "dbname=wealthstream") {
		t.Errorf("Expected assembled DSN, got %s", cfg.Postgres.DSN)
	}
	if cfg.Redis.TTL != 30*time.Second {
		t.Errorf("Expected cache TTL 30s, got %s", cfg.Redis.TTL)
	}
	if cfg.Ledger.Currency != "INR" || cfg.Ledger.DefaultWalletBalance.String() != "100000" {
		t.Errorf("Unexpected ledger config %+v", cfg.Ledger)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("NUM_WORKERS", "8")
	t.Setenv("STORE", "memory")
	t.Setenv("DATABASE_DSN", "postgres://u:p@db/ledger")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.Orders.Workers != 8 || cfg.Store != StoreMemory {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
	if cfg.Postgres.DSN != "postgres://u:p@db/ledger" {
		t.Errorf("Expected DATABASE_DSN to win, got %s", cfg.Postgres.DSN)
	}

	log := cfg.NewLogger()
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("Expected JSON formatter in production, got %T", log.Formatter)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug level, got %s", log.GetLevel())
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct{ key, value string }{
		{"PORT", "eighty"},
		{"NUM_WORKERS", "x"},
		{"STORE", "mongo"},
		{"LOG_LEVEL", "loud"},
		{"DEFAULT_WALLET_BALANCE", "lots"},
		{"DEFAULT_WALLET_BALANCE", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
